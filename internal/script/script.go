// Package script evaluates sandboxed Lua snippets that compute replacement
// text for splice rules. A snippet receives the matched original text and any
// capture groups as globals and must return the replacement string.
package script

import (
	"context"
	"errors"
	"fmt"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultTimeout bounds a single evaluation. Best-effort: Lua code that never
// yields cannot be interrupted mid-instruction.
const DefaultTimeout = 5 * time.Second

// Errors returned by script evaluation.
var (
	// ErrNotString is returned when a script returns a non-string value.
	ErrNotString = errors.New("script did not return a string")
)

// Engine evaluates replacement scripts. Every evaluation runs in a fresh
// sandboxed Lua state, so scripts cannot leak state into each other and the
// Engine is safe for sequential reuse across rules.
type Engine struct {
	timeout time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout sets the per-evaluation timeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.timeout = d
	}
}

// New creates a script engine.
func New(opts ...Option) *Engine {
	e := &Engine{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Eval runs code against the matched text and its capture groups and returns
// the computed replacement. The script sees the globals:
//
//	match   the full matched original text
//	group   table of capture group texts, 1-indexed
//
// and must end with a return statement producing a string.
func (e *Engine) Eval(code string, matched string, groups []string) (string, error) {
	L := lua.NewState(lua.Options{
		SkipOpenLibs: true, // open selectively below
	})
	defer L.Close()

	openSafeLibraries(L)
	installSandbox(L)

	if e.timeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
		defer cancel()
		L.SetContext(ctx)
	}

	L.SetGlobal("match", lua.LString(matched))

	groupTable := L.NewTable()
	for i, g := range groups {
		groupTable.RawSetInt(i+1, lua.LString(g))
	}
	L.SetGlobal("group", groupTable)

	if err := L.DoString(code); err != nil {
		return "", fmt.Errorf("evaluating replacement script: %w", err)
	}

	ret := L.Get(-1)
	str, ok := ret.(lua.LString)
	if !ok {
		return "", fmt.Errorf("got %s: %w", ret.Type(), ErrNotString)
	}
	return string(str), nil
}

// openSafeLibraries opens only safe Lua standard libraries.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	// Intentionally NOT opened:
	// - io (file system access)
	// - os (system calls, execute)
	// - debug (can bypass sandbox)
	// - package (can load arbitrary modules)
}

// installSandbox removes base-library functions that could load code from
// outside the snippet.
func installSandbox(L *lua.LState) {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}
}
