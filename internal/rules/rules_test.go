package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/multisplice/internal/script"
	"github.com/dshills/multisplice/splice"
)

func intp(n int) *int { return &n }

func strp(s string) *string { return &s }

func writeRuleFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadTOML(t *testing.T) {
	path := writeRuleFile(t, "plan.toml", `
[[rule]]
start = 2
end = 3
replace = "beep"

[[rule]]
pattern = "d"
replace = "boop"
`)

	plan, err := Load(path)
	require.NoError(t, err)
	require.Len(t, plan.Rules, 2)

	assert.Equal(t, 2, *plan.Rules[0].Start)
	assert.Equal(t, 3, *plan.Rules[0].End)
	assert.Equal(t, "beep", *plan.Rules[0].Replace)
	assert.Equal(t, "d", plan.Rules[1].Pattern)
}

func TestLoadYAML(t *testing.T) {
	path := writeRuleFile(t, "plan.yaml", `
rules:
  - start: 2
    end: 3
    replace: beep
  - pattern: d
    replace: boop
`)

	plan, err := Load(path)
	require.NoError(t, err)
	require.Len(t, plan.Rules, 2)
	assert.Equal(t, "beep", *plan.Rules[0].Replace)
}

func TestLoadUnknownFormat(t *testing.T) {
	path := writeRuleFile(t, "plan.json", `{}`)

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestLoadParseError(t *testing.T) {
	path := writeRuleFile(t, "plan.toml", `[[rule`)

	_, err := Load(path)
	require.Error(t, err)

	var perr *ParseError
	assert.ErrorAs(t, err, &perr)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		rule    Rule
		wantErr error
	}{
		{
			name:    "no address",
			rule:    Rule{Replace: strp("x")},
			wantErr: ErrNoAddress,
		},
		{
			name:    "offsets and pattern",
			rule:    Rule{Start: intp(0), End: intp(1), Pattern: "x", Replace: strp("y")},
			wantErr: ErrAmbiguousAddress,
		},
		{
			name:    "start without end",
			rule:    Rule{Start: intp(0), Replace: strp("y")},
			wantErr: ErrNoAddress,
		},
		{
			name:    "no replacement",
			rule:    Rule{Start: intp(0), End: intp(1)},
			wantErr: ErrNoReplacement,
		},
		{
			name:    "replace and script",
			rule:    Rule{Pattern: "x", Replace: strp("y"), Script: `return "z"`},
			wantErr: ErrAmbiguousReplacement,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := Plan{Rules: []Rule{tt.rule}}
			err := plan.Validate()
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateBadPattern(t *testing.T) {
	plan := Plan{Rules: []Rule{{Pattern: "(", Replace: strp("x")}}}
	assert.Error(t, plan.Validate())
}

func TestValidateCountWithoutPattern(t *testing.T) {
	plan := Plan{Rules: []Rule{{Start: intp(0), End: intp(1), Count: 2, Replace: strp("x")}}}
	assert.Error(t, plan.Validate())
}

func TestApplyOffsets(t *testing.T) {
	sp := splice.New("a b c d e")
	plan := Plan{Rules: []Rule{
		{Start: intp(2), End: intp(3), Replace: strp("beep")},
		{Start: intp(6), End: intp(7), Replace: strp("boop")},
	}}

	require.NoError(t, plan.Apply(sp, nil))
	assert.Equal(t, "a beep c boop e", sp.String())
}

func TestApplyPattern(t *testing.T) {
	sp := splice.New("one two one two")
	plan := Plan{Rules: []Rule{
		{Pattern: "one", Replace: strp("1")},
	}}

	require.NoError(t, plan.Apply(sp, nil))
	assert.Equal(t, "1 two 1 two", sp.String())
}

func TestApplyPatternCount(t *testing.T) {
	sp := splice.New("one two one two")
	plan := Plan{Rules: []Rule{
		{Pattern: "one", Count: 1, Replace: strp("1")},
	}}

	require.NoError(t, plan.Apply(sp, nil))
	assert.Equal(t, "1 two one two", sp.String())
}

func TestApplyPatternExpansion(t *testing.T) {
	sp := splice.New("name: gopher")
	plan := Plan{Rules: []Rule{
		{Pattern: `name: (\w+)`, Replace: strp("$1 is the name")},
	}}

	require.NoError(t, plan.Apply(sp, nil))
	assert.Equal(t, "gopher is the name", sp.String())
}

func TestApplyScript(t *testing.T) {
	sp := splice.New("a b c d e")
	plan := Plan{Rules: []Rule{
		{Pattern: "[bd]", Script: `return string.upper(match)`},
	}}

	require.NoError(t, plan.Apply(sp, script.New()))
	assert.Equal(t, "a B c D e", sp.String())
}

func TestApplyScriptGroups(t *testing.T) {
	sp := splice.New("key=value")
	plan := Plan{Rules: []Rule{
		{Pattern: `(\w+)=(\w+)`, Script: `return group[2] .. "=" .. group[1]`},
	}}

	require.NoError(t, plan.Apply(sp, script.New()))
	assert.Equal(t, "value=key", sp.String())
}

func TestApplyScriptWithoutEvaluator(t *testing.T) {
	sp := splice.New("a b c d e")
	plan := Plan{Rules: []Rule{
		{Start: intp(0), End: intp(1), Script: `return "x"`},
	}}

	assert.Error(t, plan.Apply(sp, nil))
}

func TestApplyOverlapSurfaces(t *testing.T) {
	sp := splice.New("aaa")
	plan := Plan{Rules: []Rule{
		{Start: intp(0), End: intp(3), Replace: strp("x")},
		{Start: intp(1), End: intp(2), Replace: strp("y")},
	}}

	err := plan.Apply(sp, nil)
	assert.ErrorIs(t, err, splice.ErrOverlap)
}

func TestApplyOutOfRangeSurfaces(t *testing.T) {
	sp := splice.New("abc")
	plan := Plan{Rules: []Rule{
		{Start: intp(0), End: intp(99), Replace: strp("x")},
	}}

	err := plan.Apply(sp, nil)
	assert.ErrorIs(t, err, splice.ErrOutOfRange)
}

func TestApplyDeletion(t *testing.T) {
	sp := splice.New("a b c d e")
	plan := Plan{Rules: []Rule{
		{Pattern: " [bc]", Replace: strp("")},
	}}

	require.NoError(t, plan.Apply(sp, nil))
	assert.Equal(t, "a d e", sp.String())
}
