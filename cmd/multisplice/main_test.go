package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/dshills/multisplice/splice"
)

func TestParseRange(t *testing.T) {
	tests := []struct {
		arg  string
		want splice.Range // resolved against a 10-byte source
	}{
		{"2:7", splice.NewRange(2, 7)},
		{"3:", splice.NewRange(3, 10)},
		{":7", splice.NewRange(0, 7)},
		{":", splice.NewRange(0, 10)},
	}

	for _, tt := range tests {
		spec, err := parseRange(tt.arg)
		if err != nil {
			t.Fatalf("parseRange(%q) failed: %v", tt.arg, err)
		}
		if spec == nil {
			t.Fatalf("parseRange(%q) returned nil spec", tt.arg)
		}
		if got := spec.Resolve(10); got != tt.want {
			t.Errorf("parseRange(%q): expected %s, got %s", tt.arg, tt.want, got)
		}
	}
}

func TestParseRangeEmpty(t *testing.T) {
	spec, err := parseRange("")
	if err != nil {
		t.Fatalf("parseRange failed: %v", err)
	}
	if spec != nil {
		t.Errorf("empty -range must mean full input, got %s", spec)
	}
}

func TestParseRangeInvalid(t *testing.T) {
	for _, arg := range []string{"7", "a:b", "1:x"} {
		if _, err := parseRange(arg); err == nil {
			t.Errorf("parseRange(%q): expected error", arg)
		}
	}
}

func TestApplyOnce(t *testing.T) {
	dir := t.TempDir()

	input := filepath.Join(dir, "input.txt")
	if err := os.WriteFile(input, []byte("a b c d e"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	plan := filepath.Join(dir, "plan.toml")
	planText := `
[[rule]]
start = 2
end = 3
replace = "beep"

[[rule]]
pattern = "d"
script = 'return string.upper(match)'
`
	if err := os.WriteFile(plan, []byte(planText), 0o644); err != nil {
		t.Fatalf("write plan: %v", err)
	}

	output := filepath.Join(dir, "out.txt")
	opts := Options{RulesPath: plan, InputPath: input, OutputPath: output}
	logger := log.New(os.Stderr)

	if err := applyOnce(opts, nil, logger); err != nil {
		t.Fatalf("applyOnce failed: %v", err)
	}

	got, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(got) != "a beep c D e" {
		t.Errorf("expected %q, got %q", "a beep c D e", string(got))
	}
}

func TestApplyOnceWindow(t *testing.T) {
	dir := t.TempDir()

	input := filepath.Join(dir, "input.txt")
	if err := os.WriteFile(input, []byte("a b c d e"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	plan := filepath.Join(dir, "plan.yaml")
	planText := `
rules:
  - start: 6
    end: 7
    replace: boop
`
	if err := os.WriteFile(plan, []byte(planText), 0o644); err != nil {
		t.Fatalf("write plan: %v", err)
	}

	output := filepath.Join(dir, "out.txt")
	window := splice.Span(3, 7)
	opts := Options{RulesPath: plan, InputPath: input, OutputPath: output}
	logger := log.New(os.Stderr)

	if err := applyOnce(opts, &window, logger); err != nil {
		t.Fatalf("applyOnce failed: %v", err)
	}

	got, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(got) != " c boop" {
		t.Errorf("expected %q, got %q", " c boop", string(got))
	}
}
