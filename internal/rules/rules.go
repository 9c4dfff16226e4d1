// Package rules loads declarative splice plans from TOML or YAML files and
// applies them against a Splicer. A plan is a list of rules; each rule
// addresses a span of the original input either by explicit byte offsets or
// by a regular expression, and supplies its replacement as a literal or as a
// Lua script evaluated per match.
package rules

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/dshills/multisplice/splice"
)

// Errors returned by plan validation and application.
var (
	// ErrNoAddress is returned when a rule has neither offsets nor a pattern.
	ErrNoAddress = errors.New("rule needs start/end offsets or a pattern")

	// ErrAmbiguousAddress is returned when a rule mixes offsets and a pattern.
	ErrAmbiguousAddress = errors.New("rule cannot have both offsets and a pattern")

	// ErrNoReplacement is returned when a rule has neither a literal
	// replacement nor a script.
	ErrNoReplacement = errors.New("rule needs a replace value or a script")

	// ErrAmbiguousReplacement is returned when a rule has both a literal
	// replacement and a script.
	ErrAmbiguousReplacement = errors.New("rule cannot have both a replace value and a script")
)

// Rule describes a single replacement. Exactly one addressing mode (offsets
// or pattern) and exactly one replacement mode (literal or script) must be
// set. Offsets address bytes of the ORIGINAL input; pattern matches are
// likewise resolved against the original input, so rules never observe each
// other's output.
type Rule struct {
	// Offset addressing: replace original bytes [Start, End).
	Start *int `toml:"start" yaml:"start"`
	End   *int `toml:"end" yaml:"end"`

	// Pattern addressing: replace every match of this Go regular expression.
	Pattern string `toml:"pattern" yaml:"pattern"`

	// Count limits how many pattern matches are replaced. Zero means all.
	Count int `toml:"count" yaml:"count"`

	// Replace is the literal replacement. For pattern rules it may reference
	// capture groups with $1-style expansion. An empty string deletes the
	// addressed span.
	Replace *string `toml:"replace" yaml:"replace"`

	// Script is a Lua snippet computing the replacement (see internal/script).
	Script string `toml:"script" yaml:"script"`
}

// isPattern reports whether the rule uses pattern addressing.
func (r *Rule) isPattern() bool {
	return r.Pattern != ""
}

// validate checks that the rule has exactly one addressing mode and exactly
// one replacement mode.
func (r *Rule) validate() error {
	hasOffsets := r.Start != nil || r.End != nil
	switch {
	case hasOffsets && r.isPattern():
		return ErrAmbiguousAddress
	case !hasOffsets && !r.isPattern():
		return ErrNoAddress
	case hasOffsets && (r.Start == nil || r.End == nil):
		return fmt.Errorf("both start and end are required: %w", ErrNoAddress)
	}

	switch {
	case r.Replace != nil && r.Script != "":
		return ErrAmbiguousReplacement
	case r.Replace == nil && r.Script == "":
		return ErrNoReplacement
	}

	if r.Count < 0 {
		return fmt.Errorf("count must not be negative, got %d", r.Count)
	}
	if r.Count > 0 && !r.isPattern() {
		return errors.New("count is only valid with a pattern")
	}

	if r.isPattern() {
		if _, err := regexp.Compile(r.Pattern); err != nil {
			return fmt.Errorf("invalid pattern: %w", err)
		}
	}
	return nil
}

// Plan is an ordered list of rules loaded from a rule file.
type Plan struct {
	Rules []Rule `toml:"rule" yaml:"rules"`
}

// Validate checks every rule in the plan.
func (p *Plan) Validate() error {
	for i := range p.Rules {
		if err := p.Rules[i].validate(); err != nil {
			return fmt.Errorf("rule %d: %w", i+1, err)
		}
	}
	return nil
}

// Evaluator computes a replacement from a script, the matched original text,
// and the pattern's capture groups. Satisfied by script.Engine.
type Evaluator interface {
	Eval(code string, matched string, groups []string) (string, error)
}

// Apply resolves every rule against the splicer's original source and
// registers the resulting replacements. Pattern rules resolve to original
// byte offsets first, so overlapping rules fail with splice.ErrOverlap
// exactly as explicit offsets would. The evaluator may be nil when no rule
// uses a script.
func (p *Plan) Apply(sp *splice.Splicer, ev Evaluator) error {
	for i := range p.Rules {
		if err := p.Rules[i].apply(sp, ev); err != nil {
			return fmt.Errorf("rule %d: %w", i+1, err)
		}
	}
	return nil
}

func (r *Rule) apply(sp *splice.Splicer, ev Evaluator) error {
	if !r.isPattern() {
		start, end := *r.Start, *r.End
		value, err := r.replacement(sp, ev, splice.NewRange(start, end), nil, nil)
		if err != nil {
			return err
		}
		return sp.Splice(start, end, value)
	}

	re, err := regexp.Compile(r.Pattern)
	if err != nil {
		return fmt.Errorf("invalid pattern: %w", err)
	}

	limit := -1
	if r.Count > 0 {
		limit = r.Count
	}

	source := sp.Source()
	for _, m := range re.FindAllStringSubmatchIndex(source, limit) {
		value, err := r.replacement(sp, ev, splice.NewRange(m[0], m[1]), re, m)
		if err != nil {
			return err
		}
		if err := sp.Splice(m[0], m[1], value); err != nil {
			return err
		}
	}
	return nil
}

// replacement produces the replacement text for one addressed span. For
// literal replacements of pattern rules, capture references are expanded;
// for scripts, the matched text and groups are handed to the evaluator.
func (r *Rule) replacement(sp *splice.Splicer, ev Evaluator, span splice.Range, re *regexp.Regexp, m []int) (string, error) {
	source := sp.Source()

	if r.Replace != nil {
		if re == nil {
			return *r.Replace, nil
		}
		return string(re.ExpandString(nil, *r.Replace, source, m)), nil
	}

	if ev == nil {
		return "", errors.New("script rule requires an evaluator")
	}

	// Offset rules reach here before Splice validates, so guard the slice.
	if span.Start < 0 || span.Start > span.End || span.End > len(source) {
		return "", fmt.Errorf("script span %s on %d-byte source: %w", span, len(source), splice.ErrOutOfRange)
	}
	matched := source[span.Start:span.End]
	var groups []string
	if m != nil {
		groups = make([]string, 0, len(m)/2-1)
		for g := 1; g*2 < len(m); g++ {
			if m[g*2] < 0 {
				groups = append(groups, "")
				continue
			}
			groups = append(groups, source[m[g*2]:m[g*2+1]])
		}
	}
	return ev.Eval(r.Script, matched, groups)
}
