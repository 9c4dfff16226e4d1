package splice

import (
	"fmt"
	"strings"
)

// Splicer holds an immutable source string and an ordered sequence of
// non-overlapping replacements registered against original-source offsets.
// Registered replacements are never mutated or removed; rendering is a pure
// query and may be repeated any number of times.
type Splicer struct {
	source string
	edits  []Edit
}

// New creates a Splicer bound to the given source. The source is referenced
// for the lifetime of the Splicer and is never modified.
func New(source string) *Splicer {
	return &Splicer{source: source}
}

// Source returns the original source string.
func (s *Splicer) Source() string {
	return s.source
}

// Len returns the byte length of the original source.
func (s *Splicer) Len() int {
	return len(s.source)
}

// EditCount returns the number of registered replacements.
func (s *Splicer) EditCount() int {
	return len(s.edits)
}

// Edits returns a copy of the registered replacements in ascending start
// order.
func (s *Splicer) Edits() []Edit {
	out := make([]Edit, len(s.edits))
	copy(out, s.edits)
	return out
}

// Splice registers a replacement of the original bytes [start, end) by value.
// Offsets always refer to the original source, regardless of any previously
// registered replacements.
//
// Returns ErrOutOfRange unless 0 <= start <= end <= len(source), and
// ErrOverlap if start falls inside an already-registered replacement's
// range. Touching an existing replacement's boundary (start == its end) is
// allowed. Both conditions indicate a caller bug in offset bookkeeping and
// are never corrected silently.
func (s *Splicer) Splice(start, end int, value string) error {
	if start < 0 || start > end || end > len(s.source) {
		return fmt.Errorf("splice [%d:%d) on %d-byte source: %w", start, end, len(s.source), ErrOutOfRange)
	}

	// Sorted insert: the first existing edit with a greater start offset
	// marks the insertion point. Edits are kept sorted by start, so once
	// that edit is found no later edit can overlap either.
	insertAt := -1
	for i, e := range s.edits {
		if e.Range.Start <= start && e.Range.End > start {
			return fmt.Errorf("splice at %d falls inside %s: %w", start, e.Range, ErrOverlap)
		}
		if e.Range.Start > start {
			insertAt = i
			break
		}
	}

	edit := Edit{Range: Range{Start: start, End: end}, NewText: value}
	if insertAt < 0 {
		s.edits = append(s.edits, edit)
		return nil
	}
	s.edits = append(s.edits, Edit{})
	copy(s.edits[insertAt+1:], s.edits[insertAt:])
	s.edits[insertAt] = edit
	return nil
}

// SpliceRange registers a replacement for the span described by spec.
func (s *Splicer) SpliceRange(spec RangeSpec, value string) error {
	r := spec.Resolve(len(s.source))
	return s.Splice(r.Start, r.End, value)
}

// Slice renders the window [start, end) of the logically-edited text, with
// start and end in original-source coordinates. Untouched stretches come
// from the source; wherever the window intersects a registered replacement
// the entire replacement value is emitted, even when the window begins or
// ends inside the replaced range.
//
// If the window intersects no replacement, the returned string shares the
// source's backing array rather than being copied. Callers must not rely on
// this for correctness, only performance.
func (s *Splicer) Slice(start, end int) (string, error) {
	if start < 0 || start > end || end > len(s.source) {
		return "", fmt.Errorf("slice [%d:%d) on %d-byte source: %w", start, end, len(s.source), ErrOutOfRange)
	}

	var b strings.Builder
	last := start
	for _, e := range s.edits {
		// Already covered by an earlier replacement, or before the window.
		if e.Range.End <= last {
			continue
		}
		// At or past the window's end; later edits are too, by sort order.
		if e.Range.Start >= end {
			break
		}
		if e.Range.Start >= last {
			b.WriteString(s.source[last:e.Range.Start])
		}
		b.WriteString(e.NewText)
		last = e.Range.End
	}

	// A window ending inside the last-applied replacement is already fully
	// covered; only append source text when the window extends past it.
	if end >= last {
		if b.Len() == 0 {
			return s.source[last:end], nil
		}
		b.WriteString(s.source[last:end])
	}
	return b.String(), nil
}

// SliceRange renders the window described by spec.
func (s *Splicer) SliceRange(spec RangeSpec) (string, error) {
	r := spec.Resolve(len(s.source))
	return s.Slice(r.Start, r.End)
}

// String renders the entire edited text.
func (s *Splicer) String() string {
	out, err := s.Slice(0, len(s.source))
	if err != nil {
		// Unreachable: the full range is always in bounds.
		panic(err)
	}
	return out
}
