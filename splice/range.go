package splice

import "fmt"

// Range represents a byte range in the original source.
// Start is inclusive, End is exclusive: [Start, End).
type Range struct {
	Start int // Inclusive start offset
	End   int // Exclusive end offset
}

// NewRange creates a new Range from start and end offsets.
func NewRange(start, end int) Range {
	return Range{Start: start, End: end}
}

// String returns a human-readable representation of the range.
func (r Range) String() string {
	return fmt.Sprintf("[%d:%d)", r.Start, r.End)
}

// Len returns the length of the range in bytes.
func (r Range) Len() int {
	return r.End - r.Start
}

// IsEmpty returns true if the range has zero length.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// IsValid returns true if the range is valid (Start <= End).
func (r Range) IsValid() bool {
	return r.Start <= r.End
}

// Contains returns true if the given offset is within the range.
func (r Range) Contains(offset int) bool {
	return offset >= r.Start && offset < r.End
}

// Overlaps returns true if this range overlaps with another range.
func (r Range) Overlaps(other Range) bool {
	return r.Start < other.End && other.Start < r.End
}

// RangeSpec describes a span over the source with optional and inclusive
// bounds. An unbounded start resolves to 0, an unbounded end resolves to the
// source length, and an inclusive end bound n resolves to n+1. Both splice
// registration and slicing accept a RangeSpec as an alternative to explicit
// start/end offsets.
type RangeSpec struct {
	start     int
	end       int
	hasStart  bool
	hasEnd    bool
	inclusive bool
}

// Span returns a RangeSpec covering [start, end).
func Span(start, end int) RangeSpec {
	return RangeSpec{start: start, end: end, hasStart: true, hasEnd: true}
}

// SpanInclusive returns a RangeSpec covering [start, end].
func SpanInclusive(start, end int) RangeSpec {
	return RangeSpec{start: start, end: end, hasStart: true, hasEnd: true, inclusive: true}
}

// From returns a RangeSpec covering [start, source length).
func From(start int) RangeSpec {
	return RangeSpec{start: start, hasStart: true}
}

// To returns a RangeSpec covering [0, end).
func To(end int) RangeSpec {
	return RangeSpec{end: end, hasEnd: true}
}

// ToInclusive returns a RangeSpec covering [0, end].
func ToInclusive(end int) RangeSpec {
	return RangeSpec{end: end, hasEnd: true, inclusive: true}
}

// All returns a RangeSpec covering the entire source.
func All() RangeSpec {
	return RangeSpec{}
}

// Resolve converts the spec to a concrete half-open Range over a source of
// the given byte length.
func (rs RangeSpec) Resolve(sourceLen int) Range {
	start := 0
	if rs.hasStart {
		start = rs.start
	}
	end := sourceLen
	if rs.hasEnd {
		end = rs.end
		if rs.inclusive {
			end++
		}
	}
	return Range{Start: start, End: end}
}

// String returns a human-readable representation of the spec.
func (rs RangeSpec) String() string {
	s := ""
	if rs.hasStart {
		s = fmt.Sprintf("%d", rs.start)
	}
	e := ""
	if rs.hasEnd {
		e = fmt.Sprintf("%d", rs.end)
		if rs.inclusive {
			return fmt.Sprintf("[%s:%s]", s, e)
		}
	}
	return fmt.Sprintf("[%s:%s)", s, e)
}
