// Package splice provides non-destructive, repeatable substring replacement
// addressed by offsets into an immutable original string. Callers register
// any number of replacements against original-string byte offsets and never
// have to recompute offsets after an earlier change shifts the output.
//
// The package provides:
//
//   - A Splicer holding the original text and an ordered, non-overlapping
//     set of registered replacements
//   - On-demand rendering of arbitrary subranges of the logically-edited
//     text, in original-source coordinates
//   - Range specifications with optional and inclusive bounds
//
// Basic usage:
//
//	sp := splice.New("a b c d e")
//	sp.Splice(2, 3, "beep")
//	sp.Splice(6, 7, "boop")
//
//	sp.String()      // "a beep c boop e"
//	sp.Slice(3, 7)   // " c boop", nil
//
// Coordinates:
//
// All offsets are byte offsets into the original source, never into any
// rendered output. Ranges are half-open [start, end). Callers working with
// UTF-8 text must only split at rune boundaries; the package performs no
// encoding validation.
//
// Rendering behavior:
//
// Replacement text is atomic. A query window that starts or ends inside a
// registered replacement's range yields the entire replacement value, never
// a partial slice of it. A query window that intersects no replacement
// returns a substring sharing the original source's backing array, with no
// new allocation.
//
// Thread Safety:
//
// A Splicer is not safe for concurrent use while replacements are being
// registered. Once registration is complete, rendering is a pure read and
// may be performed from multiple goroutines concurrently.
package splice
