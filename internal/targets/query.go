package targets

import (
	"github.com/jward/buildlens/internal/position"
	"github.com/jward/buildlens/internal/syntax"
)

// CallContains reports whether p lies within the call's span. Both ends are
// inclusive: a cursor placed right after the closing parenthesis still counts.
func CallContains(c syntax.Call, p position.Point) bool {
	return position.Span(c.Start(), c.End()).Contains(p)
}

// AnyContains reports whether p lies within the call of any declaration in f.
func AnyContains(f *syntax.File, p position.Point) bool {
	_, ok := At(f, p)
	return ok
}

// At returns the declaration whose call contains p.
func At(f *syntax.File, p position.Point) (Declaration, bool) {
	for _, d := range Extract(f) {
		if CallContains(d.Call, p) {
			return d, true
		}
	}
	return Declaration{}, false
}

// RangeOf returns the single-line range an expression occupies on its first
// line. For string literals the range covers the value only, not the prefix
// or quotes. A zero Expr yields the zero Range.
func RangeOf(e syntax.Expr) position.Range {
	if e.IsZero() {
		return position.Range{}
	}
	if s, ok := e.AsString(); ok {
		start := s.ValueStart()
		return position.Range{
			Start: start,
			End:   position.Point{Row: start.Row, Col: start.Col + len(s.Value())},
		}
	}
	return position.Range{Start: e.Start(), End: e.FirstLineEnd()}
}
