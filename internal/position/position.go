// Package position defines the zero-based row/column types shared by every
// buildlens component.
package position

import (
	"fmt"

	"go.lsp.dev/protocol"
)

// Point is a zero-based location in a file. Col counts bytes within the row.
type Point struct {
	Row int
	Col int
}

// At returns the Point (row, col). It panics on negative coordinates since no
// caller can produce them from a parsed file.
func At(row, col int) Point {
	if row < 0 || col < 0 {
		panic(fmt.Sprintf("position: negative coordinate (%d, %d)", row, col))
	}
	return Point{Row: row, Col: col}
}

// Before reports whether p sorts strictly before q.
func (p Point) Before(q Point) bool {
	if p.Row != q.Row {
		return p.Row < q.Row
	}
	return p.Col < q.Col
}

func (p Point) String() string {
	return fmt.Sprintf("%d:%d", p.Row, p.Col)
}

// Protocol converts p to an LSP position.
func (p Point) Protocol() protocol.Position {
	return protocol.Position{Line: uint32(p.Row), Character: uint32(p.Col)}
}

// FromProtocol converts an LSP position to a Point.
func FromProtocol(p protocol.Position) Point {
	return Point{Row: int(p.Line), Col: int(p.Character)}
}

// Range is a span between two points. Ranges returned by buildlens queries
// always have Start at or before End.
type Range struct {
	Start Point
	End   Point
}

// Span returns the Range from start to end.
func Span(start, end Point) Range {
	return Range{Start: start, End: end}
}

// Contains reports whether p lies in r, treating both ends as inclusive.
func (r Range) Contains(p Point) bool {
	return !p.Before(r.Start) && !r.End.Before(p)
}

func (r Range) String() string {
	return r.Start.String() + "-" + r.End.String()
}

// Protocol converts r to an LSP range.
func (r Range) Protocol() protocol.Range {
	return protocol.Range{Start: r.Start.Protocol(), End: r.End.Protocol()}
}
