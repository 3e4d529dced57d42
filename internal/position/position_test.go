package position

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.lsp.dev/protocol"
)

func TestAt_PanicsOnNegative(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { At(-1, 0) })
	assert.Panics(t, func() { At(0, -1) })
	assert.Equal(t, Point{Row: 2, Col: 3}, At(2, 3))
}

func TestPoint_Before(t *testing.T) {
	t.Parallel()
	assert.True(t, At(0, 5).Before(At(1, 0)))
	assert.True(t, At(1, 1).Before(At(1, 2)))
	assert.False(t, At(1, 2).Before(At(1, 2)))
	assert.False(t, At(2, 0).Before(At(1, 9)))
}

func TestRange_Contains(t *testing.T) {
	t.Parallel()
	r := Span(At(1, 4), At(3, 2))

	assert.True(t, r.Contains(At(1, 4)), "start is inclusive")
	assert.True(t, r.Contains(At(3, 2)), "end is inclusive")
	assert.True(t, r.Contains(At(2, 100)))
	assert.False(t, r.Contains(At(1, 3)))
	assert.False(t, r.Contains(At(3, 3)))
	assert.False(t, r.Contains(At(0, 10)))
}

func TestProtocolConversion(t *testing.T) {
	t.Parallel()
	r := Span(At(4, 1), At(4, 9))
	pr := r.Protocol()
	assert.Equal(t, protocol.Position{Line: 4, Character: 1}, pr.Start)
	assert.Equal(t, protocol.Position{Line: 4, Character: 9}, pr.End)
	assert.Equal(t, At(4, 9), FromProtocol(pr.End))
}

func TestString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "1:2-3:4", Span(At(1, 2), At(3, 4)).String())
}
