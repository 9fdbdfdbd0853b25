package shapes

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/drawkit/internal/core/codec"
	"github.com/zeusync/drawkit/internal/core/shape"
	"github.com/zeusync/drawkit/pkg/factory"
)

func TestDraw(t *testing.T) {
	tests := []struct {
		name  string
		shape shape.Shape
		want  string
	}{
		{"circle", NewCircle(1, 2, 10), "Drawing circle at (1, 2) with r = 10\n"},
		{"rectangle", NewRectangle(0, -1, 4, 5), "Drawing rectangle at (0, -1) with w = 4, h = 5\n"},
		{"square", NewSquare(3, 3, 7), "Drawing square at (3, 3) with size = 7\n"},
		{"text", NewText(5, 6, `say "hi"`), "Drawing text at (5, 6): \"say \\\"hi\\\"\"\n"},
		{"line", NewLine(0, 0, 2, 3), "Drawing line from (0, 0) to (2, 3)\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, tt.shape.Draw(&buf))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestCloneKeepsKindAndIsIndependent(t *testing.T) {
	for _, s := range []shape.Shape{
		NewCircle(1, 2, 3),
		NewRectangle(1, 2, 3, 4),
		NewSquare(1, 2, 3),
		NewText(1, 2, "x"),
		NewLine(1, 2, 3, 4),
	} {
		clone := shape.CloneOf(s)
		assert.Equal(t, s, clone)
		assert.NotSame(t, s, clone)

		clone.Move(1, 1)
		assert.NotEqual(t, s, clone, "moving a %s clone changed the source", s.Kind())
	}
}

func TestLineMoveShiftsBothEnds(t *testing.T) {
	l := NewLine(0, 0, 2, 3)
	l.Move(10, -5)

	assert.Equal(t, shape.Point{X: 10, Y: -5}, l.Coord())
	assert.Equal(t, shape.Point{X: 12, Y: -2}, l.End())
}

func TestDefaultRegistriesArePopulated(t *testing.T) {
	for _, id := range IDs() {
		s, err := shape.DefaultFactory().Create(id)
		require.NoError(t, err, id)

		rw, err := codec.DefaultRegistry().Lookup(s.Kind())
		require.NoError(t, err, id)
		assert.Equal(t, id, rw.Token())
	}
	assert.ElementsMatch(t, []string{CircleID, RectangleID, SquareID, TextID, LineID}, IDs())
}

func TestRegisterPrivateRegistries(t *testing.T) {
	creators := shape.NewFactory()
	codecs := codec.NewRegistry()

	require.NoError(t, Register(creators, codecs))
	assert.Equal(t, len(IDs()), creators.Len())
	assert.Len(t, codecs.Kinds(), len(IDs()))

	err := Register(creators, codecs)
	assert.ErrorIs(t, err, factory.ErrDuplicateID)
}

func TestKindsAndIDsAreDistinct(t *testing.T) {
	s, err := shape.DefaultFactory().Create(CircleID)
	require.NoError(t, err)
	assert.NotEqual(t, CircleID, string(s.Kind()))
	assert.Equal(t, KindCircle, s.Kind())
}
