package shapes

import (
	"fmt"
	"io"

	"github.com/zeusync/drawkit/internal/core/codec"
	"github.com/zeusync/drawkit/internal/core/shape"
)

const (
	SquareID              = "Square"
	KindSquare shape.Kind = "shapes.square"
)

func init() {
	provide(plugin{
		id:     SquareID,
		kind:   KindSquare,
		create: func() shape.Shape { return &Square{} },
		rw: codec.Leaf(SquareID,
			func(s *Square, dec *codec.Decoder) error {
				p, err := dec.Point()
				if err != nil {
					return err
				}
				size, err := dec.Int()
				if err != nil {
					return err
				}
				s.SetCoord(p)
				s.size = size
				return nil
			},
			func(s *Square, enc *codec.Encoder) {
				enc.Point(s.Coord())
				enc.Int(s.size)
			}),
	})
}

// Square is kept as its own kind rather than a Rectangle with equal sides,
// so it round-trips under its own id.
type Square struct {
	shape.Base
	size int
}

func NewSquare(x, y, size int) *Square {
	return &Square{Base: shape.NewBase(x, y), size: size}
}

func (s *Square) Kind() shape.Kind { return KindSquare }

func (s *Square) Size() int { return s.size }

func (s *Square) SetSize(size int) { s.size = size }

func (s *Square) Draw(w io.Writer) error {
	_, err := fmt.Fprintf(w, "Drawing square at %s with size = %d\n", s.Coord(), s.size)
	return err
}

func (s *Square) Clone() shape.Shape {
	clone := *s
	return &clone
}
