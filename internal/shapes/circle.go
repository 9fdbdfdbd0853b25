package shapes

import (
	"fmt"
	"io"

	"github.com/zeusync/drawkit/internal/core/codec"
	"github.com/zeusync/drawkit/internal/core/shape"
)

const (
	CircleID              = "Circle"
	KindCircle shape.Kind = "shapes.circle"
)

func init() {
	provide(plugin{
		id:     CircleID,
		kind:   KindCircle,
		create: func() shape.Shape { return &Circle{} },
		rw: codec.Leaf(CircleID,
			func(c *Circle, dec *codec.Decoder) error {
				p, err := dec.Point()
				if err != nil {
					return err
				}
				r, err := dec.Int()
				if err != nil {
					return err
				}
				c.SetCoord(p)
				c.radius = r
				return nil
			},
			func(c *Circle, enc *codec.Encoder) {
				enc.Point(c.Coord())
				enc.Int(c.radius)
			}),
	})
}

type Circle struct {
	shape.Base
	radius int
}

func NewCircle(x, y, r int) *Circle {
	return &Circle{Base: shape.NewBase(x, y), radius: r}
}

func (c *Circle) Kind() shape.Kind { return KindCircle }

func (c *Circle) Radius() int { return c.radius }

func (c *Circle) SetRadius(r int) { c.radius = r }

func (c *Circle) Draw(w io.Writer) error {
	_, err := fmt.Fprintf(w, "Drawing circle at %s with r = %d\n", c.Coord(), c.radius)
	return err
}

func (c *Circle) Clone() shape.Shape {
	clone := *c
	return &clone
}
