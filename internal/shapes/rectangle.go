package shapes

import (
	"fmt"
	"io"

	"github.com/zeusync/drawkit/internal/core/codec"
	"github.com/zeusync/drawkit/internal/core/shape"
)

const (
	RectangleID              = "Rectangle"
	KindRectangle shape.Kind = "shapes.rectangle"
)

func init() {
	provide(plugin{
		id:     RectangleID,
		kind:   KindRectangle,
		create: func() shape.Shape { return &Rectangle{} },
		rw: codec.Leaf(RectangleID,
			func(r *Rectangle, dec *codec.Decoder) error {
				p, err := dec.Point()
				if err != nil {
					return err
				}
				w, err := dec.Int()
				if err != nil {
					return err
				}
				h, err := dec.Int()
				if err != nil {
					return err
				}
				r.SetCoord(p)
				r.width, r.height = w, h
				return nil
			},
			func(r *Rectangle, enc *codec.Encoder) {
				enc.Point(r.Coord())
				enc.Int(r.width)
				enc.Int(r.height)
			}),
	})
}

type Rectangle struct {
	shape.Base
	width, height int
}

func NewRectangle(x, y, w, h int) *Rectangle {
	return &Rectangle{Base: shape.NewBase(x, y), width: w, height: h}
}

func (r *Rectangle) Kind() shape.Kind { return KindRectangle }

func (r *Rectangle) Width() int { return r.width }

func (r *Rectangle) Height() int { return r.height }

func (r *Rectangle) SetSize(w, h int) { r.width, r.height = w, h }

func (r *Rectangle) Draw(w io.Writer) error {
	_, err := fmt.Fprintf(w, "Drawing rectangle at %s with w = %d, h = %d\n", r.Coord(), r.width, r.height)
	return err
}

func (r *Rectangle) Clone() shape.Shape {
	clone := *r
	return &clone
}
