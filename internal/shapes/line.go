package shapes

import (
	"fmt"
	"io"

	"github.com/zeusync/drawkit/internal/core/codec"
	"github.com/zeusync/drawkit/internal/core/shape"
)

const (
	LineID              = "Line"
	KindLine shape.Kind = "shapes.line"
)

func init() {
	provide(plugin{
		id:     LineID,
		kind:   KindLine,
		create: func() shape.Shape { return &Line{} },
		rw: codec.Leaf(LineID,
			func(l *Line, dec *codec.Decoder) error {
				from, err := dec.Point()
				if err != nil {
					return err
				}
				to, err := dec.Point()
				if err != nil {
					return err
				}
				l.SetCoord(from)
				l.to = to
				return nil
			},
			func(l *Line, enc *codec.Encoder) {
				enc.Point(l.Coord())
				enc.Point(l.to)
			}),
	})
}

// Line is a segment; its coordinate is the start point.
type Line struct {
	shape.Base
	to shape.Point
}

func NewLine(x1, y1, x2, y2 int) *Line {
	return &Line{Base: shape.NewBase(x1, y1), to: shape.Point{X: x2, Y: y2}}
}

func (l *Line) Kind() shape.Kind { return KindLine }

func (l *Line) End() shape.Point { return l.to }

func (l *Line) Move(dx, dy int) {
	l.Base.Move(dx, dy)
	l.to = l.to.Translate(dx, dy)
}

func (l *Line) Draw(w io.Writer) error {
	_, err := fmt.Fprintf(w, "Drawing line from %s to %s\n", l.Coord(), l.to)
	return err
}

func (l *Line) Clone() shape.Shape {
	clone := *l
	return &clone
}
