package shapes

import (
	"fmt"
	"io"

	"github.com/zeusync/drawkit/internal/core/codec"
	"github.com/zeusync/drawkit/internal/core/shape"
)

const (
	TextID              = "Text"
	KindText shape.Kind = "shapes.text"
)

func init() {
	provide(plugin{
		id:     TextID,
		kind:   KindText,
		create: func() shape.Shape { return &Text{} },
		rw: codec.Leaf(TextID,
			func(t *Text, dec *codec.Decoder) error {
				p, err := dec.Point()
				if err != nil {
					return err
				}
				s, err := dec.Quoted()
				if err != nil {
					return err
				}
				t.SetCoord(p)
				t.text = s
				return nil
			},
			func(t *Text, enc *codec.Encoder) {
				enc.Point(t.Coord())
				enc.Quoted(t.text)
			}),
	})
}

// Text is a label anchored at its coordinate.
type Text struct {
	shape.Base
	text string
}

func NewText(x, y int, text string) *Text {
	return &Text{Base: shape.NewBase(x, y), text: text}
}

func (t *Text) Kind() shape.Kind { return KindText }

func (t *Text) Text() string { return t.text }

func (t *Text) SetText(text string) { t.text = text }

func (t *Text) Draw(w io.Writer) error {
	_, err := fmt.Fprintf(w, "Drawing text at %s: %q\n", t.Coord(), t.text)
	return err
}

func (t *Text) Clone() shape.Shape {
	clone := *t
	return &clone
}
