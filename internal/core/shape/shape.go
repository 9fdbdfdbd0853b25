package shape

import (
	"fmt"
	"io"
)

// Kind is the explicit type tag of a concrete shape. Codecs are looked up by Kind,
// shapes are created by their string id; the two are independent namespaces.
type Kind string

// Shape is the drawable, movable, cloneable entity stored in a document.
type Shape interface {
	// Kind returns the tag of the concrete implementation.
	Kind() Kind
	// Draw writes a description of the shape at its current position.
	Draw(w io.Writer) error
	// Move translates the shape in place.
	Move(dx, dy int)
	// Clone returns a deep copy owned by the caller. The copy has the same Kind.
	Clone() Shape
}

// Point is an integer 2D coordinate.
type Point struct {
	X, Y int
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Translate returns p shifted by (dx, dy).
func (p Point) Translate(dx, dy int) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Base holds the coordinate every leaf shape owns. Embed it by value.
type Base struct {
	coord Point
}

func NewBase(x, y int) Base {
	return Base{coord: Point{X: x, Y: y}}
}

func (b *Base) Coord() Point { return b.coord }

func (b *Base) SetCoord(p Point) { b.coord = p }

func (b *Base) Move(dx, dy int) { b.coord = b.coord.Translate(dx, dy) }

// CloneOf clones s and panics if the clone does not keep the source's Kind.
func CloneOf(s Shape) Shape {
	if s == nil {
		return nil
	}
	c := s.Clone()
	if c == nil || c.Kind() != s.Kind() {
		panic(fmt.Sprintf("shape: clone of %s returned %T", s.Kind(), c))
	}
	return c
}
