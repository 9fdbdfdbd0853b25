package shape

import (
	"io"
	"iter"
)

const (
	// GroupID is the creator id and stream token of a group.
	GroupID = "ShapeGroup"
	// KindGroup is the codec key of a group.
	KindGroup Kind = "shape.group"
)

var _ Shape = (*Group)(nil)

// Group is a composite shape that exclusively owns an ordered list of children.
// A group has no coordinate of its own; moving it moves every child.
type Group struct {
	children []Shape
	parent   *Group
}

// NewGroup returns a group owning children, in order.
func NewGroup(children ...Shape) *Group {
	g := &Group{}
	g.Add(children...)
	return g
}

func (g *Group) Kind() Kind { return KindGroup }

// Add transfers ownership of children to the group, appending them in order.
// Nil children are skipped.
//
// The caller gives up the shapes it adds: a shape must not be added twice or
// kept and mutated afterwards. For groups this is enforced: adding a group that
// already has a parent, or adding g or one of its ancestors to g, panics.
func (g *Group) Add(children ...Shape) {
	for _, child := range children {
		if child == nil {
			continue
		}
		if sub, ok := child.(*Group); ok {
			if sub.parent != nil {
				panic("shape: group already belongs to another group")
			}
			if g.descendsFrom(sub) {
				panic("shape: group cannot contain itself")
			}
			sub.parent = g
		}
		g.children = append(g.children, child)
	}
}

// descendsFrom reports whether g is target or sits anywhere below it.
// It walks up the parent chain, so it costs O(depth of g).
func (g *Group) descendsFrom(target *Group) bool {
	for p := g; p != nil; p = p.parent {
		if p == target {
			return true
		}
	}
	return false
}

// Draw draws every child in insertion order.
func (g *Group) Draw(w io.Writer) error {
	for _, child := range g.children {
		if err := child.Draw(w); err != nil {
			return err
		}
	}
	return nil
}

// Move moves every child in insertion order.
func (g *Group) Move(dx, dy int) {
	for _, child := range g.children {
		child.Move(dx, dy)
	}
}

// Clone deep-copies the group. No node is shared between g and the clone.
func (g *Group) Clone() Shape {
	clone := &Group{}
	if len(g.children) > 0 {
		clone.children = make([]Shape, 0, len(g.children))
	}
	for _, child := range g.children {
		c := CloneOf(child)
		if sub, ok := c.(*Group); ok {
			sub.parent = clone
		}
		clone.children = append(clone.children, c)
	}
	return clone
}

func (g *Group) Len() int { return len(g.children) }

// At returns the i-th child. It panics if i is out of range.
func (g *Group) At(i int) Shape { return g.children[i] }

// All yields the direct children in insertion order.
func (g *Group) All() iter.Seq[Shape] {
	return func(yield func(Shape) bool) {
		for _, child := range g.children {
			if !yield(child) {
				return
			}
		}
	}
}

// Leaves yields every non-group shape below g, depth-first in insertion order.
func (g *Group) Leaves() iter.Seq[Shape] {
	return func(yield func(Shape) bool) {
		g.walkLeaves(yield)
	}
}

func (g *Group) walkLeaves(yield func(Shape) bool) bool {
	for _, child := range g.children {
		if sub, ok := child.(*Group); ok {
			if !sub.walkLeaves(yield) {
				return false
			}
			continue
		}
		if !yield(child) {
			return false
		}
	}
	return true
}
