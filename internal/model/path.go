package model

import "fmt"

// Path addresses a node as the sequence of child indices walked from the
// root. The zero-length path addresses the root itself.
type Path []int

// Clone returns an independent copy of the path.
func (p Path) Clone() Path {
	c := make(Path, len(p))
	copy(c, p)
	return c
}

// Equal reports whether two paths address the same node.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// Compare orders paths in document order: -1 if p precedes other, 0 if
// equal, 1 if p follows other. A parent precedes its descendants.
func (p Path) Compare(other Path) int {
	n := len(p)
	if len(other) < n {
		n = len(other)
	}
	for i := 0; i < n; i++ {
		if p[i] < other[i] {
			return -1
		}
		if p[i] > other[i] {
			return 1
		}
	}
	switch {
	case len(p) < len(other):
		return -1
	case len(p) > len(other):
		return 1
	default:
		return 0
	}
}

// Before reports whether p precedes other in document order.
func (p Path) Before(other Path) bool { return p.Compare(other) < 0 }

// IsAncestorOf reports whether p is a strict ancestor of other.
func (p Path) IsAncestorOf(other Path) bool {
	if len(p) >= len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// Parent returns the path of the node's parent. Parent of the root is
// the root.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return Path{}
	}
	return p[:len(p)-1].Clone()
}

// Child returns the path extended by one child index.
func (p Path) Child(index int) Path {
	c := make(Path, len(p)+1)
	copy(c, p)
	c[len(p)] = index
	return c
}

// String returns a bracketed index list, e.g. "[0 2 1]".
func (p Path) String() string {
	return fmt.Sprintf("%v", []int(p))
}

// Point addresses a character position: a path to a text leaf and a
// rune-indexed offset within that leaf's content.
type Point struct {
	Path   Path
	Offset int
}

// Clone returns an independent copy of the point.
func (p Point) Clone() Point {
	return Point{Path: p.Path.Clone(), Offset: p.Offset}
}

// Equal reports whether two points address the same position.
func (p Point) Equal(other Point) bool {
	return p.Offset == other.Offset && p.Path.Equal(other.Path)
}

// Compare orders points in document order.
func (p Point) Compare(other Point) int {
	if c := p.Path.Compare(other.Path); c != 0 {
		return c
	}
	switch {
	case p.Offset < other.Offset:
		return -1
	case p.Offset > other.Offset:
		return 1
	default:
		return 0
	}
}

// Before reports whether p precedes other in document order.
func (p Point) Before(other Point) bool { return p.Compare(other) < 0 }

// String returns a human-readable representation, e.g. "[0 0]:3".
func (p Point) String() string {
	return fmt.Sprintf("%v:%d", []int(p.Path), p.Offset)
}
