package surface

import "github.com/dshills/surfedit/internal/model"

// NodeType distinguishes element nodes from text nodes.
type NodeType uint8

const (
	// ElementNode is a host element rendered for a model element.
	ElementNode NodeType = iota
	// TextNode is a host text node rendered for a model text leaf.
	TextNode
)

// Node is a node of the host render tree.
type Node struct {
	Type NodeType

	// Tag is the element's rendered tag (elements only).
	Tag string

	// Text is the rendered text content (text nodes only).
	Text string

	// Children are the node's rendered children (elements only).
	Children []*Node

	// Parent is the rendered parent, nil at the surface root.
	Parent *Node

	// ModelPath associates the node with the model node it renders.
	ModelPath model.Path

	// Editable is false inside void elements, whose content the host
	// must not let the user edit directly.
	Editable bool
}

// IsText reports whether the node is a text node.
func (n *Node) IsText() bool { return n.Type == TextNode }

// Root walks to the surface root.
func (n *Node) Root() *Node {
	for n.Parent != nil {
		n = n.Parent
	}
	return n
}

// InSubtreeOf reports whether n is other or a descendant of other.
func (n *Node) InSubtreeOf(other *Node) bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur == other {
			return true
		}
	}
	return false
}

// VoidAncestor returns the nearest enclosing non-editable (void)
// element, or nil.
func (n *Node) VoidAncestor() *Node {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Type == ElementNode && !cur.Editable {
			return cur
		}
	}
	return nil
}

// Position is a location in the surface: a node plus an offset. For
// text nodes the offset is a rune offset into the text; for elements
// it is a child index.
type Position struct {
	Node   *Node
	Offset int
}

// IsZero reports whether the position is unset.
func (p Position) IsZero() bool { return p.Node == nil }

// Equal reports whether two positions address the same location.
func (p Position) Equal(other Position) bool {
	return p.Node == other.Node && p.Offset == other.Offset
}

// NativeSelection is the host's selection: base is where the user
// started selecting, extent where it currently ends. Whether the
// selection is backward is not recorded; callers derive ordering.
type NativeSelection struct {
	Base   Position
	Extent Position
}

// IsCollapsed reports whether base and extent coincide.
func (s NativeSelection) IsCollapsed() bool { return s.Base.Equal(s.Extent) }
