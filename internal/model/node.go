package model

// Marks is the set of formatting marks attached to a text leaf.
type Marks map[string]bool

// Clone returns an independent copy of the mark set. Cloning nil
// returns nil.
func (m Marks) Clone() Marks {
	if m == nil {
		return nil
	}
	c := make(Marks, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

// Equal reports whether two mark sets contain the same enabled marks.
func (m Marks) Equal(other Marks) bool {
	if len(m.enabled()) != len(other.enabled()) {
		return false
	}
	for k := range m {
		if m[k] && !other[k] {
			return false
		}
	}
	return true
}

func (m Marks) enabled() []string {
	var out []string
	for k, v := range m {
		if v {
			out = append(out, k)
		}
	}
	return out
}

// NodeKind distinguishes element nodes from text leaves.
type NodeKind uint8

const (
	// KindElement is a non-leaf node with children.
	KindElement NodeKind = iota
	// KindText is a leaf node carrying text content and marks.
	KindText
)

// Node is a node of the document tree. Elements carry Type, the void
// and inline flags, and Children; text leaves carry Text and Marks.
type Node struct {
	Kind NodeKind

	// Element fields.
	Type     string
	Void     bool
	Inline   bool
	Children []*Node

	// Text leaf fields.
	Text  string
	Marks Marks
}

// NewText returns a text leaf with the given content and marks.
func NewText(text string, marks Marks) *Node {
	return &Node{Kind: KindText, Text: text, Marks: marks.Clone()}
}

// NewElement returns an element node of the given type.
func NewElement(typ string, children ...*Node) *Node {
	return &Node{Kind: KindElement, Type: typ, Children: children}
}

// NewInline returns an inline element of the given type.
func NewInline(typ string, children ...*Node) *Node {
	return &Node{Kind: KindElement, Type: typ, Inline: true, Children: children}
}

// NewVoid returns a void element of the given type. Void content is
// opaque to editing.
func NewVoid(typ string, children ...*Node) *Node {
	return &Node{Kind: KindElement, Type: typ, Void: true, Children: children}
}

// IsText reports whether the node is a text leaf.
func (n *Node) IsText() bool { return n.Kind == KindText }

// IsElement reports whether the node is an element.
func (n *Node) IsElement() bool { return n.Kind == KindElement }

// Clone returns a deep copy of the node.
func (n *Node) Clone() *Node {
	c := &Node{
		Kind:   n.Kind,
		Type:   n.Type,
		Void:   n.Void,
		Inline: n.Inline,
		Text:   n.Text,
		Marks:  n.Marks.Clone(),
	}
	if n.Children != nil {
		c.Children = make([]*Node, len(n.Children))
		for i, ch := range n.Children {
			c.Children[i] = ch.Clone()
		}
	}
	return c
}

// PlainText returns the concatenated text content of the subtree.
func (n *Node) PlainText() string {
	if n.IsText() {
		return n.Text
	}
	var out string
	for _, ch := range n.Children {
		out += ch.PlainText()
	}
	return out
}
