package surface

import (
	"errors"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/surfedit/internal/model"
)

// ErrBadFragment indicates a fragment payload that does not parse as a
// serialized node list.
var ErrBadFragment = errors.New("surface: malformed fragment payload")

// PayloadKind identifies the variant of a data-transfer payload.
type PayloadKind uint8

const (
	// PayloadText is a plain text transfer.
	PayloadText PayloadKind = iota
	// PayloadFragment is a structured transfer of serialized model
	// nodes.
	PayloadFragment
)

// Payload is the content of a clipboard or drag transfer. The variant
// is fixed when the transfer enters the system; consumers switch on
// Kind instead of probing the value's shape.
type Payload interface {
	Kind() PayloadKind
}

// TextPayload is a plain text transfer.
type TextPayload string

// Kind implements Payload.
func (TextPayload) Kind() PayloadKind { return PayloadText }

// FragmentPayload is a structured transfer carrying model nodes
// serialized as JSON.
type FragmentPayload struct {
	JSON string
}

// Kind implements Payload.
func (FragmentPayload) Kind() PayloadKind { return PayloadFragment }

// EncodeFragment serializes blocks into a fragment payload.
func EncodeFragment(blocks []*model.Node) (FragmentPayload, error) {
	out := `{"blocks":[]}`
	var err error
	for _, b := range blocks {
		out, err = sjson.Set(out, "blocks.-1", nodeValue(b))
		if err != nil {
			return FragmentPayload{}, err
		}
	}
	return FragmentPayload{JSON: out}, nil
}

// nodeValue converts a node to the generic value sjson serializes.
func nodeValue(n *model.Node) map[string]interface{} {
	if n.IsText() {
		v := map[string]interface{}{"text": n.Text}
		var marks []string
		for m, on := range n.Marks {
			if on {
				marks = append(marks, m)
			}
		}
		if len(marks) > 0 {
			v["marks"] = marks
		}
		return v
	}
	v := map[string]interface{}{"type": n.Type}
	if n.Void {
		v["void"] = true
	}
	if n.Inline {
		v["inline"] = true
	}
	var children []interface{}
	for _, ch := range n.Children {
		children = append(children, nodeValue(ch))
	}
	v["children"] = children
	return v
}

// Decode parses the payload back into model nodes.
func (p FragmentPayload) Decode() ([]*model.Node, error) {
	if !gjson.Valid(p.JSON) {
		return nil, ErrBadFragment
	}
	blocks := gjson.Get(p.JSON, "blocks")
	if !blocks.IsArray() {
		return nil, ErrBadFragment
	}
	var out []*model.Node
	for _, b := range blocks.Array() {
		n, err := decodeNode(b)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func decodeNode(v gjson.Result) (*model.Node, error) {
	if !v.IsObject() {
		return nil, ErrBadFragment
	}
	if text := v.Get("text"); text.Exists() {
		var marks model.Marks
		if ms := v.Get("marks"); ms.IsArray() {
			marks = make(model.Marks)
			for _, m := range ms.Array() {
				marks[m.String()] = true
			}
		}
		return model.NewText(text.String(), marks), nil
	}
	typ := v.Get("type")
	if !typ.Exists() {
		return nil, ErrBadFragment
	}
	n := &model.Node{
		Kind:   model.KindElement,
		Type:   typ.String(),
		Void:   v.Get("void").Bool(),
		Inline: v.Get("inline").Bool(),
	}
	for _, ch := range v.Get("children").Array() {
		c, err := decodeNode(ch)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, c)
	}
	return n, nil
}

// ExtractFragment copies the selected portion of the document as
// payload content for copy/cut/drag. The plain-text rendering is
// returned alongside the structured fragment.
func ExtractFragment(ed *model.Editor) (FragmentPayload, string, error) {
	sel := ed.Selection()
	if sel == nil || sel.IsCollapsed() {
		return FragmentPayload{}, "", nil
	}
	start, end := sel.Edges()
	var blocks []*model.Node
	for bi := start.Path[0]; bi <= end.Path[0]; bi++ {
		src, err := ed.NodeAt(model.Path{bi})
		if err != nil {
			return FragmentPayload{}, "", err
		}
		block := src.Clone()
		if bi == end.Path[0] && len(end.Path) >= 2 {
			trimAfter(block, end.Path[1], end.Offset)
		}
		if bi == start.Path[0] && len(start.Path) >= 2 {
			trimBefore(block, start.Path[1], start.Offset)
		}
		blocks = append(blocks, block)
	}
	frag, err := EncodeFragment(blocks)
	if err != nil {
		return FragmentPayload{}, "", err
	}
	var text string
	for i, b := range blocks {
		if i > 0 {
			text += "\n"
		}
		text += b.PlainText()
	}
	return frag, text, nil
}

// trimBefore drops block content before child ci offset off.
func trimBefore(block *model.Node, ci, off int) {
	if ci >= len(block.Children) {
		return
	}
	if leaf := block.Children[ci]; leaf.IsText() {
		r := []rune(leaf.Text)
		if off <= len(r) {
			leaf.Text = string(r[off:])
		}
	}
	block.Children = block.Children[ci:]
}

// trimAfter drops block content after child ci offset off.
func trimAfter(block *model.Node, ci, off int) {
	if ci >= len(block.Children) {
		return
	}
	if leaf := block.Children[ci]; leaf.IsText() {
		r := []rune(leaf.Text)
		if off <= len(r) {
			leaf.Text = string(r[:off])
		}
	}
	block.Children = block.Children[:ci+1]
}
