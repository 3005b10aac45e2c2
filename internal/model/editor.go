package model

// History is the optional undo capability a document implementation may
// declare. The reconciler queries for it with HistoryOf instead of
// probing fields reflectively.
type History interface {
	Undo()
	Redo()
}

// Editor owns a document tree and its selection and exposes the
// operation API every mutation is funneled through.
type Editor struct {
	root         *Node
	selection    *Range
	pendingMarks Marks

	// normalizeDepth > 0 suppresses normalization (WithoutNormalizing).
	normalizeDepth int

	rangeRefs map[*RangeRef]struct{}

	history History
}

// New returns an editor over the given top-level blocks. With no blocks
// it starts as a single empty paragraph.
func New(blocks ...*Node) *Editor {
	if len(blocks) == 0 {
		blocks = []*Node{NewElement("paragraph", NewText("", nil))}
	}
	return &Editor{
		root:      &Node{Kind: KindElement, Type: "root", Children: blocks},
		rangeRefs: make(map[*RangeRef]struct{}),
	}
}

// Root returns the document root. Callers must not mutate the tree
// directly; it is exposed for rendering and diffing.
func (e *Editor) Root() *Node { return e.root }

// SetHistory attaches an undo/redo implementation.
func (e *Editor) SetHistory(h History) { e.history = h }

// HistoryOf returns the editor's history capability, or false if the
// document implementation declares none.
func HistoryOf(e *Editor) (History, bool) {
	if e.history == nil {
		return nil, false
	}
	return e.history, true
}

// NodeAt resolves a path to its node.
func (e *Editor) NodeAt(path Path) (*Node, error) {
	n := e.root
	for _, idx := range path {
		if !n.IsElement() || idx < 0 || idx >= len(n.Children) {
			return nil, ErrInvalidPath
		}
		n = n.Children[idx]
	}
	return n, nil
}

// HasPath reports whether a path resolves to a node.
func (e *Editor) HasPath(path Path) bool {
	_, err := e.NodeAt(path)
	return err == nil
}

// Leaf resolves a point to its text leaf, validating the offset.
func (e *Editor) Leaf(p Point) (*Node, error) {
	n, err := e.NodeAt(p.Path)
	if err != nil {
		return nil, err
	}
	if !n.IsText() {
		return nil, ErrNotText
	}
	if p.Offset < 0 || p.Offset > len([]rune(n.Text)) {
		return nil, ErrInvalidOffset
	}
	return n, nil
}

// HasPoint reports whether a point resolves to a valid position.
func (e *Editor) HasPoint(p Point) bool {
	_, err := e.Leaf(p)
	return err == nil
}

// Block returns the top-level block containing the path along with its
// index under the root.
func (e *Editor) Block(path Path) (*Node, int, error) {
	if len(path) == 0 {
		return nil, 0, ErrInvalidPath
	}
	idx := path[0]
	if idx < 0 || idx >= len(e.root.Children) {
		return nil, 0, ErrInvalidPath
	}
	return e.root.Children[idx], idx, nil
}

// IsVoid reports whether the path addresses a void element or a
// descendant of one.
func (e *Editor) IsVoid(path Path) bool {
	n := e.root
	for _, idx := range path {
		if !n.IsElement() || idx < 0 || idx >= len(n.Children) {
			return false
		}
		n = n.Children[idx]
		if n.IsElement() && n.Void {
			return true
		}
	}
	return false
}

// IsInline reports whether the path addresses an inline element or a
// text leaf inside one.
func (e *Editor) IsInline(path Path) bool {
	n := e.root
	for _, idx := range path {
		if !n.IsElement() || idx < 0 || idx >= len(n.Children) {
			return false
		}
		n = n.Children[idx]
		if n.IsElement() && n.Inline {
			return true
		}
	}
	return false
}

// Selection returns the current selection, or nil when the document is
// deselected. The returned range is a copy.
func (e *Editor) Selection() *Range {
	if e.selection == nil {
		return nil
	}
	r := e.selection.Clone()
	return &r
}

// Select replaces the selection. Both endpoints must resolve to text
// leaves.
func (e *Editor) Select(r Range) error {
	if _, err := e.Leaf(r.Anchor); err != nil {
		return err
	}
	if _, err := e.Leaf(r.Focus); err != nil {
		return err
	}
	c := r.Clone()
	e.selection = &c
	return nil
}

// Deselect clears the selection.
func (e *Editor) Deselect() { e.selection = nil }

// Collapse collapses the selection to its focus point.
func (e *Editor) Collapse() error {
	if e.selection == nil {
		return ErrNoSelection
	}
	c := NewCollapsed(e.selection.Focus)
	e.selection = &c
	return nil
}

// Move moves a collapsed selection by n runes within its leaf, clamped
// to the leaf bounds.
func (e *Editor) Move(n int) error {
	if e.selection == nil {
		return ErrNoSelection
	}
	leaf, err := e.Leaf(e.selection.Focus)
	if err != nil {
		return err
	}
	off := e.selection.Focus.Offset + n
	if off < 0 {
		off = 0
	}
	if max := len([]rune(leaf.Text)); off > max {
		off = max
	}
	p := Point{Path: e.selection.Focus.Path.Clone(), Offset: off}
	c := NewCollapsed(p)
	e.selection = &c
	return nil
}

// AddMark enables a pending formatting mark for the next insertion.
func (e *Editor) AddMark(mark string) {
	if e.pendingMarks == nil {
		e.pendingMarks = make(Marks)
	}
	e.pendingMarks[mark] = true
}

// RemoveMark disables a pending formatting mark.
func (e *Editor) RemoveMark(mark string) {
	delete(e.pendingMarks, mark)
}

// PendingMarks returns the marks that will be applied to the next
// inserted text, or nil when none are pending.
func (e *Editor) PendingMarks() Marks {
	if len(e.pendingMarks.enabled()) == 0 {
		return nil
	}
	return e.pendingMarks.Clone()
}

// ClearPendingMarks drops any pending marks.
func (e *Editor) ClearPendingMarks() { e.pendingMarks = nil }

// NewRangeRef creates a weak, auto-adjusting reference to a range.
func (e *Editor) NewRangeRef(r Range) *RangeRef {
	c := r.Clone()
	ref := &RangeRef{editor: e, current: &c}
	e.rangeRefs[ref] = struct{}{}
	return ref
}

// WithoutNormalizing runs fn as a single batch without intermediate
// normalization, then normalizes once at the end (unless nested inside
// another batch).
func (e *Editor) WithoutNormalizing(fn func() error) error {
	e.normalizeDepth++
	err := fn()
	e.normalizeDepth--
	if e.normalizeDepth == 0 {
		e.normalize()
	}
	return err
}

// notifyInsert updates live range references for a text insertion.
func (e *Editor) notifyInsert(p Point, n int) {
	for ref := range e.rangeRefs {
		ref.adjustInsert(p, n)
	}
}

// notifyDelete updates live range references for a text deletion.
func (e *Editor) notifyDelete(p Point, n int) {
	for ref := range e.rangeRefs {
		ref.adjustDelete(p, n)
	}
}

// notifyStructural invalidates live range references after a mutation
// that moved nodes between paths.
func (e *Editor) notifyStructural() {
	for ref := range e.rangeRefs {
		ref.invalidate()
	}
}

// normalize restores the tree invariants: every block keeps at least
// one text leaf, adjacent leaves with identical marks merge, and empty
// leaves vanish unless they are a block's only child. The selection is
// re-pointed at merged leaves where the merge is unambiguous.
func (e *Editor) normalize() {
	if e.normalizeDepth > 0 {
		return
	}
	for bi, block := range e.root.Children {
		e.normalizeElement(block, Path{bi})
	}
	if e.selection != nil && (!e.HasPoint(e.selection.Anchor) || !e.HasPoint(e.selection.Focus)) {
		e.selection = nil
	}
}

func (e *Editor) normalizeElement(el *Node, path Path) {
	if !el.IsElement() || el.Void {
		return
	}
	for i, ch := range el.Children {
		e.normalizeElement(ch, path.Child(i))
	}

	// Merge adjacent text leaves carrying the same marks.
	for i := 0; i+1 < len(el.Children); {
		a, b := el.Children[i], el.Children[i+1]
		if a.IsText() && b.IsText() && a.Marks.Equal(b.Marks) {
			alen := len([]rune(a.Text))
			a.Text += b.Text
			e.remapMerged(path.Child(i+1), path.Child(i), alen)
			el.Children = append(el.Children[:i+1], el.Children[i+2:]...)
			continue
		}
		i++
	}

	// Drop empty leaves that are not the sole child.
	for i := 0; i < len(el.Children) && len(el.Children) > 1; {
		ch := el.Children[i]
		if ch.IsText() && ch.Text == "" {
			el.Children = append(el.Children[:i], el.Children[i+1:]...)
			continue
		}
		i++
	}

	// A block must keep a text leaf to remain addressable.
	if len(el.Children) == 0 {
		el.Children = []*Node{NewText("", nil)}
	}
}

// remapMerged re-points the selection from a merged-away leaf onto the
// leaf that absorbed it.
func (e *Editor) remapMerged(from, into Path, baseOffset int) {
	if e.selection == nil {
		return
	}
	remap := func(p Point) Point {
		if p.Path.Equal(from) {
			return Point{Path: into.Clone(), Offset: baseOffset + p.Offset}
		}
		return p
	}
	e.selection.Anchor = remap(e.selection.Anchor)
	e.selection.Focus = remap(e.selection.Focus)
}

// PlainText returns the document's text content, blocks joined by
// newlines.
func (e *Editor) PlainText() string {
	var out string
	for i, block := range e.root.Children {
		if i > 0 {
			out += "\n"
		}
		out += block.PlainText()
	}
	return out
}
