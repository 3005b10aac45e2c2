package model

import (
	"strings"

	"github.com/rivo/uniseg"
)

// Unit is the granularity of a directional delete.
type Unit uint8

const (
	// UnitCharacter deletes one grapheme cluster.
	UnitCharacter Unit = iota
	// UnitWord deletes to the nearest word boundary.
	UnitWord
	// UnitLine deletes to the nearest soft line boundary (newline
	// within the block).
	UnitLine
	// UnitBlock deletes to the edge of the containing block.
	UnitBlock
)

// String returns the unit name.
func (u Unit) String() string {
	switch u {
	case UnitCharacter:
		return "character"
	case UnitWord:
		return "word"
	case UnitLine:
		return "line"
	case UnitBlock:
		return "block"
	default:
		return "unknown"
	}
}

// Direction qualifies a fragment delete. It records intent only; the
// surviving point is always the fragment's start.
type Direction uint8

const (
	// DirectionNone is an undirected delete (cut, drag, composition).
	DirectionNone Direction = iota
	// DirectionBackward is a delete toward the document start.
	DirectionBackward
	// DirectionForward is a delete toward the document end.
	DirectionForward
)

// DeleteBackward deletes one unit before a collapsed selection. An
// expanded selection deletes its fragment instead, regardless of unit.
func (e *Editor) DeleteBackward(unit Unit) error {
	if e.selection == nil {
		return ErrNoSelection
	}
	if e.selection.IsExpanded() {
		return e.DeleteFragment(DirectionBackward)
	}
	point := e.selection.Focus.Clone()
	leaf, err := e.Leaf(point)
	if err != nil {
		return err
	}

	if point.Offset == 0 {
		return e.deleteBackwardAcross(point, unit)
	}

	prefix := runeSlice(leaf.Text, 0, point.Offset)
	n := backwardDistance(prefix, unit)
	if n == 0 {
		return nil
	}
	return e.deleteLeafRange(point.Path, point.Offset-n, point.Offset)
}

// DeleteForward deletes one unit after a collapsed selection. An
// expanded selection deletes its fragment instead.
func (e *Editor) DeleteForward(unit Unit) error {
	if e.selection == nil {
		return ErrNoSelection
	}
	if e.selection.IsExpanded() {
		return e.DeleteFragment(DirectionForward)
	}
	point := e.selection.Focus.Clone()
	leaf, err := e.Leaf(point)
	if err != nil {
		return err
	}

	if point.Offset == runeLen(leaf.Text) {
		return e.deleteForwardAcross(point, unit)
	}

	suffix := runeSlice(leaf.Text, point.Offset, runeLen(leaf.Text))
	n := forwardDistance(suffix, unit)
	if n == 0 {
		return nil
	}
	return e.deleteLeafRange(point.Path, point.Offset, point.Offset+n)
}

// deleteBackwardAcross handles a backward delete at a leaf's start:
// first the previous leaf in the same block, then the previous block.
func (e *Editor) deleteBackwardAcross(point Point, unit Unit) error {
	if len(point.Path) >= 2 && point.Path[len(point.Path)-1] > 0 {
		prev := point.Path.Parent().Child(point.Path[len(point.Path)-1] - 1)
		node, err := e.NodeAt(prev)
		if err != nil {
			return err
		}
		if node.IsText() {
			sel := NewCollapsed(Point{Path: prev, Offset: runeLen(node.Text)})
			e.selection = &sel
			return e.DeleteBackward(unit)
		}
		// Previous sibling is an inline or void element: remove it whole.
		return e.removeChild(prev)
	}
	if len(point.Path) >= 1 && point.Path[0] > 0 {
		return e.mergeBlockWithPrevious(point.Path[0])
	}
	return nil
}

// deleteForwardAcross handles a forward delete at a leaf's end.
func (e *Editor) deleteForwardAcross(point Point, unit Unit) error {
	parent, err := e.NodeAt(point.Path.Parent())
	if err != nil {
		return err
	}
	idx := point.Path[len(point.Path)-1]
	if idx+1 < len(parent.Children) {
		next := point.Path.Parent().Child(idx + 1)
		node, err := e.NodeAt(next)
		if err != nil {
			return err
		}
		if node.IsText() {
			sel := NewCollapsed(Point{Path: next, Offset: 0})
			e.selection = &sel
			return e.DeleteForward(unit)
		}
		return e.removeChild(next)
	}
	if len(point.Path) >= 1 && point.Path[0]+1 < len(e.root.Children) {
		return e.mergeBlockWithPrevious(point.Path[0] + 1)
	}
	return nil
}

// deleteLeafRange removes runes [a, b) from the leaf at path and
// collapses the selection to a.
func (e *Editor) deleteLeafRange(path Path, a, b int) error {
	node, err := e.NodeAt(path)
	if err != nil {
		return err
	}
	if !node.IsText() {
		return ErrNotText
	}
	node.Text = runeSlice(node.Text, 0, a) + runeSlice(node.Text, b, runeLen(node.Text))
	e.notifyDelete(Point{Path: path, Offset: a}, b-a)
	sel := NewCollapsed(Point{Path: path.Clone(), Offset: a})
	e.selection = &sel
	e.normalize()
	return nil
}

// removeChild deletes a non-text child node and collapses the
// selection to the removal point.
func (e *Editor) removeChild(path Path) error {
	parent, err := e.NodeAt(path.Parent())
	if err != nil {
		return err
	}
	idx := path[len(path)-1]
	if idx < 0 || idx >= len(parent.Children) {
		return ErrInvalidPath
	}
	parent.Children = append(parent.Children[:idx], parent.Children[idx+1:]...)
	e.notifyStructural()
	e.normalize()
	e.reselectInBlock(path[0])
	return nil
}

// mergeBlockWithPrevious merges block bi into block bi-1 and collapses
// the selection to the join point.
func (e *Editor) mergeBlockWithPrevious(bi int) error {
	if bi <= 0 || bi >= len(e.root.Children) {
		return ErrInvalidPath
	}
	prev := e.root.Children[bi-1]
	cur := e.root.Children[bi]

	// Join point: end of the previous block's last leaf.
	joinChild := len(prev.Children) - 1
	joinOffset := 0
	if joinChild >= 0 && prev.Children[joinChild].IsText() {
		joinOffset = runeLen(prev.Children[joinChild].Text)
	}

	prev.Children = append(prev.Children, cur.Children...)
	e.root.Children = append(e.root.Children[:bi], e.root.Children[bi+1:]...)

	e.notifyStructural()
	if joinChild < 0 {
		joinChild = 0
	}
	sel := NewCollapsed(Point{Path: Path{bi - 1, joinChild}, Offset: joinOffset})
	e.selection = &sel
	e.normalize()
	return nil
}

// reselectInBlock collapses the selection to the start of the given
// block if the current selection no longer resolves.
func (e *Editor) reselectInBlock(bi int) {
	if e.selection != nil && e.HasPoint(e.selection.Focus) {
		return
	}
	if bi >= len(e.root.Children) {
		bi = len(e.root.Children) - 1
	}
	if bi < 0 {
		e.selection = nil
		return
	}
	sel := NewCollapsed(Point{Path: Path{bi, 0}, Offset: 0})
	e.selection = &sel
}

// DeleteFragment deletes the selected range and collapses the
// selection to the range's start. Direction records the initiating
// intent only; it never widens the deleted content.
func (e *Editor) DeleteFragment(_ Direction) error {
	if e.selection == nil {
		return ErrNoSelection
	}
	if e.selection.IsCollapsed() {
		return nil
	}
	start, end := e.selection.Edges()

	if start.Path.Equal(end.Path) {
		return e.deleteLeafRange(start.Path, start.Offset, end.Offset)
	}

	if start.Path[0] == end.Path[0] {
		return e.deleteWithinBlock(start, end)
	}
	return e.deleteAcrossBlocks(start, end)
}

// deleteWithinBlock removes a fragment spanning several children of a
// single block.
func (e *Editor) deleteWithinBlock(start, end Point) error {
	block, bi, err := e.Block(start.Path)
	if err != nil {
		return err
	}
	si, ei := start.Path[1], end.Path[1]

	if sl := block.Children[si]; sl.IsText() {
		sl.Text = runeSlice(sl.Text, 0, start.Offset)
	}
	if el := block.Children[ei]; el.IsText() {
		el.Text = runeSlice(el.Text, end.Offset, runeLen(el.Text))
	}
	block.Children = append(block.Children[:si+1], block.Children[ei:]...)

	e.notifyStructural()
	sel := NewCollapsed(Point{Path: Path{bi, si}, Offset: start.Offset})
	e.selection = &sel
	e.normalize()
	return nil
}

// deleteAcrossBlocks removes a fragment spanning block boundaries and
// merges the surviving halves into the start block.
func (e *Editor) deleteAcrossBlocks(start, end Point) error {
	sb, sbi, err := e.Block(start.Path)
	if err != nil {
		return err
	}
	eb, ebi, err := e.Block(end.Path)
	if err != nil {
		return err
	}

	si := start.Path[1]
	if sl := sb.Children[si]; sl.IsText() {
		sl.Text = runeSlice(sl.Text, 0, start.Offset)
	}
	sb.Children = sb.Children[:si+1]

	ei := end.Path[1]
	if el := eb.Children[ei]; el.IsText() {
		el.Text = runeSlice(el.Text, end.Offset, runeLen(el.Text))
	}
	eb.Children = eb.Children[ei:]

	// Merge the tail of the end block into the start block and drop
	// everything in between.
	sb.Children = append(sb.Children, eb.Children...)
	e.root.Children = append(e.root.Children[:sbi+1], e.root.Children[ebi+1:]...)

	e.notifyStructural()
	sel := NewCollapsed(Point{Path: Path{sbi, si}, Offset: start.Offset})
	e.selection = &sel
	e.normalize()
	return nil
}

// backwardDistance returns the rune count to delete before the end of
// prefix for the given unit.
func backwardDistance(prefix string, unit Unit) int {
	if prefix == "" {
		return 0
	}
	switch unit {
	case UnitCharacter:
		return lastGraphemeLen(prefix)
	case UnitWord:
		trimmed := strings.TrimRight(prefix, " \t")
		ws := runeLen(prefix) - runeLen(trimmed)
		return ws + lastWordLen(trimmed)
	case UnitLine:
		if i := strings.LastIndex(prefix, "\n"); i >= 0 {
			return runeLen(prefix) - runeLen(prefix[:i+1])
		}
		return runeLen(prefix)
	case UnitBlock:
		return runeLen(prefix)
	default:
		return 0
	}
}

// forwardDistance returns the rune count to delete from the start of
// suffix for the given unit.
func forwardDistance(suffix string, unit Unit) int {
	if suffix == "" {
		return 0
	}
	switch unit {
	case UnitCharacter:
		return firstGraphemeLen(suffix)
	case UnitWord:
		trimmed := strings.TrimLeft(suffix, " \t")
		ws := runeLen(suffix) - runeLen(trimmed)
		return ws + firstWordLen(trimmed)
	case UnitLine:
		if i := strings.Index(suffix, "\n"); i >= 0 {
			return runeLen(suffix[:i])
		}
		return runeLen(suffix)
	case UnitBlock:
		return runeLen(suffix)
	default:
		return 0
	}
}

// lastGraphemeLen returns the rune length of the final grapheme
// cluster of s.
func lastGraphemeLen(s string) int {
	g := uniseg.NewGraphemes(s)
	var last []rune
	for g.Next() {
		last = g.Runes()
	}
	return len(last)
}

// firstGraphemeLen returns the rune length of the first grapheme
// cluster of s.
func firstGraphemeLen(s string) int {
	g, _, _, _ := uniseg.FirstGraphemeClusterInString(s, -1)
	return runeLen(g)
}

// lastWordLen returns the rune length of the final word segment of s.
func lastWordLen(s string) int {
	rest := s
	var last string
	for len(rest) > 0 {
		var w string
		w, rest, _ = uniseg.FirstWordInString(rest, -1)
		last = w
	}
	return runeLen(last)
}

// firstWordLen returns the rune length of the first word segment of s.
func firstWordLen(s string) int {
	w, _, _ := uniseg.FirstWordInString(s, -1)
	return runeLen(w)
}
