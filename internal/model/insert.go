package model

// runeLen returns the length of s in runes. Offsets throughout the
// model are rune-indexed.
func runeLen(s string) int { return len([]rune(s)) }

// runeSlice returns s[a:b] in rune indices.
func runeSlice(s string, a, b int) string {
	r := []rune(s)
	if a < 0 {
		a = 0
	}
	if b > len(r) {
		b = len(r)
	}
	if a >= b {
		return ""
	}
	return string(r[a:b])
}

// InsertText inserts text at the selection. An expanded selection is
// deleted first. Pending marks split the target leaf so the inserted
// run carries them; the selection ends collapsed after the insertion.
func (e *Editor) InsertText(text string) error {
	if e.selection == nil {
		return ErrNoSelection
	}
	if text == "" {
		return nil
	}
	if e.selection.IsExpanded() {
		if err := e.DeleteFragment(DirectionNone); err != nil {
			return err
		}
	}
	point := e.selection.Focus.Clone()
	leaf, err := e.Leaf(point)
	if err != nil {
		return err
	}

	marks := e.PendingMarks()
	if marks != nil && !marks.Equal(leaf.Marks) {
		return e.insertMarkedText(point, leaf, text, marks)
	}

	leaf.Text = runeSlice(leaf.Text, 0, point.Offset) + text + runeSlice(leaf.Text, point.Offset, runeLen(leaf.Text))
	n := runeLen(text)
	e.notifyInsert(point, n)
	e.ClearPendingMarks()

	sel := NewCollapsed(Point{Path: point.Path.Clone(), Offset: point.Offset + n})
	e.selection = &sel
	e.normalize()
	return nil
}

// insertMarkedText splits the leaf at the insertion point and places a
// new leaf carrying the pending marks between the halves.
func (e *Editor) insertMarkedText(point Point, leaf *Node, text string, marks Marks) error {
	parent, err := e.NodeAt(point.Path.Parent())
	if err != nil {
		return err
	}
	idx := point.Path[len(point.Path)-1]

	left := runeSlice(leaf.Text, 0, point.Offset)
	right := runeSlice(leaf.Text, point.Offset, runeLen(leaf.Text))

	inserted := NewText(text, marks)
	newChildren := append([]*Node{}, parent.Children[:idx]...)
	if left != "" {
		leaf.Text = left
		newChildren = append(newChildren, leaf)
	}
	insIdx := len(newChildren)
	newChildren = append(newChildren, inserted)
	if right != "" {
		newChildren = append(newChildren, NewText(right, leaf.Marks.Clone()))
	}
	newChildren = append(newChildren, parent.Children[idx+1:]...)
	parent.Children = newChildren

	e.notifyStructural()
	e.ClearPendingMarks()

	insPath := point.Path.Parent().Child(insIdx)
	sel := NewCollapsed(Point{Path: insPath, Offset: runeLen(text)})
	e.selection = &sel
	// The marked leaf must survive as its own run; normalization keeps
	// it because its marks differ from its neighbors.
	e.normalize()
	return nil
}

// InsertSoftBreak inserts a line break within the current block.
func (e *Editor) InsertSoftBreak() error {
	return e.InsertText("\n")
}

// InsertBreak splits the current block at the selection, producing two
// blocks of the same type. The selection collapses to the start of the
// new block.
func (e *Editor) InsertBreak() error {
	if e.selection == nil {
		return ErrNoSelection
	}
	if e.selection.IsExpanded() {
		if err := e.DeleteFragment(DirectionNone); err != nil {
			return err
		}
	}
	point := e.selection.Focus.Clone()
	block, bi, err := e.Block(point.Path)
	if err != nil {
		return err
	}

	var leftChildren, rightChildren []*Node
	if len(point.Path) == 2 {
		ci := point.Path[1]
		leaf := block.Children[ci]
		if !leaf.IsText() {
			return ErrNotText
		}
		left := NewText(runeSlice(leaf.Text, 0, point.Offset), leaf.Marks.Clone())
		right := NewText(runeSlice(leaf.Text, point.Offset, runeLen(leaf.Text)), leaf.Marks.Clone())
		leftChildren = append(append([]*Node{}, block.Children[:ci]...), left)
		rightChildren = append([]*Node{right}, block.Children[ci+1:]...)
	} else {
		// Leaf nested below an inline: split at the inline boundary.
		ci := point.Path[1]
		leftChildren = append([]*Node{}, block.Children[:ci+1]...)
		rightChildren = append([]*Node{}, block.Children[ci+1:]...)
	}

	block.Children = leftChildren
	next := &Node{Kind: KindElement, Type: block.Type, Children: rightChildren}
	rest := append([]*Node{}, e.root.Children[bi+1:]...)
	e.root.Children = append(append(e.root.Children[:bi+1], next), rest...)

	e.notifyStructural()
	sel := NewCollapsed(Point{Path: Path{bi + 1, 0}, Offset: 0})
	e.selection = &sel
	e.normalize()
	return nil
}

// InsertFragment inserts a multi-block fragment at the selection. The
// first block's content merges into the current block; each following
// block splits off a new one. Leaf marks in the fragment are preserved.
func (e *Editor) InsertFragment(blocks []*Node) error {
	if len(blocks) == 0 {
		return nil
	}
	if e.selection == nil {
		return ErrNoSelection
	}
	if e.selection.IsExpanded() {
		if err := e.DeleteFragment(DirectionNone); err != nil {
			return err
		}
	}
	for i, block := range blocks {
		if i > 0 {
			if err := e.InsertBreak(); err != nil {
				return err
			}
		}
		if err := e.insertBlockContent(block); err != nil {
			return err
		}
	}
	return nil
}

func (e *Editor) insertBlockContent(block *Node) error {
	children := block.Children
	if block.IsText() {
		children = []*Node{block}
	}
	for _, ch := range children {
		text := ch.PlainText()
		if text == "" {
			continue
		}
		e.ClearPendingMarks()
		if ch.IsText() {
			for mark, on := range ch.Marks {
				if on {
					e.AddMark(mark)
				}
			}
		}
		if err := e.InsertText(text); err != nil {
			return err
		}
	}
	e.ClearPendingMarks()
	return nil
}
