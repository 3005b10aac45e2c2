package model

// Range is a pair of points. Anchor is where a selection started; Focus
// is where it currently ends. Focus may precede Anchor in document
// order, in which case the range is backward.
type Range struct {
	Anchor Point
	Focus  Point
}

// NewCollapsed returns a zero-width range at the given point.
func NewCollapsed(p Point) Range {
	return Range{Anchor: p.Clone(), Focus: p.Clone()}
}

// Clone returns an independent copy of the range.
func (r Range) Clone() Range {
	return Range{Anchor: r.Anchor.Clone(), Focus: r.Focus.Clone()}
}

// Equal reports whether both endpoints match.
func (r Range) Equal(other Range) bool {
	return r.Anchor.Equal(other.Anchor) && r.Focus.Equal(other.Focus)
}

// IsCollapsed reports whether the range has zero width.
func (r Range) IsCollapsed() bool { return r.Anchor.Equal(r.Focus) }

// IsExpanded reports whether the range has non-zero width.
func (r Range) IsExpanded() bool { return !r.IsCollapsed() }

// IsBackward reports whether the focus precedes the anchor in document
// order.
func (r Range) IsBackward() bool { return r.Focus.Before(r.Anchor) }

// Edges returns the endpoints in document order: start first.
func (r Range) Edges() (start, end Point) {
	if r.IsBackward() {
		return r.Focus, r.Anchor
	}
	return r.Anchor, r.Focus
}

// Includes reports whether the point lies inside the range, inclusive
// of both edges.
func (r Range) Includes(p Point) bool {
	start, end := r.Edges()
	return start.Compare(p) <= 0 && p.Compare(end) <= 0
}

// RangeRef is a weak reference to a range that auto-adjusts as text is
// inserted or deleted around it. Structural mutations (splits, merges,
// fragment deletion) invalidate the reference; Current then returns
// nil. References are created at the start of an input-handling pass
// and released at its end, never held across passes.
type RangeRef struct {
	editor  *Editor
	current *Range
}

// Current returns the adjusted range, or nil if the reference has been
// invalidated or released.
func (ref *RangeRef) Current() *Range {
	if ref == nil {
		return nil
	}
	return ref.current
}

// Release detaches the reference from the editor. The last adjusted
// range is returned, or nil if invalidated.
func (ref *RangeRef) Release() *Range {
	if ref == nil {
		return nil
	}
	r := ref.current
	ref.current = nil
	if ref.editor != nil {
		delete(ref.editor.rangeRefs, ref)
		ref.editor = nil
	}
	return r
}

// invalidate drops the tracked range in place.
func (ref *RangeRef) invalidate() {
	ref.current = nil
}

// adjustInsert shifts the tracked range for a text insertion of n runes
// at p.
func (ref *RangeRef) adjustInsert(p Point, n int) {
	if ref.current == nil {
		return
	}
	ref.current.Anchor = adjustPointInsert(ref.current.Anchor, p, n)
	ref.current.Focus = adjustPointInsert(ref.current.Focus, p, n)
}

// adjustDelete shifts the tracked range for a text deletion of n runes
// ending at p (deletion covers [p.Offset, p.Offset+n) in p's leaf).
func (ref *RangeRef) adjustDelete(p Point, n int) {
	if ref.current == nil {
		return
	}
	ref.current.Anchor = adjustPointDelete(ref.current.Anchor, p, n)
	ref.current.Focus = adjustPointDelete(ref.current.Focus, p, n)
}

func adjustPointInsert(pt, at Point, n int) Point {
	if pt.Path.Equal(at.Path) && pt.Offset >= at.Offset {
		pt.Offset += n
	}
	return pt
}

func adjustPointDelete(pt, at Point, n int) Point {
	if !pt.Path.Equal(at.Path) {
		return pt
	}
	switch {
	case pt.Offset >= at.Offset+n:
		pt.Offset -= n
	case pt.Offset > at.Offset:
		pt.Offset = at.Offset
	}
	return pt
}
