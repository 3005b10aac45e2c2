package reconcile

import "github.com/dshills/surfedit/internal/model"

// dragTracker tracks an internal drag: a drag whose source is this
// surface's own selection, which must be deleted when the content is
// dropped elsewhere.
type dragTracker struct {
	active bool

	// source is the dragged selection at drag start.
	source *model.Range
}

func newDragTracker() *dragTracker {
	return &dragTracker{}
}

func (t *dragTracker) start(source model.Range) {
	t.active = true
	c := source.Clone()
	t.source = &c
}

func (t *dragTracker) end() {
	t.active = false
	t.source = nil
}

func (t *dragTracker) isActive() bool { return t.active }

func (t *dragTracker) sourceRange() *model.Range { return t.source }
