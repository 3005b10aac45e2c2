package reconcile

import (
	"github.com/dshills/surfedit/internal/intent"
	"github.com/dshills/surfedit/internal/model"
	"github.com/dshills/surfedit/internal/surface"
)

// Clipboard is a copy/cut result: the structured fragment plus its
// plain-text rendering, both placed on the host clipboard.
type Clipboard struct {
	Fragment surface.FragmentPayload
	Text     string
}

// HandleCopy extracts the selected fragment for the host clipboard.
// It returns false when there is nothing to copy or a hook claimed the
// event.
func (r *Reconciler) HandleCopy() (Clipboard, bool) {
	if r.opts.OnCopy != nil && r.opts.OnCopy() {
		return Clipboard{}, false
	}
	frag, text, err := surface.ExtractFragment(r.editor)
	if err != nil || text == "" && frag.JSON == "" {
		return Clipboard{}, false
	}
	sel := r.editor.Selection()
	if sel == nil || sel.IsCollapsed() {
		return Clipboard{}, false
	}
	return Clipboard{Fragment: frag, Text: text}, true
}

// HandleCut extracts the selected fragment and deletes it from the
// model.
func (r *Reconciler) HandleCut() (Clipboard, bool) {
	if r.opts.OnCut != nil && r.opts.OnCut() {
		return Clipboard{}, false
	}
	clip, ok := r.HandleCopy()
	if !ok || r.opts.ReadOnly {
		return clip, ok
	}
	r.applyEvent(intent.Event{Kind: intent.KindDeleteByCut})
	return clip, true
}

// HandlePaste inserts clipboard content at the selection. The payload
// variant is fixed by the caller at the ingestion boundary.
func (r *Reconciler) HandlePaste(p surface.Payload) {
	if r.opts.OnPaste != nil && r.opts.OnPaste(p) {
		return
	}
	if r.opts.ReadOnly {
		return
	}
	r.applyEvent(intent.Event{Kind: intent.KindInsertFromPaste, Payload: p})
}

// HandleDragStart begins a drag gesture. A drag starting inside the
// current expanded selection is an internal drag: the dragged source
// is deleted when dropped.
func (r *Reconciler) HandleDragStart(target *surface.Node) {
	if r.opts.OnDragStart != nil && r.opts.OnDragStart(target) {
		return
	}
	if target == nil || !r.host.IsTarget(target) {
		return
	}
	sel := r.editor.Selection()
	if sel == nil || sel.IsCollapsed() {
		return
	}
	start, end := sel.Edges()
	if len(target.ModelPath) > 0 && target.ModelPath[0] >= start.Path[0] && target.ModelPath[0] <= end.Path[0] {
		r.drag.start(*sel)
	}
}

// HandleDragOver reports whether the reconciler accepts the drag.
func (r *Reconciler) HandleDragOver(target *surface.Node) bool {
	if r.opts.OnDragOver != nil && r.opts.OnDragOver(target) {
		return false
	}
	return target != nil && r.host.IsTarget(target)
}

// HandleDrop inserts the dragged payload at the drop position. For an
// internal drag the source fragment is deleted first; a weak range
// reference keeps the drop point accurate across that deletion.
func (r *Reconciler) HandleDrop(at surface.Position, p surface.Payload) {
	if r.opts.OnDrop != nil && r.opts.OnDrop(at, p) {
		return
	}
	if r.opts.ReadOnly {
		r.drag.end()
		return
	}
	point, ok := r.host.PointFor(at)
	if !ok {
		r.drag.end()
		return
	}

	dropRef := r.editor.NewRangeRef(model.NewCollapsed(point))
	if src := r.drag.sourceRange(); src != nil {
		if r.editor.Select(*src) == nil {
			r.applyEvent(intent.Event{Kind: intent.KindDeleteByDrag})
		}
	}
	target := dropRef.Release()
	r.drag.end()
	if target == nil || !r.editor.HasPoint(target.Focus) {
		return
	}
	if r.editor.Select(*target) != nil {
		return
	}
	r.applyEvent(intent.Event{Kind: intent.KindInsertFromDrop, Payload: p})
}

// HandleDragEnd finishes a drag gesture without a drop on this
// surface.
func (r *Reconciler) HandleDragEnd() {
	if r.opts.OnDragEnd != nil && r.opts.OnDragEnd() {
		return
	}
	r.drag.end()
}

// applyEvent classifies and applies an internally synthesized event,
// then re-renders.
func (r *Reconciler) applyEvent(ev intent.Event) {
	plan := r.classifier.Classify(r.editor, ev)
	if plan.Action == intent.ActionImmediate {
		_ = plan.Run()
	}
	r.render()
}

// Undo invokes the model's undo capability if it declares one.
func (r *Reconciler) Undo() {
	if h, ok := model.HistoryOf(r.editor); ok {
		h.Undo()
		r.render()
	}
}

// Redo invokes the model's redo capability if it declares one.
func (r *Reconciler) Redo() {
	if h, ok := model.HistoryOf(r.editor); ok {
		h.Redo()
		r.render()
	}
}
