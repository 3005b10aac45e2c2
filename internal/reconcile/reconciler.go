package reconcile

import (
	"time"

	"github.com/google/uuid"

	"github.com/dshills/surfedit/internal/bridge"
	"github.com/dshills/surfedit/internal/capability"
	"github.com/dshills/surfedit/internal/composition"
	"github.com/dshills/surfedit/internal/deferred"
	"github.com/dshills/surfedit/internal/intent"
	"github.com/dshills/surfedit/internal/model"
	"github.com/dshills/surfedit/internal/schedule"
	"github.com/dshills/surfedit/internal/surface"
)

// defaultClickTime is the maximum gap between clicks of one sequence.
const defaultClickTime = 400 * time.Millisecond

// Renderer is the render collaborator: it projects the model onto the
// host surface. The reconciler invokes it after every immediate model
// mutation and after deferred operations flush.
type Renderer interface {
	Render(ed *model.Editor)
}

// Reconciler is the event dispatcher: it receives all native surface
// events, consults the capability table, classifier, composition
// machine, and selection bridge, and issues model operations.
//
// It owns the mutable session state for one mounted surface and is
// constructed at surface attach, torn down with Close at detach.
type Reconciler struct {
	id     uuid.UUID
	editor *model.Editor
	host   surface.Host
	caps   capability.Flags
	opts   Options

	bridge     *bridge.Bridge
	classifier *intent.Classifier
	comp       *composition.Machine
	queue      *deferred.Queue
	scheduler  *schedule.SelectionScheduler
	renderer   Renderer

	clicks *clickTracker
	drag   *dragTracker

	// updatingSelection guards against the feedback loop between a
	// selection push and the native notification it triggers.
	updatingSelection bool
	focused           bool
}

// New constructs a reconciler for one mounted surface. If the host
// also implements Renderer it becomes the render collaborator.
func New(editor *model.Editor, host surface.Host, caps capability.Flags, opts Options, schedOpts ...schedule.Option) *Reconciler {
	r := &Reconciler{
		id:         uuid.New(),
		editor:     editor,
		host:       host,
		caps:       caps,
		opts:       opts,
		bridge:     bridge.New(editor, host, caps),
		classifier: intent.New(caps),
		comp:       composition.New(editor, caps),
		queue:      deferred.NewQueue(),
		clicks:     newClickTracker(defaultClickTime),
		drag:       newDragTracker(),
	}
	// Selection passes are marshaled back onto the host turn; the
	// scheduler's timers never touch the model directly.
	r.scheduler = schedule.NewSelectionScheduler(r.reconcileSelection, host.QueueTask, schedOpts...)
	if renderer, ok := host.(Renderer); ok {
		r.renderer = renderer
	}
	return r
}

// ID returns the editor-instance identifier.
func (r *Reconciler) ID() uuid.UUID { return r.id }

// Editor returns the reconciled document model.
func (r *Reconciler) Editor() *model.Editor { return r.editor }

// IsComposing reports whether an IME session is active.
func (r *Reconciler) IsComposing() bool { return r.comp.IsComposing() }

// Focused reports whether the surface holds host focus.
func (r *Reconciler) Focused() bool { return r.focused }

// Close tears down the session. Pending scheduler passes are
// cancelled; queued deferred operations are dropped.
func (r *Reconciler) Close() {
	r.scheduler.Stop()
	r.queue.Clear()
}

// render projects the model onto the host and re-pushes the model
// selection.
func (r *Reconciler) render() {
	if r.renderer != nil {
		r.renderer.Render(r.editor)
	}
	r.pushSelection()
}

// pushSelection writes the model selection to the native surface. The
// feedback-loop guard stays raised until the next host turn so the
// native notifications this push fires reconcile to no-ops.
func (r *Reconciler) pushSelection() {
	sel := r.editor.Selection()
	r.updatingSelection = true
	if sel == nil {
		r.host.ClearSelection()
	} else if err := r.bridge.Push(*sel); err == nil {
		if r.opts.ScrollSelectionIntoView != nil {
			r.opts.ScrollSelectionIntoView(*sel)
		}
	}
	r.host.QueueTask(func() { r.updatingSelection = false })
}

// HandleSelectionChange receives the native selection-change
// notification. Passes are throttled and debounced; the actual
// reconciliation runs in reconcileSelection.
func (r *Reconciler) HandleSelectionChange() {
	r.scheduler.Notify()
}

// FlushSelection forces any pending selection reconciliation to run
// now.
func (r *Reconciler) FlushSelection() {
	r.scheduler.Flush()
}

// reconcileSelection pulls the native selection into the model.
func (r *Reconciler) reconcileSelection() {
	if r.comp.IsComposing() || r.updatingSelection || r.drag.isActive() {
		return
	}
	native, ok := r.host.Selection()
	if !ok {
		r.editor.Deselect()
		return
	}
	if !r.selectable(native.Base.Node) || !r.selectable(native.Extent.Node) {
		return
	}
	pulled, err := r.bridge.Pull(true)
	if err != nil || pulled == nil {
		return
	}
	if cur := r.editor.Selection(); cur != nil && cur.Equal(*pulled) {
		return
	}
	_ = r.editor.Select(*pulled)
}

// selectable reports whether a native node may anchor a selection:
// directly editable content, or content inside a void while the editor
// is not read-only.
func (r *Reconciler) selectable(n *surface.Node) bool {
	if n == nil || !r.host.IsTarget(n) {
		return false
	}
	if n.Editable {
		return true
	}
	return n.VoidAncestor() != nil && !r.opts.ReadOnly
}

// HandleBeforeInput receives a native edit-intent event. The return
// value reports whether the native edit must be suppressed: false lets
// the host apply the edit to its own surface.
func (r *Reconciler) HandleBeforeInput(ev intent.Event) bool {
	// On hosts whose native selection lags the edit event, pending
	// reconciliation must land before the event is interpreted.
	if r.caps.SelectionLagsEdits {
		r.scheduler.Flush()
	}

	if r.opts.OnBeforeInput != nil && r.opts.OnBeforeInput(&ev) {
		return true
	}
	if r.opts.ReadOnly {
		return true
	}
	// An edit intent ends any click sequence in progress.
	r.clicks.reset()
	if ev.Kind.IsComposition() {
		// The composition machine owns these; the host renders the
		// in-flight text natively. Hosts that route ordinary typing
		// through the composition pipeline may skip the start
		// notification, so the machine learns about the session here.
		if r.caps.AndroidStyleComposition && !r.comp.IsComposing() {
			r.comp.Update()
		}
		return false
	}

	plan := r.classifier.Classify(r.editor, ev)
	switch plan.Action {
	case intent.ActionNative:
		r.queue.Enqueue(deferred.Op(plan.Deferred))
		return false
	case intent.ActionImmediate:
		// Resolution failures inside the plan degrade to no-ops; no
		// error reaches the host.
		_ = plan.Run()
		r.render()
		return true
	default:
		return false
	}
}

// HandleContentSettled receives the host's raw-content-mutated
// notification, fired once per native edit cycle. It is the only
// trigger for flushing the deferred queue.
func (r *Reconciler) HandleContentSettled() error {
	err := r.queue.Flush()
	r.render()
	return err
}

// HandleCompositionStart begins an IME session.
func (r *Reconciler) HandleCompositionStart() {
	if r.opts.OnCompositionStart != nil && r.opts.OnCompositionStart() {
		return
	}
	if r.opts.ReadOnly {
		return
	}
	if r.caps.SelectionLagsEdits {
		r.scheduler.Flush()
	}
	_ = r.comp.Start()
}

// HandleCompositionUpdate records in-flight composition text.
func (r *Reconciler) HandleCompositionUpdate() {
	if r.opts.OnCompositionUpdate != nil && r.opts.OnCompositionUpdate() {
		return
	}
	r.comp.Update()
}

// HandleCompositionEnd finishes an IME session with the committed
// text.
func (r *Reconciler) HandleCompositionEnd(commit string) {
	if r.opts.OnCompositionEnd != nil && r.opts.OnCompositionEnd(commit) {
		return
	}
	if r.opts.ReadOnly {
		return
	}
	_ = r.comp.End(commit)
	r.render()
}

// HandleKeyDown passes a key event to the embedding application's
// hook. Hotkey-to-intent mapping is the embedder's concern; the
// reconciler only honors the handled signal.
func (r *Reconciler) HandleKeyDown(key string) bool {
	return r.opts.OnKeyDown != nil && r.opts.OnKeyDown(key)
}

// HandleClick processes a pointer click on a surface node. detail is
// the host's click count for the gesture; a third click in the same
// block selects the whole block.
func (r *Reconciler) HandleClick(target *surface.Node, detail int) {
	if r.opts.OnClick != nil && r.opts.OnClick(target, detail) {
		return
	}
	if target == nil || !r.host.IsTarget(target) {
		return
	}
	count := r.clicks.record(target.ModelPath, time.Now())
	if detail >= 3 || count >= 3 {
		r.selectWholeBlock(target.ModelPath)
	}
}

// selectWholeBlock selects the full range of the nearest block
// ancestor of path.
func (r *Reconciler) selectWholeBlock(path model.Path) {
	if len(path) == 0 {
		return
	}
	block, bi, err := r.editor.Block(path)
	if err != nil {
		return
	}
	startPath, _ := firstLeaf(block, model.Path{bi})
	endPath, endLeaf := lastLeaf(block, model.Path{bi})
	if startPath == nil || endPath == nil {
		return
	}
	sel := model.Range{
		Anchor: model.Point{Path: startPath, Offset: 0},
		Focus:  model.Point{Path: endPath, Offset: len([]rune(endLeaf.Text))},
	}
	if r.editor.Select(sel) == nil {
		r.pushSelection()
	}
}

// firstLeaf returns the path and node of the first text leaf under n.
func firstLeaf(n *model.Node, path model.Path) (model.Path, *model.Node) {
	if n.IsText() {
		return path, n
	}
	for i, ch := range n.Children {
		if p, leaf := firstLeaf(ch, path.Child(i)); p != nil {
			return p, leaf
		}
	}
	return nil, nil
}

// lastLeaf returns the path and node of the last text leaf under n.
func lastLeaf(n *model.Node, path model.Path) (model.Path, *model.Node) {
	if n.IsText() {
		return path, n
	}
	for i := len(n.Children) - 1; i >= 0; i-- {
		if p, leaf := lastLeaf(n.Children[i], path.Child(i)); p != nil {
			return p, leaf
		}
	}
	return nil, nil
}

// HandleFocus records that the surface gained host focus.
func (r *Reconciler) HandleFocus() {
	if r.opts.OnFocus != nil && r.opts.OnFocus() {
		return
	}
	r.focused = true
}

// HandleBlur records that the surface lost host focus.
func (r *Reconciler) HandleBlur() {
	if r.opts.OnBlur != nil && r.opts.OnBlur() {
		return
	}
	r.focused = false
}
