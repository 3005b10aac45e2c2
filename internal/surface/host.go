package surface

import (
	"sync"

	"github.com/dshills/surfedit/internal/model"
)

// Host is the contract the reconciler and selection bridge consume
// from the platform. Implementations own the native selection, focus,
// and the mapping between rendered positions and model points.
type Host interface {
	// Selection returns the current native selection, or false when
	// the host has none.
	Selection() (NativeSelection, bool)

	// SetSelection replaces the native selection. Base and extent are
	// applied as given; a backward selection is expressed by passing
	// the later position as base.
	SetSelection(base, extent Position)

	// ClearSelection removes the native selection.
	ClearSelection()

	// Focus moves host focus to the editable surface.
	Focus()

	// QueueTask schedules fn for the next host task-queue turn. It is
	// never run synchronously.
	QueueTask(fn func())

	// PositionFor maps a model point to its rendered position. It
	// fails when the surface has not yet rendered the point's leaf.
	PositionFor(p model.Point) (Position, bool)

	// PointFor maps a rendered position back to a model point. It
	// fails for positions outside editable content.
	PointFor(pos Position) (model.Point, bool)

	// IsTarget reports whether the node belongs to this host's
	// rendered tree.
	IsTarget(n *Node) bool
}

// InMemoryHost is a host implementation backed by an in-process render
// tree, used by tests and the demo driver. It mirrors a model tree and
// replays the native behaviors the reconciler depends on: selection
// storage, task queueing, and native text mutation with a
// content-settled notification.
type InMemoryHost struct {
	root    *Node
	sel     *NativeSelection
	focused bool
	byPath  map[string]*Node
	settled func()

	// The task queue is the one piece of host state posted to from
	// off-turn goroutines (scheduler timers), so it has its own lock.
	taskMu sync.Mutex
	tasks  []func()
}

// NewInMemoryHost returns an empty host. Render must be called before
// positions can resolve.
func NewInMemoryHost() *InMemoryHost {
	return &InMemoryHost{byPath: map[string]*Node{}}
}

// OnContentSettled registers the callback fired after every native
// mutation, once the host's own tree is updated. The reconciler uses
// it to flush deferred operations.
func (h *InMemoryHost) OnContentSettled(fn func()) { h.settled = fn }

// Render rebuilds the surface tree from the model root. The previous
// tree is discarded; the native selection is preserved only if its
// nodes survive (they never do across a rebuild, matching a host that
// re-creates nodes), so callers re-push the selection afterwards.
func (h *InMemoryHost) Render(ed *model.Editor) {
	h.byPath = map[string]*Node{}
	h.root = h.build(ed.Root(), model.Path{}, true)
	h.sel = nil
}

func (h *InMemoryHost) build(n *model.Node, path model.Path, editable bool) *Node {
	if n.IsText() {
		sn := &Node{Type: TextNode, Text: n.Text, ModelPath: path.Clone(), Editable: editable}
		h.byPath[path.String()] = sn
		return sn
	}
	childEditable := editable && !n.Void
	sn := &Node{Type: ElementNode, Tag: n.Type, ModelPath: path.Clone(), Editable: editable && !n.Void}
	for i, ch := range n.Children {
		c := h.build(ch, path.Child(i), childEditable)
		c.Parent = sn
		sn.Children = append(sn.Children, c)
	}
	h.byPath[path.String()] = sn
	return sn
}

// Root returns the rendered surface root, nil before the first render.
func (h *InMemoryHost) Root() *Node { return h.root }

// Selection implements Host.
func (h *InMemoryHost) Selection() (NativeSelection, bool) {
	if h.sel == nil {
		return NativeSelection{}, false
	}
	return *h.sel, true
}

// SetSelection implements Host.
func (h *InMemoryHost) SetSelection(base, extent Position) {
	h.sel = &NativeSelection{Base: base, Extent: extent}
}

// ClearSelection implements Host.
func (h *InMemoryHost) ClearSelection() { h.sel = nil }

// Focus implements Host.
func (h *InMemoryHost) Focus() { h.focused = true }

// Focused reports whether the surface holds host focus.
func (h *InMemoryHost) Focused() bool { return h.focused }

// Blur drops host focus, as a host would on focus loss.
func (h *InMemoryHost) Blur() { h.focused = false }

// QueueTask implements Host. Tasks run when RunTasks is called,
// standing in for the host's next task-queue turn. It is safe to call
// from any goroutine, as a real host's task posting is.
func (h *InMemoryHost) QueueTask(fn func()) {
	h.taskMu.Lock()
	h.tasks = append(h.tasks, fn)
	h.taskMu.Unlock()
}

// RunTasks runs all queued tasks in order, including tasks queued by
// the tasks themselves.
func (h *InMemoryHost) RunTasks() {
	for {
		h.taskMu.Lock()
		if len(h.tasks) == 0 {
			h.taskMu.Unlock()
			return
		}
		fn := h.tasks[0]
		h.tasks = h.tasks[1:]
		h.taskMu.Unlock()
		fn()
	}
}

// PositionFor implements Host.
func (h *InMemoryHost) PositionFor(p model.Point) (Position, bool) {
	n, ok := h.byPath[p.Path.String()]
	if !ok || !n.IsText() {
		return Position{}, false
	}
	if p.Offset < 0 || p.Offset > len([]rune(n.Text)) {
		return Position{}, false
	}
	return Position{Node: n, Offset: p.Offset}, true
}

// PointFor implements Host.
func (h *InMemoryHost) PointFor(pos Position) (model.Point, bool) {
	if pos.Node == nil || !pos.Node.IsText() || !pos.Node.Editable {
		return model.Point{}, false
	}
	if pos.Offset < 0 || pos.Offset > len([]rune(pos.Node.Text)) {
		return model.Point{}, false
	}
	return model.Point{Path: pos.Node.ModelPath.Clone(), Offset: pos.Offset}, true
}

// IsTarget implements Host.
func (h *InMemoryHost) IsTarget(n *Node) bool {
	return n != nil && h.root != nil && n.Root() == h.root
}

// NodeAt returns the rendered node for a model path, or nil.
func (h *InMemoryHost) NodeAt(path model.Path) *Node {
	return h.byPath[path.String()]
}

// MutateText applies a native text insertion directly to the host's
// own tree, the way a contenteditable host renders a keystroke before
// the model hears about it. The native selection collapses after the
// insertion and the content-settled notification fires.
func (h *InMemoryHost) MutateText(pos Position, text string) {
	if pos.Node == nil || !pos.Node.IsText() {
		return
	}
	r := []rune(pos.Node.Text)
	off := pos.Offset
	if off < 0 {
		off = 0
	}
	if off > len(r) {
		off = len(r)
	}
	pos.Node.Text = string(r[:off]) + text + string(r[off:])
	after := Position{Node: pos.Node, Offset: off + len([]rune(text))}
	h.sel = &NativeSelection{Base: after, Extent: after}
	if h.settled != nil {
		h.settled()
	}
}
