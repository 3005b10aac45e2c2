package reconcile

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/surfedit/internal/capability"
	"github.com/dshills/surfedit/internal/intent"
	"github.com/dshills/surfedit/internal/model"
	"github.com/dshills/surfedit/internal/surface"
)

func newSession(t *testing.T, caps capability.Flags, opts Options, blocks ...*model.Node) (*model.Editor, *surface.InMemoryHost, *Reconciler) {
	t.Helper()
	if blocks == nil {
		blocks = []*model.Node{model.NewElement("paragraph", model.NewText("Hello", nil))}
	}
	ed := model.New(blocks...)
	host := surface.NewInMemoryHost()
	host.Render(ed)
	r := New(ed, host, caps, opts)
	host.OnContentSettled(func() { _ = r.HandleContentSettled() })
	t.Cleanup(r.Close)
	return ed, host, r
}

func selectAt(t *testing.T, ed *model.Editor, path model.Path, offset int) {
	t.Helper()
	if err := ed.Select(model.NewCollapsed(model.Point{Path: path, Offset: offset})); err != nil {
		t.Fatalf("Select: %v", err)
	}
}

func eventually(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestFastPathTyping(t *testing.T) {
	ed, host, r := newSession(t, capability.Chromium(), Options{})
	selectAt(t, ed, model.Path{0, 0}, 2)

	handled := r.HandleBeforeInput(intent.Event{Kind: intent.KindInsertText, Data: "X"})
	if handled {
		t.Fatal("fast-path insertion was suppressed")
	}
	// The model has not moved yet; the host applies the edit natively.
	if got := ed.PlainText(); got != "Hello" {
		t.Fatalf("model mutated before content settled: %q", got)
	}

	pos, ok := host.PositionFor(model.Point{Path: model.Path{0, 0}, Offset: 2})
	if !ok {
		t.Fatal("PositionFor failed")
	}
	host.MutateText(pos, "X")

	if got := ed.PlainText(); got != "HeXllo" {
		t.Errorf("model = %q, want %q", got, "HeXllo")
	}
	if got := host.NodeAt(model.Path{0, 0}).Text; got != "HeXllo" {
		t.Errorf("surface = %q, want %q", got, "HeXllo")
	}
	sel := ed.Selection()
	if sel == nil || !sel.IsCollapsed() || sel.Focus.Offset != 3 {
		t.Errorf("selection = %v, want collapsed at 3", sel)
	}
	native, ok := host.Selection()
	if !ok {
		t.Fatal("no native selection after settle")
	}
	point, _ := host.PointFor(native.Base)
	if point.Offset != 3 {
		t.Errorf("native offset = %d, want 3", point.Offset)
	}
}

func TestImmediateEditSuppressesNative(t *testing.T) {
	ed, host, r := newSession(t, capability.Chromium(), Options{})
	selectAt(t, ed, model.Path{0, 0}, 0)

	// Leaf-start insertion never qualifies for the fast path.
	handled := r.HandleBeforeInput(intent.Event{Kind: intent.KindInsertText, Data: "X"})
	if !handled {
		t.Fatal("leaf-start insertion not suppressed")
	}
	if got := ed.PlainText(); got != "XHello" {
		t.Errorf("model = %q, want %q", got, "XHello")
	}
	if got := host.NodeAt(model.Path{0, 0}).Text; got != "XHello" {
		t.Errorf("surface = %q, want %q (rendered after immediate edit)", got, "XHello")
	}
	native, ok := host.Selection()
	if !ok {
		t.Fatal("no native selection after render")
	}
	point, _ := host.PointFor(native.Base)
	if point.Offset != 1 {
		t.Errorf("native offset = %d, want 1", point.Offset)
	}
}

func TestReadOnlySuppressesEdits(t *testing.T) {
	ed, _, r := newSession(t, capability.Chromium(), Options{ReadOnly: true})
	selectAt(t, ed, model.Path{0, 0}, 2)

	if !r.HandleBeforeInput(intent.Event{Kind: intent.KindInsertText, Data: "X"}) {
		t.Error("read-only edit not suppressed")
	}
	r.HandleCompositionStart()
	if r.IsComposing() {
		t.Error("read-only surface started a composition")
	}
	r.HandlePaste(surface.TextPayload("X"))
	if got := ed.PlainText(); got != "Hello" {
		t.Errorf("model = %q, want untouched %q", got, "Hello")
	}
}

func TestBeforeInputHookClaims(t *testing.T) {
	var seen intent.Kind
	ed, _, r := newSession(t, capability.Chromium(), Options{
		OnBeforeInput: func(ev *intent.Event) bool {
			seen = ev.Kind
			return true
		},
	})
	selectAt(t, ed, model.Path{0, 0}, 0)

	if !r.HandleBeforeInput(intent.Event{Kind: intent.KindInsertText, Data: "X"}) {
		t.Error("claimed event not suppressed")
	}
	if seen != intent.KindInsertText {
		t.Errorf("hook saw %v, want KindInsertText", seen)
	}
	if got := ed.PlainText(); got != "Hello" {
		t.Errorf("model = %q, want untouched", got)
	}
}

func TestCompositionSession(t *testing.T) {
	ed, _, r := newSession(t, capability.Chromium(), Options{},
		model.NewElement("paragraph", model.NewText("hi", nil)))
	selectAt(t, ed, model.Path{0, 0}, 1)

	r.HandleCompositionStart()
	if !r.IsComposing() {
		t.Fatal("not composing after start")
	}
	// In-flight composition events pass through to the host.
	if r.HandleBeforeInput(intent.Event{Kind: intent.KindInsertCompositionText, Data: "c"}) {
		t.Error("composition text event suppressed")
	}
	r.HandleCompositionUpdate()
	r.HandleCompositionEnd("café")

	if r.IsComposing() {
		t.Error("still composing after end")
	}
	if got := ed.PlainText(); got != "hcaféi" {
		t.Errorf("model = %q, want %q", got, "hcaféi")
	}
}

func TestSelectionChangePullsNativeSelection(t *testing.T) {
	ed, host, r := newSession(t, capability.Chromium(), Options{})

	pos, ok := host.PositionFor(model.Point{Path: model.Path{0, 0}, Offset: 4})
	if !ok {
		t.Fatal("PositionFor failed")
	}
	host.SetSelection(pos, pos)
	r.HandleSelectionChange()
	r.FlushSelection()

	eventually(t, func() bool {
		sel := ed.Selection()
		return sel != nil && sel.IsCollapsed() && sel.Focus.Offset == 4
	})
}

func TestSelectionPushGuardSuppressesEcho(t *testing.T) {
	ed, host, r := newSession(t, capability.Chromium(), Options{})
	selectAt(t, ed, model.Path{0, 0}, 0)

	// An immediate edit pushes the selection, which on a real host
	// fires a selection-change notification back at us.
	r.HandleBeforeInput(intent.Event{Kind: intent.KindInsertText, Data: "X"})
	r.HandleSelectionChange()
	r.FlushSelection()
	time.Sleep(20 * time.Millisecond)

	sel := ed.Selection()
	if sel == nil || sel.Focus.Offset != 1 {
		t.Fatalf("echo moved the model selection: %v", sel)
	}

	// The guard drops on the next host turn; real notifications
	// reconcile again.
	host.RunTasks()
	pos, _ := host.PositionFor(model.Point{Path: model.Path{0, 0}, Offset: 5})
	host.SetSelection(pos, pos)
	r.HandleSelectionChange()
	r.FlushSelection()
	eventually(t, func() bool {
		sel := ed.Selection()
		return sel != nil && sel.Focus.Offset == 5
	})
}

func TestSelectionChangeIgnoredWhileComposing(t *testing.T) {
	ed, host, r := newSession(t, capability.Chromium(), Options{})
	selectAt(t, ed, model.Path{0, 0}, 1)
	r.HandleCompositionStart()

	pos, _ := host.PositionFor(model.Point{Path: model.Path{0, 0}, Offset: 4})
	host.SetSelection(pos, pos)
	r.HandleSelectionChange()
	r.FlushSelection()
	time.Sleep(20 * time.Millisecond)

	if sel := ed.Selection(); sel == nil || sel.Focus.Offset != 1 {
		t.Errorf("selection moved during composition: %v", sel)
	}
}

func TestTripleClickSelectsBlock(t *testing.T) {
	ed, host, r := newSession(t, capability.Chromium(), Options{},
		model.NewElement("paragraph", model.NewText("one", nil)),
		model.NewElement("paragraph", model.NewText("two words", nil)),
	)
	target := host.NodeAt(model.Path{1, 0})

	r.HandleClick(target, 3)

	sel := ed.Selection()
	if sel == nil {
		t.Fatal("no selection after triple click")
	}
	start, end := sel.Edges()
	if !start.Equal(model.Point{Path: model.Path{1, 0}, Offset: 0}) ||
		!end.Equal(model.Point{Path: model.Path{1, 0}, Offset: 9}) {
		t.Errorf("selection = %v..%v, want whole second block", start, end)
	}
}

func TestThreeRapidClicksSelectBlock(t *testing.T) {
	ed, host, r := newSession(t, capability.Chromium(), Options{})
	target := host.NodeAt(model.Path{0, 0})

	// Hosts that report detail=1 per click still get block selection
	// from the tracked sequence.
	r.HandleClick(target, 1)
	r.HandleClick(target, 1)
	if sel := ed.Selection(); sel != nil && sel.IsExpanded() {
		t.Fatal("block selected after two clicks")
	}
	r.HandleClick(target, 1)

	sel := ed.Selection()
	if sel == nil || !sel.IsExpanded() {
		t.Fatalf("selection = %v, want whole block after third click", sel)
	}
}

func TestCopyCutPaste(t *testing.T) {
	ed, _, r := newSession(t, capability.Chromium(), Options{})
	if err := ed.Select(model.Range{
		Anchor: model.Point{Path: model.Path{0, 0}, Offset: 1},
		Focus:  model.Point{Path: model.Path{0, 0}, Offset: 4},
	}); err != nil {
		t.Fatalf("Select: %v", err)
	}

	clip, ok := r.HandleCopy()
	if !ok {
		t.Fatal("HandleCopy failed")
	}
	if clip.Text != "ell" {
		t.Errorf("clipboard text = %q, want %q", clip.Text, "ell")
	}
	if got := ed.PlainText(); got != "Hello" {
		t.Errorf("copy mutated the model: %q", got)
	}

	clip, ok = r.HandleCut()
	if !ok {
		t.Fatal("HandleCut failed")
	}
	if clip.Text != "ell" {
		t.Errorf("cut clipboard text = %q, want %q", clip.Text, "ell")
	}
	if got := ed.PlainText(); got != "Ho" {
		t.Errorf("model after cut = %q, want %q", got, "Ho")
	}

	r.HandlePaste(clip.Fragment)
	if got := ed.PlainText(); got != "Hello" {
		t.Errorf("model after paste = %q, want %q", got, "Hello")
	}
}

func TestCopyWithCollapsedSelection(t *testing.T) {
	ed, _, r := newSession(t, capability.Chromium(), Options{})
	selectAt(t, ed, model.Path{0, 0}, 2)
	if _, ok := r.HandleCopy(); ok {
		t.Error("HandleCopy succeeded with a collapsed selection")
	}
}

func TestInternalDragMovesText(t *testing.T) {
	ed, host, r := newSession(t, capability.Chromium(), Options{},
		model.NewElement("paragraph", model.NewText("Hello", nil)),
		model.NewElement("paragraph", model.NewText("world", nil)),
	)
	if err := ed.Select(model.Range{
		Anchor: model.Point{Path: model.Path{0, 0}, Offset: 0},
		Focus:  model.Point{Path: model.Path{0, 0}, Offset: 5},
	}); err != nil {
		t.Fatalf("Select: %v", err)
	}

	r.HandleDragStart(host.NodeAt(model.Path{0, 0}))
	if !r.HandleDragOver(host.NodeAt(model.Path{1, 0})) {
		t.Fatal("drag over own surface rejected")
	}

	drop, ok := host.PositionFor(model.Point{Path: model.Path{1, 0}, Offset: 5})
	if !ok {
		t.Fatal("PositionFor failed")
	}
	r.HandleDrop(drop, surface.TextPayload("Hello"))

	// The dragged source is deleted and the payload lands at the drop
	// point, which the weak reference kept valid across the deletion.
	if got := ed.PlainText(); got != "\nworldHello" {
		t.Errorf("model = %q, want %q", got, "\nworldHello")
	}
}

func TestExternalDragLeavesSourceAlone(t *testing.T) {
	ed, host, r := newSession(t, capability.Chromium(), Options{},
		model.NewElement("paragraph", model.NewText("Hello", nil)),
		model.NewElement("paragraph", model.NewText("world", nil)),
	)
	selectAt(t, ed, model.Path{0, 0}, 2)

	// No expanded selection, so no internal drag source.
	r.HandleDragStart(host.NodeAt(model.Path{0, 0}))
	drop, _ := host.PositionFor(model.Point{Path: model.Path{1, 0}, Offset: 0})
	r.HandleDrop(drop, surface.TextPayload("X"))

	if got := ed.PlainText(); got != "Hello\nXworld" {
		t.Errorf("model = %q, want %q", got, "Hello\nXworld")
	}
}

func TestPlaceholderDecoration(t *testing.T) {
	ed, _, r := newSession(t, capability.Chromium(), Options{Placeholder: "Start typing"},
		model.NewElement("paragraph", model.NewText("", nil)))

	decs := r.Decorations()
	if len(decs) != 1 {
		t.Fatalf("decorations = %d, want 1", len(decs))
	}
	if got := decs[0].Attrs[PlaceholderAttr]; got != "Start typing" {
		t.Errorf("placeholder attr = %q, want %q", got, "Start typing")
	}

	selectAt(t, ed, model.Path{0, 0}, 0)
	r.HandleBeforeInput(intent.Event{Kind: intent.KindInsertText, Data: "a"})
	if decs := r.Decorations(); len(decs) != 0 {
		t.Errorf("decorations after typing = %d, want 0", len(decs))
	}
}

func TestPlaceholderHiddenWhileComposing(t *testing.T) {
	ed, _, r := newSession(t, capability.Chromium(), Options{Placeholder: "Start typing"},
		model.NewElement("paragraph", model.NewText("", nil)))
	selectAt(t, ed, model.Path{0, 0}, 0)
	r.HandleCompositionStart()
	if decs := r.Decorations(); len(decs) != 0 {
		t.Errorf("decorations during composition = %d, want 0", len(decs))
	}
}

func TestFocusTracking(t *testing.T) {
	_, _, r := newSession(t, capability.Chromium(), Options{})
	if r.Focused() {
		t.Error("new session reports focus")
	}
	r.HandleFocus()
	if !r.Focused() {
		t.Error("focus not recorded")
	}
	r.HandleBlur()
	if r.Focused() {
		t.Error("blur not recorded")
	}
}

func TestCloseDropsQueuedOps(t *testing.T) {
	ed, _, r := newSession(t, capability.Chromium(), Options{})
	selectAt(t, ed, model.Path{0, 0}, 2)

	if r.HandleBeforeInput(intent.Event{Kind: intent.KindInsertText, Data: "X"}) {
		t.Fatal("fast path suppressed")
	}
	r.Close()
	if err := r.HandleContentSettled(); err != nil {
		t.Fatalf("HandleContentSettled: %v", err)
	}
	if got := ed.PlainText(); got != "Hello" {
		t.Errorf("model = %q, want %q (queued op dropped)", got, "Hello")
	}
}

func TestSelectionPassWaitsForHostTurn(t *testing.T) {
	ed, host, r := newSession(t, capability.Chromium(), Options{})

	pos, ok := host.PositionFor(model.Point{Path: model.Path{0, 0}, Offset: 4})
	if !ok {
		t.Fatal("PositionFor failed")
	}
	host.SetSelection(pos, pos)
	r.HandleSelectionChange()

	// The timers fire on their own goroutines; the model must stay
	// untouched until the host turn runs the posted pass.
	time.Sleep(30 * time.Millisecond)
	if sel := ed.Selection(); sel != nil {
		t.Fatalf("selection pass ran off the host turn: %v", sel)
	}
	eventually(t, func() bool {
		host.RunTasks()
		sel := ed.Selection()
		return sel != nil && sel.IsCollapsed() && sel.Focus.Offset == 4
	})
}

func TestNotificationsRaceNoModelAccess(t *testing.T) {
	// Selection-change notifications keep arriving while the host turn
	// mutates the model; every model access must stay on the turn.
	ed, host, r := newSession(t, capability.Chromium(), Options{})
	selectAt(t, ed, model.Path{0, 0}, 1)
	pos, ok := host.PositionFor(model.Point{Path: model.Path{0, 0}, Offset: 1})
	if !ok {
		t.Fatal("PositionFor failed")
	}
	host.SetSelection(pos, pos)

	for i := 0; i < 200; i++ {
		r.HandleSelectionChange()
		if err := ed.InsertText("x"); err != nil {
			t.Fatalf("InsertText: %v", err)
		}
		host.RunTasks()
	}
}

func TestChromiumCompositionCommitsOnce(t *testing.T) {
	// The full native-composition event sequence: the host inserts the
	// committed text into its own surface and fires both the
	// beforeinput and the end notification. The model must end up with
	// one copy.
	ed, _, r := newSession(t, capability.Chromium(), Options{},
		model.NewElement("paragraph", model.NewText("hi", nil)))
	selectAt(t, ed, model.Path{0, 0}, 1)

	r.HandleCompositionStart()
	r.HandleCompositionUpdate()
	if r.HandleBeforeInput(intent.Event{Kind: intent.KindInsertFromComposition, Data: "café"}) {
		t.Error("natively inserted commit event suppressed")
	}
	r.HandleCompositionEnd("café")

	if got := ed.PlainText(); got != "hcaféi" {
		t.Errorf("text = %q, want %q (committed once)", got, "hcaféi")
	}
}

func TestLaggedSelectionFlushesBeforeEdit(t *testing.T) {
	// On hosts whose native selection lags the edit event, the pending
	// selection pass must land before the edit is interpreted.
	ed, host, r := newSession(t, capability.LegacyWebKit(), Options{})

	pos, ok := host.PositionFor(model.Point{Path: model.Path{0, 0}, Offset: 4})
	if !ok {
		t.Fatal("PositionFor failed")
	}
	host.SetSelection(pos, pos)
	r.HandleSelectionChange()

	if !r.HandleBeforeInput(intent.Event{Kind: intent.KindDeleteContentBackward}) {
		t.Fatal("delete not handled")
	}
	if got := ed.PlainText(); got != "Helo" {
		t.Errorf("text = %q, want %q (deleted at the flushed position)", got, "Helo")
	}
}

func TestAndroidTypingStartsCompositionSession(t *testing.T) {
	ed, _, r := newSession(t, capability.Android(), Options{})
	selectAt(t, ed, model.Path{0, 0}, 1)

	// Android routes ordinary typing through the composition pipeline
	// without a start notification.
	if r.HandleBeforeInput(intent.Event{Kind: intent.KindInsertCompositionText, Data: "a"}) {
		t.Error("in-flight composition text suppressed")
	}
	if !r.IsComposing() {
		t.Error("composition session not started by in-flight text")
	}
}

func TestEditResetsClickSequence(t *testing.T) {
	ed, host, r := newSession(t, capability.Chromium(), Options{})
	selectAt(t, ed, model.Path{0, 0}, 1)

	target := host.NodeAt(model.Path{0, 0})
	r.HandleClick(target, 1)
	r.HandleClick(target, 1)
	r.HandleBeforeInput(intent.Event{Kind: intent.KindInsertText, Data: "x"})

	// The edit broke the sequence: this click counts as the first of a
	// new one, not the third of the old one.
	r.HandleClick(host.NodeAt(model.Path{0, 0}), 1)
	if sel := ed.Selection(); sel == nil || !sel.IsCollapsed() {
		t.Errorf("selection = %v, want collapsed (no block selection)", sel)
	}
}

func TestSessionIDsAreDistinct(t *testing.T) {
	_, _, a := newSession(t, capability.Chromium(), Options{})
	_, _, b := newSession(t, capability.Chromium(), Options{})
	if a.ID() == uuid.Nil {
		t.Error("session has no identity")
	}
	if a.ID() == b.ID() {
		t.Error("two sessions share an identity")
	}
}

func TestUndoRedoCapability(t *testing.T) {
	ed, _, r := newSession(t, capability.Chromium(), Options{})
	h := &countingHistory{}
	ed.SetHistory(h)

	r.Undo()
	r.Redo()
	r.Redo()
	if h.undos != 1 || h.redos != 2 {
		t.Errorf("undos/redos = %d/%d, want 1/2", h.undos, h.redos)
	}
}

type countingHistory struct {
	undos, redos int
}

func (h *countingHistory) Undo() { h.undos++ }
func (h *countingHistory) Redo() { h.redos++ }
