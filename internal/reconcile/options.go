package reconcile

import (
	"github.com/dshills/surfedit/internal/intent"
	"github.com/dshills/surfedit/internal/model"
	"github.com/dshills/surfedit/internal/surface"
)

// Decoration is a range with associated presentation metadata,
// recomputed from the current document on every render pass.
type Decoration struct {
	Range model.Range
	Attrs map[string]string
}

// PlaceholderAttr is the attribute key carried by the synthesized
// placeholder decoration.
const PlaceholderAttr = "placeholder"

// ElementRenderer renders a model element for the host.
type ElementRenderer func(n *model.Node, path model.Path) *surface.Node

// LeafRenderer renders a model text leaf for the host.
type LeafRenderer func(n *model.Node, path model.Path) *surface.Node

// PlaceholderRenderer renders the placeholder decoration.
type PlaceholderRenderer func(text string) *surface.Node

// Options is the embedding application's configuration surface. Every
// intercept hook returns true to claim the event as handled, which
// suppresses the reconciler's default handling.
type Options struct {
	// ReadOnly suppresses all mutating paths. Selection
	// synchronization still runs.
	ReadOnly bool

	// Placeholder is shown via a synthesized decoration while the
	// document is a single empty text leaf and no composition is
	// active.
	Placeholder string

	// Decorate supplies extra decorations for the current document.
	Decorate func(ed *model.Editor) []Decoration

	// OnBeforeInput may intercept an edit-intent event.
	OnBeforeInput func(ev *intent.Event) bool

	// ScrollSelectionIntoView overrides the default scroll behavior
	// after a selection push.
	ScrollSelectionIntoView func(sel model.Range)

	// Render collaborators, passed through to the render layer.
	RenderElement     ElementRenderer
	RenderLeaf        LeafRenderer
	RenderPlaceholder PlaceholderRenderer

	// Per-event intercept hooks.
	OnClick             func(target *surface.Node, detail int) bool
	OnFocus             func() bool
	OnBlur              func() bool
	OnCopy              func() bool
	OnCut               func() bool
	OnPaste             func(p surface.Payload) bool
	OnDragStart         func(target *surface.Node) bool
	OnDragOver          func(target *surface.Node) bool
	OnDrop              func(at surface.Position, p surface.Payload) bool
	OnDragEnd           func() bool
	OnCompositionStart  func() bool
	OnCompositionUpdate func() bool
	OnCompositionEnd    func(commit string) bool
	OnKeyDown           func(key string) bool
}
