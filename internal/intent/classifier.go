package intent

import (
	"unicode"

	"github.com/rivo/uniseg"

	"github.com/dshills/surfedit/internal/capability"
	"github.com/dshills/surfedit/internal/model"
	"github.com/dshills/surfedit/internal/surface"
)

// Event is a raw native edit-intent record.
type Event struct {
	// Kind is the typed input kind.
	Kind Kind

	// Data carries the typed or committed text, when the kind has any.
	Data string

	// Payload is the structured or plain transfer content for paste,
	// drop, and replacement kinds. Nil when the event carries none.
	Payload surface.Payload

	// TargetRange is the host-declared target of the edit, when the
	// host exposes one.
	TargetRange *model.Range
}

// Action is the shape of a classification result.
type Action uint8

const (
	// ActionNone means the event needs no handling here.
	ActionNone Action = iota
	// ActionNative permits the host to apply the edit to its own
	// surface; the matching model mutation is deferred.
	ActionNative
	// ActionImmediate mutates the model now; the native edit is
	// suppressed.
	ActionImmediate
)

// Plan is the classifier's decision for one event. For ActionNative
// the model mutation is captured in Deferred, to be queued and run
// after the host confirms its own mutation. For ActionImmediate the
// mutation is in Run.
type Plan struct {
	Action   Action
	Deferred func() error
	Run      func() error
}

// Classifier decides the document operations a native event implies.
type Classifier struct {
	caps capability.Flags
}

// New returns a classifier for the given capability profile.
func New(caps capability.Flags) *Classifier {
	return &Classifier{caps: caps}
}

// Classify inspects the event against the editor's current selection
// and returns the plan for it. Rules are checked in order; the first
// match governs.
func (c *Classifier) Classify(ed *model.Editor, ev Event) Plan {
	// Composition kinds pass through untouched; the composition
	// machine owns them exclusively.
	if ev.Kind.IsComposition() {
		return Plan{Action: ActionNone}
	}

	// On hosts that insert composition text into their own surface,
	// the committed text reaches the model through the composition end
	// notification; inserting here as well would commit it twice.
	if ev.Kind == KindInsertFromComposition && c.caps.CompositionInsertsNatively {
		return Plan{Action: ActionNone}
	}

	sel := ed.Selection()
	if sel == nil {
		return Plan{Action: ActionNone}
	}

	// An expanded selection turns any delete into a fragment delete in
	// the implied direction; structural unit logic never runs.
	if sel.IsExpanded() && ev.Kind.IsDelete() {
		dir := ev.Kind.Direction()
		return Plan{Action: ActionImmediate, Run: func() error {
			return skipUnresolved(ed.DeleteFragment(dir))
		}}
	}

	if c.qualifiesNative(ed, sel, ev) {
		text := ev.Data
		return Plan{Action: ActionNative, Deferred: func() error {
			return skipUnresolved(ed.InsertText(text))
		}}
	}

	return Plan{Action: ActionImmediate, Run: c.runFor(ed, ev)}
}

// qualifiesNative checks the fast-path conditions: a host with typed
// beforeinput events, a single printable character inserted at a
// collapsed selection with a non-zero offset, no pending formatting
// marks, and not at the trailing edge of an inline element. Any
// failing condition forces the explicit path.
func (c *Classifier) qualifiesNative(ed *model.Editor, sel *model.Range, ev Event) bool {
	// Without structured events there is no reliable signal to capture
	// the deferred mutation from.
	if !c.caps.StructuredBeforeInput {
		return false
	}
	if ev.Kind != KindInsertText {
		return false
	}
	if !sel.IsCollapsed() {
		return false
	}
	if !singlePrintable(ev.Data) {
		return false
	}
	if sel.Focus.Offset == 0 {
		return false
	}
	if ed.PendingMarks() != nil {
		return false
	}
	leaf, err := ed.Leaf(sel.Focus)
	if err != nil {
		return false
	}
	// Typing right after an inline's trailing character must go
	// through the model so the insertion lands outside the inline.
	if ed.IsInline(sel.Focus.Path) && sel.Focus.Offset == len([]rune(leaf.Text)) {
		return false
	}
	return true
}

// singlePrintable reports whether s is exactly one printable grapheme
// cluster.
func singlePrintable(s string) bool {
	if s == "" {
		return false
	}
	cluster, rest, _, _ := uniseg.FirstGraphemeClusterInString(s, -1)
	if rest != "" || cluster != s {
		return false
	}
	for _, r := range s {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}

// runFor builds the immediate mutation for the event's kind.
func (c *Classifier) runFor(ed *model.Editor, ev Event) func() error {
	return func() error {
		// Reconcile the selection to the host-declared target range
		// first, keeping a weak reference to the user's selection so
		// it can be restored once side effects settle.
		var ref *model.RangeRef
		if ev.TargetRange != nil && ev.Kind.AppliesTargetRange() {
			if !ed.HasPoint(ev.TargetRange.Anchor) || !ed.HasPoint(ev.TargetRange.Focus) {
				return nil
			}
			if cur := ed.Selection(); cur != nil && !cur.Equal(*ev.TargetRange) {
				ref = ed.NewRangeRef(*cur)
				if err := ed.Select(*ev.TargetRange); err != nil {
					ref.Release()
					return nil
				}
			}
		}

		if err := skipUnresolved(c.applyKind(ed, ev)); err != nil {
			if ref != nil {
				ref.Release()
			}
			return err
		}

		// Restore the user's (auto-adjusted) selection if it is still
		// addressable after the operation.
		if r := ref.Release(); r != nil && ed.HasPoint(r.Anchor) && ed.HasPoint(r.Focus) {
			return skipUnresolved(ed.Select(*r))
		}
		return nil
	}
}

// applyKind executes the kind-to-operation table.
func (c *Classifier) applyKind(ed *model.Editor, ev Event) error {
	switch ev.Kind {
	case KindDeleteByCut, KindDeleteByComposition, KindDeleteByDrag:
		return ed.DeleteFragment(model.DirectionNone)
	case KindDeleteContent, KindDeleteContentForward:
		return ed.DeleteForward(model.UnitCharacter)
	case KindDeleteContentBackward:
		return ed.DeleteBackward(model.UnitCharacter)
	case KindDeleteEntireSoftLine:
		if err := ed.DeleteBackward(model.UnitLine); err != nil {
			return err
		}
		return ed.DeleteForward(model.UnitLine)
	case KindDeleteHardLineBackward:
		return ed.DeleteBackward(model.UnitBlock)
	case KindDeleteHardLineForward:
		return ed.DeleteForward(model.UnitBlock)
	case KindDeleteSoftLineBackward:
		return ed.DeleteBackward(model.UnitLine)
	case KindDeleteSoftLineForward:
		return ed.DeleteForward(model.UnitLine)
	case KindDeleteWordBackward:
		return ed.DeleteBackward(model.UnitWord)
	case KindDeleteWordForward:
		return ed.DeleteForward(model.UnitWord)
	case KindInsertLineBreak:
		return ed.InsertSoftBreak()
	case KindInsertParagraph:
		return ed.InsertBreak()
	case KindInsertFromComposition, KindInsertFromDrop, KindInsertFromPaste,
		KindInsertFromYank, KindInsertReplacementText, KindInsertText:
		return c.applyInsert(ed, ev)
	default:
		return nil
	}
}

// applyInsert deletes any expanded selection, then inserts the event's
// content: a string inserts text, a structured payload inserts nodes.
func (c *Classifier) applyInsert(ed *model.Editor, ev Event) error {
	if sel := ed.Selection(); sel != nil && sel.IsExpanded() {
		if err := ed.DeleteFragment(model.DirectionNone); err != nil {
			return err
		}
	}
	if ev.Payload != nil {
		switch p := ev.Payload.(type) {
		case surface.FragmentPayload:
			blocks, err := p.Decode()
			if err != nil {
				// A malformed fragment degrades to nothing rather
				// than failing the whole event.
				return nil
			}
			return ed.InsertFragment(blocks)
		case surface.TextPayload:
			return ed.InsertText(string(p))
		}
	}
	return ed.InsertText(ev.Data)
}

// skipUnresolved absorbs resolution failures: a target that no longer
// resolves (a consumer hook mutated the model mid-pass) skips the
// action instead of propagating to the host.
func skipUnresolved(err error) error {
	switch err {
	case model.ErrInvalidPath, model.ErrNotText, model.ErrInvalidOffset, model.ErrNoSelection:
		return nil
	default:
		return err
	}
}
