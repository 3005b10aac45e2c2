package composition

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/dshills/surfedit/internal/capability"
	"github.com/dshills/surfedit/internal/model"
)

// Marker is the zero-width rune used to pin composition output to a
// marked text run.
const Marker = "\u200b"

// State is the machine's lifecycle state.
type State uint8

const (
	// Idle means no composition session is active.
	Idle State = iota
	// Composing means an IME session is in flight.
	Composing
)

// String returns the state name.
func (s State) String() string {
	if s == Composing {
		return "composing"
	}
	return "idle"
}

// Machine tracks one surface's composition lifecycle.
type Machine struct {
	editor *model.Editor
	caps   capability.Flags

	state          State
	markerInserted bool
}

// New returns an idle machine.
func New(editor *model.Editor, caps capability.Flags) *Machine {
	return &Machine{editor: editor, caps: caps}
}

// State returns the current lifecycle state.
func (m *Machine) State() State { return m.state }

// IsComposing reports whether a session is active.
func (m *Machine) IsComposing() bool { return m.state == Composing }

// Start begins a composition session. An expanded selection is deleted
// first so composition continues from a collapsed point. Pending
// formatting marks insert the zero-width marker leaf.
func (m *Machine) Start() error {
	m.state = Composing

	if sel := m.editor.Selection(); sel != nil && sel.IsExpanded() {
		if err := m.editor.DeleteFragment(model.DirectionNone); err != nil {
			return err
		}
	}

	if m.editor.PendingMarks() != nil {
		// InsertText with pending marks creates the marked leaf and
		// selects past it.
		if err := m.editor.InsertText(Marker); err != nil {
			return err
		}
		m.markerInserted = true
	}
	return nil
}

// Update notifies the machine of in-flight composition text. It is a
// pure notification: the host renders the text natively and the model
// stays untouched. Calling it while idle starts a session, covering
// hosts that skip the start notification.
func (m *Machine) Update() {
	m.state = Composing
}

// End finishes the session, inserting the committed text when the
// capability profile says the host has already committed it into its
// own surface. Exactly one of the two commit quirks governs; they are
// never both set. The commit text is NFC-normalized before insertion.
func (m *Machine) End(commit string) error {
	m.state = Idle

	if commit != "" && m.caps.CommitsOnEnd() {
		if err := m.editor.InsertText(norm.NFC.String(commit)); err != nil {
			m.markerInserted = false
			return err
		}
	}

	err := m.cleanupMarker()
	// The guard flag clears unconditionally, even if cleanup failed.
	m.markerInserted = false
	return err
}

// cleanupMarker strips the zero-width marker from the current leaf as
// a single non-renormalizing batch: trim the marker prefix, delete the
// equivalent distance backward, and reinsert the cleaned text, so the
// guard never survives into final content.
func (m *Machine) cleanupMarker() error {
	if !m.markerInserted {
		return nil
	}
	sel := m.editor.Selection()
	if sel == nil || !sel.IsCollapsed() {
		return nil
	}
	leaf, err := m.editor.Leaf(sel.Focus)
	if err != nil || !strings.HasPrefix(leaf.Text, Marker) {
		return nil
	}

	return m.editor.WithoutNormalizing(func() error {
		cleaned := strings.TrimPrefix(leaf.Text, Marker)
		distance := len([]rune(leaf.Text))
		end := model.Point{Path: sel.Focus.Path.Clone(), Offset: distance}
		if err := m.editor.Select(model.Range{Anchor: model.Point{Path: sel.Focus.Path.Clone()}, Focus: end}); err != nil {
			return err
		}
		if err := m.editor.DeleteFragment(model.DirectionBackward); err != nil {
			return err
		}
		if cleaned == "" {
			return nil
		}
		return m.editor.InsertText(cleaned)
	})
}
