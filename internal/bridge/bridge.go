package bridge

import (
	"errors"

	"github.com/dshills/surfedit/internal/capability"
	"github.com/dshills/surfedit/internal/model"
	"github.com/dshills/surfedit/internal/surface"
)

var (
	// ErrUnrepresentable indicates a native selection endpoint that
	// does not map to an editable model location.
	ErrUnrepresentable = errors.New("bridge: native selection is not representable in the model")

	// ErrUnresolved indicates a model selection the surface cannot
	// currently resolve, typically because the surface lags a model
	// change.
	ErrUnresolved = errors.New("bridge: model selection does not resolve on the surface")
)

// Bridge converts selections between a host and an editor.
type Bridge struct {
	editor *model.Editor
	host   surface.Host
	caps   capability.Flags
}

// New returns a bridge over the given collaborators.
func New(editor *model.Editor, host surface.Host, caps capability.Flags) *Bridge {
	return &Bridge{editor: editor, host: host, caps: caps}
}

// Pull converts the current native selection to a model range. In
// strict mode an endpoint outside editable content returns
// ErrUnrepresentable; in lenient mode it returns (nil, nil) instead so
// callers can treat the pass as a no-op.
func (b *Bridge) Pull(lenient bool) (*model.Range, error) {
	native, ok := b.host.Selection()
	if !ok {
		if lenient {
			return nil, nil
		}
		return nil, ErrUnrepresentable
	}
	return b.pullSelection(native, lenient)
}

func (b *Bridge) pullSelection(native surface.NativeSelection, lenient bool) (*model.Range, error) {
	anchor, ok := b.host.PointFor(native.Base)
	if !ok {
		if lenient {
			return nil, nil
		}
		return nil, ErrUnrepresentable
	}
	focus, ok := b.host.PointFor(native.Extent)
	if !ok {
		if lenient {
			return nil, nil
		}
		return nil, ErrUnrepresentable
	}
	// The surface is untrusted: the mapped points must still resolve
	// in the model before they are used.
	if !b.editor.HasPoint(anchor) || !b.editor.HasPoint(focus) {
		if lenient {
			return nil, nil
		}
		return nil, ErrUnrepresentable
	}
	return &model.Range{Anchor: anchor, Focus: focus}, nil
}

// Push writes a model selection to the native surface. If the existing
// native selection already denotes sel, no native mutation happens. If
// the surface cannot resolve sel, the model selection is re-resolved
// against current bridge state (the out-of-sync recovery path) and
// ErrUnresolved is returned when that also fails.
//
// After a real push, a focus assertion is queued for the next host
// turn on platforms known to desynchronize focus from selection.
func (b *Bridge) Push(sel model.Range) error {
	// Equivalence check: reinterpret what the host already has.
	if native, ok := b.host.Selection(); ok {
		if cur, err := b.pullSelection(native, true); err == nil && cur != nil && cur.Equal(sel) {
			return nil
		}
	}

	base, okA := b.host.PositionFor(sel.Anchor)
	extent, okF := b.host.PositionFor(sel.Focus)
	if !okA || !okF {
		return b.recoverOutOfSync(sel)
	}

	// Anchor maps to base and focus to extent, so a backward model
	// selection lands backward natively without reordering: the base
	// is the later position, matching where the user started.
	b.host.SetSelection(base, extent)

	if b.caps.FocusDesyncs {
		b.host.QueueTask(b.host.Focus)
	}
	return nil
}

// recoverOutOfSync trusts the model over a stale surface: the model
// selection is clamped to positions the surface can resolve and pushed
// as-is. When no endpoint resolves the native selection is left alone.
func (b *Bridge) recoverOutOfSync(sel model.Range) error {
	anchor, okA := b.resolveNear(sel.Anchor)
	focus, okF := b.resolveNear(sel.Focus)
	if !okA || !okF {
		return ErrUnresolved
	}
	b.host.SetSelection(anchor, focus)
	if b.caps.FocusDesyncs {
		b.host.QueueTask(b.host.Focus)
	}
	return nil
}

// resolveNear maps a point to a surface position, falling back to the
// leaf start when the model text is ahead of the rendered leaf.
func (b *Bridge) resolveNear(p model.Point) (surface.Position, bool) {
	if pos, ok := b.host.PositionFor(p); ok {
		return pos, true
	}
	clamped := p.Clone()
	clamped.Offset = 0
	return b.host.PositionFor(clamped)
}
