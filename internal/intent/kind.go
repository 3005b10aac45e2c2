package intent

import "github.com/dshills/surfedit/internal/model"

// Kind is the typed input kind of a native edit-intent event, mirroring
// the host's beforeinput vocabulary.
type Kind uint8

const (
	// KindUnknown is an unrecognized input kind.
	KindUnknown Kind = iota

	// KindInsertText is ordinary typed text.
	KindInsertText
	// KindInsertParagraph requests a hard break splitting the block.
	KindInsertParagraph
	// KindInsertLineBreak requests a soft break within the block.
	KindInsertLineBreak
	// KindInsertFromComposition is text committed by an IME.
	KindInsertFromComposition
	// KindInsertFromDrop is content dropped onto the surface.
	KindInsertFromDrop
	// KindInsertFromPaste is pasted content.
	KindInsertFromPaste
	// KindInsertFromYank is content inserted from a kill buffer.
	KindInsertFromYank
	// KindInsertReplacementText is a host-initiated replacement, e.g.
	// spellcheck correction.
	KindInsertReplacementText
	// KindInsertCompositionText is in-flight composition text. Owned
	// exclusively by the composition machine.
	KindInsertCompositionText

	// KindDeleteCompositionText removes in-flight composition text.
	// Owned exclusively by the composition machine.
	KindDeleteCompositionText
	// KindDeleteByCut removes the selection for a cut.
	KindDeleteByCut
	// KindDeleteByComposition removes content replaced by composition.
	KindDeleteByComposition
	// KindDeleteByDrag removes the dragged-away selection.
	KindDeleteByDrag
	// KindDeleteContent deletes without an implied direction.
	KindDeleteContent
	// KindDeleteContentBackward deletes one unit backward.
	KindDeleteContentBackward
	// KindDeleteContentForward deletes one unit forward.
	KindDeleteContentForward
	// KindDeleteEntireSoftLine deletes the whole soft line.
	KindDeleteEntireSoftLine
	// KindDeleteHardLineBackward deletes to the block start.
	KindDeleteHardLineBackward
	// KindDeleteHardLineForward deletes to the block end.
	KindDeleteHardLineForward
	// KindDeleteSoftLineBackward deletes to the soft line start.
	KindDeleteSoftLineBackward
	// KindDeleteSoftLineForward deletes to the soft line end.
	KindDeleteSoftLineForward
	// KindDeleteWordBackward deletes to the previous word boundary.
	KindDeleteWordBackward
	// KindDeleteWordForward deletes to the next word boundary.
	KindDeleteWordForward
)

var kindNames = map[Kind]string{
	KindUnknown:                "unknown",
	KindInsertText:             "insertText",
	KindInsertParagraph:        "insertParagraph",
	KindInsertLineBreak:        "insertLineBreak",
	KindInsertFromComposition:  "insertFromComposition",
	KindInsertFromDrop:         "insertFromDrop",
	KindInsertFromPaste:        "insertFromPaste",
	KindInsertFromYank:         "insertFromYank",
	KindInsertReplacementText:  "insertReplacementText",
	KindInsertCompositionText:  "insertCompositionText",
	KindDeleteCompositionText:  "deleteCompositionText",
	KindDeleteByCut:            "deleteByCut",
	KindDeleteByComposition:    "deleteByComposition",
	KindDeleteByDrag:           "deleteByDrag",
	KindDeleteContent:          "deleteContent",
	KindDeleteContentBackward:  "deleteContentBackward",
	KindDeleteContentForward:   "deleteContentForward",
	KindDeleteEntireSoftLine:   "deleteEntireSoftLine",
	KindDeleteHardLineBackward: "deleteHardLineBackward",
	KindDeleteHardLineForward:  "deleteHardLineForward",
	KindDeleteSoftLineBackward: "deleteSoftLineBackward",
	KindDeleteSoftLineForward:  "deleteSoftLineForward",
	KindDeleteWordBackward:     "deleteWordBackward",
	KindDeleteWordForward:      "deleteWordForward",
}

// String returns the host-facing kind name.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// ParseKind maps a host input-type string to a Kind.
func ParseKind(s string) Kind {
	for k, name := range kindNames {
		if name == s {
			return k
		}
	}
	return KindUnknown
}

// IsComposition reports whether the kind belongs to the composition
// machine.
func (k Kind) IsComposition() bool {
	return k == KindInsertCompositionText || k == KindDeleteCompositionText
}

// IsDelete reports whether the kind denotes a delete.
func (k Kind) IsDelete() bool {
	switch k {
	case KindDeleteCompositionText, KindDeleteByCut, KindDeleteByComposition,
		KindDeleteByDrag, KindDeleteContent, KindDeleteContentBackward,
		KindDeleteContentForward, KindDeleteEntireSoftLine,
		KindDeleteHardLineBackward, KindDeleteHardLineForward,
		KindDeleteSoftLineBackward, KindDeleteSoftLineForward,
		KindDeleteWordBackward, KindDeleteWordForward:
		return true
	default:
		return false
	}
}

// IsInsert reports whether the kind denotes an insertion.
func (k Kind) IsInsert() bool {
	switch k {
	case KindInsertText, KindInsertParagraph, KindInsertLineBreak,
		KindInsertFromComposition, KindInsertFromDrop, KindInsertFromPaste,
		KindInsertFromYank, KindInsertReplacementText, KindInsertCompositionText:
		return true
	default:
		return false
	}
}

// Direction derives the delete direction from the kind's name suffix.
// Kinds without a directional suffix are undirected.
func (k Kind) Direction() model.Direction {
	switch k {
	case KindDeleteContentBackward, KindDeleteHardLineBackward,
		KindDeleteSoftLineBackward, KindDeleteWordBackward:
		return model.DirectionBackward
	case KindDeleteContent, KindDeleteContentForward, KindDeleteHardLineForward,
		KindDeleteSoftLineForward, KindDeleteWordForward:
		return model.DirectionForward
	default:
		return model.DirectionNone
	}
}

// AppliesTargetRange reports whether a host-declared target range
// reconciles the selection before the kind's operation runs. Bare
// delete-by-direction kinds keep the user's selection; removal kinds
// driven by cut, drag, or composition follow the host's range.
func (k Kind) AppliesTargetRange() bool {
	if !k.IsDelete() {
		return true
	}
	switch k {
	case KindDeleteByCut, KindDeleteByComposition, KindDeleteByDrag:
		return true
	default:
		return false
	}
}
