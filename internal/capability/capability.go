package capability

// Flags describes the editing behavior of a host platform.
// All fields are read-only after construction.
type Flags struct {
	// Name identifies the profile for diagnostics.
	Name string

	// StructuredBeforeInput indicates the host fires typed beforeinput
	// events with input kinds and target ranges. Hosts without it only
	// report raw mutations after the fact.
	StructuredBeforeInput bool

	// CompositionInsertsNatively indicates the host applies composition
	// text to its own surface during an IME session, so the model must
	// not insert it a second time while composing.
	CompositionInsertsNatively bool

	// CommitsCompositionOnEnd indicates the host has already committed
	// the final composition text into the surface when the composition
	// end notification fires. The model inserts the commit text itself.
	CommitsCompositionOnEnd bool

	// LegacyCommitQuirk marks older engines that commit composition text
	// on end through a different code path with the same observable
	// result. Kept separate from CommitsCompositionOnEnd; at most one of
	// the two is set in any profile.
	LegacyCommitQuirk bool

	// SelectionLagsEdits indicates the host's native selection is not
	// yet updated when an edit event fires, so pending selection
	// reconciliation must be flushed before interpreting the event.
	SelectionLagsEdits bool

	// FocusDesyncs indicates setting the native selection can leave
	// focus on a stale element, requiring a focus assertion afterwards.
	FocusDesyncs bool

	// AndroidStyleComposition indicates the host routes ordinary typing
	// through the composition pipeline, so insertComposingText events
	// arrive outside visible IME use.
	AndroidStyleComposition bool
}

// CommitsOnEnd reports whether composition commit text should be
// inserted into the model when a composition ends. Exactly one of the
// two underlying flags governs any given profile; they are never
// merged because legacy engines reach the same behavior through a
// distinct quirk.
func (f Flags) CommitsOnEnd() bool {
	if f.LegacyCommitQuirk {
		return true
	}
	return f.CommitsCompositionOnEnd
}

// Chromium returns the profile for Chromium-based hosts.
func Chromium() Flags {
	return Flags{
		Name:                       "chromium",
		StructuredBeforeInput:      true,
		CompositionInsertsNatively: true,
		CommitsCompositionOnEnd:    true,
	}
}

// WebKit returns the profile for modern WebKit hosts.
func WebKit() Flags {
	return Flags{
		Name:                       "webkit",
		StructuredBeforeInput:      true,
		CompositionInsertsNatively: true,
		CommitsCompositionOnEnd:    true,
		FocusDesyncs:               true,
	}
}

// LegacyWebKit returns the profile for older WebKit hosts that commit
// composition text through the legacy path.
func LegacyWebKit() Flags {
	return Flags{
		Name:                       "legacy-webkit",
		StructuredBeforeInput:      true,
		CompositionInsertsNatively: true,
		LegacyCommitQuirk:          true,
		FocusDesyncs:               true,
		SelectionLagsEdits:         true,
	}
}

// Gecko returns the profile for Gecko hosts. Gecko surfaces composition
// through model-side insertion only.
func Gecko() Flags {
	return Flags{
		Name:               "gecko",
		SelectionLagsEdits: true,
	}
}

// Android returns the profile for Android hosts, which route typing
// through the composition pipeline.
func Android() Flags {
	return Flags{
		Name:                       "android",
		StructuredBeforeInput:      true,
		CompositionInsertsNatively: true,
		CommitsCompositionOnEnd:    true,
		AndroidStyleComposition:    true,
	}
}

// Default returns a conservative profile for unknown hosts: no native
// composition insertion, structured events assumed present.
func Default() Flags {
	return Flags{
		Name:                  "default",
		StructuredBeforeInput: true,
	}
}
