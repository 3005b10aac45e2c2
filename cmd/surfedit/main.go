// Package main is a demonstration driver for the surfedit reconciler.
//
// It wires an in-memory host surface to a document model and replays a
// scripted editing session (fast-path typing, an IME composition, a
// paste, a cross-block delete), printing the model state after each
// step.
package main

import (
	"fmt"
	"os"

	"github.com/dshills/surfedit/internal/capability"
	"github.com/dshills/surfedit/internal/intent"
	"github.com/dshills/surfedit/internal/model"
	"github.com/dshills/surfedit/internal/reconcile"
	"github.com/dshills/surfedit/internal/surface"
)

func main() {
	os.Exit(run())
}

func run() int {
	ed := model.New(
		model.NewElement("paragraph", model.NewText("Hello", nil)),
		model.NewElement("paragraph", model.NewText("world", nil)),
	)
	host := surface.NewInMemoryHost()
	host.Render(ed)

	rec := reconcile.New(ed, host, capability.Chromium(), reconcile.Options{
		Placeholder: "Start typing...",
	})
	defer rec.Close()
	fmt.Printf("session %s\n", rec.ID())
	host.OnContentSettled(func() {
		if err := rec.HandleContentSettled(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: deferred flush: %v\n", err)
		}
	})

	if err := ed.Select(model.NewCollapsed(model.Point{Path: model.Path{0, 0}, Offset: 2})); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	// Native fast path: the host renders the keystroke first, the
	// model reconciles on content-settled.
	ev := intent.Event{Kind: intent.KindInsertText, Data: "X"}
	if !rec.HandleBeforeInput(ev) {
		pos, _ := host.PositionFor(model.Point{Path: model.Path{0, 0}, Offset: 2})
		host.MutateText(pos, "X")
	}
	host.RunTasks()
	report(ed, "typed X on the fast path")

	// IME composition.
	rec.HandleCompositionStart()
	rec.HandleCompositionUpdate()
	rec.HandleCompositionEnd("café")
	host.RunTasks()
	report(ed, `composed "café"`)

	// Paste a structured fragment.
	frag, err := surface.EncodeFragment([]*model.Node{
		model.NewElement("paragraph", model.NewText(" pasted", nil)),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	rec.HandlePaste(frag)
	host.RunTasks()
	report(ed, "pasted a fragment")

	// Expanded delete across both blocks.
	if err := ed.Select(model.Range{
		Anchor: model.Point{Path: model.Path{0, 0}, Offset: 5},
		Focus:  model.Point{Path: model.Path{1, 0}, Offset: 3},
	}); err == nil {
		rec.HandleBeforeInput(intent.Event{Kind: intent.KindDeleteContentForward})
		host.RunTasks()
		report(ed, "deleted across blocks")
	}

	return 0
}

func report(ed *model.Editor, step string) {
	fmt.Printf("%-26s %q", step, ed.PlainText())
	if sel := ed.Selection(); sel != nil {
		fmt.Printf("  sel %s", sel.Focus)
	}
	fmt.Println()
}
