package reconcile

import "github.com/dshills/surfedit/internal/model"

// Decorations returns the reconciled decoration list for the current
// render pass: the embedder's decorations plus the synthesized
// placeholder decoration when the document is a single empty text leaf
// and no composition is active.
func (r *Reconciler) Decorations() []Decoration {
	var out []Decoration
	if r.opts.Decorate != nil {
		out = append(out, r.opts.Decorate(r.editor)...)
	}
	if dec, ok := r.placeholderDecoration(); ok {
		out = append(out, dec)
	}
	return out
}

// CurrentSelection returns the model selection the render collaborator
// should project, recomputed per render pass.
func (r *Reconciler) CurrentSelection() *model.Range {
	return r.editor.Selection()
}

func (r *Reconciler) placeholderDecoration() (Decoration, bool) {
	if r.opts.Placeholder == "" || r.comp.IsComposing() {
		return Decoration{}, false
	}
	root := r.editor.Root()
	if len(root.Children) != 1 {
		return Decoration{}, false
	}
	block := root.Children[0]
	if len(block.Children) != 1 {
		return Decoration{}, false
	}
	leaf := block.Children[0]
	if !leaf.IsText() || leaf.Text != "" {
		return Decoration{}, false
	}
	at := model.Point{Path: model.Path{0, 0}, Offset: 0}
	return Decoration{
		Range: model.NewCollapsed(at),
		Attrs: map[string]string{PlaceholderAttr: r.opts.Placeholder},
	}, true
}
