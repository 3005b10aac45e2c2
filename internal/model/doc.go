// Package model implements the abstract document tree and its selection.
//
// The document is a rooted tree: non-leaf nodes are elements (possibly
// void or inline), leaf nodes are text with attached formatting marks.
// Positions are addressed by Point values, a path of child indices from
// the root plus a character offset within the addressed text leaf. The
// model is the single source of truth; any host-rendered surface is a
// derived, disposable projection of it.
//
// All mutation goes through the Editor's operation API. Operations
// normalize the tree afterwards (merging adjacent identical leaves,
// keeping every block non-empty) unless wrapped in WithoutNormalizing.
//
// Character and word deletion are grapheme-aware: a delete-by-character
// removes a whole grapheme cluster, never part of one.
package model
