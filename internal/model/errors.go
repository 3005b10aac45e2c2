package model

import "errors"

var (
	// ErrNoSelection indicates an operation requiring a selection was
	// called while the document has none.
	ErrNoSelection = errors.New("model: no selection")

	// ErrInvalidPath indicates a path does not resolve to a node in the
	// current tree.
	ErrInvalidPath = errors.New("model: invalid path")

	// ErrNotText indicates a point's path resolves to an element where a
	// text leaf was required.
	ErrNotText = errors.New("model: path is not a text leaf")

	// ErrInvalidOffset indicates a point's offset lies outside its leaf.
	ErrInvalidOffset = errors.New("model: offset out of range")
)
