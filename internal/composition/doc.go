// Package composition tracks the IME composition lifecycle.
//
// A composition session is a multi-keystroke text entry producing a
// single commit. While one is active the model must not apply the
// in-flight text: hosts render it natively and replace it on commit.
// The machine defers model insertion until the end notification, and
// only inserts the commit when the capability profile says the host
// already committed the text into its own surface.
//
// If formatting marks are pending when a session starts, a zero-width
// marker leaf carrying those marks is inserted to pin the composition
// output to the marked run; the marker is stripped atomically when the
// session ends.
package composition
