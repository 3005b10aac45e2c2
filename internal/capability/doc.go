// Package capability describes the editing quirks of the host platform.
//
// Hosts disagree on how native editing events behave: whether composition
// text is committed into the surface before the end notification fires,
// whether structured beforeinput events carry target ranges, whether the
// surface's selection lags its own edits. The capability table captures
// these differences as static flags that the reconciler branches on,
// instead of failing when an event does not match the expected shape.
//
// Flags are pure data. They are chosen once when the surface is attached
// and never change at runtime.
package capability
