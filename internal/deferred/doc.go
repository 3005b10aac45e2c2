// Package deferred queues model mutations that must wait for the host.
//
// When the native fast path lets the host apply an edit to its own
// surface first, the matching model mutation is captured as a deferred
// operation. Operations run in enqueue order when the host's
// content-settled notification fires, guaranteeing the model catches
// up only after the host's rendered text is visible. The queue is
// emptied unconditionally by every flush, errors included, so a failed
// operation can never replay on the next cycle.
package deferred
