// Package schedule coalesces high-frequency native selection
// notifications into single reconciliation passes.
//
// Two layers wrap the handler: an inner trailing-edge throttle bounds
// how often reconciliation runs during rapid pointer drags, and an
// outer zero-delay debounce folds the bursts a single user gesture
// issues synchronously into one pass on the next turn.
//
// Flush forces both layers to run immediately. It must be called
// before interpreting any edit-intent event, because some hosts mutate
// the selection just before firing the event and the handler has to
// observe the freshest selection.
package schedule
