// Package intent classifies native edit-intent events into document
// operations.
//
// A native event arrives as a typed input kind plus optional payload
// and target range. The classifier inspects it against the current
// model selection and the host capability flags and produces a plan:
// do nothing, let the host apply the edit natively and reconcile the
// model afterwards, or mutate the model immediately while the native
// edit is suppressed.
//
// Classification never trusts a path it computed earlier in the pass:
// consumer intercept hooks may mutate the model between decision and
// application, so every plan re-validates its targets and degrades to
// a no-op when they no longer resolve.
package intent
