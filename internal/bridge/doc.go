// Package bridge converts selections between the host surface and the
// document model, in both directions.
//
// Pulling reads the native base/extent positions and maps them onto
// model points; the native selection is untrusted and every endpoint is
// validated before use. Pushing computes native positions for a model
// selection, emitting base and extent in reverse order for backward
// selections so the host's own directionality matches the model's.
//
// A push is skipped entirely when the existing native selection already
// denotes the target model selection, which breaks the feedback loop
// between native selection-change notifications and model updates.
package bridge
