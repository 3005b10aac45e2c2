// Package reconcile orchestrates the synchronization between a
// host-rendered editable surface and the document model.
//
// The reconciler receives every native surface event, consults the
// capability table, classifier, composition machine, and selection
// bridge, and issues model operations. Native events either mutate the
// model immediately (with the native edit suppressed) or are allowed
// to apply natively first, with the model mutation deferred until the
// host's content-settled notification.
//
// Everything runs on the host's single event turn; the only shared
// mutable resource is the model, and every mutation goes through its
// operation API. Session state that elsewhere lives in process-wide
// side tables keyed by editor instance (the read-only flag, focus
// flag, drag progress) is held as fields on the reconciler itself, so
// ownership is structural.
package reconcile
