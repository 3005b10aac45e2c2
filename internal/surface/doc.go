// Package surface abstracts the host-rendered editable view.
//
// The surface is a tree of host nodes mirroring the document model: an
// element node per model element, a text node per text leaf. It is a
// derived, disposable projection: the model owns the truth and the
// surface is rebuilt from it on every render pass.
//
// The native selection is a pair of base/extent positions over surface
// nodes. It carries no inherent ordering; start and end are determined
// by the caller. It is owned by the host and read or written
// transactionally, never cached across reconciliation passes.
//
// Clipboard and drag transfers move either plain text or a structured
// fragment payload, a JSON serialization of model nodes. The payload
// variant is decided at the ingestion boundary, not probed at use
// sites.
package surface
