// Package editor implements the edit/view reconciliation for a single
// license detail view.
//
// A Controller owns one License (the source of truth) and one Draft (the
// working copy). It is a two-state machine:
//
//	Viewing --Edit--> Editing --Cancel--> Viewing
//	                  Editing --Save (dirty only)--> Viewing
//
// Entering Editing copies every editable field of the license into the
// draft. While Editing, the UI sends FieldChange values which the
// controller applies to the draft it owns. The UI never holds a reference
// to the draft; it renders from Controller.Draft(), which returns a copy.
//
// Save is guarded by Changed: it is rejected with ErrSaveDisabled unless
// the draft differs from the license in at least one field. A successful
// Save calls Gateway.Update once, then Gateway.Refresh once, and returns to
// Viewing. A failed update is logged, returned as a *PersistenceError, and
// leaves the controller in Editing with the draft intact so the user can
// retry or cancel.
//
// THREADING:
// A Controller is owned by one session and is not safe for concurrent use.
// All transitions run synchronously in the caller, which is either a CLI
// command or the Bubble Tea update loop.
package editor
