package editor

import (
	"errors"
	"fmt"
)

var (
	// ErrNotEditing is returned for draft operations attempted while Viewing.
	ErrNotEditing = errors.New("not in edit mode")

	// ErrAlreadyEditing is returned by Edit while an edit session is open.
	ErrAlreadyEditing = errors.New("already in edit mode")

	// ErrSaveDisabled is returned by Save when the guard is off: either the
	// controller is Viewing or the draft is unchanged.
	ErrSaveDisabled = errors.New("save disabled: no changes")

	// ErrRecordMismatch is returned by Reload when the replacement record
	// has a different identity.
	ErrRecordMismatch = errors.New("record identity mismatch")
)

// PersistenceError wraps a failed Gateway.Update. The license must be
// assumed unchanged in storage.
type PersistenceError struct {
	LicenseID string
	Err       error
}

// Error implements the error interface.
func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist license %s: %v", e.LicenseID, e.Err)
}

// Unwrap returns the underlying gateway error.
func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsPersistenceError returns true if err is or wraps a *PersistenceError.
func IsPersistenceError(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
