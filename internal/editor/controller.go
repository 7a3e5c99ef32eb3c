package editor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/valet/internal/license"
)

// Mode is the presentation state of a detail view.
type Mode int

const (
	// ModeViewing shows the license read-only. This is the initial mode.
	ModeViewing Mode = iota

	// ModeEditing shows the draft as an editable form.
	ModeEditing
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeViewing:
		return "viewing"
	case ModeEditing:
		return "editing"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Gateway is the persistence collaborator the controller commits through.
type Gateway interface {
	// Update replaces the editable fields of the identified license.
	// On error the caller must not assume storage changed.
	Update(ctx context.Context, l license.License) error

	// Refresh reloads the in-memory license collection from storage.
	Refresh(ctx context.Context) error
}

// Controller is the edit/view state machine for one license.
type Controller struct {
	gateway Gateway
	logger  *slog.Logger

	record license.License
	draft  Draft
	mode   Mode
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for persistence failures.
// Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a controller in Viewing mode for record.
// The draft starts empty and is populated on Edit.
func New(gateway Gateway, record license.License, opts ...Option) *Controller {
	c := &Controller{
		gateway: gateway,
		logger:  slog.Default(),
		record:  record.Clone(),
		mode:    ModeViewing,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Mode returns the current mode.
func (c *Controller) Mode() Mode {
	return c.mode
}

// Editing reports whether an edit session is open.
func (c *Controller) Editing() bool {
	return c.mode == ModeEditing
}

// Record returns a copy of the current license.
func (c *Controller) Record() license.License {
	return c.record.Clone()
}

// Draft returns a copy of the current draft.
func (c *Controller) Draft() Draft {
	return c.draft
}

// Changed reports whether the draft differs from the license.
func (c *Controller) Changed() bool {
	return Changed(c.draft, c.record)
}

// CanSave reports whether Save is enabled: Editing and dirty.
func (c *Controller) CanSave() bool {
	return c.mode == ModeEditing && c.Changed()
}

// Edit opens an edit session, overwriting the draft with the license's
// editable fields.
func (c *Controller) Edit() error {
	if c.mode == ModeEditing {
		return ErrAlreadyEditing
	}
	c.draft = NewDraft(c.record)
	c.mode = ModeEditing
	return nil
}

// Cancel closes the edit session without touching the license. The draft
// is left as-is; the next Edit overwrites it. Cancel while Viewing does
// nothing.
func (c *Controller) Cancel() {
	c.mode = ModeViewing
}

// Toggle mirrors the detail view's Edit/Cancel button: it opens an edit
// session while Viewing and cancels it while Editing.
func (c *Controller) Toggle() {
	if c.mode == ModeEditing {
		c.Cancel()
		return
	}
	_ = c.Edit()
}

// Apply writes one field change into the draft.
func (c *Controller) Apply(change FieldChange) error {
	if c.mode != ModeEditing {
		return ErrNotEditing
	}
	return c.draft.Set(change.Field, change.Value)
}

// Save commits the draft. It returns ErrSaveDisabled without calling the
// gateway unless CanSave is true.
//
// On update failure the error is logged and returned as a
// *PersistenceError; the controller stays in Editing, the draft is kept and
// Refresh is not called. On success Refresh is called once, the updated
// license becomes current and the controller returns to Viewing. A refresh
// failure is logged but does not undo the transition since the update has
// already been committed.
func (c *Controller) Save(ctx context.Context) error {
	if !c.CanSave() {
		return ErrSaveDisabled
	}

	updated := c.draft.ApplyTo(c.record)
	if err := c.gateway.Update(ctx, updated); err != nil {
		c.logger.Error("save license failed",
			"id", c.record.ID,
			"fields", ChangedFields(c.draft, c.record),
			"error", err)
		return &PersistenceError{LicenseID: c.record.ID, Err: err}
	}

	c.logger.Debug("license saved",
		"id", updated.ID,
		"fields", ChangedFields(c.draft, c.record))

	if err := c.gateway.Refresh(ctx); err != nil {
		c.logger.Error("refresh after save failed", "id", updated.ID, "error", err)
	}

	c.record = updated
	c.mode = ModeViewing
	return nil
}

// Reload replaces the current license with a newer copy of the same
// record, e.g. after the surrounding catalog refreshed. It is refused while
// Editing so nothing mutates the license under an open session.
func (c *Controller) Reload(l license.License) error {
	if c.mode == ModeEditing {
		return ErrAlreadyEditing
	}
	if l.ID != c.record.ID {
		return fmt.Errorf("reload %s with %s: %w", c.record.ID, l.ID, ErrRecordMismatch)
	}
	c.record = l.Clone()
	return nil
}
