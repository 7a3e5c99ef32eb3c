package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/valet/internal/editor"
	"github.com/roach88/valet/internal/license"
)

// EditResult is the JSON payload of edit.
type EditResult struct {
	License license.License `json:"license"`
	Changed []editor.Field  `json:"changed"`
	// IconChanged is set when --icon replaced the icon path. The icon is
	// not a form field, so it never appears in Changed.
	IconChanged bool `json:"icon_changed,omitempty"`
}

// NewEditCommand creates the edit command.
func NewEditCommand(rootOpts *RootOptions) *cobra.Command {
	var flags *LicenseFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a license",
		Long: `Change one or more fields of a license. Fields without a flag keep
their current value. Nothing is written when the new values equal the
stored ones.

Exit codes:
  0 - Saved, or nothing to change
  1 - License not found, invalid value, or the save failed
  2 - Command error

Examples:
  valet edit 0190f5d2-3c4e-7a8b-9c0d-1e2f3a4b5c6d --key XYZ-999
  valet edit 0190f5d2-3c4e-7a8b-9c0d-1e2f3a4b5c6d --notes-file notes.md
  valet edit 0190f5d2-3c4e-7a8b-9c0d-1e2f3a4b5c6d --icon ""`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(rootOpts, flags, args[0], cmd)
		},
	}

	flags = newLicenseFlags(cmd)

	return cmd
}

// runEdit drives an edit session the same way the detail screen does:
// Edit, one FieldChange per flag, then Save.
func runEdit(opts *RootOptions, flags *LicenseFlags, id string, cmd *cobra.Command) error {
	changes, err := flags.Changes(cmd)
	if err != nil {
		return err
	}

	s, err := openSession(cmd, opts)
	if err != nil {
		return err
	}
	defer s.Close()

	l, err := s.lookup(id)
	if err != nil {
		return err
	}

	ctrl := editor.New(s.catalog, l, editor.WithLogger(s.logger))
	if err := ctrl.Edit(); err != nil {
		return WrapExitError(ExitFailure, "failed to start edit", err)
	}
	for _, c := range changes {
		if err := ctrl.Apply(c); err != nil {
			return WrapExitError(ExitCommandError, "invalid field", err)
		}
	}

	changed := editor.ChangedFields(ctrl.Draft(), ctrl.Record())
	if err := validateLicense(s.validator, ctrl.Draft().ApplyTo(ctrl.Record())); err != nil {
		return err
	}

	ctx := commandContext(cmd)
	err = ctrl.Save(ctx)
	switch {
	case errors.Is(err, editor.ErrSaveDisabled):
		ctrl.Cancel()
	case err != nil:
		return WrapExitError(ExitFailure, "failed to save license", err)
	}

	iconChanged := flags.IconChanged(cmd) && flags.Icon != ctrl.Record().Icon
	if iconChanged {
		rec := ctrl.Record()
		rec.Icon = flags.Icon
		if err := s.catalog.Update(ctx, rec); err != nil {
			return WrapExitError(ExitFailure, "failed to save license", err)
		}
		if err := s.catalog.Refresh(ctx); err != nil {
			s.logger.Warn("reload after icon update failed", "error", err)
		}
	}

	// Pick up the stored timestamps.
	if stored, ok := s.catalog.Find(id); ok {
		if err := ctrl.Reload(stored); err != nil {
			s.logger.Warn("reload after save failed", "id", id, "error", err)
		}
	}

	result := EditResult{License: ctrl.Record(), Changed: changed, IconChanged: iconChanged}
	if result.Changed == nil {
		result.Changed = []editor.Field{}
	}

	return newFormatter(cmd, opts).Result(result, func(w io.Writer) error {
		if len(changed) == 0 && !iconChanged {
			_, err := fmt.Fprintf(w, "No changes to %s\n", result.License.DisplayName())
			return err
		}
		labels := make([]string, 0, len(changed)+1)
		for _, f := range changed {
			labels = append(labels, f.Label())
		}
		if iconChanged {
			labels = append(labels, "Icon")
		}
		_, err := fmt.Fprintf(w, "Saved %s (%s)\n", result.License.DisplayName(), strings.Join(labels, ", "))
		return err
	})
}
