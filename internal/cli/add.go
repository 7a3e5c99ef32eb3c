package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/valet/internal/editor"
	"github.com/roach88/valet/internal/license"
)

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	var flags *LicenseFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a license",
		Long: `Add a license to the catalogue. Only --name is required.

Examples:
  valet add --name "Sketch" --key ABC-123 --registered-email me@example.com
  valet add --name "Tower" --url https://www.git-tower.com --notes-file tower.md
  valet add --name "Fork" --icon ~/Pictures/fork.png`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(rootOpts, flags, cmd)
		},
	}

	flags = newLicenseFlags(cmd)
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func runAdd(opts *RootOptions, flags *LicenseFlags, cmd *cobra.Command) error {
	changes, err := flags.Changes(cmd)
	if err != nil {
		return err
	}

	s, err := openSession(cmd, opts)
	if err != nil {
		return err
	}
	defer s.Close()

	var draft editor.Draft
	for _, c := range changes {
		if err := draft.Set(c.Field, c.Value); err != nil {
			return WrapExitError(ExitCommandError, "invalid field", err)
		}
	}
	l := draft.ApplyTo(license.License{Icon: flags.Icon})
	if err := validateLicense(s.validator, l); err != nil {
		return err
	}

	created, err := s.store.CreateLicense(commandContext(cmd), l)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to add license", err)
	}
	s.logger.Debug("license added", "id", created.ID)

	return newFormatter(cmd, opts).Result(created, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "Added %s (%s)\n", created.DisplayName(), created.ID)
		return err
	})
}
