package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/valet/internal/clipboard"
)

// CopyOptions holds flags for the copy command.
type CopyOptions struct {
	*RootOptions

	// Clipboard allows overriding the system clipboard (for testing).
	// If nil, defaults to clipboard.System().
	Clipboard clipboard.Writer
}

// NewCopyCommand creates the copy command.
func NewCopyCommand(rootOpts *RootOptions) *cobra.Command {
	return newCopyCommand(&CopyOptions{RootOptions: rootOpts})
}

func newCopyCommand(opts *CopyOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "copy <id> <field>",
		Short: "Copy a license field to the clipboard",
		Long: `Copy one field of a license to the system clipboard.

Fields: name, email, key, url, or any editable field name
(software_name, download_url, registered_to_name, registered_to_email,
license_key, notes).

Examples:
  valet copy 0190f5d2-3c4e-7a8b-9c0d-1e2f3a4b5c6d key`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCopy(opts, args[0], args[1], cmd)
		},
	}

	return cmd
}

func runCopy(opts *CopyOptions, id, fieldName string, cmd *cobra.Command) error {
	field, err := parseCopyField(fieldName)
	if err != nil {
		return err
	}

	s, err := openSession(cmd, opts.RootOptions)
	if err != nil {
		return err
	}
	defer s.Close()

	l, err := s.lookup(id)
	if err != nil {
		return err
	}

	w := opts.Clipboard
	if w == nil {
		w = clipboard.System()
	}
	if err := clipboard.CopyField(w, l, field); err != nil {
		return WrapExitError(ExitFailure, "failed to copy", err)
	}

	data := map[string]string{"id": l.ID, "field": string(field)}
	return newFormatter(cmd, opts.RootOptions).Result(data, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "Copied %s to Clipboard\n", field.Label())
		return err
	})
}
