package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/roach88/valet/internal/license"
)

// AttachOptions holds flags for the attach command.
type AttachOptions struct {
	*RootOptions
	MediaType string
}

// NewAttachCommand creates the attach command.
func NewAttachCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AttachOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "attach <license-id> <file>",
		Short: "Attach a file to a license",
		Long: `Store a copy of a file (receipt, license file, installer notes) with a
license. The media type is detected from the file name and content
unless --type is given.

Examples:
  valet attach 0190f5d2-3c4e-7a8b-9c0d-1e2f3a4b5c6d receipt.pdf`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAttach(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.MediaType, "type", "", "media type (default detected)")

	return cmd
}

func runAttach(opts *AttachOptions, licenseID, path string, cmd *cobra.Command) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read attachment", err)
	}

	s, err := openSession(cmd, opts.RootOptions)
	if err != nil {
		return err
	}
	defer s.Close()

	a, err := s.store.AddAttachment(commandContext(cmd), licenseID, path, opts.MediaType, content)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to attach file", err)
	}

	return newFormatter(cmd, opts.RootOptions).Result(a, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "Attached %s (%s, %s) as %s\n", a.Name, a.MediaType, humanize.Bytes(uint64(a.Size)), a.ID)
		return err
	})
}

// AttachmentsOptions holds flags for the attachments command.
type AttachmentsOptions struct {
	*RootOptions
	OutputDir string
}

// NewAttachmentsCommand creates the attachments command.
func NewAttachmentsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AttachmentsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "attachments <license-id>",
		Short: "List a license's attachments",
		Long: `List the files attached to a license. With --output-dir every
attachment is also written to that directory.

Examples:
  valet attachments 0190f5d2-3c4e-7a8b-9c0d-1e2f3a4b5c6d
  valet attachments 0190f5d2-3c4e-7a8b-9c0d-1e2f3a4b5c6d --output-dir ./out`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAttachments(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.OutputDir, "output-dir", "o", "", "write attachment contents to this directory")

	return cmd
}

func runAttachments(opts *AttachmentsOptions, licenseID string, cmd *cobra.Command) error {
	s, err := openSession(cmd, opts.RootOptions)
	if err != nil {
		return err
	}
	defer s.Close()

	if _, err := s.lookup(licenseID); err != nil {
		return err
	}

	ctx := commandContext(cmd)
	attachments, err := s.store.ListAttachments(ctx, licenseID)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to list attachments", err)
	}

	if opts.OutputDir != "" {
		if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
			return WrapExitError(ExitCommandError, "failed to create output directory", err)
		}
		written := make(map[string]bool, len(attachments))
		for _, meta := range attachments {
			a, err := s.store.ReadAttachment(ctx, meta.ID)
			if err != nil {
				return WrapExitError(ExitFailure, "failed to read attachment", err)
			}
			dest := filepath.Join(opts.OutputDir, outputName(a, written))
			if err := os.WriteFile(dest, a.Content, 0o644); err != nil {
				return WrapExitError(ExitFailure, "failed to write attachment", err)
			}
			s.logger.Debug("attachment written", "id", a.ID, "path", dest)
		}
	}

	return newFormatter(cmd, opts.RootOptions).Result(attachments, func(w io.Writer) error {
		if len(attachments) == 0 {
			_, err := fmt.Fprintln(w, "No attachments.")
			return err
		}
		return renderAttachmentTable(w, attachments)
	})
}

// outputName returns the file name a is written under. A name already
// used in this run gets the attachment ID as a prefix.
func outputName(a license.Attachment, written map[string]bool) string {
	name := filepath.Base(a.Name)
	if written[name] {
		name = a.ID + "-" + name
	}
	written[name] = true
	return name
}

func renderAttachmentTable(w io.Writer, attachments []license.Attachment) error {
	table := tablewriter.NewWriter(w)
	table.Header("ID", "Name", "Type", "Size", "Added")

	for _, a := range attachments {
		row := []string{
			a.ID,
			a.Name,
			a.MediaType,
			humanize.Bytes(uint64(a.Size)),
			a.CreatedAt.Format(timeLayout),
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}

	return table.Render()
}

// NewDetachCommand creates the detach command.
func NewDetachCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "detach <attachment-id>",
		Short:         "Remove an attachment",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetach(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runDetach(opts *RootOptions, id string, cmd *cobra.Command) error {
	s, err := openSession(cmd, opts)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.store.DeleteAttachment(commandContext(cmd), id); err != nil {
		return WrapExitError(ExitFailure, "failed to remove attachment", err)
	}

	data := map[string]string{"id": id}
	return newFormatter(cmd, opts).Result(data, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "Removed attachment %s\n", id)
		return err
	})
}
