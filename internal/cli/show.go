package cli

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/roach88/valet/internal/editor"
	"github.com/roach88/valet/internal/license"
	"github.com/roach88/valet/internal/notes"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	HTML bool
}

// ShowResult is the JSON payload of show.
type ShowResult struct {
	license.License
	NotesHTML string `json:"notes_html,omitempty"`
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one license",
		Long: `Show every field of a license, its notes and its attachments.

Notes are stored as markdown and printed as plain text; --html renders
them to HTML instead.

Examples:
  valet show 0190f5d2-3c4e-7a8b-9c0d-1e2f3a4b5c6d
  valet show 0190f5d2-3c4e-7a8b-9c0d-1e2f3a4b5c6d --html`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.HTML, "html", false, "render notes as HTML")

	return cmd
}

func runShow(opts *ShowOptions, id string, cmd *cobra.Command) error {
	s, err := openSession(cmd, opts.RootOptions)
	if err != nil {
		return err
	}
	defer s.Close()

	l, err := s.lookup(id)
	if err != nil {
		return err
	}

	result := ShowResult{License: l}
	if opts.HTML {
		html, err := notes.HTML(l.Notes)
		if err != nil {
			return WrapExitError(ExitFailure, "failed to render notes", err)
		}
		result.NotesHTML = html
	}

	return newFormatter(cmd, opts.RootOptions).Result(result, func(w io.Writer) error {
		return writeLicenseText(w, result)
	})
}

func writeLicenseText(w io.Writer, r ShowResult) error {
	l := r.License
	d := editor.NewDraft(l)

	fmt.Fprintf(w, "%s\n\n", l.DisplayName())
	fmt.Fprintf(w, "  %-15s %s\n", "ID", l.ID)
	for _, f := range editor.Fields {
		if f == editor.FieldNotes {
			continue
		}
		value := d.Get(f)
		if f == editor.FieldURL && l.Link() != license.LinkNone {
			value = fmt.Sprintf("%s (%s)", value, l.Link())
		}
		fmt.Fprintf(w, "  %-15s %s\n", f.Label(), value)
	}
	if l.Icon != "" {
		fmt.Fprintf(w, "  %-15s %s\n", "Icon", l.Icon)
	}
	fmt.Fprintf(w, "  %-15s %s\n", "Created", l.CreatedAt.Format(timeLayout))
	fmt.Fprintf(w, "  %-15s %s\n", "Updated", l.UpdatedAt.Format(timeLayout))

	if r.NotesHTML != "" {
		fmt.Fprintf(w, "\nNotes:\n%s", r.NotesHTML)
	} else if text := notes.PlainText(l.Notes); text != "" {
		fmt.Fprintf(w, "\nNotes:\n%s\n", text)
	}

	if len(l.Attachments) > 0 {
		fmt.Fprintln(w, "\nAttachments:")
		for _, a := range l.Attachments {
			fmt.Fprintf(w, "  %s  %s  %s\n", a.ID, a.Name, humanize.Bytes(uint64(a.Size)))
		}
	}
	return nil
}

const timeLayout = "2006-01-02 15:04 MST"
