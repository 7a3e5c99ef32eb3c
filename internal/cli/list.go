package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/roach88/valet/internal/license"
)

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [query]",
		Short: "List licenses",
		Long: `List catalogued licenses sorted by name. With a query, only licenses
whose name, key, registration details or URL contain it are shown
(case-insensitive).

Examples:
  valet list
  valet list sketch
  valet list --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			return runList(rootOpts, query, cmd)
		},
	}

	return cmd
}

func runList(opts *RootOptions, query string, cmd *cobra.Command) error {
	s, err := openSession(cmd, opts)
	if err != nil {
		return err
	}
	defer s.Close()

	licenses := s.catalog.Search(query)
	return newFormatter(cmd, opts).Result(licenses, func(w io.Writer) error {
		if len(licenses) == 0 {
			_, err := fmt.Fprintln(w, "No licenses found.")
			return err
		}
		return renderLicenseTable(w, licenses)
	})
}

func renderLicenseTable(w io.Writer, licenses []license.License) error {
	table := tablewriter.NewWriter(w)
	table.Header("ID", "Software", "Registered To", "License Key", "Link", "Files")

	for _, l := range licenses {
		row := []string{
			l.ID,
			l.DisplayName(),
			registeredTo(l),
			l.LicenseKey,
			l.Link().String(),
			strconv.Itoa(len(l.Attachments)),
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}

	return table.Render()
}

// registeredTo joins the registration name and email the way a mail client
// would show them.
func registeredTo(l license.License) string {
	switch {
	case l.RegisteredToName != "" && l.RegisteredToEmail != "":
		return fmt.Sprintf("%s <%s>", l.RegisteredToName, l.RegisteredToEmail)
	default:
		return strings.TrimSpace(l.RegisteredToName + l.RegisteredToEmail)
	}
}
