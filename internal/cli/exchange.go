package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/valet/internal/csvfile"
	"github.com/roach88/valet/internal/license"
)

// DefaultExportName is the file written by export when no path is given.
const DefaultExportName = "licenses.csv"

// ExportResult is the JSON payload of export.
type ExportResult struct {
	Path     string `json:"path"`
	Licenses int    `json:"licenses"`
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Export licenses to CSV",
		Long: `Write every license to a CSV file. Without a file argument the export
goes to licenses.csv in the configured export_dir; "-" writes to stdout.

Examples:
  valet export
  valet export ~/Backups/licenses.csv
  valet export - > licenses.csv`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runExport(rootOpts, path, cmd)
		},
	}

	return cmd
}

func runExport(opts *RootOptions, path string, cmd *cobra.Command) error {
	s, err := openSession(cmd, opts)
	if err != nil {
		return err
	}
	defer s.Close()

	licenses := s.catalog.Licenses()

	if path == "-" {
		if err := csvfile.Export(cmd.OutOrStdout(), licenses); err != nil {
			return WrapExitError(ExitFailure, "failed to export licenses", err)
		}
		return nil
	}

	if path == "" {
		path = filepath.Join(s.cfg.ExportDir, DefaultExportName)
	}
	if err := writeExport(path, licenses); err != nil {
		return WrapExitError(ExitFailure, "failed to export licenses", err)
	}
	s.logger.Debug("licenses exported", "path", path, "licenses", len(licenses))

	result := ExportResult{Path: path, Licenses: len(licenses)}
	return newFormatter(cmd, opts).Result(result, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "Exported %d license(s) to %s\n", result.Licenses, result.Path)
		return err
	})
}

// writeExport writes to a temp file next to path and renames it into
// place, so a failed export never truncates an earlier one.
func writeExport(path string, licenses []license.License) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".valet-export-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if err := csvfile.Export(tmp, licenses); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import licenses from CSV",
		Long: `Read licenses from a CSV file with a header row. Columns may appear in
any order; only software_name is required. Rows whose id matches an
existing license update it, all other rows are added.

Every row is validated first. If any row is invalid nothing is imported
and each bad row is reported with its line number.

Exit codes:
  0 - All rows imported
  1 - One or more rows invalid (nothing imported)
  2 - Command error (file not found, missing column)

Examples:
  valet import licenses.csv
  valet import licenses.csv --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runImport(opts *RootOptions, path string, cmd *cobra.Command) error {
	f, err := os.Open(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open import file", err)
	}
	defer f.Close()

	s, err := openSession(cmd, opts)
	if err != nil {
		return err
	}
	defer s.Close()

	licenses, err := csvfile.Import(f, s.validator)
	if err != nil {
		var importErr *csvfile.ImportError
		if errors.As(err, &importErr) {
			out := newFormatter(cmd, opts)
			for _, row := range importErr.Rows {
				out.VerboseLog("row %d: %v", row.Row, row.Err)
			}
			return WrapExitError(ExitFailure, "invalid rows", err)
		}
		return WrapExitError(ExitCommandError, "failed to read import file", err)
	}

	result, err := s.store.ImportLicenses(commandContext(cmd), licenses)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to import licenses", err)
	}
	if err := s.catalog.Refresh(commandContext(cmd)); err != nil {
		s.logger.Error("refresh after import failed", "error", err)
	}

	return newFormatter(cmd, opts).Result(result, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "Imported %d license(s): %d added, %d updated\n",
			result.Created+result.Updated, result.Created, result.Updated)
		return err
	})
}
