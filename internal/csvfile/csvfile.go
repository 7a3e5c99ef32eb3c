// Package csvfile exports and imports the license catalogue as CSV.
package csvfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/roach88/valet/internal/license"
	"github.com/roach88/valet/internal/schema"
)

// Column names, in export order.
const (
	ColID                = "id"
	ColSoftwareName      = "software_name"
	ColDownloadURL       = "download_url"
	ColRegisteredToName  = "registered_to_name"
	ColRegisteredToEmail = "registered_to_email"
	ColLicenseKey        = "license_key"
	ColNotes             = "notes"
	ColCreatedAt         = "created_at"
	ColUpdatedAt         = "updated_at"
)

// Header is the export header row.
var Header = []string{
	ColID, ColSoftwareName, ColDownloadURL, ColRegisteredToName, ColRegisteredToEmail,
	ColLicenseKey, ColNotes, ColCreatedAt, ColUpdatedAt,
}

// Export writes licenses as CSV with a header row. Timestamps are RFC 3339
// in UTC; attachments and icons are not exported.
func Export(w io.Writer, licenses []license.License) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, l := range licenses {
		record := []string{
			l.ID,
			l.SoftwareName,
			l.DownloadURL,
			l.RegisteredToName,
			l.RegisteredToEmail,
			l.LicenseKey,
			l.Notes,
			formatTime(l.CreatedAt),
			formatTime(l.UpdatedAt),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write license %s: %w", l.ID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// RowError reports a problem with one input row. Row is 1-based and
// counts the header, so it matches the line a spreadsheet shows.
type RowError struct {
	Row int
	Err error
}

// Error implements the error interface.
func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

// Unwrap returns the underlying error.
func (e *RowError) Unwrap() error {
	return e.Err
}

// ImportError collects every rejected row of an import.
type ImportError struct {
	Rows []*RowError
}

// Error implements the error interface.
func (e *ImportError) Error() string {
	msgs := make([]string, len(e.Rows))
	for i, r := range e.Rows {
		msgs[i] = r.Error()
	}
	return fmt.Sprintf("%d invalid row(s): %s", len(e.Rows), strings.Join(msgs, "; "))
}

// ErrMissingColumn is returned when the header lacks software_name.
var ErrMissingColumn = errors.New("missing required column")

// Import reads CSV produced by Export (or a hand-written file with any
// subset of the columns, in any order, as long as software_name is
// present). Each row is validated against the #License schema; if any row
// is invalid an *ImportError listing all of them is returned and no
// licenses are.
//
// Rows without an id get an empty ID, which the store fills in.
// Timestamps in the file are ignored; the store stamps its own.
func Import(r io.Reader, v *schema.Validator) ([]license.License, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return []license.License{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := map[string]int{}
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		cols[name] = i
	}
	if _, ok := cols[ColSoftwareName]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, ColSoftwareName)
	}

	licenses := []license.License{}
	var bad []*RowError
	row := 1
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		row++
		if err != nil {
			bad = append(bad, &RowError{Row: row, Err: err})
			continue
		}
		if isBlank(record) {
			continue
		}

		fields := map[string]any{}
		for _, name := range []string{
			ColID, ColSoftwareName, ColDownloadURL, ColRegisteredToName,
			ColRegisteredToEmail, ColLicenseKey, ColNotes,
		} {
			if i, ok := cols[name]; ok && i < len(record) {
				fields[name] = record[i]
			}
		}

		if err := v.Validate(schema.License, fields); err != nil {
			bad = append(bad, &RowError{Row: row, Err: err})
			continue
		}

		licenses = append(licenses, license.License{
			ID:                str(fields, ColID),
			SoftwareName:      str(fields, ColSoftwareName),
			DownloadURL:       str(fields, ColDownloadURL),
			RegisteredToName:  str(fields, ColRegisteredToName),
			RegisteredToEmail: str(fields, ColRegisteredToEmail),
			LicenseKey:        str(fields, ColLicenseKey),
			Notes:             str(fields, ColNotes),
		})
	}

	if len(bad) > 0 {
		return nil, &ImportError{Rows: bad}
	}
	return licenses, nil
}

func str(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return s
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
