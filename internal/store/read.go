package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/valet/internal/license"
)

const licenseColumns = `id, software_name, download_url, registered_to_name, registered_to_email,
		license_key, notes, icon, created_at, updated_at`

// GetLicense retrieves a single license with its attachment metadata.
// Returns ErrNotFound (wrapped) if the license does not exist.
func (s *Store) GetLicense(ctx context.Context, id string) (license.License, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+licenseColumns+`
		FROM licenses
		WHERE id = ?
	`, id)

	l, err := scanLicense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return license.License{}, fmt.Errorf("get license %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return license.License{}, fmt.Errorf("get license %s: %w", id, err)
	}

	l.Attachments, err = s.ListAttachments(ctx, id)
	if err != nil {
		return license.License{}, err
	}
	return l, nil
}

// ListLicenses returns every license with attachment metadata, ordered by
// software name (case-insensitive) then id.
//
// Returns an empty slice (not nil) if the catalogue is empty.
func (s *Store) ListLicenses(ctx context.Context) ([]license.License, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+licenseColumns+`
		FROM licenses
		ORDER BY software_name COLLATE NOCASE ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query licenses: %w", err)
	}
	defer rows.Close()

	licenses := []license.License{}
	index := map[string]int{}
	for rows.Next() {
		l, err := scanLicense(rows)
		if err != nil {
			return nil, err
		}
		index[l.ID] = len(licenses)
		licenses = append(licenses, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate licenses: %w", err)
	}

	attachments, err := s.allAttachments(ctx)
	if err != nil {
		return nil, err
	}
	for _, a := range attachments {
		if i, ok := index[a.LicenseID]; ok {
			licenses[i].Attachments = append(licenses[i].Attachments, a)
		}
	}

	return licenses, nil
}

// ListAttachments returns attachment metadata (without content) for one
// license in creation order. Returns nil when there are none.
func (s *Store) ListAttachments(ctx context.Context, licenseID string) ([]license.Attachment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, license_id, name, media_type, size, created_at
		FROM attachments
		WHERE license_id = ?
		ORDER BY created_at ASC, id ASC
	`, licenseID)
	if err != nil {
		return nil, fmt.Errorf("query attachments: %w", err)
	}
	defer rows.Close()

	return collectAttachments(rows)
}

func (s *Store) allAttachments(ctx context.Context) ([]license.Attachment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, license_id, name, media_type, size, created_at
		FROM attachments
		ORDER BY license_id ASC, created_at ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query attachments: %w", err)
	}
	defer rows.Close()

	return collectAttachments(rows)
}

// ReadAttachment retrieves one attachment including its content.
func (s *Store) ReadAttachment(ctx context.Context, id string) (license.Attachment, error) {
	var a license.Attachment
	var createdAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, license_id, name, media_type, size, content, created_at
		FROM attachments
		WHERE id = ?
	`, id).Scan(&a.ID, &a.LicenseID, &a.Name, &a.MediaType, &a.Size, &a.Content, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return license.Attachment{}, fmt.Errorf("read attachment %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return license.Attachment{}, fmt.Errorf("read attachment %s: %w", id, err)
	}
	if a.CreatedAt, err = parseTime(createdAt); err != nil {
		return license.Attachment{}, fmt.Errorf("read attachment %s: %w", id, err)
	}
	return a, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanLicense scans one row selected with licenseColumns.
func scanLicense(row rowScanner) (license.License, error) {
	var l license.License
	var createdAt, updatedAt string

	if err := row.Scan(
		&l.ID, &l.SoftwareName, &l.DownloadURL, &l.RegisteredToName, &l.RegisteredToEmail,
		&l.LicenseKey, &l.Notes, &l.Icon, &createdAt, &updatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return l, err
		}
		return l, fmt.Errorf("scan license: %w", err)
	}

	var err error
	if l.CreatedAt, err = parseTime(createdAt); err != nil {
		return l, fmt.Errorf("scan license %s: %w", l.ID, err)
	}
	if l.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return l, fmt.Errorf("scan license %s: %w", l.ID, err)
	}
	return l, nil
}

func collectAttachments(rows *sql.Rows) ([]license.Attachment, error) {
	var attachments []license.Attachment
	for rows.Next() {
		var a license.Attachment
		var createdAt string
		if err := rows.Scan(&a.ID, &a.LicenseID, &a.Name, &a.MediaType, &a.Size, &createdAt); err != nil {
			return nil, fmt.Errorf("scan attachment: %w", err)
		}
		var err error
		if a.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("scan attachment %s: %w", a.ID, err)
		}
		attachments = append(attachments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attachments: %w", err)
	}
	return attachments, nil
}
