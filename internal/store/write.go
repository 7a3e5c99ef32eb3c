package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/mattn/go-sqlite3"

	"github.com/roach88/valet/internal/license"
)

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// CreateLicense inserts a new license and returns it as stored.
// An empty ID is filled from the store's IDGenerator; CreatedAt and
// UpdatedAt are always set from the store's clock. Attachments on l are
// ignored; use AddAttachment.
func (s *Store) CreateLicense(ctx context.Context, l license.License) (license.License, error) {
	out, err := s.insertLicense(ctx, s.db, l)
	if err != nil {
		return license.License{}, fmt.Errorf("create license: %w", err)
	}
	return out, nil
}

func (s *Store) insertLicense(ctx context.Context, db execer, l license.License) (license.License, error) {
	if l.ID == "" {
		l.ID = s.ids.Generate()
	}
	now := s.clock.Now()
	l.CreatedAt = now
	l.UpdatedAt = now
	l.Attachments = nil

	_, err := db.ExecContext(ctx, `
		INSERT INTO licenses
		(id, software_name, download_url, registered_to_name, registered_to_email,
		 license_key, notes, icon, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		l.ID,
		l.SoftwareName,
		l.DownloadURL,
		l.RegisteredToName,
		l.RegisteredToEmail,
		l.LicenseKey,
		l.Notes,
		l.Icon,
		formatTime(l.CreatedAt),
		formatTime(l.UpdatedAt),
	)
	if err != nil {
		return license.License{}, err
	}
	return l, nil
}

// UpdateLicense replaces every mutable column of the identified license as
// a unit. The ID and created_at never change. Returns ErrNotFound (wrapped)
// if no license has l.ID.
func (s *Store) UpdateLicense(ctx context.Context, l license.License) error {
	if err := s.updateLicense(ctx, s.db, l); err != nil {
		return fmt.Errorf("update license %s: %w", l.ID, err)
	}
	return nil
}

func (s *Store) updateLicense(ctx context.Context, db execer, l license.License) error {
	result, err := db.ExecContext(ctx, `
		UPDATE licenses SET
			software_name = ?,
			download_url = ?,
			registered_to_name = ?,
			registered_to_email = ?,
			license_key = ?,
			notes = ?,
			icon = ?,
			updated_at = ?
		WHERE id = ?
	`,
		l.SoftwareName,
		l.DownloadURL,
		l.RegisteredToName,
		l.RegisteredToEmail,
		l.LicenseKey,
		l.Notes,
		l.Icon,
		formatTime(s.clock.Now()),
		l.ID,
	)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// DeleteLicense removes a license and, via ON DELETE CASCADE, its attachments.
func (s *Store) DeleteLicense(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM licenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete license %s: %w", id, err)
	}
	if err := requireAffected(result); err != nil {
		return fmt.Errorf("delete license %s: %w", id, err)
	}
	return nil
}

// ImportResult counts the outcome of ImportLicenses.
type ImportResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

// ImportLicenses writes a batch in one transaction: licenses whose ID
// already exists are updated, the rest are created. Either every row is
// written or none is.
func (s *Store) ImportLicenses(ctx context.Context, licenses []license.License) (ImportResult, error) {
	var res ImportResult

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return res, fmt.Errorf("import licenses: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	for i, l := range licenses {
		exists := false
		if l.ID != "" {
			// CSV rows carry no icon; an existing row keeps its own.
			var icon string
			err := tx.QueryRowContext(ctx, `SELECT icon FROM licenses WHERE id = ?`, l.ID).Scan(&icon)
			switch {
			case errors.Is(err, sql.ErrNoRows):
			case err != nil:
				return ImportResult{}, fmt.Errorf("import licenses: row %d: %w", i+1, err)
			default:
				exists = true
				if l.Icon == "" {
					l.Icon = icon
				}
			}
		}

		if exists {
			if err := s.updateLicense(ctx, tx, l); err != nil {
				return ImportResult{}, fmt.Errorf("import licenses: row %d: update: %w", i+1, err)
			}
			res.Updated++
			continue
		}

		if _, err := s.insertLicense(ctx, tx, l); err != nil {
			return ImportResult{}, fmt.Errorf("import licenses: row %d: insert: %w", i+1, err)
		}
		res.Created++
	}

	if err := tx.Commit(); err != nil {
		return ImportResult{}, fmt.Errorf("import licenses: commit: %w", err)
	}
	return res, nil
}

// AddAttachment stores content as a new attachment of licenseID.
// When mediaType is empty it is derived from the file extension, then
// from the content itself.
func (s *Store) AddAttachment(ctx context.Context, licenseID, name, mediaType string, content []byte) (license.Attachment, error) {
	if mediaType == "" {
		mediaType = detectMediaType(name, content)
	}
	if content == nil {
		content = []byte{}
	}

	a := license.Attachment{
		ID:        s.ids.Generate(),
		LicenseID: licenseID,
		Name:      filepath.Base(name),
		MediaType: mediaType,
		Size:      int64(len(content)),
		CreatedAt: s.clock.Now(),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO attachments
		(id, license_id, name, media_type, size, content, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		a.ID,
		a.LicenseID,
		a.Name,
		a.MediaType,
		a.Size,
		content,
		formatTime(a.CreatedAt),
	)
	if err != nil {
		if isForeignKeyError(err) {
			return license.Attachment{}, fmt.Errorf("add attachment: license %s: %w", licenseID, ErrNotFound)
		}
		return license.Attachment{}, fmt.Errorf("add attachment: %w", err)
	}
	return a, nil
}

// DeleteAttachment removes one attachment.
func (s *Store) DeleteAttachment(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM attachments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete attachment %s: %w", id, err)
	}
	if err := requireAffected(result); err != nil {
		return fmt.Errorf("delete attachment %s: %w", id, err)
	}
	return nil
}

// requireAffected maps a zero-row write to ErrNotFound.
func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func isForeignKeyError(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}
	return false
}

func detectMediaType(name string, content []byte) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); t != "" {
		return t
	}
	return http.DetectContentType(content)
}
