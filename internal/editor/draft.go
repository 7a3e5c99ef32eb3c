package editor

import (
	"fmt"

	"github.com/roach88/valet/internal/license"
)

// Field names one editable license field.
type Field string

const (
	FieldSoftwareName      Field = "software_name"
	FieldURL               Field = "download_url"
	FieldRegisteredToName  Field = "registered_to_name"
	FieldRegisteredToEmail Field = "registered_to_email"
	FieldLicenseKey        Field = "license_key"
	FieldNotes             Field = "notes"
)

// Fields lists the editable fields in form order.
var Fields = []Field{
	FieldSoftwareName,
	FieldURL,
	FieldRegisteredToName,
	FieldRegisteredToEmail,
	FieldLicenseKey,
	FieldNotes,
}

// Label returns the human-readable form label for the field.
func (f Field) Label() string {
	switch f {
	case FieldSoftwareName:
		return "Software"
	case FieldURL:
		return "URL"
	case FieldRegisteredToName:
		return "Registered To"
	case FieldRegisteredToEmail:
		return "Email"
	case FieldLicenseKey:
		return "License Key"
	case FieldNotes:
		return "Notes"
	default:
		return string(f)
	}
}

// ParseField maps a field name to a Field.
func ParseField(name string) (Field, error) {
	for _, f := range Fields {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown field %q", name)
}

// Draft is the transient working copy of a license's editable fields.
// It holds plain values only, never references into a License.
type Draft struct {
	SoftwareName      string `json:"software_name"`
	URL               string `json:"download_url"`
	RegisteredToName  string `json:"registered_to_name"`
	RegisteredToEmail string `json:"registered_to_email"`
	LicenseKey        string `json:"license_key"`
	Notes             string `json:"notes"`
}

// NewDraft copies every editable field of l verbatim.
func NewDraft(l license.License) Draft {
	return Draft{
		SoftwareName:      l.SoftwareName,
		URL:               l.DownloadURL,
		RegisteredToName:  l.RegisteredToName,
		RegisteredToEmail: l.RegisteredToEmail,
		LicenseKey:        l.LicenseKey,
		Notes:             l.Notes,
	}
}

// Get returns the draft value of f.
func (d Draft) Get(f Field) string {
	switch f {
	case FieldSoftwareName:
		return d.SoftwareName
	case FieldURL:
		return d.URL
	case FieldRegisteredToName:
		return d.RegisteredToName
	case FieldRegisteredToEmail:
		return d.RegisteredToEmail
	case FieldLicenseKey:
		return d.LicenseKey
	case FieldNotes:
		return d.Notes
	default:
		return ""
	}
}

// Set overwrites the draft value of f.
func (d *Draft) Set(f Field, value string) error {
	switch f {
	case FieldSoftwareName:
		d.SoftwareName = value
	case FieldURL:
		d.URL = value
	case FieldRegisteredToName:
		d.RegisteredToName = value
	case FieldRegisteredToEmail:
		d.RegisteredToEmail = value
	case FieldLicenseKey:
		d.LicenseKey = value
	case FieldNotes:
		d.Notes = value
	default:
		return fmt.Errorf("unknown field %q", f)
	}
	return nil
}

// ApplyTo returns a copy of l with its editable fields overwritten by the
// draft. Identity, icon, attachments and timestamps are carried over.
func (d Draft) ApplyTo(l license.License) license.License {
	out := l.Clone()
	out.SoftwareName = d.SoftwareName
	out.DownloadURL = d.URL
	out.RegisteredToName = d.RegisteredToName
	out.RegisteredToEmail = d.RegisteredToEmail
	out.LicenseKey = d.LicenseKey
	out.Notes = d.Notes
	return out
}

// FieldChange is the message a UI sends when the user edits one field.
type FieldChange struct {
	Field Field
	Value string
}
