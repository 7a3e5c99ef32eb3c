package license

import (
	"net/url"
	"strings"
	"time"
)

// License is one catalogued software license.
type License struct {
	ID                string       `json:"id"`
	SoftwareName      string       `json:"software_name"`
	DownloadURL       string       `json:"download_url,omitempty"`
	RegisteredToName  string       `json:"registered_to_name,omitempty"`
	RegisteredToEmail string       `json:"registered_to_email,omitempty"`
	LicenseKey        string       `json:"license_key,omitempty"`
	Notes             string       `json:"notes,omitempty"`
	Icon              string       `json:"icon,omitempty"`
	Attachments       []Attachment `json:"attachments,omitempty"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

// Attachment describes a file stored alongside a license.
// Content is only populated when explicitly read from the store.
type Attachment struct {
	ID        string    `json:"id"`
	LicenseID string    `json:"license_id"`
	Name      string    `json:"name"`
	MediaType string    `json:"media_type"`
	Size      int64     `json:"size"`
	Content   []byte    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Clone returns a deep copy of the license. The attachment slice and each
// attachment's content are copied so the result shares no memory with l.
func (l License) Clone() License {
	out := l
	if l.Attachments != nil {
		out.Attachments = make([]Attachment, len(l.Attachments))
		for i, a := range l.Attachments {
			if a.Content != nil {
				a.Content = append([]byte(nil), a.Content...)
			}
			out.Attachments[i] = a
		}
	}
	return out
}

// URL parses DownloadURL. Returns false when the license has no URL or the
// stored string is not an absolute URL.
func (l License) URL() (*url.URL, bool) {
	if strings.TrimSpace(l.DownloadURL) == "" {
		return nil, false
	}
	u, err := url.Parse(l.DownloadURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, false
	}
	return u, true
}

// DisplayName returns the software name, falling back to the URL host and
// finally the ID so list rows are never blank.
func (l License) DisplayName() string {
	if name := strings.TrimSpace(l.SoftwareName); name != "" {
		return name
	}
	if u, ok := l.URL(); ok {
		return u.Host
	}
	return l.ID
}
