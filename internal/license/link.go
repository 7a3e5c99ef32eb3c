package license

import (
	"net/url"
	"path"
	"strings"
)

// LinkKind classifies a download URL for presentation.
type LinkKind string

const (
	// LinkNone means the license has no usable URL.
	LinkNone LinkKind = ""

	// LinkDownload points directly at an installer or archive.
	LinkDownload LinkKind = "Download"

	// LinkWebsite points at anything else (product or vendor page).
	LinkWebsite LinkKind = "Website"
)

// String returns the label shown next to the URL.
func (k LinkKind) String() string {
	return string(k)
}

// downloadSuffixes are matched case-insensitively against the URL path.
var downloadSuffixes = []string{
	".dmg", ".zip", ".pkg", ".tar.gz", ".tgz", ".exe", ".msi", ".app", ".deb", ".rpm",
}

// IsDownloadLink reports whether u points at a downloadable file.
func IsDownloadLink(u *url.URL) bool {
	if u == nil {
		return false
	}
	p := strings.ToLower(path.Clean(u.Path))
	for _, suffix := range downloadSuffixes {
		if strings.HasSuffix(p, suffix) {
			return true
		}
	}
	return false
}

// Link returns the kind of link the license's DownloadURL is.
func (l License) Link() LinkKind {
	u, ok := l.URL()
	if !ok {
		return LinkNone
	}
	if IsDownloadLink(u) {
		return LinkDownload
	}
	return LinkWebsite
}
