package editor

import "github.com/roach88/valet/internal/license"

// Changed reports whether d differs from l in any editable field.
// Comparison is exact; the URL is compared in its string form.
func Changed(d Draft, l license.License) bool {
	return d.SoftwareName != l.SoftwareName ||
		d.URL != l.DownloadURL ||
		d.RegisteredToName != l.RegisteredToName ||
		d.RegisteredToEmail != l.RegisteredToEmail ||
		d.LicenseKey != l.LicenseKey ||
		d.Notes != l.Notes
}

// ChangedFields lists the fields where d differs from l, in form order.
// Returns nil when nothing changed.
func ChangedFields(d Draft, l license.License) []Field {
	orig := NewDraft(l)
	var changed []Field
	for _, f := range Fields {
		if d.Get(f) != orig.Get(f) {
			changed = append(changed, f)
		}
	}
	return changed
}
