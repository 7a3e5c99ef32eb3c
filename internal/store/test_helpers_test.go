package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/valet/internal/license"
	"github.com/roach88/valet/internal/testutil"
)

// createTestStore creates a new store in a temp dir with a deterministic
// clock and sequential IDs.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path,
		WithClock(testutil.NewDeterministicClock()),
		WithIDGenerator(&testutil.SequentialIDs{}),
	)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestLicense creates a license with every editable field populated.
func createTestLicense(name, key string) license.License {
	return license.License{
		SoftwareName:      name,
		DownloadURL:       "https://example.com/" + name + ".dmg",
		RegisteredToName:  "Jane Doe",
		RegisteredToEmail: "jane@example.com",
		LicenseKey:        key,
		Notes:             "# " + name,
	}
}
