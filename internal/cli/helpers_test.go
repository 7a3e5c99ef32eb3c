package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/valet/internal/license"
	"github.com/roach88/valet/internal/store"
	"github.com/roach88/valet/internal/testutil"
)

// seedStore creates a database holding licenses, stamped with sequential
// IDs and the deterministic clock, and returns its path and the stored
// records.
func seedStore(t *testing.T, licenses ...license.License) (string, []license.License) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "valet.db")

	st, err := store.Open(path,
		store.WithClock(testutil.NewDeterministicClock()),
		store.WithIDGenerator(&testutil.SequentialIDs{}),
	)
	require.NoError(t, err)
	defer st.Close()

	var created []license.License
	for _, l := range licenses {
		c, err := st.CreateLicense(context.Background(), l)
		require.NoError(t, err)
		created = append(created, c)
	}
	return path, created
}

// openSeeded reopens a seeded database for assertions.
func openSeeded(t *testing.T, path string) *store.Store {
	t.Helper()
	st, err := store.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

// testRootOptions points the CLI at dbPath and at a config file that does
// not exist, so defaults apply.
func testRootOptions(t *testing.T, dbPath, format string) *RootOptions {
	t.Helper()
	return &RootOptions{
		Format:     format,
		Database:   dbPath,
		ConfigPath: filepath.Join(t.TempDir(), "config.yaml"),
	}
}

// runCLI executes the root command against dbPath.
func runCLI(t *testing.T, dbPath string, args ...string) (string, string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}

	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(append([]string{
		"--db", dbPath,
		"--config", filepath.Join(t.TempDir(), "config.yaml"),
	}, args...))

	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func sampleLicense() license.License {
	return license.License{
		SoftwareName:      "App",
		DownloadURL:       "https://example.com/app.dmg",
		RegisteredToName:  "Ada",
		RegisteredToEmail: "ada@example.com",
		LicenseKey:        "ABC-123",
		Notes:             "# Setup\n\nUse the **team** seat.",
	}
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}
