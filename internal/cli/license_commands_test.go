package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/valet/internal/clipboard"
	"github.com/roach88/valet/internal/license"
	"github.com/roach88/valet/internal/store"
	"github.com/roach88/valet/internal/testutil"
)

func TestAdd(t *testing.T) {
	dbPath, _ := seedStore(t)

	out, _, err := runCLI(t, dbPath, "add",
		"--name", "Sketch",
		"--key", "SK-1",
		"--registered-email", "me@example.com",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "Added Sketch")

	licenses, err := openSeeded(t, dbPath).ListLicenses(context.Background())
	require.NoError(t, err)
	require.Len(t, licenses, 1)
	assert.Equal(t, "Sketch", licenses[0].SoftwareName)
	assert.Equal(t, "SK-1", licenses[0].LicenseKey)
	assert.Equal(t, "me@example.com", licenses[0].RegisteredToEmail)
	assert.True(t, license.ValidID(licenses[0].ID))
}

func TestAdd_NotesFile(t *testing.T) {
	dbPath, _ := seedStore(t)
	notesPath := filepath.Join(t.TempDir(), "notes.md")
	require.NoError(t, writeFile(notesPath, "- seat 1\n- seat 2\n"))

	_, _, err := runCLI(t, dbPath, "add", "--name", "Tower", "--notes-file", notesPath)
	require.NoError(t, err)

	licenses, err := openSeeded(t, dbPath).ListLicenses(context.Background())
	require.NoError(t, err)
	require.Len(t, licenses, 1)
	assert.Equal(t, "- seat 1\n- seat 2\n", licenses[0].Notes)
}

func TestAdd_Icon(t *testing.T) {
	dbPath, _ := seedStore(t)

	_, _, err := runCLI(t, dbPath, "add", "--name", "Fork", "--icon", "icons/fork.png")
	require.NoError(t, err)

	licenses, err := openSeeded(t, dbPath).ListLicenses(context.Background())
	require.NoError(t, err)
	require.Len(t, licenses, 1)
	assert.Equal(t, "icons/fork.png", licenses[0].Icon)

	out, _, err := runCLI(t, dbPath, "show", licenses[0].ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Icon            icons/fork.png")
}

func TestAdd_RequiresName(t *testing.T) {
	dbPath, _ := seedStore(t)

	_, _, err := runCLI(t, dbPath, "add", "--key", "K")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestAdd_InvalidEmail(t *testing.T) {
	dbPath, _ := seedStore(t)

	_, _, err := runCLI(t, dbPath, "add", "--name", "App", "--registered-email", "not-an-email")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Equal(t, CodeValidation, errorCode(err))

	licenses, err := openSeeded(t, dbPath).ListLicenses(context.Background())
	require.NoError(t, err)
	assert.Empty(t, licenses)
}

func TestList(t *testing.T) {
	dbPath, _ := seedStore(t,
		sampleLicense(),
		license.License{SoftwareName: "Other", LicenseKey: "OTH-9"},
	)

	out, _, err := runCLI(t, dbPath, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "App")
	assert.Contains(t, out, "Other")
	assert.Contains(t, out, "Ada <ada@example.com>")
	assert.Contains(t, out, "Download")

	out, _, err = runCLI(t, dbPath, "list", "oth")
	require.NoError(t, err)
	assert.Contains(t, out, "Other")
	assert.NotContains(t, out, "ABC-123")
}

func TestList_Empty(t *testing.T) {
	dbPath, _ := seedStore(t)

	out, _, err := runCLI(t, dbPath, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No licenses found.")
}

func TestList_JSON(t *testing.T) {
	dbPath, created := seedStore(t, sampleLicense())

	out, _, err := runCLI(t, dbPath, "--format", "json", "list")
	require.NoError(t, err)

	var resp struct {
		Status string            `json:"status"`
		Data   []license.License `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, created[0].ID, resp.Data[0].ID)
	assert.Equal(t, "ABC-123", resp.Data[0].LicenseKey)
}

func TestShow(t *testing.T) {
	dbPath, created := seedStore(t, sampleLicense())
	_, err := openSeededWithAttachment(t, dbPath, created[0].ID)
	require.NoError(t, err)

	out, _, err := runCLI(t, dbPath, "show", created[0].ID)
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "show", []byte(out))
}

func TestShow_HTML(t *testing.T) {
	dbPath, created := seedStore(t, sampleLicense())

	out, _, err := runCLI(t, dbPath, "show", created[0].ID, "--html")
	require.NoError(t, err)
	assert.Contains(t, out, "<h1>Setup</h1>")
	assert.Contains(t, out, "<strong>team</strong>")

	out, _, err = runCLI(t, dbPath, "--format", "json", "show", created[0].ID, "--html")
	require.NoError(t, err)
	var resp struct {
		Data ShowResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "App", resp.Data.SoftwareName)
	assert.Contains(t, resp.Data.NotesHTML, "<h1>Setup</h1>")
}

func TestShow_NotFound(t *testing.T) {
	dbPath, _ := seedStore(t)

	_, _, err := runCLI(t, dbPath, "show", "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestEdit(t *testing.T) {
	dbPath, created := seedStore(t, license.License{
		SoftwareName: "App",
		LicenseKey:   "ABC-123",
		Notes:        "old",
	})
	id := created[0].ID

	out, _, err := runCLI(t, dbPath, "edit", id, "--key", "XYZ-999")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved App (License Key)")

	got, err := openSeeded(t, dbPath).GetLicense(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "XYZ-999", got.LicenseKey)
	assert.Equal(t, "App", got.SoftwareName)
	assert.Equal(t, "old", got.Notes)
}

func TestEdit_NoChanges(t *testing.T) {
	dbPath, created := seedStore(t, sampleLicense())
	id := created[0].ID

	out, _, err := runCLI(t, dbPath, "edit", id, "--key", "ABC-123")
	require.NoError(t, err)
	assert.Contains(t, out, "No changes to App")

	got, err := openSeeded(t, dbPath).GetLicense(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, created[0].UpdatedAt.Equal(got.UpdatedAt), "unchanged edit writes nothing")
}

func TestEdit_JSON(t *testing.T) {
	dbPath, created := seedStore(t, sampleLicense())
	id := created[0].ID

	out, _, err := runCLI(t, dbPath, "--format", "json", "edit", id,
		"--name", "App Pro", "--registered-name", "Grace")
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   EditResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "App Pro", resp.Data.License.SoftwareName)
	assert.Equal(t, "Grace", resp.Data.License.RegisteredToName)
	assert.Len(t, resp.Data.Changed, 2)
	assert.False(t, resp.Data.IconChanged)

	stored, err := openSeeded(t, dbPath).GetLicense(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, stored.UpdatedAt.Equal(created[0].UpdatedAt))
	assert.True(t, stored.UpdatedAt.Equal(resp.Data.License.UpdatedAt),
		"reported %v, stored %v", resp.Data.License.UpdatedAt, stored.UpdatedAt)
}

func TestEdit_Icon(t *testing.T) {
	dbPath, created := seedStore(t, sampleLicense())
	id := created[0].ID

	out, _, err := runCLI(t, dbPath, "edit", id, "--icon", "icons/app.png", "--key", "XYZ-999")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved App (License Key, Icon)")

	got, err := openSeeded(t, dbPath).GetLicense(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "icons/app.png", got.Icon)
	assert.Equal(t, "XYZ-999", got.LicenseKey)
}

func TestEdit_IconOnly(t *testing.T) {
	l := sampleLicense()
	l.Icon = "icons/old.png"
	dbPath, created := seedStore(t, l)
	id := created[0].ID

	out, _, err := runCLI(t, dbPath, "--format", "json", "edit", id, "--icon", "")
	require.NoError(t, err)

	var resp struct {
		Data EditResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.True(t, resp.Data.IconChanged)
	assert.Empty(t, resp.Data.Changed)
	assert.Empty(t, resp.Data.License.Icon)

	got, err := openSeeded(t, dbPath).GetLicense(context.Background(), id)
	require.NoError(t, err)
	assert.Empty(t, got.Icon)
	assert.Equal(t, "ABC-123", got.LicenseKey)
}

func TestEdit_SameIconIsNoChange(t *testing.T) {
	l := sampleLicense()
	l.Icon = "icons/app.png"
	dbPath, created := seedStore(t, l)

	out, _, err := runCLI(t, dbPath, "edit", created[0].ID, "--icon", "icons/app.png")
	require.NoError(t, err)
	assert.Contains(t, out, "No changes to App")
}

func TestEdit_ClearField(t *testing.T) {
	dbPath, created := seedStore(t, sampleLicense())
	id := created[0].ID

	_, _, err := runCLI(t, dbPath, "edit", id, "--url", "")
	require.NoError(t, err)

	got, err := openSeeded(t, dbPath).GetLicense(context.Background(), id)
	require.NoError(t, err)
	assert.Empty(t, got.DownloadURL)
	assert.Equal(t, "ABC-123", got.LicenseKey)
}

func TestEdit_InvalidURL(t *testing.T) {
	dbPath, created := seedStore(t, sampleLicense())
	id := created[0].ID

	_, _, err := runCLI(t, dbPath, "edit", id, "--url", "ftp://example.com")
	require.Error(t, err)
	assert.Equal(t, CodeValidation, errorCode(err))

	got, err := openSeeded(t, dbPath).GetLicense(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/app.dmg", got.DownloadURL)
}

func TestEdit_NotFound(t *testing.T) {
	dbPath, _ := seedStore(t)

	_, _, err := runCLI(t, dbPath, "edit", "missing", "--key", "K")
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDelete(t *testing.T) {
	dbPath, created := seedStore(t, sampleLicense())

	out, _, err := runCLI(t, dbPath, "delete", created[0].ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted "+created[0].ID)

	_, err = openSeeded(t, dbPath).GetLicense(context.Background(), created[0].ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, _, err = runCLI(t, dbPath, "delete", created[0].ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCopy(t *testing.T) {
	dbPath, created := seedStore(t, sampleLicense())
	clip := &clipboard.Memory{}

	tests := []struct {
		field string
		want  string
	}{
		{"key", "ABC-123"},
		{"email", "ada@example.com"},
		{"name", "Ada"},
		{"software_name", "App"},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			out := &bytes.Buffer{}
			cmd := newCopyCommand(&CopyOptions{
				RootOptions: testRootOptions(t, dbPath, "text"),
				Clipboard:   clip,
			})
			cmd.SetOut(out)
			cmd.SetErr(&bytes.Buffer{})
			cmd.SetArgs([]string{created[0].ID, tt.field})

			require.NoError(t, cmd.Execute())
			assert.Equal(t, tt.want, clip.Text())
			assert.Contains(t, out.String(), "to Clipboard")
		})
	}
}

func TestCopy_UnknownField(t *testing.T) {
	dbPath, created := seedStore(t, sampleLicense())
	cmd := newCopyCommand(&CopyOptions{
		RootOptions: testRootOptions(t, dbPath, "text"),
		Clipboard:   &clipboard.Memory{},
	})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{created[0].ID, "password"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

// openSeededWithAttachment adds a fixed attachment through a store using
// the deterministic clock so golden output stays stable.
func openSeededWithAttachment(t *testing.T, dbPath, licenseID string) (license.Attachment, error) {
	t.Helper()
	st, err := store.Open(dbPath,
		store.WithClock(testutil.NewDeterministicClock()),
		store.WithIDGenerator(license.NewFixedGenerator("00000000-0000-7000-8000-0000000000a1")),
	)
	require.NoError(t, err)
	defer st.Close()
	return st.AddAttachment(context.Background(), licenseID, filepath.Join(os.TempDir(), "receipt.txt"), "", []byte("paid"))
}
