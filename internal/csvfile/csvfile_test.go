package csvfile

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/valet/internal/license"
	"github.com/roach88/valet/internal/schema"
)

func newValidator(t *testing.T) *schema.Validator {
	t.Helper()
	v, err := schema.New()
	require.NoError(t, err)
	return v
}

func fixtureLicenses() []license.License {
	created := time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)
	return []license.License{
		{
			ID:                "00000000-0000-7000-8000-000000000001",
			SoftwareName:      "App",
			DownloadURL:       "https://example.com/App.dmg",
			RegisteredToName:  "Jane Doe",
			RegisteredToEmail: "jane@example.com",
			LicenseKey:        "ABC-123",
			Notes:             "# Notes\n\nBought on sale, \"lifetime\" upgrade.",
			CreatedAt:         created,
			UpdatedAt:         created.Add(time.Hour),
		},
		{
			ID:           "00000000-0000-7000-8000-000000000002",
			SoftwareName: "Editor, Pro",
			LicenseKey:   "XYZ-999",
			CreatedAt:    created,
			UpdatedAt:    created,
		},
	}
}

func TestExport_Golden(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, fixtureLicenses()))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "export", buf.Bytes())
}

func TestExport_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, nil))
	assert.Equal(t, strings.Join(Header, ",")+"\n", buf.String())
}

func TestImport_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, fixtureLicenses()))

	got, err := Import(&buf, newValidator(t))
	require.NoError(t, err)
	require.Len(t, got, 2)

	for i, want := range fixtureLicenses() {
		want.CreatedAt = time.Time{}
		want.UpdatedAt = time.Time{}
		assert.Equal(t, want, got[i])
	}
}

func TestImport_SubsetOfColumnsAnyOrder(t *testing.T) {
	in := "\ufeffLicense_Key,Software_Name\nK-1,First\n,\nK-2,Second\n"

	got, err := Import(strings.NewReader(in), newValidator(t))
	require.NoError(t, err)
	require.Len(t, got, 2, "blank rows are skipped")

	assert.Equal(t, license.License{SoftwareName: "First", LicenseKey: "K-1"}, got[0])
	assert.Equal(t, license.License{SoftwareName: "Second", LicenseKey: "K-2"}, got[1])
}

func TestImport_MissingNameColumn(t *testing.T) {
	_, err := Import(strings.NewReader("license_key\nK\n"), newValidator(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestImport_EmptyInput(t *testing.T) {
	got, err := Import(strings.NewReader(""), newValidator(t))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestImport_ReportsEveryBadRow(t *testing.T) {
	in := strings.Join([]string{
		"software_name,download_url,registered_to_email",
		"Good,https://example.com,",
		",https://example.com,",
		"Bad URL,ftp://example.com,",
		"Bad Email,,jane",
	}, "\n")

	got, err := Import(strings.NewReader(in), newValidator(t))
	require.Error(t, err)
	assert.Nil(t, got)

	var ie *ImportError
	require.True(t, errors.As(err, &ie))
	require.Len(t, ie.Rows, 3)
	assert.Equal(t, 3, ie.Rows[0].Row)
	assert.Equal(t, 4, ie.Rows[1].Row)
	assert.Equal(t, 5, ie.Rows[2].Row)

	var verr *schema.ValidationError
	assert.ErrorAs(t, ie.Rows[2], &verr)
	assert.Contains(t, err.Error(), "row 5")
}
