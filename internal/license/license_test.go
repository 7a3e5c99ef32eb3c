package license

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClone_DeepCopiesAttachments(t *testing.T) {
	orig := License{
		ID:           "lic-1",
		SoftwareName: "App",
		Attachments: []Attachment{
			{ID: "att-1", Name: "receipt.pdf", Content: []byte("pdf")},
		},
		CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	c := orig.Clone()
	require.Equal(t, orig, c)

	c.Attachments[0].Name = "changed"
	c.Attachments[0].Content[0] = 'X'

	assert.Equal(t, "receipt.pdf", orig.Attachments[0].Name)
	assert.Equal(t, []byte("pdf"), orig.Attachments[0].Content)
}

func TestClone_NilAttachmentsStayNil(t *testing.T) {
	c := License{ID: "lic-1"}.Clone()
	assert.Nil(t, c.Attachments)
}

func TestURL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		ok   bool
	}{
		{"empty", "", false},
		{"blank", "   ", false},
		{"relative", "example.com/download", false},
		{"https", "https://example.com/app.dmg", true},
		{"http", "http://example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, ok := License{DownloadURL: tt.raw}.URL()
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.raw, u.String())
			} else {
				assert.Nil(t, u)
			}
		})
	}
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "App", License{ID: "x", SoftwareName: " App "}.DisplayName())
	assert.Equal(t, "example.com", License{ID: "x", DownloadURL: "https://example.com/a"}.DisplayName())
	assert.Equal(t, "x", License{ID: "x"}.DisplayName())
}

func TestIsDownloadLink(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"https://example.com/App.dmg", true},
		{"https://example.com/files/app-1.2.ZIP", true},
		{"https://example.com/app.tar.gz?token=abc", true},
		{"https://example.com/setup.exe", true},
		{"https://example.com/", false},
		{"https://example.com/download", false},
		{"https://example.com/app.dmg.html", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			u, err := url.Parse(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, IsDownloadLink(u))
		})
	}

	assert.False(t, IsDownloadLink(nil))
}

func TestLink(t *testing.T) {
	assert.Equal(t, LinkNone, License{}.Link())
	assert.Equal(t, LinkDownload, License{DownloadURL: "https://example.com/a.pkg"}.Link())
	assert.Equal(t, LinkWebsite, License{DownloadURL: "https://example.com"}.Link())
	assert.Equal(t, "Download", LinkDownload.String())
}

func TestFixedGenerator(t *testing.T) {
	gen := NewFixedGenerator("a", "b")
	assert.Equal(t, "a", gen.Generate())
	assert.Equal(t, "b", gen.Generate())
	assert.Panics(t, func() { gen.Generate() })
}

func TestUUIDv7Generator(t *testing.T) {
	gen := UUIDv7Generator{}
	first := gen.Generate()
	second := gen.Generate()

	assert.Len(t, first, 36)
	assert.NotEqual(t, first, second)
	assert.True(t, ValidID(first))
	assert.False(t, ValidID("not-a-uuid"))
}
