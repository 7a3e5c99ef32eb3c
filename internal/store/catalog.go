package store

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/valet/internal/license"
)

// Catalog is the in-memory license collection the UI reads from. It is
// loaded from the Store by Refresh and implements editor.Gateway.
//
// Thread-safety: Catalog is safe for concurrent use; reads return copies.
type Catalog struct {
	store  *Store
	logger *slog.Logger
	tag    language.Tag

	mu       sync.RWMutex
	licenses []license.License
}

// NewCatalog creates an empty catalog over s. Call Refresh to load it.
// A nil logger uses slog.Default().
func NewCatalog(s *Store, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Catalog{
		store:    s,
		logger:   logger,
		tag:      language.English,
		licenses: []license.License{},
	}
}

// Store returns the backing store.
func (c *Catalog) Store() *Store {
	return c.store
}

// Refresh reloads every license from the store and re-sorts for display.
// On error the previous collection is kept.
func (c *Catalog) Refresh(ctx context.Context) error {
	licenses, err := c.store.ListLicenses(ctx)
	if err != nil {
		return fmt.Errorf("refresh catalog: %w", err)
	}
	c.sort(licenses)

	c.mu.Lock()
	c.licenses = licenses
	c.mu.Unlock()

	c.logger.Debug("catalog refreshed", "licenses", len(licenses))
	return nil
}

// Update persists l through the store. The in-memory collection is not
// touched until the next Refresh.
func (c *Catalog) Update(ctx context.Context, l license.License) error {
	return c.store.UpdateLicense(ctx, l)
}

// Len returns the number of loaded licenses.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.licenses)
}

// Licenses returns a copy of the loaded collection in display order.
func (c *Catalog) Licenses() []license.License {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]license.License, len(c.licenses))
	for i, l := range c.licenses {
		out[i] = l.Clone()
	}
	return out
}

// Find returns the loaded license with id.
func (c *Catalog) Find(id string) (license.License, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, l := range c.licenses {
		if l.ID == id {
			return l.Clone(), true
		}
	}
	return license.License{}, false
}

// Search returns licenses whose name, key, registered name, registered
// email or URL contain query, ignoring case and Unicode normalization
// differences. An empty query matches everything.
func (c *Catalog) Search(query string) []license.License {
	needle := foldText(strings.TrimSpace(query))
	all := c.Licenses()
	if needle == "" {
		return all
	}

	matches := []license.License{}
	for _, l := range all {
		for _, hay := range []string{
			l.SoftwareName, l.LicenseKey, l.RegisteredToName, l.RegisteredToEmail, l.DownloadURL,
		} {
			if strings.Contains(foldText(hay), needle) {
				matches = append(matches, l)
				break
			}
		}
	}
	return matches
}

// sort orders licenses by display name using locale collation, then ID.
// A Collator is not safe for concurrent use, so one is built per call.
func (c *Catalog) sort(licenses []license.License) {
	col := collate.New(c.tag, collate.IgnoreCase, collate.Loose)
	sort.SliceStable(licenses, func(i, j int) bool {
		if r := col.CompareString(licenses[i].DisplayName(), licenses[j].DisplayName()); r != 0 {
			return r < 0
		}
		return licenses[i].ID < licenses[j].ID
	})
}

// foldText normalizes s for case-insensitive comparison.
func foldText(s string) string {
	return cases.Fold().String(norm.NFKC.String(s))
}
