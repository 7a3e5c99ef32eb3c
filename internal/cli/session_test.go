package cli

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/valet/internal/schema"
)

func TestLoadConfig_FlagOverridesFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, writeFile(cfgPath, "database: /from/file.db\ntoast_duration: 500ms\n"))

	v, err := schema.New()
	require.NoError(t, err)

	cfg, err := loadConfig(&RootOptions{ConfigPath: cfgPath}, v)
	require.NoError(t, err)
	assert.Equal(t, "/from/file.db", cfg.Database)
	assert.Equal(t, 500*time.Millisecond, cfg.ToastDuration)

	cfg, err = loadConfig(&RootOptions{ConfigPath: cfgPath, Database: "/from/flag.db"}, v)
	require.NoError(t, err)
	assert.Equal(t, "/from/flag.db", cfg.Database)
}

func TestOpenSession_CreatesDatabaseDir(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "valet.db")
	cmd := &cobra.Command{}
	cmd.SetErr(&bytes.Buffer{})

	s, err := openSession(cmd, testRootOptions(t, dbPath, "text"))
	require.NoError(t, err)
	defer s.Close()

	assert.FileExists(t, dbPath)
	assert.Equal(t, 0, s.catalog.Len())
}

func TestNewLogger_Verbose(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := newLogger(&RootOptions{Verbose: true}, buf)
	logger.Debug("opening database", "path", "x.db")
	assert.Contains(t, buf.String(), "opening database")

	buf.Reset()
	logger = newLogger(&RootOptions{}, buf)
	logger.Debug("hidden")
	assert.Empty(t, buf.String())
}
