package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/valet/internal/config"
	"github.com/roach88/valet/internal/license"
	"github.com/roach88/valet/internal/schema"
	"github.com/roach88/valet/internal/store"
)

// session is the state shared by commands that touch the catalogue: the
// resolved config, a logger, the open store and its loaded catalog.
type session struct {
	cfg       config.Config
	logger    *slog.Logger
	validator *schema.Validator
	store     *store.Store
	catalog   *store.Catalog
}

// newLogger configures slog the same way for every command: text on
// stderr, debug level with --verbose.
func newLogger(opts *RootOptions, w io.Writer) *slog.Logger {
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// configPath returns --config, or the per-user default.
func configPath(opts *RootOptions) (string, error) {
	if opts.ConfigPath != "" {
		return opts.ConfigPath, nil
	}
	return config.DefaultPath()
}

// loadConfig resolves the config file and applies flag overrides.
func loadConfig(opts *RootOptions, v *schema.Validator) (config.Config, error) {
	path, err := configPath(opts)
	if err != nil {
		return config.Config{}, err
	}

	cfg, err := config.Load(path, v)
	if err != nil {
		return config.Config{}, err
	}
	if opts.Database != "" {
		cfg.Database = opts.Database
	}
	return cfg, nil
}

// openSession loads config, opens the database (creating it if needed)
// and loads the catalog. Callers must Close the session.
func openSession(cmd *cobra.Command, opts *RootOptions) (*session, error) {
	logger := newLogger(opts, cmd.ErrOrStderr())

	v, err := schema.New()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load schema", err)
	}

	cfg, err := loadConfig(opts, v)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database), 0o755); err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to create database directory", err)
	}

	logger.Debug("opening database", "path", cfg.Database)
	st, err := store.Open(cfg.Database)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}

	if err := st.Ping(commandContext(cmd)); err != nil {
		_ = st.Close()
		return nil, WrapExitError(ExitCommandError, "database not reachable", err)
	}

	catalog := store.NewCatalog(st, logger)
	if err := catalog.Refresh(commandContext(cmd)); err != nil {
		_ = st.Close()
		return nil, WrapExitError(ExitCommandError, "failed to load licenses", err)
	}

	return &session{
		cfg:       cfg,
		logger:    logger,
		validator: v,
		store:     st,
		catalog:   catalog,
	}, nil
}

func (s *session) Close() {
	if err := s.store.Close(); err != nil {
		s.logger.Error("error closing database", "error", err)
	}
}

// lookup returns the license with id from the loaded catalog.
func (s *session) lookup(id string) (license.License, error) {
	l, ok := s.catalog.Find(id)
	if !ok {
		return license.License{}, WrapExitError(ExitFailure, fmt.Sprintf("license %s", id), store.ErrNotFound)
	}
	return l, nil
}

// commandContext returns the command's context, or Background when the
// command is executed without one (tests).
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
