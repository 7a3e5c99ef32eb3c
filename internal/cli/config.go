package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/valet/internal/config"
	"github.com/roach88/valet/internal/schema"
)

// ConfigResult is the JSON payload of the config subcommands.
type ConfigResult struct {
	Path              string `json:"path"`
	Database          string `json:"database"`
	ToastDuration     string `json:"toast_duration"`
	DisableAnimations bool   `json:"disable_animations"`
	ExportDir         string `json:"export_dir"`
}

func newConfigResult(path string, cfg config.Config) ConfigResult {
	return ConfigResult{
		Path:              path,
		Database:          cfg.Database,
		ToastDuration:     cfg.ToastDuration.String(),
		DisableAnimations: cfg.DisableAnimations,
		ExportDir:         cfg.ExportDir,
	}
}

// NewConfigCommand creates the config command group.
func NewConfigCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the configuration file",
		Long: `Manage the YAML configuration file (--config, or the per-user default).

Keys:
  database            SQLite database path
  toast_duration      how long UI messages stay visible (e.g. 2s)
  disable_animations  keep UI messages until the next key press
  export_dir          where export writes when no file is given`,
	}

	cmd.AddCommand(newConfigShowCommand(rootOpts))
	cmd.AddCommand(newConfigInitCommand(rootOpts))
	cmd.AddCommand(newConfigSetCommand(rootOpts))

	return cmd
}

func newConfigShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show",
		Short:         "Print the effective configuration",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, path, err := configTarget(rootOpts)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(rootOpts, v)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load config", err)
			}
			return writeConfig(cmd, rootOpts, newConfigResult(path, cfg))
		},
	}
}

func newConfigInitCommand(rootOpts *RootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with the default values",
		Long: `Write the default configuration to the config file. --db sets the
database key. An existing file is left alone unless --force is given.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, path, err := configTarget(rootOpts)
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return NewExitError(ExitCommandError, fmt.Sprintf("config file %s already exists (use --force to overwrite)", path))
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return WrapExitError(ExitCommandError, "failed to check config file", err)
			}

			cfg := config.Defaults(filepath.Dir(path))
			if rootOpts.Database != "" {
				cfg.Database = rootOpts.Database
			}
			if err := config.Save(path, cfg); err != nil {
				return WrapExitError(ExitCommandError, "failed to write config", err)
			}
			return writeConfig(cmd, rootOpts, newConfigResult(path, cfg))
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")

	return cmd
}

func newConfigSetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one configuration key",
		Example: `  valet config set toast_duration 5s
  valet config set export_dir ~/Documents/licenses`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, path, err := configTarget(rootOpts)
			if err != nil {
				return err
			}
			// The file is read without flag overrides so --db is not
			// persisted by accident.
			cfg, err := config.Load(path, v)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load config", err)
			}
			if err := setConfigKey(&cfg, args[0], args[1]); err != nil {
				return err
			}
			if err := v.Validate(schema.Config, cfg.Values()); err != nil {
				return WrapExitError(ExitFailure, "invalid config", err)
			}
			if err := config.Save(path, cfg); err != nil {
				return WrapExitError(ExitCommandError, "failed to write config", err)
			}
			return writeConfig(cmd, rootOpts, newConfigResult(path, cfg))
		},
	}
}

// configTarget returns a schema validator and the config file path.
func configTarget(opts *RootOptions) (*schema.Validator, string, error) {
	v, err := schema.New()
	if err != nil {
		return nil, "", WrapExitError(ExitCommandError, "failed to load schema", err)
	}
	path, err := configPath(opts)
	if err != nil {
		return nil, "", WrapExitError(ExitCommandError, "failed to locate config", err)
	}
	return v, path, nil
}

func setConfigKey(cfg *config.Config, key, value string) error {
	switch key {
	case "database":
		cfg.Database = value
	case "toast_duration":
		d, err := time.ParseDuration(value)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid toast_duration", err)
		}
		cfg.ToastDuration = d
	case "disable_animations":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid disable_animations", err)
		}
		cfg.DisableAnimations = b
	case "export_dir":
		cfg.ExportDir = value
	default:
		return NewExitError(ExitCommandError, fmt.Sprintf("unknown config key %q", key))
	}
	return nil
}

func writeConfig(cmd *cobra.Command, opts *RootOptions, r ConfigResult) error {
	return newFormatter(cmd, opts).Result(r, func(w io.Writer) error {
		fmt.Fprintf(w, "%s\n\n", r.Path)
		fmt.Fprintf(w, "  %-19s %s\n", "database", r.Database)
		fmt.Fprintf(w, "  %-19s %s\n", "toast_duration", r.ToastDuration)
		fmt.Fprintf(w, "  %-19s %t\n", "disable_animations", r.DisableAnimations)
		_, err := fmt.Fprintf(w, "  %-19s %s\n", "export_dir", r.ExportDir)
		return err
	})
}
