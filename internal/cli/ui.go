package cli

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/valet/internal/store"
	"github.com/roach88/valet/internal/tui"
)

// NewUICommand creates the ui command.
func NewUICommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Browse and edit licenses interactively",
		Long: `Open the interactive catalogue.

In the list: arrows or j/k to move, / to filter, enter to open.
In a license: e to edit, 1/2/3 to copy the registered name, email or key,
esc to go back. While editing: tab/shift+tab between fields, ctrl+s to
save, esc to cancel.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUI(rootOpts, cmd)
		},
	}

	return cmd
}

func runUI(opts *RootOptions, cmd *cobra.Command) error {
	s, err := openSession(cmd, opts)
	if err != nil {
		return err
	}
	defer s.Close()

	// stderr shares the terminal with the UI; only log there when asked.
	logger := s.logger
	if !opts.Verbose {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	m := tui.New(s.catalog, tui.Options{
		ToastDuration:     s.cfg.ToastDuration,
		DisableAnimations: s.cfg.DisableAnimations,
		Logger:            logger,
	})
	if err := tui.Run(commandContext(cmd), m); err != nil {
		return WrapExitError(ExitFailure, "ui error", err)
	}
	return nil
}

var _ tui.Catalog = (*store.Catalog)(nil)
