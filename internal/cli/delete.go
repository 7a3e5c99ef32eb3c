package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "delete <id>",
		Short:         "Delete a license and its attachments",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runDelete(opts *RootOptions, id string, cmd *cobra.Command) error {
	s, err := openSession(cmd, opts)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.store.DeleteLicense(commandContext(cmd), id); err != nil {
		return WrapExitError(ExitFailure, "failed to delete license", err)
	}

	data := map[string]string{"id": id}
	return newFormatter(cmd, opts).Result(data, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "Deleted %s\n", id)
		return err
	})
}
