package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"diskstate/internal/diskstate"
)

func newDiscardCommand(ctx *commandContext) *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:   "discard",
		Short: "Delete the queue record and every file side record",
		Long: "Delete the main queue record and all per-file side records from the queue directory.\n" +
			"The feeds record and unrelated files are kept.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				return errors.New("refusing to discard queue state without --yes")
			}
			return ctx.withStore(func(store *diskstate.Store) error {
				removed, err := store.Discard()
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Removed %d files from %s\n", len(removed), store.QueueDir())
				if err != nil {
					return fmt.Errorf("discard incomplete: %w", err)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&confirm, "yes", "y", false, "Confirm deletion")
	return cmd
}
