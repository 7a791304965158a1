package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"diskstate/internal/diskstate"
	"diskstate/internal/staging"
)

func newCleanupCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Remove stale download artifacts from the temp directory",
		Long: "Remove scratch files and partial artifacts from the temp directory.\n" +
			"Partial artifacts of files still in the queue record survive when the\n" +
			"continue_partial and direct_write settings allow it.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *diskstate.Store) error {
				active, err := activeFileIDs(store)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()

				if dryRun {
					files, err := store.PlanCleanup(active)
					if err != nil {
						return err
					}
					if handled, err := ctx.writeStructured(cmd, files); handled {
						return err
					}
					renderCleanupPlan(out, store.TempDir(), files)
					return nil
				}

				result := store.CleanupTemp(active)
				if handled, err := ctx.writeStructured(cmd, cleanupView(result)); handled {
					return err
				}
				fmt.Fprintf(out, "Removed %d files from %s\n", len(result.Removed), store.TempDir())
				for _, failure := range result.Errors {
					fmt.Fprintf(out, "  failed: %s: %v\n", failure.Path, failure.Error)
				}
				if len(result.Errors) > 0 {
					return fmt.Errorf("cleanup incomplete: %d files could not be removed", len(result.Errors))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be removed without removing anything")
	return cmd
}

// activeFileIDs reads the queue record to find files whose partial
// artifacts may still be continued. Without a record nothing is active.
func activeFileIDs(store *diskstate.Store) (map[int]struct{}, error) {
	exists, err := store.QueueExists()
	if err != nil {
		return nil, err
	}
	if !exists {
		return map[int]struct{}{}, nil
	}
	q, err := store.LoadQueue()
	if err != nil {
		return nil, fmt.Errorf("load queue before cleanup (%s): %w", diskstate.Kind(err), err)
	}
	return q.ActiveFileIDs(), nil
}

type cleanupResultView struct {
	Removed []string          `json:"removed" yaml:"removed"`
	Errors  map[string]string `json:"errors,omitempty" yaml:"errors,omitempty"`
}

func cleanupView(result staging.CleanupResult) cleanupResultView {
	view := cleanupResultView{Removed: result.Removed}
	if view.Removed == nil {
		view.Removed = []string{}
	}
	if len(result.Errors) > 0 {
		view.Errors = make(map[string]string, len(result.Errors))
		for _, failure := range result.Errors {
			view.Errors[failure.Path] = failure.Error.Error()
		}
	}
	return view
}

func renderCleanupPlan(out io.Writer, dir string, files []staging.TempFile) {
	fmt.Fprintf(out, "Temp directory: %s\n", dir)
	rows := make([][]string, 0, len(files))
	removing := 0
	for _, file := range files {
		action := "keep"
		if file.Remove {
			action = "remove"
			removing++
		}
		rows = append(rows, []string{file.Name, formatSize(file.Size), label(action), file.Reason})
	}
	writeSection(out, "temp files", []string{"Name", "Size", "Action", "Reason"}, rows,
		[]columnAlignment{alignLeft, alignRight})
	fmt.Fprintf(out, "\n%d of %d files would be removed\n", removing, len(files))
}
