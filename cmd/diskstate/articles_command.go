package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"diskstate/internal/diskstate"
)

func newArticlesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "articles <file-id>",
		Short: "Show the side record and article manifest of a queued file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(strings.TrimSpace(args[0]))
			if err != nil || id < 1 {
				return fmt.Errorf("invalid file id %q", args[0])
			}
			return ctx.withStore(func(store *diskstate.Store) error {
				detail, err := store.LoadFileDetail(id, false)
				if err != nil {
					if errors.Is(err, diskstate.ErrMissing) {
						return fmt.Errorf("no side record for file %d in %s", id, store.QueueDir())
					}
					return err
				}

				view := newDetailView(id, detail)
				if handled, err := ctx.writeStructured(cmd, view); handled {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "File %d: %s\n", view.ID, view.Filename)
				fmt.Fprintf(out, "Subject: %s\n", view.Subject)
				fmt.Fprintf(out, "Size: %s (confirmed name: %s)\n", formatSize(view.Size), yesNo(view.FilenameConfirmed))
				fmt.Fprintf(out, "Groups: %s\n", strings.Join(view.Groups, ", "))

				rows := make([][]string, 0, len(view.Articles))
				for _, article := range view.Articles {
					rows = append(rows, []string{
						strconv.Itoa(article.Part),
						formatSize(int64(article.Size)),
						article.MessageID,
					})
				}
				writeSection(out, "articles", []string{"Part", "Size", "Message ID"}, rows,
					[]columnAlignment{alignRight, alignRight})
				return nil
			})
		},
	}
}
