package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"diskstate/internal/diskstate"
	"diskstate/internal/queue"
)

func newFeedsCommand(ctx *commandContext) *cobra.Command {
	var feedURLs []string

	cmd := &cobra.Command{
		Use:   "feeds",
		Short: "Show persisted feed update times and feed history",
		RunE: func(cmd *cobra.Command, args []string) error {
			feeds := make([]*queue.Feed, 0, len(feedURLs))
			for _, url := range feedURLs {
				if url = strings.TrimSpace(url); url != "" {
					feeds = append(feeds, &queue.Feed{URL: url})
				}
			}
			return ctx.withStore(func(store *diskstate.Store) error {
				history, err := store.LoadFeeds(feeds)
				if err != nil {
					return fmt.Errorf("load feeds (%s): %w", diskstate.Kind(err), err)
				}

				view := feedsView{
					Feeds:   make([]feedView, 0, len(feeds)),
					History: make([]feedHistoryView, 0, len(history)),
				}
				for _, feed := range feeds {
					view.Feeds = append(view.Feeds, feedView{URL: feed.URL, LastUpdate: feed.LastUpdate})
				}
				for _, item := range history {
					view.History = append(view.History, feedHistoryView{
						URL:      item.URL,
						Status:   item.Status.String(),
						LastSeen: item.LastSeen,
					})
				}
				if handled, err := ctx.writeStructured(cmd, view); handled {
					return err
				}

				out := cmd.OutOrStdout()
				if len(view.Feeds) > 0 {
					rows := make([][]string, 0, len(view.Feeds))
					for _, feed := range view.Feeds {
						rows = append(rows, []string{feed.URL, formatTime(feed.LastUpdate)})
					}
					writeSection(out, "feeds", []string{"URL", "Last update"}, rows, nil)
				}
				rows := make([][]string, 0, len(view.History))
				for _, item := range view.History {
					rows = append(rows, []string{label(item.Status), formatTime(item.LastSeen), item.URL})
				}
				writeSection(out, "feed history", []string{"Status", "Last seen", "URL"}, rows, nil)
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVar(&feedURLs, "feed", nil, "Feed URL whose persisted update time to show (repeatable)")
	return cmd
}
