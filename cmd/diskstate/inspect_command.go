package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"diskstate/internal/diskstate"
)

func newInspectCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Decode the queue record and show its contents",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *diskstate.Store) error {
				exists, err := store.QueueExists()
				if err != nil {
					return err
				}
				if !exists {
					fmt.Fprintf(cmd.OutOrStdout(), "No queue record in %s\n", store.QueueDir())
					return nil
				}
				version, err := store.QueueFileVersion()
				if err != nil {
					return fmt.Errorf("read queue signature: %w", err)
				}
				q, err := store.LoadQueue()
				if err != nil {
					return fmt.Errorf("load queue (%s): %w", diskstate.Kind(err), err)
				}

				view := newQueueView(store.QueuePath(), version, q)
				if handled, err := ctx.writeStructured(cmd, view); handled {
					return err
				}
				renderQueueView(cmd.OutOrStdout(), view)
				return nil
			})
		},
	}
}

func renderQueueView(out io.Writer, view queueView) {
	fmt.Fprintf(out, "Queue record: %s\n", view.Path)
	fmt.Fprintf(out, "Format version: %d (current %d)\n", view.Version, diskstate.QueueVersion)

	jobRows := make([][]string, 0, len(view.Jobs))
	for _, job := range view.Jobs {
		jobRows = append(jobRows, []string{
			strconv.Itoa(job.ID),
			job.Name,
			job.Category,
			strconv.Itoa(job.FileCount),
			formatSize(job.Size),
			label(job.Par),
			label(job.Unpack),
			label(job.Move),
			label(job.Rename),
		})
	}
	writeSection(out, "jobs",
		[]string{"ID", "Name", "Category", "Files", "Size", "Par", "Unpack", "Move", "Rename"},
		jobRows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight})

	fileHeaders := []string{"ID", "Job", "Filename", "Size", "Paused", "Priority", "Queued"}
	fileAligns := []columnAlignment{alignRight, alignRight, alignLeft, alignRight, alignLeft, alignRight}
	writeSection(out, "file queue", fileHeaders, fileRows(view.Files), fileAligns)
	writeSection(out, "parked files", fileHeaders, fileRows(view.Parked), fileAligns)

	postRows := make([][]string, 0, len(view.Post))
	for _, entry := range view.Post {
		postRows = append(postRows, []string{strconv.Itoa(entry.JobID), label(entry.Stage), entry.InfoName})
	}
	writeSection(out, "post-processing", []string{"Job", "Stage", "Info"}, postRows,
		[]columnAlignment{alignRight})

	fetchRows := make([][]string, 0, len(view.Fetch))
	for _, entry := range view.Fetch {
		fetchRows = append(fetchRows, []string{
			strconv.Itoa(entry.ID),
			label(entry.Status),
			strconv.Itoa(entry.Priority),
			entry.URL,
			joinNonEmpty(" / ", entry.Category, entry.Filename),
		})
	}
	writeSection(out, "fetch queue", []string{"ID", "Status", "Priority", "URL", "Target"}, fetchRows,
		[]columnAlignment{alignRight, alignLeft, alignRight})

	historyRows := make([][]string, 0, len(view.History))
	for _, entry := range view.History {
		subject := "job " + strconv.Itoa(entry.JobID)
		if entry.Fetch != nil {
			subject = entry.Fetch.URL
		}
		historyRows = append(historyRows, []string{
			strconv.Itoa(entry.ID),
			label(entry.Kind),
			subject,
			formatTime(entry.Time),
		})
	}
	writeSection(out, "history", []string{"ID", "Kind", "Subject", "Finished"}, historyRows,
		[]columnAlignment{alignRight})
}

func fileRows(files []fileView) [][]string {
	rows := make([][]string, 0, len(files))
	for _, file := range files {
		rows = append(rows, []string{
			strconv.Itoa(file.ID),
			strconv.Itoa(file.JobID),
			file.Filename,
			formatSize(file.Size),
			yesNo(file.Paused),
			strconv.Itoa(file.Priority),
			formatTime(file.Time),
		})
	}
	return rows
}
