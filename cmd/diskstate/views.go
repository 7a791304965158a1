package main

import (
	"time"

	"diskstate/internal/queue"
)

// The view types below are the stable shape of --json and --yaml output.

type queueView struct {
	Path    string        `json:"path" yaml:"path"`
	Version int           `json:"version" yaml:"version"`
	Jobs    []jobView     `json:"jobs" yaml:"jobs"`
	Files   []fileView    `json:"files" yaml:"files"`
	Parked  []fileView    `json:"parked" yaml:"parked"`
	Post    []postView    `json:"post" yaml:"post"`
	Fetch   []fetchView   `json:"fetch" yaml:"fetch"`
	History []historyView `json:"history" yaml:"history"`
}

type jobView struct {
	ID             int               `json:"id" yaml:"id"`
	Name           string            `json:"name" yaml:"name"`
	Filename       string            `json:"filename" yaml:"filename"`
	DestDir        string            `json:"dest_dir" yaml:"dest_dir"`
	Category       string            `json:"category,omitempty" yaml:"category,omitempty"`
	FileCount      int               `json:"file_count" yaml:"file_count"`
	ParkedCount    int               `json:"parked_count" yaml:"parked_count"`
	Size           int64             `json:"size" yaml:"size"`
	Par            string            `json:"par" yaml:"par"`
	Unpack         string            `json:"unpack" yaml:"unpack"`
	Move           string            `json:"move" yaml:"move"`
	Rename         string            `json:"rename" yaml:"rename"`
	CompletedFiles []string          `json:"completed_files,omitempty" yaml:"completed_files,omitempty"`
	Parameters     map[string]string `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Scripts        map[string]string `json:"scripts,omitempty" yaml:"scripts,omitempty"`
	Messages       int               `json:"messages" yaml:"messages"`
}

type fileView struct {
	ID            int       `json:"id" yaml:"id"`
	JobID         int       `json:"job_id" yaml:"job_id"`
	Filename      string    `json:"filename" yaml:"filename"`
	Size          int64     `json:"size" yaml:"size"`
	Paused        bool      `json:"paused" yaml:"paused"`
	Priority      int       `json:"priority" yaml:"priority"`
	ExtraPriority bool      `json:"extra_priority" yaml:"extra_priority"`
	Time          time.Time `json:"time" yaml:"time"`
}

type postView struct {
	JobID    int    `json:"job_id" yaml:"job_id"`
	Stage    string `json:"stage" yaml:"stage"`
	InfoName string `json:"info_name" yaml:"info_name"`
}

type fetchView struct {
	ID        int    `json:"id" yaml:"id"`
	Status    string `json:"status" yaml:"status"`
	Priority  int    `json:"priority" yaml:"priority"`
	AddTop    bool   `json:"add_top" yaml:"add_top"`
	AddPaused bool   `json:"add_paused" yaml:"add_paused"`
	URL       string `json:"url" yaml:"url"`
	Filename  string `json:"filename,omitempty" yaml:"filename,omitempty"`
	Category  string `json:"category,omitempty" yaml:"category,omitempty"`
}

type historyView struct {
	ID    int        `json:"id" yaml:"id"`
	Kind  string     `json:"kind" yaml:"kind"`
	Time  time.Time  `json:"time" yaml:"time"`
	JobID int        `json:"job_id,omitempty" yaml:"job_id,omitempty"`
	Fetch *fetchView `json:"fetch,omitempty" yaml:"fetch,omitempty"`
}

type articleView struct {
	Part      int    `json:"part" yaml:"part"`
	Size      int    `json:"size" yaml:"size"`
	MessageID string `json:"message_id" yaml:"message_id"`
}

type detailView struct {
	ID                int           `json:"id" yaml:"id"`
	Subject           string        `json:"subject" yaml:"subject"`
	Filename          string        `json:"filename" yaml:"filename"`
	FilenameConfirmed bool          `json:"filename_confirmed" yaml:"filename_confirmed"`
	Size              int64         `json:"size" yaml:"size"`
	Groups            []string      `json:"groups" yaml:"groups"`
	Articles          []articleView `json:"articles" yaml:"articles"`
}

type feedView struct {
	URL        string    `json:"url" yaml:"url"`
	LastUpdate time.Time `json:"last_update" yaml:"last_update"`
}

type feedHistoryView struct {
	URL      string    `json:"url" yaml:"url"`
	Status   string    `json:"status" yaml:"status"`
	LastSeen time.Time `json:"last_seen" yaml:"last_seen"`
}

type feedsView struct {
	Feeds   []feedView        `json:"feeds" yaml:"feeds"`
	History []feedHistoryView `json:"history" yaml:"history"`
}

func newQueueView(path string, version int, q *queue.Queue) queueView {
	view := queueView{
		Path:    path,
		Version: version,
		Jobs:    make([]jobView, 0, len(q.Jobs)),
		Files:   newFileViews(q.Files),
		Parked:  newFileViews(q.Parked),
		Post:    make([]postView, 0, len(q.Post)),
		Fetch:   make([]fetchView, 0, len(q.Fetch)),
		History: make([]historyView, 0, len(q.History)),
	}
	for _, job := range q.Jobs {
		view.Jobs = append(view.Jobs, newJobView(job))
	}
	for _, entry := range q.Post {
		view.Post = append(view.Post, postView{JobID: entry.JobID, Stage: entry.Stage.String(), InfoName: entry.InfoName})
	}
	for _, entry := range q.Fetch {
		view.Fetch = append(view.Fetch, newFetchView(entry))
	}
	for _, entry := range q.History {
		item := historyView{ID: entry.ID, Kind: entry.Kind.String(), Time: entry.Time}
		if entry.Kind == queue.HistoryFetch && entry.Fetch != nil {
			fetch := newFetchView(entry.Fetch)
			item.Fetch = &fetch
		} else {
			item.JobID = entry.JobID
		}
		view.History = append(view.History, item)
	}
	return view
}

func newJobView(job *queue.Job) jobView {
	view := jobView{
		ID:             job.ID,
		Name:           job.DisplayName(),
		Filename:       job.Filename,
		DestDir:        job.DestDir,
		Category:       job.Category,
		FileCount:      job.FileCount,
		ParkedCount:    job.ParkedFileCount,
		Size:           job.Size,
		Par:            job.ParStatus.String(),
		Unpack:         job.UnpackStatus.String(),
		Move:           job.MoveStatus.String(),
		Rename:         job.RenameStatus.String(),
		CompletedFiles: job.CompletedFiles,
		Messages:       job.Messages.Len(),
	}
	if len(job.Parameters) > 0 {
		view.Parameters = job.Parameters.Map()
	}
	if len(job.ScriptStatuses) > 0 {
		view.Scripts = make(map[string]string, len(job.ScriptStatuses))
		for _, script := range job.ScriptStatuses {
			view.Scripts[script.Name] = script.Status.String()
		}
	}
	return view
}

func newFileViews(entries []*queue.FileEntry) []fileView {
	views := make([]fileView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, fileView{
			ID:            entry.ID,
			JobID:         entry.JobID,
			Filename:      entry.Detail.Filename,
			Size:          entry.Detail.Size,
			Paused:        entry.Paused,
			Priority:      entry.Priority,
			ExtraPriority: entry.ExtraPriority,
			Time:          entry.Time,
		})
	}
	return views
}

func newFetchView(entry *queue.FetchEntry) fetchView {
	return fetchView{
		ID:        entry.ID,
		Status:    entry.Status.String(),
		Priority:  entry.Priority,
		AddTop:    entry.AddTop,
		AddPaused: entry.AddPaused,
		URL:       entry.URL,
		Filename:  entry.Filename,
		Category:  entry.Category,
	}
}

func newDetailView(id int, detail *queue.FileDetail) detailView {
	view := detailView{
		ID:                id,
		Subject:           detail.Subject,
		Filename:          detail.Filename,
		FilenameConfirmed: detail.FilenameConfirmed,
		Size:              detail.Size,
		Groups:            detail.Groups,
		Articles:          make([]articleView, 0, len(detail.Articles)),
	}
	for _, article := range detail.Articles {
		view.Articles = append(view.Articles, articleView{
			Part:      article.PartNumber,
			Size:      article.Size,
			MessageID: article.MessageID,
		})
	}
	return view
}
