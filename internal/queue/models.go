package queue

import (
	"path/filepath"
	"strings"
	"time"
)

// Job is a top-level retrieval job grouping one or more file queue entries.
type Job struct {
	ID                  int
	Filename            string
	DestDir             string
	QueuedFilename      string
	Name                string
	Category            string
	PostProcess         bool
	ParStatus           ParStatus
	UnpackStatus        UnpackStatus
	MoveStatus          MoveStatus
	RenameStatus        RenameStatus
	UnpackCleanedUpDisk bool
	FileCount           int
	ParkedFileCount     int
	Size                int64
	CompletedFiles      []string
	Parameters          Parameters
	ScriptStatuses      []ScriptStatus
	Messages            MessageLog
}

// DisplayName returns the job name, falling back to the source filename
// without directory or extension.
func (j *Job) DisplayName() string {
	if name := strings.TrimSpace(j.Name); name != "" {
		return name
	}
	base := filepath.Base(j.Filename)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Article is one segment of a file as listed in its manifest.
type Article struct {
	PartNumber int
	Size       int
	MessageID  string
}

// FileDetail is the heavy per-file payload kept in the side store.
type FileDetail struct {
	Subject           string
	Filename          string
	FilenameConfirmed bool
	Size              int64
	Groups            []string
	Articles          []Article
}

// FileEntry is one file in the download (or parked) queue.
type FileEntry struct {
	ID            int
	JobID         int
	Paused        bool
	Time          time.Time
	Priority      int
	ExtraPriority bool
	// Deleted entries are skipped when the queue is saved.
	Deleted bool
	Detail  FileDetail
}

// PostEntry is a job waiting in (or running through) post-processing.
type PostEntry struct {
	JobID    int
	Stage    PostStage
	InfoName string
}

// FetchEntry is a pending remote fetch of a job description by URL.
type FetchEntry struct {
	ID        int
	Status    FetchStatus
	Priority  int
	AddTop    bool
	AddPaused bool
	URL       string
	Filename  string
	Category  string
}

// HistoryEntry records a finished job or fetch. Exactly one of JobID and
// Fetch is meaningful, selected by Kind.
type HistoryEntry struct {
	ID    int
	Kind  HistoryKind
	Time  time.Time
	JobID int
	Fetch *FetchEntry
}

// Feed is a live subscription whose last update time is persisted.
type Feed struct {
	URL        string
	LastUpdate time.Time
}

// FeedHistoryEntry remembers an item seen on a feed.
type FeedHistoryEntry struct {
	URL      string
	Status   FeedItemStatus
	LastSeen time.Time
}

// Queue is the complete persisted queue state.
type Queue struct {
	Jobs    []*Job
	Files   []*FileEntry
	Post    []*PostEntry
	Fetch   []*FetchEntry
	History []*HistoryEntry
	Parked  []*FileEntry
}

// New returns an empty queue.
func New() *Queue {
	return &Queue{}
}

// Job returns the job with the given ID, or nil.
func (q *Queue) Job(id int) *Job {
	for _, job := range q.Jobs {
		if job.ID == id {
			return job
		}
	}
	return nil
}

// AddJob appends job to the arena, assigning an ID when it has none.
func (q *Queue) AddJob(job *Job) *Job {
	if job.ID == 0 {
		job.ID = q.nextJobID()
	}
	q.Jobs = append(q.Jobs, job)
	return job
}

// IsEmpty reports whether the queue holds nothing worth persisting.
func (q *Queue) IsEmpty() bool {
	return len(q.Jobs) == 0 &&
		len(q.Files) == 0 &&
		len(q.Parked) == 0 &&
		len(q.Post) == 0 &&
		len(q.Fetch) == 0 &&
		len(q.History) == 0
}

// ActiveFileIDs returns the IDs of all files in the download queue.
func (q *Queue) ActiveFileIDs() map[int]struct{} {
	ids := make(map[int]struct{}, len(q.Files))
	for _, file := range q.Files {
		ids[file.ID] = struct{}{}
	}
	return ids
}

// AssignMissingIDs gives every job, fetch entry and history entry that has no
// ID a fresh one, continuing each collection's sequence.
func (q *Queue) AssignMissingIDs() {
	next := q.nextJobID()
	for _, job := range q.Jobs {
		if job.ID == 0 {
			job.ID = next
			next++
		}
	}

	nextFetch := 1
	for _, fetch := range q.allFetches() {
		if fetch.ID >= nextFetch {
			nextFetch = fetch.ID + 1
		}
	}
	for _, fetch := range q.allFetches() {
		if fetch.ID == 0 {
			fetch.ID = nextFetch
			nextFetch++
		}
	}

	nextHistory := 1
	for _, entry := range q.History {
		if entry.ID >= nextHistory {
			nextHistory = entry.ID + 1
		}
	}
	for _, entry := range q.History {
		if entry.ID == 0 {
			entry.ID = nextHistory
			nextHistory++
		}
	}
}

func (q *Queue) nextJobID() int {
	next := 1
	for _, job := range q.Jobs {
		if job.ID >= next {
			next = job.ID + 1
		}
	}
	return next
}

func (q *Queue) allFetches() []*FetchEntry {
	fetches := make([]*FetchEntry, 0, len(q.Fetch))
	fetches = append(fetches, q.Fetch...)
	for _, entry := range q.History {
		if entry.Kind == HistoryFetch && entry.Fetch != nil {
			fetches = append(fetches, entry.Fetch)
		}
	}
	return fetches
}
