package diskstate

import (
	"fmt"

	"diskstate/internal/queue"
)

// ordinalIndex maps job IDs to their 1-based position in the job list as it
// stands at the start of a save. It is never cached across saves.
type ordinalIndex map[int]int

// newOrdinalIndex rejects job lists a load could not bind back: a job with
// no ID, or two jobs sharing one.
func newOrdinalIndex(jobs []*queue.Job) (ordinalIndex, error) {
	index := make(ordinalIndex, len(jobs))
	for i, job := range jobs {
		if job.ID <= 0 {
			return nil, fmt.Errorf("job %d (%s) has no id", i+1, job.Filename)
		}
		if first, seen := index[job.ID]; seen {
			return nil, fmt.Errorf("jobs %d and %d share id %d", first, i+1, job.ID)
		}
		index[job.ID] = i + 1
	}
	return index, nil
}

// of returns the ordinal for jobID, or ErrOutOfRange when the job is not in
// the list being saved.
func (x ordinalIndex) of(jobID int) (int, error) {
	ordinal, ok := x[jobID]
	if !ok {
		return 0, fmt.Errorf("job %d not in saved list: %w", jobID, ErrOutOfRange)
	}
	return ordinal, nil
}

// jobAt resolves a 1-based ordinal read from a record. Zero and values past
// the end of the list are rejected.
func jobAt(jobs []*queue.Job, ordinal int) (*queue.Job, error) {
	if ordinal < 1 || ordinal > len(jobs) {
		return nil, fmt.Errorf("ordinal %d with %d jobs: %w", ordinal, len(jobs), ErrOutOfRange)
	}
	return jobs[ordinal-1], nil
}
