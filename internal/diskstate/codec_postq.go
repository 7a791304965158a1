package diskstate

import (
	"strings"

	"diskstate/internal/queue"
)

// legacyPostQueue is the decoded content of the standalone post queue file
// written by format versions before 7. Nothing is applied to the queue until
// the whole file has been read.
type legacyPostQueue struct {
	created   []*queue.Job
	entries   []*queue.PostEntry
	parStatus map[*queue.Job]queue.ParStatus
}

// decodeLegacyPostQueue reads the legacy post queue. Entries reference jobs
// by filename; a job that is not in q is created from the entry's fields.
func decodeLegacyPostQueue(r *recordReader, version int, q *queue.Queue) (*legacyPostQueue, error) {
	const list = "legacy post queue"
	count, err := r.Count()
	if err != nil {
		return nil, r.wrap(list, err)
	}

	scratch := &queue.Queue{Jobs: append([]*queue.Job(nil), q.Jobs...)}
	result := &legacyPostQueue{parStatus: make(map[*queue.Job]queue.ParStatus)}
	for i := 0; i < count; i++ {
		if err := decodeLegacyPostEntry(r, version, scratch, result); err != nil {
			return nil, r.wrap(list, err)
		}
	}
	return result, nil
}

func decodeLegacyPostEntry(r *recordReader, version int, scratch *queue.Queue, result *legacyPostQueue) error {
	filename, err := r.Line()
	if err != nil {
		return err
	}
	job := findJobByFilename(scratch.Jobs, filename)
	created := job == nil
	if created {
		job = &queue.Job{Filename: filename}
	}

	destDir, err := r.Line()
	if err != nil {
		return err
	}
	// par filename, no longer used
	if _, err := r.Line(); err != nil {
		return err
	}
	infoName, err := r.Line()
	if err != nil {
		return err
	}
	var category, queuedFilename string
	if version >= sinceCategory {
		if category, err = r.Line(); err != nil {
			return err
		}
	}
	if version >= sinceQueuedFilename {
		if queuedFilename, err = r.Line(); err != nil {
			return err
		}
	}
	parCheck, err := r.Int()
	if err != nil {
		return err
	}
	parStatus, err := r.Int()
	if err != nil {
		return err
	}
	if version < sincePostQueue {
		// par failed flag, no longer used
		if _, err := r.Int(); err != nil {
			return err
		}
	}
	stage, err := r.Int()
	if err != nil {
		return err
	}

	var params queue.Parameters
	if version >= sinceParameters {
		n, err := r.Count()
		if err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			line, err := r.Line()
			if err != nil {
				return err
			}
			if name, value, ok := strings.Cut(line, "="); ok {
				params.Set(name, value)
			}
		}
	}

	if created {
		job.DestDir = destDir
		job.Category = category
		job.QueuedFilename = queuedFilename
		job.Parameters = params
		scratch.AddJob(job)
		result.created = append(result.created, job)
	}
	if parCheck != 0 {
		result.parStatus[job] = queue.ParStatus(parStatus)
	} else {
		result.parStatus[job] = queue.ParSkipped
	}
	result.entries = append(result.entries, &queue.PostEntry{
		JobID:    job.ID,
		Stage:    queue.PostStage(stage),
		InfoName: infoName,
	})
	return nil
}

// apply commits the decoded legacy post queue onto q.
func (l *legacyPostQueue) apply(q *queue.Queue) {
	q.Jobs = append(q.Jobs, l.created...)
	for job, status := range l.parStatus {
		job.ParStatus = status
	}
	q.Post = append(q.Post, l.entries...)
}

func findJobByFilename(jobs []*queue.Job, filename string) *queue.Job {
	for _, job := range jobs {
		if job.Filename == filename {
			return job
		}
	}
	return nil
}
