package diskstate

import (
	"diskstate/internal/queue"
)

func encodePostEntries(w *recordWriter, entries []*queue.PostEntry, index ordinalIndex) error {
	w.Int(len(entries))
	for _, entry := range entries {
		ordinal, err := index.of(entry.JobID)
		if err != nil {
			return err
		}
		w.Ints(ordinal, int(entry.Stage))
		w.Line(entry.InfoName)
	}
	return w.Err()
}

// decodePostEntries reads the post queue. Ordinals are validated even when
// keep is false and the entries are discarded.
func decodePostEntries(r *recordReader, version int, jobs []*queue.Job, keep bool) ([]*queue.PostEntry, error) {
	const list = "post queue"
	count, err := r.Count()
	if err != nil {
		return nil, r.wrap(list, err)
	}
	fields := postEntryFields(version)
	var entries []*queue.PostEntry
	for i := 0; i < count; i++ {
		values, err := r.Ints(fields)
		if err != nil {
			return nil, r.wrap(list, err)
		}
		job, err := jobAt(jobs, values[0])
		if err != nil {
			return nil, r.wrap(list, err)
		}
		infoName, err := r.Line()
		if err != nil {
			return nil, r.wrap(list, err)
		}
		if version < sinceCompactPost {
			// par filename, no longer used
			if _, err := r.Line(); err != nil {
				return nil, r.wrap(list, err)
			}
		}
		if !keep {
			continue
		}
		entries = append(entries, &queue.PostEntry{
			JobID:    job.ID,
			Stage:    remapPostStage(version, values[fields-1]),
			InfoName: infoName,
		})
	}
	return entries, nil
}
