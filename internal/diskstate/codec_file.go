package diskstate

import (
	"diskstate/internal/queue"
)

// encodeFileEntries writes a file list. Deleted entries are skipped and the
// count reflects only the entries actually written.
func encodeFileEntries(w *recordWriter, entries []*queue.FileEntry, index ordinalIndex) error {
	live := make([]*queue.FileEntry, 0, len(entries))
	for _, entry := range entries {
		if !entry.Deleted {
			live = append(live, entry)
		}
	}
	w.Int(len(live))
	for _, entry := range live {
		ordinal, err := index.of(entry.JobID)
		if err != nil {
			return err
		}
		w.Ints(entry.ID, ordinal, boolInt(entry.Paused), unixSeconds(entry.Time), entry.Priority, boolInt(entry.ExtraPriority))
	}
	return w.Err()
}

// decodeFileEntries reads a file list. The returned entries carry no
// detail; the caller fills it from the side store.
func decodeFileEntries(r *recordReader, list string, version int, jobs []*queue.Job) ([]*queue.FileEntry, error) {
	count, err := r.Count()
	if err != nil {
		return nil, r.wrap(list, err)
	}
	fields := fileEntryFields(version)
	entries := make([]*queue.FileEntry, 0, listCap(count))
	for i := 0; i < count; i++ {
		values, err := r.Ints(fields)
		if err != nil {
			return nil, r.wrap(list, err)
		}
		job, err := jobAt(jobs, values[1])
		if err != nil {
			return nil, r.wrap(list, err)
		}
		entry := &queue.FileEntry{
			ID:     values[0],
			JobID:  job.ID,
			Paused: values[2] != 0,
		}
		if fields >= 4 {
			entry.Time = fromUnix(values[3])
		}
		if fields >= 5 {
			entry.Priority = values[4]
		}
		if fields >= 6 {
			entry.ExtraPriority = values[5] != 0
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
