package diskstate

import (
	"fmt"

	"diskstate/internal/queue"
)

func encodeHistory(w *recordWriter, entries []*queue.HistoryEntry, index ordinalIndex) error {
	w.Int(len(entries))
	for _, entry := range entries {
		w.Int(entry.ID)
		w.Int(int(entry.Kind))
		switch entry.Kind {
		case queue.HistoryJob:
			ordinal, err := index.of(entry.JobID)
			if err != nil {
				return err
			}
			w.Int(ordinal)
		case queue.HistoryFetch:
			if entry.Fetch == nil {
				return fmt.Errorf("history entry %d: fetch entry missing", entry.ID)
			}
			encodeFetchEntry(w, entry.Fetch)
		default:
			return fmt.Errorf("history entry %d: unknown kind %d", entry.ID, int(entry.Kind))
		}
		w.Int(unixSeconds(entry.Time))
	}
	return w.Err()
}

func decodeHistory(r *recordReader, version int, jobs []*queue.Job) ([]*queue.HistoryEntry, error) {
	const list = "history"
	count, err := r.Count()
	if err != nil {
		return nil, r.wrap(list, err)
	}
	entries := make([]*queue.HistoryEntry, 0, listCap(count))
	for i := 0; i < count; i++ {
		entry, err := decodeHistoryEntry(r, version, jobs)
		if err != nil {
			return nil, r.wrap(list, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func decodeHistoryEntry(r *recordReader, version int, jobs []*queue.Job) (*queue.HistoryEntry, error) {
	entry := &queue.HistoryEntry{Kind: queue.HistoryJob}
	var err error
	if version >= sinceEntityIDs {
		if entry.ID, err = r.Int(); err != nil {
			return nil, err
		}
	}
	if version >= sinceFetchQueue {
		kind, err := r.Int()
		if err != nil {
			return nil, err
		}
		entry.Kind = queue.HistoryKind(kind)
	}
	switch entry.Kind {
	case queue.HistoryJob:
		ordinal, err := r.Int()
		if err != nil {
			return nil, err
		}
		job, err := jobAt(jobs, ordinal)
		if err != nil {
			return nil, err
		}
		entry.JobID = job.ID
	case queue.HistoryFetch:
		if entry.Fetch, err = decodeFetchEntry(r, version); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown history kind %d", int(entry.Kind))
	}
	at, err := r.Int()
	if err != nil {
		return nil, err
	}
	entry.Time = fromUnix(at)
	return entry, nil
}
