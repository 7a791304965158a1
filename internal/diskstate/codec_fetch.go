package diskstate

import (
	"diskstate/internal/queue"
)

func encodeFetchEntries(w *recordWriter, entries []*queue.FetchEntry) error {
	w.Int(len(entries))
	for _, entry := range entries {
		encodeFetchEntry(w, entry)
	}
	return w.Err()
}

func encodeFetchEntry(w *recordWriter, entry *queue.FetchEntry) {
	w.Int(entry.ID)
	w.Ints(int(entry.Status), entry.Priority)
	w.Ints(boolInt(entry.AddTop), boolInt(entry.AddPaused))
	w.Line(entry.URL)
	w.Line(entry.Filename)
	w.Line(entry.Category)
}

// decodeFetchEntries reads the fetch queue. With keep false the entries are
// still parsed so the stream stays aligned, then dropped.
func decodeFetchEntries(r *recordReader, version int, keep bool) ([]*queue.FetchEntry, error) {
	const list = "fetch queue"
	count, err := r.Count()
	if err != nil {
		return nil, r.wrap(list, err)
	}
	var entries []*queue.FetchEntry
	for i := 0; i < count; i++ {
		entry, err := decodeFetchEntry(r, version)
		if err != nil {
			return nil, r.wrap(list, err)
		}
		if keep {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func decodeFetchEntry(r *recordReader, version int) (*queue.FetchEntry, error) {
	entry := &queue.FetchEntry{}
	var err error
	if version >= sinceEntityIDs {
		if entry.ID, err = r.Int(); err != nil {
			return nil, err
		}
	}
	values, err := r.Ints(2)
	if err != nil {
		return nil, err
	}
	entry.Status = queue.FetchStatus(values[0])
	entry.Priority = values[1]
	if version >= sinceFetchFlags {
		flags, err := r.Ints(2)
		if err != nil {
			return nil, err
		}
		entry.AddTop = flags[0] != 0
		entry.AddPaused = flags[1] != 0
	}
	if entry.URL, err = r.Line(); err != nil {
		return nil, err
	}
	if entry.Filename, err = r.Line(); err != nil {
		return nil, err
	}
	if entry.Category, err = r.Line(); err != nil {
		return nil, err
	}
	return entry, nil
}
