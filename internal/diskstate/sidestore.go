package diskstate

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strconv"

	"diskstate/internal/fileutil"
	"diskstate/internal/logging"
	"diskstate/internal/queue"
)

func (s *Store) fileDetailPath(id int) string {
	return filepath.Join(s.queueDir, strconv.Itoa(id))
}

// SaveFileDetail writes the side record for a file entry. The record is
// replaced atomically.
func (s *Store) SaveFileDetail(id int, detail *queue.FileDetail) error {
	path := s.fileDetailPath(id)
	err := fileutil.WriteAtomic(s.fs, path, filePerm, func(w io.Writer) error {
		return encodeFileDetail(newRecordWriter(w), detail)
	})
	if err != nil {
		return &IOError{Op: "save file detail", Path: path, Err: err}
	}
	return nil
}

// LoadFileDetail reads the side record for a file entry. With summaryOnly
// the article manifest is not read. An absent record returns ErrMissing.
func (s *Store) LoadFileDetail(id int, summaryOnly bool) (*queue.FileDetail, error) {
	path := s.fileDetailPath(id)
	file, err := s.fs.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("file %d: %w", id, ErrMissing)
		}
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	defer file.Close()

	detail, err := decodeFileDetail(newRecordReader(file, path), !summaryOnly)
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// LoadArticles reloads the article manifest of entry from its side record.
// The summary fields already on the entry are left as they are.
func (s *Store) LoadArticles(entry *queue.FileEntry) error {
	detail, err := s.LoadFileDetail(entry.ID, false)
	if err != nil {
		return err
	}
	entry.Detail.Articles = detail.Articles
	return nil
}

// DiscardFileDetail removes the side record for a file entry. A missing
// record is not an error.
func (s *Store) DiscardFileDetail(id int) error {
	path := s.fileDetailPath(id)
	if err := fileutil.RemoveIfExists(s.fs, path); err != nil {
		return &IOError{Op: "remove", Path: path, Err: err}
	}
	return nil
}

// attachDetails fills every entry from its side record, dropping entries
// whose record is absent or unreadable.
func (s *Store) attachDetails(entries []*queue.FileEntry, logger *slog.Logger) []*queue.FileEntry {
	kept := entries[:0]
	for _, entry := range entries {
		detail, err := s.LoadFileDetail(entry.ID, true)
		if err != nil {
			logging.WarnWithContext(logger, "file entry dropped", "file_detail_unreadable",
				logging.Int("file_id", entry.ID),
				logging.String("kind", Kind(err)),
				logging.Error(err),
				logging.String(logging.FieldImpact, "file is no longer queued"),
			)
			continue
		}
		entry.Detail = *detail
		kept = append(kept, entry)
	}
	return kept
}

func encodeFileDetail(w *recordWriter, detail *queue.FileDetail) error {
	w.Line(detail.Subject)
	w.Line(detail.Filename)
	w.Int(boolInt(detail.FilenameConfirmed))
	w.Size(detail.Size)
	w.Int(len(detail.Groups))
	for _, group := range detail.Groups {
		w.Line(group)
	}
	w.Int(len(detail.Articles))
	for _, article := range detail.Articles {
		w.Ints(article.PartNumber, article.Size)
		w.Line(article.MessageID)
	}
	return w.Err()
}

func decodeFileDetail(r *recordReader, articles bool) (*queue.FileDetail, error) {
	const list = "file detail"
	detail := &queue.FileDetail{}
	var err error
	if detail.Subject, err = r.Line(); err != nil {
		return nil, r.wrap(list, err)
	}
	if detail.Filename, err = r.Line(); err != nil {
		return nil, r.wrap(list, err)
	}
	confirmed, err := r.Int()
	if err != nil {
		return nil, r.wrap(list, err)
	}
	detail.FilenameConfirmed = confirmed != 0
	if detail.Size, err = r.Size(); err != nil {
		return nil, r.wrap(list, err)
	}
	groups, err := r.Count()
	if err != nil {
		return nil, r.wrap(list, err)
	}
	for i := 0; i < groups; i++ {
		group, err := r.Line()
		if err != nil {
			return nil, r.wrap(list, err)
		}
		detail.Groups = append(detail.Groups, group)
	}
	if !articles {
		return detail, nil
	}

	count, err := r.Count()
	if err != nil {
		return nil, r.wrap(list, err)
	}
	for i := 0; i < count; i++ {
		values, err := r.Ints(2)
		if err != nil {
			return nil, r.wrap(list, err)
		}
		messageID, err := r.Line()
		if err != nil {
			return nil, r.wrap(list, err)
		}
		detail.Articles = append(detail.Articles, queue.Article{
			PartNumber: values[0],
			Size:       values[1],
			MessageID:  messageID,
		})
	}
	return detail, nil
}
