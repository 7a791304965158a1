package diskstate

import (
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"

	"diskstate/internal/fileutil"
	"diskstate/internal/logging"
)

// Discard deletes the main queue record and every side record, leaving the
// feeds record and unrelated files alone. It returns the paths removed.
// Removal continues past individual failures; all of them are reported.
func (s *Store) Discard() ([]string, error) {
	logger := s.passLogger("discard")
	var removed []string
	var errs []error

	queuePath := s.QueuePath()
	if ok, _ := fileutil.Exists(s.fs, queuePath); ok {
		if err := fileutil.RemoveIfExists(s.fs, queuePath); err != nil {
			errs = append(errs, &IOError{Op: "remove", Path: queuePath, Err: err})
		} else {
			removed = append(removed, queuePath)
		}
	}

	entries, err := afero.ReadDir(s.fs, s.queueDir)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		errs = append(errs, &IOError{Op: "read dir", Path: s.queueDir, Err: err})
	}
	for _, entry := range entries {
		if entry.IsDir() || !isSideRecordName(entry.Name()) {
			continue
		}
		path := filepath.Join(s.queueDir, entry.Name())
		if err := fileutil.RemoveIfExists(s.fs, path); err != nil {
			errs = append(errs, &IOError{Op: "remove", Path: path, Err: err})
			continue
		}
		removed = append(removed, path)
	}

	logger.Info("queue discarded",
		logging.String("queue_dir", s.queueDir),
		logging.Int("removed", len(removed)),
		logging.Int("errors", len(errs)),
	)
	return removed, errors.Join(errs...)
}

// isSideRecordName reports whether name consists only of decimal digits.
func isSideRecordName(name string) bool {
	if name == "" {
		return false
	}
	for _, c := range name {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
