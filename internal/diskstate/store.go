package diskstate

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"

	"diskstate/internal/fileutil"
	"diskstate/internal/logging"
	"diskstate/internal/queue"
	"diskstate/internal/staging"
)

const (
	queueFileName      = "queue"
	feedsFileName      = "feeds"
	legacyPostFileName = "postq"

	filePerm = 0o644
)

// Options configures a Store. Every value the codecs depend on is passed
// here; nothing is read from global state.
type Options struct {
	// QueueDir holds the main queue record, the feeds record and one side
	// record per queued file.
	QueueDir string
	// TempDir holds partial download artifacts swept by CleanupTemp.
	TempDir string

	// ReloadPostQueue keeps post-processing entries on load.
	ReloadPostQueue bool
	// ReloadURLQueue keeps fetch queue entries on load.
	ReloadURLQueue bool
	// ContinuePartial keeps partial artifacts of active files on cleanup.
	ContinuePartial bool
	// DirectWrite keeps direct-write output of active files on cleanup when
	// ContinuePartial is also set.
	DirectWrite bool
	// UnpackDefault is the value given to the unpack parameter of jobs read
	// from records that predate it.
	UnpackDefault bool

	// Fs is the backing filesystem. Defaults to the OS filesystem.
	Fs afero.Fs
	// Logger receives structured diagnostics. Defaults to a no-op logger.
	Logger *slog.Logger
}

// Store persists queue and feed state under a queue directory.
type Store struct {
	fs       afero.Fs
	queueDir string
	tempDir  string
	opts     Options
	logger   *slog.Logger
}

// New returns a Store for opts.
func New(opts Options) (*Store, error) {
	queueDir := strings.TrimSpace(opts.QueueDir)
	if queueDir == "" {
		return nil, errors.New("queue directory is required")
	}
	fsys := opts.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &Store{
		fs:       fsys,
		queueDir: filepath.Clean(queueDir),
		tempDir:  strings.TrimSpace(opts.TempDir),
		opts:     opts,
		logger:   logging.NewComponentLogger(opts.Logger, "diskstate"),
	}, nil
}

// QueueDir returns the directory holding the persisted records.
func (s *Store) QueueDir() string { return s.queueDir }

// QueuePath returns the path of the main queue record.
func (s *Store) QueuePath() string { return filepath.Join(s.queueDir, queueFileName) }

func (s *Store) feedsPath() string { return filepath.Join(s.queueDir, feedsFileName) }

func (s *Store) legacyPostPath() string { return filepath.Join(s.queueDir, legacyPostFileName) }

// passLogger tags every line of one save or load pass with a shared ID.
func (s *Store) passLogger(op string) *slog.Logger {
	return logging.WithPass(s.logger, op)
}

// QueueExists reports whether a main queue record is present.
func (s *Store) QueueExists() (bool, error) {
	path := s.QueuePath()
	ok, err := fileutil.Exists(s.fs, path)
	if err != nil {
		return false, &IOError{Op: "stat", Path: path, Err: err}
	}
	return ok, nil
}

// QueueFileVersion returns the format version declared by the main queue
// record without decoding the rest of it.
func (s *Store) QueueFileVersion() (int, error) {
	path := s.QueuePath()
	file, err := s.fs.Open(path)
	if err != nil {
		return 0, &IOError{Op: "open", Path: path, Err: err}
	}
	defer file.Close()
	return readSignature(newRecordReader(file, path), MinQueueVersion, QueueVersion)
}

// SaveQueue writes q to the main queue record. An empty queue removes the
// record instead. Job references are resolved against q.Jobs as it stands
// now; an entry pointing at a job that is not in the list fails the save
// with ErrInvalidQueue and ErrOutOfRange and leaves the old record intact.
// Jobs without an ID or sharing one fail with ErrInvalidQueue too.
func (s *Store) SaveQueue(q *queue.Queue) error {
	logger := s.passLogger("save_queue")
	started := time.Now()
	path := s.QueuePath()

	if q.IsEmpty() {
		if err := fileutil.RemoveIfExists(s.fs, path); err != nil {
			return &IOError{Op: "remove", Path: path, Err: err}
		}
		logger.Debug("queue empty, record removed", logging.String("path", path))
		return nil
	}

	index, err := newOrdinalIndex(q.Jobs)
	if err != nil {
		err = fmt.Errorf("%w: jobs: %w", ErrInvalidQueue, err)
		logging.ErrorWithContext(logger, "queue save failed", "queue_save_failed",
			logging.String("path", path),
			logging.String("kind", Kind(err)),
			logging.Error(err),
		)
		return err
	}
	err = fileutil.WriteAtomic(s.fs, path, filePerm, func(w io.Writer) error {
		rw := newRecordWriter(w)
		if err := encodeQueue(rw, q, index); err != nil {
			if rw.Err() != nil {
				return rw.Err()
			}
			return fmt.Errorf("%w: %w", ErrInvalidQueue, err)
		}
		return rw.Err()
	})
	if err != nil {
		if !errors.Is(err, ErrInvalidQueue) {
			err = &IOError{Op: "save", Path: path, Err: err}
		}
		logging.ErrorWithContext(logger, "queue save failed", "queue_save_failed",
			logging.String("path", path),
			logging.String("kind", Kind(err)),
			logging.Error(err),
		)
		return err
	}

	logger.Info("queue saved",
		logging.String("path", path),
		logging.Duration("elapsed", time.Since(started)),
		logging.Int("jobs", len(q.Jobs)),
		logging.Int("files", len(q.Files)),
		logging.Int("post", len(q.Post)),
		logging.Int("fetch", len(q.Fetch)),
		logging.Int("history", len(q.History)),
		logging.Int("parked", len(q.Parked)),
	)
	return nil
}

func encodeQueue(w *recordWriter, q *queue.Queue, index ordinalIndex) error {
	writeSignature(w, QueueVersion)
	if err := encodeJobs(w, q.Jobs); err != nil {
		return err
	}
	if err := encodeFileEntries(w, q.Files, index); err != nil {
		return fmt.Errorf("file queue: %w", err)
	}
	if err := encodePostEntries(w, q.Post, index); err != nil {
		return fmt.Errorf("post queue: %w", err)
	}
	if err := encodeFetchEntries(w, q.Fetch); err != nil {
		return err
	}
	if err := encodeHistory(w, q.History, index); err != nil {
		return fmt.Errorf("history: %w", err)
	}
	if err := encodeFileEntries(w, q.Parked, index); err != nil {
		return fmt.Errorf("parked files: %w", err)
	}
	return w.Err()
}

// LoadQueue reads the main queue record. Lists absent from older layouts
// come back empty and fields they lack take their defaults. On any failure
// nothing is returned, so a caller never sees a partial queue.
func (s *Store) LoadQueue() (*queue.Queue, error) {
	logger := s.passLogger("load_queue")
	started := time.Now()
	q, version, err := s.loadQueue(logger)
	if err != nil {
		logging.ErrorWithContext(logger, "queue load failed", "queue_load_failed",
			logging.String("path", s.QueuePath()),
			logging.String("kind", Kind(err)),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "inspect the queue record or discard it"),
		)
		return nil, err
	}
	logger.Info("queue loaded",
		logging.String("path", s.QueuePath()),
		logging.Duration("elapsed", time.Since(started)),
		logging.Int("version", version),
		logging.Int("jobs", len(q.Jobs)),
		logging.Int("files", len(q.Files)),
		logging.Int("post", len(q.Post)),
		logging.Int("fetch", len(q.Fetch)),
		logging.Int("history", len(q.History)),
		logging.Int("parked", len(q.Parked)),
	)
	return q, nil
}

func (s *Store) loadQueue(logger *slog.Logger) (*queue.Queue, int, error) {
	path := s.QueuePath()
	file, err := s.fs.Open(path)
	if err != nil {
		return nil, 0, &IOError{Op: "open", Path: path, Err: err}
	}
	defer file.Close()

	r := newRecordReader(file, path)
	version, err := readSignature(r, MinQueueVersion, QueueVersion)
	if err != nil {
		return nil, 0, err
	}

	q := queue.New()
	if q.Jobs, err = decodeJobs(r, version, s.decodeOptions()); err != nil {
		return nil, version, err
	}
	// Dependents store job IDs, so jobs from layouts without IDs get theirs
	// before any reference is resolved.
	q.AssignMissingIDs()
	if err := checkUniqueJobIDs(path, q.Jobs); err != nil {
		return nil, version, err
	}

	files, err := decodeFileEntries(r, "file queue", version, q.Jobs)
	if err != nil {
		return nil, version, err
	}

	if version >= sincePostQueue {
		if q.Post, err = decodePostEntries(r, version, q.Jobs, s.opts.ReloadPostQueue); err != nil {
			return nil, version, err
		}
	} else if s.opts.ReloadPostQueue {
		s.loadLegacyPostQueue(q, version, logger)
	}

	if version >= sinceFetchQueue {
		if q.Fetch, err = decodeFetchEntries(r, version, s.opts.ReloadURLQueue); err != nil {
			return nil, version, err
		}
	}

	var parked []*queue.FileEntry
	if version >= sinceHistory {
		if q.History, err = decodeHistory(r, version, q.Jobs); err != nil {
			return nil, version, err
		}
		if parked, err = decodeFileEntries(r, "parked files", version, q.Jobs); err != nil {
			return nil, version, err
		}
	}
	q.AssignMissingIDs()

	q.Files = s.attachDetails(files, logger)
	q.Parked = s.attachDetails(parked, logger)
	return q, version, nil
}

func (s *Store) decodeOptions() decodeOptions {
	return decodeOptions{unpackDefault: s.opts.UnpackDefault}
}

func checkUniqueJobIDs(path string, jobs []*queue.Job) error {
	seen := make(map[int]struct{}, len(jobs))
	for _, job := range jobs {
		if _, dup := seen[job.ID]; dup {
			return &RecordError{Path: path, List: "jobs", Err: fmt.Errorf("duplicate job id %d", job.ID)}
		}
		seen[job.ID] = struct{}{}
	}
	return nil
}

// loadLegacyPostQueue merges the standalone post queue record into q. The
// record is optional, so failures are logged and otherwise ignored.
func (s *Store) loadLegacyPostQueue(q *queue.Queue, version int, logger *slog.Logger) {
	path := s.legacyPostPath()
	legacy, err := s.readLegacyPostQueue(path, q)
	if err != nil {
		logging.WarnWithContext(logger, "legacy post queue not loaded", "legacy_post_queue_failed",
			logging.String("path", path),
			logging.String("kind", Kind(err)),
			logging.Error(err),
			logging.String(logging.FieldImpact, "post-processing entries from the old record are lost"),
		)
		return
	}
	if legacy == nil {
		return
	}
	legacy.apply(q)
	for _, job := range legacy.created {
		applyJobFixups(job, version, s.decodeOptions())
	}
	logger.Info("legacy post queue loaded",
		logging.String("path", path),
		logging.Int("entries", len(legacy.entries)),
		logging.Int("created_jobs", len(legacy.created)),
	)
}

func (s *Store) readLegacyPostQueue(path string, q *queue.Queue) (*legacyPostQueue, error) {
	file, err := s.fs.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	defer file.Close()

	r := newRecordReader(file, path)
	version, err := readSignature(r, minLegacyPostVersion, maxLegacyPostVersion)
	if err != nil {
		return nil, err
	}
	return decodeLegacyPostQueue(r, version, q)
}

// SaveFeeds writes feed update times and feed history. With both empty the
// record is removed instead.
func (s *Store) SaveFeeds(feeds []*queue.Feed, history []*queue.FeedHistoryEntry) error {
	logger := s.passLogger("save_feeds")
	path := s.feedsPath()

	if len(feeds) == 0 && len(history) == 0 {
		if err := fileutil.RemoveIfExists(s.fs, path); err != nil {
			return &IOError{Op: "remove", Path: path, Err: err}
		}
		return nil
	}

	err := fileutil.WriteAtomic(s.fs, path, filePerm, func(w io.Writer) error {
		rw := newRecordWriter(w)
		writeSignature(rw, FeedsVersion)
		return encodeFeeds(rw, feeds, history)
	})
	if err != nil {
		err = &IOError{Op: "save", Path: path, Err: err}
		logging.ErrorWithContext(logger, "feeds save failed", "feeds_save_failed",
			logging.String("path", path),
			logging.Error(err),
		)
		return err
	}
	logger.Debug("feeds saved",
		logging.String("path", path),
		logging.Int("feeds", len(feeds)),
		logging.Int("history", len(history)),
	)
	return nil
}

// LoadFeeds restores update times onto the matching live feeds and returns
// the persisted feed history. A missing record is not an error. Feeds are
// only touched once the whole record has been read.
func (s *Store) LoadFeeds(feeds []*queue.Feed) ([]*queue.FeedHistoryEntry, error) {
	logger := s.passLogger("load_feeds")
	path := s.feedsPath()

	file, err := s.fs.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	defer file.Close()

	r := newRecordReader(file, path)
	statuses, history, err := decodeFeedsRecord(r)
	if err != nil {
		logging.ErrorWithContext(logger, "feeds load failed", "feeds_load_failed",
			logging.String("path", path),
			logging.String("kind", Kind(err)),
			logging.Error(err),
		)
		return nil, err
	}
	applyFeedStatus(feeds, statuses)
	logger.Debug("feeds loaded",
		logging.String("path", path),
		logging.Int("feeds", len(statuses)),
		logging.Int("history", len(history)),
	)
	return history, nil
}

func decodeFeedsRecord(r *recordReader) ([]feedStatus, []*queue.FeedHistoryEntry, error) {
	if _, err := readSignature(r, MinFeedsVersion, FeedsVersion); err != nil {
		return nil, nil, err
	}
	statuses, err := decodeFeedStatus(r)
	if err != nil {
		return nil, nil, err
	}
	history, err := decodeFeedHistory(r)
	if err != nil {
		return nil, nil, err
	}
	return statuses, history, nil
}

func (s *Store) tempPolicy() staging.TempPolicy {
	return staging.TempPolicy{
		ContinuePartial: s.opts.ContinuePartial,
		DirectWrite:     s.opts.DirectWrite,
	}
}

// CleanupTemp sweeps the temp directory, keeping partial artifacts of the
// files in active as the continuation flags allow.
func (s *Store) CleanupTemp(active map[int]struct{}) staging.CleanupResult {
	logger := s.passLogger("cleanup_temp")
	return staging.CleanTemp(s.fs, s.tempDir, active, s.tempPolicy(), logger)
}

// PlanCleanup reports what CleanupTemp would do with the same arguments
// without removing anything.
func (s *Store) PlanCleanup(active map[int]struct{}) ([]staging.TempFile, error) {
	files, err := staging.PlanTemp(s.fs, s.tempDir, active, s.tempPolicy())
	if err != nil {
		return nil, &IOError{Op: "read dir", Path: s.tempDir, Err: err}
	}
	return files, nil
}

// TempDir returns the directory swept by CleanupTemp.
func (s *Store) TempDir() string { return s.tempDir }
