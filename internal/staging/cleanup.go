package staging

import (
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/afero"

	"diskstate/internal/logging"
)

// TempPolicy selects which partial artifacts of active files survive a sweep.
type TempPolicy struct {
	// ContinuePartial keeps "<id>.<part>" artifacts of active files.
	ContinuePartial bool
	// DirectWrite, together with ContinuePartial, keeps "<id>.out" output
	// of active files.
	DirectWrite bool
}

// CleanupResult contains the outcome of a temp directory sweep.
type CleanupResult struct {
	Removed []string
	Errors  []CleanupError
}

// CleanupError pairs a path with its cleanup error.
type CleanupError struct {
	Path  string
	Error error
}

// TempFile describes one entry of the temp directory and whether a sweep
// removes it.
type TempFile struct {
	Name   string `json:"name" yaml:"name"`
	Path   string `json:"path" yaml:"path"`
	Size   int64  `json:"size" yaml:"size"`
	Remove bool   `json:"remove" yaml:"remove"`
	Reason string `json:"reason" yaml:"reason"`
}

type tempKind int

const (
	tempOther tempKind = iota
	tempScratch
	tempOutput
	tempPart
)

// classify splits a temp directory name into its artifact kind and, for
// per-file artifacts, the owning file ID.
func classify(name string) (tempKind, int) {
	if strings.Contains(name, ".tmp") || strings.Contains(name, ".dec") {
		return tempScratch, 0
	}
	head, tail, ok := strings.Cut(name, ".")
	if !ok {
		return tempOther, 0
	}
	id, err := strconv.Atoi(head)
	if err != nil {
		return tempOther, 0
	}
	if tail == "out" {
		return tempOutput, id
	}
	if _, err := strconv.Atoi(tail); err == nil {
		return tempPart, id
	}
	return tempOther, 0
}

// decide applies policy to one name. Scratch files always go; per-file
// artifacts stay only while their file is active and the policy keeps them.
func decide(name string, active map[int]struct{}, policy TempPolicy) (bool, string) {
	kind, id := classify(name)
	_, isActive := active[id]
	switch kind {
	case tempScratch:
		return true, "scratch"
	case tempOutput:
		if !(policy.ContinuePartial && policy.DirectWrite) {
			return true, "partial output not continued"
		}
		if !isActive {
			return true, "file no longer queued"
		}
		return false, "kept for continuation"
	case tempPart:
		if !policy.ContinuePartial {
			return true, "partial article not continued"
		}
		if !isActive {
			return true, "file no longer queued"
		}
		return false, "kept for continuation"
	default:
		return false, "not a transient artifact"
	}
}

// PlanTemp lists the regular files of dir and marks which a sweep with the
// same arguments would remove.
func PlanTemp(fsys afero.Fs, dir string, active map[int]struct{}, policy TempPolicy) ([]TempFile, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, nil
	}

	entries, err := afero.ReadDir(fsys, dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	files := make([]TempFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		remove, reason := decide(entry.Name(), active, policy)
		files = append(files, TempFile{
			Name:   entry.Name(),
			Path:   filepath.Join(dir, entry.Name()),
			Size:   entry.Size(),
			Remove: remove,
			Reason: reason,
		})
	}
	return files, nil
}

// CleanTemp removes transient download artifacts from dir. active holds the
// IDs of files still in the download queue.
func CleanTemp(fsys afero.Fs, dir string, active map[int]struct{}, policy TempPolicy, logger *slog.Logger) CleanupResult {
	result := CleanupResult{}

	files, err := PlanTemp(fsys, dir, active, policy)
	if err != nil {
		result.Errors = append(result.Errors, CleanupError{Path: dir, Error: err})
		return result
	}

	for _, file := range files {
		if !file.Remove {
			continue
		}
		if err := fsys.Remove(file.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			result.Errors = append(result.Errors, CleanupError{Path: file.Path, Error: err})
			logging.WarnWithContext(logger, "failed to remove temp file", "temp_cleanup_failed",
				logging.String("path", file.Path),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check temp_dir permissions"),
				logging.String(logging.FieldImpact, "disk space not reclaimed"),
			)
			continue
		}
		result.Removed = append(result.Removed, file.Path)
		if logger != nil {
			logger.Debug("removed temp file",
				logging.String("path", file.Path),
				logging.String("reason", file.Reason),
				logging.String(logging.FieldEventType, "temp_cleanup"),
			)
		}
	}

	if logger != nil && (len(result.Removed) > 0 || len(result.Errors) > 0) {
		logger.Info("temp directory swept",
			logging.String("temp_dir", dir),
			logging.Int("removed", len(result.Removed)),
			logging.Int("errors", len(result.Errors)),
		)
	}
	return result
}
