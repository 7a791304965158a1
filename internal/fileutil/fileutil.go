// Package fileutil provides the write-temp/replace protocol used for every
// persisted record, plus small filesystem helpers built on afero so callers
// and tests can swap the backing filesystem.
package fileutil

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/spf13/afero"
)

// TempSuffix is appended to the target name while a replacement is written.
const TempSuffix = ".new"

// WriteAtomic replaces target with the output of write. The data is written
// to a sibling temporary file which is flushed, synced and closed before the
// old target is removed and the temporary file renamed into place. If
// anything fails before the rename the previous target is left untouched.
func WriteAtomic(fsys afero.Fs, target string, mode os.FileMode, write func(w io.Writer) error) error {
	tmpPath := target + TempSuffix

	file, err := fsys.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmpPath, err)
	}

	buffered := bufio.NewWriter(file)
	if err := write(buffered); err != nil {
		_ = file.Close()
		_ = fsys.Remove(tmpPath)
		return err
	}
	if err := buffered.Flush(); err != nil {
		_ = file.Close()
		_ = fsys.Remove(tmpPath)
		return fmt.Errorf("flush %s: %w", tmpPath, err)
	}
	if err := file.Sync(); err != nil {
		_ = file.Close()
		_ = fsys.Remove(tmpPath)
		return fmt.Errorf("sync %s: %w", tmpPath, err)
	}
	if err := file.Close(); err != nil {
		_ = fsys.Remove(tmpPath)
		return fmt.Errorf("close %s: %w", tmpPath, err)
	}

	if err := RemoveIfExists(fsys, target); err != nil {
		_ = fsys.Remove(tmpPath)
		return err
	}
	if err := fsys.Rename(tmpPath, target); err != nil {
		return fmt.Errorf("rename %s to %s: %w", tmpPath, target, err)
	}
	return nil
}

// RemoveIfExists deletes path, treating a missing file as success.
func RemoveIfExists(fsys afero.Fs, path string) error {
	if err := fsys.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}

// Exists reports whether path exists and is a regular file.
func Exists(fsys afero.Fs, path string) (bool, error) {
	info, err := fsys.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	return !info.IsDir(), nil
}
