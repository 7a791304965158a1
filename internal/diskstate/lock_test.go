package diskstate

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireLockExclusive(t *testing.T) {
	dir := t.TempDir()

	first, err := AcquireLock(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, lockFileName), first.Path())

	_, err = AcquireLock(dir)
	assert.ErrorIs(t, err, ErrLocked)

	require.NoError(t, first.Release())

	second, err := AcquireLock(dir)
	require.NoError(t, err)
	require.NoError(t, second.Release())
}

func TestAcquireLockMissingDirectory(t *testing.T) {
	_, err := AcquireLock(filepath.Join(t.TempDir(), "absent"))
	assert.Equal(t, "io", Kind(err))
}
