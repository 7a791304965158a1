package diskstate

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diskstate/internal/queue"
)

func TestFileDetailSummaryAndArticles(t *testing.T) {
	fsys := afero.NewMemMapFs()
	store := newTestStore(t, fsys, nil)
	want := sampleDetail("Movie.2024.part01.rar")
	require.NoError(t, store.SaveFileDetail(42, want))

	full, err := store.LoadFileDetail(42, false)
	require.NoError(t, err)
	assert.Equal(t, want, full)

	summary, err := store.LoadFileDetail(42, true)
	require.NoError(t, err)
	assert.Nil(t, summary.Articles)
	assert.Equal(t, want.Subject, summary.Subject)
	assert.Equal(t, want.Groups, summary.Groups)
	assert.Equal(t, want.Size, summary.Size)
}

func TestLoadFileDetailMissing(t *testing.T) {
	store := newTestStore(t, afero.NewMemMapFs(), nil)

	_, err := store.LoadFileDetail(9, true)
	assert.ErrorIs(t, err, ErrMissing)
	assert.Equal(t, "missing", Kind(err))
}

func TestLoadFileDetailCorrupt(t *testing.T) {
	fsys := afero.NewMemMapFs()
	store := newTestStore(t, fsys, nil)
	writeRecord(t, fsys, "9", "subject", "name", "1", "not a size")

	_, err := store.LoadFileDetail(9, true)
	var recErr *RecordError
	require.ErrorAs(t, err, &recErr)
	assert.Equal(t, "file detail", recErr.List)
	assert.Equal(t, 4, recErr.Line)
	assert.Equal(t, filepath.Join(testQueueDir, "9"), recErr.Path)
}

func TestLoadArticles(t *testing.T) {
	fsys := afero.NewMemMapFs()
	store := newTestStore(t, fsys, nil)
	detail := sampleDetail("a.rar")
	require.NoError(t, store.SaveFileDetail(5, detail))

	entry := &queue.FileEntry{ID: 5, Detail: queue.FileDetail{Subject: "kept as is"}}
	require.NoError(t, store.LoadArticles(entry))
	assert.Equal(t, detail.Articles, entry.Detail.Articles)
	assert.Equal(t, "kept as is", entry.Detail.Subject)

	missing := &queue.FileEntry{ID: 6}
	assert.ErrorIs(t, store.LoadArticles(missing), ErrMissing)
}

func TestSaveFileDetailReplaces(t *testing.T) {
	fsys := afero.NewMemMapFs()
	store := newTestStore(t, fsys, nil)
	require.NoError(t, store.SaveFileDetail(5, sampleDetail("first.rar")))
	require.NoError(t, store.SaveFileDetail(5, &queue.FileDetail{Filename: "second.rar"}))

	detail, err := store.LoadFileDetail(5, false)
	require.NoError(t, err)
	assert.Equal(t, "second.rar", detail.Filename)
	assert.Empty(t, detail.Groups)
	assert.Empty(t, detail.Articles)
}

func TestDiscardFileDetail(t *testing.T) {
	fsys := afero.NewMemMapFs()
	store := newTestStore(t, fsys, nil)
	require.NoError(t, store.SaveFileDetail(5, sampleDetail("a.rar")))

	require.NoError(t, store.DiscardFileDetail(5))
	_, err := store.LoadFileDetail(5, true)
	assert.ErrorIs(t, err, ErrMissing)

	require.NoError(t, store.DiscardFileDetail(5), "discarding twice is fine")
}

func TestSaveFileDetailReadOnly(t *testing.T) {
	base := afero.NewMemMapFs()
	require.NoError(t, base.MkdirAll(testQueueDir, 0o755))
	store, err := New(Options{QueueDir: testQueueDir, Fs: afero.NewReadOnlyFs(base)})
	require.NoError(t, err)

	err = store.SaveFileDetail(1, sampleDetail("a.rar"))
	assert.Equal(t, "io", Kind(err))
}
