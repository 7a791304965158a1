package diskstate

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diskstate/internal/queue"
)

func TestFeedsRoundTrip(t *testing.T) {
	fsys := afero.NewMemMapFs()
	store := newTestStore(t, fsys, nil)

	saved := []*queue.Feed{
		{URL: "https://indexer.example/rss?t=tv", LastUpdate: at(1700000000)},
		{URL: "https://indexer.example/rss?t=movies", LastUpdate: at(1700000500)},
	}
	history := []*queue.FeedHistoryEntry{
		{URL: "https://indexer.example/get/1", Status: queue.FeedItemFetched, LastSeen: at(1699990000)},
		{URL: "https://indexer.example/get/2", Status: queue.FeedItemBacklog, LastSeen: at(1699995000)},
	}
	require.NoError(t, store.SaveFeeds(saved, history))

	live := []*queue.Feed{
		{URL: "https://indexer.example/rss?t=movies"},
		{URL: "https://indexer.example/rss?t=new"},
		{URL: "https://indexer.example/rss?t=tv"},
	}
	got, err := store.LoadFeeds(live)
	require.NoError(t, err)
	assert.Equal(t, history, got)
	assert.Equal(t, at(1700000500), live[0].LastUpdate)
	assert.True(t, live[1].LastUpdate.IsZero(), "feeds unknown to the record are left alone")
	assert.Equal(t, at(1700000000), live[2].LastUpdate)
}

func TestLoadFeedsMissing(t *testing.T) {
	store := newTestStore(t, afero.NewMemMapFs(), nil)

	history, err := store.LoadFeeds(nil)
	require.NoError(t, err)
	assert.Nil(t, history)
}

func TestSaveFeedsEmptyRemovesRecord(t *testing.T) {
	fsys := afero.NewMemMapFs()
	store := newTestStore(t, fsys, nil)
	require.NoError(t, store.SaveFeeds([]*queue.Feed{{URL: "https://a.example/rss"}}, nil))

	require.NoError(t, store.SaveFeeds(nil, nil))
	exists, err := afero.Exists(fsys, store.feedsPath())
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLoadFeedsAcceptsSpacedHistory(t *testing.T) {
	fsys := afero.NewMemMapFs()
	store := newTestStore(t, fsys, nil)
	writeRecord(t, fsys, feedsFileName,
		signature(1),
		"0",
		"1",
		"2, 1700000000",
		"https://indexer.example/get/9",
	)

	history, err := store.LoadFeeds(nil)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, queue.FeedItemFetched, history[0].Status)
	assert.Equal(t, at(1700000000), history[0].LastSeen)
}

func TestLoadFeedsCorruptLeavesFeedsUntouched(t *testing.T) {
	fsys := afero.NewMemMapFs()
	store := newTestStore(t, fsys, nil)
	writeRecord(t, fsys, feedsFileName,
		signature(1),
		"1",
		"https://a.example/rss", "1700000000",
		"1",
		"no comma here",
		"https://indexer.example/get/9",
	)

	live := []*queue.Feed{{URL: "https://a.example/rss"}}
	history, err := store.LoadFeeds(live)
	assert.Nil(t, history)
	assert.ErrorIs(t, err, ErrCorruptRecord)
	assert.True(t, live[0].LastUpdate.IsZero())
}

func TestLoadFeedsOversizedCount(t *testing.T) {
	tests := map[string][]string{
		"feeds":   {signature(1), "9223372036854775807"},
		"history": {signature(1), "0", "9223372036854775807"},
	}
	for name, lines := range tests {
		t.Run(name, func(t *testing.T) {
			fsys := afero.NewMemMapFs()
			store := newTestStore(t, fsys, nil)
			writeRecord(t, fsys, feedsFileName, lines...)

			history, err := store.LoadFeeds(nil)
			assert.Nil(t, history)
			assert.ErrorIs(t, err, ErrCorruptRecord)
		})
	}
}

func TestLoadFeedsUnsupportedVersion(t *testing.T) {
	fsys := afero.NewMemMapFs()
	store := newTestStore(t, fsys, nil)
	writeRecord(t, fsys, feedsFileName, signature(2), "0", "0")

	_, err := store.LoadFeeds(nil)
	assert.ErrorIs(t, err, ErrUnsupported)
}
