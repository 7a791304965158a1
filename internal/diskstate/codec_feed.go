package diskstate

import (
	"fmt"
	"strings"

	"diskstate/internal/queue"
)

// feedStatus is one persisted feed update time, applied to live feeds by URL.
type feedStatus struct {
	url        string
	lastUpdate int
}

func encodeFeeds(w *recordWriter, feeds []*queue.Feed, history []*queue.FeedHistoryEntry) error {
	w.Int(len(feeds))
	for _, feed := range feeds {
		w.Line(feed.URL)
		w.Int(unixSeconds(feed.LastUpdate))
	}
	w.Int(len(history))
	for _, item := range history {
		w.Ints(int(item.Status), unixSeconds(item.LastSeen))
		w.Line(item.URL)
	}
	return w.Err()
}

func decodeFeedStatus(r *recordReader) ([]feedStatus, error) {
	const list = "feed status"
	count, err := r.Count()
	if err != nil {
		return nil, r.wrap(list, err)
	}
	statuses := make([]feedStatus, 0, listCap(count))
	for i := 0; i < count; i++ {
		url, err := r.Line()
		if err != nil {
			return nil, r.wrap(list, err)
		}
		lastUpdate, err := r.Int()
		if err != nil {
			return nil, r.wrap(list, err)
		}
		statuses = append(statuses, feedStatus{url: url, lastUpdate: lastUpdate})
	}
	return statuses, nil
}

// decodeFeedHistory reads "status, lastSeen" followed by the item URL.
// Whitespace around either number is accepted.
func decodeFeedHistory(r *recordReader) ([]*queue.FeedHistoryEntry, error) {
	const list = "feed history"
	count, err := r.Count()
	if err != nil {
		return nil, r.wrap(list, err)
	}
	items := make([]*queue.FeedHistoryEntry, 0, listCap(count))
	for i := 0; i < count; i++ {
		line, err := r.Line()
		if err != nil {
			return nil, r.wrap(list, err)
		}
		status, lastSeen, ok := strings.Cut(line, ",")
		if !ok {
			return nil, r.wrap(list, fmt.Errorf("malformed feed history %q", line))
		}
		statusValue, err := parseInt(status)
		if err != nil {
			return nil, r.wrap(list, err)
		}
		seen, err := parseInt(lastSeen)
		if err != nil {
			return nil, r.wrap(list, err)
		}
		url, err := r.Line()
		if err != nil {
			return nil, r.wrap(list, err)
		}
		items = append(items, &queue.FeedHistoryEntry{
			URL:      url,
			Status:   queue.FeedItemStatus(statusValue),
			LastSeen: fromUnix(seen),
		})
	}
	return items, nil
}

// applyFeedStatus copies persisted update times onto every live feed whose
// URL matches. Unknown URLs are ignored.
func applyFeedStatus(feeds []*queue.Feed, statuses []feedStatus) {
	for _, status := range statuses {
		for _, feed := range feeds {
			if feed.URL == status.url {
				feed.LastUpdate = fromUnix(status.lastUpdate)
			}
		}
	}
}
