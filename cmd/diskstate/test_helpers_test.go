package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"diskstate/internal/diskstate"
	"diskstate/internal/logging"
	"diskstate/internal/queue"
)

type cliTestEnv struct {
	queueDir   string
	tempDir    string
	configPath string
	store      *diskstate.Store
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()
	t.Setenv("DISKSTATE_QUEUE_DIR", "")
	t.Setenv("DISKSTATE_TEMP_DIR", "")

	base := t.TempDir()
	env := &cliTestEnv{
		queueDir:   filepath.Join(base, "queue"),
		tempDir:    filepath.Join(base, "tmp"),
		configPath: filepath.Join(base, "config.toml"),
	}
	for _, dir := range []string{env.queueDir, env.tempDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}

	content := fmt.Sprintf(`[paths]
queue_dir = %q
temp_dir = %q

[queue]
reload_post_queue = true
reload_url_queue = true
continue_partial = true
direct_write = false
unpack = true

[logging]
level = "error"
`, env.queueDir, env.tempDir)
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	store, err := diskstate.New(diskstate.Options{
		QueueDir:        env.queueDir,
		TempDir:         env.tempDir,
		ReloadPostQueue: true,
		ReloadURLQueue:  true,
		Logger:          logging.NewNop(),
	})
	if err != nil {
		t.Fatalf("diskstate.New: %v", err)
	}
	env.store = store
	return env
}

// seedQueue persists a queue with one job, one queued file and one history
// entry, plus the file's side record.
func (e *cliTestEnv) seedQueue(t *testing.T) *queue.Queue {
	t.Helper()
	q := queue.New()
	job := q.AddJob(&queue.Job{
		Filename:   "/nzb/Show.S01E01.nzb",
		DestDir:    "/dl/Show.S01E01",
		Name:       "Show.S01E01",
		Category:   "tv",
		ParStatus:  queue.ParRepairPossible,
		FileCount:  1,
		Size:       700 << 20,
		Parameters: queue.Parameters{{Name: "category", Value: "tv"}},
	})
	q.Files = append(q.Files, &queue.FileEntry{ID: 41, JobID: job.ID, Time: time.Now().Add(-time.Hour)})
	q.History = append(q.History, &queue.HistoryEntry{
		ID:   1,
		Kind: queue.HistoryFetch,
		Time: time.Now().Add(-2 * time.Hour),
		Fetch: &queue.FetchEntry{
			ID: 1, Status: queue.FetchFailed, URL: "https://indexer.example/get/9",
		},
	})

	detail := &queue.FileDetail{
		Subject:  `[1/1] "Show.S01E01.mkv" yEnc`,
		Filename: "Show.S01E01.mkv",
		Size:     700 << 20,
		Groups:   []string{"alt.binaries.tv"},
		Articles: []queue.Article{
			{PartNumber: 1, Size: 716800, MessageID: "<p1@news.example>"},
			{PartNumber: 2, Size: 716800, MessageID: "<p2@news.example>"},
		},
	}
	if err := e.store.SaveFileDetail(41, detail); err != nil {
		t.Fatalf("SaveFileDetail: %v", err)
	}
	if err := e.store.SaveQueue(q); err != nil {
		t.Fatalf("SaveQueue: %v", err)
	}
	return q
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected %q to contain %q", haystack, needle)
	}
}
