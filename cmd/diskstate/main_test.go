package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"diskstate/internal/diskstate"
)

func TestInspectWithoutRecord(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"inspect"}, env.configPath)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	requireContains(t, out, "No queue record")
}

func TestInspectTable(t *testing.T) {
	env := setupCLITestEnv(t)
	env.seedQueue(t)

	out, _, err := runCLI(t, []string{"inspect"}, env.configPath)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	requireContains(t, out, "Format version: 26")
	requireContains(t, out, "Show.S01E01")
	requireContains(t, out, "Repair-Possible")
	requireContains(t, out, "File Queue (1)")
	requireContains(t, out, "Show.S01E01.mkv")
	requireContains(t, out, "https://indexer.example/get/9")
}

func TestInspectJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	env.seedQueue(t)

	out, _, err := runCLI(t, []string{"--json", "inspect"}, env.configPath)
	if err != nil {
		t.Fatalf("inspect --json: %v", err)
	}
	var view queueView
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode inspect output: %v\n%s", err, out)
	}
	if view.Version != diskstate.QueueVersion {
		t.Fatalf("version = %d, want %d", view.Version, diskstate.QueueVersion)
	}
	if len(view.Jobs) != 1 || view.Jobs[0].Parameters["category"] != "tv" {
		t.Fatalf("unexpected jobs: %+v", view.Jobs)
	}
	if len(view.Files) != 1 || view.Files[0].JobID != view.Jobs[0].ID {
		t.Fatalf("file not linked to its job: %+v", view.Files)
	}
	if len(view.History) != 1 || view.History[0].Fetch == nil {
		t.Fatalf("unexpected history: %+v", view.History)
	}
}

func TestInspectCorruptRecord(t *testing.T) {
	env := setupCLITestEnv(t)
	record := "nzbget diskstate file version 26\n1\n"
	if err := os.WriteFile(filepath.Join(env.queueDir, "queue"), []byte(record), 0o644); err != nil {
		t.Fatalf("write record: %v", err)
	}

	_, _, err := runCLI(t, []string{"inspect"}, env.configPath)
	if err == nil {
		t.Fatal("expected inspect to fail on a truncated record")
	}
	requireContains(t, err.Error(), "corrupt")
}

func TestInspectRejectsBothFormats(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"--json", "--yaml", "inspect"}, env.configPath); err == nil {
		t.Fatal("expected --json and --yaml together to fail")
	}
}

func TestArticlesCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	env.seedQueue(t)

	out, _, err := runCLI(t, []string{"articles", "41"}, env.configPath)
	if err != nil {
		t.Fatalf("articles: %v", err)
	}
	requireContains(t, out, "File 41: Show.S01E01.mkv")
	requireContains(t, out, "<p2@news.example>")

	out, _, err = runCLI(t, []string{"--yaml", "articles", "41"}, env.configPath)
	if err != nil {
		t.Fatalf("articles --yaml: %v", err)
	}
	var view detailView
	if err := yaml.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode articles output: %v\n%s", err, out)
	}
	if len(view.Articles) != 2 || view.Articles[1].MessageID != "<p2@news.example>" {
		t.Fatalf("unexpected articles: %+v", view.Articles)
	}

	if _, _, err := runCLI(t, []string{"articles", "99"}, env.configPath); err == nil {
		t.Fatal("expected missing side record to fail")
	} else {
		requireContains(t, err.Error(), "no side record for file 99")
	}
	if _, _, err := runCLI(t, []string{"articles", "abc"}, env.configPath); err == nil {
		t.Fatal("expected invalid id to fail")
	}
}

func TestFeedsCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"feeds"}, env.configPath)
	if err != nil {
		t.Fatalf("feeds: %v", err)
	}
	requireContains(t, out, "Feed History (0)")

	record := strings.Join([]string{
		"nzbget diskstate file version 1",
		"1",
		"https://indexer.example/rss",
		"1700000000",
		"1",
		"2,1700000100",
		"https://indexer.example/get/1",
	}, "\n") + "\n"
	if err := os.WriteFile(filepath.Join(env.queueDir, "feeds"), []byte(record), 0o644); err != nil {
		t.Fatalf("write feeds: %v", err)
	}

	out, _, err = runCLI(t, []string{"--json", "feeds", "--feed", "https://indexer.example/rss"}, env.configPath)
	if err != nil {
		t.Fatalf("feeds --json: %v", err)
	}
	var view feedsView
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode feeds output: %v\n%s", err, out)
	}
	if len(view.Feeds) != 1 || view.Feeds[0].LastUpdate.Unix() != 1700000000 {
		t.Fatalf("unexpected feeds: %+v", view.Feeds)
	}
	if len(view.History) != 1 || view.History[0].Status != "fetched" {
		t.Fatalf("unexpected feed history: %+v", view.History)
	}
}

func TestDiscardCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	env.seedQueue(t)

	if _, _, err := runCLI(t, []string{"discard"}, env.configPath); err == nil {
		t.Fatal("expected discard without --yes to fail")
	}
	if _, err := os.Stat(filepath.Join(env.queueDir, "queue")); err != nil {
		t.Fatalf("queue record should survive an unconfirmed discard: %v", err)
	}

	out, _, err := runCLI(t, []string{"discard", "--yes"}, env.configPath)
	if err != nil {
		t.Fatalf("discard: %v", err)
	}
	requireContains(t, out, "Removed 2 files")
	for _, name := range []string{"queue", "41"} {
		if _, err := os.Stat(filepath.Join(env.queueDir, name)); !os.IsNotExist(err) {
			t.Fatalf("%s should be removed, stat err = %v", name, err)
		}
	}
}

func TestCommandsRefuseLockedQueue(t *testing.T) {
	env := setupCLITestEnv(t)
	lock, err := diskstate.AcquireLock(env.queueDir)
	if err != nil {
		t.Fatalf("AcquireLock: %v", err)
	}
	defer lock.Release()

	_, _, err = runCLI(t, []string{"inspect"}, env.configPath)
	if err == nil {
		t.Fatal("expected inspect to fail while the queue is locked")
	}
	requireContains(t, err.Error(), "locked")
}

func TestCleanupCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	env.seedQueue(t)
	for _, name := range []string{"41.2", "41.out", "77.1", "x.tmp", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(env.tempDir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	out, _, err := runCLI(t, []string{"cleanup", "--dry-run"}, env.configPath)
	if err != nil {
		t.Fatalf("cleanup --dry-run: %v", err)
	}
	requireContains(t, out, "3 of 5 files would be removed")
	if _, err := os.Stat(filepath.Join(env.tempDir, "x.tmp")); err != nil {
		t.Fatalf("dry run removed a file: %v", err)
	}

	out, _, err = runCLI(t, []string{"cleanup"}, env.configPath)
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	requireContains(t, out, "Removed 3 files")

	for name, kept := range map[string]bool{
		"41.2":      true,
		"41.out":    false,
		"77.1":      false,
		"x.tmp":     false,
		"notes.txt": true,
	} {
		_, err := os.Stat(filepath.Join(env.tempDir, name))
		if kept && err != nil {
			t.Fatalf("%s should be kept: %v", name, err)
		}
		if !kept && !os.IsNotExist(err) {
			t.Fatalf("%s should be removed, stat err = %v", name, err)
		}
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"locked", fmt.Errorf("%w; stop the running daemon first", diskstate.ErrLocked), exitLocked},
		{"unsupported", fmt.Errorf("load: %w", diskstate.ErrUnsupported), exitRecord},
		{"corrupt", &diskstate.RecordError{Path: "queue", Err: errors.New("bad line")}, exitRecord},
		{"plain", errors.New("boom"), exitFailure},
	}
	for _, tt := range tests {
		if got := exitCode(tt.err); got != tt.want {
			t.Errorf("%s: exitCode = %d, want %d", tt.name, got, tt.want)
		}
	}
}
