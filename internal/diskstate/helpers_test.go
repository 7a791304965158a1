package diskstate

import (
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"diskstate/internal/logging"
	"diskstate/internal/queue"
)

const testQueueDir = "/var/lib/dl/queue"

func newTestStore(t *testing.T, fsys afero.Fs, mutate func(*Options)) *Store {
	t.Helper()
	require.NoError(t, fsys.MkdirAll(testQueueDir, 0o755))
	opts := Options{
		QueueDir:        testQueueDir,
		TempDir:         "/var/lib/dl/tmp",
		ReloadPostQueue: true,
		ReloadURLQueue:  true,
		Fs:              fsys,
		Logger:          logging.NewNop(),
	}
	if mutate != nil {
		mutate(&opts)
	}
	store, err := New(opts)
	require.NoError(t, err)
	return store
}

// writeRecord writes lines, each newline terminated, to name in the queue dir.
func writeRecord(t *testing.T, fsys afero.Fs, name string, lines ...string) {
	t.Helper()
	content := strings.Join(lines, "\n") + "\n"
	require.NoError(t, afero.WriteFile(fsys, filepath.Join(testQueueDir, name), []byte(content), 0o644))
}

func readRecord(t *testing.T, fsys afero.Fs, name string) string {
	t.Helper()
	data, err := afero.ReadFile(fsys, filepath.Join(testQueueDir, name))
	require.NoError(t, err)
	return string(data)
}

func signature(version int) string {
	return signaturePrefix + strconv.Itoa(version)
}

func newReader(lines ...string) *recordReader {
	return newRecordReader(strings.NewReader(strings.Join(lines, "\n")+"\n"), "test")
}

func at(seconds int64) time.Time {
	return time.Unix(seconds, 0)
}

// sampleDetail returns a side record with two articles.
func sampleDetail(name string) *queue.FileDetail {
	return &queue.FileDetail{
		Subject:           "[1/2] \"" + name + "\" yEnc",
		Filename:          name,
		FilenameConfirmed: true,
		Size:              6 << 30,
		Groups:            []string{"alt.binaries.test", "alt.binaries.misc"},
		Articles: []queue.Article{
			{PartNumber: 1, Size: 768000, MessageID: "<part1@example>"},
			{PartNumber: 2, Size: 512000, MessageID: "<part2@example>"},
		},
	}
}

// jobView is the comparable part of a job; the message log carries a mutex.
type jobView struct {
	ID                  int
	Filename            string
	DestDir             string
	QueuedFilename      string
	Name                string
	Category            string
	PostProcess         bool
	ParStatus           queue.ParStatus
	UnpackStatus        queue.UnpackStatus
	MoveStatus          queue.MoveStatus
	RenameStatus        queue.RenameStatus
	UnpackCleanedUpDisk bool
	FileCount           int
	ParkedFileCount     int
	Size                int64
	CompletedFiles      []string
	Parameters          queue.Parameters
	ScriptStatuses      []queue.ScriptStatus
	Messages            []queue.Message
}

func viewOf(job *queue.Job) jobView {
	return jobView{
		ID:                  job.ID,
		Filename:            job.Filename,
		DestDir:             job.DestDir,
		QueuedFilename:      job.QueuedFilename,
		Name:                job.Name,
		Category:            job.Category,
		PostProcess:         job.PostProcess,
		ParStatus:           job.ParStatus,
		UnpackStatus:        job.UnpackStatus,
		MoveStatus:          job.MoveStatus,
		RenameStatus:        job.RenameStatus,
		UnpackCleanedUpDisk: job.UnpackCleanedUpDisk,
		FileCount:           job.FileCount,
		ParkedFileCount:     job.ParkedFileCount,
		Size:                job.Size,
		CompletedFiles:      job.CompletedFiles,
		Parameters:          job.Parameters,
		ScriptStatuses:      job.ScriptStatuses,
		Messages:            job.Messages.Snapshot(),
	}
}
