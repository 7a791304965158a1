package queue

import (
	"strconv"
	"strings"
)

// The numeric values of the enumerations below are part of the persisted
// format. Never reorder them; append new values at the end.

// ParStatus is the outcome of the par check/repair step.
type ParStatus int

const (
	ParNone ParStatus = iota
	ParSkipped
	ParFailure
	ParSuccess
	ParRepairPossible
	ParManual
)

var parStatusNames = []string{"none", "skipped", "failure", "success", "repair-possible", "manual"}

func (s ParStatus) String() string { return enumName(parStatusNames, int(s)) }

// UnpackStatus is the outcome of the unpack step.
type UnpackStatus int

const (
	UnpackNone UnpackStatus = iota
	UnpackSkipped
	UnpackFailure
	UnpackSuccess
)

var unpackStatusNames = []string{"none", "skipped", "failure", "success"}

func (s UnpackStatus) String() string { return enumName(unpackStatusNames, int(s)) }

// MoveStatus is the outcome of moving files to the destination.
type MoveStatus int

const (
	MoveNone MoveStatus = iota
	MoveFailure
	MoveSuccess
)

var moveStatusNames = []string{"none", "failure", "success"}

func (s MoveStatus) String() string { return enumName(moveStatusNames, int(s)) }

// RenameStatus is the outcome of the rename step.
type RenameStatus int

const (
	RenameNone RenameStatus = iota
	RenameSkipped
	RenameFailure
	RenameSuccess
)

var renameStatusNames = []string{"none", "skipped", "failure", "success"}

func (s RenameStatus) String() string { return enumName(renameStatusNames, int(s)) }

// ScriptResult is the outcome of one post-processing script.
type ScriptResult int

const (
	ScriptNone ScriptResult = iota
	ScriptFailure
	ScriptSuccess
)

var scriptResultNames = []string{"none", "failure", "success"}

func (s ScriptResult) String() string { return enumName(scriptResultNames, int(s)) }

// PostStage is the ordered post-processing stage of a job.
type PostStage int

const (
	StageQueued PostStage = iota
	StageLoadingPars
	StageVerifyingSources
	StageRepairing
	StageVerifyingRepaired
	StageRenaming
	StageUnpacking
	StageMoving
	StageExecutingScript
	StageFinished
)

var postStageNames = []string{
	"queued",
	"loading-pars",
	"verifying-sources",
	"repairing",
	"verifying-repaired",
	"renaming",
	"unpacking",
	"moving",
	"executing-script",
	"finished",
}

func (s PostStage) String() string { return enumName(postStageNames, int(s)) }

// AllPostStages returns the stages in processing order.
func AllPostStages() []PostStage {
	stages := make([]PostStage, len(postStageNames))
	for i := range postStageNames {
		stages[i] = PostStage(i)
	}
	return stages
}

// ParsePostStage converts a stage name into a PostStage.
func ParsePostStage(value string) (PostStage, bool) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for i, name := range postStageNames {
		if name == normalized {
			return PostStage(i), true
		}
	}
	return 0, false
}

// FetchStatus is the state of a remote fetch.
type FetchStatus int

const (
	FetchNone FetchStatus = iota
	FetchRunning
	FetchFinished
	FetchFailed
	FetchRetry
)

var fetchStatusNames = []string{"none", "running", "finished", "failed", "retry"}

func (s FetchStatus) String() string { return enumName(fetchStatusNames, int(s)) }

// HistoryKind selects which payload a history entry carries.
type HistoryKind int

const (
	HistoryUnknown HistoryKind = iota
	HistoryJob
	HistoryFetch
)

var historyKindNames = []string{"unknown", "job", "fetch"}

func (k HistoryKind) String() string { return enumName(historyKindNames, int(k)) }

// FeedItemStatus is the state of an item remembered in feed history.
type FeedItemStatus int

const (
	FeedItemUnknown FeedItemStatus = iota
	FeedItemBacklog
	FeedItemFetched
)

var feedItemStatusNames = []string{"unknown", "backlog", "fetched"}

func (s FeedItemStatus) String() string { return enumName(feedItemStatusNames, int(s)) }

// MessageKind is the severity of a job log message.
type MessageKind int

const (
	MessageInfo MessageKind = iota
	MessageWarning
	MessageError
	MessageDebug
	MessageDetail
)

var messageKindNames = []string{"info", "warning", "error", "debug", "detail"}

func (k MessageKind) String() string { return enumName(messageKindNames, int(k)) }

func enumName(names []string, value int) string {
	if value >= 0 && value < len(names) {
		return names[value]
	}
	return "unknown(" + strconv.Itoa(value) + ")"
}
