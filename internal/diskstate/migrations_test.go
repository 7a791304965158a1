package diskstate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"diskstate/internal/queue"
)

func TestRemapPostStageBoundaries(t *testing.T) {
	tests := []struct {
		version int
		stored  int
		want    queue.PostStage
	}{
		// At or below verifying-repaired nothing moves.
		{3, 4, queue.StageVerifyingRepaired},
		{17, 3, queue.StageRepairing},

		// Every shift applies below 18, one after the other.
		{17, 5, 8},
		{17, 6, 9},

		// 18 and 19: the second and third shifts.
		{18, 5, 6},
		{18, 7, 9},
		{19, 5, 6},
		{19, 6, 8},

		// 20: only the second shift.
		{20, 5, 6},
		{20, 7, 8},

		// 21 and later: stored as is.
		{21, 5, queue.StageRenaming},
		{21, 7, queue.StageMoving},
		{22, 9, queue.StageFinished},
		{26, 6, queue.StageUnpacking},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, remapPostStage(tt.version, tt.stored), "version %d value %d", tt.version, tt.stored)
	}
}

func TestRemapScriptResultBoundaries(t *testing.T) {
	assert.Equal(t, queue.ScriptSuccess, remapScriptResult(24, 3))
	assert.Equal(t, queue.ScriptFailure, remapScriptResult(24, 2))
	assert.Equal(t, queue.ScriptFailure, remapScriptResult(24, 1))
	assert.Equal(t, queue.ScriptNone, remapScriptResult(24, 0))

	assert.Equal(t, queue.ScriptSuccess, remapScriptResult(25, 2))
	assert.Equal(t, queue.ScriptFailure, remapScriptResult(26, 1))
}

func TestStatusLayoutShapes(t *testing.T) {
	assert.Nil(t, statusLayout(17))
	assert.Equal(t, []statusField{statusPar, statusUnpack, statusScript}, statusLayout(18))
	assert.Equal(t, []statusField{statusPar, statusUnpack, statusScript}, statusLayout(19))
	assert.Equal(t, []statusField{statusPar, statusUnpack, statusScript, statusMove}, statusLayout(20))
	assert.Equal(t, []statusField{statusPar, statusUnpack, statusScript, statusMove, statusRename}, statusLayout(21))
	assert.Equal(t, []statusField{statusPar, statusUnpack, statusScript, statusMove, statusRename}, statusLayout(22))
	assert.Equal(t, []statusField{statusPar, statusUnpack, statusMove, statusRename}, statusLayout(23))
	assert.Equal(t, []statusField{statusPar, statusUnpack, statusMove, statusRename}, statusLayout(QueueVersion))
}

func TestEntryFieldCounts(t *testing.T) {
	for version, want := range map[int]int{3: 3, 11: 3, 12: 4, 13: 4, 14: 5, 16: 5, 17: 6, 26: 6} {
		assert.Equal(t, want, fileEntryFields(version), "file entry at %d", version)
	}
	assert.Equal(t, 4, postEntryFields(21))
	assert.Equal(t, 2, postEntryFields(22))
}

func TestJobStepsApply(t *testing.T) {
	step := jobStep{since: 8, until: 18}
	assert.False(t, step.applies(7))
	assert.True(t, step.applies(8))
	assert.True(t, step.applies(17))
	assert.False(t, step.applies(18))

	open := jobStep{since: 24}
	assert.False(t, open.applies(23))
	assert.True(t, open.applies(QueueVersion))
}

func TestInjectUnpackParameter(t *testing.T) {
	job := &queue.Job{}
	injectUnpackParameter(job, decodeOptions{unpackDefault: true})
	value, ok := job.Parameters.Get(UnpackParameter)
	assert.True(t, ok)
	assert.Equal(t, "yes", value)

	job = &queue.Job{}
	injectUnpackParameter(job, decodeOptions{})
	value, _ = job.Parameters.Get(UnpackParameter)
	assert.Equal(t, "no", value)

	job = &queue.Job{}
	job.Parameters.Set("*unpack:", "yes")
	injectUnpackParameter(job, decodeOptions{})
	assert.Len(t, job.Parameters, 1, "an existing value is kept regardless of case")
	value, _ = job.Parameters.Get(UnpackParameter)
	assert.Equal(t, "yes", value)
}
