package diskstate

import "diskstate/internal/queue"

// enumShift moves a legacy enumeration value into the current numbering: in
// files older than before, values greater than above are moved by delta.
type enumShift struct {
	before int
	above  int
	delta  int
}

// applyShifts runs every shift in order against value, each using the
// file's declared version. Later shifts see the result of earlier ones.
func applyShifts(shifts []enumShift, version, value int) int {
	for _, shift := range shifts {
		if version < shift.before && value > shift.above {
			value += shift.delta
		}
	}
	return value
}

// postStageShifts account for stages inserted into the middle of the post
// stage range. The first two share a threshold value and both apply to
// files older than version 18.
var postStageShifts = []enumShift{
	{before: sinceStatusTuple, above: int(queue.StageVerifyingRepaired), delta: 1},
	{before: 21, above: int(queue.StageVerifyingRepaired), delta: 1},
	{before: 20, above: int(queue.StageUnpacking), delta: 1},
}

// scriptResultShifts drop the retired value that used to sit at 2.
var scriptResultShifts = []enumShift{
	{before: sinceScriptResultMap, above: int(queue.ScriptFailure), delta: -1},
}

func remapPostStage(version, value int) queue.PostStage {
	return queue.PostStage(applyShifts(postStageShifts, version, value))
}

func remapScriptResult(version, value int) queue.ScriptResult {
	return queue.ScriptResult(applyShifts(scriptResultShifts, version, value))
}

// decodeOptions carries the caller's configuration values that decoding
// needs. Nothing else is consulted during a decode.
type decodeOptions struct {
	unpackDefault bool
}

// jobStep reads one field group of a job. It applies to files with
// since <= version and, when until is set, version < until.
type jobStep struct {
	name   string
	since  int
	until  int
	decode func(r *recordReader, job *queue.Job, version int) error
}

func (s jobStep) applies(version int) bool {
	return version >= s.since && (s.until == 0 || version < s.until)
}

// jobSteps is the job layout across all supported versions, in stream order.
var jobSteps = []jobStep{
	{name: "id", since: sinceEntityIDs, decode: decodeJobID},
	{name: "filename", since: MinQueueVersion, decode: decodeJobFilename},
	{name: "destination", since: MinQueueVersion, decode: decodeJobDestDir},
	{name: "queued filename", since: sinceQueuedFilename, decode: decodeJobQueuedFilename},
	{name: "name", since: sinceJobName, decode: decodeJobName},
	{name: "category", since: sinceCategory, decode: decodeJobCategory},
	{name: "par status", since: sinceParStatus, until: sinceStatusTuple, decode: decodeJobParStatus},
	{name: "script status", since: sinceHistory, until: sinceStatusTuple, decode: decodeJobLegacyScriptStatus},
	{name: "statuses", since: sinceStatusTuple, decode: decodeJobStatuses},
	{name: "unpack cleanup", since: sinceUnpackCleanup, decode: decodeJobUnpackCleanup},
	{name: "file count", since: MinQueueVersion, decode: decodeJobFileCount},
	{name: "parked file count", since: sinceParkedCount, decode: decodeJobParkedCount},
	{name: "size", since: MinQueueVersion, decode: decodeJobSize},
	{name: "completed files", since: sinceCategory, decode: decodeJobCompletedFiles},
	{name: "parameters", since: sinceParameters, decode: decodeJobParameters},
	{name: "script statuses", since: sinceScriptList, decode: decodeJobScriptStatuses},
	{name: "messages", since: sinceMessages, decode: decodeJobMessages},
}

// jobFixup adjusts a fully decoded job from a file older than before.
type jobFixup struct {
	name   string
	before int
	apply  func(job *queue.Job, opts decodeOptions)
}

var jobFixups = []jobFixup{
	{name: "unpack parameter", before: sinceUnpackParameter, apply: injectUnpackParameter},
}

// UnpackParameter is the job parameter that enables unpacking.
const UnpackParameter = "*Unpack:"

func injectUnpackParameter(job *queue.Job, opts decodeOptions) {
	if _, ok := job.Parameters.Get(UnpackParameter); ok {
		return
	}
	value := "no"
	if opts.unpackDefault {
		value = "yes"
	}
	job.Parameters.Set(UnpackParameter, value)
}
