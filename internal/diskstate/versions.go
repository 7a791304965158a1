package diskstate

// Format versions at which fields of the main queue record appeared,
// changed shape or went away. A field introduced at version v is present in
// every file with version >= v.
const (
	sinceCategory        = 4  // job category and post-process flag; completed files
	sinceQueuedFilename  = 5  // job queued filename
	sinceParameters      = 6  // job parameter list
	sincePostQueue       = 7  // post queue moved into the main record
	sinceParStatus       = 8  // single job par status (until sinceStatusTuple)
	sinceHistory         = 9  // history and parked lists; single script status
	sinceParkedCount     = 10 // job parked file count
	sinceMessages        = 11 // job message log
	sinceFileTime        = 12 // file entry enqueue time
	sinceJobName         = 13 // job display name
	sinceFilePriority    = 14 // file entry priority
	sinceFetchQueue      = 15 // fetch queue; history kind discriminator
	sinceFetchFlags      = 16 // fetch add-top and add-paused flags
	sinceExtraPriority   = 17 // file entry extra-priority flag
	sinceStatusTuple     = 18 // job statuses on one comma separated line
	sinceUnpackCleanup   = 19 // job unpack-cleaned-up-disk flag
	sinceCompactPost     = 22 // post entry without unused fields and par filename line
	sinceScriptList      = 23 // per-script status list replaces the single status
	sinceEntityIDs       = 24 // job, fetch and history IDs
	sinceScriptResultMap = 25 // script results stored with the current numbering
	sinceUnpackParameter = 26 // "*Unpack:" parameter always present
)

// statusField names one value of the job status line.
type statusField int

const (
	statusPar statusField = iota
	statusUnpack
	statusScript
	statusMove
	statusRename
)

// statusLayouts lists the shapes of the job status line, newest first.
var statusLayouts = []struct {
	since  int
	fields []statusField
}{
	{since: sinceScriptList, fields: []statusField{statusPar, statusUnpack, statusMove, statusRename}},
	{since: 21, fields: []statusField{statusPar, statusUnpack, statusScript, statusMove, statusRename}},
	{since: 20, fields: []statusField{statusPar, statusUnpack, statusScript, statusMove}},
	{since: sinceStatusTuple, fields: []statusField{statusPar, statusUnpack, statusScript}},
}

func statusLayout(version int) []statusField {
	for _, layout := range statusLayouts {
		if version >= layout.since {
			return layout.fields
		}
	}
	return nil
}

// fileEntryLayouts gives the number of fields on a file entry line, newest
// first. Fields are always id, ordinal, paused, time, priority, extra
// priority, truncated to the count.
var fileEntryLayouts = []struct {
	since  int
	fields int
}{
	{since: sinceExtraPriority, fields: 6},
	{since: sinceFilePriority, fields: 5},
	{since: sinceFileTime, fields: 4},
	{since: MinQueueVersion, fields: 3},
}

func fileEntryFields(version int) int {
	for _, layout := range fileEntryLayouts {
		if version >= layout.since {
			return layout.fields
		}
	}
	return 3
}

// postEntryFields gives the number of fields on a post entry line. Older
// layouts carry two unused values between the ordinal and the stage.
func postEntryFields(version int) int {
	if version >= sinceCompactPost {
		return 2
	}
	return 4
}
