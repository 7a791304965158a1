package diskstate

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"diskstate/internal/queue"
)

// legacyScriptName names the script status synthesized from the single
// script status kept by older layouts.
const legacyScriptName = "SCRIPT"

func encodeJobs(w *recordWriter, jobs []*queue.Job) error {
	w.Int(len(jobs))
	for _, job := range jobs {
		if err := encodeJob(w, job); err != nil {
			return err
		}
	}
	return w.Err()
}

func encodeJob(w *recordWriter, job *queue.Job) error {
	w.Int(job.ID)
	w.Line(job.Filename)
	w.Line(job.DestDir)
	w.Line(job.QueuedFilename)
	w.Line(job.Name)
	w.Line(job.Category)
	w.Int(boolInt(job.PostProcess))
	w.Ints(int(job.ParStatus), int(job.UnpackStatus), int(job.MoveStatus), int(job.RenameStatus))
	w.Int(boolInt(job.UnpackCleanedUpDisk))
	w.Int(job.FileCount)
	w.Int(job.ParkedFileCount)
	w.Size(job.Size)

	w.Int(len(job.CompletedFiles))
	for _, path := range job.CompletedFiles {
		w.Line(relativeToDest(job.DestDir, path))
	}

	w.Int(len(job.Parameters))
	for _, param := range job.Parameters {
		w.Line(param.Name + "=" + param.Value)
	}

	w.Int(len(job.ScriptStatuses))
	for _, script := range job.ScriptStatuses {
		w.Line(strconv.Itoa(int(script.Status)) + "," + script.Name)
	}

	return job.Messages.Locked(func(messages []queue.Message) error {
		w.Int(len(messages))
		for _, msg := range messages {
			w.Line(fmt.Sprintf("%d,%d,%s", int(msg.Kind), unixSeconds(msg.Time), msg.Text))
		}
		return w.Err()
	})
}

// relativeToDest strips the destination directory from files directly
// inside it. Deeper paths are kept whole since decoding only rejoins names
// without a separator.
func relativeToDest(destDir, path string) string {
	if destDir == "" {
		return path
	}
	rest, ok := strings.CutPrefix(path, destDir+string(filepath.Separator))
	if !ok || rest == "" || strings.ContainsRune(rest, filepath.Separator) {
		return path
	}
	return rest
}

func decodeJobs(r *recordReader, version int, opts decodeOptions) ([]*queue.Job, error) {
	count, err := r.Count()
	if err != nil {
		return nil, r.wrap("jobs", err)
	}
	jobs := make([]*queue.Job, 0, listCap(count))
	for i := 0; i < count; i++ {
		job, err := decodeJob(r, version, opts)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func decodeJob(r *recordReader, version int, opts decodeOptions) (*queue.Job, error) {
	job := &queue.Job{}
	for _, step := range jobSteps {
		if !step.applies(version) {
			continue
		}
		if err := step.decode(r, job, version); err != nil {
			return nil, r.wrap("jobs", fmt.Errorf("%s: %w", step.name, err))
		}
	}
	applyJobFixups(job, version, opts)
	return job, nil
}

func applyJobFixups(job *queue.Job, version int, opts decodeOptions) {
	for _, fixup := range jobFixups {
		if version < fixup.before {
			fixup.apply(job, opts)
		}
	}
}

func decodeJobID(r *recordReader, job *queue.Job, _ int) (err error) {
	job.ID, err = r.Int()
	return err
}

func decodeJobFilename(r *recordReader, job *queue.Job, _ int) (err error) {
	job.Filename, err = r.Line()
	return err
}

func decodeJobDestDir(r *recordReader, job *queue.Job, _ int) (err error) {
	job.DestDir, err = r.Line()
	return err
}

func decodeJobQueuedFilename(r *recordReader, job *queue.Job, _ int) (err error) {
	job.QueuedFilename, err = r.Line()
	return err
}

// decodeJobName keeps the default (derived) name when the stored one is empty.
func decodeJobName(r *recordReader, job *queue.Job, _ int) error {
	name, err := r.Line()
	if err != nil {
		return err
	}
	if name != "" {
		job.Name = name
	}
	return nil
}

func decodeJobCategory(r *recordReader, job *queue.Job, _ int) error {
	category, err := r.Line()
	if err != nil {
		return err
	}
	postProcess, err := r.Int()
	if err != nil {
		return err
	}
	job.Category = category
	job.PostProcess = postProcess != 0
	return nil
}

func decodeJobParStatus(r *recordReader, job *queue.Job, _ int) error {
	status, err := r.Int()
	if err != nil {
		return err
	}
	job.ParStatus = queue.ParStatus(status)
	return nil
}

func decodeJobLegacyScriptStatus(r *recordReader, job *queue.Job, version int) error {
	status, err := r.Int()
	if err != nil {
		return err
	}
	addLegacyScriptStatus(job, version, status)
	return nil
}

func decodeJobStatuses(r *recordReader, job *queue.Job, version int) error {
	layout := statusLayout(version)
	values, err := r.Ints(len(layout))
	if err != nil {
		return err
	}
	for i, field := range layout {
		switch field {
		case statusPar:
			job.ParStatus = queue.ParStatus(values[i])
		case statusUnpack:
			job.UnpackStatus = queue.UnpackStatus(values[i])
		case statusScript:
			addLegacyScriptStatus(job, version, values[i])
		case statusMove:
			job.MoveStatus = queue.MoveStatus(values[i])
		case statusRename:
			job.RenameStatus = queue.RenameStatus(values[i])
		}
	}
	return nil
}

func addLegacyScriptStatus(job *queue.Job, version, status int) {
	job.ScriptStatuses = append(job.ScriptStatuses, queue.ScriptStatus{
		Name:   legacyScriptName,
		Status: remapScriptResult(version, status),
	})
}

func decodeJobUnpackCleanup(r *recordReader, job *queue.Job, _ int) error {
	value, err := r.Int()
	if err != nil {
		return err
	}
	job.UnpackCleanedUpDisk = value != 0
	return nil
}

func decodeJobFileCount(r *recordReader, job *queue.Job, _ int) (err error) {
	job.FileCount, err = r.Int()
	return err
}

func decodeJobParkedCount(r *recordReader, job *queue.Job, _ int) (err error) {
	job.ParkedFileCount, err = r.Int()
	return err
}

func decodeJobSize(r *recordReader, job *queue.Job, _ int) (err error) {
	job.Size, err = r.Size()
	return err
}

// decodeJobCompletedFiles restores full paths for entries stored relative to
// the destination directory.
func decodeJobCompletedFiles(r *recordReader, job *queue.Job, _ int) error {
	count, err := r.Count()
	if err != nil {
		return err
	}
	var files []string
	for i := 0; i < count; i++ {
		path, err := r.Line()
		if err != nil {
			return err
		}
		if job.DestDir != "" && !strings.ContainsRune(path, filepath.Separator) {
			path = job.DestDir + string(filepath.Separator) + path
		}
		files = append(files, path)
	}
	job.CompletedFiles = files
	return nil
}

// decodeJobParameters reads name=value lines. Lines without '=' are skipped.
func decodeJobParameters(r *recordReader, job *queue.Job, _ int) error {
	count, err := r.Count()
	if err != nil {
		return err
	}
	for i := 0; i < count; i++ {
		line, err := r.Line()
		if err != nil {
			return err
		}
		name, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		job.Parameters.Set(name, value)
	}
	return nil
}

// decodeJobScriptStatuses reads status,name lines. Lines without ',' are skipped.
func decodeJobScriptStatuses(r *recordReader, job *queue.Job, version int) error {
	count, err := r.Count()
	if err != nil {
		return err
	}
	for i := 0; i < count; i++ {
		line, err := r.Line()
		if err != nil {
			return err
		}
		status, name, ok := strings.Cut(line, ",")
		if !ok {
			continue
		}
		value, err := parseInt(status)
		if err != nil {
			return err
		}
		job.ScriptStatuses = append(job.ScriptStatuses, queue.ScriptStatus{
			Name:   name,
			Status: remapScriptResult(version, value),
		})
	}
	return nil
}

func decodeJobMessages(r *recordReader, job *queue.Job, _ int) error {
	count, err := r.Count()
	if err != nil {
		return err
	}
	for i := 0; i < count; i++ {
		line, err := r.Line()
		if err != nil {
			return err
		}
		parts := strings.SplitN(line, ",", 3)
		if len(parts) < 2 {
			return fmt.Errorf("malformed message %q", line)
		}
		kind, err := parseInt(parts[0])
		if err != nil {
			return err
		}
		at, err := parseInt(parts[1])
		if err != nil {
			return err
		}
		text := ""
		if len(parts) == 3 {
			text = parts[2]
		}
		job.Messages.Append(queue.MessageKind(kind), fromUnix(at), text)
	}
	return nil
}
