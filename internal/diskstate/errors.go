package diskstate

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupported indicates a record whose signature or version this
	// build cannot read.
	ErrUnsupported = errors.New("unsupported format version")

	// ErrCorruptRecord indicates a malformed or truncated field.
	ErrCorruptRecord = errors.New("corrupt record")

	// ErrOutOfRange indicates a job ordinal that does not resolve. It is
	// reported wrapped in a RecordError, so it also matches ErrCorruptRecord.
	ErrOutOfRange = errors.New("job reference out of range")

	// ErrMissing indicates an absent side record.
	ErrMissing = errors.New("side record missing")

	// ErrInvalidQueue indicates in-memory state that cannot be saved, such
	// as an entry referencing a job that is not in the job list.
	ErrInvalidQueue = errors.New("invalid queue state")
)

// ErrorClassifier lets callers map failures to a short kind without
// matching every sentinel.
type ErrorClassifier interface {
	ErrorKind() string
}

// RecordError reports a decode failure inside one list of a record stream.
type RecordError struct {
	Path string
	List string
	Line int
	Err  error
}

func (e *RecordError) Error() string {
	msg := e.List
	if e.Line > 0 {
		msg = fmt.Sprintf("%s: line %d", msg, e.Line)
	}
	if e.Path != "" {
		msg = e.Path + ": " + msg
	}
	return fmt.Sprintf("%s: %v", msg, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }

// Is makes every RecordError match ErrCorruptRecord.
func (e *RecordError) Is(target error) bool { return target == ErrCorruptRecord }

func (e *RecordError) ErrorKind() string { return "corrupt" }

// IOError reports a filesystem failure together with the offending path.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string { return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err) }

func (e *IOError) Unwrap() error { return e.Err }

func (e *IOError) ErrorKind() string { return "io" }

// Kind classifies err as "unsupported", "corrupt", "missing", "invalid",
// "io" or "".
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnsupported):
		return "unsupported"
	case errors.Is(err, ErrMissing):
		return "missing"
	case errors.Is(err, ErrInvalidQueue):
		return "invalid"
	}
	var classifier ErrorClassifier
	if errors.As(err, &classifier) {
		return classifier.ErrorKind()
	}
	if errors.Is(err, ErrCorruptRecord) {
		return "corrupt"
	}
	return ""
}
