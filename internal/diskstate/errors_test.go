package diskstate

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{errors.New("other"), ""},
		{fmt.Errorf("load: %w", ErrUnsupported), "unsupported"},
		{fmt.Errorf("file 3: %w", ErrMissing), "missing"},
		{fmt.Errorf("%w: %w", ErrInvalidQueue, ErrOutOfRange), "invalid"},
		{&RecordError{List: "jobs", Err: io.ErrUnexpectedEOF}, "corrupt"},
		{&RecordError{List: "jobs", Err: ErrOutOfRange}, "corrupt"},
		{&IOError{Op: "open", Path: "/q/queue", Err: errors.New("denied")}, "io"},
		{fmt.Errorf("wrapped: %w", &IOError{Op: "save", Err: errors.New("full")}), "io"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Kind(tt.err), "%v", tt.err)
	}
}

func TestRecordErrorMessage(t *testing.T) {
	err := &RecordError{Path: "/q/queue", List: "file queue", Line: 12, Err: errors.New("expected 6 fields")}
	assert.Equal(t, "/q/queue: file queue: line 12: expected 6 fields", err.Error())

	err = &RecordError{List: "jobs", Err: errors.New("duplicate job id 5")}
	assert.Equal(t, "jobs: duplicate job id 5", err.Error())
}

func TestRecordErrorMatchesCorrupt(t *testing.T) {
	err := fmt.Errorf("load: %w", &RecordError{List: "history", Err: ErrOutOfRange})
	assert.ErrorIs(t, err, ErrCorruptRecord)
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.NotErrorIs(t, err, ErrMissing)
}
