package diskstate

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// maxLineLength bounds a single record line. Real records stay far below it;
// anything longer is treated as corruption rather than silently truncated.
const maxLineLength = 64 * 1024

var (
	// ErrLineTooLong indicates a line longer than maxLineLength.
	ErrLineTooLong = errors.New("line too long")

	// ErrInvalidEncoding indicates a line carrying a NUL byte.
	ErrInvalidEncoding = errors.New("line contains NUL byte")
)

// recordReader yields the lines of a record stream with their terminators
// removed and tracks the current line number for error reporting.
type recordReader struct {
	r    *bufio.Reader
	path string
	line int
}

func newRecordReader(r io.Reader, path string) *recordReader {
	return &recordReader{r: bufio.NewReader(r), path: path}
}

// Line returns the next line. A final line without a terminator is
// accepted; reading past the end returns io.ErrUnexpectedEOF.
func (r *recordReader) Line() (string, error) {
	var buf []byte
	for {
		chunk, err := r.r.ReadSlice('\n')
		buf = append(buf, chunk...)
		if len(buf) > maxLineLength+2 {
			r.line++
			return "", ErrLineTooLong
		}
		if err == nil {
			break
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if errors.Is(err, io.EOF) {
			if len(buf) == 0 {
				return "", io.ErrUnexpectedEOF
			}
			break
		}
		return "", &IOError{Op: "read", Path: r.path, Err: err}
	}
	r.line++

	buf = bytes.TrimSuffix(buf, []byte("\n"))
	buf = bytes.TrimSuffix(buf, []byte("\r"))
	if len(buf) > maxLineLength {
		return "", ErrLineTooLong
	}
	if bytes.IndexByte(buf, 0) >= 0 {
		return "", ErrInvalidEncoding
	}
	return string(buf), nil
}

// Int reads a line holding a single integer.
func (r *recordReader) Int() (int, error) {
	line, err := r.Line()
	if err != nil {
		return 0, err
	}
	return parseInt(line)
}

// Count reads a non-negative list length.
func (r *recordReader) Count() (int, error) {
	n, err := r.Int()
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative count %d", n)
	}
	return n, nil
}

// listCap bounds the capacity preallocated for a list whose length was read
// from a record. The slice grows past it by append if the entries are there.
func listCap(count int) int {
	return min(count, 256)
}

// Ints reads a line of exactly n comma separated integers.
func (r *recordReader) Ints(n int) ([]int, error) {
	line, err := r.Line()
	if err != nil {
		return nil, err
	}
	return parseInts(line, n)
}

// Size reads a 64-bit value stored as "high,low" 32-bit halves.
func (r *recordReader) Size() (int64, error) {
	line, err := r.Line()
	if err != nil {
		return 0, err
	}
	high, low, ok := strings.Cut(line, ",")
	if !ok {
		return 0, fmt.Errorf("malformed size %q", line)
	}
	hi, err := strconv.ParseUint(strings.TrimSpace(high), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("malformed size %q: %w", line, err)
	}
	lo, err := strconv.ParseUint(strings.TrimSpace(low), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("malformed size %q: %w", line, err)
	}
	return int64(hi<<32 | lo), nil
}

// wrap attaches list and line context to a decode failure. I/O failures and
// errors that already carry context pass through unchanged.
func (r *recordReader) wrap(list string, err error) error {
	if err == nil {
		return nil
	}
	var ioErr *IOError
	if errors.As(err, &ioErr) {
		return err
	}
	var recErr *RecordError
	if errors.As(err, &recErr) {
		return err
	}
	return &RecordError{Path: r.path, List: list, Line: r.line, Err: err}
}

func parseInt(value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("malformed integer %q", value)
	}
	return n, nil
}

func parseInts(line string, n int) ([]int, error) {
	fields := strings.Split(line, ",")
	if len(fields) != n {
		return nil, fmt.Errorf("expected %d fields, got %d in %q", n, len(fields), line)
	}
	values := make([]int, n)
	for i, field := range fields {
		v, err := parseInt(field)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

// recordWriter emits record lines. The first write error sticks and all
// later writes become no-ops, so callers check Err once at the end.
type recordWriter struct {
	w   io.Writer
	err error
}

func newRecordWriter(w io.Writer) *recordWriter {
	return &recordWriter{w: w}
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// Line writes s as one line. Embedded line breaks would split the record,
// so they are replaced with spaces.
func (w *recordWriter) Line(s string) {
	if w.err != nil {
		return
	}
	if strings.ContainsAny(s, "\r\n") {
		s = lineBreaks.Replace(s)
	}
	_, w.err = io.WriteString(w.w, s+"\n")
}

// Int writes a single integer line.
func (w *recordWriter) Int(v int) {
	w.Line(strconv.Itoa(v))
}

// Ints writes a comma separated integer line.
func (w *recordWriter) Ints(values ...int) {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	w.Line(strings.Join(parts, ","))
}

// Size writes v as "high,low" 32-bit halves.
func (w *recordWriter) Size(v int64) {
	u := uint64(v)
	w.Line(strconv.FormatUint(u>>32, 10) + "," + strconv.FormatUint(u&0xffffffff, 10))
}

func (w *recordWriter) Err() error { return w.err }

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func unixSeconds(t time.Time) int {
	if t.IsZero() {
		return 0
	}
	return int(t.Unix())
}

func fromUnix(seconds int) time.Time {
	if seconds == 0 {
		return time.Time{}
	}
	return time.Unix(int64(seconds), 0)
}
