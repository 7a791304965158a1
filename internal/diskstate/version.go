package diskstate

import (
	"fmt"
	"strconv"
	"strings"
)

// signaturePrefix starts every record that carries a format version. It is
// part of the on-disk format and must match files written by earlier releases.
const signaturePrefix = "nzbget diskstate file version "

const (
	// QueueVersion is the layout written for the main queue record.
	QueueVersion = 26
	// MinQueueVersion is the oldest main queue layout that can be read.
	MinQueueVersion = 3

	// FeedsVersion is the layout written for the feeds record.
	FeedsVersion = 1
	// MinFeedsVersion is the oldest feeds layout that can be read.
	MinFeedsVersion = 1

	// minLegacyPostVersion and maxLegacyPostVersion bound the standalone
	// post-queue record used before the post queue moved into the main record.
	minLegacyPostVersion = 3
	maxLegacyPostVersion = 7
)

// writeSignature writes the signature line for version.
func writeSignature(w *recordWriter, version int) {
	w.Line(signaturePrefix + strconv.Itoa(version))
}

// readSignature parses the signature line from r and returns the version it
// declares. It fails with ErrUnsupported when the prefix does not match or
// the version lies outside [minVersion, maxVersion].
func readSignature(r *recordReader, minVersion, maxVersion int) (int, error) {
	line, err := r.Line()
	if err != nil {
		return 0, r.wrap("signature", err)
	}
	version, ok := parseSignature(line)
	if !ok {
		return 0, fmt.Errorf("%w: unrecognized signature %q", ErrUnsupported, line)
	}
	if version < minVersion || version > maxVersion {
		return 0, fmt.Errorf("%w: version %d outside supported range %d..%d", ErrUnsupported, version, minVersion, maxVersion)
	}
	return version, nil
}

func parseSignature(line string) (int, bool) {
	rest, ok := strings.CutPrefix(line, signaturePrefix)
	if !ok {
		return 0, false
	}
	version, err := strconv.Atoi(strings.TrimSpace(rest))
	if err != nil {
		return 0, false
	}
	return version, true
}
