package status

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformed is returned when the upstream payload does not match the
// stub_status grammar. Parse never returns a partial Snapshot.
var ErrMalformed = errors.New("malformed stub_status payload")

const acceptsHeader = "server accepts handled requests"

// Parse converts a raw stub_status payload into a Snapshot.
//
// The expected payload is:
//
//	Active connections: 291
//	server accepts handled requests
//	 16630948 16630948 31070465
//	Reading: 6 Writing: 179 Waiting: 106
//
// The "server accepts handled requests" header line is optional. Trailing
// whitespace and CRLF line endings are tolerated; anything structurally
// different is rejected outright.
func Parse(raw string) (Snapshot, error) {
	var snap Snapshot

	lines := splitLines(raw)
	if len(lines) == 0 {
		return snap, fmt.Errorf("%w: empty payload", ErrMalformed)
	}

	active, ok := strings.CutPrefix(lines[0], "Active connections:")
	if !ok {
		return snap, fmt.Errorf("%w: missing active connections line", ErrMalformed)
	}
	var err error
	if snap.Active, err = parseUint(active); err != nil {
		return snap, err
	}
	lines = lines[1:]

	if len(lines) > 0 && lines[0] == acceptsHeader {
		lines = lines[1:]
	}

	if len(lines) < 2 {
		return snap, fmt.Errorf("%w: truncated payload", ErrMalformed)
	}

	counters := strings.Fields(lines[0])
	if len(counters) != 3 {
		return snap, fmt.Errorf("%w: expected 3 request counters, got %d", ErrMalformed, len(counters))
	}
	if snap.Accepted, err = parseUint(counters[0]); err != nil {
		return snap, err
	}
	if snap.Handled, err = parseUint(counters[1]); err != nil {
		return snap, err
	}
	if snap.Requests, err = parseUint(counters[2]); err != nil {
		return snap, err
	}

	states := strings.Fields(lines[1])
	if len(states) != 6 || states[0] != "Reading:" || states[2] != "Writing:" || states[4] != "Waiting:" {
		return snap, fmt.Errorf("%w: missing connection state line", ErrMalformed)
	}
	if snap.Reading, err = parseUint(states[1]); err != nil {
		return snap, err
	}
	if snap.Writing, err = parseUint(states[3]); err != nil {
		return snap, err
	}
	if snap.Waiting, err = parseUint(states[5]); err != nil {
		return snap, err
	}

	if len(lines) > 2 {
		return snap, fmt.Errorf("%w: unexpected trailing content", ErrMalformed)
	}

	return snap, nil
}

// splitLines splits the payload into trimmed lines, dropping trailing
// empty ones so a final newline does not count as an extra line.
func splitLines(raw string) []string {
	lines := strings.Split(raw, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " \t\r")
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func parseUint(tok string) (uint64, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(tok), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad numeric token %q", ErrMalformed, strings.TrimSpace(tok))
	}
	return v, nil
}
