package status

import (
	"errors"
	"fmt"
	"regexp"
)

// Kind distinguishes monotonic counters from gauges in the exposition output.
type Kind int

const (
	KindGauge Kind = iota
	KindCounter
)

// Descriptor maps one Snapshot field to its exposition name, help text
// and value kind.
type Descriptor struct {
	Field Field
	Name  string
	Help  string
	Kind  Kind
}

// DefaultDescriptors returns the descriptor table for the stub_status
// fields. Encode emits metric families in this exact order.
func DefaultDescriptors() []Descriptor {
	return []Descriptor{
		{FieldActive, "nginx_connections_active", "Active client connections including waiting connections.", KindGauge},
		{FieldAccepted, "nginx_connections_accepted", "Accepted client connections.", KindCounter},
		{FieldHandled, "nginx_connections_handled", "Handled client connections.", KindCounter},
		{FieldRequests, "nginx_http_requests_total", "Total client requests.", KindCounter},
		{FieldReading, "nginx_connections_reading", "Connections where nginx is reading the request header.", KindGauge},
		{FieldWriting, "nginx_connections_writing", "Connections where nginx is writing the response back.", KindGauge},
		{FieldWaiting, "nginx_connections_waiting", "Idle client connections.", KindGauge},
	}
}

var metricNameRe = regexp.MustCompile(`^[a-zA-Z_:][a-zA-Z0-9_:]*$`)

// Table is an immutable, validated descriptor set. It is built once at
// startup and shared read-only by all concurrent scrapes.
type Table struct {
	descriptors []Descriptor
}

// NewTable validates that every Snapshot field is covered by exactly one
// descriptor and that exposition names are well-formed and unique.
func NewTable(descriptors []Descriptor) (*Table, error) {
	if len(descriptors) == 0 {
		return nil, errors.New("empty descriptor table")
	}

	seenField := make(map[Field]string, len(descriptors))
	seenName := make(map[string]struct{}, len(descriptors))
	for _, d := range descriptors {
		if d.Field < 0 || d.Field >= fieldCount {
			return nil, fmt.Errorf("descriptor %q references unknown snapshot field", d.Name)
		}
		if prev, ok := seenField[d.Field]; ok {
			return nil, fmt.Errorf("snapshot field %s described twice (%s, %s)", d.Field, prev, d.Name)
		}
		if !metricNameRe.MatchString(d.Name) {
			return nil, fmt.Errorf("invalid metric name %q", d.Name)
		}
		if _, ok := seenName[d.Name]; ok {
			return nil, fmt.Errorf("duplicate metric name %q", d.Name)
		}
		seenField[d.Field] = d.Name
		seenName[d.Name] = struct{}{}
	}

	if len(seenField) != int(fieldCount) {
		return nil, fmt.Errorf("descriptor table covers %d of %d snapshot fields", len(seenField), fieldCount)
	}

	descs := make([]Descriptor, len(descriptors))
	copy(descs, descriptors)
	return &Table{descriptors: descs}, nil
}

// Descriptors returns the table contents in declaration order.
func (t *Table) Descriptors() []Descriptor {
	descs := make([]Descriptor, len(t.descriptors))
	copy(descs, t.descriptors)
	return descs
}
