package status

// Snapshot holds the counters read from one stub_status poll. It is
// created fresh per poll and never mutated after Parse returns it.
type Snapshot struct {
	Active   uint64
	Accepted uint64
	Handled  uint64
	Requests uint64
	Reading  uint64
	Writing  uint64
	Waiting  uint64
}

// Field identifies one Snapshot field for descriptor lookups.
type Field int

const (
	FieldActive Field = iota
	FieldAccepted
	FieldHandled
	FieldRequests
	FieldReading
	FieldWriting
	FieldWaiting

	fieldCount
)

func (f Field) String() string {
	switch f {
	case FieldActive:
		return "active"
	case FieldAccepted:
		return "accepted"
	case FieldHandled:
		return "handled"
	case FieldRequests:
		return "requests"
	case FieldReading:
		return "reading"
	case FieldWriting:
		return "writing"
	case FieldWaiting:
		return "waiting"
	}
	return "unknown"
}

func (s Snapshot) value(f Field) (uint64, bool) {
	switch f {
	case FieldActive:
		return s.Active, true
	case FieldAccepted:
		return s.Accepted, true
	case FieldHandled:
		return s.Handled, true
	case FieldRequests:
		return s.Requests, true
	case FieldReading:
		return s.Reading, true
	case FieldWriting:
		return s.Writing, true
	case FieldWaiting:
		return s.Waiting, true
	}
	return 0, false
}
