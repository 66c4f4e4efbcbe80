package status

import (
	"fmt"
	"io"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/protobuf/proto"
)

// ContentType is the exposition format content type served on scrapes.
const ContentType = "text/plain; version=0.0.4; charset=utf-8"

// Encode renders the snapshot as exposition text, one metric family per
// descriptor, in table declaration order. It holds no state across
// calls; the output reflects the given snapshot only.
func (t *Table) Encode(w io.Writer, snap Snapshot) error {
	for _, d := range t.descriptors {
		v, ok := snap.value(d.Field)
		if !ok {
			return fmt.Errorf("descriptor %q has no snapshot value", d.Name)
		}

		fam := &dto.MetricFamily{
			Name: proto.String(d.Name),
			Help: proto.String(d.Help),
		}
		switch d.Kind {
		case KindCounter:
			fam.Type = dto.MetricType_COUNTER.Enum()
			fam.Metric = []*dto.Metric{{Counter: &dto.Counter{Value: proto.Float64(float64(v))}}}
		case KindGauge:
			fam.Type = dto.MetricType_GAUGE.Enum()
			fam.Metric = []*dto.Metric{{Gauge: &dto.Gauge{Value: proto.Float64(float64(v))}}}
		default:
			return fmt.Errorf("descriptor %q has unknown kind %d", d.Name, d.Kind)
		}

		if _, err := expfmt.MetricFamilyToText(w, fam); err != nil {
			return fmt.Errorf("failed to encode %s: %w", d.Name, err)
		}
	}
	return nil
}
