package streams

import (
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/xaionaro-go/webrtcvad/pkg/vad/streams"

type Metrics struct {
	// Frames counts classified frames. Attribute: "result" (speech|silence|error).
	Frames metric.Int64Counter

	// StreamsOpened and StreamsClosed count detector instances; closed
	// streams carry the attribute "reason" (evicted|removed|shutdown).
	StreamsOpened metric.Int64Counter
	StreamsClosed metric.Int64Counter

	ActiveStreams metric.Int64UpDownCounter
}

func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.Frames, err = m.Int64Counter("vad.frames",
		metric.WithDescription("Frames classified, by result."),
	); err != nil {
		return nil, err
	}
	if met.StreamsOpened, err = m.Int64Counter("vad.streams.opened",
		metric.WithDescription("Detector instances created."),
	); err != nil {
		return nil, err
	}
	if met.StreamsClosed, err = m.Int64Counter("vad.streams.closed",
		metric.WithDescription("Detector instances closed, by reason."),
	); err != nil {
		return nil, err
	}
	if met.ActiveStreams, err = m.Int64UpDownCounter("vad.streams.active",
		metric.WithDescription("Detector instances currently alive."),
	); err != nil {
		return nil, err
	}
	return met, nil
}
