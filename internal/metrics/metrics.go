package metrics

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Recorder is the metrics sink consumed by the services. Deltas are
// cumulative: the presence registry emits +1/-1 pairs per login/logout.
type Recorder interface {
	Add(ctx context.Context, name string, delta int64)
}

// OTelRecorder records up/down counters through the global OpenTelemetry
// meter provider. Counters are created lazily on first use.
type OTelRecorder struct {
	meter metric.Meter

	mu       sync.Mutex
	counters map[string]metric.Int64UpDownCounter
}

// NewOTelRecorder creates a Recorder backed by the global meter provider
func NewOTelRecorder() *OTelRecorder {
	return &OTelRecorder{
		meter:    otel.Meter("openrealm"),
		counters: make(map[string]metric.Int64UpDownCounter),
	}
}

// Ensure OTelRecorder implements Recorder
var _ Recorder = (*OTelRecorder)(nil)

// Add adjusts the named up/down counter by delta
func (r *OTelRecorder) Add(ctx context.Context, name string, delta int64) {
	r.mu.Lock()
	counter, ok := r.counters[name]
	if !ok {
		created, err := r.meter.Int64UpDownCounter(name)
		if err != nil {
			r.mu.Unlock()
			return
		}
		counter = created
		r.counters[name] = counter
	}
	r.mu.Unlock()

	counter.Add(ctx, delta)
}

// NopRecorder discards all metrics. Used when no exporter is configured.
type NopRecorder struct{}

// Ensure NopRecorder implements Recorder
var _ Recorder = (*NopRecorder)(nil)

// Add does nothing
func (NopRecorder) Add(ctx context.Context, name string, delta int64) {}
