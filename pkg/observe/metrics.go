// Package observe provides observability primitives for voicebind:
// OpenTelemetry metric instruments and the SDK provider wiring.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A Prometheus
// exporter bridge is available via [InitProvider] so that metrics can be
// scraped via the standard /metrics endpoint. A package-level default
// [Metrics] instance ([DefaultMetrics]) is provided for convenience; tests
// should use [NewMetrics] with a custom [metric.MeterProvider] to avoid
// cross-test pollution.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all voicebind metrics.
const meterName = "github.com/voicebind/voicebind"

// Assignment outcome attribute values for [Metrics.Assignments].
const (
	OutcomeCached   = "cached"   // valid persisted binding returned as-is
	OutcomeComputed = "computed" // fresh hash-bucket selection
	OutcomeNone     = "none"     // empty catalog, no selection possible
)

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// AssignDuration tracks voice selection latency.
	AssignDuration metric.Float64Histogram

	// Assignments counts selection outcomes. Use with attribute:
	//   attribute.String("outcome", OutcomeCached | OutcomeComputed | OutcomeNone)
	Assignments metric.Int64Counter

	// StalePrunes counts persisted bindings removed because their voice left
	// the catalog.
	StalePrunes metric.Int64Counter

	// StoreErrors counts failed store operations. Use with attribute:
	//   attribute.String("op", "get" | "set" | "remove")
	StoreErrors metric.Int64Counter
}

// latencyBuckets defines histogram bucket boundaries (in seconds). Selection
// is an in-process hash plus at most one store round-trip, so the buckets
// skew far lower than request-latency defaults.
var latencyBuckets = []float64{
	0.00001, 0.0001, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.AssignDuration, err = m.Float64Histogram("voicebind.assign.duration",
		metric.WithDescription("Latency of voice selection."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.Assignments, err = m.Int64Counter("voicebind.assignments",
		metric.WithDescription("Voice selection outcomes."),
	); err != nil {
		return nil, err
	}
	if met.StalePrunes, err = m.Int64Counter("voicebind.stale_prunes",
		metric.WithDescription("Stale voice bindings pruned from the store."),
	); err != nil {
		return nil, err
	}
	if met.StoreErrors, err = m.Int64Counter("voicebind.store.errors",
		metric.WithDescription("Failed binding store operations."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance backed by the
// global OTel meter provider. Call [InitProvider] before first use so the
// global provider is real; otherwise the instruments are no-ops.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// RecordAssignment is a convenience method that records one selection outcome
// and its latency.
func (m *Metrics) RecordAssignment(ctx context.Context, outcome string, seconds float64) {
	m.Assignments.Add(ctx, 1,
		metric.WithAttributes(attribute.String("outcome", outcome)),
	)
	m.AssignDuration.Record(ctx, seconds)
}

// RecordStalePrune is a convenience method that records one pruned binding.
func (m *Metrics) RecordStalePrune(ctx context.Context) {
	m.StalePrunes.Add(ctx, 1)
}

// RecordStoreError is a convenience method that records one failed store
// operation.
func (m *Metrics) RecordStoreError(ctx context.Context, op string) {
	m.StoreErrors.Add(ctx, 1,
		metric.WithAttributes(attribute.String("op", op)),
	)
}
