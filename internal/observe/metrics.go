// Package observe provides application-wide observability primitives:
// OpenTelemetry metrics and the Prometheus exporter bridge that makes them
// scrapeable.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A
// package-level default [Metrics] instance ([DefaultMetrics]) is provided
// for convenience; tests should use [NewMetrics] with a custom
// [metric.MeterProvider] to avoid cross-test pollution.
package observe

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name for all callticket metrics.
const meterName = "github.com/daehyun-cc/callticket"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use — the underlying OTel types
// handle their own synchronisation.
type Metrics struct {
	// TranscriptionDuration tracks speech-to-text latency per recording.
	TranscriptionDuration metric.Float64Histogram

	// ExtractionDuration tracks the full transcript-to-ticket pipeline
	// latency.
	ExtractionDuration metric.Float64Histogram

	// LLMAttempts counts reasoning-service completion attempts. Use with
	// attribute.String("status", ...): "ok", "error", or "degraded".
	LLMAttempts metric.Int64Counter

	// DegradedExtractions counts pipeline runs that exhausted all
	// completion attempts.
	DegradedExtractions metric.Int64Counter

	// FieldWarnings counts validation warnings, by
	// attribute.String("field", ...).
	FieldWarnings metric.Int64Counter

	// VocabularyReloads counts reload requests, by
	// attribute.String("status", ...): "ok" or "error".
	VocabularyReloads metric.Int64Counter
}

// latencyBuckets defines histogram bucket boundaries in seconds. The upper
// range covers full-recording transcription plus a retried model call.
var latencyBuckets = []float64{
	0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation
// fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.TranscriptionDuration, err = m.Float64Histogram("callticket.stt.duration",
		metric.WithDescription("Latency of speech-to-text transcription per recording."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.ExtractionDuration, err = m.Float64Histogram("callticket.extraction.duration",
		metric.WithDescription("Latency of the transcript-to-ticket pipeline."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.LLMAttempts, err = m.Int64Counter("callticket.llm.attempts",
		metric.WithDescription("Total reasoning-service completion attempts by status."),
	); err != nil {
		return nil, err
	}
	if met.DegradedExtractions, err = m.Int64Counter("callticket.extraction.degraded",
		metric.WithDescription("Pipeline runs that exhausted all completion attempts."),
	); err != nil {
		return nil, err
	}
	if met.FieldWarnings, err = m.Int64Counter("callticket.validation.warnings",
		metric.WithDescription("Validation warnings by ticket field."),
	); err != nil {
		return nil, err
	}
	if met.VocabularyReloads, err = m.Int64Counter("callticket.vocabulary.reloads",
		metric.WithDescription("Vocabulary reload requests by status."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// defaultMetrics is the lazily-initialised package-level Metrics instance.
var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it
// on first call using [otel.GetMeterProvider]. Subsequent calls return the
// same pointer. Panics if instrument creation fails (should not happen
// with the global provider).
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

// RecordExtraction records one pipeline run: its latency, the per-attempt
// counter, and the degraded counter when the run produced no model result.
func (m *Metrics) RecordExtraction(ctx context.Context, elapsed time.Duration, attempts int, degraded bool) {
	m.ExtractionDuration.Record(ctx, elapsed.Seconds())
	status := "ok"
	if degraded {
		status = "degraded"
		m.DegradedExtractions.Add(ctx, 1)
	}
	m.LLMAttempts.Add(ctx, int64(attempts),
		metric.WithAttributes(attribute.String("status", status)))
}

// RecordTranscription records speech-to-text latency for one recording.
func (m *Metrics) RecordTranscription(ctx context.Context, elapsed time.Duration) {
	m.TranscriptionDuration.Record(ctx, elapsed.Seconds())
}

// RecordWarning records one validation warning for a ticket field.
func (m *Metrics) RecordWarning(ctx context.Context, field string) {
	m.FieldWarnings.Add(ctx, 1,
		metric.WithAttributes(attribute.String("field", field)))
}

// RecordReload records a vocabulary reload attempt.
func (m *Metrics) RecordReload(ctx context.Context, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.VocabularyReloads.Add(ctx, 1,
		metric.WithAttributes(attribute.String("status", status)))
}
