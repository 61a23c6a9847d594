// Package pipeline wires the extraction stages into the one entry point the
// rest of the system calls: transcript in, legacy ticket out.
//
// A run is synchronous and self-contained. It takes a vocabulary snapshot
// once at the start and uses it for every stage, so a concurrent reload can
// never mix old and new reference data inside a single run. Runs for
// different recordings may execute in parallel against one shared Pipeline.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/daehyun-cc/callticket/internal/extract"
	"github.com/daehyun-cc/callticket/internal/normalize"
	"github.com/daehyun-cc/callticket/internal/observe"
	"github.com/daehyun-cc/callticket/internal/reconcile"
	"github.com/daehyun-cc/callticket/internal/ticket"
	"github.com/daehyun-cc/callticket/internal/validate"
	"github.com/daehyun-cc/callticket/internal/vocab"
	"github.com/daehyun-cc/callticket/pkg/provider/stt"
)

// Result bundles everything one run produces. Ticket is always complete
// and well-formed; the rest is context for logging and operators.
type Result struct {
	Ticket ticket.LegacyTicket
	Report validate.Report

	// Degraded is true when the reasoning service produced no usable
	// output and the ticket was built from fallback rules alone.
	Degraded bool

	// Attempts is how many completion calls the extractor made.
	Attempts int
}

// Pipeline runs transcript-to-ticket extraction. Safe for concurrent use.
type Pipeline struct {
	store     *vocab.Store
	extractor *extract.Extractor
	metrics   *observe.Metrics
}

// Option is a functional option for configuring a [Pipeline].
type Option func(*Pipeline)

// WithMetrics overrides the metrics sink. Default: [observe.DefaultMetrics].
func WithMetrics(m *observe.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// New assembles a Pipeline from a vocabulary store and an extractor.
func New(store *vocab.Store, extractor *extract.Extractor, opts ...Option) *Pipeline {
	p := &Pipeline{store: store, extractor: extractor}
	for _, o := range opts {
		o(p)
	}
	if p.metrics == nil {
		p.metrics = observe.DefaultMetrics()
	}
	return p
}

// Extract runs the full pipeline over one transcript. filename is the
// recording's base name; the request date and time are read from its
// embedded timestamp. Extract never returns an error — every failure mode
// degrades into sentinel ticket fields.
func (p *Pipeline) Extract(ctx context.Context, transcript, filename string) Result {
	start := time.Now()
	v := p.store.Snapshot()

	normalized := normalize.Text(transcript)
	out := p.extractor.Extract(ctx, normalized, v)
	report := validate.Check(out, v)
	tkt := reconcile.Reconcile(out.Record, normalized, filename)

	p.metrics.RecordExtraction(ctx, time.Since(start), out.Attempts, out.Degraded)
	for _, w := range report.Warnings {
		p.metrics.RecordWarning(ctx, w.Field)
	}

	logger := slog.With("filename", filename, "attempts", out.Attempts)
	switch {
	case out.Degraded:
		logger.Warn("ticket built from fallback rules only", "reason", out.Reason)
	case !report.Complete():
		logger.Info("ticket extracted with unmapped fields", "warnings", report.Warnings)
	default:
		logger.Info("ticket extracted")
	}

	return Result{
		Ticket:   tkt,
		Report:   report,
		Degraded: out.Degraded,
		Attempts: out.Attempts,
	}
}

// ExtractSegments formats a timed transcript into conversation text and
// runs [Pipeline.Extract] on it.
func (p *Pipeline) ExtractSegments(ctx context.Context, segments []stt.Segment, filename string) Result {
	return p.Extract(ctx, FormatSegments(segments), filename)
}

// FormatSegments renders timed segments one per line as
// "[MM:SS] speaker: text", dropping the speaker prefix when diarization
// was unavailable.
func FormatSegments(segments []stt.Segment) string {
	var b strings.Builder
	for _, s := range segments {
		total := int(s.Start.Seconds())
		fmt.Fprintf(&b, "[%02d:%02d] ", total/60, total%60)
		if s.Speaker != "" {
			b.WriteString(s.Speaker)
			b.WriteString(": ")
		}
		b.WriteString(s.Text)
		b.WriteString("\n")
	}
	return b.String()
}

// ReloadVocabulary forces a fresh load of the reference tables. Safe to
// call while extractions are in flight; in-flight runs keep the snapshot
// they started with. On error the previous snapshot stays active.
func (p *Pipeline) ReloadVocabulary(ctx context.Context) (vocab.Stats, error) {
	stats, err := p.store.Reload()
	p.metrics.RecordReload(ctx, err)
	return stats, err
}
