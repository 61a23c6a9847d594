// Package extract turns a normalized conversation transcript into a set of
// canonical ticket field values by way of a constrained reasoning-service
// call.
//
// The extractor is the only component that talks to the model, and it is
// built around one rule: degrade, don't fail. A model outage, a timeout, or
// unparseable output produces a Degraded outcome with empty fields — never
// an error — so a single flaky upstream cannot take the whole batch down.
// Everything the model returns is re-resolved against the vocabulary; the
// model's output is treated as a candidate, not a fact.
package extract

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/daehyun-cc/callticket/internal/resolve"
	"github.com/daehyun-cc/callticket/internal/vocab"
	"github.com/daehyun-cc/callticket/pkg/provider/llm"
)

const (
	// defaultTimeout is the hard wall-clock bound on a single completion
	// attempt, including queueing inside the provider.
	defaultTimeout = 30 * time.Second

	// defaultMaxRetries is how many additional completion attempts are
	// made after the first one fails, so the extractor makes at most
	// maxRetries+1 calls before degrading.
	defaultMaxRetries = 2

	// defaultTemperature keeps the model near-deterministic; the task is
	// slot filling, not generation.
	defaultTemperature = 0.1
)

// Candidate is the raw field set parsed from the model's JSON reply,
// before any vocabulary resolution. Nil pointers are the model's explicit
// "not in the conversation" answer.
type Candidate struct {
	Equipment *string `json:"장비명"`
	Fault     *string `json:"장애유형"`
	Request   *string `json:"요청유형"`
	Location  *string `json:"위치"`
}

func (c Candidate) field(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

// RawEquipment returns the unresolved equipment candidate, "" when absent.
func (c Candidate) RawEquipment() string { return c.field(c.Equipment) }

// RawFault returns the unresolved fault candidate, "" when absent.
func (c Candidate) RawFault() string { return c.field(c.Fault) }

// RawRequest returns the unresolved request candidate, "" when absent.
func (c Candidate) RawRequest() string { return c.field(c.Request) }

// RawLocation returns the location candidate, "" when absent.
func (c Candidate) RawLocation() string { return c.field(c.Location) }

// Record holds the vocabulary-resolved field values. Coded fields are
// either members of the allowed set or empty; Location is free text and
// passes through untouched.
type Record struct {
	Equipment   string
	FaultCode   string
	RequestCode string
	Location    string
}

// Outcome is the tagged result of one extraction. It is always usable:
// when Degraded is true the Record fields are empty and Reason explains
// what went wrong, and downstream reconciliation proceeds regardless.
type Outcome struct {
	Record    Record
	Candidate Candidate

	Degraded bool
	Reason   string

	// Attempts is how many completion calls were made, successful or not.
	Attempts int

	// Usage accumulates token accounting over all attempts.
	Usage llm.Usage
}

// Option is a functional option for configuring an [Extractor].
type Option func(*Extractor)

// WithTimeout overrides the per-attempt wall-clock timeout. Default: 30s.
func WithTimeout(d time.Duration) Option {
	return func(e *Extractor) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithMaxRetries overrides how many additional attempts follow a failed
// first one. Default: 2.
func WithMaxRetries(n int) Option {
	return func(e *Extractor) {
		if n >= 0 {
			e.maxRetries = n
		}
	}
}

// WithTemperature overrides the sampling temperature. Default: 0.1.
func WithTemperature(t float64) Option {
	return func(e *Extractor) { e.temperature = t }
}

// Extractor performs constrained field extraction against a reasoning
// service. Safe for concurrent use.
type Extractor struct {
	provider    llm.Provider
	resolver    *resolve.Resolver
	timeout     time.Duration
	maxRetries  int
	temperature float64
}

// New creates an Extractor backed by the given provider and resolver.
func New(provider llm.Provider, resolver *resolve.Resolver, opts ...Option) *Extractor {
	e := &Extractor{
		provider:    provider,
		resolver:    resolver,
		timeout:     defaultTimeout,
		maxRetries:  defaultMaxRetries,
		temperature: defaultTemperature,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Extract runs the full attempt loop for one conversation against the
// given vocabulary snapshot. It never returns an error: every failure mode
// collapses into a Degraded outcome. With no provider configured the
// outcome is immediately degraded and the ticket comes from fallback
// rules alone.
func (e *Extractor) Extract(ctx context.Context, conversation string, v *vocab.Vocabulary) Outcome {
	if e.provider == nil {
		return Outcome{Degraded: true, Reason: "no reasoning provider configured"}
	}

	req := llm.CompletionRequest{
		SystemPrompt: buildSystemPrompt(v),
		Messages: []llm.Message{
			{Role: "user", Content: buildUserPrompt(conversation, v)},
		},
		Temperature: e.temperature,
	}

	maxAttempts := e.maxRetries + 1

	var out Outcome
	var lastReason string
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		out.Attempts = attempt

		resp, err := e.complete(ctx, req)
		if resp != nil {
			out.Usage.PromptTokens += resp.Usage.PromptTokens
			out.Usage.CompletionTokens += resp.Usage.CompletionTokens
			out.Usage.TotalTokens += resp.Usage.TotalTokens
		}
		if err != nil {
			lastReason = "completion failed: " + err.Error()
			slog.Warn("extraction attempt failed",
				"attempt", attempt, "max_attempts", maxAttempts, "error", err)
			if ctx.Err() != nil {
				break
			}
			continue
		}

		cand, err := parseCandidate(resp.Content)
		if err != nil {
			lastReason = "unparseable model output: " + err.Error()
			slog.Warn("extraction attempt returned unparseable output",
				"attempt", attempt, "max_attempts", maxAttempts, "error", err)
			continue
		}

		out.Candidate = cand
		out.Record = e.resolveCandidate(cand, v)
		return out
	}

	out.Degraded = true
	out.Reason = lastReason
	slog.Error("extraction degraded", "attempts", out.Attempts, "reason", out.Reason)
	return out
}

// complete runs a single completion attempt on its own goroutine under a
// hard timeout. The goroutine guards against providers that do not honour
// context cancellation: the attempt is abandoned when the deadline passes
// even if the provider call is still blocked.
func (e *Extractor) complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	type result struct {
		resp *llm.CompletionResponse
		err  error
	}
	done := make(chan result, 1)
	go func() {
		resp, err := e.provider.Complete(ctx, req)
		done <- result{resp, err}
	}()

	select {
	case r := <-done:
		return r.resp, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// resolveCandidate maps each coded candidate field through the resolver.
// Fields that do not resolve stay empty; the validator reports them.
func (e *Extractor) resolveCandidate(c Candidate, v *vocab.Vocabulary) Record {
	var r Record
	r.Equipment, _ = e.resolver.Resolve(c.RawEquipment(), vocab.CategoryEquipment, v)
	r.FaultCode, _ = e.resolver.Resolve(c.RawFault(), vocab.CategoryFault, v)
	r.RequestCode, _ = e.resolver.Resolve(c.RawRequest(), vocab.CategoryRequest, v)
	r.Location = c.RawLocation()
	return r
}

// parseCandidate extracts the JSON object from the model's reply. Models
// regularly wrap JSON in markdown fences or lead-in prose despite being
// told not to, so the parser strips fences and falls back to the outermost
// brace pair before unmarshalling.
func parseCandidate(content string) (Candidate, error) {
	var c Candidate
	text := stripMarkdownFence(content)
	if err := json.Unmarshal([]byte(text), &c); err != nil {
		if inner, ok := braceSlice(text); ok {
			if innerErr := json.Unmarshal([]byte(inner), &c); innerErr == nil {
				return c, nil
			}
		}
		return Candidate{}, err
	}
	return c, nil
}

func stripMarkdownFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		// Drop the language tag line ("json", "JSON", or empty).
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func braceSlice(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}
