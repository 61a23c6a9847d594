// Package resilience provides failover across reasoning-service backends.
//
// A [Chain] wraps a primary [llm.Provider] and any number of fallbacks.
// Each backend carries a small breaker: after too many consecutive
// failures the backend is skipped until a cooldown elapses, at which
// point a single probe call is allowed through.
package resilience

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/daehyun-cc/callticket/pkg/provider/llm"
)

// ErrAllBackendsFailed is returned by [Chain.Complete] when every backend
// either failed or was skipped by its breaker.
var ErrAllBackendsFailed = errors.New("all llm backends failed")

const (
	defaultMaxFailures = 3
	defaultCooldown    = 30 * time.Second
)

// BreakerConfig tunes the per-backend breaker.
type BreakerConfig struct {
	// MaxFailures is how many consecutive failures trip the breaker.
	// Zero means the default (3).
	MaxFailures int

	// Cooldown is how long a tripped backend is skipped before a probe
	// call is allowed. Zero means the default (30s).
	Cooldown time.Duration
}

func (c BreakerConfig) withDefaults() BreakerConfig {
	if c.MaxFailures <= 0 {
		c.MaxFailures = defaultMaxFailures
	}
	if c.Cooldown <= 0 {
		c.Cooldown = defaultCooldown
	}
	return c
}

// breaker tracks consecutive failures for one backend. It is closed while
// failures stay below the threshold; once tripped it rejects calls until
// the cooldown elapses, then lets probes through until one succeeds.
type breaker struct {
	cfg BreakerConfig

	mu       sync.Mutex
	failures int
	lastFail time.Time
}

func (b *breaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failures < b.cfg.MaxFailures {
		return true
	}
	return time.Since(b.lastFail) >= b.cfg.Cooldown
}

func (b *breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err == nil {
		b.failures = 0
		return
	}
	b.failures++
	b.lastFail = time.Now()
}

type backend struct {
	name     string
	provider llm.Provider
	breaker  *breaker
}

// Chain implements [llm.Provider] by trying a list of backends in order
// until one produces a response. Backends whose breaker is tripped are
// skipped. Chain is safe for concurrent use once assembled; Add must not
// be called concurrently with Complete.
type Chain struct {
	backends []*backend
	cfg      BreakerConfig
}

var _ llm.Provider = (*Chain)(nil)

// Option configures a [Chain].
type Option func(*Chain)

// WithBreaker overrides the breaker settings applied to every backend.
func WithBreaker(cfg BreakerConfig) Option {
	return func(c *Chain) { c.cfg = cfg }
}

// NewChain creates a [Chain] with primary as the preferred backend.
func NewChain(name string, primary llm.Provider, opts ...Option) *Chain {
	c := &Chain{cfg: BreakerConfig{}.withDefaults()}
	for _, opt := range opts {
		opt(c)
	}
	c.cfg = c.cfg.withDefaults()
	c.add(name, primary)
	return c
}

// Add appends a fallback backend. Fallbacks are tried in the order they
// were added, after the primary.
func (c *Chain) Add(name string, provider llm.Provider) {
	c.add(name, provider)
}

func (c *Chain) add(name string, provider llm.Provider) {
	c.backends = append(c.backends, &backend{
		name:     name,
		provider: provider,
		breaker:  &breaker{cfg: c.cfg},
	})
}

// Complete sends the request to the first healthy backend and returns its
// response. Failover stops early when ctx is done, since every remaining
// backend would fail the same way.
func (c *Chain) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	var errs []error
	for i, b := range c.backends {
		if !b.breaker.allow() {
			slog.Debug("skipping llm backend, breaker tripped", "backend", b.name)
			continue
		}

		resp, err := b.provider.Complete(ctx, req)
		b.breaker.record(err)
		if err == nil {
			if i > 0 {
				slog.Info("completion served by fallback backend", "backend", b.name)
			}
			return resp, nil
		}

		slog.Warn("llm backend failed, trying next", "backend", b.name, "err", err)
		errs = append(errs, fmt.Errorf("%s: %w", b.name, err))
		if ctx.Err() != nil {
			break
		}
	}
	if len(errs) == 0 {
		return nil, ErrAllBackendsFailed
	}
	return nil, fmt.Errorf("%w: %w", ErrAllBackendsFailed, errors.Join(errs...))
}
