package resilience_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/daehyun-cc/callticket/internal/resilience"
	"github.com/daehyun-cc/callticket/pkg/provider/llm"
	"github.com/daehyun-cc/callticket/pkg/provider/llm/mock"
)

func TestChain_PrimaryServes(t *testing.T) {
	t.Parallel()

	primary := &mock.Provider{Script: []mock.Reply{{Content: "from primary"}}}
	fallback := &mock.Provider{Script: []mock.Reply{{Content: "from fallback"}}}

	chain := resilience.NewChain("primary", primary)
	chain.Add("fallback", fallback)

	resp, err := chain.Complete(context.Background(), llm.CompletionRequest{})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Content != "from primary" {
		t.Errorf("content = %q, want from primary", resp.Content)
	}
	if len(fallback.CompleteCalls) != 0 {
		t.Errorf("fallback called %d times, want 0", len(fallback.CompleteCalls))
	}
}

func TestChain_FailsOverToFallback(t *testing.T) {
	t.Parallel()

	primary := &mock.Provider{Script: []mock.Reply{{Err: errors.New("rate limited")}}}
	fallback := &mock.Provider{Script: []mock.Reply{{Content: "from fallback"}}}

	chain := resilience.NewChain("primary", primary)
	chain.Add("fallback", fallback)

	resp, err := chain.Complete(context.Background(), llm.CompletionRequest{})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Content != "from fallback" {
		t.Errorf("content = %q, want from fallback", resp.Content)
	}
}

func TestChain_AllBackendsFail(t *testing.T) {
	t.Parallel()

	primary := &mock.Provider{Script: []mock.Reply{{Err: errors.New("quota exceeded")}}}
	fallback := &mock.Provider{Script: []mock.Reply{{Err: errors.New("connection refused")}}}

	chain := resilience.NewChain("primary", primary)
	chain.Add("fallback", fallback)

	_, err := chain.Complete(context.Background(), llm.CompletionRequest{})
	if !errors.Is(err, resilience.ErrAllBackendsFailed) {
		t.Fatalf("err = %v, want ErrAllBackendsFailed", err)
	}
	for _, want := range []string{"primary", "quota exceeded", "fallback", "connection refused"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}

func TestChain_BreakerSkipsTrippedBackend(t *testing.T) {
	t.Parallel()

	primary := &mock.Provider{Script: []mock.Reply{{Err: errors.New("down")}}}
	fallback := &mock.Provider{Script: []mock.Reply{{Content: "ok"}}}

	chain := resilience.NewChain("primary", primary,
		resilience.WithBreaker(resilience.BreakerConfig{MaxFailures: 1, Cooldown: time.Hour}))
	chain.Add("fallback", fallback)

	for range 3 {
		if _, err := chain.Complete(context.Background(), llm.CompletionRequest{}); err != nil {
			t.Fatalf("Complete: %v", err)
		}
	}
	if got := len(primary.CompleteCalls); got != 1 {
		t.Errorf("primary called %d times after tripping, want 1", got)
	}
	if got := len(fallback.CompleteCalls); got != 3 {
		t.Errorf("fallback called %d times, want 3", got)
	}
}

func TestChain_BreakerProbesAfterCooldown(t *testing.T) {
	t.Parallel()

	primary := &mock.Provider{Script: []mock.Reply{
		{Err: errors.New("down")},
		{Content: "recovered"},
	}}
	fallback := &mock.Provider{Script: []mock.Reply{{Content: "ok"}}}

	chain := resilience.NewChain("primary", primary,
		resilience.WithBreaker(resilience.BreakerConfig{MaxFailures: 1, Cooldown: time.Nanosecond}))
	chain.Add("fallback", fallback)

	if _, err := chain.Complete(context.Background(), llm.CompletionRequest{}); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	// The cooldown has long elapsed, so the primary gets a probe call and
	// recovers.
	time.Sleep(time.Millisecond)
	resp, err := chain.Complete(context.Background(), llm.CompletionRequest{})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Content != "recovered" {
		t.Errorf("content = %q, want recovered", resp.Content)
	}
}

func TestChain_CancelledContextStopsFailover(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	primary := &mock.Provider{Script: []mock.Reply{{Err: context.Canceled}}}
	fallback := &mock.Provider{Script: []mock.Reply{{Content: "ok"}}}

	chain := resilience.NewChain("primary", primary)
	chain.Add("fallback", fallback)

	if _, err := chain.Complete(ctx, llm.CompletionRequest{}); err == nil {
		t.Fatal("Complete succeeded with cancelled context")
	}
	if len(fallback.CompleteCalls) != 0 {
		t.Errorf("fallback called %d times after cancellation, want 0", len(fallback.CompleteCalls))
	}
}
