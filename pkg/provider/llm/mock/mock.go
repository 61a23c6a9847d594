// Package mock provides a test double for the llm.Provider interface.
//
// Use Provider in unit tests to verify the prompts the extractor sends and
// to feed controlled responses without a live backend. The retry tests need
// different answers per attempt, so responses are scripted: each call to
// Complete consumes the next entry in Script. When the script is exhausted
// the last entry repeats.
//
// Example:
//
//	p := &mock.Provider{Script: []mock.Reply{
//	    {Err: errors.New("boom")},
//	    {Content: `{"장비명": "ROADM"}`},
//	}}
package mock

import (
	"context"
	"sync"

	"github.com/daehyun-cc/callticket/pkg/provider/llm"
)

// Reply is one scripted outcome for a Complete call.
type Reply struct {
	// Content is the model text returned when Err is nil.
	Content string

	// Err, if non-nil, is returned instead of a response.
	Err error

	// Delay, if set, blocks the call until the context is done or the
	// delay channel fires. Used to simulate a hung backend; leave nil for
	// an immediate reply.
	Delay <-chan struct{}
}

// CompleteCall records a single invocation of Complete.
type CompleteCall struct {
	// Ctx is the context passed to Complete.
	Ctx context.Context
	// Req is the CompletionRequest passed to Complete.
	Req llm.CompletionRequest
}

// Provider is a mock implementation of llm.Provider. A zero-value Provider
// returns empty responses and nil errors.
type Provider struct {
	mu sync.Mutex

	// Script is the ordered list of replies, one per Complete call.
	Script []Reply

	// CompleteCalls records every invocation of Complete in order.
	CompleteCalls []CompleteCall
}

// Complete records the call and plays the next scripted reply.
func (p *Provider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	p.mu.Lock()
	idx := len(p.CompleteCalls)
	p.CompleteCalls = append(p.CompleteCalls, CompleteCall{Ctx: ctx, Req: req})
	var reply Reply
	if len(p.Script) > 0 {
		if idx >= len(p.Script) {
			idx = len(p.Script) - 1
		}
		reply = p.Script[idx]
	}
	p.mu.Unlock()

	if reply.Delay != nil {
		select {
		case <-reply.Delay:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if reply.Err != nil {
		return nil, reply.Err
	}
	return &llm.CompletionResponse{Content: reply.Content}, nil
}

// Calls returns the number of Complete invocations so far. Thread-safe.
func (p *Provider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.CompleteCalls)
}

// Reset clears all recorded calls. Thread-safe.
func (p *Provider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.CompleteCalls = nil
}

// Ensure Provider implements llm.Provider at compile time.
var _ llm.Provider = (*Provider)(nil)
