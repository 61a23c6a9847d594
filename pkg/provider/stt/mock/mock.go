// Package mock provides a test double for the stt.Provider interface.
package mock

import (
	"context"
	"sync"

	"github.com/daehyun-cc/callticket/pkg/provider/stt"
)

// Provider is a mock implementation of stt.Provider. Zero values cause
// TranscribeFile to return an empty transcript and nil error.
type Provider struct {
	mu sync.Mutex

	// Transcript is returned by TranscribeFile. May be nil.
	Transcript *stt.Transcript

	// Err, if non-nil, is returned instead of Transcript.
	Err error

	// Paths records every path passed to TranscribeFile, in order.
	Paths []string
}

// TranscribeFile records the call and returns Transcript, Err.
func (p *Provider) TranscribeFile(ctx context.Context, path string) (*stt.Transcript, error) {
	p.mu.Lock()
	p.Paths = append(p.Paths, path)
	p.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.Err != nil {
		return nil, p.Err
	}
	if p.Transcript == nil {
		return &stt.Transcript{}, nil
	}
	return p.Transcript, nil
}

// Ensure Provider implements stt.Provider at compile time.
var _ stt.Provider = (*Provider)(nil)
