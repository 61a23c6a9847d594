package vocab

import (
	"fmt"
	"log/slog"
	"sync/atomic"
)

// LoadFunc produces a fresh [Vocabulary] snapshot. The default is [Load]
// over a data directory; tests substitute their own.
type LoadFunc func() (*Vocabulary, error)

// Store publishes the current [Vocabulary] snapshot to concurrent readers.
//
// Reload is load-then-swap: a complete new snapshot is built first and the
// pointer is replaced atomically only on success. Readers that already hold
// a snapshot keep using it; no reader ever observes a half-updated
// vocabulary. On reload failure the previous snapshot stays authoritative.
type Store struct {
	load    LoadFunc
	current atomic.Pointer[Vocabulary]
}

// NewStore performs the initial load and returns a ready Store. The initial
// load failing is fatal — there is no previous snapshot to fall back to.
func NewStore(load LoadFunc) (*Store, error) {
	s := &Store{load: load}
	v, err := load()
	if err != nil {
		return nil, fmt.Errorf("vocab: initial load: %w", err)
	}
	s.current.Store(v)

	stats := v.Stats()
	slog.Info("domain vocabulary loaded",
		"equipment", stats.Equipment,
		"faults", stats.Faults,
		"requests", stats.Requests,
		"model_aliases", stats.ModelAliases,
	)
	return s, nil
}

// NewDirStore is a convenience constructor wiring [Load] over dir.
func NewDirStore(dir string) (*Store, error) {
	return NewStore(func() (*Vocabulary, error) { return Load(dir) })
}

// Snapshot returns the current vocabulary. The result is immutable and safe
// to use for the full duration of a pipeline run, including across a
// concurrent Reload.
func (s *Store) Snapshot() *Vocabulary {
	return s.current.Load()
}

// Reload builds a fresh snapshot and swaps it in atomically. On error the
// active snapshot is left untouched and the error is returned to the
// caller; reload is all-or-nothing.
func (s *Store) Reload() (Stats, error) {
	v, err := s.load()
	if err != nil {
		slog.Error("vocabulary reload failed, keeping previous snapshot", "err", err)
		return Stats{}, fmt.Errorf("vocab: reload: %w", err)
	}
	s.current.Store(v)

	stats := v.Stats()
	slog.Info("domain vocabulary reloaded",
		"equipment", stats.Equipment,
		"faults", stats.Faults,
		"requests", stats.Requests,
	)
	return stats, nil
}
