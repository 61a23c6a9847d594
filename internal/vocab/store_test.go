package vocab

import (
	"errors"
	"sync"
	"testing"
)

func TestStore_InitialLoadFailureIsFatal(t *testing.T) {
	t.Parallel()

	_, err := NewStore(func() (*Vocabulary, error) {
		return nil, errors.New("boom")
	})
	if err == nil {
		t.Fatal("NewStore with failing load succeeded, want error")
	}
}

func TestStore_ReloadSwapsSnapshot(t *testing.T) {
	t.Parallel()

	versions := []*Vocabulary{
		New([]string{"ROADM"}, nil, nil),
		New([]string{"ROADM", "MSPP"}, nil, nil),
	}
	var calls int
	store, err := NewStore(func() (*Vocabulary, error) {
		v := versions[calls]
		calls++
		return v, nil
	})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	if got := store.Snapshot().Stats().Equipment; got != 1 {
		t.Fatalf("initial equipment count = %d, want 1", got)
	}

	stats, err := store.Reload()
	if err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if stats.Equipment != 2 {
		t.Errorf("reloaded equipment count = %d, want 2", stats.Equipment)
	}
	if store.Snapshot() != versions[1] {
		t.Error("Snapshot does not return the reloaded vocabulary")
	}
}

func TestStore_FailedReloadKeepsPreviousSnapshot(t *testing.T) {
	t.Parallel()

	first := New([]string{"ROADM"}, nil, nil)
	var calls int
	store, err := NewStore(func() (*Vocabulary, error) {
		calls++
		if calls == 1 {
			return first, nil
		}
		return nil, errors.New("table corrupted")
	})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	if _, err := store.Reload(); err == nil {
		t.Fatal("Reload with failing load succeeded, want error")
	}
	if store.Snapshot() != first {
		t.Error("failed reload replaced the active snapshot")
	}
}

// Concurrent readers across a reload must each observe one complete
// snapshot, old or new, never a mixture. The race detector backs this up.
func TestStore_SnapshotIsStableAcrossReload(t *testing.T) {
	t.Parallel()

	store, err := NewStore(func() (*Vocabulary, error) {
		return New([]string{"ROADM"}, []string{"ERR-001"}, nil), nil
	})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				v := store.Snapshot()
				eq := len(v.Allowed(CategoryEquipment))
				faults := len(v.Allowed(CategoryFault))
				if eq != 1 || faults != 1 {
					t.Errorf("inconsistent snapshot: equipment=%d faults=%d", eq, faults)
					return
				}
			}
		}()
	}
	for range 20 {
		if _, err := store.Reload(); err != nil {
			t.Errorf("Reload: %v", err)
		}
	}
	wg.Wait()
}
