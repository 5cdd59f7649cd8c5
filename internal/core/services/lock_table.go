package services

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// lockTable hands out one exclusive lock per account id. Entries are
// reference counted and dropped once nobody holds or waits on them.
type lockTable struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

type lockEntry struct {
	sem  *semaphore.Weighted
	refs int
}

func newLockTable() *lockTable {
	return &lockTable{entries: make(map[string]*lockEntry)}
}

func (t *lockTable) ref(id string) *lockEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[id]
	if !ok {
		e = &lockEntry{sem: semaphore.NewWeighted(1)}
		t.entries[id] = e
	}
	e.refs++
	return e
}

func (t *lockTable) unref(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[id]
	if !ok {
		return
	}
	e.refs--
	if e.refs <= 0 {
		delete(t.entries, id)
	}
}

// acquire blocks until the account lock is held or ctx is done.
func (t *lockTable) acquire(ctx context.Context, id string) error {
	e := t.ref(id)
	if err := e.sem.Acquire(ctx, 1); err != nil {
		t.unref(id)
		return err
	}
	return nil
}

func (t *lockTable) release(id string) {
	t.mu.Lock()
	e, ok := t.entries[id]
	t.mu.Unlock()
	if !ok {
		return
	}
	e.sem.Release(1)
	t.unref(id)
}

// size is the number of live entries.
func (t *lockTable) size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
