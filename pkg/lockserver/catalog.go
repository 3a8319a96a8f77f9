// Package lockserver implements the cache-coherent distributed lock server:
// a catalog of lock records, FIFO-fair acquire/release handling, and two
// background workers (revoker, retry dispatcher) that issue server-initiated
// callbacks to clients.
package lockserver

import (
	"sync"

	"github.com/marmos91/cachefs/pkg/lockproto"
)

// recordState is the server-side lock record's state, per the lock
// protocol's state machine: a lock is either free or held, with a FIFO
// queue of waiters.
type recordState int

const (
	stateFree recordState = iota
	stateHeld
)

// waiter is a single queued acquire request, tracked in arrival order so
// the retry dispatcher can preserve FIFO fairness.
type waiter struct {
	client lockproto.ClientID
	seq    lockproto.SequenceNumber
}

// record is the server's bookkeeping for a single lock. All fields are
// guarded by the catalog's mutex; a record is never accessed without it
// held.
type record struct {
	state   recordState
	holder  lockproto.ClientID
	holdSeq lockproto.SequenceNumber
	queue   []waiter

	// revokeSent marks that a revoke task has already been enqueued for
	// the current holder, so further contended acquires don't enqueue
	// another one. Cleared on every grant and release.
	revokeSent bool
}

// Catalog is the lock server's in-memory table of lock records.
type Catalog struct {
	mu      sync.Mutex
	records map[lockproto.LockID]*record
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{records: make(map[lockproto.LockID]*record)}
}

// getOrCreate returns the record for id, creating a free one if absent.
// Must be called with c.mu held.
func (c *Catalog) getOrCreate(id lockproto.LockID) *record {
	r, ok := c.records[id]
	if !ok {
		r = &record{state: stateFree}
		c.records[id] = r
	}
	return r
}
