// Package lockclient implements the lock client cache: the per-process
// library that acquires locks from the lock server, caches them across
// successive local acquires while no revoke is outstanding, and releases
// cached locks back only when asked to.
package lockclient

import (
	"sync"

	"github.com/marmos91/cachefs/pkg/lockproto"
)

// state is the client-side lock record's state.
type state int

const (
	stateNone state = iota
	stateAcquiring
	stateFree
	stateLocked
	stateReleasing
)

// Lease is the token returned by Cache.Acquire and required by
// Cache.Release. Go has no portable way to identify "the calling
// thread" the way the protocol's owner_thread invariant assumes
// (goroutine IDs are deliberately not exposed), so ownership is
// enforced by comparing this token's identity against the record's
// stored owner instead.
type Lease struct {
	lock lockproto.LockID
}

// record is the client's bookkeeping for a single cached lock. Guarded
// by the cache's mutex plus a per-record condition variable used to
// block local waiters until the record transitions to free.
type record struct {
	cond  *sync.Cond
	state state

	revokeRequested bool
	waiters         int
	owner           *Lease
	lastSeq         lockproto.SequenceNumber
}

// Cache is the client-side lock cache.
type Cache struct {
	self     lockproto.ClientID
	server   lockproto.LockServer
	releaser *releaser

	mu      sync.Mutex
	records map[lockproto.LockID]*record
	seq     lockproto.SequenceNumber
}

// NewCache constructs a lock client cache that identifies itself to the
// server as self and issues RPCs through server.
func NewCache(self lockproto.ClientID, server lockproto.LockServer) *Cache {
	c := &Cache{
		self:    self,
		server:  server,
		records: make(map[lockproto.LockID]*record),
	}
	c.releaser = newReleaser(c)
	return c
}

// Start launches the background releaser thread.
func (c *Cache) Start() { c.releaser.Start() }

// Stop halts the background releaser thread, blocking until it exits.
func (c *Cache) Stop() { c.releaser.Stop() }

// nextSeq returns the next monotonically increasing sequence number for
// this client's outgoing acquires.
func (c *Cache) nextSeq() lockproto.SequenceNumber {
	c.seq++
	return c.seq
}

// getOrCreateLocked returns the record for id, creating one in stateNone
// if absent. Must be called with c.mu held.
func (c *Cache) getOrCreateLocked(id lockproto.LockID) *record {
	r, ok := c.records[id]
	if !ok {
		r = &record{state: stateNone}
		r.cond = sync.NewCond(&c.mu)
		c.records[id] = r
	}
	return r
}
