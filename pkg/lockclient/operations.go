package lockclient

import (
	"github.com/marmos91/cachefs/internal/logger"
	"github.com/marmos91/cachefs/pkg/lockproto"
)

// Acquire blocks until the calling goroutine holds lock, then returns a
// Lease token that must be passed to Release. On a cache miss it issues
// an acquire RPC to the server; on a cache hit (a local record already
// exists, whether idle, in flight, or held by another local waiter) it
// blocks locally without contacting the server.
func (c *Cache) Acquire(lock lockproto.LockID) (*Lease, error) {
	c.mu.Lock()
	r := c.getOrCreateLocked(lock)

	for r.state == stateReleasing {
		r.cond.Wait()
		r = c.getOrCreateLocked(lock)
	}

	if r.state == stateNone {
		r.state = stateAcquiring
		seq := c.nextSeq()
		r.lastSeq = seq
		c.mu.Unlock()

		var reply lockproto.AcquireReply
		err := c.server.Acquire(lockproto.AcquireArgs{Lock: lock, Client: c.self, Seq: seq}, &reply)

		c.mu.Lock()
		if err != nil {
			r.state = stateNone
			c.mu.Unlock()
			return nil, err
		}

		switch reply.Grant {
		case lockproto.GrantOK:
			r.state = stateFree
			r.revokeRequested = false
		case lockproto.GrantNoCache:
			r.state = stateFree
			r.revokeRequested = true
		case lockproto.GrantRetry:
			for r.state == stateAcquiring {
				r.cond.Wait()
			}
		}
	}

	r.waiters++
	for r.state != stateFree {
		r.cond.Wait()
	}
	r.state = stateLocked
	lease := &Lease{lock: lock}
	r.owner = lease
	r.waiters--
	c.mu.Unlock()

	logger.Debug("lockclient: acquired", logger.LockID(uint64(lock)))
	return lease, nil
}

// Release gives up lease, which must have been returned by a prior
// Acquire for the same lock and not already released. Calling Release
// with a lease the caller does not hold is a programming error.
func (c *Cache) Release(lease *Lease) {
	c.mu.Lock()
	r, ok := c.records[lease.lock]
	if !ok || r.owner != lease {
		c.mu.Unlock()
		panic("lockclient: release called without holding the lock")
	}

	r.owner = nil
	r.state = stateFree

	switch {
	case r.waiters == 0 && r.revokeRequested:
		r.state = stateReleasing
		delete(c.records, lease.lock)
		c.releaser.enqueue(lease.lock, r.lastSeq)
		r.cond.Broadcast()
	case r.waiters > 0:
		r.cond.Signal()
	}
	c.mu.Unlock()

	logger.Debug("lockclient: released", logger.LockID(uint64(lease.lock)))
}
