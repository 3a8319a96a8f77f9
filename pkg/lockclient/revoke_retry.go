package lockclient

import (
	"github.com/marmos91/cachefs/internal/logger"
	"github.com/marmos91/cachefs/pkg/fserrors"
	"github.com/marmos91/cachefs/pkg/lockproto"
)

// Revoke implements lockproto.LockClient. It is invoked by the server
// (via a background RPC thread on the transport side) to ask for a
// cached lock back.
//
// This handler must never block on the network while holding the cache
// lock: it only ever enqueues to the releaser, which does the network
// call on its own goroutine.
func (c *Cache) Revoke(args lockproto.RevokeArgs, reply *lockproto.RevokeReply) error {
	c.mu.Lock()
	r, ok := c.records[args.Lock]
	if !ok {
		c.mu.Unlock()
		reply.Status = fserrors.NOENT
		return nil
	}

	r.revokeRequested = true
	if r.state == stateFree && r.waiters == 0 {
		r.state = stateReleasing
		delete(c.records, args.Lock)
		c.releaser.enqueue(args.Lock, r.lastSeq)
		r.cond.Broadcast()
	}
	c.mu.Unlock()

	logger.Debug("lockclient: revoke handled", logger.LockID(uint64(args.Lock)))
	reply.Status = fserrors.OK
	return nil
}

// Retry implements lockproto.LockClient. It is invoked by the server
// once a lock this client is waiting on has become available. The
// client re-issues acquire synchronously with a fresh sequence number;
// the seq echoed by the server is purely informational.
//
// A retry for a record that is no longer ACQUIRING is stale — a
// subsequent local event already resolved it — and is treated as a
// no-op, per the ordering guarantee that a retry can arrive after a
// later unrelated acquire for the same lock id has already completed.
func (c *Cache) Retry(args lockproto.RetryArgs, reply *lockproto.RetryReply) error {
	c.mu.Lock()
	r, ok := c.records[args.Lock]
	if !ok {
		c.mu.Unlock()
		reply.Status = fserrors.NOENT
		return nil
	}
	if r.state != stateAcquiring {
		c.mu.Unlock()
		reply.Status = fserrors.OK
		return nil
	}
	c.mu.Unlock()

	seq := c.nextSeq()
	var acqReply lockproto.AcquireReply
	err := c.server.Acquire(lockproto.AcquireArgs{Lock: args.Lock, Client: c.self, Seq: seq}, &acqReply)

	c.mu.Lock()
	defer c.mu.Unlock()

	r2, ok := c.records[args.Lock]
	if !ok || r2 != r || r2.state != stateAcquiring {
		reply.Status = fserrors.OK
		return nil
	}
	if err != nil {
		logger.Warn("lockclient: retry re-acquire failed", logger.LockID(uint64(args.Lock)), logger.Err(err))
		reply.Status = fserrors.OK
		return nil
	}

	r2.lastSeq = seq
	switch acqReply.Grant {
	case lockproto.GrantOK:
		r2.revokeRequested = false
	case lockproto.GrantNoCache:
		r2.revokeRequested = true
	case lockproto.GrantRetry:
		// Still contended; remain ACQUIRING and wait for a future retry.
		reply.Status = fserrors.OK
		return nil
	}

	r2.state = stateFree
	r2.cond.Signal()
	reply.Status = fserrors.OK
	return nil
}
