package lockserver

import (
	"github.com/marmos91/cachefs/internal/logger"
	"github.com/marmos91/cachefs/pkg/lockproto"
)

// revokerLoop consumes revoke tasks and fires them at the holder's
// memoized RPC handle. Revokes are fire-and-forget: failure to reach a
// client is logged and the task dropped (spec.md's stated failure
// model — no retry, no holder expiry).
func (s *Server) revokerLoop(stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case task := <-s.revokeTasks:
			s.sendRevoke(task)
		}
	}
}

func (s *Server) sendRevoke(task revokeTask) {
	handle, err := s.handleFor(task.holder)
	if err != nil {
		logger.Warn("lockserver: revoker could not dial holder, dropping task",
			logger.LockID(uint64(task.lock)), logger.ClientID(string(task.holder)), logger.Err(err))
		return
	}

	var reply lockproto.RevokeReply
	args := lockproto.RevokeArgs{Lock: task.lock, Seq: task.seq}
	if err := handle.Revoke(args, &reply); err != nil {
		logger.Warn("lockserver: revoke call failed, dropping task",
			logger.LockID(uint64(task.lock)), logger.ClientID(string(task.holder)), logger.Err(err))
		s.dropHandle(task.holder)
		return
	}

	s.metrics.ObserveRevoke()
	logger.Debug("lockserver: revoke delivered",
		logger.LockID(uint64(task.lock)), logger.ClientID(string(task.holder)))
}

// retryDispatcherLoop wakes whenever a release signals and rebuilds its
// candidate set from scratch each time, rather than mutating a sequence
// mid-iteration (the rewrite this spec calls for, in place of the
// source's erase-then-increment pattern over a live sequence).
func (s *Server) retryDispatcherLoop(stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case <-s.retrySignal:
			s.dispatchRetries()
		}
	}
}

// dispatchRetries sends at most one retry per lock id per wakeup: any
// lock that is FREE with a non-empty queue has its head waiter popped
// and notified. The FREE → HELD transition itself happens later, when
// the woken client re-issues acquire.
func (s *Server) dispatchRetries() {
	s.catalog.mu.Lock()
	type candidate struct {
		lock lockproto.LockID
		w    waiter
	}
	var candidates []candidate
	for id, rec := range s.catalog.records {
		if rec.state == stateFree && len(rec.queue) > 0 {
			w := rec.queue[0]
			rec.queue = rec.queue[1:]
			candidates = append(candidates, candidate{lock: id, w: w})
		}
	}
	s.catalog.mu.Unlock()

	for _, c := range candidates {
		s.sendRetry(c.lock, c.w)
	}
}

func (s *Server) sendRetry(lock lockproto.LockID, w waiter) {
	handle, err := s.handleFor(w.client)
	if err != nil {
		logger.Warn("lockserver: retry dispatcher could not dial waiter, dropping",
			logger.LockID(uint64(lock)), logger.ClientID(string(w.client)), logger.Err(err))
		return
	}

	var reply lockproto.RetryReply
	args := lockproto.RetryArgs{Lock: lock, Seq: w.seq}
	if err := handle.Retry(args, &reply); err != nil {
		logger.Warn("lockserver: retry call failed, dropping",
			logger.LockID(uint64(lock)), logger.ClientID(string(w.client)), logger.Err(err))
		s.dropHandle(w.client)
		return
	}

	s.metrics.ObserveRetry()
	logger.Debug("lockserver: retry delivered",
		logger.LockID(uint64(lock)), logger.ClientID(string(w.client)))
}
