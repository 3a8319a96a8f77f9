package lockserver

import (
	"context"
	"sync"

	"github.com/marmos91/cachefs/internal/logger"
	"github.com/marmos91/cachefs/internal/telemetry"
	"github.com/marmos91/cachefs/pkg/lockproto"
)

// Dialer resolves a ClientID (a host:port callback address) to a live
// lockproto.LockClient handle. Implementations live in
// internal/transport; the server never constructs a transport itself.
type Dialer interface {
	Dial(client lockproto.ClientID) (lockproto.LockClient, error)
}

// revokeTask is a unit of work for the revoker: tell holder to give back
// lock at the sequence it was granted.
type revokeTask struct {
	holder lockproto.ClientID
	lock   lockproto.LockID
	seq    lockproto.SequenceNumber
}

// Server is the cache-coherent distributed lock server. It implements
// lockproto.LockServer and owns the revoker and retry-dispatcher
// background workers.
type Server struct {
	catalog *Catalog
	dialer  Dialer
	metrics *Metrics

	handleMu sync.Mutex
	handles  map[lockproto.ClientID]lockproto.LockClient

	revokeTasks chan revokeTask
	retrySignal chan struct{}
	stop        chan struct{}
	stopped     chan struct{}
	workerMu    sync.Mutex
	running     bool
}

// NewServer constructs a Server. dialer is used by the background
// workers to reach clients for revoke/retry callbacks; metrics may be
// nil, in which case metric recording is a no-op. A revoke is enqueued
// against the current holder the first time a lock goes from
// uncontended to contended (spec invariant: queued_requests non-empty
// implies a revoke has been issued to the holder, or is queued to be);
// this is not an operator-configurable policy.
func NewServer(dialer Dialer, metrics *Metrics) *Server {
	if metrics == nil {
		metrics = NewNopMetrics()
	}
	return &Server{
		catalog:     NewCatalog(),
		dialer:      dialer,
		metrics:     metrics,
		handles:     make(map[lockproto.ClientID]lockproto.LockClient),
		revokeTasks: make(chan revokeTask, 256),
		retrySignal: make(chan struct{}, 1),
	}
}

// Start launches the revoker and retry-dispatcher background goroutines.
// Safe to call multiple times; subsequent calls are no-ops.
func (s *Server) Start() {
	s.workerMu.Lock()
	if s.running {
		s.workerMu.Unlock()
		return
	}
	s.running = true
	s.stop = make(chan struct{})
	s.stopped = make(chan struct{})
	stop, stopped := s.stop, s.stopped
	s.workerMu.Unlock()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.revokerLoop(stop)
	}()
	go func() {
		defer wg.Done()
		s.retryDispatcherLoop(stop)
	}()
	go func() {
		wg.Wait()
		close(stopped)
	}()
}

// Stop halts both background workers. Blocks until they have exited.
// Safe to call multiple times.
func (s *Server) Stop() {
	s.workerMu.Lock()
	if !s.running {
		s.workerMu.Unlock()
		return
	}
	s.running = false
	close(s.stop)
	stopped := s.stopped
	s.workerMu.Unlock()

	<-stopped
}

// handleFor returns a memoized LockClient handle for client, dialing on
// first use.
func (s *Server) handleFor(client lockproto.ClientID) (lockproto.LockClient, error) {
	s.handleMu.Lock()
	defer s.handleMu.Unlock()

	if h, ok := s.handles[client]; ok {
		return h, nil
	}
	h, err := s.dialer.Dial(client)
	if err != nil {
		return nil, err
	}
	s.handles[client] = h
	return h, nil
}

// dropHandle forgets a memoized handle, e.g. after a dial/call failure,
// so the next attempt redials instead of reusing a dead connection.
func (s *Server) dropHandle(client lockproto.ClientID) {
	s.handleMu.Lock()
	delete(s.handles, client)
	s.handleMu.Unlock()
}

// Acquire implements lockproto.LockServer.
func (s *Server) Acquire(args lockproto.AcquireArgs, reply *lockproto.AcquireReply) error {
	lc := logger.NewLogContext(string(args.Client), "acquire").WithLock(uint64(args.Lock))
	ctx := logger.WithContext(context.Background(), lc)

	spanCtx, span := telemetry.StartLockSpan(ctx, telemetry.SpanLockAcquire, uint64(args.Lock),
		telemetry.ClientID(string(args.Client)), telemetry.LockSeq(uint64(args.Seq)))
	defer span.End()
	ctx = spanCtx

	s.catalog.mu.Lock()
	rec := s.catalog.getOrCreate(args.Lock)

	if rec.state == stateFree {
		rec.state = stateHeld
		rec.holder = args.Client
		rec.holdSeq = args.Seq
		rec.revokeSent = false

		grant := lockproto.GrantOK
		if len(rec.queue) > 0 {
			grant = lockproto.GrantNoCache
		}
		s.catalog.mu.Unlock()

		reply.Grant = grant
		s.metrics.ObserveGrant(grant)
		telemetry.SetAttributes(ctx, telemetry.Grant(grant.String()))
		logger.DebugCtx(ctx, "lockserver: acquire granted",
			logger.Seq(uint64(args.Seq)), logger.Grant(grant.String()),
			logger.DurationMs(lc.DurationMs()))
		return nil
	}

	rec.queue = append(rec.queue, waiter{client: args.Client, seq: args.Seq})
	needRevoke := !rec.revokeSent
	if needRevoke {
		rec.revokeSent = true
	}
	holder, holdSeq := rec.holder, rec.holdSeq
	queueLen := len(rec.queue)
	s.catalog.mu.Unlock()

	reply.Grant = lockproto.GrantRetry
	s.metrics.ObserveGrant(lockproto.GrantRetry)
	telemetry.SetAttributes(ctx, telemetry.Grant(lockproto.GrantRetry.String()))
	logger.DebugCtx(ctx, "lockserver: acquire queued",
		logger.Seq(uint64(args.Seq)), logger.QueueLen(queueLen))

	if needRevoke {
		select {
		case s.revokeTasks <- revokeTask{holder: holder, lock: args.Lock, seq: holdSeq}:
		default:
			logger.WarnCtx(logger.WithContext(context.Background(), lc.WithOperation("revoke")),
				"lockserver: revoke task queue full, dropping",
				logger.ClientID(string(holder)))
		}
	}
	return nil
}

// Release implements lockproto.LockServer.
func (s *Server) Release(args lockproto.ReleaseArgs, reply *lockproto.ReleaseReply) error {
	_, span := telemetry.StartLockSpan(context.Background(), telemetry.SpanLockRelease, uint64(args.Lock),
		telemetry.ClientID(string(args.Client)))
	defer span.End()

	s.catalog.mu.Lock()
	rec, ok := s.catalog.records[args.Lock]
	if ok {
		rec.state = stateFree
		rec.holder = ""
		rec.revokeSent = false
	}
	s.catalog.mu.Unlock()

	s.metrics.ObserveRelease()
	logger.Debug("lockserver: release",
		logger.LockID(uint64(args.Lock)), logger.ClientID(string(args.Client)))

	select {
	case s.retrySignal <- struct{}{}:
	default:
	}
	return nil
}

// Stat implements lockproto.LockServer.
func (s *Server) Stat(args lockproto.StatArgs, reply *lockproto.StatReply) error {
	s.catalog.mu.Lock()
	defer s.catalog.mu.Unlock()

	rec, ok := s.catalog.records[args.Lock]
	if !ok {
		return nil
	}

	reply.Held = rec.state == stateHeld
	reply.Holder = rec.holder
	reply.Queued = make([]lockproto.ClientID, len(rec.queue))
	for i, w := range rec.queue {
		reply.Queued[i] = w.client
	}
	return nil
}
