package lockclient

import (
	"sync"

	"github.com/marmos91/cachefs/internal/logger"
	"github.com/marmos91/cachefs/pkg/lockproto"
)

// releaseTask is a unit of work for the releaser: tell the server this
// client is done with lock, at the sequence it was last granted.
type releaseTask struct {
	lock lockproto.LockID
	seq  lockproto.SequenceNumber
}

// releaser is the lock client's background worker. Running release RPCs
// on a dedicated goroutine keeps network I/O off the goroutine that
// called user-level Release and off the Revoke handler goroutine, so
// neither blocks on the network while holding the cache lock.
//
// Lifecycle mirrors the server's revoker/retry-dispatcher workers (see
// pkg/lockserver), itself grounded on the teacher's scanner Start/Stop
// shape, adapted here to a queue consumer rather than a periodic sweep.
type releaser struct {
	cache *Cache
	tasks chan releaseTask

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	stopped chan struct{}
}

func newReleaser(cache *Cache) *releaser {
	return &releaser{
		cache: cache,
		tasks: make(chan releaseTask, 256),
	}
}

// Start launches the releaser goroutine. Safe to call multiple times.
func (r *releaser) Start() {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	r.stop = make(chan struct{})
	r.stopped = make(chan struct{})
	stop, stopped := r.stop, r.stopped
	r.mu.Unlock()

	go r.loop(stop, stopped)
}

// Stop halts the releaser goroutine, blocking until it exits.
func (r *releaser) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	close(r.stop)
	stopped := r.stopped
	r.mu.Unlock()

	<-stopped
}

// enqueue hands a released lock to the releaser. Called with the
// cache's mutex held, after the record has already been evicted from
// the cache map.
func (r *releaser) enqueue(lock lockproto.LockID, seq lockproto.SequenceNumber) {
	select {
	case r.tasks <- releaseTask{lock: lock, seq: seq}:
	default:
		logger.Warn("lockclient: releaser queue full, dropping release", logger.LockID(uint64(lock)))
	}
}

func (r *releaser) loop(stop <-chan struct{}, stopped chan<- struct{}) {
	defer close(stopped)
	for {
		select {
		case <-stop:
			return
		case task := <-r.tasks:
			r.release(task)
		}
	}
}

func (r *releaser) release(task releaseTask) {
	var reply lockproto.ReleaseReply
	args := lockproto.ReleaseArgs{Lock: task.lock, Client: r.cache.self, Seq: task.seq}
	if err := r.cache.server.Release(args, &reply); err != nil {
		logger.Warn("lockclient: release RPC failed", logger.LockID(uint64(task.lock)), logger.Err(err))
		return
	}
	logger.Debug("lockclient: release RPC completed", logger.LockID(uint64(task.lock)))
}
