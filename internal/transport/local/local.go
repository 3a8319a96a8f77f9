// Package local provides an in-memory, direct-dispatch binding of the
// lock and extent service interfaces, used by tests and single-process
// demos where no real network round-trip is needed.
package local

import (
	"fmt"
	"sync"

	"github.com/marmos91/cachefs/pkg/extent"
	"github.com/marmos91/cachefs/pkg/lockproto"
)

// Registry maps ClientID callback addresses to in-process LockClient
// handlers, and acts as the Dialer the lock server uses to reach them.
// It also exposes a single extent.Service endpoint shared by all
// dialers, since the extent service has no callback surface.
type Registry struct {
	mu      sync.Mutex
	clients map[lockproto.ClientID]lockproto.LockClient
	extentSvc *extent.Service
}

// NewRegistry returns an empty registry. extentSvc may be nil if the
// test does not exercise the extent service.
func NewRegistry(extentSvc *extent.Service) *Registry {
	return &Registry{
		clients:   make(map[lockproto.ClientID]lockproto.LockClient),
		extentSvc: extentSvc,
	}
}

// Register associates a ClientID with the in-process handler that
// implements its LockClient callbacks (revoke, retry).
func (r *Registry) Register(id lockproto.ClientID, handler lockproto.LockClient) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[id] = handler
}

// Dial implements lockserver.Dialer.
func (r *Registry) Dial(id lockproto.ClientID) (lockproto.LockClient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.clients[id]
	if !ok {
		return nil, fmt.Errorf("local transport: no client registered for %q", id)
	}
	return h, nil
}

// ExtentService returns the shared in-process extent service, or nil if
// none was configured.
func (r *Registry) ExtentService() *extent.Service {
	return r.extentSvc
}

// LockServerStub adapts a lockproto.LockServer to a thin value type so
// callers (the filesystem client, lockclient) depend only on the
// interface, matching how the rpc transport's client stub looks from the
// caller's point of view.
type LockServerStub struct {
	Server lockproto.LockServer
}

func (s LockServerStub) Acquire(args lockproto.AcquireArgs, reply *lockproto.AcquireReply) error {
	return s.Server.Acquire(args, reply)
}

func (s LockServerStub) Release(args lockproto.ReleaseArgs, reply *lockproto.ReleaseReply) error {
	return s.Server.Release(args, reply)
}

func (s LockServerStub) Stat(args lockproto.StatArgs, reply *lockproto.StatReply) error {
	return s.Server.Stat(args, reply)
}
