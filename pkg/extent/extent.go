// Package extent implements the extent service: a single-node, in-memory
// keyed blob store with an attribute side table (size, atime, mtime,
// ctime).
package extent

import (
	"sync"
	"time"

	"github.com/marmos91/cachefs/pkg/fserrors"
)

// ID identifies an extent. Block keys derived by the filesystem client
// are ordinary IDs from this service's point of view.
type ID uint64

// Attr holds an extent's size and timestamps.
type Attr struct {
	Size  int64
	Atime time.Time
	Mtime time.Time
	Ctime time.Time
}

// entry is the per-extent state kept under the store's mutex.
type entry struct {
	data []byte
	attr Attr
}

// Service is the extent service's in-memory implementation. Concurrency
// is serialized behind a single RWMutex, following the teacher's
// in-memory metadata store's own approach to this same trade-off
// (simplicity over per-key locking, since the service has no
// persistence or replication to coordinate).
type Service struct {
	mu      sync.RWMutex
	entries map[ID]*entry
	now     func() time.Time
}

// NewService returns an empty extent service.
func NewService() *Service {
	return &Service{
		entries: make(map[ID]*entry),
		now:     time.Now,
	}
}

// Put overwrites the blob at id, updating size/atime/mtime. ctime is
// stamped only the first time an id is seen (original_source/extent_server.cc:
// `if (attr_store.count(id) == 0) { nattr.ctime = time(NULL); }`), never on
// subsequent overwrites.
func (s *Service) Put(id ID, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	e, ok := s.entries[id]
	if !ok {
		e = &entry{attr: Attr{Ctime: now}}
		s.entries[id] = e
	}

	stored := make([]byte, len(data))
	copy(stored, data)
	e.data = stored
	e.attr.Size = int64(len(data))
	e.attr.Atime = now
	e.attr.Mtime = now
	return nil
}

// Get returns a copy of the blob stored at id, or fserrors.NOENT if
// absent.
func (s *Service) Get(id ID) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[id]
	if !ok {
		return nil, fserrors.New(fserrors.NOENT, "extent %d not found", id)
	}

	out := make([]byte, len(e.data))
	copy(out, e.data)
	return out, nil
}

// GetAttr returns the attributes recorded for id, or fserrors.NOENT if
// absent.
func (s *Service) GetAttr(id ID) (Attr, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[id]
	if !ok {
		return Attr{}, fserrors.New(fserrors.NOENT, "extent %d not found", id)
	}
	return e.attr, nil
}

// SetAttr adjusts only the recorded size for id; it does not truncate or
// extend the stored bytes (used by the filesystem client to stamp
// metadata independently of the blob itself). Returns fserrors.NOENT if
// id has never been Put.
func (s *Service) SetAttr(id ID, size int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return fserrors.New(fserrors.NOENT, "extent %d not found", id)
	}
	e.attr.Size = size
	return nil
}

// Remove erases both the blob and its attributes at id. It never checks
// for existence first (original_source/extent_server.cc's remove is an
// unconditional `store.erase(id)`); removing an absent id is OK.
func (s *Service) Remove(id ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, id)
	return nil
}
