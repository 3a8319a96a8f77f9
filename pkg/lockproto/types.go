// Package lockproto defines the wire-level types and the server/client
// interfaces for the distributed lock protocol. It carries no transport
// logic of its own; see internal/transport for concrete bindings.
package lockproto

import (
	"fmt"

	"github.com/marmos91/cachefs/pkg/fserrors"
)

// LockID identifies a single lockable object. Callers choose the
// namespace (e.g. it may be derived from an inode number); the lock
// server treats it as an opaque key.
type LockID uint64

// ClientID identifies a lock client across its lifetime. It doubles as
// the dial target the server uses for server-initiated callbacks
// (revoke, retry): see CallbackAddr.
type ClientID string

// SequenceNumber is attached to every client acquire/release and echoed
// by the server on revoke/retry callbacks, so a callback can be
// correlated with the request it answers. Neither the server nor the
// client compares it; the client recognizes a stale retry by its
// record no longer being in the acquiring state.
type SequenceNumber uint64

// Grant describes how an Acquire request was satisfied.
type Grant int

const (
	// GrantNone is the zero value; never returned on success.
	GrantNone Grant = iota
	// GrantOK means the lock was granted and may be cached by the
	// client for reuse without contacting the server again.
	GrantOK
	// GrantNoCache means the lock was granted but must not be cached:
	// another client is waiting, so the client must release it after
	// use instead of holding it speculatively.
	GrantNoCache
	// GrantRetry means the lock is currently held by another client;
	// the request has been queued and the caller will be woken by a
	// Retry callback once it is this client's turn.
	GrantRetry
)

func (g Grant) String() string {
	switch g {
	case GrantOK:
		return "OK"
	case GrantNoCache:
		return "NOCACHE"
	case GrantRetry:
		return "RETRY"
	default:
		return fmt.Sprintf("Grant(%d)", int(g))
	}
}

// AcquireArgs requests a lock on behalf of a client.
type AcquireArgs struct {
	Lock     LockID
	Client   ClientID
	Seq      SequenceNumber
}

// AcquireReply reports how the request was satisfied.
type AcquireReply struct {
	Grant Grant
}

// ReleaseArgs releases a lock previously granted to a client.
type ReleaseArgs struct {
	Lock   LockID
	Client ClientID
	Seq    SequenceNumber
}

// ReleaseReply is empty; release never fails from the caller's point of
// view (releasing a lock you do not hold is a caller bug, not a
// recoverable RPC error).
type ReleaseReply struct{}

// StatArgs requests the current holder/queue state of a lock, used by
// tests and diagnostics.
type StatArgs struct {
	Lock LockID
}

// StatReply reports a lock's current state.
type StatReply struct {
	Held     bool
	Holder   ClientID
	Queued   []ClientID
}

// RevokeArgs is sent by the server to the current holder of a contended
// lock, asking it to release as soon as it is safe to do so.
type RevokeArgs struct {
	Lock LockID
	Seq  SequenceNumber
}

// RevokeReply reports OK, or NOENT if the client has no record of the
// lock (it has already been released or was never cached there).
type RevokeReply struct {
	Status fserrors.Status
}

// RetryArgs is sent by the server to a waiting client once the lock it
// requested has become available.
type RetryArgs struct {
	Lock LockID
	Seq  SequenceNumber
}

// RetryReply reports OK, or NOENT if the client has no record of the
// lock (the request it would satisfy has already been superseded).
type RetryReply struct {
	Status fserrors.Status
}

// LockServer is the RPC surface the lock server exposes to clients.
type LockServer interface {
	Acquire(args AcquireArgs, reply *AcquireReply) error
	Release(args ReleaseArgs, reply *ReleaseReply) error
	Stat(args StatArgs, reply *StatReply) error
}

// LockClient is the RPC surface a lock client exposes to the server for
// server-initiated callbacks.
type LockClient interface {
	Revoke(args RevokeArgs, reply *RevokeReply) error
	Retry(args RetryArgs, reply *RetryReply) error
}
