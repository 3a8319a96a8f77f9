// Package fserrors defines the status taxonomy shared by the lock server,
// lock client, extent service, and filesystem client.
package fserrors

import "fmt"

// Status is the result code returned by every RPC and filesystem-client
// operation in this module.
type Status int

const (
	// OK indicates the operation completed successfully.
	OK Status = iota
	// RETRY indicates the lock request was queued; the caller will be
	// woken by a later retry callback.
	RETRY
	// NOCACHE indicates the lock was granted but must not be cached by
	// the client (another client is contending for it).
	NOCACHE
	// NOENT indicates the requested extent, block, or directory entry
	// does not exist.
	NOENT
	// IOERR indicates an underlying I/O failure against the extent
	// service.
	IOERR
	// FBIG indicates a write would grow a file past the maximum
	// supported size.
	FBIG
	// EXIST indicates a create failed because the target already
	// exists.
	EXIST
	// RPCERR indicates the underlying transport failed (dial, timeout,
	// connection reset) rather than the remote operation itself.
	RPCERR
)

// String returns the canonical name of the status, as used in logs and
// traces.
func (s Status) String() string {
	switch s {
	case OK:
		return "OK"
	case RETRY:
		return "RETRY"
	case NOCACHE:
		return "NOCACHE"
	case NOENT:
		return "NOENT"
	case IOERR:
		return "IOERR"
	case FBIG:
		return "FBIG"
	case EXIST:
		return "EXIST"
	case RPCERR:
		return "RPCERR"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Error wraps a Status with a human-readable message and implements the
// error interface so it can be returned and compared with errors.As.
type Error struct {
	Status  Status
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Status.String()
	}
	return fmt.Sprintf("%s: %s", e.Status, e.Message)
}

// New constructs an *Error for the given status with a formatted message.
func New(status Status, format string, args ...interface{}) *Error {
	return &Error{Status: status, Message: fmt.Sprintf(format, args...)}
}

// Is reports whether err is an *Error carrying the given status.
func Is(err error, status Status) bool {
	fe, ok := err.(*Error)
	return ok && fe.Status == status
}

// StatusOf extracts the Status carried by err, or OK if err is nil, or
// RPCERR if err is a non-*Error (transport-level) failure.
func StatusOf(err error) Status {
	if err == nil {
		return OK
	}
	if fe, ok := err.(*Error); ok {
		return fe.Status
	}
	return RPCERR
}
