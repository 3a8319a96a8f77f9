package logger

import "log/slog"

// Standard field keys for structured logging across the lock server, lock
// client, extent service, and filesystem client.
// Use these keys consistently across all log statements for log aggregation
// and querying.
const (
	// Distributed tracing
	KeyTraceID = "trace_id" // OpenTelemetry trace ID for request correlation
	KeySpanID  = "span_id"  // OpenTelemetry span ID for operation tracking

	// Lock protocol
	KeyLockID   = "lock_id"   // Lock identifier
	KeyClientID = "client_id" // Lock client identifier
	KeySeq      = "seq"       // Request sequence number
	KeyState    = "state"     // Lock record state (client or server side)
	KeyGrant    = "grant"     // Grant kind returned by acquire: OK, NOCACHE, RETRY
	KeyQueueLen = "queue_len" // Queued-request count for a lock

	// Extent service
	KeyExtentID = "extent_id" // Extent identifier

	// Filesystem client
	KeyInode  = "inode"  // Inode number
	KeyBlock  = "block"  // Block number within a file
	KeyOffset = "offset" // Byte offset within a file
	KeySize   = "size"   // Byte count or file size

	// Operation metadata
	KeyOperation  = "operation"  // Operation name
	KeyDurationMs = "duration_ms" // Operation duration in milliseconds
	KeyError      = "error"      // Error message
	KeyStatus     = "status"     // fserrors.Status string
	KeyAttempt    = "attempt"    // Retry attempt number

	// Network
	KeyClientAddr = "client_addr" // Client network address (host:port)
)

// TraceID returns a slog.Attr for an OpenTelemetry trace ID.
func TraceID(id string) slog.Attr {
	return slog.String(KeyTraceID, id)
}

// SpanID returns a slog.Attr for an OpenTelemetry span ID.
func SpanID(id string) slog.Attr {
	return slog.String(KeySpanID, id)
}

// LockID returns a slog.Attr for a lock identifier.
func LockID(id uint64) slog.Attr {
	return slog.Uint64(KeyLockID, id)
}

// ClientID returns a slog.Attr for a lock client identifier.
func ClientID(id string) slog.Attr {
	return slog.String(KeyClientID, id)
}

// Seq returns a slog.Attr for a request sequence number.
func Seq(seq uint64) slog.Attr {
	return slog.Uint64(KeySeq, seq)
}

// State returns a slog.Attr for a lock record state.
func State(state string) slog.Attr {
	return slog.String(KeyState, state)
}

// Grant returns a slog.Attr for the grant kind returned by acquire.
func Grant(kind string) slog.Attr {
	return slog.String(KeyGrant, kind)
}

// QueueLen returns a slog.Attr for the queued-request count of a lock.
func QueueLen(n int) slog.Attr {
	return slog.Int(KeyQueueLen, n)
}

// ExtentID returns a slog.Attr for an extent identifier.
func ExtentID(id uint64) slog.Attr {
	return slog.Uint64(KeyExtentID, id)
}

// Inode returns a slog.Attr for an inode number.
func Inode(inode uint32) slog.Attr {
	return slog.Uint64(KeyInode, uint64(inode))
}

// Block returns a slog.Attr for a block number.
func Block(block uint32) slog.Attr {
	return slog.Uint64(KeyBlock, uint64(block))
}

// Offset returns a slog.Attr for a byte offset.
func Offset(off int64) slog.Attr {
	return slog.Int64(KeyOffset, off)
}

// Size returns a slog.Attr for a byte count or file size.
func Size(size int64) slog.Attr {
	return slog.Int64(KeySize, size)
}

// Operation returns a slog.Attr for an operation name.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// DurationMs returns a slog.Attr for duration in milliseconds.
func DurationMs(ms float64) slog.Attr {
	return slog.Float64(KeyDurationMs, ms)
}

// Err returns a slog.Attr for an error.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// Status returns a slog.Attr for an operation status code.
func Status(status string) slog.Attr {
	return slog.String(KeyStatus, status)
}

// Attempt returns a slog.Attr for a retry attempt number.
func Attempt(n int) slog.Attr {
	return slog.Int(KeyAttempt, n)
}

// ClientAddr returns a slog.Attr for a client's network address.
func ClientAddr(addr string) slog.Attr {
	return slog.String(KeyClientAddr, addr)
}
