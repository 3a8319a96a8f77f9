package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Common attribute keys for lock and extent operations.
const (
	AttrClientAddr = "client.address"
	AttrClientID   = "client.id"

	AttrLockID  = "lock.id"
	AttrLockSeq = "lock.seq"
	AttrGrant   = "lock.grant"

	AttrExtentID = "extent.id"
	AttrInode    = "fs.inode"
	AttrOffset   = "fs.offset"
	AttrSize     = "fs.size"
	AttrStatus   = "fs.status"
)

// Span names for operations.
const (
	SpanLockAcquire = "lock.acquire"
	SpanLockRelease = "lock.release"
	SpanLockRevoke  = "lock.revoke"
	SpanLockRetry   = "lock.retry"
	SpanLockStat    = "lock.stat"

	SpanExtentGet     = "extent.get"
	SpanExtentPut     = "extent.put"
	SpanExtentGetAttr = "extent.getattr"
	SpanExtentSetAttr = "extent.setattr"
	SpanExtentRemove  = "extent.remove"

	SpanFSRead    = "fs.read"
	SpanFSWrite   = "fs.write"
	SpanFSSetsize = "fs.setsize"
	SpanFSUnlink  = "fs.unlink"
)

// ClientAddr returns an attribute for the client's network address.
func ClientAddr(addr string) attribute.KeyValue {
	return attribute.String(AttrClientAddr, addr)
}

// ClientID returns an attribute for a lock client identifier.
func ClientID(id string) attribute.KeyValue {
	return attribute.String(AttrClientID, id)
}

// LockID returns an attribute for a lock identifier.
func LockID(id uint64) attribute.KeyValue {
	return attribute.Int64(AttrLockID, int64(id))
}

// LockSeq returns an attribute for a lock request sequence number.
func LockSeq(seq uint64) attribute.KeyValue {
	return attribute.Int64(AttrLockSeq, int64(seq))
}

// Grant returns an attribute describing the grant kind returned by acquire.
func Grant(kind string) attribute.KeyValue {
	return attribute.String(AttrGrant, kind)
}

// ExtentID returns an attribute for an extent identifier.
func ExtentID(id uint64) attribute.KeyValue {
	return attribute.Int64(AttrExtentID, int64(id))
}

// Inode returns an attribute for a filesystem inode number.
func Inode(inode uint32) attribute.KeyValue {
	return attribute.Int64(AttrInode, int64(inode))
}

// Offset returns an attribute for an I/O offset.
func Offset(offset int64) attribute.KeyValue {
	return attribute.Int64(AttrOffset, offset)
}

// Size returns an attribute for a byte size.
func Size(size int64) attribute.KeyValue {
	return attribute.Int64(AttrSize, size)
}

// Status returns an attribute for an operation status code.
func Status(status string) attribute.KeyValue {
	return attribute.String(AttrStatus, status)
}

// StartLockSpan starts a span for a lock server/client operation.
func StartLockSpan(ctx context.Context, name string, lockID uint64, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := append([]attribute.KeyValue{LockID(lockID)}, attrs...)
	return StartSpan(ctx, name, trace.WithAttributes(allAttrs...))
}

// StartExtentSpan starts a span for an extent store operation.
func StartExtentSpan(ctx context.Context, name string, extentID uint64, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := append([]attribute.KeyValue{ExtentID(extentID)}, attrs...)
	return StartSpan(ctx, name, trace.WithAttributes(allAttrs...))
}

// StartFSSpan starts a span for a filesystem-client block/directory operation.
func StartFSSpan(ctx context.Context, name string, inode uint32, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := append([]attribute.KeyValue{Inode(inode)}, attrs...)
	return StartSpan(ctx, name, trace.WithAttributes(allAttrs...))
}
