package rpc

import (
	"net/rpc"

	"github.com/marmos91/cachefs/pkg/extent"
	"github.com/marmos91/cachefs/pkg/lockproto"
)

// LockServerStub is a net/rpc-backed lockproto.LockServer, used by a
// lock client cache to reach a remote lock server.
type LockServerStub struct {
	conn *rpc.Client
}

// DialLockServer connects to a lock server listening at addr.
func DialLockServer(addr string) (*LockServerStub, error) {
	conn, err := rpc.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &LockServerStub{conn: conn}, nil
}

func (c *LockServerStub) Acquire(args lockproto.AcquireArgs, reply *lockproto.AcquireReply) error {
	return c.conn.Call("LockServer.Acquire", args, reply)
}

func (c *LockServerStub) Release(args lockproto.ReleaseArgs, reply *lockproto.ReleaseReply) error {
	return c.conn.Call("LockServer.Release", args, reply)
}

func (c *LockServerStub) Stat(args lockproto.StatArgs, reply *lockproto.StatReply) error {
	return c.conn.Call("LockServer.Stat", args, reply)
}

// Close releases the underlying connection.
func (c *LockServerStub) Close() error { return c.conn.Close() }

var _ lockproto.LockServer = (*LockServerStub)(nil)

// LockClientStub is a net/rpc-backed lockproto.LockClient, used by the
// lock server (via a Dialer) to reach a client's callback listener.
type LockClientStub struct {
	conn *rpc.Client
}

// DialLockClient connects to a lock client's callback listener at addr.
func DialLockClient(addr string) (*LockClientStub, error) {
	conn, err := rpc.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &LockClientStub{conn: conn}, nil
}

func (c *LockClientStub) Revoke(args lockproto.RevokeArgs, reply *lockproto.RevokeReply) error {
	return c.conn.Call("LockClient.Revoke", args, reply)
}

func (c *LockClientStub) Retry(args lockproto.RetryArgs, reply *lockproto.RetryReply) error {
	return c.conn.Call("LockClient.Retry", args, reply)
}

// Close releases the underlying connection.
func (c *LockClientStub) Close() error { return c.conn.Close() }

var _ lockproto.LockClient = (*LockClientStub)(nil)

// ExtentStub is a net/rpc-backed extent.Client, used by the filesystem
// client to reach a remote extent service.
type ExtentStub struct {
	conn *rpc.Client
}

// DialExtent connects to an extent service listening at addr.
func DialExtent(addr string) (*ExtentStub, error) {
	conn, err := rpc.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &ExtentStub{conn: conn}, nil
}

func (c *ExtentStub) Put(id extent.ID, data []byte) error {
	return c.conn.Call("Extent.Put", extent.PutArgs{ID: id, Data: data}, &extent.PutReply{})
}

func (c *ExtentStub) Get(id extent.ID) ([]byte, error) {
	var reply extent.GetReply
	if err := c.conn.Call("Extent.Get", extent.GetArgs{ID: id}, &reply); err != nil {
		return nil, err
	}
	return reply.Data, nil
}

func (c *ExtentStub) GetAttr(id extent.ID) (extent.Attr, error) {
	var reply extent.GetAttrReply
	if err := c.conn.Call("Extent.GetAttr", extent.GetAttrArgs{ID: id}, &reply); err != nil {
		return extent.Attr{}, err
	}
	return reply.Attr, nil
}

func (c *ExtentStub) SetAttr(id extent.ID, size int64) error {
	return c.conn.Call("Extent.SetAttr", extent.SetAttrArgs{ID: id, Size: size}, &extent.SetAttrReply{})
}

func (c *ExtentStub) Remove(id extent.ID) error {
	return c.conn.Call("Extent.Remove", extent.RemoveArgs{ID: id}, &extent.RemoveReply{})
}

// Close releases the underlying connection.
func (c *ExtentStub) Close() error { return c.conn.Close() }

var _ extent.Client = (*ExtentStub)(nil)

// Dialer implements lockserver.Dialer over net/rpc: it treats each
// ClientID as a dialable "host:port" callback address. lockserver.Server
// already memoizes the handles this returns, so Dialer itself holds no
// state.
type Dialer struct{}

func (Dialer) Dial(client lockproto.ClientID) (lockproto.LockClient, error) {
	return DialLockClient(string(client))
}
