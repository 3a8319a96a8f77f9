package rpc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/cachefs/pkg/extent"
	"github.com/marmos91/cachefs/pkg/lockproto"
)

// fakeLockServer is a minimal lockproto.LockServer used to check the
// RPC plumbing end to end without pulling in pkg/lockserver.
type fakeLockServer struct{}

func (fakeLockServer) Acquire(args lockproto.AcquireArgs, reply *lockproto.AcquireReply) error {
	reply.Grant = lockproto.GrantOK
	return nil
}
func (fakeLockServer) Release(lockproto.ReleaseArgs, *lockproto.ReleaseReply) error { return nil }
func (fakeLockServer) Stat(args lockproto.StatArgs, reply *lockproto.StatReply) error {
	reply.Held = true
	reply.Holder = "held-by"
	return nil
}

func TestLockServerRoundTrip(t *testing.T) {
	srv, err := Listen("127.0.0.1:0")
	require.NoError(t, err)
	defer srv.Close()
	require.NoError(t, srv.RegisterLockServer(fakeLockServer{}))
	go srv.Serve()

	client, err := DialLockServer(srv.Addr())
	require.NoError(t, err)
	defer client.Close()

	var reply lockproto.AcquireReply
	err = client.Acquire(lockproto.AcquireArgs{Lock: 1, Client: "c1", Seq: 1}, &reply)
	require.NoError(t, err)
	assert.Equal(t, lockproto.GrantOK, reply.Grant)

	var statReply lockproto.StatReply
	err = client.Stat(lockproto.StatArgs{Lock: 1}, &statReply)
	require.NoError(t, err)
	assert.True(t, statReply.Held)
	assert.EqualValues(t, "held-by", statReply.Holder)
}

func TestExtentRoundTrip(t *testing.T) {
	srv, err := Listen("127.0.0.1:0")
	require.NoError(t, err)
	defer srv.Close()
	require.NoError(t, srv.RegisterExtent(extent.NewService()))
	go srv.Serve()

	client, err := DialExtent(srv.Addr())
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Put(1, []byte("hello")))

	data, err := client.Get(1)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)

	attr, err := client.GetAttr(1)
	require.NoError(t, err)
	assert.EqualValues(t, 5, attr.Size)
}
