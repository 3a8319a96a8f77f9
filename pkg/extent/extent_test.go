package extent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/cachefs/pkg/fserrors"
)

func TestPutGetRoundTrip(t *testing.T) {
	s := NewService()
	require.NoError(t, s.Put(1, []byte("hello")))

	got, err := s.Get(1)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)
}

func TestGetAttrSizeMatchesPut(t *testing.T) {
	s := NewService()
	require.NoError(t, s.Put(1, []byte("hello world")))

	attr, err := s.GetAttr(1)
	require.NoError(t, err)
	assert.Equal(t, int64(len("hello world")), attr.Size)
}

func TestRemoveThenGetIsNoEnt(t *testing.T) {
	s := NewService()
	require.NoError(t, s.Put(1, []byte("x")))
	require.NoError(t, s.Remove(1))

	_, err := s.Get(1)
	assert.True(t, fserrors.Is(err, fserrors.NOENT))
}

func TestRemoveAbsentIsOK(t *testing.T) {
	s := NewService()
	assert.NoError(t, s.Remove(999))
}

func TestGetAbsentIsNoEnt(t *testing.T) {
	s := NewService()
	_, err := s.Get(42)
	assert.True(t, fserrors.Is(err, fserrors.NOENT))
}

func TestCtimeStampedOnlyOnFirstPut(t *testing.T) {
	s := NewService()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	require.NoError(t, s.Put(1, []byte("a")))
	first, err := s.GetAttr(1)
	require.NoError(t, err)

	require.NoError(t, s.Put(1, []byte("bb")))
	second, err := s.GetAttr(1)
	require.NoError(t, err)

	assert.Equal(t, first.Ctime, second.Ctime, "ctime must not change on overwrite")
	assert.NotEqual(t, first.Mtime, second.Mtime, "mtime should advance on overwrite")
}

func TestSetAttrAdjustsSizeOnly(t *testing.T) {
	s := NewService()
	require.NoError(t, s.Put(1, []byte("0123456789")))

	require.NoError(t, s.SetAttr(1, 3))
	attr, err := s.GetAttr(1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), attr.Size)

	data, err := s.Get(1)
	require.NoError(t, err)
	assert.Equal(t, []byte("0123456789"), data, "setattr must not touch the stored bytes")
}

func TestSetAttrOnAbsentIsNoEnt(t *testing.T) {
	s := NewService()
	err := s.SetAttr(7, 10)
	assert.True(t, fserrors.Is(err, fserrors.NOENT))
}
