package relay

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
)

func newStore(t *testing.T) (*Store, *lua.LState) {
	t.Helper()
	L := lua.NewState()
	t.Cleanup(L.Close)
	return New(L, nil), L
}

func TestPutAndTake(t *testing.T) {
	s, L := newStore(t)
	tb := L.NewTable()

	key := s.Put([]lua.LValue{lua.LString("done"), lua.LNil, tb})
	assert.Equal(t, 1, s.Len())

	values, err := s.Take(key)
	require.NoError(t, err)
	require.Len(t, values, 3)
	assert.Equal(t, lua.LString("done"), values[0])
	assert.Equal(t, lua.LNil, values[1])
	assert.Same(t, tb, values[2])
	assert.Equal(t, 0, s.Len())
}

func TestTake_IsSingleUse(t *testing.T) {
	s, _ := newStore(t)
	key := s.Put(nil)

	_, err := s.Take(key)
	require.NoError(t, err)

	_, err = s.Take(key)
	var ke *KeyError
	require.True(t, errors.As(err, &ke))
	assert.Equal(t, key, ke.Key)

	_, err = s.Take(Key(999))
	assert.True(t, errors.As(err, &ke))
}

func TestKeysAreUnique(t *testing.T) {
	s, _ := newStore(t)
	seen := make(map[Key]bool)
	for i := 0; i < 10; i++ {
		k := s.Put([]lua.LValue{lua.LNumber(i)})
		assert.False(t, seen[k])
		seen[k] = true
	}
	assert.Equal(t, 10, s.Len())
	assert.Equal(t, 10, s.Drain())
	assert.Equal(t, 0, s.Len())
}

func TestBalance(t *testing.T) {
	s, _ := newStore(t)
	require.NoError(t, s.Balance(0))

	k1 := s.Put(nil)
	k2 := s.Put(nil)
	_, err := s.Take(k1)
	require.NoError(t, err)

	err = s.Balance(0)
	var le *LeakError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, []Key{k2}, le.Outstanding)
	assert.Contains(t, err.Error(), k2.String())

	require.NoError(t, s.Balance(1))
}

func TestNew_SharesRegistryTable(t *testing.T) {
	s, L := newStore(t)
	key := s.Put([]lua.LValue{lua.LTrue})

	again := New(L, nil)
	assert.Equal(t, 1, again.Len())
	assert.Greater(t, uint64(again.Put(nil)), uint64(key))

	values, err := again.Take(key)
	require.NoError(t, err)
	assert.Equal(t, []lua.LValue{lua.LTrue}, values)
}
