package state

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKVAppendAndRemoveKeepOrder(t *testing.T) {
	mgr, _ := newTestManager(t)
	key := []byte("index")
	for _, v := range []string{"a", "b", "a", "c"} {
		require.NoError(t, mgr.KVAppend(key, []byte(v)))
	}
	var list [][]byte
	require.NoError(t, mgr.KVGetList(key, &list))
	require.Equal(t, [][]byte{[]byte("a"), []byte("b"), []byte("c")}, list)

	require.NoError(t, mgr.KVRemove(key, []byte("b")))
	require.NoError(t, mgr.KVGetList(key, &list))
	require.Equal(t, [][]byte{[]byte("a"), []byte("c")}, list)

	require.NoError(t, mgr.KVRemove(key, []byte("a")))
	require.NoError(t, mgr.KVRemove(key, []byte("c")))
	ok, err := mgr.KVGet(key, nil)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestKVGetListInitialisesEmptySlice(t *testing.T) {
	mgr, _ := newTestManager(t)
	var list []uint64
	require.NoError(t, mgr.KVGetList([]byte("missing"), &list))
	require.NotNil(t, list)
	require.Empty(t, list)

	var notSlice int
	require.Error(t, mgr.KVGetList([]byte("missing"), &notSlice))
}

func TestCountersIssueMonotonicIDs(t *testing.T) {
	mgr, _ := newTestManager(t)
	for want := uint32(0); want < 3; want++ {
		id, err := mgr.NextBountyID()
		require.NoError(t, err)
		require.Equal(t, want, id)
	}
	projectID, err := mgr.NextProjectID()
	require.NoError(t, err)
	require.Zero(t, projectID, "bounty and project counters are independent")

	next, err := mgr.NextBountyID()
	require.NoError(t, err)
	require.EqualValues(t, 3, next)
}

func TestCountersDiscardReissuesID(t *testing.T) {
	mgr, _ := newTestManager(t)
	_, err := mgr.NextBountyID()
	require.NoError(t, err)
	require.NoError(t, mgr.Commit())

	id, err := mgr.NextBountyID()
	require.NoError(t, err)
	require.EqualValues(t, 1, id)
	mgr.Discard()

	id, err = mgr.NextBountyID()
	require.NoError(t, err)
	require.EqualValues(t, 1, id)
}
