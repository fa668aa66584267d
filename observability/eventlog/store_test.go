package eventlog

import (
	"context"
	"math/big"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"stallion/core/events"
)

func newTestStore(t *testing.T, path string) *Store {
	t.Helper()
	db, err := Open("sqlite", path)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	store, err := NewStore(db)
	require.NoError(t, err)
	return store
}

func TestStoreAppendAndList(t *testing.T) {
	store := newTestStore(t, filepath.Join(t.TempDir(), "events.db"))
	ctx := context.Background()

	store.Emit(events.BountyCreated{ID: 0, Token: "usdc", Reward: big.NewInt(1000)})
	store.Emit(events.BountyClosed{ID: 0})
	store.Emit(events.BountyCreated{ID: 1, Token: "usdc", Reward: big.NewInt(5)})

	all, err := store.List(ctx, Query{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, int64(1), all[0].Sequence)
	require.Equal(t, events.TypeBountyCreated, all[0].Type)
	require.Equal(t, "1000", all[0].Attrs()["reward"])
	require.NotEqual(t, all[0].ID, all[1].ID)

	created, err := store.List(ctx, Query{Type: events.TypeBountyCreated})
	require.NoError(t, err)
	require.Len(t, created, 2)

	after, err := store.List(ctx, Query{After: 2, Limit: 10})
	require.NoError(t, err)
	require.Len(t, after, 1)
	require.Equal(t, int64(3), after[0].Sequence)
}

func TestStoreResumesSequence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")
	first := newTestStore(t, path)
	require.NoError(t, first.Append(context.Background(), events.BountyClosed{ID: 4}))

	second := newTestStore(t, path)
	require.NoError(t, second.Append(context.Background(), events.BountyClosed{ID: 5}))

	rows, err := second.List(context.Background(), Query{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, int64(2), rows[1].Sequence)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open("mysql", "dsn")
	require.Error(t, err)
}
