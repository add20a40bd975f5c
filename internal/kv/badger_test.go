package kv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *BadgerStore {
	t.Helper()

	store, err := OpenBadger(BadgerConfig{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestBadgerGetAbsentKey(t *testing.T) {
	store := openTestStore(t)

	value, found, err := store.Get(context.Background(), "missing")
	require.NoError(t, err)
	require.False(t, found)
	require.Nil(t, value)
}

func TestBadgerSetGet(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, KeyLostItems, []byte(`[{"id":1}]`)))

	value, found, err := store.Get(ctx, KeyLostItems)
	require.NoError(t, err)
	require.True(t, found)
	require.JSONEq(t, `[{"id":1}]`, string(value))

	// Overwrite wins.
	require.NoError(t, store.Set(ctx, KeyLostItems, []byte(`[]`)))
	value, found, err = store.Get(ctx, KeyLostItems)
	require.NoError(t, err)
	require.True(t, found)
	require.JSONEq(t, `[]`, string(value))
}

func TestBadgerDelete(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, KeyUser, []byte(`{"uid":"u1"}`)))
	require.NoError(t, store.Delete(ctx, KeyUser))

	_, found, err := store.Get(ctx, KeyUser)
	require.NoError(t, err)
	require.False(t, found)

	// Deleting an absent key is not an error.
	require.NoError(t, store.Delete(ctx, KeyUser))
}

func TestBadgerOnDisk(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := OpenBadger(BadgerConfig{Path: dir, SyncWrites: true})
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, KeyFoundItems, []byte(`[]`)))
	require.NoError(t, store.Close())

	reopened, err := OpenBadger(BadgerConfig{Path: dir})
	require.NoError(t, err)
	defer reopened.Close()

	value, found, err := reopened.Get(ctx, KeyFoundItems)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "[]", string(value))
}
