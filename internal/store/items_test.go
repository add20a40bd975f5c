package store

import (
	"context"
	"errors"
	"io"
	"testing"

	"reclaim/internal/kv"
	"reclaim/internal/utils"
	"reclaim/pkg/types"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestStore(t *testing.T) kv.Store {
	t.Helper()

	store, err := kv.OpenBadger(kv.BadgerConfig{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func newTestRepository(t *testing.T, store kv.Store) *Repository {
	t.Helper()

	repo, err := NewRepository(context.Background(), store, testLogger())
	require.NoError(t, err)
	return repo
}

func TestAddLostItem(t *testing.T) {
	repo := newTestRepository(t, newTestStore(t))
	ctx := context.Background()

	item, err := repo.AddLostItem(ctx, types.Item{
		Title:       "Blue Headphones",
		Category:    "Electronics",
		Description: "Over-ear, scratch on the left cup",
		Location:    "Downtown gym",
		OwnerID:     "user-1",
		OwnerEmail:  "user1@example.com",
	})
	require.NoError(t, err)
	require.NotZero(t, item.ID)
	require.Equal(t, types.ItemKindLost, item.Kind)
	require.Equal(t, types.ItemStatusPending, item.Status)
	require.False(t, item.CreatedAt.IsZero())
	require.Equal(t, "Blue Headphones", item.Title)
	require.Equal(t, "user-1", item.OwnerID)
}

func TestAddFoundItemDefaults(t *testing.T) {
	repo := newTestRepository(t, newTestStore(t))

	item, err := repo.AddFoundItem(context.Background(), types.Item{
		Title:    "Set of Keys",
		Category: "Keys",
	})
	require.NoError(t, err)
	require.Equal(t, types.ItemKindFound, item.Kind)
	require.Equal(t, types.ItemStatusUnclaimed, item.Status)
}

func TestAddItemsAssignsUniqueIDs(t *testing.T) {
	repo := newTestRepository(t, newTestStore(t))
	ctx := context.Background()

	seen := make(map[int64]bool)
	for range 50 {
		item, err := repo.AddLostItem(ctx, types.Item{Title: "x", Category: "Other"})
		require.NoError(t, err)
		require.False(t, seen[item.ID], "duplicate id %d", item.ID)
		seen[item.ID] = true
	}
}

func TestListItemsNewestFirst(t *testing.T) {
	repo := newTestRepository(t, newTestStore(t))
	ctx := context.Background()

	first, err := repo.AddLostItem(ctx, types.Item{Title: "first", Category: "Other"})
	require.NoError(t, err)
	second, err := repo.AddLostItem(ctx, types.Item{Title: "second", Category: "Other"})
	require.NoError(t, err)

	items := repo.ListItems(types.ItemKindLost, "")
	require.Len(t, items, 2)
	require.Equal(t, second.ID, items[0].ID)
	require.Equal(t, first.ID, items[1].ID)
}

func TestListItemsFilter(t *testing.T) {
	repo := newTestRepository(t, newTestStore(t))
	ctx := context.Background()

	_, err := repo.AddLostItem(ctx, types.Item{Title: "Blue Headphones", Category: "Electronics", Location: "gym"})
	require.NoError(t, err)
	_, err = repo.AddLostItem(ctx, types.Item{Title: "Brown Wallet", Category: "Wallet/Purse", Location: "station"})
	require.NoError(t, err)

	items := repo.ListItems(types.ItemKindLost, "HEADPHONES")
	require.Len(t, items, 1)
	require.Equal(t, "Blue Headphones", items[0].Title)

	items = repo.ListItems(types.ItemKindLost, "station")
	require.Len(t, items, 1)
	require.Equal(t, "Brown Wallet", items[0].Title)

	require.Empty(t, repo.ListItems(types.ItemKindLost, "bicycle"))
}

func TestRepositoryReload(t *testing.T) {
	store := newTestStore(t)
	repo := newTestRepository(t, store)
	ctx := context.Background()

	lost, err := repo.AddLostItem(ctx, types.Item{Title: "Charm Bracelet", Category: "Jewelry", OwnerEmail: "a@example.com"})
	require.NoError(t, err)
	found, err := repo.AddFoundItem(ctx, types.Item{Title: "Teddy Bear", Category: "Toy"})
	require.NoError(t, err)

	reloaded := newTestRepository(t, store)

	gotLost, err := reloaded.GetItem(types.ItemKindLost, lost.ID)
	require.NoError(t, err)
	require.Equal(t, lost.Title, gotLost.Title)
	require.Equal(t, lost.Status, gotLost.Status)
	require.Equal(t, lost.OwnerEmail, gotLost.OwnerEmail)
	require.True(t, lost.CreatedAt.Equal(gotLost.CreatedAt))

	gotFound, err := reloaded.GetItem(types.ItemKindFound, found.ID)
	require.NoError(t, err)
	require.Equal(t, found.Title, gotFound.Title)

	// New ids must not collide with reloaded ones.
	extra, err := reloaded.AddLostItem(ctx, types.Item{Title: "extra", Category: "Other"})
	require.NoError(t, err)
	require.Greater(t, extra.ID, lost.ID)
}

func TestUpdateItem(t *testing.T) {
	repo := newTestRepository(t, newTestStore(t))
	ctx := context.Background()

	item, err := repo.AddLostItem(ctx, types.Item{Title: "Backpack", Category: "Bag/Backpack", Description: "black"})
	require.NoError(t, err)

	err = repo.UpdateItem(ctx, types.ItemKindLost, item.ID, types.ItemPatch{
		Title:  utils.StringPtr("Black Backpack"),
		Reward: utils.StringPtr("$10"),
	})
	require.NoError(t, err)

	got, err := repo.GetItem(types.ItemKindLost, item.ID)
	require.NoError(t, err)
	require.Equal(t, "Black Backpack", got.Title)
	require.Equal(t, "$10", got.Reward)
	require.Equal(t, "black", got.Description)
}

func TestUpdateItemMissingIDIsNoOp(t *testing.T) {
	repo := newTestRepository(t, newTestStore(t))
	ctx := context.Background()

	_, err := repo.AddLostItem(ctx, types.Item{Title: "Backpack", Category: "Bag/Backpack"})
	require.NoError(t, err)

	err = repo.UpdateItem(ctx, types.ItemKindLost, 999, types.ItemPatch{Title: utils.StringPtr("changed")})
	require.NoError(t, err)

	items := repo.ListItems(types.ItemKindLost, "")
	require.Len(t, items, 1)
	require.Equal(t, "Backpack", items[0].Title)
}

func TestDeleteItem(t *testing.T) {
	repo := newTestRepository(t, newTestStore(t))
	ctx := context.Background()

	keep, err := repo.AddLostItem(ctx, types.Item{Title: "keep", Category: "Other"})
	require.NoError(t, err)
	remove, err := repo.AddLostItem(ctx, types.Item{Title: "remove", Category: "Other"})
	require.NoError(t, err)

	require.NoError(t, repo.DeleteItem(ctx, types.ItemKindLost, remove.ID))

	items := repo.ListItems(types.ItemKindLost, "")
	require.Len(t, items, 1)
	require.Equal(t, keep.ID, items[0].ID)

	// Deleting an id that does not exist is a no-op.
	require.NoError(t, repo.DeleteItem(ctx, types.ItemKindLost, remove.ID))
	require.Len(t, repo.ListItems(types.ItemKindLost, ""), 1)
}

func TestGetUserItems(t *testing.T) {
	repo := newTestRepository(t, newTestStore(t))
	ctx := context.Background()

	_, err := repo.AddLostItem(ctx, types.Item{Title: "mine by id", Category: "Other", OwnerID: "user-1"})
	require.NoError(t, err)
	_, err = repo.AddFoundItem(ctx, types.Item{Title: "mine by email", Category: "Other", OwnerEmail: "user1@example.com"})
	require.NoError(t, err)
	_, err = repo.AddLostItem(ctx, types.Item{Title: "someone else's", Category: "Other", OwnerID: "user-2"})
	require.NoError(t, err)

	lost, found := repo.GetUserItems("user-1")
	require.Len(t, lost, 1)
	require.Empty(t, found)
	require.Equal(t, "mine by id", lost[0].Title)

	lost, found = repo.GetUserItems("user1@example.com")
	require.Empty(t, lost)
	require.Len(t, found, 1)
	require.Equal(t, "mine by email", found[0].Title)

	lost, found = repo.GetUserItems("")
	require.Empty(t, lost)
	require.Empty(t, found)
}

func TestAddSighting(t *testing.T) {
	repo := newTestRepository(t, newTestStore(t))
	ctx := context.Background()

	item, err := repo.AddLostItem(ctx, types.Item{Title: "Wallet", Category: "Wallet/Purse"})
	require.NoError(t, err)

	sighting := types.Sighting{Name: "Sam", Email: "sam@example.com", Location: "Main St"}
	require.NoError(t, repo.AddSighting(ctx, types.ItemKindLost, item.ID, sighting))
	require.NoError(t, repo.AddSighting(ctx, types.ItemKindLost, item.ID, sighting))

	got, err := repo.GetItem(types.ItemKindLost, item.ID)
	require.NoError(t, err)
	require.Equal(t, 2, got.SeenCount)
	require.NotNil(t, got.LastSeen)
	require.Len(t, got.Sightings, 2)
	require.Equal(t, "Sam", got.Sightings[0].Name)
	require.False(t, got.Sightings[0].ReportedAt.IsZero())

	err = repo.AddSighting(ctx, types.ItemKindLost, 999, sighting)
	require.ErrorIs(t, err, types.ErrItemNotFound)
}

func TestMarkFound(t *testing.T) {
	repo := newTestRepository(t, newTestStore(t))
	ctx := context.Background()

	item, err := repo.AddLostItem(ctx, types.Item{Title: "Keys", Category: "Keys"})
	require.NoError(t, err)

	details := &types.Sighting{Name: "Finder", Email: "finder@example.com", Location: "Park"}
	require.NoError(t, repo.MarkFound(ctx, item.ID, "finder@example.com", details))

	got, err := repo.GetItem(types.ItemKindLost, item.ID)
	require.NoError(t, err)
	require.Equal(t, types.ItemStatusFound, got.Status)
	require.Equal(t, "finder@example.com", got.FoundBy)
	require.NotNil(t, got.FoundDate)
	require.NotNil(t, got.FoundDetails)
	require.Equal(t, "Finder", got.FoundDetails.Name)

	// The transition is one-way.
	err = repo.MarkFound(ctx, item.ID, "someone@example.com", nil)
	require.ErrorIs(t, err, types.ErrInvalidTransition)
}

func TestClaimItem(t *testing.T) {
	repo := newTestRepository(t, newTestStore(t))
	ctx := context.Background()

	item, err := repo.AddFoundItem(ctx, types.Item{Title: "Glasses", Category: "Accessories"})
	require.NoError(t, err)

	require.NoError(t, repo.ClaimItem(ctx, item.ID, "owner@example.com", nil))

	got, err := repo.GetItem(types.ItemKindFound, item.ID)
	require.NoError(t, err)
	require.Equal(t, types.ItemStatusClaimed, got.Status)
	require.Equal(t, "owner@example.com", got.ClaimedBy)
	require.NotNil(t, got.ClaimedDate)

	err = repo.ClaimItem(ctx, item.ID, "other@example.com", nil)
	require.ErrorIs(t, err, types.ErrInvalidTransition)
}

// failingStore rejects writes so tests can observe the write-through
// contract: a failed persist must leave memory untouched.
type failingStore struct {
	kv.Store
	failWrites bool
}

func (s *failingStore) Set(ctx context.Context, key string, value []byte) error {
	if s.failWrites {
		return errors.New("disk full")
	}
	return s.Store.Set(ctx, key, value)
}

func TestFailedPersistLeavesMemoryUnchanged(t *testing.T) {
	inner := newTestStore(t)
	store := &failingStore{Store: inner}
	repo := newTestRepository(t, store)
	ctx := context.Background()

	item, err := repo.AddLostItem(ctx, types.Item{Title: "before", Category: "Other"})
	require.NoError(t, err)

	store.failWrites = true

	_, err = repo.AddLostItem(ctx, types.Item{Title: "after", Category: "Other"})
	require.Error(t, err)

	require.Error(t, repo.DeleteItem(ctx, types.ItemKindLost, item.ID))
	require.Error(t, repo.MarkFound(ctx, item.ID, "x", nil))

	items := repo.ListItems(types.ItemKindLost, "")
	require.Len(t, items, 1)
	require.Equal(t, "before", items[0].Title)
	require.Equal(t, types.ItemStatusPending, items[0].Status)
}
