package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"reclaim/internal/kv"
	"reclaim/internal/utils"
	"reclaim/pkg/types"

	"github.com/sirupsen/logrus"
)

// Repository owns the canonical lost and found collections. Both are
// loaded from the key-value store once at construction and held in
// memory for the life of the process; every mutation is serialized back
// to the store before it is committed to memory, so a failed write
// leaves memory and storage in agreement.
//
// Collections are kept newest-first. Writers across processes are not
// coordinated: the full-collection overwrite makes the last writer win.
type Repository struct {
	logger *logrus.Logger
	store  kv.Store

	mu         sync.Mutex
	lostItems  []*types.Item
	foundItems []*types.Item
	matches    []*types.Match
	lastID     int64
}

func NewRepository(ctx context.Context, store kv.Store, logger *logrus.Logger) (*Repository, error) {
	r := &Repository{
		logger:     logger,
		store:      store,
		lostItems:  make([]*types.Item, 0),
		foundItems: make([]*types.Item, 0),
		matches:    make([]*types.Match, 0),
	}

	if err := loadCollection(ctx, store, logger, kv.KeyLostItems, &r.lostItems); err != nil {
		return nil, err
	}
	if err := loadCollection(ctx, store, logger, kv.KeyFoundItems, &r.foundItems); err != nil {
		return nil, err
	}
	if err := loadCollection(ctx, store, logger, kv.KeyItemMatches, &r.matches); err != nil {
		return nil, err
	}

	for _, item := range r.lostItems {
		if item.ID > r.lastID {
			r.lastID = item.ID
		}
	}
	for _, item := range r.foundItems {
		if item.ID > r.lastID {
			r.lastID = item.ID
		}
	}

	return r, nil
}

// loadCollection reads one stored array. An absent key is an empty
// collection; a corrupt blob is logged and treated the same way rather
// than taking the whole app down with it.
func loadCollection[T any](ctx context.Context, store kv.Store, logger *logrus.Logger, key string, out *[]T) error {
	data, found, err := store.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("load %s: %w", key, err)
	}
	if !found {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		logger.WithError(err).WithField("key", key).Warn("stored collection is unreadable, starting empty")
		*out = nil
	}
	if *out == nil {
		*out = make([]T, 0)
	}
	return nil
}

// nextIDLocked derives ids from the wall clock the way the original
// reports did, with a monotonic guard so two submissions inside the same
// millisecond cannot collide.
func (r *Repository) nextIDLocked() int64 {
	id := time.Now().UnixMilli()
	if id <= r.lastID {
		id = r.lastID + 1
	}
	r.lastID = id
	return id
}

// AddLostItem assigns an id, stamps status and creation time, prepends
// the record and persists the collection. The returned record is the
// stored one.
func (r *Repository) AddLostItem(ctx context.Context, draft types.Item) (*types.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item := draft
	item.ID = r.nextIDLocked()
	item.Kind = types.ItemKindLost
	item.Status = types.ItemStatusPending
	item.CreatedAt = time.Now()

	next := append([]*types.Item{&item}, r.lostItems...)
	if err := r.persistLocked(ctx, kv.KeyLostItems, next); err != nil {
		return nil, err
	}
	r.lostItems = next

	r.logger.WithFields(logrus.Fields{
		"item_id": item.ID,
		"title":   item.Title,
	}).Info("lost item reported")

	return &item, nil
}

// AddFoundItem behaves like AddLostItem with status unclaimed, then runs
// the matcher against the lost collection. A matcher failure is logged
// and swallowed; the item creation has already succeeded at that point.
func (r *Repository) AddFoundItem(ctx context.Context, draft types.Item) (*types.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item := draft
	item.ID = r.nextIDLocked()
	item.Kind = types.ItemKindFound
	item.Status = types.ItemStatusUnclaimed
	item.CreatedAt = time.Now()

	next := append([]*types.Item{&item}, r.foundItems...)
	if err := r.persistLocked(ctx, kv.KeyFoundItems, next); err != nil {
		return nil, err
	}
	r.foundItems = next

	r.logger.WithFields(logrus.Fields{
		"item_id": item.ID,
		"title":   item.Title,
	}).Info("found item reported")

	r.recordMatchesLocked(ctx, &item)

	return &item, nil
}

// UpdateItem merges patch into the record with the given id. A missing
// id is a silent no-op; the original behaved that way and callers depend
// on it.
func (r *Repository) UpdateItem(ctx context.Context, kind types.ItemKind, id int64, patch types.ItemPatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := r.collectionLocked(kind)
	next := make([]*types.Item, len(items))
	matched := false
	for i, item := range items {
		if item.ID == id {
			next[i] = applyPatch(item, patch)
			matched = true
			continue
		}
		next[i] = item
	}

	if !matched {
		r.logger.WithFields(logrus.Fields{"kind": kind, "item_id": id}).Debug("update matched no item")
		return nil
	}

	if err := r.persistLocked(ctx, keyForKind(kind), next); err != nil {
		return err
	}
	r.setCollectionLocked(kind, next)
	return nil
}

// DeleteItem removes the record with the given id. Authorization is the
// caller's responsibility; the repository deletes unconditionally.
// Deleting an id that does not exist is a no-op.
func (r *Repository) DeleteItem(ctx context.Context, kind types.ItemKind, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := r.collectionLocked(kind)
	next := make([]*types.Item, 0, len(items))
	for _, item := range items {
		if item.ID == id {
			continue
		}
		next = append(next, item)
	}

	if len(next) == len(items) {
		return nil
	}

	if err := r.persistLocked(ctx, keyForKind(kind), next); err != nil {
		return err
	}
	r.setCollectionLocked(kind, next)

	r.logger.WithFields(logrus.Fields{"kind": kind, "item_id": id}).Info("item deleted")
	return nil
}

// ListItems returns a snapshot ordered by creation time descending. A
// non-empty filter keeps items whose title, description, location or
// category contains it, case-insensitively.
func (r *Repository) ListItems(kind types.ItemKind, filter string) []*types.Item {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := r.collectionLocked(kind)
	out := make([]*types.Item, 0, len(items))
	for _, item := range items {
		if filter != "" && !MatchesQuery(item, filter) {
			continue
		}
		out = append(out, item)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out
}

// GetItem returns the record with the given id.
func (r *Repository) GetItem(kind types.ItemKind, id int64) (*types.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range r.collectionLocked(kind) {
		if item.ID == id {
			return item, nil
		}
	}
	return nil, types.ErrItemNotFound
}

// GetUserItems partitions both collections by reporter. The identifier
// is matched against the owner id and the owner email; upstream identity
// records use the two interchangeably.
func (r *Repository) GetUserItems(userIdentifier string) (lost, found []*types.Item) {
	r.mu.Lock()
	defer r.mu.Unlock()

	lost = make([]*types.Item, 0)
	found = make([]*types.Item, 0)
	for _, item := range r.lostItems {
		if item.OwnedBy(userIdentifier) {
			lost = append(lost, item)
		}
	}
	for _, item := range r.foundItems {
		if item.OwnedBy(userIdentifier) {
			found = append(found, item)
		}
	}
	return lost, found
}

// AddSighting appends a sighting to the item's history and bumps the
// seen counters. Sightings are never edited or removed.
func (r *Repository) AddSighting(ctx context.Context, kind types.ItemKind, id int64, sighting types.Sighting) error {
	now := time.Now()
	sighting.ReportedAt = now

	return r.mutate(ctx, kind, id, func(item *types.Item) error {
		item.Sightings = append(append([]types.Sighting(nil), item.Sightings...), sighting)
		item.SeenCount++
		item.LastSeen = utils.TimePtr(now)
		return nil
	})
}

// MarkFound transitions a lost item pending -> found. details carries
// the finder's handover report when the transition came from a third
// party; the owner's own "mark as found" passes nil.
func (r *Repository) MarkFound(ctx context.Context, id int64, by string, details *types.Sighting) error {
	now := time.Now()

	return r.mutate(ctx, types.ItemKindLost, id, func(item *types.Item) error {
		if item.Status != types.ItemStatusPending {
			return fmt.Errorf("%w: %s is already %s", types.ErrInvalidTransition, item.Title, item.Status)
		}
		item.Status = types.ItemStatusFound
		item.FoundBy = by
		item.FoundDate = utils.TimePtr(now)
		if details != nil {
			d := *details
			d.ReportedAt = now
			item.FoundDetails = &d
		}
		return nil
	})
}

// ClaimItem transitions a found item unclaimed -> claimed.
func (r *Repository) ClaimItem(ctx context.Context, id int64, by string, details *types.Sighting) error {
	now := time.Now()

	return r.mutate(ctx, types.ItemKindFound, id, func(item *types.Item) error {
		if item.Status != types.ItemStatusUnclaimed {
			return fmt.Errorf("%w: %s is already %s", types.ErrInvalidTransition, item.Title, item.Status)
		}
		item.Status = types.ItemStatusClaimed
		item.ClaimedBy = by
		item.ClaimedDate = utils.TimePtr(now)
		if details != nil {
			d := *details
			d.ReportedAt = now
			item.ClaimDetails = &d
		}
		return nil
	})
}

// Matches returns a snapshot of the match log, newest first.
func (r *Repository) Matches() []*types.Match {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*types.Match, len(r.matches))
	copy(out, r.matches)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// MatchesForItem returns matches that reference the given found item.
func (r *Repository) MatchesForItem(foundItemID int64) []*types.Match {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*types.Match, 0)
	for _, m := range r.matches {
		if m.FoundItemID == foundItemID {
			out = append(out, m)
		}
	}
	return out
}

// mutate applies fn to a copy of the matching record, persists the
// rewritten collection and commits it. ErrItemNotFound when the id is
// absent.
func (r *Repository) mutate(ctx context.Context, kind types.ItemKind, id int64, fn func(*types.Item) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := r.collectionLocked(kind)
	next := make([]*types.Item, len(items))
	matched := false
	for i, item := range items {
		if item.ID != id {
			next[i] = item
			continue
		}

		updated := *item
		if err := fn(&updated); err != nil {
			return err
		}
		next[i] = &updated
		matched = true
	}

	if !matched {
		return types.ErrItemNotFound
	}

	if err := r.persistLocked(ctx, keyForKind(kind), next); err != nil {
		return err
	}
	r.setCollectionLocked(kind, next)
	return nil
}

func (r *Repository) collectionLocked(kind types.ItemKind) []*types.Item {
	if kind == types.ItemKindFound {
		return r.foundItems
	}
	return r.lostItems
}

func (r *Repository) setCollectionLocked(kind types.ItemKind, items []*types.Item) {
	if kind == types.ItemKindFound {
		r.foundItems = items
		return
	}
	r.lostItems = items
}

func keyForKind(kind types.ItemKind) string {
	if kind == types.ItemKindFound {
		return kv.KeyFoundItems
	}
	return kv.KeyLostItems
}

func (r *Repository) persistLocked(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}

	if err := r.store.Set(ctx, key, data); err != nil {
		return fmt.Errorf("persist %s: %w", key, err)
	}
	return nil
}

func applyPatch(item *types.Item, patch types.ItemPatch) *types.Item {
	next := *item
	if patch.Title != nil {
		next.Title = *patch.Title
	}
	if patch.Category != nil {
		next.Category = *patch.Category
	}
	if patch.Description != nil {
		next.Description = *patch.Description
	}
	if patch.Location != nil {
		next.Location = *patch.Location
	}
	if patch.Date != nil {
		next.Date = *patch.Date
	}
	if patch.ContactInfo != nil {
		next.ContactInfo = *patch.ContactInfo
	}
	if patch.Reward != nil {
		next.Reward = *patch.Reward
	}
	if patch.Additional != nil {
		next.Additional = *patch.Additional
	}
	if patch.Status != nil {
		next.Status = *patch.Status
	}
	return &next
}
