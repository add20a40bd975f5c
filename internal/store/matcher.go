package store

import (
	"context"
	"strings"
	"time"

	"reclaim/internal/kv"
	"reclaim/internal/utils"
	"reclaim/pkg/types"

	"github.com/sirupsen/logrus"
)

// MatchLostCandidates returns the lost items that plausibly describe the
// same physical object as the found item.
//
// The heuristic is deliberately naive so results stay deterministic and
// auditable: an exact category gate, then a boolean substring filter
// over titles and descriptions. No tokenization, no ranking; survivors
// keep the candidate set's order.
func MatchLostCandidates(found *types.Item, lostItems []*types.Item) []*types.Item {
	foundTitle := strings.ToLower(found.Title)
	foundDesc := strings.ToLower(found.Description)

	var candidates []*types.Item
	for _, lost := range lostItems {
		// Category is a closed tag, compared case-sensitively.
		if lost.Category != found.Category {
			continue
		}

		lostTitle := strings.ToLower(lost.Title)
		lostDesc := strings.ToLower(lost.Description)

		if strings.Contains(lostDesc, foundTitle) ||
			strings.Contains(foundDesc, lostTitle) ||
			strings.Contains(lostTitle, foundTitle) ||
			strings.Contains(foundTitle, lostTitle) {
			candidates = append(candidates, lost)
		}
	}

	return candidates
}

// recordMatchesLocked runs the matcher for a just-created found item and
// appends a Match record when candidates survive. Matching must never
// fail the enclosing add, so every failure path ends in a log line.
// Caller holds r.mu.
func (r *Repository) recordMatchesLocked(ctx context.Context, found *types.Item) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.WithField("panic", p).Error("matcher panicked, found item kept without match")
		}
	}()

	candidates := MatchLostCandidates(found, r.lostItems)
	if len(candidates) == 0 {
		return
	}

	lostIDs := make([]int64, len(candidates))
	for i, c := range candidates {
		lostIDs[i] = c.ID
	}

	match := &types.Match{
		ID:          utils.NanoID(),
		FoundItemID: found.ID,
		LostItemIDs: lostIDs,
		Status:      types.MatchStatusPending,
		CreatedAt:   time.Now(),
	}

	// The match log is append-only; existing records are never rewritten.
	next := append(append([]*types.Match(nil), r.matches...), match)
	if err := r.persistLocked(ctx, kv.KeyItemMatches, next); err != nil {
		r.logger.WithError(err).WithField("found_item_id", found.ID).Error("failed to persist match record")
		return
	}
	r.matches = next

	r.logger.WithFields(logrus.Fields{
		"found_item_id": found.ID,
		"lost_item_ids": lostIDs,
	}).Info("match candidates recorded")
}
