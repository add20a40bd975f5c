package types

import "time"

type MatchStatus string

const (
	MatchStatusPending  MatchStatus = "pending"
	MatchStatusReviewed MatchStatus = "reviewed"
)

// Match links a found item to the lost items that plausibly describe the
// same physical object. Matches are append-only: once written to the
// store they are never rewritten.
type Match struct {
	ID          string      `json:"id"`
	FoundItemID int64       `json:"foundItemId"`
	LostItemIDs []int64     `json:"lostItemIds"`
	Status      MatchStatus `json:"status"`
	CreatedAt   time.Time   `json:"createdAt"`
}
