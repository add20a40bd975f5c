package types

import (
	"time"
)

type ItemKind string

const (
	ItemKindLost  ItemKind = "lost"
	ItemKindFound ItemKind = "found"
)

type ItemStatus string

const (
	// Lost item statuses
	ItemStatusPending ItemStatus = "pending"
	ItemStatusFound   ItemStatus = "found"

	// Found item statuses
	ItemStatusUnclaimed ItemStatus = "unclaimed"
	ItemStatusClaimed   ItemStatus = "claimed"
)

// The two report forms enforce different image caps.
const (
	MaxLostItemImages  = 3
	MaxFoundItemImages = 5
)

// Item is a single lost or found report. The JSON field names match the
// stored collection layout, so a persisted collection round-trips
// byte-for-semantics through the key-value store.
type Item struct {
	ID          int64      `json:"id"`
	Kind        ItemKind   `json:"kind"`
	Title       string     `json:"title"`
	Category    string     `json:"category"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	Date        string     `json:"date"`
	ContactInfo string     `json:"contactInfo"`
	Reward      string     `json:"reward,omitempty"`
	Additional  string     `json:"additionalInfo,omitempty"`
	Images      []string   `json:"images"`
	Status      ItemStatus `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`

	// Reporter identity. Items are matched to a user by either field,
	// upstream identity records are not consistent about which is set.
	OwnerID    string `json:"userId"`
	OwnerEmail string `json:"userEmail"`
	OwnerName  string `json:"userName,omitempty"`

	// Sighting history, append-only.
	SeenCount int        `json:"seenCount,omitempty"`
	LastSeen  *time.Time `json:"lastSeen,omitempty"`
	Sightings []Sighting `json:"sightings,omitempty"`

	// Populated when a lost item transitions pending -> found.
	FoundBy      string     `json:"foundBy,omitempty"`
	FoundDate    *time.Time `json:"foundDate,omitempty"`
	FoundDetails *Sighting  `json:"foundDetails,omitempty"`

	// Populated when a found item transitions unclaimed -> claimed.
	ClaimedBy    string     `json:"claimedBy,omitempty"`
	ClaimedDate  *time.Time `json:"claimedDate,omitempty"`
	ClaimDetails *Sighting  `json:"claimDetails,omitempty"`
}

// Resolved reports whether the item has left its initial status.
func (i *Item) Resolved() bool {
	return i.Status == ItemStatusFound || i.Status == ItemStatusClaimed
}

// OwnedBy matches the reporter by user id or email.
func (i *Item) OwnedBy(userIdentifier string) bool {
	if userIdentifier == "" {
		return false
	}
	return i.OwnerID == userIdentifier || i.OwnerEmail == userIdentifier
}

// PrimaryImage returns the display image, empty string when the report
// carried no photos.
func (i *Item) PrimaryImage() string {
	if len(i.Images) == 0 {
		return ""
	}
	return i.Images[0]
}

// Sighting is a third-party report about an item: where and when it was
// seen, or the handover details attached to a found/claim transition.
type Sighting struct {
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone,omitempty"`
	Location   string    `json:"location"`
	Date       string    `json:"date"`
	Message    string    `json:"message,omitempty"`
	ReportedAt time.Time `json:"reportedAt"`
}

// ItemPatch is a partial update merged into an existing item. Nil fields
// are left untouched.
type ItemPatch struct {
	Title       *string
	Category    *string
	Description *string
	Location    *string
	Date        *string
	ContactInfo *string
	Reward      *string
	Additional  *string
	Status      *ItemStatus
}

// Categories is the closed set accepted by both report forms.
var Categories = []string{
	"Electronics",
	"Jewelry",
	"Clothing",
	"Accessories",
	"Documents",
	"Keys",
	"Wallet/Purse",
	"Bag/Backpack",
	"Book",
	"Toy",
	"Other",
}

func ValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}
