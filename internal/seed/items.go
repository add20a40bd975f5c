package seed

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"reclaim/internal/store"
	"reclaim/pkg/types"
)

var fakeLostItems = []types.Item{
	{
		Title:       "Blue Headphones",
		Category:    "Electronics",
		Description: "Lost my blue Sony headphones at the gym, over-ear with a small scratch on the left cup.",
		Location:    "Downtown Fitness Center",
		Reward:      "$20",
	},
	{
		Title:       "Brown Leather Wallet",
		Category:    "Wallet/Purse",
		Description: "Brown leather bifold wallet with initials J.M. embossed on the front.",
		Location:    "Central Station, platform 4",
	},
	{
		Title:       "Car Keys with Red Keychain",
		Category:    "Keys",
		Description: "Toyota car keys on a red carabiner keychain with a small flashlight attached.",
		Location:    "Riverside Park parking lot",
		Reward:      "$50",
	},
	{
		Title:       "Silver Charm Bracelet",
		Category:    "Jewelry",
		Description: "Silver bracelet with heart and star charms, sentimental value.",
		Location:    "Main Street shopping mall",
	},
	{
		Title:       "Black Backpack",
		Category:    "Bag/Backpack",
		Description: "Black Jansport backpack containing textbooks and a grey hoodie.",
		Location:    "University library, second floor",
	},
}

var fakeFoundItems = []types.Item{
	{
		Title:       "Headphones Found at Gym",
		Category:    "Electronics",
		Description: "Found a pair of blue headphones near the treadmills, handed description to the front desk.",
		Location:    "Downtown Fitness Center",
		Additional:  "Can describe the case they were in.",
	},
	{
		Title:       "Set of House Keys",
		Category:    "Keys",
		Description: "Found three house keys on a plain ring by the bus stop bench.",
		Location:    "Elm Street bus stop",
	},
	{
		Title:       "Prescription Glasses",
		Category:    "Accessories",
		Description: "Found black-rimmed prescription glasses in a soft grey case.",
		Location:    "City Park, near the fountain",
	},
	{
		Title:       "Kids Teddy Bear",
		Category:    "Toy",
		Description: "Small brown teddy bear with a green ribbon, found on a cafe chair.",
		Location:    "Corner Cafe on 5th Avenue",
	},
}

var fakeOwners = []struct {
	ID    string
	Email string
	Name  string
}{
	{ID: "seed-user-1", Email: "alice@example.com", Name: "Alice Kim"},
	{ID: "seed-user-2", Email: "ben@example.com", Name: "Ben Ortega"},
	{ID: "seed-user-3", Email: "carla@example.com", Name: "Carla Novak"},
}

// SeedFakeItems inserts sample lost and found reports through the
// repository, so seeded data takes the same code path as real reports,
// matcher included.
func SeedFakeItems(ctx context.Context, repo *store.Repository) error {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for _, draft := range fakeLostItems {
		owner := fakeOwners[rng.Intn(len(fakeOwners))]
		draft.OwnerID = owner.ID
		draft.OwnerEmail = owner.Email
		draft.OwnerName = owner.Name
		draft.Date = randomRecentDate(rng)

		if _, err := repo.AddLostItem(ctx, draft); err != nil {
			return fmt.Errorf("failed to seed lost item %q: %w", draft.Title, err)
		}
	}

	for _, draft := range fakeFoundItems {
		owner := fakeOwners[rng.Intn(len(fakeOwners))]
		draft.OwnerID = owner.ID
		draft.OwnerEmail = owner.Email
		draft.OwnerName = owner.Name
		draft.Date = randomRecentDate(rng)

		if _, err := repo.AddFoundItem(ctx, draft); err != nil {
			return fmt.Errorf("failed to seed found item %q: %w", draft.Title, err)
		}
	}

	return nil
}

func randomRecentDate(rng *rand.Rand) string {
	daysAgo := rng.Intn(30)
	return time.Now().AddDate(0, 0, -daysAgo).Format("2006-01-02")
}
