package store

import (
	"strings"
	"time"

	"reclaim/pkg/types"
)

// Stateless helpers used by the view layer. Same input, same output.

// MatchesQuery reports whether the case-insensitive query appears in the
// item's title, description, location or category.
func MatchesQuery(item *types.Item, query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(item.Title), q) ||
		strings.Contains(strings.ToLower(item.Description), q) ||
		strings.Contains(strings.ToLower(item.Location), q) ||
		strings.Contains(strings.ToLower(item.Category), q)
}

// FilterItems keeps items matching the query; an empty query keeps
// everything.
func FilterItems(items []*types.Item, query string) []*types.Item {
	if query == "" {
		return items
	}

	out := make([]*types.Item, 0, len(items))
	for _, item := range items {
		if MatchesQuery(item, query) {
			out = append(out, item)
		}
	}
	return out
}

// PartitionByStatus splits items into still-open reports and resolved
// ones, preserving order within each half.
func PartitionByStatus(items []*types.Item) (open, resolved []*types.Item) {
	open = make([]*types.Item, 0, len(items))
	resolved = make([]*types.Item, 0)
	for _, item := range items {
		if item.Resolved() {
			resolved = append(resolved, item)
			continue
		}
		open = append(open, item)
	}
	return open, resolved
}

// displayDateLayouts are the shapes item dates arrive in: the date-input
// format from the report forms and full timestamps from older records.
var displayDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
}

// FormatDisplayDate renders a stored date string for display, falling
// back to the raw value when it parses as neither layout.
func FormatDisplayDate(s string) string {
	for _, layout := range displayDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("Jan 2, 2006")
		}
	}
	return s
}

// FormatTimestamp renders a creation or transition time for display.
func FormatTimestamp(t time.Time) string {
	return t.Format("Jan 2, 2006 15:04")
}
