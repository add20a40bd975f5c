package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestItemOwnedBy(t *testing.T) {
	item := &Item{OwnerID: "user-1", OwnerEmail: "a@example.com"}

	require.True(t, item.OwnedBy("user-1"))
	require.True(t, item.OwnedBy("a@example.com"))
	require.False(t, item.OwnedBy("user-2"))
	require.False(t, item.OwnedBy(""))
}

func TestItemResolved(t *testing.T) {
	require.False(t, (&Item{Status: ItemStatusPending}).Resolved())
	require.False(t, (&Item{Status: ItemStatusUnclaimed}).Resolved())
	require.True(t, (&Item{Status: ItemStatusFound}).Resolved())
	require.True(t, (&Item{Status: ItemStatusClaimed}).Resolved())
}

func TestItemPrimaryImage(t *testing.T) {
	require.Empty(t, (&Item{}).PrimaryImage())
	require.Equal(t, "a", (&Item{Images: []string{"a", "b"}}).PrimaryImage())
}

func TestValidCategory(t *testing.T) {
	require.True(t, ValidCategory("Electronics"))
	require.True(t, ValidCategory("Other"))
	require.False(t, ValidCategory("electronics"))
	require.False(t, ValidCategory("Vehicles"))
	require.False(t, ValidCategory(""))
}

func TestReportLostFormValidate(t *testing.T) {
	form := ReportLostForm{
		ItemName:    "Blue Headphones",
		Category:    "Electronics",
		Description: "over-ear",
		Location:    "gym",
	}
	require.NoError(t, form.Validate())

	missing := form
	missing.Location = "  "
	require.ErrorIs(t, missing.Validate(), ErrMissingField)

	badCategory := form
	badCategory.Category = "Gadgets"
	require.ErrorIs(t, badCategory.Validate(), ErrBadCategory)

	tooMany := form
	tooMany.Images = []string{"1", "2", "3", "4"}
	require.ErrorIs(t, tooMany.Validate(), ErrTooManyImages)

	atCap := form
	atCap.Images = []string{"1", "2", "3"}
	require.NoError(t, atCap.Validate())
}

func TestReportFoundFormValidate(t *testing.T) {
	form := ReportFoundForm{
		ItemName:    "Keys",
		Category:    "Keys",
		Description: "three keys",
		Location:    "bus stop",
		Images:      []string{"1", "2", "3", "4", "5"},
	}
	require.NoError(t, form.Validate())

	form.Images = append(form.Images, "6")
	require.ErrorIs(t, form.Validate(), ErrTooManyImages)
}

func TestSightingFormValidate(t *testing.T) {
	form := SightingForm{Name: "Sam", Email: "sam@example.com", Location: "Main St"}
	require.NoError(t, form.Validate())

	form.Email = ""
	require.ErrorIs(t, form.Validate(), ErrMissingField)
}
