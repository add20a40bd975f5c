package types

import (
	"fmt"
	"strings"
)

// ReportLostForm is the lost-item report submission.
type ReportLostForm struct {
	ItemName    string   `form:"item_name"`
	Category    string   `form:"category"`
	Description string   `form:"description"`
	Location    string   `form:"location"`
	Date        string   `form:"date"`
	ContactInfo string   `form:"contact_info"`
	Reward      string   `form:"reward"`
	Images      []string `form:"images"`
}

func (f *ReportLostForm) Validate() error {
	if err := requireFields(map[string]string{
		"item name":   f.ItemName,
		"category":    f.Category,
		"description": f.Description,
		"location":    f.Location,
	}); err != nil {
		return err
	}
	if !ValidCategory(f.Category) {
		return fmt.Errorf("%w: %s", ErrBadCategory, f.Category)
	}
	if len(f.Images) > MaxLostItemImages {
		return fmt.Errorf("%w: %d > %d", ErrTooManyImages, len(f.Images), MaxLostItemImages)
	}
	return nil
}

// ReportFoundForm is the found-item report submission. It allows more
// images than the lost form does.
type ReportFoundForm struct {
	ItemName    string   `form:"item_name"`
	Category    string   `form:"category"`
	Description string   `form:"description"`
	Location    string   `form:"location"`
	Date        string   `form:"date"`
	ContactInfo string   `form:"contact_info"`
	Additional  string   `form:"additional_info"`
	Images      []string `form:"images"`
}

func (f *ReportFoundForm) Validate() error {
	if err := requireFields(map[string]string{
		"item name":   f.ItemName,
		"category":    f.Category,
		"description": f.Description,
		"location":    f.Location,
	}); err != nil {
		return err
	}
	if !ValidCategory(f.Category) {
		return fmt.Errorf("%w: %s", ErrBadCategory, f.Category)
	}
	if len(f.Images) > MaxFoundItemImages {
		return fmt.Errorf("%w: %d > %d", ErrTooManyImages, len(f.Images), MaxFoundItemImages)
	}
	return nil
}

// SightingForm backs both the "I've seen this" and "I have this item"
// dialogs.
type SightingForm struct {
	Name     string `form:"name"`
	Email    string `form:"email"`
	Phone    string `form:"phone"`
	Location string `form:"location"`
	Date     string `form:"date"`
	Message  string `form:"message"`
}

func (f *SightingForm) Validate() error {
	return requireFields(map[string]string{
		"name":     f.Name,
		"email":    f.Email,
		"location": f.Location,
	})
}

func requireFields(fields map[string]string) error {
	for label, value := range fields {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%w: %s", ErrMissingField, label)
		}
	}
	return nil
}
