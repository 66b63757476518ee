package models

import "time"

type Banner struct {
	BaseModel
	Title        string `json:"title"`
	Subtitle     string `json:"subtitle"`
	Image        string `json:"image"`
	ImageMobile  string `json:"image_mobile"`
	URL          string `json:"url"`
	DisplayOrder int    `json:"display_order"`
	IsActive     bool   `json:"is_active"`
}

// Popup is a marketing modal shown on the storefront between StartsAt and EndsAt.
type Popup struct {
	BaseModel
	Title    string     `json:"title"`
	Message  string     `json:"message"`
	Image    string     `json:"image"`
	URL      string     `json:"url"`
	IsActive bool       `json:"is_active"`
	StartsAt *time.Time `json:"starts_at"`
	EndsAt   *time.Time `json:"ends_at"`
}

// ActiveAt reports whether the popup should be shown at t. Open-ended
// windows are allowed on either side.
func (p Popup) ActiveAt(t time.Time) bool {
	if !p.IsActive {
		return false
	}
	if p.StartsAt != nil && t.Before(*p.StartsAt) {
		return false
	}
	if p.EndsAt != nil && t.After(*p.EndsAt) {
		return false
	}
	return true
}
