package models

// Category groups products on the storefront. Sub-categories point at their
// parent through ParentSlug.
type Category struct {
	BaseModel
	Name         string `gorm:"not null" json:"name"`
	Slug         string `gorm:"uniqueIndex" json:"slug"`
	ParentSlug   string `gorm:"index" json:"parent_slug"`
	Description  string `json:"description"`
	Image        string `json:"image"`
	DisplayOrder int    `json:"display_order"`
}
