package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/example/intima/internal/variants"
)

// Product is a catalog entry. Variant data is stored as JSON columns in one
// of three shapes: none, legacy Variants, or VariantCombinations (which wins
// when present).
type Product struct {
	BaseModel
	Name          string              `gorm:"not null" json:"name"`
	Slug          string              `gorm:"uniqueIndex" json:"slug"`
	Category      string              `gorm:"index" json:"category"`
	SubCategory   string              `json:"sub_category"`
	Price         decimal.Decimal     `gorm:"type:decimal(12,2)" json:"price"`
	OriginalPrice decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"original_price"`
	Description   string              `json:"description"`
	Rating        float64             `json:"rating"`
	ReviewCount   int                 `json:"review_count"`
	IsFeatured    bool                `json:"is_featured"`
	IsActive      bool                `json:"is_active"`

	Images              datatypes.JSONSlice[string]               `json:"images"`
	Variants            datatypes.JSONSlice[variants.Variant]     `json:"variants"`
	VariantCombinations datatypes.JSONSlice[variants.Combination] `json:"variant_combinations"`
	ImageGroups         datatypes.JSONSlice[variants.ImageGroup]  `json:"image_groups"`
	ImagesByColor       datatypes.JSONType[map[string][]string]   `json:"images_by_color"`
	ProductColors       datatypes.JSONSlice[variants.ColorOption] `json:"product_colors"`
	ProductSizes        datatypes.JSONSlice[variants.SizeOption]  `json:"product_sizes"`
}

// Snapshot returns the read-only view the variant engine works on.
func (p *Product) Snapshot() *variants.Product {
	if p == nil {
		return nil
	}
	return &variants.Product{
		ID:            p.ID.String(),
		Name:          p.Name,
		Slug:          p.Slug,
		Category:      p.Category,
		SubCategory:   p.SubCategory,
		Images:        []string(p.Images),
		Variants:      []variants.Variant(p.Variants),
		Combinations:  []variants.Combination(p.VariantCombinations),
		ImageGroups:   []variants.ImageGroup(p.ImageGroups),
		ImagesByColor: p.ImagesByColor.Data(),
		Colors:        []variants.ColorOption(p.ProductColors),
		Sizes:         []variants.SizeOption(p.ProductSizes),
	}
}

// DiscountPercent is the whole-number markdown against OriginalPrice, or 0
// when there is no discount.
func (p *Product) DiscountPercent() int64 {
	if !p.OriginalPrice.Valid {
		return 0
	}
	original := p.OriginalPrice.Decimal
	if !original.IsPositive() || original.LessThanOrEqual(p.Price) {
		return 0
	}
	return original.Sub(p.Price).
		Div(original).
		Mul(decimal.NewFromInt(100)).
		Round(0).
		IntPart()
}

// AllImageURLs lists every image URL the product references, for validation.
func (p *Product) AllImageURLs() []string {
	var urls []string
	urls = append(urls, p.Images...)
	for _, v := range p.Variants {
		urls = append(urls, v.Images...)
	}
	for _, c := range p.VariantCombinations {
		urls = append(urls, c.Images...)
	}
	for _, g := range p.ImageGroups {
		urls = append(urls, g.Images...)
	}
	for _, imgs := range p.ImagesByColor.Data() {
		urls = append(urls, imgs...)
	}
	return urls
}
