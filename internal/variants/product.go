package variants

// Axis identifies one of the two variant dimensions.
type Axis string

const (
	AxisSize  Axis = "size"
	AxisColor Axis = "color"
)

// Product is the read-only snapshot the engine answers questions about.
// Callers build it from whatever store they use; the engine never mutates it.
type Product struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	Slug          string              `json:"slug"`
	Category      string              `json:"category"`
	SubCategory   string              `json:"sub_category,omitempty"`
	Images        []string            `json:"images"`
	Variants      []Variant           `json:"variants,omitempty"`
	Combinations  []Combination       `json:"variant_combinations,omitempty"`
	ImageGroups   []ImageGroup        `json:"image_groups,omitempty"`
	ImagesByColor map[string][]string `json:"images_by_color,omitempty"`
	Colors        []ColorOption       `json:"product_colors,omitempty"`
	Sizes         []SizeOption        `json:"product_sizes,omitempty"`
}

// Variant is a legacy single-axis record. Stock is a flag, not a quantity.
type Variant struct {
	ID      string   `json:"id"`
	Type    Axis     `json:"type"`
	Name    string   `json:"name"`
	Value   string   `json:"value"`
	Images  []string `json:"images,omitempty"`
	InStock bool     `json:"in_stock"`
}

// Combination is one concrete size x color SKU. Stock 0 means offered but
// sold out; a missing pair means the pair is not offered at all.
type Combination struct {
	ID         string   `json:"id"`
	SKU        string   `json:"sku"`
	Size       string   `json:"size"`
	SizeLabel  string   `json:"size_label"`
	Color      string   `json:"color"`
	ColorLabel string   `json:"color_label"`
	Stock      int      `json:"stock"`
	Images     []string `json:"images,omitempty"`
}

// ImageGroup ties a color to the image library shared by all of its combinations.
type ImageGroup struct {
	ColorName  string   `json:"color_name"`
	ColorValue string   `json:"color_value"`
	Images     []string `json:"images"`
}

// ColorOption is a color as entered in the admin editor.
type ColorOption struct {
	Name   string   `json:"name" validate:"required"`
	Value  string   `json:"value"`
	Hex    string   `json:"hex,omitempty"`
	Images []string `json:"images,omitempty" validate:"omitempty,dive,url"`
}

// SizeOption is a size as entered in the admin editor.
type SizeOption struct {
	Name  string `json:"name" validate:"required"`
	Value string `json:"value"`
}

// Selection is the page-local state of the product detail view.
type Selection struct {
	SelectedSize    string   `json:"selected_size"`
	SelectedColor   string   `json:"selected_color"`
	DisplayedImages []string `json:"displayed_images"`
}
