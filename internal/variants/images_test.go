package variants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImagesForColorWithoutColor(t *testing.T) {
	flat := &Product{
		Images:      []string{"flat.jpg"},
		ImageGroups: []ImageGroup{{ColorValue: "nude", Images: []string{"g-nude.jpg"}}},
	}
	assert.Equal(t, []string{"flat.jpg"}, ImagesForColor(flat, ""))

	grouped := &Product{ImageGroups: []ImageGroup{
		{ColorValue: "nude", Images: []string{"g-nude-1.jpg", "g-nude-2.jpg"}},
		{ColorValue: "black", Images: []string{"g-black.jpg"}},
	}}
	assert.Equal(t, []string{"g-nude-1.jpg", "g-nude-2.jpg", "g-black.jpg"}, ImagesForColor(grouped, ""))

	empty := &Product{}
	assert.Equal(t, []string{}, ImagesForColor(empty, ""))
	assert.Equal(t, []string{}, ImagesForColor(nil, "nude"))
}

func TestImagesForColorPriority(t *testing.T) {
	base := func() *Product {
		return &Product{
			Images:        []string{"flat.jpg"},
			ImagesByColor: map[string][]string{"nude": {"by-color.jpg"}},
			Combinations: []Combination{
				{Size: "75", Color: "nude", Stock: 1},
				{Size: "80", Color: "nude", Stock: 1, Images: []string{"combo.jpg"}},
			},
			ImageGroups: []ImageGroup{{ColorValue: "nude", Images: []string{"group.jpg"}}},
		}
	}

	tests := []struct {
		name   string
		mutate func(p *Product)
		want   []string
	}{
		{"images by color first", func(p *Product) {}, []string{"by-color.jpg"}},
		{"first combination with images", func(p *Product) { p.ImagesByColor = nil }, []string{"combo.jpg"}},
		{"image group", func(p *Product) {
			p.ImagesByColor = map[string][]string{"nude": {}}
			p.Combinations[1].Images = nil
		}, []string{"group.jpg"}},
		{"flat images last", func(p *Product) {
			p.ImagesByColor = nil
			p.Combinations = nil
			p.ImageGroups[0].Images = nil
		}, []string{"flat.jpg"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base()
			tt.mutate(p)
			assert.Equal(t, tt.want, ImagesForColor(p, "nude"))
		})
	}
}

func TestImagesForColorPrefersCombinationOverGroup(t *testing.T) {
	p := &Product{
		ImagesByColor: map[string][]string{},
		Combinations: []Combination{
			{Size: "75", Color: "X", Stock: 3, Images: []string{"combo-x.jpg"}},
		},
		ImageGroups: []ImageGroup{{ColorValue: "X", Images: []string{"group-x.jpg"}}},
	}

	assert.Equal(t, []string{"combo-x.jpg"}, ImagesForColor(p, "X"))
}

func TestImagesForColorLegacyUsesGroups(t *testing.T) {
	p := &Product{
		Images:      []string{"flat.jpg"},
		Variants:    []Variant{{Type: AxisColor, Value: "red", InStock: true}},
		ImageGroups: []ImageGroup{{ColorValue: "red", Images: []string{"group-red.jpg"}}},
	}

	assert.Equal(t, []string{"group-red.jpg"}, ImagesForColor(p, "red"))
	assert.Equal(t, []string{"flat.jpg"}, ImagesForColor(p, "blue"))
}

func TestAllImages(t *testing.T) {
	p := &Product{
		Images: []string{"flat.jpg", "shared.jpg"},
		Combinations: []Combination{
			{Color: "nude", Images: []string{"combo.jpg", "shared.jpg"}},
			{Color: "black", Images: []string{"combo.jpg"}},
		},
		ImageGroups: []ImageGroup{{ColorValue: "nude", Images: []string{"group.jpg"}}},
	}

	got := AllImages(p, "placeholder.jpg")
	assert.ElementsMatch(t, []string{"combo.jpg", "shared.jpg", "group.jpg", "flat.jpg"}, got)
}

func TestAllImagesPlaceholder(t *testing.T) {
	assert.Equal(t, []string{"placeholder.jpg"}, AllImages(&Product{}, "placeholder.jpg"))
	assert.Equal(t, []string{"placeholder.jpg"}, AllImages(nil, "placeholder.jpg"))
	assert.Empty(t, AllImages(&Product{}, ""))
}
