package variants

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateVariantCombinationsZeroVersusAbsent(t *testing.T) {
	colors := []ColorOption{{Name: "Nude", Value: "nude"}, {Name: "Black", Value: "black"}}
	sizes := []SizeOption{{Name: "75B", Value: "75"}}
	matrix := StockMatrix{"75-nude": 0}

	got := GenerateVariantCombinations(colors, sizes, matrix)

	require.Len(t, got, 1)
	assert.Equal(t, "75", got[0].Size)
	assert.Equal(t, "nude", got[0].Color)
	assert.Equal(t, 0, got[0].Stock)
}

func TestGenerateVariantCombinations(t *testing.T) {
	colors := []ColorOption{
		{Name: "Nude", Images: []string{"https://cdn.example.com/nude.jpg"}},
		{Name: "Black", Value: "black"},
	}
	sizes := []SizeOption{{Name: "75B", Value: "75"}, {Name: "80B", Value: "80"}}

	matrix := StockMatrix{}
	matrix.Set("75", "nude", 10)
	matrix.Set("80", "black", 5)
	matrix.Set("80", "nude", -3)

	got := CombinationBuilder{SKUPrefix: "bra"}.Build(colors, sizes, matrix)

	require.Len(t, got, 3)
	assert.Equal(t, Combination{
		ID:         "75-nude",
		SKU:        "BRA-75-NUDE",
		Size:       "75",
		SizeLabel:  "75B",
		Color:      "nude",
		ColorLabel: "Nude",
		Stock:      10,
		Images:     []string{"https://cdn.example.com/nude.jpg"},
	}, got[0])
	assert.Equal(t, "80-nude", got[1].ID)
	assert.Equal(t, 0, got[1].Stock, "negative stock is clamped")
	assert.Equal(t, "80-black", got[2].ID)
	assert.Empty(t, got[2].Images)
}

func TestGenerateVariantCombinationsEmptyInput(t *testing.T) {
	assert.Empty(t, GenerateVariantCombinations(nil, nil, nil))
	assert.Empty(t, GenerateVariantCombinations(
		[]ColorOption{{Name: "Red"}}, []SizeOption{{Name: "S"}}, StockMatrix{}))
}

func TestGenerateVariantCombinationsSkipsDuplicatePairs(t *testing.T) {
	colors := []ColorOption{{Name: "Red", Value: "red"}, {Name: "Red again", Value: "red"}}
	sizes := []SizeOption{{Name: "S", Value: "s"}}

	got := GenerateVariantCombinations(colors, sizes, StockMatrix{"s-red": 1})

	require.Len(t, got, 1)
	assert.Equal(t, "Red", got[0].ColorLabel)
}

func TestSanitizedKeyMatchesStoredValue(t *testing.T) {
	colors := []ColorOption{{Name: "Shade 1", Value: "shade.1"}}
	sizes := []SizeOption{{Name: "75/B", Value: "75/B"}}

	matrix := StockMatrix{}
	matrix.Set("75/B", "shade.1", 4)

	got := GenerateVariantCombinations(colors, sizes, matrix)

	require.Len(t, got, 1)
	assert.Equal(t, SanitizeKey("shade.1"), got[0].Color)
	assert.Equal(t, "shade-1", got[0].Color)
	assert.Equal(t, "75-B", got[0].Size)
	assert.Equal(t, StockKey("75/B", "shade.1"), got[0].Size+"-"+got[0].Color)
	assert.Equal(t, 4, got[0].Stock)
}

func TestStockMatrixRawKeyFallback(t *testing.T) {
	matrix := StockMatrix{"75-shade.1": 2}

	stock, ok := matrix.Get("75", "shade.1")
	assert.True(t, ok)
	assert.Equal(t, 2, stock)

	_, ok = matrix.Get("80", "shade.1")
	assert.False(t, ok)
}

func TestSanitizeKey(t *testing.T) {
	tests := map[string]string{
		"":          "",
		"nude":      "nude",
		"shade.1":   "shade-1",
		"#D4A373":   "-D4A373",
		"a/b$c[d]e": "a-b-c-d-e",
	}
	for in, want := range tests {
		assert.Equal(t, want, SanitizeKey(in), "input %q", in)
	}
}

func TestBuildImageGroups(t *testing.T) {
	groups := BuildImageGroups([]ColorOption{
		{Name: "Nude", Images: []string{"a.jpg", "b.jpg"}},
		{Name: "Black"},
		{Name: "Shade", Value: "shade.2", Images: []string{"c.jpg"}},
	})

	require.Len(t, groups, 2)
	assert.Equal(t, ImageGroup{ColorName: "Nude", ColorValue: "nude", Images: []string{"a.jpg", "b.jpg"}}, groups[0])
	assert.Equal(t, "shade-2", groups[1].ColorValue)
}

func TestBuildLegacyImageGroupsKeepsValues(t *testing.T) {
	colors := []ColorOption{{Name: "Black", Value: "#000", Images: []string{"black.jpg"}}}

	assert.Equal(t, "-000", BuildImageGroups(colors)[0].ColorValue)

	legacy := BuildLegacyImageGroups(colors)
	require.Len(t, legacy, 1)
	assert.Equal(t, "#000", legacy[0].ColorValue)

	p := &Product{
		Variants:    []Variant{{Type: AxisColor, Value: "#000", InStock: true}},
		ImageGroups: legacy,
	}
	assert.Equal(t, []string{"black.jpg"}, ImagesForColor(p, "#000"))
}

func TestNormalizeColor(t *testing.T) {
	c := NormalizeColor(ColorOption{Name: "  Nude "})
	assert.Equal(t, "Nude", c.Name)
	assert.Equal(t, "nude", c.Value)
	assert.Equal(t, "#D4A373", c.Hex)

	kept := NormalizeColor(ColorOption{Name: "Night", Value: "#111", Hex: "#111111"})
	assert.Equal(t, "#111", kept.Value)
	assert.Equal(t, "#111111", kept.Hex)
}

func TestNormalizeSize(t *testing.T) {
	assert.Equal(t, "75b", NormalizeSize(SizeOption{Name: "75B"}).Value)
	assert.Equal(t, "75", NormalizeSize(SizeOption{Name: "75B", Value: "75"}).Value)
}
