package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/example/intima/internal/variants"
)

func TestDiscountPercent(t *testing.T) {
	tests := []struct {
		price    string
		original string
		want     int64
	}{
		{"89.90", "119.90", 25},
		{"50", "100", 50},
		{"99.99", "100", 0},
		{"100", "100", 0},
		{"120", "100", 0},
		{"10", "0", 0},
		{"66.66", "100", 33},
	}
	for _, tt := range tests {
		p := Product{
			Price:         decimal.RequireFromString(tt.price),
			OriginalPrice: decimal.NewNullDecimal(decimal.RequireFromString(tt.original)),
		}
		assert.Equal(t, tt.want, p.DiscountPercent(), "%s -> %s", tt.original, tt.price)
	}

	assert.Zero(t, (&Product{Price: decimal.NewFromInt(10)}).DiscountPercent())
}

func TestSnapshot(t *testing.T) {
	id := uuid.New()
	p := Product{
		BaseModel: BaseModel{ID: id},
		Name:      "Lace Bralette",
		Slug:      "lace-bralette",
		Images:    datatypes.JSONSlice[string]{"https://cdn.example.com/a.jpg"},
		VariantCombinations: datatypes.JSONSlice[variants.Combination]{
			{Size: "75", Color: "nude", Stock: 1},
		},
		ImagesByColor: datatypes.NewJSONType(map[string][]string{"nude": {"https://cdn.example.com/n.jpg"}}),
	}

	snap := p.Snapshot()
	require.NotNil(t, snap)
	assert.Equal(t, id.String(), snap.ID)
	assert.Equal(t, "lace-bralette", snap.Slug)
	assert.Len(t, snap.Combinations, 1)
	assert.Equal(t, []string{"https://cdn.example.com/n.jpg"}, snap.ImagesByColor["nude"])
	assert.True(t, variants.UsesAdvancedVariants(snap))

	var nilProduct *Product
	assert.Nil(t, nilProduct.Snapshot())
}

func TestAllImageURLs(t *testing.T) {
	p := Product{
		Images:              datatypes.JSONSlice[string]{"flat"},
		Variants:            datatypes.JSONSlice[variants.Variant]{{Images: []string{"legacy"}}},
		VariantCombinations: datatypes.JSONSlice[variants.Combination]{{Images: []string{"combo"}}},
		ImageGroups:         datatypes.JSONSlice[variants.ImageGroup]{{Images: []string{"group"}}},
		ImagesByColor:       datatypes.NewJSONType(map[string][]string{"red": {"by-color"}}),
	}

	assert.Equal(t, []string{"flat", "legacy", "combo", "group", "by-color"}, p.AllImageURLs())
}

func TestPopupActiveAt(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	before, after := now.Add(-time.Minute), now.Add(time.Minute)

	assert.True(t, Popup{IsActive: true}.ActiveAt(now))
	assert.False(t, Popup{IsActive: false}.ActiveAt(now))
	assert.True(t, Popup{IsActive: true, StartsAt: &before, EndsAt: &after}.ActiveAt(now))
	assert.False(t, Popup{IsActive: true, StartsAt: &after}.ActiveAt(now))
	assert.False(t, Popup{IsActive: true, EndsAt: &before}.ActiveAt(now))
	assert.True(t, Popup{IsActive: true, StartsAt: &now, EndsAt: &now}.ActiveAt(now), "window bounds are inclusive")
}
