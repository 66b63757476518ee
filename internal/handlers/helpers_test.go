package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/example/intima/internal/database"
	"github.com/example/intima/internal/logger"
	"github.com/example/intima/internal/models"
	"github.com/example/intima/internal/variants"
)

const testPlaceholder = "https://cdn.example.com/placeholder.jpg"

type envelope struct {
	Success    bool                   `json:"success"`
	Error      string                 `json:"error"`
	Data       json.RawMessage        `json:"data"`
	Pagination map[string]interface{} `json:"pagination"`
	Token      string                 `json:"token"`
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open("sqlite://file::memory:", gormlogger.Silent)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func newTestApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: ErrorHandler(logger.Discard())})
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), "body: %s", raw)
	}
	return resp.StatusCode, env
}

func decodeData(t *testing.T, env envelope, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, dst), "data: %s", env.Data)
}

// seedAdvancedProduct stores a bra sold by size x color: 75/nude (10),
// 75/black (sold out) and 80/black (5).
func seedAdvancedProduct(t *testing.T, db *gorm.DB) models.Product {
	t.Helper()
	p := models.Product{
		Name:          "Lace Bralette",
		Slug:          "lace-bralette",
		Category:      "bras",
		Description:   "Soft lace, no wire",
		Price:         decimal.RequireFromString("89.90"),
		OriginalPrice: decimal.NewNullDecimal(decimal.RequireFromString("119.90")),
		IsActive:      true,
		Images:        datatypes.JSONSlice[string]{"https://cdn.example.com/flat.jpg"},
		VariantCombinations: datatypes.JSONSlice[variants.Combination]{
			{ID: "75-nude", SKU: "75-NUDE", Size: "75", SizeLabel: "75B", Color: "nude", ColorLabel: "Nude", Stock: 10,
				Images: []string{"https://cdn.example.com/nude-1.jpg"}},
			{ID: "75-black", SKU: "75-BLACK", Size: "75", SizeLabel: "75B", Color: "black", ColorLabel: "Black", Stock: 0},
			{ID: "80-black", SKU: "80-BLACK", Size: "80", SizeLabel: "80B", Color: "black", ColorLabel: "Black", Stock: 5},
		},
		ImagesByColor: datatypes.NewJSONType(map[string][]string{
			"black": {"https://cdn.example.com/black-hero.jpg"},
		}),
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

// seedLegacyProduct stores a panty with flat size and color variants.
func seedLegacyProduct(t *testing.T, db *gorm.DB) models.Product {
	t.Helper()
	p := models.Product{
		Name:     "Cotton Brief",
		Slug:     "cotton-brief",
		Category: "panties",
		Price:    decimal.RequireFromString("29.90"),
		IsActive: true,
		Variants: datatypes.JSONSlice[variants.Variant]{
			{ID: "s", Type: variants.AxisSize, Name: "Small", Value: "s", InStock: true},
			{ID: "m", Type: variants.AxisSize, Name: "Medium", Value: "m", InStock: false},
			{ID: "red", Type: variants.AxisColor, Name: "Red", Value: "red", InStock: true},
		},
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func seedInactiveProduct(t *testing.T, db *gorm.DB) models.Product {
	t.Helper()
	p := models.Product{
		Name:     "Archived Robe",
		Slug:     "archived-robe",
		Category: "sleepwear",
		Price:    decimal.NewFromInt(150),
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}
