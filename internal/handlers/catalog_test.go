package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/intima/internal/config"
	"github.com/example/intima/internal/middleware"
	"github.com/example/intima/internal/models"
	"github.com/example/intima/internal/utils"
)

func TestCategoryLifecycle(t *testing.T) {
	db := newTestDB(t)
	h := NewCatalogHandler(db)
	app := newTestApp()
	app.Get("/categories", h.ListCategories)
	app.Get("/categories/:id", h.GetCategory)
	app.Post("/categories", h.CreateCategory)
	app.Put("/categories/:id", h.UpdateCategory)
	app.Delete("/categories/:id", h.DeleteCategory)

	status, env := doJSON(t, app, "POST", "/categories", fiber.Map{"name": "Lingerie"})
	require.Equal(t, fiber.StatusCreated, status, env.Error)
	var parent models.Category
	decodeData(t, env, &parent)
	assert.Equal(t, "lingerie", parent.Slug)

	status, env = doJSON(t, app, "POST", "/categories", fiber.Map{"name": "Sutiãs", "slug": "Bras", "parent_slug": "lingerie"})
	require.Equal(t, fiber.StatusCreated, status, env.Error)
	var child models.Category
	decodeData(t, env, &child)
	assert.Equal(t, "bras", child.Slug)
	assert.Equal(t, "lingerie", child.ParentSlug)

	status, env = doJSON(t, app, "POST", "/categories", fiber.Map{"name": "Bras"})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "slug already in use", env.Error)

	status, env = doJSON(t, app, "POST", "/categories", fiber.Map{"name": "Robes", "parent_slug": "sleepwear"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "parent category not found", env.Error)

	status, env = doJSON(t, app, "PUT", "/categories/"+parent.ID.String(), fiber.Map{"name": "Lingerie", "parent_slug": "lingerie"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "category cannot be its own parent", env.Error)

	_, env = doJSON(t, app, "GET", "/categories?parent=lingerie", nil)
	var children []models.Category
	decodeData(t, env, &children)
	require.Len(t, children, 1)
	assert.Equal(t, "bras", children[0].Slug)

	_, env = doJSON(t, app, "GET", "/categories?parent=", nil)
	var top []models.Category
	decodeData(t, env, &top)
	require.Len(t, top, 1)
	assert.Equal(t, "lingerie", top[0].Slug)

	status, _ = doJSON(t, app, "GET", "/categories/bras", nil)
	assert.Equal(t, fiber.StatusOK, status)

	status, env = doJSON(t, app, "DELETE", "/categories/"+parent.ID.String(), nil)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "category has sub-categories", env.Error)

	status, _ = doJSON(t, app, "DELETE", "/categories/"+child.ID.String(), nil)
	assert.Equal(t, fiber.StatusNoContent, status)
	status, _ = doJSON(t, app, "DELETE", "/categories/"+parent.ID.String(), nil)
	assert.Equal(t, fiber.StatusNoContent, status)
}

func TestBannersAndPopups(t *testing.T) {
	db := newTestDB(t)
	h := NewMarketingHandler(db)
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return now }

	app := newTestApp()
	app.Get("/banner", h.ListBanners)
	app.Post("/banner", h.CreateBanner)
	app.Get("/popups/active", h.ActivePopups)
	app.Post("/popups", h.CreatePopup)

	status, env := doJSON(t, app, "POST", "/banner", fiber.Map{"title": "Spring", "image": "https://cdn.example.com/b1.jpg"})
	require.Equal(t, fiber.StatusCreated, status, env.Error)
	status, _ = doJSON(t, app, "POST", "/banner", fiber.Map{"title": "Old", "image": "https://cdn.example.com/b2.jpg", "is_active": false})
	require.Equal(t, fiber.StatusCreated, status)
	status, env = doJSON(t, app, "POST", "/banner", fiber.Map{"title": "Broken"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, env.Error, "Image")

	_, env = doJSON(t, app, "GET", "/banner?active=true", nil)
	var banners []models.Banner
	decodeData(t, env, &banners)
	require.Len(t, banners, 1)
	assert.Equal(t, "Spring", banners[0].Title)

	past, future := now.Add(-time.Hour), now.Add(time.Hour)
	popups := []fiber.Map{
		{"title": "Open"},
		{"title": "Running", "starts_at": past, "ends_at": future},
		{"title": "Upcoming", "starts_at": future},
		{"title": "Disabled", "is_active": false},
	}
	for _, p := range popups {
		status, env := doJSON(t, app, "POST", "/popups", p)
		require.Equal(t, fiber.StatusCreated, status, env.Error)
	}

	status, env = doJSON(t, app, "POST", "/popups", fiber.Map{"title": "Backwards", "starts_at": future, "ends_at": past})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "ends_at must not be before starts_at", env.Error)

	_, env = doJSON(t, app, "GET", "/popups/active", nil)
	var active []models.Popup
	decodeData(t, env, &active)
	titles := []string{}
	for _, p := range active {
		titles = append(titles, p.Title)
	}
	assert.ElementsMatch(t, []string{"Open", "Running"}, titles)
}

func TestSettings(t *testing.T) {
	db := newTestDB(t)
	h := NewSettingsHandler(db, checkoutDefaults)
	app := newTestApp()
	app.Get("/settings", h.GetSettings)
	app.Put("/settings", h.UpdateSettings)

	_, env := doJSON(t, app, "GET", "/settings", nil)
	var defaults models.StoreSettings
	decodeData(t, env, &defaults)
	assert.Equal(t, "Intima", defaults.StoreName)
	assert.Equal(t, "BRL", defaults.Currency)

	status, env := doJSON(t, app, "PUT", "/settings", fiber.Map{"whatsapp_number": "call me"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "invalid whatsapp number", env.Error)

	status, env = doJSON(t, app, "PUT", "/settings", fiber.Map{"currency": "usdollar"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, env.Error, "Currency")

	status, env = doJSON(t, app, "PUT", "/settings", fiber.Map{
		"store_name":      "Intima Rio",
		"whatsapp_number": "5521900001111",
		"currency":        "usd",
	})
	require.Equal(t, fiber.StatusOK, status, env.Error)

	_, env = doJSON(t, app, "GET", "/settings", nil)
	var saved models.StoreSettings
	decodeData(t, env, &saved)
	assert.Equal(t, "Intima Rio", saved.StoreName)
	assert.Equal(t, "USD", saved.Currency)
	assert.Equal(t, "5521900001111", saved.WhatsAppNumber)
	assert.Equal(t, checkoutDefaults.Greeting, saved.WhatsAppGreeting)

	var rows int64
	require.NoError(t, db.Model(&models.StoreSettings{}).Count(&rows).Error)
	assert.EqualValues(t, 1, rows)
}

func TestLoginAndRoles(t *testing.T) {
	db := newTestDB(t)
	cfg := &config.Config{JWTSecret: "test-secret", TokenExpires: time.Hour}
	h := NewAuthHandler(db, cfg)

	hash, err := utils.HashPassword("s3cret-pass")
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.User{Phone: "998900000001", DisplayName: "Owner", PasswordHash: hash, Role: models.RoleAdmin, IsActive: true}).Error)
	require.NoError(t, db.Create(&models.User{Phone: "998900000002", DisplayName: "Gone", PasswordHash: hash, Role: models.RoleEditor}).Error)

	app := newTestApp()
	app.Post("/login", h.Login)
	admin := app.Group("/users", middleware.AuthMiddleware(cfg.JWTSecret), middleware.RequireRole(models.RoleAdmin))
	admin.Post("/", h.CreateUser)

	status, env := doJSON(t, app, "POST", "/login", fiber.Map{"phone": "998900000001", "password": "wrong"})
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "invalid credentials", env.Error)

	status, _ = doJSON(t, app, "POST", "/login", fiber.Map{"phone": "998900000002", "password": "s3cret-pass"})
	assert.Equal(t, fiber.StatusUnauthorized, status, "inactive users cannot log in")

	status, env = doJSON(t, app, "POST", "/login", fiber.Map{"phone": "998900000001", "password": "s3cret-pass"})
	require.Equal(t, fiber.StatusOK, status, env.Error)
	require.NotEmpty(t, env.Token)

	claims, err := utils.ParseToken(cfg.JWTSecret, env.Token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, claims.Role)

	body := `{"display_name":"Editor","phone":"998900000003","password":"long-enough","role":"editor"}`
	req := httptest.NewRequest("POST", "/users", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+env.Token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	editorToken, err := utils.GenerateToken(cfg.JWTSecret, uuid.MustParse(claims.UserID), models.RoleEditor, time.Hour)
	require.NoError(t, err)
	req = httptest.NewRequest("POST", "/users", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+editorToken)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
