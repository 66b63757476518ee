package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/intima/internal/models"
	"github.com/example/intima/internal/services"
)

// StoreDefaults fill settings fields the admin has not set yet.
type StoreDefaults struct {
	StoreName        string
	WhatsAppNumber   string
	Currency         string
	Greeting         string
	PlaceholderImage string
}

// SettingsHandler manages the store settings singleton.
type SettingsHandler struct {
	db       *gorm.DB
	defaults StoreDefaults
}

// NewSettingsHandler constructs SettingsHandler.
func NewSettingsHandler(db *gorm.DB, defaults StoreDefaults) *SettingsHandler {
	return &SettingsHandler{db: db, defaults: defaults}
}

func applySettingsDefaults(settings *models.StoreSettings, d StoreDefaults) {
	if settings == nil {
		return
	}
	if strings.TrimSpace(settings.StoreName) == "" {
		settings.StoreName = d.StoreName
	}
	if strings.TrimSpace(settings.WhatsAppNumber) == "" {
		settings.WhatsAppNumber = d.WhatsAppNumber
	}
	if strings.TrimSpace(settings.WhatsAppGreeting) == "" {
		settings.WhatsAppGreeting = d.Greeting
	}
	if strings.TrimSpace(settings.Currency) == "" {
		settings.Currency = d.Currency
	}
	if strings.TrimSpace(settings.PlaceholderImage) == "" {
		settings.PlaceholderImage = d.PlaceholderImage
	}
}

// loadStoreSettings returns the stored row with defaults applied, or the
// defaults alone before the first save.
func loadStoreSettings(ctx context.Context, db *gorm.DB, d StoreDefaults) (models.StoreSettings, error) {
	var settings models.StoreSettings
	if err := db.WithContext(ctx).Order("created_at asc").First(&settings).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return models.StoreSettings{}, err
		}
		settings = models.StoreSettings{}
	}
	applySettingsDefaults(&settings, d)
	return settings, nil
}

type settingsRequest struct {
	StoreName        string `json:"store_name" validate:"max=120"`
	WhatsAppNumber   string `json:"whatsapp_number" validate:"max=32"`
	WhatsAppGreeting string `json:"whatsapp_greeting" validate:"max=500"`
	Currency         string `json:"currency" validate:"omitempty,len=3,alpha"`
	Email            string `json:"email" validate:"omitempty,email"`
	Address          string `json:"address"`
	Instagram        string `json:"instagram" validate:"omitempty,url"`
	Facebook         string `json:"facebook" validate:"omitempty,url"`
	TikTok           string `json:"tiktok" validate:"omitempty,url"`
	PlaceholderImage string `json:"placeholder_image" validate:"omitempty,uri"`
}

// GetSettings returns the current store settings (public endpoint).
func (h *SettingsHandler) GetSettings(c *fiber.Ctx) error {
	settings, err := loadStoreSettings(c.UserContext(), h.db, h.defaults)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": settings})
}

// UpdateSettings creates or updates the store settings (admin endpoint).
func (h *SettingsHandler) UpdateSettings(c *fiber.Ctx) error {
	var input settingsRequest
	if err := bindJSON(c, &input); err != nil {
		return err
	}

	if number := strings.TrimSpace(input.WhatsAppNumber); number != "" {
		if _, err := services.CheckoutURL(number, ""); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid whatsapp number")
		}
	}

	var existing models.StoreSettings
	err := h.db.WithContext(c.UserContext()).Order("created_at asc").First(&existing).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	// Copy fields explicitly so client payloads cannot touch id or timestamps.
	existing.StoreName = strings.TrimSpace(input.StoreName)
	existing.WhatsAppNumber = strings.TrimSpace(input.WhatsAppNumber)
	existing.WhatsAppGreeting = input.WhatsAppGreeting
	existing.Currency = strings.ToUpper(input.Currency)
	existing.Email = input.Email
	existing.Address = input.Address
	existing.Instagram = input.Instagram
	existing.Facebook = input.Facebook
	existing.TikTok = input.TikTok
	existing.PlaceholderImage = input.PlaceholderImage

	if err := h.db.WithContext(c.UserContext()).Save(&existing).Error; err != nil {
		return err
	}

	applySettingsDefaults(&existing, h.defaults)
	return c.JSON(fiber.Map{"success": true, "data": existing})
}
