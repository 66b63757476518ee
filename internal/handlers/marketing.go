package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/intima/internal/models"
)

// MarketingHandler manages banners and popups.
type MarketingHandler struct {
	db  *gorm.DB
	now func() time.Time
}

// NewMarketingHandler constructs MarketingHandler.
func NewMarketingHandler(db *gorm.DB) *MarketingHandler {
	return &MarketingHandler{db: db, now: time.Now}
}

// Banners

type bannerRequest struct {
	Title        string `json:"title" validate:"max=200"`
	Subtitle     string `json:"subtitle" validate:"max=300"`
	Image        string `json:"image" validate:"required,url"`
	ImageMobile  string `json:"image_mobile" validate:"omitempty,url"`
	URL          string `json:"url" validate:"omitempty,uri"`
	DisplayOrder int    `json:"display_order"`
	IsActive     *bool  `json:"is_active"`
}

func (r bannerRequest) apply(item *models.Banner) {
	item.Title = r.Title
	item.Subtitle = r.Subtitle
	item.Image = r.Image
	item.ImageMobile = r.ImageMobile
	item.URL = r.URL
	item.DisplayOrder = r.DisplayOrder
	if r.IsActive != nil {
		item.IsActive = *r.IsActive
	}
}

// ListBanners returns banners in display order; ?active=true hides disabled ones.
func (h *MarketingHandler) ListBanners(c *fiber.Ctx) error {
	query := h.db.WithContext(c.UserContext()).Order("display_order asc, created_at desc")
	if c.QueryBool("active") {
		query = query.Where("is_active = ?", true)
	}

	var items []models.Banner
	if err := query.Find(&items).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": items})
}

func (h *MarketingHandler) CreateBanner(c *fiber.Ctx) error {
	var req bannerRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	item := models.Banner{IsActive: true}
	req.apply(&item)
	if err := h.db.WithContext(c.UserContext()).Create(&item).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": item})
}

func (h *MarketingHandler) UpdateBanner(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var item models.Banner
	if err := h.db.WithContext(c.UserContext()).First(&item, "id = ?", id).Error; err != nil {
		return notFound(err, "banner")
	}
	var req bannerRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	req.apply(&item)
	if err := h.db.WithContext(c.UserContext()).Save(&item).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": item})
}

func (h *MarketingHandler) DeleteBanner(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.db.WithContext(c.UserContext()).Delete(&models.Banner{}, "id = ?", id).Error; err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Popups

type popupRequest struct {
	Title    string     `json:"title" validate:"required,max=200"`
	Message  string     `json:"message" validate:"max=1000"`
	Image    string     `json:"image" validate:"omitempty,url"`
	URL      string     `json:"url" validate:"omitempty,uri"`
	IsActive *bool      `json:"is_active"`
	StartsAt *time.Time `json:"starts_at"`
	EndsAt   *time.Time `json:"ends_at"`
}

func (r popupRequest) apply(item *models.Popup) error {
	if r.StartsAt != nil && r.EndsAt != nil && r.EndsAt.Before(*r.StartsAt) {
		return fiber.NewError(fiber.StatusBadRequest, "ends_at must not be before starts_at")
	}
	item.Title = r.Title
	item.Message = r.Message
	item.Image = r.Image
	item.URL = r.URL
	item.StartsAt = r.StartsAt
	item.EndsAt = r.EndsAt
	if r.IsActive != nil {
		item.IsActive = *r.IsActive
	}
	return nil
}

func (h *MarketingHandler) ListPopups(c *fiber.Ctx) error {
	var items []models.Popup
	if err := h.db.WithContext(c.UserContext()).Order("created_at desc").Find(&items).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": items})
}

// ActivePopups returns the popups whose window covers the current time.
func (h *MarketingHandler) ActivePopups(c *fiber.Ctx) error {
	var items []models.Popup
	if err := h.db.WithContext(c.UserContext()).
		Where("is_active = ?", true).
		Order("created_at desc").
		Find(&items).Error; err != nil {
		return err
	}

	now := h.now()
	active := make([]models.Popup, 0, len(items))
	for _, item := range items {
		if item.ActiveAt(now) {
			active = append(active, item)
		}
	}
	return c.JSON(fiber.Map{"success": true, "data": active})
}

func (h *MarketingHandler) CreatePopup(c *fiber.Ctx) error {
	var req popupRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	item := models.Popup{IsActive: true}
	if err := req.apply(&item); err != nil {
		return err
	}
	if err := h.db.WithContext(c.UserContext()).Create(&item).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": item})
}

func (h *MarketingHandler) UpdatePopup(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var item models.Popup
	if err := h.db.WithContext(c.UserContext()).First(&item, "id = ?", id).Error; err != nil {
		return notFound(err, "popup")
	}
	var req popupRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if err := req.apply(&item); err != nil {
		return err
	}
	if err := h.db.WithContext(c.UserContext()).Save(&item).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": item})
}

func (h *MarketingHandler) DeletePopup(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.db.WithContext(c.UserContext()).Delete(&models.Popup{}, "id = ?", id).Error; err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
