package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/intima/internal/models"
	"github.com/example/intima/internal/utils"
	"github.com/example/intima/internal/variants"
)

// CatalogHandler manages product categories.
type CatalogHandler struct {
	db *gorm.DB
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(db *gorm.DB) *CatalogHandler {
	return &CatalogHandler{db: db}
}

type categoryRequest struct {
	Name         string `json:"name" validate:"required,max=120"`
	Slug         string `json:"slug"`
	ParentSlug   string `json:"parent_slug"`
	Description  string `json:"description"`
	Image        string `json:"image" validate:"omitempty,url"`
	DisplayOrder int    `json:"display_order"`
}

// ListCategories returns paginated categories. ?parent=<slug> lists the
// sub-categories of one parent and ?parent= with no value the top level.
func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.WithContext(c.UserContext()).Model(&models.Category{})

	if c.Context().QueryArgs().Has("parent") {
		query = query.Where("parent_slug = ?", c.Query("parent"))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var categories []models.Category
	if err := query.Order("display_order asc, name asc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&categories).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"data":       categories,
		"pagination": pg.Meta(total),
	})
}

// GetCategory returns a single category by ID or slug.
func (h *CatalogHandler) GetCategory(c *fiber.Ctx) error {
	key := c.Params("id")
	query := h.db.WithContext(c.UserContext())

	var category models.Category
	var err error
	if id, parseErr := uuid.Parse(key); parseErr == nil {
		err = query.First(&category, "id = ?", id).Error
	} else {
		err = query.First(&category, "slug = ?", key).Error
	}
	if err != nil {
		return notFound(err, "category")
	}

	return c.JSON(fiber.Map{"success": true, "data": category})
}

// CreateCategory persists a new category.
func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	var req categoryRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	category := models.Category{}
	if err := h.applyCategory(c, &category, req); err != nil {
		return err
	}

	if err := h.db.WithContext(c.UserContext()).Create(&category).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": category})
}

// UpdateCategory updates an existing category.
func (h *CatalogHandler) UpdateCategory(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var category models.Category
	if err := h.db.WithContext(c.UserContext()).First(&category, "id = ?", id).Error; err != nil {
		return notFound(err, "category")
	}

	var req categoryRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	if err := h.applyCategory(c, &category, req); err != nil {
		return err
	}

	if err := h.db.WithContext(c.UserContext()).Save(&category).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": category})
}

// DeleteCategory removes a category by ID. Categories that still have
// sub-categories are kept.
func (h *CatalogHandler) DeleteCategory(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var category models.Category
	if err := h.db.WithContext(c.UserContext()).First(&category, "id = ?", id).Error; err != nil {
		return notFound(err, "category")
	}

	var children int64
	if err := h.db.WithContext(c.UserContext()).Model(&models.Category{}).
		Where("parent_slug = ?", category.Slug).
		Count(&children).Error; err != nil {
		return err
	}
	if children > 0 {
		return fiber.NewError(fiber.StatusConflict, "category has sub-categories")
	}

	if err := h.db.WithContext(c.UserContext()).Delete(&category).Error; err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *CatalogHandler) applyCategory(c *fiber.Ctx, category *models.Category, req categoryRequest) error {
	slug := variants.GenerateSlug(req.Slug)
	if slug == "" {
		slug = variants.GenerateSlug(req.Name)
	}
	if slug == "" {
		return fiber.NewError(fiber.StatusBadRequest, "slug could not be derived from name")
	}

	parent := variants.GenerateSlug(req.ParentSlug)
	if parent == slug {
		return fiber.NewError(fiber.StatusBadRequest, "category cannot be its own parent")
	}
	if parent != "" {
		var count int64
		if err := h.db.WithContext(c.UserContext()).Model(&models.Category{}).
			Where("slug = ?", parent).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "parent category not found")
		}
	}

	var taken int64
	if err := h.db.WithContext(c.UserContext()).Model(&models.Category{}).
		Where("slug = ? AND id <> ?", slug, category.ID).
		Count(&taken).Error; err != nil {
		return err
	}
	if taken > 0 {
		return fiber.NewError(fiber.StatusConflict, "slug already in use")
	}

	category.Name = strings.TrimSpace(req.Name)
	category.Slug = slug
	category.ParentSlug = parent
	category.Description = req.Description
	category.Image = req.Image
	category.DisplayOrder = req.DisplayOrder
	return nil
}
