package handlers

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/example/intima/internal/cache"
	"github.com/example/intima/internal/events"
	"github.com/example/intima/internal/logger"
	"github.com/example/intima/internal/models"
	"github.com/example/intima/internal/utils"
	"github.com/example/intima/internal/variants"
)

const (
	selectionInit        = "init"
	selectionSelectSize  = "select_size"
	selectionSelectColor = "select_color"
)

// ProductHandler manages the catalog and the variant views of a product.
type ProductHandler struct {
	db          *gorm.DB
	cache       *cache.ProductCache
	events      *events.Publisher
	log         *logger.Logger
	placeholder string
}

// NewProductHandler constructs ProductHandler.
func NewProductHandler(db *gorm.DB, productCache *cache.ProductCache, publisher *events.Publisher, log *logger.Logger, placeholder string) *ProductHandler {
	return &ProductHandler{
		db:          db,
		cache:       productCache,
		events:      publisher,
		log:         log,
		placeholder: placeholder,
	}
}

type productCard struct {
	ID              uuid.UUID           `json:"id"`
	Name            string              `json:"name"`
	Slug            string              `json:"slug"`
	Category        string              `json:"category"`
	SubCategory     string              `json:"sub_category"`
	Price           decimal.Decimal     `json:"price"`
	OriginalPrice   decimal.NullDecimal `json:"original_price"`
	DiscountPercent int64               `json:"discount_percent"`
	Rating          float64             `json:"rating"`
	ReviewCount     int                 `json:"review_count"`
	IsFeatured      bool                `json:"is_featured"`
	IsActive        bool                `json:"is_active"`
	VariantKind     variants.ModelKind  `json:"variant_kind"`
	Sizes           []string            `json:"sizes"`
	Colors          []string            `json:"colors"`
	ColorLabels     map[string]string   `json:"color_labels"`
	CardImages      []string            `json:"card_images"`
}

func (h *ProductHandler) card(p *models.Product) productCard {
	snap := p.Snapshot()
	model := variants.ResolveModel(snap)
	return productCard{
		ID:              p.ID,
		Name:            p.Name,
		Slug:            p.Slug,
		Category:        p.Category,
		SubCategory:     p.SubCategory,
		Price:           p.Price,
		OriginalPrice:   p.OriginalPrice,
		DiscountPercent: p.DiscountPercent(),
		Rating:          p.Rating,
		ReviewCount:     p.ReviewCount,
		IsFeatured:      p.IsFeatured,
		IsActive:        p.IsActive,
		VariantKind:     model.Kind(),
		Sizes:           model.AvailableSizes(""),
		Colors:          model.AvailableColors(""),
		ColorLabels:     model.ColorLabels(""),
		CardImages:      variants.AllImages(snap, h.placeholder),
	}
}

// ListProducts returns active products as storefront cards.
func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	return h.listProducts(c, true)
}

// ListAllProducts includes inactive products for the back office.
func (h *ProductHandler) ListAllProducts(c *fiber.Ctx) error {
	return h.listProducts(c, false)
}

func (h *ProductHandler) listProducts(c *fiber.Ctx, onlyActive bool) error {
	pg := utils.ParsePagination(c)
	query := h.db.WithContext(c.UserContext()).Model(&models.Product{})

	if onlyActive {
		query = query.Where("is_active = ?", true)
	}

	if v := strings.TrimSpace(c.Query("category")); v != "" {
		query = query.Where("category = ?", v)
	}

	if v := strings.TrimSpace(c.Query("sub_category")); v != "" {
		query = query.Where("sub_category = ?", v)
	}

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		q := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", q, q)
	}

	if minPrice := c.Query("min_price"); minPrice != "" {
		if val, err := decimal.NewFromString(minPrice); err == nil {
			query = query.Where("price >= ?", val)
		}
	}

	if maxPrice := c.Query("max_price"); maxPrice != "" {
		if val, err := decimal.NewFromString(maxPrice); err == nil {
			query = query.Where("price <= ?", val)
		}
	}

	if c.QueryBool("featured") {
		query = query.Where("is_featured = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var products []models.Product
	if err := query.Order(productOrder(c.Query("sort"))).
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&products).Error; err != nil {
		return err
	}

	cards := make([]productCard, 0, len(products))
	for i := range products {
		cards = append(cards, h.card(&products[i]))
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"data":       cards,
		"pagination": pg.Meta(total),
	})
}

func productOrder(sort string) string {
	switch sort {
	case "price_asc":
		return "price asc"
	case "price_desc":
		return "price desc"
	case "rating":
		return "rating desc"
	case "name":
		return "name asc"
	default:
		return "created_at desc"
	}
}

// GetProduct returns a product with its resolved variant view.
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	product, err := h.productParam(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": h.detail(product)})
}

// GetAnyProduct returns a product for the back office, inactive or not.
func (h *ProductHandler) GetAnyProduct(c *fiber.Ctx) error {
	product, err := h.anyProductParam(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": h.detail(product)})
}

// GetProductBySlug is the storefront entry point; inactive products are hidden.
func (h *ProductHandler) GetProductBySlug(c *fiber.Ctx) error {
	slug := strings.TrimSpace(c.Params("slug"))
	if slug == "" {
		return fiber.NewError(fiber.StatusBadRequest, "invalid slug")
	}

	product, err := h.loadBySlug(c.UserContext(), slug)
	if err != nil {
		return err
	}
	if !product.IsActive {
		return fiber.NewError(fiber.StatusNotFound, "product not found")
	}
	return c.JSON(fiber.Map{"success": true, "data": h.detail(product)})
}

func (h *ProductHandler) detail(p *models.Product) fiber.Map {
	snap := p.Snapshot()
	return fiber.Map{
		"product":          p,
		"discount_percent": p.DiscountPercent(),
		"images":           variants.AllImages(snap, h.placeholder),
		"variants":         variants.Describe(snap, "", ""),
		"selection":        variants.NewSelector(snap).State(),
	}
}

// GetAvailability answers the cross-filtered queries for a partial selection.
func (h *ProductHandler) GetAvailability(c *fiber.Ctx) error {
	product, err := h.productParam(c)
	if err != nil {
		return err
	}

	availability := variants.Describe(product.Snapshot(), c.Query("size"), c.Query("color"))
	return c.JSON(fiber.Map{"success": true, "data": availability})
}

// GetImages resolves the gallery for an optional color.
func (h *ProductHandler) GetImages(c *fiber.Ctx) error {
	product, err := h.productParam(c)
	if err != nil {
		return err
	}

	color := c.Query("color")
	images := variants.ImagesForColor(product.Snapshot(), color)
	if len(images) == 0 && h.placeholder != "" {
		images = []string{h.placeholder}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"color":  color,
			"images": images,
		},
	})
}

type selectionRequest struct {
	Event string              `json:"event" validate:"required,oneof=init select_size select_color"`
	Value string              `json:"value"`
	State *variants.Selection `json:"state"`
}

// ApplySelection advances the product page selection by one event. The
// client keeps the state between calls and sends it back with each event.
func (h *ProductHandler) ApplySelection(c *fiber.Ctx) error {
	product, err := h.productParam(c)
	if err != nil {
		return err
	}

	var req selectionRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	snap := product.Snapshot()
	var selector *variants.Selector
	if req.State == nil || req.Event == selectionInit {
		selector = variants.NewSelector(snap)
	} else {
		selector = variants.RestoreSelector(snap, *req.State)
	}

	switch req.Event {
	case selectionSelectSize:
		selector.SelectSize(req.Value)
	case selectionSelectColor:
		selector.SelectColor(req.Value)
	}

	state := selector.State()
	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"selection":    state,
			"availability": variants.Describe(snap, state.SelectedSize, state.SelectedColor),
		},
	})
}

type productRequest struct {
	Name          string                 `json:"name" validate:"required"`
	Slug          string                 `json:"slug"`
	Category      string                 `json:"category" validate:"required"`
	SubCategory   string                 `json:"sub_category"`
	Price         decimal.Decimal        `json:"price"`
	OriginalPrice decimal.NullDecimal    `json:"original_price"`
	Description   string                 `json:"description"`
	Rating        float64                `json:"rating" validate:"gte=0,lte=5"`
	ReviewCount   int                    `json:"review_count" validate:"gte=0"`
	IsFeatured    bool                   `json:"is_featured"`
	IsActive      *bool                  `json:"is_active"`
	Images        []string               `json:"images"`
	Variants      []variants.Variant     `json:"variants" validate:"dive"`
	Colors        []variants.ColorOption `json:"colors" validate:"dive"`
	Sizes         []variants.SizeOption  `json:"sizes" validate:"dive"`
	StockMatrix   map[string]int         `json:"stock_matrix"`
	Combinations  []variants.Combination `json:"variant_combinations"`
	ImagesByColor map[string][]string    `json:"images_by_color"`
	SKUPrefix     string                 `json:"sku_prefix"`
}

type productEvent struct {
	ID           uuid.UUID          `json:"id"`
	Slug         string             `json:"slug"`
	Name         string             `json:"name"`
	VariantKind  variants.ModelKind `json:"variant_kind"`
	Combinations int                `json:"combinations"`
}

func newProductEvent(p *models.Product) productEvent {
	return productEvent{
		ID:           p.ID,
		Slug:         p.Slug,
		Name:         p.Name,
		VariantKind:  variants.ResolveModel(p.Snapshot()).Kind(),
		Combinations: len(p.VariantCombinations),
	}
}

// CreateProduct handles product creation. When a stock matrix is sent the
// combinations are generated from colors and sizes.
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req productRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	product, err := buildProduct(req)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := h.ensureSlugFree(c.UserContext(), product.Slug, uuid.Nil); err != nil {
		return err
	}

	if err := h.db.WithContext(c.UserContext()).Create(&product).Error; err != nil {
		return err
	}

	h.cache.Invalidate(c.UserContext(), product.ID.String(), product.Slug)
	h.events.PublishAsync(events.ProductSaved, product.ID.String(), newProductEvent(&product))
	h.log.Info("[Product] created %s (%s)", product.Slug, product.ID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": product})
}

// UpdateProduct replaces a product's content, keeping its id and creation time.
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var existing models.Product
	if err := h.db.WithContext(c.UserContext()).First(&existing, "id = ?", id).Error; err != nil {
		return notFound(err, "product")
	}

	var req productRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	product, err := buildProduct(req)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	product.ID = existing.ID
	product.CreatedAt = existing.CreatedAt
	if req.IsActive == nil {
		product.IsActive = existing.IsActive
	}

	if err := h.ensureSlugFree(c.UserContext(), product.Slug, existing.ID); err != nil {
		return err
	}

	if err := h.db.WithContext(c.UserContext()).Save(&product).Error; err != nil {
		return err
	}

	h.cache.Invalidate(c.UserContext(), product.ID.String(), existing.Slug, product.Slug)
	h.events.PublishAsync(events.ProductSaved, product.ID.String(), newProductEvent(&product))
	h.log.Info("[Product] updated %s (%s)", product.Slug, product.ID)

	return c.JSON(fiber.Map{"success": true, "data": product})
}

// DeleteProduct removes a product by ID.
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var existing models.Product
	if err := h.db.WithContext(c.UserContext()).First(&existing, "id = ?", id).Error; err != nil {
		return notFound(err, "product")
	}

	if err := h.db.WithContext(c.UserContext()).Delete(&existing).Error; err != nil {
		return err
	}

	h.cache.Invalidate(c.UserContext(), existing.ID.String(), existing.Slug)
	h.events.PublishAsync(events.ProductDeleted, existing.ID.String(), newProductEvent(&existing))
	h.log.Info("[Product] deleted %s (%s)", existing.Slug, existing.ID)

	return c.SendStatus(fiber.StatusNoContent)
}

// productParam loads the :id product for storefront routes; inactive
// products are reported as missing.
func (h *ProductHandler) productParam(c *fiber.Ctx) (*models.Product, error) {
	product, err := h.anyProductParam(c)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, fiber.NewError(fiber.StatusNotFound, "product not found")
	}
	return product, nil
}

func (h *ProductHandler) anyProductParam(c *fiber.Ctx) (*models.Product, error) {
	id, err := parseID(c)
	if err != nil {
		return nil, err
	}
	return h.loadByID(c.UserContext(), id)
}

func (h *ProductHandler) loadByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if product, ok := h.cache.ByID(ctx, id.String()); ok {
		return product, nil
	}

	var product models.Product
	if err := h.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "product")
	}
	h.cache.Store(ctx, &product)
	return &product, nil
}

func (h *ProductHandler) loadBySlug(ctx context.Context, slug string) (*models.Product, error) {
	if product, ok := h.cache.BySlug(ctx, slug); ok {
		return product, nil
	}

	var product models.Product
	if err := h.db.WithContext(ctx).First(&product, "slug = ?", slug).Error; err != nil {
		return nil, notFound(err, "product")
	}
	h.cache.Store(ctx, &product)
	return &product, nil
}

func (h *ProductHandler) ensureSlugFree(ctx context.Context, slug string, self uuid.UUID) error {
	var count int64
	if err := h.db.WithContext(ctx).Model(&models.Product{}).
		Where("slug = ? AND id <> ?", slug, self).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fiber.NewError(fiber.StatusConflict, "slug already in use")
	}
	return nil
}

// buildProduct turns an editor payload into a product row. Colors and sizes
// are normalized, image groups are derived from the colors, and every image
// URL must be absolute http(s).
func buildProduct(req productRequest) (models.Product, error) {
	slug := variants.GenerateSlug(req.Slug)
	if slug == "" {
		slug = variants.GenerateSlug(req.Name)
	}
	if slug == "" {
		return models.Product{}, errors.New("slug could not be derived from name")
	}

	if req.Price.IsNegative() {
		return models.Product{}, errors.New("price must not be negative")
	}
	if req.OriginalPrice.Valid && req.OriginalPrice.Decimal.IsNegative() {
		return models.Product{}, errors.New("original_price must not be negative")
	}

	colors := make([]variants.ColorOption, 0, len(req.Colors))
	for _, color := range req.Colors {
		colors = append(colors, variants.NormalizeColor(color))
	}
	sizes := make([]variants.SizeOption, 0, len(req.Sizes))
	for _, size := range req.Sizes {
		sizes = append(sizes, variants.NormalizeSize(size))
	}

	combinations := uniqueCombinations(req.Combinations)
	if len(req.StockMatrix) > 0 {
		builder := variants.CombinationBuilder{SKUPrefix: req.SKUPrefix}
		combinations = builder.Build(colors, sizes, variants.StockMatrix(req.StockMatrix))
	}

	// Combination colors are stored sanitized, so color keyed images are too.
	// Legacy variants keep their values as entered.
	groups := variants.BuildLegacyImageGroups(colors)
	imagesByColor := req.ImagesByColor
	if len(combinations) > 0 {
		groups = variants.BuildImageGroups(colors)
		imagesByColor = sanitizeImageKeys(req.ImagesByColor)
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	product := models.Product{
		Name:                strings.TrimSpace(req.Name),
		Slug:                slug,
		Category:            strings.TrimSpace(req.Category),
		SubCategory:         strings.TrimSpace(req.SubCategory),
		Price:               req.Price,
		OriginalPrice:       req.OriginalPrice,
		Description:         req.Description,
		Rating:              req.Rating,
		ReviewCount:         req.ReviewCount,
		IsFeatured:          req.IsFeatured,
		IsActive:            isActive,
		Images:              datatypes.JSONSlice[string](req.Images),
		Variants:            datatypes.JSONSlice[variants.Variant](req.Variants),
		VariantCombinations: datatypes.JSONSlice[variants.Combination](combinations),
		ImageGroups:         datatypes.JSONSlice[variants.ImageGroup](groups),
		ImagesByColor:       datatypes.NewJSONType(imagesByColor),
		ProductColors:       datatypes.JSONSlice[variants.ColorOption](colors),
		ProductSizes:        datatypes.JSONSlice[variants.SizeOption](sizes),
	}

	for _, u := range product.AllImageURLs() {
		if !variants.IsValidURL(u) {
			return models.Product{}, fmt.Errorf("invalid image url: %q", u)
		}
	}

	return product, nil
}

// sanitizeImageKeys rewrites color keys the way combination colors are
// stored. Images of keys that collapse onto the same color are merged.
func sanitizeImageKeys(in map[string][]string) map[string][]string {
	if in == nil {
		return nil
	}
	keys := make([]string, 0, len(in))
	for key := range in {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make(map[string][]string, len(in))
	for _, key := range keys {
		color := variants.SanitizeKey(strings.TrimSpace(key))
		for _, img := range in[key] {
			if !contains(out[color], img) {
				out[color] = append(out[color], img)
			}
		}
	}
	return out
}

// uniqueCombinations keeps the first record of each size/color pair and
// clamps negative stock.
func uniqueCombinations(in []variants.Combination) []variants.Combination {
	out := make([]variants.Combination, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, combo := range in {
		key := combo.Size + "\x00" + combo.Color
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if combo.Stock < 0 {
			combo.Stock = 0
		}
		out = append(out, combo)
	}
	return out
}

// RegisterProductRoutes attaches product routes; write routes run behind guard.
func (h *ProductHandler) RegisterProductRoutes(router fiber.Router, guard ...fiber.Handler) {
	guarded := func(handler fiber.Handler) []fiber.Handler {
		return append(append([]fiber.Handler{}, guard...), handler)
	}

	router.Get("/", h.ListProducts)
	router.Get("/slug/:slug", h.GetProductBySlug)
	router.Get("/:id", h.GetProduct)
	router.Get("/:id/availability", h.GetAvailability)
	router.Get("/:id/images", h.GetImages)
	router.Post("/:id/selection", h.ApplySelection)
	router.Post("/", guarded(h.CreateProduct)...)
	router.Put("/:id", guarded(h.UpdateProduct)...)
	router.Delete("/:id", guarded(h.DeleteProduct)...)
}
