package handlers

import (
	"sort"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/example/intima/internal/models"
	"github.com/example/intima/internal/utils"
	"github.com/example/intima/internal/variants"
)

// AdminHandler manages admin-only endpoints.
type AdminHandler struct {
	db                *gorm.DB
	lowStockThreshold int
	now               func() time.Time
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(db *gorm.DB, lowStockThreshold int) *AdminHandler {
	return &AdminHandler{db: db, lowStockThreshold: lowStockThreshold, now: time.Now}
}

// stockAlert flags one sellable unit that is running low or sold out.
type stockAlert struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Slug        string    `json:"slug"`
	SKU         string    `json:"sku,omitempty"`
	Size        string    `json:"size,omitempty"`
	SizeLabel   string    `json:"size_label,omitempty"`
	Color       string    `json:"color,omitempty"`
	ColorLabel  string    `json:"color_label,omitempty"`
	Stock       *int      `json:"stock"`
}

// DashboardStats returns aggregate statistics for the admin dashboard.
func (h *AdminHandler) DashboardStats(c *fiber.Ctx) error {
	db := h.db.WithContext(c.UserContext())

	var totalProducts, activeProducts int64
	if err := db.Model(&models.Product{}).Count(&totalProducts).Error; err != nil {
		return err
	}
	if err := db.Model(&models.Product{}).Where("is_active = ?", true).Count(&activeProducts).Error; err != nil {
		return err
	}

	var totalOrders int64
	if err := db.Model(&models.Order{}).Count(&totalOrders).Error; err != nil {
		return err
	}

	// Orders by status
	type statusCount struct {
		Status string `json:"status"`
		Count  int64  `json:"count"`
	}
	var statusCounts []statusCount
	if err := db.Model(&models.Order{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&statusCounts).Error; err != nil {
		return err
	}

	ordersByStatus := make(map[string]int64)
	for _, sc := range statusCounts {
		ordersByStatus[sc.Status] = sc.Count
	}

	// Revenue is summed in Go so decimal precision survives every driver.
	var orders []models.Order
	if err := db.Select("status", "subtotal", "placed_at").
		Where("status <> ?", models.OrderStatusCancelled).
		Find(&orders).Error; err != nil {
		return err
	}

	startOfDay := startOfDay(h.now())
	totalRevenue, todayRevenue := decimal.Zero, decimal.Zero
	for _, o := range orders {
		totalRevenue = totalRevenue.Add(o.Subtotal)
		if !o.PlacedAt.Before(startOfDay) {
			todayRevenue = todayRevenue.Add(o.Subtotal)
		}
	}

	var totalBanners int64
	if err := db.Model(&models.Banner{}).Count(&totalBanners).Error; err != nil {
		return err
	}

	var products []models.Product
	if err := db.Where("is_active = ?", true).Find(&products).Error; err != nil {
		return err
	}
	lowStock, soldOut := stockAlerts(products, h.lowStockThreshold)

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"total_products":      totalProducts,
			"active_products":     activeProducts,
			"total_orders":        totalOrders,
			"total_banners":       totalBanners,
			"total_revenue":       totalRevenue,
			"today_revenue":       todayRevenue,
			"orders_by_status":    ordersByStatus,
			"low_stock":           lowStock,
			"sold_out":            soldOut,
			"low_stock_threshold": h.lowStockThreshold,
		},
	})
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// stockAlerts walks combinations with 0 < stock <= threshold (low) and
// stock == 0 (sold out). Legacy variants have no quantities, so only their
// out-of-stock flags are reported.
func stockAlerts(products []models.Product, threshold int) (low, soldOut []stockAlert) {
	low, soldOut = []stockAlert{}, []stockAlert{}

	for _, p := range products {
		snap := p.Snapshot()
		switch variants.ResolveModel(snap).Kind() {
		case variants.KindAdvanced:
			for _, combo := range snap.Combinations {
				stock := combo.Stock
				alert := stockAlert{
					ProductID:   p.ID,
					ProductName: p.Name,
					Slug:        p.Slug,
					SKU:         combo.SKU,
					Size:        combo.Size,
					SizeLabel:   combo.SizeLabel,
					Color:       combo.Color,
					ColorLabel:  combo.ColorLabel,
					Stock:       &stock,
				}
				switch {
				case stock == 0:
					soldOut = append(soldOut, alert)
				case stock <= threshold:
					low = append(low, alert)
				}
			}
		case variants.KindLegacy:
			for _, v := range snap.Variants {
				if v.InStock {
					continue
				}
				alert := stockAlert{ProductID: p.ID, ProductName: p.Name, Slug: p.Slug}
				if v.Type == variants.AxisSize {
					alert.Size, alert.SizeLabel = v.Value, v.Name
				} else {
					alert.Color, alert.ColorLabel = v.Value, v.Name
				}
				soldOut = append(soldOut, alert)
			}
		}
	}

	sort.SliceStable(low, func(i, j int) bool { return *low[i].Stock < *low[j].Stock })
	return low, soldOut
}

type combinationPreviewRequest struct {
	Colors      []variants.ColorOption `json:"colors" validate:"dive"`
	Sizes       []variants.SizeOption  `json:"sizes" validate:"dive"`
	StockMatrix map[string]int         `json:"stock_matrix"`
	SKUPrefix   string                 `json:"sku_prefix"`
}

// PreviewCombinations runs the combination builder without saving anything,
// so the editor can show the generated SKUs and the pairs left out.
func (h *AdminHandler) PreviewCombinations(c *fiber.Ctx) error {
	var req combinationPreviewRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	colors := make([]variants.ColorOption, 0, len(req.Colors))
	for _, color := range req.Colors {
		colors = append(colors, variants.NormalizeColor(color))
	}
	sizes := make([]variants.SizeOption, 0, len(req.Sizes))
	for _, size := range req.Sizes {
		sizes = append(sizes, variants.NormalizeSize(size))
	}

	matrix := variants.StockMatrix(req.StockMatrix)
	combinations := variants.CombinationBuilder{SKUPrefix: req.SKUPrefix}.Build(colors, sizes, matrix)

	notOffered := []string{}
	totalStock := 0
	for _, size := range sizes {
		for _, color := range colors {
			if _, ok := matrix.Get(size.Value, color.Value); !ok {
				notOffered = append(notOffered, variants.StockKey(size.Value, color.Value))
			}
		}
	}
	for _, combo := range combinations {
		totalStock += combo.Stock
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"colors":       colors,
			"sizes":        sizes,
			"combinations": combinations,
			"image_groups": variants.BuildImageGroups(colors),
			"not_offered":  notOffered,
			"total_stock":  totalStock,
		},
	})
}

// SlugFor previews the slug generated for a product or category name.
func (h *AdminHandler) SlugFor(c *fiber.Ctx) error {
	name := c.Query("name")
	if strings.TrimSpace(name) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name is required")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"name": name, "slug": variants.GenerateSlug(name)},
	})
}

// ColorValueFor previews the value and swatch hex derived for a color name.
func (h *AdminHandler) ColorValueFor(c *fiber.Ctx) error {
	name := c.Query("name")
	if strings.TrimSpace(name) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name is required")
	}
	color := variants.NormalizeColor(variants.ColorOption{Name: name})
	return c.JSON(fiber.Map{"success": true, "data": color})
}

// ListAllOrders returns all orders with pagination and filtering.
func (h *AdminHandler) ListAllOrders(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.WithContext(c.UserContext()).Model(&models.Order{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		q := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(order_number) LIKE ? OR LOWER(customer_name) LIKE ? OR customer_phone LIKE ?",
			q, q, q,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var orders []models.Order
	if err := query.Preload("Items").
		Order("placed_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&orders).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"data":       orders,
		"pagination": pg.Meta(total),
	})
}

// GetOrder returns one order with its items.
func (h *AdminHandler) GetOrder(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var order models.Order
	if err := h.db.WithContext(c.UserContext()).Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		return notFound(err, "order")
	}
	return c.JSON(fiber.Map{"success": true, "data": order})
}

type orderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled"`
}

// UpdateOrderStatus records the outcome of the WhatsApp conversation.
func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req orderStatusRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	var order models.Order
	if err := h.db.WithContext(c.UserContext()).First(&order, "id = ?", id).Error; err != nil {
		return notFound(err, "order")
	}

	if err := h.db.WithContext(c.UserContext()).Model(&order).Update("status", req.Status).Error; err != nil {
		return err
	}
	order.Status = req.Status

	return c.JSON(fiber.Map{"success": true, "data": order})
}

// RecentOrders returns the most recent 5 orders for the dashboard.
func (h *AdminHandler) RecentOrders(c *fiber.Ctx) error {
	var orders []models.Order
	if err := h.db.WithContext(c.UserContext()).Preload("Items").
		Order("placed_at desc").
		Limit(5).
		Find(&orders).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    orders,
	})
}

// ListUsers returns back-office accounts.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.WithContext(c.UserContext()).Model(&models.User{})

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		q := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(display_name) LIKE ? OR phone LIKE ?", q, q)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var users []models.User
	if err := query.Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&users).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"data":       users,
		"pagination": pg.Meta(total),
	})
}
