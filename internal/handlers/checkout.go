package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/example/intima/internal/events"
	"github.com/example/intima/internal/logger"
	"github.com/example/intima/internal/models"
	"github.com/example/intima/internal/services"
	"github.com/example/intima/internal/variants"
)

const notifyTimeout = 10 * time.Second

// CheckoutHandler turns a cart into an order and a WhatsApp hand-off link.
type CheckoutHandler struct {
	db       *gorm.DB
	telegram *services.TelegramService
	events   *events.Publisher
	log      *logger.Logger
	defaults StoreDefaults
	now      func() time.Time
}

// NewCheckoutHandler constructs CheckoutHandler.
func NewCheckoutHandler(db *gorm.DB, telegram *services.TelegramService, publisher *events.Publisher, log *logger.Logger, defaults StoreDefaults) *CheckoutHandler {
	return &CheckoutHandler{
		db:       db,
		telegram: telegram,
		events:   publisher,
		log:      log,
		defaults: defaults,
		now:      time.Now,
	}
}

type checkoutItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity" validate:"gte=1,lte=99"`
}

type checkoutRequest struct {
	CustomerName  string                `json:"customer_name" validate:"required,max=120"`
	CustomerPhone string                `json:"customer_phone" validate:"required,max=40"`
	Notes         string                `json:"notes" validate:"max=1000"`
	Items         []checkoutItemRequest `json:"items" validate:"required,min=1,max=50,dive"`
}

// Checkout validates every cart line against the product's variant data,
// stores the order and returns the WhatsApp redirect.
func (h *CheckoutHandler) Checkout(c *fiber.Ctx) error {
	var req checkoutRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	ctx := c.UserContext()
	settings, err := loadStoreSettings(ctx, h.db, h.defaults)
	if err != nil {
		return err
	}

	order := models.Order{
		OrderNumber:   h.generateOrderNumber(),
		Status:        models.OrderStatusPending,
		Channel:       models.OrderChannelWhatsApp,
		PlacedAt:      h.now(),
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerPhone: strings.TrimSpace(req.CustomerPhone),
		Notes:         strings.TrimSpace(req.Notes),
		Currency:      settings.Currency,
	}

	// Lines for the same variant share its stock.
	requested := make(map[string]int, len(req.Items))
	for _, line := range req.Items {
		requested[line.variantKey()] += line.Quantity
	}

	subtotal := decimal.Zero
	for i, line := range req.Items {
		item, err := h.resolveItem(ctx, line, requested[line.variantKey()])
		if err != nil {
			return fiber.NewError(fiber.StatusUnprocessableEntity, fmt.Sprintf("item %d: %s", i+1, err.Error()))
		}
		subtotal = subtotal.Add(item.LineTotal)
		order.Items = append(order.Items, item)
	}
	order.Subtotal = subtotal

	message := checkoutMessage(order, settings.WhatsAppGreeting)
	redirect, err := services.CheckoutURL(settings.WhatsAppNumber, services.FormatCheckoutMessage(message))
	if err != nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "checkout is not available right now")
	}
	order.RedirectURL = redirect

	if err := h.db.WithContext(ctx).Create(&order).Error; err != nil {
		return err
	}

	h.log.Info("[Checkout] order %s created with %d items, total %s", order.OrderNumber, len(order.Items), order.Subtotal.StringFixed(2))
	go h.notify(message)
	h.events.PublishAsync(events.OrderCreated, order.OrderNumber, fiber.Map{
		"id":           order.ID,
		"order_number": order.OrderNumber,
		"subtotal":     order.Subtotal,
		"currency":     order.Currency,
		"items":        len(order.Items),
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"id":           order.ID,
			"order_number": order.OrderNumber,
			"status":       order.Status,
			"placed_at":    order.PlacedAt,
			"subtotal":     order.Subtotal,
			"currency":     order.Currency,
			"items":        order.Items,
			"redirect_url": order.RedirectURL,
		},
	})
}

func (l checkoutItemRequest) variantKey() string {
	return strings.ToLower(strings.TrimSpace(l.ProductID)) + "\x00" + l.Size + "\x00" + l.Color
}

// resolveItem checks one cart line against the product and prices it.
// requested is the quantity of this variant across the whole cart.
func (h *CheckoutHandler) resolveItem(ctx context.Context, line checkoutItemRequest, requested int) (models.OrderItem, error) {
	id, err := uuid.Parse(line.ProductID)
	if err != nil {
		return models.OrderItem{}, errors.New("invalid product id")
	}

	var product models.Product
	if err := h.db.WithContext(ctx).First(&product, "id = ? AND is_active = ?", id, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.OrderItem{}, errors.New("product not found")
		}
		return models.OrderItem{}, err
	}

	snap := product.Snapshot()
	model := variants.ResolveModel(snap)
	if !lineAvailable(snap, model, line.Size, line.Color) {
		return models.OrderItem{}, fmt.Errorf("%s is not available in the selected size and color", product.Name)
	}
	if stock := model.Stock(line.Size, line.Color); stock != nil && requested > *stock {
		return models.OrderItem{}, fmt.Errorf("only %d of %s left", *stock, product.Name)
	}

	item := models.OrderItem{
		ProductID:   product.ID,
		ProductName: product.Name,
		Size:        line.Size,
		Color:       line.Color,
		Quantity:    line.Quantity,
		UnitPrice:   product.Price,
		LineTotal:   product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))),
	}

	if combo := model.Combination(line.Size, line.Color); combo != nil {
		item.SKU = combo.SKU
		item.SizeLabel = combo.SizeLabel
		item.ColorLabel = combo.ColorLabel
	} else {
		item.SizeLabel = model.SizeLabels("")[line.Size]
		item.ColorLabel = model.ColorLabels("")[line.Color]
	}

	return item, nil
}

// lineAvailable applies the variant regime's availability rule. Products
// without variants are always orderable. Legacy products that only define one
// axis are checked on that axis alone.
func lineAvailable(p *variants.Product, model variants.VariantModel, size, color string) bool {
	switch model.Kind() {
	case variants.KindNone:
		return true
	case variants.KindLegacy:
		hasSize, hasColor := legacyAxes(p)
		switch {
		case hasSize && !hasColor:
			return contains(model.AvailableSizes(""), size)
		case hasColor && !hasSize:
			return contains(model.AvailableColors(""), color)
		}
	}
	return model.IsAvailable(size, color)
}

func legacyAxes(p *variants.Product) (hasSize, hasColor bool) {
	for _, v := range p.Variants {
		switch v.Type {
		case variants.AxisSize:
			hasSize = true
		case variants.AxisColor:
			hasColor = true
		}
	}
	return hasSize, hasColor
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

func checkoutMessage(order models.Order, greeting string) services.CheckoutMessage {
	lines := make([]services.CheckoutLine, 0, len(order.Items))
	for _, item := range order.Items {
		lines = append(lines, services.CheckoutLine{
			Name:       item.ProductName,
			SKU:        item.SKU,
			SizeLabel:  labelOrValue(item.SizeLabel, item.Size),
			ColorLabel: labelOrValue(item.ColorLabel, item.Color),
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			LineTotal:  item.LineTotal,
		})
	}
	return services.CheckoutMessage{
		Greeting:      greeting,
		OrderNumber:   order.OrderNumber,
		CustomerName:  order.CustomerName,
		CustomerPhone: order.CustomerPhone,
		Notes:         order.Notes,
		Currency:      order.Currency,
		Lines:         lines,
		Subtotal:      order.Subtotal,
	}
}

func labelOrValue(label, value string) string {
	if label != "" {
		return label
	}
	return value
}

func (h *CheckoutHandler) notify(message services.CheckoutMessage) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	if err := h.telegram.NotifyCheckout(ctx, message); err != nil {
		h.log.Error("[Checkout] telegram notification for %s failed: %v", message.OrderNumber, err)
	}
}

func (h *CheckoutHandler) generateOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("ORD-%s-%s", h.now().Format("20060102"), suffix)
}
