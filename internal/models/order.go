package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusCancelled = "cancelled"

	OrderChannelWhatsApp = "whatsapp"
)

// Order is a checkout request handed off to the store over WhatsApp.
type Order struct {
	BaseModel
	OrderNumber   string          `gorm:"uniqueIndex" json:"order_number"`
	Status        string          `gorm:"index" json:"status"`
	Channel       string          `json:"channel"`
	PlacedAt      time.Time       `json:"placed_at"`
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone"`
	Notes         string          `json:"notes"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2)" json:"subtotal"`
	Currency      string          `json:"currency"`
	RedirectURL   string          `json:"redirect_url"`
	Items         []OrderItem     `json:"items,omitempty"`
}

type OrderItem struct {
	BaseModel
	OrderID     uuid.UUID       `gorm:"type:uuid;index" json:"order_id"`
	ProductID   uuid.UUID       `gorm:"type:uuid;index" json:"product_id"`
	ProductName string          `json:"product_name"`
	SKU         string          `json:"sku"`
	Size        string          `json:"size"`
	SizeLabel   string          `json:"size_label"`
	Color       string          `json:"color"`
	ColorLabel  string          `json:"color_label"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2)" json:"unit_price"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(12,2)" json:"line_total"`
}
