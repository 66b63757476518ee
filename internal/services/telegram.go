package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"

	"github.com/example/intima/internal/logger"
)

const telegramAPI = "https://api.telegram.org"

// TelegramService handles sending notifications to Telegram.
type TelegramService struct {
	botToken    string
	adminChatID string
	baseURL     string
	client      *http.Client
	log         *logger.Logger
}

// NewTelegramService creates a new TelegramService.
func NewTelegramService(botToken, adminChatID string, log *logger.Logger) *TelegramService {
	return &TelegramService{
		botToken:    botToken,
		adminChatID: adminChatID,
		baseURL:     telegramAPI,
		client:      &http.Client{Timeout: 10 * time.Second},
		log:         log,
	}
}

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// SendMessage sends a message to specified chat.
func (s *TelegramService) SendMessage(ctx context.Context, chatID, text string) error {
	if s.botToken == "" {
		s.log.Debug("[Telegram] Bot token not configured")
		return nil
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", s.baseURL, s.botToken)

	body, err := json.Marshal(telegramMessage{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "HTML",
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}

	return nil
}

// SendToAdmin sends a message to the admin chat.
func (s *TelegramService) SendToAdmin(ctx context.Context, text string) error {
	if s.adminChatID == "" {
		s.log.Debug("[Telegram] Admin chat ID not configured")
		return nil
	}
	return s.SendMessage(ctx, s.adminChatID, text)
}

// NotifyCheckout tells the admin chat that a shopper was sent to WhatsApp
// with a new order.
func (s *TelegramService) NotifyCheckout(ctx context.Context, order CheckoutMessage) error {
	if s.adminChatID == "" || s.botToken == "" {
		return nil
	}
	return s.SendToAdmin(ctx, FormatCheckoutNotification(order))
}

// FormatCheckoutNotification renders the admin notification in Telegram HTML.
func FormatCheckoutNotification(order CheckoutMessage) string {
	var items strings.Builder
	for i, line := range order.Lines {
		items.WriteString(fmt.Sprintf("%d. <b>%s</b>%s\n   %d x %s = %s\n",
			i+1,
			html.EscapeString(line.Name),
			html.EscapeString(line.variantSuffix()),
			line.Quantity,
			FormatPrice(line.UnitPrice, order.Currency),
			FormatPrice(line.LineTotal, order.Currency),
		))
	}

	message := fmt.Sprintf(`<b>🛒 NEW ORDER</b>
<b>📋 Order:</b> %s
<b>👤 Customer:</b> %s
<b>📞 Phone:</b> %s
<b>📦 Items:</b>
%s
<b>💰 Total:</b> %s
<b>💬 Channel:</b> WhatsApp`,
		html.EscapeString(order.OrderNumber),
		html.EscapeString(order.CustomerName),
		html.EscapeString(order.CustomerPhone),
		items.String(),
		FormatPrice(order.Subtotal, order.Currency),
	)
	if order.Notes != "" {
		message += "\n<b>📝 Notes:</b> " + html.EscapeString(order.Notes)
	}

	return strings.TrimSpace(message)
}
