package services

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	DefaultCurrency = "BRL"
	DefaultGreeting = "Hello! I would like to place an order:"
	whatsAppBaseURL = "https://wa.me/"
)

var ErrNoWhatsAppNumber = errors.New("whatsapp number is not configured")

// CheckoutLine is one ordered variant.
type CheckoutLine struct {
	Name       string
	SKU        string
	SizeLabel  string
	ColorLabel string
	Quantity   int
	UnitPrice  decimal.Decimal
	LineTotal  decimal.Decimal
}

func (l CheckoutLine) variantSuffix() string {
	var parts []string
	if l.SizeLabel != "" {
		parts = append(parts, l.SizeLabel)
	}
	if l.ColorLabel != "" {
		parts = append(parts, l.ColorLabel)
	}
	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, " / ") + ")"
}

// CheckoutMessage is everything the store needs to confirm an order by chat.
type CheckoutMessage struct {
	Greeting      string
	OrderNumber   string
	CustomerName  string
	CustomerPhone string
	Notes         string
	Currency      string
	Lines         []CheckoutLine
	Subtotal      decimal.Decimal
}

// FormatCheckoutMessage renders the plain-text message prefilled in WhatsApp.
func FormatCheckoutMessage(m CheckoutMessage) string {
	greeting := strings.TrimSpace(m.Greeting)
	if greeting == "" {
		greeting = DefaultGreeting
	}

	var b strings.Builder
	b.WriteString(greeting)
	b.WriteString("\n\n")
	if m.OrderNumber != "" {
		fmt.Fprintf(&b, "Order %s\n", m.OrderNumber)
	}
	for i, line := range m.Lines {
		fmt.Fprintf(&b, "%d. %s%s x%d = %s\n",
			i+1,
			line.Name,
			line.variantSuffix(),
			line.Quantity,
			FormatPrice(line.LineTotal, m.Currency),
		)
		if line.SKU != "" {
			fmt.Fprintf(&b, "   SKU: %s\n", line.SKU)
		}
	}
	fmt.Fprintf(&b, "\nTotal: %s\n", FormatPrice(m.Subtotal, m.Currency))
	if m.CustomerName != "" {
		fmt.Fprintf(&b, "Name: %s\n", m.CustomerName)
	}
	if m.CustomerPhone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", m.CustomerPhone)
	}
	if m.Notes != "" {
		fmt.Fprintf(&b, "Notes: %s\n", m.Notes)
	}
	return strings.TrimRight(b.String(), "\n")
}

// CheckoutURL builds the wa.me click-to-chat link for number with text
// prefilled. Formatting characters in the number are dropped.
func CheckoutURL(number, text string) (string, error) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)
	if digits == "" {
		return "", ErrNoWhatsAppNumber
	}

	link := whatsAppBaseURL + digits
	if text != "" {
		link += "?text=" + strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
	}
	return link, nil
}

// FormatPrice formats amount with two decimals, thousand separators and the
// currency code.
func FormatPrice(amount decimal.Decimal, currency string) string {
	if currency == "" {
		currency = DefaultCurrency
	}

	fixed := amount.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	var result strings.Builder
	if amount.IsNegative() {
		result.WriteString("-")
	}
	length := len(intPart)
	for i, digit := range intPart {
		if i > 0 && (length-i)%3 == 0 {
			result.WriteString(",")
		}
		result.WriteRune(digit)
	}

	return result.String() + "." + frac + " " + currency
}
