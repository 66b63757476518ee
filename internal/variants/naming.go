package variants

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	slugInvalid = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpaces  = regexp.MustCompile(`\s+`)
	slugDashes  = regexp.MustCompile(`-+`)

	urlValidator = validator.New()
)

// GenerateSlug lowercases s and reduces it to hyphen-separated [a-z0-9] runs.
// Applying it twice gives the same result as applying it once.
func GenerateSlug(s string) string {
	slug := strings.ToLower(strings.TrimSpace(s))
	slug = slugInvalid.ReplaceAllString(slug, "")
	slug = slugSpaces.ReplaceAllString(slug, "-")
	slug = slugDashes.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// knownColors maps common catalog color names to swatch hex codes.
var knownColors = map[string]string{
	"black":     "#000000",
	"white":     "#FFFFFF",
	"nude":      "#D4A373",
	"skin":      "#E8BEAC",
	"beige":     "#F5F5DC",
	"cream":     "#FFFDD0",
	"champagne": "#F7E7CE",
	"red":       "#DC2626",
	"wine":      "#722F37",
	"burgundy":  "#800020",
	"pink":      "#EC4899",
	"rose":      "#F43F5E",
	"coral":     "#FF7F50",
	"orange":    "#F97316",
	"yellow":    "#FACC15",
	"green":     "#16A34A",
	"blue":      "#2563EB",
	"navy":      "#1E3A8A",
	"purple":    "#9333EA",
	"lilac":     "#C8A2C8",
	"grey":      "#6B7280",
	"gray":      "#6B7280",
	"brown":     "#92400E",
}

// GenerateColorValue returns the swatch hex for a color name. Unknown names
// hash to a stable #RRGGBB value.
func GenerateColorValue(name string) string {
	name = strings.TrimSpace(name)
	if hex, ok := knownColors[strings.ToLower(name)]; ok {
		return hex
	}

	var hash int32
	for _, r := range name {
		hash = int32(r) + ((hash << 5) - hash)
	}
	return fmt.Sprintf("#%06X", uint32(hash)&0xFFFFFF)
}

// IsValidURL is an advisory check for catalog image links: absolute http(s)
// URLs with a host.
func IsValidURL(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	lower := strings.ToLower(s)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return false
	}
	return urlValidator.Var(s, "url") == nil
}
