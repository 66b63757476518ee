package variants

import "strings"

// unsafeKeyChars are rejected by the document store as key characters.
var unsafeKeyChars = strings.NewReplacer(
	".", "-",
	"/", "-",
	"#", "-",
	"$", "-",
	"[", "-",
	"]", "-",
)

// SanitizeKey replaces characters that cannot appear in a store key with "-".
func SanitizeKey(s string) string {
	return unsafeKeyChars.Replace(s)
}

// StockKey builds the stock matrix key for a size/color pair. Both values are
// sanitized here so the key always agrees with the values stored on the
// generated combination.
func StockKey(size, color string) string {
	return SanitizeKey(size) + "-" + SanitizeKey(color)
}

// StockMatrix maps StockKey(size, color) to a stock count. A missing key means
// the pair is not offered; a zero value means offered but sold out.
type StockMatrix map[string]int

// Set records stock for a pair under its sanitized key.
func (m StockMatrix) Set(size, color string, stock int) {
	m[StockKey(size, color)] = stock
}

// Get looks a pair up. Keys written with raw, unsanitized values are still
// found so older editor payloads keep resolving.
func (m StockMatrix) Get(size, color string) (int, bool) {
	if stock, ok := m[StockKey(size, color)]; ok {
		return stock, true
	}
	stock, ok := m[size+"-"+color]
	return stock, ok
}

// NormalizeColor fills in a missing canonical value (slug of the name) and a
// missing swatch hex.
func NormalizeColor(c ColorOption) ColorOption {
	c.Name = strings.TrimSpace(c.Name)
	if strings.TrimSpace(c.Value) == "" {
		c.Value = GenerateSlug(c.Name)
	}
	if c.Hex == "" {
		c.Hex = GenerateColorValue(c.Name)
	}
	return c
}

// NormalizeSize fills in a missing canonical value from the display name.
func NormalizeSize(s SizeOption) SizeOption {
	s.Name = strings.TrimSpace(s.Name)
	if strings.TrimSpace(s.Value) == "" {
		s.Value = GenerateSlug(s.Name)
	}
	return s
}

// CombinationBuilder turns editor input into combination records.
type CombinationBuilder struct {
	// SKUPrefix is prepended to every generated SKU when set.
	SKUPrefix string
}

// GenerateVariantCombinations builds combinations with no SKU prefix.
func GenerateVariantCombinations(colors []ColorOption, sizes []SizeOption, matrix StockMatrix) []Combination {
	return CombinationBuilder{}.Build(colors, sizes, matrix)
}

// Build emits one combination per size/color pair present in matrix, in size
// then color order. Pairs absent from the matrix are skipped silently.
func (b CombinationBuilder) Build(colors []ColorOption, sizes []SizeOption, matrix StockMatrix) []Combination {
	out := []Combination{}
	seen := make(map[string]struct{})

	for _, rawSize := range sizes {
		size := NormalizeSize(rawSize)
		for _, rawColor := range colors {
			color := NormalizeColor(rawColor)

			stock, ok := matrix.Get(size.Value, color.Value)
			if !ok {
				continue
			}
			key := StockKey(size.Value, color.Value)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			if stock < 0 {
				stock = 0
			}
			out = append(out, Combination{
				ID:         key,
				SKU:        b.sku(key),
				Size:       SanitizeKey(size.Value),
				SizeLabel:  size.Name,
				Color:      SanitizeKey(color.Value),
				ColorLabel: color.Name,
				Stock:      stock,
				Images:     append([]string(nil), color.Images...),
			})
		}
	}
	return out
}

func (b CombinationBuilder) sku(key string) string {
	sku := strings.ToUpper(key)
	if b.SKUPrefix == "" {
		return sku
	}
	return strings.ToUpper(b.SKUPrefix) + "-" + sku
}

// BuildImageGroups derives the color image library used by the image-first
// editor workflow. Colors without images produce no group. Group values are
// sanitized to match the colors stored on combinations.
func BuildImageGroups(colors []ColorOption) []ImageGroup {
	return buildImageGroups(colors, SanitizeKey)
}

// BuildLegacyImageGroups is BuildImageGroups for products without
// combinations: legacy variant values are stored as entered, so group values
// are too.
func BuildLegacyImageGroups(colors []ColorOption) []ImageGroup {
	return buildImageGroups(colors, func(s string) string { return s })
}

func buildImageGroups(colors []ColorOption, value func(string) string) []ImageGroup {
	groups := []ImageGroup{}
	for _, raw := range colors {
		c := NormalizeColor(raw)
		if len(c.Images) == 0 {
			continue
		}
		groups = append(groups, ImageGroup{
			ColorName:  c.Name,
			ColorValue: value(c.Value),
			Images:     append([]string(nil), c.Images...),
		})
	}
	return groups
}
