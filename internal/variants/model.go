package variants

// ModelKind names the variant regime a product is in.
type ModelKind string

const (
	KindNone     ModelKind = "none"
	KindLegacy   ModelKind = "legacy"
	KindAdvanced ModelKind = "advanced"
)

// VariantModel answers availability questions for one product. Implementations
// are NoVariants, Legacy and Advanced; use ResolveModel to pick one.
type VariantModel interface {
	Kind() ModelKind
	AvailableSizes(color string) []string
	AvailableColors(size string) []string
	SizeLabels(color string) map[string]string
	ColorLabels(size string) map[string]string
	Combination(size, color string) *Combination
	IsAvailable(size, color string) bool
	// Stock is nil when the model does not track quantities.
	Stock(size, color string) *int

	sealed()
}

// UsesAdvancedVariants reports whether the product is in the combination
// regime. Combinations win even when legacy variants are also populated.
func UsesAdvancedVariants(p *Product) bool {
	return p != nil && len(p.Combinations) > 0
}

// ResolveModel picks the variant regime for p. A nil product resolves to NoVariants.
func ResolveModel(p *Product) VariantModel {
	switch {
	case UsesAdvancedVariants(p):
		return Advanced{Combinations: p.Combinations}
	case p != nil && len(p.Variants) > 0:
		return Legacy{Variants: p.Variants}
	default:
		return NoVariants{}
	}
}

// NoVariants is a single-SKU product.
type NoVariants struct{}

func (NoVariants) Kind() ModelKind { return KindNone }
func (NoVariants) AvailableSizes(string) []string { return []string{} }
func (NoVariants) AvailableColors(string) []string { return []string{} }
func (NoVariants) SizeLabels(string) map[string]string { return map[string]string{} }
func (NoVariants) ColorLabels(string) map[string]string { return map[string]string{} }
func (NoVariants) Combination(string, string) *Combination { return nil }
func (NoVariants) IsAvailable(string, string) bool { return false }
func (NoVariants) Stock(string, string) *int { return nil }
func (NoVariants) sealed() {}

// Legacy is the flat variant list. Sizes and colors have no stock coupling,
// so the cross-axis filter arguments are ignored.
type Legacy struct {
	Variants []Variant
}

func (Legacy) Kind() ModelKind { return KindLegacy }

func (m Legacy) AvailableSizes(string) []string {
	return m.values(AxisSize)
}

func (m Legacy) AvailableColors(string) []string {
	return m.values(AxisColor)
}

func (m Legacy) SizeLabels(string) map[string]string {
	return m.labels(AxisSize)
}

func (m Legacy) ColorLabels(string) map[string]string {
	return m.labels(AxisColor)
}

func (Legacy) Combination(string, string) *Combination { return nil }

// IsAvailable checks each axis on its own. It does not prove the pair was
// ever sold together; checkout relies on this lenient behaviour.
func (m Legacy) IsAvailable(size, color string) bool {
	return m.inStock(AxisSize, size) && m.inStock(AxisColor, color)
}

func (Legacy) Stock(string, string) *int { return nil }

func (Legacy) sealed() {}

func (m Legacy) values(axis Axis) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, v := range m.Variants {
		if v.Type != axis || !v.InStock {
			continue
		}
		if _, ok := seen[v.Value]; ok {
			continue
		}
		seen[v.Value] = struct{}{}
		out = append(out, v.Value)
	}
	return out
}

func (m Legacy) labels(axis Axis) map[string]string {
	out := make(map[string]string)
	for _, v := range m.Variants {
		if v.Type != axis || !v.InStock {
			continue
		}
		if _, ok := out[v.Value]; !ok {
			out[v.Value] = v.Name
		}
	}
	return out
}

func (m Legacy) inStock(axis Axis, value string) bool {
	for _, v := range m.Variants {
		if v.Type == axis && v.Value == value && v.InStock {
			return true
		}
	}
	return false
}

// Advanced is the size x color combination set.
type Advanced struct {
	Combinations []Combination
}

func (Advanced) Kind() ModelKind { return KindAdvanced }

func (m Advanced) AvailableSizes(color string) []string {
	out := []string{}
	seen := make(map[string]struct{})
	for _, c := range m.Combinations {
		if c.Stock <= 0 || (color != "" && c.Color != color) {
			continue
		}
		if _, ok := seen[c.Size]; ok {
			continue
		}
		seen[c.Size] = struct{}{}
		out = append(out, c.Size)
	}
	return out
}

func (m Advanced) AvailableColors(size string) []string {
	out := []string{}
	seen := make(map[string]struct{})
	for _, c := range m.Combinations {
		if c.Stock <= 0 || (size != "" && c.Size != size) {
			continue
		}
		if _, ok := seen[c.Color]; ok {
			continue
		}
		seen[c.Color] = struct{}{}
		out = append(out, c.Color)
	}
	return out
}

func (m Advanced) SizeLabels(color string) map[string]string {
	out := make(map[string]string)
	for _, c := range m.Combinations {
		if c.Stock <= 0 || (color != "" && c.Color != color) {
			continue
		}
		if _, ok := out[c.Size]; !ok {
			out[c.Size] = labelOr(c.SizeLabel, c.Size)
		}
	}
	return out
}

func (m Advanced) ColorLabels(size string) map[string]string {
	out := make(map[string]string)
	for _, c := range m.Combinations {
		if c.Stock <= 0 || (size != "" && c.Size != size) {
			continue
		}
		if _, ok := out[c.Color]; !ok {
			out[c.Color] = labelOr(c.ColorLabel, c.Color)
		}
	}
	return out
}

func (m Advanced) Combination(size, color string) *Combination {
	for i := range m.Combinations {
		if m.Combinations[i].Size == size && m.Combinations[i].Color == color {
			c := m.Combinations[i]
			return &c
		}
	}
	return nil
}

func (m Advanced) IsAvailable(size, color string) bool {
	c := m.Combination(size, color)
	return c != nil && c.Stock > 0
}

// Stock returns 0 for pairs that are not offered; the query layer does not
// distinguish "not offered" from "sold out".
func (m Advanced) Stock(size, color string) *int {
	stock := 0
	if c := m.Combination(size, color); c != nil {
		stock = c.Stock
	}
	return &stock
}

func (Advanced) sealed() {}

func labelOr(label, value string) string {
	if label == "" {
		return value
	}
	return label
}
