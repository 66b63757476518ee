package variants

// Package-level queries resolve the variant regime once per call and delegate
// to it. An empty filter argument means "no filter".

func AvailableSizes(p *Product, color string) []string {
	return ResolveModel(p).AvailableSizes(color)
}

func AvailableColors(p *Product, size string) []string {
	return ResolveModel(p).AvailableColors(size)
}

func SizeLabels(p *Product, color string) map[string]string {
	return ResolveModel(p).SizeLabels(color)
}

func ColorLabels(p *Product, size string) map[string]string {
	return ResolveModel(p).ColorLabels(size)
}

// VariantCombination returns the exact size/color match, or nil outside the
// advanced regime.
func VariantCombination(p *Product, size, color string) *Combination {
	return ResolveModel(p).Combination(size, color)
}

func IsVariantAvailable(p *Product, size, color string) bool {
	return ResolveModel(p).IsAvailable(size, color)
}

// VariantStock is nil when the product does not track quantities.
func VariantStock(p *Product, size, color string) *int {
	return ResolveModel(p).Stock(size, color)
}

// Availability bundles every query the product page needs for one selection.
type Availability struct {
	Kind        ModelKind         `json:"kind"`
	Sizes       []string          `json:"sizes"`
	Colors      []string          `json:"colors"`
	SizeLabels  map[string]string `json:"size_labels"`
	ColorLabels map[string]string `json:"color_labels"`
	Combination *Combination      `json:"combination"`
	Stock       *int              `json:"stock"`
	Available   bool              `json:"available"`
}

// Describe runs the availability queries for a (possibly partial) selection.
// Sizes are filtered by the selected color and colors by the selected size.
func Describe(p *Product, size, color string) Availability {
	m := ResolveModel(p)
	a := Availability{
		Kind:        m.Kind(),
		Sizes:       m.AvailableSizes(color),
		Colors:      m.AvailableColors(size),
		SizeLabels:  m.SizeLabels(color),
		ColorLabels: m.ColorLabels(size),
	}
	if size != "" && color != "" {
		a.Combination = m.Combination(size, color)
		a.Stock = m.Stock(size, color)
		a.Available = m.IsAvailable(size, color)
	}
	return a
}
