package variants

// Selector drives the size/color selection of a product detail view.
// It is not safe for concurrent use; UI events are applied one at a time.
type Selector struct {
	product *Product
	state   Selection
}

// NewSelector loads p and picks its first available size and color.
func NewSelector(p *Product) *Selector {
	s := &Selector{}
	s.Reset(p)
	return s
}

// RestoreSelector rebuilds a selector around a state the client kept between
// requests. The state is taken as-is; no re-validation happens until the
// next event.
func RestoreSelector(p *Product, state Selection) *Selector {
	return &Selector{product: p, state: state}
}

// Reset switches to another product and re-runs the initial selection.
func (s *Selector) Reset(p *Product) {
	s.product = p
	s.state = Selection{}

	if sizes := AvailableSizes(p, ""); len(sizes) > 0 {
		s.state.SelectedSize = sizes[0]
	}
	if colors := AvailableColors(p, ""); len(colors) > 0 {
		s.state.SelectedColor = colors[0]
	}
	s.state.DisplayedImages = ImagesForColor(p, s.state.SelectedColor)
}

// SelectSize prunes colors to the ones offered in size. If the current color
// is no longer offered the first remaining color is picked, or the color and
// images are cleared when none remain.
func (s *Selector) SelectSize(size string) {
	s.state.SelectedSize = size

	colors := AvailableColors(s.product, size)
	if contains(colors, s.state.SelectedColor) {
		s.state.DisplayedImages = ImagesForColor(s.product, s.state.SelectedColor)
		return
	}

	if len(colors) > 0 {
		s.state.SelectedColor = colors[0]
		s.state.DisplayedImages = ImagesForColor(s.product, colors[0])
		return
	}

	s.state.SelectedColor = ""
	s.state.DisplayedImages = []string{}
}

// SelectColor switches images immediately, then re-picks the size if the
// current one is not offered in color.
func (s *Selector) SelectColor(color string) {
	s.state.SelectedColor = color
	s.state.DisplayedImages = ImagesForColor(s.product, color)

	sizes := AvailableSizes(s.product, color)
	if contains(sizes, s.state.SelectedSize) {
		return
	}
	if len(sizes) > 0 {
		s.state.SelectedSize = sizes[0]
		return
	}
	s.state.SelectedSize = ""
}

// State returns a copy of the current selection.
func (s *Selector) State() Selection {
	out := s.state
	out.DisplayedImages = append([]string{}, s.state.DisplayedImages...)
	return out
}

// Product returns the snapshot the selector works on.
func (s *Selector) Product() *Product {
	return s.product
}

func contains(values []string, v string) bool {
	if v == "" {
		return false
	}
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
