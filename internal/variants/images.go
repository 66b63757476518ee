package variants

// ImagesForColor resolves the image set shown for a selected color. The first
// non-empty source wins: images by color, the first combination of that color
// with images, the color's image group, then the product's flat images. With
// no color the flat images are used, falling back to every group image.
func ImagesForColor(p *Product, color string) []string {
	if p == nil {
		return []string{}
	}

	if color == "" {
		if len(p.Images) > 0 {
			return p.Images
		}
		var grouped []string
		for _, g := range p.ImageGroups {
			grouped = append(grouped, g.Images...)
		}
		if len(grouped) > 0 {
			return grouped
		}
		return orEmpty(p.Images)
	}

	if imgs := p.ImagesByColor[color]; len(imgs) > 0 {
		return imgs
	}

	if UsesAdvancedVariants(p) {
		for _, c := range p.Combinations {
			if c.Color == color && len(c.Images) > 0 {
				return c.Images
			}
		}
	}

	for _, g := range p.ImageGroups {
		if g.ColorValue == color && len(g.Images) > 0 {
			return g.Images
		}
	}

	return orEmpty(p.Images)
}

// AllImages gathers every candidate image for listing cards, regardless of
// color: combination images, group images, then flat images. Duplicates are
// collapsed. When nothing is found the placeholder is returned alone.
func AllImages(p *Product, placeholder string) []string {
	out := []string{}
	if p != nil {
		seen := make(map[string]struct{})
		add := func(urls []string) {
			for _, u := range urls {
				if u == "" {
					continue
				}
				if _, ok := seen[u]; ok {
					continue
				}
				seen[u] = struct{}{}
				out = append(out, u)
			}
		}
		for _, c := range p.Combinations {
			add(c.Images)
		}
		for _, g := range p.ImageGroups {
			add(g.Images)
		}
		add(p.Images)
	}
	if len(out) == 0 && placeholder != "" {
		return []string{placeholder}
	}
	return out
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
