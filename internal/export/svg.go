package export

import (
	"fmt"
	"image/color"
	"io"
	"strings"
)

// SVG is a field.Canvas that keeps the most recent frame as SVG elements.
// Each glow circle gets its own radialGradient.
type SVG struct {
	Width, Height float64
	Background    color.NRGBA

	defs strings.Builder
	body strings.Builder
	n    int
}

func NewSVG(width, height float64, background color.NRGBA) *SVG {
	return &SVG{Width: width, Height: height, Background: background}
}

func hex(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (s *SVG) Clear() {
	s.defs.Reset()
	s.body.Reset()
	s.n = 0
}

func (s *SVG) GlowCircle(x, y, radius, glow float64, c color.NRGBA, alpha float64) {
	if radius <= 0 || alpha <= 0 {
		return
	}
	if glow < radius {
		glow = radius
	}
	id := fmt.Sprintf("g%d", s.n)
	s.n++

	// the gradient spans the glow radius; the disc clips it at radius
	fmt.Fprintf(&s.defs, `<radialGradient id="%s" cx="%.2f" cy="%.2f" r="%.2f" gradientUnits="userSpaceOnUse">`+
		`<stop offset="0" stop-color="%s" stop-opacity="%.3f"/>`+
		`<stop offset="1" stop-color="%s" stop-opacity="0"/></radialGradient>
`, id, x, y, glow, hex(c), alpha, hex(c))
	fmt.Fprintf(&s.body, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="url(#%s)"/>
`, x, y, radius, id)
}

func (s *SVG) Line(x0, y0, x1, y1, width float64, c color.NRGBA, alpha float64) {
	if alpha <= 0 {
		return
	}
	fmt.Fprintf(&s.body, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-opacity="%.3f" stroke-width="%.1f"/>
`, x0, y0, x1, y1, hex(c), alpha, width)
}

// Elements is the number of gradients drawn in the current frame.
func (s *SVG) Elements() int { return s.n }

func (s *SVG) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<defs>
%s</defs>
<rect width="100%%" height="100%%" fill="%s"/>
%s</svg>
`, s.Width, s.Height, s.Width, s.Height, s.defs.String(), hex(s.Background), s.body.String())
	return sb.String()
}

func (s *SVG) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, s.String())
	return int64(n), err
}

// SeriesToSVG draws values as a polyline scaled to fit width×height.
func SeriesToSVG(values []float64, width, height int, strokeColor string) string {
	if len(values) < 2 {
		return ""
	}

	minY, maxY := values[0], values[0]
	for _, v := range values {
		minY = min(minY, v)
		maxY = max(maxY, v)
	}

	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY
	stepX := float64(width) / float64(len(values)-1)

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor)

	for i, v := range values {
		x := float64(i) * stepX
		y := float64(height) - (v-minY)/rangeY*float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
