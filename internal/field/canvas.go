package field

import (
	"image/color"

	"github.com/san-kum/pagefx/internal/theme"
)

// Canvas is the drawing surface the animator paints into. Colors are passed
// opaque with a separate alpha so each backend can composite its own way.
type Canvas interface {
	Clear()
	// GlowCircle fills a disc of the given radius with a radial gradient
	// centered at (x, y): alpha at the center, fading linearly to zero at
	// the glow radius.
	GlowCircle(x, y, radius, glow float64, c color.NRGBA, alpha float64)
	Line(x0, y0, x1, y1, width float64, c color.NRGBA, alpha float64)
}

// Discard is a Canvas that draws nothing.
type Discard struct{}

func (Discard) Clear()                                                {}
func (Discard) GlowCircle(_, _, _, _ float64, _ color.NRGBA, _ float64) {}
func (Discard) Line(_, _, _, _, _ float64, _ color.NRGBA, _ float64)    {}

// Class is the color category of a particle or trail point.
type Class uint8

const (
	ClassA Class = iota // green
	ClassB              // yellow
)

func (c Class) String() string {
	if c == ClassB {
		return "B"
	}
	return "A"
}

var palette = [2][2]color.NRGBA{
	ClassA: {
		0: {R: 102, G: 187, B: 106, A: 255}, // light: medium green
		1: {R: 129, G: 199, B: 132, A: 255}, // dark: light green
	},
	ClassB: {
		0: {R: 255, G: 193, B: 7, A: 255},  // light: medium yellow
		1: {R: 255, G: 213, B: 79, A: 255}, // dark: light yellow
	},
}

// ColorFor returns the opaque base color of a class under a theme. Any mode
// other than Dark uses the light variant.
func ColorFor(c Class, m theme.Mode) color.NRGBA {
	variant := 0
	if m == theme.Dark {
		variant = 1
	}
	return palette[c&1][variant]
}
