package web

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// glowRings is how many stacked discs approximate one radial gradient.
const glowRings = 4

// Canvas draws the field onto an ebiten image. Set Dst before each frame.
type Canvas struct {
	Dst        *ebiten.Image
	Background color.NRGBA
}

func fade(c color.NRGBA, alpha float64) color.NRGBA {
	alpha = max(0, min(1, alpha))
	c.A = uint8(float64(c.A) * alpha)
	return c
}

func (c *Canvas) Clear() {
	if c.Dst != nil {
		c.Dst.Fill(c.Background)
	}
}

// GlowCircle stacks concentric discs: the outer one carries the alpha left
// at the disc edge and each inner ring adds an equal share of the rest, so
// the summed alpha falls off linearly toward the glow radius.
func (c *Canvas) GlowCircle(x, y, radius, glow float64, col color.NRGBA, alpha float64) {
	if c.Dst == nil || radius <= 0 || alpha <= 0 {
		return
	}
	if glow < radius {
		glow = radius
	}
	edge := alpha * (1 - radius/glow)
	step := alpha * radius / glow / glowRings

	vector.DrawFilledCircle(c.Dst, float32(x), float32(y), float32(radius), fade(col, edge+step), true)
	for k := glowRings - 1; k >= 1; k-- {
		r := radius * float64(k) / glowRings
		vector.DrawFilledCircle(c.Dst, float32(x), float32(y), float32(r), fade(col, step), true)
	}
}

func (c *Canvas) Line(x0, y0, x1, y1, width float64, col color.NRGBA, alpha float64) {
	if c.Dst == nil || alpha <= 0 {
		return
	}
	vector.StrokeLine(c.Dst, float32(x0), float32(y0), float32(x1), float32(y1), float32(width), fade(col, alpha), true)
}
