package gui

import (
	"image/color"
	"math"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/pagefx/internal/page"
	"github.com/san-kum/pagefx/internal/theme"
	"github.com/san-kum/pagefx/internal/viz"
)

// palette is the page colors of one mode.
type palette struct {
	Bg, Text, Muted, Primary, Secondary rl.Color
}

func toRL(c color.NRGBA) rl.Color { return rl.NewColor(c.R, c.G, c.B, c.A) }

func paletteFor(m theme.Mode) palette {
	t := viz.ForMode(m)
	return palette{
		Bg:        toRL(viz.NRGBA(t.Background)),
		Text:      toRL(viz.NRGBA(t.Text)),
		Muted:     toRL(viz.NRGBA(t.Muted)),
		Primary:   toRL(viz.NRGBA(t.Primary)),
		Secondary: toRL(viz.NRGBA(t.Secondary)),
	}
}

func withAlpha(c rl.Color, alpha float64) rl.Color {
	alpha = math.Max(0, math.Min(1, alpha))
	c.A = uint8(float64(c.A) * alpha)
	return c
}

// rlCanvas draws the field straight into the current raylib frame.
type rlCanvas struct {
	bg rl.Color
}

func (c *rlCanvas) Clear() { rl.ClearBackground(c.bg) }

func (c *rlCanvas) GlowCircle(x, y, radius, glow float64, col color.NRGBA, alpha float64) {
	if radius <= 0 || alpha <= 0 {
		return
	}
	edge := 0.0
	if glow > radius {
		edge = alpha * (1 - radius/glow)
	}
	base := toRL(col)
	rl.DrawCircleGradient(int32(x), int32(y), float32(radius), withAlpha(base, alpha), withAlpha(base, edge))
}

func (c *rlCanvas) Line(x0, y0, x1, y1, width float64, col color.NRGBA, alpha float64) {
	if alpha <= 0 {
		return
	}
	rl.DrawLineEx(
		rl.NewVector2(float32(x0), float32(y0)),
		rl.NewVector2(float32(x1), float32(y1)),
		float32(width), withAlpha(toRL(col), alpha))
}

func (a *App) drawPage(pal palette, now time.Duration) {
	vh := float64(a.height)

	for i, sec := range a.scene.Sections {
		r, st := a.scene.Section(i, now)
		if st.Opacity <= 0 || r.Y > vh || r.Bottom() < 0 {
			continue
		}
		a.drawText(sec.Title, int(r.X), int(r.Y), 28, withAlpha(pal.Primary, st.Opacity))
		for n, line := range sec.Body {
			a.drawText(line, int(r.X), int(a.scene.LineY(r, n)), 18, withAlpha(pal.Text, st.Opacity))
		}
	}

	playing := -1
	if a.player != nil {
		cur := a.player.Current()
		for j, b := range a.buttons {
			if b == cur {
				playing = j
			}
		}
	}

	for j, sl := range a.scene.Slots {
		_, st := a.scene.Section(sl.Section, now)
		if st.Opacity <= 0 {
			continue
		}
		br := a.scene.SlotRect(j, now)
		col := withAlpha(pal.Secondary, st.Opacity)
		if sl.Quote.Src == "" || a.player == nil {
			col = withAlpha(pal.Muted, st.Opacity)
		}
		drawPlayIcon(br, j == playing, col)
		tx := int(br.X + br.W + 10)
		a.drawText(sl.Quote.Text, tx, int(br.Y), 18, withAlpha(pal.Text, st.Opacity))
		if j == playing && a.out != nil {
			w := rl.MeasureTextEx(a.Font, sl.Quote.Text, 18, 1).X
			a.drawLevels(float64(tx)+float64(w)+14, br.Y, br.H, pal)
		}
	}
}

// drawPlayIcon draws ▶ or ⏸ inside r.
func drawPlayIcon(r page.Rect, playing bool, col rl.Color) {
	rl.DrawRectangleRoundedLines(rl.NewRectangle(float32(r.X), float32(r.Y), float32(r.W), float32(r.H)), 0.5, 8, col)
	cx, cy := float32(r.X+r.W/2), float32(r.Y+r.H/2)
	s := float32(r.W) / 4
	if playing {
		rl.DrawRectangleV(rl.NewVector2(cx-s, cy-s), rl.NewVector2(s*0.7, 2*s), col)
		rl.DrawRectangleV(rl.NewVector2(cx+s*0.3, cy-s), rl.NewVector2(s*0.7, 2*s), col)
		return
	}
	rl.DrawTriangle(
		rl.NewVector2(cx-s*0.8, cy-s),
		rl.NewVector2(cx-s*0.8, cy+s),
		rl.NewVector2(cx+s, cy),
		col)
}

// drawLevels is a three bar meter of the playing quote: bass, mid, high.
func (a *App) drawLevels(x, y, h float64, pal palette) {
	bass, mid, high := a.out.Levels()
	for i, v := range []float64{bass, mid, high} {
		v = math.Max(0.05, math.Min(1, v))
		bh := h * v
		col := pal.Primary
		if i == 1 {
			col = pal.Secondary
		}
		rl.DrawRectangleV(
			rl.NewVector2(float32(x)+float32(i)*6, float32(y+h-bh)),
			rl.NewVector2(4, float32(bh)), col)
	}
}

// drawThemeButton draws the fixed toggle with the icon of the mode it
// switches to, spinning for a moment after a click.
func (a *App) drawThemeButton(pal palette) {
	b := a.scene.ThemeButton()
	deg, scale := a.sw.Spin(time.Now())
	cx, cy := float32(b.X+b.W/2), float32(b.Y+b.H/2)
	rl.DrawCircle(int32(cx), int32(cy), float32(b.W/2), withAlpha(pal.Muted, 0.2))

	r := float32(b.W/5) * float32(scale)
	next := a.sw.Theme().Toggle()
	if next == theme.Dark {
		// moon: a disc with a background bite
		rad := deg * math.Pi / 180
		ox := r * 0.6 * float32(math.Cos(rad-math.Pi/4))
		oy := r * 0.6 * float32(math.Sin(rad-math.Pi/4))
		rl.DrawCircleV(rl.NewVector2(cx, cy), r, pal.Text)
		rl.DrawCircleV(rl.NewVector2(cx+ox, cy+oy), r*0.85, pal.Bg)
		return
	}
	rl.DrawCircleV(rl.NewVector2(cx, cy), r*0.7, pal.Secondary)
	for k := 0; k < 8; k++ {
		ang := (deg + float64(k)*45) * math.Pi / 180
		c, s := float32(math.Cos(ang)), float32(math.Sin(ang))
		rl.DrawLineEx(
			rl.NewVector2(cx+c*r*1.0, cy+s*r*1.0),
			rl.NewVector2(cx+c*r*1.5, cy+s*r*1.5),
			2, pal.Secondary)
	}
}
