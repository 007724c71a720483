// Package web hosts the page on ebiten, which also builds for the browser
// (GOOS=js GOARCH=wasm).
package web

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/san-kum/pagefx/internal/field"
	"github.com/san-kum/pagefx/internal/page"
	"github.com/san-kum/pagefx/internal/quote"
	"github.com/san-kum/pagefx/internal/theme"
	"github.com/san-kum/pagefx/internal/viz"
)

const (
	windowWidth  = 1280
	windowHeight = 720
	scrollStep   = 60

	// ebitenutil.DebugPrint glyph cell
	glyphW = 6
	glyphH = 16
)

type Options struct {
	Params   field.Params
	Sections []page.Section
	Switch   *theme.Switch
	// Sink plays quotes; nil leaves the buttons inert.
	Sink quote.Sink
	// Decoder opens quote sources; nil means files on the desktop and
	// HTTP relative to the page in the browser.
	Decoder quote.Decoder
	Seed    int64
	Logger  *slog.Logger
}

// Game is the ebiten host of the page.
type Game struct {
	anim    *field.Animator
	cursor  *field.Cursor
	canvas  *Canvas
	scene   *page.Scene
	sw      *theme.Switch
	player  *quote.Player
	buttons []*quote.Button
	logger  *slog.Logger

	scratch       *ebiten.Image
	width, height int
	inside        bool
	start         time.Time
	last          time.Time
}

func NewGame(opts Options) *Game {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	g := &Game{
		cursor: field.NewCursor(windowWidth, windowHeight),
		canvas: &Canvas{},
		scene:  page.NewScene(opts.Sections, windowWidth, windowHeight),
		sw:     opts.Switch,
		logger: opts.Logger,
		width:  windowWidth,
		height: windowHeight,
		start:  time.Now(),
	}
	g.last = g.start
	g.anim = field.New(opts.Params, g.cursor, g.sw,
		field.WithCanvas(g.canvas),
		field.WithSeed(opts.Seed),
		field.WithSize(windowWidth, windowHeight),
	)
	for _, sl := range g.scene.Slots {
		g.buttons = append(g.buttons, &quote.Button{
			ID:  fmt.Sprintf("quote-%d-%d", sl.Section, sl.Line),
			Src: sl.Quote.Src,
		})
	}
	if opts.Sink != nil {
		decode := opts.Decoder
		if decode == nil {
			decode = defaultDecoder()
		}
		g.player = quote.NewPlayer(opts.Sink, g.logger, quote.WithDecoder(decode))
	}
	return g
}

// Run opens the window (or canvas, in the browser) and blocks until it
// closes.
func Run(opts Options) error {
	ebiten.SetWindowSize(windowWidth, windowHeight)
	ebiten.SetWindowTitle("pagefx")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	g := NewGame(opts)
	err := ebiten.RunGame(g)
	if g.player != nil {
		g.player.Stop()
	}
	if err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("web: %w", err)
	}
	return nil
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.anim.Resize(float64(outsideWidth), float64(outsideHeight))
		g.scene.Resize(float64(outsideWidth), float64(outsideHeight))
	}
	return outsideWidth, outsideHeight
}

func (g *Game) Update() error {
	now := time.Since(g.start)

	x, y := ebiten.CursorPosition()
	inside := x >= 0 && y >= 0 && x < g.width && y < g.height
	if inside {
		fx, fy := float64(x), float64(y)
		if px, py := g.cursor.Pointer(); px != fx || py != fy {
			g.cursor.Move(fx, fy)
			g.anim.PointerMoved(fx, fy)
		}
	} else if g.inside {
		g.cursor.Leave(float64(g.width), float64(g.height))
	}
	g.inside = inside

	if _, dy := ebiten.Wheel(); dy != 0 {
		g.scene.ScrollBy(-dy * scrollStep)
	}
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyQ):
		return ebiten.Termination
	case inpututil.IsKeyJustPressed(ebiten.KeyT):
		g.sw.Toggle(time.Now())
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		if g.player != nil {
			g.player.Stop()
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyHome):
		g.scene.ScrollTo(0)
	case inpututil.IsKeyJustPressed(ebiten.KeyEnd):
		g.scene.ScrollTo(g.scene.Layout().MaxScroll(float64(g.height)))
	}
	g.scene.Observe(now)

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.click(float64(x), float64(y), now)
	}
	return nil
}

func (g *Game) click(x, y float64, now time.Duration) {
	if g.scene.ThemeButton().Contains(x, y) {
		g.sw.Toggle(time.Now())
		return
	}
	if j := g.scene.SlotAt(x, y, now); j >= 0 && g.player != nil {
		_ = g.player.Press(g.buttons[j])
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	t := viz.ForMode(g.sw.Theme())
	g.canvas.Dst = screen
	g.canvas.Background = viz.NRGBA(t.Background)

	wall := time.Now()
	g.anim.Tick(wall.Sub(g.last))
	g.last = wall

	g.drawPage(screen, t, time.Since(g.start))
	g.drawThemeButton(screen, t)
}

func (g *Game) drawPage(screen *ebiten.Image, t viz.Theme, now time.Duration) {
	text, primary, muted, accent := viz.NRGBA(t.Text), viz.NRGBA(t.Primary), viz.NRGBA(t.Muted), viz.NRGBA(t.Secondary)
	vh := float64(g.height)

	for i, sec := range g.scene.Sections {
		r, st := g.scene.Section(i, now)
		if st.Opacity <= 0 || r.Y > vh || r.Bottom() < 0 {
			continue
		}
		g.print(screen, sec.Title, r.X, r.Y, 2, fade(primary, st.Opacity))
		for n, line := range sec.Body {
			g.print(screen, line, r.X, g.scene.LineY(r, n)+4, 1, fade(text, st.Opacity))
		}
	}

	var current *quote.Button
	if g.player != nil {
		current = g.player.Current()
	}
	for j, sl := range g.scene.Slots {
		_, st := g.scene.Section(sl.Section, now)
		if st.Opacity <= 0 {
			continue
		}
		br := g.scene.SlotRect(j, now)
		col := accent
		if sl.Quote.Src == "" || g.player == nil {
			col = muted
		}
		drawPlayIcon(screen, br, current == g.buttons[j], fade(col, st.Opacity))
		g.print(screen, sl.Quote.Text, br.X+br.W+10, br.Y+3, 1, fade(text, st.Opacity))
	}
}

// print draws s with the debug font, tinted and scaled.
func (g *Game) print(screen *ebiten.Image, s string, x, y, scale float64, c color.NRGBA) {
	if s == "" || c.A == 0 {
		return
	}
	w := len(s) * glyphW
	if g.scratch == nil || g.scratch.Bounds().Dx() < w {
		g.scratch = ebiten.NewImage(max(w, 1024), glyphH)
	}
	g.scratch.Clear()
	ebitenutil.DebugPrintAt(g.scratch, s, 0, 0)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	screen.DrawImage(g.scratch.SubImage(image.Rect(0, 0, w, glyphH)).(*ebiten.Image), op)
}

func drawPlayIcon(dst *ebiten.Image, r page.Rect, playing bool, c color.NRGBA) {
	x, y, w, h := float32(r.X), float32(r.Y), float32(r.W), float32(r.H)
	vector.StrokeRect(dst, x, y, w, h, 1, c, true)
	cx, cy, s := x+w/2, y+h/2, w/4
	if playing {
		vector.DrawFilledRect(dst, cx-s, cy-s, s*0.7, 2*s, c, true)
		vector.DrawFilledRect(dst, cx+s*0.3, cy-s, s*0.7, 2*s, c, true)
		return
	}
	vector.StrokeLine(dst, cx-s*0.8, cy-s, cx-s*0.8, cy+s, 2, c, true)
	vector.StrokeLine(dst, cx-s*0.8, cy-s, cx+s, cy, 2, c, true)
	vector.StrokeLine(dst, cx-s*0.8, cy+s, cx+s, cy, 2, c, true)
}

func (g *Game) drawThemeButton(dst *ebiten.Image, t viz.Theme) {
	b := g.scene.ThemeButton()
	deg, scale := g.sw.Spin(time.Now())
	cx, cy := float32(b.X+b.W/2), float32(b.Y+b.H/2)
	vector.DrawFilledCircle(dst, cx, cy, float32(b.W/2), fade(viz.NRGBA(t.Muted), 0.2), true)

	r := float32(b.W/5) * float32(scale)
	rad := deg * math.Pi / 180
	if g.sw.Theme().Toggle() == theme.Dark {
		ox := r * 0.6 * float32(math.Cos(rad-math.Pi/4))
		oy := r * 0.6 * float32(math.Sin(rad-math.Pi/4))
		vector.DrawFilledCircle(dst, cx, cy, r, viz.NRGBA(t.Text), true)
		vector.DrawFilledCircle(dst, cx+ox, cy+oy, r*0.85, viz.NRGBA(t.Background), true)
		return
	}
	sun := viz.NRGBA(t.Secondary)
	vector.DrawFilledCircle(dst, cx, cy, r*0.7, sun, true)
	for k := 0; k < 8; k++ {
		a := rad + float64(k)*math.Pi/4
		c, s := float32(math.Cos(a)), float32(math.Sin(a))
		vector.StrokeLine(dst, cx+c*r, cy+s*r, cx+c*r*1.5, cy+s*r*1.5, 2, sun, true)
	}
}
