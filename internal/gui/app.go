package gui

import (
	"fmt"
	"log/slog"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/pagefx/internal/audio"
	"github.com/san-kum/pagefx/internal/field"
	"github.com/san-kum/pagefx/internal/page"
	"github.com/san-kum/pagefx/internal/quote"
	"github.com/san-kum/pagefx/internal/theme"
)

const (
	scrollStep = 60 // px per wheel notch
	pageStep   = 0.8
)

// Options configures the desktop page.
type Options struct {
	Params   field.Params
	Sections []page.Section
	Switch   *theme.Switch
	// Output plays quotes; nil leaves the quote buttons inert.
	Output *audio.Output
	Seed   int64
	Logger *slog.Logger
}

type App struct {
	Font    rl.Font
	ShowHUD bool

	anim    *field.Animator
	cursor  *field.Cursor
	canvas  *rlCanvas
	scene   *page.Scene
	sw      *theme.Switch
	out     *audio.Output
	player  *quote.Player
	buttons []*quote.Button
	logger  *slog.Logger

	width, height int
	onScreen      bool
	start         time.Time
	stats         field.Stats
	quit          bool
}

// initWindow opens a resizable 1280×720 window at 60 FPS and disables the
// default exit key.
func initWindow() {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(1280, 720, "pagefx")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

func loadFont() rl.Font {
	font := rl.LoadFontEx("/usr/share/fonts/liberation/LiberationMono-Regular.ttf", 32, nil, 0)
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

// NewApp builds the page for the current window. The window must be open.
func NewApp(opts Options) *App {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	w, h := rl.GetScreenWidth(), rl.GetScreenHeight()

	a := &App{
		Font:   loadFont(),
		cursor: field.NewCursor(float64(w), float64(h)),
		canvas: &rlCanvas{},
		scene:  page.NewScene(opts.Sections, float64(w), float64(h)),
		sw:     opts.Switch,
		out:    opts.Output,
		logger: opts.Logger,
		width:  w,
		height: h,
		start:  time.Now(),
	}
	a.anim = field.New(opts.Params, a.cursor, a.sw,
		field.WithCanvas(a.canvas),
		field.WithSeed(opts.Seed),
		field.WithSize(float64(w), float64(h)),
	)

	for _, sl := range a.scene.Slots {
		a.buttons = append(a.buttons, &quote.Button{
			ID:  fmt.Sprintf("quote-%d-%d", sl.Section, sl.Line),
			Src: sl.Quote.Src,
		})
	}
	if a.out != nil {
		a.player = quote.NewPlayer(a.out, a.logger)
	}
	return a
}

// Run opens the window and blocks until it is closed.
func Run(opts Options) {
	initWindow()
	defer rl.CloseWindow()

	a := NewApp(opts)
	a.RunLoop()
	a.Close()
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() && !a.quit {
		a.Update()
		a.Draw()
	}
}

// Close stops quote playback and releases the font.
func (a *App) Close() {
	if a.player != nil {
		a.player.Stop()
	}
	rl.UnloadFont(a.Font)
}

func (a *App) now() time.Duration { return time.Since(a.start) }

func (a *App) Update() {
	if w, h := rl.GetScreenWidth(), rl.GetScreenHeight(); w != a.width || h != a.height {
		a.width, a.height = w, h
		a.anim.Resize(float64(w), float64(h))
		a.scene.Resize(float64(w), float64(h))
	}
	now := a.now()

	a.updatePointer()
	a.updateKeys()

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		a.scene.ScrollBy(-float64(wheel) * scrollStep)
	}
	a.scene.Observe(now)

	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		m := rl.GetMousePosition()
		a.click(float64(m.X), float64(m.Y), now)
	}
}

// updatePointer feeds mouse motion to the field. Leaving the window parks
// the pointer at the center.
func (a *App) updatePointer() {
	onScreen := rl.IsCursorOnScreen()
	if onScreen {
		d := rl.GetMouseDelta()
		if d.X != 0 || d.Y != 0 || !a.onScreen {
			m := rl.GetMousePosition()
			a.cursor.Move(float64(m.X), float64(m.Y))
			a.anim.PointerMoved(float64(m.X), float64(m.Y))
		}
	} else if a.onScreen {
		a.cursor.Leave(float64(a.width), float64(a.height))
	}
	a.onScreen = onScreen
}

func (a *App) updateKeys() {
	vh := float64(a.height)
	switch {
	case rl.IsKeyPressed(rl.KeyQ):
		a.quit = true
	case rl.IsKeyPressed(rl.KeyT):
		a.sw.Toggle(time.Now())
	case rl.IsKeyPressed(rl.KeyH):
		a.ShowHUD = !a.ShowHUD
	case rl.IsKeyPressed(rl.KeyEscape):
		if a.player != nil {
			a.player.Stop()
		}
	case rl.IsKeyPressed(rl.KeyPageDown), rl.IsKeyPressed(rl.KeySpace):
		a.scene.ScrollBy(vh * pageStep)
	case rl.IsKeyPressed(rl.KeyPageUp):
		a.scene.ScrollBy(-vh * pageStep)
	case rl.IsKeyPressed(rl.KeyHome):
		a.scene.ScrollTo(0)
	case rl.IsKeyPressed(rl.KeyEnd):
		a.scene.ScrollTo(a.scene.Layout().MaxScroll(vh))
	}
	if rl.IsKeyDown(rl.KeyDown) {
		a.scene.ScrollBy(scrollStep / 6)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		a.scene.ScrollBy(-scrollStep / 6)
	}
}

func (a *App) click(x, y float64, now time.Duration) {
	if a.scene.ThemeButton().Contains(x, y) {
		m := a.sw.Toggle(time.Now())
		a.logger.Debug("theme toggled", "mode", m)
		return
	}
	j := a.scene.SlotAt(x, y, now)
	if j < 0 || a.player == nil {
		return
	}
	// Press logs its own failures; the button just stays idle.
	_ = a.player.Press(a.buttons[j])
}

func (a *App) Draw() {
	now := a.now()
	pal := paletteFor(a.sw.Theme())

	rl.BeginDrawing()
	a.canvas.bg = pal.Bg
	a.stats = a.anim.Tick(time.Duration(float64(rl.GetFrameTime()) * float64(time.Second)))

	a.drawPage(pal, now)
	a.drawThemeButton(pal)
	if a.ShowHUD {
		a.DrawHUD(pal)
	}
	rl.EndDrawing()
}

func (a *App) DrawHUD(pal palette) {
	y := a.height - 30
	a.drawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), 20, y, 14, pal.Muted)
	a.drawText(fmt.Sprintf("links %d  trail %d  resets %d", a.stats.Links, a.stats.Trail, a.stats.Resets), 100, y, 14, pal.Muted)
	a.drawText("[T] THEME  [H] HUD  [ESC] STOP  [Q] QUIT", a.width-400, y, 14, pal.Muted)
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}
