package tui

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/pagefx/internal/field"
	"github.com/san-kum/pagefx/internal/theme"
	"github.com/san-kum/pagefx/internal/viz"
)

// Raw drives the field straight on a tcell screen: no menu, no header, one
// status line. It starts on the first preset of opts.
type Raw struct {
	opts    Options
	screen  tcell.Screen
	term    *viz.Term
	pointer *field.Cursor
	anim    *field.Animator
	stats   field.Stats
}

func NewRaw(screen tcell.Screen, opts Options) (*Raw, error) {
	if opts.Switch == nil {
		opts.Switch = theme.NewSwitch(theme.NewMemKV(), opts.Logger)
	}
	params := field.DefaultParams()
	if opts.Params != nil && len(opts.Presets) > 0 {
		p, err := opts.Params(opts.Presets[0])
		if err != nil {
			return nil, err
		}
		params = p
	}

	cols, rows := screen.Size()
	r := &Raw{opts: opts, screen: screen}
	r.term = viz.NewTerm(max(cols, 10), max(rows-1, 4), viz.ForMode(opts.Switch.Theme()).BackgroundNRGBA())
	w, h := r.term.SurfaceSize()
	r.pointer = field.NewCursor(w, h)

	fopts := []field.Option{field.WithCanvas(r.term), field.WithSize(w, h)}
	if opts.Seed != 0 {
		fopts = append(fopts, field.WithSeed(opts.Seed))
	}
	r.anim = field.New(params, r.pointer, opts.Switch, fopts...)
	return r, nil
}

// RunRaw opens the terminal, runs until q, Esc or Ctrl-C, and restores it.
func RunRaw(opts Options) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.HideCursor()

	r, err := NewRaw(screen, opts)
	if err != nil {
		return err
	}
	r.Run()
	return nil
}

func (r *Raw) Run() {
	ticker := time.NewTicker(time.Second / frameRate)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	done := make(chan struct{})
	defer close(done)
	go r.pump(events, done)

	last := time.Now()
	for {
		select {
		case ev := <-events:
			if !r.handle(ev) {
				return
			}
		case now := <-ticker.C:
			r.stats = r.anim.Tick(now.Sub(last))
			last = now
			r.draw()
		}
	}
}

// pump forwards screen events until the screen is finalized or done
// closes. PollEvent returns nil after Fini.
func (r *Raw) pump(events chan<- tcell.Event, done <-chan struct{}) {
	for {
		ev := r.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}

// handle applies one event and reports whether to keep running.
func (r *Raw) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC:
			return false
		case ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
			return false
		case ev.Key() == tcell.KeyRune && ev.Rune() == 't':
			next := r.opts.Switch.Toggle(time.Now())
			r.term.SetBackground(viz.ForMode(next).BackgroundNRGBA())
		}
	case *tcell.EventMouse:
		col, row := ev.Position()
		r.move(col, row)
	case *tcell.EventResize:
		cols, rows := r.screen.Size()
		r.term.Resize(max(cols, 10), max(rows-1, 4))
		r.anim.Resize(r.term.SurfaceSize())
		r.screen.Sync()
	}
	return true
}

func (r *Raw) move(col, row int) {
	if col < 0 || row < 0 || col >= r.term.Cols || row >= r.term.Rows {
		w, h := r.term.SurfaceSize()
		r.pointer.Leave(w, h)
		return
	}
	x, y := viz.CellCenter(col, row)
	r.pointer.Move(x, y)
	r.anim.PointerMoved(x, y)
}

func rgb(c colorful.Color) tcell.Color {
	cr, cg, cb := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(cr), int32(cg), int32(cb))
}

func (r *Raw) draw() {
	pal := viz.ForMode(r.opts.Switch.Theme())
	bgc := viz.NRGBA(pal.Background)
	bg := tcell.NewRGBColor(int32(bgc.R), int32(bgc.G), int32(bgc.B))

	for row := 0; row < r.term.Rows; row++ {
		for col := 0; col < r.term.Cols; col++ {
			ch, ink := r.term.Cell(col, row)
			r.screen.SetContent(col, row, ch, nil, tcell.StyleDefault.Background(bg).Foreground(rgb(ink)))
		}
	}

	mc := viz.NRGBA(pal.Muted)
	status := tcell.StyleDefault.Background(bg).Foreground(tcell.NewRGBColor(int32(mc.R), int32(mc.G), int32(mc.B)))
	line := fmt.Sprintf(" %s  links %d  trail %d  resets %d   t theme  q quit",
		r.opts.Switch.Theme().Toggle().Icon(), r.stats.Links, r.stats.Trail, r.stats.Resets)
	cols, _ := r.screen.Size()
	x := 0
	for _, ch := range line {
		if x >= cols {
			break
		}
		r.screen.SetContent(x, r.term.Rows, ch, nil, status)
		x++
	}
	for ; x < cols; x++ {
		r.screen.SetContent(x, r.term.Rows, ' ', nil, status)
	}
	r.screen.Show()
}
