package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/pagefx/internal/field"
	"github.com/san-kum/pagefx/internal/theme"
	"github.com/san-kum/pagefx/internal/viz"
)

const (
	headerLines  = 2
	footerLines  = 3
	historySize  = 120
	frameRate    = 60
	sparkWidth   = 24
	trailBarSize = 10
)

const (
	stateMenu = iota
	stateField
)

// Options configures the terminal app.
type Options struct {
	// Presets are offered in a menu before the field starts. With a single
	// entry the menu is skipped.
	Presets []string
	// Params resolves a preset name.
	Params func(preset string) (field.Params, error)
	Switch *theme.Switch
	Seed   int64
	Logger *slog.Logger
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return tickMsg(t) })
}

type model struct {
	opts   Options
	state  int
	choice int

	selected  string
	anim      *field.Animator
	pointer   *field.Cursor
	term      *viz.Term
	params    field.Params
	stats     field.Stats
	history   []float64
	lastFrame time.Time
	fps       float64

	width, height int
	err           error
}

func NewApp(opts Options) *model {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Switch == nil {
		opts.Switch = theme.NewSwitch(theme.NewMemKV(), opts.Logger)
	}
	m := &model{opts: opts, width: 80, height: 24}
	if len(opts.Presets) == 1 {
		m.start(opts.Presets[0])
	}
	return m
}

func (m model) Init() tea.Cmd {
	if m.state == stateField {
		return tick()
	}
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.state == stateMenu {
			return m.menuKey(msg)
		}
		return m.fieldKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil
	case tea.MouseMsg:
		if m.state == stateField && (msg.Action == tea.MouseActionMotion || msg.Action == tea.MouseActionPress) {
			m.move(msg.X, msg.Y-headerLines)
		}
		return m, nil
	case tickMsg:
		if m.state != stateField {
			return m, nil
		}
		now := time.Time(msg)
		var dt time.Duration
		if !m.lastFrame.IsZero() {
			dt = now.Sub(m.lastFrame)
			if dt > 0 {
				m.fps = float64(time.Second) / float64(dt)
			}
		}
		m.lastFrame = now
		m.stats = m.anim.Tick(dt)
		m.history = append(m.history, m.stats.MeanDistance)
		if len(m.history) > historySize {
			m.history = m.history[1:]
		}
		return m, tick()
	}
	return m, nil
}

func (m model) menuKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.choice > 0 {
			m.choice--
		}
	case "down", "j":
		if m.choice < len(m.opts.Presets)-1 {
			m.choice++
		}
	case "enter", " ":
		if len(m.opts.Presets) == 0 {
			return m, nil
		}
		m.start(m.opts.Presets[m.choice])
		if m.err != nil {
			return m, nil
		}
		return m, tea.Batch(tea.ClearScreen, tick())
	}
	return m, nil
}

func (m model) fieldKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		if len(m.opts.Presets) > 1 {
			m.state = stateMenu
			m.anim = nil
		}
	case "t":
		next := m.opts.Switch.Toggle(time.Now())
		m.term.SetBackground(viz.ForMode(next).BackgroundNRGBA())
		m.opts.Logger.Debug("theme toggled", "mode", next)
	}
	return m, nil
}

func (m *model) start(preset string) {
	params := field.DefaultParams()
	if m.opts.Params != nil {
		p, err := m.opts.Params(preset)
		if err != nil {
			m.err = err
			return
		}
		params = p
	}
	m.err = nil
	m.selected = preset
	m.params = params

	cols, rows := m.gridSize()
	m.term = viz.NewTerm(cols, rows, viz.ForMode(m.opts.Switch.Theme()).BackgroundNRGBA())
	w, h := m.term.SurfaceSize()
	m.pointer = field.NewCursor(w, h)

	opts := []field.Option{field.WithCanvas(m.term), field.WithSize(w, h)}
	if m.opts.Seed != 0 {
		opts = append(opts, field.WithSeed(m.opts.Seed))
	}
	m.anim = field.New(params, m.pointer, m.opts.Switch, opts...)
	m.history = m.history[:0]
	m.lastFrame = time.Time{}
	m.state = stateField
}

func (m *model) gridSize() (cols, rows int) {
	return max(m.width, 10), max(m.height-headerLines-footerLines, 4)
}

func (m *model) resize() {
	if m.term == nil {
		return
	}
	cols, rows := m.gridSize()
	m.term.Resize(cols, rows)
	m.anim.Resize(m.term.SurfaceSize())
}

func (m *model) move(col, row int) {
	if m.term == nil || col < 0 || row < 0 || col >= m.term.Cols || row >= m.term.Rows {
		return
	}
	x, y := viz.CellCenter(col, row)
	m.pointer.Move(x, y)
	m.anim.PointerMoved(x, y)
}

func (m model) View() string {
	if m.state == stateMenu {
		return m.viewMenu()
	}
	return m.viewField()
}

func (m model) viewMenu() string {
	pal := viz.ForMode(m.opts.Switch.Theme())
	dim := lipgloss.NewStyle().Foreground(pal.Muted)
	hi := lipgloss.NewStyle().Foreground(pal.Primary)
	text := lipgloss.NewStyle().Foreground(pal.Text)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(dim.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("           " + viz.GradientText("p a g e f x", pal.Primary, pal.Secondary) + "\n")
	b.WriteString(dim.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n\n")

	for i, name := range m.opts.Presets {
		if i == m.choice {
			b.WriteString("      " + hi.Render("▸ ") + text.Render(name) + "\n")
		} else {
			b.WriteString("        " + dim.Render(name) + "\n")
		}
	}
	if m.err != nil {
		b.WriteString("\n      " + viz.SparkLow.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n" + viz.KeyHint.Render("      ↑↓ select   enter start   q quit") + "\n")
	return b.String()
}

func (m model) viewField() string {
	mode := m.opts.Switch.Theme()
	pal := viz.ForMode(mode)
	dim := lipgloss.NewStyle().Foreground(pal.Muted)

	var b strings.Builder
	fmt.Fprintf(&b, " %s  %s  %s  %s\n\n",
		viz.GradientText("pagefx", pal.Primary, pal.Secondary),
		dim.Render(m.selected),
		mode.Icon(),
		dim.Render(fmt.Sprintf("%.0ffps", m.fps)))

	b.WriteString(m.term.Render())
	b.WriteString("\n")

	occupancy := 0.0
	if m.params.TrailMax > 0 {
		occupancy = float64(m.stats.Trail) / float64(m.params.TrailMax)
	}
	fmt.Fprintf(&b, " %s%d  %s%d  %s%s  %s%s\n",
		dim.Render("particles "), m.params.Count,
		dim.Render("links "), m.stats.Links,
		dim.Render("trail "), viz.ProgressBar(occupancy, trailBarSize),
		dim.Render("dist "), viz.Sparkline(m.history, sparkWidth))
	b.WriteString(viz.KeyHint.Render(" move the mouse   t theme   esc presets   q quit"))
	return b.String()
}
