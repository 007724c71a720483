package tui

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/pagefx/internal/field"
	"github.com/san-kum/pagefx/internal/theme"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestApp(presets ...string) (model, *theme.MemKV) {
	kv := theme.NewMemKV()
	app := NewApp(Options{
		Presets: presets,
		Params: func(name string) (field.Params, error) {
			if name == "broken" {
				return field.Params{}, errors.New("no such preset")
			}
			p := field.DefaultParams()
			p.Count = 20
			return p, nil
		},
		Switch: theme.NewSwitch(kv, quietLogger()),
		Seed:   1,
		Logger: quietLogger(),
	})
	return *app, kv
}

func send(m model, msg tea.Msg) model {
	next, _ := m.Update(msg)
	return next.(model)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestMenuSelectsPreset(t *testing.T) {
	m, _ := newTestApp("calm", "default", "swarm")
	if m.state != stateMenu {
		t.Fatal("expected the menu first")
	}
	if !strings.Contains(m.View(), "swarm") {
		t.Error("menu does not list presets")
	}

	m = send(m, key("down"))
	m = send(m, key("enter"))
	if m.state != stateField || m.selected != "default" {
		t.Fatalf("state=%d selected=%q", m.state, m.selected)
	}
	if len(m.anim.Particles()) != 20 {
		t.Errorf("particles = %d", len(m.anim.Particles()))
	}

	m = send(m, key("esc"))
	if m.state != stateMenu {
		t.Error("esc should return to the menu")
	}
}

func TestMenuShowsPresetError(t *testing.T) {
	m, _ := newTestApp("broken", "default")
	m = send(m, key("enter"))
	if m.state != stateMenu || m.err == nil {
		t.Fatal("broken preset should stay on the menu with an error")
	}
	if !strings.Contains(m.View(), "no such preset") {
		t.Error("error not shown")
	}
}

func TestSinglePresetSkipsMenu(t *testing.T) {
	m, _ := newTestApp("default")
	if m.state != stateField {
		t.Fatal("single preset should start the field")
	}
	if m.Init() == nil {
		t.Error("field state should start ticking")
	}
}

func TestTickAndMouse(t *testing.T) {
	m, _ := newTestApp("default")
	m = send(m, tea.WindowSizeMsg{Width: 60, Height: 25})
	if m.term.Cols != 60 || m.term.Rows != 20 {
		t.Fatalf("grid = %dx%d", m.term.Cols, m.term.Rows)
	}
	w, h := m.anim.Size()
	if w != 480 || h != 320 {
		t.Errorf("surface = %vx%v", w, h)
	}

	m = send(m, tea.MouseMsg{X: 10, Y: 5, Action: tea.MouseActionMotion})
	x, y := m.pointer.Pointer()
	if x != 84 || y != 56 {
		t.Errorf("pointer = (%v, %v)", x, y)
	}
	if len(m.anim.Trail()) != 1 {
		t.Errorf("trail = %d", len(m.anim.Trail()))
	}

	// header rows are not part of the field
	m = send(m, tea.MouseMsg{X: 10, Y: 0, Action: tea.MouseActionMotion})
	if len(m.anim.Trail()) != 1 {
		t.Error("mouse over the header moved the pointer")
	}

	t0 := time.Unix(100, 0)
	m = send(m, tickMsg(t0))
	m = send(m, tickMsg(t0.Add(16*time.Millisecond)))
	if m.stats.Frame != 2 || len(m.history) != 2 {
		t.Errorf("frame=%d history=%d", m.stats.Frame, len(m.history))
	}
	if m.fps < 60 || m.fps > 63 {
		t.Errorf("fps = %v", m.fps)
	}
	if !strings.Contains(m.View(), "links") {
		t.Error("status line missing")
	}
}

func TestThemeToggle(t *testing.T) {
	m, kv := newTestApp("default")
	m = send(m, key("t"))
	if m.opts.Switch.Theme() != theme.Dark {
		t.Fatal("t did not toggle")
	}
	if v, _ := kv.Get(theme.Key); v != "dark" {
		t.Errorf("stored theme = %q", v)
	}
	if !strings.Contains(m.View(), theme.Dark.Icon()) {
		t.Error("header icon not updated")
	}
}

func TestQuit(t *testing.T) {
	m, _ := newTestApp("default")
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}
