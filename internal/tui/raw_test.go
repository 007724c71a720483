package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/san-kum/pagefx/internal/field"
)

func newRawOnSim(t *testing.T) (*Raw, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(80, 25)

	r, err := NewRaw(screen, Options{
		Presets: []string{"default"},
		Params:  func(string) (field.Params, error) { return field.DefaultParams(), nil },
		Seed:    3,
	})
	if err != nil {
		t.Fatal(err)
	}
	return r, screen
}

func TestRawDrawsFieldAndStatus(t *testing.T) {
	r, screen := newRawOnSim(t)
	if r.term.Cols != 80 || r.term.Rows != 24 {
		t.Fatalf("grid %dx%d, want 80x24", r.term.Cols, r.term.Rows)
	}

	r.handle(tcell.NewEventMouse(40, 12, tcell.ButtonNone, tcell.ModNone))
	r.stats = r.anim.Tick(16 * time.Millisecond)
	r.draw()

	cells, w, _ := screen.GetContents()
	var status []rune
	for x := 0; x < w; x++ {
		status = append(status, cells[24*w+x].Runes...)
	}
	if got := string(status); !strings.Contains(got, "links") || !strings.Contains(got, "q quit") {
		t.Errorf("status line = %q", got)
	}
	if r.stats.Trail != 1 {
		t.Errorf("trail = %d, want 1 after one pointer move", r.stats.Trail)
	}
}

func TestRawKeys(t *testing.T) {
	r, _ := newRawOnSim(t)
	before := r.opts.Switch.Theme()
	if !r.handle(tcell.NewEventKey(tcell.KeyRune, 't', tcell.ModNone)) {
		t.Fatal("t should not quit")
	}
	if r.opts.Switch.Theme() != before.Toggle() {
		t.Errorf("theme = %s after toggle", r.opts.Switch.Theme())
	}
	if r.handle(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)) {
		t.Error("q should quit")
	}
	if r.handle(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)) {
		t.Error("esc should quit")
	}
}

func TestRawMouseOnStatusLineRecenters(t *testing.T) {
	r, _ := newRawOnSim(t)
	r.handle(tcell.NewEventMouse(2, 3, tcell.ButtonNone, tcell.ModNone))
	if x, _ := r.pointer.Pointer(); x == 320 {
		t.Fatal("pointer did not move")
	}
	r.handle(tcell.NewEventMouse(2, 24, tcell.ButtonNone, tcell.ModNone))
	w, h := r.term.SurfaceSize()
	if x, y := r.pointer.Pointer(); x != w/2 || y != h/2 {
		t.Errorf("pointer (%v, %v), want viewport center", x, y)
	}
}

func TestRawPumpStopsWhenRunEnds(t *testing.T) {
	r, screen := newRawOnSim(t)

	events := make(chan tcell.Event) // nobody reads
	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		r.pump(events, done)
		close(finished)
	}()

	screen.InjectKey(tcell.KeyRune, 'x', tcell.ModNone)
	close(done)

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("pump still blocked after done closed")
	}
}
