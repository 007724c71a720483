package page

import "time"

// ThemeButtonSize is the side of the fixed theme toggle.
const ThemeButtonSize = 44

// Slot is a quote play control placed inside a section.
type Slot struct {
	Section int
	Line    int // body line index, counting quotes after the body
	Quote   Quote
}

// Scene is the scrolling page state shared by the graphical hosts: layout,
// scroll offset, parallax nudge and one-shot reveal.
type Scene struct {
	Sections []Section
	Slots    []Slot

	metrics  Metrics
	layout   Layout
	reveal   *Reveal
	parallax Parallax
	scroll   float64
	vw, vh   float64
}

func NewScene(sections []Section, vw, vh float64) *Scene {
	s := &Scene{Sections: sections}
	for i, sec := range sections {
		for j, q := range sec.Quotes {
			s.Slots = append(s.Slots, Slot{Section: i, Line: len(sec.Body) + j, Quote: q})
		}
	}
	s.relayout(vw, vh)
	s.reveal = NewReveal(s.layout.Rects)
	return s
}

func (s *Scene) relayout(vw, vh float64) {
	s.vw, s.vh = vw, vh
	s.metrics = DefaultMetrics(vw)
	s.layout = Stack(s.Sections, s.metrics)
}

// Resize re-stacks the page for a new viewport and clamps the scroll.
func (s *Scene) Resize(vw, vh float64) {
	if vw == s.vw && vh == s.vh {
		return
	}
	s.relayout(vw, vh)
	s.reveal.Relayout(s.layout.Rects)
	s.ScrollTo(s.scroll)
}

func (s *Scene) Metrics() Metrics { return s.metrics }
func (s *Scene) Layout() Layout   { return s.layout }
func (s *Scene) Scroll() float64  { return s.scroll }

// ScrollTo moves to y, clamped to the document, and feeds the parallax.
func (s *Scene) ScrollTo(y float64) {
	y = min(max(0, y), s.layout.MaxScroll(s.vh))
	if y == s.scroll {
		return
	}
	s.scroll = y
	s.parallax.Scroll(y)
}

func (s *Scene) ScrollBy(dy float64) { s.ScrollTo(s.scroll + dy) }

// Observe runs the reveal check for the current viewport.
func (s *Scene) Observe(now time.Duration) []int {
	return s.reveal.Observe(s.scroll, s.vw, s.vh, now)
}

func (s *Scene) Revealed(i int) bool { return s.reveal.Revealed(i) }

// Section returns section i in viewport coordinates with its reveal style
// applied.
func (s *Scene) Section(i int, now time.Duration) (Rect, Style) {
	st := s.reveal.Style(i, now)
	r := s.layout.Rects[i]
	r.Y += s.parallax.Offset() - s.scroll + st.TranslateY
	return r, st
}

// LineY is the viewport y of body line n in a section rect from Section.
func (s *Scene) LineY(r Rect, n int) float64 {
	return r.Y + s.metrics.TitleLine + float64(n)*s.metrics.BodyLine
}

// SlotRect is the play control of slot j in viewport coordinates.
func (s *Scene) SlotRect(j int, now time.Duration) Rect {
	sl := s.Slots[j]
	r, _ := s.Section(sl.Section, now)
	size := s.metrics.BodyLine - 4
	return Rect{X: r.X, Y: s.LineY(r, sl.Line) + 2, W: size, H: size}
}

// SlotAt returns the slot under viewport point (x, y), or -1. Hidden
// sections do not take clicks.
func (s *Scene) SlotAt(x, y float64, now time.Duration) int {
	for j, sl := range s.Slots {
		if !s.reveal.Revealed(sl.Section) {
			continue
		}
		if s.SlotRect(j, now).Contains(x, y) {
			return j
		}
	}
	return -1
}

// ThemeButton is the fixed toggle in the top right corner.
func (s *Scene) ThemeButton() Rect {
	return Rect{X: s.vw - ThemeButtonSize - 20, Y: 20, W: ThemeButtonSize, H: ThemeButtonSize}
}
