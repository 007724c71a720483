package page

// Rect is an axis-aligned rectangle in page coordinates.
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Bottom() float64 { return r.Y + r.H }

// Contains reports whether (x, y) lies inside r.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Intersect returns the overlap of r and o; zero size when they are disjoint.
func (r Rect) Intersect(o Rect) Rect {
	x0, y0 := max(r.X, o.X), max(r.Y, o.Y)
	x1, y1 := min(r.X+r.W, o.X+o.W), min(r.Y+r.H, o.Y+o.H)
	if x1 <= x0 || y1 <= y0 {
		return Rect{X: x0, Y: y0}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

func (r Rect) Area() float64 { return r.W * r.H }

// Section is one block of page content.
type Section struct {
	Title  string   `yaml:"title"`
	Body   []string `yaml:"body"`
	Quotes []Quote  `yaml:"quotes,omitempty"`
}

// Quote is a quote line with an optional audio source.
type Quote struct {
	Text string `yaml:"text"`
	Src  string `yaml:"src,omitempty"`
}

// Metrics sizes the layout.
type Metrics struct {
	Width      float64 // viewport width
	Margin     float64 // left/right and top padding
	Gap        float64 // vertical space between sections
	TitleLine  float64
	BodyLine   float64
	MaxContent float64 // content column cap
}

func DefaultMetrics(width float64) Metrics {
	return Metrics{
		Width:      width,
		Margin:     48,
		Gap:        64,
		TitleLine:  40,
		BodyLine:   26,
		MaxContent: 760,
	}
}

// Layout holds the placed sections of a page.
type Layout struct {
	Sections []Section
	Rects    []Rect
	Height   float64 // total document height
}

// Stack places sections top to bottom in a centered column. Each quote takes
// one body line.
func Stack(sections []Section, m Metrics) Layout {
	col := m.Width - 2*m.Margin
	if m.MaxContent > 0 && col > m.MaxContent {
		col = m.MaxContent
	}
	if col < 0 {
		col = 0
	}
	x := (m.Width - col) / 2

	l := Layout{Sections: sections, Rects: make([]Rect, len(sections))}
	y := m.Margin
	for i, s := range sections {
		h := m.TitleLine + float64(len(s.Body)+len(s.Quotes))*m.BodyLine
		l.Rects[i] = Rect{X: x, Y: y, W: col, H: h}
		y += h + m.Gap
	}
	l.Height = y - m.Gap + m.Margin
	if len(sections) == 0 {
		l.Height = 2 * m.Margin
	}
	return l
}

// MaxScroll is the largest scroll offset for a viewport of height vh.
func (l Layout) MaxScroll(vh float64) float64 {
	return max(0, l.Height-vh)
}
