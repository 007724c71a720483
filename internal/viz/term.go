package viz

import (
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Terminal cell size in surface pixels. The field runs in pixel space; the
// terminal canvas scales it down to cells.
const (
	CellWidth  = 8
	CellHeight = 16
)

// Term is a field.Canvas for the terminal. Particles and trail points become
// glyphs, links become braille dots, and every color is blended over the
// background by its alpha.
type Term struct {
	Cols, Rows int

	bg      colorful.Color
	braille *Canvas
	glyph   [][]rune
	ink     [][]colorful.Color
	weight  [][]float64
}

func NewTerm(cols, rows int, background color.NRGBA) *Term {
	t := &Term{}
	t.SetBackground(background)
	t.Resize(cols, rows)
	return t
}

// SurfaceSize is the pixel size the animator should use for this grid.
func (t *Term) SurfaceSize() (w, h float64) {
	return float64(t.Cols * CellWidth), float64(t.Rows * CellHeight)
}

// CellCenter maps a terminal cell to surface pixels.
func CellCenter(col, row int) (x, y float64) {
	return float64(col*CellWidth + CellWidth/2), float64(row*CellHeight + CellHeight/2)
}

func (t *Term) SetBackground(c color.NRGBA) {
	t.bg, _ = colorful.MakeColor(color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255})
}

func (t *Term) Resize(cols, rows int) {
	t.Cols, t.Rows = max(cols, 1), max(rows, 1)
	t.braille = NewCanvas(t.Cols, t.Rows)
	t.glyph = make([][]rune, t.Rows)
	t.ink = make([][]colorful.Color, t.Rows)
	t.weight = make([][]float64, t.Rows)
	for r := 0; r < t.Rows; r++ {
		t.glyph[r] = make([]rune, t.Cols)
		t.ink[r] = make([]colorful.Color, t.Cols)
		t.weight[r] = make([]float64, t.Cols)
	}
	t.Clear()
}

func (t *Term) Clear() {
	t.braille.Clear()
	for r := range t.glyph {
		for c := range t.glyph[r] {
			t.glyph[r][c] = ' '
			t.ink[r][c] = t.bg
			t.weight[r][c] = 0
		}
	}
}

// paint keeps the strongest color per cell.
func (t *Term) paint(col, row int, c color.NRGBA, alpha float64) bool {
	if col < 0 || row < 0 || col >= t.Cols || row >= t.Rows {
		return false
	}
	if alpha < t.weight[row][col] {
		return false
	}
	fg, _ := colorful.MakeColor(c)
	if alpha >= 1 {
		t.ink[row][col] = fg
	} else {
		t.ink[row][col] = t.bg.BlendLab(fg, alpha).Clamped()
	}
	t.weight[row][col] = alpha
	return true
}

func glyphFor(radius float64) rune {
	switch {
	case radius < 2:
		return '·'
	case radius < 4:
		return '•'
	}
	return '●'
}

func (t *Term) GlowCircle(x, y, radius, _ float64, c color.NRGBA, alpha float64) {
	if alpha <= 0 || radius <= 0 || math.IsNaN(x) || math.IsNaN(y) {
		return
	}
	col := int(math.Floor(x / CellWidth))
	row := int(math.Floor(y / CellHeight))
	if t.paint(col, row, c, alpha) {
		t.glyph[row][col] = glyphFor(radius)
	}
}

func (t *Term) Line(x0, y0, x1, y1, _ float64, c color.NRGBA, alpha float64) {
	if alpha <= 0 {
		return
	}
	for _, v := range []float64{x0, y0, x1, y1} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return
		}
	}
	// braille gives 2x4 dots per cell
	sx, sy := 2.0/CellWidth, 4.0/CellHeight
	// links are faint; lift them so they stay visible on a terminal
	lift := math.Min(1, alpha*3)
	t.braille.DrawLine(int(x0*sx), int(y0*sy), int(x1*sx), int(y1*sy), func(col, row int) {
		if t.glyph[row][col] == ' ' {
			t.paint(col, row, c, lift)
		}
	})
}

// Cell returns the rune and color shown at a cell.
func (t *Term) Cell(col, row int) (rune, colorful.Color) {
	if t.glyph[row][col] != ' ' {
		return t.glyph[row][col], t.ink[row][col]
	}
	if !t.braille.Blank(col, row) {
		return t.braille.Grid[row][col], t.ink[row][col]
	}
	return ' ', t.bg
}

// Render draws the grid with one lipgloss style per run of equal color.
func (t *Term) Render() string {
	bg := lipgloss.Color(t.bg.Hex())
	var b strings.Builder
	for row := 0; row < t.Rows; row++ {
		var run strings.Builder
		runHex := ""
		flush := func() {
			if run.Len() == 0 {
				return
			}
			st := lipgloss.NewStyle().Background(bg).Foreground(lipgloss.Color(runHex))
			b.WriteString(st.Render(run.String()))
			run.Reset()
		}
		for col := 0; col < t.Cols; col++ {
			r, c := t.Cell(col, row)
			hex := c.Hex()
			if hex != runHex {
				flush()
				runHex = hex
			}
			run.WriteRune(r)
		}
		flush()
		if row < t.Rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
