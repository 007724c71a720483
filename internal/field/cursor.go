package field

import "github.com/san-kum/pagefx/internal/theme"

// PointerSource reports the current pointer position in surface pixels.
type PointerSource interface {
	Pointer() (x, y float64)
}

// ThemeSource is implemented by theme.Switch.
type ThemeSource interface {
	Theme() theme.Mode
}

// Cursor is a PointerSource owned by the host's input handling.
type Cursor struct {
	X, Y float64
}

// NewCursor starts at the center of a w×h viewport.
func NewCursor(w, h float64) *Cursor {
	return &Cursor{X: w / 2, Y: h / 2}
}

func (c *Cursor) Pointer() (float64, float64) { return c.X, c.Y }

func (c *Cursor) Move(x, y float64) {
	c.X, c.Y = x, y
}

// Leave recenters the pointer on the viewport when it exits the page.
func (c *Cursor) Leave(w, h float64) {
	c.X, c.Y = w/2, h/2
}
