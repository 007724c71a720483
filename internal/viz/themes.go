package viz

import (
	"image/color"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/pagefx/internal/theme"
)

// Theme is the terminal palette of one page mode.
type Theme struct {
	Name       string
	Primary    lipgloss.Color // green accent
	Secondary  lipgloss.Color // yellow accent
	Background lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
}

var (
	ThemeLight = Theme{
		Name:       "light",
		Primary:    lipgloss.Color("#66bb6a"),
		Secondary:  lipgloss.Color("#ffc107"),
		Background: lipgloss.Color("#f7faf5"),
		Text:       lipgloss.Color("#243024"),
		Muted:      lipgloss.Color("#7b8a7b"),
	}

	ThemeDark = Theme{
		Name:       "dark",
		Primary:    lipgloss.Color("#81c784"),
		Secondary:  lipgloss.Color("#ffd54f"),
		Background: lipgloss.Color("#111611"),
		Text:       lipgloss.Color("#e6efe6"),
		Muted:      lipgloss.Color("#6f7f6f"),
	}
)

// ForMode returns the palette of a page mode.
func ForMode(m theme.Mode) Theme {
	if m == theme.Dark {
		return ThemeDark
	}
	return ThemeLight
}

// BackgroundNRGBA is the background as an opaque color.
func (t Theme) BackgroundNRGBA() color.NRGBA {
	return toNRGBA(mustHex(string(t.Background)))
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{R: 1, G: 1, B: 1}
	}
	return c
}

func toNRGBA(c colorful.Color) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// NRGBA converts one palette entry to an opaque color.
func NRGBA(c lipgloss.Color) color.NRGBA {
	return toNRGBA(mustHex(string(c)))
}
