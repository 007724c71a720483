package theme

import (
	"errors"
	"fmt"
	"strings"
)

// Mode is the page-wide theme flag.
type Mode string

const (
	Light Mode = "light"
	Dark  Mode = "dark"
)

// Key is the store key the flag is persisted under.
const Key = "theme"

var ErrUnknownMode = errors.New("theme: unknown mode")

// Parse accepts "light" or "dark" in any case.
func Parse(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case Light:
		return Light, nil
	case Dark:
		return Dark, nil
	}
	return Light, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

func (m Mode) Toggle() Mode {
	if m == Dark {
		return Light
	}
	return Dark
}

// Icon is the glyph shown on the toggle: the target of the next click.
func (m Mode) Icon() string {
	if m == Dark {
		return "☀️"
	}
	return "🌙"
}

func (m Mode) String() string { return string(m) }
