package theme

import (
	"log/slog"
	"time"
)

// SpinDuration is how long the toggle control animates after a click.
const SpinDuration = 400 * time.Millisecond

// Switch owns the current mode and writes every change through to its store.
// It is read by the particle field on every frame.
type Switch struct {
	mode      Mode
	store     KV
	logger    *slog.Logger
	spinStart time.Time
}

// NewSwitch restores the persisted mode. Missing or unknown values fall back
// to Light.
func NewSwitch(store KV, logger *slog.Logger) *Switch {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Switch{mode: Light, store: store, logger: logger}
	if store == nil {
		return s
	}
	if v, ok := store.Get(Key); ok {
		m, err := Parse(v)
		if err != nil {
			logger.Warn("ignoring stored theme", "value", v, "err", err)
		}
		s.mode = m
	}
	return s
}

func (s *Switch) Theme() Mode { return s.mode }

// Set applies m and persists it.
func (s *Switch) Set(m Mode) error {
	s.mode = m
	if s.store == nil {
		return nil
	}
	return s.store.Set(Key, string(m))
}

// Toggle flips the mode, persists it and starts the spin animation. A failed
// write keeps the new mode in memory.
func (s *Switch) Toggle(now time.Time) Mode {
	next := s.mode.Toggle()
	if err := s.Set(next); err != nil {
		s.logger.Error("persist theme", "mode", next, "err", err)
	}
	s.spinStart = now
	return next
}

// Spin reports the toggle control transform at now: rotation in degrees and
// scale. Outside the animation window it is (0, 1).
func (s *Switch) Spin(now time.Time) (deg, scale float64) {
	if s.spinStart.IsZero() {
		return 0, 1
	}
	elapsed := now.Sub(s.spinStart)
	if elapsed < 0 || elapsed >= SpinDuration {
		return 0, 1
	}
	p := float64(elapsed) / float64(SpinDuration)
	return 360 * p, 1.3 - 0.3*p
}
