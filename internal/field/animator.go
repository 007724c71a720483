package field

import (
	"context"
	"math"
	"math/rand"
	"time"
)

const (
	DefaultWidth  = 1280
	DefaultHeight = 720
)

// Stats summarizes one frame.
type Stats struct {
	Frame        int
	Clock        time.Duration
	Resets       int
	Trail        int
	Links        int
	MeanDistance float64 // mean particle distance to the pointer
}

type Observer interface {
	OnFrame(s Stats)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Stats)

func (f ObserverFunc) OnFrame(s Stats) { f(s) }

type Animator struct {
	params    Params
	pointer   PointerSource
	theme     ThemeSource
	canvas    Canvas
	rng       *rand.Rand
	width     float64
	height    float64
	particles []Particle
	trail     []TrailPoint
	clock     time.Duration
	frame     int
	observers []Observer
}

type Option func(*Animator)

func WithCanvas(c Canvas) Option {
	return func(a *Animator) { a.canvas = c }
}

func WithRand(rng *rand.Rand) Option {
	return func(a *Animator) { a.rng = rng }
}

func WithSeed(seed int64) Option {
	return func(a *Animator) { a.rng = rand.New(rand.NewSource(seed)) }
}

func WithSize(w, h float64) Option {
	return func(a *Animator) { a.width, a.height = w, h }
}

// New builds the particle pool. Every particle gets a base size and is then
// reset around the current pointer position.
func New(params Params, pointer PointerSource, theme ThemeSource, opts ...Option) *Animator {
	a := &Animator{
		params:  params,
		pointer: pointer,
		theme:   theme,
		canvas:  Discard{},
		width:   DefaultWidth,
		height:  DefaultHeight,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.rng == nil {
		a.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if a.params.Count < 0 {
		a.params.Count = 0
	}

	a.particles = make([]Particle, a.params.Count)
	for i := range a.particles {
		p := &a.particles[i]
		p.BaseSize = params.BaseSizeMin + a.rng.Float64()*params.BaseSizeSpan
		a.reset(p)
	}
	a.trail = make([]TrailPoint, 0, max(params.TrailMax, 0)+1)
	return a
}

func (a *Animator) AddObserver(o Observer) { a.observers = append(a.observers, o) }

// Resize updates the surface bounds used by the out-of-view check.
func (a *Animator) Resize(w, h float64) {
	a.width, a.height = w, h
}

func (a *Animator) Size() (w, h float64) { return a.width, a.height }

func (a *Animator) Clock() time.Duration { return a.clock }

func (a *Animator) Params() Params { return a.params }

// Particles returns a copy of the pool.
func (a *Animator) Particles() []Particle {
	out := make([]Particle, len(a.particles))
	copy(out, a.particles)
	return out
}

// Trail returns a copy of the live trail points, oldest first.
func (a *Animator) Trail() []TrailPoint {
	out := make([]TrailPoint, len(a.trail))
	copy(out, a.trail)
	return out
}

// Tick runs one frame: advance the clock by dt, clear the canvas, draw the
// trail, then update and draw every particle in pool order.
func (a *Animator) Tick(dt time.Duration) Stats {
	if dt > 0 {
		a.clock += dt
	}
	a.frame++

	mode := a.theme.Theme()
	a.canvas.Clear()
	a.drawTrail(mode)

	stats := Stats{Frame: a.frame, Clock: a.clock}
	px, py := a.pointer.Pointer()
	var dist float64
	for i := range a.particles {
		if a.update(i) {
			stats.Resets++
		}
		stats.Links += a.draw(i, mode)

		p := &a.particles[i]
		dist += math.Hypot(p.X-px, p.Y-py)
	}
	if n := len(a.particles); n > 0 {
		stats.MeanDistance = dist / float64(n)
	}
	stats.Trail = len(a.trail)

	for _, o := range a.observers {
		o.OnFrame(stats)
	}
	return stats
}

// Start ticks once per timestamp received on frames, using the gap between
// timestamps as dt. It returns nil when frames is closed and ctx.Err() when
// the context ends first.
func (a *Animator) Start(ctx context.Context, frames <-chan time.Time) error {
	var last time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ts, ok := <-frames:
			if !ok {
				return nil
			}
			var dt time.Duration
			if !last.IsZero() {
				dt = ts.Sub(last)
			}
			last = ts
			a.Tick(dt)
		}
	}
}
