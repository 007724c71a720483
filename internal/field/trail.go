package field

import (
	"math"
	"time"

	"github.com/san-kum/pagefx/internal/theme"
)

type TrailPoint struct {
	X, Y  float64
	Born  time.Duration // animator clock at the move event
	Size  float64
	Class Class
}

// PointerMoved records a trail point at (x, y). The pointer position itself
// is owned by the PointerSource; hosts update both from the same event.
func (a *Animator) PointerMoved(x, y float64) {
	a.trail = append(a.trail, TrailPoint{
		X:     x,
		Y:     y,
		Born:  a.clock,
		Size:  a.params.TrailSizeMin + a.rng.Float64()*a.params.TrailSizeSpan,
		Class: randomClass(a.rng),
	})
	if over := len(a.trail) - a.params.TrailMax; over > 0 {
		a.trail = append(a.trail[:0], a.trail[over:]...)
	}
}

func (a *Animator) drawTrail(mode theme.Mode) {
	ttl := a.params.TrailTTL
	for _, pt := range a.trail {
		age := a.clock - pt.Born
		fade := 1.0
		if ttl > 0 {
			fade = math.Max(0, 1-float64(age)/float64(ttl))
		}
		if fade <= 0 {
			continue
		}
		size := pt.Size * fade
		alpha := fade
		if mode != theme.Dark {
			alpha *= a.params.TrailLightAlpha
		}
		a.canvas.GlowCircle(pt.X, pt.Y, size, size*2, ColorFor(pt.Class, mode), alpha)
	}

	kept := a.trail[:0]
	for _, pt := range a.trail {
		if a.clock-pt.Born < ttl {
			kept = append(kept, pt)
		}
	}
	a.trail = kept
}
