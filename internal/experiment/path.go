package experiment

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/aquilax/go-perlin"
)

// Path scripts the pointer for a headless run. It returns the position at
// a frame and whether the pointer is inside the window.
type Path func(frame int, w, h float64) (x, y float64, inside bool)

var paths = map[string]func(rng *rand.Rand) Path{
	"still": func(*rand.Rand) Path {
		return func(_ int, w, h float64) (float64, float64, bool) { return w / 2, h / 2, true }
	},
	"circle": func(*rand.Rand) Path { return circlePath },
	"figure8": func(*rand.Rand) Path {
		return func(i int, w, h float64) (float64, float64, bool) {
			a := float64(i) * 2 * math.Pi / 300
			return w/2 + w/3*math.Sin(a), h/2 + h/4*math.Sin(2*a), true
		}
	},
	"sweep": func(*rand.Rand) Path {
		return func(i int, w, h float64) (float64, float64, bool) {
			p := float64(i%180) / 180
			if (i/180)%2 == 1 {
				p = 1 - p
			}
			return p * w, h / 2, true
		}
	},
	// wander is a seeded random walk kept inside the window.
	"wander": func(rng *rand.Rand) Path {
		var x, y float64
		started := false
		return func(_ int, w, h float64) (float64, float64, bool) {
			if !started {
				x, y, started = w/2, h/2, true
			}
			x = math.Max(0, math.Min(w, x+(rng.Float64()-0.5)*24))
			y = math.Max(0, math.Min(h, y+(rng.Float64()-0.5)*24))
			return x, y, true
		}
	},
	// drift follows two smooth noise curves, one per axis.
	"drift": func(rng *rand.Rand) Path {
		noise := perlin.NewPerlin(2, 2, 3, rng.Int63())
		return func(i int, w, h float64) (float64, float64, bool) {
			t := float64(i) / 90
			nx := math.Max(-1, math.Min(1, noise.Noise2D(t, 0)*1.5))
			ny := math.Max(-1, math.Min(1, noise.Noise2D(0, t+100)*1.5))
			return w/2 + nx*w/2, h/2 + ny*h/2, true
		}
	},
	// exit circles for two seconds, then leaves the window.
	"exit": func(*rand.Rand) Path {
		return func(i int, w, h float64) (float64, float64, bool) {
			if i >= 120 {
				return -1, -1, false
			}
			return circlePath(i, w, h)
		}
	},
}

// circlePath goes once around a centered circle every 240 frames.
func circlePath(i int, w, h float64) (float64, float64, bool) {
	a := float64(i) * 2 * math.Pi / 240
	r := math.Min(w, h) / 3
	return w/2 + r*math.Cos(a), h/2 + r*math.Sin(a), true
}

// GetPath builds a named path. rng drives the random ones.
func GetPath(name string, rng *rand.Rand) (Path, error) {
	fn, ok := paths[name]
	if !ok {
		return nil, fmt.Errorf("experiment: unknown path %q (available: %v)", name, ListPaths())
	}
	return fn(rng), nil
}

func ListPaths() []string {
	names := make([]string, 0, len(paths))
	for name := range paths {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
