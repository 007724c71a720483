// Package experiment drives the particle field headless: a scripted pointer
// path, a fixed frame time and a set of metrics.
package experiment

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/san-kum/pagefx/internal/field"
	"github.com/san-kum/pagefx/internal/metrics"
	"github.com/san-kum/pagefx/internal/storage"
	"github.com/san-kum/pagefx/internal/theme"
)

// FrameTime is the tick length of a headless run.
const FrameTime = time.Second / 60

type Config struct {
	Preset string
	Params field.Params
	Path   string
	Frames int
	Seed   int64
	Width  float64
	Height float64
	Theme  theme.Mode
	// Canvas receives every frame; nil draws nothing.
	Canvas field.Canvas
}

type Result struct {
	Frames  []storage.Frame
	Metrics map[string]float64
	Elapsed time.Duration
	// Final is the field after the last frame.
	Final []field.Particle
}

// Meta fills the run metadata for storage.Save.
func (r *Result) Meta(cfg Config) storage.RunMetadata {
	return storage.RunMetadata{
		Preset:    cfg.Preset,
		Seed:      cfg.Seed,
		Particles: cfg.Params.Count,
		Width:     cfg.Width,
		Height:    cfg.Height,
		Path:      cfg.Path,
		Theme:     string(cfg.Theme),
		Metrics:   r.Metrics,
	}
}

type staticTheme theme.Mode

func (m staticTheme) Theme() theme.Mode { return theme.Mode(m) }

type Experiment struct {
	cfg  Config
	path Path
	rng  *rand.Rand
}

func New(cfg Config) (*Experiment, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("experiment: bad size %vx%v", cfg.Width, cfg.Height)
	}
	if cfg.Frames < 0 {
		return nil, fmt.Errorf("experiment: negative frame count %d", cfg.Frames)
	}
	if cfg.Path == "" {
		cfg.Path = "circle"
	}
	if cfg.Theme == "" {
		cfg.Theme = theme.Light
	}
	// the path gets its own stream so it does not shift the field's draws
	rng := rand.New(rand.NewSource(cfg.Seed ^ 0x5eed))
	path, err := GetPath(cfg.Path, rng)
	if err != nil {
		return nil, err
	}
	return &Experiment{cfg: cfg, path: path, rng: rng}, nil
}

func (e *Experiment) Config() Config { return e.cfg }

// Run ticks the field Frames times. It stops early with ctx's error.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	cfg := e.cfg
	canvas := cfg.Canvas
	if canvas == nil {
		canvas = field.Discard{}
	}

	cursor := field.NewCursor(cfg.Width, cfg.Height)
	anim := field.New(cfg.Params, cursor, staticTheme(cfg.Theme),
		field.WithCanvas(canvas),
		field.WithSeed(cfg.Seed),
		field.WithSize(cfg.Width, cfg.Height),
	)
	rec := &storage.Recorder{}
	ms := metrics.Default(cfg.Params)
	anim.AddObserver(rec)
	anim.AddObserver(ms)

	start := time.Now()
	wasInside := true
	for i := 0; i < cfg.Frames; i++ {
		if i%64 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		x, y, inside := e.path(i, cfg.Width, cfg.Height)
		if inside {
			cursor.Move(x, y)
			anim.PointerMoved(x, y)
		} else if wasInside {
			cursor.Leave(cfg.Width, cfg.Height)
		}
		wasInside = inside
		anim.Tick(FrameTime)
	}

	return &Result{
		Frames:  rec.Frames(),
		Metrics: ms.Values(),
		Elapsed: time.Since(start),
		Final:   anim.Particles(),
	}, nil
}

// Ensemble runs n copies of cfg in parallel with seeds cfg.Seed, cfg.Seed+1,
// and so on. Canvas is dropped; a canvas is not safe to share.
func Ensemble(ctx context.Context, cfg Config, n int) ([]*Result, error) {
	results := make([]*Result, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			c := cfg
			c.Seed = cfg.Seed + int64(idx)
			c.Canvas = nil
			exp, err := New(c)
			if err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = exp.Run(ctx)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

// Mean averages each metric over an ensemble.
func Mean(results []*Result) map[string]float64 {
	out := make(map[string]float64)
	if len(results) == 0 {
		return out
	}
	for _, r := range results {
		for k, v := range r.Metrics {
			out[k] += v
		}
	}
	for k := range out {
		out[k] /= float64(len(results))
	}
	return out
}
