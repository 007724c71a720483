// Package automation runs scripted batches of headless recordings: YAML
// scenarios and single-parameter sweeps.
package automation

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/pagefx/internal/experiment"
	"github.com/san-kum/pagefx/internal/field"
	"github.com/san-kum/pagefx/internal/storage"
	"github.com/san-kum/pagefx/internal/theme"
)

// Scenario is a named list of recordings.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

type ScenarioStep struct {
	Preset string  `yaml:"preset"`
	Path   string  `yaml:"path"`
	Frames int     `yaml:"frames"`
	Seed   int64   `yaml:"seed"`
	Theme  string  `yaml:"theme"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	// Save stores the run when set.
	Save bool `yaml:"save"`
}

// StepResult is the outcome of one scenario step.
type StepResult struct {
	Step   ScenarioStep
	RunID  string
	Result *experiment.Result
}

// ParamsFunc resolves a preset name to field parameters.
type ParamsFunc func(preset string) (field.Params, error)

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("automation: %w", err)
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("automation: parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("automation: scenario %s has no steps", path)
	}
	return &scenario, nil
}

// RunScenario executes every step in order. Steps marked save are written
// to store, which may be nil when none are.
func RunScenario(ctx context.Context, sc *Scenario, params ParamsFunc, store *storage.Store, logger *slog.Logger) ([]StepResult, error) {
	if logger == nil {
		logger = slog.Default()
	}
	results := make([]StepResult, 0, len(sc.Steps))

	for i, step := range sc.Steps {
		step = withDefaults(step)
		logger.Info("scenario step", "scenario", sc.Name, "step", i+1, "of", len(sc.Steps), "preset", step.Preset, "path", step.Path)

		p, err := params(step.Preset)
		if err != nil {
			return results, fmt.Errorf("automation: step %d: %w", i+1, err)
		}
		mode, err := theme.Parse(step.Theme)
		if err != nil {
			return results, fmt.Errorf("automation: step %d: %w", i+1, err)
		}

		cfg := experiment.Config{
			Preset: step.Preset,
			Params: p,
			Path:   step.Path,
			Frames: step.Frames,
			Seed:   step.Seed,
			Width:  step.Width,
			Height: step.Height,
			Theme:  mode,
		}
		exp, err := experiment.New(cfg)
		if err != nil {
			return results, fmt.Errorf("automation: step %d: %w", i+1, err)
		}
		res, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("automation: step %d run: %w", i+1, err)
		}

		sr := StepResult{Step: step, Result: res}
		if step.Save {
			if store == nil {
				return results, fmt.Errorf("automation: step %d: no store to save to", i+1)
			}
			id, err := store.Save(res.Meta(exp.Config()), res.Frames)
			if err != nil {
				return results, fmt.Errorf("automation: step %d save: %w", i+1, err)
			}
			sr.RunID = id
		}
		results = append(results, sr)
	}
	return results, nil
}

func withDefaults(s ScenarioStep) ScenarioStep {
	if s.Preset == "" {
		s.Preset = "default"
	}
	if s.Path == "" {
		s.Path = "circle"
	}
	if s.Frames == 0 {
		s.Frames = 600
	}
	if s.Theme == "" {
		s.Theme = string(theme.Light)
	}
	if s.Width == 0 {
		s.Width = 1280
	}
	if s.Height == 0 {
		s.Height = 720
	}
	return s
}

// Sweep varies one field parameter over an evenly spaced range.
type Sweep struct {
	Base     experiment.Config
	Param    string
	Min, Max float64
	Steps    int
}

type SweepResult struct {
	Value   float64
	Metrics map[string]float64
}

var sweepable = map[string]func(*field.Params, float64){
	"count":            func(p *field.Params, v float64) { p.Count = int(v) },
	"spawn_jitter":     func(p *field.Params, v float64) { p.SpawnJitter = v },
	"speed_range":      func(p *field.Params, v float64) { p.SpeedRange = v },
	"attract_radius":   func(p *field.Params, v float64) { p.AttractRadius = v },
	"attract_strength": func(p *field.Params, v float64) { p.AttractStrength = v },
	"repel_radius":     func(p *field.Params, v float64) { p.RepelRadius = v },
	"repel_strength":   func(p *field.Params, v float64) { p.RepelStrength = v },
	"friction":         func(p *field.Params, v float64) { p.Friction = v },
	"link_radius":      func(p *field.Params, v float64) { p.LinkRadius = v },
	"trail_max":        func(p *field.Params, v float64) { p.TrailMax = int(v) },
}

// SweepParams lists the parameter names RunSweep accepts.
func SweepParams() []string {
	names := make([]string, 0, len(sweepable))
	for name := range sweepable {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetParam sets the named field parameter.
func SetParam(p *field.Params, name string, v float64) error {
	set, ok := sweepable[name]
	if !ok {
		return fmt.Errorf("automation: cannot sweep %q (available: %v)", name, SweepParams())
	}
	set(p, v)
	return nil
}

func RunSweep(ctx context.Context, sw Sweep, logger *slog.Logger) ([]SweepResult, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if _, ok := sweepable[sw.Param]; !ok {
		return nil, fmt.Errorf("automation: cannot sweep %q (available: %v)", sw.Param, SweepParams())
	}
	steps := sw.Steps
	if steps < 2 {
		steps = 2
	}
	step := (sw.Max - sw.Min) / float64(steps-1)

	results := make([]SweepResult, 0, steps)
	for i := 0; i < steps; i++ {
		v := sw.Min + float64(i)*step
		cfg := sw.Base
		_ = SetParam(&cfg.Params, sw.Param, v)

		exp, err := experiment.New(cfg)
		if err != nil {
			return nil, err
		}
		res, err := exp.Run(ctx)
		if err != nil {
			return nil, err
		}
		results = append(results, SweepResult{Value: v, Metrics: res.Metrics})
		logger.Debug("sweep", "param", sw.Param, "value", v, "step", i+1, "of", steps)
	}
	return results, nil
}
