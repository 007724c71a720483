package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/pagefx/internal/field"
	"github.com/san-kum/pagefx/internal/page"
)

const (
	DefaultWidth  = 1280
	DefaultHeight = 720
	DefaultFPS    = 60
	DefaultTitle  = "pagefx"

	DefaultThemeStore = "~/.config/pagefx/state.yaml"
	DefaultRunsDir    = "runs"
	DefaultFrames     = 600
)

var ErrInvalidConfig = errors.New("config: invalid value")

type Config struct {
	Preset string       `yaml:"preset"`
	Seed   int64        `yaml:"seed"`
	Window WindowConfig `yaml:"window"`
	Field  FieldConfig  `yaml:"field"`
	Trail  TrailConfig  `yaml:"trail"`
	Theme  ThemeConfig  `yaml:"theme"`
	Page   PageConfig   `yaml:"page"`
	Audio  AudioConfig  `yaml:"audio"`
	Record RecordConfig `yaml:"record"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	FPS    int    `yaml:"fps"`
	Title  string `yaml:"title"`
}

type FieldConfig struct {
	Count           int     `yaml:"count"`
	SpawnJitter     float64 `yaml:"spawn_jitter"`
	SpeedRange      float64 `yaml:"speed_range"`
	LifeMin         int     `yaml:"life_min"`
	LifeSpan        int     `yaml:"life_span"`
	OpacityMin      float64 `yaml:"opacity_min"`
	OpacitySpan     float64 `yaml:"opacity_span"`
	BaseSizeMin     float64 `yaml:"base_size_min"`
	BaseSizeSpan    float64 `yaml:"base_size_span"`
	AttractRadius   float64 `yaml:"attract_radius"`
	AttractStrength float64 `yaml:"attract_strength"`
	RepelRadius     float64 `yaml:"repel_radius"`
	RepelStrength   float64 `yaml:"repel_strength"`
	Friction        float64 `yaml:"friction"`
	PulseAmplitude  float64 `yaml:"pulse_amplitude"`
	PulseRate       float64 `yaml:"pulse_rate"`
	PulsePhase      float64 `yaml:"pulse_phase"`
	BoundsMargin    float64 `yaml:"bounds_margin"`
	GlowScale       float64 `yaml:"glow_scale"`
	LinkRadius      float64 `yaml:"link_radius"`
	LinkAlpha       float64 `yaml:"link_alpha"`
}

type TrailConfig struct {
	Max        int     `yaml:"max"`
	TTLMs      int     `yaml:"ttl_ms"`
	SizeMin    float64 `yaml:"size_min"`
	SizeSpan   float64 `yaml:"size_span"`
	LightAlpha float64 `yaml:"light_alpha"`
}

type ThemeConfig struct {
	// Store is the YAML file holding the persisted theme flag.
	Store string `yaml:"store"`
}

type PageConfig struct {
	Sections []page.Section `yaml:"sections"`
}

type AudioConfig struct {
	Enabled bool `yaml:"enabled"`
}

type RecordConfig struct {
	Dir    string `yaml:"dir"`
	Frames int    `yaml:"frames"`
}

func DefaultConfig() *Config {
	p := field.DefaultParams()
	return &Config{
		Preset: "default",
		Window: WindowConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
			FPS:    DefaultFPS,
			Title:  DefaultTitle,
		},
		Field: FieldConfig{
			Count:           p.Count,
			SpawnJitter:     p.SpawnJitter,
			SpeedRange:      p.SpeedRange,
			LifeMin:         p.LifeMin,
			LifeSpan:        p.LifeSpan,
			OpacityMin:      p.OpacityMin,
			OpacitySpan:     p.OpacitySpan,
			BaseSizeMin:     p.BaseSizeMin,
			BaseSizeSpan:    p.BaseSizeSpan,
			AttractRadius:   p.AttractRadius,
			AttractStrength: p.AttractStrength,
			RepelRadius:     p.RepelRadius,
			RepelStrength:   p.RepelStrength,
			Friction:        p.Friction,
			PulseAmplitude:  p.PulseAmplitude,
			PulseRate:       p.PulseRate,
			PulsePhase:      p.PulsePhase,
			BoundsMargin:    p.BoundsMargin,
			GlowScale:       p.GlowScale,
			LinkRadius:      p.LinkRadius,
			LinkAlpha:       p.LinkAlpha,
		},
		Trail: TrailConfig{
			Max:        p.TrailMax,
			TTLMs:      int(p.TrailTTL / time.Millisecond),
			SizeMin:    p.TrailSizeMin,
			SizeSpan:   p.TrailSizeSpan,
			LightAlpha: p.TrailLightAlpha,
		},
		Theme:  ThemeConfig{Store: DefaultThemeStore},
		Page:   PageConfig{Sections: DefaultSections()},
		Audio:  AudioConfig{Enabled: true},
		Record: RecordConfig{Dir: DefaultRunsDir, Frames: DefaultFrames},
	}
}

// DefaultSections is the sample page shown when no sections are configured.
func DefaultSections() []page.Section {
	return []page.Section{
		{Title: "About", Body: []string{
			"Move the pointer: the field follows it.",
			"Scroll to reveal the sections below.",
		}},
		{Title: "Reflections", Body: []string{
			"Small things, done with care.",
			"Every frame is a fresh start.",
		}},
		{Title: "Quotes", Quotes: []page.Quote{
			{Text: "Simplicity is prerequisite for reliability."},
			{Text: "Press play to hear this one.", Src: "quotes/quote1.mp3"},
			{Text: "And this one too.", Src: "quotes/quote2.wav"},
		}},
		{Title: "Links", Body: []string{"github.com/san-kum"}},
		{Title: "Contact", Body: []string{"hello@example.com"}},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports the first field outside its allowed range.
func (c *Config) Validate() error {
	checks := []struct {
		ok   bool
		name string
	}{
		{c.Window.Width > 0 && c.Window.Height > 0, "window size"},
		{c.Window.FPS > 0, "window.fps"},
		{c.Field.Count >= 0, "field.count"},
		{c.Field.LifeMin > 0, "field.life_min"},
		{c.Field.LifeSpan >= 0, "field.life_span"},
		{c.Field.SpawnJitter >= 0, "field.spawn_jitter"},
		{c.Field.OpacityMin >= 0 && c.Field.OpacityMin+c.Field.OpacitySpan <= 1, "field opacity range"},
		{c.Field.AttractRadius > 0, "field.attract_radius"},
		{c.Field.RepelRadius > 0, "field.repel_radius"},
		{c.Field.LinkRadius > 0, "field.link_radius"},
		{c.Field.Friction > 0 && c.Field.Friction <= 1, "field.friction"},
		{c.Field.BoundsMargin >= 0, "field.bounds_margin"},
		{c.Trail.Max >= 0, "trail.max"},
		{c.Trail.TTLMs > 0, "trail.ttl_ms"},
		{c.Trail.LightAlpha >= 0 && c.Trail.LightAlpha <= 1, "trail.light_alpha"},
		{c.Record.Frames >= 0, "record.frames"},
	}
	for _, ch := range checks {
		if !ch.ok {
			return fmt.Errorf("%w: %s", ErrInvalidConfig, ch.name)
		}
	}
	return nil
}

// FieldParams converts the field and trail sections for field.New.
func (c *Config) FieldParams() field.Params {
	f := c.Field
	return field.Params{
		Count:           f.Count,
		SpawnJitter:     f.SpawnJitter,
		SpeedRange:      f.SpeedRange,
		LifeMin:         f.LifeMin,
		LifeSpan:        f.LifeSpan,
		OpacityMin:      f.OpacityMin,
		OpacitySpan:     f.OpacitySpan,
		BaseSizeMin:     f.BaseSizeMin,
		BaseSizeSpan:    f.BaseSizeSpan,
		AttractRadius:   f.AttractRadius,
		AttractStrength: f.AttractStrength,
		RepelRadius:     f.RepelRadius,
		RepelStrength:   f.RepelStrength,
		Friction:        f.Friction,
		PulseAmplitude:  f.PulseAmplitude,
		PulseRate:       f.PulseRate,
		PulsePhase:      f.PulsePhase,
		BoundsMargin:    f.BoundsMargin,
		GlowScale:       f.GlowScale,
		LinkRadius:      f.LinkRadius,
		LinkAlpha:       f.LinkAlpha,
		TrailMax:        c.Trail.Max,
		TrailTTL:        time.Duration(c.Trail.TTLMs) * time.Millisecond,
		TrailSizeMin:    c.Trail.SizeMin,
		TrailSizeSpan:   c.Trail.SizeSpan,
		TrailLightAlpha: c.Trail.LightAlpha,
	}
}

// ThemeStorePath resolves a leading ~ in Theme.Store.
func (c *Config) ThemeStorePath() (string, error) {
	p := c.Theme.Store
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("config: resolve %s: %w", p, err)
		}
		p = filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	return p, nil
}
