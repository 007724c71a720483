package config

import "sort"

// Presets tweak the default configuration.
var Presets = map[string]func(*Config){
	"default": func(*Config) {},
	"calm": func(c *Config) {
		c.Field.Count = 40
		c.Field.SpeedRange = 0.4
		c.Field.AttractStrength = 0.01
		c.Field.Friction = 0.98
		c.Field.LinkRadius = 90
		c.Trail.Max = 12
		c.Trail.TTLMs = 600
	},
	"swarm": func(c *Config) {
		c.Field.Count = 150
		c.Field.SpawnJitter = 300
		c.Field.SpeedRange = 1.2
		c.Field.AttractStrength = 0.03
		c.Field.RepelRadius = 20
		c.Field.LinkRadius = 80
		c.Trail.Max = 30
	},
}

// GetPreset returns a fresh config for the named preset, or nil.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Preset = name
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
