package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/pagefx/internal/field"
	"github.com/san-kum/pagefx/internal/theme"
)

func TestAverages(t *testing.T) {
	frames := []field.Stats{
		{Resets: 2, Links: 10, Trail: 5, MeanDistance: 50},
		{Resets: 0, Links: 20, Trail: 15, MeanDistance: 150},
	}
	tests := []struct {
		m    Metric
		want float64
	}{
		{NewMeanDistance(), 100},
		{NewResetRate(), 1},
		{NewLinks(), 15},
		{NewTrailOccupancy(20), 0.5},
		{NewCohesion(100), 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.m.Name(), func(t *testing.T) {
			for _, s := range frames {
				tt.m.Observe(s)
			}
			if got := tt.m.Value(); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Value() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEmptyAndReset(t *testing.T) {
	m := NewMeanDistance()
	if m.Value() != 0 {
		t.Error("expected zero before any frame")
	}
	m.Observe(field.Stats{MeanDistance: 10})
	if m.Value() == 0 {
		t.Error("expected non-zero after a frame")
	}
	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}

	c := NewCohesion(1)
	if c.Value() != 1 {
		t.Error("cohesion should start at 1")
	}
	if NewTrailOccupancy(0).Value() != 0 {
		t.Error("zero cap occupancy should be zero")
	}
}

type mode struct{}

func (mode) Theme() theme.Mode { return theme.Dark }

func TestSetObservesAnimator(t *testing.T) {
	p := field.DefaultParams()
	set := Default(p)
	a := field.New(p, field.NewCursor(1280, 720), mode{}, field.WithSeed(3))
	a.AddObserver(set)

	for i := 0; i < 30; i++ {
		a.Tick(0)
	}
	v := set.Values()
	if len(v) != 5 {
		t.Fatalf("got %d metrics", len(v))
	}
	if v["mean_distance"] <= 0 || v["mean_distance"] > p.SpawnJitter {
		t.Errorf("mean_distance = %v", v["mean_distance"])
	}
	if v["cohesion"] != 1 {
		t.Errorf("cohesion = %v, want 1 for a swarm around a still pointer", v["cohesion"])
	}

	set.Reset()
	if set.Values()["links"] != 0 {
		t.Error("Reset did not clear links")
	}
}
