package metrics

import (
	"github.com/san-kum/pagefx/internal/field"
)

// Metric accumulates one number over the frames of a run.
type Metric interface {
	Name() string
	Observe(s field.Stats)
	Value() float64
	Reset()
}

// Set forwards every frame to its metrics. It implements field.Observer.
type Set []Metric

func (s Set) OnFrame(st field.Stats) {
	for _, m := range s {
		m.Observe(st)
	}
}

func (s Set) Reset() {
	for _, m := range s {
		m.Reset()
	}
}

// Values returns name → value for every metric.
func (s Set) Values() map[string]float64 {
	out := make(map[string]float64, len(s))
	for _, m := range s {
		out[m.Name()] = m.Value()
	}
	return out
}

// Default returns the metrics recorded with every run.
func Default(p field.Params) Set {
	return Set{
		NewMeanDistance(),
		NewResetRate(),
		NewTrailOccupancy(p.TrailMax),
		NewLinks(),
		NewCohesion(p.AttractRadius),
	}
}

// average is the running mean shared by the per-frame metrics.
type average struct {
	name    string
	sum     float64
	samples int
}

func (a *average) Name() string { return a.name }

func (a *average) add(v float64) {
	a.sum += v
	a.samples++
}

func (a *average) Value() float64 {
	if a.samples == 0 {
		return 0
	}
	return a.sum / float64(a.samples)
}

func (a *average) Reset() {
	a.sum = 0
	a.samples = 0
}
