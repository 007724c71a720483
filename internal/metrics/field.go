package metrics

import "github.com/san-kum/pagefx/internal/field"

// MeanDistance is the average particle distance to the pointer.
type MeanDistance struct{ average }

func NewMeanDistance() *MeanDistance {
	return &MeanDistance{average{name: "mean_distance"}}
}

func (m *MeanDistance) Observe(s field.Stats) { m.add(s.MeanDistance) }

// ResetRate is the average number of particle resets per frame.
type ResetRate struct{ average }

func NewResetRate() *ResetRate {
	return &ResetRate{average{name: "reset_rate"}}
}

func (r *ResetRate) Observe(s field.Stats) { r.add(float64(s.Resets)) }

// Links is the average number of link lines drawn per frame.
type Links struct{ average }

func NewLinks() *Links {
	return &Links{average{name: "links"}}
}

func (l *Links) Observe(s field.Stats) { l.add(float64(s.Links)) }

// TrailOccupancy is the average trail length as a fraction of its cap.
type TrailOccupancy struct {
	average
	max int
}

func NewTrailOccupancy(limit int) *TrailOccupancy {
	return &TrailOccupancy{average: average{name: "trail_occupancy"}, max: limit}
}

func (t *TrailOccupancy) Observe(s field.Stats) {
	if t.max <= 0 {
		t.add(0)
		return
	}
	t.add(float64(s.Trail) / float64(t.max))
}

// Cohesion is the fraction of frames in which the swarm stayed within radius
// of the pointer on average.
type Cohesion struct {
	name       string
	radius     float64
	violations int
	samples    int
}

func NewCohesion(radius float64) *Cohesion {
	return &Cohesion{name: "cohesion", radius: radius}
}

func (c *Cohesion) Name() string { return c.name }

func (c *Cohesion) Observe(s field.Stats) {
	c.samples++
	if s.MeanDistance > c.radius {
		c.violations++
	}
}

func (c *Cohesion) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Cohesion) Reset() {
	c.violations = 0
	c.samples = 0
}
