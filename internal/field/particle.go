package field

import (
	"math"
	"math/rand"

	"github.com/san-kum/pagefx/internal/theme"
)

type Particle struct {
	X, Y           float64
	SpeedX, SpeedY float64
	BaseSize, Size float64
	Life, MaxLife  int
	Opacity        float64
	Class          Class
}

// alpha is the current fill opacity: the base opacity scaled by the fraction
// of life left.
func (p *Particle) alpha() float64 {
	if p.MaxLife <= 0 {
		return 0
	}
	a := float64(p.Life) / float64(p.MaxLife) * p.Opacity
	return math.Max(0, math.Min(1, a))
}

// spread returns a uniform value in [-width/2, width/2).
func spread(rng *rand.Rand, width float64) float64 {
	return (rng.Float64() - 0.5) * width
}

func randomClass(rng *rand.Rand) Class {
	if rng.Float64() > 0.5 {
		return ClassA
	}
	return ClassB
}

func (a *Animator) reset(p *Particle) {
	px, py := a.pointer.Pointer()
	prm := &a.params

	p.X = px + spread(a.rng, prm.SpawnJitter)
	p.Y = py + spread(a.rng, prm.SpawnJitter)
	p.Size = p.BaseSize
	p.SpeedX = spread(a.rng, prm.SpeedRange)
	p.SpeedY = spread(a.rng, prm.SpeedRange)
	p.Life = prm.LifeMin
	if prm.LifeSpan > 0 {
		p.Life += a.rng.Intn(prm.LifeSpan)
	}
	p.MaxLife = p.Life
	p.Opacity = prm.OpacityMin + a.rng.Float64()*prm.OpacitySpan
	p.Class = randomClass(a.rng)
}

// update advances particle i by one tick. It reports whether the particle was
// reset.
func (a *Animator) update(i int) bool {
	p := &a.particles[i]
	prm := &a.params

	p.X += p.SpeedX
	p.Y += p.SpeedY
	p.Life--

	px, py := a.pointer.Pointer()
	dx, dy := px-p.X, py-p.Y
	dist := math.Sqrt(dx*dx + dy*dy)
	if dist > 0 && dist < prm.AttractRadius {
		force := (prm.AttractRadius - dist) / prm.AttractRadius
		p.SpeedX += dx / dist * force * prm.AttractStrength
		p.SpeedY += dy / dist * force * prm.AttractStrength
	}

	for j := range a.particles {
		if j == i {
			continue
		}
		q := &a.particles[j]
		dx, dy := q.X-p.X, q.Y-p.Y
		dist := math.Sqrt(dx*dx + dy*dy)
		if dist > 0 && dist < prm.RepelRadius {
			force := (prm.RepelRadius - dist) / prm.RepelRadius
			p.SpeedX -= dx / dist * force * prm.RepelStrength
			p.SpeedY -= dy / dist * force * prm.RepelStrength
		}
	}

	p.SpeedX *= prm.Friction
	p.SpeedY *= prm.Friction

	ms := float64(a.clock.Milliseconds())
	p.Size = p.BaseSize + math.Sin(ms*prm.PulseRate+p.X*prm.PulsePhase)*prm.PulseAmplitude

	if p.Life <= 0 || !a.inBounds(p.X, p.Y) {
		a.reset(p)
		return true
	}
	return false
}

// inBounds is written so that NaN coordinates fail it.
func (a *Animator) inBounds(x, y float64) bool {
	m := a.params.BoundsMargin
	return x >= -m && x <= a.width+m && y >= -m && y <= a.height+m
}

// draw paints particle i and its links to nearby particles of the same
// class. It returns the number of links drawn.
func (a *Animator) draw(i int, mode theme.Mode) int {
	p := &a.particles[i]
	prm := &a.params

	base := ColorFor(p.Class, mode)
	alpha := p.alpha()
	a.canvas.GlowCircle(p.X, p.Y, p.Size, p.Size*prm.GlowScale, base, alpha)

	links := 0
	for j := range a.particles {
		q := &a.particles[j]
		if j == i || q.Class != p.Class {
			continue
		}
		dx, dy := q.X-p.X, q.Y-p.Y
		dist := math.Sqrt(dx*dx + dy*dy)
		if dist < prm.LinkRadius {
			lineAlpha := (1 - dist/prm.LinkRadius) * alpha * prm.LinkAlpha
			a.canvas.Line(p.X, p.Y, q.X, q.Y, 1, base, lineAlpha)
			links++
		}
	}
	return links
}
