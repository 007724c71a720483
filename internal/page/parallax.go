package page

// ParallaxFactor scales the scroll delta into the nudge offset.
const ParallaxFactor = 0.1

// Parallax nudges an element by a fraction of the latest scroll delta. The
// offset is relative to the previous event, not to the page top.
type Parallax struct {
	last   float64
	offset float64
}

// Scroll records a new scroll position and returns the translateY to apply.
func (p *Parallax) Scroll(y float64) float64 {
	p.offset = (y - p.last) * ParallaxFactor
	p.last = y
	return p.offset
}

func (p *Parallax) Offset() float64 { return p.offset }
