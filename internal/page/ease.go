package page

// Bezier is a CSS cubic-bezier timing function with fixed end points (0,0)
// and (1,1).
type Bezier struct {
	X1, Y1, X2, Y2 float64
}

// Ease is the CSS "ease" keyword.
var Ease = Bezier{0.25, 0.1, 0.25, 1.0}

func (b Bezier) sampleX(t float64) float64 {
	return bezier(t, b.X1, b.X2)
}

func (b Bezier) sampleY(t float64) float64 {
	return bezier(t, b.Y1, b.Y2)
}

func bezier(t, p1, p2 float64) float64 {
	u := 1 - t
	return 3*u*u*t*p1 + 3*u*t*t*p2 + t*t*t
}

func bezierSlope(t, p1, p2 float64) float64 {
	u := 1 - t
	return 3*u*u*p1 + 6*u*t*(p2-p1) + 3*t*t*(1-p2)
}

// At maps linear progress x in [0, 1] to eased progress. Input outside the
// range is clamped.
func (b Bezier) At(x float64) float64 {
	switch {
	case x <= 0:
		return 0
	case x >= 1:
		return 1
	}

	// Newton first, bisection if the slope flattens out.
	t := x
	for i := 0; i < 8; i++ {
		err := b.sampleX(t) - x
		if err > -1e-7 && err < 1e-7 {
			return b.sampleY(t)
		}
		d := bezierSlope(t, b.X1, b.X2)
		if d > -1e-6 && d < 1e-6 {
			break
		}
		t -= err / d
	}

	lo, hi := 0.0, 1.0
	t = x
	for i := 0; i < 50; i++ {
		v := b.sampleX(t)
		if v-x > -1e-7 && v-x < 1e-7 {
			break
		}
		if v < x {
			lo = t
		} else {
			hi = t
		}
		t = (lo + hi) / 2
	}
	return b.sampleY(t)
}
