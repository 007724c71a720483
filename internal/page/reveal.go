package page

import "time"

const (
	RevealThreshold  = 0.1
	RevealRootMargin = 100 // px cut from the bottom of the viewport
	RevealDuration   = 600 * time.Millisecond
	RevealOffset     = 30 // initial translateY in px
)

// Style is the animated state of one element.
type Style struct {
	Opacity    float64
	TranslateY float64
}

// Hidden is the style of an element that has not been revealed yet.
var Hidden = Style{Opacity: 0, TranslateY: RevealOffset}

// Reveal is a one-shot intersection tracker: once an element is seen it
// stays revealed.
type Reveal struct {
	rects      []Rect
	revealedAt []time.Duration
	revealed   []bool
}

func NewReveal(rects []Rect) *Reveal {
	return &Reveal{
		rects:      rects,
		revealedAt: make([]time.Duration, len(rects)),
		revealed:   make([]bool, len(rects)),
	}
}

// Observe checks every pending element against the viewport at scroll
// offset scrollY and returns the indexes revealed by this call.
func (r *Reveal) Observe(scrollY, vw, vh float64, now time.Duration) []int {
	root := Rect{X: 0, Y: scrollY, W: vw, H: max(0, vh-RevealRootMargin)}
	var fresh []int
	for i, rect := range r.rects {
		if r.revealed[i] {
			continue
		}
		if visibleFraction(rect, root) >= RevealThreshold {
			r.revealed[i] = true
			r.revealedAt[i] = now
			fresh = append(fresh, i)
		}
	}
	return fresh
}

func visibleFraction(el, root Rect) float64 {
	area := el.Area()
	if area <= 0 {
		// zero-size elements count as visible when they sit inside the root
		if el.X >= root.X && el.X <= root.X+root.W && el.Y >= root.Y && el.Y <= root.Bottom() {
			return 1
		}
		return 0
	}
	return el.Intersect(root).Area() / area
}

func (r *Reveal) Revealed(i int) bool {
	return i >= 0 && i < len(r.revealed) && r.revealed[i]
}

// Style returns the element's opacity and offset at time now.
func (r *Reveal) Style(i int, now time.Duration) Style {
	if !r.Revealed(i) {
		return Hidden
	}
	p := float64(now-r.revealedAt[i]) / float64(RevealDuration)
	e := Ease.At(p)
	return Style{Opacity: e, TranslateY: RevealOffset * (1 - e)}
}

// Pending is the number of elements still hidden.
func (r *Reveal) Pending() int {
	n := 0
	for _, ok := range r.revealed {
		if !ok {
			n++
		}
	}
	return n
}

// Relayout swaps in new element rects after a resize. Revealed elements stay
// revealed; the count must match.
func (r *Reveal) Relayout(rects []Rect) {
	if len(rects) != len(r.rects) {
		return
	}
	r.rects = rects
}
