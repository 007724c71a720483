package field

import (
	"image/color"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/pagefx/internal/theme"
)

func TestField(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Field Suite")
}

type circleCall struct {
	X, Y, Radius, Glow float64
	Color              color.NRGBA
	Alpha              float64
}

type lineCall struct {
	X0, Y0, X1, Y1 float64
	Color          color.NRGBA
	Alpha          float64
}

// recorder is a Canvas that keeps the calls of the current frame.
type recorder struct {
	clears  int
	circles []circleCall
	lines   []lineCall
}

func (r *recorder) Clear() {
	r.clears++
	r.circles = r.circles[:0]
	r.lines = r.lines[:0]
}

func (r *recorder) GlowCircle(x, y, radius, glow float64, c color.NRGBA, alpha float64) {
	r.circles = append(r.circles, circleCall{x, y, radius, glow, c, alpha})
}

func (r *recorder) Line(x0, y0, x1, y1, _ float64, c color.NRGBA, alpha float64) {
	r.lines = append(r.lines, lineCall{x0, y0, x1, y1, c, alpha})
}

type fixedTheme struct{ mode theme.Mode }

func (f *fixedTheme) Theme() theme.Mode { return f.mode }
