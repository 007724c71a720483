package field

import (
	"context"
	"image/color"
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/pagefx/internal/theme"
)

const frameDt = 16 * time.Millisecond

var _ = Describe("Animator", func() {
	var (
		params Params
		cursor *Cursor
		mode   *fixedTheme
		canvas *recorder
		a      *Animator
	)

	BeforeEach(func() {
		params = DefaultParams()
		cursor = &Cursor{X: 640, Y: 360}
		mode = &fixedTheme{mode: theme.Light}
		canvas = &recorder{}
		a = New(params, cursor, mode, WithCanvas(canvas), WithSeed(7), WithSize(1280, 720))
	})

	Describe("construction", func() {
		It("builds a fixed pool around the pointer", func() {
			ps := a.Particles()
			Expect(ps).To(HaveLen(70))
			for _, p := range ps {
				Expect(math.Abs(p.X - 640)).To(BeNumerically("<=", params.SpawnJitter/2))
				Expect(math.Abs(p.Y - 360)).To(BeNumerically("<=", params.SpawnJitter/2))
				Expect(p.Life).To(Equal(p.MaxLife))
				Expect(p.Life).To(BeNumerically(">=", params.LifeMin))
				Expect(p.Life).To(BeNumerically("<", params.LifeMin+params.LifeSpan))
				Expect(p.Opacity).To(BeNumerically(">=", params.OpacityMin))
				Expect(p.Opacity).To(BeNumerically("<", params.OpacityMin+params.OpacitySpan))
				Expect(p.BaseSize).To(BeNumerically(">=", params.BaseSizeMin))
			}
		})
	})

	Describe("one frame at (640,360) on 1280x720", func() {
		It("keeps every particle near the pointer with non-negative life", func() {
			a.Tick(frameDt)

			ps := a.Particles()
			Expect(ps).To(HaveLen(70))
			for _, p := range ps {
				// jitter half-width plus one frame of travel
				Expect(math.Abs(p.X - 640)).To(BeNumerically("<=", params.SpawnJitter/2+5))
				Expect(math.Abs(p.Y - 360)).To(BeNumerically("<=", params.SpawnJitter/2+5))
				Expect(p.Life).To(BeNumerically(">=", 0))
			}
			Expect(canvas.clears).To(Equal(1))
		})
	})

	Describe("life", func() {
		It("decreases by one per tick and resets at zero", func() {
			prev := a.Particles()
			for frame := 0; frame < 400; frame++ {
				a.Tick(frameDt)
				cur := a.Particles()
				for i := range cur {
					if cur[i].Life == prev[i].Life-1 {
						continue
					}
					// anything else must be a fresh reset
					Expect(cur[i].Life).To(Equal(cur[i].MaxLife))
					Expect(prev[i].Life).To(BeNumerically("<=", prev[i].MaxLife))
				}
				prev = cur
			}
		})

		It("resets a particle whose life runs out", func() {
			a.particles[0].Life = 1
			stats := a.Tick(frameDt)
			p := a.Particles()[0]
			Expect(p.Life).To(Equal(p.MaxLife))
			Expect(stats.Resets).To(BeNumerically(">=", 1))
		})
	})

	Describe("reset", func() {
		It("places the particle within the jitter box of the current pointer", func() {
			cursor.Move(100, 600)
			for i := 0; i < 200; i++ {
				p := &a.particles[i%len(a.particles)]
				a.reset(p)
				Expect(math.Abs(p.X - 100)).To(BeNumerically("<=", params.SpawnJitter/2))
				Expect(math.Abs(p.Y - 600)).To(BeNumerically("<=", params.SpawnJitter/2))
				Expect(math.Abs(p.SpeedX)).To(BeNumerically("<=", params.SpeedRange/2))
				Expect(p.Class).To(BeElementOf(ClassA, ClassB))
			}
		})
	})

	Describe("bounds", func() {
		It("leaves every particle inside the expanded viewport or freshly reset", func() {
			m := params.BoundsMargin
			for frame := 0; frame < 300; frame++ {
				if frame%50 == 0 {
					cursor.Move(float64(frame*4%1280), float64(frame*3%720))
				}
				a.Tick(frameDt)
				for _, p := range a.Particles() {
					inside := p.X >= -m && p.X <= 1280+m && p.Y >= -m && p.Y <= 720+m
					if !inside {
						Expect(p.Life).To(Equal(p.MaxLife), "out of bounds without reset")
					}
				}
			}
		})

		It("resets a particle pushed out of view", func() {
			a.particles[3].X = 5000
			a.particles[3].SpeedX = 0
			a.Tick(frameDt)
			Expect(math.Abs(a.Particles()[3].X - 640)).To(BeNumerically("<=", params.SpawnJitter/2))
		})

		It("recovers from NaN positions", func() {
			a.particles[5].X = math.NaN()
			a.Tick(frameDt)
			p := a.Particles()[5]
			Expect(math.IsNaN(p.X)).To(BeFalse())
			Expect(p.Life).To(Equal(p.MaxLife))
		})

		It("follows Resize", func() {
			a.Resize(200, 200)
			w, h := a.Size()
			Expect(w).To(Equal(200.0))
			Expect(h).To(Equal(200.0))
		})
	})

	Describe("degenerate distances", func() {
		It("skips forces for particles sitting exactly on the pointer or on each other", func() {
			for i := range a.particles {
				a.particles[i].X, a.particles[i].Y = 640, 360
				a.particles[i].SpeedX, a.particles[i].SpeedY = 0, 0
			}
			a.Tick(frameDt)
			for _, p := range a.Particles() {
				Expect(math.IsNaN(p.SpeedX)).To(BeFalse())
				Expect(math.IsNaN(p.SpeedY)).To(BeFalse())
			}
		})
	})

	Describe("attraction", func() {
		It("pulls a lone particle toward the pointer", func() {
			one := params
			one.Count = 1
			b := New(one, cursor, mode, WithSeed(1))
			b.particles[0].X, b.particles[0].Y = 540, 360
			b.particles[0].SpeedX, b.particles[0].SpeedY = 0, 0
			b.Tick(frameDt)
			Expect(b.Particles()[0].SpeedX).To(BeNumerically(">", 0))
		})
	})

	Describe("trail", func() {
		It("keeps at most TrailMax points", func() {
			for n := 1; n <= 30; n++ {
				a.PointerMoved(float64(n), float64(n))
				Expect(a.Trail()).To(HaveLen(min(n, params.TrailMax)))
			}
			// the oldest points were dropped
			Expect(a.Trail()[0].X).To(Equal(11.0))
		})

		It("drops points older than the TTL on the next draw", func() {
			for i := 0; i < 5; i++ {
				a.PointerMoved(100, 100)
			}
			a.Tick(100 * time.Millisecond)
			Expect(a.Trail()).To(HaveLen(5))

			a.Tick(params.TrailTTL)
			Expect(a.Trail()).To(BeEmpty())
		})

		It("draws trail points before particles", func() {
			a.PointerMoved(10, 10)
			a.Tick(frameDt)
			Expect(canvas.circles).ToNot(BeEmpty())
			first := canvas.circles[0]
			Expect(first.X).To(Equal(10.0))
			Expect(first.Y).To(Equal(10.0))
			Expect(canvas.circles).To(HaveLen(71))
		})

		It("dims trail points under the light theme", func() {
			a.PointerMoved(10, 10)
			a.Tick(0)
			Expect(canvas.circles[0].Alpha).To(BeNumerically("~", params.TrailLightAlpha, 1e-9))

			mode.mode = theme.Dark
			a.Tick(0)
			Expect(canvas.circles[0].Alpha).To(BeNumerically("~", 1.0, 1e-9))
		})
	})

	Describe("theme", func() {
		It("changes draw colors without touching particle state", func() {
			light := &fixedTheme{mode: theme.Light}
			dark := &fixedTheme{mode: theme.Dark}
			lc, dc := &recorder{}, &recorder{}
			la := New(params, &Cursor{X: 640, Y: 360}, light, WithCanvas(lc), WithSeed(42))
			da := New(params, &Cursor{X: 640, Y: 360}, dark, WithCanvas(dc), WithSeed(42))

			for i := 0; i < 10; i++ {
				la.Tick(frameDt)
				da.Tick(frameDt)
			}
			Expect(da.Particles()).To(Equal(la.Particles()))

			lightSet := []any{ColorFor(ClassA, theme.Light), ColorFor(ClassB, theme.Light)}
			darkSet := []any{ColorFor(ClassA, theme.Dark), ColorFor(ClassB, theme.Dark)}
			for _, c := range lc.circles {
				Expect(c.Color).To(BeElementOf(lightSet...))
			}
			for _, c := range dc.circles {
				Expect(c.Color).To(BeElementOf(darkSet...))
			}
		})
	})

	Describe("links", func() {
		It("joins only same-class particles with distance-faded lines", func() {
			a.Tick(frameDt)
			for _, l := range canvas.lines {
				Expect(l.Alpha).To(BeNumerically(">=", 0))
				Expect(l.Alpha).To(BeNumerically("<=", params.LinkAlpha))
			}
			Expect(canvas.lines).ToNot(BeEmpty())
		})

		It("draws every line between two particles of the same class", func() {
			// particles later in the pool are linked at their position
			// before this frame's update
			at := map[[2]float64]Class{}
			for _, p := range a.Particles() {
				at[[2]float64{p.X, p.Y}] = p.Class
			}
			a.Tick(frameDt)
			after := map[[2]float64]Class{}
			for _, p := range a.Particles() {
				after[[2]float64{p.X, p.Y}] = p.Class
				at[[2]float64{p.X, p.Y}] = p.Class
			}

			Expect(canvas.lines).ToNot(BeEmpty())
			for _, l := range canvas.lines {
				from, ok := after[[2]float64{l.X0, l.Y0}]
				Expect(ok).To(BeTrue(), "line starts off any particle")
				to, ok := at[[2]float64{l.X1, l.Y1}]
				Expect(ok).To(BeTrue(), "line ends off any particle")
				Expect(to).To(Equal(from))
				Expect(l.Color).To(Equal(ColorFor(from, theme.Light)))
			}
		})
	})

	DescribeTable("ColorFor",
		func(c Class, m theme.Mode, r, g, b uint8) {
			Expect(ColorFor(c, m)).To(Equal(color.NRGBA{R: r, G: g, B: b, A: 255}))
		},
		Entry("green on dark", ClassA, theme.Dark, uint8(129), uint8(199), uint8(132)),
		Entry("green on light", ClassA, theme.Light, uint8(102), uint8(187), uint8(106)),
		Entry("yellow on dark", ClassB, theme.Dark, uint8(255), uint8(213), uint8(79)),
		Entry("yellow on light", ClassB, theme.Light, uint8(255), uint8(193), uint8(7)),
	)

	Describe("Start", func() {
		It("ticks once per timestamp and stops when the channel closes", func() {
			frames := make(chan time.Time, 3)
			t0 := time.Unix(0, 0)
			frames <- t0
			frames <- t0.Add(frameDt)
			frames <- t0.Add(2 * frameDt)
			close(frames)

			var seen []Stats
			a.AddObserver(ObserverFunc(func(s Stats) { seen = append(seen, s) }))

			Expect(a.Start(context.Background(), frames)).To(Succeed())
			Expect(seen).To(HaveLen(3))
			Expect(a.Clock()).To(Equal(2 * frameDt))
			Expect(seen[2].Frame).To(Equal(3))
		})

		It("returns the context error when cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			Expect(a.Start(ctx, make(chan time.Time))).To(MatchError(context.Canceled))
		})
	})
})
