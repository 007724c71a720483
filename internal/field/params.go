package field

import "time"

// Params holds every tunable of the effect. Forces are applied per tick, so
// the values are calibrated for a 60Hz display.
type Params struct {
	Count int

	// Spawn
	SpawnJitter  float64 // full width of the square around the pointer
	SpeedRange   float64 // full width of the initial speed range per axis
	LifeMin      int
	LifeSpan     int
	OpacityMin   float64
	OpacitySpan  float64
	BaseSizeMin  float64
	BaseSizeSpan float64

	// Forces
	AttractRadius   float64
	AttractStrength float64
	RepelRadius     float64
	RepelStrength   float64
	Friction        float64

	// Size pulse: BaseSize + PulseAmplitude*sin(clockMs*PulseRate + x*PulsePhase)
	PulseAmplitude float64
	PulseRate      float64
	PulsePhase     float64

	BoundsMargin float64

	// Drawing
	GlowScale  float64
	LinkRadius float64
	LinkAlpha  float64

	// Trail
	TrailMax        int
	TrailTTL        time.Duration
	TrailSizeMin    float64
	TrailSizeSpan   float64
	TrailLightAlpha float64
}

func DefaultParams() Params {
	return Params{
		Count: 70,

		SpawnJitter:  200,
		SpeedRange:   0.8,
		LifeMin:      100,
		LifeSpan:     150,
		OpacityMin:   0.4,
		OpacitySpan:  0.6,
		BaseSizeMin:  2,
		BaseSizeSpan: 4,

		AttractRadius:   200,
		AttractStrength: 0.02,
		RepelRadius:     30,
		RepelStrength:   0.01,
		Friction:        0.97,

		PulseAmplitude: 1,
		PulseRate:      0.003,
		PulsePhase:     0.01,

		BoundsMargin: 50,

		GlowScale:  3,
		LinkRadius: 120,
		LinkAlpha:  0.25,

		TrailMax:        20,
		TrailTTL:        400 * time.Millisecond,
		TrailSizeMin:    4,
		TrailSizeSpan:   8,
		TrailLightAlpha: 0.7,
	}
}
