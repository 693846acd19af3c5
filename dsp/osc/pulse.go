package osc

import (
	"github.com/cwbudde/algo-rtdsp/dsp/core"
	"github.com/cwbudde/algo-rtdsp/dsp/fastmath"
	"github.com/cwbudde/algo-rtdsp/dsp/smooth"
)

const (
	defaultPulseWidth = 0.5
	shapeSmoothingTau = 0.005
)

// Pulse shapes phase into a rectangular wave in [-1, 1] that is high while
// phase < pulse width. The width is smoothed (tau 5 ms).
type Pulse struct {
	smooth      smooth.OnePoleCoeffs
	smoothState smooth.OnePoleState

	antialiasing bool
	pulseWidth   float32
}

// NewPulse returns a pulse shaper with 50% width.
func NewPulse() Pulse {
	p := Pulse{
		smooth:     smooth.NewOnePoleCoeffs(),
		pulseWidth: defaultPulseWidth,
	}
	p.smooth.SetTau(shapeSmoothingTau)

	return p
}

// SetSampleRate updates the width smoother.
func (p *Pulse) SetSampleRate(sampleRate float32) {
	p.smooth.SetSampleRate(sampleRate)
	p.smooth.ResetCoeffs()
}

// Reset jumps the smoothed width to its target.
func (p *Pulse) Reset() {
	p.smooth.ResetState(&p.smoothState, p.pulseWidth)
}

// UpdateAudio advances width smoothing by one sample.
func (p *Pulse) UpdateAudio() {
	p.smooth.Process1(&p.smoothState, p.pulseWidth)
}

// Process1 returns the naive pulse for phase x.
func (p *Pulse) Process1(x float32) float32 {
	return fastmath.Sign(p.smoothState.Value() - x)
}

// Process1Antialias returns the PolyBLEP pulse for phase x and increment
// inc.
func (p *Pulse) Process1Antialias(x, inc float32) float32 {
	pwMinusPhase := p.smoothState.Value() - x
	v := fastmath.Copysign(1, pwMinusPhase)

	aInc := fastmath.Abs(inc)
	if aInc > 1e-6 {
		inc2 := aInc + aInc
		rcp := fastmath.Rcp(aInc)
		phase2 := 0.5*v + 0.5 - pwMinusPhase
		oneMinus := 1 - x
		oneMinus2 := 1 - phase2

		if oneMinus < inc2 {
			v -= blepDiff(oneMinus * rcp)
		}
		if oneMinus2 < inc2 {
			v += blepDiff(oneMinus2 * rcp)
		}
		if x < inc2 {
			v += blepDiff(x * rcp)
		}
		if phase2 < inc2 {
			v -= blepDiff(phase2 * rcp)
		}
	}

	return v
}

// Process shapes one channel. xInc is only read with antialiasing on.
func (p *Pulse) Process(x, xInc, y []float32) {
	for i, v := range x {
		p.UpdateAudio()
		if p.antialiasing {
			y[i] = p.Process1Antialias(v, xInc[i])
		} else {
			y[i] = p.Process1(v)
		}
	}
}

// ProcessMulti shapes n samples of every channel, advancing the width
// smoother once per sample.
func (p *Pulse) ProcessMulti(x, xInc, y [][]float32, n int) {
	for i := 0; i < n; i++ {
		p.UpdateAudio()
		for ch := range x {
			out := core.Channel(y, ch, n)
			if out == nil {
				continue
			}
			if p.antialiasing {
				out[i] = p.Process1Antialias(x[ch][i], xInc[ch][i])
			} else {
				out[i] = p.Process1(x[ch][i])
			}
		}
	}
}

// SetAntialiasing toggles PolyBLEP band-limiting.
func (p *Pulse) SetAntialiasing(on bool) { p.antialiasing = on }

// SetPulseWidth sets the high fraction of the period, clamped to [0, 1].
func (p *Pulse) SetPulseWidth(width float32) {
	p.pulseWidth = core.Sanitize(width, p.pulseWidth, 0, 1)
}
