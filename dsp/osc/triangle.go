package osc

import (
	"github.com/cwbudde/algo-rtdsp/dsp/core"
	"github.com/cwbudde/algo-rtdsp/dsp/fastmath"
	"github.com/cwbudde/algo-rtdsp/dsp/smooth"
)

const (
	defaultSlope = 0.5
	minSlope     = 0.001
	maxSlope     = 0.999
)

// Triangle shapes phase into a triangle in [-1, 1] rising until phase =
// slope and falling after. Slope 0.5 is symmetric; values near the ends
// approach a sawtooth. The slope is smoothed (tau 5 ms).
type Triangle struct {
	smooth      smooth.OnePoleCoeffs
	smoothState smooth.OnePoleState

	antialiasing bool
	slope        float32
}

// NewTriangle returns a symmetric triangle shaper.
func NewTriangle() Triangle {
	t := Triangle{
		smooth: smooth.NewOnePoleCoeffs(),
		slope:  defaultSlope,
	}
	t.smooth.SetTau(shapeSmoothingTau)

	return t
}

// SetSampleRate updates the slope smoother.
func (t *Triangle) SetSampleRate(sampleRate float32) {
	t.smooth.SetSampleRate(sampleRate)
	t.smooth.ResetCoeffs()
}

// Reset jumps the smoothed slope to its target.
func (t *Triangle) Reset() {
	t.smooth.ResetState(&t.smoothState, t.slope)
}

// UpdateAudio advances slope smoothing by one sample.
func (t *Triangle) UpdateAudio() {
	t.smooth.Process1(&t.smoothState, t.slope)
}

func naiveTriangle(x, slope float32) float32 {
	phaseD := x + x
	if x < slope {
		return (phaseD - slope) * fastmath.Rcp(slope)
	}

	return (1 + slope - phaseD) * fastmath.Rcp(1-slope)
}

// Process1 returns the naive triangle for phase x.
func (t *Triangle) Process1(x float32) float32 {
	return naiveTriangle(x, t.smoothState.Value())
}

// Process1Antialias returns the PolyBLAMP triangle for phase x and
// increment inc.
func (t *Triangle) Process1Antialias(x, inc float32) float32 {
	slope := t.smoothState.Value()
	v := naiveTriangle(x, slope)

	aInc := fastmath.Abs(inc)
	if aInc > 1e-6 {
		inc2 := aInc + aInc
		rcp := fastmath.Rcp(aInc)
		pwMinusPhase := slope - x
		phase2 := fastmath.Copysign(0.5, pwMinusPhase) + 0.5 - pwMinusPhase
		oneMinus := 1 - x
		oneMinus2 := 1 - phase2

		var blamp float32
		if oneMinus2 < inc2 {
			blamp += blampDiff(oneMinus2 * rcp)
		}
		if oneMinus < inc2 {
			blamp -= blampDiff(oneMinus * rcp)
		}
		if x < inc2 {
			blamp -= blampDiff(x * rcp)
		}
		if phase2 < inc2 {
			blamp += blampDiff(phase2 * rcp)
		}
		v -= fastmath.Rcp(slope*(1-slope)) * aInc * blamp
	}

	return v
}

// Process shapes one channel. xInc is only read with antialiasing on.
func (t *Triangle) Process(x, xInc, y []float32) {
	for i, v := range x {
		t.UpdateAudio()
		if t.antialiasing {
			y[i] = t.Process1Antialias(v, xInc[i])
		} else {
			y[i] = t.Process1(v)
		}
	}
}

// ProcessMulti shapes n samples of every channel, advancing the slope
// smoother once per sample.
func (t *Triangle) ProcessMulti(x, xInc, y [][]float32, n int) {
	for i := 0; i < n; i++ {
		t.UpdateAudio()
		for ch := range x {
			out := core.Channel(y, ch, n)
			if out == nil {
				continue
			}
			if t.antialiasing {
				out[i] = t.Process1Antialias(x[ch][i], xInc[ch][i])
			} else {
				out[i] = t.Process1(x[ch][i])
			}
		}
	}
}

// SetAntialiasing toggles PolyBLAMP band-limiting.
func (t *Triangle) SetAntialiasing(on bool) { t.antialiasing = on }

// SetSlope sets the rising fraction of the period, clamped to
// [0.001, 0.999].
func (t *Triangle) SetSlope(slope float32) {
	t.slope = core.Sanitize(slope, t.slope, minSlope, maxSlope)
}
