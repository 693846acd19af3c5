package effects

import (
	"github.com/cwbudde/algo-rtdsp/dsp/core"
	"github.com/cwbudde/algo-rtdsp/dsp/fastmath"
	"github.com/cwbudde/algo-rtdsp/dsp/smooth"
)

const (
	// MaxShaperBias bounds the magnitude of the input bias of Clip and Satur.
	MaxShaperBias = 1e12
	// MinShaperGain and MaxShaperGain bound the input gain of Clip and Satur.
	MinShaperGain = 1e-12
	MaxShaperGain = 1e12

	shaperSmoothTau    = 0.005
	shaperStickyThresh = 1e-3

	// below this squared input difference the antiderivative quotient is
	// replaced by the midpoint value.
	shaperADAAEpsilon = 1e-6
)

// shaperCoeffs holds the smoothed input bias and gain shared by the
// antiderivative-antialiased waveshapers. The bias is removed from the
// output again (biasDC) and the gain optionally compensated (invGain).
type shaperCoeffs struct {
	smoothCoeffs smooth.OnePoleCoeffs
	biasState    smooth.OnePoleState
	gainState    smooth.OnePoleState

	biasDC  float32
	invGain float32

	bias             float32
	gain             float32
	gainCompensation bool

	curve func(float32) float32
}

// ShaperState is the per-channel memory of Clip and Satur: the previous
// biased input and its antiderivative.
type ShaperState struct {
	xZ1 float32
	fZ1 float32
}

func newShaperCoeffs(curve func(float32) float32, gainCompensation bool) shaperCoeffs {
	c := shaperCoeffs{
		smoothCoeffs:     smooth.NewOnePoleCoeffs(),
		gain:             1,
		gainCompensation: gainCompensation,
		curve:            curve,
	}
	c.smoothCoeffs.SetTau(shaperSmoothTau)
	c.smoothCoeffs.SetStickyThresh(shaperStickyThresh)

	return c
}

// SetSampleRate stores the sample rate. ResetCoeffs must follow.
func (c *shaperCoeffs) SetSampleRate(sampleRate float32) {
	c.smoothCoeffs.SetSampleRate(sampleRate)
	c.smoothCoeffs.ResetCoeffs()
}

// ResetCoeffs jumps bias and gain to their targets.
func (c *shaperCoeffs) ResetCoeffs() {
	c.smoothCoeffs.ResetState(&c.biasState, c.bias)
	c.smoothCoeffs.ResetState(&c.gainState, c.gain)
	c.update(true)
}

// UpdateCtrl is a no-op kept for the uniform unit lifecycle.
func (c *shaperCoeffs) UpdateCtrl() {}

// UpdateAudio advances bias and gain smoothing by one sample.
func (c *shaperCoeffs) UpdateAudio() { c.update(false) }

func (c *shaperCoeffs) update(force bool) {
	if biasCur := c.biasState.Value(); force || biasCur != c.bias {
		biasCur = c.smoothCoeffs.Process1StickyAbs(&c.biasState, c.bias)
		c.biasDC = c.curve(biasCur)
	}
	if gainCur := c.gainState.Value(); force || gainCur != c.gain {
		gainCur = c.smoothCoeffs.Process1StickyRel(&c.gainState, c.gain)
		c.invGain = fastmath.Rcp(gainCur)
	}
}

func (c *shaperCoeffs) input(x float32) float32 {
	return c.gainState.Value()*x + c.biasState.Value()
}

func (c *shaperCoeffs) output(y float32) float32 {
	y -= c.biasDC
	if c.gainCompensation {
		y *= c.invGain
	}

	return y
}

// process1 applies first-order antiderivative antialiasing: the output is
// the mean of curve over the segment between the previous and the current
// input, (F(x) - F(x[n-1])) / (x - x[n-1]).
func (c *shaperCoeffs) process1(s *ShaperState, x float32, antiderivative func(float32) float32) float32 {
	x = c.input(x)
	f := antiderivative(x)
	d := x - s.xZ1

	var y float32
	if d*d < shaperADAAEpsilon {
		y = c.curve(0.5 * (x + s.xZ1))
	} else {
		y = (f - s.fZ1) * fastmath.Rcp(d)
	}
	s.xZ1 = x
	s.fZ1 = f

	return c.output(y)
}

func (c *shaperCoeffs) resetState(s *ShaperState, x0 float32, antiderivative func(float32) float32) float32 {
	x := c.input(x0)
	s.xZ1 = x
	s.fZ1 = antiderivative(x)

	return c.output(c.curve(x))
}

// SetBias sets the input bias, clamped to ±MaxShaperBias.
func (c *shaperCoeffs) SetBias(bias float32) {
	c.bias = core.Sanitize(bias, c.bias, -MaxShaperBias, MaxShaperBias)
}

// SetGain sets the input gain, clamped to [MinShaperGain, MaxShaperGain].
func (c *shaperCoeffs) SetGain(gain float32) {
	c.gain = core.Sanitize(gain, c.gain, MinShaperGain, MaxShaperGain)
}

// SetGainCompensation divides the output by the input gain when on.
func (c *shaperCoeffs) SetGainCompensation(on bool) { c.gainCompensation = on }
