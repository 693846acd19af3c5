package effects

import (
	"github.com/cwbudde/algo-rtdsp/dsp/core"
	"github.com/cwbudde/algo-rtdsp/dsp/fastmath"
)

func clipCurve(x float32) float32 { return fastmath.Clip(x, -1, 1) }

func clipAntiderivative(x float32) float32 {
	a := fastmath.Abs(x)
	if a > 1 {
		return a - 0.5
	}

	return 0.5 * a * a
}

// ClipCoeffs holds the coefficients of an antialiased hard clipper. The
// input is scaled by gain, offset by bias and clipped to [-1, 1]; the bias
// is then subtracted again so that silence stays silent.
type ClipCoeffs struct {
	shaperCoeffs
}

// NewClipCoeffs returns a clipper with unity gain, no bias and no gain
// compensation.
func NewClipCoeffs() ClipCoeffs {
	return ClipCoeffs{newShaperCoeffs(clipCurve, false)}
}

// ResetState seeds a channel with x0 and returns the matching output.
func (c *ClipCoeffs) ResetState(s *ShaperState, x0 float32) float32 {
	return c.resetState(s, x0, clipAntiderivative)
}

// Process1 clips one sample.
func (c *ClipCoeffs) Process1(s *ShaperState, x float32) float32 {
	return c.process1(s, x, clipAntiderivative)
}

// Process clips len(x) samples, advancing the smoothers per sample.
func (c *ClipCoeffs) Process(s *ShaperState, x, y []float32) {
	for i, v := range x {
		c.UpdateAudio()
		y[i] = c.Process1(s, v)
	}
}

// Clip is a multi-channel antialiased hard clipper.
type Clip struct {
	coeffs ClipCoeffs
	states []ShaperState
}

// NewClip returns a clipper for the given number of channels.
func NewClip(channels int) (*Clip, error) {
	if err := core.ValidateChannels(channels); err != nil {
		return nil, err
	}

	return &Clip{
		coeffs: NewClipCoeffs(),
		states: make([]ShaperState, channels),
	}, nil
}

// Channels returns the channel count.
func (c *Clip) Channels() int { return len(c.states) }

// SetSampleRate sets the sample rate. Reset must follow before processing.
func (c *Clip) SetSampleRate(sampleRate float64) error {
	if err := core.ValidateSampleRate(sampleRate); err != nil {
		return err
	}
	c.coeffs.SetSampleRate(float32(sampleRate))

	return nil
}

// Reset jumps the parameters to their targets and seeds every channel with
// x0.
func (c *Clip) Reset(x0 float32) {
	c.coeffs.ResetCoeffs()
	for ch := range c.states {
		c.coeffs.ResetState(&c.states[ch], x0)
	}
}

// Process clips n samples of every channel. Any y[ch] may be nil.
func (c *Clip) Process(x, y [][]float32, n int) {
	for i := 0; i < n; i++ {
		c.coeffs.UpdateAudio()
		for ch := range c.states {
			v := c.coeffs.Process1(&c.states[ch], x[ch][i])
			if out := core.Channel(y, ch, n); out != nil {
				out[i] = v
			}
		}
	}
}

// SetBias sets the input bias.
func (c *Clip) SetBias(bias float32) { c.coeffs.SetBias(bias) }

// SetGain sets the input gain.
func (c *Clip) SetGain(gain float32) { c.coeffs.SetGain(gain) }

// SetGainCompensation divides the output by the input gain when on.
func (c *Clip) SetGainCompensation(on bool) { c.coeffs.SetGainCompensation(on) }
