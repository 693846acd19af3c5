package effects

import (
	"fmt"

	"github.com/cwbudde/algo-rtdsp/dsp/core"
	"github.com/cwbudde/algo-rtdsp/dsp/delay"
	"github.com/cwbudde/algo-rtdsp/dsp/fastmath"
	"github.com/cwbudde/algo-rtdsp/dsp/gain"
	"github.com/cwbudde/algo-rtdsp/dsp/smooth"
)

const (
	combSmoothTau    = 0.05
	combStickyThresh = 1e-6

	// MaxCombCoeff bounds the magnitude of the blend and feedforward
	// coefficients.
	MaxCombCoeff = 1e6
)

// CombCoeffs holds the coefficients of a comb filter with independent
// feedforward and feedback delays:
//
//	v[n] = x[n] + fb * v[n - Dfb]
//	y[n] = blend * v[n] + ff * v[n - Dff]
//
// Both delays glide through a one-pole so that delay changes do not click.
type CombCoeffs struct {
	delay  delay.Coeffs
	blend  gain.Coeffs
	ff     gain.Coeffs
	fb     gain.Coeffs
	smooth smooth.OnePoleCoeffs

	delayFFState smooth.OnePoleState
	delayFBState smooth.OnePoleState

	fs   float32
	dffi int
	dfff float32
	dfbi int
	dfbf float32

	delayFF float32
	delayFB float32
}

// CombState is the per-channel delay buffer of a comb filter.
type CombState struct {
	delay delay.State
}

// NewCombCoeffs returns coefficients for delays up to maxDelay seconds.
// Blend defaults to 1, feedforward and feedback to 0.
func NewCombCoeffs(maxDelay float32) CombCoeffs {
	c := CombCoeffs{
		delay:  delay.NewCoeffs(maxDelay),
		blend:  gain.NewCoeffs(),
		ff:     gain.NewCoeffs(),
		fb:     gain.NewCoeffs(),
		smooth: smooth.NewOnePoleCoeffs(),
	}
	c.ff.SetGainLin(0)
	c.fb.SetGainLin(0)
	c.smooth.SetTau(combSmoothTau)
	c.smooth.SetStickyThresh(combStickyThresh)

	return c
}

// SetSampleRate stores the sample rate and sizes the delay buffer. Every
// state must then be given MemReq samples with MemSet.
func (c *CombCoeffs) SetSampleRate(sampleRate float32) {
	c.delay.SetSampleRate(sampleRate)
	c.blend.SetSampleRate(sampleRate)
	c.ff.SetSampleRate(sampleRate)
	c.fb.SetSampleRate(sampleRate)
	c.smooth.SetSampleRate(sampleRate)
	c.smooth.ResetCoeffs()
	c.fs = sampleRate
}

// MemReq returns the number of samples each state needs.
func (c *CombCoeffs) MemReq() int { return c.delay.MemReq() }

// MemSet hands mem[:MemReq()] to s as its delay buffer.
func (c *CombCoeffs) MemSet(s *CombState, mem []float32) { c.delay.MemSet(&s.delay, mem) }

// MaxDelay returns the maximum delay in seconds.
func (c *CombCoeffs) MaxDelay() float32 { return c.delay.MaxDelay() }

// ResetCoeffs jumps every smoothed parameter to its target.
func (c *CombCoeffs) ResetCoeffs() {
	c.delay.ResetCoeffs()
	c.blend.ResetCoeffs()
	c.ff.ResetCoeffs()
	c.fb.ResetCoeffs()
	c.smooth.ResetState(&c.delayFFState, c.delayFF)
	c.smooth.ResetState(&c.delayFBState, c.delayFB)
	c.update(true)
}

// ResetState fills the buffer with the steady-state value for a constant
// input x0 and returns the matching output. With |fb| = 1 there is no
// steady state and the buffer is cleared instead.
func (c *CombCoeffs) ResetState(s *CombState, x0 float32) float32 {
	fb := c.fb.GainCur()
	if fb == -1 || fb == 1 {
		c.delay.ResetState(&s.delay, 0)
		return 0
	}

	v := x0 / (1 - fb)
	c.delay.ResetState(&s.delay, v)

	return (c.ff.GainCur() + c.blend.GainCur()) * v
}

func (c *CombCoeffs) update(force bool) {
	if cur := c.delayFFState.Value(); force || cur != c.delayFF {
		cur = c.smooth.Process1StickyAbs(&c.delayFFState, c.delayFF)
		i, f := fastmath.IntFrac(fastmath.Max(c.fs*cur, 0))
		c.dffi, c.dfff = int(i), f
	}
	if cur := c.delayFBState.Value(); force || cur != c.delayFB {
		cur = c.smooth.Process1StickyAbs(&c.delayFBState, c.delayFB)
		i, f := fastmath.IntFrac(fastmath.Max(c.fs*cur, 1) - 1)
		c.dfbi, c.dfbf = int(i), f
	}
}

// UpdateCtrl applies pending gain parameter changes.
func (c *CombCoeffs) UpdateCtrl() {
	c.blend.UpdateCtrl()
	c.ff.UpdateCtrl()
	c.fb.UpdateCtrl()
}

// UpdateAudio advances every smoothed parameter by one sample.
func (c *CombCoeffs) UpdateAudio() {
	c.blend.UpdateAudio()
	c.ff.UpdateAudio()
	c.fb.UpdateAudio()
	c.update(false)
}

// Process1 filters one sample.
func (c *CombCoeffs) Process1(s *CombState, x float32) float32 {
	fb := c.delay.Read(&s.delay, c.dfbi, c.dfbf)
	v := x + c.fb.Process1(fb)
	c.delay.Write(&s.delay, v)
	ff := c.delay.Read(&s.delay, c.dffi, c.dfff)

	return c.blend.Process1(v) + c.ff.Process1(ff)
}

// Process filters len(x) samples.
func (c *CombCoeffs) Process(s *CombState, x, y []float32) {
	c.UpdateCtrl()
	for i, v := range x {
		c.UpdateAudio()
		y[i] = c.Process1(s, v)
	}
}

// SetDelayFF sets the feedforward delay in seconds, clamped to
// [0, MaxDelay].
func (c *CombCoeffs) SetDelayFF(seconds float32) {
	c.delayFF = core.Sanitize(seconds, c.delayFF, 0, c.delay.MaxDelay())
}

// SetDelayFB sets the feedback delay in seconds, clamped to [0, MaxDelay].
// Delays shorter than one sample act as one sample.
func (c *CombCoeffs) SetDelayFB(seconds float32) {
	c.delayFB = core.Sanitize(seconds, c.delayFB, 0, c.delay.MaxDelay())
}

// SetCoeffBlend sets the gain of the undelayed path.
func (c *CombCoeffs) SetCoeffBlend(value float32) {
	c.blend.SetGainLin(core.Sanitize(value, c.blend.GainLin(), -MaxCombCoeff, MaxCombCoeff))
}

// SetCoeffFF sets the feedforward gain.
func (c *CombCoeffs) SetCoeffFF(value float32) {
	c.ff.SetGainLin(core.Sanitize(value, c.ff.GainLin(), -MaxCombCoeff, MaxCombCoeff))
}

// SetCoeffFB sets the feedback gain, clamped to [-1, 1].
func (c *CombCoeffs) SetCoeffFB(value float32) {
	c.fb.SetGainLin(core.Sanitize(value, c.fb.GainLin(), -1, 1))
}

// Comb is a multi-channel comb filter with owned delay memory.
type Comb struct {
	coeffs CombCoeffs
	states []CombState
	mem    []float32
}

// NewComb returns a comb filter for the given number of channels and
// maximum delay in seconds.
func NewComb(channels int, maxDelay float32) (*Comb, error) {
	if err := core.ValidateChannels(channels); err != nil {
		return nil, err
	}
	if !(maxDelay >= 0) || !core.IsFinite(maxDelay) {
		return nil, fmt.Errorf("comb: max delay must be >= 0 and finite: %f", maxDelay)
	}

	return &Comb{
		coeffs: NewCombCoeffs(maxDelay),
		states: make([]CombState, channels),
	}, nil
}

// Channels returns the channel count.
func (c *Comb) Channels() int { return len(c.states) }

// SetSampleRate sets the sample rate and allocates the delay buffers.
// Reset must follow before processing.
func (c *Comb) SetSampleRate(sampleRate float64) error {
	if err := core.ValidateSampleRate(sampleRate); err != nil {
		return err
	}
	c.coeffs.SetSampleRate(float32(sampleRate))

	n := c.coeffs.MemReq()
	if need := n * len(c.states); len(c.mem) != need {
		c.mem = make([]float32, need)
	}
	for ch := range c.states {
		c.coeffs.MemSet(&c.states[ch], c.mem[ch*n:])
	}

	return nil
}

// Reset jumps the parameters to their targets and fills every channel with
// the steady state for input x0.
func (c *Comb) Reset(x0 float32) {
	c.coeffs.ResetCoeffs()
	if c.mem == nil {
		return
	}
	for ch := range c.states {
		c.coeffs.ResetState(&c.states[ch], x0)
	}
}

// Process filters n samples of every channel. Any y[ch] may be nil.
func (c *Comb) Process(x, y [][]float32, n int) {
	if c.mem == nil {
		for ch := range c.states {
			core.Zero(core.Channel(y, ch, n))
		}

		return
	}

	c.coeffs.UpdateCtrl()
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

// SetDelayFF sets the feedforward delay in seconds.
func (c *Comb) SetDelayFF(seconds float32) { c.coeffs.SetDelayFF(seconds) }

// SetDelayFB sets the feedback delay in seconds.
func (c *Comb) SetDelayFB(seconds float32) { c.coeffs.SetDelayFB(seconds) }

// SetCoeffBlend sets the gain of the undelayed path.
func (c *Comb) SetCoeffBlend(value float32) { c.coeffs.SetCoeffBlend(value) }

// SetCoeffFF sets the feedforward gain.
func (c *Comb) SetCoeffFF(value float32) { c.coeffs.SetCoeffFF(value) }

// SetCoeffFB sets the feedback gain.
func (c *Comb) SetCoeffFB(value float32) { c.coeffs.SetCoeffFB(value) }
