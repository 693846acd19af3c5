package modulation

import (
	"fmt"

	"github.com/cwbudde/algo-rtdsp/dsp/core"
	"github.com/cwbudde/algo-rtdsp/dsp/effects"
	"github.com/cwbudde/algo-rtdsp/dsp/osc"
)

const defaultChorusRate = 1

// ChorusCoeffs holds the coefficients of a chorus. A phase generator sweeps
// the feedforward delay of a comb filter around the center delay:
//
//	delayFF = delay + amount*sin(2πp)
//
// The feedback delay stays at the center delay. With the default
// coefficients (x 1, mod 0, fb 0) the output is the dry input; typical
// settings are x 0.7071, mod 0.7071 for chorus and x 1, mod 0.7071,
// fb -0.7071 for a flanger-like sound.
type ChorusCoeffs struct {
	phaseGen      osc.PhaseGenCoeffs
	phaseGenState osc.PhaseGenState
	comb          effects.CombCoeffs

	delay  float32
	amount float32
}

// ChorusState is the per-channel comb memory of a chorus.
type ChorusState struct {
	comb effects.CombState
}

// NewChorusCoeffs returns coefficients for delays up to maxDelay seconds.
func NewChorusCoeffs(maxDelay float32) ChorusCoeffs {
	c := ChorusCoeffs{
		phaseGen: osc.NewPhaseGenCoeffs(),
		comb:     effects.NewCombCoeffs(maxDelay),
	}
	c.phaseGen.SetFrequency(defaultChorusRate)

	return c
}

// SetSampleRate stores the sample rate and sizes the comb buffer. Every
// state must then be given MemReq samples with MemSet.
func (c *ChorusCoeffs) SetSampleRate(sampleRate float32) {
	c.phaseGen.SetSampleRate(sampleRate)
	c.comb.SetSampleRate(sampleRate)
}

// MemReq returns the number of samples each state needs.
func (c *ChorusCoeffs) MemReq() int { return c.comb.MemReq() }

// MemSet hands mem[:MemReq()] to s as its delay buffer.
func (c *ChorusCoeffs) MemSet(s *ChorusState, mem []float32) { c.comb.MemSet(&s.comb, mem) }

// ResetCoeffs rewinds the modulation to phase 0 and jumps every smoothed
// parameter to its target.
func (c *ChorusCoeffs) ResetCoeffs() {
	c.phaseGen.ResetCoeffs()
	p, _ := c.phaseGen.ResetState(&c.phaseGenState, 0)
	c.comb.SetDelayFF(c.delay + c.amount*osc.Sine1(p))
	c.comb.ResetCoeffs()
}

// ResetState fills a channel with the steady state for input x0 and returns
// the matching output.
func (c *ChorusCoeffs) ResetState(s *ChorusState, x0 float32) float32 {
	return c.comb.ResetState(&s.comb, x0)
}

// UpdateCtrl applies pending parameter changes.
func (c *ChorusCoeffs) UpdateCtrl() {
	c.phaseGen.UpdateCtrl()
	c.comb.UpdateCtrl()
}

// UpdateAudio advances the modulation by one sample.
func (c *ChorusCoeffs) UpdateAudio() {
	c.phaseGen.UpdateAudio()
	p, _ := c.phaseGen.Process1(&c.phaseGenState)
	c.comb.SetDelayFF(c.delay + c.amount*osc.Sine1(p))
	c.comb.UpdateCtrl()
	c.comb.UpdateAudio()
}

// Process1 processes one sample.
func (c *ChorusCoeffs) Process1(s *ChorusState, x float32) float32 {
	return c.comb.Process1(&s.comb, x)
}

// Process processes len(x) samples.
func (c *ChorusCoeffs) Process(s *ChorusState, x, y []float32) {
	c.UpdateCtrl()
	for i, v := range x {
		c.UpdateAudio()
		y[i] = c.Process1(s, v)
	}
}

// SetRate sets the modulation rate in Hz.
func (c *ChorusCoeffs) SetRate(hz float32) { c.phaseGen.SetFrequency(hz) }

// SetDelay sets the center delay in seconds. It also sets the feedback
// delay.
func (c *ChorusCoeffs) SetDelay(seconds float32) {
	c.delay = core.Sanitize(seconds, c.delay, 0, c.comb.MaxDelay())
	c.comb.SetDelayFB(c.delay)
}

// SetAmount sets the modulation depth in seconds. The swept delay is
// clamped to [0, maxDelay], so amount should not exceed delay.
func (c *ChorusCoeffs) SetAmount(seconds float32) {
	c.amount = core.Sanitize(seconds, c.amount, 0, c.comb.MaxDelay())
}

// SetCoeffX sets the gain of the undelayed path.
func (c *ChorusCoeffs) SetCoeffX(value float32) { c.comb.SetCoeffBlend(value) }

// SetCoeffMod sets the gain of the modulated path.
func (c *ChorusCoeffs) SetCoeffMod(value float32) { c.comb.SetCoeffFF(value) }

// SetCoeffFB sets the feedback gain in [-1, 1].
func (c *ChorusCoeffs) SetCoeffFB(value float32) { c.comb.SetCoeffFB(value) }

// Chorus is a multi-channel chorus with owned delay memory.
type Chorus struct {
	coeffs ChorusCoeffs
	states []ChorusState
	mem    []float32
}

// NewChorus returns a chorus for the given number of channels and maximum
// delay in seconds.
func NewChorus(channels int, maxDelay float32) (*Chorus, error) {
	if err := core.ValidateChannels(channels); err != nil {
		return nil, err
	}
	if !(maxDelay >= 0) || !core.IsFinite(maxDelay) {
		return nil, fmt.Errorf("chorus: max delay must be >= 0 and finite: %f", maxDelay)
	}

	return &Chorus{
		coeffs: NewChorusCoeffs(maxDelay),
		states: make([]ChorusState, channels),
	}, nil
}

// Channels returns the channel count.
func (c *Chorus) Channels() int { return len(c.states) }

// SetSampleRate sets the sample rate and allocates the delay buffers.
// Reset must follow before processing.
func (c *Chorus) SetSampleRate(sampleRate float64) error {
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

// Reset rewinds the modulation and fills every channel with the steady
// state for input x0.
func (c *Chorus) Reset(x0 float32) {
	c.coeffs.ResetCoeffs()
	if c.mem == nil {
		return
	}
	for ch := range c.states {
		c.coeffs.ResetState(&c.states[ch], x0)
	}
}

// Process processes n samples of every channel. Any y[ch] may be nil.
func (c *Chorus) Process(x, y [][]float32, n int) {
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

// SetRate sets the modulation rate in Hz.
func (c *Chorus) SetRate(hz float32) { c.coeffs.SetRate(hz) }

// SetDelay sets the center delay in seconds.
func (c *Chorus) SetDelay(seconds float32) { c.coeffs.SetDelay(seconds) }

// SetAmount sets the modulation depth in seconds.
func (c *Chorus) SetAmount(seconds float32) { c.coeffs.SetAmount(seconds) }

// SetCoeffX sets the gain of the undelayed path.
func (c *Chorus) SetCoeffX(value float32) { c.coeffs.SetCoeffX(value) }

// SetCoeffMod sets the gain of the modulated path.
func (c *Chorus) SetCoeffMod(value float32) { c.coeffs.SetCoeffMod(value) }

// SetCoeffFB sets the feedback gain.
func (c *Chorus) SetCoeffFB(value float32) { c.coeffs.SetCoeffFB(value) }
