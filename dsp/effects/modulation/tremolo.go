package modulation

import (
	"github.com/cwbudde/algo-rtdsp/dsp/core"
	"github.com/cwbudde/algo-rtdsp/dsp/osc"
)

const defaultTremoloRate = 1

// TremoloCoeffs holds the coefficients of a tremolo: a RingMod whose
// carrier is 1 + sin(2πp), so the gain swings between 1-amount and
// 1+amount around unity.
type TremoloCoeffs struct {
	phaseGen osc.PhaseGenCoeffs
	ringMod  RingModCoeffs
}

// TremoloState is the per-channel modulation phase.
type TremoloState struct {
	phaseGen osc.PhaseGenState
}

// NewTremoloCoeffs returns a full-depth tremolo at 1 Hz.
func NewTremoloCoeffs() TremoloCoeffs {
	c := TremoloCoeffs{
		phaseGen: osc.NewPhaseGenCoeffs(),
		ringMod:  NewRingModCoeffs(),
	}
	c.phaseGen.SetFrequency(defaultTremoloRate)

	return c
}

// SetSampleRate stores the sample rate. ResetCoeffs must follow.
func (c *TremoloCoeffs) SetSampleRate(sampleRate float32) {
	c.phaseGen.SetSampleRate(sampleRate)
	c.ringMod.SetSampleRate(sampleRate)
}

// ResetCoeffs jumps rate and amount to their targets.
func (c *TremoloCoeffs) ResetCoeffs() {
	c.phaseGen.ResetCoeffs()
	c.ringMod.ResetCoeffs()
}

// ResetState rewinds a channel to phase 0 and returns the output for the
// input x0.
func (c *TremoloCoeffs) ResetState(s *TremoloState, x0 float32) float32 {
	p, _ := c.phaseGen.ResetState(&s.phaseGen, 0)
	return c.ringMod.Process1(x0, 1+osc.Sine1(p))
}

// UpdateCtrl applies pending rate changes.
func (c *TremoloCoeffs) UpdateCtrl() {
	c.phaseGen.UpdateCtrl()
	c.ringMod.UpdateCtrl()
}

// UpdateAudio advances rate and amount smoothing by one sample.
func (c *TremoloCoeffs) UpdateAudio() {
	c.phaseGen.UpdateAudio()
	c.ringMod.UpdateAudio()
}

// Process1 processes one sample.
func (c *TremoloCoeffs) Process1(s *TremoloState, x float32) float32 {
	p, _ := c.phaseGen.Process1(&s.phaseGen)
	return c.ringMod.Process1(x, 1+osc.Sine1(p))
}

// Process processes len(x) samples.
func (c *TremoloCoeffs) Process(s *TremoloState, x, y []float32) {
	c.UpdateCtrl()
	for i, v := range x {
		c.UpdateAudio()
		y[i] = c.Process1(s, v)
	}
}

// SetRate sets the modulation rate in Hz.
func (c *TremoloCoeffs) SetRate(hz float32) { c.phaseGen.SetFrequency(hz) }

// SetAmount sets the modulation depth in [-1, 1].
func (c *TremoloCoeffs) SetAmount(amount float32) { c.ringMod.SetAmount(amount) }

// Tremolo is a multi-channel tremolo.
type Tremolo struct {
	coeffs TremoloCoeffs
	states []TremoloState
}

// NewTremolo returns a tremolo for the given number of channels.
func NewTremolo(channels int) (*Tremolo, error) {
	if err := core.ValidateChannels(channels); err != nil {
		return nil, err
	}

	return &Tremolo{coeffs: NewTremoloCoeffs(), states: make([]TremoloState, channels)}, nil
}

// Channels returns the channel count.
func (t *Tremolo) Channels() int { return len(t.states) }

// SetSampleRate sets the sample rate. Reset must follow before processing.
func (t *Tremolo) SetSampleRate(sampleRate float64) error {
	if err := core.ValidateSampleRate(sampleRate); err != nil {
		return err
	}
	t.coeffs.SetSampleRate(float32(sampleRate))

	return nil
}

// Reset rewinds every channel to phase 0.
func (t *Tremolo) Reset(x0 float32) {
	t.coeffs.ResetCoeffs()
	for ch := range t.states {
		t.coeffs.ResetState(&t.states[ch], x0)
	}
}

// Process processes n samples of every channel. Any y[ch] may be nil.
func (t *Tremolo) Process(x, y [][]float32, n int) {
	t.coeffs.UpdateCtrl()
	for i := 0; i < n; i++ {
		t.coeffs.UpdateAudio()
		for ch := range t.states {
			v := t.coeffs.Process1(&t.states[ch], x[ch][i])
			if out := core.Channel(y, ch, n); out != nil {
				out[i] = v
			}
		}
	}
}

// SetRate sets the modulation rate in Hz.
func (t *Tremolo) SetRate(hz float32) { t.coeffs.SetRate(hz) }

// SetAmount sets the modulation depth.
func (t *Tremolo) SetAmount(amount float32) { t.coeffs.SetAmount(amount) }
