package modulation

import (
	"github.com/cwbudde/algo-rtdsp/dsp/core"
	"github.com/cwbudde/algo-rtdsp/dsp/fastmath"
	"github.com/cwbudde/algo-rtdsp/dsp/filter/firstorder"
	"github.com/cwbudde/algo-rtdsp/dsp/osc"
)

const (
	phaserStages        = 4
	defaultPhaserRate   = 1
	defaultPhaserCenter = 1e3
	defaultPhaserAmount = 1
	maxPhaserAmount     = 32
	minPhaserCenter     = 1e-6
	maxPhaserCenter     = 1e12
)

// PhaserCoeffs holds the coefficients of a phaser: four first-order allpass
// stages whose shared cutoff a phase generator sweeps around the center
// frequency,
//
//	cutoff = center * 2^(amount*sin(2πp))
//
// and whose output is added to the input.
type PhaserCoeffs struct {
	phaseGen      osc.PhaseGenCoeffs
	phaseGenState osc.PhaseGenState
	ap            firstorder.Coeffs

	center float32
	amount float32
}

// PhaserState is the per-channel memory of the allpass chain.
type PhaserState struct {
	ap [phaserStages]firstorder.State
}

// NewPhaserCoeffs returns a phaser at 1 Hz sweeping one octave around
// 1 kHz.
func NewPhaserCoeffs() PhaserCoeffs {
	c := PhaserCoeffs{
		phaseGen: osc.NewPhaseGenCoeffs(),
		ap:       firstorder.NewCoeffs(),
		center:   defaultPhaserCenter,
		amount:   defaultPhaserAmount,
	}
	c.phaseGen.SetFrequency(defaultPhaserRate)

	return c
}

// SetSampleRate stores the sample rate. ResetCoeffs must follow.
func (c *PhaserCoeffs) SetSampleRate(sampleRate float32) {
	c.phaseGen.SetSampleRate(sampleRate)
	c.ap.SetSampleRate(sampleRate)
}

// ResetCoeffs rewinds the modulation to phase 0 and sets the allpass
// cutoff to the center frequency.
func (c *PhaserCoeffs) ResetCoeffs() {
	c.phaseGen.ResetCoeffs()
	c.phaseGen.ResetState(&c.phaseGenState, 0)
	c.ap.SetCutoff(c.center)
	c.ap.ResetCoeffs()
}

// ResetState sets a channel to rest for a constant input x0 and returns
// the matching output, 2*x0.
func (c *PhaserCoeffs) ResetState(s *PhaserState, x0 float32) float32 {
	y := x0
	for i := range s.ap {
		y = c.ap.ResetState(&s.ap[i], y, firstorder.Allpass)
	}

	return x0 + y
}

// UpdateCtrl applies pending rate changes.
func (c *PhaserCoeffs) UpdateCtrl() { c.phaseGen.UpdateCtrl() }

// UpdateAudio advances the modulation by one sample.
func (c *PhaserCoeffs) UpdateAudio() {
	c.phaseGen.UpdateAudio()
	p, _ := c.phaseGen.Process1(&c.phaseGenState)
	c.ap.SetCutoff(c.center * fastmath.Pow2(c.amount*osc.Sine1(p)))
	c.ap.UpdateAudio()
}

// Process1 processes one sample.
func (c *PhaserCoeffs) Process1(s *PhaserState, x float32) float32 {
	y := x
	for i := range s.ap {
		y = c.ap.Process1AP(&s.ap[i], y)
	}

	return x + y
}

// Process processes len(x) samples.
func (c *PhaserCoeffs) Process(s *PhaserState, x, y []float32) {
	c.UpdateCtrl()
	for i, v := range x {
		c.UpdateAudio()
		y[i] = c.Process1(s, v)
	}
}

// SetRate sets the modulation rate in Hz.
func (c *PhaserCoeffs) SetRate(hz float32) { c.phaseGen.SetFrequency(hz) }

// SetCenter sets the center frequency in Hz, clamped to [1e-6, 1e12].
func (c *PhaserCoeffs) SetCenter(hz float32) {
	c.center = core.Sanitize(hz, c.center, minPhaserCenter, maxPhaserCenter)
}

// SetAmount sets the sweep depth in octaves, clamped to [0, 32].
func (c *PhaserCoeffs) SetAmount(octaves float32) {
	c.amount = core.Sanitize(octaves, c.amount, 0, maxPhaserAmount)
}

// Phaser is a multi-channel phaser.
type Phaser struct {
	coeffs PhaserCoeffs
	states []PhaserState
}

// NewPhaser returns a phaser for the given number of channels.
func NewPhaser(channels int) (*Phaser, error) {
	if err := core.ValidateChannels(channels); err != nil {
		return nil, err
	}

	return &Phaser{coeffs: NewPhaserCoeffs(), states: make([]PhaserState, channels)}, nil
}

// Channels returns the channel count.
func (p *Phaser) Channels() int { return len(p.states) }

// SetSampleRate sets the sample rate. Reset must follow before processing.
func (p *Phaser) SetSampleRate(sampleRate float64) error {
	if err := core.ValidateSampleRate(sampleRate); err != nil {
		return err
	}
	p.coeffs.SetSampleRate(float32(sampleRate))

	return nil
}

// Reset rewinds the modulation and puts every channel at rest for the
// input x0.
func (p *Phaser) Reset(x0 float32) {
	p.coeffs.ResetCoeffs()
	for ch := range p.states {
		p.coeffs.ResetState(&p.states[ch], x0)
	}
}

// Process processes n samples of every channel. Any y[ch] may be nil.
func (p *Phaser) Process(x, y [][]float32, n int) {
	p.coeffs.UpdateCtrl()
	for i := 0; i < n; i++ {
		p.coeffs.UpdateAudio()
		for ch := range p.states {
			v := p.coeffs.Process1(&p.states[ch], x[ch][i])
			if out := core.Channel(y, ch, n); out != nil {
				out[i] = v
			}
		}
	}
}

// SetRate sets the modulation rate in Hz.
func (p *Phaser) SetRate(hz float32) { p.coeffs.SetRate(hz) }

// SetCenter sets the center frequency in Hz.
func (p *Phaser) SetCenter(hz float32) { p.coeffs.SetCenter(hz) }

// SetAmount sets the sweep depth in octaves.
func (p *Phaser) SetAmount(octaves float32) { p.coeffs.SetAmount(octaves) }
