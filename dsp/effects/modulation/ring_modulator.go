package modulation

import (
	"github.com/cwbudde/algo-rtdsp/dsp/core"
	"github.com/cwbudde/algo-rtdsp/dsp/fastmath"
	"github.com/cwbudde/algo-rtdsp/dsp/smooth"
)

const (
	ringModSmoothTau     = 0.05
	defaultRingModAmount = 1
)

// RingModCoeffs holds the coefficients of a ring modulator with a smoothed
// bipolar amount k in [-1, 1]:
//
//	y = (k*carrier - |k|)*x + x
//
// k = 1 gives carrier*x, k = 0 passes x through and k = -1 gives
// -carrier*x.
type RingModCoeffs struct {
	smoothCoeffs smooth.OnePoleCoeffs
	smoothState  smooth.OnePoleState

	amount float32
}

// NewRingModCoeffs returns a fully wet ring modulator.
func NewRingModCoeffs() RingModCoeffs {
	c := RingModCoeffs{
		smoothCoeffs: smooth.NewOnePoleCoeffs(),
		amount:       defaultRingModAmount,
	}
	c.smoothCoeffs.SetTau(ringModSmoothTau)

	return c
}

// SetSampleRate stores the sample rate. ResetCoeffs must follow.
func (c *RingModCoeffs) SetSampleRate(sampleRate float32) {
	c.smoothCoeffs.SetSampleRate(sampleRate)
	c.smoothCoeffs.ResetCoeffs()
}

// ResetCoeffs jumps the amount to its target.
func (c *RingModCoeffs) ResetCoeffs() {
	c.smoothCoeffs.ResetState(&c.smoothState, c.amount)
}

// UpdateCtrl is a no-op kept for the uniform unit lifecycle.
func (c *RingModCoeffs) UpdateCtrl() {}

// UpdateAudio advances amount smoothing by one sample.
func (c *RingModCoeffs) UpdateAudio() {
	c.smoothCoeffs.Process1(&c.smoothState, c.amount)
}

// Process1 modulates x by carrier.
func (c *RingModCoeffs) Process1(x, carrier float32) float32 {
	k := c.smoothState.Value()
	return (k*carrier-fastmath.Abs(k))*x + x
}

// Process modulates len(x) samples.
func (c *RingModCoeffs) Process(x, carrier, y []float32) {
	for i, v := range x {
		c.UpdateAudio()
		y[i] = c.Process1(v, carrier[i])
	}
}

// SetAmount sets the modulation amount, clamped to [-1, 1].
func (c *RingModCoeffs) SetAmount(amount float32) {
	c.amount = core.Sanitize(amount, c.amount, -1, 1)
}

// Amount returns the target amount.
func (c *RingModCoeffs) Amount() float32 { return c.amount }

// RingMod is a multi-channel ring modulator. It has no per-channel state.
type RingMod struct {
	coeffs   RingModCoeffs
	channels int
}

// NewRingMod returns a ring modulator for the given number of channels.
func NewRingMod(channels int) (*RingMod, error) {
	if err := core.ValidateChannels(channels); err != nil {
		return nil, err
	}

	return &RingMod{coeffs: NewRingModCoeffs(), channels: channels}, nil
}

// Channels returns the channel count.
func (r *RingMod) Channels() int { return r.channels }

// SetSampleRate sets the sample rate. Reset must follow before processing.
func (r *RingMod) SetSampleRate(sampleRate float64) error {
	if err := core.ValidateSampleRate(sampleRate); err != nil {
		return err
	}
	r.coeffs.SetSampleRate(float32(sampleRate))

	return nil
}

// Reset jumps the amount to its target.
func (r *RingMod) Reset() { r.coeffs.ResetCoeffs() }

// Process modulates n samples of every channel x[ch] by carrier[ch]. Any
// y[ch] may be nil.
func (r *RingMod) Process(x, carrier, y [][]float32, n int) {
	for i := 0; i < n; i++ {
		r.coeffs.UpdateAudio()
		for ch := 0; ch < r.channels; ch++ {
			v := r.coeffs.Process1(x[ch][i], carrier[ch][i])
			if out := core.Channel(y, ch, n); out != nil {
				out[i] = v
			}
		}
	}
}

// SetAmount sets the modulation amount in [-1, 1].
func (r *RingMod) SetAmount(amount float32) { r.coeffs.SetAmount(amount) }

// Amount returns the target amount.
func (r *RingMod) Amount() float32 { return r.coeffs.Amount() }
