package gain

import "github.com/cwbudde/algo-rtdsp/dsp/core"

// DryWetCoeffs mixes a dry and a wet signal with a smoothed wet amount.
type DryWetCoeffs struct {
	gain Coeffs
}

// NewDryWetCoeffs returns a fully wet mix.
func NewDryWetCoeffs() DryWetCoeffs {
	return DryWetCoeffs{gain: NewCoeffs()}
}

// SetSampleRate stores the sample rate. ResetCoeffs must follow.
func (c *DryWetCoeffs) SetSampleRate(sampleRate float32) { c.gain.SetSampleRate(sampleRate) }

// ResetCoeffs jumps the smoothed wet amount to its target.
func (c *DryWetCoeffs) ResetCoeffs() { c.gain.ResetCoeffs() }

// UpdateCtrl applies pending smoother changes.
func (c *DryWetCoeffs) UpdateCtrl() { c.gain.UpdateCtrl() }

// UpdateAudio advances the smoothed wet amount by one sample.
func (c *DryWetCoeffs) UpdateAudio() { c.gain.UpdateAudio() }

// Process1 returns wet*(xWet - xDry) + xDry.
func (c *DryWetCoeffs) Process1(xDry, xWet float32) float32 {
	return c.gain.GainCur()*(xWet-xDry) + xDry
}

// Process mixes len(xDry) samples.
func (c *DryWetCoeffs) Process(xDry, xWet, y []float32) {
	c.UpdateCtrl()
	for i := range xDry {
		c.UpdateAudio()
		y[i] = c.Process1(xDry[i], xWet[i])
	}
}

// SetWet sets the wet amount, clamped to [0, 1].
func (c *DryWetCoeffs) SetWet(wet float32) {
	c.gain.SetGainLin(core.Sanitize(wet, c.gain.GainLin(), 0, 1))
}

// SetSmoothTau sets the smoothing time constant in seconds.
func (c *DryWetCoeffs) SetSmoothTau(seconds float32) { c.gain.SetSmoothTau(seconds) }

// Wet returns the target wet amount.
func (c *DryWetCoeffs) Wet() float32 { return c.gain.GainLin() }

// DryWet is a multi-channel dry/wet mixer.
type DryWet struct {
	coeffs   DryWetCoeffs
	channels int
}

// NewDryWet returns a mixer for the given number of channels.
func NewDryWet(channels int) (*DryWet, error) {
	if err := core.ValidateChannels(channels); err != nil {
		return nil, err
	}

	return &DryWet{coeffs: NewDryWetCoeffs(), channels: channels}, nil
}

// Channels returns the channel count.
func (d *DryWet) Channels() int { return d.channels }

// SetSampleRate sets the sample rate. Reset must follow before processing.
func (d *DryWet) SetSampleRate(sampleRate float64) error {
	if err := core.ValidateSampleRate(sampleRate); err != nil {
		return err
	}
	d.coeffs.SetSampleRate(float32(sampleRate))

	return nil
}

// Reset jumps the smoothed wet amount to its target.
func (d *DryWet) Reset() { d.coeffs.ResetCoeffs() }

// Process mixes n samples of every channel. Any y[ch] may be nil.
func (d *DryWet) Process(xDry, xWet, y [][]float32, n int) {
	d.coeffs.UpdateCtrl()
	for i := 0; i < n; i++ {
		d.coeffs.UpdateAudio()
		for ch := 0; ch < d.channels; ch++ {
			if out := core.Channel(y, ch, n); out != nil {
				out[i] = d.coeffs.Process1(xDry[ch][i], xWet[ch][i])
			}
		}
	}
}

// SetWet sets the wet amount in [0, 1].
func (d *DryWet) SetWet(wet float32) { d.coeffs.SetWet(wet) }

// SetSmoothTau sets the smoothing time constant in seconds.
func (d *DryWet) SetSmoothTau(seconds float32) { d.coeffs.SetSmoothTau(seconds) }
