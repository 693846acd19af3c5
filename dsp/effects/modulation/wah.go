package modulation

import (
	"github.com/cwbudde/algo-rtdsp/dsp/core"
	"github.com/cwbudde/algo-rtdsp/dsp/filter/svf"
)

const (
	wahQ          = 9
	wahMinCutoff  = 400
	wahMaxCutoff  = 2e3
	defaultWahPos = 0.5
)

// WahCoeffs holds the coefficients of a wah: the band-pass output of a
// state-variable filter with Q 9 whose cutoff follows the pedal position v
// as 400 + 1600*v³ Hz.
type WahCoeffs struct {
	svf svf.Coeffs
	wah float32
}

// WahState is the per-channel filter memory of a wah.
type WahState struct {
	svf svf.State
}

// NewWahCoeffs returns a wah at half travel (600 Hz).
func NewWahCoeffs() WahCoeffs {
	c := WahCoeffs{svf: svf.NewCoeffs()}
	c.svf.SetQ(wahQ)
	c.SetWah(defaultWahPos)

	return c
}

// SetSampleRate stores the sample rate. ResetCoeffs must follow.
func (c *WahCoeffs) SetSampleRate(sampleRate float32) { c.svf.SetSampleRate(sampleRate) }

// ResetCoeffs jumps the cutoff to its target.
func (c *WahCoeffs) ResetCoeffs() { c.svf.ResetCoeffs() }

// ResetState sets a channel to rest for a constant input x0 and returns the
// band-pass output, which is 0.
func (c *WahCoeffs) ResetState(s *WahState, x0 float32) float32 {
	_, bp, _ := c.svf.ResetState(&s.svf, x0)
	return bp
}

// UpdateCtrl is a no-op kept for the uniform unit lifecycle.
func (c *WahCoeffs) UpdateCtrl() {}

// UpdateAudio advances cutoff smoothing by one sample.
func (c *WahCoeffs) UpdateAudio() { c.svf.UpdateAudio() }

// Process1 filters one sample.
func (c *WahCoeffs) Process1(s *WahState, x float32) float32 {
	_, bp, _ := c.svf.Process1(&s.svf, x)
	return bp
}

// Process filters len(x) samples.
func (c *WahCoeffs) Process(s *WahState, x, y []float32) {
	for i, v := range x {
		c.UpdateAudio()
		y[i] = c.Process1(s, v)
	}
}

// SetWah sets the pedal position in [0, 1].
func (c *WahCoeffs) SetWah(v float32) {
	c.wah = core.Sanitize(v, c.wah, 0, 1)
	c.svf.SetCutoff(wahCutoff(c.wah))
}

// Wah returns the pedal position.
func (c *WahCoeffs) Wah() float32 { return c.wah }

func wahCutoff(v float32) float32 {
	return wahMinCutoff + (wahMaxCutoff-wahMinCutoff)*v*v*v
}

// Wah is a multi-channel wah.
type Wah struct {
	coeffs WahCoeffs
	states []WahState
}

// NewWah returns a wah for the given number of channels.
func NewWah(channels int) (*Wah, error) {
	if err := core.ValidateChannels(channels); err != nil {
		return nil, err
	}

	return &Wah{coeffs: NewWahCoeffs(), states: make([]WahState, channels)}, nil
}

// Channels returns the channel count.
func (w *Wah) Channels() int { return len(w.states) }

// SetSampleRate sets the sample rate. Reset must follow before processing.
func (w *Wah) SetSampleRate(sampleRate float64) error {
	if err := core.ValidateSampleRate(sampleRate); err != nil {
		return err
	}
	w.coeffs.SetSampleRate(float32(sampleRate))

	return nil
}

// Reset jumps the cutoff to its target and puts every channel at rest for
// the input x0.
func (w *Wah) Reset(x0 float32) {
	w.coeffs.ResetCoeffs()
	for ch := range w.states {
		w.coeffs.ResetState(&w.states[ch], x0)
	}
}

// Process filters n samples of every channel. Any y[ch] may be nil.
func (w *Wah) Process(x, y [][]float32, n int) {
	for i := 0; i < n; i++ {
		w.coeffs.UpdateAudio()
		for ch := range w.states {
			v := w.coeffs.Process1(&w.states[ch], x[ch][i])
			if out := core.Channel(y, ch, n); out != nil {
				out[i] = v
			}
		}
	}
}

// SetWah sets the pedal position in [0, 1].
func (w *Wah) SetWah(v float32) { w.coeffs.SetWah(v) }

// WahPosition returns the pedal position.
func (w *Wah) WahPosition() float32 { return w.coeffs.Wah() }
