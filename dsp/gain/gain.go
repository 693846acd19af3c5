package gain

import (
	"math"

	"github.com/cwbudde/algo-rtdsp/dsp/core"
	"github.com/cwbudde/algo-rtdsp/dsp/fastmath"
	"github.com/cwbudde/algo-rtdsp/dsp/smooth"
)

const (
	// MaxGain bounds the magnitude of the linear gain (+120 dB).
	MaxGain = 1e6

	// MaxGainDB is MaxGain in decibels.
	MaxGainDB = 120

	defaultSmoothTau = 0.05
)

// Coeffs holds a gain and its smoother.
type Coeffs struct {
	smoothCoeffs smooth.OnePoleCoeffs
	smoothState  smooth.OnePoleState

	gain float32
}

// NewCoeffs returns unity gain with a 50 ms smoothing time constant.
func NewCoeffs() Coeffs {
	c := Coeffs{
		smoothCoeffs: smooth.NewOnePoleCoeffs(),
		gain:         1,
	}
	c.smoothCoeffs.SetTau(defaultSmoothTau)

	return c
}

// SetSampleRate stores the sample rate. ResetCoeffs must follow.
func (c *Coeffs) SetSampleRate(sampleRate float32) {
	c.smoothCoeffs.SetSampleRate(sampleRate)
}

// ResetCoeffs jumps the smoothed gain to its target.
func (c *Coeffs) ResetCoeffs() {
	c.smoothCoeffs.ResetCoeffs()
	c.smoothCoeffs.ResetState(&c.smoothState, c.gain)
}

// UpdateCtrl applies pending smoother changes.
func (c *Coeffs) UpdateCtrl() { c.smoothCoeffs.UpdateCtrl() }

// UpdateAudio advances the smoothed gain by one sample.
func (c *Coeffs) UpdateAudio() {
	c.smoothCoeffs.Process1(&c.smoothState, c.gain)
}

// Process1 scales x by the current smoothed gain.
func (c *Coeffs) Process1(x float32) float32 {
	return c.smoothState.Value() * x
}

// Process scales len(x) samples, advancing the smoother per sample.
func (c *Coeffs) Process(x, y []float32) {
	c.UpdateCtrl()
	for i, v := range x {
		c.UpdateAudio()
		y[i] = c.Process1(v)
	}
}

// SetGainLin sets the linear gain, clamped to [-MaxGain, MaxGain].
func (c *Coeffs) SetGainLin(gain float32) {
	c.gain = core.Sanitize(gain, c.gain, -MaxGain, MaxGain)
}

// SetGainDB sets the gain in decibels, clamped to at most MaxGainDB.
func (c *Coeffs) SetGainDB(db float32) {
	if math.IsNaN(float64(db)) {
		return
	}
	c.gain = fastmath.DBToLinear(fastmath.Min(db, MaxGainDB))
}

// SetSmoothTau sets the smoothing time constant in seconds.
func (c *Coeffs) SetSmoothTau(seconds float32) { c.smoothCoeffs.SetTau(seconds) }

// GainLin returns the target linear gain.
func (c *Coeffs) GainLin() float32 { return c.gain }

// GainCur returns the current smoothed gain.
func (c *Coeffs) GainCur() float32 { return c.smoothState.Value() }

// Gain is a multi-channel smoothed gain stage.
type Gain struct {
	coeffs   Coeffs
	channels int
}

// New returns a gain stage for the given number of channels.
func New(channels int) (*Gain, error) {
	if err := core.ValidateChannels(channels); err != nil {
		return nil, err
	}

	return &Gain{coeffs: NewCoeffs(), channels: channels}, nil
}

// Channels returns the channel count.
func (g *Gain) Channels() int { return g.channels }

// SetSampleRate sets the sample rate. Reset must follow before processing.
func (g *Gain) SetSampleRate(sampleRate float64) error {
	if err := core.ValidateSampleRate(sampleRate); err != nil {
		return err
	}
	g.coeffs.SetSampleRate(float32(sampleRate))

	return nil
}

// Reset jumps the smoothed gain to its target.
func (g *Gain) Reset() { g.coeffs.ResetCoeffs() }

// Process scales n samples of every channel. Any y[ch] may be nil.
func (g *Gain) Process(x, y [][]float32, n int) {
	g.coeffs.UpdateCtrl()
	for i := 0; i < n; i++ {
		g.coeffs.UpdateAudio()
		for ch := 0; ch < g.channels; ch++ {
			if out := core.Channel(y, ch, n); out != nil {
				out[i] = g.coeffs.Process1(x[ch][i])
			}
		}
	}
}

// SetGainLin sets the linear gain.
func (g *Gain) SetGainLin(gain float32) { g.coeffs.SetGainLin(gain) }

// SetGainDB sets the gain in decibels.
func (g *Gain) SetGainDB(db float32) { g.coeffs.SetGainDB(db) }

// SetSmoothTau sets the smoothing time constant in seconds.
func (g *Gain) SetSmoothTau(seconds float32) { g.coeffs.SetSmoothTau(seconds) }

// GainLin returns the target linear gain.
func (g *Gain) GainLin() float32 { return g.coeffs.GainLin() }

// GainCur returns the current smoothed gain.
func (g *Gain) GainCur() float32 { return g.coeffs.GainCur() }
