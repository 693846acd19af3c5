package firstorder

import (
	"fmt"

	"github.com/cwbudde/algo-rtdsp/dsp/core"
	"github.com/cwbudde/algo-rtdsp/dsp/fastmath"
	"github.com/cwbudde/algo-rtdsp/dsp/smooth"
)

const (
	defaultCutoff      = 1e3
	defaultPrewarpFreq = 1e3
	smoothingTau       = 0.005
	stickyThresh       = 1e-3

	// MinCutoff and MaxCutoff bound cutoff and prewarp frequencies in Hz.
	MinCutoff = 1e-6
	MaxCutoff = 1e12
)

// Mode selects which response a Filter outputs.
type Mode int

const (
	// Lowpass passes frequencies below the cutoff.
	Lowpass Mode = iota
	// Highpass passes frequencies above the cutoff.
	Highpass
	// Allpass has unit gain everywhere and a phase shift of 180° at DC
	// falling to 0° at Nyquist, -90° at the cutoff.
	Allpass
)

func (m Mode) String() string {
	switch m {
	case Lowpass:
		return "lowpass"
	case Highpass:
		return "highpass"
	case Allpass:
		return "allpass"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Coeffs holds the shared coefficients of the first-order filters.
type Coeffs struct {
	smooth       smooth.OnePoleCoeffs
	cutoffState  smooth.OnePoleState
	prewarpState smooth.OnePoleState

	tK             float32
	prewarpFreqMax float32

	t    float32
	xX   float32
	xXZ1 float32
	yX   float32

	cutoff      float32
	prewarpK    float32
	prewarpFreq float32
}

// State is the per-channel memory of a first-order filter.
type State struct {
	yZ1 float32
	xZ1 float32
}

// NewCoeffs returns coefficients with a 1 kHz cutoff and prewarping at
// cutoff.
func NewCoeffs() Coeffs {
	c := Coeffs{
		smooth:      smooth.NewOnePoleCoeffs(),
		cutoff:      defaultCutoff,
		prewarpK:    1,
		prewarpFreq: defaultPrewarpFreq,
	}
	c.smooth.SetTau(smoothingTau)
	c.smooth.SetStickyThresh(stickyThresh)

	return c
}

// SetSampleRate updates the sample-rate dependent constants. ResetCoeffs
// must follow.
func (c *Coeffs) SetSampleRate(sampleRate float32) {
	c.smooth.SetSampleRate(sampleRate)
	c.smooth.ResetCoeffs()
	c.tK = 3.141592653589793 / sampleRate
	c.prewarpFreqMax = 0.499 * sampleRate
}

func (c *Coeffs) prewarpTarget() float32 {
	return c.prewarpFreq + c.prewarpK*(c.cutoff-c.prewarpFreq)
}

// ResetCoeffs jumps the smoothed values to their targets and recomputes
// the coefficients.
func (c *Coeffs) ResetCoeffs() {
	c.smooth.ResetState(&c.cutoffState, c.cutoff)
	c.smooth.ResetState(&c.prewarpState, c.prewarpTarget())
	c.update(true)
}

// ResetState puts a channel at rest for the constant input x0 and returns
// the output of the given mode.
func (c *Coeffs) ResetState(s *State, x0 float32, mode Mode) float32 {
	s.yZ1 = x0
	s.xZ1 = 0

	switch mode {
	case Highpass:
		return 0
	case Allpass:
		return -x0
	default:
		return x0
	}
}

// UpdateAudio advances parameter smoothing by one sample.
func (c *Coeffs) UpdateAudio() {
	c.update(false)
}

func (c *Coeffs) update(force bool) {
	prewarpFreq := c.prewarpTarget()
	prewarpCur := c.prewarpState.Value()
	cutoffCur := c.cutoffState.Value()

	prewarpChanged := force || prewarpFreq != prewarpCur
	cutoffChanged := force || c.cutoff != cutoffCur
	if !prewarpChanged && !cutoffChanged {
		return
	}

	if prewarpChanged {
		prewarpCur = fastmath.Min(c.smooth.Process1StickyRel(&c.prewarpState, prewarpFreq), c.prewarpFreqMax)
		c.t = fastmath.Tan(c.tK * prewarpCur)
	}
	if cutoffChanged {
		cutoffCur = c.smooth.Process1StickyRel(&c.cutoffState, c.cutoff)
		c.yX = fastmath.Rcp(cutoffCur)
	}

	k := cutoffCur * fastmath.Rcp(cutoffCur*c.t+prewarpCur)
	c.xX = k * prewarpCur
	c.xXZ1 = k * c.t
}

// Process1LP returns the lowpass output for one sample.
func (c *Coeffs) Process1LP(s *State, x float32) float32 {
	v := c.xX*(x-s.yZ1) - c.xXZ1*s.xZ1
	y := x - c.yX*v
	s.yZ1 = y
	s.xZ1 = v

	return y
}

// Process1HP returns the highpass output for one sample.
func (c *Coeffs) Process1HP(s *State, x float32) float32 {
	return x - c.Process1LP(s, x)
}

// Process1AP returns the allpass output for one sample.
func (c *Coeffs) Process1AP(s *State, x float32) float32 {
	lp := c.Process1LP(s, x)
	return x - lp - lp
}

// Process1 dispatches on mode.
func (c *Coeffs) Process1(s *State, x float32, mode Mode) float32 {
	switch mode {
	case Highpass:
		return c.Process1HP(s, x)
	case Allpass:
		return c.Process1AP(s, x)
	default:
		return c.Process1LP(s, x)
	}
}

// Process filters x into y for a single channel. y may be nil.
func (c *Coeffs) Process(s *State, x, y []float32, mode Mode) {
	for i, v := range x {
		c.UpdateAudio()
		out := c.Process1(s, v, mode)
		if y != nil {
			y[i] = out
		}
	}
}

// SetCutoff sets the cutoff frequency in Hz, clamped to [MinCutoff, MaxCutoff].
func (c *Coeffs) SetCutoff(hz float32) {
	c.cutoff = core.Sanitize(hz, c.cutoff, MinCutoff, MaxCutoff)
}

// SetPrewarpAtCutoff selects whether prewarping follows the cutoff.
func (c *Coeffs) SetPrewarpAtCutoff(on bool) {
	if on {
		c.prewarpK = 1
	} else {
		c.prewarpK = 0
	}
}

// SetPrewarpFreq sets the fixed prewarp frequency in Hz.
func (c *Coeffs) SetPrewarpFreq(hz float32) {
	c.prewarpFreq = core.Sanitize(hz, c.prewarpFreq, MinCutoff, MaxCutoff)
}

// Filter is a multi-channel first-order filter with a fixed mode.
type Filter struct {
	mode   Mode
	coeffs Coeffs
	states []State
}

// New returns a filter of the given mode for the given number of channels.
func New(channels int, mode Mode) (*Filter, error) {
	if err := core.ValidateChannels(channels); err != nil {
		return nil, err
	}
	if mode < Lowpass || mode > Allpass {
		return nil, fmt.Errorf("firstorder: unknown mode %v", mode)
	}

	return &Filter{
		mode:   mode,
		coeffs: NewCoeffs(),
		states: make([]State, channels),
	}, nil
}

// Mode returns the filter's response type.
func (f *Filter) Mode() Mode { return f.mode }

// Channels returns the channel count.
func (f *Filter) Channels() int { return len(f.states) }

// SetSampleRate sets the sample rate. Reset must follow before processing.
func (f *Filter) SetSampleRate(sampleRate float64) error {
	if err := core.ValidateSampleRate(sampleRate); err != nil {
		return err
	}
	f.coeffs.SetSampleRate(float32(sampleRate))

	return nil
}

// Reset resets the coefficients and puts every channel at rest at x0.
func (f *Filter) Reset(x0 float32) {
	f.coeffs.ResetCoeffs()
	for ch := range f.states {
		f.coeffs.ResetState(&f.states[ch], x0, f.mode)
	}
}

// Process filters n samples of every channel. y or any y[ch] may be nil.
func (f *Filter) Process(x, y [][]float32, n int) {
	for i := 0; i < n; i++ {
		f.coeffs.UpdateAudio()
		for ch := range f.states {
			v := f.coeffs.Process1(&f.states[ch], x[ch][i], f.mode)
			if out := core.Channel(y, ch, n); out != nil {
				out[i] = v
			}
		}
	}
}

// SetCutoff sets the cutoff frequency in Hz.
func (f *Filter) SetCutoff(hz float32) { f.coeffs.SetCutoff(hz) }

// SetPrewarpAtCutoff toggles prewarping at the cutoff frequency.
func (f *Filter) SetPrewarpAtCutoff(on bool) { f.coeffs.SetPrewarpAtCutoff(on) }

// SetPrewarpFreq sets the fixed prewarp frequency in Hz.
func (f *Filter) SetPrewarpFreq(hz float32) { f.coeffs.SetPrewarpFreq(hz) }
