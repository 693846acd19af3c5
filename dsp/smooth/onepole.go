package smooth

import (
	"math"

	"github.com/cwbudde/algo-rtdsp/dsp/core"
)

// StickyMode selects how OnePole decides that its output has reached the
// input.
type StickyMode int

const (
	// StickyAbs snaps when |y - x| <= threshold.
	StickyAbs StickyMode = iota
	// StickyRel snaps when |y - x| <= threshold * |x|.
	StickyRel
)

const (
	onePoleCutoffUp core.Dirty = 1 << iota
	onePoleCutoffDown
	onePoleStickyThresh
)

// cutoffs above this (tau < 1 ns) are treated as instantaneous.
const maxFiniteCutoff = 1.591549430918953e8

// OnePoleCoeffs holds the coefficients of a one-pole smoother.
//
// The filter is
//
//	y[n] = x[n] + mA1 * (y[n-1] - x[n]),  mA1 = fs/(2π) / (fs/(2π) + fc)
//
// with separate mA1 values for rising (x >= y[n-1]) and falling input.
type OnePoleCoeffs struct {
	fs2pi float32
	mA1u  float32
	mA1d  float32
	st2   float32

	cutoffUp     float32
	cutoffDown   float32
	stickyThresh float32
	stickyMode   StickyMode

	dirty core.Dirty
}

// OnePoleState is the per-channel memory of a one-pole smoother.
type OnePoleState struct {
	z1 float32
}

// Value returns the last output.
func (s *OnePoleState) Value() float32 { return s.z1 }

// NewOnePoleCoeffs returns coefficients with infinite cutoff (no smoothing),
// no sticky threshold and absolute sticky mode.
func NewOnePoleCoeffs() OnePoleCoeffs {
	inf := float32(math.Inf(1))

	return OnePoleCoeffs{
		cutoffUp:   inf,
		cutoffDown: inf,
		stickyMode: StickyAbs,
		dirty:      core.DirtyAll,
	}
}

// SetSampleRate stores the sample rate. ResetCoeffs must follow.
func (c *OnePoleCoeffs) SetSampleRate(sampleRate float32) {
	c.fs2pi = 0.15915494309189535 * sampleRate
}

// ResetCoeffs recomputes every coefficient from the current parameters.
func (c *OnePoleCoeffs) ResetCoeffs() {
	c.dirty = core.DirtyAll
	c.UpdateCtrl()
}

// ResetState sets the channel memory to x0 and returns the matching output.
func (c *OnePoleCoeffs) ResetState(s *OnePoleState, x0 float32) float32 {
	s.z1 = x0
	return x0
}

// UpdateCtrl recomputes the coefficients whose parameters changed.
func (c *OnePoleCoeffs) UpdateCtrl() {
	if !c.dirty.Any() {
		return
	}

	if c.dirty.Has(onePoleCutoffUp) {
		c.mA1u = c.mA1(c.cutoffUp)
	}
	if c.dirty.Has(onePoleCutoffDown) {
		c.mA1d = c.mA1(c.cutoffDown)
	}
	if c.dirty.Has(onePoleStickyThresh) {
		c.st2 = c.stickyThresh * c.stickyThresh
	}

	c.dirty.Clear()
}

func (c *OnePoleCoeffs) mA1(cutoff float32) float32 {
	if cutoff > maxFiniteCutoff {
		return 0
	}

	return c.fs2pi / (c.fs2pi + cutoff)
}

// Process1 processes one sample with symmetric response and no snapping.
func (c *OnePoleCoeffs) Process1(s *OnePoleState, x float32) float32 {
	y := x + c.mA1u*(s.z1-x)
	s.z1 = y

	return y
}

// Process1StickyAbs processes one sample, snapping to x in absolute mode.
func (c *OnePoleCoeffs) Process1StickyAbs(s *OnePoleState, x float32) float32 {
	y := x + c.mA1u*(s.z1-x)
	if d := y - x; d*d <= c.st2 {
		y = x
	}
	s.z1 = y

	return y
}

// Process1StickyRel processes one sample, snapping to x in relative mode.
func (c *OnePoleCoeffs) Process1StickyRel(s *OnePoleState, x float32) float32 {
	y := x + c.mA1u*(s.z1-x)
	if d := y - x; d*d <= c.st2*x*x {
		y = x
	}
	s.z1 = y

	return y
}

// Process1Asym processes one sample using the up or down coefficient.
func (c *OnePoleCoeffs) Process1Asym(s *OnePoleState, x float32) float32 {
	y := x + c.asym(s, x)*(s.z1-x)
	s.z1 = y

	return y
}

// Process1AsymStickyAbs combines Process1Asym and Process1StickyAbs.
func (c *OnePoleCoeffs) Process1AsymStickyAbs(s *OnePoleState, x float32) float32 {
	y := x + c.asym(s, x)*(s.z1-x)
	if d := y - x; d*d <= c.st2 {
		y = x
	}
	s.z1 = y

	return y
}

// Process1AsymStickyRel combines Process1Asym and Process1StickyRel.
func (c *OnePoleCoeffs) Process1AsymStickyRel(s *OnePoleState, x float32) float32 {
	y := x + c.asym(s, x)*(s.z1-x)
	if d := y - x; d*d <= c.st2*x*x {
		y = x
	}
	s.z1 = y

	return y
}

func (c *OnePoleCoeffs) asym(s *OnePoleState, x float32) float32 {
	if x >= s.z1 {
		return c.mA1u
	}

	return c.mA1d
}

// kernel returns the per-sample routine matching the current coefficients.
func (c *OnePoleCoeffs) kernel() func(*OnePoleCoeffs, *OnePoleState, float32) float32 {
	asym := c.mA1u != c.mA1d

	switch {
	case c.st2 == 0 && !asym:
		return (*OnePoleCoeffs).Process1
	case c.st2 == 0:
		return (*OnePoleCoeffs).Process1Asym
	case c.stickyMode == StickyAbs && !asym:
		return (*OnePoleCoeffs).Process1StickyAbs
	case c.stickyMode == StickyAbs:
		return (*OnePoleCoeffs).Process1AsymStickyAbs
	case !asym:
		return (*OnePoleCoeffs).Process1StickyRel
	default:
		return (*OnePoleCoeffs).Process1AsymStickyRel
	}
}

// Process runs UpdateCtrl and filters x into y. y may be nil, in which case
// only the state advances. The sample loop is chosen once per call.
func (c *OnePoleCoeffs) Process(s *OnePoleState, x, y []float32) {
	c.UpdateCtrl()

	k := c.kernel()
	if y == nil {
		for _, v := range x {
			k(c, s, v)
		}
		return
	}

	for i, v := range x {
		y[i] = k(c, s, v)
	}
}

// SetCutoff sets both the rise and fall cutoff in Hz. Negative and NaN
// values are ignored.
func (c *OnePoleCoeffs) SetCutoff(hz float32) {
	c.SetCutoffUp(hz)
	c.SetCutoffDown(hz)
}

// SetCutoffUp sets the cutoff used while the input rises.
func (c *OnePoleCoeffs) SetCutoffUp(hz float32) {
	if !(hz >= 0) || hz == c.cutoffUp {
		return
	}
	c.cutoffUp = hz
	c.dirty.Set(onePoleCutoffUp)
}

// SetCutoffDown sets the cutoff used while the input falls.
func (c *OnePoleCoeffs) SetCutoffDown(hz float32) {
	if !(hz >= 0) || hz == c.cutoffDown {
		return
	}
	c.cutoffDown = hz
	c.dirty.Set(onePoleCutoffDown)
}

// SetTau sets the time constant in seconds for both directions. Values
// below 1 ns mean no smoothing.
func (c *OnePoleCoeffs) SetTau(seconds float32) {
	c.SetTauUp(seconds)
	c.SetTauDown(seconds)
}

// SetTauUp sets the rising time constant in seconds.
func (c *OnePoleCoeffs) SetTauUp(seconds float32) {
	c.SetCutoffUp(TauToCutoff(seconds))
}

// SetTauDown sets the falling time constant in seconds.
func (c *OnePoleCoeffs) SetTauDown(seconds float32) {
	c.SetCutoffDown(TauToCutoff(seconds))
}

// SetStickyThresh sets the snapping threshold. 0 disables snapping.
func (c *OnePoleCoeffs) SetStickyThresh(thresh float32) {
	if !(thresh >= 0) || thresh == c.stickyThresh {
		return
	}
	c.stickyThresh = thresh
	c.dirty.Set(onePoleStickyThresh)
}

// SetStickyMode selects absolute or relative snapping.
func (c *OnePoleCoeffs) SetStickyMode(mode StickyMode) {
	if mode != StickyRel {
		mode = StickyAbs
	}
	c.stickyMode = mode
}

// TauToCutoff converts a time constant in seconds to the equivalent cutoff
// in Hz, 1/(2πτ). Anything below 1 ns maps to +Inf.
func TauToCutoff(seconds float32) float32 {
	if seconds < 1e-9 {
		return float32(math.Inf(1))
	}

	return 0.1591549430918953 / seconds
}

// OnePole is a multi-channel one-pole smoother.
type OnePole struct {
	coeffs OnePoleCoeffs
	states []OnePoleState
}

// NewOnePole returns a smoother for the given number of channels.
func NewOnePole(channels int) (*OnePole, error) {
	if err := core.ValidateChannels(channels); err != nil {
		return nil, err
	}

	return &OnePole{
		coeffs: NewOnePoleCoeffs(),
		states: make([]OnePoleState, channels),
	}, nil
}

// Channels returns the channel count.
func (p *OnePole) Channels() int { return len(p.states) }

// SetSampleRate sets the sample rate. Reset must follow before processing.
func (p *OnePole) SetSampleRate(sampleRate float64) error {
	if err := core.ValidateSampleRate(sampleRate); err != nil {
		return err
	}
	p.coeffs.SetSampleRate(float32(sampleRate))

	return nil
}

// Reset resets coefficients and sets every channel's output to x0.
func (p *OnePole) Reset(x0 float32) {
	p.coeffs.ResetCoeffs()
	for ch := range p.states {
		p.coeffs.ResetState(&p.states[ch], x0)
	}
}

// Process filters n samples of every channel. y or any y[ch] may be nil.
func (p *OnePole) Process(x, y [][]float32, n int) {
	p.coeffs.UpdateCtrl()
	for ch := range p.states {
		p.coeffs.Process(&p.states[ch], x[ch][:n], core.Channel(y, ch, n))
	}
}

// Value returns the last output of channel ch.
func (p *OnePole) Value(ch int) float32 { return p.states[ch].Value() }

// SetCutoff sets the cutoff in Hz for both directions.
func (p *OnePole) SetCutoff(hz float32) { p.coeffs.SetCutoff(hz) }

// SetCutoffUp sets the rising cutoff in Hz.
func (p *OnePole) SetCutoffUp(hz float32) { p.coeffs.SetCutoffUp(hz) }

// SetCutoffDown sets the falling cutoff in Hz.
func (p *OnePole) SetCutoffDown(hz float32) { p.coeffs.SetCutoffDown(hz) }

// SetTau sets the time constant in seconds for both directions.
func (p *OnePole) SetTau(seconds float32) { p.coeffs.SetTau(seconds) }

// SetTauUp sets the rising time constant in seconds.
func (p *OnePole) SetTauUp(seconds float32) { p.coeffs.SetTauUp(seconds) }

// SetTauDown sets the falling time constant in seconds.
func (p *OnePole) SetTauDown(seconds float32) { p.coeffs.SetTauDown(seconds) }

// SetStickyThresh sets the snapping threshold.
func (p *OnePole) SetStickyThresh(thresh float32) { p.coeffs.SetStickyThresh(thresh) }

// SetStickyMode selects the snapping mode.
func (p *OnePole) SetStickyMode(mode StickyMode) { p.coeffs.SetStickyMode(mode) }
