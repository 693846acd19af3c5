package envelope

import (
	"github.com/cwbudde/algo-rtdsp/dsp/core"
	"github.com/cwbudde/algo-rtdsp/dsp/fastmath"
	"github.com/cwbudde/algo-rtdsp/dsp/smooth"
)

// FollowerCoeffs holds the shared coefficients of an envelope follower.
type FollowerCoeffs struct {
	onePole smooth.OnePoleCoeffs
}

// FollowerState is the per-channel memory of an envelope follower.
type FollowerState struct {
	onePole smooth.OnePoleState
}

// Value returns the last output.
func (s *FollowerState) Value() float32 { return s.onePole.Value() }

// NewFollowerCoeffs returns coefficients with instantaneous attack and
// release.
func NewFollowerCoeffs() FollowerCoeffs {
	return FollowerCoeffs{onePole: smooth.NewOnePoleCoeffs()}
}

// SetSampleRate stores the sample rate. ResetCoeffs must follow.
func (c *FollowerCoeffs) SetSampleRate(sampleRate float32) {
	c.onePole.SetSampleRate(sampleRate)
}

// ResetCoeffs recomputes the smoother coefficients.
func (c *FollowerCoeffs) ResetCoeffs() { c.onePole.ResetCoeffs() }

// ResetState seeds a channel with |x0| and returns it.
func (c *FollowerCoeffs) ResetState(s *FollowerState, x0 float32) float32 {
	return c.onePole.ResetState(&s.onePole, fastmath.Abs(x0))
}

// UpdateCtrl applies pending attack and release changes.
func (c *FollowerCoeffs) UpdateCtrl() { c.onePole.UpdateCtrl() }

// Process1 follows one sample.
func (c *FollowerCoeffs) Process1(s *FollowerState, x float32) float32 {
	return c.onePole.Process1Asym(&s.onePole, fastmath.Abs(x))
}

// Process follows len(x) samples. y may be nil.
func (c *FollowerCoeffs) Process(s *FollowerState, x, y []float32) {
	c.UpdateCtrl()
	if y == nil {
		for _, v := range x {
			c.Process1(s, v)
		}

		return
	}
	for i, v := range x {
		y[i] = c.Process1(s, v)
	}
}

// SetAttackTau sets the rise time constant in seconds.
func (c *FollowerCoeffs) SetAttackTau(seconds float32) { c.onePole.SetTauUp(seconds) }

// SetReleaseTau sets the fall time constant in seconds.
func (c *FollowerCoeffs) SetReleaseTau(seconds float32) { c.onePole.SetTauDown(seconds) }

// Follower is a multi-channel envelope follower.
type Follower struct {
	coeffs FollowerCoeffs
	states []FollowerState
}

// NewFollower returns a follower for the given number of channels.
func NewFollower(channels int) (*Follower, error) {
	if err := core.ValidateChannels(channels); err != nil {
		return nil, err
	}

	return &Follower{
		coeffs: NewFollowerCoeffs(),
		states: make([]FollowerState, channels),
	}, nil
}

// Channels returns the channel count.
func (f *Follower) Channels() int { return len(f.states) }

// SetSampleRate sets the sample rate. Reset must follow before processing.
func (f *Follower) SetSampleRate(sampleRate float64) error {
	if err := core.ValidateSampleRate(sampleRate); err != nil {
		return err
	}
	f.coeffs.SetSampleRate(float32(sampleRate))

	return nil
}

// Reset resets the coefficients and seeds every channel with |x0|.
func (f *Follower) Reset(x0 float32) {
	f.coeffs.ResetCoeffs()
	for ch := range f.states {
		f.coeffs.ResetState(&f.states[ch], x0)
	}
}

// Process follows n samples of every channel. y or any y[ch] may be nil.
func (f *Follower) Process(x, y [][]float32, n int) {
	f.coeffs.UpdateCtrl()
	for ch := range f.states {
		f.coeffs.Process(&f.states[ch], x[ch][:n], core.Channel(y, ch, n))
	}
}

// Value returns the last output of channel ch.
func (f *Follower) Value(ch int) float32 { return f.states[ch].Value() }

// SetAttackTau sets the rise time constant in seconds.
func (f *Follower) SetAttackTau(seconds float32) { f.coeffs.SetAttackTau(seconds) }

// SetReleaseTau sets the fall time constant in seconds.
func (f *Follower) SetReleaseTau(seconds float32) { f.coeffs.SetReleaseTau(seconds) }
