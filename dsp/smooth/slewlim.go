package smooth

import (
	"math"

	"github.com/cwbudde/algo-rtdsp/dsp/core"
)

// SlewLimCoeffs holds the coefficients of a slew-rate limiter:
//
//	y[n] = clip(x[n], y[n-1] - T*rateDown, y[n-1] + T*rateUp)
//
// An infinite rate disables limiting in that direction.
type SlewLimCoeffs struct {
	t      float32
	maxInc float32
	maxDec float32

	rateUp   float32
	rateDown float32
}

// SlewLimState is the per-channel memory of a slew-rate limiter.
type SlewLimState struct {
	z1 float32
}

// Value returns the last output.
func (s *SlewLimState) Value() float32 { return s.z1 }

// NewSlewLimCoeffs returns coefficients with unlimited rates.
func NewSlewLimCoeffs() SlewLimCoeffs {
	inf := float32(math.Inf(1))
	return SlewLimCoeffs{rateUp: inf, rateDown: inf}
}

// SetSampleRate stores the sampling period.
func (c *SlewLimCoeffs) SetSampleRate(sampleRate float32) {
	c.t = 1 / sampleRate
}

// ResetCoeffs recomputes the per-sample limits.
func (c *SlewLimCoeffs) ResetCoeffs() {
	c.UpdateCtrl()
}

// ResetState sets the channel memory to x0 and returns it.
func (c *SlewLimCoeffs) ResetState(s *SlewLimState, x0 float32) float32 {
	s.z1 = x0
	return x0
}

// UpdateCtrl recomputes the per-sample limits from the rates.
func (c *SlewLimCoeffs) UpdateCtrl() {
	c.maxInc = c.t * c.rateUp
	c.maxDec = c.t * c.rateDown
}

// Process1 limits both directions.
func (c *SlewLimCoeffs) Process1(s *SlewLimState, x float32) float32 {
	y := min(max(x, s.z1-c.maxDec), s.z1+c.maxInc)
	s.z1 = y

	return y
}

// Process1Up limits rising input only.
func (c *SlewLimCoeffs) Process1Up(s *SlewLimState, x float32) float32 {
	y := min(x, s.z1+c.maxInc)
	s.z1 = y

	return y
}

// Process1Down limits falling input only.
func (c *SlewLimCoeffs) Process1Down(s *SlewLimState, x float32) float32 {
	y := max(x, s.z1-c.maxDec)
	s.z1 = y

	return y
}

// Process1None passes x through and records it.
func (c *SlewLimCoeffs) Process1None(s *SlewLimState, x float32) float32 {
	s.z1 = x
	return x
}

func (c *SlewLimCoeffs) kernel() func(*SlewLimCoeffs, *SlewLimState, float32) float32 {
	up := !math.IsInf(float64(c.rateUp), 1)
	down := !math.IsInf(float64(c.rateDown), 1)

	switch {
	case up && down:
		return (*SlewLimCoeffs).Process1
	case up:
		return (*SlewLimCoeffs).Process1Up
	case down:
		return (*SlewLimCoeffs).Process1Down
	default:
		return (*SlewLimCoeffs).Process1None
	}
}

// Process runs UpdateCtrl and limits x into y. y may be nil.
func (c *SlewLimCoeffs) Process(s *SlewLimState, x, y []float32) {
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

// SetMaxRate sets the rate limit for both directions in units per second.
// Negative and NaN values are ignored.
func (c *SlewLimCoeffs) SetMaxRate(rate float32) {
	c.SetMaxRateUp(rate)
	c.SetMaxRateDown(rate)
}

// SetMaxRateUp sets the rising rate limit in units per second.
func (c *SlewLimCoeffs) SetMaxRateUp(rate float32) {
	if rate >= 0 {
		c.rateUp = rate
	}
}

// SetMaxRateDown sets the falling rate limit in units per second.
func (c *SlewLimCoeffs) SetMaxRateDown(rate float32) {
	if rate >= 0 {
		c.rateDown = rate
	}
}

// SlewLim is a multi-channel slew-rate limiter.
type SlewLim struct {
	coeffs SlewLimCoeffs
	states []SlewLimState
}

// NewSlewLim returns a limiter for the given number of channels.
func NewSlewLim(channels int) (*SlewLim, error) {
	if err := core.ValidateChannels(channels); err != nil {
		return nil, err
	}

	return &SlewLim{
		coeffs: NewSlewLimCoeffs(),
		states: make([]SlewLimState, channels),
	}, nil
}

// Channels returns the channel count.
func (l *SlewLim) Channels() int { return len(l.states) }

// SetSampleRate sets the sample rate. Reset must follow before processing.
func (l *SlewLim) SetSampleRate(sampleRate float64) error {
	if err := core.ValidateSampleRate(sampleRate); err != nil {
		return err
	}
	l.coeffs.SetSampleRate(float32(sampleRate))

	return nil
}

// Reset resets coefficients and sets every channel's output to x0.
func (l *SlewLim) Reset(x0 float32) {
	l.coeffs.ResetCoeffs()
	for ch := range l.states {
		l.coeffs.ResetState(&l.states[ch], x0)
	}
}

// Process limits n samples of every channel. y or any y[ch] may be nil.
func (l *SlewLim) Process(x, y [][]float32, n int) {
	for ch := range l.states {
		l.coeffs.Process(&l.states[ch], x[ch][:n], core.Channel(y, ch, n))
	}
}

// Value returns the last output of channel ch.
func (l *SlewLim) Value(ch int) float32 { return l.states[ch].Value() }

// SetMaxRate sets the rate limit for both directions.
func (l *SlewLim) SetMaxRate(rate float32) { l.coeffs.SetMaxRate(rate) }

// SetMaxRateUp sets the rising rate limit.
func (l *SlewLim) SetMaxRateUp(rate float32) { l.coeffs.SetMaxRateUp(rate) }

// SetMaxRateDown sets the falling rate limit.
func (l *SlewLim) SetMaxRateDown(rate float32) { l.coeffs.SetMaxRateDown(rate) }
