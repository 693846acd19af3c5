package effects

import (
	"github.com/cwbudde/algo-rtdsp/dsp/core"
	"github.com/cwbudde/algo-rtdsp/dsp/fastmath"
)

// saturKnee is where the cubic tanh approximation reaches ±1.
const saturKnee = 2.115287308554551

func saturAntiderivative(x float32) float32 {
	a := fastmath.Abs(x)
	if a >= saturKnee {
		return a - 0.6847736211329452
	}

	return a * a * ((0.00304518315009429*a-0.09167437770414569)*a + 0.5)
}

// SaturCoeffs holds the coefficients of an antialiased tanh-like saturator.
// Gain compensation is on by default, so the small-signal gain stays 1.
type SaturCoeffs struct {
	shaperCoeffs
}

// NewSaturCoeffs returns a saturator with unity gain, no bias and gain
// compensation on.
func NewSaturCoeffs() SaturCoeffs {
	return SaturCoeffs{newShaperCoeffs(fastmath.Tanh, true)}
}

// ResetState seeds a channel with x0 and returns the matching output.
func (c *SaturCoeffs) ResetState(s *ShaperState, x0 float32) float32 {
	return c.resetState(s, x0, saturAntiderivative)
}

// Process1 saturates one sample.
func (c *SaturCoeffs) Process1(s *ShaperState, x float32) float32 {
	return c.process1(s, x, saturAntiderivative)
}

// Process saturates len(x) samples, advancing the smoothers per sample.
func (c *SaturCoeffs) Process(s *ShaperState, x, y []float32) {
	for i, v := range x {
		c.UpdateAudio()
		y[i] = c.Process1(s, v)
	}
}

// Satur is a multi-channel antialiased saturator.
type Satur struct {
	coeffs SaturCoeffs
	states []ShaperState
}

// NewSatur returns a saturator for the given number of channels.
func NewSatur(channels int) (*Satur, error) {
	if err := core.ValidateChannels(channels); err != nil {
		return nil, err
	}

	return &Satur{
		coeffs: NewSaturCoeffs(),
		states: make([]ShaperState, channels),
	}, nil
}

// Channels returns the channel count.
func (s *Satur) Channels() int { return len(s.states) }

// SetSampleRate sets the sample rate. Reset must follow before processing.
func (s *Satur) SetSampleRate(sampleRate float64) error {
	if err := core.ValidateSampleRate(sampleRate); err != nil {
		return err
	}
	s.coeffs.SetSampleRate(float32(sampleRate))

	return nil
}

// Reset jumps the parameters to their targets and seeds every channel with
// x0.
func (s *Satur) Reset(x0 float32) {
	s.coeffs.ResetCoeffs()
	for ch := range s.states {
		s.coeffs.ResetState(&s.states[ch], x0)
	}
}

// Process saturates n samples of every channel. Any y[ch] may be nil.
func (s *Satur) Process(x, y [][]float32, n int) {
	for i := 0; i < n; i++ {
		s.coeffs.UpdateAudio()
		for ch := range s.states {
			v := s.coeffs.Process1(&s.states[ch], x[ch][i])
			if out := core.Channel(y, ch, n); out != nil {
				out[i] = v
			}
		}
	}
}

// SetBias sets the input bias.
func (s *Satur) SetBias(bias float32) { s.coeffs.SetBias(bias) }

// SetGain sets the input gain.
func (s *Satur) SetGain(gain float32) { s.coeffs.SetGain(gain) }

// SetGainCompensation divides the output by the input gain when on.
func (s *Satur) SetGainCompensation(on bool) { s.coeffs.SetGainCompensation(on) }
