package effects

import (
	"github.com/cwbudde/algo-rtdsp/dsp/core"
	"github.com/cwbudde/algo-rtdsp/dsp/fastmath"
)

// SRReduceCoeffs holds the coefficients of a sample rate reducer. The
// output holds the input for 1/ratio samples, so a ratio of 0.25 keeps
// every fourth sample and a ratio of 1 passes the input through.
type SRReduceCoeffs struct {
	ratio float32
}

// SRReduceState is the per-channel hold value and phase accumulator.
type SRReduceState struct {
	yZ1   float32
	phase float32
}

// NewSRReduceCoeffs returns a reducer with ratio 1.
func NewSRReduceCoeffs() SRReduceCoeffs { return SRReduceCoeffs{ratio: 1} }

// SetSampleRate is a no-op kept for the uniform unit lifecycle.
func (c *SRReduceCoeffs) SetSampleRate(float32) {}

// ResetCoeffs is a no-op kept for the uniform unit lifecycle.
func (c *SRReduceCoeffs) ResetCoeffs() {}

// ResetState holds x0 and arms the next sample to be captured.
func (c *SRReduceCoeffs) ResetState(s *SRReduceState, x0 float32) float32 {
	s.yZ1 = x0
	s.phase = 1

	return x0
}

// UpdateCtrl is a no-op kept for the uniform unit lifecycle.
func (c *SRReduceCoeffs) UpdateCtrl() {}

// UpdateAudio is a no-op kept for the uniform unit lifecycle.
func (c *SRReduceCoeffs) UpdateAudio() {}

// Process1 processes one sample.
func (c *SRReduceCoeffs) Process1(s *SRReduceState, x float32) float32 {
	s.phase += c.ratio
	if s.phase >= 1 {
		s.yZ1 = x
		s.phase -= fastmath.Floor(s.phase)
	}

	return s.yZ1
}

// Process processes len(x) samples.
func (c *SRReduceCoeffs) Process(s *SRReduceState, x, y []float32) {
	for i, v := range x {
		y[i] = c.Process1(s, v)
	}
}

// SetRatio sets the output to input rate ratio in [0, 1].
func (c *SRReduceCoeffs) SetRatio(ratio float32) {
	c.ratio = core.Sanitize(ratio, c.ratio, 0, 1)
}

// Ratio returns the output to input rate ratio.
func (c *SRReduceCoeffs) Ratio() float32 { return c.ratio }

// SampleRateReducer is a multi-channel sample-and-hold rate reducer.
type SampleRateReducer struct {
	coeffs SRReduceCoeffs
	states []SRReduceState
}

// NewSampleRateReducer returns a reducer for the given number of channels.
func NewSampleRateReducer(channels int) (*SampleRateReducer, error) {
	if err := core.ValidateChannels(channels); err != nil {
		return nil, err
	}

	return &SampleRateReducer{
		coeffs: NewSRReduceCoeffs(),
		states: make([]SRReduceState, channels),
	}, nil
}

// Channels returns the channel count.
func (r *SampleRateReducer) Channels() int { return len(r.states) }

// SetSampleRate validates the sample rate.
func (r *SampleRateReducer) SetSampleRate(sampleRate float64) error {
	return core.ValidateSampleRate(sampleRate)
}

// Reset holds x0 on every channel.
func (r *SampleRateReducer) Reset(x0 float32) {
	for ch := range r.states {
		r.coeffs.ResetState(&r.states[ch], x0)
	}
}

// Process processes n samples of every channel. Any y[ch] may be nil, in
// which case the channel state still advances.
func (r *SampleRateReducer) Process(x, y [][]float32, n int) {
	for ch := range r.states {
		s := &r.states[ch]
		out := core.Channel(y, ch, n)
		for i, v := range x[ch][:n] {
			v = r.coeffs.Process1(s, v)
			if out != nil {
				out[i] = v
			}
		}
	}
}

// SetRatio sets the output to input rate ratio.
func (r *SampleRateReducer) SetRatio(ratio float32) { r.coeffs.SetRatio(ratio) }

// Ratio returns the output to input rate ratio.
func (r *SampleRateReducer) Ratio() float32 { return r.coeffs.Ratio() }
