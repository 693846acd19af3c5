package resample

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-rtdsp/dsp/core"
)

var (
	// ErrInvalidRatio indicates a ratio in [-1, 1].
	ErrInvalidRatio = errors.New("resample: invalid ratio")
	// ErrInvalidRate indicates an input or output rate that is not > 0 and
	// finite.
	ErrInvalidRate = errors.New("resample: invalid sample rate")
)

// IntegerCoeffs holds the anti-aliasing filter of an integer-ratio
// converter.
//
// A positive ratio r interpolates: every input sample yields r output
// samples. A negative ratio -r decimates: every r-th input sample yields
// one output sample, starting with the first after a reset.
type IntegerCoeffs struct {
	ratio int

	b0  float32
	ma1 float32
	ma2 float32
	ma3 float32
	ma4 float32
}

// IntegerState is one channel's filter memory and decimation counter.
type IntegerState struct {
	i  int
	z1 float32
	z2 float32
	z3 float32
	z4 float32
}

// NewIntegerCoeffs designs the filter for the given ratio, which must not
// be in [-1, 1].
func NewIntegerCoeffs(ratio int) (IntegerCoeffs, error) {
	if ratio >= -1 && ratio <= 1 {
		return IntegerCoeffs{}, fmt.Errorf("%w: %d", ErrInvalidRatio, ratio)
	}

	// Bilinear transform prewarped to the lower Nyquist frequency.
	fc := math.Abs(float64(ratio))
	t := math.Tan(0.5 * math.Pi / fc)
	t2 := t * t

	const (
		a1 = 2.613125929752753 // 2(cos(π/8) + cos(3π/8))
		a2 = 3.414213562373095 // 2 + √2
	)

	k := 1 / (t*(t*(t*(t+a1)+a2)+a1) + 1)

	return IntegerCoeffs{
		ratio: ratio,
		b0:    float32(k * t2 * t2),
		ma1:   float32(k * (t*(t2*(-2*a1-4*t)+2*a1) + 4)),
		ma2:   float32(k * ((2*a2-6*t2)*t2 - 6)),
		ma3:   float32(k * (t*(t2*(2*a1-4*t)-2*a1) + 4)),
		ma4:   float32(k * (t*(t*((a1-t)*t-a2)+a1) - 1)),
	}, nil
}

// Ratio returns the conversion ratio.
func (c *IntegerCoeffs) Ratio() int { return c.ratio }

// OutLen returns the largest number of output samples Process can produce
// for n input samples.
func (c *IntegerCoeffs) OutLen(n int) int {
	if c.ratio > 0 {
		return c.ratio * n
	}

	return (n - c.ratio - 1) / -c.ratio
}

// ResetState sets a channel to the steady state for a constant input x0 and
// returns the matching output, which is x0.
func (c *IntegerCoeffs) ResetState(s *IntegerState, x0 float32) float32 {
	if c.ratio < 0 {
		z := x0 / (1 - c.ma1 - c.ma2 - c.ma3 - c.ma4)
		*s = IntegerState{z1: z, z2: z, z3: z, z4: z}

		return x0
	}

	k := 4 * c.b0
	s.i = 0
	s.z4 = (c.b0 + c.ma4) * x0
	s.z3 = (k+c.ma3)*x0 + s.z4
	s.z2 = (6*c.b0+c.ma2)*x0 + s.z3
	s.z1 = (k+c.ma1)*x0 + s.z2

	return x0
}

// Process converts x and returns the number of samples written to y, which
// needs room for OutLen(len(x)) samples. y may be nil to only advance the
// state. x and y must not overlap.
func (c *IntegerCoeffs) Process(s *IntegerState, x, y []float32) int {
	if c.ratio < 0 {
		return c.decimate(s, x, y)
	}

	return c.interpolate(s, x, y)
}

func (c *IntegerCoeffs) decimate(s *IntegerState, x, y []float32) int {
	n := 0
	for _, v := range x {
		z0 := v + c.ma1*s.z1 + c.ma2*s.z2 + c.ma3*s.z3 + c.ma4*s.z4
		if s.i == 0 {
			s.i = -c.ratio
			if y != nil {
				y[n] = c.b0 * (z0 + s.z4 + 4*(s.z1+s.z3) + 6*s.z2)
			}
			n++
		}
		s.i--
		s.z4 = s.z3
		s.z3 = s.z2
		s.z2 = s.z1
		s.z1 = z0
	}

	return n
}

func (c *IntegerCoeffs) interpolate(s *IntegerState, x, y []float32) int {
	n := 0
	for _, v := range x {
		// Zero stuffing loses a factor of ratio in level.
		v0 := c.b0 * float32(c.ratio) * v
		v1 := 4 * v0
		v2 := 6 * v0

		o := v0 + s.z1
		s.z1 = v1 + c.ma1*o + s.z2
		s.z2 = v2 + c.ma2*o + s.z3
		s.z3 = v1 + c.ma3*o + s.z4
		s.z4 = v0 + c.ma4*o
		if y != nil {
			y[n] = o
		}
		n++

		for j := 1; j < c.ratio; j++ {
			o = s.z1
			s.z1 = c.ma1*o + s.z2
			s.z2 = c.ma2*o + s.z3
			s.z3 = c.ma3*o + s.z4
			s.z4 = c.ma4 * o
			if y != nil {
				y[n] = o
			}
			n++
		}
	}

	return n
}

// Integer is a multi-channel integer-ratio sample-rate converter. It has no
// sample-rate dependent parameters.
type Integer struct {
	coeffs IntegerCoeffs
	states []IntegerState
}

// NewInteger returns a converter for the given number of channels and
// ratio.
func NewInteger(channels, ratio int) (*Integer, error) {
	if err := core.ValidateChannels(channels); err != nil {
		return nil, err
	}

	coeffs, err := NewIntegerCoeffs(ratio)
	if err != nil {
		return nil, err
	}

	return &Integer{coeffs: coeffs, states: make([]IntegerState, channels)}, nil
}

// Channels returns the channel count.
func (r *Integer) Channels() int { return len(r.states) }

// Ratio returns the conversion ratio.
func (r *Integer) Ratio() int { return r.coeffs.ratio }

// OutLen returns the largest number of output samples per channel for n
// input samples.
func (r *Integer) OutLen(n int) int { return r.coeffs.OutLen(n) }

// Reset sets every channel to the steady state for the input x0.
func (r *Integer) Reset(x0 float32) {
	for ch := range r.states {
		r.coeffs.ResetState(&r.states[ch], x0)
	}
}

// Process converts n samples of every channel and returns the number of
// samples written to each y[ch]. Any y[ch] may be nil.
func (r *Integer) Process(x, y [][]float32, n int) int {
	out := 0
	for ch := range r.states {
		var dst []float32
		if ch < len(y) {
			dst = y[ch]
		}
		out = r.coeffs.Process(&r.states[ch], x[ch][:n], dst)
	}

	return out
}
