package delay

import (
	"github.com/cwbudde/algo-rtdsp/dsp/core"
	"github.com/cwbudde/algo-rtdsp/dsp/fastmath"
)

// Coeffs holds the shared coefficients of a delay line.
type Coeffs struct {
	fs     float32
	length int
	di     int
	df     float32

	maxDelay     float32
	delay        float32
	delayChanged bool
}

// State is one channel's circular buffer.
type State struct {
	buf []float32
	idx int
}

// NewCoeffs returns coefficients for delays up to maxDelay seconds. The
// initial delay is 0.
func NewCoeffs(maxDelay float32) Coeffs {
	return Coeffs{maxDelay: core.Sanitize(maxDelay, 0, 0, maxFloat32)}
}

const maxFloat32 = 3.4028234663852886e38

// SetSampleRate derives the buffer length, ceil(fs*maxDelay) + 1 samples.
// Every State must then be given MemReq samples with MemSet.
func (c *Coeffs) SetSampleRate(sampleRate float32) {
	c.fs = sampleRate
	c.length = int(lengthFor(sampleRate, c.maxDelay))
}

func lengthFor(sampleRate, maxDelay float32) float32 {
	return fastmath.Ceil(sampleRate*maxDelay) + 1
}

// MemReq returns the number of samples each State needs.
func (c *Coeffs) MemReq() int { return c.length }

// MemSet hands mem[:MemReq()] to s as its buffer.
func (c *Coeffs) MemSet(s *State, mem []float32) {
	s.buf = mem[:c.length]
	s.idx = 0
}

// Len returns the buffer length in samples.
func (c *Coeffs) Len() int { return c.length }

// MaxDelay returns the maximum delay in seconds.
func (c *Coeffs) MaxDelay() float32 { return c.maxDelay }

// ResetCoeffs recomputes the delay split.
func (c *Coeffs) ResetCoeffs() {
	c.delayChanged = true
	c.UpdateCtrl()
}

// ResetState fills the buffer with x0 and returns x0.
func (c *Coeffs) ResetState(s *State, x0 float32) float32 {
	core.Fill(s.buf, x0)
	s.idx = 0

	return x0
}

// UpdateCtrl splits a changed delay into whole samples and a fraction.
func (c *Coeffs) UpdateCtrl() {
	if !c.delayChanged {
		return
	}

	i, f := fastmath.IntFrac(c.fs * c.delay)
	c.di, c.df = c.clampRead(int(i), f)
	c.delayChanged = false
}

func (c *Coeffs) clampRead(di int, df float32) (int, float32) {
	if di < 0 {
		return 0, 0
	}
	if last := c.length - 1; di >= last {
		return max(last, 0), 0
	}

	return di, df
}

// Read returns the sample di + df samples in the past, interpolating
// linearly between the two neighbours. Read(s, 0, 0) is the last written
// sample. Delays beyond the buffer are clamped to its length.
func (c *Coeffs) Read(s *State, di int, df float32) float32 {
	di, df = c.clampRead(di, df)

	n := s.idx - di
	if n < 0 {
		n += c.length
	}
	p := n - 1
	if n == 0 {
		p = c.length - 1
	}

	return s.buf[n] + df*(s.buf[p]-s.buf[n])
}

// Write advances the write index and stores x.
func (c *Coeffs) Write(s *State, x float32) {
	s.idx++
	if s.idx == c.length {
		s.idx = 0
	}
	s.buf[s.idx] = x
}

// Process1 writes x and reads back at the configured delay.
func (c *Coeffs) Process1(s *State, x float32) float32 {
	c.Write(s, x)
	return c.Read(s, c.di, c.df)
}

// Process delays len(x) samples. y may be nil.
func (c *Coeffs) Process(s *State, x, y []float32) {
	c.UpdateCtrl()
	if y == nil {
		for _, v := range x {
			c.Write(s, v)
		}

		return
	}
	for i, v := range x {
		y[i] = c.Process1(s, v)
	}
}

// SetDelay sets the delay in seconds, clamped to [0, MaxDelay].
func (c *Coeffs) SetDelay(seconds float32) {
	v := core.Sanitize(seconds, c.delay, 0, c.maxDelay)
	if v != c.delay {
		c.delay = v
		c.delayChanged = true
	}
}

// Delay returns the delay parameter in seconds.
func (c *Coeffs) Delay() float32 { return c.delay }
