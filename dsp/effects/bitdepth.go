package effects

import (
	"math"

	"github.com/cwbudde/algo-rtdsp/dsp/core"
	"github.com/cwbudde/algo-rtdsp/dsp/fastmath"
)

const (
	// MinBitDepth and MaxBitDepth bound the bit depth of BitDepthReducer.
	MinBitDepth = 1
	MaxBitDepth = 64

	defaultBitDepth = 16
)

// BitDepthCoeffs holds the coefficients of a bit depth reducer. Input is
// clipped just below full scale, zeroed when under the gate threshold and
// quantized to 2^(bits-1) steps per unit.
//
// With silence DC on (the default) the quantizer output is offset by half a
// step so that zero maps to the middle of a step, mirroring the midtread
// layout of real converters.
type BitDepthCoeffs struct {
	k   float32
	ki  float32
	max float32
	ko  float32

	bitDepth  int
	gate      float32
	silenceDC bool
	changed   bool
}

// NewBitDepthCoeffs returns a 16-bit reducer with no gate.
func NewBitDepthCoeffs() BitDepthCoeffs {
	c := BitDepthCoeffs{
		bitDepth:  defaultBitDepth,
		silenceDC: true,
		changed:   true,
	}
	c.update()

	return c
}

// SetSampleRate is a no-op kept for the uniform unit lifecycle.
func (c *BitDepthCoeffs) SetSampleRate(float32) {}

// ResetCoeffs applies pending parameter changes.
func (c *BitDepthCoeffs) ResetCoeffs() {
	c.changed = true
	c.update()
}

// ResetState returns the output for a constant input x0. The unit is
// stateless.
func (c *BitDepthCoeffs) ResetState(x0 float32) float32 { return c.Process1(x0) }

func (c *BitDepthCoeffs) update() {
	if !c.changed {
		return
	}

	c.k = fastmath.Pow2(float32(c.bitDepth - 1))
	c.ki = fastmath.Pow2(float32(1 - c.bitDepth))
	c.max = 1 - 0.5*c.ki
	c.ko = 0
	if c.silenceDC {
		c.ko = 0.5
	}
	c.changed = false
}

// UpdateCtrl applies pending parameter changes.
func (c *BitDepthCoeffs) UpdateCtrl() { c.update() }

// UpdateAudio is a no-op kept for the uniform unit lifecycle.
func (c *BitDepthCoeffs) UpdateAudio() {}

// Process1 reduces one sample.
func (c *BitDepthCoeffs) Process1(x float32) float32 {
	if fastmath.Abs(x) < c.gate {
		x = 0
	}

	return c.ki * (fastmath.Floor(c.k*fastmath.Clip(x, -c.max, c.max)) + c.ko)
}

// Process reduces len(x) samples.
func (c *BitDepthCoeffs) Process(x, y []float32) {
	c.UpdateCtrl()
	for i, v := range x {
		y[i] = c.Process1(v)
	}
}

// SetBitDepth sets the output bit depth in [MinBitDepth, MaxBitDepth].
func (c *BitDepthCoeffs) SetBitDepth(bits int) {
	bits = min(max(bits, MinBitDepth), MaxBitDepth)
	if bits != c.bitDepth {
		c.bitDepth = bits
		c.changed = true
	}
}

// BitDepth returns the output bit depth.
func (c *BitDepthCoeffs) BitDepth() int { return c.bitDepth }

// SetSilenceDC selects whether the quantizer is offset by half a step.
func (c *BitDepthCoeffs) SetSilenceDC(on bool) {
	if on != c.silenceDC {
		c.silenceDC = on
		c.changed = true
	}
}

// SetGateLin sets the gate threshold as a linear amplitude in [0, 1].
func (c *BitDepthCoeffs) SetGateLin(threshold float32) {
	c.gate = core.Sanitize(threshold, c.gate, 0, 1)
}

// SetGateDBFS sets the gate threshold in dBFS, at most 0.
func (c *BitDepthCoeffs) SetGateDBFS(db float32) {
	if math.IsNaN(float64(db)) {
		return
	}
	c.SetGateLin(fastmath.DBToLinear(fastmath.Min(db, 0)))
}

// BitDepthReducer is a multi-channel bit depth reducer.
type BitDepthReducer struct {
	coeffs   BitDepthCoeffs
	channels int
}

// NewBitDepthReducer returns a reducer for the given number of channels.
func NewBitDepthReducer(channels int) (*BitDepthReducer, error) {
	if err := core.ValidateChannels(channels); err != nil {
		return nil, err
	}

	return &BitDepthReducer{coeffs: NewBitDepthCoeffs(), channels: channels}, nil
}

// Channels returns the channel count.
func (r *BitDepthReducer) Channels() int { return r.channels }

// SetSampleRate validates the sample rate.
func (r *BitDepthReducer) SetSampleRate(sampleRate float64) error {
	return core.ValidateSampleRate(sampleRate)
}

// Reset applies pending parameter changes.
func (r *BitDepthReducer) Reset() { r.coeffs.ResetCoeffs() }

// Process reduces n samples of every channel. Any y[ch] may be nil.
func (r *BitDepthReducer) Process(x, y [][]float32, n int) {
	r.coeffs.UpdateCtrl()
	for ch := 0; ch < r.channels; ch++ {
		out := core.Channel(y, ch, n)
		if out == nil {
			continue
		}
		for i, v := range x[ch][:n] {
			out[i] = r.coeffs.Process1(v)
		}
	}
}

// SetBitDepth sets the output bit depth.
func (r *BitDepthReducer) SetBitDepth(bits int) { r.coeffs.SetBitDepth(bits) }

// BitDepth returns the output bit depth.
func (r *BitDepthReducer) BitDepth() int { return r.coeffs.BitDepth() }

// SetSilenceDC selects whether the quantizer is offset by half a step.
func (r *BitDepthReducer) SetSilenceDC(on bool) { r.coeffs.SetSilenceDC(on) }

// SetGateLin sets the gate threshold as a linear amplitude.
func (r *BitDepthReducer) SetGateLin(threshold float32) { r.coeffs.SetGateLin(threshold) }

// SetGateDBFS sets the gate threshold in dBFS.
func (r *BitDepthReducer) SetGateDBFS(db float32) { r.coeffs.SetGateDBFS(db) }
