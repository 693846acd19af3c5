package signal

import (
	"github.com/cwbudde/algo-rtdsp/dsp/core"
	"github.com/cwbudde/algo-rtdsp/dsp/fastmath"
)

// NoiseGenCoeffs holds the generator and scaling of a white noise source.
type NoiseGenCoeffs struct {
	rand              Rand
	scalingK          float32
	sampleRateScaling bool
}

// NewNoiseGenCoeffs returns an unscaled noise source seeded with seed.
func NewNoiseGenCoeffs(seed uint64) NoiseGenCoeffs {
	return NoiseGenCoeffs{rand: NewRand(seed)}
}

// SetSampleRate derives the scaling factor 0.004761904761904762*sqrt(fs),
// which is 1 at 44.1 kHz.
func (c *NoiseGenCoeffs) SetSampleRate(sampleRate float32) {
	c.scalingK = 0.004761904761904762 * fastmath.Sqrt(sampleRate)
}

// Process1 returns one unscaled sample in [-1, 1].
func (c *NoiseGenCoeffs) Process1() float32 { return c.rand.Float32() }

// Process1Scaling returns one sample scaled by the sample-rate factor.
func (c *NoiseGenCoeffs) Process1Scaling() float32 { return c.scalingK * c.rand.Float32() }

// Process fills y with noise, scaled when sample-rate scaling is enabled.
func (c *NoiseGenCoeffs) Process(y []float32) {
	if c.sampleRateScaling {
		for i := range y {
			y[i] = c.Process1Scaling()
		}

		return
	}
	for i := range y {
		y[i] = c.Process1()
	}
}

// SetSampleRateScaling toggles sample-rate dependent scaling.
func (c *NoiseGenCoeffs) SetSampleRateScaling(on bool) { c.sampleRateScaling = on }

// ScalingK returns the sample-rate scaling factor.
func (c *NoiseGenCoeffs) ScalingK() float32 { return c.scalingK }

// NoiseGen is a multi-channel white noise source. All channels draw from
// one generator, so they are mutually uncorrelated.
type NoiseGen struct {
	coeffs   NoiseGenCoeffs
	seed     uint64
	channels int
}

// NewNoiseGen returns a noise source for the given number of channels.
func NewNoiseGen(channels int, seed uint64) (*NoiseGen, error) {
	if err := core.ValidateChannels(channels); err != nil {
		return nil, err
	}

	return &NoiseGen{
		coeffs:   NewNoiseGenCoeffs(seed),
		seed:     seed,
		channels: channels,
	}, nil
}

// Channels returns the channel count.
func (g *NoiseGen) Channels() int { return g.channels }

// SetSampleRate sets the sample rate used for scaling.
func (g *NoiseGen) SetSampleRate(sampleRate float64) error {
	if err := core.ValidateSampleRate(sampleRate); err != nil {
		return err
	}
	g.coeffs.SetSampleRate(float32(sampleRate))

	return nil
}

// Reset reseeds the generator, so output after Reset is reproducible.
func (g *NoiseGen) Reset() { g.coeffs.rand.Seed(g.seed) }

// Process fills n samples of every channel. Any y[ch] may be nil.
func (g *NoiseGen) Process(y [][]float32, n int) {
	for ch := 0; ch < g.channels; ch++ {
		if out := core.Channel(y, ch, n); out != nil {
			g.coeffs.Process(out)
		}
	}
}

// SetSampleRateScaling toggles sample-rate dependent scaling.
func (g *NoiseGen) SetSampleRateScaling(on bool) { g.coeffs.SetSampleRateScaling(on) }
