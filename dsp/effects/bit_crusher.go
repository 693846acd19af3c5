package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-rtdsp/dsp/core"
	"github.com/cwbudde/algo-rtdsp/dsp/gain"
)

const (
	defaultBitCrusherBitDepth = 8
	defaultBitCrusherRatio    = 1.0
	defaultBitCrusherMix      = 1.0
)

// BitCrusherOption mutates bit crusher construction parameters.
type BitCrusherOption func(*bitCrusherConfig) error

type bitCrusherConfig struct {
	bitDepth int
	ratio    float32
	mix      float32
}

func defaultBitCrusherConfig() bitCrusherConfig {
	return bitCrusherConfig{
		bitDepth: defaultBitCrusherBitDepth,
		ratio:    defaultBitCrusherRatio,
		mix:      defaultBitCrusherMix,
	}
}

// WithBitCrusherBitDepth sets the quantizer bit depth in
// [MinBitDepth, MaxBitDepth].
func WithBitCrusherBitDepth(bits int) BitCrusherOption {
	return func(cfg *bitCrusherConfig) error {
		if bits < MinBitDepth || bits > MaxBitDepth {
			return fmt.Errorf("bit crusher bit depth must be in [%d, %d]: %d",
				MinBitDepth, MaxBitDepth, bits)
		}
		cfg.bitDepth = bits
		return nil
	}
}

// WithBitCrusherRatio sets the sample rate reduction ratio in (0, 1].
// A ratio of 0.25 holds every fourth sample.
func WithBitCrusherRatio(ratio float32) BitCrusherOption {
	return func(cfg *bitCrusherConfig) error {
		if !(ratio > 0 && ratio <= 1) {
			return fmt.Errorf("bit crusher ratio must be in (0, 1]: %f", ratio)
		}
		cfg.ratio = ratio
		return nil
	}
}

// WithBitCrusherMix sets the dry/wet mix in [0, 1].
func WithBitCrusherMix(mix float32) BitCrusherOption {
	return func(cfg *bitCrusherConfig) error {
		if !(mix >= 0 && mix <= 1) || math.IsInf(float64(mix), 0) {
			return fmt.Errorf("bit crusher mix must be in [0, 1]: %f", mix)
		}
		cfg.mix = mix
		return nil
	}
}

// BitCrusher chains a sample rate reducer into a bit depth reducer and
// blends the result with the dry input. With a 64-bit depth, a ratio of 1
// and silence DC off the effect is transparent for inputs inside full
// scale.
type BitCrusher struct {
	sr     SRReduceCoeffs
	bd     BitDepthCoeffs
	mix    gain.DryWetCoeffs
	states []SRReduceState
}

// NewBitCrusher returns a bit crusher for the given number of channels.
func NewBitCrusher(channels int, opts ...BitCrusherOption) (*BitCrusher, error) {
	if err := core.ValidateChannels(channels); err != nil {
		return nil, err
	}

	cfg := defaultBitCrusherConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	bc := &BitCrusher{
		sr:     NewSRReduceCoeffs(),
		bd:     NewBitDepthCoeffs(),
		mix:    gain.NewDryWetCoeffs(),
		states: make([]SRReduceState, channels),
	}
	bc.sr.SetRatio(cfg.ratio)
	bc.bd.SetBitDepth(cfg.bitDepth)
	bc.mix.SetWet(cfg.mix)

	return bc, nil
}

// Channels returns the channel count.
func (bc *BitCrusher) Channels() int { return len(bc.states) }

// SetSampleRate sets the sample rate. Reset must follow before processing.
func (bc *BitCrusher) SetSampleRate(sampleRate float64) error {
	if err := core.ValidateSampleRate(sampleRate); err != nil {
		return err
	}
	bc.sr.SetSampleRate(float32(sampleRate))
	bc.bd.SetSampleRate(float32(sampleRate))
	bc.mix.SetSampleRate(float32(sampleRate))

	return nil
}

// Reset clears the sample-and-hold state and jumps the mix to its target.
func (bc *BitCrusher) Reset() {
	bc.sr.ResetCoeffs()
	bc.bd.ResetCoeffs()
	bc.mix.ResetCoeffs()
	for ch := range bc.states {
		bc.sr.ResetState(&bc.states[ch], 0)
	}
}

// Process crushes n samples of every channel. Any y[ch] may be nil.
func (bc *BitCrusher) Process(x, y [][]float32, n int) {
	bc.bd.UpdateCtrl()
	bc.mix.UpdateCtrl()
	for i := 0; i < n; i++ {
		bc.mix.UpdateAudio()
		for ch := range bc.states {
			dry := x[ch][i]
			wet := bc.bd.Process1(bc.sr.Process1(&bc.states[ch], dry))
			if out := core.Channel(y, ch, n); out != nil {
				out[i] = bc.mix.Process1(dry, wet)
			}
		}
	}
}

// SetBitDepth sets the quantizer bit depth.
func (bc *BitCrusher) SetBitDepth(bits int) { bc.bd.SetBitDepth(bits) }

// BitDepth returns the quantizer bit depth.
func (bc *BitCrusher) BitDepth() int { return bc.bd.BitDepth() }

// SetSilenceDC selects whether the quantizer is offset by half a step.
func (bc *BitCrusher) SetSilenceDC(on bool) { bc.bd.SetSilenceDC(on) }

// SetRatio sets the sample rate reduction ratio.
func (bc *BitCrusher) SetRatio(ratio float32) { bc.sr.SetRatio(ratio) }

// Ratio returns the sample rate reduction ratio.
func (bc *BitCrusher) Ratio() float32 { return bc.sr.Ratio() }

// SetMix sets the dry/wet mix in [0, 1].
func (bc *BitCrusher) SetMix(mix float32) { bc.mix.SetWet(mix) }

// Mix returns the dry/wet mix.
func (bc *BitCrusher) Mix() float32 { return bc.mix.Wet() }
