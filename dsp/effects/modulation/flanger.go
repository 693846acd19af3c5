package modulation

import (
	"fmt"
	"math"
)

const (
	defaultFlangerRate      = 0.25
	defaultFlangerDepth     = 0.0015
	defaultFlangerBaseDelay = 0.001
	defaultFlangerFeedback  = 0.25
	defaultFlangerMix       = 0.5

	minFlangerDelay = 0.0001
	maxFlangerDelay = 0.01
	maxFlangerDepth = 0.005
	maxFlangerFB    = 0.99

	// the swept delay spans [base, base + 2*depth].
	flangerMaxDelay = maxFlangerDelay + 2*maxFlangerDepth
)

// FlangerOption mutates flanger construction parameters.
type FlangerOption func(*flangerConfig) error

type flangerConfig struct {
	rate      float32
	depth     float32
	baseDelay float32
	feedback  float32
	mix       float32
}

func defaultFlangerConfig() flangerConfig {
	return flangerConfig{
		rate:      defaultFlangerRate,
		depth:     defaultFlangerDepth,
		baseDelay: defaultFlangerBaseDelay,
		feedback:  defaultFlangerFeedback,
		mix:       defaultFlangerMix,
	}
}

func finite32(v float32) bool {
	return !math.IsNaN(float64(v)) && !math.IsInf(float64(v), 0)
}

// WithFlangerRate sets the modulation rate in Hz.
func WithFlangerRate(hz float32) FlangerOption {
	return func(cfg *flangerConfig) error {
		if hz <= 0 || !finite32(hz) {
			return fmt.Errorf("flanger rate must be > 0 and finite: %f", hz)
		}
		cfg.rate = hz
		return nil
	}
}

// WithFlangerDepth sets the modulation depth in seconds, at most 5 ms.
func WithFlangerDepth(seconds float32) FlangerOption {
	return func(cfg *flangerConfig) error {
		if seconds < 0 || seconds > maxFlangerDepth || !finite32(seconds) {
			return fmt.Errorf("flanger depth must be in [0, %g]: %f", maxFlangerDepth, seconds)
		}
		cfg.depth = seconds
		return nil
	}
}

// WithFlangerBaseDelay sets the shortest swept delay in seconds.
func WithFlangerBaseDelay(seconds float32) FlangerOption {
	return func(cfg *flangerConfig) error {
		if seconds < minFlangerDelay || seconds > maxFlangerDelay || !finite32(seconds) {
			return fmt.Errorf("flanger base delay must be in [%g, %g]: %f",
				minFlangerDelay, maxFlangerDelay, seconds)
		}
		cfg.baseDelay = seconds
		return nil
	}
}

// WithFlangerFeedback sets the feedback gain in [-0.99, 0.99].
func WithFlangerFeedback(feedback float32) FlangerOption {
	return func(cfg *flangerConfig) error {
		if feedback < -maxFlangerFB || feedback > maxFlangerFB || !finite32(feedback) {
			return fmt.Errorf("flanger feedback must be in [-%g, %g]: %f", maxFlangerFB, maxFlangerFB, feedback)
		}
		cfg.feedback = feedback
		return nil
	}
}

// WithFlangerMix sets the wet amount in [0, 1].
func WithFlangerMix(mix float32) FlangerOption {
	return func(cfg *flangerConfig) error {
		if mix < 0 || mix > 1 || !finite32(mix) {
			return fmt.Errorf("flanger mix must be in [0, 1]: %f", mix)
		}
		cfg.mix = mix
		return nil
	}
}

// Flanger is a Chorus configured for short swept delays with feedback. The
// delay sweeps between the base delay and base delay plus twice the depth;
// the dry and delayed paths are blended as (1-mix) and mix.
type Flanger struct {
	chorus *Chorus
	cfg    flangerConfig
}

// NewFlanger returns a flanger for the given number of channels.
func NewFlanger(channels int, opts ...FlangerOption) (*Flanger, error) {
	cfg := defaultFlangerConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	chorus, err := NewChorus(channels, flangerMaxDelay)
	if err != nil {
		return nil, err
	}

	f := &Flanger{chorus: chorus, cfg: cfg}
	f.apply()

	return f, nil
}

func (f *Flanger) apply() {
	c := &f.chorus.coeffs
	c.SetRate(f.cfg.rate)
	c.SetDelay(f.cfg.baseDelay + f.cfg.depth)
	c.SetAmount(f.cfg.depth)
	c.SetCoeffFB(f.cfg.feedback)
	c.SetCoeffX(1 - f.cfg.mix)
	c.SetCoeffMod(f.cfg.mix)
}

// Channels returns the channel count.
func (f *Flanger) Channels() int { return f.chorus.Channels() }

// SetSampleRate sets the sample rate and allocates the delay buffers.
// Reset must follow before processing.
func (f *Flanger) SetSampleRate(sampleRate float64) error {
	return f.chorus.SetSampleRate(sampleRate)
}

// Reset rewinds the modulation and fills every channel with the steady
// state for input x0.
func (f *Flanger) Reset(x0 float32) { f.chorus.Reset(x0) }

// Process processes n samples of every channel. Any y[ch] may be nil.
func (f *Flanger) Process(x, y [][]float32, n int) { f.chorus.Process(x, y, n) }

// SetRate sets the modulation rate in Hz.
func (f *Flanger) SetRate(hz float32) error {
	if err := WithFlangerRate(hz)(&f.cfg); err != nil {
		return err
	}
	f.apply()

	return nil
}

// SetDepth sets the modulation depth in seconds.
func (f *Flanger) SetDepth(seconds float32) error {
	if err := WithFlangerDepth(seconds)(&f.cfg); err != nil {
		return err
	}
	f.apply()

	return nil
}

// SetBaseDelay sets the shortest swept delay in seconds.
func (f *Flanger) SetBaseDelay(seconds float32) error {
	if err := WithFlangerBaseDelay(seconds)(&f.cfg); err != nil {
		return err
	}
	f.apply()

	return nil
}

// SetFeedback sets the feedback gain.
func (f *Flanger) SetFeedback(feedback float32) error {
	if err := WithFlangerFeedback(feedback)(&f.cfg); err != nil {
		return err
	}
	f.apply()

	return nil
}

// SetMix sets the wet amount.
func (f *Flanger) SetMix(mix float32) error {
	if err := WithFlangerMix(mix)(&f.cfg); err != nil {
		return err
	}
	f.apply()

	return nil
}

// Rate returns the modulation rate in Hz.
func (f *Flanger) Rate() float32 { return f.cfg.rate }

// Depth returns the modulation depth in seconds.
func (f *Flanger) Depth() float32 { return f.cfg.depth }

// BaseDelay returns the shortest swept delay in seconds.
func (f *Flanger) BaseDelay() float32 { return f.cfg.baseDelay }

// Feedback returns the feedback gain.
func (f *Flanger) Feedback() float32 { return f.cfg.feedback }

// Mix returns the wet amount.
func (f *Flanger) Mix() float32 { return f.cfg.mix }
