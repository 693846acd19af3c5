package modulation

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-rtdsp/dsp/core"
	"github.com/cwbudde/algo-rtdsp/dsp/envelope"
	"github.com/cwbudde/algo-rtdsp/dsp/fastmath"
	"github.com/cwbudde/algo-rtdsp/dsp/gain"
)

const (
	defaultAutoWahSensitivity = 4.0
	defaultAutoWahAttack      = 0.005
	defaultAutoWahRelease     = 0.1
	defaultAutoWahMix         = 1.0
	maxAutoWahSensitivity     = 1e3
	maxAutoWahTime            = 10.0
)

// AutoWahOption mutates auto-wah construction parameters.
type AutoWahOption func(*autoWahConfig) error

type autoWahConfig struct {
	sensitivity float32
	attack      float32
	release     float32
	mix         float32
}

func defaultAutoWahConfig() autoWahConfig {
	return autoWahConfig{
		sensitivity: defaultAutoWahSensitivity,
		attack:      defaultAutoWahAttack,
		release:     defaultAutoWahRelease,
		mix:         defaultAutoWahMix,
	}
}

func validAutoWahFloat(v, lo, hi float32) bool {
	return v >= lo && v <= hi && !math.IsNaN(float64(v))
}

// WithAutoWahSensitivity sets the envelope to pedal position gain in
// [0, 1000].
func WithAutoWahSensitivity(sensitivity float32) AutoWahOption {
	return func(cfg *autoWahConfig) error {
		if !validAutoWahFloat(sensitivity, 0, maxAutoWahSensitivity) {
			return fmt.Errorf("auto-wah sensitivity must be in [0, %g]: %f", maxAutoWahSensitivity, sensitivity)
		}
		cfg.sensitivity = sensitivity
		return nil
	}
}

// WithAutoWahAttack sets the envelope attack time constant in seconds.
func WithAutoWahAttack(seconds float32) AutoWahOption {
	return func(cfg *autoWahConfig) error {
		if !validAutoWahFloat(seconds, 0, maxAutoWahTime) {
			return fmt.Errorf("auto-wah attack must be in [0, %g] s: %f", maxAutoWahTime, seconds)
		}
		cfg.attack = seconds
		return nil
	}
}

// WithAutoWahRelease sets the envelope release time constant in seconds.
func WithAutoWahRelease(seconds float32) AutoWahOption {
	return func(cfg *autoWahConfig) error {
		if !validAutoWahFloat(seconds, 0, maxAutoWahTime) {
			return fmt.Errorf("auto-wah release must be in [0, %g] s: %f", maxAutoWahTime, seconds)
		}
		cfg.release = seconds
		return nil
	}
}

// WithAutoWahMix sets the dry/wet mix in [0, 1].
func WithAutoWahMix(mix float32) AutoWahOption {
	return func(cfg *autoWahConfig) error {
		if !validAutoWahFloat(mix, 0, 1) {
			return fmt.Errorf("auto-wah mix must be in [0, 1]: %f", mix)
		}
		cfg.mix = mix
		return nil
	}
}

// AutoWah moves a Wah pedal with the input level. One envelope follower
// tracks the loudest channel so that all channels share the same sweep.
type AutoWah struct {
	follower      envelope.FollowerCoeffs
	followerState envelope.FollowerState
	wah           WahCoeffs
	mix           gain.DryWetCoeffs
	states        []WahState

	sensitivity float32
}

// NewAutoWah returns an auto-wah for the given number of channels.
func NewAutoWah(channels int, opts ...AutoWahOption) (*AutoWah, error) {
	if err := core.ValidateChannels(channels); err != nil {
		return nil, err
	}

	cfg := defaultAutoWahConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	a := &AutoWah{
		follower:    envelope.NewFollowerCoeffs(),
		wah:         NewWahCoeffs(),
		mix:         gain.NewDryWetCoeffs(),
		states:      make([]WahState, channels),
		sensitivity: cfg.sensitivity,
	}
	a.follower.SetAttackTau(cfg.attack)
	a.follower.SetReleaseTau(cfg.release)
	a.wah.SetWah(0)
	a.mix.SetWet(cfg.mix)

	return a, nil
}

// Channels returns the channel count.
func (a *AutoWah) Channels() int { return len(a.states) }

// SetSampleRate sets the sample rate. Reset must follow before processing.
func (a *AutoWah) SetSampleRate(sampleRate float64) error {
	if err := core.ValidateSampleRate(sampleRate); err != nil {
		return err
	}
	a.follower.SetSampleRate(float32(sampleRate))
	a.wah.SetSampleRate(float32(sampleRate))
	a.mix.SetSampleRate(float32(sampleRate))

	return nil
}

// Reset settles the envelope on the level of x0 and puts every channel at
// rest for that input.
func (a *AutoWah) Reset(x0 float32) {
	a.follower.ResetCoeffs()
	env := a.follower.ResetState(&a.followerState, x0)
	a.wah.SetWah(a.sensitivity * env)
	a.wah.ResetCoeffs()
	a.mix.ResetCoeffs()
	for ch := range a.states {
		a.wah.ResetState(&a.states[ch], x0)
	}
}

// Process filters n samples of every channel. Any y[ch] may be nil.
func (a *AutoWah) Process(x, y [][]float32, n int) {
	a.follower.UpdateCtrl()
	a.mix.UpdateCtrl()
	for i := 0; i < n; i++ {
		var peak float32
		for ch := range a.states {
			peak = fastmath.Max(peak, fastmath.Abs(x[ch][i]))
		}
		env := a.follower.Process1(&a.followerState, peak)
		a.wah.SetWah(a.sensitivity * env)
		a.wah.UpdateAudio()
		a.mix.UpdateAudio()

		for ch := range a.states {
			dry := x[ch][i]
			wet := a.wah.Process1(&a.states[ch], dry)
			if out := core.Channel(y, ch, n); out != nil {
				out[i] = a.mix.Process1(dry, wet)
			}
		}
	}
}

// SetSensitivity sets the envelope to pedal position gain, clamped to
// [0, 1000].
func (a *AutoWah) SetSensitivity(sensitivity float32) {
	a.sensitivity = core.Sanitize(sensitivity, a.sensitivity, 0, maxAutoWahSensitivity)
}

// SetAttack sets the envelope attack time constant in seconds.
func (a *AutoWah) SetAttack(seconds float32) { a.follower.SetAttackTau(seconds) }

// SetRelease sets the envelope release time constant in seconds.
func (a *AutoWah) SetRelease(seconds float32) { a.follower.SetReleaseTau(seconds) }

// SetMix sets the dry/wet mix in [0, 1].
func (a *AutoWah) SetMix(mix float32) { a.mix.SetWet(mix) }

// Envelope returns the current envelope level.
func (a *AutoWah) Envelope() float32 { return a.followerState.Value() }

// WahPosition returns the current pedal position.
func (a *AutoWah) WahPosition() float32 { return a.wah.Wah() }
