package delay

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-rtdsp/dsp/core"
)

// Delay is a multi-channel fractional delay line.
type Delay struct {
	cfg    config
	coeffs Coeffs
	states []State
	mem    []float32
}

// New returns a delay for the given number of channels and maximum delay
// in seconds. Buffers are attached by SetSampleRate.
func New(channels int, maxDelay float32, opts ...Option) (*Delay, error) {
	if err := core.ValidateChannels(channels); err != nil {
		return nil, err
	}
	if !(maxDelay >= 0) || !core.IsFinite(maxDelay) {
		return nil, fmt.Errorf("delay: max delay must be >= 0: %f", maxDelay)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	if cfg.storage == StorageArena && cfg.arena == nil {
		return nil, errors.New("delay: arena storage requires WithArena")
	}

	return &Delay{
		cfg:    cfg,
		coeffs: NewCoeffs(maxDelay),
		states: make([]State, channels),
	}, nil
}

// Channels returns the channel count.
func (d *Delay) Channels() int { return len(d.states) }

// MemReq returns the per-channel buffer length for the current sample rate.
func (d *Delay) MemReq() int { return d.coeffs.MemReq() }

// SetSampleRate sizes the buffers for sampleRate. In owned mode buffers are
// reallocated when the length changes; in arena mode they are sliced from
// the arena. On error the previous configuration stays in place. Reset must
// follow before processing.
func (d *Delay) SetSampleRate(sampleRate float64) error {
	if err := core.ValidateSampleRate(sampleRate); err != nil {
		return err
	}

	length := lengthFor(float32(sampleRate), d.coeffs.MaxDelay())
	channels := len(d.states)

	var mem []float32
	switch d.cfg.storage {
	case StorageArena:
		if length*float32(channels) > float32(len(d.cfg.arena)) || int(length)*channels > len(d.cfg.arena) {
			return fmt.Errorf("%w: need %.0f samples, have %d", ErrInsufficientMemory, length*float32(channels), len(d.cfg.arena))
		}
		mem = d.cfg.arena[:int(length)*channels]
	default:
		if length > float32(d.cfg.maxLength) {
			return fmt.Errorf("%w: %.0f samples per channel exceeds %d", ErrAllocation, length, d.cfg.maxLength)
		}
		mem = d.mem
		if need := int(length) * channels; len(mem) != need {
			mem = make([]float32, need)
		}
	}

	d.coeffs.SetSampleRate(float32(sampleRate))
	d.mem = mem
	for ch := range d.states {
		d.coeffs.MemSet(&d.states[ch], mem[ch*d.coeffs.MemReq():])
	}

	return nil
}

// Reset fills every buffer with x0. It does not free memory.
func (d *Delay) Reset(x0 float32) {
	d.coeffs.ResetCoeffs()
	if d.mem == nil {
		return
	}
	for ch := range d.states {
		d.coeffs.ResetState(&d.states[ch], x0)
	}
}

// Release drops the buffers. SetSampleRate must be called again before
// processing.
func (d *Delay) Release() {
	d.mem = nil
	for ch := range d.states {
		d.states[ch] = State{}
	}
}

// Process delays n samples of every channel. y or any y[ch] may be nil.
// Without buffers the output is silent.
func (d *Delay) Process(x, y [][]float32, n int) {
	if d.mem == nil {
		for ch := range d.states {
			core.Zero(core.Channel(y, ch, n))
		}

		return
	}

	d.coeffs.UpdateCtrl()
	for ch := range d.states {
		d.coeffs.Process(&d.states[ch], x[ch][:n], core.Channel(y, ch, n))
	}
}

// SetDelay sets the delay in seconds.
func (d *Delay) SetDelay(seconds float32) { d.coeffs.SetDelay(seconds) }

// Delay returns the delay parameter in seconds.
func (d *Delay) Delay() float32 { return d.coeffs.Delay() }
