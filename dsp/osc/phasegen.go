package osc

import (
	"github.com/cwbudde/algo-rtdsp/dsp/core"
	"github.com/cwbudde/algo-rtdsp/dsp/fastmath"
	"github.com/cwbudde/algo-rtdsp/dsp/smooth"
)

const (
	defaultFrequency = 1

	// MaxFrequency bounds the magnitude of the frequency parameter in Hz.
	MaxFrequency = 1e12
)

// PhaseGenCoeffs holds the shared coefficients of a phase generator.
// Frequency changes glide through a one-pole (portamento) acting on the
// per-sample increment.
type PhaseGenCoeffs struct {
	portamento      smooth.OnePoleCoeffs
	portamentoState smooth.OnePoleState

	t             float32
	target        float32
	frequency     float32
	frequencyPrev float32
}

// PhaseGenState is the per-channel phase.
type PhaseGenState struct {
	phase float32
}

// Phase returns the current phase in [0, 1).
func (s *PhaseGenState) Phase() float32 { return s.phase }

// NewPhaseGenCoeffs returns coefficients at 1 Hz without portamento.
func NewPhaseGenCoeffs() PhaseGenCoeffs {
	return PhaseGenCoeffs{
		portamento: smooth.NewOnePoleCoeffs(),
		frequency:  defaultFrequency,
	}
}

// SetSampleRate stores the sample rate. ResetCoeffs must follow.
func (c *PhaseGenCoeffs) SetSampleRate(sampleRate float32) {
	c.portamento.SetSampleRate(sampleRate)
	c.t = 1 / sampleRate
}

func (c *PhaseGenCoeffs) updateCtrl(force bool) {
	c.portamento.UpdateCtrl()
	if force || c.frequency != c.frequencyPrev {
		c.target = c.t * c.frequency
		c.frequencyPrev = c.frequency
	}
}

// ResetCoeffs jumps the increment to the current frequency.
func (c *PhaseGenCoeffs) ResetCoeffs() {
	c.portamento.ResetCoeffs()
	c.updateCtrl(true)
	c.portamento.ResetState(&c.portamentoState, c.target)
}

// ResetState sets the phase of a channel and returns the initial phase and
// increment.
func (c *PhaseGenCoeffs) ResetState(s *PhaseGenState, phase0 float32) (phase, inc float32) {
	s.phase = phase0
	return phase0, c.portamentoState.Value()
}

// UpdateCtrl applies parameter changes. Call once per block.
func (c *PhaseGenCoeffs) UpdateCtrl() {
	c.updateCtrl(false)
}

// UpdateAudio advances the portamento by one sample.
func (c *PhaseGenCoeffs) UpdateAudio() {
	c.portamento.Process1(&c.portamentoState, c.target)
}

// Increment returns the current unmodulated per-sample phase increment.
func (c *PhaseGenCoeffs) Increment() float32 { return c.portamentoState.Value() }

func advance(s *PhaseGenState, inc float32) float32 {
	// Adding 1 keeps tiny negative increments from rounding to 1.
	s.phase += inc + 1
	s.phase -= fastmath.Floor(s.phase)
	return s.phase
}

// Process1 advances one channel by the current increment.
func (c *PhaseGenCoeffs) Process1(s *PhaseGenState) (phase, inc float32) {
	inc = c.portamentoState.Value()
	return advance(s, inc), inc
}

// Process1Mod advances one channel by the increment scaled by 2^xMod, where
// xMod is a pitch offset in octaves.
func (c *PhaseGenCoeffs) Process1Mod(s *PhaseGenState, xMod float32) (phase, inc float32) {
	inc = c.portamentoState.Value() * fastmath.Pow2(xMod)
	return advance(s, inc), inc
}

// Process generates n samples for one channel. xMod, y and yInc may each
// be nil.
func (c *PhaseGenCoeffs) Process(s *PhaseGenState, xMod, y, yInc []float32, n int) {
	c.UpdateCtrl()
	for i := 0; i < n; i++ {
		c.UpdateAudio()

		var p, inc float32
		if xMod != nil {
			p, inc = c.Process1Mod(s, xMod[i])
		} else {
			p, inc = c.Process1(s)
		}
		if y != nil {
			y[i] = p
		}
		if yInc != nil {
			yInc[i] = inc
		}
	}
}

// SetFrequency sets the frequency in Hz. Negative values run the phase
// backwards.
func (c *PhaseGenCoeffs) SetFrequency(hz float32) {
	c.frequency = core.Sanitize(hz, c.frequency, -MaxFrequency, MaxFrequency)
}

// SetPortamentoTau sets the glide time constant in seconds.
func (c *PhaseGenCoeffs) SetPortamentoTau(seconds float32) {
	c.portamento.SetTau(seconds)
}

// PhaseGen is a multi-channel phase generator sharing one frequency.
type PhaseGen struct {
	coeffs PhaseGenCoeffs
	states []PhaseGenState
}

// NewPhaseGen returns a phase generator for the given number of channels.
func NewPhaseGen(channels int) (*PhaseGen, error) {
	if err := core.ValidateChannels(channels); err != nil {
		return nil, err
	}

	return &PhaseGen{
		coeffs: NewPhaseGenCoeffs(),
		states: make([]PhaseGenState, channels),
	}, nil
}

// Channels returns the channel count.
func (g *PhaseGen) Channels() int { return len(g.states) }

// SetSampleRate sets the sample rate. Reset must follow before processing.
func (g *PhaseGen) SetSampleRate(sampleRate float64) error {
	if err := core.ValidateSampleRate(sampleRate); err != nil {
		return err
	}
	g.coeffs.SetSampleRate(float32(sampleRate))

	return nil
}

// Reset resets the coefficients and sets every channel's phase to phase0.
func (g *PhaseGen) Reset(phase0 float32) {
	g.coeffs.ResetCoeffs()
	for ch := range g.states {
		g.coeffs.ResetState(&g.states[ch], phase0)
	}
}

// Process generates n samples of phase and increment for every channel.
// xMod, y, yInc and any of their channels may be nil.
func (g *PhaseGen) Process(xMod, y, yInc [][]float32, n int) {
	g.coeffs.UpdateCtrl()
	for i := 0; i < n; i++ {
		g.coeffs.UpdateAudio()
		for ch := range g.states {
			var p, inc float32
			if m := core.Channel(xMod, ch, n); m != nil {
				p, inc = g.coeffs.Process1Mod(&g.states[ch], m[i])
			} else {
				p, inc = g.coeffs.Process1(&g.states[ch])
			}
			if out := core.Channel(y, ch, n); out != nil {
				out[i] = p
			}
			if out := core.Channel(yInc, ch, n); out != nil {
				out[i] = inc
			}
		}
	}
}

// Phase returns the current phase of channel ch.
func (g *PhaseGen) Phase(ch int) float32 { return g.states[ch].Phase() }

// SetFrequency sets the frequency in Hz.
func (g *PhaseGen) SetFrequency(hz float32) { g.coeffs.SetFrequency(hz) }

// SetPortamentoTau sets the glide time constant in seconds.
func (g *PhaseGen) SetPortamentoTau(seconds float32) { g.coeffs.SetPortamentoTau(seconds) }
