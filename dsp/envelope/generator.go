package envelope

import (
	"math"

	"github.com/cwbudde/algo-rtdsp/dsp/core"
	"github.com/cwbudde/algo-rtdsp/dsp/smooth"
)

// Phase is a stage of the envelope generator.
type Phase int

// Generator stages in the order a full gate cycle visits them.
const (
	PhaseOff Phase = iota
	PhaseAttack
	PhaseDecay
	PhaseSustain
	PhaseRelease
)

// String returns the stage name.
func (p Phase) String() string {
	switch p {
	case PhaseOff:
		return "off"
	case PhaseAttack:
		return "attack"
	case PhaseDecay:
		return "decay"
	case PhaseSustain:
		return "sustain"
	case PhaseRelease:
		return "release"
	default:
		return "unknown"
	}
}

const (
	generatorAttack core.Dirty = 1 << iota
	generatorDecay
	generatorSustain
	generatorRelease
)

// VMax is the integer level corresponding to an output of 1. It is the
// largest uint32 that a float32 represents exactly.
const VMax uint32 = 4294967040

const (
	vMaxF        = float32(VMax)
	kV           = 1 / vMaxF
	instantTime  = 1e-9
	sustainTau   = 0.05
	maxStepFloat = float32(math.MaxUint32)
)

// GeneratorCoeffs holds the shared coefficients of an ADSR generator.
type GeneratorCoeffs struct {
	smoothCoeffs smooth.OnePoleCoeffs

	kT         float32
	attackInc  uint32
	decayDec   uint32
	sustainV   uint32
	releaseDec uint32

	attack             float32
	decay              float32
	sustain            float32
	release            float32
	skipSustain        bool
	alwaysReachSustain bool

	dirty core.Dirty
}

// GeneratorState is the per-channel stage, level and sustain smoother.
type GeneratorState struct {
	phase       Phase
	v           uint32
	smoothState smooth.OnePoleState
}

// Phase returns the current stage.
func (s *GeneratorState) Phase() Phase { return s.phase }

// Level returns the last output in [0, 1].
func (s *GeneratorState) Level() float32 { return kV * float32(s.v) }

// NewGeneratorCoeffs returns coefficients with zero attack, decay and
// release times and full sustain.
func NewGeneratorCoeffs() GeneratorCoeffs {
	c := GeneratorCoeffs{
		smoothCoeffs: smooth.NewOnePoleCoeffs(),
		sustain:      defaultSustain,
		dirty:        core.DirtyAll,
	}
	c.smoothCoeffs.SetTau(sustainTau)

	return c
}

// SetSampleRate stores the sample rate. ResetCoeffs must follow.
func (c *GeneratorCoeffs) SetSampleRate(sampleRate float32) {
	c.smoothCoeffs.SetSampleRate(sampleRate)
	c.kT = vMaxF / sampleRate
}

// ResetCoeffs recomputes every step size from the current parameters.
func (c *GeneratorCoeffs) ResetCoeffs() {
	c.smoothCoeffs.ResetCoeffs()
	c.dirty = core.DirtyAll
	c.UpdateCtrl()
}

// ResetState puts a channel in sustain when gate0 is high and in the off
// stage otherwise, and returns the matching output.
func (c *GeneratorCoeffs) ResetState(s *GeneratorState, gate0 bool) float32 {
	c.smoothCoeffs.ResetState(&s.smoothState, c.sustain)
	if gate0 {
		s.phase = PhaseSustain
		s.v = c.sustainV
	} else {
		s.phase = PhaseOff
		s.v = 0
	}

	return s.Level()
}

// stepSize converts a per-sample level change to an integer step. Rates that
// do not fit saturate, which makes the stage finish in a single sample.
func (c *GeneratorCoeffs) stepSize(span, seconds float32) uint32 {
	if seconds <= instantTime {
		return math.MaxUint32
	}

	step := span * c.kT / seconds
	if step >= maxStepFloat {
		return math.MaxUint32
	}

	return uint32(step)
}

// UpdateCtrl recomputes the step sizes whose parameters changed.
func (c *GeneratorCoeffs) UpdateCtrl() {
	c.smoothCoeffs.UpdateCtrl()
	if !c.dirty.Any() {
		return
	}

	if c.dirty.Has(generatorAttack) {
		c.attackInc = c.stepSize(1, c.attack)
	}
	if c.dirty.Has(generatorDecay | generatorSustain) {
		c.decayDec = c.stepSize(1-c.sustain, c.decay)
	}
	if c.dirty.Has(generatorSustain) {
		c.sustainV = uint32(vMaxF * c.sustain)
	}
	if c.dirty.Has(generatorSustain | generatorRelease) {
		c.releaseDec = c.stepSize(c.sustain, c.release)
	}

	c.dirty.Clear()
}

// ProcessCtrl applies a gate value to a channel's stage. A high gate
// (re)starts the attack from the off or release stages. A low gate enters
// release from sustain, and from attack or decay unless always-reach-sustain
// is on.
func (c *GeneratorCoeffs) ProcessCtrl(s *GeneratorState, gate bool) {
	if gate {
		if s.phase == PhaseOff || s.phase == PhaseRelease {
			s.phase = PhaseAttack
		}

		return
	}

	if s.phase == PhaseSustain || (s.phase != PhaseOff && !c.alwaysReachSustain) {
		s.phase = PhaseRelease
	}
}

// Process1 advances a channel by one sample and returns the level.
func (c *GeneratorCoeffs) Process1(s *GeneratorState) float32 {
	var v uint32

	switch s.phase {
	case PhaseAttack:
		v = s.v + c.attackInc
		if v >= VMax || v <= s.v {
			v = VMax
			s.phase = PhaseDecay
		}
	case PhaseDecay:
		v = s.v - c.decayDec
		if v <= c.sustainV || v >= s.v {
			v = c.sustainV
			s.phase = PhaseSustain
			c.smoothCoeffs.ResetState(&s.smoothState, c.sustain)
		}
	case PhaseSustain:
		v = uint32(vMaxF * c.smoothCoeffs.Process1(&s.smoothState, c.sustain))
		if c.skipSustain {
			s.phase = PhaseRelease
		}
	case PhaseRelease:
		v = s.v - c.releaseDec
		if v == 0 || v >= s.v {
			v = 0
			s.phase = PhaseOff
		}
	case PhaseOff:
		v = 0
	}
	s.v = v

	return kV * float32(v)
}

// Process applies gate once and then generates len(y) samples. y may be
// nil, in which case the state is still advanced by n samples.
func (c *GeneratorCoeffs) Process(s *GeneratorState, gate bool, y []float32, n int) {
	c.UpdateCtrl()
	c.ProcessCtrl(s, gate)
	if y == nil {
		for i := 0; i < n; i++ {
			c.Process1(s)
		}

		return
	}
	for i := range y[:n] {
		y[i] = c.Process1(s)
	}
}

// ProcessGate evaluates the gate on every sample: gate[i] > 0 is high.
// y may be nil.
func (c *GeneratorCoeffs) ProcessGate(s *GeneratorState, gate, y []float32) {
	c.UpdateCtrl()
	for i, g := range gate {
		c.ProcessCtrl(s, g > 0)
		v := c.Process1(s)
		if y != nil {
			y[i] = v
		}
	}
}

// SetAttack sets the attack time in seconds, clamped to [0, MaxTime].
func (c *GeneratorCoeffs) SetAttack(seconds float32) {
	v := core.Sanitize(seconds, c.attack, 0, MaxTime)
	if v != c.attack {
		c.attack = v
		c.dirty.Set(generatorAttack)
	}
}

// SetDecay sets the decay time in seconds, clamped to [0, MaxTime].
func (c *GeneratorCoeffs) SetDecay(seconds float32) {
	v := core.Sanitize(seconds, c.decay, 0, MaxTime)
	if v != c.decay {
		c.decay = v
		c.dirty.Set(generatorDecay)
	}
}

// SetSustain sets the sustain level, clamped to [0, 1].
func (c *GeneratorCoeffs) SetSustain(level float32) {
	v := core.Sanitize(level, c.sustain, 0, 1)
	if v != c.sustain {
		c.sustain = v
		c.dirty.Set(generatorSustain)
	}
}

// SetRelease sets the release time in seconds, clamped to [0, MaxTime].
func (c *GeneratorCoeffs) SetRelease(seconds float32) {
	v := core.Sanitize(seconds, c.release, 0, MaxTime)
	if v != c.release {
		c.release = v
		c.dirty.Set(generatorRelease)
	}
}

// SetSkipSustain makes decay flow directly into release.
func (c *GeneratorCoeffs) SetSkipSustain(on bool) { c.skipSustain = on }

// SetAlwaysReachSustain delays release until decay has finished.
func (c *GeneratorCoeffs) SetAlwaysReachSustain(on bool) { c.alwaysReachSustain = on }

// Generator is a multi-channel ADSR envelope generator.
type Generator struct {
	coeffs GeneratorCoeffs
	states []GeneratorState
}

// New returns a generator for the given number of channels.
func New(channels int, opts ...Option) (*Generator, error) {
	if err := core.ValidateChannels(channels); err != nil {
		return nil, err
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	g := &Generator{
		coeffs: NewGeneratorCoeffs(),
		states: make([]GeneratorState, channels),
	}
	g.coeffs.SetAttack(cfg.attack)
	g.coeffs.SetDecay(cfg.decay)
	g.coeffs.SetSustain(cfg.sustain)
	g.coeffs.SetRelease(cfg.release)
	g.coeffs.SetSkipSustain(cfg.skipSustain)
	g.coeffs.SetAlwaysReachSustain(cfg.alwaysReachSustain)

	return g, nil
}

// Channels returns the channel count.
func (g *Generator) Channels() int { return len(g.states) }

// SetSampleRate sets the sample rate. Reset must follow before processing.
func (g *Generator) SetSampleRate(sampleRate float64) error {
	if err := core.ValidateSampleRate(sampleRate); err != nil {
		return err
	}
	g.coeffs.SetSampleRate(float32(sampleRate))

	return nil
}

// Reset resets the coefficients and every channel to the given gate.
func (g *Generator) Reset(gate0 bool) {
	g.coeffs.ResetCoeffs()
	for ch := range g.states {
		g.coeffs.ResetState(&g.states[ch], gate0)
	}
}

// Process applies gate[ch] at the start of the block and generates n
// samples per channel. y or any y[ch] may be nil.
func (g *Generator) Process(gate []bool, y [][]float32, n int) {
	g.coeffs.UpdateCtrl()
	for ch := range g.states {
		g.coeffs.Process(&g.states[ch], gate[ch], core.Channel(y, ch, n), n)
	}
}

// ProcessGate evaluates a per-sample gate signal for every channel.
func (g *Generator) ProcessGate(gate, y [][]float32, n int) {
	g.coeffs.UpdateCtrl()
	for ch := range g.states {
		g.coeffs.ProcessGate(&g.states[ch], gate[ch][:n], core.Channel(y, ch, n))
	}
}

// Phase returns the stage of channel ch.
func (g *Generator) Phase(ch int) Phase { return g.states[ch].Phase() }

// Level returns the last output of channel ch.
func (g *Generator) Level(ch int) float32 { return g.states[ch].Level() }

// SetAttack sets the attack time in seconds.
func (g *Generator) SetAttack(seconds float32) { g.coeffs.SetAttack(seconds) }

// SetDecay sets the decay time in seconds.
func (g *Generator) SetDecay(seconds float32) { g.coeffs.SetDecay(seconds) }

// SetSustain sets the sustain level.
func (g *Generator) SetSustain(level float32) { g.coeffs.SetSustain(level) }

// SetRelease sets the release time in seconds.
func (g *Generator) SetRelease(seconds float32) { g.coeffs.SetRelease(seconds) }

// SetSkipSustain makes decay flow directly into release.
func (g *Generator) SetSkipSustain(on bool) { g.coeffs.SetSkipSustain(on) }

// SetAlwaysReachSustain delays release until decay has finished.
func (g *Generator) SetAlwaysReachSustain(on bool) { g.coeffs.SetAlwaysReachSustain(on) }
