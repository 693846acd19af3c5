package svf

import (
	"github.com/cwbudde/algo-rtdsp/dsp/core"
	"github.com/cwbudde/algo-rtdsp/dsp/fastmath"
	"github.com/cwbudde/algo-rtdsp/dsp/smooth"
)

const (
	defaultCutoff      = 1e3
	defaultQ           = 0.5
	defaultPrewarpFreq = 1e3
	smoothingTau       = 0.005
	stickyThresh       = 1e-3

	// MinCutoff and MaxCutoff bound cutoff and prewarp frequencies in Hz.
	MinCutoff = 1e-6
	MaxCutoff = 1e12
	// MinQ and MaxQ bound the quality factor.
	MinQ = 1e-6
	MaxQ = 1e6
)

// Coeffs holds the shared coefficients of a state-variable filter.
type Coeffs struct {
	smooth       smooth.OnePoleCoeffs
	cutoffState  smooth.OnePoleState
	qState       smooth.OnePoleState
	prewarpState smooth.OnePoleState

	tK             float32
	prewarpFreqMax float32

	kf   float32
	kbl  float32
	k    float32
	hpHB float32
	hpX  float32

	cutoff      float32
	q           float32
	prewarpK    float32
	prewarpFreq float32

	force bool
}

// State is the per-channel memory of a state-variable filter.
type State struct {
	hpZ1     float32
	lpZ1     float32
	bpZ1     float32
	cutoffZ1 float32
}

// NewCoeffs returns coefficients with cutoff 1 kHz, Q 0.5 and prewarping at
// cutoff.
func NewCoeffs() Coeffs {
	c := Coeffs{
		smooth:      smooth.NewOnePoleCoeffs(),
		cutoff:      defaultCutoff,
		q:           defaultQ,
		prewarpK:    1,
		prewarpFreq: defaultPrewarpFreq,
	}
	c.smooth.SetTau(smoothingTau)
	c.smooth.SetStickyThresh(stickyThresh)

	return c
}

// SetSampleRate updates the sample-rate dependent constants. ResetCoeffs
// must follow.
func (c *Coeffs) SetSampleRate(sampleRate float32) {
	c.smooth.SetSampleRate(sampleRate)
	c.smooth.ResetCoeffs()
	c.tK = 3.141592653589793 / sampleRate
	c.prewarpFreqMax = 0.499 * sampleRate
}

func (c *Coeffs) prewarpTarget() float32 {
	return c.prewarpFreq + c.prewarpK*(c.cutoff-c.prewarpFreq)
}

// ResetCoeffs jumps the smoothed values to their targets and recomputes
// every coefficient.
func (c *Coeffs) ResetCoeffs() {
	c.smooth.ResetState(&c.cutoffState, c.cutoff)
	c.smooth.ResetState(&c.qState, c.q)
	c.smooth.ResetState(&c.prewarpState, c.prewarpTarget())
	c.update(true)
	c.force = true
}

// ResetState sets a channel to the steady state for a constant input x0 and
// returns the matching outputs.
func (c *Coeffs) ResetState(s *State, x0 float32) (lp, bp, hp float32) {
	s.hpZ1 = 0
	s.lpZ1 = x0
	s.bpZ1 = 0
	s.cutoffZ1 = c.cutoff

	return x0, 0, 0
}

// UpdateAudio advances parameter smoothing by one sample and recomputes
// the coefficients whose inputs moved.
func (c *Coeffs) UpdateAudio() {
	c.update(c.force)
	c.force = false
}

func (c *Coeffs) update(force bool) {
	prewarpFreq := c.prewarpTarget()
	cutoffCur := c.cutoffState.Value()
	qCur := c.qState.Value()

	cutoffChanged := force || c.cutoff != cutoffCur
	prewarpChanged := force || prewarpFreq != c.prewarpState.Value()
	qChanged := force || c.q != qCur

	if !cutoffChanged && !prewarpChanged && !qChanged {
		return
	}

	if cutoffChanged || prewarpChanged {
		if cutoffChanged {
			cutoffCur = c.smooth.Process1StickyRel(&c.cutoffState, c.cutoff)
		}
		if prewarpChanged {
			f := fastmath.Min(c.smooth.Process1StickyRel(&c.prewarpState, prewarpFreq), c.prewarpFreqMax)
			c.kf = fastmath.Tan(c.tK*f) * fastmath.Rcp(f)
		}
		c.kbl = c.kf * cutoffCur
	}
	if qChanged {
		qCur = c.smooth.Process1StickyAbs(&c.qState, c.q)
		c.k = fastmath.Rcp(qCur)
	}

	c.hpHB = c.k + c.kbl
	c.hpX = fastmath.Rcp(1 + c.kbl*c.hpHB)
}

// Process1 filters one sample. UpdateAudio must be called once per sample
// before it, shared by all channels.
func (c *Coeffs) Process1(s *State, x float32) (lp, bp, hp float32) {
	kk := c.kf * s.cutoffZ1
	lpXZ1 := s.lpZ1 + kk*s.bpZ1
	bpXZ1 := s.bpZ1 + kk*s.hpZ1

	hp = c.hpX * (x - c.hpHB*bpXZ1 - lpXZ1)
	bp = bpXZ1 + c.kbl*hp
	lp = lpXZ1 + c.kbl*bp

	s.hpZ1 = hp
	s.lpZ1 = lp
	s.bpZ1 = bp
	s.cutoffZ1 = c.cutoffState.Value()

	return lp, bp, hp
}

// Process filters x for a single channel. Any of lp, bp and hp may be nil;
// the state advances the same way regardless.
func (c *Coeffs) Process(s *State, x, lp, bp, hp []float32) {
	for i, v := range x {
		c.UpdateAudio()
		l, b, h := c.Process1(s, v)
		if lp != nil {
			lp[i] = l
		}
		if bp != nil {
			bp[i] = b
		}
		if hp != nil {
			hp[i] = h
		}
	}
}

// SetCutoff sets the cutoff frequency in Hz, clamped to [MinCutoff, MaxCutoff].
func (c *Coeffs) SetCutoff(hz float32) {
	c.cutoff = core.Sanitize(hz, c.cutoff, MinCutoff, MaxCutoff)
}

// SetQ sets the quality factor, clamped to [MinQ, MaxQ].
func (c *Coeffs) SetQ(q float32) {
	c.q = core.Sanitize(q, c.q, MinQ, MaxQ)
}

// SetPrewarpAtCutoff selects whether the bilinear prewarp follows the
// cutoff (true) or stays at the prewarp frequency.
func (c *Coeffs) SetPrewarpAtCutoff(on bool) {
	if on {
		c.prewarpK = 1
	} else {
		c.prewarpK = 0
	}
}

// SetPrewarpFreq sets the fixed prewarp frequency in Hz. It only takes
// effect while prewarping at cutoff is off.
func (c *Coeffs) SetPrewarpFreq(hz float32) {
	c.prewarpFreq = core.Sanitize(hz, c.prewarpFreq, MinCutoff, MaxCutoff)
}

// Filter is a multi-channel state-variable filter.
type Filter struct {
	coeffs Coeffs
	states []State

	// per-block output views, cleared after each Process
	lp, bp, hp [][]float32
}

// New returns a filter for the given number of channels.
func New(channels int) (*Filter, error) {
	if err := core.ValidateChannels(channels); err != nil {
		return nil, err
	}

	return &Filter{
		coeffs: NewCoeffs(),
		states: make([]State, channels),
		lp:     make([][]float32, channels),
		bp:     make([][]float32, channels),
		hp:     make([][]float32, channels),
	}, nil
}

// Channels returns the channel count.
func (f *Filter) Channels() int { return len(f.states) }

// SetSampleRate sets the sample rate. Reset must follow before processing.
func (f *Filter) SetSampleRate(sampleRate float64) error {
	if err := core.ValidateSampleRate(sampleRate); err != nil {
		return err
	}
	f.coeffs.SetSampleRate(float32(sampleRate))

	return nil
}

// Reset resets the coefficients and puts every channel at rest at x0.
func (f *Filter) Reset(x0 float32) {
	f.coeffs.ResetCoeffs()
	for ch := range f.states {
		f.coeffs.ResetState(&f.states[ch], x0)
	}
}

// Process filters n samples of every channel. lp, bp and hp, or any of
// their channels, may be nil.
func (f *Filter) Process(x, lp, bp, hp [][]float32, n int) {
	for ch := range f.states {
		f.lp[ch] = core.Channel(lp, ch, n)
		f.bp[ch] = core.Channel(bp, ch, n)
		f.hp[ch] = core.Channel(hp, ch, n)
	}

	for i := 0; i < n; i++ {
		f.coeffs.UpdateAudio()
		for ch := range f.states {
			l, b, h := f.coeffs.Process1(&f.states[ch], x[ch][i])
			if out := f.lp[ch]; out != nil {
				out[i] = l
			}
			if out := f.bp[ch]; out != nil {
				out[i] = b
			}
			if out := f.hp[ch]; out != nil {
				out[i] = h
			}
		}
	}

	clear(f.lp)
	clear(f.bp)
	clear(f.hp)
}

// SetCutoff sets the cutoff frequency in Hz.
func (f *Filter) SetCutoff(hz float32) { f.coeffs.SetCutoff(hz) }

// SetQ sets the quality factor.
func (f *Filter) SetQ(q float32) { f.coeffs.SetQ(q) }

// SetPrewarpAtCutoff toggles prewarping at the cutoff frequency.
func (f *Filter) SetPrewarpAtCutoff(on bool) { f.coeffs.SetPrewarpAtCutoff(on) }

// SetPrewarpFreq sets the fixed prewarp frequency in Hz.
func (f *Filter) SetPrewarpFreq(hz float32) { f.coeffs.SetPrewarpFreq(hz) }
