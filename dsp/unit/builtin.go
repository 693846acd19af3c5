package unit

import (
	"github.com/cwbudde/algo-rtdsp/dsp/delay"
	"github.com/cwbudde/algo-rtdsp/dsp/envelope"
	"github.com/cwbudde/algo-rtdsp/dsp/filter/firstorder"
	"github.com/cwbudde/algo-rtdsp/dsp/filter/svf"
	"github.com/cwbudde/algo-rtdsp/dsp/gain"
	"github.com/cwbudde/algo-rtdsp/dsp/smooth"
)

const maxDelaySeconds = 1

// DefaultRegistry returns a Registry holding every built-in unit.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.MustRegister("onepole", newOnePole)
	r.MustRegister("slewlim", newSlewLim)
	r.MustRegister("svf", newSVF)
	r.MustRegister("lp1", firstOrderFactory("lp1", "first-order low-pass", firstorder.Lowpass))
	r.MustRegister("hp1", firstOrderFactory("hp1", "first-order high-pass", firstorder.Highpass))
	r.MustRegister("ap1", firstOrderFactory("ap1", "first-order allpass", firstorder.Allpass))
	r.MustRegister("envfollow", newEnvFollow)
	r.MustRegister("envgen", newEnvGen)
	r.MustRegister("delay", newDelay)
	r.MustRegister("gain", newGain)
	r.MustRegister("osc", newOsc)
	r.MustRegister("noise", newNoise)
	r.MustRegister("comb", newComb)
	r.MustRegister("clip", newClip)
	r.MustRegister("satur", newSatur)
	r.MustRegister("bitdepth", newBitDepth)
	r.MustRegister("srreduce", newSRReduce)
	r.MustRegister("bitcrusher", newBitCrusher)
	r.MustRegister("wah", newWah)
	r.MustRegister("autowah", newAutoWah)
	r.MustRegister("chorus", newChorus)
	r.MustRegister("flanger", newFlanger)
	r.MustRegister("phaser", newPhaser)
	r.MustRegister("ringmod", newRingMod)
	r.MustRegister("tremolo", newTremolo)

	return r
}

func newOnePole(channels int) (Unit, error) {
	p, err := smooth.NewOnePole(channels)
	if err != nil {
		return nil, err
	}

	return newAdapter(&adapter{
		info: Info{
			Name:        "onepole",
			Description: "one-pole low-pass with separate rise and fall time constants",
			Channels:    channels,
			Params: []ParamInfo{
				param("tau_up", "s", 0, 10, 0.005),
				param("tau_down", "s", 0, 10, 0.005),
			},
		},
		apply: func(i int, v float32) {
			switch i {
			case 0:
				p.SetTauUp(v)
			case 1:
				p.SetTauDown(v)
			}
		},
		setSampleRate: p.SetSampleRate,
		reset:         p.Reset,
		process:       p.Process,
	}), nil
}

func newSlewLim(channels int) (Unit, error) {
	l, err := smooth.NewSlewLim(channels)
	if err != nil {
		return nil, err
	}

	return newAdapter(&adapter{
		info: Info{
			Name:        "slewlim",
			Description: "slew-rate limiter",
			Channels:    channels,
			Params: []ParamInfo{
				param("rate_up", "1/s", 0, 1e6, 1e3),
				param("rate_down", "1/s", 0, 1e6, 1e3),
			},
		},
		apply: func(i int, v float32) {
			switch i {
			case 0:
				l.SetMaxRateUp(v)
			case 1:
				l.SetMaxRateDown(v)
			}
		},
		setSampleRate: l.SetSampleRate,
		reset:         l.Reset,
		process:       l.Process,
	}), nil
}

const (
	svfLowpass = iota
	svfBandpass
	svfHighpass
)

func newSVF(channels int) (Unit, error) {
	f, err := svf.New(channels)
	if err != nil {
		return nil, err
	}

	mode := svfLowpass

	return newAdapter(&adapter{
		info: Info{
			Name:        "svf",
			Description: "state-variable filter; mode 0 low-pass, 1 band-pass, 2 high-pass",
			Channels:    channels,
			Params: []ParamInfo{
				param("cutoff", "Hz", 20, 20e3, 1e3),
				param("q", "", 0.5, 10, 0.707),
				intParam("mode", svfLowpass, svfHighpass, svfLowpass),
			},
		},
		apply: func(i int, v float32) {
			switch i {
			case 0:
				f.SetCutoff(v)
			case 1:
				f.SetQ(v)
			case 2:
				mode = int(v)
			}
		},
		setSampleRate: f.SetSampleRate,
		reset:         f.Reset,
		process: func(x, y [][]float32, n int) {
			switch mode {
			case svfBandpass:
				f.Process(x, nil, y, nil, n)
			case svfHighpass:
				f.Process(x, nil, nil, y, n)
			default:
				f.Process(x, y, nil, nil, n)
			}
		},
	}), nil
}

func firstOrderFactory(name, description string, mode firstorder.Mode) Factory {
	return func(channels int) (Unit, error) {
		f, err := firstorder.New(channels, mode)
		if err != nil {
			return nil, err
		}

		return newAdapter(&adapter{
			info: Info{
				Name:        name,
				Description: description,
				Channels:    channels,
				Params:      []ParamInfo{param("cutoff", "Hz", 20, 20e3, 1e3)},
			},
			apply:         func(_ int, v float32) { f.SetCutoff(v) },
			setSampleRate: f.SetSampleRate,
			reset:         f.Reset,
			process:       f.Process,
		}), nil
	}
}

func newEnvFollow(channels int) (Unit, error) {
	f, err := envelope.NewFollower(channels)
	if err != nil {
		return nil, err
	}

	return newAdapter(&adapter{
		info: Info{
			Name:        "envfollow",
			Description: "peak envelope follower; level meters channel 0",
			Channels:    channels,
			Params: []ParamInfo{
				param("attack", "s", 0, 1, 0.005),
				param("release", "s", 0, 10, 0.1),
				meter("level", "", 0, 1),
			},
		},
		apply: func(i int, v float32) {
			switch i {
			case 0:
				f.SetAttackTau(v)
			case 1:
				f.SetReleaseTau(v)
			}
		},
		meter:         func(int) float32 { return f.Value(0) },
		setSampleRate: f.SetSampleRate,
		reset:         f.Reset,
		process:       f.Process,
	}), nil
}

func newEnvGen(channels int) (Unit, error) {
	g, err := envelope.New(channels)
	if err != nil {
		return nil, err
	}

	gates := make([]bool, channels)

	return newAdapter(&adapter{
		info: Info{
			Name:        "envgen",
			Description: "ADSR envelope generator driven by the gate parameter; input is ignored",
			Channels:    channels,
			Params: []ParamInfo{
				param("attack", "s", 0, 60, 0.01),
				param("decay", "s", 0, 60, 0.1),
				param("sustain", "", 0, 1, 0.5),
				param("release", "s", 0, 60, 0.2),
				toggle("gate", false),
				toggle("skip_sustain", false),
				toggle("always_reach_sustain", false),
				meter("level", "", 0, 1),
			},
		},
		apply: func(i int, v float32) {
			switch i {
			case 0:
				g.SetAttack(v)
			case 1:
				g.SetDecay(v)
			case 2:
				g.SetSustain(v)
			case 3:
				g.SetRelease(v)
			case 4:
				for ch := range gates {
					gates[ch] = on(v)
				}
			case 5:
				g.SetSkipSustain(on(v))
			case 6:
				g.SetAlwaysReachSustain(on(v))
			}
		},
		meter:         func(int) float32 { return g.Level(0) },
		setSampleRate: g.SetSampleRate,
		reset:         func(float32) { g.Reset(gates[0]) },
		process:       func(_, y [][]float32, n int) { g.Process(gates, y, n) },
	}), nil
}

func newDelay(channels int) (Unit, error) {
	d, err := delay.New(channels, maxDelaySeconds)
	if err != nil {
		return nil, err
	}

	return newAdapter(&adapter{
		info: Info{
			Name:        "delay",
			Description: "fractional delay line",
			Channels:    channels,
			Params:      []ParamInfo{param("delay", "s", 0, maxDelaySeconds, 0)},
		},
		apply:         func(_ int, v float32) { d.SetDelay(v) },
		setSampleRate: d.SetSampleRate,
		reset:         d.Reset,
		process:       d.Process,
	}), nil
}

func newGain(channels int) (Unit, error) {
	g, err := gain.New(channels)
	if err != nil {
		return nil, err
	}

	return newAdapter(&adapter{
		info: Info{
			Name:        "gain",
			Description: "smoothed gain",
			Channels:    channels,
			Params:      []ParamInfo{param("gain", "dB", -80, 24, 0)},
		},
		apply:         func(_ int, v float32) { g.SetGainDB(v) },
		setSampleRate: g.SetSampleRate,
		reset:         func(float32) { g.Reset() },
		process:       g.Process,
	}), nil
}
