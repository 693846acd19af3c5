package unit

import (
	"github.com/cwbudde/algo-rtdsp/dsp/effects/modulation"
	"github.com/cwbudde/algo-rtdsp/dsp/osc"
)

const chorusMaxDelay = 0.05

func newWah(channels int) (Unit, error) {
	w, err := modulation.NewWah(channels)
	if err != nil {
		return nil, err
	}

	return newAdapter(&adapter{
		info: Info{
			Name:        "wah",
			Description: "wah pedal",
			Channels:    channels,
			Params:      []ParamInfo{param("wah", "", 0, 1, 0.5)},
		},
		apply:         func(_ int, v float32) { w.SetWah(v) },
		setSampleRate: w.SetSampleRate,
		reset:         w.Reset,
		process:       w.Process,
	}), nil
}

func newAutoWah(channels int) (Unit, error) {
	a, err := modulation.NewAutoWah(channels)
	if err != nil {
		return nil, err
	}

	return newAdapter(&adapter{
		info: Info{
			Name:        "autowah",
			Description: "envelope-controlled wah; position meters the pedal",
			Channels:    channels,
			Params: []ParamInfo{
				param("sensitivity", "", 0, 20, 4),
				param("attack", "s", 0, 1, 0.005),
				param("release", "s", 0, 2, 0.1),
				param("mix", "", 0, 1, 1),
				meter("position", "", 0, 1),
			},
		},
		apply: func(i int, v float32) {
			switch i {
			case 0:
				a.SetSensitivity(v)
			case 1:
				a.SetAttack(v)
			case 2:
				a.SetRelease(v)
			case 3:
				a.SetMix(v)
			}
		},
		meter:         func(int) float32 { return a.WahPosition() },
		setSampleRate: a.SetSampleRate,
		reset:         a.Reset,
		process:       a.Process,
	}), nil
}

func newChorus(channels int) (Unit, error) {
	c, err := modulation.NewChorus(channels, chorusMaxDelay)
	if err != nil {
		return nil, err
	}

	return newAdapter(&adapter{
		info: Info{
			Name:        "chorus",
			Description: "chorus / vibrato / flanger core",
			Channels:    channels,
			Params: []ParamInfo{
				param("rate", "Hz", 0.01, 10, 1),
				param("delay", "s", 0, chorusMaxDelay, 0.005),
				param("amount", "s", 0, chorusMaxDelay, 0.002),
				param("coeff_x", "", -1, 1, 0.7071),
				param("coeff_mod", "", -1, 1, 0.7071),
				param("coeff_fb", "", -0.999, 0.999, 0),
			},
		},
		apply: func(i int, v float32) {
			switch i {
			case 0:
				c.SetRate(v)
			case 1:
				c.SetDelay(v)
			case 2:
				c.SetAmount(v)
			case 3:
				c.SetCoeffX(v)
			case 4:
				c.SetCoeffMod(v)
			case 5:
				c.SetCoeffFB(v)
			}
		},
		setSampleRate: c.SetSampleRate,
		reset:         c.Reset,
		process:       c.Process,
	}), nil
}

func newFlanger(channels int) (Unit, error) {
	f, err := modulation.NewFlanger(channels)
	if err != nil {
		return nil, err
	}

	return newAdapter(&adapter{
		info: Info{
			Name:        "flanger",
			Description: "flanger",
			Channels:    channels,
			Params: []ParamInfo{
				param("rate", "Hz", 0.01, 10, 0.25),
				param("depth", "s", 0, 0.005, 0.0015),
				param("base_delay", "s", 0.0001, 0.01, 0.001),
				param("feedback", "", -0.99, 0.99, 0.25),
				param("mix", "", 0, 1, 0.5),
			},
		},
		apply: func(i int, v float32) {
			switch i {
			case 0:
				_ = f.SetRate(v)
			case 1:
				_ = f.SetDepth(v)
			case 2:
				_ = f.SetBaseDelay(v)
			case 3:
				_ = f.SetFeedback(v)
			case 4:
				_ = f.SetMix(v)
			}
		},
		setSampleRate: f.SetSampleRate,
		reset:         f.Reset,
		process:       f.Process,
	}), nil
}

func newPhaser(channels int) (Unit, error) {
	p, err := modulation.NewPhaser(channels)
	if err != nil {
		return nil, err
	}

	return newAdapter(&adapter{
		info: Info{
			Name:        "phaser",
			Description: "four-stage phaser",
			Channels:    channels,
			Params: []ParamInfo{
				param("rate", "Hz", 0.01, 10, 1),
				param("center", "Hz", 20, 20e3, 1e3),
				param("amount", "oct", 0, 8, 1),
			},
		},
		apply: func(i int, v float32) {
			switch i {
			case 0:
				p.SetRate(v)
			case 1:
				p.SetCenter(v)
			case 2:
				p.SetAmount(v)
			}
		},
		setSampleRate: p.SetSampleRate,
		reset:         p.Reset,
		process:       p.Process,
	}), nil
}

// ringModUnit modulates its input with an internal sine carrier.
type ringModUnit struct {
	rm      *modulation.RingMod
	carrier *osc.PhaseGen

	car [][]float32
	x   [][]float32
	y   [][]float32
}

func newRingMod(channels int) (Unit, error) {
	rm, err := modulation.NewRingMod(channels)
	if err != nil {
		return nil, err
	}
	carrier, err := osc.NewPhaseGen(channels)
	if err != nil {
		return nil, err
	}

	r := &ringModUnit{
		rm:      rm,
		carrier: carrier,
		car:     scratch(channels),
		x:       make([][]float32, channels),
		y:       make([][]float32, channels),
	}

	return newAdapter(&adapter{
		info: Info{
			Name:        "ringmod",
			Description: "ring modulator with a sine carrier",
			Channels:    channels,
			Params: []ParamInfo{
				param("frequency", "Hz", 0, 20e3, 440),
				param("amount", "", -1, 1, 1),
			},
		},
		apply: func(i int, v float32) {
			switch i {
			case 0:
				r.carrier.SetFrequency(v)
			case 1:
				r.rm.SetAmount(v)
			}
		},
		setSampleRate: r.setSampleRate,
		reset: func(float32) {
			r.carrier.Reset(0)
			r.rm.Reset()
		},
		process: r.process,
	}), nil
}

func (r *ringModUnit) setSampleRate(sampleRate float64) error {
	if err := r.carrier.SetSampleRate(sampleRate); err != nil {
		return err
	}

	return r.rm.SetSampleRate(sampleRate)
}

func (r *ringModUnit) process(x, y [][]float32, n int) {
	for off := 0; off < n; off += blockLen {
		m := min(blockLen, n-off)
		r.carrier.Process(nil, r.car, nil, m)
		osc.SineMulti(r.car, r.car, m)
		r.rm.Process(window(r.x, x, off, m), r.car, window(r.y, y, off, m), m)
	}
}

func newTremolo(channels int) (Unit, error) {
	t, err := modulation.NewTremolo(channels)
	if err != nil {
		return nil, err
	}

	return newAdapter(&adapter{
		info: Info{
			Name:        "tremolo",
			Description: "tremolo",
			Channels:    channels,
			Params: []ParamInfo{
				param("rate", "Hz", 0.01, 20, 1),
				param("amount", "", 0, 1, 1),
			},
		},
		apply: func(i int, v float32) {
			switch i {
			case 0:
				t.SetRate(v)
			case 1:
				t.SetAmount(v)
			}
		},
		setSampleRate: t.SetSampleRate,
		reset:         t.Reset,
		process:       t.Process,
	}), nil
}
