package unit

import (
	"github.com/cwbudde/algo-rtdsp/dsp/osc"
	"github.com/cwbudde/algo-rtdsp/dsp/signal"
)

const (
	waveSine = iota
	waveSaw
	wavePulse
	waveTriangle
)

const noiseSeed = 0x2545f4914f6cdd1d

// oscUnit chains a phase generator and a waveform shaper.
type oscUnit struct {
	gen      *osc.PhaseGen
	saw      osc.Saw
	pulse    osc.Pulse
	triangle osc.Triangle
	waveform int

	phase [][]float32
	inc   [][]float32
	out   [][]float32
}

func newOsc(channels int) (Unit, error) {
	gen, err := osc.NewPhaseGen(channels)
	if err != nil {
		return nil, err
	}

	o := &oscUnit{
		gen:      gen,
		pulse:    osc.NewPulse(),
		triangle: osc.NewTriangle(),
		phase:    scratch(channels),
		inc:      scratch(channels),
		out:      make([][]float32, channels),
	}

	return newAdapter(&adapter{
		info: Info{
			Name:        "osc",
			Description: "oscillator; waveform 0 sine, 1 saw, 2 pulse, 3 triangle; input is ignored",
			Channels:    channels,
			Params: []ParamInfo{
				param("frequency", "Hz", 0, 20e3, 440),
				intParam("waveform", waveSine, waveTriangle, waveSine),
				param("pulse_width", "", 0, 1, 0.5),
				param("slope", "", 0.001, 0.999, 0.5),
				toggle("antialiasing", true),
				param("portamento", "s", 0, 10, 0),
			},
		},
		apply:         o.apply,
		setSampleRate: o.setSampleRate,
		reset:         o.reset,
		process:       o.process,
	}), nil
}

func (o *oscUnit) apply(i int, v float32) {
	switch i {
	case 0:
		o.gen.SetFrequency(v)
	case 1:
		o.waveform = int(v)
	case 2:
		o.pulse.SetPulseWidth(v)
	case 3:
		o.triangle.SetSlope(v)
	case 4:
		o.saw.SetAntialiasing(on(v))
		o.pulse.SetAntialiasing(on(v))
		o.triangle.SetAntialiasing(on(v))
	case 5:
		o.gen.SetPortamentoTau(v)
	}
}

func (o *oscUnit) setSampleRate(sampleRate float64) error {
	if err := o.gen.SetSampleRate(sampleRate); err != nil {
		return err
	}
	o.pulse.SetSampleRate(float32(sampleRate))
	o.triangle.SetSampleRate(float32(sampleRate))

	return nil
}

func (o *oscUnit) reset(float32) {
	o.gen.Reset(0)
	o.pulse.Reset()
	o.triangle.Reset()
}

func (o *oscUnit) process(_, y [][]float32, n int) {
	for off := 0; off < n; off += blockLen {
		m := min(blockLen, n-off)
		o.gen.Process(nil, o.phase, o.inc, m)

		out := window(o.out, y, off, m)
		switch o.waveform {
		case waveSaw:
			o.saw.ProcessMulti(o.phase, o.inc, out, m)
		case wavePulse:
			o.pulse.ProcessMulti(o.phase, o.inc, out, m)
		case waveTriangle:
			o.triangle.ProcessMulti(o.phase, o.inc, out, m)
		default:
			osc.SineMulti(o.phase, out, m)
		}
	}
}

func newNoise(channels int) (Unit, error) {
	g, err := signal.NewNoiseGen(channels, noiseSeed)
	if err != nil {
		return nil, err
	}

	return newAdapter(&adapter{
		info: Info{
			Name:        "noise",
			Description: "uniform white noise; input is ignored",
			Channels:    channels,
			Params:      []ParamInfo{toggle("sample_rate_scaling", false)},
		},
		apply:         func(_ int, v float32) { g.SetSampleRateScaling(on(v)) },
		setSampleRate: g.SetSampleRate,
		reset:         func(float32) { g.Reset() },
		process:       func(_, y [][]float32, n int) { g.Process(y, n) },
	}), nil
}
