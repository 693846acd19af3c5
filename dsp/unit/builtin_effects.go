package unit

import (
	"github.com/cwbudde/algo-rtdsp/dsp/effects"
)

func newComb(channels int) (Unit, error) {
	c, err := effects.NewComb(channels, maxDelaySeconds)
	if err != nil {
		return nil, err
	}

	return newAdapter(&adapter{
		info: Info{
			Name:        "comb",
			Description: "comb filter with feedforward and feedback paths",
			Channels:    channels,
			Params: []ParamInfo{
				param("delay_ff", "s", 0, maxDelaySeconds, 0.05),
				param("delay_fb", "s", 0, maxDelaySeconds, 0.05),
				param("blend", "", -1, 1, 1),
				param("ff", "", -1, 1, 0),
				param("fb", "", -0.999, 0.999, 0),
			},
		},
		apply: func(i int, v float32) {
			switch i {
			case 0:
				c.SetDelayFF(v)
			case 1:
				c.SetDelayFB(v)
			case 2:
				c.SetCoeffBlend(v)
			case 3:
				c.SetCoeffFF(v)
			case 4:
				c.SetCoeffFB(v)
			}
		},
		setSampleRate: c.SetSampleRate,
		reset:         c.Reset,
		process:       c.Process,
	}), nil
}

// shaper is the common surface of Clip and Satur.
type shaper interface {
	SetSampleRate(sampleRate float64) error
	Reset(x0 float32)
	Process(x, y [][]float32, n int)
	SetBias(bias float32)
	SetGain(gain float32)
	SetGainCompensation(on bool)
}

func newShaperAdapter(name, description string, channels int, s shaper, compensation bool) Unit {
	return newAdapter(&adapter{
		info: Info{
			Name:        name,
			Description: description,
			Channels:    channels,
			Params: []ParamInfo{
				param("bias", "", -2.5, 2.5, 0),
				param("gain", "", 0.01, 10, 1),
				toggle("gain_compensation", compensation),
			},
		},
		apply: func(i int, v float32) {
			switch i {
			case 0:
				s.SetBias(v)
			case 1:
				s.SetGain(v)
			case 2:
				s.SetGainCompensation(on(v))
			}
		},
		setSampleRate: s.SetSampleRate,
		reset:         s.Reset,
		process:       s.Process,
	})
}

func newClip(channels int) (Unit, error) {
	c, err := effects.NewClip(channels)
	if err != nil {
		return nil, err
	}

	return newShaperAdapter("clip", "antialiased hard clipper", channels, c, false), nil
}

func newSatur(channels int) (Unit, error) {
	s, err := effects.NewSatur(channels)
	if err != nil {
		return nil, err
	}

	return newShaperAdapter("satur", "antialiased tanh-like saturator", channels, s, true), nil
}

func newBitDepth(channels int) (Unit, error) {
	r, err := effects.NewBitDepthReducer(channels)
	if err != nil {
		return nil, err
	}

	return newAdapter(&adapter{
		info: Info{
			Name:        "bitdepth",
			Description: "bit depth reducer with silence gate",
			Channels:    channels,
			Params: []ParamInfo{
				intParam("bit_depth", effects.MinBitDepth, effects.MaxBitDepth, 16),
				toggle("silence_dc", true),
				param("gate", "dBFS", -160, 0, -160),
			},
		},
		apply: func(i int, v float32) {
			switch i {
			case 0:
				r.SetBitDepth(int(v))
			case 1:
				r.SetSilenceDC(on(v))
			case 2:
				r.SetGateDBFS(v)
			}
		},
		setSampleRate: r.SetSampleRate,
		reset:         func(float32) { r.Reset() },
		process:       r.Process,
	}), nil
}

func newSRReduce(channels int) (Unit, error) {
	r, err := effects.NewSampleRateReducer(channels)
	if err != nil {
		return nil, err
	}

	return newAdapter(&adapter{
		info: Info{
			Name:        "srreduce",
			Description: "sample rate reducer (zero-order hold)",
			Channels:    channels,
			Params:      []ParamInfo{param("ratio", "", 0, 1, 1)},
		},
		apply:         func(_ int, v float32) { r.SetRatio(v) },
		setSampleRate: r.SetSampleRate,
		reset:         r.Reset,
		process:       r.Process,
	}), nil
}

func newBitCrusher(channels int) (Unit, error) {
	bc, err := effects.NewBitCrusher(channels)
	if err != nil {
		return nil, err
	}

	return newAdapter(&adapter{
		info: Info{
			Name:        "bitcrusher",
			Description: "sample rate and bit depth reduction with dry/wet mix",
			Channels:    channels,
			Params: []ParamInfo{
				intParam("bit_depth", effects.MinBitDepth, effects.MaxBitDepth, 8),
				param("ratio", "", 0, 1, 1),
				param("mix", "", 0, 1, 1),
			},
		},
		apply: func(i int, v float32) {
			switch i {
			case 0:
				bc.SetBitDepth(int(v))
			case 1:
				bc.SetRatio(v)
			case 2:
				bc.SetMix(v)
			}
		},
		setSampleRate: bc.SetSampleRate,
		reset:         func(float32) { bc.Reset() },
		process:       bc.Process,
	}), nil
}
