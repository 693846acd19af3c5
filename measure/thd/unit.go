package thd

import (
	"github.com/cwbudde/algo-rtdsp/dsp/core"
	"github.com/cwbudde/algo-rtdsp/dsp/signal"
	"github.com/cwbudde/algo-rtdsp/dsp/unit"
)

// MeasureUnit drives u with a sine of the given peak amplitude at
// cfg.FundamentalFreq and analyzes channel 0 of the output.
func MeasureUnit(u unit.Unit, amplitude float32, cfg Config) (Result, error) {
	a, err := NewAnalyzer(cfg)
	if err != nil {
		return Result{}, err
	}

	return a.MeasureUnit(u, amplitude)
}

// MeasureUnit runs one measurement of u with the analyzer's config. The
// unit is set to the config's sample rate and reset, then runs for half a
// frame before capture so filters settle.
func (a *Analyzer) MeasureUnit(u unit.Unit, amplitude float32) (Result, error) {
	err := u.SetSampleRate(a.cfg.SampleRate)
	if err != nil {
		return Result{}, err
	}

	u.Reset(0)

	warmup := a.cfg.FFTSize / 2
	total := warmup + a.cfg.FFTSize

	gen := signal.NewGenerator(core.WithSampleRate(a.cfg.SampleRate))

	x, err := gen.Sine(a.cfg.FundamentalFreq, amplitude, total)
	if err != nil {
		return Result{}, err
	}

	in := make([][]float32, u.Info().Channels)
	for ch := range in {
		in[ch] = x
	}

	out := make([][]float32, len(in))
	out[0] = make([]float32, total)

	u.Process(in, out, total)

	return a.Analyze(out[0][warmup:])
}
