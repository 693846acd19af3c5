package thd

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-rtdsp/dsp/window"
)

type tone struct {
	bin int
	amp float64
}

// tones sums sines centered on the given bins of an n-point frame.
func tones(n int, parts ...tone) []float32 {
	x := make([]float32, n)
	for i := range x {
		v := 0.0
		for _, p := range parts {
			v += p.amp * math.Sin(2*math.Pi*float64(p.bin*i)/float64(n))
		}

		x[i] = float32(v)
	}

	return x
}

func newTestAnalyzer(t *testing.T, cfg Config) *Analyzer {
	t.Helper()

	a, err := NewAnalyzer(cfg)
	if err != nil {
		t.Fatalf("NewAnalyzer: %v", err)
	}

	return a
}

func TestAnalyzeKnownHarmonics(t *testing.T) {
	const n = 4096

	for _, wt := range []window.Type{window.TypeHann, window.TypeRectangular, window.TypeBlackmanHarris4Term, window.TypeFlatTop} {
		t.Run(wt.String(), func(t *testing.T) {
			a := newTestAnalyzer(t, Config{
				SampleRate:      48000,
				FFTSize:         n,
				FundamentalFreq: 64 * 48000.0 / n,
				MaxHarmonics:    2,
				WindowType:      wt,
			})

			res, err := a.Analyze(tones(n,
				tone{64, 1},
				tone{128, 0.1},
				tone{192, 0.05},
				tone{670, 0.02},
			))
			if err != nil {
				t.Fatalf("Analyze: %v", err)
			}

			const tol = 1e-5

			checks := []struct {
				name      string
				got, want float64
			}{
				{"FundamentalFreq", res.FundamentalFreq, 750},
				{"FundamentalLevel", res.FundamentalLevel, 1},
				{"THD", res.THD, math.Hypot(0.1, 0.05)},
				{"THDN", res.THDN, math.Sqrt(0.1*0.1 + 0.05*0.05 + 0.02*0.02)},
				{"EvenHD", res.EvenHD, 0.1},
				{"OddHD", res.OddHD, 0.05},
				{"Noise", res.Noise, 0.02},
				{"SINAD", res.SINAD, -20 * math.Log10(math.Sqrt(0.0129))},
			}
			for _, c := range checks {
				if math.Abs(c.got-c.want) > tol*math.Max(1, math.Abs(c.want)) {
					t.Errorf("%s = %.9f, want %.9f", c.name, c.got, c.want)
				}
			}

			if len(res.Harmonics) != 2 {
				t.Fatalf("harmonic count = %d, want 2", len(res.Harmonics))
			}
			if math.Abs(res.Harmonics[0]-0.1) > tol || math.Abs(res.Harmonics[1]-0.05) > tol {
				t.Fatalf("harmonics = %v, want [0.1 0.05]", res.Harmonics)
			}
		})
	}
}

func TestAnalyzeCountsHarmonicsUpToNyquist(t *testing.T) {
	const n = 1024

	a := newTestAnalyzer(t, Config{SampleRate: 48000, FFTSize: n, FundamentalFreq: 100 * 48000.0 / n})

	// H2 to H5 lie below Nyquist.
	res, err := a.Analyze(tones(n, tone{100, 0.5}, tone{400, 0.05}))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if len(res.Harmonics) != 4 {
		t.Fatalf("harmonic count = %d, want 4 (H2..H5)", len(res.Harmonics))
	}
	if math.Abs(res.Harmonics[2]-0.1) > 1e-5 {
		t.Fatalf("H4 = %g, want 0.1", res.Harmonics[2])
	}
	if math.Abs(res.FundamentalLevel-0.5) > 1e-5 {
		t.Fatalf("fundamental level = %g, want 0.5", res.FundamentalLevel)
	}
}

func TestAnalyzePureTone(t *testing.T) {
	const n = 4096

	a := newTestAnalyzer(t, Config{SampleRate: 48000, FFTSize: n, FundamentalFreq: 1000})

	// 1000 Hz rounds to bin 85.
	res, err := a.Analyze(tones(n, tone{85, 1}))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if res.THD > 1e-5 || res.THDN > 1e-5 {
		t.Fatalf("pure tone THD = %g, THD+N = %g, want ~0", res.THD, res.THDN)
	}
	if res.SINAD < 100 {
		t.Fatalf("SINAD = %g dB, want > 100", res.SINAD)
	}
}

func TestAnalyzeSilence(t *testing.T) {
	a := newTestAnalyzer(t, Config{SampleRate: 48000, FFTSize: 1024, FundamentalFreq: 1000})

	res, err := a.Analyze(make([]float32, 1024))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if res.FundamentalFreq != a.Config().FundamentalFreq || res.FundamentalLevel != 0 || res.THD != 0 {
		t.Fatalf("silence = %+v, want only the fundamental frequency", res)
	}
}

func TestAnalyzerReuse(t *testing.T) {
	const n = 2048

	a := newTestAnalyzer(t, Config{SampleRate: 48000, FFTSize: n, FundamentalFreq: 40 * 48000.0 / n})

	distorted := tones(n, tone{40, 1}, tone{80, 0.2})

	first, err := a.Analyze(distorted)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if _, err = a.Analyze(tones(n, tone{40, 1})); err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	again, err := a.Analyze(distorted)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if first.THD != again.THD || first.THDN != again.THDN {
		t.Fatalf("repeated analysis differs: %+v vs %+v", first, again)
	}
}

func TestAnalyzeShortFrame(t *testing.T) {
	a := newTestAnalyzer(t, Config{SampleRate: 48000, FFTSize: 1024, FundamentalFreq: 1000})

	if _, err := a.Analyze(make([]float32, 1023)); !errors.Is(err, ErrShortFrame) {
		t.Fatalf("Analyze(1023 samples) error = %v, want ErrShortFrame", err)
	}
}

func TestNewAnalyzerNormalizesConfig(t *testing.T) {
	a := newTestAnalyzer(t, Config{SampleRate: 48000, FFTSize: 3000, FundamentalFreq: 1000, MaxHarmonics: -3})

	cfg := a.Config()
	if cfg.FFTSize != 4096 {
		t.Fatalf("FFTSize = %d, want 4096", cfg.FFTSize)
	}
	if want := 85 * 48000.0 / 4096; cfg.FundamentalFreq != want {
		t.Fatalf("FundamentalFreq = %v, want %v", cfg.FundamentalFreq, want)
	}
	if cfg.MaxHarmonics != 0 {
		t.Fatalf("MaxHarmonics = %d, want 0", cfg.MaxHarmonics)
	}

	if got := newTestAnalyzer(t, Config{SampleRate: 48000, FundamentalFreq: 1000}).Config().FFTSize; got != defaultFFTSize {
		t.Fatalf("default FFTSize = %d, want %d", got, defaultFFTSize)
	}
}

func TestNewAnalyzerValidation(t *testing.T) {
	for _, cfg := range []Config{
		{SampleRate: 0, FundamentalFreq: 1000},
		{SampleRate: math.NaN(), FundamentalFreq: 1000},
		{SampleRate: 48000, FundamentalFreq: 0},
		{SampleRate: 48000, FundamentalFreq: 24000},
		{SampleRate: 48000, FundamentalFreq: math.NaN()},
		// Bin 8 of 1024: the flat-top lobe reaches the DC lobe.
		{SampleRate: 48000, FFTSize: 1024, FundamentalFreq: 8 * 48000.0 / 1024, WindowType: window.TypeFlatTop},
	} {
		if _, err := NewAnalyzer(cfg); !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("NewAnalyzer(%+v) error = %v, want ErrInvalidConfig", cfg, err)
		}
	}
}
