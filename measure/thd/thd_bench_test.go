package thd

import (
	"strconv"
	"testing"

	"github.com/cwbudde/algo-rtdsp/dsp/unit"
)

func BenchmarkAnalyze(b *testing.B) {
	for _, n := range []int{1024, 4096, 16384} {
		b.Run("fft_"+strconv.Itoa(n), func(b *testing.B) {
			a, err := NewAnalyzer(Config{SampleRate: 48000, FFTSize: n, FundamentalFreq: 1000})
			if err != nil {
				b.Fatal(err)
			}

			bin := n / 48
			x := tones(n, tone{bin, 1}, tone{2 * bin, 0.01}, tone{3 * bin, 0.005})

			b.ReportAllocs()
			b.ResetTimer()

			for range b.N {
				_, _ = a.Analyze(x)
			}
		})
	}
}

func BenchmarkMeasureUnit(b *testing.B) {
	for _, name := range []string{"gain", "satur", "clip"} {
		b.Run(name, func(b *testing.B) {
			u, err := unit.DefaultRegistry().New(name, 1)
			if err != nil {
				b.Fatal(err)
			}

			a, err := NewAnalyzer(Config{SampleRate: 48000, FFTSize: 4096, FundamentalFreq: 1000})
			if err != nil {
				b.Fatal(err)
			}

			b.ReportAllocs()
			b.ResetTimer()

			for range b.N {
				_, _ = a.MeasureUnit(u, 0.5)
			}
		})
	}
}
