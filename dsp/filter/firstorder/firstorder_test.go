package firstorder

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-rtdsp/internal/testutil"
)

const testSampleRate = 48000

func newTestCoeffs(cutoff float32) Coeffs {
	c := NewCoeffs()
	c.SetSampleRate(testSampleRate)
	c.SetCutoff(cutoff)
	c.ResetCoeffs()
	return c
}

func steadyPeak(t *testing.T, mode Mode, freq float64) float32 {
	t.Helper()

	c := newTestCoeffs(1000)
	var s State
	c.ResetState(&s, 0, mode)

	x := testutil.DeterministicSine(freq, testSampleRate, 1, 9600)
	y := make([]float32, len(x))
	c.Process(&s, x, y, mode)
	testutil.RequireFinite(t, y)

	return testutil.Peak(y[4800:])
}

func TestMagnitudeResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mode Mode
		freq float64
		want float64
		tol  float64
	}{
		{Lowpass, 100, 0.995, 0.01},
		{Lowpass, 1000, math.Sqrt2 / 2, 0.01},
		{Lowpass, 20000, 0.0175, 0.01},
		{Highpass, 100, 0.0997, 0.01},
		{Highpass, 1000, math.Sqrt2 / 2, 0.01},
		{Highpass, 20000, 1, 0.01},
		{Allpass, 100, 1, 0.01},
		{Allpass, 1000, 1, 0.01},
		{Allpass, 20000, 1, 0.01},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			got := float64(steadyPeak(t, tt.mode, tt.freq))
			if math.Abs(got-tt.want) > tt.tol {
				t.Fatalf("%v at %v Hz: gain %v, want %v", tt.mode, tt.freq, got, tt.want)
			}
		})
	}
}

func TestResetStateOutputs(t *testing.T) {
	t.Parallel()

	c := newTestCoeffs(500)
	want := map[Mode]float32{Lowpass: 0.5, Highpass: 0, Allpass: -0.5}

	for mode, y0 := range want {
		var s State
		if got := c.ResetState(&s, 0.5, mode); got != y0 {
			t.Fatalf("%v reset output = %v, want %v", mode, got, y0)
		}

		y := make([]float32, 32)
		c.Process(&s, testutil.DC(0.5, 32), y, mode)
		testutil.RequireSliceNearlyEqual(t, y, testutil.DC(y0, 32), 1e-6)
	}
}

func TestResetIsIdempotent(t *testing.T) {
	t.Parallel()

	c := newTestCoeffs(2000)
	x := testutil.DeterministicNoise(19, 1, 512)

	var s State
	c.ResetState(&s, 0.1, Lowpass)
	first := make([]float32, len(x))
	c.Process(&s, x, first, Lowpass)

	c.ResetCoeffs()
	c.ResetState(&s, 0.1, Lowpass)
	second := make([]float32, len(x))
	c.Process(&s, x, second, Lowpass)

	testutil.RequireSliceNearlyEqual(t, second, first, 0)
}

func TestHighpassComplementsLowpass(t *testing.T) {
	t.Parallel()

	c := newTestCoeffs(700)
	x := testutil.DeterministicNoise(23, 1, 256)

	var sl, sh State
	c.ResetState(&sl, 0, Lowpass)
	c.ResetState(&sh, 0, Highpass)

	for i, v := range x {
		c.UpdateAudio()
		lp := c.Process1LP(&sl, v)
		hp := c.Process1HP(&sh, v)
		if d := lp + hp - v; d > 1e-6 || d < -1e-6 {
			t.Fatalf("sample %d: lp+hp-x = %v", i, d)
		}
	}
}

func TestNewRejectsInvalid(t *testing.T) {
	t.Parallel()

	if _, err := New(0, Lowpass); err == nil {
		t.Fatal("expected channel error")
	}
	if _, err := New(1, Mode(7)); err == nil {
		t.Fatal("expected mode error")
	}
}

func TestFilterMultiChannel(t *testing.T) {
	t.Parallel()

	f, err := New(2, Highpass)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := f.SetSampleRate(testSampleRate); err != nil {
		t.Fatalf("SetSampleRate: %v", err)
	}
	f.SetCutoff(200)
	f.Reset(1)

	y := [][]float32{make([]float32, 64), nil}
	f.Process([][]float32{testutil.Ones(64), testutil.Ones(64)}, y, 64)
	testutil.RequireSliceNearlyEqual(t, y[0], make([]float32, 64), 1e-6)
	if f.Mode() != Highpass || f.Channels() != 2 {
		t.Fatalf("mode=%v channels=%d", f.Mode(), f.Channels())
	}
}
