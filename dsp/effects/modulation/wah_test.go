package modulation

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-rtdsp/internal/testutil"
)

func TestWahCutoffTaper(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		v, want float32
	}{
		{0, 400},
		{0.5, 600},
		{1, 2000},
	} {
		if got := wahCutoff(tc.v); got != tc.want {
			t.Fatalf("wahCutoff(%v) = %v, want %v", tc.v, got, tc.want)
		}
	}
}

func TestWahSetterClamps(t *testing.T) {
	t.Parallel()

	c := NewWahCoeffs()
	if c.Wah() != defaultWahPos {
		t.Fatalf("default position = %v, want %v", c.Wah(), defaultWahPos)
	}
	c.SetWah(-1)
	if c.Wah() != 0 {
		t.Fatalf("position = %v, want 0", c.Wah())
	}
	c.SetWah(2)
	if c.Wah() != 1 {
		t.Fatalf("position = %v, want 1", c.Wah())
	}
	c.SetWah(float32(math.NaN()))
	if c.Wah() != 1 {
		t.Fatalf("NaN changed the position to %v", c.Wah())
	}
}

func wahPeak(t *testing.T, pos float32, freq float64) float32 {
	t.Helper()

	const sr = 48000

	c := NewWahCoeffs()
	c.SetWah(pos)
	c.SetSampleRate(sr)
	c.ResetCoeffs()

	var s WahState
	if y0 := c.ResetState(&s, 0); y0 != 0 {
		t.Fatalf("ResetState() = %v, want 0", y0)
	}

	x := testutil.DeterministicSine(freq, sr, 1, 9600)
	y := make([]float32, len(x))
	c.Process(&s, x, y)
	testutil.RequireFinite(t, y)

	return testutil.Peak(y[4800:])
}

func TestWahBandPass(t *testing.T) {
	t.Parallel()

	center := wahPeak(t, 0.5, 600)
	low := wahPeak(t, 0.5, 100)
	high := wahPeak(t, 0.5, 6000)

	// Band-pass peak gain equals Q.
	if math.Abs(float64(center)-wahQ) > 0.5 {
		t.Fatalf("center gain = %v, want about %d", center, wahQ)
	}
	if low > center/10 || high > center/10 {
		t.Fatalf("off-center gains %v and %v not well below %v", low, high, center)
	}

	// The peak follows the pedal.
	if wahPeak(t, 1, 2000) < 5*wahPeak(t, 0, 2000) {
		t.Fatal("moving the pedal up did not move the resonance to 2 kHz")
	}
}

func TestWahMultiChannelIdempotentReset(t *testing.T) {
	t.Parallel()

	w, err := NewWah(2)
	if err != nil {
		t.Fatalf("NewWah() error = %v", err)
	}
	if err := w.SetSampleRate(44100); err != nil {
		t.Fatalf("SetSampleRate() error = %v", err)
	}
	w.SetWah(0.3)

	n := 512
	x := [][]float32{
		testutil.DeterministicNoise(1, 1, n),
		testutil.DeterministicNoise(2, 1, n),
	}

	run := func() [][]float32 {
		w.Reset(0)
		y := [][]float32{make([]float32, n), nil}
		w.Process(x, y, n)
		return y
	}

	a, b := run(), run()
	testutil.RequireSliceNearlyEqual(t, a[0], b[0], 0)

	if w.WahPosition() != 0.3 {
		t.Fatalf("WahPosition() = %v, want 0.3", w.WahPosition())
	}
	if _, err := NewWah(0); err == nil {
		t.Fatal("NewWah(0) error = nil")
	}
}
