package modulation

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-rtdsp/internal/testutil"
)

func TestPhaserResetAndDC(t *testing.T) {
	t.Parallel()

	p, err := NewPhaser(1)
	if err != nil {
		t.Fatalf("NewPhaser() error = %v", err)
	}
	if err := p.SetSampleRate(48000); err != nil {
		t.Fatalf("SetSampleRate() error = %v", err)
	}
	p.SetRate(5)
	p.Reset(0.25)

	var s PhaserState
	if y0 := p.coeffs.ResetState(&s, 0.25); y0 != 0.5 {
		t.Fatalf("ResetState(0.25) = %v, want 0.5", y0)
	}

	n := 4800
	y := make([]float32, n)
	p.Process([][]float32{testutil.DC(0.25, n)}, [][]float32{y}, n)
	testutil.RequireSliceNearlyEqual(t, y, testutil.DC(0.5, n), 1e-4)
}

func phaserPeak(t *testing.T, freq float64) float32 {
	t.Helper()

	const sr = 48000

	c := NewPhaserCoeffs()
	c.SetAmount(0)
	c.SetSampleRate(sr)
	c.ResetCoeffs()

	var s PhaserState
	c.ResetState(&s, 0)

	x := testutil.DeterministicSine(freq, sr, 1, 9600)
	y := make([]float32, len(x))
	c.Process(&s, x, y)

	return testutil.Peak(y[4800:])
}

func TestPhaserStaticNotches(t *testing.T) {
	t.Parallel()

	const (
		sr     = 48000.0
		center = 1000.0
	)

	// Four allpass stages put the output in phase with the input at the
	// center and in antiphase where each stage shifts by 45 or 135 degrees.
	warp := math.Tan(math.Pi * center / sr)
	for _, r := range []float64{math.Tan(math.Pi / 8), math.Tan(3 * math.Pi / 8)} {
		f := sr / math.Pi * math.Atan(r*warp)
		if got := phaserPeak(t, f); got > 0.05 {
			t.Fatalf("peak at notch %.1f Hz = %v, want < 0.05", f, got)
		}
	}
	if got := phaserPeak(t, center); math.Abs(float64(got)-2) > 0.02 {
		t.Fatalf("peak at center = %v, want 2", got)
	}
}

func TestPhaserBounded(t *testing.T) {
	t.Parallel()

	p, err := NewPhaser(2)
	if err != nil {
		t.Fatalf("NewPhaser() error = %v", err)
	}
	if err := p.SetSampleRate(44100); err != nil {
		t.Fatalf("SetSampleRate() error = %v", err)
	}
	p.SetRate(0.7)
	p.SetCenter(800)
	p.SetAmount(3)
	p.Reset(0)

	n := 8192
	x := [][]float32{testutil.DeterministicSine(440, 44100, 1, n), testutil.DeterministicNoise(4, 1, n)}
	y := [][]float32{make([]float32, n), nil}
	p.Process(x, y, n)

	testutil.RequireFinite(t, y[0])
	testutil.RequireBounded(t, y[0], 2.1)
}

func TestPhaserSetterClamps(t *testing.T) {
	t.Parallel()

	c := NewPhaserCoeffs()
	c.SetCenter(0)
	if c.center != 1e-6 {
		t.Fatalf("center = %v, want 1e-6", c.center)
	}
	c.SetAmount(-1)
	if c.amount != 0 {
		t.Fatalf("amount = %v, want 0", c.amount)
	}
	c.SetAmount(float32(math.Inf(1)))
	if c.amount != maxPhaserAmount {
		t.Fatalf("amount = %v, want %v", c.amount, maxPhaserAmount)
	}
	if _, err := NewPhaser(-1); err == nil {
		t.Fatal("NewPhaser(-1) error = nil")
	}
}
