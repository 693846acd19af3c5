package modulation

import (
	"testing"

	"github.com/cwbudde/algo-rtdsp/internal/testutil"
)

const chorusRate = 1024

func newTestChorus(t *testing.T, setup func(*Chorus)) *Chorus {
	t.Helper()

	c, err := NewChorus(1, 0.01)
	if err != nil {
		t.Fatalf("NewChorus() error = %v", err)
	}
	if setup != nil {
		setup(c)
	}
	if err := c.SetSampleRate(chorusRate); err != nil {
		t.Fatalf("SetSampleRate() error = %v", err)
	}
	c.Reset(0)

	return c
}

func runChorus(c *Chorus, x []float32) []float32 {
	y := make([]float32, len(x))
	c.Process([][]float32{x}, [][]float32{y}, len(x))
	return y
}

func TestChorusDefaultIsDry(t *testing.T) {
	t.Parallel()

	c := newTestChorus(t, func(c *Chorus) {
		c.SetDelay(0.005)
		c.SetAmount(0.002)
	})

	x := testutil.DeterministicNoise(3, 1, 512)
	testutil.RequireSliceNearlyEqual(t, runChorus(c, x), x, 0)
}

func TestChorusStaticDelay(t *testing.T) {
	t.Parallel()

	c := newTestChorus(t, func(c *Chorus) {
		c.SetDelay(3.0 / chorusRate)
		c.SetAmount(0)
		c.SetCoeffX(0)
		c.SetCoeffMod(1)
	})

	y := runChorus(c, testutil.Impulse(16, 0))
	testutil.RequireSliceNearlyEqual(t, y, testutil.Impulse(16, 3), 1e-6)
}

func TestChorusModulatedDelayStaysInRange(t *testing.T) {
	t.Parallel()

	c := newTestChorus(t, func(c *Chorus) {
		c.SetDelay(3.0 / chorusRate)
		c.SetAmount(1.0 / chorusRate)
		c.SetCoeffX(0)
		c.SetCoeffMod(1)
	})

	n := 4 * chorusRate
	ramp := make([]float32, n)
	for i := range ramp {
		ramp[i] = float32(i)
	}
	y := runChorus(c, ramp)

	// A ramp read through linear interpolation reveals the delay directly.
	lo, hi := float32(10), float32(-10)
	for i := 64; i < n; i++ {
		d := ramp[i] - y[i]
		if d < 2-1e-2 || d > 4+1e-2 {
			t.Fatalf("delay at %d = %v samples, want in [2, 4]", i, d)
		}
		lo = min(lo, d)
		hi = max(hi, d)
	}
	if hi-lo < 1 {
		t.Fatalf("delay swing = %v samples, want > 1", hi-lo)
	}
}

func TestChorusResetIsRepeatable(t *testing.T) {
	t.Parallel()

	c := newTestChorus(t, func(c *Chorus) {
		c.SetRate(3)
		c.SetDelay(0.004)
		c.SetAmount(0.002)
		c.SetCoeffX(0.7071)
		c.SetCoeffMod(0.7071)
		c.SetCoeffFB(-0.5)
	})

	x := testutil.DeterministicNoise(9, 1, 2048)
	a := runChorus(c, x)
	c.Reset(0)
	b := runChorus(c, x)

	testutil.RequireFinite(t, a)
	testutil.RequireSliceNearlyEqual(t, a, b, 0)
}

func TestChorusResetSteadyState(t *testing.T) {
	t.Parallel()

	c := newTestChorus(t, func(c *Chorus) {
		c.SetDelay(0.004)
		c.SetCoeffX(0.5)
		c.SetCoeffMod(0.5)
		c.SetCoeffFB(0.5)
	})

	var s ChorusState
	mem := make([]float32, c.coeffs.MemReq())
	c.coeffs.MemSet(&s, mem)
	if y0 := c.coeffs.ResetState(&s, 1); y0 != 2 {
		t.Fatalf("ResetState(1) = %v, want 2", y0)
	}
}

func TestChorusValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewChorus(0, 0.01); err == nil {
		t.Fatal("NewChorus(0) error = nil")
	}
	if _, err := NewChorus(1, -1); err == nil {
		t.Fatal("NewChorus(maxDelay -1) error = nil")
	}
	c, err := NewChorus(2, 0.01)
	if err != nil {
		t.Fatalf("NewChorus() error = %v", err)
	}
	if err := c.SetSampleRate(0); err == nil {
		t.Fatal("SetSampleRate(0) error = nil")
	}
	if c.Channels() != 2 {
		t.Fatalf("Channels() = %d, want 2", c.Channels())
	}
}
