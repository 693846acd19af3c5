package osc

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-rtdsp/internal/testutil"
)

func phaseRamp(freq float32, n int) (phase, inc []float32) {
	c := newTestPhaseGen(freq)
	var s PhaseGenState
	c.ResetState(&s, 0)
	phase = make([]float32, n)
	inc = make([]float32, n)
	c.Process(&s, nil, phase, inc, n)
	return phase, inc
}

func maxJump(y []float32) float32 {
	var m float32
	for i := 1; i < len(y); i++ {
		if d := float32(math.Abs(float64(y[i] - y[i-1]))); d > m {
			m = d
		}
	}
	return m
}

func mean(y []float32) float64 {
	var sum float64
	for _, v := range y {
		sum += float64(v)
	}
	return sum / float64(len(y))
}

func TestSine(t *testing.T) {
	t.Parallel()

	phase, _ := phaseRamp(1000, 480)
	y := make([]float32, len(phase))
	Sine(phase, y)

	for i, p := range phase {
		want := math.Sin(2 * math.Pi * float64(p))
		if math.Abs(float64(y[i])-want) > 0.011 {
			t.Fatalf("sine(%v) = %v, want %v", p, y[i], want)
		}
	}
	if v := Sine1(0.25); math.Abs(float64(v)-1) > 0.011 {
		t.Fatalf("Sine1(0.25) = %v", v)
	}
}

func TestSawNaiveAndAntialiased(t *testing.T) {
	t.Parallel()

	var saw Saw
	if saw.Process1(0) != -1 || saw.Process1(0.5) != 0 {
		t.Fatal("naive saw endpoints")
	}

	phase, inc := phaseRamp(1000, 4800)
	naive := make([]float32, len(phase))
	saw.Process(phase, inc, naive)
	if maxJump(naive) < 1.8 {
		t.Fatalf("naive saw should jump by ~2, got %v", maxJump(naive))
	}

	saw.SetAntialiasing(true)
	aa := make([]float32, len(phase))
	saw.Process(phase, inc, aa)
	testutil.RequireBounded(t, aa, 1)
	if j := maxJump(aa); j > 1 {
		t.Fatalf("antialiased saw jump = %v, want < 1", j)
	}
	if m := mean(aa); math.Abs(m) > 1e-3 {
		t.Fatalf("antialiased saw DC = %v", m)
	}

	// Away from the wrap both versions agree.
	if saw.Process1Antialias(0.5, 0.01) != 0 {
		t.Fatal("BLEP correction applied away from the discontinuity")
	}
}

func TestPulse(t *testing.T) {
	t.Parallel()

	for _, aa := range []bool{false, true} {
		p := NewPulse()
		p.SetSampleRate(testSampleRate)
		p.SetPulseWidth(0.25)
		p.SetAntialiasing(aa)
		p.Reset()

		phase, inc := phaseRamp(480, 4800)
		y := make([]float32, len(phase))
		p.Process(phase, inc, y)
		testutil.RequireBounded(t, y, 1.001)

		// Width 0.25: a quarter of the period high, the rest low.
		if m := mean(y); math.Abs(m-(-0.5)) > 0.02 {
			t.Fatalf("antialiasing=%v: mean = %v, want -0.5", aa, m)
		}
		if aa && maxJump(y) > 1 {
			t.Fatalf("antialiased pulse jump = %v", maxJump(y))
		}
	}
}

func TestPulseWidthSmoothing(t *testing.T) {
	t.Parallel()

	p := NewPulse()
	p.SetSampleRate(testSampleRate)
	p.Reset()
	p.SetPulseWidth(0.9)
	p.UpdateAudio()

	if w := p.smoothState.Value(); w <= 0.5 || w >= 0.6 {
		t.Fatalf("width after one sample = %v", w)
	}

	p.SetPulseWidth(2)
	if p.pulseWidth != 1 {
		t.Fatalf("width not clamped: %v", p.pulseWidth)
	}
}

func TestTriangle(t *testing.T) {
	t.Parallel()

	tri := NewTriangle()
	tri.SetSampleRate(testSampleRate)
	tri.Reset()

	if v := tri.Process1(0); math.Abs(float64(v)+1) > 1e-4 {
		t.Fatalf("tri(0) = %v, want -1", v)
	}
	if v := tri.Process1(0.5); math.Abs(float64(v)-1) > 1e-4 {
		t.Fatalf("tri(0.5) = %v, want 1", v)
	}

	for _, aa := range []bool{false, true} {
		tri.SetAntialiasing(aa)
		phase, inc := phaseRamp(2000, 4800)
		y := make([]float32, len(phase))
		tri.Process(phase, inc, y)
		testutil.RequireBounded(t, y, 1.001)
		if m := mean(y); math.Abs(m) > 1e-2 {
			t.Fatalf("antialiasing=%v: mean = %v", aa, m)
		}
	}
}

func TestTriangleSlopeClamp(t *testing.T) {
	t.Parallel()

	tri := NewTriangle()
	tri.SetSlope(0)
	if tri.slope != minSlope {
		t.Fatalf("slope = %v, want %v", tri.slope, minSlope)
	}
	tri.SetSlope(float32(math.NaN()))
	if tri.slope != minSlope {
		t.Fatalf("NaN changed slope to %v", tri.slope)
	}
}

func TestMultiChannelShapers(t *testing.T) {
	t.Parallel()

	phase, inc := phaseRamp(1000, 64)
	x := [][]float32{phase, phase}
	xInc := [][]float32{inc, inc}
	y := [][]float32{make([]float32, 64), nil}

	SineMulti(x, y, 64)
	want := make([]float32, 64)
	Sine(phase, want)
	testutil.RequireSliceNearlyEqual(t, y[0], want, 0)

	saw := Saw{}
	saw.SetAntialiasing(true)
	saw.ProcessMulti(x, xInc, y, 64)
	saw.Process(phase, inc, want)
	testutil.RequireSliceNearlyEqual(t, y[0], want, 0)
}
