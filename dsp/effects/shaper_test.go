package effects

import (
	"testing"

	"github.com/cwbudde/algo-rtdsp/dsp/core"
	"github.com/cwbudde/algo-rtdsp/dsp/fastmath"
	"github.com/cwbudde/algo-rtdsp/internal/testutil"
)

func newTestClip(t *testing.T, setup func(c *ClipCoeffs)) ClipCoeffs {
	t.Helper()

	c := NewClipCoeffs()
	if setup != nil {
		setup(&c)
	}
	c.SetSampleRate(48000)
	c.ResetCoeffs()

	return c
}

func TestClipStaticTransfer(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		x, want float32
	}{
		{0, 0},
		{0.5, 0.5},
		{-0.25, -0.25},
		{3, 1},
		{-3, -1},
	} {
		c := newTestClip(t, nil)

		var s ShaperState
		if got := c.ResetState(&s, tc.x); got != tc.want {
			t.Fatalf("ResetState(%v) = %v, want %v", tc.x, got, tc.want)
		}

		x := testutil.DC(tc.x, 16)
		y := make([]float32, len(x))
		c.Process(&s, x, y)
		testutil.RequireSliceNearlyEqual(t, y, testutil.DC(tc.want, 16), 1e-6)
	}
}

func TestClipAntialiasedRampIsSegmentMean(t *testing.T) {
	t.Parallel()

	c := newTestClip(t, nil)

	var s ShaperState
	c.ResetState(&s, 0)

	x := make([]float32, 64)
	for i := range x {
		x[i] = float32(i+1) / 100
	}
	y := make([]float32, len(x))
	c.Process(&s, x, y)

	prev := float32(0)
	for i, v := range x {
		want := 0.5 * (v + prev)
		if d := fastmath.Abs(y[i] - want); d > 1e-4 {
			t.Fatalf("y[%d] = %v, want %v", i, y[i], want)
		}
		prev = v
	}
}

func TestClipGainCompensation(t *testing.T) {
	t.Parallel()

	c := newTestClip(t, func(c *ClipCoeffs) {
		c.SetGain(4)
		c.SetGainCompensation(true)
	})

	var s ShaperState
	if got := c.ResetState(&s, 0.1); fastmath.Abs(got-0.1) > 1e-5 {
		t.Fatalf("compensated small signal = %v, want 0.1", got)
	}
	if got := c.ResetState(&s, 1); fastmath.Abs(got-0.25) > 1e-5 {
		t.Fatalf("compensated clipped signal = %v, want 0.25", got)
	}
}

func TestClipBiasKeepsSilenceSilent(t *testing.T) {
	t.Parallel()

	c := newTestClip(t, func(c *ClipCoeffs) { c.SetBias(0.5) })

	var s ShaperState
	c.ResetState(&s, 0)

	y := make([]float32, 32)
	c.Process(&s, make([]float32, len(y)), y)
	testutil.RequireSliceNearlyEqual(t, y, make([]float32, len(y)), 1e-6)

	if got := c.ResetState(&s, 1); fastmath.Abs(got-0.5) > 1e-6 {
		t.Fatalf("biased full scale = %v, want 0.5", got)
	}
}

func TestClipBiasGlides(t *testing.T) {
	t.Parallel()

	c := newTestClip(t, nil)

	var s ShaperState
	c.ResetState(&s, 0.8)
	c.SetBias(0.5)

	x := testutil.DC(0.8, 4800)
	y := make([]float32, len(x))
	c.Process(&s, x, y)

	if y[0] < 0.79 {
		t.Fatalf("first sample after bias change = %v, want close to the unbiased 0.8", y[0])
	}
	if last := y[len(y)-1]; fastmath.Abs(last-0.5) > 1e-3 {
		t.Fatalf("settled output = %v, want 0.5", last)
	}
}

func TestClipSetterClamps(t *testing.T) {
	t.Parallel()

	c := NewClipCoeffs()
	c.SetGain(0)
	if c.gain != MinShaperGain {
		t.Fatalf("gain = %v, want %v", c.gain, MinShaperGain)
	}
	c.SetGain(1e20)
	if c.gain != MaxShaperGain {
		t.Fatalf("gain = %v, want %v", c.gain, MaxShaperGain)
	}
	c.SetBias(-1e20)
	if c.bias != -MaxShaperBias {
		t.Fatalf("bias = %v, want %v", c.bias, -MaxShaperBias)
	}
}

func TestSaturSmallSignalAndLimit(t *testing.T) {
	t.Parallel()

	c := NewSaturCoeffs()
	c.SetSampleRate(48000)
	c.ResetCoeffs()

	var s ShaperState
	if got := c.ResetState(&s, 1e-3); fastmath.Abs(got-1e-3) > 1e-6 {
		t.Fatalf("small signal = %v, want about 1e-3", got)
	}
	// The cubic tanh saturates a little below 1.
	if got, want := c.ResetState(&s, 10), fastmath.Tanh(10); fastmath.Abs(got-want) > 1e-6 || want < 0.9999 {
		t.Fatalf("large signal = %v, want %v", got, want)
	}
	if got, want := c.ResetState(&s, -10), fastmath.Tanh(-10); fastmath.Abs(got-want) > 1e-6 || want > -0.9999 {
		t.Fatalf("large negative signal = %v, want %v", got, want)
	}
}

func TestSaturOutputBounded(t *testing.T) {
	t.Parallel()

	s, err := NewSatur(2)
	if err != nil {
		t.Fatalf("NewSatur() error = %v", err)
	}
	if err := s.SetSampleRate(48000); err != nil {
		t.Fatalf("SetSampleRate() error = %v", err)
	}
	s.SetGain(1)
	s.Reset(0)

	n := 4096
	x := [][]float32{
		testutil.DeterministicNoise(1, 8, n),
		testutil.DeterministicSine(1000, 48000, 5, n),
	}
	y := [][]float32{make([]float32, n), nil}
	s.Process(x, y, n)

	testutil.RequireFinite(t, y[0])
	testutil.RequireBounded(t, y[0], 1.001)
}

func TestShaperAntiderivatives(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name  string
		curve func(float32) float32
		anti  func(float32) float32
	}{
		{"clip", clipCurve, clipAntiderivative},
		{"satur", fastmath.Tanh, saturAntiderivative},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			const h = 1e-3
			for _, x := range []float32{-3, -2.2, -1, -0.4, 0.3, 0.9, 1.5, 2.1, 2.5} {
				slope := (tc.anti(x+h) - tc.anti(x-h)) / (2 * h)
				if d := fastmath.Abs(slope - tc.curve(x)); d > 2e-3 {
					t.Fatalf("dF/dx(%v) = %v, curve = %v", x, slope, tc.curve(x))
				}
			}
		})
	}

	if d := fastmath.Abs(saturAntiderivative(saturKnee-1e-4) - saturAntiderivative(saturKnee)); d > 2e-4 {
		t.Fatalf("satur antiderivative jumps at the knee by %v", d)
	}
}

func TestClipAntialiasedJumpIsSegmentMean(t *testing.T) {
	t.Parallel()

	c := newTestClip(t, nil)

	var s ShaperState
	c.ResetState(&s, -4)

	// The mean of an odd curve over a symmetric segment is zero, while a
	// naive clipper would jump straight to full scale.
	y := make([]float32, 2)
	c.Process(&s, []float32{4, 4}, y)
	if fastmath.Abs(y[0]) > 1e-5 {
		t.Fatalf("y[0] = %v, want 0", y[0])
	}
	if y[1] != 1 {
		t.Fatalf("y[1] = %v, want 1", y[1])
	}
}

func TestShaperMultiChannelMatchesCoeffs(t *testing.T) {
	t.Parallel()

	clip, err := NewClip(2)
	if err != nil {
		t.Fatalf("NewClip() error = %v", err)
	}
	if err := clip.SetSampleRate(48000); err != nil {
		t.Fatalf("SetSampleRate() error = %v", err)
	}
	clip.SetGain(2)
	clip.Reset(0)

	n := 256
	x := [][]float32{
		testutil.DeterministicSine(440, 48000, 0.9, n),
		testutil.DeterministicNoise(7, 1, n),
	}
	y := core.Planar(2, n)
	clip.Process(x, y, n)

	for ch := range x {
		c := newTestClip(t, func(c *ClipCoeffs) { c.SetGain(2) })
		var s ShaperState
		c.ResetState(&s, 0)
		want := make([]float32, n)
		c.Process(&s, x[ch], want)
		testutil.RequireSliceNearlyEqual(t, y[ch], want, 0)
	}
}

func TestShaperValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewClip(0); err == nil {
		t.Fatal("NewClip(0) error = nil")
	}
	if _, err := NewSatur(-1); err == nil {
		t.Fatal("NewSatur(-1) error = nil")
	}

	c, err := NewClip(1)
	if err != nil {
		t.Fatalf("NewClip() error = %v", err)
	}
	if err := c.SetSampleRate(0); err == nil {
		t.Fatal("SetSampleRate(0) error = nil")
	}
}

func BenchmarkSaturProcess(b *testing.B) {
	c := NewSaturCoeffs()
	c.SetSampleRate(48000)
	c.SetGain(4)
	c.ResetCoeffs()

	var s ShaperState
	c.ResetState(&s, 0)

	x := testutil.DeterministicSine(440, 48000, 1, 512)
	y := make([]float32, len(x))

	b.ReportAllocs()
	for b.Loop() {
		c.Process(&s, x, y)
	}
}
