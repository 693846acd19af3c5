package svf

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-rtdsp/internal/testutil"
)

const testSampleRate = 48000

func newTestCoeffs(cutoff, q float32) Coeffs {
	c := NewCoeffs()
	c.SetSampleRate(testSampleRate)
	c.SetCutoff(cutoff)
	c.SetQ(q)
	c.ResetCoeffs()
	return c
}

func run(c *Coeffs, s *State, x []float32) (lp, bp, hp []float32) {
	lp = make([]float32, len(x))
	bp = make([]float32, len(x))
	hp = make([]float32, len(x))
	c.Process(s, x, lp, bp, hp)
	return lp, bp, hp
}

func TestStepResponseOvershoot(t *testing.T) {
	t.Parallel()

	c := newTestCoeffs(1000, 0.707)
	var s State
	c.ResetState(&s, 0)

	lp, _, _ := run(&c, &s, testutil.Ones(4800))

	peak := testutil.Peak(lp)
	if peak < 1 || peak > 1.05 {
		t.Fatalf("step peak = %v, want in [1, 1.05)", peak)
	}
	if d := math.Abs(float64(lp[len(lp)-1] - 1)); d > 1e-3 {
		t.Fatalf("step did not settle: %v", lp[len(lp)-1])
	}
}

func TestGainAtCutoff(t *testing.T) {
	t.Parallel()

	const q = 0.707
	c := newTestCoeffs(1000, q)
	var s State
	c.ResetState(&s, 0)

	x := testutil.DeterministicSine(1000, testSampleRate, 1, 9600)
	lp, bp, hp := run(&c, &s, x)

	for name, y := range map[string][]float32{"lp": lp, "bp": bp, "hp": hp} {
		if got := testutil.Peak(y[4800:]); math.Abs(float64(got)-q) > 0.02 {
			t.Errorf("%s gain at cutoff = %v, want %v", name, got, q)
		}
	}
}

func TestOutputsSumToInput(t *testing.T) {
	t.Parallel()

	const q = 2
	c := newTestCoeffs(3000, q)
	var s State
	c.ResetState(&s, 0)

	x := testutil.DeterministicNoise(5, 1, 1024)
	lp, bp, hp := run(&c, &s, x)

	for i := range x {
		sum := lp[i] + bp[i]/q + hp[i]
		if d := math.Abs(float64(sum - x[i])); d > 1e-4 {
			t.Fatalf("sample %d: lp + bp/Q + hp = %v, want %v", i, sum, x[i])
		}
	}
}

func TestResetIsIdempotent(t *testing.T) {
	t.Parallel()

	c := newTestCoeffs(500, 3)
	x := testutil.DeterministicNoise(11, 1, 512)

	var s State
	c.ResetCoeffs()
	c.ResetState(&s, 0.3)
	first, _, _ := run(&c, &s, x)

	c.ResetCoeffs()
	c.ResetState(&s, 0.3)
	second, _, _ := run(&c, &s, x)

	testutil.RequireSliceNearlyEqual(t, second, first, 0)
}

func TestResetStateIsSteady(t *testing.T) {
	t.Parallel()

	c := newTestCoeffs(2000, 0.5)
	var s State
	lp0, bp0, hp0 := c.ResetState(&s, 0.5)
	if lp0 != 0.5 || bp0 != 0 || hp0 != 0 {
		t.Fatalf("reset outputs = %v %v %v", lp0, bp0, hp0)
	}

	lp, bp, hp := run(&c, &s, testutil.DC(0.5, 64))
	testutil.RequireSliceNearlyEqual(t, lp, testutil.DC(0.5, 64), 1e-6)
	testutil.RequireSliceNearlyEqual(t, bp, make([]float32, 64), 1e-6)
	testutil.RequireSliceNearlyEqual(t, hp, make([]float32, 64), 1e-6)
}

func TestLastCutoffWins(t *testing.T) {
	t.Parallel()

	x := testutil.DeterministicNoise(13, 1, 2048)

	a := newTestCoeffs(1000, 1)
	var sa State
	a.ResetState(&sa, 0)
	a.SetCutoff(300)
	a.SetCutoff(5000)
	ya, _, _ := run(&a, &sa, x)

	b := newTestCoeffs(1000, 1)
	var sb State
	b.ResetState(&sb, 0)
	b.SetCutoff(5000)
	yb, _, _ := run(&b, &sb, x)

	testutil.RequireSliceNearlyEqual(t, ya, yb, 0)
}

func TestCutoffIsSmoothed(t *testing.T) {
	t.Parallel()

	c := newTestCoeffs(100, 0.707)
	var s State
	c.ResetState(&s, 0)
	c.SetCutoff(10000)

	c.UpdateAudio()
	if got := c.cutoffState.Value(); got <= 100 || got >= 1000 {
		t.Fatalf("smoothed cutoff after one sample = %v", got)
	}

	run(&c, &s, make([]float32, 4800))
	if got := c.cutoffState.Value(); got != 10000 {
		t.Fatalf("smoothed cutoff did not settle: %v", got)
	}
}

func TestStability(t *testing.T) {
	t.Parallel()

	cutoffs := []float32{20, 200, 2000, 20000, 0.45 * testSampleRate}
	qs := []float32{0.5, 0.707, 2, 10}

	for _, fc := range cutoffs {
		for _, q := range qs {
			c := newTestCoeffs(fc, q)
			var s State
			c.ResetState(&s, 0)

			lp, bp, hp := run(&c, &s, testutil.Impulse(10000, 0))
			for _, y := range [][]float32{lp, bp, hp} {
				testutil.RequireBounded(t, y, 10*q+2)
			}
			if d := math.Abs(float64(lp[len(lp)-1])); fc >= 200 && d > 1e-3 {
				t.Fatalf("fc=%v q=%v: impulse response did not decay (%v)", fc, q, d)
			}
		}
	}
}

func TestClamping(t *testing.T) {
	t.Parallel()

	c := NewCoeffs()
	c.SetCutoff(-5)
	c.SetQ(1e9)
	if c.cutoff != MinCutoff || c.q != MaxQ {
		t.Fatalf("cutoff=%v q=%v", c.cutoff, c.q)
	}

	c.SetCutoff(float32(math.NaN()))
	if c.cutoff != MinCutoff {
		t.Fatalf("NaN changed cutoff to %v", c.cutoff)
	}
}

func TestFilterMultiChannelNilOutputs(t *testing.T) {
	t.Parallel()

	f, err := New(2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := f.SetSampleRate(testSampleRate); err != nil {
		t.Fatalf("SetSampleRate: %v", err)
	}
	f.SetCutoff(800)
	f.SetQ(1.5)
	f.Reset(0)

	x := testutil.DeterministicNoise(17, 1, 256)
	lp := [][]float32{make([]float32, 256), make([]float32, 256)}
	hp := [][]float32{nil, make([]float32, 256)}
	f.Process([][]float32{x, x}, lp, nil, hp, 256)

	testutil.RequireSliceNearlyEqual(t, lp[1], lp[0], 0)

	ref := NewCoeffs()
	ref.SetSampleRate(testSampleRate)
	ref.SetCutoff(800)
	ref.SetQ(1.5)
	ref.ResetCoeffs()
	var s State
	ref.ResetState(&s, 0)
	want := make([]float32, 256)
	ref.Process(&s, x, want, nil, nil)

	testutil.RequireSliceNearlyEqual(t, lp[0], want, 0)
}

func TestFilterOutputsFollowEachBlock(t *testing.T) {
	t.Parallel()

	f, err := New(2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := f.SetSampleRate(testSampleRate); err != nil {
		t.Fatalf("SetSampleRate: %v", err)
	}
	f.SetCutoff(2500)
	f.SetQ(0.9)
	f.Reset(0)

	ref := newTestCoeffs(2500, 0.9)
	var s State
	ref.ResetState(&s, 0)

	x := testutil.DeterministicNoise(5, 1, 192)

	// The first block writes low-pass only, the second high-pass only and
	// channel 1 gets no outputs at all.
	lp := make([]float32, 96)
	f.Process([][]float32{x[:96], x[:96]}, [][]float32{lp}, nil, nil, 96)
	hp := make([]float32, 96)
	f.Process([][]float32{x[96:], x[96:]}, nil, nil, [][]float32{hp, nil}, 96)

	wantLP, _, _ := run(&ref, &s, x[:96])
	_, _, wantHP := run(&ref, &s, x[96:])

	testutil.RequireSliceNearlyEqual(t, lp, wantLP, 0)
	testutil.RequireSliceNearlyEqual(t, hp, wantHP, 0)

	for ch := range f.states {
		if f.lp[ch] != nil || f.bp[ch] != nil || f.hp[ch] != nil {
			t.Fatalf("channel %d still holds caller buffers after Process", ch)
		}
	}
}

func BenchmarkFilterProcess(b *testing.B) {
	f, err := New(2)
	if err != nil {
		b.Fatalf("New: %v", err)
	}
	if err := f.SetSampleRate(testSampleRate); err != nil {
		b.Fatalf("SetSampleRate: %v", err)
	}
	f.Reset(0)

	x := [][]float32{make([]float32, 256), make([]float32, 256)}
	lp := [][]float32{make([]float32, 256), make([]float32, 256)}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f.Process(x, lp, nil, nil, 256)
	}
}

func BenchmarkCoeffsProcess(b *testing.B) {
	c := newTestCoeffs(1000, 0.707)
	var s State
	c.ResetState(&s, 0)
	x := make([]float32, 256)
	lp := make([]float32, 256)
	for i := 0; i < b.N; i++ {
		c.Process(&s, x, lp, nil, nil)
	}
}
