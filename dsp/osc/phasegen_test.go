package osc

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-rtdsp/internal/testutil"
)

const testSampleRate = 48000

func newTestPhaseGen(freq float32) PhaseGenCoeffs {
	c := NewPhaseGenCoeffs()
	c.SetSampleRate(testSampleRate)
	c.SetFrequency(freq)
	c.ResetCoeffs()
	return c
}

func circularDist(a, b float64) float64 {
	d := math.Abs(a - b)
	return math.Min(d, 1-d)
}

func TestPhaseWrap(t *testing.T) {
	t.Parallel()

	for _, freq := range []float32{1000, 440, -330, 23999} {
		c := newTestPhaseGen(freq)
		var s PhaseGenState
		c.ResetState(&s, 0.125)

		const n = 4800
		y := make([]float32, n)
		inc := make([]float32, n)
		c.Process(&s, nil, y, inc, n)

		acc := 0.125
		for i := range y {
			if y[i] < 0 || y[i] >= 1 {
				t.Fatalf("f=%v: phase[%d] = %v outside [0,1)", freq, i, y[i])
			}
			acc += float64(inc[i])
			want := acc - math.Floor(acc)
			if d := circularDist(float64(y[i]), want); d > 1e-3 {
				t.Fatalf("f=%v: phase[%d] = %v, increments sum to %v", freq, i, y[i], want)
			}
		}
	}
}

func TestPhaseGenReset(t *testing.T) {
	t.Parallel()

	c := newTestPhaseGen(480)
	var s PhaseGenState
	p, inc := c.ResetState(&s, 0.3)
	if p != 0.3 {
		t.Fatalf("reset phase = %v", p)
	}
	if math.Abs(float64(inc)-0.01) > 1e-7 {
		t.Fatalf("reset increment = %v, want 0.01", inc)
	}

	first := make([]float32, 256)
	c.Process(&s, nil, first, nil, 256)

	c.ResetCoeffs()
	c.ResetState(&s, 0.3)
	second := make([]float32, 256)
	c.Process(&s, nil, second, nil, 256)

	testutil.RequireSliceNearlyEqual(t, second, first, 0)
}

func TestPhaseGenModulation(t *testing.T) {
	t.Parallel()

	c := newTestPhaseGen(100)
	var s PhaseGenState
	c.ResetState(&s, 0)

	inc := make([]float32, 4)
	c.Process(&s, []float32{0, 1, -1, 2}, nil, inc, 4)

	base := inc[0]
	for i, octaves := range []float64{0, 1, -1, 2} {
		want := float64(base) * math.Exp2(octaves)
		if math.Abs(float64(inc[i])-want) > want*1e-3 {
			t.Fatalf("inc[%d] = %v, want %v", i, inc[i], want)
		}
	}
}

func TestPhaseGenPortamento(t *testing.T) {
	t.Parallel()

	c := newTestPhaseGen(100)
	c.SetPortamentoTau(0.01)
	c.ResetCoeffs()

	var s PhaseGenState
	c.ResetState(&s, 0)
	c.SetFrequency(1000)

	inc := make([]float32, 4800)
	c.Process(&s, nil, nil, inc, len(inc))

	if inc[0]*testSampleRate > 200 {
		t.Fatalf("increment jumped immediately: %v Hz", inc[0]*testSampleRate)
	}
	if got := inc[len(inc)-1] * testSampleRate; math.Abs(float64(got)-1000) > 1 {
		t.Fatalf("glide did not reach target: %v Hz", got)
	}
	for i := 1; i < len(inc); i++ {
		if inc[i] < inc[i-1] {
			t.Fatalf("glide not monotonic at %d", i)
		}
	}
}

func TestPhaseGenMultiChannel(t *testing.T) {
	t.Parallel()

	g, err := NewPhaseGen(2)
	if err != nil {
		t.Fatalf("NewPhaseGen: %v", err)
	}
	if err := g.SetSampleRate(testSampleRate); err != nil {
		t.Fatalf("SetSampleRate: %v", err)
	}
	g.SetFrequency(1200)
	g.Reset(0)

	y := [][]float32{make([]float32, 40), make([]float32, 40)}
	mod := [][]float32{nil, testutil.Ones(40)}
	g.Process(mod, y, nil, 40)

	// Channel 1 runs an octave higher, so it wraps after 20 samples.
	if math.Abs(float64(g.Phase(0))-0.0) > 1e-4 && math.Abs(float64(g.Phase(0))-1) > 1e-4 {
		t.Fatalf("channel 0 phase after one period = %v", g.Phase(0))
	}
	if d := math.Abs(float64(y[1][19]) - float64(y[0][39])); d > 1e-4 && math.Abs(d-1) > 1e-4 {
		t.Fatalf("modulated channel out of step: %v vs %v", y[1][19], y[0][39])
	}
}
