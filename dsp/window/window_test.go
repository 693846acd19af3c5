package window

import (
	"math"
	"testing"
)

func TestGenerate(t *testing.T) {
	t.Parallel()

	for _, typ := range []Type{TypeRectangular, TypeHann, TypeBlackmanHarris4Term, TypeFlatTop} {
		t.Run(typ.String(), func(t *testing.T) {
			t.Parallel()

			w := Generate(typ, 64)
			if len(w) != 64 {
				t.Fatalf("len = %d, want 64", len(w))
			}

			// Periodic windows are symmetric about n/2.
			for i := 1; i < 32; i++ {
				if math.Abs(w[i]-w[64-i]) > 1e-12 {
					t.Fatalf("w[%d] = %v, w[%d] = %v", i, w[i], 64-i, w[64-i])
				}
			}

			want := map[Type]float64{
				TypeRectangular:         1,
				TypeHann:                0.5,
				TypeBlackmanHarris4Term: 0.35875,
				TypeFlatTop:             0.21557895,
			}[typ]
			if got := CoherentGain(w); math.Abs(got-want) > 1e-9 {
				t.Fatalf("CoherentGain = %v, want %v", got, want)
			}
		})
	}
}

func TestHannEndpoints(t *testing.T) {
	t.Parallel()

	w := Generate(TypeHann, 8)
	if math.Abs(w[0]) > 1e-12 || math.Abs(w[4]-1) > 1e-12 {
		t.Fatalf("Hann = %v", w)
	}
}

func TestApply(t *testing.T) {
	t.Parallel()

	buf := []float64{2, 2, 2, 2}
	Apply(TypeHann, buf)

	want := []float64{0, 1, 2, 1}
	for i := range buf {
		if math.Abs(buf[i]-want[i]) > 1e-12 {
			t.Fatalf("Apply = %v, want %v", buf, want)
		}
	}

	Apply(TypeHann, nil)
	if Generate(TypeHann, 0) != nil {
		t.Fatal("Generate(0) should be nil")
	}
}
