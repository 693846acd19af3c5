package core

import (
	"errors"
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		value    float32
		lo       float32
		hi       float32
		expected float32
	}{
		{name: "inside", value: 0.5, lo: 0, hi: 1, expected: 0.5},
		{name: "below", value: -1, lo: 0, hi: 1, expected: 0},
		{name: "above", value: 2, lo: 0, hi: 1, expected: 1},
		{name: "swapped", value: 2, lo: 1, hi: 0, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clamp(tt.value, tt.lo, tt.hi)
			if got != tt.expected {
				t.Fatalf("Clamp() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSanitizeKeepsPreviousOnNaN(t *testing.T) {
	nan := float32(math.NaN())
	if got := Sanitize(nan, 0.25, 0, 1); got != 0.25 {
		t.Fatalf("Sanitize(NaN) = %v, want 0.25", got)
	}
	if got := Sanitize(3, 0.25, 0, 1); got != 1 {
		t.Fatalf("Sanitize(3) = %v, want 1", got)
	}
	inf := float32(math.Inf(-1))
	if got := Sanitize(inf, 0.25, 0, 1); got != 0 {
		t.Fatalf("Sanitize(-Inf) = %v, want 0", got)
	}
}

func TestNearlyEqual(t *testing.T) {
	if !NearlyEqual(1.0, 1.0+1e-7, 1e-6) {
		t.Fatal("expected values to be nearly equal")
	}
	if NearlyEqual(1.0, 1.1, 1e-3) {
		t.Fatal("expected values to differ")
	}
	if !NearlyEqual(1000, 1000.5, 1e-3) {
		t.Fatal("expected relative comparison to pass")
	}
}

func TestIsFinite(t *testing.T) {
	if !IsFinite(1) || !IsFinite(-3e38) {
		t.Fatal("finite values reported as non-finite")
	}
	if IsFinite(float32(math.NaN())) || IsFinite(float32(math.Inf(1))) || IsFinite(float32(math.Inf(-1))) {
		t.Fatal("non-finite values reported as finite")
	}
}

func TestValidateSampleRate(t *testing.T) {
	for _, sr := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		err := ValidateSampleRate(sr)
		if !errors.Is(err, ErrInvalidSampleRate) {
			t.Fatalf("ValidateSampleRate(%v) = %v, want ErrInvalidSampleRate", sr, err)
		}
	}
	if err := ValidateSampleRate(44100); err != nil {
		t.Fatalf("ValidateSampleRate(44100) = %v", err)
	}
}

func TestValidateChannels(t *testing.T) {
	if err := ValidateChannels(0); !errors.Is(err, ErrInvalidChannels) {
		t.Fatalf("ValidateChannels(0) = %v, want ErrInvalidChannels", err)
	}
	if err := ValidateChannels(2); err != nil {
		t.Fatalf("ValidateChannels(2) = %v", err)
	}
}

func TestFlushDenormals(t *testing.T) {
	if FlushDenormals(1e-35) != 0 {
		t.Fatal("expected tiny value to flush to zero")
	}
	if FlushDenormals(1e-3) != 1e-3 {
		t.Fatal("expected normal value to pass through")
	}
}
