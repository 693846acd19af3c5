package core

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidSampleRate is returned by SetSampleRate implementations when the
// rate is not strictly positive and finite.
var ErrInvalidSampleRate = errors.New("sample rate must be > 0 and finite")

// ErrInvalidChannels is returned by constructors given a channel count < 1.
var ErrInvalidChannels = errors.New("channel count must be > 0")

// ValidateSampleRate checks that sampleRate can be used to derive coefficients.
func ValidateSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("%w: %f", ErrInvalidSampleRate, sampleRate)
	}

	return nil
}

// ValidateChannels checks a constructor's channel count.
func ValidateChannels(channels int) error {
	if channels <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidChannels, channels)
	}

	return nil
}

// Clamp limits value to the inclusive range [lo, hi].
// NaN is passed through unchanged.
func Clamp(value, lo, hi float32) float32 {
	if lo > hi {
		lo, hi = hi, lo
	}

	if value < lo {
		return lo
	}

	if value > hi {
		return hi
	}

	return value
}

// Sanitize returns value clamped to [lo, hi], or prev when value is NaN.
// Parameter setters use it so that host garbage never reaches coefficients.
func Sanitize(value, prev, lo, hi float32) float32 {
	if math.IsNaN(float64(value)) {
		return prev
	}

	return Clamp(value, lo, hi)
}

// NearlyEqual reports whether a and b are equal within eps, either absolutely
// or relative to the larger magnitude.
func NearlyEqual(a, b, eps float32) bool {
	if eps <= 0 {
		eps = 1e-6
	}

	diff := float32(math.Abs(float64(a - b)))
	if diff <= eps {
		return true
	}

	largest := float32(math.Max(math.Abs(float64(a)), math.Abs(float64(b))))

	return diff <= eps*largest
}

// IsFinite reports whether x is neither NaN nor infinite.
func IsFinite(x float32) bool {
	return !math.IsNaN(float64(x)) && !math.IsInf(float64(x), 0)
}

// FlushDenormals converts tiny denormal-like values to exact zero.
func FlushDenormals(x float32) float32 {
	const epsilon = 1e-30
	if x > -epsilon && x < epsilon {
		return 0
	}

	return x
}
