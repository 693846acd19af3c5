package fastmath

import (
	"math"
)

const (
	signMask = 0x80000000
	absMask  = 0x7fffffff
)

// Abs returns |x| by clearing the sign bit.
func Abs(x float32) float32 {
	return math.Float32frombits(math.Float32bits(x) & absMask)
}

// Copysign returns a value with the magnitude of x and the sign of y.
func Copysign(x, y float32) float32 {
	return math.Float32frombits(math.Float32bits(x)&absMask | math.Float32bits(y)&signMask)
}

// Sign returns 1 for positive x, -1 for negative x and 0 for either zero.
func Sign(x float32) float32 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

// Min returns the smaller of a and b.
func Min(a, b float32) float32 {
	if a < b {
		return a
	}

	return b
}

// Max returns the larger of a and b.
func Max(a, b float32) float32 {
	if a > b {
		return a
	}

	return b
}

// Clip limits x to [lo, hi]. lo must not exceed hi.
func Clip(x, lo, hi float32) float32 {
	return Min(Max(x, lo), hi)
}

// Floor returns the greatest integer value <= x.
func Floor(x float32) float32 {
	return float32(math.Floor(float64(x)))
}

// Ceil returns the least integer value >= x.
func Ceil(x float32) float32 {
	return float32(math.Ceil(float64(x)))
}

// Trunc returns the integer part of x.
func Trunc(x float32) float32 {
	return float32(math.Trunc(float64(x)))
}

// IntFrac splits x into Floor(x) and the non-negative remainder.
func IntFrac(x float32) (i, f float32) {
	i = Floor(x)
	return i, x - i
}

// Rcp returns an approximation of 1/x: a bit-level first guess refined by
// two Newton-Raphson steps.
func Rcp(x float32) float32 {
	v := math.Float32frombits(uint32(0x7ef0e840 - int32(math.Float32bits(x))))
	v = v + v - x*v*v
	v = v + v - x*v*v

	return v
}

// Sqrt returns the square root of x, or 0 for x below the smallest normal
// float32.
func Sqrt(x float32) float32 {
	if x < 1.1754943508222875e-38 {
		return 0
	}

	return float32(math.Sqrt(float64(x)))
}

// Tanh approximates the hyperbolic tangent with a cubic that saturates to
// exactly ±1 beyond |x| = 2.115287308554551.
func Tanh(x float32) float32 {
	const lim = 2.115287308554551

	xm := Clip(x, -lim, lim)
	axm := Abs(xm)

	return xm*axm*(0.01218073260037716*axm-0.2750231331124371) + xm
}
