package fastmath

import (
	"math"

	approx "github.com/cwbudde/algo-approx"
)

const (
	expMin = -87.33654
	expMax = 88.72283

	dbToNeper = 0.11512925464970229 // ln(10)/20
)

// Log2 approximates log2(x) for positive normal x.
func Log2(x float32) float32 {
	bits := int32(math.Float32bits(x))
	e := bits >> 23
	m := math.Float32frombits(uint32(bits&0x007fffff | 0x3f800000))

	return float32(e) - 129.213475204444817 + m*(3.148297929334117+m*(-1.098865286222744+m*0.1640425613334452))
}

// Log approximates the natural logarithm of x.
func Log(x float32) float32 {
	return 0.693147180559945 * Log2(x)
}

// Log10 approximates the base-10 logarithm of x.
func Log10(x float32) float32 {
	return 0.3010299956639811 * Log2(x)
}

// Pow2 approximates 2^x. It returns 0 for x < -126 and +Inf for x >= 128.
func Pow2(x float32) float32 {
	if x < -126 {
		return 0
	}
	if x >= 128 {
		return float32(math.Inf(1))
	}

	l := int32(x)
	if x < float32(l) {
		l--
	}

	f := x - float32(l)
	v := math.Float32frombits(uint32((l + 127) << 23))

	return v + v*f*(0.6931471805599453+f*(0.2274112777602189+f*0.07944154167983575))
}

// Pow10 approximates 10^x.
func Pow10(x float32) float32 {
	return Pow2(3.321928094887363 * x)
}

// Exp returns e^x using algo-approx, saturating to 0 and +Inf outside the
// float32 range.
func Exp(x float32) float32 {
	switch {
	case math.IsNaN(float64(x)):
		return x
	case x < expMin:
		return 0
	case x > expMax:
		return float32(math.Inf(1))
	}

	return approx.FastExp(x)
}

// DBToLinear converts a level in decibels to a linear gain factor.
func DBToLinear(db float32) float32 {
	return Exp(dbToNeper * db)
}

// LinearToDB converts a linear gain factor to decibels. Non-positive input
// returns -Inf.
func LinearToDB(x float32) float32 {
	if x <= 0 {
		return float32(math.Inf(-1))
	}

	return 20 * Log10(x)
}
