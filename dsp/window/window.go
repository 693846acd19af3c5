// Package window generates analysis windows for the offline measurement
// packages.
package window

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a window function.
type Type int

// The zero value is Hann.
const (
	TypeHann Type = iota
	TypeRectangular
	TypeBlackmanHarris4Term
	TypeFlatTop
)

var (
	hannCoeffs            = []float64{0.5, -0.5}
	blackmanHarris4Coeffs = []float64{0.35875, -0.48829, 0.14128, -0.01168}
	flatTopCoeffs         = []float64{0.21557895, -0.41663158, 0.277263158, -0.083578947, 0.006947368}
)

func (t Type) String() string {
	switch t {
	case TypeRectangular:
		return "rectangular"
	case TypeHann:
		return "hann"
	case TypeBlackmanHarris4Term:
		return "blackman-harris"
	case TypeFlatTop:
		return "flat-top"
	default:
		return "unknown"
	}
}

func (t Type) coeffs() []float64 {
	switch t {
	case TypeHann:
		return hannCoeffs
	case TypeBlackmanHarris4Term:
		return blackmanHarris4Coeffs
	case TypeFlatTop:
		return flatTopCoeffs
	default:
		return nil
	}
}

// Generate returns the periodic form of the window, as used for FFT
// framing. Unknown types give a rectangular window.
func Generate(t Type, length int) []float64 {
	if length <= 0 {
		return nil
	}

	out := make([]float64, length)
	coeffs := t.coeffs()
	for i := range out {
		if coeffs == nil {
			out[i] = 1
			continue
		}

		phase := 2 * math.Pi * float64(i) / float64(length)
		for k, c := range coeffs {
			out[i] += c * math.Cos(float64(k)*phase)
		}
	}

	return out
}

// Apply multiplies buf in place by the window.
func Apply(t Type, buf []float64) {
	if len(buf) == 0 {
		return
	}

	vecmath.MulBlockInPlace(buf, Generate(t, len(buf)))
}

// CoherentGain returns the mean of the coefficients, the factor by which
// the window scales a bin-centered sinusoid.
func CoherentGain(coeffs []float64) float64 {
	if len(coeffs) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range coeffs {
		sum += v
	}

	return sum / float64(len(coeffs))
}

// MainLobeBins returns the half-width of the main lobe in bins, the
// distance from the peak to the first zero.
func MainLobeBins(t Type) int {
	switch t {
	case TypeRectangular:
		return 1
	case TypeHann:
		return 2
	case TypeBlackmanHarris4Term:
		return 4
	case TypeFlatTop:
		return 5
	default:
		return 1
	}
}
