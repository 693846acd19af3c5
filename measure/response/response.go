package response

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-rtdsp/dsp/core"
	"github.com/cwbudde/algo-rtdsp/dsp/signal"
	"github.com/cwbudde/algo-rtdsp/dsp/unit"
	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

const defaultLength = 8192

// ErrInvalidLength is returned for an impulse response length below two.
var ErrInvalidLength = errors.New("response: invalid length")

// Response is the spectrum of an impulse response. Bin k lies at
// k*SampleRate/FFTSize Hz; only bins up to Nyquist are kept.
type Response struct {
	SampleRate float64
	FFTSize    int
	Magnitude  []float64
	Phase      []float64
}

// Impulse resets u at the given sample rate and returns n samples of its
// response to a unit impulse on every channel, taken from channel ch.
func Impulse(u unit.Unit, sampleRate float64, n, ch int) ([]float32, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, n)
	}

	channels := u.Info().Channels
	if ch < 0 || ch >= channels {
		return nil, fmt.Errorf("response: channel %d out of range [0, %d)", ch, channels)
	}

	err := u.SetSampleRate(sampleRate)
	if err != nil {
		return nil, err
	}

	u.Reset(0)

	x, err := signal.NewGenerator(core.WithSampleRate(sampleRate)).Impulse(1, n, 0)
	if err != nil {
		return nil, err
	}

	in := make([][]float32, channels)
	for i := range in {
		in[i] = x
	}

	out := make([][]float32, channels)
	out[ch] = make([]float32, n)

	u.Process(in, out, n)

	return out[ch], nil
}

// Analyze transforms an impulse response. The FFT size is the next power
// of two at or above len(ir); the response is zero-padded.
func Analyze(ir []float32, sampleRate float64) (Response, error) {
	if len(ir) < 2 {
		return Response{}, fmt.Errorf("%w: %d", ErrInvalidLength, len(ir))
	}

	err := core.ValidateSampleRate(sampleRate)
	if err != nil {
		return Response{}, err
	}

	size := nextPowerOf2(len(ir))

	in := make([]complex128, size)
	for i, v := range ir {
		in[i] = complex(float64(v), 0)
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return Response{}, fmt.Errorf("response: fft plan: %w", err)
	}

	spectrum := make([]complex128, size)

	err = plan.Forward(spectrum, in)
	if err != nil {
		return Response{}, fmt.Errorf("response: fft: %w", err)
	}

	bins := size/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)
	phase := make([]float64, bins)

	for k := range bins {
		re[k] = real(spectrum[k])
		im[k] = imag(spectrum[k])
		phase[k] = math.Atan2(im[k], re[k])
	}

	mag := make([]float64, bins)
	vecmath.Magnitude(mag, re, im)

	return Response{SampleRate: sampleRate, FFTSize: size, Magnitude: mag, Phase: phase}, nil
}

// Measure captures and analyzes the impulse response of channel 0. n
// defaults to 8192 samples when not positive; it must cover the unit's
// decay for the result to be accurate.
func Measure(u unit.Unit, sampleRate float64, n int) (Response, error) {
	if n <= 0 {
		n = defaultLength
	}

	ir, err := Impulse(u, sampleRate, n, 0)
	if err != nil {
		return Response{}, err
	}

	return Analyze(ir, sampleRate)
}

// BinFreq returns the frequency of bin k in Hz.
func (r Response) BinFreq(k int) float64 {
	return float64(k) * r.SampleRate / float64(r.FFTSize)
}

// At returns the magnitude at freq, linearly interpolated between bins.
// Frequencies outside [0, Nyquist] are clamped.
func (r Response) At(freq float64) float64 {
	if len(r.Magnitude) == 0 {
		return 0
	}

	pos := freq * float64(r.FFTSize) / r.SampleRate
	last := len(r.Magnitude) - 1

	switch {
	case pos <= 0:
		return r.Magnitude[0]
	case pos >= float64(last):
		return r.Magnitude[last]
	}

	k := int(pos)
	frac := pos - float64(k)

	return r.Magnitude[k] + frac*(r.Magnitude[k+1]-r.Magnitude[k])
}

// DB returns the magnitude at freq in decibels.
func (r Response) DB(freq float64) float64 {
	m := r.At(freq)
	if m <= 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(m)
}

// Peak returns the frequency and magnitude of the largest bin in
// [lo, hi] Hz.
func (r Response) Peak(lo, hi float64) (freq, magnitude float64) {
	best := -1
	for k, m := range r.Magnitude {
		f := r.BinFreq(k)
		if f < lo || f > hi {
			continue
		}

		if best < 0 || m > r.Magnitude[best] {
			best = k
		}
	}

	if best < 0 {
		return 0, 0
	}

	return r.BinFreq(best), r.Magnitude[best]
}

// Minimum returns the frequency and magnitude of the smallest bin in
// [lo, hi] Hz.
func (r Response) Minimum(lo, hi float64) (freq, magnitude float64) {
	best := -1
	for k, m := range r.Magnitude {
		f := r.BinFreq(k)
		if f < lo || f > hi {
			continue
		}

		if best < 0 || m < r.Magnitude[best] {
			best = k
		}
	}

	if best < 0 {
		return 0, 0
	}

	return r.BinFreq(best), r.Magnitude[best]
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
