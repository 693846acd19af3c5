// Package thd measures the harmonic distortion of a processing unit from
// the spectrum of its response to a bin-centered sine.
package thd

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-rtdsp/dsp/window"
	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

const defaultFFTSize = 8192

var (
	// ErrInvalidConfig is returned for a config no frame can be analyzed
	// with.
	ErrInvalidConfig = errors.New("thd: invalid config")
	// ErrShortFrame is returned by Analyze for a frame shorter than the FFT
	// size.
	ErrShortFrame = errors.New("thd: frame shorter than FFT size")
)

// Config holds the measurement parameters.
//
// FFTSize defaults to 8192 and is rounded up to a power of two.
// FundamentalFreq is moved to the nearest bin center, so the fundamental
// and all its harmonics fall on bins and need no leakage correction.
// MaxHarmonics limits the harmonics counted as distortion; zero counts all
// of them up to Nyquist.
type Config struct {
	SampleRate      float64
	FFTSize         int
	FundamentalFreq float64
	MaxHarmonics    int
	WindowType      window.Type
}

// Result holds one measurement. Distortion figures are amplitude ratios to
// the fundamental, summed in power. Harmonics[i] is the ratio of harmonic
// i+2.
//
//nolint:revive
type Result struct {
	FundamentalFreq  float64
	FundamentalLevel float64
	THD              float64
	THDN             float64
	THD_dB           float64
	THDN_dB          float64
	OddHD            float64
	EvenHD           float64
	Noise            float64
	Harmonics        []float64
	SINAD            float64
}

// Analyzer measures frames of a fixed size. It owns its FFT plan and work
// buffers and is not safe for concurrent use.
type Analyzer struct {
	cfg     Config
	bin     int
	capture int
	// energy converts lobe power to squared peak amplitude.
	energy float64

	plan *algofft.Plan[complex128]
	win  []float64

	frame []float64
	in    []complex128
	out   []complex128
	re    []float64
	im    []float64
	power []float64
}

// NewAnalyzer validates cfg and prepares an analyzer for it.
func NewAnalyzer(cfg Config) (*Analyzer, error) {
	if cfg.SampleRate <= 0 || math.IsInf(cfg.SampleRate, 0) || math.IsNaN(cfg.SampleRate) {
		return nil, fmt.Errorf("%w: sample rate %v", ErrInvalidConfig, cfg.SampleRate)
	}

	if cfg.FFTSize <= 0 {
		cfg.FFTSize = defaultFFTSize
	}

	cfg.FFTSize = nextPowerOf2(cfg.FFTSize)

	cfg.MaxHarmonics = max(cfg.MaxHarmonics, 0)

	binHz := cfg.SampleRate / float64(cfg.FFTSize)
	capture := window.MainLobeBins(cfg.WindowType)

	// The fundamental's lobe must clear the DC lobe and the lobe of the
	// second harmonic.
	bin := math.Round(cfg.FundamentalFreq / binHz)
	if math.IsNaN(bin) || bin <= float64(2*capture) || bin >= float64(cfg.FFTSize/2) {
		return nil, fmt.Errorf("%w: fundamental %v Hz", ErrInvalidConfig, cfg.FundamentalFreq)
	}

	cfg.FundamentalFreq = bin * binHz

	plan, err := algofft.NewPlan64(cfg.FFTSize)
	if err != nil {
		return nil, fmt.Errorf("thd: fft plan: %w", err)
	}

	win := window.Generate(cfg.WindowType, cfg.FFTSize)

	sumSq := 0.0
	for _, w := range win {
		sumSq += w * w
	}

	bins := cfg.FFTSize/2 + 1

	return &Analyzer{
		cfg:     cfg,
		bin:     int(bin),
		capture: capture,
		energy:  float64(cfg.FFTSize) * sumSq / 4,
		plan:    plan,
		win:     win,
		frame:   make([]float64, cfg.FFTSize),
		in:      make([]complex128, cfg.FFTSize),
		out:     make([]complex128, cfg.FFTSize),
		re:      make([]float64, bins),
		im:      make([]float64, bins),
		power:   make([]float64, bins),
	}, nil
}

// Config returns the effective config, with the FFT size rounded and the
// fundamental moved to its bin.
func (a *Analyzer) Config() Config { return a.cfg }

// Analyze measures the first FFTSize samples of x.
func (a *Analyzer) Analyze(x []float32) (Result, error) {
	if len(x) < a.cfg.FFTSize {
		return Result{}, fmt.Errorf("%w: %d < %d", ErrShortFrame, len(x), a.cfg.FFTSize)
	}

	for i := range a.frame {
		a.frame[i] = float64(x[i])
	}

	vecmath.MulBlock(a.frame, a.frame, a.win)

	for i, v := range a.frame {
		a.in[i] = complex(v, 0)
	}

	err := a.plan.Forward(a.out, a.in)
	if err != nil {
		return Result{}, fmt.Errorf("thd: fft: %w", err)
	}

	for i := range a.re {
		a.re[i] = real(a.out[i])
		a.im[i] = imag(a.out[i])
	}

	vecmath.Power(a.power, a.re, a.im)

	return a.evaluate(), nil
}

// evaluate reads the measurement from the power spectrum. Each tone's power
// is the sum over its main lobe; DC and its lobe are left out of the noise.
func (a *Analyzer) evaluate() Result {
	res := Result{FundamentalFreq: a.cfg.FundamentalFreq}

	fund := a.lobePower(a.bin)
	if fund <= 0 {
		return res
	}

	nyquist := len(a.power) - 1

	var odd, even float64

	for k := 2; k*a.bin <= nyquist; k++ {
		if a.cfg.MaxHarmonics > 0 && k-1 > a.cfg.MaxHarmonics {
			break
		}

		p := a.lobePower(k * a.bin)
		if k%2 == 0 {
			even += p
		} else {
			odd += p
		}

		res.Harmonics = append(res.Harmonics, math.Sqrt(p/fund))
	}

	total := 0.0
	for _, p := range a.power[a.capture+1:] {
		total += p
	}

	rest := max(total-fund, 0)
	noise := max(rest-odd-even, 0)

	res.FundamentalLevel = math.Sqrt(fund / a.energy)
	res.THD = math.Sqrt((odd + even) / fund)
	res.THDN = math.Sqrt(rest / fund)
	res.OddHD = math.Sqrt(odd / fund)
	res.EvenHD = math.Sqrt(even / fund)
	res.Noise = math.Sqrt(noise / fund)
	res.THD_dB = ratioToDB(res.THD)
	res.THDN_dB = ratioToDB(res.THDN)
	res.SINAD = -res.THDN_dB

	return res
}

func (a *Analyzer) lobePower(bin int) float64 {
	lo := max(bin-a.capture, 0)
	hi := min(bin+a.capture, len(a.power)-1)

	sum := 0.0
	for _, p := range a.power[lo : hi+1] {
		sum += p
	}

	return sum
}

func ratioToDB(v float64) float64 {
	if v <= 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(v)
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
