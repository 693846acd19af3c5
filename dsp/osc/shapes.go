package osc

import (
	"github.com/cwbudde/algo-rtdsp/dsp/core"
	"github.com/cwbudde/algo-rtdsp/dsp/fastmath"
)

// Sine1 returns sin(2π·phase).
func Sine1(phase float32) float32 {
	return fastmath.Sin2Pi(phase)
}

// Sine converts a phase buffer into a sine wave. y may alias x.
func Sine(x, y []float32) {
	for i, p := range x {
		y[i] = fastmath.Sin2Pi(p)
	}
}

// SineMulti applies Sine to n samples of every channel.
func SineMulti(x, y [][]float32, n int) {
	for ch := range x {
		if out := core.Channel(y, ch, n); out != nil {
			Sine(x[ch][:n], out)
		}
	}
}

// Saw shapes phase into a rising sawtooth in [-1, 1].
type Saw struct {
	antialiasing bool
}

// SetAntialiasing toggles PolyBLEP band-limiting.
func (s *Saw) SetAntialiasing(on bool) { s.antialiasing = on }

// Process1 returns the naive sawtooth for phase p.
func (s *Saw) Process1(p float32) float32 {
	return p + p - 1
}

// Process1Antialias returns the PolyBLEP sawtooth for phase p and
// increment inc.
func (s *Saw) Process1Antialias(p, inc float32) float32 {
	v := p + p - 1

	aInc := fastmath.Abs(inc)
	if aInc > 1e-6 {
		inc2 := aInc + aInc
		rcp := fastmath.Rcp(aInc)
		if oneMinus := 1 - p; oneMinus < inc2 {
			v += blepDiff(oneMinus * rcp)
		}
		if p < inc2 {
			v -= blepDiff(p * rcp)
		}
	}

	return v
}

// Process shapes one channel. xInc is only read with antialiasing on.
func (s *Saw) Process(x, xInc, y []float32) {
	if s.antialiasing {
		for i, p := range x {
			y[i] = s.Process1Antialias(p, xInc[i])
		}
		return
	}

	for i, p := range x {
		y[i] = s.Process1(p)
	}
}

// ProcessMulti shapes n samples of every channel.
func (s *Saw) ProcessMulti(x, xInc, y [][]float32, n int) {
	for ch := range x {
		out := core.Channel(y, ch, n)
		if out == nil {
			continue
		}
		s.Process(x[ch][:n], core.Channel(xInc, ch, n), out)
	}
}
