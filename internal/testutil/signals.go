// Package testutil holds float32 signal generators and assertions shared by
// the package tests.
package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a sine wave starting at phase 0.
func DeterministicSine(freqHz, sampleRate float64, amplitude float32, length int) []float32 {
	out := make([]float32, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * float32(math.Sin(step*float64(i)))
	}
	return out
}

// DeterministicNoise generates uniform white noise in [-amplitude, amplitude)
// from a fixed seed.
func DeterministicNoise(seed int64, amplitude float32, length int) []float32 {
	out := make([]float32, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float32()*2 - 1) * amplitude
	}
	return out
}

// Impulse generates a unit impulse at pos.
func Impulse(length, pos int) []float32 {
	out := make([]float32, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// Step generates zeros up to pos and value from pos on.
func Step(value float32, length, pos int) []float32 {
	out := make([]float32, length)
	for i := max(pos, 0); i < length; i++ {
		out[i] = value
	}
	return out
}

// DC generates a constant signal.
func DC(value float32, length int) []float32 {
	return Step(value, length, 0)
}

// Ones returns n samples of 1.
func Ones(n int) []float32 {
	return DC(1, n)
}
