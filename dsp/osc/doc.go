// Package osc provides a phase generator and the waveshapers that turn its
// phase and increment streams into sine, sawtooth, pulse and triangle
// waveforms.
//
// PhaseGen produces a phase in [0, 1) and the per-sample increment. The
// shapers read both: the increment drives the optional polynomial
// band-limiting (PolyBLEP for saw and pulse, PolyBLAMP for triangle) that
// suppresses aliasing near the discontinuities.
package osc
