// Package signal provides noise sources and deterministic test signals.
//
// Rand is a 64-bit linear congruential generator: cheap, allocation-free
// and fully reproducible from its seed. NoiseGen wraps it as a
// multi-channel white noise unit with optional sample-rate scaling, which
// keeps the perceived loudness of band-limited noise constant across
// rates. Generator builds offline test material (sine, noise, impulse) for
// measurements and tests.
package signal
