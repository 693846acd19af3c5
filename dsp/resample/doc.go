// Package resample converts between sample rates.
//
// Integer is the real-time converter: a 4th-order Butterworth low-pass with
// its cutoff at the lower of the two Nyquist frequencies, run in direct
// form II while decimating and in transposed direct form II while
// interpolating. It keeps the Coeffs/State split of the other units, never
// allocates in Process and reports how many output samples it produced.
//
// Offline converts whole buffers between arbitrary rates with a
// high-quality polyphase resampler. It allocates and is meant for preparing
// material and for analysis, not for the audio thread.
package resample
