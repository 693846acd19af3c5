// Package svf implements a zero-delay-feedback state-variable filter with
// simultaneous lowpass, bandpass and highpass outputs.
//
// Cutoff, Q and the prewarp frequency are smoothed per sample (tau 5 ms).
// Cutoff and prewarp snap to their targets in relative terms and Q in
// absolute terms, so coefficient recomputation stops once the values have
// settled. With prewarping at cutoff enabled (the default) the analog
// response is matched exactly at the cutoff frequency.
//
// Coeffs and State can be used directly for custom multi-channel layouts;
// Filter bundles them for a fixed channel count.
package svf
