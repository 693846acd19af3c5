// Package response measures the linear frequency response of a unit.
//
// Measure drives a unit with a unit impulse and transforms the captured
// impulse response with an FFT. The result reports magnitude and phase per
// bin and interpolates magnitude at arbitrary frequencies, which is how the
// filter packages' tests and the unitinfo tool check cutoff, resonance and
// notch positions.
//
// Only linear, time-invariant settings give meaningful results: modulation
// effects must be measured with their rate or depth at zero.
package response
