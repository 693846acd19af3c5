// Package firstorder implements zero-delay-feedback first-order lowpass,
// highpass and allpass filters sharing one smoothed coefficient set.
//
// The highpass output is x - lp and the allpass output is x - 2*lp, so the
// allpass inverts polarity at DC and passes high frequencies unchanged.
package firstorder
