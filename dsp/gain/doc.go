// Package gain provides smoothed gain and dry/wet mixing.
//
// Both units keep a single smoothed value in their coefficients, so they
// have no per-channel state: every channel is scaled by the same ramp.
package gain
