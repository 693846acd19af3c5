// Package smooth provides the parameter smoothers used throughout the
// module: a one-pole lowpass with optional asymmetric rise/fall and "sticky"
// snapping, and a slew-rate limiter.
//
// Both follow the layout of every processing unit here. Coeffs carry the
// sample-rate dependent constants and the parameter targets and can be shared
// by any number of channels. State carries one channel's memory. The
// multi-channel types OnePole and SlewLim bundle the two for direct use.
package smooth
