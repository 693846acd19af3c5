// Package effects provides distortion, comb and lo-fi kernels.
//
// Subpackages:
//   - github.com/cwbudde/algo-rtdsp/dsp/effects/modulation
//
// Effects in this package:
//   - Comb: feedforward/feedback comb with smoothed gains and delays.
//   - Clip and Satur: hard clipper and tanh saturator with antiderivative
//     antialiasing, bias and gain.
//   - BitDepthReducer: quantization with optional silence-DC and gate.
//   - SampleRateReducer: zero-order hold decimation.
//   - BitCrusher: the two reducers plus a dry/wet mix.
//
// All effects follow the Coeffs/State split, keep zero-allocation hot paths
// and support both single-sample and block processing.
package effects
