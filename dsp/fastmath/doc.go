// Package fastmath provides the float32 math kernels used on the real-time
// path of every processing unit.
//
// The functions trade accuracy for speed and branch-free evaluation. Error
// bounds, measured over the documented input ranges:
//
//	Rcp        relative error < 0.0013%
//	Sin2Pi     absolute error < 0.011 or relative error < 1.7%
//	Tan        absolute error < 0.06 or relative error < 0.8%
//	Log2       absolute error < 0.0055
//	Pow2       relative error < 0.062%
//	Tanh       absolute error < 0.035
//
// Exp and the decibel helpers delegate to algo-approx. Coefficient code
// calls these freely; none of them allocate.
package fastmath
