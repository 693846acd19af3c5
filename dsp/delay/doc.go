// Package delay provides a fractional delay line with linear interpolation.
//
// Coeffs and State follow the same split as every other unit: Coeffs holds
// the buffer length and the integer/fraction split of the delay time, State
// holds one channel's circular buffer and write index. Comb filters and
// modulation effects drive Coeffs and State directly through Read and Write.
//
// The multi-channel Delay either owns its buffers or carves them from a
// caller-supplied arena (see WithArena). Memory is only touched in
// SetSampleRate and Release; Process never allocates.
package delay
