package core

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
func EnsureLen(buf []float32, n int) []float32 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float32, n)
}

// Zero sets all values in buf to 0.
func Zero(buf []float32) {
	for i := range buf {
		buf[i] = 0
	}
}

// Fill sets all values in buf to v.
func Fill(buf []float32, v float32) {
	for i := range buf {
		buf[i] = v
	}
}

// CopyInto copies src into dst and returns the number of copied elements.
func CopyInto(dst, src []float32) int {
	n := min(len(dst), len(src))
	copy(dst[:n], src[:n])
	return n
}

// Channel returns bufs[ch][:n], or nil when bufs is nil or the channel is
// missing. Units use it to treat optional outputs uniformly.
func Channel(bufs [][]float32, ch, n int) []float32 {
	if ch >= len(bufs) || bufs[ch] == nil {
		return nil
	}
	return bufs[ch][:n]
}

// Planar allocates channels buffers of n samples each, backed by one slice.
func Planar(channels, n int) [][]float32 {
	backing := make([]float32, channels*n)
	out := make([][]float32, channels)
	for ch := range out {
		out[ch] = backing[ch*n : (ch+1)*n : (ch+1)*n]
	}
	return out
}
