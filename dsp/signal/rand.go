package signal

// Rand is a 64-bit linear congruential pseudo-random generator. The zero
// value is a valid generator seeded with 0.
type Rand struct {
	state uint64
}

// NewRand returns a generator with the given seed.
func NewRand(seed uint64) Rand { return Rand{state: seed} }

// Seed resets the generator state.
func (r *Rand) Seed(seed uint64) { r.state = seed }

// State returns the raw generator state.
func (r *Rand) State() uint64 { return r.state }

// Uint32 advances the generator and returns the upper 32 bits of the state.
func (r *Rand) Uint32() uint32 {
	r.state = r.state*0x5851F42D4C957F2D + 0x14057B7EF767814F
	return uint32(r.state >> 32)
}

// Float32 returns a uniformly distributed value in [-1, 1].
func (r *Rand) Float32() float32 {
	return 2*float32(r.Uint32())*(1.0/4294967295.0) - 1
}
