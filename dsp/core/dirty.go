package core

// Dirty records which parameters of a coefficient set changed since the last
// recomputation. Each unit defines its own bit constants.
type Dirty uint32

// DirtyAll marks every parameter as changed. Units start in this state so
// the first update computes everything.
const DirtyAll Dirty = ^Dirty(0)

// Set marks the given bits.
func (d *Dirty) Set(bits Dirty) { *d |= bits }

// Has reports whether any of the given bits is set.
func (d Dirty) Has(bits Dirty) bool { return d&bits != 0 }

// Any reports whether anything is pending.
func (d Dirty) Any() bool { return d != 0 }

// Clear resets all bits.
func (d *Dirty) Clear() { *d = 0 }
