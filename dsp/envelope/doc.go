// Package envelope provides an envelope follower and a linear ADSR envelope
// generator.
//
// Follower rectifies its input and smooths it with an asymmetric one-pole,
// so attack and release times are independent.
//
// Generator produces a 0..1 control signal from a gate. Its level is kept as
// an unsigned 32-bit integer so that each stage ends exactly on its target
// and overflow or underflow of the counter is detected instead of producing
// a glitch. The sustain level glides through a one-pole while it is held.
package envelope
