// Package modulation provides real-time modulation effects assembled from
// the unit packages.
//
// Included processors:
//   - Wah: Resonant band-pass with a cubic pedal taper.
//   - AutoWah: Envelope follower driving a Wah.
//   - Chorus: Phase generator sweeping the feedforward delay of a comb.
//   - Flanger: Chorus preset with a short delay and feedback.
//   - Phaser: Four first-order allpass stages swept by a phase generator.
//   - RingMod: Carrier multiply with a smoothed bipolar amount.
//   - Tremolo: Phase generator driving a RingMod with a unipolar carrier.
//
// Every processor follows the coefficients/state split of the unit
// packages: a Coeffs value shared by all channels and one State per
// channel, plus a multi-channel wrapper with planar Process.
package modulation
