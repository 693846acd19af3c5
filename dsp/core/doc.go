// Package core holds the pieces every processing unit in this module shares:
// processor configuration options, sample-rate validation, the dirty-bit set
// used for lazy coefficient recomputation, and small float32 buffer helpers.
package core
