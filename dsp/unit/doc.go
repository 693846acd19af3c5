// Package unit exposes every processing unit through one interface.
//
// A Unit describes itself with Info (name, channel count and a parameter
// table), takes parameter values by index and processes planar float32
// blocks. Hosts, the effect chain and the unitinfo tool drive units only
// through this surface; the concrete packages stay free of host concerns.
//
// Parameters are clamped to their ParamInfo range and NaN is ignored, so a
// Unit accepts any host value. Output parameters are read-only meters
// (envelope level, current wah position) reported through Parameter.
//
// Registry maps type names to factories. DefaultRegistry holds all
// built-in units.
package unit
