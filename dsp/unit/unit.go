package unit

import (
	"math"
	"slices"
)

// ParamKind tells hosts how to present and quantize a parameter.
type ParamKind int

const (
	// Continuous parameters take any value in range.
	Continuous ParamKind = iota
	// Integer parameters are rounded to the nearest integer.
	Integer
	// Toggle parameters are 0 or 1.
	Toggle
)

func (k ParamKind) String() string {
	switch k {
	case Continuous:
		return "continuous"
	case Integer:
		return "integer"
	case Toggle:
		return "toggle"
	default:
		return "unknown"
	}
}

// ParamInfo describes one parameter.
type ParamInfo struct {
	Name    string
	Unit    string
	Min     float32
	Max     float32
	Default float32
	Kind    ParamKind
	// Output marks a read-only meter.
	Output bool
}

// Clamp maps v into the parameter's range and quantizes it for Integer and
// Toggle kinds. It reports false for NaN.
func (p ParamInfo) Clamp(v float32) (float32, bool) {
	if math.IsNaN(float64(v)) {
		return 0, false
	}

	v = min(max(v, p.Min), p.Max)
	switch p.Kind {
	case Integer:
		v = float32(math.Round(float64(v)))
	case Toggle:
		if v >= 0.5 {
			v = 1
		} else {
			v = 0
		}
	}

	return v, true
}

// Info describes a unit instance.
type Info struct {
	Name        string
	Description string
	Channels    int
	Params      []ParamInfo
}

// ParamIndex returns the index of the named parameter, or -1.
func (i Info) ParamIndex(name string) int {
	return slices.IndexFunc(i.Params, func(p ParamInfo) bool { return p.Name == name })
}

// Unit is the uniform surface of a processing unit.
//
// SetSampleRate must precede Reset, and Reset must precede the first
// Process. Process never allocates; any y[ch] may be nil.
type Unit interface {
	Info() Info
	SetSampleRate(sampleRate float64) error
	Reset(x0 float32)
	SetParameter(index int, value float32)
	Parameter(index int) float32
	Process(x, y [][]float32, n int)
}
