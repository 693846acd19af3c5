package unit

import "slices"

// blockLen bounds the scratch buffers of generator-driven adapters.
// Longer blocks are processed in pieces.
const blockLen = 64

// adapter binds a concrete unit to the Unit interface. The function fields
// are called once per block, never per sample.
type adapter struct {
	info   Info
	values []float32

	apply         func(index int, value float32)
	meter         func(index int) float32
	setSampleRate func(sampleRate float64) error
	reset         func(x0 float32)
	process       func(x, y [][]float32, n int)
}

// newAdapter applies every default so the unit starts in the state its
// parameter table advertises.
func newAdapter(a *adapter) *adapter {
	a.values = make([]float32, len(a.info.Params))
	for i, p := range a.info.Params {
		if p.Output {
			continue
		}
		a.values[i] = p.Default
		a.apply(i, p.Default)
	}

	return a
}

func (a *adapter) Info() Info {
	info := a.info
	info.Params = slices.Clone(a.info.Params)

	return info
}

func (a *adapter) SetSampleRate(sampleRate float64) error { return a.setSampleRate(sampleRate) }

func (a *adapter) Reset(x0 float32) { a.reset(x0) }

func (a *adapter) Process(x, y [][]float32, n int) { a.process(x, y, n) }

func (a *adapter) SetParameter(index int, value float32) {
	if index < 0 || index >= len(a.info.Params) {
		return
	}

	p := a.info.Params[index]
	if p.Output {
		return
	}

	v, ok := p.Clamp(value)
	if !ok {
		return
	}
	a.values[index] = v
	a.apply(index, v)
}

func (a *adapter) Parameter(index int) float32 {
	if index < 0 || index >= len(a.info.Params) {
		return 0
	}
	if a.info.Params[index].Output {
		return a.meter(index)
	}

	return a.values[index]
}

func param(name, unit string, lo, hi, def float32) ParamInfo {
	return ParamInfo{Name: name, Unit: unit, Min: lo, Max: hi, Default: def}
}

func intParam(name string, lo, hi, def float32) ParamInfo {
	return ParamInfo{Name: name, Min: lo, Max: hi, Default: def, Kind: Integer}
}

func toggle(name string, def bool) ParamInfo {
	p := ParamInfo{Name: name, Max: 1, Kind: Toggle}
	if def {
		p.Default = 1
	}

	return p
}

func meter(name, unit string, lo, hi float32) ParamInfo {
	return ParamInfo{Name: name, Unit: unit, Min: lo, Max: hi, Output: true}
}

func on(v float32) bool { return v >= 0.5 }

// window points dst at samples [off, off+m) of src. Missing or nil
// channels stay nil.
func window(dst, src [][]float32, off, m int) [][]float32 {
	for ch := range dst {
		if ch < len(src) && src[ch] != nil {
			dst[ch] = src[ch][off : off+m]
		} else {
			dst[ch] = nil
		}
	}

	return dst
}

func scratch(channels int) [][]float32 {
	buf := make([][]float32, channels)
	for ch := range buf {
		buf[ch] = make([]float32, blockLen)
	}

	return buf
}

