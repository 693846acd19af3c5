package osc

// blepDiff is the difference between the integrated 4th-order B-spline
// step and the naive step, for x = distance to the discontinuity in
// samples, valid on [0, 2).
func blepDiff(x float32) float32 {
	if x < 1 {
		return x*((0.25*x-0.6666666666666666)*x*x+1.333333333333333) - 1
	}

	return x*(x*((0.6666666666666666-0.08333333333333333*x)*x-2)+2.666666666666667) - 1.333333333333333
}

// blampDiff is the ramp counterpart of blepDiff.
func blampDiff(x float32) float32 {
	if x < 1 {
		return x*(x*((0.05*x-0.1666666666666667)*x*x+0.6666666666666666)-1) + 0.4666666666666667
	}

	return x*(x*(x*((0.1666666666666667-0.01666666666666667*x)*x-0.6666666666666666)+1.333333333333333)-1.333333333333333) + 0.5333333333333333
}
