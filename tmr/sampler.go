package tmr

// Sample draws one module output. With probability reliability the module
// reports truth, otherwise it reports one of the other ValueSpace-1 values uniformly.
//
// Exactly one Float64 draw is consumed, plus one Intn draw on the error branch.
func Sample(r Rand, truth Value, reliability float64) Value {
	if r.Float64() < reliability {
		return truth
	}
	x := Value(r.Intn(ValueSpace - 1))
	if x >= truth {
		x += 1
	}
	return x
}

// SampleAll draws the outputs of all modules in index order
func SampleAll(r Rand, truth Value, rs Reliabilities) Outputs {
	var o Outputs
	for i := 0; i < Modules; i++ {
		o[i] = Sample(r, truth, rs[i])
	}
	return o
}
