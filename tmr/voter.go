package tmr

import "math"

// ClassicVote returns the majority value of the outputs. When all three
// differ one of them is picked uniformly at random; that is the only case
// in which r is used.
func ClassicVote(r Rand, o Outputs) Value {
	a, b, c := o[0], o[1], o[2]
	if a == b || a == c {
		return a
	}
	if b == c {
		return b
	}
	return o[r.Intn(Modules)]
}

// LogLikelihood is the natural log probability of observing o when v is the
// true value, assuming every wrong module reports the other values uniformly.
func LogLikelihood(v Value, o Outputs, rs Reliabilities) float64 {
	logp := 0.0
	for i := 0; i < Modules; i++ {
		if o[i] == v {
			logp += math.Log(rs[i])
		} else {
			logp += math.Log((1 - rs[i]) / float64(ValueSpace-1))
		}
	}
	return logp
}

// MAPVote returns the output value with the highest likelihood of being the
// true value. Candidates are visited in module order and only a strictly
// greater likelihood replaces the current best, so ties go to the lowest index.
func MAPVote(o Outputs, rs Reliabilities) Value {
	best := o[0]
	bestLogp := math.Inf(-1)
	for _, v := range o {
		logp := LogLikelihood(v, o, rs)
		if logp > bestLogp {
			bestLogp = logp
			best = v
		}
	}
	return best
}
