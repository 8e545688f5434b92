package tmr

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/exp/rand"
)

const (
	// TrueValue is the value every module is trying to report
	TrueValue Value = 27
	// ValueSpace is the number of representable outputs (6 bits)
	ValueSpace = 64
	// Modules is the redundancy factor
	Modules = 3
)

// ErrInvalidReliability is returned when a reliability lies outside [0, 1]
var ErrInvalidReliability = errors.New("invalid reliability")

// Value is a single module output in [0, ValueSpace)
type Value int

// Outputs is the ordered triple of module outputs for one trial
type Outputs [Modules]Value

// Reliabilities holds the probability that module i reports the true value
type Reliabilities [Modules]float64

// DefaultReliabilities are the reliabilities used when nothing else is configured
var DefaultReliabilities = Reliabilities{0.9, 0.5, 0.2}

// Validate checks every reliability is a probability
func (r Reliabilities) Validate() error {
	for i, ri := range r {
		if math.IsNaN(ri) || ri < 0 || ri > 1 {
			return fmt.Errorf("module %d: %v: %w", i, ri, ErrInvalidReliability)
		}
	}
	return nil
}

func (r Reliabilities) String() string {
	return fmt.Sprintf("(%.1f, %.1f, %.1f)", r[0], r[1], r[2])
}

// Rand is the subset of a pseudo random generator used by the sampler and the classic voter
type Rand interface {
	Float64() float64
	Intn(int) int
}

var _ Rand = &rand.Rand{}

// NewRand returns a deterministic generator for the seed
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
