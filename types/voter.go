package types

import "github.com/zeu5/tmr-voting/tmr"

// Voter combines the outputs of the redundant modules into a single value
type Voter interface {
	Name() string
	// Vote may draw from the shared generator; the draws are part of the trial stream
	Vote(tmr.Rand, tmr.Outputs) tmr.Value
}

// ClassicVoter is the plain majority voter with a random tie-break
type ClassicVoter struct{}

var _ Voter = ClassicVoter{}

func NewClassicVoter() ClassicVoter {
	return ClassicVoter{}
}

func (ClassicVoter) Name() string {
	return "Classic"
}

func (ClassicVoter) Vote(r tmr.Rand, o tmr.Outputs) tmr.Value {
	return tmr.ClassicVote(r, o)
}

// MAPVoter picks the most likely true value given the module reliabilities.
// It never draws from the generator.
type MAPVoter struct {
	Reliabilities tmr.Reliabilities
}

var _ Voter = &MAPVoter{}

func NewMAPVoter(rs tmr.Reliabilities) *MAPVoter {
	return &MAPVoter{Reliabilities: rs}
}

func (m *MAPVoter) Name() string {
	return "MAP"
}

func (m *MAPVoter) Vote(_ tmr.Rand, o tmr.Outputs) tmr.Value {
	return tmr.MAPVote(o, m.Reliabilities)
}
