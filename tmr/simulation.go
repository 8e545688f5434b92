package tmr

// Stats are the aggregate results of a run
type Stats struct {
	Trials        uint64        `json:"trials"`
	Seed          uint64        `json:"seed"`
	Reliabilities Reliabilities `json:"reliabilities"`
	ClassicOK     uint64        `json:"classic_ok"`
	MAPOK         uint64        `json:"map_ok"`
}

// Simulation owns the generator and the counters of one run
type Simulation struct {
	rand  Rand
	truth Value
	stats Stats
}

// NewSimulation creates a simulation seeded with seed
func NewSimulation(seed uint64, rs Reliabilities) (*Simulation, error) {
	if err := rs.Validate(); err != nil {
		return nil, err
	}
	return &Simulation{
		rand:  NewRand(seed),
		truth: TrueValue,
		stats: Stats{
			Seed:          seed,
			Reliabilities: rs,
		},
	}, nil
}

// Rand exposes the generator so that additional voters can share the trial stream
func (s *Simulation) Rand() Rand {
	return s.rand
}

// Sample draws the outputs of the three modules for the next trial
func (s *Simulation) Sample() Outputs {
	return SampleAll(s.rand, s.truth, s.stats.Reliabilities)
}

// Trial runs one trial and returns the module outputs along with both votes
func (s *Simulation) Trial() (Outputs, Value, Value) {
	o := s.Sample()
	classic := ClassicVote(s.rand, o)
	mapV := MAPVote(o, s.stats.Reliabilities)

	s.stats.Trials += 1
	if classic == s.truth {
		s.stats.ClassicOK += 1
	}
	if mapV == s.truth {
		s.stats.MAPOK += 1
	}
	return o, classic, mapV
}

// Stats returns a copy of the counters accumulated so far
func (s *Simulation) Stats() Stats {
	return s.stats
}

// Run executes n sequential trials and returns the success counts of both voters.
// The same (n, seed, rs) always produces the same Stats.
func Run(n, seed uint64, rs Reliabilities) (Stats, error) {
	sim, err := NewSimulation(seed, rs)
	if err != nil {
		return Stats{}, err
	}
	for i := uint64(0); i < n; i++ {
		sim.Trial()
	}
	return sim.Stats(), nil
}
