package types

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"

	"github.com/zeu5/tmr-voting/tmr"
)

// Experiment is one voter under test
type Experiment struct {
	Name  string
	voter Voter
}

// NewExperiment creates a new experiment instance
func NewExperiment(name string, voter Voter) *Experiment {
	return &Experiment{
		Name:  name,
		voter: voter,
	}
}

// Generic Dataset that contains information after processing the trials
type DataSet interface{}

// Analyzer compresses the information in the trials to a DataSet
type Analyzer interface {
	// trial index, module outputs, the vote of every experiment in order
	Analyze(int, tmr.Outputs, []tmr.Value)
	// Resulting dataset
	DataSet() DataSet
	// Reset the analyzer
	Reset()
}

// Comparator differentiates between datasets
// experiment names, dataset
type Comparator func([]string, DataSet) error

// ComparisonConfig contains the configuration for the comparison
type ComparisonConfig struct {
	Trials        uint64
	Seed          uint64
	Reliabilities tmr.Reliabilities

	RecordPath string // path to store the results, nothing is recorded when empty
}

// Results of a comparison, indexed like the experiments
type Results struct {
	Trials    uint64
	Names     []string
	Successes []uint64
}

// SuccessesOf returns the number of trials the named experiment recovered the true value
func (r *Results) SuccessesOf(name string) uint64 {
	for i, n := range r.Names {
		if n == name {
			return r.Successes[i]
		}
	}
	return 0
}

// Comparison feeds every experiment the same module outputs and counts how
// often each recovers the true value. Experiments vote in the order they were
// added and share one generator, so the order is part of the result.
type Comparison struct {
	Experiments []*Experiment
	analyzers   map[string]Analyzer
	comparators map[string]Comparator
	order       []string
	cConfig     *ComparisonConfig
}

// NewComparison creates a comparison instance
func NewComparison(config *ComparisonConfig) *Comparison {
	return &Comparison{
		Experiments: make([]*Experiment, 0),
		analyzers:   make(map[string]Analyzer),
		comparators: make(map[string]Comparator),
		order:       make([]string, 0),
		cConfig:     config,
	}
}

// AddAnalysis adds an analyzer and comparator to the comparison
func (c *Comparison) AddAnalysis(name string, analyzer Analyzer, comparator Comparator) {
	if _, ok := c.analyzers[name]; !ok {
		c.order = append(c.order, name)
	}
	c.analyzers[name] = analyzer
	c.comparators[name] = comparator
}

// Add experiments to compare
func (c *Comparison) AddExperiment(e *Experiment) {
	c.Experiments = append(c.Experiments, e)
}

// Run the comparison
func (c *Comparison) Run(ctx context.Context) (*Results, error) {
	cfg := c.cConfig
	if cfg.RecordPath != "" {
		if err := c.recordConfig(); err != nil {
			return nil, err
		}
	}

	sim, err := tmr.NewSimulation(cfg.Seed, cfg.Reliabilities)
	if err != nil {
		return nil, err
	}
	rand := sim.Rand()

	names := make([]string, len(c.Experiments))
	for i, e := range c.Experiments {
		names[i] = e.Name
	}
	results := &Results{
		Names:     names,
		Successes: make([]uint64, len(c.Experiments)),
	}

	votes := make([]tmr.Value, len(c.Experiments))
	for trial := uint64(0); trial < cfg.Trials; trial++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		outputs := sim.Sample()
		for i, e := range c.Experiments {
			votes[i] = e.voter.Vote(rand, outputs)
			if votes[i] == tmr.TrueValue {
				results.Successes[i] += 1
			}
		}
		for _, name := range c.order {
			c.analyzers[name].Analyze(int(trial), outputs, votes)
		}
		results.Trials += 1
	}

	for _, name := range c.order {
		if err := c.comparators[name](names, c.analyzers[name].DataSet()); err != nil {
			return results, fmt.Errorf("comparator %s: %w", name, err)
		}
		c.analyzers[name].Reset()
	}
	return results, nil
}

// record the configuration of the comparison
func (c *Comparison) recordConfig() error {
	cfg := c.cConfig
	if err := os.MkdirAll(cfg.RecordPath, 0777); err != nil {
		return fmt.Errorf("creating record path: %w", err)
	}

	out := make(map[string]interface{})
	out["trials"] = cfg.Trials
	out["seed"] = cfg.Seed
	out["reliabilities"] = cfg.Reliabilities
	out["true_value"] = tmr.TrueValue

	experiments := make([]string, 0)
	for _, e := range c.Experiments {
		experiments = append(experiments, e.Name)
	}
	out["experiments"] = experiments
	out["analyzers"] = c.order

	bs, err := json.Marshal(out)
	if err != nil {
		return err
	}
	return os.WriteFile(path.Join(cfg.RecordPath, "comparison_config.json"), bs, 0644)
}
