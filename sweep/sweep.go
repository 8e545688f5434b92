// Package sweep repeats the voter comparison over a range of seeds and tests
// whether the MAP voter recovers the true value more often than the classic one.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"path"
	"sync"

	"github.com/google/uuid"
	"github.com/gosuri/uilive"
	"github.com/zeu5/tmr-voting/tmr"
	"github.com/zeu5/tmr-voting/util"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrNoSeeds is returned when the sweep has nothing to run
var ErrNoSeeds = errors.New("sweep needs at least one seed")

// Config of a sweep. Seeds FirstSeed, FirstSeed+1, ... are each run for Trials trials.
type Config struct {
	Trials        uint64
	FirstSeed     uint64
	Seeds         int
	Reliabilities tmr.Reliabilities

	// Parallel is the number of seeds run at once. Every seed owns its generator
	// so the results do not depend on it.
	Parallel int

	RecordPath string    // jsonl records are appended here when set
	PlotPath   string    // per seed plot is saved here when set
	Progress   io.Writer // live progress line, disabled when nil
}

// SeedRecord is one line of sweep.jsonl
type SeedRecord struct {
	RunID string `json:"run_id"`
	tmr.Stats
}

// Summary aggregates the paired per seed results
type Summary struct {
	RunID         string            `json:"run_id"`
	Seeds         int               `json:"seeds"`
	FirstSeed     uint64            `json:"first_seed"`
	Trials        uint64            `json:"trials"`
	Reliabilities tmr.Reliabilities `json:"reliabilities"`

	MeanClassic float64 `json:"mean_classic_ok"`
	MeanMAP     float64 `json:"mean_map_ok"`
	MeanDiff    float64 `json:"mean_diff"`
	StdDevDiff  float64 `json:"stddev_diff"`
	// fraction of seeds where MAP did at least as well as classic
	MAPAtLeastClassic float64 `json:"map_at_least_classic"`
	// one sided paired t-test, alternative: MAP succeeds more often
	PValue float64 `json:"p_value"`
}

// Run executes the sweep and returns the summary along with the per seed stats, in seed order
func Run(ctx context.Context, cfg Config) (*Summary, []tmr.Stats, error) {
	if cfg.Seeds <= 0 {
		return nil, nil, ErrNoSeeds
	}
	if err := cfg.Reliabilities.Validate(); err != nil {
		return nil, nil, err
	}
	parallel := cfg.Parallel
	if parallel <= 0 {
		parallel = 1
	}

	progress := newProgress(cfg.Progress, cfg.Seeds)
	results := make([]tmr.Stats, cfg.Seeds)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i := 0; i < cfg.Seeds; i++ {
		i := i
		g.Go(func() error {
			select {
			case <-gCtx.Done():
				return gCtx.Err()
			default:
			}
			s, err := tmr.Run(cfg.Trials, cfg.FirstSeed+uint64(i), cfg.Reliabilities)
			if err != nil {
				return err
			}
			results[i] = s
			progress.done()
			return nil
		})
	}
	err := g.Wait()
	progress.stop()
	if err != nil {
		return nil, nil, err
	}

	summary := Summarize(results)
	summary.RunID = uuid.NewString()
	summary.FirstSeed = cfg.FirstSeed
	summary.Trials = cfg.Trials
	summary.Reliabilities = cfg.Reliabilities

	if cfg.RecordPath != "" {
		if err := record(cfg.RecordPath, summary, results); err != nil {
			return summary, results, err
		}
	}
	if cfg.PlotPath != "" {
		if err := Plot(cfg.PlotPath, summary, results); err != nil {
			return summary, results, err
		}
	}
	return summary, results, nil
}

// Summarize computes the paired statistics of the per seed results
func Summarize(results []tmr.Stats) *Summary {
	n := len(results)
	classic := make([]float64, n)
	mapOK := make([]float64, n)
	diffs := make([]float64, n)
	atLeast := 0
	for i, s := range results {
		classic[i] = float64(s.ClassicOK)
		mapOK[i] = float64(s.MAPOK)
		diffs[i] = mapOK[i] - classic[i]
		if s.MAPOK >= s.ClassicOK {
			atLeast += 1
		}
	}

	summary := &Summary{Seeds: n}
	if n == 0 {
		summary.PValue = 1
		return summary
	}
	summary.MeanClassic = stat.Mean(classic, nil)
	summary.MeanMAP = stat.Mean(mapOK, nil)
	summary.MeanDiff = stat.Mean(diffs, nil)
	summary.MAPAtLeastClassic = float64(atLeast) / float64(n)
	summary.PValue = 1
	if n < 2 {
		return summary
	}

	summary.StdDevDiff = stat.StdDev(diffs, nil)
	switch {
	case summary.StdDevDiff == 0 && summary.MeanDiff > 0:
		summary.PValue = 0
	case summary.StdDevDiff > 0:
		t := summary.MeanDiff / (summary.StdDevDiff / math.Sqrt(float64(n)))
		summary.PValue = distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 1)}.Survival(t)
	}
	return summary
}

// PrintSummary writes the human readable sweep report
func PrintSummary(w io.Writer, s *Summary) error {
	_, err := fmt.Fprintf(w,
		"seeds=%d first_seed=%d N=%d R=%s\nmean_classic_ok=%.2f mean_map_ok=%.2f\nmean_diff=%.2f stddev_diff=%.2f map_at_least_classic=%.2f p_value=%.3g\n",
		s.Seeds, s.FirstSeed, s.Trials, s.Reliabilities,
		s.MeanClassic, s.MeanMAP,
		s.MeanDiff, s.StdDevDiff, s.MAPAtLeastClassic, s.PValue)
	return err
}

func record(dir string, summary *Summary, results []tmr.Stats) error {
	records := make([]SeedRecord, len(results))
	for i, s := range results {
		records[i] = SeedRecord{RunID: summary.RunID, Stats: s}
	}
	if err := util.AppendJSONLines(path.Join(dir, "sweep.jsonl"), records...); err != nil {
		return fmt.Errorf("recording seeds: %w", err)
	}
	if err := util.AppendJSONLines(path.Join(dir, "sweep_runs.jsonl"), summary); err != nil {
		return fmt.Errorf("recording summary: %w", err)
	}
	return nil
}

// progress keeps a single live line with the completed seed count
type progress struct {
	mu     sync.Mutex
	writer *uilive.Writer
	total  int
	count  int
}

func newProgress(out io.Writer, total int) *progress {
	p := &progress{total: total}
	if out != nil {
		p.writer = uilive.New()
		p.writer.Out = out
	}
	return p
}

func (p *progress) done() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.count += 1
	if p.writer == nil {
		return
	}
	fmt.Fprintf(p.writer, "Seeds: %d/%d [%5.1f%%]\n", p.count, p.total, float64(p.count)/float64(p.total)*100)
	p.writer.Flush()
}

func (p *progress) stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.writer != nil {
		p.writer.Flush()
	}
}
