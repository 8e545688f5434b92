package types

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/tmr-voting/tmr"
)

func newVoterComparison(cfg *ComparisonConfig) *Comparison {
	c := NewComparison(cfg)
	c.AddExperiment(NewExperiment("Classic", NewClassicVoter()))
	c.AddExperiment(NewExperiment("MAP", NewMAPVoter(cfg.Reliabilities)))
	return c
}

func TestComparisonMatchesRun(t *testing.T) {
	for _, seed := range []uint64{1, 7, 99} {
		cfg := &ComparisonConfig{Trials: 2000, Seed: seed, Reliabilities: tmr.DefaultReliabilities}
		results, err := newVoterComparison(cfg).Run(context.Background())
		require.NoError(t, err)

		stats, err := tmr.Run(cfg.Trials, cfg.Seed, cfg.Reliabilities)
		require.NoError(t, err)

		assert.Equal(t, stats.Trials, results.Trials)
		assert.Equal(t, stats.ClassicOK, results.SuccessesOf("Classic"))
		assert.Equal(t, stats.MAPOK, results.SuccessesOf("MAP"))
		assert.Zero(t, results.SuccessesOf("missing"))
	}
}

func TestComparisonAnalyzers(t *testing.T) {
	cfg := &ComparisonConfig{Trials: 3000, Seed: 5, Reliabilities: tmr.DefaultReliabilities}
	c := newVoterComparison(cfg)

	agreement := NewAgreementAnalyzer()
	disagreement := NewDisagreementAnalyzer()
	var agreementData *AgreementDataSet
	var disagreementData DisagreementDataSet
	c.AddAnalysis("agreement", agreement, func(_ []string, ds DataSet) error {
		agreementData = ds.(*AgreementDataSet)
		return nil
	})
	c.AddAnalysis("disagreement", disagreement, func(_ []string, ds DataSet) error {
		disagreementData = ds.(DisagreementDataSet)
		return nil
	})

	results, err := c.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, agreementData)

	total := uint64(0)
	successes := []uint64{0, 0}
	for class := Unanimous; class <= Distinct; class++ {
		total += agreementData.Trials[class]
		for i := range successes {
			if agreementData.Successes[class] != nil {
				successes[i] += agreementData.Successes[class][i]
			}
		}
	}
	assert.Equal(t, cfg.Trials, total)
	assert.Equal(t, results.Successes, successes)

	// classic minus MAP equals the trials only classic got right minus those only MAP got right
	diff := int64(results.Successes[0]) - int64(results.Successes[1])
	assert.Equal(t, diff, int64(disagreementData.FirstOnly)-int64(disagreementData.SecondOnly))
	assert.LessOrEqual(t, disagreementData.FirstOnly+disagreementData.SecondOnly, disagreementData.Disagreements)
}

func TestComparisonCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cfg := &ComparisonConfig{Trials: 10, Seed: 1, Reliabilities: tmr.DefaultReliabilities}
	_, err := newVoterComparison(cfg).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestComparisonInvalidReliabilities(t *testing.T) {
	cfg := &ComparisonConfig{Trials: 10, Seed: 1, Reliabilities: tmr.Reliabilities{0.5, -1, 0.5}}
	_, err := newVoterComparison(cfg).Run(context.Background())
	assert.ErrorIs(t, err, tmr.ErrInvalidReliability)
}

func TestComparisonRecord(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "record")
	cfg := &ComparisonConfig{Trials: 100, Seed: 3, Reliabilities: tmr.DefaultReliabilities, RecordPath: dir}
	c := newVoterComparison(cfg)
	c.AddAnalysis("agreement", NewAgreementAnalyzer(), AgreementPlotter(dir))

	_, err := c.Run(context.Background())
	require.NoError(t, err)

	bs, err := os.ReadFile(filepath.Join(dir, "comparison_config.json"))
	require.NoError(t, err)
	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(bs, &record))
	assert.Equal(t, float64(100), record["trials"])
	assert.Equal(t, float64(27), record["true_value"])
	assert.Equal(t, []interface{}{"Classic", "MAP"}, record["experiments"])

	info, err := os.Stat(filepath.Join(dir, "agreement.png"))
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestPrinters(t *testing.T) {
	cfg := &ComparisonConfig{Trials: 500, Seed: 2, Reliabilities: tmr.DefaultReliabilities}
	c := newVoterComparison(cfg)
	var buf bytes.Buffer
	c.AddAnalysis("agreement", NewAgreementAnalyzer(), AgreementPrinter(&buf))
	c.AddAnalysis("disagreement", NewDisagreementAnalyzer(), DisagreementPrinter(&buf))

	_, err := c.Run(context.Background())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "Unanimous"))
	assert.Contains(t, lines[0], "Classic_ok=")
	assert.Contains(t, lines[2], "MAP_ok=")
	assert.True(t, strings.HasPrefix(lines[3], "disagreements="))
}

func TestGroupOffset(t *testing.T) {
	assert.Equal(t, -0.5, groupOffset(0, 2))
	assert.Equal(t, 0.5, groupOffset(1, 2))
	assert.Equal(t, -1.0, groupOffset(0, 3))
	assert.Equal(t, 0.0, groupOffset(1, 3))
	assert.Equal(t, 0.0, groupOffset(0, 1))
}

func TestAgreementOf(t *testing.T) {
	assert.Equal(t, Unanimous, AgreementOf(tmr.Outputs{4, 4, 4}))
	assert.Equal(t, Majority, AgreementOf(tmr.Outputs{4, 1, 4}))
	assert.Equal(t, Majority, AgreementOf(tmr.Outputs{1, 4, 4}))
	assert.Equal(t, Distinct, AgreementOf(tmr.Outputs{1, 2, 3}))
	assert.Equal(t, "Distinct", Distinct.String())
}
