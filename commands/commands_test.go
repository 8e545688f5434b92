package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/tmr-voting/report"
	"github.com/zeu5/tmr-voting/tmr"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := GetRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := ExecuteArgs(cmd, args)
	return out.String(), err
}

func expectedReport(t *testing.T, n, seed uint64) string {
	t.Helper()
	stats, err := tmr.Run(n, seed, tmr.DefaultReliabilities)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, report.Print(&buf, stats))
	return buf.String()
}

func TestParseArg(t *testing.T) {
	args := []string{"250", "abc", "-3"}
	assert.Equal(t, uint64(250), parseArg(args, 0, 1000))
	assert.Equal(t, uint64(7), parseArg(args, 1, 7))
	assert.Equal(t, uint64(9), parseArg(args, 2, 9))
	assert.Equal(t, uint64(5), parseArg(args, 3, 5))
}

func TestRootDefaults(t *testing.T) {
	chart := filepath.Join(t.TempDir(), "chart.png")
	out, err := execute(t, "-o", chart)
	require.NoError(t, err)
	assert.Equal(t, expectedReport(t, 1000, 7), out)

	_, err = os.Stat(chart)
	assert.NoError(t, err)
}

func TestRootPositionalArgs(t *testing.T) {
	out, err := execute(t, "--no-chart", "200", "11")
	require.NoError(t, err)
	assert.Equal(t, expectedReport(t, 200, 11), out)
	assert.True(t, strings.HasPrefix(out, "N=200 seed=11\n"))
}

func TestRootInvalidArgsFallBack(t *testing.T) {
	out, err := execute(t, "--no-chart", "lots", "x")
	require.NoError(t, err)
	assert.Equal(t, expectedReport(t, 1000, 7), out)

	out, err = execute(t, "--no-chart", "300", "1.5")
	require.NoError(t, err)
	assert.Equal(t, expectedReport(t, 300, 7), out)
}

func TestRootNegativeArgs(t *testing.T) {
	out, err := execute(t, "--no-chart", "-3", "5")
	require.NoError(t, err)
	assert.Equal(t, expectedReport(t, 1000, 5), out)

	out, err = execute(t, "--no-chart", "20", "-4")
	require.NoError(t, err)
	assert.Equal(t, expectedReport(t, 20, 7), out)
}

func TestPositionalNumbers(t *testing.T) {
	assert.Equal(t, []string{"--no-chart", "--", "-3", "5"}, positionalNumbers([]string{"--no-chart", "-3", "5"}))
	assert.Equal(t, []string{"-o", "x.png", "10"}, positionalNumbers([]string{"-o", "x.png", "10"}))
	assert.Equal(t, []string{"--", "-3"}, positionalNumbers([]string{"--", "-3"}))
}

func TestRootRecordPlotFailureAfterReport(t *testing.T) {
	dir := t.TempDir()
	// a directory where the plot file should go makes the plot fail
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "agreement.png"), 0755))

	out, err := execute(t, "--no-chart", "--record", dir, "50", "2")
	assert.Error(t, err)
	assert.Equal(t, expectedReport(t, 50, 2), out)

	_, err = os.Stat(filepath.Join(dir, "summary.json"))
	assert.NoError(t, err)
}

func TestRootZeroTrials(t *testing.T) {
	out, err := execute(t, "--no-chart", "0", "4")
	require.NoError(t, err)
	assert.Equal(t, "N=0 seed=4\nclassic_ok=0 classic_rate=0\nmap_ok=0 map_rate=0\n", out)
}

func TestRootChartFailureAfterReport(t *testing.T) {
	chart := filepath.Join(t.TempDir(), "missing", "chart.png")
	out, err := execute(t, "-o", chart, "50", "2")
	assert.Error(t, err)
	assert.Equal(t, expectedReport(t, 50, 2), out)
}

func TestRootConfigAndRecord(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "tmr.yaml")
	chart := filepath.Join(dir, "from_config.png")
	record := filepath.Join(dir, "record")
	require.NoError(t, os.WriteFile(cfgPath, []byte("trials: 120\nseed: 3\nreliabilities: [1, 0.5, 0.2]\noutput: "+chart+"\n"), 0644))

	out, err := execute(t, "--config", cfgPath, "--record", record, "--breakdown")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "N=120 seed=3", lines[0])
	assert.Equal(t, "map_ok=120 map_rate=1", lines[2])
	assert.True(t, strings.HasPrefix(lines[6], "disagreements="))

	for _, f := range []string{chart, filepath.Join(record, "summary.json"), filepath.Join(record, "comparison_config.json"), filepath.Join(record, "agreement.png")} {
		_, err := os.Stat(f)
		assert.NoError(t, err, f)
	}
}

func TestRootInvalidConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "tmr.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("reliabilities: [0.5, 2, 0.1]\n"), 0644))
	_, err := execute(t, "--no-chart", "--config", cfgPath)
	assert.ErrorIs(t, err, tmr.ErrInvalidReliability)
}

func TestCompareMatchesRun(t *testing.T) {
	var buf bytes.Buffer
	stats, err := Compare(context.Background(), &buf, CompareOptions{Trials: 1000, Seed: 7, Reliabilities: tmr.DefaultReliabilities})
	require.NoError(t, err)
	expected, err := tmr.Run(1000, 7, tmr.DefaultReliabilities)
	require.NoError(t, err)
	assert.Equal(t, expected, stats)
}

func TestSweepCommand(t *testing.T) {
	out, err := execute(t, "sweep", "--seeds", "10", "--parallel", "2", "200")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "seeds=10 first_seed=1 N=200 R=(0.9, 0.5, 0.2)\n"))
	assert.Contains(t, out, "p_value=")
}
