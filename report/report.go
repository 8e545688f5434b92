// Package report turns the final counters of a run into text, a chart and a record.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"
	"strconv"

	"github.com/zeu5/tmr-voting/tmr"
)

// Rate returns ok/n, or 0 when no trial was run
func Rate(ok, n uint64) float64 {
	if n == 0 {
		return 0
	}
	return float64(ok) / float64(n)
}

// formatRate never uses exponent notation
func formatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', -1, 64)
}

// Print writes the three line summary of a run
func Print(w io.Writer, s tmr.Stats) error {
	if _, err := fmt.Fprintf(w, "N=%d seed=%d\n", s.Trials, s.Seed); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "classic_ok=%d classic_rate=%s\n", s.ClassicOK, formatRate(Rate(s.ClassicOK, s.Trials))); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "map_ok=%d map_rate=%s\n", s.MAPOK, formatRate(Rate(s.MAPOK, s.Trials)))
	return err
}

// Summary is the record written next to the chart
type Summary struct {
	tmr.Stats
	TrueValue   tmr.Value `json:"true_value"`
	ClassicRate float64   `json:"classic_rate"`
	MAPRate     float64   `json:"map_rate"`
}

func NewSummary(s tmr.Stats) Summary {
	return Summary{
		Stats:       s,
		TrueValue:   tmr.TrueValue,
		ClassicRate: Rate(s.ClassicOK, s.Trials),
		MAPRate:     Rate(s.MAPOK, s.Trials),
	}
}

// Record writes summary.json into dir
func Record(dir string, s tmr.Stats) error {
	if err := os.MkdirAll(dir, 0777); err != nil {
		return fmt.Errorf("creating record path: %w", err)
	}
	bs, err := json.MarshalIndent(NewSummary(s), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path.Join(dir, "summary.json"), bs, 0644)
}
