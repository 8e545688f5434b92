package types

import (
	"fmt"
	"io"
	"os"
	"path"

	"github.com/zeu5/tmr-voting/tmr"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Agreement classifies the module outputs of a trial
type Agreement int

const (
	Unanimous Agreement = iota
	Majority
	Distinct
)

var agreementNames = []string{"Unanimous", "Majority", "Distinct"}

func (a Agreement) String() string {
	return agreementNames[a]
}

// AgreementOf returns how many of the outputs agree
func AgreementOf(o tmr.Outputs) Agreement {
	switch {
	case o[0] == o[1] && o[1] == o[2]:
		return Unanimous
	case o[0] == o[1] || o[0] == o[2] || o[1] == o[2]:
		return Majority
	default:
		return Distinct
	}
}

// AgreementDataSet counts, per agreement class, the trials and the successes of each experiment
type AgreementDataSet struct {
	Trials    [3]uint64
	Successes [3][]uint64
}

// AgreementAnalyzer breaks the successes of every experiment down by agreement class
type AgreementAnalyzer struct {
	dataSet *AgreementDataSet
}

var _ Analyzer = &AgreementAnalyzer{}

func NewAgreementAnalyzer() *AgreementAnalyzer {
	return &AgreementAnalyzer{dataSet: &AgreementDataSet{}}
}

func (a *AgreementAnalyzer) Analyze(_ int, o tmr.Outputs, votes []tmr.Value) {
	class := AgreementOf(o)
	a.dataSet.Trials[class] += 1
	if a.dataSet.Successes[class] == nil {
		a.dataSet.Successes[class] = make([]uint64, len(votes))
	}
	for i, v := range votes {
		if v == tmr.TrueValue {
			a.dataSet.Successes[class][i] += 1
		}
	}
}

func (a *AgreementAnalyzer) DataSet() DataSet {
	return a.dataSet
}

func (a *AgreementAnalyzer) Reset() {
	a.dataSet = &AgreementDataSet{}
}

// DisagreementDataSet counts the trials in which the first two experiments voted differently,
// split by which of them recovered the true value
type DisagreementDataSet struct {
	Disagreements uint64
	FirstOnly     uint64
	SecondOnly    uint64
}

type DisagreementAnalyzer struct {
	dataSet DisagreementDataSet
}

var _ Analyzer = &DisagreementAnalyzer{}

func NewDisagreementAnalyzer() *DisagreementAnalyzer {
	return &DisagreementAnalyzer{}
}

func (d *DisagreementAnalyzer) Analyze(_ int, _ tmr.Outputs, votes []tmr.Value) {
	if len(votes) < 2 || votes[0] == votes[1] {
		return
	}
	d.dataSet.Disagreements += 1
	if votes[0] == tmr.TrueValue {
		d.dataSet.FirstOnly += 1
	} else if votes[1] == tmr.TrueValue {
		d.dataSet.SecondOnly += 1
	}
}

func (d *DisagreementAnalyzer) DataSet() DataSet {
	return d.dataSet
}

func (d *DisagreementAnalyzer) Reset() {
	d.dataSet = DisagreementDataSet{}
}

// AgreementPrinter writes the agreement breakdown as text
func AgreementPrinter(w io.Writer) Comparator {
	return func(names []string, ds DataSet) error {
		data := ds.(*AgreementDataSet)
		for class := Unanimous; class <= Distinct; class++ {
			line := fmt.Sprintf("%-9s trials=%d", class, data.Trials[class])
			for i, name := range names {
				ok := uint64(0)
				if data.Successes[class] != nil {
					ok = data.Successes[class][i]
				}
				line = fmt.Sprintf("%s %s_ok=%d", line, name, ok)
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		return nil
	}
}

// DisagreementPrinter writes the disagreement counts of the first two experiments
func DisagreementPrinter(w io.Writer) Comparator {
	return func(names []string, ds DataSet) error {
		if len(names) < 2 {
			return nil
		}
		data := ds.(DisagreementDataSet)
		_, err := fmt.Fprintf(w, "disagreements=%d %s_only=%d %s_only=%d\n",
			data.Disagreements, names[0], data.FirstOnly, names[1], data.SecondOnly)
		return err
	}
}

// groupOffset centers n bars of unit width on the tick
func groupOffset(i, n int) float64 {
	return float64(i) - float64(n-1)/2
}

// AgreementPlotter draws one group of bars per experiment with the successes in each agreement class
func AgreementPlotter(plotPath string) Comparator {
	return func(names []string, ds DataSet) error {
		if _, err := os.Stat(plotPath); err != nil {
			if err := os.MkdirAll(plotPath, os.ModePerm); err != nil {
				return err
			}
		}
		data := ds.(*AgreementDataSet)

		p := plot.New()
		p.Title.Text = "Successes by agreement"
		p.Y.Label.Text = fmt.Sprintf("Count of output = %d", tmr.TrueValue)

		width := vg.Points(20)
		for i, name := range names {
			values := make(plotter.Values, len(agreementNames))
			for class := range agreementNames {
				if data.Successes[class] != nil {
					values[class] = float64(data.Successes[class][i])
				}
			}
			bars, err := plotter.NewBarChart(values, width)
			if err != nil {
				return err
			}
			bars.LineStyle.Width = vg.Length(0)
			bars.Color = plotutil.Color(i)
			bars.Offset = width * vg.Length(groupOffset(i, len(names)))
			p.Add(bars)
			p.Legend.Add(name, bars)
		}
		p.Legend.Top = true
		p.NominalX(agreementNames...)
		return p.Save(8*vg.Inch, 6*vg.Inch, path.Join(plotPath, "agreement.png"))
	}
}
