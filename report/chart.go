package report

import (
	"fmt"
	"image/color"
	"math"

	"github.com/zeu5/tmr-voting/tmr"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const DefaultChartPath = "TMR_Comparison.png"

var (
	classicColor = color.RGBA{R: 0, G: 114, B: 189, A: 255}
	mapColor     = color.RGBA{R: 217, G: 83, B: 25, A: 255}

	// 1920x1080 pixels at the default 96 dpi
	chartWidth  = 20 * vg.Inch
	chartHeight = 11.25 * vg.Inch
)

// Title is the chart caption, with the reliabilities and the true value embedded
func Title(s tmr.Stats) string {
	return fmt.Sprintf("TMR Comparison | R = %s | true = %d | N = %d | seed = %d",
		s.Reliabilities, tmr.TrueValue, s.Trials, s.Seed)
}

// barLabel is the count with its percentage of all trials
func barLabel(ok, n uint64) string {
	return fmt.Sprintf("%d (%.2f%%)", ok, Rate(ok, n)*100)
}

// yTop leaves a quarter of headroom above the tallest bar for its label
func yTop(s tmr.Stats) float64 {
	maxv := s.ClassicOK
	if s.MAPOK > maxv {
		maxv = s.MAPOK
	}
	if maxv < 1 {
		maxv = 1
	}
	return math.Ceil(float64(maxv) * 1.25)
}

// NewChart builds the bar chart comparing the two voters
func NewChart(s tmr.Stats) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = Title(s)
	p.Title.TextStyle.Font.Size = vg.Points(30)
	p.X.Label.Text = "Voter Type"
	p.Y.Label.Text = fmt.Sprintf("Count of output = %d", tmr.TrueValue)
	p.X.Label.TextStyle.Font.Size = vg.Points(20)
	p.Y.Label.TextStyle.Font.Size = vg.Points(20)
	p.X.Tick.Label.Font.Size = vg.Points(18)
	p.Y.Tick.Label.Font.Size = vg.Points(18)
	p.Y.Min = 0
	p.Y.Max = yTop(s)
	p.Add(plotter.NewGrid())

	width := vg.Points(300)
	counts := []uint64{s.ClassicOK, s.MAPOK}
	colors := []color.Color{classicColor, mapColor}
	legends := []string{
		"Classic voter: majority with random tie-break",
		"MAP voter: reliability-aware (uses Ri and uniform fault model)",
	}
	for i, ok := range counts {
		bars, err := plotter.NewBarChart(plotter.Values{float64(ok)}, width)
		if err != nil {
			return nil, err
		}
		bars.XMin = float64(i)
		bars.Color = colors[i]
		bars.LineStyle.Width = vg.Length(0)
		p.Add(bars)
		p.Legend.Add(legends[i], bars)
	}

	labels, err := plotter.NewLabels(plotter.XYLabels{
		XYs: plotter.XYs{
			{X: 0, Y: float64(s.ClassicOK) + p.Y.Max/40},
			{X: 1, Y: float64(s.MAPOK) + p.Y.Max/40},
		},
		Labels: []string{
			barLabel(s.ClassicOK, s.Trials),
			barLabel(s.MAPOK, s.Trials),
		},
	})
	if err != nil {
		return nil, err
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].Font.Size = vg.Points(20)
		labels.TextStyle[i].XAlign = -0.5
	}
	p.Add(labels)

	p.NominalX("Classic", "MAP")
	p.Legend.Top = true
	p.Legend.TextStyle.Font.Size = vg.Points(18)
	return p, nil
}

// RenderChart saves the chart to file; the format follows the extension
func RenderChart(file string, s tmr.Stats) error {
	p, err := NewChart(s)
	if err != nil {
		return fmt.Errorf("building chart: %w", err)
	}
	if err := p.Save(chartWidth, chartHeight, file); err != nil {
		return fmt.Errorf("saving chart %s: %w", file, err)
	}
	return nil
}
