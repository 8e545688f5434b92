package sweep

import (
	"fmt"
	"path"

	"github.com/zeu5/tmr-voting/tmr"
	"github.com/zeu5/tmr-voting/util"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Plot draws the success count of both voters for every seed into plotPath/sweep.png
func Plot(plotPath string, summary *Summary, results []tmr.Stats) error {
	if err := util.EnsureDir(plotPath); err != nil {
		return err
	}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("TMR sweep | R = %s | true = %d | N = %d", summary.Reliabilities, tmr.TrueValue, summary.Trials)
	p.X.Label.Text = "Seed"
	p.Y.Label.Text = fmt.Sprintf("Count of output = %d", tmr.TrueValue)

	series := []struct {
		name  string
		count func(tmr.Stats) uint64
	}{
		{"Classic", func(s tmr.Stats) uint64 { return s.ClassicOK }},
		{"MAP", func(s tmr.Stats) uint64 { return s.MAPOK }},
	}
	for i, se := range series {
		points := make(plotter.XYs, len(results))
		for j, s := range results {
			points[j] = plotter.XY{
				X: float64(s.Seed),
				Y: float64(se.count(s)),
			}
		}
		line, err := plotter.NewLine(points)
		if err != nil {
			return err
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(se.name, line)
	}
	p.Add(plotter.NewGrid())
	return p.Save(8*vg.Inch, 8*vg.Inch, path.Join(plotPath, "sweep.png"))
}
