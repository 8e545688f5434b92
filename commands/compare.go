package commands

import (
	"bytes"
	"context"
	"io"

	"github.com/spf13/cobra"
	"github.com/zeu5/tmr-voting/report"
	"github.com/zeu5/tmr-voting/tmr"
	"github.com/zeu5/tmr-voting/types"
)

// CompareOptions are the resolved parameters of a single comparison
type CompareOptions struct {
	Trials        uint64
	Seed          uint64
	Reliabilities tmr.Reliabilities
	Output        string // chart file, no chart when empty
	RecordPath    string
	Breakdown     bool
}

// Compare runs both voters over the same trials, prints the report and then renders the chart.
// The report is always written before the chart is attempted.
func Compare(ctx context.Context, out io.Writer, opts CompareOptions) (tmr.Stats, error) {
	c := types.NewComparison(&types.ComparisonConfig{
		Trials:        opts.Trials,
		Seed:          opts.Seed,
		Reliabilities: opts.Reliabilities,
		RecordPath:    opts.RecordPath,
	})
	classic := types.NewClassicVoter()
	mapVoter := types.NewMAPVoter(opts.Reliabilities)
	c.AddExperiment(types.NewExperiment(classic.Name(), classic))
	c.AddExperiment(types.NewExperiment(mapVoter.Name(), mapVoter))

	var breakdown bytes.Buffer
	if opts.Breakdown {
		c.AddAnalysis("Agreement", types.NewAgreementAnalyzer(), types.AgreementPrinter(&breakdown))
		c.AddAnalysis("Disagreement", types.NewDisagreementAnalyzer(), types.DisagreementPrinter(&breakdown))
	}
	// the plot is rendered once the report is out
	var agreement types.DataSet
	if opts.RecordPath != "" {
		c.AddAnalysis("AgreementPlot", types.NewAgreementAnalyzer(), func(_ []string, ds types.DataSet) error {
			agreement = ds
			return nil
		})
	}

	results, err := c.Run(ctx)
	if err != nil {
		return tmr.Stats{}, err
	}
	stats := tmr.Stats{
		Trials:        results.Trials,
		Seed:          opts.Seed,
		Reliabilities: opts.Reliabilities,
		ClassicOK:     results.SuccessesOf(classic.Name()),
		MAPOK:         results.SuccessesOf(mapVoter.Name()),
	}

	if err := report.Print(out, stats); err != nil {
		return stats, err
	}
	if _, err := breakdown.WriteTo(out); err != nil {
		return stats, err
	}
	if opts.RecordPath != "" {
		if err := report.Record(opts.RecordPath, stats); err != nil {
			return stats, err
		}
		if err := types.AgreementPlotter(opts.RecordPath)(results.Names, agreement); err != nil {
			return stats, err
		}
	}
	if opts.Output != "" {
		if err := report.RenderChart(opts.Output, stats); err != nil {
			return stats, err
		}
	}
	return stats, nil
}

func CompareCommand() *cobra.Command {
	var output string
	var noChart bool
	var breakdown bool

	cmd := &cobra.Command{
		Use:   "tmr [N] [seed]",
		Short: "Compare classic majority voting with MAP voting over N simulated TMR trials",
		Args:  cobra.ArbitraryArgs,
		// malformed arguments fall back to the defaults instead of failing
		FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			rs, err := cfg.ReliabilityVector()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("output") {
				cfg.Output = output
			}
			if noChart {
				cfg.Output = ""
			}

			logger := newLogger(cmd)
			if configPath != "" {
				logger.Printf("loaded config from %s", configPath)
			}
			_, err = Compare(cmd.Context(), cmd.OutOrStdout(), CompareOptions{
				Trials:        parseArg(args, 0, cfg.Trials),
				Seed:          parseArg(args, 1, cfg.Seed),
				Reliabilities: rs,
				Output:        cfg.Output,
				RecordPath:    cfg.RecordPath,
				Breakdown:     breakdown,
			})
			if err != nil {
				return err
			}
			if cfg.Output != "" {
				logger.Printf("chart saved to %s", cfg.Output)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", report.DefaultChartPath, "Chart file")
	cmd.Flags().BoolVar(&noChart, "no-chart", false, "Skip rendering the chart")
	cmd.Flags().BoolVar(&breakdown, "breakdown", false, "Print the successes by agreement class")
	return cmd
}
