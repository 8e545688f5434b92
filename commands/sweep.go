package commands

import (
	"github.com/spf13/cobra"
	"github.com/zeu5/tmr-voting/sweep"
)

func SweepCommand() *cobra.Command {
	var seeds int
	var firstSeed uint64
	var parallel int
	var plotPath string
	var showProgress bool

	cmd := &cobra.Command{
		Use:   "sweep [N]",
		Short: "Repeat the comparison over many seeds and test whether MAP voting does better",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			rs, err := cfg.ReliabilityVector()
			if err != nil {
				return err
			}

			sCfg := sweep.Config{
				Trials:        parseArg(args, 0, cfg.Trials),
				FirstSeed:     firstSeed,
				Seeds:         seeds,
				Reliabilities: rs,
				Parallel:      parallel,
				RecordPath:    cfg.RecordPath,
				PlotPath:      plotPath,
			}
			if showProgress {
				sCfg.Progress = cmd.ErrOrStderr()
			}
			summary, _, err := sweep.Run(cmd.Context(), sCfg)
			if err != nil {
				return err
			}
			if plotPath != "" {
				newLogger(cmd).Printf("sweep plot saved to %s", plotPath)
			}
			return sweep.PrintSummary(cmd.OutOrStdout(), summary)
		},
	}
	cmd.Flags().IntVar(&seeds, "seeds", 100, "Number of seeds")
	cmd.Flags().Uint64Var(&firstSeed, "first-seed", 1, "First seed of the range")
	cmd.Flags().IntVarP(&parallel, "parallel", "p", 1, "Number of seeds run concurrently")
	cmd.Flags().StringVar(&plotPath, "plot", "", "Save the per seed plot in the specified folder")
	cmd.Flags().BoolVar(&showProgress, "progress", false, "Show live progress on stderr")
	return cmd
}
