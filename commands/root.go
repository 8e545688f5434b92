package commands

import (
	"log"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/zeu5/tmr-voting/config"
)

var (
	configPath string
	recordPath string
)

func GetRootCommand() *cobra.Command {
	rootCommand := CompareCommand()
	rootCommand.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML file with trials, seed, reliabilities and output")
	rootCommand.PersistentFlags().StringVar(&recordPath, "record", "", "Save the result data in the specified folder")
	// adding the subcommands here
	rootCommand.AddCommand(SweepCommand())
	return rootCommand
}

// ExecuteArgs runs the command tree on args. Negative numbers are positional
// arguments, so a "--" is placed ahead of the first one to keep them away from
// the flag parser.
func ExecuteArgs(cmd *cobra.Command, args []string) error {
	cmd.SetArgs(positionalNumbers(args))
	return cmd.Execute()
}

func positionalNumbers(args []string) []string {
	for i, a := range args {
		if a == "--" {
			return args
		}
		if len(a) > 1 && a[0] == '-' && a[1] >= '0' && a[1] <= '9' {
			out := make([]string, 0, len(args)+1)
			out = append(out, args[:i]...)
			out = append(out, "--")
			return append(out, args[i:]...)
		}
	}
	return args
}

// parseArg returns the i-th positional argument as an unsigned integer.
// Missing or malformed arguments silently yield fallback.
func parseArg(args []string, i int, fallback uint64) uint64 {
	if i >= len(args) {
		return fallback
	}
	v, err := strconv.ParseUint(args[i], 10, 64)
	if err != nil {
		return fallback
	}
	return v
}

func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Resolve(configPath)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("record") {
		cfg.RecordPath = recordPath
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command) *log.Logger {
	return log.New(cmd.ErrOrStderr(), "[tmr] ", log.LstdFlags)
}
