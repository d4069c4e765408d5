// Package cli implements the evidentia command line tool.  The commands run
// the analysis core directly on local files, no server round trip involved,
// which makes them usable for spot checks on exported transcripts.
package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/x-ordo/evidentia/internal/infrastructure/monitoring/logging"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// RootOptions holds the global CLI flags.
type RootOptions struct {
	OutputFormat string
	Verbose      bool
}

// NewRootCommand creates the root command with all subcommands mounted.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "evidentia",
		Short:   "Evidentia CLI — transcript scoring and division prediction for divorce litigation",
		Long:    "Evidentia analyzes Korean-language conversation transcripts for legally\nsignificant evidence and forecasts property division ratios from the fault\nprofile of a case.  All commands run locally on exported files.",
		Version: fmt.Sprintf("%s (commit: %s)", Version, GitCommit),

		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.OutputFormat, "output", "o", "text", "output format (text, json)")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(
		NewAnalyzeCmd(opts),
		NewPredictCmd(opts),
	)
	return cmd
}

// Execute runs the CLI and reports the outcome on stderr.
func Execute() error {
	root := NewRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(root.ErrOrStderr(), "Error: %s\n", err.Error())
		return err
	}
	return nil
}

// newCommandLogger builds a stderr logger so command output on stdout stays
// machine-readable.
func newCommandLogger(opts *RootOptions) (logging.Logger, error) {
	level := "warn"
	if opts.Verbose {
		level = "debug"
	}
	return logging.NewLogger(logging.LogConfig{
		Level:            level,
		Format:           "console",
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	})
}

// printResult renders data on stdout in the requested format.
func printResult(cmd *cobra.Command, opts *RootOptions, data interface{}, text func() string) error {
	if strings.EqualFold(opts.OutputFormat, "json") {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	}
	fmt.Fprint(cmd.OutOrStdout(), text())
	return nil
}
