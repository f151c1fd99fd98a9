package cli

import (
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/kdduha/aidiagram/internal/bench"
	"github.com/kdduha/aidiagram/internal/prompt"
	"github.com/spf13/cobra"
)

var benchOpts struct {
	server  string
	repeat  int
	timeout time.Duration
}

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Measure generation latency of a running server",
	Long: `bench sends every diagram type's default description to POST /api/diagrams
of a running server and prints a markdown table of the results.`,
	RunE: runBench,
}

func init() {
	benchCmd.Flags().StringVar(&benchOpts.server, "server", "http://localhost:8080", "Server base URL")
	benchCmd.Flags().IntVarP(&benchOpts.repeat, "repeat", "n", 1, "Requests per diagram type")
	benchCmd.Flags().DurationVar(&benchOpts.timeout, "timeout", 10*time.Minute, "Per-request timeout")
}

func runBench(cmd *cobra.Command, args []string) error {
	cases, err := bench.DefaultCases(prompt.MustNewRegistry())
	if err != nil {
		return err
	}

	ok := color.New(color.FgGreen)
	fail := color.New(color.FgRed)

	runner := bench.NewRunner(benchOpts.server, benchOpts.timeout)
	results := runner.Run(cmd.Context(), cases, benchOpts.repeat, func(res bench.Result) {
		if res.Err != nil {
			fail.Fprintf(os.Stderr, "ERR %s: %v\n", res.Type, res.Err)
			return
		}
		ok.Fprintf(os.Stderr, "OK %s %v\n", res.Type, res.Duration.Round(time.Millisecond))
	})

	bench.WriteMarkdown(cmd.OutOrStdout(), results)
	return nil
}
