package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/coca/internal/analyzer"
	"github.com/blackwell-systems/coca/internal/output"
)

var graphTimeframe string

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Show input activity over time",
	Long: `Show how many input events were recorded over a recent timeframe,
split into equal buckets.

Timeframes:
  - day:   last 24 hours, one bucket per hour
  - week:  last 7 days, one bucket per day
  - month: last 30 days, one bucket per day
  - year:  last 365 days, 12 buckets

Unrecognized timeframes fall back to day.`,
	Example: `  # Activity per hour today
  coca graph

  # Activity per day over the last month
  coca graph --timeframe month`,
	RunE: runGraph,
}

func init() {
	graphCmd.Flags().StringVar(&graphTimeframe, "timeframe", string(analyzer.Day), "day, week, month or year")
}

func runGraph(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return friendlyError(err)
	}
	defer st.Close()

	tf := analyzer.ParseTimeframe(graphTimeframe)

	spinner := output.NewSpinner("Scanning records")
	spinner.Start()
	buckets, err := newAnalyzer(st).Graph(tf)
	spinner.Stop()
	if err != nil {
		return friendlyError(err)
	}

	fmt.Printf("Input events, last %s\n\n", tf)
	fmt.Print(output.RenderGraph(buckets))
	return nil
}
