package app

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/coca/internal/analyzer"
	"github.com/blackwell-systems/coca/internal/output"
)

var (
	statsApp       string
	statsTimeframe string
	statsBinWidth  float64
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show button and axis statistics for an application",
	Long: `Break down the input recorded for one application: how often each
button was pressed and a histogram of the positions of each axis.

Application names are matched exactly; see 'coca apps' for the names that
were recorded.`,
	Example: `  # Button usage in Skyrim today
  coca stats --app Skyrim

  # Stick positions over the last month, in bins of 0.1
  coca stats --app Skyrim --timeframe month --bin-width 0.1`,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsApp, "app", "", "application name (required)")
	statsCmd.Flags().StringVar(&statsTimeframe, "timeframe", string(analyzer.Day), "day, week, month or year")
	statsCmd.Flags().Float64Var(&statsBinWidth, "bin-width", analyzer.DefaultBinWidth, "axis histogram bin width")
}

func runStats(cmd *cobra.Command, args []string) error {
	if strings.TrimSpace(statsApp) == "" {
		return fmt.Errorf("--app is required (see 'coca apps' for recorded names)")
	}
	if statsBinWidth <= 0 {
		return fmt.Errorf("invalid bin width: %v (must be positive)", statsBinWidth)
	}

	st, err := openStore()
	if err != nil {
		return friendlyError(err)
	}
	defer st.Close()

	tf := analyzer.ParseTimeframe(statsTimeframe)
	a := analyzer.New(st, analyzer.WithBinWidth(statsBinWidth))

	spinner := output.NewSpinner("Scanning records")
	spinner.Start()
	stats, err := a.AppStats(statsApp, tf.Span())
	spinner.Stop()
	if err != nil {
		return friendlyError(err)
	}

	fmt.Print(output.RenderAppStats(stats))
	return nil
}
