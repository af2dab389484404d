package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/coca/internal/analyzer"
	"github.com/blackwell-systems/coca/internal/output"
)

var appsTimeframe string

var appsCmd = &cobra.Command{
	Use:   "apps",
	Short: "List applications that received input",
	Long: `List every application that had focus while input was recorded in the
timeframe, with its number of events. The most recently played
application is listed first.

Input recorded while no focused window could be determined is listed
as "Unknown".`,
	Example: `  # Applications played today
  coca apps

  # Applications played this year
  coca apps --timeframe year`,
	RunE: runApps,
}

func init() {
	appsCmd.Flags().StringVar(&appsTimeframe, "timeframe", string(analyzer.Day), "day, week, month or year")
}

func runApps(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return friendlyError(err)
	}
	defer st.Close()

	tf := analyzer.ParseTimeframe(appsTimeframe)

	spinner := output.NewSpinner("Scanning records")
	spinner.Start()
	apps, err := newAnalyzer(st).Applications(tf.Span())
	spinner.Stop()
	if err != nil {
		return friendlyError(err)
	}

	fmt.Print(output.RenderApplications(apps))
	if len(apps) > 0 {
		fmt.Printf("\n%d applications in the last %s\n", len(apps), tf)
	}
	return nil
}
