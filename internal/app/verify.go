package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/coca/internal/output"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check every record in the log",
	Long: `Decode every record in the log, oldest first, and report keys of another
schema version, undecodable keys or values, and records whose timestamp
disagrees with their key.

Unlike the queries, verify does not stop at the first problem.`,
	Example: `  # Check the default log
  coca verify

  # Check a copy
  coca verify --db /tmp/coca-backup.db`,
	RunE: runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return friendlyError(err)
	}
	defer st.Close()

	total, err := st.Count()
	if err != nil {
		return friendlyError(err)
	}

	progress := output.NewProgress(total, "records")
	report, err := newAnalyzer(st).Verify(progress.SetCurrent)
	if err != nil {
		return friendlyError(err)
	}
	progress.Finish()

	fmt.Println()
	fmt.Print(output.RenderVerifyReport(report))
	if !report.OK() {
		return fmt.Errorf("record log has problems")
	}
	return nil
}
