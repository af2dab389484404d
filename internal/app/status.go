package app

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/coca/internal/capture"
	"github.com/blackwell-systems/coca/internal/output"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check recorder status and log statistics",
	Long: `Display the current status of the coca recorder and the record log.

Shows:
  • Recorder running status and PID
  • Database location and size
  • Number of records and the time span they cover
  • Current precision and log level settings`,
	Example: `  # Check status
  coca status`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	pidFile, err := getDefaultPIDFile()
	if err != nil {
		return fmt.Errorf("failed to get PID file path: %w", err)
	}

	path, err := getDBPath()
	if err != nil {
		return fmt.Errorf("failed to get database path: %w", err)
	}

	running, err := capture.IsDaemonRunning(pidFile)
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}

	if running {
		pid, _ := capture.ReadPID(pidFile)
		fmt.Printf("Recorder:   %s (PID %d)\n", "running", pid)
	} else {
		fmt.Printf("Recorder:   %s\n", output.Dim("stopped"))
	}

	cfg, cfgPath, err := loadSettings()
	if err != nil {
		return err
	}
	fmt.Printf("Settings:   %s\n", cfgPath)
	fmt.Printf("Precision:  %g\n", cfg.Precision)
	fmt.Printf("Logging:    %s\n", cfg.Logging)

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		fmt.Printf("Database:   %s %s\n", path, output.Dim("(not created)"))
		fmt.Println()
		fmt.Println("Run 'coca record' to start recording.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat database: %w", err)
	}
	fmt.Printf("Database:   %s (%s)\n", path, output.FormatBytes(info.Size()))

	st, err := openStore()
	if err != nil {
		return friendlyError(err)
	}
	defer st.Close()

	summary, err := newAnalyzer(st).Summary()
	if err != nil {
		return friendlyError(err)
	}

	fmt.Printf("Schema:     v%d\n", summary.Version)
	fmt.Printf("Records:    %s\n", output.FormatCount(summary.Records))
	if summary.First != nil && summary.Last != nil {
		fmt.Printf("First:      %s (%s)\n", summary.First.Format("2006-01-02 15:04:05"), humanize.Time(*summary.First))
		fmt.Printf("Last:       %s (%s)\n", summary.Last.Format("2006-01-02 15:04:05"), humanize.Time(*summary.Last))
	}

	return nil
}
