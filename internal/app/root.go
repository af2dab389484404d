package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/blackwell-systems/coca/internal/logging"
	"github.com/blackwell-systems/coca/internal/settings"
)

var (
	dbPath     string
	configPath string
	logFormat  string

	// RootCmd is the root command for coca
	RootCmd = &cobra.Command{
		Use:   "coca",
		Short: "Record gamepad input and see how you play",
		Long: `coca records every gamepad input event together with the application
that had focus when it happened, and answers questions about that history.

Analog axes and triggers are filtered through a precision deadband so that
stick noise does not flood the log. Change the threshold at any time with
'coca settings set precision <value>'; a running recorder picks it up.

Quick Start:
  1. coca record --daemon
  2. Play something
  3. coca graph --timeframe day
  4. coca apps

Examples:
  # Check recorder status
  coca status

  # Inputs per day over the last week
  coca graph --timeframe week

  # Which buttons you press in one game
  coca stats --app Skyrim --timeframe month`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath, _ := getDBPath()
			fmt.Println("coca: gamepad input recorder")
			fmt.Println()
			if _, err := os.Stat(dbPath); os.IsNotExist(err) {
				fmt.Println("Run 'coca record' to start recording.")
			} else {
				fmt.Println("Tip: Run 'coca status' to check recording status.")
				fmt.Println("     Run 'coca graph' to see recent activity.")
			}
			fmt.Println("Run 'coca --help' for all commands.")
			return nil
		},
	}
)

func init() {
	// Global flags
	RootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (default: ~/.coca/coca.db)")
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "settings file (default: $XDG_CONFIG_HOME/coca/settings.toml)")
	RootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format: console or json")

	RootCmd.SuggestionsMinimumDistance = 2

	RootCmd.AddCommand(recordCmd)
	RootCmd.AddCommand(graphCmd)
	RootCmd.AddCommand(appsCmd)
	RootCmd.AddCommand(statsCmd)
	RootCmd.AddCommand(statusCmd)
	RootCmd.AddCommand(settingsCmd)
	RootCmd.AddCommand(verifyCmd)
}

// Execute runs the root command
func Execute() error {
	return RootCmd.Execute()
}

// getDataDir returns ~/.coca, creating it if needed.
func getDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	dir := filepath.Join(home, ".coca")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create coca directory: %w", err)
	}
	return dir, nil
}

// getDBPath returns the database path, using the flag value or default
func getDBPath() (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}
	dir, err := getDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "coca.db"), nil
}

// getDefaultPIDFile returns the default PID file path
func getDefaultPIDFile() (string, error) {
	dir, err := getDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "record.pid"), nil
}

// getDefaultLogFile returns the default log file path
func getDefaultLogFile() (string, error) {
	dir, err := getDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "record.log"), nil
}

// getSettingsPath returns the settings file path, using the flag value or default
func getSettingsPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return settings.DefaultPath()
}

// loadSettings reads the settings file. A malformed file is reported on
// stderr and defaults are used.
func loadSettings() (settings.Settings, string, error) {
	path, err := getSettingsPath()
	if err != nil {
		return settings.Default(), "", fmt.Errorf("failed to get settings path: %w", err)
	}
	s, err := settings.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
	}
	return s, path, nil
}

// newLogger builds the process logger at the given level.
func newLogger(level string) (*zap.Logger, zap.AtomicLevel, error) {
	return logging.New(logging.Options{
		Level:  level,
		Format: logFormat,
		Output: os.Stderr,
		Color:  os.Getenv("NO_COLOR") == "" && isatty.IsTerminal(os.Stderr.Fd()),
	})
}
