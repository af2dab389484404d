package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/coca/internal/logging"
	"github.com/blackwell-systems/coca/internal/settings"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change settings",
	Long: `Show or change the coca settings file.

Keys:
  precision  minimum change of an axis or trigger, relative to the last
             recorded value of that control, for a sample to be recorded
  logging    recorder log level: debug, info, warn or error

A running recorder applies changes without a restart. The file format
follows its extension: .toml (default), .yaml/.yml or .json.`,
	Example: `  # Show current settings
  coca settings show

  # Drop stick movements smaller than 0.05
  coca settings set precision 0.05`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	s, path, err := loadSettings()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "# %s\n", path)
	fmt.Fprintf(out, "precision = %g\n", s.Precision)
	fmt.Fprintf(out, "logging   = %s\n", s.Logging)
	return nil
}

// applySetting returns s with key set to value.
func applySetting(s settings.Settings, key, value string) (settings.Settings, error) {
	switch strings.ToLower(key) {
	case "precision":
		p, err := strconv.ParseFloat(value, 32)
		if err != nil {
			return s, fmt.Errorf("invalid precision %q: %w", value, err)
		}
		if p < 0 {
			return s, fmt.Errorf("invalid precision %v: must not be negative", p)
		}
		s.Precision = float32(p)
	case "logging":
		if _, err := logging.ParseLevel(value); err != nil {
			return s, err
		}
		s.Logging = strings.ToLower(value)
	default:
		return s, fmt.Errorf("unknown setting %q: must be precision or logging", key)
	}
	return s, nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	s, path, err := loadSettings()
	if err != nil {
		return err
	}

	s, err = applySetting(s, args[0], args[1])
	if err != nil {
		return err
	}

	if err := settings.Save(path, s); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ %s set to %s\n", strings.ToLower(args[0]), args[1])
	return nil
}
