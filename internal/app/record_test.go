package app

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestRecordCommand(t *testing.T) {
	if recordCmd.Use != "record" {
		t.Errorf("expected Use to be 'record', got '%s'", recordCmd.Use)
	}
	if recordCmd.Short == "" || recordCmd.Long == "" || recordCmd.Example == "" {
		t.Error("expected Short, Long and Example to be set")
	}
	if recordCmd.RunE == nil {
		t.Error("expected RunE to be set")
	}
}

func TestRecordCommandFlags(t *testing.T) {
	tests := []struct {
		flagName     string
		shouldHidden bool
	}{
		{"daemon", false},
		{"daemon-child", true},
		{"pid-file", false},
		{"log-file", false},
		{"stop", false},
	}

	for _, tt := range tests {
		t.Run(tt.flagName, func(t *testing.T) {
			flag := recordCmd.Flags().Lookup(tt.flagName)
			if flag == nil {
				t.Fatalf("expected flag '%s' to be registered", tt.flagName)
			}
			if !tt.shouldHidden && flag.Usage == "" {
				t.Errorf("expected flag '%s' to have usage text", tt.flagName)
			}
			if flag.Hidden != tt.shouldHidden {
				t.Errorf("expected flag '%s' hidden to be %v, got %v", tt.flagName, tt.shouldHidden, flag.Hidden)
			}
		})
	}
}

func TestDaemonArgs(t *testing.T) {
	isolate(t)

	dir := t.TempDir()
	dbPath = filepath.Join(dir, "coca.db")
	configPath = filepath.Join(dir, "settings.yaml")
	recordPIDFile = filepath.Join(dir, "record.pid")
	recordLogFile = filepath.Join(dir, "record.log")
	logFormat = "json"

	args, err := daemonArgs()
	if err != nil {
		t.Fatalf("daemonArgs() error: %v", err)
	}

	joined := strings.Join(args, " ")
	for _, want := range []string{
		"--db " + dbPath,
		"--config " + configPath,
		"--pid-file " + recordPIDFile,
		"--log-file " + recordLogFile,
		"--log-format json",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("daemonArgs() = %q, missing %q", joined, want)
		}
	}
}

func TestDaemonArgs_OmitsDefaultConfig(t *testing.T) {
	isolate(t)

	args, err := daemonArgs()
	if err != nil {
		t.Fatalf("daemonArgs() error: %v", err)
	}
	for _, a := range args {
		if a == "--config" {
			t.Errorf("daemonArgs() should not forward --config when unset: %v", args)
		}
	}
}

func TestRecordStop_NotRunning(t *testing.T) {
	isolate(t)

	out, err := execute(t, "record", "--stop", "--pid-file", filepath.Join(t.TempDir(), "none.pid"))
	if err != nil {
		t.Fatalf("record --stop returned error: %v", err)
	}
	if !strings.Contains(out, "not running") {
		t.Errorf("expected 'not running', got: %s", out)
	}
}
