package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRootCommand(t *testing.T) {
	if RootCmd.Use != "coca" {
		t.Errorf("expected Use to be 'coca', got '%s'", RootCmd.Use)
	}
	if RootCmd.Short == "" {
		t.Error("expected Short description to be set")
	}
	if !strings.Contains(RootCmd.Long, "Quick Start") {
		t.Error("expected Long description to contain 'Quick Start' section")
	}
	if !RootCmd.SilenceUsage || !RootCmd.SilenceErrors {
		t.Error("expected SilenceUsage and SilenceErrors to be true")
	}
	if RootCmd.SuggestionsMinimumDistance != 2 {
		t.Errorf("SuggestionsMinimumDistance = %d, want 2", RootCmd.SuggestionsMinimumDistance)
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	found := make(map[string]bool)
	for _, cmd := range RootCmd.Commands() {
		found[cmd.Name()] = true
	}

	for _, expected := range []string{"record", "graph", "apps", "stats", "status", "settings", "verify"} {
		if !found[expected] {
			t.Errorf("expected command '%s' to be registered", expected)
		}
	}
}

func TestRootCommandHasPersistentFlags(t *testing.T) {
	for _, name := range []string{"db", "config", "log-format"} {
		flag := RootCmd.PersistentFlags().Lookup(name)
		if flag == nil {
			t.Errorf("expected --%s flag to be registered", name)
			continue
		}
		if flag.Usage == "" {
			t.Errorf("expected --%s flag to have usage text", name)
		}
	}
}

func TestGetDBPath(t *testing.T) {
	home := isolate(t)

	path, err := getDBPath()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := filepath.Join(home, ".coca", "coca.db"); path != want {
		t.Errorf("default path = %q, want %q", path, want)
	}
	if _, err := os.Stat(filepath.Join(home, ".coca")); err != nil {
		t.Errorf("expected data directory to be created: %v", err)
	}

	dbPath = "/tmp/test.db"
	if path, _ := getDBPath(); path != "/tmp/test.db" {
		t.Errorf("flag path = %q, want /tmp/test.db", path)
	}
}

func TestDefaultDaemonFiles(t *testing.T) {
	home := isolate(t)

	pid, err := getDefaultPIDFile()
	if err != nil {
		t.Fatalf("getDefaultPIDFile() error: %v", err)
	}
	if pid != filepath.Join(home, ".coca", "record.pid") {
		t.Errorf("getDefaultPIDFile() = %q", pid)
	}

	log, err := getDefaultLogFile()
	if err != nil {
		t.Fatalf("getDefaultLogFile() error: %v", err)
	}
	if log != filepath.Join(home, ".coca", "record.log") {
		t.Errorf("getDefaultLogFile() = %q", log)
	}
}

func TestGetSettingsPath(t *testing.T) {
	home := isolate(t)

	path, err := getSettingsPath()
	if err != nil {
		t.Fatalf("getSettingsPath() error: %v", err)
	}
	if want := filepath.Join(home, ".config", "coca", "settings.toml"); path != want {
		t.Errorf("getSettingsPath() = %q, want %q", path, want)
	}

	configPath = "/etc/coca.yaml"
	if path, _ := getSettingsPath(); path != "/etc/coca.yaml" {
		t.Errorf("getSettingsPath() with flag = %q", path)
	}
}

func TestBareInvocation(t *testing.T) {
	isolate(t)

	out, err := execute(t)
	if err != nil {
		t.Fatalf("bare invocation returned error: %v", err)
	}
	if !strings.Contains(out, "coca record") {
		t.Errorf("bare invocation without a database should suggest recording, got: %s", out)
	}
}

func TestHelpExitsZero(t *testing.T) {
	isolate(t)

	if _, err := execute(t, "--help"); err != nil {
		t.Errorf("expected Execute() with --help to succeed, got error: %v", err)
	}
}

func TestUnknownSubcommand(t *testing.T) {
	isolate(t)

	_, err := execute(t, "blorp")
	if err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Errorf("expected unknown command error, got: %v", err)
	}
}
