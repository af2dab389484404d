package app

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/coca/internal/analyzer"
	"github.com/blackwell-systems/coca/internal/events"
	"github.com/blackwell-systems/coca/internal/keys"
	"github.com/blackwell-systems/coca/internal/store"
)

// captureStdout replaces os.Stdout with a pipe during f(), then restores it
// and returns all bytes written to stdout.
func captureStdout(t *testing.T, f func()) string {
	t.Helper()
	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	os.Stdout = w
	defer func() { os.Stdout = origStdout }()

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		buf.ReadFrom(r)
		done <- buf.String()
	}()

	f()

	w.Close()
	return <-done
}

// resetFlags restores every package-level flag variable to its default.
func resetFlags() {
	dbPath = ""
	configPath = ""
	logFormat = "console"

	recordDaemon = false
	recordDaemonChild = false
	recordPIDFile = ""
	recordLogFile = ""
	recordStop = false

	graphTimeframe = string(analyzer.Day)
	appsTimeframe = string(analyzer.Day)
	statsApp = ""
	statsTimeframe = string(analyzer.Day)
	statsBinWidth = analyzer.DefaultBinWidth

	// cobra keeps flag values between Execute calls.
	resetHelp(RootCmd)
}

func resetHelp(cmd *cobra.Command) {
	if f := cmd.Flags().Lookup("help"); f != nil {
		f.Value.Set("false")
		f.Changed = false
	}
	for _, sub := range cmd.Commands() {
		resetHelp(sub)
	}
}

// isolate points HOME and XDG_CONFIG_HOME at a temp dir for the test.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("NO_COLOR", "1")
	resetFlags()
	t.Cleanup(resetFlags)
	return home
}

// execute runs the root command with args and returns what it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	if args == nil {
		args = []string{}
	}
	var err error
	out := captureStdout(t, func() {
		RootCmd.SetArgs(args)
		err = Execute()
	})
	RootCmd.SetArgs(nil)
	return out, err
}

// seedLog creates a record log at path holding recs.
func seedLog(t *testing.T, path string, recs ...events.Record) {
	t.Helper()
	st, err := store.New(path)
	if err != nil {
		t.Fatalf("store.New() failed: %v", err)
	}
	defer st.Close()

	if err := st.CreateSchema(keys.CurrentVersion); err != nil {
		t.Fatalf("CreateSchema() failed: %v", err)
	}

	seq := keys.NewSequencer(keys.CurrentVersion)
	for _, rec := range recs {
		k := seq.Next(rec.At)
		rec.At = k.Timestamp
		data, err := rec.MarshalBinary()
		if err != nil {
			t.Fatalf("MarshalBinary() failed: %v", err)
		}
		if err := st.Put(k.Bytes(), data); err != nil {
			t.Fatalf("Put() failed: %v", err)
		}
	}
}

func ago(d time.Duration) uint64 {
	return uint64(time.Now().Add(-d).UnixMilli())
}

func press(app string, at uint64, b events.Button) events.Record {
	return events.Record{At: at, Device: "Pad", App: app, Event: events.ButtonPressed(b, 0)}
}

func move(app string, at uint64, a events.Axis, v float32) events.Record {
	return events.Record{At: at, Device: "Pad", App: app, Event: events.AxisChanged(a, v, 0)}
}
