package app

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/blackwell-systems/coca/internal/events"
)

func seedDefault(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "coca.db")
	seedLog(t, path,
		press("Skyrim", ago(3*time.Hour), events.ButtonSouth),
		press("Skyrim", ago(2*time.Hour), events.ButtonSouth),
		move("Skyrim", ago(2*time.Hour), events.AxisLeftStickX, 0.5),
		press("Minecraft", ago(time.Hour), events.ButtonStart),
	)
	return path
}

func TestGraphCommand(t *testing.T) {
	isolate(t)
	path := seedDefault(t)

	out, err := execute(t, "graph", "--db", path)
	if err != nil {
		t.Fatalf("graph returned error: %v", err)
	}
	if !strings.Contains(out, "last day") {
		t.Errorf("expected day graph header, got:\n%s", out)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	total := lines[len(lines)-1]
	if !strings.HasPrefix(total, "Total") || !strings.HasSuffix(strings.TrimSpace(total), "4") {
		t.Errorf("total line = %q, want 4 records", total)
	}
}

func TestGraphCommand_UnknownTimeframeIsDay(t *testing.T) {
	isolate(t)
	path := seedDefault(t)

	out, err := execute(t, "graph", "--db", path, "--timeframe", "fortnight")
	if err != nil {
		t.Fatalf("graph returned error: %v", err)
	}
	if !strings.Contains(out, "last day") {
		t.Errorf("unknown timeframe should fall back to day, got:\n%s", out)
	}
}

func TestGraphCommand_NoRecordings(t *testing.T) {
	isolate(t)

	_, err := execute(t, "graph", "--db", filepath.Join(t.TempDir(), "missing.db"))
	if err == nil || !strings.Contains(err.Error(), "coca record") {
		t.Errorf("expected hint to run 'coca record', got: %v", err)
	}
}

func TestAppsCommand_MostRecentFirst(t *testing.T) {
	isolate(t)
	path := seedDefault(t)

	out, err := execute(t, "apps", "--db", path, "--timeframe", "week")
	if err != nil {
		t.Fatalf("apps returned error: %v", err)
	}

	mc := strings.Index(out, "Minecraft")
	sk := strings.Index(out, "Skyrim")
	if mc == -1 || sk == -1 {
		t.Fatalf("expected both applications, got:\n%s", out)
	}
	if mc > sk {
		t.Errorf("most recently played application should be listed first:\n%s", out)
	}
	if !strings.Contains(out, "2 applications") {
		t.Errorf("expected application count, got:\n%s", out)
	}
}

func TestStatsCommand(t *testing.T) {
	isolate(t)
	path := seedDefault(t)

	out, err := execute(t, "stats", "--db", path, "--app", "Skyrim")
	if err != nil {
		t.Fatalf("stats returned error: %v", err)
	}
	for _, want := range []string{"Skyrim", "South", "LeftStickX", "[+0.40, +0.60)"} {
		if !strings.Contains(out, want) {
			t.Errorf("stats output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Start") {
		t.Errorf("stats for Skyrim should not include Minecraft input:\n%s", out)
	}
}

func TestStatsCommand_Validation(t *testing.T) {
	isolate(t)
	path := seedDefault(t)

	if _, err := execute(t, "stats", "--db", path); err == nil || !strings.Contains(err.Error(), "--app") {
		t.Errorf("expected --app required error, got: %v", err)
	}

	resetFlags()
	if _, err := execute(t, "stats", "--db", path, "--app", "Skyrim", "--bin-width", "0"); err == nil {
		t.Error("expected error for zero bin width")
	}
}

func TestStatusCommand(t *testing.T) {
	isolate(t)
	path := seedDefault(t)

	out, err := execute(t, "status", "--db", path)
	if err != nil {
		t.Fatalf("status returned error: %v", err)
	}
	for _, want := range []string{"stopped", "Records:    4", "Precision:  0", "First:", "Last:"} {
		if !strings.Contains(out, want) {
			t.Errorf("status output missing %q:\n%s", want, out)
		}
	}
}

func TestStatusCommand_NoDatabase(t *testing.T) {
	isolate(t)

	out, err := execute(t, "status", "--db", filepath.Join(t.TempDir(), "missing.db"))
	if err != nil {
		t.Fatalf("status returned error: %v", err)
	}
	if !strings.Contains(out, "not created") {
		t.Errorf("expected missing database to be reported, got:\n%s", out)
	}
}

func TestVerifyCommand(t *testing.T) {
	isolate(t)
	path := seedDefault(t)

	out, err := execute(t, "verify", "--db", path)
	if err != nil {
		t.Fatalf("verify returned error: %v", err)
	}
	if !strings.Contains(out, "100%") {
		t.Errorf("expected completed progress bar, got:\n%s", out)
	}
	if !strings.Contains(out, "consistent") {
		t.Errorf("expected consistent log, got:\n%s", out)
	}
}
