package focus

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// X11Probe reports the foreground application of the X11 session named by
// DISPLAY. It asks xdotool first and falls back to xprop.
func X11Probe(ctx context.Context) (string, error) {
	if os.Getenv("DISPLAY") == "" {
		return "", ErrNoDisplay
	}
	if app, err := probeXdotool(ctx); err == nil && app != "" {
		return app, nil
	}
	return probeXprop(ctx)
}

func probeXdotool(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, "xdotool", "getactivewindow").Output()
	if err != nil {
		return "", err
	}
	windowID := strings.TrimSpace(string(out))

	if out, err := exec.CommandContext(ctx, "xdotool", "getwindowpid", windowID).Output(); err == nil {
		if pid, err := strconv.Atoi(strings.TrimSpace(string(out))); err == nil {
			if name := processName(pid); name != "" {
				return name, nil
			}
		}
	}

	out, err = exec.CommandContext(ctx, "xdotool", "getwindowname", windowID).Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

func probeXprop(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, "xprop", "-root", "_NET_ACTIVE_WINDOW").Output()
	if err != nil {
		return "", err
	}
	windowID, err := parseActiveWindow(string(out))
	if err != nil {
		return "", err
	}

	out, err = exec.CommandContext(ctx, "xprop", "-id", windowID, "WM_CLASS").Output()
	if err != nil {
		return "", err
	}
	return parseWMClass(string(out))
}

// parseActiveWindow extracts the id from "_NET_ACTIVE_WINDOW(WINDOW): window id # 0x4a00007".
func parseActiveWindow(out string) (string, error) {
	parts := strings.Fields(out)
	if len(parts) < 5 {
		return "", errors.New("failed to parse xprop output")
	}
	id := strings.TrimSuffix(parts[len(parts)-1], ",")
	if id == "0x0" {
		return "", errors.New("no active window")
	}
	return id, nil
}

// parseWMClass returns the class part of `WM_CLASS(STRING) = "instance", "Class"`.
func parseWMClass(out string) (string, error) {
	idx := strings.Index(out, "=")
	if idx == -1 {
		return "", fmt.Errorf("failed to parse WM_CLASS: %q", strings.TrimSpace(out))
	}
	fields := strings.Split(out[idx+1:], ",")
	name := strings.Trim(strings.TrimSpace(fields[len(fields)-1]), `"`)
	if name == "" {
		return "", errors.New("empty WM_CLASS")
	}
	return name, nil
}

func processName(pid int) string {
	if pid <= 0 {
		return ""
	}
	if target, err := os.Readlink(fmt.Sprintf("/proc/%d/exe", pid)); err == nil {
		return filepath.Base(target)
	}
	if comm, err := os.ReadFile(fmt.Sprintf("/proc/%d/comm", pid)); err == nil {
		return strings.TrimSpace(string(comm))
	}
	return ""
}
