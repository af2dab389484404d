// Package output provides terminal output utilities for coca.
//
// This package includes:
//   - Renderers for graphs, application totals and per-application stats
//   - Progress bars for full-log scans
//   - Spinners for queries of unknown length
//
// Renderers return plain strings. ANSI colors are only emitted when stdout
// is a terminal and NO_COLOR is unset.
package output

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/blackwell-systems/coca/internal/analyzer"
	"github.com/blackwell-systems/coca/internal/events"
)

const (
	colorReset = "\033[0m"
	colorGreen = "\033[32m"
	colorCyan  = "\033[36m"
	colorGray  = "\033[90m"
)

// barWidth is the length of the longest bar in a chart.
const barWidth = 40

// IsColorEnabled returns true if ANSI color codes should be emitted.
// It checks that os.Stdout is a TTY and that the NO_COLOR env var is not set.
func IsColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

func colorize(color, text string) string {
	if IsColorEnabled() {
		return color + text + colorReset
	}
	return text
}

// bar returns a bar for count scaled against max.
func bar(count, max int) string {
	if count <= 0 || max <= 0 {
		return ""
	}
	n := count * barWidth / max
	if n == 0 {
		n = 1
	}
	return strings.Repeat("█", n)
}

// RenderGraph renders buckets as a horizontal bar chart, oldest first.
func RenderGraph(buckets []analyzer.Bucket) string {
	if len(buckets) == 0 {
		return "No buckets.\n"
	}

	max, total, labelWidth := 0, 0, 5
	for _, b := range buckets {
		if b.Count > max {
			max = b.Count
		}
		total += b.Count
		if len(b.Label) > labelWidth {
			labelWidth = len(b.Label)
		}
	}

	var sb strings.Builder
	for _, b := range buckets {
		sb.WriteString(fmt.Sprintf("%-*s %8s %s\n",
			labelWidth, b.Label, humanize.Comma(int64(b.Count)), colorize(colorGreen, bar(b.Count, max))))
	}
	sb.WriteString(strings.Repeat("─", labelWidth+10+barWidth))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("%-*s %8s\n", labelWidth, "Total", humanize.Comma(int64(total))))
	return sb.String()
}

// RenderApplications renders per-application totals in the given order.
func RenderApplications(apps []analyzer.AppUsage) string {
	if len(apps) == 0 {
		return "No input recorded in this timeframe.\n"
	}

	total := 0
	for _, a := range apps {
		total += a.Presses
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-30s %10s %7s\n", "Application", "Events", "Share"))
	sb.WriteString(strings.Repeat("─", 49))
	sb.WriteString("\n")
	for _, a := range apps {
		share := float64(a.Presses) * 100 / float64(total)
		sb.WriteString(fmt.Sprintf("%-30s %10s %6.1f%%\n",
			truncate(a.App, 30), humanize.Comma(int64(a.Presses)), share))
	}
	return sb.String()
}

// RenderAppStats renders button presses, most pressed first, and one
// histogram per axis.
func RenderAppStats(stats *analyzer.AppStats) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s · %s records since %s\n\n",
		colorize(colorCyan, stats.App), humanize.Comma(int64(stats.Records)), humanize.Time(stats.Since)))

	if len(stats.Buttons) == 0 && len(stats.Axes) == 0 {
		sb.WriteString("No button presses or axis movement recorded.\n")
		return sb.String()
	}

	if len(stats.Buttons) > 0 {
		type row struct {
			button events.Button
			count  int
		}
		rows := make([]row, 0, len(stats.Buttons))
		max := 0
		for b, c := range stats.Buttons {
			rows = append(rows, row{b, c})
			if c > max {
				max = c
			}
		}
		sort.Slice(rows, func(i, j int) bool {
			if rows[i].count != rows[j].count {
				return rows[i].count > rows[j].count
			}
			return rows[i].button < rows[j].button
		})

		sb.WriteString(fmt.Sprintf("%-14s %10s\n", "Button", "Presses"))
		sb.WriteString(strings.Repeat("─", 25))
		sb.WriteString("\n")
		for _, r := range rows {
			sb.WriteString(fmt.Sprintf("%-14s %10s %s\n",
				r.button, humanize.Comma(int64(r.count)), colorize(colorGreen, bar(r.count, max))))
		}
	}

	axes := make([]events.Axis, 0, len(stats.Axes))
	for a := range stats.Axes {
		axes = append(axes, a)
	}
	sort.Slice(axes, func(i, j int) bool { return axes[i] < axes[j] })

	for _, axis := range axes {
		sb.WriteString("\n")
		sb.WriteString(renderHistogram(axis.String(), stats.Axes[axis], stats.BinWidth))
	}
	return sb.String()
}

func renderHistogram(name string, h analyzer.Histogram, width float64) string {
	bins := make([]int64, 0, len(h))
	max := 0
	for bin, c := range h {
		bins = append(bins, bin)
		if c > max {
			max = c
		}
	}
	sort.Slice(bins, func(i, j int) bool { return bins[i] < bins[j] })

	var sb strings.Builder
	sb.WriteString(name)
	sb.WriteString("\n")
	for _, bin := range bins {
		lo := float64(bin) * width
		rng := fmt.Sprintf("[%+.2f, %+.2f)", lo, lo+width)
		sb.WriteString(fmt.Sprintf("  %-16s %8s %s\n",
			rng, humanize.Comma(int64(h[bin])), colorize(colorGreen, bar(h[bin], max))))
	}
	return sb.String()
}

// RenderVerifyReport renders the result of a full log scan.
func RenderVerifyReport(r *analyzer.VerifyReport) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Records checked:  %s\n", humanize.Comma(int64(r.Records))))
	sb.WriteString(fmt.Sprintf("Schema mismatch:  %s\n", humanize.Comma(int64(r.Mismatched))))
	sb.WriteString(fmt.Sprintf("Malformed:        %s\n", humanize.Comma(int64(r.Malformed))))
	sb.WriteString(fmt.Sprintf("Out of order:     %s\n", humanize.Comma(int64(r.OutOfOrder))))
	if r.OK() {
		sb.WriteString(colorize(colorGreen, "✓ record log is consistent"))
	} else {
		sb.WriteString(fmt.Sprintf("⚠ first problem: %v", r.FirstProblem))
	}
	sb.WriteString("\n")
	return sb.String()
}

// truncate shortens s to maxLen runes, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// FormatBytes formats a size for display, e.g. "4.2 MB".
func FormatBytes(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}

// FormatCount formats a count with thousands separators.
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}

// Dim renders secondary text in gray when color is enabled.
func Dim(text string) string {
	return colorize(colorGray, text)
}
