package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/JonMunkholm/errgrid/internal/highlight"
)

var (
	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#D2232A"))

	successStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#50FA7B"))

	pathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#BD93F9"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6272A4"))
)

// FormatErrorMessage renders msg for stderr.
func FormatErrorMessage(msg string) string {
	return errorStyle.Render("✗ ") + msg
}

// FormatResults renders one line per workbook followed by a total.
func FormatResults(results []StyleResult) string {
	var (
		b              strings.Builder
		styled, failed int
	)
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(&b, "%s %s\n  %s\n", errorStyle.Render("✗"), pathStyle.Render(r.Path), r.Err)
			continue
		}
		styled += r.Summary.Styled
		fmt.Fprintf(&b, "%s %s %s\n", successStyle.Render("✓"), pathStyle.Render(r.Output),
			mutedStyle.Render(fmt.Sprintf("%d/%d cells styled%s", r.Summary.Styled, r.Summary.Cells, outcomeBreakdown(r.Summary.Outcomes))))
		if n := len(r.Summary.Malformed); n > 0 {
			fmt.Fprintf(&b, "  %d malformed cell address(es) skipped\n", n)
		}
	}

	total := fmt.Sprintf("%d workbook(s), %d cell(s) styled", len(results)-failed, styled)
	if failed > 0 {
		b.WriteString(errorStyle.Render(fmt.Sprintf("%s, %d failed", total, failed)))
	} else {
		b.WriteString(successStyle.Render(total))
	}
	return b.String()
}

func outcomeBreakdown(counts map[highlight.Outcome]int) string {
	var parts []string
	for _, o := range highlight.Outcomes {
		if n := counts[o]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", o, n))
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, ", ") + ")"
}

// FormatConversions renders the letters command output.
func FormatConversions(convs []Conversion) string {
	lines := make([]string, len(convs))
	for i, c := range convs {
		lines[i] = fmt.Sprintf("%s %s %s", c.Input, mutedStyle.Render("→"), c.Output)
	}
	return strings.Join(lines, "\n")
}
