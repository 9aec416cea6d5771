package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/devlens/pkg/portfolio"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary accents
	colorGreen  = lipgloss.Color("35")  // Green - good
	colorYellow = lipgloss.Color("220") // Amber - warn
	colorRed    = lipgloss.Color("167") // Soft red - risk
	colorBlue   = lipgloss.Color("75")  // Light blue - links
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleLink for URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	// StyleRisk for risk messages.
	StyleRisk = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleSection = lipgloss.NewStyle().Bold(true).Foreground(colorWhite).MarginTop(1)
	styleKey     = lipgloss.NewStyle().Foreground(colorGray).Width(14)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconBullet  = "•"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// printKeyValue prints a labeled value.
func printKeyValue(w io.Writer, key, value string) {
	fmt.Fprintln(w, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// printSection prints a section heading.
func printSection(w io.Writer, title string) {
	fmt.Fprintln(w, styleSection.Render(title))
}

// printBullets prints items with the given style, or a dim placeholder when
// there are none.
func printBullets(w io.Writer, items []string, style lipgloss.Style) {
	if len(items) == 0 {
		fmt.Fprintln(w, "  "+StyleDim.Render("none"))
		return
	}
	for _, it := range items {
		fmt.Fprintln(w, "  "+style.Render(iconBullet)+" "+it)
	}
}

// =============================================================================
// Score Styling
// =============================================================================

// severityStyle colors a readiness or verdict severity.
func severityStyle(severity string) lipgloss.Style {
	switch severity {
	case portfolio.SeverityGood:
		return StyleSuccess
	case portfolio.SeverityWarn:
		return StyleWarning
	default:
		return StyleRisk
	}
}

// scoreStyle colors a 0-100 score with the readiness thresholds.
func scoreStyle(score int) lipgloss.Style {
	switch {
	case score >= 70:
		return StyleSuccess
	case score >= 55:
		return StyleWarning
	default:
		return StyleRisk
	}
}

// scoreBar renders score as a bar of width cells.
func scoreBar(score, width int) string {
	score = min(max(score, 0), 100)
	filled := (score*width + 50) / 100
	return scoreStyle(score).Render(strings.Repeat("█", filled)) +
		StyleDim.Render(strings.Repeat("░", width-filled))
}
