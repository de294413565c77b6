package live

import (
	"time"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the batch header line.
func renderHeader(state State, now time.Time, noColor bool) string {
	title := state.Title
	if title == "" {
		title = "Grading"
	}
	line := title + " | Submissions: " + fmtInt(state.Total)
	if !state.StartedAt.IsZero() {
		line += " | Elapsed: " + now.Sub(state.StartedAt).Round(100*time.Millisecond).String()
	}
	return stylize(line, noColor, lipgloss.Color("33"))
}

// renderSummary renders the status counts line.
func renderSummary(state State, noColor bool) string {
	counts := state.Counts
	line := "Queued: " + fmtInt(counts.Queued) +
		" Grading: " + fmtInt(counts.Grading) +
		" Done: " + fmtInt(counts.Done) +
		" Graded: " + fmtInt(counts.Graded) +
		" Failed: " + fmtInt(counts.Failed) +
		" Canceled: " + fmtInt(counts.Canceled)
	if counts.Graded > 0 {
		line += " Mean: " + formatPoints(roundPoints(state.MeanPoints()))
	}
	return stylize(line, noColor, lipgloss.Color("242"))
}

// renderFooter renders the last event line.
func renderFooter(state State, noColor bool) string {
	if state.LastEvent == "" {
		return ""
	}
	return stylize("Last event: "+state.LastEvent, noColor, lipgloss.Color("244"))
}

// stylize applies optional color styling.
func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}

func roundPoints(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
