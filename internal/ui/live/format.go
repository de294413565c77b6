package live

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"mcqkit/internal/grade"
)

// formatIndex formats a submission index.
func formatIndex(index int) string {
	return "#" + pad2(index+1)
}

// pad2 left-pads a number to two digits when needed.
func pad2(value int) string {
	if value >= 10 {
		return fmtInt(value)
	}
	return "0" + fmtInt(value)
}

// fmtInt converts an int to string.
func fmtInt(value int) string {
	return strconv.Itoa(value)
}

// formatPoints renders points without trailing zeros.
func formatPoints(points float64) string {
	return strconv.FormatFloat(points, 'f', -1, 64)
}

// formatSubmission shortens a submission path for display.
func formatSubmission(row SubmissionRow) string {
	if row.Submission == "" {
		return ""
	}
	name := filepath.Base(row.Submission)
	const limit = 40
	if len(name) <= limit {
		return name
	}
	return name[:limit-3] + "..."
}

// formatStudent renders the student column.
func formatStudent(row SubmissionRow) string {
	name := strings.Join(strings.Fields(row.StudentName), " ")
	switch {
	case name != "" && row.StudentID != "":
		return name + " (" + row.StudentID + ")"
	case name != "":
		return name
	default:
		return row.StudentID
	}
}

// formatScore renders points for finished rows.
func formatScore(row SubmissionRow) string {
	if row.Status != grade.SubmissionGraded {
		return ""
	}
	score := formatPoints(row.Points) + "/" + formatPoints(row.MaxPoints)
	if row.Skipped > 0 {
		score += " (" + fmtInt(row.Skipped) + " skipped)"
	}
	return score
}

// formatStatus renders a status string for a row.
func formatStatus(row SubmissionRow, noColor bool) string {
	text := string(row.Status)
	if row.Status == grade.SubmissionFailed && row.Error != "" {
		text += ": " + row.Error
	}
	return stylizeStatus(text, row.Status, noColor)
}

// formatRowDuration returns elapsed or total time for a row.
func formatRowDuration(row SubmissionRow, now time.Time) string {
	if !row.FinishedAt.IsZero() && !row.StartedAt.IsZero() {
		return formatDuration(row.FinishedAt.Sub(row.StartedAt))
	}
	if !row.StartedAt.IsZero() {
		return formatDuration(now.Sub(row.StartedAt))
	}
	return ""
}

// formatDuration renders a rounded duration for display.
func formatDuration(duration time.Duration) string {
	if duration <= 0 {
		return "0s"
	}
	return duration.Round(time.Millisecond).String()
}

// stylizeStatus applies status coloring when enabled.
func stylizeStatus(text string, status grade.SubmissionEventType, noColor bool) string {
	if noColor {
		return text
	}
	return statusStyle(status).Render(text)
}

// statusStyle selects a style for a given status.
func statusStyle(status grade.SubmissionEventType) lipgloss.Style {
	color := lipgloss.Color("244")
	switch status {
	case grade.SubmissionGraded:
		color = lipgloss.Color("42")
	case grade.SubmissionFailed:
		color = lipgloss.Color("196")
	case grade.SubmissionCanceled:
		color = lipgloss.Color("220")
	case grade.SubmissionGrading:
		color = lipgloss.Color("33")
	case grade.SubmissionQueued:
		color = lipgloss.Color("246")
	}
	return lipgloss.NewStyle().Foreground(color)
}
