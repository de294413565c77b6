package live

import (
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// defaultColumns returns the column layout for an unknown terminal width.
func defaultColumns() []table.Column {
	return columnsForWidth(100)
}

// columnsForWidth sizes the flexible columns to the terminal width.
func columnsForWidth(width int) []table.Column {
	const fixed = 5 + 14 + 12 + 10
	flex := width - fixed - 10
	if flex < 30 {
		flex = 30
	}
	return []table.Column{
		{Title: "#", Width: 5},
		{Title: "Submission", Width: flex / 2},
		{Title: "Student", Width: flex - flex/2},
		{Title: "Status", Width: 14},
		{Title: "Score", Width: 12},
		{Title: "Time", Width: 10},
	}
}

// tableStyles returns table styles for the UI.
func tableStyles(noColor bool) table.Styles {
	if noColor {
		return table.DefaultStyles()
	}
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(lipgloss.Color("252"))
	return styles
}

// rowsForState converts UI state into table rows.
func rowsForState(state State, now time.Time, noColor bool) []table.Row {
	rows := make([]table.Row, 0, len(state.Rows))
	for _, row := range state.Rows {
		rows = append(rows, table.Row{
			formatIndex(row.Index),
			formatSubmission(row),
			formatStudent(row),
			formatStatus(row, noColor),
			formatScore(row),
			formatRowDuration(row, now),
		})
	}
	return rows
}
