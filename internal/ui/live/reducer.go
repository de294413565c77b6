package live

import (
	"fmt"

	"mcqkit/internal/grade"
)

// Reduce applies a submission event to the UI state.
func Reduce(state State, event grade.SubmissionEvent) State {
	state = ensureRow(state, event)
	state = applySubmissionEvent(state, event)
	state.Counts, state.PointsSum, state.MaxPointSum = recount(state.Rows)
	if message := formatLastEvent(event); message != "" {
		state.LastEvent = message
	}
	return state
}

// ensureRow grows the state rows to include the target index.
func ensureRow(state State, event grade.SubmissionEvent) State {
	if event.Index < 0 {
		return state
	}
	if event.Index < len(state.Rows) {
		return state
	}
	rows := make([]SubmissionRow, event.Index+1)
	copy(rows, state.Rows)
	for i := len(state.Rows); i < len(rows); i++ {
		rows[i] = SubmissionRow{Index: i, Status: grade.SubmissionQueued}
	}
	state.Rows = rows
	return state
}

// applySubmissionEvent updates a row with the given event.
func applySubmissionEvent(state State, event grade.SubmissionEvent) State {
	if event.Index < 0 || event.Index >= len(state.Rows) {
		return state
	}
	row := state.Rows[event.Index]
	if row.Submission == "" {
		row.Submission = event.Submission
	}
	// Terminal rows never move back to an earlier status.
	if isTerminalStatus(row.Status) {
		return state
	}
	row.Status = event.Type
	if event.Type == grade.SubmissionGrading && row.StartedAt.IsZero() {
		row.StartedAt = event.EmittedAt
	}
	if isTerminalStatus(event.Type) {
		if !event.EmittedAt.IsZero() {
			row.FinishedAt = event.EmittedAt
		}
		row.StudentID = event.StudentID
		row.StudentName = event.StudentName
		row.Points = event.Points
		row.MaxPoints = event.MaxPoints
		row.Skipped = event.Skipped
		row.Error = event.Error
	}
	state.Rows[event.Index] = row
	return state
}

// isTerminalStatus reports whether a status is final.
func isTerminalStatus(status grade.SubmissionEventType) bool {
	switch status {
	case grade.SubmissionGraded,
		grade.SubmissionFailed,
		grade.SubmissionCanceled:
		return true
	default:
		return false
	}
}

// recount recomputes status counts and point sums for the current rows.
func recount(rows []SubmissionRow) (StatusCounts, float64, float64) {
	var counts StatusCounts
	var points, maxPoints float64
	for _, row := range rows {
		switch row.Status {
		case grade.SubmissionQueued:
			counts.Queued++
		case grade.SubmissionGrading:
			counts.Grading++
		case grade.SubmissionGraded:
			counts.Done++
			counts.Graded++
			points += row.Points
			maxPoints += row.MaxPoints
		case grade.SubmissionFailed:
			counts.Done++
			counts.Failed++
		case grade.SubmissionCanceled:
			counts.Done++
			counts.Canceled++
		}
	}
	return counts, points, maxPoints
}

// formatLastEvent creates a short footer message for the event.
func formatLastEvent(event grade.SubmissionEvent) string {
	label := event.Submission
	if label == "" {
		label = formatIndex(event.Index)
	}
	switch event.Type {
	case grade.SubmissionGraded:
		who := event.StudentName
		if who == "" {
			who = event.StudentID
		}
		return fmt.Sprintf("%s graded %s: %s/%s", label, who, formatPoints(event.Points), formatPoints(event.MaxPoints))
	case grade.SubmissionFailed:
		return fmt.Sprintf("%s failed: %s", label, event.Error)
	case grade.SubmissionCanceled:
		return fmt.Sprintf("%s canceled", label)
	}
	return ""
}
