package live

import (
	"time"

	"mcqkit/internal/grade"
)

// SubmissionRow holds UI state for a single submission.
type SubmissionRow struct {
	Index       int
	Submission  string
	StudentID   string
	StudentName string
	Status      grade.SubmissionEventType
	Points      float64
	MaxPoints   float64
	Skipped     int
	StartedAt   time.Time
	FinishedAt  time.Time
	Error       string
}

// StatusCounts aggregates counts by status bucket.
type StatusCounts struct {
	Queued   int
	Grading  int
	Done     int
	Graded   int
	Failed   int
	Canceled int
}

// State captures the live UI state for a grading batch.
type State struct {
	Title       string
	Total       int
	StartedAt   time.Time
	Finished    bool
	LastEvent   string
	Rows        []SubmissionRow
	Counts      StatusCounts
	PointsSum   float64
	MaxPointSum float64
}

// MeanPoints is the average total over graded submissions.
func (s State) MeanPoints() float64 {
	if s.Counts.Graded == 0 {
		return 0
	}
	return s.PointsSum / float64(s.Counts.Graded)
}
