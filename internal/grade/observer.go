package grade

import "time"

// SubmissionEventType identifies a submission status update for observers.
type SubmissionEventType string

const (
	// SubmissionQueued marks a submission known but not yet started.
	SubmissionQueued SubmissionEventType = "queued"
	// SubmissionGrading marks a submission being read and graded.
	SubmissionGrading SubmissionEventType = "grading"
	// SubmissionGraded marks a successfully graded submission.
	SubmissionGraded SubmissionEventType = "graded"
	// SubmissionFailed marks a submission that could not be graded.
	SubmissionFailed SubmissionEventType = "failed"
	// SubmissionCanceled marks a submission abandoned after cancellation.
	SubmissionCanceled SubmissionEventType = "canceled"
)

// SubmissionEvent carries a single status update for a submission.
type SubmissionEvent struct {
	Index       int
	Submission  string
	Type        SubmissionEventType
	StudentID   string
	StudentName string
	Points      float64
	MaxPoints   float64
	Skipped     int
	Error       string
	EmittedAt   time.Time
}

// Observer receives batch grading lifecycle events for UI or logging.
// Calls may come from several goroutines.
type Observer interface {
	// OnBatchStart signals the start of a batch.
	OnBatchStart(total int)
	// OnSubmissionEvent delivers a submission status update.
	OnSubmissionEvent(event SubmissionEvent)
	// OnBatchEnd signals batch completion.
	OnBatchEnd(results []Result)
}

type nopObserver struct{}

func (nopObserver) OnBatchStart(int)                   {}
func (nopObserver) OnSubmissionEvent(SubmissionEvent) {}
func (nopObserver) OnBatchEnd([]Result)               {}
