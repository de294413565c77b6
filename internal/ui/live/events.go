package live

import "mcqkit/internal/grade"

// EventKind identifies the type of live UI event.
type EventKind int

const (
	// EventBatchStart signals the start of a grading batch.
	EventBatchStart EventKind = iota
	// EventSubmission delivers a submission status update.
	EventSubmission
	// EventBatchEnd signals batch completion.
	EventBatchEnd
)

// Event carries a UI update payload.
type Event struct {
	Kind       EventKind
	Total      int
	Failed     int
	Submission grade.SubmissionEvent
}
