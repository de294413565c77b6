package grade

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"mcqkit/internal/form"
)

// Submission is one filled answer sheet awaiting grading.
type Submission struct {
	// ID names the submission in results and logs, usually its file path.
	ID string
	// Load returns the submission's raw fields.
	Load func(ctx context.Context) (form.Fields, error)
}

// FileSubmission reads a JSON submission from path when graded.
func FileSubmission(path string) Submission {
	return Submission{
		ID: path,
		Load: func(ctx context.Context) (form.Fields, error) {
			return form.LoadFields(ctx, path)
		},
	}
}

// FieldsSubmission wraps fields already in memory.
func FieldsSubmission(id string, fields form.Fields) Submission {
	return Submission{
		ID: id,
		Load: func(context.Context) (form.Fields, error) {
			return fields, nil
		},
	}
}

// Result is the outcome of one submission in a batch.
type Result struct {
	Submission string
	Set        GradedSet
	Err        error
}

// BatchOptions configures GradeBatch.
type BatchOptions struct {
	// Workers bounds concurrency; values below one grade sequentially.
	Workers  int
	Observer Observer
}

// GradeBatch grades submissions concurrently. A failing submission records
// its error in its Result and does not affect the others. Results keep the
// order of submissions. When ctx is canceled, submissions not yet started are
// marked with the context error and GradeBatch returns it.
func (g *Grader) GradeBatch(ctx context.Context, submissions []Submission, opts BatchOptions) ([]Result, error) {
	observer := opts.Observer
	if observer == nil {
		observer = nopObserver{}
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	observer.OnBatchStart(len(submissions))
	for index, submission := range submissions {
		observer.OnSubmissionEvent(SubmissionEvent{Index: index, Submission: submission.ID, Type: SubmissionQueued, EmittedAt: time.Now()})
	}

	results := make([]Result, len(submissions))
	group := &errgroup.Group{}
	group.SetLimit(workers)
	for index, submission := range submissions {
		group.Go(func() error {
			results[index] = g.gradeOne(ctx, index, submission, observer)
			return nil
		})
	}
	_ = group.Wait()

	observer.OnBatchEnd(results)
	return results, ctx.Err()
}

func (g *Grader) gradeOne(ctx context.Context, index int, submission Submission, observer Observer) Result {
	result := Result{Submission: submission.ID}
	if err := ctx.Err(); err != nil {
		result.Err = err
		observer.OnSubmissionEvent(SubmissionEvent{Index: index, Submission: submission.ID, Type: SubmissionCanceled, Error: err.Error(), EmittedAt: time.Now()})
		return result
	}
	observer.OnSubmissionEvent(SubmissionEvent{Index: index, Submission: submission.ID, Type: SubmissionGrading, EmittedAt: time.Now()})

	result.Set, result.Err = g.safeGrade(ctx, submission)
	if result.Err != nil {
		g.logger.Warn("submission failed", "submission", submission.ID, "error", result.Err)
		observer.OnSubmissionEvent(SubmissionEvent{Index: index, Submission: submission.ID, Type: SubmissionFailed, Error: result.Err.Error(), EmittedAt: time.Now()})
		return result
	}
	observer.OnSubmissionEvent(SubmissionEvent{
		Index:       index,
		Submission:  submission.ID,
		Type:        SubmissionGraded,
		StudentID:   result.Set.StudentID,
		StudentName: result.Set.StudentName,
		Points:      result.Set.Points,
		MaxPoints:   result.Set.MaxPoints,
		Skipped:     len(result.Set.Skipped),
		EmittedAt:   time.Now(),
	})
	return result
}

// safeGrade turns a panic while grading into an error for that submission.
func (g *Grader) safeGrade(ctx context.Context, submission Submission) (set GradedSet, err error) {
	defer func() {
		if r := recover(); r != nil {
			set, err = GradedSet{}, fmt.Errorf("grading panicked: %v", r)
		}
	}()
	return g.gradeSubmission(ctx, submission)
}

func (g *Grader) gradeSubmission(ctx context.Context, submission Submission) (GradedSet, error) {
	if submission.Load == nil {
		return GradedSet{}, errors.New("submission has no loader")
	}
	fields, err := submission.Load(ctx)
	if err != nil {
		return GradedSet{}, err
	}
	return g.GradeFields(fields)
}
