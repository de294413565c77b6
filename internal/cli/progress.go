package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"sync"

	"mcqkit/internal/grade"
)

// plainObserver prints one line per finished submission.
type plainObserver struct {
	mu       sync.Mutex
	out      io.Writer
	total    int
	finished int
}

func newPlainObserver(out io.Writer) *plainObserver {
	return &plainObserver{out: out}
}

func (p *plainObserver) OnBatchStart(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.total = total
	fmt.Fprintf(p.out, "Grading %d submissions\n", total)
}

func (p *plainObserver) OnSubmissionEvent(event grade.SubmissionEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	name := filepath.Base(event.Submission)
	switch event.Type {
	case grade.SubmissionGraded:
		p.finished++
		fmt.Fprintf(p.out, "[%d/%d] %s: %s (%s) %s/%s\n", p.finished, p.total, name,
			event.StudentName, event.StudentID, formatFloat(event.Points), formatFloat(event.MaxPoints))
	case grade.SubmissionFailed:
		p.finished++
		fmt.Fprintf(p.out, "[%d/%d] %s: failed: %s\n", p.finished, p.total, name, event.Error)
	case grade.SubmissionCanceled:
		p.finished++
		fmt.Fprintf(p.out, "[%d/%d] %s: canceled\n", p.finished, p.total, name)
	}
}

func (p *plainObserver) OnBatchEnd(results []grade.Result) {}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
