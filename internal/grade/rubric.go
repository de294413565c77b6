package grade

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrOnehotLength indicates student and key vectors of different length.
var ErrOnehotLength = errors.New("onehot length mismatch")

// ErrUnknownRubric indicates a rubric name that is not registered.
var ErrUnknownRubric = errors.New("unknown rubric")

// Rubric scores one question from the student's and the key's onehot vectors.
// Scores are within [0, maxPoints].
type Rubric interface {
	Score(student, correct []int, maxPoints float64) (float64, error)
}

// RubricFunc adapts a function to Rubric.
type RubricFunc func(student, correct []int, maxPoints float64) (float64, error)

// Score calls fn.
func (fn RubricFunc) Score(student, correct []int, maxPoints float64) (float64, error) {
	return fn(student, correct, maxPoints)
}

// StrictRubric awards full points only for an exact match.
type StrictRubric struct{}

// Score implements Rubric.
func (StrictRubric) Score(student, correct []int, maxPoints float64) (float64, error) {
	if err := checkLengths(student, correct); err != nil {
		return 0, err
	}
	for i := range correct {
		if student[i] != correct[i] {
			return 0, nil
		}
	}
	return maxPoints, nil
}

// PartialCreditRubric awards the fraction of correct options selected, and
// nothing when any incorrect option is selected.
type PartialCreditRubric struct{}

// Score implements Rubric.
func (PartialCreditRubric) Score(student, correct []int, maxPoints float64) (float64, error) {
	hits, falsePositives, total, err := tally(student, correct)
	if err != nil {
		return 0, err
	}
	if falsePositives > 0 || total == 0 {
		return 0, nil
	}
	return maxPoints * float64(hits) / float64(total), nil
}

// PenaltyRubric awards a share per correct option selected and deducts
// Penalty shares per incorrect option selected, clamped to [0, maxPoints].
type PenaltyRubric struct {
	Penalty float64
}

// Score implements Rubric.
func (r PenaltyRubric) Score(student, correct []int, maxPoints float64) (float64, error) {
	hits, falsePositives, total, err := tally(student, correct)
	if err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, nil
	}
	penalty := r.Penalty
	if penalty == 0 {
		penalty = 1
	}
	share := maxPoints / float64(total)
	score := share*float64(hits) - penalty*share*float64(falsePositives)
	return math.Max(0, math.Min(maxPoints, score)), nil
}

func checkLengths(student, correct []int) error {
	if len(student) != len(correct) {
		return fmt.Errorf("%w: student %d, key %d", ErrOnehotLength, len(student), len(correct))
	}
	return nil
}

func tally(student, correct []int) (hits, falsePositives, total int, err error) {
	if err := checkLengths(student, correct); err != nil {
		return 0, 0, 0, err
	}
	for i := range correct {
		switch {
		case correct[i] == 1 && student[i] == 1:
			hits++
		case correct[i] == 0 && student[i] == 1:
			falsePositives++
		}
		if correct[i] == 1 {
			total++
		}
	}
	return hits, falsePositives, total, nil
}

// RubricNames lists the names accepted by RubricByName.
var RubricNames = []string{"strict", "partial", "penalty"}

// RubricByName returns the rubric registered under name. An empty name means strict.
func RubricByName(name string) (Rubric, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "strict":
		return StrictRubric{}, nil
	case "partial", "partial_credit":
		return PartialCreditRubric{}, nil
	case "penalty":
		return PenaltyRubric{Penalty: 1}, nil
	default:
		return nil, fmt.Errorf("%w: %q (expected one of %s)", ErrUnknownRubric, name, strings.Join(RubricNames, ", "))
	}
}
