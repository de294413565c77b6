package question

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// ErrInvalidPermutation indicates a permutation that is not a bijection over the choices.
var ErrInvalidPermutation = errors.New("invalid permutation")

// IdentityPermutation returns [0, 1, ..., n-1].
func IdentityPermutation(n int) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	return perm
}

// ValidatePermutation checks that perm is a bijection over [0, n).
func ValidatePermutation(perm []int, n int) error {
	if len(perm) != n {
		return fmt.Errorf("%w: length %d, expected %d", ErrInvalidPermutation, len(perm), n)
	}
	seen := make([]bool, n)
	for position, index := range perm {
		if index < 0 || index >= n {
			return fmt.Errorf("%w: position %d holds out-of-range index %d", ErrInvalidPermutation, position, index)
		}
		if seen[index] {
			return fmt.Errorf("%w: index %d appears more than once", ErrInvalidPermutation, index)
		}
		seen[index] = true
	}
	return nil
}

// RandomPermutation returns a uniformly random permutation of n elements.
func RandomPermutation(n int, rng *rand.Rand) []int {
	return rng.Perm(n)
}

// PresentedCorrect maps each original correct index, in stored order, to its
// presentation position under perm. perm must be valid for the indices given.
func PresentedCorrect(perm, correct []int) ([]int, error) {
	positions := make([]int, len(perm))
	for i := range positions {
		positions[i] = -1
	}
	for position, index := range perm {
		if index >= 0 && index < len(positions) {
			positions[index] = position
		}
	}
	presented := make([]int, 0, len(correct))
	for _, index := range correct {
		if index < 0 || index >= len(positions) || positions[index] < 0 {
			return nil, fmt.Errorf("%w: correct index %d is not in the permutation", ErrInvalidPermutation, index)
		}
		presented = append(presented, positions[index])
	}
	return presented, nil
}

// Onehot returns a vector of length n with ones at the given positions.
func Onehot(n int, positions []int) []int {
	vector := make([]int, n)
	for _, position := range positions {
		if position >= 0 && position < n {
			vector[position] = 1
		}
	}
	return vector
}

// PresentedCorrect returns the presentation positions of the correct choices.
func (q Question) PresentedCorrect() []int {
	// Permutation and correct answers are validated in New.
	presented, _ := PresentedCorrect(q.permutation, q.correctAnswers)
	return presented
}

// CorrectOnehot returns the correct-answer indicator in presentation order.
func (q Question) CorrectOnehot() []int {
	return Onehot(len(q.choices), q.PresentedCorrect())
}

// PresentedChoices returns the choices in presentation order.
func (q Question) PresentedChoices() []string {
	presented := make([]string, len(q.permutation))
	for position, index := range q.permutation {
		presented[position] = q.choices[index]
	}
	return presented
}

// WithPermutation returns a copy of q presented under perm.
func (q Question) WithPermutation(perm []int) (Question, error) {
	if err := ValidatePermutation(perm, len(q.choices)); err != nil {
		return Question{}, fmt.Errorf("question %q: %w", q.slug, err)
	}
	next := q
	next.permutation = cloneInts(perm)
	return next, nil
}
