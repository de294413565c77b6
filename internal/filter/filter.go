// Package filter narrows question sequences. Filters are pure: they preserve
// input order and never mutate their input.
package filter

import (
	"errors"
	"fmt"

	"mcqkit/internal/question"
)

// ErrUnknownType indicates a filter configuration with an unregistered type.
var ErrUnknownType = errors.New("unknown filter type")

// ErrInvalidConfig indicates a filter configuration or constructor argument
// that cannot produce a filter.
var ErrInvalidConfig = errors.New("invalid filter configuration")

// ErrUnknownDifficulty indicates a difficulty expression naming an unknown level.
var ErrUnknownDifficulty = errors.New("unknown difficulty level")

// ErrInvalidDate indicates a date expression that cannot be parsed.
var ErrInvalidDate = errors.New("invalid date expression")

// UnknownTypeError names the unregistered filter type.
type UnknownTypeError struct {
	Type string
}

// Error returns a message naming the type.
func (err *UnknownTypeError) Error() string {
	return fmt.Sprintf("Unknown filter type: %s", err.Type)
}

// Unwrap lets errors.Is match ErrUnknownType.
func (err *UnknownTypeError) Unwrap() error {
	return ErrUnknownType
}

// Filter maps a question sequence to an order-preserving subsequence.
type Filter interface {
	Apply(questions []question.Question) []question.Question
}

// Func adapts a keep-predicate into a Filter.
type Func func(q question.Question) bool

// Apply keeps questions for which fn returns true.
func (fn Func) Apply(questions []question.Question) []question.Question {
	return keep(questions, fn)
}

func keep(questions []question.Question, match func(question.Question) bool) []question.Question {
	kept := make([]question.Question, 0, len(questions))
	for _, q := range questions {
		if match(q) {
			kept = append(kept, q)
		}
	}
	return kept
}

// And combines a and b into a composite. Composite operands are flattened so
// chaining appends instead of nesting.
func And(a, b Filter) *CompositeFilter {
	var filters []Filter
	for _, f := range []Filter{a, b} {
		if composite, ok := f.(*CompositeFilter); ok {
			filters = append(filters, composite.filters...)
			continue
		}
		filters = append(filters, f)
	}
	return Composite(filters...)
}
