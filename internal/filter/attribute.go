package filter

import "mcqkit/internal/question"

// Accessor reads one attribute of a question. ok is false when the question
// does not carry the attribute.
type Accessor[T any] func(q question.Question) (value T, ok bool)

// Predicate compares an attribute value against the configured one.
type Predicate[T any] func(got, want T) bool

// Field accessors for Attribute filters.
var (
	SlugField Accessor[string] = func(q question.Question) (string, bool) {
		return q.Slug(), q.Slug() != ""
	}
	QIDField Accessor[string] = func(q question.Question) (string, bool) {
		return q.QID(), q.QID() != ""
	}
	TypeField Accessor[question.Type] = func(q question.Question) (question.Type, bool) {
		return q.Type(), q.Type() != ""
	}
	DifficultyField Accessor[string] = func(q question.Question) (string, bool) {
		return q.Difficulty(), q.Difficulty() != ""
	}
	CreatedDateField Accessor[string] = func(q question.Question) (string, bool) {
		return q.CreatedDate(), q.CreatedDate() != ""
	}
	ExplanationField Accessor[string] = func(q question.Question) (string, bool) {
		return q.Explanation(), q.Explanation() != ""
	}
	PointValueField Accessor[int] = func(q question.Question) (int, bool) {
		return q.PointValue(), true
	}
	TagsField Accessor[[]string] = func(q question.Question) ([]string, bool) {
		tags := q.Tags()
		return tags, len(tags) > 0
	}
)

// AttributeFilter keeps questions whose attribute satisfies a predicate.
// Questions missing the attribute never match.
type AttributeFilter[T any] struct {
	access Accessor[T]
	value  T
	match  Predicate[T]
}

// Attribute builds a filter comparing the attribute read by access against
// value with match. match must not be nil.
func Attribute[T any](access Accessor[T], value T, match Predicate[T]) *AttributeFilter[T] {
	return &AttributeFilter[T]{access: access, value: value, match: match}
}

// Equal builds an Attribute filter that keeps questions whose attribute equals value.
func Equal[T comparable](access Accessor[T], value T) *AttributeFilter[T] {
	return Attribute(access, value, func(got, want T) bool { return got == want })
}

// Matches reports whether q passes the filter.
func (f *AttributeFilter[T]) Matches(q question.Question) bool {
	got, ok := f.access(q)
	if !ok {
		return false
	}
	return f.match(got, f.value)
}

// Apply keeps matching questions.
func (f *AttributeFilter[T]) Apply(questions []question.Question) []question.Question {
	return keep(questions, f.Matches)
}
