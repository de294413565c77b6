package filter

import "mcqkit/internal/question"

// CompositeFilter applies its filters in sequence; the result is the
// intersection of what each would keep.
type CompositeFilter struct {
	filters []Filter
}

// Composite builds a filter that applies filters in order. Nil filters are skipped.
func Composite(filters ...Filter) *CompositeFilter {
	kept := make([]Filter, 0, len(filters))
	for _, f := range filters {
		if f != nil {
			kept = append(kept, f)
		}
	}
	return &CompositeFilter{filters: kept}
}

// Filters returns the component filters.
func (c *CompositeFilter) Filters() []Filter {
	return append([]Filter(nil), c.filters...)
}

// Apply runs each filter on the output of the previous one.
func (c *CompositeFilter) Apply(questions []question.Question) []question.Question {
	result := append([]question.Question(nil), questions...)
	for _, f := range c.filters {
		result = f.Apply(result)
	}
	return result
}
