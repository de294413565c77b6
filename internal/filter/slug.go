package filter

import "mcqkit/internal/question"

// SlugFilter keeps (or with exclude drops) questions with the listed slugs.
type SlugFilter struct {
	slugs   map[string]struct{}
	exclude bool
}

// Slug builds a slug membership filter.
func Slug(slugs []string, exclude bool) *SlugFilter {
	set := make(map[string]struct{}, len(slugs))
	for _, slug := range slugs {
		set[slug] = struct{}{}
	}
	return &SlugFilter{slugs: set, exclude: exclude}
}

// Apply keeps (or drops) listed questions.
func (f *SlugFilter) Apply(questions []question.Question) []question.Question {
	return keep(questions, func(q question.Question) bool {
		_, listed := f.slugs[q.Slug()]
		return listed != f.exclude
	})
}
