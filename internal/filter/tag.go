package filter

import (
	"slices"

	"mcqkit/internal/question"
)

// TagFilter keeps questions carrying any (or all) of a tag set.
type TagFilter struct {
	attr     *AttributeFilter[[]string]
	tags     []string
	matchAll bool
	exclude  bool
}

// Tag builds a tag filter. With matchAll every tag must be present; with
// exclude the kept set is inverted, so untagged questions are kept.
func Tag(tags []string, matchAll, exclude bool) *TagFilter {
	normalized := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = question.NormalizeTag(tag); tag != "" && !slices.Contains(normalized, tag) {
			normalized = append(normalized, tag)
		}
	}
	match := func(got, want []string) bool {
		if len(want) == 0 {
			return false
		}
		for _, tag := range want {
			present := slices.Contains(got, tag)
			if matchAll && !present {
				return false
			}
			if !matchAll && present {
				return true
			}
		}
		return matchAll
	}
	return &TagFilter{
		attr:     Attribute(TagsField, normalized, match),
		tags:     normalized,
		matchAll: matchAll,
		exclude:  exclude,
	}
}

// Tags returns the normalized tags.
func (f *TagFilter) Tags() []string { return append([]string(nil), f.tags...) }

// MatchAll reports whether every tag must be present.
func (f *TagFilter) MatchAll() bool { return f.matchAll }

// Exclude reports whether the kept set is inverted.
func (f *TagFilter) Exclude() bool { return f.exclude }

// Apply keeps (or, with exclude, drops) matching questions.
func (f *TagFilter) Apply(questions []question.Question) []question.Question {
	return keep(questions, func(q question.Question) bool {
		return f.attr.Matches(q) != f.exclude
	})
}
