// Package grade turns raw answer-sheet fields into scored results.
package grade

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"mcqkit/internal/form"
)

// ErrMissingStudentInfo indicates a submission without a student name or id.
var ErrMissingStudentInfo = errors.New("missing student information")

// ParsedQuestion holds one question's selections in presentation order.
type ParsedQuestion struct {
	QID     string
	Slug    string
	Index   int
	Answers []int
	Onehot  []int
	// MixedIndex is set when the fields of this qid carry different
	// presentation indexes; Index is then the smallest of them.
	MixedIndex bool
}

// ParsedSet is a submission decoded from form fields.
type ParsedSet struct {
	StudentID   string
	StudentName string
	Questions   []ParsedQuestion
}

type optionField struct {
	ref     form.Ref
	checked bool
}

// Parse groups option fields by qid and recovers the respondent's selections.
// Fields whose option token is not an integer below question.MaxChoices are
// ignored. Questions are
// returned in presentation order.
func Parse(fields form.Fields) (ParsedSet, error) {
	set := ParsedSet{
		StudentName: strings.TrimSpace(fields[form.StudentNameField]),
		StudentID:   strings.TrimSpace(fields[form.StudentIDField]),
	}
	var missing []string
	if set.StudentName == "" {
		missing = append(missing, form.StudentNameField)
	}
	if set.StudentID == "" {
		missing = append(missing, form.StudentIDField)
	}
	if len(missing) > 0 {
		return ParsedSet{}, fmt.Errorf("%w: %s", ErrMissingStudentInfo, strings.Join(missing, ", "))
	}

	groups := map[string][]optionField{}
	for name, value := range fields {
		if name == form.StudentNameField || name == form.StudentIDField {
			continue
		}
		ref, err := form.ParseFieldName(name)
		if err != nil {
			continue
		}
		groups[ref.QID] = append(groups[ref.QID], optionField{ref: ref, checked: form.IsChecked(value)})
	}

	set.Questions = make([]ParsedQuestion, 0, len(groups))
	for qid, group := range groups {
		set.Questions = append(set.Questions, parseQuestion(qid, group))
	}
	sort.Slice(set.Questions, func(i, j int) bool {
		a, b := set.Questions[i], set.Questions[j]
		if (a.Index < 0) != (b.Index < 0) {
			return a.Index >= 0
		}
		if a.Index != b.Index {
			return a.Index < b.Index
		}
		return a.QID < b.QID
	})
	return set, nil
}

func parseQuestion(qid string, group []optionField) ParsedQuestion {
	sort.Slice(group, func(i, j int) bool { return group[i].ref.Option < group[j].ref.Option })
	parsed := ParsedQuestion{QID: qid, Index: -1}
	width := group[len(group)-1].ref.Option + 1
	parsed.Onehot = make([]int, width)
	for _, field := range group {
		if parsed.Slug == "" {
			parsed.Slug = field.ref.Slug
		}
		if field.ref.Index >= 0 {
			if parsed.Index >= 0 && field.ref.Index != parsed.Index {
				parsed.MixedIndex = true
			}
			if parsed.Index < 0 || field.ref.Index < parsed.Index {
				parsed.Index = field.ref.Index
			}
		}
		if field.checked {
			parsed.Onehot[field.ref.Option] = 1
		}
	}
	parsed.Answers = []int{}
	for option, v := range parsed.Onehot {
		if v == 1 {
			parsed.Answers = append(parsed.Answers, option)
		}
	}
	return parsed
}
