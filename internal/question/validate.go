package question

import (
	"fmt"
	"strings"
	"time"
)

// Issue captures a validation problem in a question record.
type Issue struct {
	Field   string
	Message string
}

// ValidationError reports one or more validation issues.
type ValidationError struct {
	Slug   string
	Issues []Issue
}

// Error returns a readable message for validation failures.
func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return ""
	}
	parts := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		parts = append(parts, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	if err.Slug == "" {
		return fmt.Sprintf("question validation failed: %s", strings.Join(parts, "; "))
	}
	return fmt.Sprintf("question %q validation failed: %s", err.Slug, strings.Join(parts, "; "))
}

type issueCollector struct {
	slug   string
	issues []Issue
}

func (collector *issueCollector) add(field, message string) {
	collector.issues = append(collector.issues, Issue{Field: field, Message: message})
}

func (collector *issueCollector) result() error {
	if len(collector.issues) == 0 {
		return nil
	}
	return &ValidationError{Slug: collector.slug, Issues: collector.issues}
}

// New validates record and builds an immutable Question. The qid is derived
// from the slug and a missing permutation defaults to the identity.
func New(record Record) (Question, error) {
	record = normalizeRecord(record)
	qid, err := resolveQID(record.Slug, record.QID)
	if err != nil {
		return Question{}, err
	}

	collector := &issueCollector{slug: record.Slug}
	validateRecord(record, collector)
	if err := collector.result(); err != nil {
		return Question{}, err
	}

	permutation := record.Permutation
	if len(permutation) == 0 {
		permutation = IdentityPermutation(len(record.Choices))
	} else if err := ValidatePermutation(permutation, len(record.Choices)); err != nil {
		return Question{}, fmt.Errorf("question %q: %w", record.Slug, err)
	}

	points := DefaultPointValue
	if record.PointValue != nil {
		points = *record.PointValue
	}

	return Question{
		slug:             record.Slug,
		qid:              qid,
		text:             record.Text,
		choices:          cloneStrings(record.Choices),
		correctAnswers:   cloneInts(record.CorrectAnswers),
		questionType:     record.QuestionType,
		permutation:      cloneInts(permutation),
		fixedPermutation: record.FixedPermutation,
		pointValue:       points,
		difficulty:       record.Difficulty,
		tags:             cloneStrings(record.Tags),
		createdDate:      record.CreatedDate,
		explanation:      record.Explanation,
		image:            record.Image,
		code:             record.Code,
		codeLanguage:     record.CodeLanguage,
	}, nil
}

// MustNew is like New but panics on error. Intended for tests and fixtures.
func MustNew(record Record) Question {
	q, err := New(record)
	if err != nil {
		panic(err)
	}
	return q
}

func validateRecord(record Record, collector *issueCollector) {
	if strings.ContainsAny(record.Slug, "= \t\n") {
		collector.add("slug", "must not contain whitespace or '='")
	}
	if record.Text == "" {
		collector.add("text", "is required")
	}
	if len(record.Choices) < 2 {
		collector.add("choices", "must include at least two entries")
	}
	if len(record.Choices) > MaxChoices {
		collector.add("choices", fmt.Sprintf("must include at most %d entries", MaxChoices))
	}
	for i, choice := range record.Choices {
		if choice == "" {
			collector.add(fmt.Sprintf("choices[%d]", i), "is required")
		}
	}

	if len(record.CorrectAnswers) == 0 {
		collector.add("correct_answers", "must include at least one entry")
	}
	seen := map[int]struct{}{}
	for i, index := range record.CorrectAnswers {
		field := fmt.Sprintf("correct_answers[%d]", i)
		if index < 0 || index >= len(record.Choices) {
			collector.add(field, fmt.Sprintf("index %d is out of range for %d choices", index, len(record.Choices)))
			continue
		}
		if _, exists := seen[index]; exists {
			collector.add(field, fmt.Sprintf("duplicate index %d", index))
			continue
		}
		seen[index] = struct{}{}
	}

	switch record.QuestionType {
	case TypeSingle:
		if len(record.CorrectAnswers) > 1 {
			collector.add("correct_answers", "single questions must have exactly one correct answer")
		}
	case TypeMultiple:
	case "":
		collector.add("question_type", "is required")
	default:
		collector.add("question_type", fmt.Sprintf("unsupported type %q", record.QuestionType))
	}

	if record.PointValue != nil && *record.PointValue < 0 {
		collector.add("point_value", "must be zero or greater")
	}
	if record.CreatedDate != "" {
		if _, err := time.Parse(DateLayout, record.CreatedDate); err != nil {
			collector.add("created_date", fmt.Sprintf("invalid date %q, expected DD/MM/YYYY", record.CreatedDate))
		}
	}
}
