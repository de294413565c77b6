package filter

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"mcqkit/internal/question"
)

const (
	minYear = 1900
	maxYear = 2100
)

var (
	yearPattern = regexp.MustCompile(`^\d{4}$`)
	datePattern = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)
)

// DateFilter keeps questions whose created_date satisfies a date expression.
type DateFilter struct {
	expr          string
	op            Operator
	start         time.Time
	end           time.Time
	strictMissing bool
}

// Date parses expressions of three shapes: an exact "DD/MM/YYYY" date, an
// operator followed by a date (">=15/03/2024"), or a year ("2024") that
// stands for the inclusive range of that year. With strictMissing, questions
// without a created_date are excluded; otherwise they pass through.
func Date(expr string, strictMissing bool) (*DateFilter, error) {
	op, operand := splitOperator(expr)
	f := &DateFilter{expr: expr, op: op, strictMissing: strictMissing}
	switch {
	case yearPattern.MatchString(operand):
		year, _ := strconv.Atoi(operand)
		if year < minYear || year > maxYear {
			return nil, fmt.Errorf("%w: year %d outside %d..%d", ErrInvalidDate, year, minYear, maxYear)
		}
		f.start = time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		f.end = time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	case datePattern.MatchString(operand):
		parsed, err := time.Parse(question.DateLayout, operand)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidDate, operand, err)
		}
		if parsed.Year() < minYear || parsed.Year() > maxYear {
			return nil, fmt.Errorf("%w: year %d outside %d..%d", ErrInvalidDate, parsed.Year(), minYear, maxYear)
		}
		f.start, f.end = parsed, parsed
	default:
		return nil, fmt.Errorf("%w: %q (expected DD/MM/YYYY, an operator and a date, or a year)", ErrInvalidDate, expr)
	}
	return f, nil
}

// Range returns the inclusive bounds of the expression.
func (f *DateFilter) Range() (time.Time, time.Time) { return f.start, f.end }

// Operator returns the comparison operator.
func (f *DateFilter) Operator() Operator { return f.op }

// Matches reports whether q passes the filter.
func (f *DateFilter) Matches(q question.Question) bool {
	raw := q.CreatedDate()
	if raw == "" {
		return !f.strictMissing
	}
	created, err := time.Parse(question.DateLayout, raw)
	if err != nil {
		return false
	}
	switch f.op {
	case OpLess:
		return created.Before(f.start)
	case OpLessEqual:
		return !created.After(f.end)
	case OpGreater:
		return created.After(f.end)
	case OpGreaterEqual:
		return !created.Before(f.start)
	default:
		return !created.Before(f.start) && !created.After(f.end)
	}
}

// Apply keeps matching questions.
func (f *DateFilter) Apply(questions []question.Question) []question.Question {
	return keep(questions, f.Matches)
}
