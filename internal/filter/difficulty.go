package filter

import (
	"fmt"
	"strings"

	"mcqkit/internal/question"
)

// Levels lists the difficulty levels in ascending order.
var Levels = []string{"very easy", "easy", "medium", "hard", "very hard"}

// Operator is a comparison used by difficulty and date expressions.
type Operator string

const (
	OpEqual        Operator = "="
	OpLess         Operator = "<"
	OpLessEqual    Operator = "<="
	OpGreater      Operator = ">"
	OpGreaterEqual Operator = ">="
)

// splitOperator separates a leading comparison operator from its operand.
// An expression without an operator compares for equality.
func splitOperator(expr string) (Operator, string) {
	expr = strings.TrimSpace(expr)
	for _, op := range []Operator{OpLessEqual, OpGreaterEqual, "==", OpLess, OpGreater, OpEqual} {
		if strings.HasPrefix(expr, string(op)) {
			operand := strings.TrimSpace(strings.TrimPrefix(expr, string(op)))
			if op == "==" {
				op = OpEqual
			}
			return op, operand
		}
	}
	return OpEqual, expr
}

func (op Operator) compare(cmp int) bool {
	switch op {
	case OpLess:
		return cmp < 0
	case OpLessEqual:
		return cmp <= 0
	case OpGreater:
		return cmp > 0
	case OpGreaterEqual:
		return cmp >= 0
	default:
		return cmp == 0
	}
}

func levelRank(level string) (int, bool) {
	level = question.NormalizeDifficulty(level)
	for rank, candidate := range Levels {
		if candidate == level {
			return rank, true
		}
	}
	return 0, false
}

// DifficultyFilter keeps questions whose level compares true against a threshold.
type DifficultyFilter struct {
	op    Operator
	level string
	rank  int
}

// Difficulty parses expressions such as "medium", "<hard" or ">= easy".
func Difficulty(expr string) (*DifficultyFilter, error) {
	op, operand := splitOperator(expr)
	if operand == "" {
		return nil, fmt.Errorf("%w: empty difficulty expression %q", ErrInvalidConfig, expr)
	}
	rank, ok := levelRank(operand)
	if !ok {
		return nil, fmt.Errorf("%w: %q (expected one of %s)", ErrUnknownDifficulty, operand, strings.Join(Levels, ", "))
	}
	return &DifficultyFilter{op: op, level: Levels[rank], rank: rank}, nil
}

// Operator returns the comparison operator.
func (f *DifficultyFilter) Operator() Operator { return f.op }

// Level returns the threshold level.
func (f *DifficultyFilter) Level() string { return f.level }

// Apply keeps questions with a known level satisfying the comparison.
func (f *DifficultyFilter) Apply(questions []question.Question) []question.Question {
	return keep(questions, func(q question.Question) bool {
		rank, ok := levelRank(q.Difficulty())
		if !ok {
			return false
		}
		return f.op.compare(rank - f.rank)
	})
}
