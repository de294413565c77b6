package filter

import (
	"fmt"
	"math"
	"sort"

	"mcqkit/internal/question"
)

// StratifiedFilter draws a fixed number of questions split across strata.
type StratifiedFilter struct {
	filters     []Filter
	proportions []float64
	counts      []int
}

// Stratified builds a filter that takes, for each stratum filter, its share of
// n questions. Proportions default to a uniform split and are normalized to
// sum to one. Shares are apportioned by largest remainder so they always add
// up to n; remainder ties go to the earlier stratum.
func Stratified(filters []Filter, proportions []float64, n int) (*StratifiedFilter, error) {
	if len(filters) == 0 {
		return nil, fmt.Errorf("%w: stratified filter requires at least one filter", ErrInvalidConfig)
	}
	if n <= 0 {
		return nil, fmt.Errorf("%w: stratified filter requires a positive number_of_questions, got %d", ErrInvalidConfig, n)
	}
	if len(proportions) == 0 {
		proportions = make([]float64, len(filters))
		for i := range proportions {
			proportions[i] = 1
		}
	}
	if len(proportions) != len(filters) {
		return nil, fmt.Errorf("%w: %d proportions for %d filters", ErrInvalidConfig, len(proportions), len(filters))
	}
	total := 0.0
	for i, p := range proportions {
		if p < 0 || math.IsNaN(p) || math.IsInf(p, 0) {
			return nil, fmt.Errorf("%w: proportion[%d] must be a non-negative number", ErrInvalidConfig, i)
		}
		total += p
	}
	if total == 0 {
		return nil, fmt.Errorf("%w: proportions must not all be zero", ErrInvalidConfig)
	}
	normalized := make([]float64, len(proportions))
	for i, p := range proportions {
		normalized[i] = p / total
	}
	return &StratifiedFilter{
		filters:     append([]Filter(nil), filters...),
		proportions: normalized,
		counts:      apportion(normalized, n),
	}, nil
}

func apportion(proportions []float64, n int) []int {
	counts := make([]int, len(proportions))
	remainders := make([]int, len(proportions))
	assigned := 0
	fractions := make([]float64, len(proportions))
	for i, p := range proportions {
		quota := p * float64(n)
		counts[i] = int(math.Floor(quota))
		fractions[i] = quota - float64(counts[i])
		remainders[i] = i
		assigned += counts[i]
	}
	sort.SliceStable(remainders, func(a, b int) bool {
		return fractions[remainders[a]] > fractions[remainders[b]]
	})
	for k := 0; assigned < n; k++ {
		counts[remainders[k%len(remainders)]]++
		assigned++
	}
	return counts
}

// Proportions returns the normalized proportions.
func (f *StratifiedFilter) Proportions() []float64 {
	return append([]float64(nil), f.proportions...)
}

// Counts returns the number of questions drawn per stratum.
func (f *StratifiedFilter) Counts() []int {
	return append([]int(nil), f.counts...)
}

// Apply runs each stratum filter on the full input and takes its first count
// matches in input order. A question taken by an earlier stratum is skipped
// by later ones, and a stratum with too few matches yields what it has.
func (f *StratifiedFilter) Apply(questions []question.Question) []question.Question {
	taken := map[string]struct{}{}
	var result []question.Question
	for i, stratum := range f.filters {
		want := f.counts[i]
		for _, q := range stratum.Apply(questions) {
			if want == 0 {
				break
			}
			if _, exists := taken[q.QID()]; exists {
				continue
			}
			taken[q.QID()] = struct{}{}
			result = append(result, q)
			want--
		}
	}
	return result
}
