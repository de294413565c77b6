// Package selection assembles the question sequence of one quiz from a bank.
package selection

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sort"
	"strconv"
	"strings"
	"time"

	"mcqkit/internal/filter"
	"mcqkit/internal/question"
)

// Sort orders accepted by Config.Sort.
const (
	SortAuto = "auto"
	SortSlug = "slug"
	SortNone = "none"
)

// Config describes how a quiz is drawn from the bank.
type Config struct {
	// NumberOfQuestions truncates the selection; nil keeps every question.
	NumberOfQuestions *int `yaml:"number_of_questions,omitempty"`
	// Seed makes shuffling and permutations reproducible; nil draws a seed.
	Seed           *uint64         `yaml:"seed,omitempty"`
	Shuffle        bool            `yaml:"shuffle,omitempty"`
	Sort           string          `yaml:"sort,omitempty"`
	PermuteChoices bool            `yaml:"permute_choices,omitempty"`
	Filters        []filter.Config `yaml:"filters,omitempty"`
}

// Options carries collaborators that are not part of the declarative config.
type Options struct {
	// Filter is applied after the configured filters, e.g. from command-line flags.
	Filter  filter.Filter
	BaseDir string
	Logger  *slog.Logger
}

// Result is a finalized question sequence.
type Result struct {
	Questions []question.Question
	Seed      uint64
	// Available counts questions that passed the filters before truncation.
	Available int
}

// Select filters, orders, shuffles, truncates and optionally permutes
// questions. The input is not modified.
func Select(questions []question.Question, cfg Config, opts Options) (Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	configured, err := filter.FromConfigs(cfg.Filters, filter.WithBaseDir(opts.BaseDir))
	if err != nil {
		return Result{}, fmt.Errorf("selection filters: %w", err)
	}
	selected := append([]question.Question(nil), questions...)
	for _, f := range []filter.Filter{configured, opts.Filter} {
		if f != nil {
			selected = f.Apply(selected)
		}
	}

	switch strings.ToLower(cfg.Sort) {
	case "", SortAuto:
		sortQuestions(selected)
	case SortSlug:
		sort.SliceStable(selected, func(i, j int) bool { return selected[i].Slug() < selected[j].Slug() })
	case SortNone:
	default:
		return Result{}, fmt.Errorf("selection: unknown sort %q", cfg.Sort)
	}

	seed := uint64(time.Now().UnixNano())
	if cfg.Seed != nil {
		seed = *cfg.Seed
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	if cfg.Shuffle {
		rng.Shuffle(len(selected), func(i, j int) { selected[i], selected[j] = selected[j], selected[i] })
	}

	available := len(selected)
	if cfg.NumberOfQuestions != nil {
		n := *cfg.NumberOfQuestions
		if n < 0 {
			return Result{}, fmt.Errorf("selection: number_of_questions must be zero or greater, got %d", n)
		}
		if n > len(selected) {
			logger.Warn("fewer questions available than requested", "requested", n, "available", len(selected))
		} else {
			selected = selected[:n]
		}
	}

	if cfg.PermuteChoices {
		for i, q := range selected {
			if q.FixedPermutation() {
				continue
			}
			permuted, err := q.WithPermutation(question.RandomPermutation(q.NumChoices(), rng))
			if err != nil {
				return Result{}, err
			}
			selected[i] = permuted
		}
	}
	logger.Debug("questions selected", "selected", len(selected), "available", available, "seed", seed)
	return Result{Questions: selected, Seed: seed, Available: available}, nil
}

// sortQuestions orders by the numeric suffix after the last underscore when
// every slug has one, and lexically by slug otherwise.
func sortQuestions(questions []question.Question) {
	suffixes := make(map[string]int, len(questions))
	numeric := true
	for _, q := range questions {
		n, ok := numericSuffix(q.Slug())
		if !ok {
			numeric = false
			break
		}
		suffixes[q.Slug()] = n
	}
	sort.SliceStable(questions, func(i, j int) bool {
		a, b := questions[i].Slug(), questions[j].Slug()
		if numeric && suffixes[a] != suffixes[b] {
			return suffixes[a] < suffixes[b]
		}
		return a < b
	})
}

func numericSuffix(slug string) (int, bool) {
	at := strings.LastIndex(slug, "_")
	if at < 0 || at == len(slug)-1 {
		return 0, false
	}
	n, err := strconv.Atoi(slug[at+1:])
	if err != nil || n < 0 || strings.ContainsAny(slug[at+1:], "+-") {
		return 0, false
	}
	return n, true
}
