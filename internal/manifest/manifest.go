// Package manifest records the answer key of one rendered question set.
//
// Each item is captured at rendering time from a question and the
// permutation it was presented under, so grading never re-derives a
// permutation and never consults the question bank.
package manifest

import (
	"errors"
	"fmt"
	"slices"

	"mcqkit/internal/question"
)

// ErrNotFound indicates a qid that is not part of the manifest.
var ErrNotFound = errors.New("item not found in manifest")

// ErrInvalid indicates a manifest document that fails schema or consistency checks.
var ErrInvalid = errors.New("invalid manifest")

// NotFoundError names the qid that was looked up.
type NotFoundError struct {
	QID string
}

// Error returns a message naming the qid.
func (err *NotFoundError) Error() string {
	return fmt.Sprintf("Item with qid %s not found in manifest", err.QID)
}

// Unwrap lets errors.Is match ErrNotFound.
func (err *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// Item is the answer key of one presented question.
type Item struct {
	QID                       string `json:"qid" yaml:"qid"`
	Slug                      string `json:"slug" yaml:"slug"`
	PointValue                int    `json:"point_value" yaml:"point_value"`
	NonPermutedCorrectAnswers []int  `json:"non_permuted_correct_answers" yaml:"non_permuted_correct_answers"`
	PermutedCorrectAnswers    []int  `json:"permuted_correct_answers" yaml:"permuted_correct_answers"`
	CorrectOnehot             []int  `json:"correct_onehot" yaml:"correct_onehot"`
	ContentHash               string `json:"content_hash" yaml:"content_hash"`
}

// NewItem captures the answer key of q under its current permutation.
func NewItem(q question.Question) Item {
	return Item{
		QID:                       q.QID(),
		Slug:                      q.Slug(),
		PointValue:                q.PointValue(),
		NonPermutedCorrectAnswers: q.CorrectAnswers(),
		PermutedCorrectAnswers:    q.PresentedCorrect(),
		CorrectOnehot:             q.CorrectOnehot(),
		ContentHash:               q.ContentHash(),
	}
}

// NumChoices returns the number of presented options.
func (item Item) NumChoices() int {
	return len(item.CorrectOnehot)
}

func (item Item) clone() Item {
	item.NonPermutedCorrectAnswers = slices.Clone(item.NonPermutedCorrectAnswers)
	item.PermutedCorrectAnswers = slices.Clone(item.PermutedCorrectAnswers)
	item.CorrectOnehot = slices.Clone(item.CorrectOnehot)
	return item
}

// Manifest is an ordered, immutable list of items indexed by qid. It is safe
// for concurrent reads.
type Manifest struct {
	items []Item
	index map[string]int
}

// New builds a manifest from questions in presentation order.
func New(questions []question.Question) (*Manifest, error) {
	items := make([]Item, 0, len(questions))
	for _, q := range questions {
		items = append(items, NewItem(q))
	}
	return FromItems(items)
}

// FromItems builds a manifest from existing items after checking each one for
// internal consistency.
func FromItems(items []Item) (*Manifest, error) {
	m := &Manifest{
		items: make([]Item, 0, len(items)),
		index: make(map[string]int, len(items)),
	}
	for i, item := range items {
		if err := checkItem(item); err != nil {
			return nil, fmt.Errorf("%w: items[%d]: %v", ErrInvalid, i, err)
		}
		if _, exists := m.index[item.QID]; exists {
			return nil, fmt.Errorf("%w: items[%d]: duplicate qid %s", ErrInvalid, i, item.QID)
		}
		m.index[item.QID] = len(m.items)
		m.items = append(m.items, item.clone())
	}
	return m, nil
}

func checkItem(item Item) error {
	if item.Slug == "" {
		return errors.New("slug is required")
	}
	if expected := question.DeriveQID(item.Slug); item.QID != expected {
		return fmt.Errorf("qid %s does not match slug %q (expected %s)", item.QID, item.Slug, expected)
	}
	if item.PointValue < 0 {
		return fmt.Errorf("point_value %d is negative", item.PointValue)
	}
	n := len(item.CorrectOnehot)
	if n < 2 {
		return fmt.Errorf("correct_onehot must cover at least two options, got %d", n)
	}
	if len(item.PermutedCorrectAnswers) == 0 {
		return errors.New("permuted_correct_answers must not be empty")
	}
	if len(item.PermutedCorrectAnswers) != len(item.NonPermutedCorrectAnswers) {
		return fmt.Errorf("permuted and non-permuted answer counts differ (%d vs %d)", len(item.PermutedCorrectAnswers), len(item.NonPermutedCorrectAnswers))
	}
	for _, index := range item.NonPermutedCorrectAnswers {
		if index < 0 || index >= n {
			return fmt.Errorf("non-permuted answer %d is out of range for %d options", index, n)
		}
	}
	for _, position := range item.PermutedCorrectAnswers {
		if position < 0 || position >= n {
			return fmt.Errorf("permuted answer %d is out of range for %d options", position, n)
		}
	}
	expected := question.Onehot(n, item.PermutedCorrectAnswers)
	ones := 0
	for _, v := range expected {
		ones += v
	}
	if ones != len(item.PermutedCorrectAnswers) {
		return errors.New("permuted_correct_answers contains duplicates")
	}
	if !slices.Equal(expected, item.CorrectOnehot) {
		return fmt.Errorf("correct_onehot %v does not match permuted answers %v", item.CorrectOnehot, item.PermutedCorrectAnswers)
	}
	return nil
}

// Len returns the number of items.
func (m *Manifest) Len() int {
	return len(m.items)
}

// Items returns the items in presentation order.
func (m *Manifest) Items() []Item {
	items := make([]Item, 0, len(m.items))
	for _, item := range m.items {
		items = append(items, item.clone())
	}
	return items
}

// ItemByQID returns the item for qid.
func (m *Manifest) ItemByQID(qid string) (Item, error) {
	i, ok := m.index[qid]
	if !ok {
		return Item{}, &NotFoundError{QID: qid}
	}
	return m.items[i].clone(), nil
}

// Position returns the presentation index of qid.
func (m *Manifest) Position(qid string) (int, bool) {
	i, ok := m.index[qid]
	return i, ok
}

// Contains reports whether qid is in the manifest.
func (m *Manifest) Contains(qid string) bool {
	_, ok := m.index[qid]
	return ok
}

// QIDs returns the qids in presentation order.
func (m *Manifest) QIDs() []string {
	qids := make([]string, 0, len(m.items))
	for _, item := range m.items {
		qids = append(qids, item.QID)
	}
	return qids
}

// TotalPoints sums the point values of all items.
func (m *Manifest) TotalPoints() int {
	total := 0
	for _, item := range m.items {
		total += item.PointValue
	}
	return total
}
