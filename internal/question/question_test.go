package question

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"
)

func capitalsRecord() Record {
	return Record{
		Slug:           "capital-germany",
		Text:           "What is the capital of Germany?",
		Choices:        []string{"Berlin", "Madrid", "Paris", "Rome"},
		CorrectAnswers: []int{0},
		QuestionType:   TypeSingle,
	}
}

// TestDeriveQIDDeterministic verifies the qid is a stable UUIDv5 of the slug.
func TestDeriveQIDDeterministic(t *testing.T) {
	first := DeriveQID("sample-question")
	second := DeriveQID("sample-question")
	if first != second {
		t.Fatalf("expected stable qid, got %s and %s", first, second)
	}
	if first[14] != '5' {
		t.Fatalf("expected version 5 uuid, got %s", first)
	}
	if DeriveQID("sample-question-2") == first {
		t.Fatalf("expected distinct slugs to yield distinct qids")
	}
}

// TestNewDerivesIdentityAndDefaults verifies qid derivation and defaults.
func TestNewDerivesIdentityAndDefaults(t *testing.T) {
	q, err := New(capitalsRecord())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if q.QID() != DeriveQID("capital-germany") {
		t.Fatalf("unexpected qid %s", q.QID())
	}
	if !slices.Equal(q.Permutation(), []int{0, 1, 2, 3}) {
		t.Fatalf("expected identity permutation, got %v", q.Permutation())
	}
	if q.PointValue() != DefaultPointValue {
		t.Fatalf("expected default point value, got %d", q.PointValue())
	}
}

// TestNewIdentityRoundTrip verifies a record carrying its own qid reconstructs.
func TestNewIdentityRoundTrip(t *testing.T) {
	q := MustNew(capitalsRecord())
	again, err := New(q.Record())
	if err != nil {
		t.Fatalf("round trip: %v", err)
	}
	if again.QID() != q.QID() || again.ContentHash() != q.ContentHash() {
		t.Fatalf("expected identical identity after round trip")
	}
}

// TestNewRejectsQIDMismatch verifies a foreign qid is an identity error.
func TestNewRejectsQIDMismatch(t *testing.T) {
	record := capitalsRecord()
	record.QID = DeriveQID("someone-else")
	_, err := New(record)
	if !errors.Is(err, ErrQIDMismatch) {
		t.Fatalf("expected ErrQIDMismatch, got %v", err)
	}
	var identityErr *IdentityError
	if !errors.As(err, &identityErr) {
		t.Fatalf("expected IdentityError, got %T", err)
	}
	if identityErr.Slug != "capital-germany" || identityErr.Provided != record.QID || identityErr.Expected != DeriveQID("capital-germany") {
		t.Fatalf("unexpected identity error: %+v", identityErr)
	}
}

// TestNewRequiresSlug verifies records without a slug are rejected.
func TestNewRequiresSlug(t *testing.T) {
	record := capitalsRecord()
	record.Slug = "  "
	if _, err := New(record); !errors.Is(err, ErrMissingSlug) {
		t.Fatalf("expected ErrMissingSlug, got %v", err)
	}
}

// TestNewCollectsValidationIssues verifies content problems are reported together.
func TestNewCollectsValidationIssues(t *testing.T) {
	points := -1
	_, err := New(Record{
		Slug:           "broken",
		Choices:        []string{"only"},
		CorrectAnswers: []int{0, 0, 4},
		QuestionType:   TypeSingle,
		PointValue:     &points,
		CreatedDate:    "2024-01-01",
	})
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	fields := map[string]bool{}
	for _, issue := range validationErr.Issues {
		fields[issue.Field] = true
	}
	for _, field := range []string{"text", "choices", "correct_answers[1]", "correct_answers[2]", "correct_answers", "point_value", "created_date"} {
		if !fields[field] {
			t.Fatalf("expected issue for %s, got %+v", field, validationErr.Issues)
		}
	}
}

// TestNewRejectsTooManyChoices verifies the choice count is bounded.
func TestNewRejectsTooManyChoices(t *testing.T) {
	record := capitalsRecord()
	record.Choices = make([]string, MaxChoices+1)
	for i := range record.Choices {
		record.Choices[i] = fmt.Sprintf("choice %d", i)
	}
	_, err := New(record)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(validationErr.Issues) != 1 || validationErr.Issues[0].Field != "choices" {
		t.Fatalf("expected a single choices issue, got %+v", validationErr.Issues)
	}

	record.Choices = record.Choices[:MaxChoices]
	if _, err := New(record); err != nil {
		t.Fatalf("expected %d choices to be accepted, got %v", MaxChoices, err)
	}
}

// TestNewRejectsInvalidPermutation verifies non-bijective permutations fail.
func TestNewRejectsInvalidPermutation(t *testing.T) {
	cases := [][]int{{0, 1, 2}, {0, 1, 1, 2}, {0, 1, 2, 4}}
	for _, perm := range cases {
		record := capitalsRecord()
		record.Permutation = perm
		if _, err := New(record); !errors.Is(err, ErrInvalidPermutation) {
			t.Fatalf("permutation %v: expected ErrInvalidPermutation, got %v", perm, err)
		}
	}
}

// TestPresentedCorrectExample verifies the documented permutation example.
func TestPresentedCorrectExample(t *testing.T) {
	q := MustNew(Record{
		Slug:           "pick-two",
		Text:           "Pick two",
		Choices:        []string{"a", "b", "c", "d"},
		CorrectAnswers: []int{1, 3},
		QuestionType:   TypeMultiple,
		Permutation:    []int{2, 0, 3, 1},
	})
	if got := q.PresentedCorrect(); !slices.Equal(got, []int{3, 2}) {
		t.Fatalf("expected presented positions [3 2], got %v", got)
	}
	if got := q.CorrectOnehot(); !slices.Equal(got, []int{0, 0, 1, 1}) {
		t.Fatalf("expected onehot [0 0 1 1], got %v", got)
	}
	if got := q.PresentedChoices(); !slices.Equal(got, []string{"c", "a", "d", "b"}) {
		t.Fatalf("unexpected presented choices %v", got)
	}
}

// TestPermutationInvariant verifies perm[presented] recovers the original index.
func TestPermutationInvariant(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	base := MustNew(Record{
		Slug:           "invariant",
		Text:           "Pick",
		Choices:        []string{"a", "b", "c", "d", "e"},
		CorrectAnswers: []int{4, 1},
		QuestionType:   TypeMultiple,
	})
	for i := 0; i < 50; i++ {
		q, err := base.WithPermutation(RandomPermutation(base.NumChoices(), rng))
		if err != nil {
			t.Fatalf("with permutation: %v", err)
		}
		perm := q.Permutation()
		presented := q.PresentedCorrect()
		for k, original := range q.CorrectAnswers() {
			if perm[presented[k]] != original {
				t.Fatalf("perm %v: presented %v does not map back to %v", perm, presented, q.CorrectAnswers())
			}
		}
		onehot := q.CorrectOnehot()
		ones := 0
		for _, v := range onehot {
			ones += v
		}
		if len(onehot) != q.NumChoices() || ones != len(q.CorrectAnswers()) {
			t.Fatalf("unexpected onehot %v", onehot)
		}
	}
}

// TestWithPermutationLeavesOriginal verifies questions are not mutated.
func TestWithPermutationLeavesOriginal(t *testing.T) {
	q := MustNew(capitalsRecord())
	permuted, err := q.WithPermutation([]int{3, 2, 1, 0})
	if err != nil {
		t.Fatalf("with permutation: %v", err)
	}
	if !slices.Equal(q.Permutation(), []int{0, 1, 2, 3}) {
		t.Fatalf("original permutation changed: %v", q.Permutation())
	}
	if !slices.Equal(permuted.CorrectOnehot(), []int{0, 0, 0, 1}) {
		t.Fatalf("unexpected permuted onehot %v", permuted.CorrectOnehot())
	}
	perm := permuted.Permutation()
	perm[0] = 0
	if permuted.Permutation()[0] != 3 {
		t.Fatalf("accessor leaked internal slice")
	}
}

// TestContentHashIgnoresPermutation verifies only content feeds the hash.
func TestContentHashIgnoresPermutation(t *testing.T) {
	q := MustNew(capitalsRecord())
	permuted, err := q.WithPermutation([]int{1, 0, 3, 2})
	if err != nil {
		t.Fatalf("with permutation: %v", err)
	}
	if q.ContentHash() != permuted.ContentHash() {
		t.Fatalf("expected permutation to leave content hash unchanged")
	}
	record := capitalsRecord()
	record.Choices[1] = "Barcelona"
	if MustNew(record).ContentHash() == q.ContentHash() {
		t.Fatalf("expected content change to alter hash")
	}
	if len(q.ContentHash()) != 64 {
		t.Fatalf("expected hex sha256, got %q", q.ContentHash())
	}
}

// TestTagsAndDifficultyNormalized verifies tag and difficulty normalization.
func TestTagsAndDifficultyNormalized(t *testing.T) {
	record := capitalsRecord()
	record.Tags = []string{" Geography ", "geography", "", "Europe"}
	record.Difficulty = "  Very   Easy "
	q := MustNew(record)
	if !slices.Equal(q.Tags(), []string{"geography", "europe"}) {
		t.Fatalf("unexpected tags %v", q.Tags())
	}
	if q.Difficulty() != "very easy" {
		t.Fatalf("unexpected difficulty %q", q.Difficulty())
	}
}
