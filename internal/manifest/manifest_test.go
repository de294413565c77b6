package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcqkit/internal/bank"
	"mcqkit/internal/question"
)

func sampleQuestions(t *testing.T) []question.Question {
	t.Helper()
	capital := question.MustNew(question.Record{
		Slug:           "capital-germany",
		Text:           "What is the capital of Germany?",
		Choices:        []string{"Berlin", "Madrid", "Paris", "Rome"},
		CorrectAnswers: []int{0},
		QuestionType:   question.TypeSingle,
	})
	pick := question.MustNew(question.Record{
		Slug:           "pick-two",
		Text:           "Pick two",
		Choices:        []string{"a", "b", "c", "d"},
		CorrectAnswers: []int{1, 3},
		QuestionType:   question.TypeMultiple,
		Permutation:    []int{2, 0, 3, 1},
	})
	return []question.Question{capital, pick}
}

func TestNewItemCapturesAnswerKey(t *testing.T) {
	questions := sampleQuestions(t)
	item := NewItem(questions[1])
	assert.Equal(t, question.DeriveQID("pick-two"), item.QID)
	assert.Equal(t, []int{1, 3}, item.NonPermutedCorrectAnswers)
	assert.Equal(t, []int{3, 2}, item.PermutedCorrectAnswers)
	assert.Equal(t, []int{0, 0, 1, 1}, item.CorrectOnehot)
	assert.Equal(t, questions[1].ContentHash(), item.ContentHash)
	assert.Equal(t, 1, item.PointValue)
}

func TestItemByQID(t *testing.T) {
	m, err := New(sampleQuestions(t))
	require.NoError(t, err)
	require.Equal(t, 2, m.Len())

	item, err := m.ItemByQID(question.DeriveQID("capital-germany"))
	require.NoError(t, err)
	assert.Equal(t, "capital-germany", item.Slug)

	position, ok := m.Position(question.DeriveQID("pick-two"))
	require.True(t, ok)
	assert.Equal(t, 1, position)

	_, err = m.ItemByQID("unknown")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.EqualError(t, err, "Item with qid unknown not found in manifest")
}

func TestItemsAreCopies(t *testing.T) {
	m, err := New(sampleQuestions(t))
	require.NoError(t, err)
	items := m.Items()
	items[0].CorrectOnehot[0] = 0
	again, err := m.ItemByQID(items[0].QID)
	require.NoError(t, err)
	assert.Equal(t, 1, again.CorrectOnehot[0])
}

func TestSaveLoadRoundTrip(t *testing.T) {
	m, err := New(sampleQuestions(t))
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "out", "quiz_manifest.json")
	require.NoError(t, m.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, m.Items(), loaded.Items())
	assert.Equal(t, m.QIDs(), loaded.QIDs())

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestParseRejectsSchemaViolations(t *testing.T) {
	cases := map[string]string{
		"missing items":  `{}`,
		"extra field":    `{"items": [], "version": 2}`,
		"bad onehot":     `{"items": [{"qid": "x", "slug": "s", "point_value": 1, "non_permuted_correct_answers": [0], "permuted_correct_answers": [0], "correct_onehot": [2, 0], "content_hash": "abc"}]}`,
		"negative point": `{"items": [{"qid": "x", "slug": "s", "point_value": -1, "non_permuted_correct_answers": [0], "permuted_correct_answers": [0], "correct_onehot": [1, 0], "content_hash": "abc"}]}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(payload))
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestParseRejectsInconsistentItems(t *testing.T) {
	item := NewItem(sampleQuestions(t)[1])
	item.CorrectOnehot = []int{1, 0, 0, 1}
	m := &Manifest{items: []Item{item}}
	data, err := m.MarshalJSON()
	require.NoError(t, err)

	_, err = Parse(data)
	require.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "items[0]")
}

func TestParseRejectsForeignQID(t *testing.T) {
	item := NewItem(sampleQuestions(t)[0])
	item.Slug = "renamed"
	m := &Manifest{items: []Item{item}}
	data, err := m.MarshalJSON()
	require.NoError(t, err)

	_, err = Parse(data)
	require.ErrorIs(t, err, ErrInvalid)
	assert.True(t, strings.Contains(err.Error(), "does not match slug"))
}

func TestFromItemsRejectsDuplicateQID(t *testing.T) {
	item := NewItem(sampleQuestions(t)[0])
	_, err := FromItems([]Item{item, item})
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestVerifyReportsDrift(t *testing.T) {
	questions := sampleQuestions(t)
	m, err := New(questions)
	require.NoError(t, err)

	unchanged, err := bank.New(questions)
	require.NoError(t, err)
	assert.Empty(t, m.Verify(unchanged))

	record := questions[0].Record()
	record.Choices[1] = "Hamburg"
	edited := question.MustNew(record)
	drifted, err := bank.New([]question.Question{edited})
	require.NoError(t, err)

	drifts := m.Verify(drifted)
	require.Len(t, drifts, 2)
	assert.Equal(t, DriftContent, drifts[0].Kind)
	assert.Equal(t, DriftMissing, drifts[1].Kind)
	assert.Equal(t, "pick-two", drifts[1].Slug)
}
