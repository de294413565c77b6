package autofill

import (
	"context"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcqkit/internal/form"
	"mcqkit/internal/grade"
	"mcqkit/internal/manifest"
	"mcqkit/internal/question"
)

func testManifest(t *testing.T, pointValue int) *manifest.Manifest {
	t.Helper()
	questions := []question.Question{
		question.MustNew(question.Record{
			Slug:           "capital-germany",
			Text:           "What is the capital of Germany?",
			Choices:        []string{"Berlin", "Madrid", "Paris", "Rome"},
			CorrectAnswers: []int{0},
			QuestionType:   question.TypeSingle,
			Permutation:    []int{3, 1, 0, 2},
			PointValue:     &pointValue,
		}),
		question.MustNew(question.Record{
			Slug:           "largest-planet",
			Text:           "Largest planet?",
			Choices:        []string{"Mars", "Jupiter", "Venus"},
			CorrectAnswers: []int{1},
			QuestionType:   question.TypeSingle,
			PointValue:     &pointValue,
		}),
	}
	m, err := manifest.New(questions)
	require.NoError(t, err)
	return m
}

func TestGenerateIsDeterministicPerSeed(t *testing.T) {
	m := testManifest(t, 3)
	first, err := Generate(m, Options{Count: 5, Seed: 7})
	require.NoError(t, err)
	second, err := Generate(m, Options{Count: 5, Seed: 7})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGenerateTicksOneBoxPerQuestion(t *testing.T) {
	m := testManifest(t, 3)
	forms, err := Generate(m, Options{Seed: 1})
	require.NoError(t, err)
	require.Len(t, forms, DefaultCount)

	for i, f := range forms {
		assert.Equal(t, "TID"+strconv.Itoa(i), f.Fields[form.StudentIDField])
		assert.NotEmpty(t, f.Fields[form.StudentNameField])
		parsed, err := grade.Parse(f.Fields)
		require.NoError(t, err)
		require.Len(t, parsed.Questions, 2)
		for _, q := range parsed.Questions {
			assert.Len(t, q.Answers, 1, "question %s", q.Slug)
		}
	}
}

func TestUnitPointQuestionsAlwaysCorrect(t *testing.T) {
	m := testManifest(t, 1)
	forms, err := Generate(m, Options{Count: 20, Seed: 42})
	require.NoError(t, err)
	grader, err := grade.New(m)
	require.NoError(t, err)
	for _, f := range forms {
		set, err := grader.GradeFields(f.Fields)
		require.NoError(t, err)
		assert.Equal(t, set.MaxPoints, set.Points)
	}
}

func TestCorrectOnlyGradesPerfect(t *testing.T) {
	m := testManifest(t, 4)
	forms, err := Generate(m, Options{Count: 3, CorrectOnly: true})
	require.NoError(t, err)
	grader, err := grade.New(m)
	require.NoError(t, err)
	for _, f := range forms {
		set, err := grader.GradeFields(f.Fields)
		require.NoError(t, err)
		assert.Equal(t, 8.0, set.Points)
	}
}

func TestGenerateRejectsNegativeCount(t *testing.T) {
	_, err := Generate(testManifest(t, 1), Options{Count: -1})
	assert.Error(t, err)
}

func TestWriteStoresLoadableSubmissions(t *testing.T) {
	m := testManifest(t, 2)
	forms, err := Generate(m, Options{Count: 2, Seed: 3})
	require.NoError(t, err)
	dir := filepath.Join(t.TempDir(), "submissions")
	paths, err := Write(dir, "quiz", forms)
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, "quiz_autofill_0.json"),
		filepath.Join(dir, "quiz_autofill_1.json"),
	}, paths)

	loaded, err := form.LoadFields(context.Background(), paths[1])
	require.NoError(t, err)
	assert.Equal(t, forms[1].Fields, loaded)
}
