package filter

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcqkit/internal/manifest"
	"mcqkit/internal/question"
)

var (
	tagCycle        = [][]string{{"math", "algebra"}, {"science", "biology"}, {"algebra", "science"}}
	difficultyCycle = []string{"easy", "medium", "hard"}
)

// sampleQuestions builds n questions with cycling tags, difficulties and dates.
func sampleQuestions(n int) []question.Question {
	questions := make([]question.Question, 0, n)
	for i := 0; i < n; i++ {
		questions = append(questions, question.MustNew(question.Record{
			Slug:           fmt.Sprintf("sample_question_%d", i),
			Text:           fmt.Sprintf("Question %d", i),
			Choices:        []string{"a", "b", "c", "d"},
			CorrectAnswers: []int{i % 4},
			QuestionType:   question.TypeSingle,
			Tags:           tagCycle[i%len(tagCycle)],
			Difficulty:     difficultyCycle[i%len(difficultyCycle)],
			CreatedDate:    fmt.Sprintf("15/%02d/2024", i%12+1),
		}))
	}
	return questions
}

func slugs(questions []question.Question) []string {
	out := make([]string, 0, len(questions))
	for _, q := range questions {
		out = append(out, q.Slug())
	}
	return out
}

func TestTagFilterAnyAllExclude(t *testing.T) {
	questions := sampleQuestions(6)

	anyMatch := Tag([]string{"math", "biology"}, false, false).Apply(questions)
	assert.Equal(t, []string{"sample_question_0", "sample_question_1", "sample_question_3", "sample_question_4"}, slugs(anyMatch))

	allMatch := Tag([]string{"algebra", "science"}, true, false).Apply(questions)
	assert.Equal(t, []string{"sample_question_2", "sample_question_5"}, slugs(allMatch))

	excluded := Tag([]string{"science"}, false, true).Apply(questions)
	assert.Equal(t, []string{"sample_question_0", "sample_question_3"}, slugs(excluded))
}

func TestTagFilterExcludeKeepsUntagged(t *testing.T) {
	untagged := question.MustNew(question.Record{
		Slug: "untagged", Text: "Q", Choices: []string{"a", "b"}, CorrectAnswers: []int{0}, QuestionType: question.TypeSingle,
	})
	assert.Len(t, Tag([]string{"math"}, false, false).Apply([]question.Question{untagged}), 0)
	assert.Len(t, Tag([]string{"math"}, false, true).Apply([]question.Question{untagged}), 1)
}

func TestFiltersDoNotMutateInput(t *testing.T) {
	questions := sampleQuestions(9)
	before := slugs(questions)
	_ = Tag([]string{"math"}, false, false).Apply(questions)
	_ = Composite(Tag([]string{"science"}, false, false), Slug([]string{"sample_question_1"}, true)).Apply(questions)
	assert.Equal(t, before, slugs(questions))
}

func TestDifficultyFilter(t *testing.T) {
	questions := sampleQuestions(6)

	f, err := Difficulty("<hard")
	require.NoError(t, err)
	assert.Equal(t, OpLess, f.Operator())
	for _, q := range f.Apply(questions) {
		assert.Contains(t, []string{"easy", "medium"}, q.Difficulty())
	}
	assert.Len(t, f.Apply(questions), 4)

	exact, err := Difficulty("Medium")
	require.NoError(t, err)
	assert.Equal(t, []string{"sample_question_1", "sample_question_4"}, slugs(exact.Apply(questions)))

	atLeast, err := Difficulty(">= medium")
	require.NoError(t, err)
	assert.Len(t, atLeast.Apply(questions), 4)
}

func TestDifficultyFilterUnknownLevel(t *testing.T) {
	_, err := Difficulty("<impossible")
	assert.True(t, errors.Is(err, ErrUnknownDifficulty))
}

func TestDifficultyFilterSkipsUnknownQuestionLevels(t *testing.T) {
	odd := question.MustNew(question.Record{
		Slug: "odd", Text: "Q", Choices: []string{"a", "b"}, CorrectAnswers: []int{0}, QuestionType: question.TypeSingle, Difficulty: "nightmare",
	})
	f, err := Difficulty("<=very hard")
	require.NoError(t, err)
	assert.Empty(t, f.Apply([]question.Question{odd}))
}

func TestDateFilterShapes(t *testing.T) {
	questions := sampleQuestions(12)

	exact, err := Date("15/03/2024", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"sample_question_2"}, slugs(exact.Apply(questions)))

	after, err := Date(">=15/10/2024", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"sample_question_9", "sample_question_10", "sample_question_11"}, slugs(after.Apply(questions)))

	before, err := Date("<15/02/2024", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"sample_question_0"}, slugs(before.Apply(questions)))

	year, err := Date("2024", false)
	require.NoError(t, err)
	assert.Len(t, year.Apply(questions), 12)

	none, err := Date("01/01/2025", false)
	require.NoError(t, err)
	assert.Empty(t, none.Apply(questions))
}

func TestDateFilterYearRange(t *testing.T) {
	f, err := Date("2024", false)
	require.NoError(t, err)
	start, end := f.Range()
	assert.Equal(t, "01/01/2024", start.Format(question.DateLayout))
	assert.Equal(t, "31/12/2024", end.Format(question.DateLayout))
}

func TestDateFilterRejectsBadExpressions(t *testing.T) {
	for _, expr := range []string{"2024-03-15", "1899", "2101", "31/02/2024", "soon", "", "15/3/2024"} {
		_, err := Date(expr, false)
		assert.ErrorIs(t, err, ErrInvalidDate, expr)
	}
}

func TestDateFilterMissingDates(t *testing.T) {
	undated := question.MustNew(question.Record{
		Slug: "undated", Text: "Q", Choices: []string{"a", "b"}, CorrectAnswers: []int{0}, QuestionType: question.TypeSingle,
	})
	lenient, err := Date("2024", false)
	require.NoError(t, err)
	assert.Len(t, lenient.Apply([]question.Question{undated}), 1)

	strict, err := Date("2024", true)
	require.NoError(t, err)
	assert.Empty(t, strict.Apply([]question.Question{undated}))
}

func TestManifestFilter(t *testing.T) {
	questions := sampleQuestions(20)
	m, err := manifest.New(questions[:15])
	require.NoError(t, err)

	excluded, err := Manifest(ManifestOptions{Manifest: m, Exclude: true})
	require.NoError(t, err)
	assert.Len(t, excluded.Apply(questions), 5)

	included, err := Manifest(ManifestOptions{Manifest: m})
	require.NoError(t, err)
	assert.Len(t, included.Apply(questions), 15)
}

func TestManifestFilterFromPath(t *testing.T) {
	questions := sampleQuestions(4)
	m, err := manifest.New(questions[:1])
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "old_manifest.json")
	require.NoError(t, m.Save(path))

	f, err := Manifest(ManifestOptions{Path: path, Exclude: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"sample_question_1", "sample_question_2", "sample_question_3"}, slugs(f.Apply(questions)))
}

func TestManifestFilterRequiresExactlyOneSource(t *testing.T) {
	_, err := Manifest(ManifestOptions{})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	m, err := manifest.New(sampleQuestions(1))
	require.NoError(t, err)
	_, err = Manifest(ManifestOptions{Manifest: m, Path: "x.json"})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestSlugFilter(t *testing.T) {
	questions := sampleQuestions(4)
	assert.Equal(t, []string{"sample_question_1", "sample_question_3"}, slugs(Slug([]string{"sample_question_3", "sample_question_1"}, false).Apply(questions)))
	assert.Equal(t, []string{"sample_question_0", "sample_question_2"}, slugs(Slug([]string{"sample_question_3", "sample_question_1"}, true).Apply(questions)))
}

func TestAttributeFilter(t *testing.T) {
	questions := sampleQuestions(6)
	hard := Equal(DifficultyField, "hard")
	assert.Equal(t, []string{"sample_question_2", "sample_question_5"}, slugs(hard.Apply(questions)))

	cheap := Attribute(PointValueField, 1, func(got, want int) bool { return got <= want })
	assert.Len(t, cheap.Apply(questions), 6)

	noExplanation := Equal(ExplanationField, "")
	assert.Empty(t, noExplanation.Apply(questions))
}

func TestCompositeIntersectionCommutes(t *testing.T) {
	questions := sampleQuestions(20)
	math := Tag([]string{"algebra"}, false, false)
	hard, err := Difficulty("hard")
	require.NoError(t, err)

	forward := Composite(math, hard).Apply(questions)
	backward := Composite(hard, math).Apply(questions)
	assert.ElementsMatch(t, slugs(forward), slugs(backward))
	assert.NotEmpty(t, forward)
}

func TestAndFlattensComposites(t *testing.T) {
	diff, err := Difficulty("easy")
	require.NoError(t, err)
	combined := And(And(Tag([]string{"math"}, false, false), diff), Tag([]string{"science"}, false, true))
	assert.Len(t, combined.Filters(), 3)
}

func TestStratifiedFilter(t *testing.T) {
	questions := sampleQuestions(20)
	f, err := Stratified([]Filter{
		Tag([]string{"math"}, false, false),
		Tag([]string{"science"}, false, false),
	}, nil, 6)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 0.5}, f.Proportions())
	assert.Equal(t, []int{3, 3}, f.Counts())

	result := f.Apply(questions)
	require.Len(t, result, 6)
	math, science := 0, 0
	for _, q := range result[:3] {
		if contains(q.Tags(), "math") {
			math++
		}
	}
	for _, q := range result[3:] {
		if contains(q.Tags(), "science") {
			science++
		}
	}
	assert.Equal(t, 3, math)
	assert.Equal(t, 3, science)
}

func TestStratifiedNormalizesProportions(t *testing.T) {
	f, err := Stratified([]Filter{Slug(nil, true), Slug(nil, true)}, []float64{1, 3}, 8)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.25, 0.75}, f.Proportions())
	assert.Equal(t, []int{2, 6}, f.Counts())
}

func TestStratifiedCountsSumToN(t *testing.T) {
	for n := 1; n <= 25; n++ {
		f, err := Stratified([]Filter{Slug(nil, true), Slug(nil, true), Slug(nil, true)}, []float64{1, 1, 1}, n)
		require.NoError(t, err)
		total := 0
		for _, c := range f.Counts() {
			total += c
		}
		assert.Equal(t, n, total)
	}
	f, err := Stratified([]Filter{Slug(nil, true), Slug(nil, true), Slug(nil, true)}, nil, 4)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1, 1}, f.Counts())
}

func TestStratifiedSkipsQuestionsTakenEarlier(t *testing.T) {
	questions := sampleQuestions(6)
	everything := Slug(nil, true)
	f, err := Stratified([]Filter{everything, everything}, nil, 4)
	require.NoError(t, err)
	assert.Equal(t, []string{"sample_question_0", "sample_question_1", "sample_question_2", "sample_question_3"}, slugs(f.Apply(questions)))
}

func TestStratifiedValidation(t *testing.T) {
	_, err := Stratified(nil, nil, 4)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = Stratified([]Filter{Slug(nil, true)}, []float64{0.5, 0.5}, 4)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = Stratified([]Filter{Slug(nil, true)}, nil, 0)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func contains(values []string, want string) bool {
	for _, value := range values {
		if value == want {
			return true
		}
	}
	return false
}
