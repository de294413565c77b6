package duckdb_test

import (
	"path/filepath"
	"testing"
	"time"

	"mcqkit/internal/duckdb"
	"mcqkit/internal/form"
	"mcqkit/internal/grade"
	"mcqkit/internal/manifest"
	"mcqkit/internal/question"
	"mcqkit/internal/testutil"
)

func testManifest(t *testing.T) (*manifest.Manifest, []question.Question) {
	t.Helper()
	two := 2
	questions := []question.Question{
		question.MustNew(question.Record{
			Slug:           "capital-germany",
			Text:           "What is the capital of Germany?",
			Choices:        []string{"Berlin", "Madrid", "Paris", "Rome"},
			CorrectAnswers: []int{0},
			QuestionType:   question.TypeSingle,
			Permutation:    []int{3, 1, 0, 2},
		}),
		question.MustNew(question.Record{
			Slug:           "pick-two",
			Text:           "Pick two",
			Choices:        []string{"a", "b", "c", "d"},
			CorrectAnswers: []int{1, 3},
			QuestionType:   question.TypeMultiple,
			Permutation:    []int{2, 0, 3, 1},
			PointValue:     &two,
		}),
	}
	m, err := manifest.New(questions)
	if err != nil {
		t.Fatalf("manifest: %v", err)
	}
	return m, questions
}

func submission(name, id string, questions []question.Question, ticks ...[]int) form.Fields {
	fields := form.Fields{form.StudentNameField: name, form.StudentIDField: id}
	for i, q := range questions {
		for option := 0; option < q.NumChoices(); option++ {
			value := form.Unchecked
			for _, tick := range ticks[i] {
				if tick == option {
					value = form.Checked
				}
			}
			fields[form.FieldName(form.Ref{Index: i, Option: option, Slug: q.Slug(), QID: q.QID()})] = value
		}
	}
	return fields
}

func gradedSets(t *testing.T, m *manifest.Manifest, questions []question.Question) []grade.GradedSet {
	t.Helper()
	grader, err := grade.New(m)
	if err != nil {
		t.Fatalf("grader: %v", err)
	}
	inputs := []form.Fields{
		submission("Ada", "1", questions, []int{2}, []int{2, 3}),
		submission("Bob", "2", questions, []int{0}, []int{2, 3}),
		submission("Cy", "3", questions, []int{1}, []int{2, 3}),
	}
	var sets []grade.GradedSet
	for _, fields := range inputs {
		set, err := grader.GradeFields(fields)
		if err != nil {
			t.Fatalf("grade: %v", err)
		}
		sets = append(sets, set)
	}
	return sets
}

func TestRecordRunStoresRows(t *testing.T) {
	db, ctx := openTestDB(t)
	m, questions := testManifest(t)
	sets := gradedSets(t, m, questions)

	runID, err := duckdb.RecordRun(ctx, db, duckdb.RunInput{
		Manifest:  m,
		Label:     "midterm",
		CreatedAt: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
	}, sets)
	if err != nil {
		t.Fatalf("record run: %v", err)
	}
	if runID == "" {
		t.Fatalf("expected run id")
	}

	if got := queryInt(t, ctx, db, "SELECT count(*) FROM grading_runs"); got != 1 {
		t.Fatalf("expected 1 run, got %d", got)
	}
	if got := queryInt(t, ctx, db, "SELECT count(*) FROM graded_sets WHERE run_id = ?", runID); got != 3 {
		t.Fatalf("expected 3 sets, got %d", got)
	}
	if got := queryInt(t, ctx, db, "SELECT count(*) FROM graded_questions"); got != 6 {
		t.Fatalf("expected 6 question rows, got %d", got)
	}
	if got := queryInt(t, ctx, db, "SELECT count(*) FROM graded_answers"); got != 24 {
		t.Fatalf("expected 24 answer rows, got %d", got)
	}
	if got := queryInt(t, ctx, db, "SELECT question_count FROM grading_runs WHERE run_id = ?", runID); got != 2 {
		t.Fatalf("expected question_count 2, got %d", got)
	}

	var rubric, fingerprint string
	if err := db.QueryRowContext(ctx, "SELECT rubric, manifest_fingerprint FROM grading_runs WHERE run_id = ?", runID).Scan(&rubric, &fingerprint); err != nil {
		t.Fatalf("query run: %v", err)
	}
	if rubric != "strict" {
		t.Fatalf("expected default rubric strict, got %q", rubric)
	}
	want, err := duckdb.ManifestFingerprint(m)
	if err != nil {
		t.Fatalf("fingerprint: %v", err)
	}
	if fingerprint != want {
		t.Fatalf("fingerprint mismatch: %s != %s", fingerprint, want)
	}
}

func TestDistributionQueries(t *testing.T) {
	db, ctx := openTestDB(t)
	m, questions := testManifest(t)
	runID, err := duckdb.RecordRun(ctx, db, duckdb.RunInput{Manifest: m}, gradedSets(t, m, questions))
	if err != nil {
		t.Fatalf("record run: %v", err)
	}

	totals, err := duckdb.StudentTotals(ctx, db, runID)
	if err != nil {
		t.Fatalf("student totals: %v", err)
	}
	if len(totals) != 3 || totals[0].StudentName != "Ada" || totals[0].Points != 3 || totals[0].MaxPoints != 3 {
		t.Fatalf("unexpected totals: %+v", totals)
	}

	scores, err := duckdb.ScoreDistribution(ctx, db, runID)
	if err != nil {
		t.Fatalf("score distribution: %v", err)
	}
	want := []duckdb.ScoreBucket{{Points: 2, Count: 2}, {Points: 3, Count: 1}}
	if len(scores) != len(want) {
		t.Fatalf("unexpected scores: %+v", scores)
	}
	for i := range want {
		if scores[i] != want[i] {
			t.Fatalf("bucket %d: expected %+v, got %+v", i, want[i], scores[i])
		}
	}

	counts, err := duckdb.AnswerDistribution(ctx, db, runID)
	if err != nil {
		t.Fatalf("answer distribution: %v", err)
	}
	if len(counts) != 8 {
		t.Fatalf("expected 8 option rows, got %d", len(counts))
	}
	capitalCorrect := counts[2]
	if capitalCorrect.Slug != "capital-germany" || !capitalCorrect.Correct || capitalCorrect.Selected != 1 || capitalCorrect.Responses != 3 {
		t.Fatalf("unexpected capital option 2 row: %+v", capitalCorrect)
	}
	pickTwo := counts[6]
	if pickTwo.Slug != "pick-two" || pickTwo.Position != 1 || !pickTwo.Correct || pickTwo.Selected != 3 {
		t.Fatalf("unexpected pick-two option 2 row: %+v", pickTwo)
	}
	if counts[4].Correct || counts[4].Selected != 0 {
		t.Fatalf("unexpected pick-two option 0 row: %+v", counts[4])
	}
}

func TestQueriesIgnoreOtherRuns(t *testing.T) {
	db, ctx := openTestDB(t)
	m, questions := testManifest(t)
	sets := gradedSets(t, m, questions)
	first, err := duckdb.RecordRun(ctx, db, duckdb.RunInput{Manifest: m}, sets[:1])
	if err != nil {
		t.Fatalf("record first run: %v", err)
	}
	if _, err := duckdb.RecordRun(ctx, db, duckdb.RunInput{Manifest: m, Rubric: "partial"}, sets); err != nil {
		t.Fatalf("record second run: %v", err)
	}
	totals, err := duckdb.StudentTotals(ctx, db, first)
	if err != nil {
		t.Fatalf("student totals: %v", err)
	}
	if len(totals) != 1 {
		t.Fatalf("expected 1 total for first run, got %d", len(totals))
	}
}

func TestOpenFileDatabase(t *testing.T) {
	ctx := testutil.Context(t, testTimeout)
	path := filepath.Join(t.TempDir(), "grades.duckdb")
	db, err := duckdb.Open(ctx, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()
	if got := queryInt(t, ctx, db, "SELECT count(*) FROM grading_runs"); got != 0 {
		t.Fatalf("expected empty table, got %d", got)
	}
	if err := duckdb.EnsureSchema(db); err != nil {
		t.Fatalf("schema should be idempotent: %v", err)
	}
}

func TestInsertValidatesInputs(t *testing.T) {
	db, ctx := openTestDB(t)
	if _, err := duckdb.InsertRun(ctx, db, duckdb.RunInput{}); err == nil {
		t.Fatalf("expected error for nil manifest")
	}
	if _, err := duckdb.InsertGradedSet(ctx, db, "", grade.GradedSet{}); err == nil {
		t.Fatalf("expected error for empty run id")
	}
	if _, err := duckdb.StudentTotals(ctx, nil, "run"); err == nil {
		t.Fatalf("expected error for nil db")
	}
}
