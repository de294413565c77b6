package duckdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	_ "github.com/duckdb/duckdb-go/v2"

	"mcqkit/internal/grade"
	"mcqkit/internal/manifest"
)

// DriverName is the database/sql driver registered by duckdb-go.
const DriverName = "duckdb"

// Open opens (or creates) a DuckDB database file and applies the schema.
// An empty path opens an in-memory database.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if ctx == nil {
		return nil, errors.New("duckdb: context is nil")
	}
	db, err := sql.Open(DriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb %q: %w", path, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping duckdb %q: %w", path, err)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return db, nil
}

// RunInput describes a grading run to record.
type RunInput struct {
	Manifest  *manifest.Manifest
	Rubric    string
	Label     string
	CreatedAt time.Time
}

// InsertRun stores a grading run and returns its generated id.
func InsertRun(ctx context.Context, db *sql.DB, input RunInput) (string, error) {
	if ctx == nil {
		return "", errors.New("duckdb: context is nil")
	}
	if db == nil {
		return "", errors.New("duckdb: db is nil")
	}
	fingerprint, err := ManifestFingerprint(input.Manifest)
	if err != nil {
		return "", err
	}
	createdAt := input.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	rubric := input.Rubric
	if rubric == "" {
		rubric = "strict"
	}
	var label any
	if input.Label != "" {
		label = input.Label
	}
	runID := uuid.NewString()
	_, err = db.ExecContext(ctx, `INSERT INTO grading_runs
		(run_id, created_at, manifest_fingerprint, rubric, question_count, max_points, label)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, createdAt, fingerprint, rubric, input.Manifest.Len(), float64(input.Manifest.TotalPoints()), label)
	if err != nil {
		return "", fmt.Errorf("insert grading run: %w", err)
	}
	return runID, nil
}

// InsertGradedSet stores one graded submission with its per-question and
// per-option rows in a single transaction. It returns the generated set id.
func InsertGradedSet(ctx context.Context, db *sql.DB, runID string, set grade.GradedSet) (string, error) {
	if ctx == nil {
		return "", errors.New("duckdb: context is nil")
	}
	if db == nil {
		return "", errors.New("duckdb: db is nil")
	}
	if runID == "" {
		return "", errors.New("duckdb: run id is empty")
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin graded set: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	setID := uuid.NewString()
	if _, err := tx.ExecContext(ctx, `INSERT INTO graded_sets
		(set_id, run_id, student_id, student_name, points, max_points, skipped)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		setID, runID, set.StudentID, set.StudentName, set.Points, set.MaxPoints, len(set.Skipped)); err != nil {
		return "", fmt.Errorf("insert graded set: %w", err)
	}

	questionStmt, err := tx.PrepareContext(ctx, `INSERT INTO graded_questions
		(set_id, qid, slug, ordinal, points, max_points) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("prepare graded question: %w", err)
	}
	defer questionStmt.Close()
	answerStmt, err := tx.PrepareContext(ctx, `INSERT INTO graded_answers
		(set_id, qid, option_index, selected, correct) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("prepare graded answer: %w", err)
	}
	defer answerStmt.Close()

	for position, q := range set.Questions {
		if _, err := questionStmt.ExecContext(ctx, setID, q.QID, q.Slug, position, q.PointValue, q.MaxPointValue); err != nil {
			return "", fmt.Errorf("insert graded question %s: %w", q.Slug, err)
		}
		for option := range q.CorrectOnehot {
			selected := option < len(q.StudentOnehot) && q.StudentOnehot[option] == 1
			correct := q.CorrectOnehot[option] == 1
			if _, err := answerStmt.ExecContext(ctx, setID, q.QID, option, selected, correct); err != nil {
				return "", fmt.Errorf("insert graded answer %s option %d: %w", q.Slug, option, err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit graded set: %w", err)
	}
	return setID, nil
}

// RecordRun stores a run and every graded set in it.
func RecordRun(ctx context.Context, db *sql.DB, input RunInput, sets []grade.GradedSet) (string, error) {
	runID, err := InsertRun(ctx, db, input)
	if err != nil {
		return "", err
	}
	for _, set := range sets {
		if _, err := InsertGradedSet(ctx, db, runID, set); err != nil {
			return runID, err
		}
	}
	return runID, nil
}
