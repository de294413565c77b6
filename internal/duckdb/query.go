package duckdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// OptionCount is how often one presentation option of one question was
// selected within a run.
type OptionCount struct {
	QID       string
	Slug      string
	Position  int
	Option    int
	Selected  int
	Responses int
	Correct   bool
}

// ScoreBucket counts students with the same total.
type ScoreBucket struct {
	Points float64
	Count  int
}

// StudentTotal is one stored graded set.
type StudentTotal struct {
	StudentID   string
	StudentName string
	Points      float64
	MaxPoints   float64
}

// AnswerDistribution returns per-option selection counts for a run,
// ordered by question position then option.
func AnswerDistribution(ctx context.Context, db *sql.DB, runID string) ([]OptionCount, error) {
	if err := checkQuery(ctx, db); err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `SELECT
			q.qid,
			q.slug,
			min(q.ordinal) AS ordinal,
			a.option_index,
			CAST(count(*) FILTER (WHERE a.selected) AS BIGINT) AS selected,
			CAST(count(*) AS BIGINT) AS responses,
			bool_or(a.correct) AS correct
		FROM graded_answers a
		JOIN graded_questions q ON q.set_id = a.set_id AND q.qid = a.qid
		JOIN graded_sets s ON s.set_id = a.set_id
		WHERE s.run_id = ?
		GROUP BY q.qid, q.slug, a.option_index
		ORDER BY ordinal, a.option_index`, runID)
	if err != nil {
		return nil, fmt.Errorf("query answer distribution: %w", err)
	}
	defer rows.Close()
	var out []OptionCount
	for rows.Next() {
		var c OptionCount
		if err := rows.Scan(&c.QID, &c.Slug, &c.Position, &c.Option, &c.Selected, &c.Responses, &c.Correct); err != nil {
			return nil, fmt.Errorf("scan answer distribution: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read answer distribution: %w", err)
	}
	return out, nil
}

// ScoreDistribution returns the histogram of total points for a run.
func ScoreDistribution(ctx context.Context, db *sql.DB, runID string) ([]ScoreBucket, error) {
	if err := checkQuery(ctx, db); err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `SELECT points, CAST(count(*) AS BIGINT)
		FROM graded_sets
		WHERE run_id = ?
		GROUP BY points
		ORDER BY points`, runID)
	if err != nil {
		return nil, fmt.Errorf("query score distribution: %w", err)
	}
	defer rows.Close()
	var out []ScoreBucket
	for rows.Next() {
		var b ScoreBucket
		if err := rows.Scan(&b.Points, &b.Count); err != nil {
			return nil, fmt.Errorf("scan score distribution: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read score distribution: %w", err)
	}
	return out, nil
}

// StudentTotals returns every stored set of a run sorted by name then id.
func StudentTotals(ctx context.Context, db *sql.DB, runID string) ([]StudentTotal, error) {
	if err := checkQuery(ctx, db); err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `SELECT student_id, student_name, points, max_points
		FROM graded_sets
		WHERE run_id = ?
		ORDER BY student_name, student_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query student totals: %w", err)
	}
	defer rows.Close()
	var out []StudentTotal
	for rows.Next() {
		var s StudentTotal
		if err := rows.Scan(&s.StudentID, &s.StudentName, &s.Points, &s.MaxPoints); err != nil {
			return nil, fmt.Errorf("scan student totals: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read student totals: %w", err)
	}
	return out, nil
}

func checkQuery(ctx context.Context, db *sql.DB) error {
	if ctx == nil {
		return errors.New("duckdb: context is nil")
	}
	if db == nil {
		return errors.New("duckdb: db is nil")
	}
	return nil
}
