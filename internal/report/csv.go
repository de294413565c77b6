// Package report summarizes graded submissions as a grade table and a
// per-question analysis.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"mcqkit/internal/grade"
	"mcqkit/internal/manifest"
)

// GradeHeader returns the grade table header for a manifest.
func GradeHeader(m *manifest.Manifest) []string {
	header := []string{"student_id", "student_name", "total_points", "max_points"}
	for i := 0; i < m.Len(); i++ {
		header = append(header, fmt.Sprintf("Q%d_points", i+1))
	}
	return header
}

// GradeRows returns one row per graded set, sorted by student name then id.
// Per-question columns follow the manifest order and stay empty for
// questions absent from a submission.
func GradeRows(m *manifest.Manifest, sets []grade.GradedSet) [][]string {
	sorted := append([]grade.GradedSet(nil), sets...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].StudentName != sorted[j].StudentName {
			return sorted[i].StudentName < sorted[j].StudentName
		}
		return sorted[i].StudentID < sorted[j].StudentID
	})
	rows := make([][]string, 0, len(sorted))
	for _, set := range sorted {
		row := []string{set.StudentID, set.StudentName, formatPoints(set.Points), formatPoints(set.MaxPoints)}
		perQuestion := make([]string, m.Len())
		for _, q := range set.Questions {
			if position, ok := m.Position(q.QID); ok {
				perQuestion[position] = formatPoints(q.PointValue)
			}
		}
		rows = append(rows, append(row, perQuestion...))
	}
	return rows
}

// WriteCSV writes the grade table.
func WriteCSV(w io.Writer, m *manifest.Manifest, sets []grade.GradedSet) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(GradeHeader(m)); err != nil {
		return fmt.Errorf("write grade header: %w", err)
	}
	if err := writer.WriteAll(GradeRows(m, sets)); err != nil {
		return fmt.Errorf("write grade rows: %w", err)
	}
	return nil
}

// SaveCSV writes the grade table to path, creating parent directories.
func SaveCSV(path string, m *manifest.Manifest, sets []grade.GradedSet) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create grade directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create grade table: %w", err)
	}
	if err := WriteCSV(file, m, sets); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

func formatPoints(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
