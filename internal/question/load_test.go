package question

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestLoadFileYAML verifies YAML records load and normalize properly.
func TestLoadFileYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "capital.yaml")
	payload := `slug: capital-germany
text: "  What is the capital of Germany? "
choices: ["Berlin", "Madrid", "Paris", "Rome"]
correct_answers: [0]
question_type: single
point_value: 2
tags: [geography]
created_date: 15/03/2024
image:
  path: berlin.png
  width: 0.5
`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write record: %v", err)
	}
	q, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if q.Text() != "What is the capital of Germany?" {
		t.Fatalf("expected trimmed text, got %q", q.Text())
	}
	if q.PointValue() != 2 || q.CreatedDate() != "15/03/2024" {
		t.Fatalf("unexpected fields: %+v", q.Record())
	}
	if q.Record().Image == nil {
		t.Fatalf("expected image attachment to pass through")
	}
}

// TestLoadFileJSON verifies JSON records are parsed and validated.
func TestLoadFileJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "colors.json")
	payload := `{
  "slug": "colors_1",
  "text": "Which are primary colors?",
  "choices": ["red", "green", "blue", "orange"],
  "correct_answers": [0, 2],
  "question_type": "multiple"
}`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write record: %v", err)
	}
	q, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if q.Type() != TypeMultiple || len(q.CorrectAnswers()) != 2 {
		t.Fatalf("unexpected question: %+v", q.Record())
	}
}

// TestLoadFileRejectsUnknownFields verifies strict decoding.
func TestLoadFileRejectsUnknownFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "extra.yaml")
	payload := `slug: extra
text: Q
choices: [a, b]
correct_answers: [0]
question_type: single
answer_key: [0]
`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write record: %v", err)
	}
	_, err := LoadFile(path)
	if err == nil || !strings.Contains(err.Error(), "answer_key") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
}

// TestLoadFileRejectsMultipleDocuments verifies one record per file.
func TestLoadFileRejectsMultipleDocuments(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "two.yaml")
	payload := "slug: a\ntext: Q\nchoices: [a, b]\ncorrect_answers: [0]\nquestion_type: single\n---\nslug: b\n"
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write record: %v", err)
	}
	_, err := LoadFile(path)
	if err == nil || !strings.Contains(err.Error(), "multiple documents") {
		t.Fatalf("expected multiple documents error, got %v", err)
	}
}

// TestLoadFileValidationErrors verifies invalid records return validation errors.
func TestLoadFileValidationErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	payload := "slug: bad\ntext: Q\nchoices: [a, b]\ncorrect_answers: [0, 1]\nquestion_type: single\n"
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write record: %v", err)
	}
	_, err := LoadFile(path)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("expected path in error, got %v", err)
	}
}

// TestMarshalYAMLRoundTrip verifies emitted records load back to the same question.
func TestMarshalYAMLRoundTrip(t *testing.T) {
	q := MustNew(Record{
		Slug:           "round-trip",
		Text:           "Pick",
		Choices:        []string{"a", "b", "c"},
		CorrectAnswers: []int{2},
		QuestionType:   TypeSingle,
		Permutation:    []int{2, 0, 1},
		Tags:           []string{"x"},
	})
	data, err := MarshalYAML(q)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	record, err := ParseRecord(data, "round-trip.yaml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	again, err := New(record)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if again.QID() != q.QID() || again.Permutation()[0] != 2 || again.ContentHash() != q.ContentHash() {
		t.Fatalf("round trip changed question: %+v", again.Record())
	}
}
