package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, dir, payload string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// TestScaffoldLoads verifies the scaffolded project loads and validates.
func TestScaffoldLoads(t *testing.T) {
	dir := t.TempDir()
	path, err := Scaffold(dir)
	if err != nil {
		t.Fatalf("scaffold: %v", err)
	}
	project, err := Load(path)
	if err != nil {
		t.Fatalf("load scaffold: %v", err)
	}
	if project.Config.Grading.Rubric != "strict" || project.Config.Grading.Workers != 4 {
		t.Fatalf("unexpected grading config: %+v", project.Config.Grading)
	}
	if *project.Config.Selection.NumberOfQuestions != 10 {
		t.Fatalf("unexpected selection: %+v", project.Config.Selection)
	}
	wantManifest := filepath.Join(project.Root, "output", "quiz_manifest.json")
	if project.ManifestPath() != wantManifest {
		t.Fatalf("expected manifest path %s, got %s", wantManifest, project.ManifestPath())
	}
	if _, err := Scaffold(dir); err == nil {
		t.Fatalf("expected second scaffold to refuse overwriting")
	}
}

// TestLoadAppliesDefaults verifies omitted fields receive defaults.
func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "questions"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path := writeConfig(t, dir, "version: 1\n")
	project, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := project.Config
	if cfg.FileName != DefaultFileName || cfg.OutputDirectory != DefaultOutputDirectory || cfg.SubmissionDirectory != DefaultSubmissionDirectory {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if len(cfg.QuestionsPaths) != 1 || cfg.QuestionsPaths[0] != DefaultQuestionsPath {
		t.Fatalf("unexpected questions paths: %v", cfg.QuestionsPaths)
	}
	if cfg.Server.Addr != DefaultServerAddr {
		t.Fatalf("unexpected server addr %q", cfg.Server.Addr)
	}
	if project.GradesPath() != filepath.Join(project.Root, "output", "quiz_grades.csv") {
		t.Fatalf("unexpected grades path %s", project.GradesPath())
	}
}

// TestParseAcceptsScalarQuestionsPath verifies a single path is accepted.
func TestParseAcceptsScalarQuestionsPath(t *testing.T) {
	cfg, err := Parse([]byte("version: 1\nquestions_paths: bank\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(cfg.QuestionsPaths) != 1 || cfg.QuestionsPaths[0] != "bank" {
		t.Fatalf("unexpected paths %v", cfg.QuestionsPaths)
	}
}

// TestParseRejectsUnknownFields verifies strict decoding, including nested sections.
func TestParseRejectsUnknownFields(t *testing.T) {
	for _, payload := range []string{
		"version: 1\nquiz_name: x\n",
		"version: 1\nselection:\n  amount: 3\n",
		"version: 1\nselection:\n  filters:\n    - type: tag\n      tags: [a]\n      colour: red\n",
	} {
		if _, err := Parse([]byte(payload)); err == nil {
			t.Fatalf("expected unknown field error for %q", payload)
		}
	}
}

// TestValidateCollectsIssues verifies validation reports every problem.
func TestValidateCollectsIssues(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `version: 2
questions_paths: [missing]
file_name: out/quiz.pdf
selection:
  number_of_questions: -1
  sort: random
  filters:
    - type: difficulty
      value: "<legendary"
grading:
  rubric: curve
  workers: -2
server:
  addr: localhost
`)
	_, err := Load(path)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	for _, field := range []string{"version", "questions_paths[0]", "file_name", "selection.number_of_questions", "selection.sort", "selection.filters[0]", "grading.rubric", "grading.workers", "server.addr"} {
		if !strings.Contains(err.Error(), field+":") {
			t.Fatalf("expected issue for %s, got:\n%s", field, err.Error())
		}
	}
}

// TestParseRejectsMultipleDocuments verifies a single document is required.
func TestParseRejectsMultipleDocuments(t *testing.T) {
	_, err := Parse([]byte("version: 1\n---\nversion: 1\n"))
	if err == nil || !strings.Contains(err.Error(), "multiple YAML documents") {
		t.Fatalf("expected multiple documents error, got %v", err)
	}
}
