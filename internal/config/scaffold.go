package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const defaultConfig = `version: 1
questions_paths:
  - questions
file_name: quiz.pdf
output_directory: output
submission_directory: submissions

selection:
  number_of_questions: 10
  shuffle: false
  permute_choices: true
  filters: []
  # - type: difficulty
  #   value: "<=medium"
  # - type: manifest
  #   manifest_path: output/previous_manifest.json

grading:
  rubric: strict
  workers: 4

server:
  addr: 127.0.0.1:8080
  allowed_origins: []

front_matter:
  title: Quiz
  author: ""
  exam_information: ""

header:
  header_left: ""
  footer_center: ""
`

const exampleQuestion = `slug: example_question_1
text: What is the capital of Germany?
choices:
  - Berlin
  - Madrid
  - Paris
  - Rome
correct_answers: [0]
question_type: single
point_value: 1
difficulty: easy
tags: [geography]
`

// Scaffold creates a quiz project at dir: config.yaml, an example question,
// and empty output and submission directories. It refuses to overwrite an
// existing config.
func Scaffold(dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	configPath := filepath.Join(dir, ConfigFileName)
	if info, err := os.Stat(configPath); err == nil {
		if info.IsDir() {
			return "", fmt.Errorf("config path %q is a directory", configPath)
		}
		return "", fmt.Errorf("config file already exists at %q", configPath)
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("stat config file: %w", err)
	}

	for _, sub := range []string{DefaultQuestionsPath, DefaultOutputDirectory, DefaultSubmissionDirectory} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return "", fmt.Errorf("create %s dir: %w", sub, err)
		}
	}
	questionPath := filepath.Join(dir, DefaultQuestionsPath, "example_question_1.yaml")
	if _, err := os.Stat(questionPath); os.IsNotExist(err) {
		if err := os.WriteFile(questionPath, []byte(exampleQuestion), 0o644); err != nil {
			return "", fmt.Errorf("write example question: %w", err)
		}
	}
	if err := os.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return "", fmt.Errorf("write config file: %w", err)
	}
	return configPath, nil
}
