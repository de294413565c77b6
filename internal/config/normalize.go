package config

import (
	"strings"

	"mcqkit/internal/grade"
)

// Defaults applied by Normalize.
const (
	DefaultQuestionsPath       = "questions"
	DefaultFileName            = "quiz.pdf"
	DefaultOutputDirectory     = "output"
	DefaultSubmissionDirectory = "submissions"
	DefaultWorkers             = 4
	DefaultServerAddr          = "127.0.0.1:8080"
)

// Normalize trims values and fills defaults.
func Normalize(cfg *Config) {
	paths := make(PathList, 0, len(cfg.QuestionsPaths))
	for _, path := range cfg.QuestionsPaths {
		if path = strings.TrimSpace(path); path != "" {
			paths = append(paths, path)
		}
	}
	if len(paths) == 0 {
		paths = PathList{DefaultQuestionsPath}
	}
	cfg.QuestionsPaths = paths
	cfg.QuestionPattern = strings.TrimSpace(cfg.QuestionPattern)
	cfg.FileName = defaultString(cfg.FileName, DefaultFileName)
	cfg.OutputDirectory = defaultString(cfg.OutputDirectory, DefaultOutputDirectory)
	cfg.SubmissionDirectory = defaultString(cfg.SubmissionDirectory, DefaultSubmissionDirectory)
	cfg.Grading.Rubric = strings.ToLower(defaultString(cfg.Grading.Rubric, grade.RubricNames[0]))
	cfg.Grading.Database = strings.TrimSpace(cfg.Grading.Database)
	if cfg.Grading.Workers == 0 {
		cfg.Grading.Workers = DefaultWorkers
	}
	cfg.Server.Addr = defaultString(cfg.Server.Addr, DefaultServerAddr)
	cfg.Selection.Sort = strings.ToLower(strings.TrimSpace(cfg.Selection.Sort))
}

func defaultString(value, fallback string) string {
	if value = strings.TrimSpace(value); value == "" {
		return fallback
	}
	return value
}
