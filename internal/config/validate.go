package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	"mcqkit/internal/filter"
	"mcqkit/internal/grade"
	"mcqkit/internal/selection"
)

// Validate checks a normalized config for correctness and referenced
// directories. Relative paths resolve against baseDir.
func Validate(cfg *Config, baseDir string) error {
	collector := &issueCollector{}

	if cfg.Version == 0 {
		collector.add("version", "is required")
	} else if cfg.Version != 1 {
		collector.add("version", fmt.Sprintf("unsupported version %d", cfg.Version))
	}
	if baseDir == "" {
		baseDir = "."
	}
	project := Project{Config: *cfg, Root: baseDir}

	for i, dir := range project.QuestionDirs() {
		field := fmt.Sprintf("questions_paths[%d]", i)
		info, err := os.Stat(dir)
		switch {
		case os.IsNotExist(err):
			collector.add(field, fmt.Sprintf("directory %q does not exist", cfg.QuestionsPaths[i]))
		case err != nil:
			collector.add(field, err.Error())
		case !info.IsDir():
			collector.add(field, fmt.Sprintf("%q is not a directory", cfg.QuestionsPaths[i]))
		}
	}
	if cfg.QuestionPattern != "" {
		if _, err := filepath.Match(cfg.QuestionPattern, "question.yaml"); err != nil {
			collector.add("question_pattern", fmt.Sprintf("invalid pattern: %v", err))
		}
	}
	if strings.ContainsAny(cfg.FileName, `/\`) {
		collector.add("file_name", "must be a file name, not a path")
	}

	validateSelection(cfg.Selection, baseDir, collector)

	if _, err := grade.RubricByName(cfg.Grading.Rubric); err != nil {
		collector.add("grading.rubric", err.Error())
	}
	if cfg.Grading.Workers < 0 {
		collector.add("grading.workers", "must be zero or greater")
	}
	if _, _, err := net.SplitHostPort(cfg.Server.Addr); cfg.Server.Addr != "" && err != nil {
		collector.add("server.addr", fmt.Sprintf("invalid address: %v", err))
	}

	return collector.result()
}

func validateSelection(sel selection.Config, baseDir string, collector *issueCollector) {
	if sel.NumberOfQuestions != nil && *sel.NumberOfQuestions < 0 {
		collector.add("selection.number_of_questions", "must be zero or greater")
	}
	switch sel.Sort {
	case "", selection.SortAuto, selection.SortSlug, selection.SortNone:
	default:
		collector.add("selection.sort", fmt.Sprintf("unsupported sort %q", sel.Sort))
	}
	for i, cfg := range sel.Filters {
		if _, err := filter.FromConfig(cfg, filter.WithBaseDir(baseDir)); err != nil {
			collector.add(fmt.Sprintf("selection.filters[%d]", i), err.Error())
		}
	}
}
