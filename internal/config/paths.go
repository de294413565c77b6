package config

import (
	"path/filepath"
	"strings"
)

// ConfigFileName is the config file created by Scaffold and found by the CLI.
const ConfigFileName = "config.yaml"

// Resolve returns path relative to the project root unless it is absolute.
func (p Project) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.Root, path)
}

// QuestionDirs returns the resolved question directories.
func (p Project) QuestionDirs() []string {
	dirs := make([]string, 0, len(p.Config.QuestionsPaths))
	for _, path := range p.Config.QuestionsPaths {
		dirs = append(dirs, p.Resolve(path))
	}
	return dirs
}

// OutputDir returns the resolved output directory.
func (p Project) OutputDir() string {
	return p.Resolve(p.Config.OutputDirectory)
}

// SubmissionDir returns the resolved submission directory.
func (p Project) SubmissionDir() string {
	return p.Resolve(p.Config.SubmissionDirectory)
}

// Stem returns the quiz file name without its extension.
func (p Project) Stem() string {
	return strings.TrimSuffix(p.Config.FileName, filepath.Ext(p.Config.FileName))
}

// ManifestPath returns where the manifest of the rendered quiz is stored.
func (p Project) ManifestPath() string {
	return filepath.Join(p.OutputDir(), p.Stem()+"_manifest.json")
}

// GradesPath returns where the grade table is written.
func (p Project) GradesPath() string {
	return filepath.Join(p.OutputDir(), p.Stem()+"_grades.csv")
}

// DatabasePath returns the resolved DuckDB path, or "" when none is configured.
func (p Project) DatabasePath() string {
	return p.Resolve(p.Config.Grading.Database)
}
