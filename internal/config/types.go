package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"mcqkit/internal/selection"
)

// Config is the quiz project configuration stored in config.yaml.
type Config struct {
	Version             int              `yaml:"version"`
	QuestionsPaths      PathList         `yaml:"questions_paths"`
	QuestionPattern     string           `yaml:"question_pattern,omitempty"`
	FileName            string           `yaml:"file_name"`
	OutputDirectory     string           `yaml:"output_directory"`
	SubmissionDirectory string           `yaml:"submission_directory"`
	Selection           selection.Config `yaml:"selection"`
	Grading             GradingConfig    `yaml:"grading"`
	Server              ServerConfig     `yaml:"server"`
	FrontMatter         FrontMatter      `yaml:"front_matter"`
	Header              Header           `yaml:"header"`
}

// GradingConfig controls how submissions are scored.
type GradingConfig struct {
	Rubric  string `yaml:"rubric"`
	Workers int    `yaml:"workers"`
	// Database is an optional DuckDB file receiving graded sets.
	Database string `yaml:"database,omitempty"`
}

// ServerConfig configures "mcqkit serve". The token secret is read from the
// environment and never stored here.
type ServerConfig struct {
	Addr           string   `yaml:"addr,omitempty"`
	AllowedOrigins []string `yaml:"allowed_origins,omitempty"`
}

// FrontMatter is passed through to the renderer for the title page.
type FrontMatter struct {
	Title           string `yaml:"title,omitempty"`
	Author          string `yaml:"author,omitempty"`
	Date            string `yaml:"date,omitempty"`
	ExamInformation string `yaml:"exam_information,omitempty"`
}

// Header is passed through to the renderer for running headers and footers.
type Header struct {
	HeaderLeft   string `yaml:"header_left,omitempty"`
	HeaderCenter string `yaml:"header_center,omitempty"`
	HeaderRight  string `yaml:"header_right,omitempty"`
	FooterLeft   string `yaml:"footer_left,omitempty"`
	FooterCenter string `yaml:"footer_center,omitempty"`
	FooterRight  string `yaml:"footer_right,omitempty"`
}

// PathList accepts either a single path or a list of paths.
type PathList []string

// UnmarshalYAML decodes a scalar or a sequence of scalars.
func (list *PathList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*list = PathList{node.Value}
		return nil
	case yaml.SequenceNode:
		var values []string
		if err := node.Decode(&values); err != nil {
			return err
		}
		*list = values
		return nil
	default:
		return fmt.Errorf("line %d: expected a path or a list of paths", node.Line)
	}
}
