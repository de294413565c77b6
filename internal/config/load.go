package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Project is a loaded config together with the directory it was read from.
// Relative paths in the config resolve against Root.
type Project struct {
	Config Config
	Root   string
}

// Load reads, parses, normalizes, and validates a config file.
func Load(path string) (Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Project{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Project{}, err
	}
	Normalize(&cfg)
	root, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return Project{}, fmt.Errorf("resolve config directory: %w", err)
	}
	if err := Validate(&cfg, root); err != nil {
		return Project{}, err
	}
	return Project{Config: cfg, Root: root}, nil
}
