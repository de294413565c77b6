package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"mcqkit/internal/bank"
	"mcqkit/internal/config"
)

func defaultConfigName() string {
	return config.ConfigFileName
}

// resolveConfigPath normalizes a config path, defaulting to the working
// directory's config file.
func resolveConfigPath(configPath string) (string, error) {
	if strings.TrimSpace(configPath) == "" {
		configPath = config.ConfigFileName
	}
	abs, err := filepath.Abs(configPath)
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}
	return abs, nil
}

// loadProject resolves and loads the quiz project config.
func (a *app) loadProject() (config.Project, error) {
	path, err := resolveConfigPath(a.configPath)
	if err != nil {
		return config.Project{}, err
	}
	project, err := config.Load(path)
	if err != nil {
		return config.Project{}, fmt.Errorf("load config %s: %w", path, err)
	}
	a.logger.Debug("config loaded", "path", path, "root", project.Root)
	return project, nil
}

// loadBank reads every question file of the project.
func (a *app) loadBank(project config.Project) (*bank.Bank, error) {
	dirs := project.QuestionDirs()
	b, err := bank.FromDirectories(dirs, project.Config.QuestionPattern)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	a.logger.Debug("question bank loaded", "questions", b.Len(), "dirs", dirs)
	return b, nil
}
