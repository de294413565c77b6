package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"mcqkit/internal/config"
)

func (a *app) initCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init [dir]",
		Short: "Scaffold a quiz project with config.yaml and an example question",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return usageError{fmt.Errorf("init accepts at most one directory, got %d", len(args))}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			if info, err := os.Stat(dir); err == nil && !info.IsDir() {
				return fmt.Errorf("init failed: %q is not a directory", dir)
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("init failed: %w", err)
			}
			path, err := config.Scaffold(dir)
			if err != nil {
				return fmt.Errorf("init failed: %w", err)
			}
			fmt.Fprintf(a.stdout, "Wrote %s\n", path)
			fmt.Fprintf(a.stdout, "Wrote %s\n", filepath.Join(dir, config.DefaultQuestionsPath, "example_question_1.yaml"))
			fmt.Fprintln(a.stdout, "Next: add questions, then run \"mcqkit validate\" and \"mcqkit select\".")
			return nil
		},
	}
}
