package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mcqkit/internal/manifest"
	"mcqkit/internal/selection"
)

func (a *app) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate config.yaml, every question file and the manifest",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := a.loadProject()
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}
			fmt.Fprintln(a.stdout, "Config OK")

			b, err := a.loadBank(project)
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}
			fmt.Fprintf(a.stdout, "Questions OK: %d loaded\n", b.Len())

			result, err := selection.Select(b.All(), project.Config.Selection, selection.Options{
				BaseDir: project.Root,
				Logger:  a.logger,
			})
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}
			fmt.Fprintf(a.stdout, "Selection OK: %d of %d matching questions\n", len(result.Questions), result.Available)

			m, err := manifest.Load(project.ManifestPath())
			if errors.Is(err, os.ErrNotExist) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}
			drift := m.Verify(b)
			if len(drift) == 0 {
				fmt.Fprintf(a.stdout, "Manifest OK: %d items match the bank\n", m.Len())
				return nil
			}
			for _, d := range drift {
				fmt.Fprintf(a.stdout, "Manifest drift: %s (%s) %s\n", d.Slug, d.QID, d.Kind)
			}
			return fmt.Errorf("validation failed: manifest %s differs from the bank in %d items", project.ManifestPath(), len(drift))
		},
	}
}
