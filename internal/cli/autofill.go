package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"mcqkit/internal/autofill"
	"mcqkit/internal/manifest"
)

type autofillFlags struct {
	count       int
	seed        uint64
	correctOnly bool
}

func (a *app) autofillCommand() *cobra.Command {
	var flags autofillFlags
	cmd := &cobra.Command{
		Use:   "autofill",
		Short: "Write synthetic filled submissions to exercise grading",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.count <= 0 {
				return usageError{fmt.Errorf("--num-forms must be positive, got %d", flags.count)}
			}
			project, err := a.loadProject()
			if err != nil {
				return err
			}
			m, err := manifest.Load(project.ManifestPath())
			if err != nil {
				return fmt.Errorf("%w (run \"mcqkit select\" first)", err)
			}
			forms, err := autofill.Generate(m, autofill.Options{
				Count:       flags.count,
				Seed:        flags.seed,
				CorrectOnly: flags.correctOnly,
			})
			if err != nil {
				return err
			}
			paths, err := autofill.Write(project.SubmissionDir(), project.Stem(), forms)
			if err != nil {
				return err
			}
			a.logger.Debug("autofill written", "forms", len(paths), "dir", project.SubmissionDir())
			fmt.Fprintf(a.stdout, "Generated %d filled forms in %s\n", len(paths), project.SubmissionDir())
			return nil
		},
	}
	cmd.Flags().IntVarP(&flags.count, "num-forms", "n", autofill.DefaultCount, "Number of filled forms to generate")
	cmd.Flags().Uint64Var(&flags.seed, "seed", 0, "Random seed")
	cmd.Flags().BoolVar(&flags.correctOnly, "correct-only", false, "Tick exactly the correct options")
	return cmd
}
