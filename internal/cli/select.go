package cli

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"mcqkit/internal/config"
	"mcqkit/internal/filter"
	"mcqkit/internal/form"
	"mcqkit/internal/manifest"
	"mcqkit/internal/question"
	"mcqkit/internal/selection"
)

type selectFlags struct {
	filters filter.Args
	number  int
	seed    uint64
	dryRun  bool
}

func (a *app) selectCommand() *cobra.Command {
	var flags selectFlags
	cmd := &cobra.Command{
		Use:     "select",
		Aliases: []string{"build"},
		Short:   "Assemble the quiz from the bank and write its manifest",
		Args:    noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := a.loadProject()
			if err != nil {
				return err
			}
			b, err := a.loadBank(project)
			if err != nil {
				return err
			}
			extra, err := filter.FromArgs(flags.filters)
			if err != nil {
				return usageError{fmt.Errorf("filter flags: %w", err)}
			}
			cfg := project.Config.Selection
			if cmd.Flags().Changed("number") {
				cfg.NumberOfQuestions = &flags.number
			}
			if cmd.Flags().Changed("seed") {
				cfg.Seed = &flags.seed
			}
			result, err := selection.Select(b.All(), cfg, selection.Options{
				Filter:  extra,
				BaseDir: project.Root,
				Logger:  a.logger,
			})
			if err != nil {
				return err
			}
			if len(result.Questions) == 0 {
				return fmt.Errorf("no questions match the selection (%d in bank)", b.Len())
			}
			m, err := manifest.New(result.Questions)
			if err != nil {
				return err
			}

			fmt.Fprintln(a.stdout, renderSelection(result.Questions))
			fmt.Fprintf(a.stdout, "Selected %d of %d matching questions (seed %d, %d points)\n",
				len(result.Questions), result.Available, result.Seed, m.TotalPoints())
			if flags.dryRun {
				return nil
			}
			if err := m.Save(project.ManifestPath()); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Wrote %s\n", project.ManifestPath())
			layoutPath := fieldLayoutPath(project)
			if err := form.SaveLayout(layoutPath, form.Layout(result.Questions)); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Wrote %s\n", layoutPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&flags.filters.Difficulty, "difficulty", "", "Difficulty filter, e.g. \"medium\" or \">=medium\"")
	cmd.Flags().StringSliceVar(&flags.filters.Tags, "tag", nil, "Keep questions with these tags (repeatable)")
	cmd.Flags().BoolVar(&flags.filters.MatchAllTags, "match-all-tags", false, "Require every --tag instead of any")
	cmd.Flags().StringSliceVar(&flags.filters.ExcludeTags, "exclude-tag", nil, "Drop questions with these tags (repeatable)")
	cmd.Flags().IntVarP(&flags.number, "number", "n", 0, "Override selection.number_of_questions")
	cmd.Flags().Uint64Var(&flags.seed, "seed", 0, "Override selection.seed")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Print the selection without writing files")
	return cmd
}

// fieldLayoutPath is where the presented choice order and field names for
// the renderer are written.
func fieldLayoutPath(project config.Project) string {
	return filepath.Join(project.OutputDir(), project.Stem()+"_fields.json")
}

func renderSelection(questions []question.Question) string {
	rows := make([][]string, 0, len(questions))
	for i, q := range questions {
		rows = append(rows, []string{
			"Q" + strconv.Itoa(i+1),
			q.Slug(),
			string(q.Type()),
			strconv.Itoa(q.PointValue()),
			q.Difficulty(),
			fmt.Sprint(q.Permutation()),
		})
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "Slug", "Type", "Points", "Difficulty", "Permutation").
		Rows(rows...).
		String()
}
