package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"mcqkit/internal/manifest"
)

func (a *app) inspectCommand() *cobra.Command {
	var verify bool
	cmd := &cobra.Command{
		Use:   "inspect [manifest.json]",
		Short: "Show the answer key stored in a manifest",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return usageError{fmt.Errorf("inspect accepts at most one manifest, got %d", len(args))}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			} else {
				project, err := a.loadProject()
				if err != nil {
					return err
				}
				path = project.ManifestPath()
			}
			m, err := manifest.Load(path)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, renderManifest(m))
			fmt.Fprintf(a.stdout, "%d questions, %d points\n", m.Len(), m.TotalPoints())
			if !verify {
				return nil
			}
			project, err := a.loadProject()
			if err != nil {
				return err
			}
			b, err := a.loadBank(project)
			if err != nil {
				return err
			}
			drift := m.Verify(b)
			for _, d := range drift {
				fmt.Fprintf(a.stdout, "Drift: %s (%s) %s\n", d.Slug, d.QID, d.Kind)
			}
			if len(drift) > 0 {
				return fmt.Errorf("manifest differs from the bank in %d items", len(drift))
			}
			fmt.Fprintln(a.stdout, "Manifest matches the bank")
			return nil
		},
	}
	cmd.Flags().BoolVar(&verify, "verify", false, "Compare the manifest with the current question bank")
	return cmd
}

func renderManifest(m *manifest.Manifest) string {
	items := m.Items()
	rows := make([][]string, 0, len(items))
	for i, item := range items {
		rows = append(rows, []string{
			"Q" + strconv.Itoa(i+1),
			item.Slug,
			item.QID,
			fmt.Sprint(item.NonPermutedCorrectAnswers),
			fmt.Sprint(item.PermutedCorrectAnswers),
			strconv.Itoa(item.PointValue),
		})
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "Slug", "QID", "Correct (bank)", "Correct (form)", "Points").
		Rows(rows...).
		String()
}
