package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"mcqkit/internal/config"
	"mcqkit/internal/duckdb"
	"mcqkit/internal/grade"
	"mcqkit/internal/manifest"
	"mcqkit/internal/report"
	"mcqkit/internal/ui/live"
)

type gradeFlags struct {
	uiMode   string
	rubric   string
	workers  int
	output   string
	database string
	label    string
	analysis bool
}

func (a *app) gradeCommand() *cobra.Command {
	var flags gradeFlags
	cmd := &cobra.Command{
		Use:   "grade [submission.json]...",
		Short: "Grade submissions against the manifest and write the grade table",
		Long: "Grade every JSON submission in the submission directory, or the files given\n" +
			"as arguments, against the quiz manifest. Writes a CSV grade table and,\n" +
			"when configured, stores the graded sets in a DuckDB database.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runGrade(cmd.Context(), flags, args)
		},
	}
	cmd.Flags().StringVar(&flags.uiMode, "ui", "auto", "Progress display: auto|live|plain")
	cmd.Flags().StringVar(&flags.rubric, "rubric", "", "Override grading.rubric (strict|partial|penalty)")
	cmd.Flags().IntVar(&flags.workers, "workers", 0, "Override grading.workers")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Grade table path (default: <output_directory>/<stem>_grades.csv)")
	cmd.Flags().StringVar(&flags.database, "db", "", "DuckDB file receiving graded sets (overrides grading.database)")
	cmd.Flags().StringVar(&flags.label, "label", "", "Label stored with the grading run")
	cmd.Flags().BoolVar(&flags.analysis, "analysis", true, "Print per-question analysis")
	return cmd
}

func (a *app) runGrade(ctx context.Context, flags gradeFlags, args []string) error {
	decision, err := resolveUIMode(flags.uiMode, a.verbose, a.stdout)
	if err != nil {
		return usageError{err}
	}
	project, err := a.loadProject()
	if err != nil {
		return err
	}
	m, err := manifest.Load(project.ManifestPath())
	if err != nil {
		return fmt.Errorf("%w (run \"mcqkit select\" first)", err)
	}
	rubricName := project.Config.Grading.Rubric
	if flags.rubric != "" {
		rubricName = flags.rubric
	}
	rubric, err := grade.RubricByName(rubricName)
	if err != nil {
		return usageError{err}
	}
	grader, err := grade.New(m, grade.WithRubric(rubric), grade.WithLogger(a.logger))
	if err != nil {
		return err
	}

	paths := args
	if len(paths) == 0 {
		paths, err = listSubmissions(project.SubmissionDir())
		if err != nil {
			return err
		}
	}
	if len(paths) == 0 {
		return fmt.Errorf("no submissions found in %s", project.SubmissionDir())
	}
	submissions := make([]grade.Submission, len(paths))
	for i, path := range paths {
		submissions[i] = grade.FileSubmission(path)
	}

	workers := project.Config.Grading.Workers
	if flags.workers > 0 {
		workers = flags.workers
	}
	if decision.warning != "" {
		fmt.Fprintln(a.stderr, decision.warning)
	}
	var observer grade.Observer
	var controller *live.Controller
	if decision.useLive {
		controller = live.Start(a.stdout, live.Options{Title: project.Config.FileName, NoColor: decision.noColor})
		observer = controller
	} else {
		observer = newPlainObserver(a.stdout)
	}
	results, batchErr := grader.GradeBatch(ctx, submissions, grade.BatchOptions{Workers: workers, Observer: observer})
	if controller != nil {
		controller.Close()
		controller.Wait()
	}

	var sets []grade.GradedSet
	failed := 0
	for _, result := range results {
		if result.Err != nil {
			failed++
			continue
		}
		sets = append(sets, result.Set)
	}
	if batchErr != nil {
		return fmt.Errorf("grading interrupted after %d submissions: %w", len(sets), batchErr)
	}

	outputPath := project.GradesPath()
	if flags.output != "" {
		outputPath = flags.output
	}
	if err := report.SaveCSV(outputPath, m, sets); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Wrote %s\n", outputPath)

	if err := a.storeRun(ctx, project, flags, m, rubricName, sets); err != nil {
		return err
	}

	if flags.analysis && len(sets) > 0 {
		fmt.Fprintln(a.stdout, report.RenderAnalysis(report.Analyze(m, sets)))
		fmt.Fprint(a.stdout, report.RenderHistogram(report.TotalsHistogram(sets)))
	}
	fmt.Fprintf(a.stdout, "Graded %d submissions, %d failed\n", len(sets), failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d submissions could not be graded", failed, len(results))
	}
	return nil
}

// storeRun records the graded sets when a database is configured.
func (a *app) storeRun(ctx context.Context, project config.Project, flags gradeFlags, m *manifest.Manifest, rubric string, sets []grade.GradedSet) error {
	path := project.DatabasePath()
	if flags.database != "" {
		path = flags.database
	}
	if path == "" {
		return nil
	}
	db, err := duckdb.Open(ctx, path)
	if err != nil {
		return err
	}
	defer db.Close()
	runID, err := duckdb.RecordRun(ctx, db, duckdb.RunInput{Manifest: m, Rubric: rubric, Label: flags.label}, sets)
	if err != nil {
		return err
	}
	a.logger.Debug("grading run stored", "run_id", runID, "database", path, "sets", len(sets))
	fmt.Fprintf(a.stdout, "Stored run %s in %s\n", runID, path)
	return nil
}

// listSubmissions returns the JSON submissions in dir in lexical order.
func listSubmissions(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read submission dir: %w", err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
