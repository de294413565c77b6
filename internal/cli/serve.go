package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"mcqkit/internal/config"
	"mcqkit/internal/duckdb"
	"mcqkit/internal/form"
	"mcqkit/internal/grade"
	"mcqkit/internal/manifest"
	"mcqkit/internal/server"
)

// secretEnv holds the HMAC secret shared by "serve" and "token".
const secretEnv = "MCQKIT_TOKEN_SECRET"

type serveFlags struct {
	addr     string
	origins  []string
	rubric   string
	database string
	label    string
	noStore  bool
}

func (a *app) serveCommand() *cobra.Command {
	var flags serveFlags
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Accept and grade submissions over HTTP",
		Long: "Serve the quiz manifest's field layout and grade JSON submissions as they\n" +
			"arrive. Instructor endpoints require a bearer token from \"mcqkit token\".\n" +
			"The signing secret is read from " + secretEnv + ".",
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runServe(cmd.Context(), cmd, flags)
		},
	}
	cmd.Flags().StringVar(&flags.addr, "addr", "", "Listen address (overrides server.addr)")
	cmd.Flags().StringSliceVar(&flags.origins, "origin", nil, "Allowed CORS origin (repeatable, overrides server.allowed_origins)")
	cmd.Flags().StringVar(&flags.rubric, "rubric", "", "Override grading.rubric (strict|partial|penalty)")
	cmd.Flags().StringVar(&flags.database, "db", "", "DuckDB file receiving graded sets (overrides grading.database)")
	cmd.Flags().StringVar(&flags.label, "label", "", "Label stored with the grading run")
	cmd.Flags().BoolVar(&flags.noStore, "no-store", false, "Do not write received submissions to the submission directory")
	return cmd
}

func (a *app) runServe(ctx context.Context, cmd *cobra.Command, flags serveFlags) error {
	auth, err := a.authenticator()
	if err != nil {
		return err
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

	layout, err := form.LoadLayout(fieldLayoutPath(project))
	if err != nil {
		return fmt.Errorf("%w (run \"mcqkit select\" first)", err)
	}

	cfg := server.Config{
		Addr:           project.Config.Server.Addr,
		Grader:         grader,
		Auth:           auth,
		Layout:         layout,
		AllowedOrigins: project.Config.Server.AllowedOrigins,
		Logger:         a.logger,
	}
	if flags.addr != "" {
		cfg.Addr = flags.addr
	}
	if cmd.Flags().Changed("origin") {
		cfg.AllowedOrigins = flags.origins
	}
	if !flags.noStore {
		cfg.SubmissionDir = project.SubmissionDir()
	}
	db, runID, err := openServeRun(ctx, project, flags, m, rubricName)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
		cfg.DB, cfg.RunID = db, runID
		fmt.Fprintf(a.stdout, "Recording run %s\n", runID)
	}

	fmt.Fprintf(a.stdout, "Serving %d questions on http://%s\n", m.Len(), cfg.Addr)
	a.logger.Info("grading service started", "addr", cfg.Addr, "rubric", rubricName)
	return server.Serve(ctx, cfg)
}

// openServeRun opens the configured database and starts a grading run for
// the submissions the service will receive.
func openServeRun(ctx context.Context, project config.Project, flags serveFlags, m *manifest.Manifest, rubric string) (*sql.DB, string, error) {
	path := project.DatabasePath()
	if flags.database != "" {
		path = flags.database
	}
	if path == "" {
		return nil, "", nil
	}
	db, err := duckdb.Open(ctx, path)
	if err != nil {
		return nil, "", err
	}
	runID, err := duckdb.InsertRun(ctx, db, duckdb.RunInput{Manifest: m, Rubric: rubric, Label: flags.label})
	if err != nil {
		_ = db.Close()
		return nil, "", err
	}
	return db, runID, nil
}

func (a *app) authenticator() (*server.Authenticator, error) {
	secret, _ := lookupEnv(secretEnv)
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New(secretEnv + " must be set")
	}
	return server.NewAuthenticator(secret)
}

func (a *app) tokenCommand() *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print an instructor token for the grading service",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			auth, err := a.authenticator()
			if err != nil {
				return err
			}
			token, err := auth.IssueToken(subject, server.RoleInstructor, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "instructor", "Token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", server.DefaultTokenTTL, "Token lifetime")
	return cmd
}
