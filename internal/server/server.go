// Package server accepts filled answer sheets over HTTP, grades them against
// a manifest and exposes the results to instructors.
package server

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"mcqkit/internal/form"
	"mcqkit/internal/grade"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = "127.0.0.1:8080"

const shutdownTimeout = 5 * time.Second

// Config captures the settings for the grading service.
type Config struct {
	Addr   string
	Grader *grade.Grader
	Auth   *Authenticator
	// Layout is served to renderers and must match the grader's manifest.
	Layout []form.LayoutEntry
	// SubmissionDir receives every accepted submission as JSON. Empty skips
	// writing them.
	SubmissionDir string
	// DB and RunID, when set, receive each graded set as it arrives.
	DB             *sql.DB
	RunID          string
	AllowedOrigins []string
	Logger         *slog.Logger
}

// Serve runs the grading service until ctx is canceled.
func Serve(ctx context.Context, cfg Config) error {
	if ctx == nil {
		return errors.New("server: context is nil")
	}
	if cfg.Addr == "" {
		return errors.New("server: addr is required")
	}
	handler, err := NewHandler(cfg)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
		err := <-errCh
		if errors.Is(err, http.ErrServerClosed) || err == nil {
			return nil
		}
		return err
	}
}
