package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"mcqkit/internal/duckdb"
	"mcqkit/internal/form"
	"mcqkit/internal/grade"
	"mcqkit/internal/manifest"
	"mcqkit/internal/report"
)

const maxSubmissionBytes = 1 << 20

// Receipt is returned to the student after a submission is graded.
type Receipt struct {
	SubmissionID string   `json:"submission_id"`
	StudentID    string   `json:"student_id"`
	StudentName  string   `json:"student_name"`
	Points       float64  `json:"points"`
	MaxPoints    float64  `json:"max_points"`
	Skipped      []string `json:"skipped,omitempty"`
}

// handler holds the graded sets received since the service started.
type handler struct {
	cfg    Config
	logger *slog.Logger

	mu       sync.Mutex
	receipts []Receipt
	sets     []grade.GradedSet
}

// NewHandler builds the HTTP handler of the grading service.
func NewHandler(cfg Config) (http.Handler, error) {
	if cfg.Grader == nil {
		return nil, errors.New("server: grader is required")
	}
	if cfg.Auth == nil {
		return nil, errors.New("server: authenticator is required")
	}
	if err := checkLayout(cfg.Layout, cfg.Grader.Manifest()); err != nil {
		return nil, err
	}
	if cfg.DB != nil && cfg.RunID == "" {
		return nil, errors.New("server: run id is required with a database")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	h := &handler{cfg: cfg, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
			ExposedHeaders: []string{"Content-Length"},
			MaxAge:         300,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/layout", h.layout)
	r.Post("/submissions", h.submit)
	r.Group(func(r chi.Router) {
		r.Use(cfg.Auth.requireRole(RoleInstructor))
		r.Get("/results", h.results)
		r.Get("/results/{studentID}", h.studentResults)
		r.Get("/analysis", h.analysis)
	})
	return r, nil
}

func (h *handler) quiz() *manifest.Manifest {
	return h.cfg.Grader.Manifest()
}

// layout serves the presented choice order and field names of every question.
func (h *handler) layout(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, h.cfg.Layout)
}

// checkLayout requires one entry per manifest item, in manifest order, with a
// box for every choice.
func checkLayout(layout []form.LayoutEntry, m *manifest.Manifest) error {
	items := m.Items()
	if len(layout) != len(items) {
		return fmt.Errorf("server: layout has %d questions, manifest has %d", len(layout), len(items))
	}
	for i, item := range items {
		entry := layout[i]
		if entry.QID != item.QID {
			return fmt.Errorf("server: layout question %d is %s, manifest has %s", i, entry.Slug, item.Slug)
		}
		if len(entry.Permutation) != item.NumChoices() || len(entry.Fields) != item.NumChoices() {
			return fmt.Errorf("server: layout of %s does not cover its %d choices", item.Slug, item.NumChoices())
		}
	}
	return nil
}

func (h *handler) submit(w http.ResponseWriter, r *http.Request) {
	fields, err := form.JSONReader{}.ReadFields(r.Context(), http.MaxBytesReader(w, r.Body, maxSubmissionBytes))
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	set, err := h.cfg.Grader.GradeFields(fields)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err)
		return
	}

	receipt := Receipt{
		SubmissionID: uuid.NewString(),
		StudentID:    set.StudentID,
		StudentName:  set.StudentName,
		Points:       set.Points,
		MaxPoints:    set.MaxPoints,
		Skipped:      set.Skipped,
	}
	if h.cfg.SubmissionDir != "" {
		path := filepath.Join(h.cfg.SubmissionDir, receipt.SubmissionID+".json")
		if err := form.WriteFields(path, fields); err != nil {
			h.logger.Error("store submission", "submission", receipt.SubmissionID, "error", err)
			respondError(w, http.StatusInternalServerError, errors.New("could not store submission"))
			return
		}
	}
	if h.cfg.DB != nil {
		if _, err := duckdb.InsertGradedSet(r.Context(), h.cfg.DB, h.cfg.RunID, set); err != nil {
			h.logger.Error("record graded set", "submission", receipt.SubmissionID, "error", err)
			respondError(w, http.StatusInternalServerError, errors.New("could not record graded set"))
			return
		}
	}

	h.mu.Lock()
	h.receipts = append(h.receipts, receipt)
	h.sets = append(h.sets, set)
	h.mu.Unlock()

	h.logger.Info("submission graded",
		"submission", receipt.SubmissionID,
		"student_id", set.StudentID,
		"points", set.Points,
		"max_points", set.MaxPoints,
		"request_id", middleware.GetReqID(r.Context()))
	respondJSON(w, http.StatusCreated, receipt)
}

// snapshot copies the graded sets received so far.
func (h *handler) snapshot() ([]Receipt, []grade.GradedSet) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Receipt(nil), h.receipts...), append([]grade.GradedSet(nil), h.sets...)
}

// results lists every receipt, or the grade table with ?format=csv.
func (h *handler) results(w http.ResponseWriter, r *http.Request) {
	receipts, sets := h.snapshot()
	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		respondJSON(w, http.StatusOK, receipts)
	case "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if err := report.WriteCSV(w, h.quiz(), sets); err != nil {
			h.logger.Error("write grade table", "error", err)
		}
	default:
		respondError(w, http.StatusBadRequest, fmt.Errorf("unsupported format %q", format))
	}
}

func (h *handler) studentResults(w http.ResponseWriter, r *http.Request) {
	studentID := chi.URLParam(r, "studentID")
	receipts, _ := h.snapshot()
	var out []Receipt
	for _, receipt := range receipts {
		if receipt.StudentID == studentID {
			out = append(out, receipt)
		}
	}
	if len(out) == 0 {
		respondError(w, http.StatusNotFound, fmt.Errorf("no submissions for student %q", studentID))
		return
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *handler) analysis(w http.ResponseWriter, _ *http.Request) {
	_, sets := h.snapshot()
	respondJSON(w, http.StatusOK, report.Analyze(h.quiz(), sets))
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func respondError(w http.ResponseWriter, status int, err error) {
	respondJSON(w, status, map[string]string{"error": err.Error()})
}
