// Package api serves the stored job snapshot over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/metarh/vagas/internal/filter"
	"github.com/metarh/vagas/internal/model"
	"github.com/metarh/vagas/internal/store"
)

// RequestObserver is told about every served request.
type RequestObserver interface {
	ObserveHTTPRequest(method, route string, code int, duration time.Duration)
}

// Server exposes the current snapshot read-only. It never contacts the feed.
type Server struct {
	router  chi.Router
	store   model.SnapshotStore
	logger  *slog.Logger
	metrics http.Handler
}

// NewServer builds the router. Pass a nil observer and metrics handler to
// serve without instrumentation.
func NewServer(snapshots model.SnapshotStore, observer RequestObserver, metrics http.Handler, logger *slog.Logger) *Server {
	s := &Server{
		store:   snapshots,
		logger:  logger,
		metrics: metrics,
	}

	r := chi.NewRouter()
	r.Use(s.recoverMiddleware)
	r.Use(s.loggingMiddleware)
	if observer != nil {
		r.Use(metricsMiddleware(observer))
	}

	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics)
	}
	r.Route("/v1/jobs", func(r chi.Router) {
		r.Get("/", s.listJobs)
		r.Get("/{job_id}", s.getJob)
	})

	s.router = r
	return s
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

type jobsResponse struct {
	FetchedAt time.Time             `json:"fetched_at"`
	Count     int                   `json:"count"`
	Jobs      []model.NormalizedJob `json:"jobs"`
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// readyz reports ready once a snapshot exists.
func (s *Server) readyz(w http.ResponseWriter, r *http.Request) {
	_, fetchedAt, err := s.store.LoadSnapshot(r.Context())
	if err != nil {
		s.snapshotError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ready", "fetched_at": fetchedAt})
}

// listJobs supports ?keyword=, ?state=, ?department= (comma separated or
// repeated) and ?remote=true.
func (s *Server) listJobs(w http.ResponseWriter, r *http.Request) {
	jobs, fetchedAt, err := s.store.LoadSnapshot(r.Context())
	if err != nil {
		s.snapshotError(w, err)
		return
	}

	q := r.URL.Query()
	remote := false
	if v := q.Get("remote"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "remote must be a boolean")
			return
		}
		remote = b
	}
	jf := filter.NewJobFilter(listParam(q["keyword"]), listParam(q["state"]), listParam(q["department"]), remote)

	matched := filter.Apply(jf, jobs)
	if matched == nil {
		matched = []model.NormalizedJob{}
	}
	writeJSON(w, http.StatusOK, jobsResponse{FetchedAt: fetchedAt, Count: len(matched), Jobs: matched})
}

func (s *Server) getJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "job_id")
	jobs, _, err := s.store.LoadSnapshot(r.Context())
	if err != nil {
		s.snapshotError(w, err)
		return
	}
	for _, j := range jobs {
		if j.ID == id {
			writeJSON(w, http.StatusOK, j)
			return
		}
	}
	writeError(w, http.StatusNotFound, "job not found")
}

func (s *Server) snapshotError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNoSnapshot) {
		writeError(w, http.StatusServiceUnavailable, "no snapshot yet")
		return
	}
	s.logger.Error("loading snapshot failed", "error", err)
	writeError(w, http.StatusInternalServerError, "snapshot unavailable")
}

// listParam flattens repeated and comma-separated query values.
func listParam(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
