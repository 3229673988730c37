// Package server exposes the dashboard views over HTTP. Every request runs the
// whole pipeline again against the raw source.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/jouaraujo/curry-company/internal/analytics"
	"github.com/jouaraujo/curry-company/internal/dashboard"
	"github.com/jouaraujo/curry-company/internal/filter"
	"github.com/jouaraujo/curry-company/internal/models"
	"github.com/jouaraujo/curry-company/internal/pipeline"
)

type Server struct {
	pipeline *pipeline.Pipeline
	defaults filter.Criteria
	metrics  *metrics
	log      *slog.Logger
	router   chi.Router
}

// New builds the router. defaults fills in cutoff and traffic when a request
// leaves them out.
func New(p *pipeline.Pipeline, defaults filter.Criteria, log *slog.Logger) *Server {
	s := &Server{
		pipeline: p,
		defaults: defaults,
		metrics:  newMetrics(),
		log:      log.With(slog.String("component", "server")),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.metrics.instrument)

	r.Get("/healthz", s.health)
	r.Method(http.MethodGet, "/metrics", s.metrics.handler())
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/views", s.listViews)
		r.Get("/views/{name}", s.getView)
		r.Get("/dashboard", s.getDashboard)
		r.Get("/festival", s.getFestival)
	})

	s.router = r
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, cfg models.ServerConfig) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.log.Info("http server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

type errorResponse struct {
	Status int    `json:"status"`
	Error  string `json:"error"`
}

// statusFor maps pipeline and aggregation errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrNoData), errors.Is(err, dashboard.ErrUnknownView):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.log.ErrorContext(r.Context(), "request failed",
			slog.String("error", err.Error()),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("path", r.URL.Path))
	}
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Status: status, Error: err.Error()})
}

// criteria reads cutoff and traffic from the query string.
func (s *Server) criteria(r *http.Request) (filter.Criteria, error) {
	q := r.URL.Query()
	if q.Get("cutoff") == "" && q.Get("traffic") == "" {
		return s.defaults, nil
	}

	params := filter.Params{Cutoff: s.defaults.Cutoff.Format(models.DateLayout)}
	for _, t := range s.defaults.Traffic {
		params.Traffic = append(params.Traffic, t.String())
	}
	if v := q.Get("cutoff"); v != "" {
		params.Cutoff = v
	}
	if v := q.Get("traffic"); v != "" {
		params.Traffic = filter.SplitList(v)
	}
	return filter.ParseCriteria(params)
}

func (s *Server) records(w http.ResponseWriter, r *http.Request) ([]models.OrderRecord, bool) {
	c, err := s.criteria(r)
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, err)
		return nil, false
	}
	records, err := s.pipeline.Records(r.Context(), c)
	if err != nil {
		s.fail(w, r, statusFor(err), err)
		return nil, false
	}
	s.metrics.rows.Set(float64(len(records)))
	return records, true
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

func (s *Server) listViews(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string][]string{"views": dashboard.ViewNames()})
}

func (s *Server) getDashboard(w http.ResponseWriter, r *http.Request) {
	records, ok := s.records(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, s.pipeline.Build(r.Context(), records))
}

func (s *Server) getView(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	known := false
	for _, v := range dashboard.ViewNames() {
		known = known || v == name
	}
	if !known {
		s.fail(w, r, http.StatusNotFound, fmt.Errorf("%w: %q", dashboard.ErrUnknownView, name))
		return
	}

	records, ok := s.records(w, r)
	if !ok {
		return
	}
	d := s.pipeline.Build(r.Context(), records, name)
	value, err := d.View(name)
	if err != nil {
		s.fail(w, r, statusFor(err), err)
		return
	}
	render.JSON(w, r, map[string]any{"view": name, "rows": d.Rows, "value": value})
}

func (s *Server) getFestival(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	festival, err := models.ParseFestival(strings.TrimSpace(q.Get("festival")))
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, err)
		return
	}
	metric, err := analytics.ParseTimeMetric(q.Get("metric"))
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, err)
		return
	}

	records, ok := s.records(w, r)
	if !ok {
		return
	}
	value, err := analytics.FestivalTime(records, festival, metric)
	if err != nil {
		s.fail(w, r, statusFor(err), err)
		return
	}
	render.JSON(w, r, map[string]any{"festival": festival, "metric": metric, "value": value})
}
