package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/warehouse-capacity-map/internal/domain"
	"github.com/couchcryptid/warehouse-capacity-map/internal/mapview"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const maxBodyBytes = 64 << 10

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// MapService answers warehouse map queries.
type MapService interface {
	ReadinessChecker
	Snapshot(ctx context.Context, stateCode string) (*mapview.Snapshot, error)
	Refresh(ctx context.Context, stateCode string) (*mapview.Snapshot, error)
	Fill(ctx context.Context, stateCode string, props domain.FeatureProperties) (string, error)
	Tooltip(ctx context.Context, stateCode string, props domain.FeatureProperties) (domain.Tooltip, error)
	Click(ctx context.Context, stateCode string, props domain.FeatureProperties) (mapview.ClickResult, error)
	BaseColor() domain.Color
	SetBaseColor(c domain.Color)
}

// Server exposes the warehouse map API alongside health, readiness, and
// metrics endpoints.
type Server struct {
	httpServer *http.Server
	svc        MapService
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the map API plus /healthz, /readyz,
// and /metrics routes.
func NewServer(addr string, svc MapService, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		svc:    svc,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(svc))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/warehouse/map", s.handleMap)
	mux.HandleFunc("POST /api/warehouse/refresh", s.handleRefresh)
	mux.HandleFunc("GET /api/warehouse/fill", s.handleFill)
	mux.HandleFunc("GET /api/warehouse/tooltip", s.handleTooltip)
	mux.HandleFunc("POST /api/warehouse/click", s.handleClick)
	mux.HandleFunc("GET /api/warehouse/theme", s.handleGetTheme)
	mux.HandleFunc("PUT /api/warehouse/theme", s.handlePutTheme)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	snap, err := s.svc.Snapshot(r.Context(), r.URL.Query().Get("stateCode"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	snap, err := s.svc.Refresh(r.Context(), r.URL.Query().Get("stateCode"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleFill(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	fill, err := s.svc.Fill(r.Context(), q.Get("stateCode"), featureFromQuery(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"color": fill})
}

func (s *Server) handleTooltip(w http.ResponseWriter, r *http.Request) {
	tip, err := s.svc.Tooltip(r.Context(), r.URL.Query().Get("stateCode"), featureFromQuery(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tip)
}

type clickRequest struct {
	StateCode  string                   `json:"stateCode"`
	Properties domain.FeatureProperties `json:"properties"`
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	var req clickRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid click body: "+err.Error())
		return
	}

	res, err := s.svc.Click(r.Context(), req.StateCode, req.Properties)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type themeBody struct {
	Color string `json:"color"`
}

func (s *Server) handleGetTheme(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, themeBody{Color: s.svc.BaseColor().Hex()})
}

func (s *Server) handlePutTheme(w http.ResponseWriter, r *http.Request) {
	var body themeBody
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid theme body: "+err.Error())
		return
	}
	c, err := domain.ParseColor(body.Color)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.svc.SetBaseColor(c)
	writeJSON(w, http.StatusOK, themeBody{Color: c.Hex()})
}

func featureFromQuery(r *http.Request) domain.FeatureProperties {
	q := r.URL.Query()
	return domain.FeatureProperties{StateName: q.Get("st_nm"), DistrictName: q.Get("district")}
}

// writeServiceError maps a service failure to a status. Unknown state codes
// are the caller's fault; anything else came from the summary API.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, mapview.ErrUnknownState) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.Error("warehouse map request failed", "path", r.URL.Path, "error", err)
	writeError(w, http.StatusBadGateway, err.Error())
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
