package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/KrishChai1/uscis-console/internal/claude"
	"github.com/KrishChai1/uscis-console/internal/render"
	"github.com/KrishChai1/uscis-console/internal/uscis"
)

// Server is the console's HTTP surface: server-rendered pages plus the
// JSON endpoints the pages call.
type Server struct {
	uscis      *uscis.Client
	summarizer *claude.Client
	templates  *render.TemplateSet
	activity   *activityLog
	router     *mux.Router
	logger     zerolog.Logger
}

// New wires the console server. templates may come from any path the
// binary was started with.
func New(logger zerolog.Logger, uscisClient *uscis.Client, summarizer *claude.Client, templates *render.TemplateSet) *Server {
	s := &Server{
		uscis:      uscisClient,
		summarizer: summarizer,
		templates:  templates,
		activity:   newActivityLog(),
		router:     mux.NewRouter(),
		logger:     logger,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := s.router

	r.HandleFunc("/health", s.healthHandler).Methods(http.MethodGet)

	// Pages
	r.HandleFunc("/", s.homePage).Methods(http.MethodGet)
	r.HandleFunc("/case-status", s.caseStatusPage).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/foia", s.foiaPage).Methods(http.MethodGet)
	r.HandleFunc("/foia/request", s.foiaCreateSubmit).Methods(http.MethodPost)
	r.HandleFunc("/foia/status", s.foiaStatusSubmit).Methods(http.MethodPost)
	r.HandleFunc("/connection", s.connectionPage).Methods(http.MethodGet)
	r.HandleFunc("/logs", s.logsPage).Methods(http.MethodGet)

	// JSON API
	r.HandleFunc("/api/token", s.tokenStatusHandler).Methods(http.MethodGet)
	r.HandleFunc("/api/token/refresh", s.tokenRefreshHandler).Methods(http.MethodPost)
	r.HandleFunc("/api/case-status/{receipt}", s.caseStatusHandler).Methods(http.MethodGet)
	r.HandleFunc("/api/foia/request", s.foiaCreateHandler).Methods(http.MethodPost)
	r.HandleFunc("/api/foia/status/{number}", s.foiaStatusHandler).Methods(http.MethodGet)
	r.HandleFunc("/api/connection-test", s.connectionTestHandler).Methods(http.MethodPost)
	r.HandleFunc("/api/summarize", s.summarizeHandler).Methods(http.MethodPost)
	r.HandleFunc("/api/logs", s.logsHandler).Methods(http.MethodGet)
	r.HandleFunc("/api/logs/clear", s.logsClearHandler).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(s.notFoundHandler)
}

// Tokens exposes the token manager for startup validation.
func (s *Server) Tokens() *uscis.TokenManager {
	return s.uscis.Tokens()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.loggingMiddleware(s.router).ServeHTTP(w, r)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		s.logger.Info().
			Str("method", r.Method).
			Str("uri", r.RequestURI).
			Str("remote_addr", r.RemoteAddr).
			Msg("Incoming request")
		next.ServeHTTP(w, r)
		s.logger.Info().
			Str("method", r.Method).
			Str("uri", r.RequestURI).
			Dur("duration", time.Since(start)).
			Msg("Finished request")
	})
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}

func (s *Server) notFoundHandler(w http.ResponseWriter, r *http.Request) {
	s.logger.Warn().
		Str("method", r.Method).
		Str("uri", r.RequestURI).
		Msg("Unhandled route")
	http.NotFound(w, r)
}
