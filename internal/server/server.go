package server

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"fasms/internal/auth"
	"fasms/internal/handler"
	"fasms/internal/middleware"
	"fasms/internal/store"
)

type Server struct {
	db           *sql.DB
	adminStore   *store.AdministratorStore
	tokens       *auth.TokenManager
	authH        *handler.AuthHandler
	applicantH   *handler.ApplicantHandler
	schemeH      *handler.SchemeHandler
	applicationH *handler.ApplicationHandler
	rateLimiter  *middleware.RateLimiter
	logger       *slog.Logger
}

func New(db *sql.DB, jwtSecret string, tokenTTL time.Duration, logger *slog.Logger) *Server {
	adminStore := store.NewAdministratorStore(db)
	applicantStore := store.NewApplicantStore(db)
	schemeStore := store.NewSchemeStore(db)
	applicationStore := store.NewApplicationStore(db)

	tokens := auth.NewTokenManager(jwtSecret, tokenTTL)

	return &Server{
		db:           db,
		adminStore:   adminStore,
		tokens:       tokens,
		authH:        handler.NewAuthHandler(adminStore, tokens, logger.With("component", "auth")),
		applicantH:   handler.NewApplicantHandler(applicantStore, logger.With("component", "applicant")),
		schemeH:      handler.NewSchemeHandler(schemeStore, applicantStore, logger.With("component", "scheme")),
		applicationH: handler.NewApplicationHandler(applicationStore, applicantStore, schemeStore, logger.With("component", "application")),
		rateLimiter:  middleware.NewRateLimiter(),
		logger:       logger,
	}
}

func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// Router builds the full route table. Everything under /api except the public
// scheme listing requires a bearer token; the auth endpoints are rate-limited
// by client IP.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	limitAuth := middleware.RateLimit(s.rateLimiter, middleware.RealIP, 10, time.Minute)
	mux.Handle("POST /auth/register", limitAuth(http.HandlerFunc(s.authH.Register)))
	mux.Handle("POST /auth/login", limitAuth(http.HandlerFunc(s.authH.Login)))

	mux.HandleFunc("GET /api/schemes", s.schemeH.List)

	protected := middleware.RequireAuth(s.tokens, s.adminStore)
	protect := func(h http.HandlerFunc) http.Handler {
		return protected(h)
	}

	mux.Handle("POST /api/scheme", protect(s.schemeH.Create))
	mux.Handle("GET /api/schemes/eligible", protect(s.schemeH.Eligible))
	mux.Handle("GET /api/schemes/{id}", protect(s.schemeH.Get))
	mux.Handle("DELETE /api/schemes/{id}", protect(s.schemeH.Delete))

	mux.Handle("POST /api/applicants", protect(s.applicantH.Create))
	mux.Handle("GET /api/applicants", protect(s.applicantH.List))
	mux.Handle("GET /api/applicants/{id}", protect(s.applicantH.Get))
	mux.Handle("PUT /api/applicants/{id}", protect(s.applicantH.Update))
	mux.Handle("DELETE /api/applicants/{id}", protect(s.applicantH.Delete))

	mux.Handle("POST /api/applications", protect(s.applicationH.Create))
	mux.Handle("GET /api/applications", protect(s.applicationH.List))
	mux.Handle("GET /api/applications/search", protect(s.applicationH.Search))
	mux.Handle("GET /api/applications/{id}", protect(s.applicationH.Get))
	mux.Handle("PUT /api/applications/{id}", protect(s.applicationH.Update))
	mux.Handle("DELETE /api/applications/{id}", protect(s.applicationH.Delete))

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}
