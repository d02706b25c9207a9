// internal/httpserver/server.go
//
// HTTP server wiring for the Recall game.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", POST /onboarding.
//   - Gated endpoints (device token + finished onboarding): profile, shop,
//     ranks, attempts.
//   - Mapping of rule errors to status codes and JSON error bodies.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Display strings are negotiated per request from Accept-Language,
//     overridable with ?lang=.

package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"

	"github.com/robalobadob/recall/internal/config"
	"github.com/robalobadob/recall/internal/game"
	"github.com/robalobadob/recall/internal/locale"
	"github.com/robalobadob/recall/internal/profile"
	"github.com/robalobadob/recall/internal/rank"
)

// Deps are the collaborators a Server needs. Ranks and Scheduler may be nil.
type Deps struct {
	Config    config.Config
	Profiles  *profile.Service
	Catalog   *locale.Catalog
	Ranks     *rank.Table
	Scheduler game.Scheduler
}

// Server bundles the router and the game services.
type Server struct {
	r        *chi.Mux
	cfg      config.Config
	profiles *profile.Service
	catalog  *locale.Catalog
	ranks    *rank.Table
	attempts *attemptRegistry
}

// New constructs a Server, installs middleware, and registers routes.
func New(d Deps) *Server {
	if d.Ranks == nil {
		d.Ranks = rank.Default
	}
	if d.Scheduler == nil {
		d.Scheduler = game.RealScheduler{}
	}
	s := &Server{
		r:        chi.NewRouter(),
		cfg:      d.Config,
		profiles: d.Profiles,
		catalog:  d.Catalog,
		ranks:    d.Ranks,
	}
	s.attempts = newAttemptRegistry(d.Scheduler, game.Timing{
		CountdownTicks: d.Config.CountdownTicks,
		TickInterval:   d.Config.TickInterval,
	})

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(s.cors)

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"recall","endpoints":["/health","POST /onboarding","/profile","/shop/*","/ranks","/attempts/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	s.r.Post("/onboarding", s.handleOnboarding)

	s.r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)
		s.mountProfile(r)
		s.mountAttempts(r)
	})

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Handler exposes the router for http.Server and tests.
func (s *Server) Handler() http.Handler { return s.r }

// Shutdown abandons every live attempt so no timer outlives the server.
func (s *Server) Shutdown() { s.attempts.abandonAll() }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PATCH,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Accept-Language")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------- helpers -----------------------------------

// lang picks the display language for r.
func (s *Server) lang(r *http.Request) language.Tag {
	if q := r.URL.Query().Get("lang"); q != "" {
		return s.catalog.Match(q)
	}
	return s.catalog.Match(r.Header.Get("Accept-Language"))
}

// writeRuleError maps a profile rule error to a status code and error code.
func writeRuleError(w http.ResponseWriter, err error) {
	var status int
	var code string
	switch {
	case errors.Is(err, profile.ErrUsernameRequired):
		status, code = http.StatusBadRequest, "username_required"
	case errors.Is(err, profile.ErrHeartsFull):
		status, code = http.StatusConflict, "hearts_full"
	case errors.Is(err, profile.ErrNotEnoughCoins):
		status, code = http.StatusPaymentRequired, "not_enough_coins"
	case errors.Is(err, profile.ErrOutOfHearts):
		status, code = http.StatusForbidden, "out_of_hearts"
	case errors.Is(err, profile.ErrLevelLocked):
		status, code = http.StatusForbidden, "level_locked"
	case errors.Is(err, profile.ErrDailyCompleted):
		status, code = http.StatusConflict, "daily_completed"
	default:
		log.Error().Err(err).Msg("request failed")
		status, code = http.StatusServiceUnavailable, "store_unavailable"
	}
	http.Error(w, `{"error":"`+code+`"}`, status)
}
