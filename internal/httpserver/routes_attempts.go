// internal/httpserver/routes_attempts.go
//
// HTTP routes for memorization attempts:
//   - POST   /attempts             → start a level or the daily challenge
//   - GET    /attempts/{id}        → phase view
//   - POST   /attempts/{id}/tap    → append a symbol during recall
//   - POST   /attempts/{id}/reset  → clear the submission during recall
//   - POST   /attempts/{id}/submit → judge and settle rewards/penalties
//   - DELETE /attempts/{id}        → abandon
//
// Attempts live in memory only. Starting a new attempt abandons the previous
// one, the same way leaving the game screen does. The daily sequence is
// drawn from a source seeded by (DAILY_SALT, date), so it is the same for
// every player on a given day.

package httpserver

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"

	"github.com/robalobadob/recall/internal/daily"
	"github.com/robalobadob/recall/internal/game"
	"github.com/robalobadob/recall/internal/profile"
	"github.com/robalobadob/recall/internal/sequence"
)

// attemptRegistry holds the live attempts keyed by ID.
type attemptRegistry struct {
	mu     sync.Mutex
	live   map[string]*game.Attempt
	sched  game.Scheduler
	timing game.Timing
}

func newAttemptRegistry(sched game.Scheduler, timing game.Timing) *attemptRegistry {
	return &attemptRegistry{live: make(map[string]*game.Attempt), sched: sched, timing: timing}
}

// start abandons every other attempt, then creates and starts a new one.
func (reg *attemptRegistry) start(setup game.Setup) *game.Attempt {
	id := setup.ID
	a := game.New(setup, reg.sched, reg.timing, game.Hooks{
		OnPhaseChange: func(p game.Phase) {
			log.Debug().Str("attempt", id).Str("phase", string(p)).Msg("phase change")
		},
	})

	reg.mu.Lock()
	for prev, old := range reg.live {
		old.Abandon()
		delete(reg.live, prev)
	}
	reg.live[id] = a
	reg.mu.Unlock()

	a.Start()
	return a
}

func (reg *attemptRegistry) get(id string) (*game.Attempt, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	a, ok := reg.live[id]
	return a, ok
}

func (reg *attemptRegistry) remove(id string) (*game.Attempt, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	a, ok := reg.live[id]
	delete(reg.live, id)
	return a, ok
}

func (reg *attemptRegistry) abandonAll() {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	for id, a := range reg.live {
		a.Abandon()
		delete(reg.live, id)
	}
}

// mountAttempts registers all /attempts routes.
func (s *Server) mountAttempts(r chi.Router) {
	r.Route("/attempts", func(r chi.Router) {
		r.Post("/", s.handleStartAttempt)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.withAttempt(s.handleView))
			r.Post("/tap", s.withAttempt(s.handleTap))
			r.Post("/reset", s.withAttempt(s.handleReset))
			r.Post("/submit", s.withAttempt(s.handleSubmit))
			r.Delete("/", s.handleAbandon)
		})
	})
}

// -----------------------------------------------------------------------------
// POST /attempts

type startReq struct {
	Mode  game.Mode `json:"mode"`  // "level" (default) | "daily"
	Level int       `json:"level"` // ignored for daily
}

type startRes struct {
	game.View
	RevealMs int64  `json:"revealMs"`
	Date     string `json:"date,omitempty"`
}

func (s *Server) handleStartAttempt(w http.ResponseWriter, r *http.Request) {
	var req startReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid_json"}`, http.StatusBadRequest)
		return
	}
	if req.Mode == "" {
		req.Mode = game.ModeLevel
	}
	if !req.Mode.IsValid() {
		http.Error(w, `{"error":"invalid_mode"}`, http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	var (
		target []sequence.Symbol
		date   string
	)
	switch req.Mode {
	case game.ModeDaily:
		if err := s.profiles.CanStartDaily(ctx); err != nil {
			writeRuleError(w, err)
			return
		}
		date = s.profiles.Today()
		req.Level = sequence.DailyLevel
		target = sequence.NewGenerator(daily.Seed(s.cfg.DailySalt, date)).Generate(req.Level)
	default:
		if err := s.profiles.CanStartLevel(ctx, req.Level); err != nil {
			writeRuleError(w, err)
			return
		}
		target = sequence.NewGenerator(nil).Generate(req.Level)
	}

	a := s.attempts.start(game.Setup{
		ID:      uuid.NewString(),
		Mode:    req.Mode,
		Level:   req.Level,
		Target:  target,
		Palette: sequence.NewGenerator(nil).Palette(target),
		Date:    date,
	})
	log.Debug().Str("device", deviceFrom(ctx)).Str("attempt", a.ID()).
		Str("mode", string(a.Mode())).Int("level", a.Level()).Msg("attempt started")

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(startRes{
		View:     a.Snapshot(),
		RevealMs: a.RevealTime().Milliseconds(),
		Date:     date,
	})
}

// -----------------------------------------------------------------------------
// /attempts/{id}

// withAttempt resolves {id} to a live attempt or answers 404.
func (s *Server) withAttempt(h func(http.ResponseWriter, *http.Request, *game.Attempt)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := s.attempts.get(chi.URLParam(r, "id"))
		if !ok {
			http.Error(w, `{"error":"attempt_not_found"}`, http.StatusNotFound)
			return
		}
		h(w, r, a)
	}
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request, a *game.Attempt) {
	_ = json.NewEncoder(w).Encode(a.Snapshot())
}

// inputRes answers tap/reset. Rejected input is not an error.
type inputRes struct {
	Accepted bool      `json:"accepted"`
	View     game.View `json:"view"`
}

type tapReq struct {
	Symbol sequence.Symbol `json:"symbol"`
}

func (s *Server) handleTap(w http.ResponseWriter, r *http.Request, a *game.Attempt) {
	var req tapReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid_json"}`, http.StatusBadRequest)
		return
	}
	ok := a.Tap(req.Symbol)
	_ = json.NewEncoder(w).Encode(inputRes{Accepted: ok, View: a.Snapshot()})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request, a *game.Attempt) {
	ok := a.Reset()
	_ = json.NewEncoder(w).Encode(inputRes{Accepted: ok, View: a.Snapshot()})
}

type submitRes struct {
	Accepted   bool                `json:"accepted"`
	Success    bool                `json:"success"`
	Settlement *profile.Settlement `json:"settlement,omitempty"`
	Message    string              `json:"message,omitempty"`
	View       game.View           `json:"view"`
}

// handleSubmit judges the submission and settles its consequence.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request, a *game.Attempt) {
	ctx := r.Context()
	res, ok := a.Submit()
	if !ok {
		_ = json.NewEncoder(w).Encode(submitRes{View: a.Snapshot()})
		return
	}
	// Another daily attempt may have been won since this one started.
	if a.Mode() == game.ModeDaily && res.Success && s.profiles.DailyCompletedOn(ctx, a.Date()) {
		a.Finish()
		writeRuleError(w, profile.ErrDailyCompleted)
		return
	}

	c := game.Resolve(a.Mode(), a.Level(), res.Success)
	c.Date = a.Date()
	st, err := s.profiles.Settle(ctx, c)
	if err != nil {
		writeRuleError(w, err)
		return
	}
	if st.OutOfHearts {
		a.Finish()
	}
	_ = json.NewEncoder(w).Encode(submitRes{
		Accepted:   true,
		Success:    res.Success,
		Settlement: &st,
		Message:    s.outcomeMessage(s.lang(r), st),
		View:       a.Snapshot(),
	})
}

// outcomeMessage renders the player-facing line for a settlement.
func (s *Server) outcomeMessage(tag language.Tag, st profile.Settlement) string {
	c := st.Consequence
	switch {
	case c.Success && c.Mode == game.ModeDaily:
		return s.catalog.Message(tag, "dailyWon", c.XP, c.Coins)
	case c.Success:
		return s.catalog.Message(tag, "levelWon", c.XP, c.Coins, c.Level)
	case c.Mode == game.ModeDaily:
		return s.catalog.Message(tag, "dailyFailed")
	case st.OutOfHearts:
		return s.catalog.Message(tag, "outOfHearts")
	default:
		return s.catalog.Message(tag, "heartLost", st.Profile.Hearts)
	}
}

func (s *Server) handleAbandon(w http.ResponseWriter, r *http.Request) {
	a, ok := s.attempts.remove(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, `{"error":"attempt_not_found"}`, http.StatusNotFound)
		return
	}
	a.Abandon()
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}
