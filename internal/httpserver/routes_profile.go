// internal/httpserver/routes_profile.go
//
// Profile, shop and rank routes:
//   - GET   /profile             → profile, frontier, daily availability, rank, reset clock
//   - PATCH /profile             → rename
//   - POST  /profile/claim-heart → daily heart regeneration
//   - POST  /shop/heart          → buy a heart with coins
//   - POST  /shop/reward         → rewarded-ad heart
//   - GET   /ranks               → localized rank table

package httpserver

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/text/language"

	"github.com/robalobadob/recall/internal/daily"
	"github.com/robalobadob/recall/internal/locale"
	"github.com/robalobadob/recall/internal/profile"
	"github.com/robalobadob/recall/internal/rank"
)

func (s *Server) mountProfile(r chi.Router) {
	r.Get("/profile", s.handleProfile)
	r.Patch("/profile", s.handleRename)
	r.Post("/profile/claim-heart", s.handleClaimHeart)
	r.Post("/shop/heart", s.handleShop(s.profiles.BuyHeart))
	r.Post("/shop/reward", s.handleShop(s.profiles.GrantHeart))
	r.Get("/ranks", s.handleRanks)
}

// rankView is a rank with its display strings.
type rankView struct {
	Key         string `json:"key"`
	Icon        string `json:"icon"`
	Threshold   int    `json:"threshold"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Server) rankView(tag language.Tag, rk rank.Rank) rankView {
	e := s.catalog.Rank(tag, rk.Key)
	return rankView{Key: rk.Key, Icon: rk.Icon, Threshold: rk.Threshold, Name: e.Name, Description: e.Description}
}

// standing is the player's place on the rank ladder.
type standing struct {
	Current rankView  `json:"current"`
	Next    *rankView `json:"next,omitempty"`
	Into    int       `json:"into"`
	ToNext  int       `json:"toNext"`
}

func (s *Server) standing(tag language.Tag, xp int) standing {
	st := standing{Current: s.rankView(tag, s.ranks.Current(xp))}
	if next, ok := s.ranks.Next(xp); ok {
		v := s.rankView(tag, next)
		st.Next = &v
	}
	st.Into, st.ToNext = s.ranks.Progress(xp)
	return st
}

type profileRes struct {
	Profile        profile.Profile `json:"profile"`
	Frontier       int             `json:"frontier"`
	MaxLevel       int             `json:"maxLevel"`
	DailyAvailable bool            `json:"dailyAvailable"`
	DailyResetIn   string          `json:"dailyResetIn"`
	Rank           standing        `json:"rank"`
	Lang           string          `json:"lang"`
	RTL            bool            `json:"rtl"`
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tag := s.lang(r)
	p := s.profiles.Profile(ctx)
	_ = json.NewEncoder(w).Encode(profileRes{
		Profile:        p,
		Frontier:       s.profiles.Frontier(ctx),
		MaxLevel:       profile.MaxLevel,
		DailyAvailable: !s.profiles.DailyCompleted(ctx),
		DailyResetIn:   daily.FormatClock(s.profiles.UntilDailyReset()),
		Rank:           s.standing(tag, p.XP),
		Lang:           tag.String(),
		RTL:            locale.IsRTL(tag),
	})
}

type renameReq struct {
	Username string `json:"username"`
}

func (s *Server) handleRename(w http.ResponseWriter, r *http.Request) {
	var body renameReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, `{"error":"invalid_json"}`, http.StatusBadRequest)
		return
	}
	p, err := s.profiles.SetUsername(r.Context(), body.Username)
	if err != nil {
		writeRuleError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(p)
}

type claimRes struct {
	Claimed bool            `json:"claimed"`
	Profile profile.Profile `json:"profile"`
}

func (s *Server) handleClaimHeart(w http.ResponseWriter, r *http.Request) {
	p, claimed, err := s.profiles.ClaimDailyHeart(r.Context())
	if err != nil {
		writeRuleError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(claimRes{Claimed: claimed, Profile: p})
}

// handleShop adapts a heart purchase rule to a handler.
func (s *Server) handleShop(buy func(context.Context) (profile.Profile, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := buy(r.Context())
		if err != nil {
			writeRuleError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(p)
	}
}

func (s *Server) handleRanks(w http.ResponseWriter, r *http.Request) {
	tag := s.lang(r)
	all := s.ranks.All()
	out := make([]rankView, 0, len(all))
	for _, rk := range all {
		out = append(out, s.rankView(tag, rk))
	}
	_ = json.NewEncoder(w).Encode(out)
}
