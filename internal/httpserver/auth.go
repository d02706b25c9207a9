// internal/httpserver/auth.go
//
// Device session tokens.
// Onboarding issues an HS256 JWT naming a device ID; gated routes require a
// valid token and a finished onboarding. The token is accepted from an
// "Authorization: Bearer" header or the session cookie.

package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type ctxDeviceKey struct{}

type onboardingReq struct {
	Username string `json:"username"`
}

type onboardingRes struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Profile   any       `json:"profile"`
}

// handleOnboarding sets the username and issues a device token.
func (s *Server) handleOnboarding(w http.ResponseWriter, r *http.Request) {
	var body onboardingReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, `{"error":"invalid_json"}`, http.StatusBadRequest)
		return
	}
	p, err := s.profiles.SetUsername(r.Context(), body.Username)
	if err != nil {
		writeRuleError(w, err)
		return
	}
	// Renaming from an existing session keeps its device ID.
	device, ok := s.parseJWT(s.bearerOrCookie(r))
	if !ok {
		device = uuid.NewString()
	}
	tok, exp, err := s.signJWT(device)
	if err != nil {
		log.Error().Err(err).Msg("sign token")
		http.Error(w, `{"error":"sign_failed"}`, http.StatusInternalServerError)
		return
	}
	s.setAuthCookie(w, tok, exp)
	log.Info().Str("device", device).Str("username", p.Username).Msg("onboarded")
	_ = json.NewEncoder(w).Encode(onboardingRes{Token: tok, ExpiresAt: exp, Profile: p})
}

// signJWT creates an HS256 JWT for device with a JWT_EXPIRES_DAYS expiry.
func (s *Server) signJWT(device string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(time.Duration(s.cfg.JWTExpiresDays) * 24 * time.Hour)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   device,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	ss, err := t.SignedString([]byte(s.cfg.JWTSecret))
	return ss, exp, err
}

// parseJWT validates tok and returns its device ID.
func (s *Server) parseJWT(tok string) (string, bool) {
	claims := &jwt.RegisteredClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid || claims.Subject == "" {
		return "", false
	}
	return claims.Subject, true
}

// setAuthCookie writes the token cookie with appropriate security attributes.
func (s *Server) setAuthCookie(w http.ResponseWriter, token string, exp time.Time) {
	sameSite := http.SameSiteLaxMode
	if s.cfg.Production {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.Production,
		SameSite: sameSite,
		Expires:  exp,
	})
}

// bearerOrCookie extracts a bearer token from Authorization header or cookie.
func (s *Server) bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(s.cfg.CookieName); err == nil {
		return c.Value
	}
	return ""
}

// requireAuth enforces a valid token and a finished onboarding.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := s.bearerOrCookie(r)
		if tok == "" {
			http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
			return
		}
		device, ok := s.parseJWT(tok)
		if !ok {
			http.Error(w, `{"error":"Invalid token"}`, http.StatusUnauthorized)
			return
		}
		if !s.profiles.Profile(r.Context()).Onboarded() {
			http.Error(w, `{"error":"onboarding_required"}`, http.StatusForbidden)
			return
		}
		ctx := context.WithValue(r.Context(), ctxDeviceKey{}, device)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func deviceFrom(ctx context.Context) string {
	d, _ := ctx.Value(ctxDeviceKey{}).(string)
	return d
}
