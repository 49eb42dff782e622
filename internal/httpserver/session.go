// internal/httpserver/session.go
//
// Player sessions.
// Every visitor gets a stable player ID (a UUID) carried in a signed JWT:
//   - read from "Authorization: Bearer <token>" or the session cookie;
//   - minted and set as an HttpOnly cookie when missing or invalid.
// There are no accounts; the token only proves the ID was issued here.

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// SessionCookie is the name of the player session cookie.
const SessionCookie = "wordle_session"

type ctxPlayerKey struct{}

// withPlayer resolves (or mints) the player ID and stores it in the context.
func (s *Server) withPlayer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := s.ensurePlayer(w, r)
		ctx := context.WithValue(r.Context(), ctxPlayerKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// playerFrom returns the player ID set by withPlayer.
func playerFrom(ctx context.Context) string {
	id, _ := ctx.Value(ctxPlayerKey{}).(string)
	return id
}

// ensurePlayer returns the player ID from a valid token, or issues a new one.
func (s *Server) ensurePlayer(w http.ResponseWriter, r *http.Request) string {
	if tok := bearerOrCookie(r); tok != "" {
		if id, err := s.parseToken(tok); err == nil {
			return id
		}
	}
	id := uuid.NewString()
	tok, exp, err := s.signToken(id)
	if err != nil {
		log.Error().Err(err).Msg("sign session token")
		return id
	}
	s.setSessionCookie(w, tok, exp)
	return id
}

// signToken issues an HS256 token whose subject is the player ID.
func (s *Server) signToken(id string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(s.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   id,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	ss, err := token.SignedString(s.secret)
	return ss, exp, err
}

// parseToken validates tok and returns its subject.
func (s *Server) parseToken(tok string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.Subject == "" {
		return "", errors.New("invalid session token")
	}
	return claims.Subject, nil
}

func (s *Server) setSessionCookie(w http.ResponseWriter, token string, exp time.Time) {
	sameSite := http.SameSiteLaxMode
	if s.secure {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: sameSite,
		Expires:  exp,
	})
}

func bearerOrCookie(r *http.Request) string {
	// Authorization: Bearer <token>
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}
