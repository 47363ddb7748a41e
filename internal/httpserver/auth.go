// internal/httpserver/auth.go
//
// Bearer-token auth.
// Tokens are HS256 JWTs carrying a subject ("sub") naming the caller; they
// are minted offline with `ranker token` (SignToken). When auth.require is
// set, POST /rank and DELETE /runs/{id} need a valid token. On every route a
// valid token's subject is recorded on the request context so persisted runs
// can say who asked for them.

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ctxSubjectKey is the context key type for the token subject.
type ctxSubjectKey struct{}

// SignToken creates an HS256 JWT for subject, valid for the given number of days.
func SignToken(secret, subject string, days int) (string, time.Time, error) {
	if secret == "" {
		return "", time.Time{}, errors.New("auth: empty secret")
	}
	if strings.TrimSpace(subject) == "" {
		return "", time.Time{}, errors.New("auth: empty subject")
	}
	if days <= 0 {
		days = 14
	}
	now := time.Now()
	exp := now.Add(time.Duration(days) * 24 * time.Hour)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"exp": exp.Unix(),
		"iat": now.Unix(),
	})
	ss, err := t.SignedString([]byte(secret))
	return ss, exp, err
}

// parseToken verifies a token and returns its subject.
func parseToken(secret, token string) (string, error) {
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if !t.Valid {
		return "", errors.New("auth: invalid token")
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", errors.New("auth: token has no subject")
	}
	return sub, nil
}

// bearer extracts a bearer token from the Authorization header.
func bearer(r *http.Request) string {
	// Authorization: Bearer <token>
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	return ""
}

// subjectFrom returns the authenticated subject, or "" for anonymous requests.
func subjectFrom(ctx context.Context) string {
	sub, _ := ctx.Value(ctxSubjectKey{}).(string)
	return sub
}

// withOptionalAuth decorates requests with the token subject if a valid token is present.
// It never 401s.
func (s *Server) withOptionalAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tok := bearer(r); tok != "" {
				if sub, err := parseToken(s.cfg.Auth.JWTSecret, tok); err == nil {
					r = r.WithContext(context.WithValue(r.Context(), ctxSubjectKey{}, sub))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requireAuthIfEnabled enforces a valid token when auth.require is set.
func (s *Server) requireAuthIfEnabled() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !s.cfg.Auth.Require {
				next.ServeHTTP(w, r)
				return
			}
			tok := bearer(r)
			if tok == "" {
				http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
				return
			}
			if _, err := parseToken(s.cfg.Auth.JWTSecret, tok); err != nil {
				http.Error(w, `{"error":"Invalid token"}`, http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
