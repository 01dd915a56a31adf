// Package auth provides optional bearer-token protection for the API.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type ctxKey string

const ctxKeySubject ctxKey = "designer.subject"

// SubjectFromContext returns the validated token subject, or "".
func SubjectFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeySubject).(string); ok {
		return v
	}
	return ""
}

// NewMiddleware enforces HS256 bearer tokens when secret is non-empty.
// With an empty secret the middleware is a pass-through (dev mode).
func NewMiddleware(secret string) func(next http.Handler) http.Handler {
	if secret == "" {
		log.Printf("[auth] no JWT secret configured, API is open")
		return func(next http.Handler) http.Handler { return next }
	}
	key := []byte(secret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := r.Header.Get("Authorization")
			if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
				unauthorized(w, "bearer token required")
				return
			}
			raw := strings.TrimSpace(authz[7:])

			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
				}
				return key, nil
			})
			if err != nil || !token.Valid {
				unauthorized(w, "invalid token")
				return
			}
			subject, _ := claims.GetSubject()
			ctx := context.WithValue(r.Context(), ctxKeySubject, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
