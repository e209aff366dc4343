package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/ravitejamarri/zypool/internal/session"
)

type sessionContextKey struct{}

// SessionParser verifies a bearer token. *session.Manager implements it.
type SessionParser interface {
	Parse(token string) (session.Session, error)
}

// ContextWithSession returns a copy of ctx carrying s.
func ContextWithSession(ctx context.Context, s session.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, s)
}

// SessionFromContext returns the session stored by RequireSession.
func SessionFromContext(ctx context.Context) (session.Session, bool) {
	s, ok := ctx.Value(sessionContextKey{}).(session.Session)
	return s, ok
}

// RequireSession rejects requests without a valid "Authorization: Bearer"
// token with 401 and stores the parsed session in the request context.
func RequireSession(parser SessionParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
				return
			}
			s, err := parser.Parse(token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized", "invalid or expired session")
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithSession(r.Context(), s)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
