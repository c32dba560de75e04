package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/riskibarqy/courtside-sync/internal/usecase"
)

const authTokenHeader = "X-Auth-Token"

// SessionVerifier resolves a session token issued at login.
type SessionVerifier interface {
	VerifySession(ctx context.Context, token string) (usecase.Session, error)
}

// RequireSession rejects requests without a live session and stores the
// session on the request context for the wrapped handler.
func RequireSession(verifier SessionVerifier, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.RequireSession")
		defer span.End()

		token := sessionTokenFromRequest(r)
		if token == "" {
			writeError(ctx, w, fmt.Errorf("%w: missing session token", usecase.ErrUnauthorized))
			return
		}

		session, err := verifier.VerifySession(ctx, token)
		if err != nil {
			writeError(ctx, w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(withSession(ctx, session)))
	})
}

// sessionTokenFromRequest prefers a bearer Authorization header and falls
// back to X-Auth-Token.
func sessionTokenFromRequest(r *http.Request) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	if ok && strings.EqualFold(scheme, "Bearer") {
		if token = strings.TrimSpace(token); token != "" {
			return token
		}
	}
	return strings.TrimSpace(r.Header.Get(authTokenHeader))
}
