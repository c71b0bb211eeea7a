package api

import (
	"context"
	"net/http"

	"github.com/asharma/portfolio-backend/auth"
)

type keyType string

const sessionKey keyType = "session"

// ctxWithSession stores the resolved session on the request context.
func ctxWithSession(ctx context.Context, s *auth.Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// ctxGetSession retrieves the session placed by the guard middleware.
// Returns nil when the request did not pass through the guard or is
// unauthenticated.
func ctxGetSession(ctx context.Context) *auth.Session {
	if v := ctx.Value(sessionKey); v != nil {
		if s, ok := v.(*auth.Session); ok {
			return s
		}
	}
	return nil
}

// resolveSession prefers the session the guard middleware already resolved,
// falling back to the request credentials for routes mounted without it.
func resolveSession(r *http.Request, secret []byte) *auth.Session {
	if s := ctxGetSession(r.Context()); s != nil {
		return s
	}
	return auth.Resolve(r, secret)
}
