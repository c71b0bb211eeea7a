package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "portfolio_session"

// MaxSessionAge is the absolute session lifetime measured from issuance.
// A session older than this is invalid even if the token itself has not
// expired, forcing re-authentication.
const MaxSessionAge = time.Hour

// tokenTTL bounds the JWT exp claim. The guard's age check is stricter and
// is what actually gates admin access.
const tokenTTL = 24 * time.Hour

// Session is the immutable result of resolving a request's credentials.
// It is re-derived from the token on every request and never cached or
// mutated in place.
type Session struct {
	UserID   string
	Email    string
	Name     string
	Role     string
	IssuedAt time.Time
}

type sessionClaims struct {
	UserID string `json:"uid"`
	Name   string `json:"name,omitempty"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken signs a session token for the given identity. The subject is
// the user's email; role and internal id ride along for the access guard.
func IssueToken(secret []byte, userID, email, name, role string, issuedAt time.Time) (string, error) {
	claims := sessionClaims{
		UserID: userID,
		Name:   name,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParseToken verifies the signature and decodes the session. Any decode or
// verification failure yields nil: a malformed session is indistinguishable
// from a missing one.
func ParseToken(secret []byte, token string) *Session {
	parsed, err := jwt.ParseWithClaims(token, &sessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil
	}

	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || claims.IssuedAt == nil {
		return nil
	}

	return &Session{
		UserID:   claims.UserID,
		Email:    claims.Subject,
		Name:     claims.Name,
		Role:     claims.Role,
		IssuedAt: claims.IssuedAt.Time,
	}
}

// Resolve extracts and verifies the session from the request's session
// cookie, falling back to a Bearer token for API clients. Returns nil for
// unauthenticated requests.
func Resolve(r *http.Request, secret []byte) *Session {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		if s := ParseToken(secret, cookie.Value); s != nil {
			return s
		}
	}

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return ParseToken(secret, strings.TrimPrefix(authHeader, "Bearer "))
	}

	return nil
}

// Stale reports whether the session has exceeded the absolute maximum age.
// This is a coarse issuance-age check, not sliding expiration.
func (s *Session) Stale(now time.Time) bool {
	return now.Sub(s.IssuedAt) > MaxSessionAge
}

// IsAuthenticated reports whether a fresh session exists at all.
func IsAuthenticated(s *Session) bool {
	return s != nil && !s.Stale(time.Now())
}

// IsAuthorizedAdmin is the single admin decision function. Both the edge
// path filter and the per-handler checks call it; the role comparison lives
// nowhere else.
func IsAuthorizedAdmin(s *Session) bool {
	return s != nil && s.Role == "admin" && !s.Stale(time.Now())
}
