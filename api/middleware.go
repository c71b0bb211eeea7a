package api

import (
	"net/http"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/asharma/portfolio-backend/auth"
	"github.com/asharma/portfolio-backend/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type guardMiddleware struct {
	responder     Responder
	sessionSecret []byte
}

func newGuardMiddleware(sessionSecret []byte) guardMiddleware {
	logger := log.With().Str("handlerName", "guardMiddleware").Logger()
	return guardMiddleware{
		responder:     NewResponder(logger),
		sessionSecret: sessionSecret,
	}
}

// requireAdminAPI denies admin API calls without a fresh admin session.
// The denial is identical for missing, malformed, expired and
// insufficient-role sessions; nothing about the underlying resource leaks.
// Handlers behind this middleware re-check on their own — the duplication is
// deliberate, both layers call auth.IsAuthorizedAdmin.
func (m guardMiddleware) requireAdminAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := auth.Resolve(r, m.sessionSecret)
		if !auth.IsAuthorizedAdmin(session) {
			m.responder.WriteError(w, errs.NewUnauthorizedError("admin access required"))
			return
		}
		next.ServeHTTP(w, r.WithContext(ctxWithSession(r.Context(), session)))
	})
}

// requireAdminPage guards the admin page prefix with redirect semantics:
// unauthenticated or non-admin visitors land on /unauthorized, while an
// admin whose session aged past the absolute limit is sent back through
// sign-in.
func (m guardMiddleware) requireAdminPage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Static assets under the admin prefix skip the check.
		if strings.Contains(r.URL.Path, "/_next/") || strings.Contains(r.URL.Path, "/static/") {
			next.ServeHTTP(w, r)
			return
		}

		session := auth.Resolve(r, m.sessionSecret)
		if auth.IsAuthorizedAdmin(session) {
			next.ServeHTTP(w, r.WithContext(ctxWithSession(r.Context(), session)))
			return
		}

		// An otherwise-valid admin session that only failed the age check
		// gets the re-login redirect; everything else is unauthorized.
		if session != nil && session.Role == "admin" && session.Stale(time.Now()) {
			http.Redirect(w, r, "/api/auth/signin?error=SessionExpired", http.StatusFound)
			return
		}
		http.Redirect(w, r, "/unauthorized", http.StatusFound)
	})
}

// requireSession only demands authentication, not the admin role.
func (m guardMiddleware) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := auth.Resolve(r, m.sessionSecret)
		if !auth.IsAuthenticated(session) {
			m.responder.WriteError(w, errs.NewUnauthorizedError("authentication required"))
			return
		}
		next.ServeHTTP(w, r.WithContext(ctxWithSession(r.Context(), session)))
	})
}

type statusResponseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusResponseWriter) WriteHeader(statusCode int) {
	if !w.wroteHeader {
		w.status = statusCode
		w.wroteHeader = true
		w.ResponseWriter.WriteHeader(statusCode)
	}
}

func LogInternalServerErrors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		srw := &statusResponseWriter{ResponseWriter: w, status: 200}

		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Interface("panic", err).
					Str("stack", string(debug.Stack())).
					Msg("Recovered from panic")

				// Write 500 if nothing written yet
				if !srw.wroteHeader {
					srw.WriteHeader(http.StatusInternalServerError)
				}
			}
		}()

		next.ServeHTTP(srw, r)

		if srw.status == http.StatusInternalServerError {
			log.Error().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("500 error response")
		}
	})
}

// ColoredHTTPLoggingMiddleware logs HTTP requests with colored output based on status codes
func ColoredHTTPLoggingMiddleware(next http.Handler) http.Handler {
	colorLogger := zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		srw := &statusResponseWriter{ResponseWriter: w, status: 200}

		next.ServeHTTP(srw, r)

		duration := time.Since(start)

		var logEvent *zerolog.Event
		switch {
		case srw.status >= 500:
			logEvent = colorLogger.Error()
		case srw.status >= 400:
			logEvent = colorLogger.Warn()
		default:
			logEvent = colorLogger.Info()
		}

		logEvent.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", srw.status).
			Dur("duration", duration).
			Str("remote_addr", r.RemoteAddr).
			Msg("HTTP Request")
	})
}
