package api

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"net/http"

	"github.com/asharma/portfolio-backend/errs"
	"github.com/rs/zerolog/log"
)

const csrfCookieName = "csrf-token"

type csrfHandler struct {
	responder     Responder
	secureCookies bool
}

func newCSRFHandler(secureCookies bool) csrfHandler {
	logger := log.With().Str("handlerName", "csrfHandler").Logger()
	return csrfHandler{
		responder:     NewResponder(logger),
		secureCookies: secureCookies,
	}
}

// issue hands an authenticated client a fresh token, mirrored into an
// HttpOnly cookie for later verification. Routed behind requireSession.
func (h csrfHandler) issue() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b := make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			h.responder.WriteError(w, errs.NewInternalError("failed to generate token"))
			return
		}
		token := hex.EncodeToString(b)

		http.SetCookie(w, &http.Cookie{
			Name:     csrfCookieName,
			Value:    token,
			Path:     "/",
			MaxAge:   3600, // 1 hour
			HttpOnly: true,
			SameSite: http.SameSiteStrictMode,
			Secure:   h.secureCookies,
		})

		h.responder.WriteJSON(w, map[string]string{
			"csrfToken": token,
		})
	}
}

// verify compares the submitted token against the cookie copy.
func (h csrfHandler) verify() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Token string `json:"token"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid request"))
			return
		}

		cookie, err := r.Cookie(csrfCookieName)
		if err != nil || body.Token == "" ||
			subtle.ConstantTimeCompare([]byte(body.Token), []byte(cookie.Value)) != 1 {
			w.WriteHeader(http.StatusForbidden)
			h.responder.WriteJSON(w, map[string]bool{"valid": false})
			return
		}

		h.responder.WriteJSON(w, map[string]bool{"valid": true})
	}
}
