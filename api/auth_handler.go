package api

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/asharma/portfolio-backend/auth"
	"github.com/asharma/portfolio-backend/database"
	"github.com/asharma/portfolio-backend/errs"
	"github.com/asharma/portfolio-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const oauthStateCookieName = "oauth_state"

type authHandler struct {
	responder     Responder
	logger        zerolog.Logger
	users         database.UserStore
	googleConfig  *oauth2.Config
	sessionSecret []byte
	frontendURL   string
	secureCookies bool
}

// AuthConfig carries the OAuth client credentials and session settings.
type AuthConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
	RedirectURL        string
	SessionSecret      string
	FrontendURL        string
	SecureCookies      bool
}

func newAuthHandler(users database.UserStore, cfg AuthConfig) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	googleConfig := &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Scopes:       []string{"profile", "email"},
		Endpoint:     google.Endpoint,
	}

	return authHandler{
		responder:     NewResponder(logger),
		logger:        logger,
		users:         users,
		googleConfig:  googleConfig,
		sessionSecret: []byte(cfg.SessionSecret),
		frontendURL:   cfg.FrontendURL,
		secureCookies: cfg.SecureCookies,
	}
}

// generateOAuthState produces the random state string tying the callback to
// this browser.
func generateOAuthState() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}

func (h authHandler) setStateCookie(w http.ResponseWriter, state string) {
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   600, // 10 minutes
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.secureCookies,
	})
}

func (h authHandler) clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Expires:  time.Unix(0, 0),
	})
}

func verifyOAuthState(r *http.Request) bool {
	cookie, err := r.Cookie(oauthStateCookieName)
	if err != nil || cookie.Value == "" {
		return false
	}
	return cookie.Value == r.URL.Query().Get("state")
}

// signIn starts the Google OAuth flow.
func (h authHandler) signIn() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := generateOAuthState()
		h.setStateCookie(w, state)
		http.Redirect(w, r, h.googleConfig.AuthCodeURL(state), http.StatusFound)
	}
}

// googleUserInfo is the subset of the Google userinfo response we use.
type googleUserInfo struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// callback finishes the flow: state check, code exchange, userinfo fetch,
// lazy User creation, session issuance. A first-time email gets a "user"
// role account; role and internal id are embedded into the session token.
func (h authHandler) callback() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !verifyOAuthState(r) {
			h.responder.WriteError(w, errs.NewUnauthorizedError("invalid oauth state"))
			return
		}
		h.clearCookie(w, oauthStateCookieName)

		code := r.URL.Query().Get("code")
		if code == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing authorization code"))
			return
		}

		token, err := h.googleConfig.Exchange(r.Context(), code)
		if err != nil {
			h.logger.Error().Err(err).Msg("OAuth code exchange failed")
			h.responder.WriteError(w, errs.NewUnauthorizedError("sign-in failed"))
			return
		}

		info, err := h.fetchUserInfo(r.Context(), token)
		if err != nil {
			h.logger.Error().Err(err).Msg("Failed to fetch Google user info")
			h.responder.WriteError(w, errs.NewUnauthorizedError("sign-in failed"))
			return
		}

		user, err := h.getOrCreateUser(info)
		if err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("create", "user", err))
			return
		}

		sessionToken, err := auth.IssueToken(h.sessionSecret,
			user.ID.String(), user.Email, user.Name, user.Role, time.Now())
		if err != nil {
			h.logger.Error().Err(err).Msg("Failed to sign session token")
			h.responder.WriteError(w, errs.NewInternalError("failed to establish session"))
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     auth.SessionCookieName,
			Value:    sessionToken,
			Path:     "/",
			MaxAge:   int(auth.MaxSessionAge.Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			Secure:   h.secureCookies,
		})

		http.Redirect(w, r, h.frontendURL, http.StatusFound)
	}
}

func (h authHandler) fetchUserInfo(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	client := h.googleConfig.Client(ctx, token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo endpoint returned status %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}
	if info.Email == "" {
		return nil, fmt.Errorf("userinfo response missing email")
	}
	return &info, nil
}

// getOrCreateUser looks the account up by email and lazily creates it on
// first sign-in with the default role. Dedup is lookup-before-insert on the
// email natural key.
func (h authHandler) getOrCreateUser(info *googleUserInfo) (*models.User, error) {
	user, err := h.users.FindByEmail(info.Email)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	user = &models.User{
		Name:  info.Name,
		Email: info.Email,
		Image: info.Picture,
		Role:  models.RoleUser,
	}
	if err := h.users.Add(user); err != nil {
		return nil, err
	}
	h.logger.Info().Str("email", user.Email).Msg("Created account on first sign-in")
	return user, nil
}

// signOut clears the session cookie.
func (h authHandler) signOut() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.clearCookie(w, auth.SessionCookieName)
		h.responder.WriteJSON(w, map[string]interface{}{
			"success": true,
		})
	}
}

// session exposes the current session to the frontend, or {"user": null}.
func (h authHandler) session() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := auth.Resolve(r, h.sessionSecret)
		if !auth.IsAuthenticated(s) {
			h.responder.WriteJSON(w, map[string]interface{}{
				"user": nil,
			})
			return
		}

		h.responder.WriteJSON(w, map[string]interface{}{
			"user": map[string]string{
				"id":    s.UserID,
				"email": s.Email,
				"name":  s.Name,
				"role":  s.Role,
			},
		})
	}
}
