package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/asharma/portfolio-backend/auth"
	"github.com/asharma/portfolio-backend/database"
	"github.com/asharma/portfolio-backend/errs"
	"github.com/asharma/portfolio-backend/models"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type userHandler struct {
	responder     Responder
	logger        zerolog.Logger
	users         database.UserStore
	sessionSecret []byte
}

func newUserHandler(users database.UserStore, sessionSecret []byte) userHandler {
	logger := log.With().Str("handlerName", "userHandler").Logger()

	return userHandler{
		responder:     NewResponder(logger),
		logger:        logger,
		users:         users,
		sessionSecret: sessionSecret,
	}
}

func (h userHandler) requireAdmin(w http.ResponseWriter, r *http.Request) *auth.Session {
	session := resolveSession(r, h.sessionSecret)
	if !auth.IsAuthorizedAdmin(session) {
		h.responder.WriteError(w, errs.NewUnauthorizedError("admin access required"))
		return nil
	}
	return session
}

// getAllUsers lists accounts for the admin users page.
func (h userHandler) getAllUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.requireAdmin(w, r) == nil {
			return
		}

		users, err := h.users.FindAll()
		if err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("find", "users", err))
			return
		}

		if users == nil {
			users = []*models.User{}
		}
		h.responder.WriteJSON(w, map[string]interface{}{
			"users": users,
			"total": len(users),
		})
	}
}

type roleUpdate struct {
	Role string `json:"role"`
}

// updateUserRole changes another account's role. The acting admin can never
// target their own email; the comparison runs before any store write so an
// admin cannot lock themselves out.
func (h userHandler) updateUserRole() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := h.requireAdmin(w, r)
		if session == nil {
			return
		}

		email := chi.URLParam(r, "email")
		if decoded, err := url.PathUnescape(email); err == nil {
			email = decoded
		}
		if email == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing email"))
			return
		}

		var update roleUpdate
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}
		if !models.ValidRole(update.Role) {
			h.responder.WriteError(w, errs.NewValidationError("role", "Invalid role. Must be 'user' or 'admin'."))
			return
		}

		user, err := h.users.FindByEmail(email)
		if err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("find", "user", err))
			return
		}
		if user == nil {
			h.responder.WriteError(w, errs.NewNotFound("user"))
			return
		}

		if email == session.Email {
			h.responder.WriteError(w, errs.NewSelfRoleChangeError())
			return
		}

		if _, err := h.users.UpdateRole(email, update.Role); err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("update", "user", err))
			return
		}

		h.responder.WriteJSON(w, map[string]interface{}{
			"success": true,
			"message": fmt.Sprintf("User role updated to %s", update.Role),
		})
	}
}
