package api

import (
	"encoding/json"
	"net/http"
	"net/mail"
	"strconv"

	"github.com/asharma/portfolio-backend/auth"
	"github.com/asharma/portfolio-backend/database"
	"github.com/asharma/portfolio-backend/errs"
	"github.com/asharma/portfolio-backend/models"
	"github.com/asharma/portfolio-backend/services"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type contactHandler struct {
	responder     Responder
	logger        zerolog.Logger
	messages      database.ContactMessageStore
	mailer        services.EmailSender
	verifier      services.DomainVerifier
	ownerEmail    string
	sessionSecret []byte
}

func newContactHandler(
	messages database.ContactMessageStore,
	mailer services.EmailSender,
	verifier services.DomainVerifier,
	ownerEmail string,
	sessionSecret []byte,
) contactHandler {
	logger := log.With().Str("handlerName", "contactHandler").Logger()

	return contactHandler{
		responder:     NewResponder(logger),
		logger:        logger,
		messages:      messages,
		mailer:        mailer,
		verifier:      verifier,
		ownerEmail:    ownerEmail,
		sessionSecret: sessionSecret,
	}
}

func (h contactHandler) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if !auth.IsAuthorizedAdmin(resolveSession(r, h.sessionSecret)) {
		h.responder.WriteError(w, errs.NewUnauthorizedError("admin access required"))
		return false
	}
	return true
}

type contactSubmission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// validate collects every failing field so the caller can correct the whole
// form in one round trip.
func (s contactSubmission) validate() map[string]string {
	fieldErrors := make(map[string]string)
	if len(s.Name) < 2 {
		fieldErrors["name"] = "Name must be at least 2 characters"
	}
	if _, err := mail.ParseAddress(s.Email); err != nil {
		fieldErrors["email"] = "Please provide a valid email address"
	}
	if len(s.Message) < 10 {
		fieldErrors["message"] = "Message must be at least 10 characters"
	}
	if len(fieldErrors) == 0 {
		return nil
	}
	return fieldErrors
}

// submit runs the public intake pipeline: shape validation, MX
// deliverability check, persist as unread, then two independent best-effort
// notification sends. Persistence failure fails the request; a single send
// failure does not — only both sends failing does.
func (h contactHandler) submit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var submission contactSubmission
		if err := json.NewDecoder(r.Body).Decode(&submission); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		if fieldErrors := submission.validate(); fieldErrors != nil {
			w.WriteHeader(http.StatusBadRequest)
			h.responder.WriteJSON(w, map[string]interface{}{
				"success": false,
				"error":   "Invalid form data",
				"details": fieldErrors,
			})
			return
		}

		if !h.verifier.HasMailExchanger(r.Context(), submission.Email) {
			w.WriteHeader(http.StatusBadRequest)
			h.responder.WriteJSON(w, map[string]interface{}{
				"success": false,
				"error":   "Invalid email domain. Please provide a valid email address.",
			})
			return
		}

		message := &models.ContactMessage{
			Name:    submission.Name,
			Email:   submission.Email,
			Message: submission.Message,
		}
		if err := h.messages.Add(message); err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("create", "contact message", err))
			return
		}

		// Two independent sends; failures are logged, never retried, and the
		// stored message is not rolled back.
		autoReplyOK := true
		if err := h.mailer.Send(r.Context(), services.AutoReplySubject,
			services.AutoReplyBody(submission.Name), []string{submission.Email}); err != nil {
			h.logger.Error().Err(err).Msg("Failed to send auto-reply")
			autoReplyOK = false
		}

		notificationOK := true
		if err := h.mailer.Send(r.Context(), services.NotificationSubject(submission.Name),
			services.NotificationBody(submission.Name, submission.Email, submission.Message),
			[]string{h.ownerEmail}); err != nil {
			h.logger.Error().Err(err).Msg("Failed to send owner notification")
			notificationOK = false
		}

		if !autoReplyOK && !notificationOK {
			w.WriteHeader(http.StatusInternalServerError)
			h.responder.WriteJSON(w, map[string]interface{}{
				"success": false,
				"error":   "Failed to send emails. Please try again later.",
			})
			return
		}

		autoReply := "sent"
		if !autoReplyOK {
			autoReply = "failed"
		}
		h.responder.WriteJSON(w, map[string]interface{}{
			"success":   true,
			"message":   "Message received successfully. Thank you for reaching out!",
			"autoReply": autoReply,
		})
	}
}

// listMessages returns all messages for the admin inbox, optionally capped,
// with the unread count for the notification badge.
func (h contactHandler) listMessages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.requireAdmin(w, r) {
			return
		}

		limit := 0
		if limitParam := r.URL.Query().Get("limit"); limitParam != "" {
			parsed, err := strconv.Atoi(limitParam)
			if err != nil {
				h.responder.WriteError(w, errs.NewValidationError("limit", "limit must be an integer"))
				return
			}
			limit = parsed
		}

		messages, err := h.messages.FindAll(limit)
		if err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("find", "contact messages", err))
			return
		}
		unreadCount, err := h.messages.UnreadCount()
		if err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("count", "contact messages", err))
			return
		}

		if messages == nil {
			messages = []*models.ContactMessage{}
		}
		h.responder.WriteJSON(w, map[string]interface{}{
			"messages":    messages,
			"unreadCount": unreadCount,
			"total":       len(messages),
		})
	}
}

// getMessage returns one message and marks it read on first view. The
// response carries the message as it was fetched.
func (h contactHandler) getMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.requireAdmin(w, r) {
			return
		}

		messageID, apiErr := parseMessageID(r)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		message, err := h.messages.FindByID(messageID)
		if err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("find", "contact message", err))
			return
		}
		if message == nil {
			h.responder.WriteError(w, errs.NewNotFound("message"))
			return
		}

		if !message.Read {
			if _, err := h.messages.MarkRead(messageID); err != nil {
				h.responder.WriteError(w, errs.NewDatabaseError("update", "contact message", err))
				return
			}
		}

		h.responder.WriteJSON(w, map[string]interface{}{
			"message": message,
		})
	}
}

// markMessageRead is the explicit mark-as-read action.
func (h contactHandler) markMessageRead() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.requireAdmin(w, r) {
			return
		}

		messageID, apiErr := parseMessageID(r)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		found, err := h.messages.MarkRead(messageID)
		if err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("update", "contact message", err))
			return
		}
		if !found {
			h.responder.WriteError(w, errs.NewNotFound("message"))
			return
		}

		h.responder.WriteJSON(w, map[string]interface{}{
			"success": true,
			"message": "Message marked as read",
		})
	}
}

// deleteMessage removes a message. Deleting an already-deleted id reports
// not found rather than an error.
func (h contactHandler) deleteMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.requireAdmin(w, r) {
			return
		}

		messageID, apiErr := parseMessageID(r)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		deleted, err := h.messages.Delete(messageID)
		if err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("delete", "contact message", err))
			return
		}
		if !deleted {
			h.responder.WriteError(w, errs.NewNotFound("message"))
			return
		}

		h.responder.WriteJSON(w, map[string]interface{}{
			"success": true,
			"message": "Message deleted successfully",
		})
	}
}

func parseMessageID(r *http.Request) (uuid.UUID, *errs.ApiErr) {
	messageIDStr := chi.URLParam(r, "messageID")
	if messageIDStr == "" {
		return uuid.Nil, errs.NewBadRequestError("missing messageID")
	}
	messageID, err := uuid.Parse(messageIDStr)
	if err != nil {
		return uuid.Nil, errs.NewValidationError("messageID", "invalid message ID format")
	}
	return messageID, nil
}
