package api

import (
	"github.com/asharma/portfolio-backend/database"
	"github.com/asharma/portfolio-backend/services"
)

type routeHandlers struct {
	projectHandler projectHandler
	contactHandler contactHandler
	userHandler    userHandler
	authHandler    authHandler
	csrfHandler    csrfHandler
}

// HandlerDeps carries the external collaborators the handlers compose with.
type HandlerDeps struct {
	Mailer     services.EmailSender
	Verifier   services.DomainVerifier
	Images     services.ImageHost
	OwnerEmail string
	Auth       AuthConfig
}

// initializeHandlers creates all handlers organized in a routeHandlers struct
func initializeHandlers(db database.Database, deps HandlerDeps) *routeHandlers {
	secret := []byte(deps.Auth.SessionSecret)

	return &routeHandlers{
		projectHandler: newProjectHandler(db.ProjectRepo(), deps.Images, secret),
		contactHandler: newContactHandler(db.ContactMessageRepo(), deps.Mailer, deps.Verifier, deps.OwnerEmail, secret),
		userHandler:    newUserHandler(db.UserRepo(), secret),
		authHandler:    newAuthHandler(db.UserRepo(), deps.Auth),
		csrfHandler:    newCSRFHandler(deps.Auth.SecureCookies),
	}
}
