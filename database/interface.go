package database

import (
	"github.com/asharma/portfolio-backend/models"
	"github.com/google/uuid"
)

// Per-entity store capabilities. Handlers depend on these interfaces so the
// persistence layer can be swapped for a fake in tests. All implementations
// share the same contract: FindByID returns (nil, nil) for a well-formed id
// with no matching record, and Delete reports whether a record was actually
// removed so callers can tell "deleted" from "already absent".

type ProjectStore interface {
	FindAll(limit int) ([]*models.Project, error)
	FindByID(id uuid.UUID) (*models.Project, error)
	Add(project *models.Project) error
	Replace(project *models.Project) error
	Delete(id uuid.UUID) (bool, error)
}

type ContactMessageStore interface {
	FindAll(limit int) ([]*models.ContactMessage, error)
	FindByID(id uuid.UUID) (*models.ContactMessage, error)
	Add(message *models.ContactMessage) error
	MarkRead(id uuid.UUID) (bool, error)
	Delete(id uuid.UUID) (bool, error)
	UnreadCount() (int64, error)
}

type UserStore interface {
	FindAll() ([]*models.User, error)
	FindByEmail(email string) (*models.User, error)
	Add(user *models.User) error
	UpdateRole(email, role string) (bool, error)
}
