package database

import (
	"github.com/asharma/portfolio-backend/models"
	"gorm.io/gorm"
)

// Database bundles one repository per collection, all sharing a GORM
// database instance. Handlers receive the narrow per-entity interfaces,
// never the raw *gorm.DB.
type Database struct {
	projectRepo *ProjectRepo
	contactRepo *ContactMessageRepo
	userRepo    *UserRepo
}

// New initializes a Database with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		projectRepo: NewProjectRepo(db),
		contactRepo: NewContactMessageRepo(db),
		userRepo:    NewUserRepo(db),
	}
}

// Migrate creates or updates the three collections' schemas.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Project{},
		&models.ContactMessage{},
		&models.User{},
	)
}

// Accessor methods for each repository

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) ContactMessageRepo() *ContactMessageRepo {
	return d.contactRepo
}

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}
