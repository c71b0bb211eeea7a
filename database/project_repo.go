package database

import (
	"errors"
	"time"

	"github.com/asharma/portfolio-backend/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

// FindAll returns projects ordered newest-created-first. A limit of zero or
// less returns everything.
func (r *ProjectRepo) FindAll(limit int) ([]*models.Project, error) {
	var projects []*models.Project
	query := r.db.Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&projects).Error
	return projects, err
}

// FindByID returns a project by its ID, or (nil, nil) when no record matches.
func (r *ProjectRepo) FindByID(id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := r.db.Where("id = ?", id).First(&project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Add inserts a new project, stamping both timestamps.
func (r *ProjectRepo) Add(project *models.Project) error {
	now := time.Now().UTC()
	project.CreatedAt = now
	project.UpdatedAt = now
	return r.db.Create(project).Error
}

// Replace writes every column of the project (full-document replacement —
// the caller resends all fields). CreatedAt is preserved from the existing
// record by the caller; UpdatedAt is stamped here.
func (r *ProjectRepo) Replace(project *models.Project) error {
	project.Normalize()
	project.UpdatedAt = time.Now().UTC()
	return r.db.Save(project).Error
}

// Delete removes a project by id and reports whether a record was removed.
func (r *ProjectRepo) Delete(id uuid.UUID) (bool, error) {
	res := r.db.Where("id = ?", id).Delete(&models.Project{})
	return res.RowsAffected > 0, res.Error
}
