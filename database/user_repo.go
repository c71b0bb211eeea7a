package database

import (
	"errors"
	"time"

	"github.com/asharma/portfolio-backend/models"
	"gorm.io/gorm"
)

type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db}
}

// FindAll returns users ordered newest-created-first.
func (r *UserRepo) FindAll() ([]*models.User, error) {
	var users []*models.User
	err := r.db.Order("created_at DESC").Find(&users).Error
	return users, err
}

// FindByEmail looks a user up by their natural key, returning (nil, nil)
// when no account exists for the email.
func (r *UserRepo) FindByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Add inserts a new user, stamping both timestamps. Callers in the sign-in
// path are expected to FindByEmail first; email dedup is enforced by
// lookup-before-insert rather than relying on the index alone.
func (r *UserRepo) Add(user *models.User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	return r.db.Create(user).Error
}

// UpdateRole sets the role for the account keyed by email. Returns false
// when no account matches.
func (r *UserRepo) UpdateRole(email, role string) (bool, error) {
	res := r.db.Model(&models.User{}).
		Where("email = ?", email).
		Updates(map[string]interface{}{
			"role":       role,
			"updated_at": time.Now().UTC(),
		})
	return res.RowsAffected > 0, res.Error
}
