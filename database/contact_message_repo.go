package database

import (
	"errors"
	"time"

	"github.com/asharma/portfolio-backend/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContactMessageRepo struct {
	db *gorm.DB
}

func NewContactMessageRepo(db *gorm.DB) *ContactMessageRepo {
	return &ContactMessageRepo{db}
}

// FindAll returns messages ordered newest-created-first, optionally capped.
func (r *ContactMessageRepo) FindAll(limit int) ([]*models.ContactMessage, error) {
	var messages []*models.ContactMessage
	query := r.db.Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&messages).Error
	return messages, err
}

// FindByID returns a message by its ID, or (nil, nil) when no record matches.
func (r *ContactMessageRepo) FindByID(id uuid.UUID) (*models.ContactMessage, error) {
	var message models.ContactMessage
	err := r.db.Where("id = ?", id).First(&message).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &message, nil
}

// Add inserts a new message as unread, stamping both timestamps.
func (r *ContactMessageRepo) Add(message *models.ContactMessage) error {
	now := time.Now().UTC()
	message.CreatedAt = now
	message.UpdatedAt = now
	return r.db.Create(message).Error
}

// MarkRead flips a message to read. Returns false when no record matches the
// id. Marking an already-read message is a no-op success: read only ever
// transitions false to true.
func (r *ContactMessageRepo) MarkRead(id uuid.UUID) (bool, error) {
	message, err := r.FindByID(id)
	if err != nil {
		return false, err
	}
	if message == nil {
		return false, nil
	}
	if message.Read {
		return true, nil
	}
	err = r.db.Model(&models.ContactMessage{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"read":       true,
			"updated_at": time.Now().UTC(),
		}).Error
	return err == nil, err
}

// Delete removes a message by id and reports whether a record was removed.
func (r *ContactMessageRepo) Delete(id uuid.UUID) (bool, error) {
	res := r.db.Where("id = ?", id).Delete(&models.ContactMessage{})
	return res.RowsAffected > 0, res.Error
}

// UnreadCount returns the number of unread messages.
func (r *ContactMessageRepo) UnreadCount() (int64, error) {
	var count int64
	err := r.db.Model(&models.ContactMessage{}).Where("read = ?", false).Count(&count).Error
	return count, err
}
