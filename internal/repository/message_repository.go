package repository

import (
	"fmt"

	"gorm.io/gorm"

	"sheetchat/internal/model"
)

// ArchiveRepository persists archived turn entries. The archive is written
// by the worker and read only by operators; session history never loads
// from it.
type ArchiveRepository struct {
	db *gorm.DB
}

func NewArchiveRepository(db *gorm.DB) *ArchiveRepository {
	return &ArchiveRepository{db: db}
}

func (r *ArchiveRepository) Create(msg *model.ArchivedMessage) error {
	if err := r.db.Create(msg).Error; err != nil {
		return fmt.Errorf("create archived message failed: %w", err)
	}
	return nil
}

// ListBySessionID supports operator inspection of a session's audit trail.
func (r *ArchiveRepository) ListBySessionID(sessionID string, limit int) ([]model.ArchivedMessage, error) {
	if limit <= 0 || limit > 500 {
		limit = 200
	}

	var messages []model.ArchivedMessage
	if err := r.db.Where("session_id = ?", sessionID).Order("created_at ASC").Limit(limit).Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("list archived messages failed: %w", err)
	}
	return messages, nil
}
