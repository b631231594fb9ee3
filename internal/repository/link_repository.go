package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"sheetchat/internal/model"
)

type LinkRepository struct {
	db *gorm.DB
}

func NewLinkRepository(db *gorm.DB) *LinkRepository {
	return &LinkRepository{db: db}
}

func (r *LinkRepository) Create(entry *model.LinkEntry) error {
	if err := r.db.Create(entry).Error; err != nil {
		return fmt.Errorf("create link failed: %w", err)
	}
	return nil
}

// List returns every registry row in insertion order; the registry is small
// enough that a full scan is the query plan.
func (r *LinkRepository) List() ([]model.LinkEntry, error) {
	var entries []model.LinkEntry
	if err := r.db.Order("id ASC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list links failed: %w", err)
	}
	return entries, nil
}

func (r *LinkRepository) GetByID(id uint) (*model.LinkEntry, error) {
	var entry model.LinkEntry
	if err := r.db.First(&entry, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get link failed: %w", err)
	}
	return &entry, nil
}

func (r *LinkRepository) DeleteByID(id uint) error {
	if err := r.db.Delete(&model.LinkEntry{}, id).Error; err != nil {
		return fmt.Errorf("delete link failed: %w", err)
	}
	return nil
}
