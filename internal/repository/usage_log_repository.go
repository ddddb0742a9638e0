package repository

import (
	"fmt"

	"gorm.io/gorm"

	"pdflingua/internal/model"
)

type UsageLogRepository struct {
	db *gorm.DB
}

func NewUsageLogRepository(db *gorm.DB) *UsageLogRepository {
	return &UsageLogRepository{db: db}
}

func (r *UsageLogRepository) Create(entry *model.UsageLog) error {
	if err := r.db.Create(entry).Error; err != nil {
		return fmt.Errorf("create usage log failed: %w", err)
	}
	return nil
}

func (r *UsageLogRepository) ListByUserID(userID uint, limit int) ([]model.UsageLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	var entries []model.UsageLog
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Limit(limit).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list usage logs failed: %w", err)
	}
	return entries, nil
}
