package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"pdflingua/internal/model"
)

type TranslationRepository struct {
	db *gorm.DB
}

func NewTranslationRepository(db *gorm.DB) *TranslationRepository {
	return &TranslationRepository{db: db}
}

// CreateBatch inserts all chunk records of one file in a single statement.
func (r *TranslationRepository) CreateBatch(records []model.TranslationRecord) error {
	if len(records) == 0 {
		return nil
	}
	if err := r.db.Create(&records).Error; err != nil {
		return fmt.Errorf("create translation records failed: %w", err)
	}
	return nil
}

func (r *TranslationRepository) GetByID(id uint) (*model.TranslationRecord, error) {
	var record model.TranslationRecord
	if err := r.db.First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query translation record failed: %w", err)
	}
	return &record, nil
}

func (r *TranslationRepository) ExistsByFileID(fileID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&model.TranslationRecord{}).Where("file_id = ?", fileID).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count translation records failed: %w", err)
	}
	return count > 0, nil
}

// ListByFileID returns one page of records ordered by ascending id.
// offset/limit follow the usual (page-1)*limit convention of the caller.
func (r *TranslationRepository) ListByFileID(fileID uint, offset, limit int) ([]model.TranslationRecord, error) {
	var records []model.TranslationRecord
	q := r.db.Where("file_id = ?", fileID).Order("id ASC")
	if limit > 0 {
		q = q.Offset(offset).Limit(limit)
	}
	if err := q.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list translation records failed: %w", err)
	}
	return records, nil
}

func (r *TranslationRepository) CountByFileID(fileID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&model.TranslationRecord{}).Where("file_id = ?", fileID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count translation records failed: %w", err)
	}
	return count, nil
}

// UpdateField overwrites a single text column of one record.
func (r *TranslationRepository) UpdateField(id uint, field string, value string) error {
	if err := r.db.Model(&model.TranslationRecord{}).Where("id = ?", id).Update(field, value).Error; err != nil {
		return fmt.Errorf("update translation record failed: %w", err)
	}
	return nil
}
