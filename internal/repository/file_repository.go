package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"pdflingua/internal/model"
)

type FileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) *FileRepository {
	return &FileRepository{db: db}
}

func (r *FileRepository) Create(file *model.File) error {
	if err := r.db.Create(file).Error; err != nil {
		return fmt.Errorf("create file failed: %w", err)
	}
	return nil
}

func (r *FileRepository) GetByID(id uint) (*model.File, error) {
	var file model.File
	if err := r.db.First(&file, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query file by id failed: %w", err)
	}
	return &file, nil
}

// ExistsByHashAndUserID reports whether the owner already uploaded content
// with this hash. Dedup is scoped per owner.
func (r *FileRepository) ExistsByHashAndUserID(hash string, userID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&model.File{}).Where("content_hash = ? AND user_id = ?", hash, userID).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count files by hash failed: %w", err)
	}
	return count > 0, nil
}

func (r *FileRepository) ListByUserID(userID uint) ([]model.File, error) {
	var files []model.File
	if err := r.db.Where("user_id = ?", userID).Order("uploaded_at DESC").Find(&files).Error; err != nil {
		return nil, fmt.Errorf("list files failed: %w", err)
	}
	return files, nil
}

func (r *FileRepository) Update(file *model.File) error {
	if err := r.db.Save(file).Error; err != nil {
		return fmt.Errorf("update file failed: %w", err)
	}
	return nil
}

// Delete removes the file row and all its translation records.
func (r *FileRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("file_id = ?", id).Delete(&model.TranslationRecord{}).Error; err != nil {
			return fmt.Errorf("delete translation records failed: %w", err)
		}
		if err := tx.Delete(&model.File{}, id).Error; err != nil {
			return fmt.Errorf("delete file failed: %w", err)
		}
		return nil
	})
}
