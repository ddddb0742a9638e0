package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"pdflingua/internal/model"
)

type PromptRepository struct {
	db *gorm.DB
}

func NewPromptRepository(db *gorm.DB) *PromptRepository {
	return &PromptRepository{db: db}
}

func (r *PromptRepository) Create(prompt *model.Prompt) error {
	if err := r.db.Create(prompt).Error; err != nil {
		return fmt.Errorf("create prompt failed: %w", err)
	}
	return nil
}

func (r *PromptRepository) List() ([]model.Prompt, error) {
	var prompts []model.Prompt
	if err := r.db.Order("created_at DESC").Find(&prompts).Error; err != nil {
		return nil, fmt.Errorf("list prompts failed: %w", err)
	}
	return prompts, nil
}

func (r *PromptRepository) GetByID(id uint) (*model.Prompt, error) {
	var prompt model.Prompt
	if err := r.db.First(&prompt, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query prompt by id failed: %w", err)
	}
	return &prompt, nil
}

// LatestByType returns the newest prompt of the given type, nil if none.
func (r *PromptRepository) LatestByType(promptType string) (*model.Prompt, error) {
	var prompt model.Prompt
	if err := r.db.Where("prompt_type = ?", promptType).Order("id DESC").First(&prompt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query latest prompt failed: %w", err)
	}
	return &prompt, nil
}

func (r *PromptRepository) Update(prompt *model.Prompt) error {
	if err := r.db.Save(prompt).Error; err != nil {
		return fmt.Errorf("update prompt failed: %w", err)
	}
	return nil
}

func (r *PromptRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.Prompt{}, id).Error; err != nil {
		return fmt.Errorf("delete prompt failed: %w", err)
	}
	return nil
}
