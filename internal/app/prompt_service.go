package app

import (
	"errors"
	"strings"

	"pdflingua/internal/model"
	"pdflingua/internal/repository"
)

var ErrPromptNotFound = errors.New("prompt not found")

type PromptService struct {
	promptRepo *repository.PromptRepository
}

func NewPromptService(promptRepo *repository.PromptRepository) *PromptService {
	return &PromptService{promptRepo: promptRepo}
}

type CreatePromptInput struct {
	UserID        uint
	SystemMessage string
	UserMessage   string
	PromptType    string
}

func (s *PromptService) Create(input CreatePromptInput) (*model.Prompt, error) {
	if input.UserID == 0 {
		return nil, ErrInvalidInput
	}
	promptType := strings.TrimSpace(input.PromptType)
	if promptType != model.PromptTypeTranslation && promptType != model.PromptTypeEditing {
		return nil, ErrInvalidInput
	}
	if strings.TrimSpace(input.SystemMessage) == "" || strings.TrimSpace(input.UserMessage) == "" {
		return nil, ErrInvalidInput
	}

	prompt := &model.Prompt{
		UserID:        input.UserID,
		SystemMessage: input.SystemMessage,
		UserMessage:   input.UserMessage,
		PromptType:    promptType,
	}
	if err := s.promptRepo.Create(prompt); err != nil {
		return nil, err
	}
	return prompt, nil
}

func (s *PromptService) List() ([]model.Prompt, error) {
	return s.promptRepo.List()
}

type UpdatePromptInput struct {
	SystemMessage *string
	UserMessage   *string
	PromptType    *string
}

func (s *PromptService) Update(promptID, userID uint, input UpdatePromptInput) (*model.Prompt, error) {
	prompt, err := s.requireOwner(promptID, userID)
	if err != nil {
		return nil, err
	}

	if input.SystemMessage != nil {
		prompt.SystemMessage = *input.SystemMessage
	}
	if input.UserMessage != nil {
		prompt.UserMessage = *input.UserMessage
	}
	if input.PromptType != nil {
		promptType := strings.TrimSpace(*input.PromptType)
		if promptType != model.PromptTypeTranslation && promptType != model.PromptTypeEditing {
			return nil, ErrInvalidInput
		}
		prompt.PromptType = promptType
	}
	if err := s.promptRepo.Update(prompt); err != nil {
		return nil, err
	}
	return prompt, nil
}

func (s *PromptService) Delete(promptID, userID uint) error {
	prompt, err := s.requireOwner(promptID, userID)
	if err != nil {
		return err
	}
	return s.promptRepo.Delete(prompt.ID)
}

func (s *PromptService) requireOwner(promptID, userID uint) (*model.Prompt, error) {
	if promptID == 0 || userID == 0 {
		return nil, ErrInvalidInput
	}
	prompt, err := s.promptRepo.GetByID(promptID)
	if err != nil {
		return nil, err
	}
	if prompt == nil {
		return nil, ErrPromptNotFound
	}
	if prompt.UserID != userID {
		return nil, ErrNotOwner
	}
	return prompt, nil
}
