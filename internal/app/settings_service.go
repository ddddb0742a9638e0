package app

import (
	"context"
	"strings"

	"pdflingua/internal/ai"
	"pdflingua/internal/model"
	"pdflingua/internal/repository"
)

// SettingsService manages per-user completion preferences and validates
// personal provider keys with one tiny completion round-trip.
type SettingsService struct {
	userRepo   *repository.UserRepository
	usageRepo  *repository.UsageLogRepository
	provider   ai.CompletionProvider
	defaultLLM ai.ChatConfig
}

func NewSettingsService(userRepo *repository.UserRepository, usageRepo *repository.UsageLogRepository, provider ai.CompletionProvider, defaultLLM ai.ChatConfig) *SettingsService {
	return &SettingsService{
		userRepo:   userRepo,
		usageRepo:  usageRepo,
		provider:   provider,
		defaultLLM: defaultLLM,
	}
}

type UserSettings struct {
	PreferredModel string `json:"preferred_model"`
	APIKey         string `json:"api_key"`
}

func (s *SettingsService) Get(userID uint) (*UserSettings, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return &UserSettings{PreferredModel: user.PreferredModel, APIKey: user.APIKey}, nil
}

type UpdateSettingsInput struct {
	PreferredModel *string
	APIKey         *string
}

func (s *SettingsService) Update(userID uint, input UpdateSettingsInput) error {
	if userID == 0 {
		return ErrInvalidInput
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if input.PreferredModel != nil {
		user.PreferredModel = strings.TrimSpace(*input.PreferredModel)
	}
	if input.APIKey != nil {
		user.APIKey = strings.TrimSpace(*input.APIKey)
	}
	return s.userRepo.Update(user)
}

// Usage returns the user's most recent token-usage entries, newest first.
func (s *SettingsService) Usage(userID uint, limit int) ([]model.UsageLog, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	return s.usageRepo.ListByUserID(userID, limit)
}

// ValidateAPIKey reports whether the key completes a minimal request
// against the configured provider. A provider rejection is a negative
// answer, not an error.
func (s *SettingsService) ValidateAPIKey(ctx context.Context, apiKey string) (bool, string) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return false, "api key is required"
	}

	cfg := s.defaultLLM
	cfg.APIKey = apiKey
	_, _, err := s.provider.Complete(ctx, cfg, []ai.ChatMessage{{Role: "user", Content: "Test"}})
	if err != nil {
		return false, err.Error()
	}
	return true, ""
}
