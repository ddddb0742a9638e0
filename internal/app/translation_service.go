package app

import (
	"context"
	"errors"

	"pdflingua/internal/ai"
	"pdflingua/internal/model"
	"pdflingua/internal/pkg/pagerange"
	"pdflingua/internal/repository"
)

var (
	ErrRecordNotFound     = errors.New("translation record not found")
	ErrAlreadyInitiated   = errors.New("translation records already exist for this file")
	ErrNoPromptConfigured = errors.New("no prompt configured for this operation")
	ErrNoValidField       = errors.New("no valid field provided")
)

// Extractor is the page-range text extraction capability the orchestrator
// depends on.
type Extractor interface {
	ExtractRange(ctx context.Context, path string, r pagerange.Range) (string, error)
}

// UsagePublisher hands token-usage entries to the async persist pipeline.
type UsagePublisher interface {
	Publish(ctx context.Context, entry model.UsageLog) error
}

// RecordListCache caches a file's full record listing. Mutations mark the
// file dirty so a stale list is never served while writes are in flight.
type RecordListCache interface {
	GetRecords(ctx context.Context, fileID uint) ([]model.TranslationRecord, bool, error)
	SetRecords(ctx context.Context, fileID uint, records []model.TranslationRecord) error
	DeleteRecords(ctx context.Context, fileID uint) error
	MarkDirty(ctx context.Context, fileID uint) error
	IsDirty(ctx context.Context, fileID uint) (bool, error)
}

// TranslationService advances per-chunk translation records through the
// extraction, translation and editing stages. Transitions are not guarded:
// any stage may run or be overwritten at any time, matching the product's
// iterative workflow.
type TranslationService struct {
	fileRepo        *repository.FileRepository
	translationRepo *repository.TranslationRepository
	promptRepo      *repository.PromptRepository
	userRepo        *repository.UserRepository
	extractor       Extractor
	provider        ai.CompletionProvider
	defaultLLM      ai.ChatConfig
	publisher       UsagePublisher
	listCache       RecordListCache
}

func NewTranslationService(
	fileRepo *repository.FileRepository,
	translationRepo *repository.TranslationRepository,
	promptRepo *repository.PromptRepository,
	userRepo *repository.UserRepository,
	extractor Extractor,
	provider ai.CompletionProvider,
	defaultLLM ai.ChatConfig,
	publisher UsagePublisher,
	listCache RecordListCache,
) *TranslationService {
	return &TranslationService{
		fileRepo:        fileRepo,
		translationRepo: translationRepo,
		promptRepo:      promptRepo,
		userRepo:        userRepo,
		extractor:       extractor,
		provider:        provider,
		defaultLLM:      defaultLLM,
		publisher:       publisher,
		listCache:       listCache,
	}
}

// Init partitions the file's declared page range into equal-size chunks
// and bulk-inserts one record per chunk. The chunk size is the span of the
// file's page_range; pageCount/chunkSize uses integer division, so a
// trailing partial chunk is dropped. Returns the number of records created.
func (s *TranslationService) Init(fileID, userID uint) (int, error) {
	file, err := s.requireFile(fileID, userID)
	if err != nil {
		return 0, err
	}

	exists, err := s.translationRepo.ExistsByFileID(fileID)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, ErrAlreadyInitiated
	}

	declared, err := pagerange.Parse(file.PageRange)
	if err != nil {
		return 0, err
	}

	chunks := pagerange.Chunks(file.PageCount, declared.Size())
	records := make([]model.TranslationRecord, 0, len(chunks))
	for _, chunk := range chunks {
		records = append(records, model.TranslationRecord{
			FileID:    fileID,
			UserID:    userID,
			PageRange: chunk.String(),
		})
	}
	if err := s.translationRepo.CreateBatch(records); err != nil {
		return 0, err
	}
	s.invalidateList(fileID)
	return len(records), nil
}

type TranslationPage struct {
	Records []model.TranslationRecord `json:"translations"`
	Total   int64                     `json:"total"`
}

// List returns either one page of the file's records or, with downloadAll,
// the complete ordered list. Total always reflects the full count so
// callers can render page controls.
func (s *TranslationService) List(fileID, userID uint, page, limit int, downloadAll bool) (*TranslationPage, error) {
	if _, err := s.requireFile(fileID, userID); err != nil {
		return nil, err
	}

	total, err := s.translationRepo.CountByFileID(fileID)
	if err != nil {
		return nil, err
	}

	if downloadAll {
		records, err := s.listAll(fileID)
		if err != nil {
			return nil, err
		}
		return &TranslationPage{Records: records, Total: total}, nil
	}

	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	records, err := s.translationRepo.ListByFileID(fileID, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	return &TranslationPage{Records: records, Total: total}, nil
}

func (s *TranslationService) listAll(fileID uint) ([]model.TranslationRecord, error) {
	ctx := context.Background()
	if s.listCache != nil {
		dirty, err := s.listCache.IsDirty(ctx, fileID)
		if err == nil && !dirty {
			if cached, hit, cacheErr := s.listCache.GetRecords(ctx, fileID); cacheErr == nil && hit {
				return cached, nil
			}
		}
	}

	records, err := s.translationRepo.ListByFileID(fileID, 0, 0)
	if err != nil {
		return nil, err
	}
	if s.listCache != nil {
		if dirty, dirtyErr := s.listCache.IsDirty(ctx, fileID); dirtyErr == nil && !dirty {
			_ = s.listCache.SetRecords(ctx, fileID, records)
		}
	}
	return records, nil
}

// Extract runs page-range text extraction for one record and persists the
// result. Errors from the extraction layer propagate untouched; there is
// no retry.
func (s *TranslationService) Extract(ctx context.Context, recordID, userID uint) (string, error) {
	record, err := s.requireRecord(recordID, userID)
	if err != nil {
		return "", err
	}

	file, err := s.fileRepo.GetByID(record.FileID)
	if err != nil {
		return "", err
	}
	if file == nil {
		return "", ErrFileNotFound
	}

	chunk, err := pagerange.Parse(record.PageRange)
	if err != nil {
		return "", err
	}

	text, err := s.extractor.ExtractRange(ctx, file.FilePath, chunk)
	if err != nil {
		return "", err
	}

	if err := s.translationRepo.UpdateField(record.ID, "extracted_text", text); err != nil {
		return "", err
	}
	s.invalidateList(record.FileID)
	return text, nil
}

// Translate sends the record's extracted text to the completion provider
// and persists the translation. The prompt override, when present, takes
// precedence over the newest stored translation prompt.
func (s *TranslationService) Translate(ctx context.Context, recordID, userID uint, override *PromptConfig) (string, error) {
	record, err := s.requireRecord(recordID, userID)
	if err != nil {
		return "", err
	}

	chatCfg, err := s.resolveChat(userID)
	if err != nil {
		return "", err
	}
	promptCfg, err := s.resolvePrompt(model.PromptTypeTranslation, override)
	if err != nil {
		return "", err
	}

	translated, usage, err := TranslateText(ctx, s.provider, chatCfg, promptCfg, record.ExtractedText)
	if err != nil {
		return "", err
	}

	if err := s.translationRepo.UpdateField(record.ID, "translated_text", translated); err != nil {
		return "", err
	}
	s.invalidateList(record.FileID)
	s.publishUsage(ctx, userID, record.ID, "translate", chatCfg.Model, usage)
	return translated, nil
}

// Edit runs an editing pass over the record's translated text.
func (s *TranslationService) Edit(ctx context.Context, recordID, userID uint, override *PromptConfig) (string, error) {
	record, err := s.requireRecord(recordID, userID)
	if err != nil {
		return "", err
	}

	chatCfg, err := s.resolveChat(userID)
	if err != nil {
		return "", err
	}
	promptCfg, err := s.resolvePrompt(model.PromptTypeEditing, override)
	if err != nil {
		return "", err
	}

	edited, usage, err := EditText(ctx, s.provider, chatCfg, promptCfg, record.TranslatedText)
	if err != nil {
		return "", err
	}

	if err := s.translationRepo.UpdateField(record.ID, "edited_text", edited); err != nil {
		return "", err
	}
	s.invalidateList(record.FileID)
	s.publishUsage(ctx, userID, record.ID, "edit", chatCfg.Model, usage)
	return edited, nil
}

type UpdateTranslationInput struct {
	ExtractedText  *string
	TranslatedText *string
	EditedText     *string
}

// Update overwrites exactly one stage's text directly. The first present
// field of extracted_text, translated_text, edited_text — in that order —
// is applied; any others are silently ignored.
func (s *TranslationService) Update(recordID, userID uint, input UpdateTranslationInput) (string, string, error) {
	record, err := s.requireRecord(recordID, userID)
	if err != nil {
		return "", "", err
	}

	var field, value string
	switch {
	case input.ExtractedText != nil:
		field, value = "extracted_text", *input.ExtractedText
	case input.TranslatedText != nil:
		field, value = "translated_text", *input.TranslatedText
	case input.EditedText != nil:
		field, value = "edited_text", *input.EditedText
	default:
		return "", "", ErrNoValidField
	}

	if err := s.translationRepo.UpdateField(record.ID, field, value); err != nil {
		return "", "", err
	}
	s.invalidateList(record.FileID)
	return field, value, nil
}

// requireFile enforces the ownership convention on the parent file:
// ErrFileNotFound when absent, ErrNotOwner when owned by another user.
func (s *TranslationService) requireFile(fileID, userID uint) (*model.File, error) {
	if fileID == 0 || userID == 0 {
		return nil, ErrInvalidInput
	}
	file, err := s.fileRepo.GetByID(fileID)
	if err != nil {
		return nil, err
	}
	if file == nil {
		return nil, ErrFileNotFound
	}
	if file.UserID != userID {
		return nil, ErrNotOwner
	}
	return file, nil
}

// requireRecord does the same for a translation record, using the
// denormalized owner column.
func (s *TranslationService) requireRecord(recordID, userID uint) (*model.TranslationRecord, error) {
	if recordID == 0 || userID == 0 {
		return nil, ErrInvalidInput
	}
	record, err := s.translationRepo.GetByID(recordID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrRecordNotFound
	}
	if record.UserID != userID {
		return nil, ErrNotOwner
	}
	return record, nil
}

// resolveChat picks the user's preferred model and personal API key over
// the configured defaults.
func (s *TranslationService) resolveChat(userID uint) (ai.ChatConfig, error) {
	cfg := s.defaultLLM
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return ai.ChatConfig{}, err
	}
	if user != nil {
		if user.PreferredModel != "" {
			cfg.Model = user.PreferredModel
		}
		if user.APIKey != "" {
			cfg.APIKey = user.APIKey
		}
	}
	return cfg, nil
}

// resolvePrompt materializes the prompt configuration once per call: the
// request override wins, otherwise the newest stored prompt of the type.
func (s *TranslationService) resolvePrompt(promptType string, override *PromptConfig) (PromptConfig, error) {
	if override != nil {
		return *override, nil
	}
	latest, err := s.promptRepo.LatestByType(promptType)
	if err != nil {
		return PromptConfig{}, err
	}
	if latest == nil {
		return PromptConfig{}, ErrNoPromptConfigured
	}
	return PromptConfig{SystemMessage: latest.SystemMessage, UserMessage: latest.UserMessage}, nil
}

func (s *TranslationService) publishUsage(ctx context.Context, userID, recordID uint, operation, modelName string, usage ai.Usage) {
	if s.publisher == nil {
		return
	}
	_ = s.publisher.Publish(ctx, model.UsageLog{
		UserID:           userID,
		TranslationID:    recordID,
		Operation:        operation,
		Model:            modelName,
		PromptTokens:     usage.PromptTokens,
		CompletionTokens: usage.CompletionTokens,
		TotalTokens:      usage.TotalTokens,
	})
}

func (s *TranslationService) invalidateList(fileID uint) {
	if s.listCache == nil {
		return
	}
	ctx := context.Background()
	_ = s.listCache.MarkDirty(ctx, fileID)
	_ = s.listCache.DeleteRecords(ctx, fileID)
}
