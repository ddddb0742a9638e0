package app

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"pdflingua/internal/ai"
	"pdflingua/internal/model"
	"pdflingua/internal/pkg/pagerange"
	"pdflingua/internal/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.File{},
		&model.TranslationRecord{},
		&model.Prompt{},
		&model.UsageLog{},
	))
	return db
}

type fakeProvider struct {
	reply    string
	usage    ai.Usage
	err      error
	lastCfg  ai.ChatConfig
	lastMsgs []ai.ChatMessage
}

func (p *fakeProvider) Complete(_ context.Context, cfg ai.ChatConfig, messages []ai.ChatMessage) (string, ai.Usage, error) {
	p.lastCfg = cfg
	p.lastMsgs = messages
	if p.err != nil {
		return "", ai.Usage{}, p.err
	}
	return p.reply, p.usage, nil
}

type fakeExtractor struct {
	text     string
	err      error
	lastPath string
	lastR    pagerange.Range
}

func (e *fakeExtractor) ExtractRange(_ context.Context, path string, r pagerange.Range) (string, error) {
	e.lastPath = path
	e.lastR = r
	return e.text, e.err
}

type capturingPublisher struct {
	entries []model.UsageLog
}

func (p *capturingPublisher) Publish(_ context.Context, entry model.UsageLog) error {
	p.entries = append(p.entries, entry)
	return nil
}

type translationFixture struct {
	db        *gorm.DB
	service   *TranslationService
	provider  *fakeProvider
	extractor *fakeExtractor
	publisher *capturingPublisher
	userRepo  *repository.UserRepository
}

func newTranslationFixture(t *testing.T) *translationFixture {
	t.Helper()
	db := newTestDB(t)
	provider := &fakeProvider{reply: "преведен текст", usage: ai.Usage{PromptTokens: 10, CompletionTokens: 20, TotalTokens: 30}}
	extractor := &fakeExtractor{text: "extracted page text"}
	publisher := &capturingPublisher{}
	userRepo := repository.NewUserRepository(db)

	service := NewTranslationService(
		repository.NewFileRepository(db),
		repository.NewTranslationRepository(db),
		repository.NewPromptRepository(db),
		userRepo,
		extractor,
		provider,
		ai.ChatConfig{BaseURL: "http://llm.local", APIKey: "default-key", Model: "gpt-4o"},
		publisher,
		nil,
	)
	return &translationFixture{
		db:        db,
		service:   service,
		provider:  provider,
		extractor: extractor,
		publisher: publisher,
		userRepo:  userRepo,
	}
}

func (f *translationFixture) createUser(t *testing.T, username string) *model.User {
	t.Helper()
	user := &model.User{Username: username, Email: username + "@example.com", PasswordHash: "x"}
	require.NoError(t, f.userRepo.Create(user))
	return user
}

func (f *translationFixture) createFile(t *testing.T, userID uint, pageCount int, pageRange string) *model.File {
	t.Helper()
	file := &model.File{
		UserID:      userID,
		Filename:    "doc.pdf",
		ContentHash: fmt.Sprintf("hash-%d-%s", userID, pageRange),
		FilePath:    "/tmp/doc.pdf",
		PageCount:   pageCount,
		PageRange:   pageRange,
	}
	require.NoError(t, f.db.Create(file).Error)
	return file
}

func TestInitCreatesEqualChunks(t *testing.T) {
	f := newTranslationFixture(t)
	user := f.createUser(t, "alice")
	file := f.createFile(t, user.ID, 10, "0-5")

	created, err := f.service.Init(file.ID, user.ID)
	require.NoError(t, err)
	require.Equal(t, 2, created)

	var records []model.TranslationRecord
	require.NoError(t, f.db.Where("file_id = ?", file.ID).Order("id ASC").Find(&records).Error)
	require.Len(t, records, 2)
	require.Equal(t, "0-5", records[0].PageRange)
	require.Equal(t, "5-10", records[1].PageRange)
	for _, r := range records {
		require.Equal(t, user.ID, r.UserID)
		require.Empty(t, r.ExtractedText)
		require.Empty(t, r.TranslatedText)
		require.Empty(t, r.EditedText)
	}
}

func TestInitDropsTrailingPartialChunk(t *testing.T) {
	f := newTranslationFixture(t)
	user := f.createUser(t, "alice")
	file := f.createFile(t, user.ID, 11, "0-4")

	created, err := f.service.Init(file.ID, user.ID)
	require.NoError(t, err)
	require.Equal(t, 2, created)

	var records []model.TranslationRecord
	require.NoError(t, f.db.Where("file_id = ?", file.ID).Order("id ASC").Find(&records).Error)
	require.Equal(t, "0-4", records[0].PageRange)
	require.Equal(t, "4-8", records[1].PageRange)
}

func TestInitRejectsRepeat(t *testing.T) {
	f := newTranslationFixture(t)
	user := f.createUser(t, "alice")
	file := f.createFile(t, user.ID, 10, "0-5")

	_, err := f.service.Init(file.ID, user.ID)
	require.NoError(t, err)

	_, err = f.service.Init(file.ID, user.ID)
	require.ErrorIs(t, err, ErrAlreadyInitiated)

	count, err := repository.NewTranslationRepository(f.db).CountByFileID(file.ID)
	require.NoError(t, err)
	require.EqualValues(t, 2, count)
}

func TestInitOwnershipConvention(t *testing.T) {
	f := newTranslationFixture(t)
	owner := f.createUser(t, "alice")
	other := f.createUser(t, "mallory")
	file := f.createFile(t, owner.ID, 10, "0-5")

	_, err := f.service.Init(file.ID+99, owner.ID)
	require.ErrorIs(t, err, ErrFileNotFound)

	_, err = f.service.Init(file.ID, other.ID)
	require.ErrorIs(t, err, ErrNotOwner)

	count, err := repository.NewTranslationRepository(f.db).CountByFileID(file.ID)
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestInitInvalidDeclaredRange(t *testing.T) {
	f := newTranslationFixture(t)
	user := f.createUser(t, "alice")
	file := f.createFile(t, user.ID, 10, "5-5")

	_, err := f.service.Init(file.ID, user.ID)
	require.ErrorIs(t, err, pagerange.ErrInvalidRange)
}

func TestExtractPersistsText(t *testing.T) {
	f := newTranslationFixture(t)
	user := f.createUser(t, "alice")
	file := f.createFile(t, user.ID, 10, "0-5")
	_, err := f.service.Init(file.ID, user.ID)
	require.NoError(t, err)

	var record model.TranslationRecord
	require.NoError(t, f.db.Where("file_id = ?", file.ID).Order("id ASC").First(&record).Error)

	text, err := f.service.Extract(context.Background(), record.ID, user.ID)
	require.NoError(t, err)
	require.Equal(t, "extracted page text", text)
	require.Equal(t, file.FilePath, f.extractor.lastPath)
	require.Equal(t, pagerange.Range{Start: 0, End: 5}, f.extractor.lastR)

	var reloaded model.TranslationRecord
	require.NoError(t, f.db.First(&reloaded, record.ID).Error)
	require.Equal(t, "extracted page text", reloaded.ExtractedText)
}

func TestExtractErrorLeavesRecordUntouched(t *testing.T) {
	f := newTranslationFixture(t)
	user := f.createUser(t, "alice")
	file := f.createFile(t, user.ID, 10, "0-5")
	_, err := f.service.Init(file.ID, user.ID)
	require.NoError(t, err)

	var record model.TranslationRecord
	require.NoError(t, f.db.Where("file_id = ?", file.ID).First(&record).Error)

	f.extractor.err = errors.New("pdf damaged")
	_, err = f.service.Extract(context.Background(), record.ID, user.ID)
	require.Error(t, err)

	var reloaded model.TranslationRecord
	require.NoError(t, f.db.First(&reloaded, record.ID).Error)
	require.Empty(t, reloaded.ExtractedText)
}

func TestTranslateWithStoredPrompt(t *testing.T) {
	f := newTranslationFixture(t)
	user := f.createUser(t, "alice")
	file := f.createFile(t, user.ID, 10, "0-5")
	_, err := f.service.Init(file.ID, user.ID)
	require.NoError(t, err)

	require.NoError(t, f.db.Create(&model.Prompt{
		UserID:        user.ID,
		SystemMessage: "old system",
		UserMessage:   "old user",
		PromptType:    model.PromptTypeTranslation,
	}).Error)
	require.NoError(t, f.db.Create(&model.Prompt{
		UserID:        user.ID,
		SystemMessage: "newest system",
		UserMessage:   "newest user",
		PromptType:    model.PromptTypeTranslation,
	}).Error)

	var record model.TranslationRecord
	require.NoError(t, f.db.Where("file_id = ?", file.ID).First(&record).Error)
	require.NoError(t, f.db.Model(&record).Update("extracted_text", "source text").Error)

	translated, err := f.service.Translate(context.Background(), record.ID, user.ID, nil)
	require.NoError(t, err)
	require.Equal(t, "преведен текст", translated)

	// The newest stored translation prompt is the default.
	require.Equal(t, "newest system", f.provider.lastMsgs[0].Content)
	require.Contains(t, f.provider.lastMsgs[1].Content, "source text")

	var reloaded model.TranslationRecord
	require.NoError(t, f.db.First(&reloaded, record.ID).Error)
	require.Equal(t, "преведен текст", reloaded.TranslatedText)

	require.Len(t, f.publisher.entries, 1)
	entry := f.publisher.entries[0]
	require.Equal(t, "translate", entry.Operation)
	require.Equal(t, record.ID, entry.TranslationID)
	require.Equal(t, 30, entry.TotalTokens)
}

func TestTranslateOverrideBeatsStoredPrompt(t *testing.T) {
	f := newTranslationFixture(t)
	user := f.createUser(t, "alice")
	file := f.createFile(t, user.ID, 10, "0-5")
	_, err := f.service.Init(file.ID, user.ID)
	require.NoError(t, err)

	require.NoError(t, f.db.Create(&model.Prompt{
		UserID:        user.ID,
		SystemMessage: "stored system",
		UserMessage:   "stored user",
		PromptType:    model.PromptTypeTranslation,
	}).Error)

	var record model.TranslationRecord
	require.NoError(t, f.db.Where("file_id = ?", file.ID).First(&record).Error)

	override := &PromptConfig{SystemMessage: "override system", UserMessage: "override user"}
	_, err = f.service.Translate(context.Background(), record.ID, user.ID, override)
	require.NoError(t, err)
	require.Equal(t, "override system", f.provider.lastMsgs[0].Content)
}

func TestTranslateWithoutAnyPrompt(t *testing.T) {
	f := newTranslationFixture(t)
	user := f.createUser(t, "alice")
	file := f.createFile(t, user.ID, 10, "0-5")
	_, err := f.service.Init(file.ID, user.ID)
	require.NoError(t, err)

	var record model.TranslationRecord
	require.NoError(t, f.db.Where("file_id = ?", file.ID).First(&record).Error)

	_, err = f.service.Translate(context.Background(), record.ID, user.ID, nil)
	require.ErrorIs(t, err, ErrNoPromptConfigured)
	require.Empty(t, f.publisher.entries)
}

func TestTranslateUsesUserPreferences(t *testing.T) {
	f := newTranslationFixture(t)
	user := f.createUser(t, "alice")
	user.PreferredModel = "gpt-4o-mini"
	user.APIKey = "personal-key"
	require.NoError(t, f.userRepo.Update(user))

	file := f.createFile(t, user.ID, 10, "0-5")
	_, err := f.service.Init(file.ID, user.ID)
	require.NoError(t, err)

	var record model.TranslationRecord
	require.NoError(t, f.db.Where("file_id = ?", file.ID).First(&record).Error)

	override := &PromptConfig{SystemMessage: "s", UserMessage: "u"}
	_, err = f.service.Translate(context.Background(), record.ID, user.ID, override)
	require.NoError(t, err)
	require.Equal(t, "gpt-4o-mini", f.provider.lastCfg.Model)
	require.Equal(t, "personal-key", f.provider.lastCfg.APIKey)
	require.Equal(t, "gpt-4o-mini", f.publisher.entries[0].Model)
}

func TestEditPersistsAndPublishes(t *testing.T) {
	f := newTranslationFixture(t)
	user := f.createUser(t, "alice")
	file := f.createFile(t, user.ID, 10, "0-5")
	_, err := f.service.Init(file.ID, user.ID)
	require.NoError(t, err)

	var record model.TranslationRecord
	require.NoError(t, f.db.Where("file_id = ?", file.ID).First(&record).Error)
	require.NoError(t, f.db.Model(&record).Update("translated_text", "груб превод").Error)

	f.provider.reply = "изгладен превод"
	override := &PromptConfig{SystemMessage: "editor", UserMessage: "polish"}
	edited, err := f.service.Edit(context.Background(), record.ID, user.ID, override)
	require.NoError(t, err)
	require.Equal(t, "изгладен превод", edited)
	require.Contains(t, f.provider.lastMsgs[1].Content, "груб превод")

	var reloaded model.TranslationRecord
	require.NoError(t, f.db.First(&reloaded, record.ID).Error)
	require.Equal(t, "изгладен превод", reloaded.EditedText)
	require.Equal(t, "edit", f.publisher.entries[0].Operation)
}

func TestUpdateFieldPriority(t *testing.T) {
	f := newTranslationFixture(t)
	user := f.createUser(t, "alice")
	file := f.createFile(t, user.ID, 10, "0-5")
	_, err := f.service.Init(file.ID, user.ID)
	require.NoError(t, err)

	var record model.TranslationRecord
	require.NoError(t, f.db.Where("file_id = ?", file.ID).First(&record).Error)

	extracted := "manual extraction"
	translated := "manual translation"
	field, value, err := f.service.Update(record.ID, user.ID, UpdateTranslationInput{
		ExtractedText:  &extracted,
		TranslatedText: &translated,
	})
	require.NoError(t, err)
	require.Equal(t, "extracted_text", field)
	require.Equal(t, extracted, value)

	// Only the highest-priority field is written.
	var reloaded model.TranslationRecord
	require.NoError(t, f.db.First(&reloaded, record.ID).Error)
	require.Equal(t, extracted, reloaded.ExtractedText)
	require.Empty(t, reloaded.TranslatedText)

	edited := "manual edit"
	field, _, err = f.service.Update(record.ID, user.ID, UpdateTranslationInput{EditedText: &edited})
	require.NoError(t, err)
	require.Equal(t, "edited_text", field)
}

func TestUpdateNoValidField(t *testing.T) {
	f := newTranslationFixture(t)
	user := f.createUser(t, "alice")
	file := f.createFile(t, user.ID, 10, "0-5")
	_, err := f.service.Init(file.ID, user.ID)
	require.NoError(t, err)

	var record model.TranslationRecord
	require.NoError(t, f.db.Where("file_id = ?", file.ID).First(&record).Error)

	_, _, err = f.service.Update(record.ID, user.ID, UpdateTranslationInput{})
	require.ErrorIs(t, err, ErrNoValidField)
}

func TestCrossUserAccessDoesNotMutate(t *testing.T) {
	f := newTranslationFixture(t)
	owner := f.createUser(t, "alice")
	other := f.createUser(t, "mallory")
	file := f.createFile(t, owner.ID, 10, "0-5")
	_, err := f.service.Init(file.ID, owner.ID)
	require.NoError(t, err)

	var record model.TranslationRecord
	require.NoError(t, f.db.Where("file_id = ?", file.ID).First(&record).Error)

	_, err = f.service.Extract(context.Background(), record.ID, other.ID)
	require.ErrorIs(t, err, ErrNotOwner)

	_, err = f.service.Translate(context.Background(), record.ID, other.ID, &PromptConfig{SystemMessage: "s"})
	require.ErrorIs(t, err, ErrNotOwner)

	hijack := "hijacked"
	_, _, err = f.service.Update(record.ID, other.ID, UpdateTranslationInput{ExtractedText: &hijack})
	require.ErrorIs(t, err, ErrNotOwner)

	var reloaded model.TranslationRecord
	require.NoError(t, f.db.First(&reloaded, record.ID).Error)
	require.Empty(t, reloaded.ExtractedText)
	require.Empty(t, reloaded.TranslatedText)
	require.Empty(t, f.publisher.entries)
}

func TestListPaginates(t *testing.T) {
	f := newTranslationFixture(t)
	user := f.createUser(t, "alice")
	file := f.createFile(t, user.ID, 20, "0-2")

	created, err := f.service.Init(file.ID, user.ID)
	require.NoError(t, err)
	require.Equal(t, 10, created)

	page, err := f.service.List(file.ID, user.ID, 2, 3, false)
	require.NoError(t, err)
	require.Len(t, page.Records, 3)
	require.EqualValues(t, 10, page.Total)
	require.Equal(t, "6-8", page.Records[0].PageRange)

	all, err := f.service.List(file.ID, user.ID, 0, 0, true)
	require.NoError(t, err)
	require.Len(t, all.Records, 10)
	require.EqualValues(t, 10, all.Total)
}
