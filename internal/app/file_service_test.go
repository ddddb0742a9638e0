package app

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"pdflingua/internal/model"
	"pdflingua/internal/repository"
	"pdflingua/internal/storage"
)

func newFileService(t *testing.T) (*FileService, *repository.FileRepository, *storage.FileStore) {
	t.Helper()
	db := newTestDB(t)
	store, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	fileRepo := repository.NewFileRepository(db)
	return NewFileService(fileRepo, store), fileRepo, store
}

func TestUploadRejectsNonPDF(t *testing.T) {
	service, _, _ := newFileService(t)

	_, err := service.Upload(UploadInput{
		UserID:    1,
		Filename:  "notes.txt",
		Content:   strings.NewReader("plain text"),
		PageCount: 1,
	})
	require.ErrorIs(t, err, ErrNotPDF)
}

func TestUploadDedupScopedToOwner(t *testing.T) {
	service, _, _ := newFileService(t)
	content := "%PDF-1.4 fake body"

	first, err := service.Upload(UploadInput{
		UserID:    1,
		Filename:  "doc.pdf",
		Content:   strings.NewReader(content),
		PageCount: 10,
		PageRange: "0-5",
	})
	require.NoError(t, err)
	require.NotZero(t, first.ID)
	require.Equal(t, 10, first.PageCount)

	// Same bytes, same owner: rejected even under a different filename.
	_, err = service.Upload(UploadInput{
		UserID:    1,
		Filename:  "copy.pdf",
		Content:   strings.NewReader(content),
		PageCount: 10,
	})
	require.ErrorIs(t, err, ErrDuplicateFile)

	// Same bytes, different owner: accepted.
	second, err := service.Upload(UploadInput{
		UserID:    2,
		Filename:  "doc.pdf",
		Content:   strings.NewReader(content),
		PageCount: 10,
	})
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)
}

func TestUploadStoresBytesOnDisk(t *testing.T) {
	service, _, _ := newFileService(t)

	file, err := service.Upload(UploadInput{
		UserID:    1,
		Filename:  "doc.pdf",
		Content:   strings.NewReader("%PDF-1.4 body"),
		PageCount: 3,
	})
	require.NoError(t, err)

	raw, err := os.ReadFile(file.FilePath)
	require.NoError(t, err)
	require.Equal(t, "%PDF-1.4 body", string(raw))
}

func TestUpdateFileFields(t *testing.T) {
	service, _, _ := newFileService(t)

	file, err := service.Upload(UploadInput{
		UserID:    1,
		Filename:  "doc.pdf",
		Content:   strings.NewReader("%PDF-1.4 body"),
		PageCount: 10,
		PageRange: "0-5",
	})
	require.NoError(t, err)

	newRange := "0-2"
	newSystem := "custom system"
	updated, err := service.Update(file.ID, 1, UpdateFileInput{
		PageRange:    &newRange,
		SystemPrompt: &newSystem,
	})
	require.NoError(t, err)
	require.Equal(t, "0-2", updated.PageRange)
	require.Equal(t, "custom system", updated.SystemPrompt)
	require.Equal(t, 10, updated.PageCount)

	_, err = service.Update(file.ID, 2, UpdateFileInput{PageRange: &newRange})
	require.ErrorIs(t, err, ErrNotOwner)

	_, err = service.Update(file.ID+99, 1, UpdateFileInput{PageRange: &newRange})
	require.ErrorIs(t, err, ErrFileNotFound)
}

func TestDeleteCascadesToTranslationRecords(t *testing.T) {
	db := newTestDB(t)
	store, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	fileRepo := repository.NewFileRepository(db)
	service := NewFileService(fileRepo, store)

	file, err := service.Upload(UploadInput{
		UserID:    1,
		Filename:  "doc.pdf",
		Content:   strings.NewReader("%PDF-1.4 body"),
		PageCount: 10,
		PageRange: "0-5",
	})
	require.NoError(t, err)

	translationRepo := repository.NewTranslationRepository(db)
	require.NoError(t, translationRepo.CreateBatch([]model.TranslationRecord{
		{FileID: file.ID, UserID: 1, PageRange: "0-5"},
		{FileID: file.ID, UserID: 1, PageRange: "5-10"},
	}))

	storedPath := file.FilePath
	require.NoError(t, service.Delete(file.ID, 1))

	gone, err := fileRepo.GetByID(file.ID)
	require.NoError(t, err)
	require.Nil(t, gone)

	count, err := translationRepo.CountByFileID(file.ID)
	require.NoError(t, err)
	require.Zero(t, count)

	_, statErr := os.Stat(storedPath)
	require.True(t, os.IsNotExist(statErr))

	require.ErrorIs(t, service.Delete(file.ID, 1), ErrFileNotFound)
}

func TestDeleteRequiresOwner(t *testing.T) {
	service, fileRepo, _ := newFileService(t)

	file, err := service.Upload(UploadInput{
		UserID:    1,
		Filename:  "doc.pdf",
		Content:   strings.NewReader("%PDF-1.4 body"),
		PageCount: 10,
	})
	require.NoError(t, err)

	require.ErrorIs(t, service.Delete(file.ID, 2), ErrNotOwner)

	still, err := fileRepo.GetByID(file.ID)
	require.NoError(t, err)
	require.NotNil(t, still)
}

func TestListReturnsOnlyOwnFiles(t *testing.T) {
	service, _, _ := newFileService(t)

	_, err := service.Upload(UploadInput{UserID: 1, Filename: "a.pdf", Content: strings.NewReader("%PDF a"), PageCount: 1})
	require.NoError(t, err)
	_, err = service.Upload(UploadInput{UserID: 1, Filename: "b.pdf", Content: strings.NewReader("%PDF b"), PageCount: 1})
	require.NoError(t, err)
	_, err = service.Upload(UploadInput{UserID: 2, Filename: "c.pdf", Content: strings.NewReader("%PDF c"), PageCount: 1})
	require.NoError(t, err)

	files, err := service.List(1)
	require.NoError(t, err)
	require.Len(t, files, 2)
	for _, f := range files {
		require.EqualValues(t, 1, f.UserID)
	}
}
