package app

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"strings"

	"pdflingua/internal/model"
	"pdflingua/internal/pkg/pdfextract"
	"pdflingua/internal/repository"
	"pdflingua/internal/storage"
)

var (
	ErrNotPDF        = errors.New("only pdf uploads are accepted")
	ErrDuplicateFile = errors.New("duplicate file detected")
	ErrFileNotFound  = errors.New("file not found")
	ErrNotOwner      = errors.New("resource belongs to another user")
)

type FileService struct {
	fileRepo  *repository.FileRepository
	fileStore *storage.FileStore
}

func NewFileService(fileRepo *repository.FileRepository, fileStore *storage.FileStore) *FileService {
	return &FileService{fileRepo: fileRepo, fileStore: fileStore}
}

type UploadInput struct {
	UserID       uint
	Filename     string
	Content      io.Reader
	PageCount    int // 0 = derive from the PDF
	PageRange    string
	SystemPrompt string
	UserPrompt   string
}

// Upload fingerprints the content (SHA-256), rejects a per-owner duplicate,
// stores the bytes on disk and persists the file row.
func (s *FileService) Upload(input UploadInput) (*model.File, error) {
	if input.UserID == 0 {
		return nil, ErrInvalidInput
	}
	if !strings.HasSuffix(strings.ToLower(strings.TrimSpace(input.Filename)), ".pdf") {
		return nil, ErrNotPDF
	}

	raw, err := io.ReadAll(input.Content)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, ErrInvalidInput
	}

	sum := sha256.Sum256(raw)
	contentHash := hex.EncodeToString(sum[:])

	exists, err := s.fileRepo.ExistsByHashAndUserID(contentHash, input.UserID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateFile
	}

	path, err := s.fileStore.Save(input.Filename, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}

	pageCount := input.PageCount
	if pageCount <= 0 {
		if counted, countErr := pdfextract.PageCount(path); countErr == nil {
			pageCount = counted
		}
	}

	file := &model.File{
		UserID:       input.UserID,
		Filename:     input.Filename,
		ContentHash:  contentHash,
		FilePath:     path,
		PageCount:    pageCount,
		PageRange:    strings.TrimSpace(input.PageRange),
		SystemPrompt: input.SystemPrompt,
		UserPrompt:   input.UserPrompt,
	}
	if err := s.fileRepo.Create(file); err != nil {
		_ = s.fileStore.Remove(path)
		return nil, err
	}
	return file, nil
}

func (s *FileService) List(userID uint) ([]model.File, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	return s.fileRepo.ListByUserID(userID)
}

type UpdateFileInput struct {
	PageCount    *int
	PageRange    *string
	SystemPrompt *string
	UserPrompt   *string
}

func (s *FileService) Update(fileID, userID uint, input UpdateFileInput) (*model.File, error) {
	file, err := s.requireOwner(fileID, userID)
	if err != nil {
		return nil, err
	}

	if input.PageCount != nil {
		file.PageCount = *input.PageCount
	}
	if input.PageRange != nil {
		file.PageRange = strings.TrimSpace(*input.PageRange)
	}
	if input.SystemPrompt != nil {
		file.SystemPrompt = *input.SystemPrompt
	}
	if input.UserPrompt != nil {
		file.UserPrompt = *input.UserPrompt
	}
	if err := s.fileRepo.Update(file); err != nil {
		return nil, err
	}
	return file, nil
}

// Delete removes the file row, its translation records and the stored PDF.
func (s *FileService) Delete(fileID, userID uint) error {
	file, err := s.requireOwner(fileID, userID)
	if err != nil {
		return err
	}
	if err := s.fileRepo.Delete(file.ID); err != nil {
		return err
	}
	return s.fileStore.Remove(file.FilePath)
}

// requireOwner loads the file and enforces the ownership convention:
// ErrFileNotFound when the row is absent, ErrNotOwner when it belongs to
// another user.
func (s *FileService) requireOwner(fileID, userID uint) (*model.File, error) {
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
