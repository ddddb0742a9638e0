package app

import (
	"context"
	"errors"
	"io"
	"strings"

	"pdflingua/internal/ai"
	"pdflingua/internal/pkg/pagerange"
	"pdflingua/internal/pkg/tokenizer"
	"pdflingua/internal/storage"
)

var ErrNoTextFound = errors.New("no text found in the pdf")

// ToolsService backs the ad-hoc endpoints that extract or translate a
// one-off upload without touching the persistent pipeline.
type ToolsService struct {
	extractor  Extractor
	provider   ai.CompletionProvider
	defaultLLM ai.ChatConfig
	fileStore  *storage.FileStore
}

func NewToolsService(extractor Extractor, provider ai.CompletionProvider, defaultLLM ai.ChatConfig, fileStore *storage.FileStore) *ToolsService {
	return &ToolsService{
		extractor:  extractor,
		provider:   provider,
		defaultLLM: defaultLLM,
		fileStore:  fileStore,
	}
}

type ExtractTextResult struct {
	ExtractedText string `json:"extracted_text"`
	NumTokens     int    `json:"num_tokens"`
	MaxTokens     int    `json:"max_tokens"`
}

// ExtractText saves the upload, extracts the requested page range and
// reports the token count under the default model's encoding.
func (s *ToolsService) ExtractText(ctx context.Context, filename string, content io.Reader, r pagerange.Range) (*ExtractTextResult, error) {
	path, err := s.fileStore.Save(filename, content)
	if err != nil {
		return nil, err
	}

	text, err := s.extractor.ExtractRange(ctx, path, r)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrNoTextFound
	}

	numTokens, err := tokenizer.CountTokens(s.defaultLLM.Model, text)
	if err != nil {
		return nil, err
	}
	return &ExtractTextResult{
		ExtractedText: text,
		NumTokens:     numTokens,
		MaxTokens:     tokenizer.MaxTokens,
	}, nil
}

type TestTranslationResult struct {
	Translation   string   `json:"translation"`
	ExtractedText string   `json:"extracted_text"`
	Usage         ai.Usage `json:"usage"`
}

// TestTranslation runs extract-then-translate over a one-off upload.
func (s *ToolsService) TestTranslation(ctx context.Context, filename string, content io.Reader, r pagerange.Range, prompt PromptConfig) (*TestTranslationResult, error) {
	path, err := s.fileStore.Save(filename, content)
	if err != nil {
		return nil, err
	}

	text, err := s.extractor.ExtractRange(ctx, path, r)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrNoTextFound
	}

	translation, usage, err := TranslateText(ctx, s.provider, s.defaultLLM, prompt, text)
	if err != nil {
		return nil, err
	}
	return &TestTranslationResult{
		Translation:   translation,
		ExtractedText: text,
		Usage:         usage,
	}, nil
}
