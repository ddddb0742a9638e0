package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pdflingua/internal/app"
	"pdflingua/internal/pkg/pagerange"
	"pdflingua/internal/transport/http/response"
)

type TranslationHandler struct {
	translationService *app.TranslationService
}

func NewTranslationHandler(translationService *app.TranslationService) *TranslationHandler {
	return &TranslationHandler{translationService: translationService}
}

// Init creates the per-chunk translation records for a file. Repeating the
// call for the same file is a conflict, not an idempotent no-op.
func (h *TranslationHandler) Init(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	fileID, err := parseUintParam(c, "fileId")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid file id")
		return
	}

	created, err := h.translationService.Init(fileID, userID)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrAlreadyInitiated):
			response.Error(c, http.StatusConflict, response.CodeAlreadyInitiated, err.Error())
		case errors.Is(err, pagerange.ErrInvalidRange):
			response.Error(c, http.StatusBadRequest, response.CodeInvalidPageRange, err.Error())
		default:
			respondTranslationError(c, err, "initiate translation failed")
		}
		return
	}
	response.OK(c, gin.H{"created": created})
}

// List serves one page of a file's records, or the whole ordered list when
// download_all=true.
func (h *TranslationHandler) List(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	fileID, err := parseUintParam(c, "fileId")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid file id")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	downloadAll := c.Query("download_all") == "true"

	result, err := h.translationService.List(fileID, userID, page, limit, downloadAll)
	if err != nil {
		respondTranslationError(c, err, "list translations failed")
		return
	}
	response.OK(c, result)
}

func (h *TranslationHandler) Extract(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	recordID, err := parseUintParam(c, "translationId")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid translation id")
		return
	}

	text, err := h.translationService.Extract(c.Request.Context(), recordID, userID)
	if err != nil {
		switch {
		case errors.Is(err, pagerange.ErrInvalidRange):
			response.Error(c, http.StatusBadRequest, response.CodeInvalidPageRange, err.Error())
		default:
			respondTranslationError(c, err, "extraction failed")
		}
		return
	}
	response.OK(c, gin.H{"extracted_text": text})
}

type PromptOverrideRequest struct {
	SystemMessage *string `json:"system_message"`
	UserMessage   *string `json:"user_message"`
}

func (r *PromptOverrideRequest) toConfig() *app.PromptConfig {
	if r.SystemMessage == nil && r.UserMessage == nil {
		return nil
	}
	cfg := &app.PromptConfig{}
	if r.SystemMessage != nil {
		cfg.SystemMessage = *r.SystemMessage
	}
	if r.UserMessage != nil {
		cfg.UserMessage = *r.UserMessage
	}
	return cfg
}

func (h *TranslationHandler) Translate(c *gin.Context) {
	h.runCompletion(c, "translation failed", h.translationService.Translate)
}

func (h *TranslationHandler) Edit(c *gin.Context) {
	h.runCompletion(c, "editing failed", h.translationService.Edit)
}

// runCompletion is the shared shape of the translate and edit endpoints:
// both take an optional prompt override in the body and return the new text.
func (h *TranslationHandler) runCompletion(
	c *gin.Context,
	fallback string,
	run func(ctx context.Context, recordID, userID uint, override *app.PromptConfig) (string, error),
) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	recordID, err := parseUintParam(c, "translationId")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid translation id")
		return
	}

	var req PromptOverrideRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
			return
		}
	}

	text, err := run(c.Request.Context(), recordID, userID, req.toConfig())
	if err != nil {
		switch {
		case errors.Is(err, app.ErrNoPromptConfigured):
			response.Error(c, http.StatusBadRequest, response.CodeNoPromptConfigured, err.Error())
		default:
			respondTranslationError(c, err, fallback)
		}
		return
	}
	response.OK(c, gin.H{"text": text})
}

type UpdateTranslationRequest struct {
	ExtractedText  *string `json:"extracted_text"`
	TranslatedText *string `json:"translated_text"`
	EditedText     *string `json:"edited_text"`
}

func (h *TranslationHandler) Update(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	recordID, err := parseUintParam(c, "translationId")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid translation id")
		return
	}

	var req UpdateTranslationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	field, value, err := h.translationService.Update(recordID, userID, app.UpdateTranslationInput{
		ExtractedText:  req.ExtractedText,
		TranslatedText: req.TranslatedText,
		EditedText:     req.EditedText,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrNoValidField):
			response.Error(c, http.StatusBadRequest, response.CodeNoValidField, err.Error())
		default:
			respondTranslationError(c, err, "update translation failed")
		}
		return
	}
	response.OK(c, gin.H{"field": field, "value": value})
}

func respondTranslationError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, app.ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
	case errors.Is(err, app.ErrFileNotFound), errors.Is(err, app.ErrRecordNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
	case errors.Is(err, app.ErrNotOwner):
		response.Error(c, http.StatusForbidden, response.CodeForbidden, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, fallback)
	}
}
