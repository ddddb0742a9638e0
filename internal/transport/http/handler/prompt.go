package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pdflingua/internal/app"
	"pdflingua/internal/transport/http/response"
)

type PromptHandler struct {
	promptService *app.PromptService
}

func NewPromptHandler(promptService *app.PromptService) *PromptHandler {
	return &PromptHandler{promptService: promptService}
}

type CreatePromptRequest struct {
	SystemMessage string `json:"system_message" binding:"required"`
	UserMessage   string `json:"user_message" binding:"required"`
	PromptType    string `json:"prompt_type" binding:"required"`
}

func (h *PromptHandler) Create(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	var req CreatePromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	prompt, err := h.promptService.Create(app.CreatePromptInput{
		UserID:        userID,
		SystemMessage: req.SystemMessage,
		UserMessage:   req.UserMessage,
		PromptType:    req.PromptType,
	})
	if err != nil {
		respondPromptError(c, err, "create prompt failed")
		return
	}
	response.OK(c, prompt)
}

func (h *PromptHandler) List(c *gin.Context) {
	prompts, err := h.promptService.List()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list prompts failed")
		return
	}
	response.OK(c, gin.H{"prompts": prompts})
}

type UpdatePromptRequest struct {
	SystemMessage *string `json:"system_message"`
	UserMessage   *string `json:"user_message"`
	PromptType    *string `json:"prompt_type"`
}

func (h *PromptHandler) Update(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	promptID, err := parseUintParam(c, "promptId")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid prompt id")
		return
	}

	var req UpdatePromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	prompt, err := h.promptService.Update(promptID, userID, app.UpdatePromptInput{
		SystemMessage: req.SystemMessage,
		UserMessage:   req.UserMessage,
		PromptType:    req.PromptType,
	})
	if err != nil {
		respondPromptError(c, err, "update prompt failed")
		return
	}
	response.OK(c, prompt)
}

func (h *PromptHandler) Delete(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	promptID, err := parseUintParam(c, "promptId")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid prompt id")
		return
	}

	if err := h.promptService.Delete(promptID, userID); err != nil {
		respondPromptError(c, err, "delete prompt failed")
		return
	}
	response.OK(c, gin.H{"deleted": promptID})
}

func respondPromptError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, app.ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
	case errors.Is(err, app.ErrPromptNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
	case errors.Is(err, app.ErrNotOwner):
		response.Error(c, http.StatusForbidden, response.CodeForbidden, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, fallback)
	}
}
