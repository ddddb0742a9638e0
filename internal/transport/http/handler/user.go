package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pdflingua/internal/app"
	"pdflingua/internal/transport/http/response"
)

type UserHandler struct {
	settingsService *app.SettingsService
}

func NewUserHandler(settingsService *app.SettingsService) *UserHandler {
	return &UserHandler{settingsService: settingsService}
}

func (h *UserHandler) GetSettings(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	settings, err := h.settingsService.Get(userID)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrUserNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "fetch settings failed")
		}
		return
	}
	response.OK(c, settings)
}

type UpdateSettingsRequest struct {
	PreferredModel *string `json:"preferred_model"`
	APIKey         *string `json:"api_key"`
}

func (h *UserHandler) UpdateSettings(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	if err := h.settingsService.Update(userID, app.UpdateSettingsInput{
		PreferredModel: req.PreferredModel,
		APIKey:         req.APIKey,
	}); err != nil {
		switch {
		case errors.Is(err, app.ErrUserNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "update settings failed")
		}
		return
	}
	response.OK(c, gin.H{"updated": true})
}

func (h *UserHandler) Usage(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	entries, err := h.settingsService.Usage(userID, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list usage failed")
		return
	}
	response.OK(c, gin.H{"usage": entries})
}

type ValidateAPIKeyRequest struct {
	APIKey string `json:"api_key" binding:"required"`
}

// ValidateAPIKey answers with valid=false plus the provider's reason rather
// than an error status: a rejected key is a normal outcome here.
func (h *UserHandler) ValidateAPIKey(c *gin.Context) {
	var req ValidateAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	valid, reason := h.settingsService.ValidateAPIKey(c.Request.Context(), req.APIKey)
	response.OK(c, gin.H{"valid": valid, "reason": reason})
}
