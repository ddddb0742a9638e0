package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pdflingua/internal/app"
	"pdflingua/internal/transport/http/response"
)

type FileHandler struct {
	fileService    *app.FileService
	maxUploadBytes int64
}

func NewFileHandler(fileService *app.FileService, maxUploadBytes int64) *FileHandler {
	return &FileHandler{
		fileService:    fileService,
		maxUploadBytes: maxUploadBytes,
	}
}

// Upload accepts a multipart PDF together with its translation parameters.
// page_count is optional; when omitted it is read from the PDF itself.
func (h *FileHandler) Upload(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	fileHeader, err := c.FormFile("pdf")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing pdf upload")
		return
	}
	if h.maxUploadBytes > 0 && fileHeader.Size > h.maxUploadBytes {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "file exceeds the upload size limit")
		return
	}

	pageCount := 0
	if raw := c.PostForm("page_count"); raw != "" {
		pageCount, err = strconv.Atoi(raw)
		if err != nil || pageCount < 0 {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid page_count")
			return
		}
	}

	src, err := fileHeader.Open()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "read upload failed")
		return
	}
	defer src.Close()

	file, err := h.fileService.Upload(app.UploadInput{
		UserID:       userID,
		Filename:     fileHeader.Filename,
		Content:      src,
		PageCount:    pageCount,
		PageRange:    c.PostForm("page_range"),
		SystemPrompt: c.PostForm("system_prompt"),
		UserPrompt:   c.PostForm("user_prompt"),
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrNotPDF):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrDuplicateFile):
			response.Error(c, http.StatusConflict, response.CodeDuplicateFile, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "upload failed")
		}
		return
	}

	response.OK(c, gin.H{
		"file_id":    file.ID,
		"filename":   file.Filename,
		"page_count": file.PageCount,
		"page_range": file.PageRange,
	})
}

func (h *FileHandler) List(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	files, err := h.fileService.List(userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list files failed")
		return
	}
	response.OK(c, gin.H{"files": files})
}

type UpdateFileRequest struct {
	PageCount    *int    `json:"page_count"`
	PageRange    *string `json:"page_range"`
	SystemPrompt *string `json:"system_prompt"`
	UserPrompt   *string `json:"user_prompt"`
}

func (h *FileHandler) Update(c *gin.Context) {
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

	var req UpdateFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	file, err := h.fileService.Update(fileID, userID, app.UpdateFileInput{
		PageCount:    req.PageCount,
		PageRange:    req.PageRange,
		SystemPrompt: req.SystemPrompt,
		UserPrompt:   req.UserPrompt,
	})
	if err != nil {
		respondFileError(c, err, "update file failed")
		return
	}
	response.OK(c, file)
}

func (h *FileHandler) Delete(c *gin.Context) {
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

	if err := h.fileService.Delete(fileID, userID); err != nil {
		respondFileError(c, err, "delete file failed")
		return
	}
	response.OK(c, gin.H{"deleted": fileID})
}

func respondFileError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, app.ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
	case errors.Is(err, app.ErrFileNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
	case errors.Is(err, app.ErrNotOwner):
		response.Error(c, http.StatusForbidden, response.CodeForbidden, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, fallback)
	}
}

func parseUintParam(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id parameter")
	}
	return uint(id), nil
}
