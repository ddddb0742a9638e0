package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"pdflingua/internal/app"
	"pdflingua/internal/pkg/pagerange"
	"pdflingua/internal/transport/http/response"
)

type ToolsHandler struct {
	toolsService   *app.ToolsService
	maxUploadBytes int64
}

func NewToolsHandler(toolsService *app.ToolsService, maxUploadBytes int64) *ToolsHandler {
	return &ToolsHandler{
		toolsService:   toolsService,
		maxUploadBytes: maxUploadBytes,
	}
}

// ExtractText extracts a page range from a one-off upload and reports the
// token count, without creating a file row.
func (h *ToolsHandler) ExtractText(c *gin.Context) {
	fileHeader, r, ok := h.bindUpload(c)
	if !ok {
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "read upload failed")
		return
	}
	defer src.Close()

	result, err := h.toolsService.ExtractText(c.Request.Context(), fileHeader.Filename, src, r)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrNoTextFound):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "extraction failed")
		}
		return
	}
	response.OK(c, result)
}

// TestTranslation runs extract-then-translate over a one-off upload using
// the prompts supplied in the form.
func (h *ToolsHandler) TestTranslation(c *gin.Context) {
	fileHeader, r, ok := h.bindUpload(c)
	if !ok {
		return
	}

	prompt := app.PromptConfig{
		SystemMessage: c.PostForm("system_prompt"),
		UserMessage:   c.PostForm("user_prompt"),
	}

	src, err := fileHeader.Open()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "read upload failed")
		return
	}
	defer src.Close()

	result, err := h.toolsService.TestTranslation(c.Request.Context(), fileHeader.Filename, src, r, prompt)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrNoTextFound):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "test translation failed")
		}
		return
	}
	response.OK(c, result)
}

func (h *ToolsHandler) bindUpload(c *gin.Context) (fileHeader *multipart.FileHeader, r pagerange.Range, ok bool) {
	header, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing file upload")
		return nil, pagerange.Range{}, false
	}
	if h.maxUploadBytes > 0 && header.Size > h.maxUploadBytes {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "file exceeds the upload size limit")
		return nil, pagerange.Range{}, false
	}

	r, err = pagerange.Parse(c.PostForm("page_range"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeInvalidPageRange, err.Error())
		return nil, pagerange.Range{}, false
	}
	return header, r, true
}
