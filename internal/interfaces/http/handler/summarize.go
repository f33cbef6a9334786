package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/newsbrief/backend/internal/application/textproc"
)

// TextProcessor is the application surface the summarize endpoints depend on
type TextProcessor interface {
	ProcessText(ctx context.Context, input textproc.ProcessTextInput) (*textproc.ProcessResult, error)
	ProcessURL(ctx context.Context, rawURL string) (*textproc.ProcessResult, error)
}

// SummarizeHandler handles on-demand summarization and translation
type SummarizeHandler struct {
	BaseHandler
	texts TextProcessor
}

// NewSummarizeHandler creates a new SummarizeHandler
func NewSummarizeHandler(texts TextProcessor) *SummarizeHandler {
	return &SummarizeHandler{texts: texts}
}

// RegisterRoutes registers summarize routes on the given group
func (h *SummarizeHandler) RegisterRoutes(rg *gin.RouterGroup) {
	summarize := rg.Group("/summarize")
	{
		summarize.POST("/text", h.PostText)
		summarize.POST("/url", h.PostURL)
	}
}

// PostText summarizes and optionally translates a raw text payload
func (h *SummarizeHandler) PostText(c *gin.Context) {
	var input textproc.ProcessTextInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.texts.ProcessText(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ProcessURLInput is the request body for URL summarization
type ProcessURLInput struct {
	URL string `json:"url" binding:"required"`
}

// PostURL fetches a page and summarizes its content
func (h *SummarizeHandler) PostURL(c *gin.Context) {
	var input ProcessURLInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.texts.ProcessURL(c.Request.Context(), input.URL)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
