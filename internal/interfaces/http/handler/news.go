package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	appnews "github.com/newsbrief/backend/internal/application/news"
	"github.com/newsbrief/backend/internal/interfaces/http/dto"
	"github.com/newsbrief/backend/internal/interfaces/http/middleware"
)

// NewsService is the application surface the news endpoints depend on
type NewsService interface {
	FetchLatest(ctx context.Context) ([]appnews.ArticleDTO, error)
	FetchByCategory(ctx context.Context, category string) ([]appnews.ArticleDTO, error)
	ListSaved(ctx context.Context) ([]appnews.ArticleDTO, error)
	RecordInteraction(ctx context.Context, input appnews.RecordInteractionInput) (*appnews.InteractionDTO, error)
	Recommend(ctx context.Context, userID string) ([]appnews.ArticleDTO, error)
}

// SpeechSynthesizer converts text into spoken audio
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text, language string) ([]byte, error)
}

// NewsHandler handles the news API endpoints
type NewsHandler struct {
	BaseHandler
	news   NewsService
	speech SpeechSynthesizer
}

// NewNewsHandler creates a new NewsHandler
func NewNewsHandler(news NewsService, speech SpeechSynthesizer) *NewsHandler {
	return &NewsHandler{news: news, speech: speech}
}

// RegisterRoutes registers news routes on the given group
func (h *NewsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	news := rg.Group("/news")
	{
		news.GET("/latest", h.GetLatest)
		news.GET("/category/:category", h.GetByCategory)
		news.GET("/saved", h.GetSaved)
		news.POST("/interaction", h.PostInteraction)
		news.GET("/recommended/:user_id", h.GetRecommended)
		news.POST("/text-to-speech", h.PostTextToSpeech)
	}
}

// GetLatest fetches fresh headlines, stores the new ones, and returns the batch
func (h *NewsHandler) GetLatest(c *gin.Context) {
	articles, err := h.news.FetchLatest(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, articles)
}

// GetByCategory fetches headlines for a single category
func (h *NewsHandler) GetByCategory(c *gin.Context) {
	articles, err := h.news.FetchByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, articles)
}

// GetSaved returns every stored article, newest first
func (h *NewsHandler) GetSaved(c *gin.Context) {
	articles, err := h.news.ListSaved(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, articles)
}

// PostInteraction records a view or click against an article
func (h *NewsHandler) PostInteraction(c *gin.Context) {
	var input appnews.RecordInteractionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	// An authenticated caller that omits user_id is tagged with the
	// identity from their token
	if input.UserID == "" {
		input.UserID = middleware.GetJWTUserID(c)
	}

	if _, err := h.news.RecordInteraction(c.Request.Context(), input); err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessStatus())
}

// GetRecommended returns up to ten articles ranked for the given user
func (h *NewsHandler) GetRecommended(c *gin.Context) {
	articles, err := h.news.Recommend(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, articles)
}

// TextToSpeechInput is the request body for speech synthesis
type TextToSpeechInput struct {
	Text     string `json:"text" binding:"required"`
	Language string `json:"language"`
}

// PostTextToSpeech synthesizes the given text and streams back MP3 audio
func (h *NewsHandler) PostTextToSpeech(c *gin.Context) {
	var input TextToSpeechInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	audio, err := h.speech.Synthesize(c.Request.Context(), input.Text, input.Language)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=speech.mp3")
	c.Data(http.StatusOK, "audio/mpeg", audio)
}
