package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appnews "github.com/newsbrief/backend/internal/application/news"
	"github.com/newsbrief/backend/internal/domain/shared"
	"github.com/newsbrief/backend/internal/infrastructure/auth"
	"github.com/newsbrief/backend/internal/infrastructure/config"
	"github.com/newsbrief/backend/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockNewsService struct {
	mock.Mock
}

func (m *mockNewsService) FetchLatest(ctx context.Context) ([]appnews.ArticleDTO, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]appnews.ArticleDTO), args.Error(1)
}

func (m *mockNewsService) FetchByCategory(ctx context.Context, category string) ([]appnews.ArticleDTO, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]appnews.ArticleDTO), args.Error(1)
}

func (m *mockNewsService) ListSaved(ctx context.Context) ([]appnews.ArticleDTO, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]appnews.ArticleDTO), args.Error(1)
}

func (m *mockNewsService) RecordInteraction(ctx context.Context, input appnews.RecordInteractionInput) (*appnews.InteractionDTO, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appnews.InteractionDTO), args.Error(1)
}

func (m *mockNewsService) Recommend(ctx context.Context, userID string) ([]appnews.ArticleDTO, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]appnews.ArticleDTO), args.Error(1)
}

type mockSpeech struct {
	mock.Mock
}

func (m *mockSpeech) Synthesize(ctx context.Context, text, language string) ([]byte, error) {
	args := m.Called(ctx, text, language)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func newNewsRouter() (*gin.Engine, *mockNewsService, *mockSpeech) {
	svc := new(mockNewsService)
	speech := new(mockSpeech)
	router := gin.New()
	api := router.Group("/api")
	NewNewsHandler(svc, speech).RegisterRoutes(api)
	return router, svc, speech
}

func sampleArticles() []appnews.ArticleDTO {
	return []appnews.ArticleDTO{
		{
			ID:          "0b8f8a52-2b60-4f68-a3b2-a5cfd2a9a001",
			Title:       "Markets rally",
			Description: "Stocks climbed on Friday",
			URL:         "https://example.com/markets",
			PublishedAt: "2026-08-28T09:00:00Z",
			Source:      "Example Wire",
			Category:    "business",
		},
	}
}

func TestGetLatest(t *testing.T) {
	router, svc, _ := newNewsRouter()
	svc.On("FetchLatest", mock.Anything).Return(sampleArticles(), nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/news/latest", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var articles []appnews.ArticleDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &articles))
	require.Len(t, articles, 1)
	assert.Equal(t, "Markets rally", articles[0].Title)
}

func TestGetLatestNotConfigured(t *testing.T) {
	router, svc, _ := newNewsRouter()
	svc.On("FetchLatest", mock.Anything).Return(nil, shared.ErrNotConfigured)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/news/latest", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_CONFIGURED")
}

func TestGetByCategory(t *testing.T) {
	router, svc, _ := newNewsRouter()
	svc.On("FetchByCategory", mock.Anything, "business").Return(sampleArticles(), nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/news/category/business", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetByCategoryInvalid(t *testing.T) {
	router, svc, _ := newNewsRouter()
	svc.On("FetchByCategory", mock.Anything, "gardening").
		Return(nil, shared.NewDomainError("INVALID_INPUT", "Unknown category"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/news/category/gardening", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_INPUT")
}

func TestGetSaved(t *testing.T) {
	router, svc, _ := newNewsRouter()
	svc.On("ListSaved", mock.Anything).Return(sampleArticles(), nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/news/saved", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPostInteraction(t *testing.T) {
	router, svc, _ := newNewsRouter()
	svc.On("RecordInteraction", mock.Anything, appnews.RecordInteractionInput{
		ArticleID: "0b8f8a52-2b60-4f68-a3b2-a5cfd2a9a001",
		Type:      "click",
	}).Return(&appnews.InteractionDTO{Weight: 2.0}, nil)

	body := bytes.NewBufferString(`{"article_id":"0b8f8a52-2b60-4f68-a3b2-a5cfd2a9a001","interaction_type":"click"}`)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/api/news/interaction", body))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"success"}`, w.Body.String())
}

func TestPostInteractionUsesTokenIdentity(t *testing.T) {
	svc := new(mockNewsService)
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-at-least-32-characters-long",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "newsbrief-test",
	})
	router := gin.New()
	router.Use(middleware.OptionalJWTAuthMiddleware(jwtService))
	api := router.Group("/api")
	NewNewsHandler(svc, new(mockSpeech)).RegisterRoutes(api)

	userID := uuid.New()
	pair, err := jwtService.GenerateTokenPair(userID, "reader@example.com")
	require.NoError(t, err)

	// No user_id in the body; the token identity fills it in
	svc.On("RecordInteraction", mock.Anything, appnews.RecordInteractionInput{
		ArticleID: "0b8f8a52-2b60-4f68-a3b2-a5cfd2a9a001",
		Type:      "view",
		UserID:    userID.String(),
	}).Return(&appnews.InteractionDTO{Weight: 1.0}, nil)

	body := bytes.NewBufferString(`{"article_id":"0b8f8a52-2b60-4f68-a3b2-a5cfd2a9a001","interaction_type":"view"}`)
	req := httptest.NewRequest("POST", "/api/news/interaction", body)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestPostInteractionMissingFields(t *testing.T) {
	router, svc, _ := newNewsRouter()

	body := bytes.NewBufferString(`{"article_id":""}`)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/api/news/interaction", body))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "RecordInteraction", mock.Anything, mock.Anything)
}

func TestPostInteractionUnknownArticle(t *testing.T) {
	router, svc, _ := newNewsRouter()
	svc.On("RecordInteraction", mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound)

	body := bytes.NewBufferString(`{"article_id":"0b8f8a52-2b60-4f68-a3b2-a5cfd2a9a001","interaction_type":"view"}`)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/api/news/interaction", body))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetRecommended(t *testing.T) {
	router, svc, _ := newNewsRouter()
	svc.On("Recommend", mock.Anything, "user-42").Return(sampleArticles(), nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/news/recommended/user-42", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPostTextToSpeech(t *testing.T) {
	router, _, speech := newNewsRouter()
	speech.On("Synthesize", mock.Anything, "hello world", "es").Return([]byte("mp3-bytes"), nil)

	body := bytes.NewBufferString(`{"text":"hello world","language":"es"}`)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/api/news/text-to-speech", body))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "audio/mpeg", w.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=speech.mp3", w.Header().Get("Content-Disposition"))
	assert.Equal(t, "mp3-bytes", w.Body.String())
}

func TestPostTextToSpeechSynthesizerFailure(t *testing.T) {
	router, _, speech := newNewsRouter()
	speech.On("Synthesize", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to convert text to speech"))

	body := bytes.NewBufferString(`{"text":"hello"}`)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/api/news/text-to-speech", body))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
