package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/newsbrief/backend/internal/application/textproc"
	"github.com/newsbrief/backend/internal/domain/shared"
)

type mockTextProcessor struct {
	mock.Mock
}

func (m *mockTextProcessor) ProcessText(ctx context.Context, input textproc.ProcessTextInput) (*textproc.ProcessResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*textproc.ProcessResult), args.Error(1)
}

func (m *mockTextProcessor) ProcessURL(ctx context.Context, rawURL string) (*textproc.ProcessResult, error) {
	args := m.Called(ctx, rawURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*textproc.ProcessResult), args.Error(1)
}

func newSummarizeRouter() (*gin.Engine, *mockTextProcessor) {
	svc := new(mockTextProcessor)
	router := gin.New()
	api := router.Group("/api")
	NewSummarizeHandler(svc).RegisterRoutes(api)
	return router, svc
}

func TestPostSummarizeText(t *testing.T) {
	router, svc := newSummarizeRouter()

	summary := "short version"
	svc.On("ProcessText", mock.Anything, textproc.ProcessTextInput{
		Text:       "a long article body",
		MaxLength:  100,
		TargetLang: "es",
	}).Return(&textproc.ProcessResult{Summary: &summary}, nil)

	body := bytes.NewBufferString(`{"text":"a long article body","max_length":100,"target_lang":"es"}`)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/api/summarize/text", body))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"summary":"short version","translation":null}`, w.Body.String())
}

func TestPostSummarizeTextMissingBody(t *testing.T) {
	router, svc := newSummarizeRouter()

	body := bytes.NewBufferString(`{}`)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/api/summarize/text", body))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "ProcessText", mock.Anything, mock.Anything)
}

func TestPostSummarizeTextMissingKey(t *testing.T) {
	router, svc := newSummarizeRouter()
	svc.On("ProcessText", mock.Anything, mock.Anything).
		Return(nil, shared.NewDomainError("INTERNAL_ERROR", "GROQ_API_KEY not configured"))

	body := bytes.NewBufferString(`{"text":"some text"}`)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/api/summarize/text", body))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "GROQ_API_KEY")
}

func TestPostSummarizeTextUpstreamTimeout(t *testing.T) {
	router, svc := newSummarizeRouter()
	svc.On("ProcessText", mock.Anything, mock.Anything).Return(nil, shared.ErrUpstreamTimeout)

	body := bytes.NewBufferString(`{"text":"some text"}`)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/api/summarize/text", body))

	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
}

func TestPostSummarizeURL(t *testing.T) {
	router, svc := newSummarizeRouter()

	summary := "page summary"
	svc.On("ProcessURL", mock.Anything, "https://example.com/article").
		Return(&textproc.ProcessResult{Summary: &summary}, nil)

	body := bytes.NewBufferString(`{"url":"https://example.com/article"}`)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/api/summarize/url", body))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "page summary")
}

func TestPostSummarizeURLInvalid(t *testing.T) {
	router, svc := newSummarizeRouter()
	svc.On("ProcessURL", mock.Anything, "not-a-url").
		Return(nil, shared.NewDomainError("INVALID_INPUT", "URL must be absolute http or https"))

	body := bytes.NewBufferString(`{"url":"not-a-url"}`)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/api/summarize/url", body))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
