package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/newsbrief/backend/internal/domain/shared"
	"github.com/newsbrief/backend/internal/infrastructure/config"
)

// maxResponseSize is the maximum allowed response size from the API (10MB)
const maxResponseSize = 10 * 1024 * 1024

// languageNames maps ISO 639-1 codes to the names used in translation prompts
var languageNames = map[string]string{
	"ar": "Modern Standard Arabic",
	"bn": "Standard Bengali",
	"zh": "Simplified Chinese",
	"en": "English",
	"fr": "French",
	"de": "German",
	"hi": "Hindi",
	"id": "Indonesian",
	"it": "Italian",
	"ja": "Japanese",
	"ko": "Korean",
	"pt": "Portuguese",
	"ru": "Russian",
	"es": "Spanish",
	"tr": "Turkish",
}

// LanguageName resolves a language code to its prompt name, falling back
// to the uppercased code for languages outside the known set.
func LanguageName(code string) string {
	if name, ok := languageNames[strings.ToLower(code)]; ok {
		return name
	}
	return strings.ToUpper(code)
}

// Client calls the Groq chat-completions API for summaries and translations
type Client struct {
	cfg        *config.GroqConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new Groq client
func NewClient(cfg *config.GroqConfig, logger *zap.Logger) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger.Named("groq"),
	}
}

// IsConfigured reports whether an API key is available
func (c *Client) IsConfigured() bool {
	return c.cfg.HasGroqKey()
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// DefaultSummaryLength is the target summary length in characters
const DefaultSummaryLength = 150

// Summarize produces a concise summary of the given text, aiming for
// roughly maxChars characters. Non-positive maxChars uses the default.
func (c *Client) Summarize(ctx context.Context, text string, maxChars int) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", shared.NewDomainError("INVALID_INPUT", "Text to summarize cannot be empty")
	}
	if maxChars <= 0 {
		maxChars = DefaultSummaryLength
	}
	prompt := fmt.Sprintf(
		"Summarize the following text in about %d characters. Provide ONLY the summary, no additional text:\n\n%s",
		maxChars, text)
	return c.complete(ctx, c.cfg.SummaryModel, prompt)
}

// Translate translates the given text into the target language, given
// as an ISO 639-1 code.
func (c *Client) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", shared.NewDomainError("INVALID_INPUT", "Text to translate cannot be empty")
	}
	name := LanguageName(targetLanguage)
	prompt := fmt.Sprintf(
		"Translate this text to %s. Maintain the original meaning and tone:\n\n%s\n\nProvide ONLY the translation in %s, no other text.",
		name, text, name)
	return c.complete(ctx, c.cfg.TranslationModel, prompt)
}

func (c *Client) complete(ctx context.Context, model, prompt string) (string, error) {
	if !c.cfg.HasGroqKey() {
		return "", shared.ErrNotConfigured
	}

	payload, err := json.Marshal(chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are a professional translator and summarizer. Provide ONLY the requested output without any explanations or notes."},
			{Role: "user", Content: prompt},
		},
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode chat request: %w", err)
	}

	endpoint := strings.TrimSuffix(c.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build chat request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", shared.ErrUpstreamTimeout
		}
		c.logger.Warn("chat request failed", zap.String("model", model), zap.Error(err))
		return "", shared.ErrUpstream
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", shared.ErrUpstream
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		c.logger.Warn("chat response is not valid JSON", zap.Int("status", resp.StatusCode))
		return "", shared.ErrUpstream
	}

	if resp.StatusCode != http.StatusOK {
		message := "chat completion failed"
		if parsed.Error != nil {
			message = parsed.Error.Message
		}
		c.logger.Warn("chat completion rejected",
			zap.String("model", model),
			zap.Int("status", resp.StatusCode),
			zap.String("message", message))
		return "", shared.NewDomainError("UPSTREAM_ERROR", message)
	}

	if len(parsed.Choices) == 0 {
		return "", shared.ErrUpstream
	}

	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Timeout()
	}
	return false
}
