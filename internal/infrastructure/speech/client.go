package speech

import (
	"context"
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

// maxChunkLen is the longest text fragment the synthesis endpoint accepts
const maxChunkLen = 200

// maxResponseSize caps the size of a single synthesized audio chunk (10MB)
const maxResponseSize = 10 * 1024 * 1024

// locales maps supported language codes to the locale the synthesizer
// expects. Codes outside this set fall back to English.
var locales = map[string]string{
	"en": "en",
	"hi": "hi",
	"ar": "ar",
	"bn": "bn",
	"zh": "zh-CN",
	"fr": "fr",
	"de": "de",
	"id": "id",
	"it": "it",
	"ja": "ja",
	"ko": "ko",
	"pt": "pt",
	"ru": "ru",
	"es": "es",
	"tr": "tr",
}

// Locale resolves a language code to a synthesizer locale
func Locale(code string) string {
	if mapped, ok := locales[strings.ToLower(strings.TrimSpace(code))]; ok {
		return mapped
	}
	return "en"
}

// Client synthesizes speech using the Google Translate TTS endpoint
type Client struct {
	cfg        *config.SpeechConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new speech synthesis client
func NewClient(cfg *config.SpeechConfig, logger *zap.Logger) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger.Named("speech"),
	}
}

// Synthesize converts text into MP3 audio in the given language. Long
// texts are split at word boundaries and the audio chunks concatenated;
// MP3 frames are self-contained so concatenation yields playable audio.
func (c *Client) Synthesize(ctx context.Context, text, language string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Text to synthesize cannot be empty")
	}

	locale := Locale(language)
	var audio []byte
	for _, chunk := range splitChunks(text, maxChunkLen) {
		data, err := c.fetchChunk(ctx, chunk, locale)
		if err != nil {
			return nil, err
		}
		audio = append(audio, data...)
	}
	return audio, nil
}

func (c *Client) fetchChunk(ctx context.Context, text, locale string) ([]byte, error) {
	endpoint := strings.TrimSuffix(c.cfg.BaseURL, "/") + "/translate_tts"
	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("client", "tw-ob")
	params.Set("tl", locale)
	params.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build synthesis request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, shared.ErrUpstreamTimeout
		}
		c.logger.Warn("synthesis request failed", zap.Error(err))
		return nil, shared.ErrUpstream
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("synthesis rejected",
			zap.Int("status", resp.StatusCode),
			zap.String("locale", locale))
		return nil, shared.ErrUpstream
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, shared.ErrUpstream
	}
	return data, nil
}

// splitChunks splits text into fragments of at most limit bytes,
// breaking at word boundaries where possible.
func splitChunks(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder
	for _, word := range strings.Fields(text) {
		if current.Len() > 0 && current.Len()+1+len(word) > limit {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		// A single word longer than the limit becomes its own chunk
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
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
