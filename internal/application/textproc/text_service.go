package textproc

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/newsbrief/backend/internal/domain/shared"
)

// DefaultMaxLength is the summary threshold used when the caller omits one
const DefaultMaxLength = 150

// maxFetchSize caps the body read from a caller-supplied URL (10MB)
const maxFetchSize = 10 * 1024 * 1024

// TextGenerator runs generative summarization and translation calls
type TextGenerator interface {
	IsConfigured() bool
	Summarize(ctx context.Context, text string, maxChars int) (string, error)
	Translate(ctx context.Context, text, targetLanguage string) (string, error)
}

// SpeechSynthesizer converts text into audio
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text, language string) ([]byte, error)
}

// ProcessTextInput is the payload for the stateless text endpoint
type ProcessTextInput struct {
	Text       string `json:"text" binding:"required"`
	MaxLength  int    `json:"max_length"`
	TargetLang string `json:"target_lang"`
}

// ProcessResult carries the optional summary and translation; either or
// both may be nil depending on input length and target language.
type ProcessResult struct {
	Summary     *string `json:"summary"`
	Translation *string `json:"translation"`
}

// TextService implements the stateless text utilities: summarize,
// translate, fetch-then-process, and speech synthesis.
type TextService struct {
	generator   TextGenerator
	synthesizer SpeechSynthesizer
	httpClient  *http.Client
	logger      *zap.Logger
}

// NewTextService creates a new text service
func NewTextService(generator TextGenerator, synthesizer SpeechSynthesizer, logger *zap.Logger) *TextService {
	return &TextService{
		generator:   generator,
		synthesizer: synthesizer,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// ProcessText summarizes the text when it exceeds the length threshold
// and translates it when the target language is not English. Both calls
// are independent; neither firing is a valid outcome.
func (s *TextService) ProcessText(ctx context.Context, input ProcessTextInput) (*ProcessResult, error) {
	if strings.TrimSpace(input.Text) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Text cannot be empty")
	}

	maxLength := input.MaxLength
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	targetLang := strings.ToLower(strings.TrimSpace(input.TargetLang))
	if targetLang == "" {
		targetLang = "en"
	}

	result := &ProcessResult{}

	if utf8.RuneCountInString(input.Text) > maxLength {
		summary, err := s.generator.Summarize(ctx, input.Text, maxLength)
		if err != nil {
			return nil, s.mapGeneratorError(err)
		}
		if summary != "" {
			result.Summary = &summary
		}
	}

	if targetLang != "en" {
		translation, err := s.generator.Translate(ctx, input.Text, targetLang)
		if err != nil {
			return nil, s.mapGeneratorError(err)
		}
		if translation != "" {
			result.Translation = &translation
		}
	}

	return result, nil
}

// ProcessURL fetches the raw response body of an arbitrary URL and runs
// it through ProcessText with default settings. The body is treated as
// plain text; no HTML extraction is attempted.
func (s *TextService) ProcessURL(ctx context.Context, rawURL string) (*ProcessResult, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "A valid http or https URL is required")
	}

	text, err := s.fetchBody(ctx, parsed.String())
	if err != nil {
		return nil, err
	}

	return s.ProcessText(ctx, ProcessTextInput{Text: text})
}

func (s *TextService) fetchBody(ctx context.Context, target string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", shared.NewDomainError("INVALID_INPUT", "A valid http or https URL is required")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Warn("failed to fetch URL", zap.String("url", target), zap.Error(err))
		return "", shared.ErrUpstream
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.logger.Warn("URL fetch returned non-success status",
			zap.String("url", target),
			zap.Int("status", resp.StatusCode))
		return "", shared.ErrUpstream
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchSize))
	if err != nil {
		return "", shared.ErrUpstream
	}
	return string(body), nil
}

// Synthesize converts text to MP3 audio in the requested language.
// Synthesizer failures are reported as internal errors; unlike the
// generative endpoints, the caller gets no upstream detail.
func (s *TextService) Synthesize(ctx context.Context, text, language string) ([]byte, error) {
	audio, err := s.synthesizer.Synthesize(ctx, text, language)
	if err != nil {
		if errors.Is(err, shared.ErrUpstream) || errors.Is(err, shared.ErrUpstreamTimeout) {
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to convert text to speech")
		}
		return nil, err
	}
	return audio, nil
}

// mapGeneratorError converts a missing generator credential into an
// internal error: the stateless text endpoints report 500 for a missing
// key, unlike the news endpoints which report 503.
func (s *TextService) mapGeneratorError(err error) error {
	if errors.Is(err, shared.ErrNotConfigured) {
		return shared.NewDomainError("INTERNAL_ERROR", "GROQ_API_KEY not configured")
	}
	return err
}
