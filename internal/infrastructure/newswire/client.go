package newswire

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/newsbrief/backend/internal/domain/news"
	"github.com/newsbrief/backend/internal/domain/shared"
	"github.com/newsbrief/backend/internal/infrastructure/config"
)

// maxResponseSize is the maximum allowed response size from the provider (10MB)
const maxResponseSize = 10 * 1024 * 1024

// publishedAtLayout is the timestamp format used by the provider
const publishedAtLayout = "2006-01-02T15:04:05Z"

// Headline is one article as returned by the provider, already normalized
// for ingestion: description defaulted, source name resolved, timestamp parsed.
type Headline struct {
	Title       string
	Description string
	URL         string
	ImageURL    *string
	PublishedAt time.Time
	Source      string
}

// Client fetches top headlines from a NewsAPI-compatible provider
type Client struct {
	cfg        *config.NewsConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new provider client
func NewClient(cfg *config.NewsConfig, logger *zap.Logger) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger.Named("newswire"),
	}
}

type sourceResponse struct {
	ID   *string `json:"id"`
	Name string  `json:"name"`
}

type articleResponse struct {
	Source      sourceResponse `json:"source"`
	Title       string         `json:"title"`
	Description *string        `json:"description"`
	URL         string         `json:"url"`
	URLToImage  *string        `json:"urlToImage"`
	PublishedAt string         `json:"publishedAt"`
}

type headlinesResponse struct {
	Status       string            `json:"status"`
	Code         string            `json:"code"`
	Message      string            `json:"message"`
	TotalResults int               `json:"totalResults"`
	Articles     []articleResponse `json:"articles"`
}

// TopHeadlines fetches top headlines, optionally restricted to a category.
// An empty category requests general top headlines for the configured country.
func (c *Client) TopHeadlines(ctx context.Context, category news.Category) ([]Headline, error) {
	if !c.cfg.HasNewsKey() {
		return nil, shared.ErrNotConfigured
	}

	endpoint, err := c.buildURL(category)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build headlines request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.cfg.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, shared.ErrUpstreamTimeout
		}
		c.logger.Warn("headlines request failed", zap.Error(err))
		return nil, shared.ErrUpstream
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, shared.ErrUpstream
	}

	var parsed headlinesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		c.logger.Warn("headlines response is not valid JSON",
			zap.Int("status", resp.StatusCode))
		return nil, shared.ErrUpstream
	}

	if parsed.Status != "ok" {
		c.logger.Warn("provider rejected headlines request",
			zap.Int("status", resp.StatusCode),
			zap.String("code", parsed.Code),
			zap.String("message", parsed.Message))
		return nil, shared.NewDomainError("UPSTREAM_ERROR", fmt.Sprintf("news provider error: %s", parsed.Message))
	}

	headlines := make([]Headline, 0, len(parsed.Articles))
	for _, a := range parsed.Articles {
		if a.Title == "" || a.URL == "" {
			continue
		}
		headlines = append(headlines, Headline{
			Title:       a.Title,
			Description: stringOrDefault(a.Description, news.DefaultDescription),
			URL:         a.URL,
			ImageURL:    a.URLToImage,
			PublishedAt: parsePublishedAt(a.PublishedAt),
			Source:      sourceName(a.Source),
		})
	}

	c.logger.Debug("fetched headlines",
		zap.String("category", string(category)),
		zap.Int("count", len(headlines)))
	return headlines, nil
}

func (c *Client) buildURL(category news.Category) (string, error) {
	base, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid provider base URL: %w", err)
	}
	base = base.JoinPath("top-headlines")

	q := base.Query()
	q.Set("country", c.cfg.Country)
	q.Set("language", c.cfg.Language)
	q.Set("pageSize", fmt.Sprintf("%d", c.cfg.PageSize))
	if category != "" {
		q.Set("category", string(category))
	}
	base.RawQuery = q.Encode()
	return base.String(), nil
}

// parsePublishedAt parses the provider timestamp, falling back to the
// current time when the value is missing or malformed.
func parsePublishedAt(value string) time.Time {
	if value == "" {
		return time.Now().UTC()
	}
	t, err := time.Parse(publishedAtLayout, value)
	if err != nil {
		return time.Now().UTC()
	}
	return t
}

func sourceName(s sourceResponse) string {
	if s.Name == "" {
		return "Unknown"
	}
	return s.Name
}

func stringOrDefault(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
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
