package news

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/newsbrief/backend/internal/domain/news"
	"github.com/newsbrief/backend/internal/domain/shared"
	"github.com/newsbrief/backend/internal/infrastructure/newswire"
)

// RecommendationLimit is the maximum number of recommended articles returned
const RecommendationLimit = 10

// HeadlineFetcher fetches headlines from the upstream news provider
type HeadlineFetcher interface {
	TopHeadlines(ctx context.Context, category news.Category) ([]newswire.Headline, error)
}

// NewsService handles article ingestion, interactions, and recommendations
type NewsService struct {
	articles     news.ArticleRepository
	interactions news.InteractionRepository
	jobs         news.EnrichmentJobRepository
	fetcher      HeadlineFetcher
	logger       *zap.Logger
}

// NewNewsService creates a new news service
func NewNewsService(
	articles news.ArticleRepository,
	interactions news.InteractionRepository,
	jobs news.EnrichmentJobRepository,
	fetcher HeadlineFetcher,
	logger *zap.Logger,
) *NewsService {
	return &NewsService{
		articles:     articles,
		interactions: interactions,
		jobs:         jobs,
		fetcher:      fetcher,
		logger:       logger,
	}
}

// FetchLatest fetches current top headlines, stores the ones not seen
// before, and returns the stored representation of every fetched article.
func (s *NewsService) FetchLatest(ctx context.Context) ([]ArticleDTO, error) {
	return s.fetchAndStore(ctx, news.CategoryGeneral, "")
}

// FetchByCategory fetches and stores top headlines for one category
func (s *NewsService) FetchByCategory(ctx context.Context, category string) ([]ArticleDTO, error) {
	parsed, err := news.ParseCategory(category)
	if err != nil {
		return nil, err
	}
	return s.fetchAndStore(ctx, parsed, parsed)
}

// fetchAndStore ingests headlines. storeCategory is the category recorded
// on new articles; fetchCategory, when non-empty, restricts the provider
// query.
func (s *NewsService) fetchAndStore(ctx context.Context, storeCategory, fetchCategory news.Category) ([]ArticleDTO, error) {
	headlines, err := s.fetcher.TopHeadlines(ctx, fetchCategory)
	if err != nil {
		return nil, err
	}

	stored := make([]ArticleDTO, 0, len(headlines))
	var created int
	for _, h := range headlines {
		article, err := s.storeHeadline(ctx, h, storeCategory, &created)
		if err != nil {
			s.logger.Warn("failed to store headline",
				zap.String("url", h.URL),
				zap.Error(err))
			continue
		}
		stored = append(stored, ToArticleDTO(article))
	}

	s.logger.Info("headlines ingested",
		zap.String("category", string(storeCategory)),
		zap.Int("fetched", len(headlines)),
		zap.Int("new", created))
	return stored, nil
}

// storeHeadline stores one headline unless its URL is already known.
// New articles are queued for background enrichment.
func (s *NewsService) storeHeadline(ctx context.Context, h newswire.Headline, category news.Category, created *int) (*news.Article, error) {
	existing, err := s.articles.FindByURL(ctx, h.URL)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	article, err := news.NewArticle(h.Title, h.Description, h.URL, category)
	if err != nil {
		return nil, err
	}
	article.SetSource(h.Source)
	if h.ImageURL != nil {
		article.SetImageURL(*h.ImageURL)
	}
	article.PublishedAt = h.PublishedAt

	if err := s.articles.Save(ctx, article); err != nil {
		return nil, err
	}
	*created++

	if err := s.jobs.Enqueue(ctx, news.NewEnrichmentJob(article.ID)); err != nil {
		// The article is stored; enrichment will be missing until re-queued
		s.logger.Error("failed to enqueue enrichment job",
			zap.String("article_id", article.ID.String()),
			zap.Error(err))
	}
	return article, nil
}

// ListSaved returns all stored articles, newest first
func (s *NewsService) ListSaved(ctx context.Context) ([]ArticleDTO, error) {
	articles, err := s.articles.FindAllByCreatedDesc(ctx)
	if err != nil {
		return nil, err
	}
	return ToArticleDTOs(articles), nil
}

// RecordInteraction logs a view or click against a stored article
func (s *NewsService) RecordInteraction(ctx context.Context, input RecordInteractionInput) (*InteractionDTO, error) {
	articleID, err := uuid.Parse(input.ArticleID)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid article ID")
	}

	interactionType, err := news.ParseInteractionType(input.Type)
	if err != nil {
		return nil, err
	}

	// The article must exist before an interaction is logged against it
	if _, err := s.articles.FindByID(ctx, articleID); err != nil {
		return nil, err
	}

	interaction, err := news.NewInteraction(articleID, interactionType)
	if err != nil {
		return nil, err
	}
	interaction.SetUserID(input.UserID)

	if err := s.interactions.Save(ctx, interaction); err != nil {
		return nil, err
	}

	s.logger.Debug("interaction recorded",
		zap.String("article_id", input.ArticleID),
		zap.String("type", input.Type),
		zap.Float64("weight", interaction.Weight))

	dto := ToInteractionDTO(interaction)
	return &dto, nil
}

// Recommend returns up to RecommendationLimit articles for a user, based
// on the categories and sources of articles they interacted with. Users
// without interaction history get the most recently published articles.
func (s *NewsService) Recommend(ctx context.Context, userID string) ([]ArticleDTO, error) {
	if userID == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "User ID cannot be empty")
	}

	interactions, err := s.interactions.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(interactions) == 0 {
		recent, err := s.articles.FindRecentByPublished(ctx, RecommendationLimit)
		if err != nil {
			return nil, err
		}
		return ToArticleDTOs(recent), nil
	}

	categorySet := make(map[news.Category]bool)
	sourceSet := make(map[string]bool)
	for _, interaction := range interactions {
		article, err := s.articles.FindByID(ctx, interaction.ArticleID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				continue
			}
			return nil, err
		}
		categorySet[article.Category] = true
		if article.Source != "" {
			sourceSet[article.Source] = true
		}
	}

	categories := make([]news.Category, 0, len(categorySet))
	for c := range categorySet {
		categories = append(categories, c)
	}
	sources := make([]string, 0, len(sourceSet))
	for src := range sourceSet {
		sources = append(sources, src)
	}

	recommended, err := s.articles.FindByCategoriesAndSources(ctx, categories, sources, RecommendationLimit)
	if err != nil {
		return nil, err
	}

	// Nothing matches the profile (e.g. every interacted article is gone);
	// fall back to the newest articles
	if len(recommended) == 0 {
		recommended, err = s.articles.FindRecentByPublished(ctx, RecommendationLimit)
		if err != nil {
			return nil, err
		}
	}

	return ToArticleDTOs(recommended), nil
}
