package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/newsbrief/backend/internal/domain/news"
	"github.com/newsbrief/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormArticleRepository implements news.ArticleRepository using GORM
type GormArticleRepository struct {
	db *gorm.DB
}

// NewGormArticleRepository creates a new GormArticleRepository
func NewGormArticleRepository(db *gorm.DB) *GormArticleRepository {
	return &GormArticleRepository{db: db}
}

// FindByID finds an article by its ID
func (r *GormArticleRepository) FindByID(ctx context.Context, id uuid.UUID) (*news.Article, error) {
	var article news.Article
	if err := r.db.WithContext(ctx).First(&article, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &article, nil
}

// FindByURL finds an article by its canonical URL
func (r *GormArticleRepository) FindByURL(ctx context.Context, url string) (*news.Article, error) {
	if url == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "URL cannot be empty")
	}
	var article news.Article
	if err := r.db.WithContext(ctx).Where("url = ?", url).First(&article).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &article, nil
}

// FindAllByCreatedDesc returns all stored articles, newest first
func (r *GormArticleRepository) FindAllByCreatedDesc(ctx context.Context) ([]news.Article, error) {
	var articles []news.Article
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&articles).Error; err != nil {
		return nil, err
	}
	return articles, nil
}

// FindRecentByPublished returns the most recently published articles
func (r *GormArticleRepository) FindRecentByPublished(ctx context.Context, limit int) ([]news.Article, error) {
	var articles []news.Article
	if err := r.db.WithContext(ctx).
		Order("published_at DESC").
		Limit(limit).
		Find(&articles).Error; err != nil {
		return nil, err
	}
	return articles, nil
}

// FindByCategoriesAndSources returns articles matching any of the given
// categories and any of the given sources, most recently published first.
// Empty slices leave the corresponding dimension unrestricted.
func (r *GormArticleRepository) FindByCategoriesAndSources(ctx context.Context, categories []news.Category, sources []string, limit int) ([]news.Article, error) {
	query := r.db.WithContext(ctx).Model(&news.Article{})
	if len(categories) > 0 {
		query = query.Where("category IN ?", categories)
	}
	if len(sources) > 0 {
		query = query.Where("source IN ?", sources)
	}

	var articles []news.Article
	if err := query.
		Order("published_at DESC").
		Limit(limit).
		Find(&articles).Error; err != nil {
		return nil, err
	}
	return articles, nil
}

// Save creates or updates an article
func (r *GormArticleRepository) Save(ctx context.Context, article *news.Article) error {
	return r.db.WithContext(ctx).Save(article).Error
}
