package news

import (
	"context"

	"github.com/google/uuid"
)

// ArticleRepository defines the interface for article persistence
type ArticleRepository interface {
	// FindByID finds an article by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Article, error)

	// FindByURL finds an article by its canonical URL
	FindByURL(ctx context.Context, url string) (*Article, error)

	// FindAllByCreatedDesc returns all stored articles, newest first by creation time
	FindAllByCreatedDesc(ctx context.Context) ([]Article, error)

	// FindRecentByPublished returns the most recently published articles
	FindRecentByPublished(ctx context.Context, limit int) ([]Article, error)

	// FindByCategoriesAndSources returns articles matching any of the given
	// categories and any of the given sources, ordered by published time
	// descending. An empty category or source set leaves that dimension
	// unrestricted.
	FindByCategoriesAndSources(ctx context.Context, categories []Category, sources []string, limit int) ([]Article, error)

	// Save creates or updates an article
	Save(ctx context.Context, article *Article) error
}
