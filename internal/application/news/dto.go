package news

import (
	"time"

	"github.com/newsbrief/backend/internal/domain/news"
)

// timestampLayout is the wire format for article timestamps
const timestampLayout = "2006-01-02T15:04:05Z"

// ArticleDTO is the article representation returned to clients
type ArticleDTO struct {
	ID                    string  `json:"id"`
	Title                 string  `json:"title"`
	Description           string  `json:"description"`
	URL                   string  `json:"url"`
	ImageURL              *string `json:"image_url"`
	PublishedAt           string  `json:"published_at"`
	Source                string  `json:"source"`
	Category              string  `json:"category"`
	Summary               *string `json:"summary"`
	TranslatedTitle       *string `json:"translated_title"`
	TranslatedDescription *string `json:"translated_description"`
}

// ToArticleDTO maps a domain article to its client representation
func ToArticleDTO(a *news.Article) ArticleDTO {
	return ArticleDTO{
		ID:                    a.ID.String(),
		Title:                 a.Title,
		Description:           a.Description,
		URL:                   a.URL,
		ImageURL:              a.ImageURL,
		PublishedAt:           a.PublishedAt.UTC().Format(timestampLayout),
		Source:                a.Source,
		Category:              string(a.Category),
		Summary:               a.Summary,
		TranslatedTitle:       a.TranslatedTitle,
		TranslatedDescription: a.TranslatedDescription,
	}
}

// ToArticleDTOs maps a slice of domain articles
func ToArticleDTOs(articles []news.Article) []ArticleDTO {
	dtos := make([]ArticleDTO, len(articles))
	for i := range articles {
		dtos[i] = ToArticleDTO(&articles[i])
	}
	return dtos
}

// RecordInteractionInput is the payload for logging an interaction
type RecordInteractionInput struct {
	ArticleID string `json:"article_id" binding:"required"`
	Type      string `json:"interaction_type" binding:"required"`
	UserID    string `json:"user_id"`
}

// InteractionDTO is the stored interaction returned after logging
type InteractionDTO struct {
	ID        string  `json:"id"`
	ArticleID string  `json:"article_id"`
	Type      string  `json:"interaction_type"`
	Weight    float64 `json:"weight"`
	UserID    *string `json:"user_id"`
	CreatedAt string  `json:"created_at"`
}

// ToInteractionDTO maps a domain interaction to its client representation
func ToInteractionDTO(i *news.Interaction) InteractionDTO {
	return InteractionDTO{
		ID:        i.ID.String(),
		ArticleID: i.ArticleID.String(),
		Type:      string(i.Type),
		Weight:    i.Weight,
		UserID:    i.UserID,
		CreatedAt: i.CreatedAt.UTC().Format(time.RFC3339),
	}
}
