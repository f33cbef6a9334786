package news

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/newsbrief/backend/internal/domain/shared"
)

// DefaultDescription is stored when the provider supplies no description
const DefaultDescription = "No description available"

// Category is one of the provider's fixed headline categories
type Category string

const (
	CategoryBusiness      Category = "business"
	CategoryEntertainment Category = "entertainment"
	CategoryGeneral       Category = "general"
	CategoryHealth        Category = "health"
	CategoryScience       Category = "science"
	CategorySports        Category = "sports"
	CategoryTechnology    Category = "technology"
)

// Categories lists every valid headline category
var Categories = []Category{
	CategoryBusiness,
	CategoryEntertainment,
	CategoryGeneral,
	CategoryHealth,
	CategoryScience,
	CategorySports,
	CategoryTechnology,
}

// ParseCategory normalizes and validates a category string
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, valid := range Categories {
		if c == valid {
			return c, nil
		}
	}
	return "", shared.NewDomainError("INVALID_INPUT", "Invalid category: must be one of business, entertainment, general, health, science, sports, technology")
}

// Article represents a stored news article keyed by its canonical URL.
// Rows are created on first ingestion and never deleted; the enrichment
// worker fills summary and translation fields exactly once.
type Article struct {
	shared.BaseEntity
	Title                 string     `gorm:"type:varchar(500);not null;index" json:"title"`
	Description           string     `gorm:"type:text;not null" json:"description"`
	URL                   string     `gorm:"type:varchar(2048);not null;uniqueIndex" json:"url"`
	ImageURL              *string    `gorm:"type:varchar(2048)" json:"image_url"`
	PublishedAt           time.Time  `gorm:"not null;index" json:"published_at"`
	Source                string     `gorm:"type:varchar(200);not null;index" json:"source"`
	Category              Category   `gorm:"type:varchar(20);not null;index" json:"category"`
	Summary               *string    `gorm:"type:text" json:"summary"`
	TranslatedTitle       *string    `gorm:"type:text" json:"translated_title"`
	TranslatedDescription *string    `gorm:"type:text" json:"translated_description"`
	UserID                *uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
}

// TableName returns the table name for GORM
func (Article) TableName() string {
	return "articles"
}

// NewArticle creates a new article from a provider candidate.
// Title and URL are required; description defaults when empty.
func NewArticle(title, description, url string, category Category) (*Article, error) {
	if title == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Article title cannot be empty")
	}
	if url == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Article URL cannot be empty")
	}
	if description == "" {
		description = DefaultDescription
	}

	return &Article{
		BaseEntity:  shared.NewBaseEntity(),
		Title:       title,
		Description: description,
		URL:         url,
		PublishedAt: time.Now(),
		Source:      "Unknown",
		Category:    category,
	}, nil
}

// SetImageURL sets the optional image URL
func (a *Article) SetImageURL(url string) {
	if url == "" {
		a.ImageURL = nil
		return
	}
	a.ImageURL = &url
}

// SetSource sets the provider source name, keeping "Unknown" for empty input
func (a *Article) SetSource(source string) {
	if source == "" {
		source = "Unknown"
	}
	a.Source = source
}

// ApplySummary fills the summary if it has not been set yet.
// Enrichment is write-once: an existing summary is never overwritten.
func (a *Article) ApplySummary(summary string) bool {
	if a.HasSummary() || summary == "" {
		return false
	}
	a.Summary = &summary
	a.Touch()
	return true
}

// ApplyTranslation fills the translated title/description if missing.
// Returns true if either field changed.
func (a *Article) ApplyTranslation(title, description string) bool {
	changed := false
	if !a.HasTranslatedTitle() && title != "" {
		a.TranslatedTitle = &title
		changed = true
	}
	if !a.HasTranslatedDescription() && description != "" {
		a.TranslatedDescription = &description
		changed = true
	}
	if changed {
		a.Touch()
	}
	return changed
}

// HasSummary returns true if the article already carries a summary
func (a *Article) HasSummary() bool {
	return a.Summary != nil && *a.Summary != ""
}

// HasTranslatedTitle returns true if the translated title is filled
func (a *Article) HasTranslatedTitle() bool {
	return a.TranslatedTitle != nil && *a.TranslatedTitle != ""
}

// HasTranslatedDescription returns true if the translated description is filled
func (a *Article) HasTranslatedDescription() bool {
	return a.TranslatedDescription != nil && *a.TranslatedDescription != ""
}

// IsEnriched returns true once summary and both translations are present
func (a *Article) IsEnriched() bool {
	return a.HasSummary() && a.HasTranslatedTitle() && a.HasTranslatedDescription()
}
