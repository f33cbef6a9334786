package persistence

import (
	"context"

	"github.com/newsbrief/backend/internal/domain/news"
	"gorm.io/gorm"
)

// GormInteractionRepository implements news.InteractionRepository using GORM
type GormInteractionRepository struct {
	db *gorm.DB
}

// NewGormInteractionRepository creates a new GormInteractionRepository
func NewGormInteractionRepository(db *gorm.DB) *GormInteractionRepository {
	return &GormInteractionRepository{db: db}
}

// Save appends an interaction record
func (r *GormInteractionRepository) Save(ctx context.Context, interaction *news.Interaction) error {
	return r.db.WithContext(ctx).Create(interaction).Error
}

// FindByUserID returns all interactions tagged with the given user identifier
func (r *GormInteractionRepository) FindByUserID(ctx context.Context, userID string) ([]news.Interaction, error) {
	var interactions []news.Interaction
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&interactions).Error; err != nil {
		return nil, err
	}
	return interactions, nil
}
