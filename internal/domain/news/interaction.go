package news

import (
	"github.com/google/uuid"
	"github.com/newsbrief/backend/internal/domain/shared"
)

// InteractionType tags a logged user event against an article
type InteractionType string

const (
	InteractionView  InteractionType = "view"
	InteractionClick InteractionType = "click"
)

// Interaction weights: a click counts twice a view
const (
	ViewWeight  = 1.0
	ClickWeight = 2.0
)

// ParseInteractionType validates an interaction type string
func ParseInteractionType(s string) (InteractionType, error) {
	switch InteractionType(s) {
	case InteractionView:
		return InteractionView, nil
	case InteractionClick:
		return InteractionClick, nil
	default:
		return "", shared.NewDomainError("INVALID_INPUT", "Interaction type must be 'view' or 'click'")
	}
}

// WeightFor derives the interaction weight from its type
func WeightFor(t InteractionType) float64 {
	if t == InteractionClick {
		return ClickWeight
	}
	return ViewWeight
}

// Interaction is an append-only record of a view or click event.
// UserID is an opaque identifier, not a foreign key: anonymous
// users have none. Rows are never mutated or deleted.
type Interaction struct {
	shared.BaseEntity
	ArticleID uuid.UUID       `gorm:"type:uuid;not null;index" json:"article_id"`
	Type      InteractionType `gorm:"type:varchar(10);not null" json:"interaction_type"`
	Weight    float64         `gorm:"not null" json:"interaction_weight"`
	UserID    *string         `gorm:"type:varchar(200);index" json:"user_id"`
}

// TableName returns the table name for GORM
func (Interaction) TableName() string {
	return "user_interactions"
}

// NewInteraction creates an interaction with the weight derived from its type
func NewInteraction(articleID uuid.UUID, t InteractionType) (*Interaction, error) {
	parsed, err := ParseInteractionType(string(t))
	if err != nil {
		return nil, err
	}

	return &Interaction{
		BaseEntity: shared.NewBaseEntity(),
		ArticleID:  articleID,
		Type:       parsed,
		Weight:     WeightFor(parsed),
	}, nil
}

// SetUserID tags the interaction with an opaque user identifier
func (i *Interaction) SetUserID(userID string) {
	if userID == "" {
		i.UserID = nil
		return
	}
	i.UserID = &userID
}
