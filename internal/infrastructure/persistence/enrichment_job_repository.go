package persistence

import (
	"context"
	"time"

	"github.com/newsbrief/backend/internal/domain/news"
	"gorm.io/gorm"
)

// GormEnrichmentJobRepository implements news.EnrichmentJobRepository using GORM
type GormEnrichmentJobRepository struct {
	db *gorm.DB
}

// NewGormEnrichmentJobRepository creates a new GormEnrichmentJobRepository
func NewGormEnrichmentJobRepository(db *gorm.DB) *GormEnrichmentJobRepository {
	return &GormEnrichmentJobRepository{db: db}
}

// Enqueue stores a new pending job
func (r *GormEnrichmentJobRepository) Enqueue(ctx context.Context, job *news.EnrichmentJob) error {
	return r.db.WithContext(ctx).Create(job).Error
}

// ClaimBatch claims up to limit jobs for processing. Candidates are pending
// jobs plus processing jobs whose claim is older than staleAfter (a worker
// died mid-flight). Each candidate is claimed with a conditional update so
// concurrent workers never receive the same job.
func (r *GormEnrichmentJobRepository) ClaimBatch(ctx context.Context, limit int, staleAfter time.Duration) ([]news.EnrichmentJob, error) {
	now := time.Now().UTC()
	cutoff := now.Add(-staleAfter)

	var candidates []news.EnrichmentJob
	if err := r.db.WithContext(ctx).
		Where("status = ?", news.EnrichmentJobPending).
		Or("status = ? AND claimed_at < ?", news.EnrichmentJobProcessing, cutoff).
		Order("created_at ASC").
		Limit(limit).
		Find(&candidates).Error; err != nil {
		return nil, err
	}

	claimed := make([]news.EnrichmentJob, 0, len(candidates))
	for i := range candidates {
		job := candidates[i]

		// Guard on the observed status so only one worker wins the claim
		result := r.db.WithContext(ctx).
			Model(&news.EnrichmentJob{}).
			Where("id = ? AND status = ?", job.ID, job.Status).
			Updates(map[string]any{
				"status":     news.EnrichmentJobProcessing,
				"claimed_at": now,
				"updated_at": now,
			})
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			continue // lost the race to another worker
		}

		job.Status = news.EnrichmentJobProcessing
		job.ClaimedAt = &now
		claimed = append(claimed, job)
	}
	return claimed, nil
}

// Update persists job status transitions
func (r *GormEnrichmentJobRepository) Update(ctx context.Context, job *news.EnrichmentJob) error {
	return r.db.WithContext(ctx).Save(job).Error
}
