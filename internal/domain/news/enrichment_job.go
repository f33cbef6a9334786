package news

import (
	"time"

	"github.com/google/uuid"
	"github.com/newsbrief/backend/internal/domain/shared"
)

// EnrichmentJobStatus tracks a job through the background worker
type EnrichmentJobStatus string

const (
	EnrichmentJobPending    EnrichmentJobStatus = "pending"
	EnrichmentJobProcessing EnrichmentJobStatus = "processing"
	EnrichmentJobCompleted  EnrichmentJobStatus = "completed"
	EnrichmentJobFailed     EnrichmentJobStatus = "failed"
)

// EnrichmentJob queues an article for background summarization and
// translation. Jobs are claimed with a conditional update so that the
// same article is never enriched by two workers at once, and unclaimed
// or stalled jobs are retried until MaxAttempts is reached.
type EnrichmentJob struct {
	shared.BaseEntity
	ArticleID uuid.UUID           `gorm:"type:uuid;not null;index"`
	Status    EnrichmentJobStatus `gorm:"type:varchar(20);not null;index;default:'pending'"`
	Attempts  int                 `gorm:"not null;default:0"`
	LastError string              `gorm:"type:text"`
	ClaimedAt *time.Time
}

// TableName returns the table name for GORM
func (EnrichmentJob) TableName() string {
	return "enrichment_jobs"
}

// NewEnrichmentJob creates a pending job for an article
func NewEnrichmentJob(articleID uuid.UUID) *EnrichmentJob {
	return &EnrichmentJob{
		BaseEntity: shared.NewBaseEntity(),
		ArticleID:  articleID,
		Status:     EnrichmentJobPending,
	}
}

// MarkCompleted transitions the job to its terminal success state
func (j *EnrichmentJob) MarkCompleted() {
	j.Status = EnrichmentJobCompleted
	j.Touch()
}

// RecordFailure notes a failed attempt; the job goes back to pending until
// maxAttempts is exhausted, then is marked failed permanently.
func (j *EnrichmentJob) RecordFailure(reason string, maxAttempts int) {
	j.LastError = reason
	j.Attempts++
	if j.Attempts >= maxAttempts {
		j.Status = EnrichmentJobFailed
	} else {
		j.Status = EnrichmentJobPending
	}
	j.Touch()
}
