package news

import (
	"context"
	"time"
)

// EnrichmentJobRepository defines the interface for the enrichment queue
type EnrichmentJobRepository interface {
	// Enqueue stores a new pending job
	Enqueue(ctx context.Context, job *EnrichmentJob) error

	// ClaimBatch atomically claims up to limit pending jobs for processing.
	// A job already claimed less than staleAfter ago is skipped, so two
	// concurrent workers never receive the same job; jobs whose claim is
	// older than staleAfter are reclaimed for retry.
	ClaimBatch(ctx context.Context, limit int, staleAfter time.Duration) ([]EnrichmentJob, error)

	// Update persists job status transitions
	Update(ctx context.Context, job *EnrichmentJob) error
}
