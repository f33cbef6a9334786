package enrichment

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/newsbrief/backend/internal/domain/news"
	"github.com/newsbrief/backend/internal/domain/shared"
)

// TextGenerator produces summaries and translations for article enrichment
type TextGenerator interface {
	IsConfigured() bool
	Summarize(ctx context.Context, text string, maxChars int) (string, error)
	Translate(ctx context.Context, text, targetLanguage string) (string, error)
}

// WorkerConfig holds configuration for the enrichment worker
type WorkerConfig struct {
	PollInterval   time.Duration
	BatchSize      int
	MaxAttempts    int
	ClaimTimeout   time.Duration
	TargetLanguage string
}

// DefaultWorkerConfig returns default worker configuration
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		PollInterval:   5 * time.Second,
		BatchSize:      10,
		MaxAttempts:    3,
		ClaimTimeout:   5 * time.Minute,
		TargetLanguage: "en",
	}
}

// Worker enriches stored articles in the background: it claims queued
// jobs, generates a summary and a translation for the article, and
// persists the results. Enrichment fields are write-once, so retrying
// a partially processed job is safe.
type Worker struct {
	jobs      news.EnrichmentJobRepository
	articles  news.ArticleRepository
	generator TextGenerator
	config    WorkerConfig
	logger    *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWorker creates a new enrichment worker
func NewWorker(
	jobs news.EnrichmentJobRepository,
	articles news.ArticleRepository,
	generator TextGenerator,
	config WorkerConfig,
	logger *zap.Logger,
) *Worker {
	return &Worker{
		jobs:      jobs,
		articles:  articles,
		generator: generator,
		config:    config,
		logger:    logger.Named("enrichment"),
	}
}

// Start starts the background processing loop
func (w *Worker) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.wg.Add(1)
	go w.processLoop(ctx)

	w.logger.Info("enrichment worker started",
		zap.Int("batch_size", w.config.BatchSize),
		zap.Duration("poll_interval", w.config.PollInterval),
		zap.String("target_language", w.config.TargetLanguage),
	)
	return nil
}

// Stop gracefully stops the worker, waiting for in-flight jobs
func (w *Worker) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.cancel()
	}

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.logger.Info("enrichment worker stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Worker) processLoop(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.ProcessBatch(ctx)
		}
	}
}

// ProcessBatch claims and processes one batch of queued jobs
func (w *Worker) ProcessBatch(ctx context.Context) {
	claimed, err := w.jobs.ClaimBatch(ctx, w.config.BatchSize, w.config.ClaimTimeout)
	if err != nil {
		w.logger.Error("failed to claim enrichment jobs", zap.Error(err))
		return
	}

	for i := range claimed {
		w.processJob(ctx, &claimed[i])
	}
}

// processJob enriches one article. Failures never propagate: the job
// records the error and is retried until MaxAttempts is reached.
func (w *Worker) processJob(ctx context.Context, job *news.EnrichmentJob) {
	article, err := w.articles.FindByID(ctx, job.ArticleID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			// The article is gone; retrying cannot help
			job.RecordFailure("article no longer exists", 0)
		} else {
			job.RecordFailure(err.Error(), w.config.MaxAttempts)
		}
		w.updateJob(ctx, job)
		return
	}

	if article.IsEnriched() {
		job.MarkCompleted()
		w.updateJob(ctx, job)
		return
	}

	changed := w.enrich(ctx, article)

	if changed {
		if err := w.articles.Save(ctx, article); err != nil {
			w.logger.Error("failed to save enriched article",
				zap.String("article_id", article.ID.String()),
				zap.Error(err))
			job.RecordFailure(err.Error(), w.config.MaxAttempts)
			w.updateJob(ctx, job)
			return
		}
	}

	job.MarkCompleted()
	w.updateJob(ctx, job)

	w.logger.Debug("article enriched",
		zap.String("article_id", article.ID.String()),
		zap.String("title", article.Title))
}

// enrich fills the article's summary and translation fields, falling
// back to the original text when generation is unavailable or fails.
// Returns true if any field was written.
func (w *Worker) enrich(ctx context.Context, article *news.Article) bool {
	changed := false

	if !article.HasSummary() {
		summary := w.generate(ctx, article.Description, "")
		if article.ApplySummary(summary) {
			changed = true
		}
	}

	if !article.HasTranslatedTitle() || !article.HasTranslatedDescription() {
		title := w.generate(ctx, article.Title, w.config.TargetLanguage)
		description := w.generate(ctx, article.Description, w.config.TargetLanguage)
		if article.ApplyTranslation(title, description) {
			changed = true
		}
	}

	return changed
}

// generate runs one generation call. An empty targetLanguage means
// summarize; otherwise translate. The original text is returned when
// the generator is not configured or the call fails.
func (w *Worker) generate(ctx context.Context, text, targetLanguage string) string {
	if !w.generator.IsConfigured() {
		return text
	}

	var (
		result string
		err    error
	)
	if targetLanguage == "" {
		result, err = w.generator.Summarize(ctx, text, 0)
	} else {
		result, err = w.generator.Translate(ctx, text, targetLanguage)
	}
	if err != nil || result == "" {
		w.logger.Warn("text generation failed, keeping original text",
			zap.String("target_language", targetLanguage),
			zap.Error(err))
		return text
	}
	return result
}

func (w *Worker) updateJob(ctx context.Context, job *news.EnrichmentJob) {
	if err := w.jobs.Update(ctx, job); err != nil {
		w.logger.Error("failed to update enrichment job",
			zap.String("job_id", job.ID.String()),
			zap.Error(err))
	}
	if job.Status == news.EnrichmentJobFailed {
		w.logger.Warn("enrichment job failed permanently",
			zap.String("job_id", job.ID.String()),
			zap.String("article_id", job.ArticleID.String()),
			zap.Int("attempts", job.Attempts),
			zap.String("last_error", job.LastError))
	}
}
