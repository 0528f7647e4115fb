package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"log/slog"

	"github.com/amara-nwosu/lexvault/constants"
	"github.com/amara-nwosu/lexvault/internal/ai"
	"github.com/amara-nwosu/lexvault/internal/analysis"
	"github.com/amara-nwosu/lexvault/internal/classifier"
	"github.com/amara-nwosu/lexvault/internal/common"
	"github.com/amara-nwosu/lexvault/internal/entity"
	"github.com/amara-nwosu/lexvault/internal/repository"
)

// summaryMinChars: content at or under this length gets the short-content
// placeholder, no backend round trip.
const summaryMinChars = 100

const (
	summaryPlaceholder = "Summary unavailable due to processing error"
	summaryTooShort    = "Content too short for meaningful summarization"
)

// Orchestrator runs one enrichment job: classify, summarize, embed, extract
// clauses, then finalize the document in a single write. Each stage is
// guarded so a backend failure degrades that stage's artifact and the job
// still completes; only orchestration-level failures (document gone, persist
// failure, a panic escaping the guards) reach the retry path.
type Orchestrator struct {
	docs     repository.DocumentRepository
	jobs     repository.JobRepository
	registry *ai.Registry
	engine   *classifier.Engine
	logger   *slog.Logger

	retryDelay time.Duration
}

func NewOrchestrator(
	docs repository.DocumentRepository,
	jobs repository.JobRepository,
	registry *ai.Registry,
	engine *classifier.Engine,
	retryDelay time.Duration,
	logger *slog.Logger,
) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	if retryDelay <= 0 {
		retryDelay = 60 * time.Second
	}
	return &Orchestrator{
		docs:       docs,
		jobs:       jobs,
		registry:   registry,
		engine:     engine,
		logger:     logger,
		retryDelay: retryDelay,
	}
}

// Run executes one claimed job. The error return is informational for the
// worker's logs; retry and terminal-failure handling already happened by the
// time Run returns.
func (o *Orchestrator) Run(ctx context.Context, job *entity.ProcessingJob) (err error) {
	ctx = common.WithJobID(ctx, job.ID.String())

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: pipeline panic: %v", common.ErrInternal, r)
			o.logger.Error("pipeline.panic", "job_id", job.ID, "document_id", job.DocumentID, "panic", r)
			o.handleFailure(ctx, job, err, true)
		}
	}()

	log := o.logger.With("job_id", job.ID, "document_id", job.DocumentID, "attempt", job.AttemptCount)

	// Always the latest row, never a cached copy: a redelivered job must see
	// what the previous attempt already did.
	doc, err := o.docs.GetByID(ctx, job.DocumentID)
	if err != nil {
		o.handleFailure(ctx, job, err, false)
		return err
	}
	if doc.ProcessingStatus == constants.StatusCompleted {
		log.Info("pipeline.skip", "reason", "document already completed")
		_ = o.jobs.MarkDone(ctx, job.ID)
		return nil
	}

	ok, err := o.docs.MarkProcessing(ctx, job.DocumentID, job.ID)
	if err != nil {
		o.handleFailure(ctx, job, err, false)
		return err
	}
	if !ok {
		// Completed between the read and the write; treat like the skip above.
		log.Info("pipeline.skip", "reason", "document completed concurrently")
		_ = o.jobs.MarkDone(ctx, job.ID)
		return nil
	}

	o.progress(ctx, job, constants.StageClassifying, 5, "processing started")

	// Stage: classifying.
	o.progress(ctx, job, constants.StageClassifying, 15, "classifying document")
	classification := o.runClassification(ctx, log, doc)
	o.progress(ctx, job, constants.StageClassifying, 25, "classification complete")

	// Stage: summarizing.
	o.setStage(ctx, job, constants.StageSummarizing)
	summary := o.runSummarization(ctx, log, doc)
	o.progress(ctx, job, constants.StageSummarizing, 50, "summary generated")

	// Stage: embedding.
	o.setStage(ctx, job, constants.StageEmbedding)
	embedding := o.runEmbedding(ctx, log, doc)
	o.progress(ctx, job, constants.StageEmbedding, 75, "embedding generated")

	// Stage: extracting_clauses.
	o.setStage(ctx, job, constants.StageExtractingClauses)
	clauses := o.runClauseExtraction(log, doc)

	// Stage: finalizing. Re-read so tags merged here include anything written
	// to the row while the stages ran.
	o.setStage(ctx, job, constants.StageFinalizing)
	o.progress(ctx, job, constants.StageFinalizing, 90, "finalizing results")

	latest, err := o.docs.GetByID(ctx, job.DocumentID)
	if err != nil {
		o.handleFailure(ctx, job, err, false)
		return err
	}

	bundle := &entity.ArtifactBundle{
		Summary:        summary,
		Tags:           mergeTags(latest.Tags, classificationTags(classification)...),
		Classification: marshalClassification(log, classification),
		Embedding:      embedding,
		ClauseOverview: marshalClauses(log, clauses),
	}

	if err := o.docs.FinalizeArtifacts(ctx, job.DocumentID, bundle); err != nil {
		// One best-effort failure mark before surfacing; a retry may still
		// succeed on a later attempt.
		o.handleFailure(ctx, job, err, true)
		return err
	}

	o.progress(ctx, job, constants.StageDone, 100, "processing complete")
	if err := o.jobs.MarkDone(ctx, job.ID); err != nil {
		log.Warn("pipeline.job_done_write_failed", "err", err)
	}
	log.Info("pipeline.completed", "tags", len(bundle.Tags), "clauses", len(clauses))
	return nil
}

func (o *Orchestrator) runClassification(ctx context.Context, log *slog.Logger, doc *entity.Document) (result entity.ClassificationResult) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn("pipeline.stage_degraded", "stage", "classifying", "panic", r)
			result = entity.ClassificationResult{
				DocumentType: constants.DocTypeGeneral,
				LegalDomain:  "general",
				Urgency:      constants.UrgencyMedium,
				Method:       constants.MethodFallback,
			}
		}
	}()
	return o.engine.Classify(ctx, doc.RawText, doc.Filename)
}

func (o *Orchestrator) runSummarization(ctx context.Context, log *slog.Logger, doc *entity.Document) (summary string) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn("pipeline.stage_degraded", "stage", "summarizing", "panic", r)
			summary = summaryPlaceholder
		}
	}()

	if len(doc.RawText) <= summaryMinChars {
		return summaryTooShort
	}
	backend := o.registry.Summarizer()
	if backend == nil || !backend.Available() {
		log.Warn("pipeline.stage_degraded", "stage", "summarizing", "reason", "backend unavailable")
		return summaryPlaceholder
	}
	s, err := backend.Summarize(ctx, doc.RawText)
	if err != nil || s == "" {
		log.Warn("pipeline.stage_degraded", "stage", "summarizing", "err", err)
		return summaryPlaceholder
	}
	return s
}

func (o *Orchestrator) runEmbedding(ctx context.Context, log *slog.Logger, doc *entity.Document) (embedding []float32) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn("pipeline.stage_degraded", "stage", "embedding", "panic", r)
			embedding = nil
		}
	}()

	if doc.RawText == "" {
		return nil
	}
	backend := o.registry.Embedder()
	if backend == nil || !backend.Available() {
		log.Warn("pipeline.stage_degraded", "stage", "embedding", "reason", "backend unavailable")
		return nil
	}
	vec, err := backend.Embed(ctx, doc.RawText)
	if err != nil {
		log.Warn("pipeline.stage_degraded", "stage", "embedding", "err", err)
		return nil
	}
	return vec
}

func (o *Orchestrator) runClauseExtraction(log *slog.Logger, doc *entity.Document) (clauses []entity.Clause) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn("pipeline.stage_degraded", "stage", "extracting_clauses", "panic", r)
			clauses = nil
		}
	}()
	return analysis.ExtractClauses(doc.RawText)
}

// handleFailure routes a job-level error: retry as a fresh job while the
// budget and the error allow, otherwise terminal failure. markDocument
// controls the best-effort document write; it is skipped when the document
// itself is the thing we could not find.
func (o *Orchestrator) handleFailure(ctx context.Context, job *entity.ProcessingJob, cause error, markDocument bool) {
	// Bookkeeping must land even when the job context is already dead; a
	// lapsed hard timeout is exactly when these writes matter most.
	ctx = context.WithoutCancel(ctx)
	log := o.logger.With("job_id", job.ID, "document_id", job.DocumentID, "attempt", job.AttemptCount)

	if markDocument {
		if err := o.docs.MarkFailed(ctx, job.DocumentID, cause.Error()); err != nil {
			log.Warn("pipeline.mark_document_failed_write_failed", "err", err)
		}
	}

	if common.Retryable(cause) && job.AttemptCount < job.MaxAttempts {
		delay := o.retryDelay * time.Duration(job.AttemptCount)
		next, err := o.jobs.Retry(ctx, job, delay, cause.Error())
		if err != nil {
			log.Error("pipeline.retry_failed", "err", err)
			return
		}
		log.Warn("pipeline.retry_scheduled", "next_job_id", next.ID, "delay", delay)
		return
	}

	if err := o.jobs.MarkFailed(ctx, job.ID, cause.Error()); err != nil {
		log.Error("pipeline.mark_job_failed_write_failed", "err", err)
	}
	log.Error("pipeline.failed", "err", cause, "retryable", common.Retryable(cause))
}

func (o *Orchestrator) setStage(ctx context.Context, job *entity.ProcessingJob, stage constants.JobStage) {
	if err := o.jobs.UpdateStage(ctx, job.ID, stage); err != nil {
		o.logger.Warn("pipeline.stage_write_failed", "job_id", job.ID, "stage", stage, "err", err)
	}
}

// progress emission is best-effort; a failed write never fails the job.
func (o *Orchestrator) progress(ctx context.Context, job *entity.ProcessingJob, stage constants.JobStage, percent int, message string) {
	p := entity.Progress{Stage: stage, Percent: percent, Message: message}
	if err := o.jobs.RecordProgress(ctx, job.ID, p); err != nil {
		o.logger.Warn("pipeline.progress_write_failed", "job_id", job.ID, "percent", percent, "err", err)
	}
}

func classificationTags(c entity.ClassificationResult) []string {
	tags := []string{string(c.DocumentType)}
	if c.LegalDomain != "" && c.LegalDomain != "general" {
		tags = append(tags, c.LegalDomain)
	}
	if c.Urgency == constants.UrgencyMedium || c.Urgency == constants.UrgencyHigh {
		tags = append(tags, "urgency_"+string(c.Urgency))
	}
	return tags
}

func mergeTags(existing []string, extra ...string) []string {
	seen := make(map[string]struct{}, len(existing)+len(extra))
	var out []string
	for _, t := range append(append([]string{}, existing...), extra...) {
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func marshalClassification(log *slog.Logger, c entity.ClassificationResult) json.RawMessage {
	b, err := json.Marshal(c)
	if err != nil {
		log.Warn("pipeline.classification_marshal_failed", "err", err)
		return json.RawMessage(`{}`)
	}
	return b
}

func marshalClauses(log *slog.Logger, clauses []entity.Clause) json.RawMessage {
	if clauses == nil {
		clauses = []entity.Clause{}
	}
	b, err := json.Marshal(clauses)
	if err != nil {
		log.Warn("pipeline.clauses_marshal_failed", "err", err)
		return json.RawMessage(`[]`)
	}
	return b
}
