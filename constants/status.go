package constants

// ProcessingStatus is the canonical lifecycle status for rows in documents.
type ProcessingStatus string

// Stable values (store these exact strings in DB).
const (
	StatusPending    ProcessingStatus = "pending"    // accepted, waiting for a worker
	StatusProcessing ProcessingStatus = "processing" // a job owns the document
	StatusCompleted  ProcessingStatus = "completed"  // all artifacts written (possibly degraded)
	StatusFailed     ProcessingStatus = "failed"     // terminal error or retry budget exhausted
)

// rank orders statuses for monotonicity checks. A document may only move to
// an equal or higher rank; completed and failed are both terminal.
var statusRank = map[ProcessingStatus]int{
	StatusPending:    0,
	StatusProcessing: 1,
	StatusCompleted:  2,
	StatusFailed:     2,
}

// CanTransition reports whether moving from -> to is a legal lifecycle step.
// Terminal states only allow self-transitions (redelivered jobs re-observe them).
func CanTransition(from, to ProcessingStatus) bool {
	fr, ok := statusRank[from]
	if !ok {
		return false
	}
	tr, ok := statusRank[to]
	if !ok {
		return false
	}
	if from == to {
		return true
	}
	if from == StatusCompleted || from == StatusFailed {
		return false
	}
	return tr > fr
}

// JobStage is the canonical stage for rows in processing_jobs.
type JobStage string

const (
	StageQueued            JobStage = "queued"
	StageClassifying       JobStage = "classifying"
	StageSummarizing       JobStage = "summarizing"
	StageEmbedding         JobStage = "embedding"
	StageExtractingClauses JobStage = "extracting_clauses"
	StageFinalizing        JobStage = "finalizing"
	StageDone              JobStage = "done"
	StageFailed            JobStage = "failed"
)

// Terminal reports whether a job stage is final.
func (s JobStage) Terminal() bool {
	return s == StageDone || s == StageFailed
}
