package ai

import (
	"log/slog"
)

// Registry holds the worker-process-scoped backend handles. Handles are
// built once per process at worker startup, never per job; the selection of
// available backends happens here rather than through control-flow errors
// deeper in the pipeline. The registry carries no per-job state, so jobs
// running concurrently on one worker share nothing but these handles.
type Registry struct {
	classifier Classifier
	summarizer Summarizer
	embedder   Embedder
	scorer     LegalScorer
	logger     *slog.Logger
}

func NewRegistry(cl Classifier, su Summarizer, em Embedder, sc LegalScorer, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{
		classifier: cl,
		summarizer: su,
		embedder:   em,
		scorer:     sc,
		logger:     logger,
	}
	logger.Info("ai.registry.initialized",
		"classifier_available", cl != nil && cl.Available(),
		"summarizer_available", su != nil && su.Available(),
		"embedder_available", em != nil && em.Available(),
		"legal_scorer_available", sc != nil && sc.Available(),
	)
	return r
}

func (r *Registry) Classifier() Classifier { return r.classifier }
func (r *Registry) Summarizer() Summarizer { return r.summarizer }
func (r *Registry) Embedder() Embedder     { return r.embedder }
func (r *Registry) LegalScorer() LegalScorer {
	return r.scorer
}
