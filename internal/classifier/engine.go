// Package classifier implements the two-tier classification engine:
// AI-primary with rule-based fallback. The rule tier is also the sole
// source of legal-domain, urgency, entity, and complexity features, even
// when the model tier wins on document type.
package classifier

import (
	"context"
	"log/slog"
	"strings"

	"github.com/amara-nwosu/lexvault/constants"
	"github.com/amara-nwosu/lexvault/internal/ai"
	"github.com/amara-nwosu/lexvault/internal/entity"
)

// minContentLength mirrors the admission floor: shorter content classifies
// by filename hints only.
const minContentLength = 50

// fallbackConfidence is assigned to filename-hint classifications.
const fallbackConfidence = 0.3

// Engine is safe for concurrent use; it holds no per-document state.
type Engine struct {
	backend    ai.Classifier
	minAIScore float64
	logger     *slog.Logger
}

// NewEngine builds an Engine. backend may be nil; classification then always
// takes the rule path. minAIScore defaults to 0.6, the gate above which the
// model's document type is trusted.
func NewEngine(backend ai.Classifier, minAIScore float64, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if minAIScore <= 0 {
		minAIScore = 0.6
	}
	return &Engine{backend: backend, minAIScore: minAIScore, logger: logger}
}

// Classify runs the two-tier strategy. It never returns an error: every
// model failure degrades to the rule tier, and a rule tier with zero hits
// degrades to the generic fallback.
func (e *Engine) Classify(ctx context.Context, content, filename string) entity.ClassificationResult {
	if len(strings.TrimSpace(content)) < minContentLength {
		return e.fallbackClassification(content, filename)
	}

	rules := classifyByRules(content, filename)
	entities := ExtractEntities(content)
	complexity := AnalyzeComplexity(content)

	if best, source, ok := e.modelPrediction(ctx, content); ok {
		score := best.Score.Scalar()
		if score > e.minAIScore {
			return entity.ClassificationResult{
				DocumentType:           constants.CanonicalizeLabel(best.Label),
				DocumentTypeConfidence: score,
				LegalDomain:            rules.domain,
				LegalDomainConfidence:  rules.domainConfidence,
				Urgency:                rules.urgency,
				UrgencyConfidence:      rules.urgencyConfidence,
				Method:                 constants.MethodModelEnhanced,
				ExtractedEntities:      entities,
				Complexity:             complexity,
				ModelSource:            source,
			}
		}
		e.logger.Debug("classifier.model_below_gate", "score", score, "gate", e.minAIScore)
	}

	method := constants.MethodRuleBased
	if !rules.scored {
		method = constants.MethodFallback
	}
	return entity.ClassificationResult{
		DocumentType:           rules.docType,
		DocumentTypeConfidence: rules.docTypeConfidence,
		LegalDomain:            rules.domain,
		LegalDomainConfidence:  rules.domainConfidence,
		Urgency:                rules.urgency,
		UrgencyConfidence:      rules.urgencyConfidence,
		Method:                 method,
		ExtractedEntities:      entities,
		Complexity:             complexity,
	}
}

// modelPrediction asks the backend and picks the top-score prediction, ties
// broken by the backend's output order. Any failure reports ok=false and the
// caller takes the rule path.
func (e *Engine) modelPrediction(ctx context.Context, content string) (ai.Prediction, string, bool) {
	if e.backend == nil || !e.backend.Available() {
		return ai.Prediction{}, "", false
	}
	preds, err := e.backend.Classify(ctx, content)
	if err != nil {
		e.logger.Warn("classifier.model_error", "error", err)
		return ai.Prediction{}, "", false
	}
	if len(preds) == 0 {
		return ai.Prediction{}, "", false
	}

	best := preds[0]
	for _, p := range preds[1:] {
		if p.Score.Scalar() > best.Score.Scalar() {
			best = p
		}
	}
	if best.Label == "" || best.Score.IsZero() {
		return ai.Prediction{}, "", false
	}
	return best, "model", true
}

// fallbackClassification handles content too short to score: filename hints
// only, fixed low confidence.
func (e *Engine) fallbackClassification(content, filename string) entity.ClassificationResult {
	lower := strings.ToLower(filename)
	docType := constants.DocTypeGeneral
	switch {
	case strings.Contains(lower, "contract"):
		docType = constants.DocTypeContract
	case strings.Contains(lower, "lease"):
		docType = constants.DocTypeLease
	case strings.Contains(lower, "brief"):
		docType = constants.DocTypeLegalBrief
	}
	return entity.ClassificationResult{
		DocumentType:           docType,
		DocumentTypeConfidence: fallbackConfidence,
		LegalDomain:            "general",
		Urgency:                constants.UrgencyLow,
		Method:                 constants.MethodFallback,
		ExtractedEntities:      []entity.ExtractedEntity{},
		Complexity:             AnalyzeComplexity(content),
	}
}
