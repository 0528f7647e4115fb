// Package validator implements the synchronous admission gate: a hybrid
// heuristic + ML decision on whether uploaded text is a genuine legal
// contract. It runs in the request path, so it degrades instead of failing:
// a missing or broken ML backend substitutes a neutral prior and the
// heuristics carry the decision.
package validator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/amara-nwosu/lexvault/constants"
	"github.com/amara-nwosu/lexvault/internal/entity"
)

// MinTextLength is the hard floor below which text is rejected without
// touching the ML backend.
const MinTextLength = 50

// heuristicNormalizer divides the raw signal count into [0,1].
const heuristicNormalizer = 10.0

// neutralPrior substitutes for the ML probability when the backend is
// unavailable or errors out.
const neutralPrior = 0.5

// LegalScorer is the binary "is this legal text" model boundary.
type LegalScorer interface {
	// Score returns P(legal) in [0,1].
	Score(ctx context.Context, text string) (float64, error)
	Available() bool
}

// Config carries the admission thresholds. Defaults preserve the production
// constants; they are empirical, not derived.
type Config struct {
	AcceptThreshold float64 // default 0.40
	BorderlineFloor float64 // default 0.25
	HeuristicWeight float64 // default 0.4
	MLWeight        float64 // default 0.6
}

type Validator struct {
	cfg    Config
	scorer LegalScorer
	logger *slog.Logger
}

// New builds a Validator. scorer may be nil; validation then runs on
// heuristics blended with the neutral prior.
func New(cfg Config, scorer LegalScorer, logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.AcceptThreshold <= 0 {
		cfg.AcceptThreshold = 0.40
	}
	if cfg.BorderlineFloor <= 0 {
		cfg.BorderlineFloor = 0.25
	}
	if cfg.HeuristicWeight <= 0 && cfg.MLWeight <= 0 {
		cfg.HeuristicWeight = 0.4
		cfg.MLWeight = 0.6
	}
	return &Validator{cfg: cfg, scorer: scorer, logger: logger}
}

// Validate decides admission for text. It never returns an error and never
// panics outward: every internal failure degrades into the blended score.
func (v *Validator) Validate(ctx context.Context, text string) entity.ValidationResult {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < MinTextLength {
		return entity.ValidationResult{
			IsValid:      false,
			ContractType: constants.ContractUnknown,
			Confidence:   0,
			Message: fmt.Sprintf("document content insufficient (only %d characters, minimum %d required)",
				len(trimmed), MinTextLength),
			MissingElements: allElementNames(),
		}
	}

	keywordHits := countKeywordHits(text)
	signals := detectStructuredSignals(text)
	found, missing := checkContractElements(text)
	contractType := detectContractType(text)

	score := keywordHits
	for _, present := range signals {
		if present {
			score++
		}
	}
	score += len(found)

	heuristicConf := float64(score) / heuristicNormalizer
	if heuristicConf > 1.0 {
		heuristicConf = 1.0
	}

	mlProb := v.mlProbability(ctx, text)
	finalConf := v.cfg.HeuristicWeight*heuristicConf + v.cfg.MLWeight*mlProb

	isValid := finalConf > v.cfg.AcceptThreshold
	borderline := !isValid && finalConf >= v.cfg.BorderlineFloor

	var message string
	switch {
	case isValid:
		message = fmt.Sprintf("valid %s contract detected with %.1f%% confidence", contractType, finalConf*100)
	case borderline:
		message = fmt.Sprintf("borderline legal contract: confidence %.1f%% is below the acceptance threshold; manual review suggested. Missing: %s",
			finalConf*100, joinFirst(missing, 3))
	default:
		message = fmt.Sprintf("invalid legal contract: confidence too low (%.1f%%). Missing: %s",
			finalConf*100, joinFirst(missing, 3))
	}

	v.logger.Debug("validator.decision",
		"valid", isValid,
		"borderline", borderline,
		"contract_type", contractType,
		"heuristic_score", score,
		"heuristic_conf", heuristicConf,
		"ml_prob", mlProb,
		"final_conf", finalConf,
	)

	return entity.ValidationResult{
		IsValid:         isValid,
		ContractType:    contractType,
		Confidence:      round3(finalConf),
		Message:         message,
		FoundElements:   found,
		MissingElements: missing,
		Borderline:      borderline,
	}
}

// mlProbability asks the backend for P(legal), degrading to the neutral
// prior on any failure.
func (v *Validator) mlProbability(ctx context.Context, text string) float64 {
	if v.scorer == nil || !v.scorer.Available() {
		return neutralPrior
	}
	p, err := v.scorer.Score(ctx, text)
	if err != nil {
		v.logger.Warn("validator.ml_unavailable", "error", err)
		return neutralPrior
	}
	if p < 0 || p > 1 {
		v.logger.Warn("validator.ml_out_of_range", "prob", p)
		return neutralPrior
	}
	return p
}

func joinFirst(items []string, n int) string {
	if len(items) > n {
		items = items[:n]
	}
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

func round3(f float64) float64 {
	return float64(int(f*1000+0.5)) / 1000
}
