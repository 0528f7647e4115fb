package ai

import (
	"context"
	"encoding/json"
	"fmt"
)

// Prediction is one labeled score from the classifier backend.
type Prediction struct {
	Label string     `json:"label"`
	Score Confidence `json:"score"`
}

// Classifier is the document-type model boundary.
type Classifier interface {
	// Classify returns the backend's predictions, best first. Ties keep the
	// backend's output order.
	Classify(ctx context.Context, content string) ([]Prediction, error)
	Available() bool
}

// Summarizer produces a short abstract of content.
type Summarizer interface {
	Summarize(ctx context.Context, content string) (string, error)
	Available() bool
}

// Embedder produces a fixed-length vector for content.
type Embedder interface {
	Embed(ctx context.Context, content string) ([]float32, error)
	Available() bool
}

// LegalScorer is the binary "is-legal-text" model used by admission control.
type LegalScorer interface {
	Score(ctx context.Context, text string) (float64, error)
	Available() bool
}

// Confidence is a model confidence that may arrive scalar or vector-shaped
// on the wire. Comparing a vector directly is a defect, so every consumer
// goes through Scalar(), which reduces via max.
type Confidence struct {
	values []float64
}

// NewConfidence wraps a plain scalar.
func NewConfidence(v float64) Confidence {
	return Confidence{values: []float64{v}}
}

func (c *Confidence) UnmarshalJSON(data []byte) error {
	var scalar float64
	if err := json.Unmarshal(data, &scalar); err == nil {
		c.values = []float64{scalar}
		return nil
	}
	var vector []float64
	if err := json.Unmarshal(data, &vector); err == nil {
		c.values = vector
		return nil
	}
	return fmt.Errorf("confidence is neither scalar nor vector: %s", data)
}

func (c Confidence) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Scalar())
}

// Scalar reduces the confidence to a single comparable value.
func (c Confidence) Scalar() float64 {
	max := 0.0
	for _, v := range c.values {
		if v > max {
			max = v
		}
	}
	return max
}

// IsZero reports whether no value was decoded at all.
func (c Confidence) IsZero() bool { return len(c.values) == 0 }
