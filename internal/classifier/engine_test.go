package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amara-nwosu/lexvault/constants"
	"github.com/amara-nwosu/lexvault/internal/ai"
)

type stubBackend struct {
	preds     []ai.Prediction
	err       error
	available bool
}

func (s *stubBackend) Classify(_ context.Context, _ string) ([]ai.Prediction, error) {
	return s.preds, s.err
}

func (s *stubBackend) Available() bool { return s.available }

const leaseText = "This lease agreement covers the lease of the premises. The lease term is 12 months, " +
	"and the tenant shall pay rent monthly to the landlord."

func TestClassifyModelEnhancedAboveGate(t *testing.T) {
	backend := &stubBackend{
		available: true,
		preds: []ai.Prediction{
			{Label: "LEASE_AGREEMENT", Score: ai.NewConfidence(0.92)},
			{Label: "contract", Score: ai.NewConfidence(0.4)},
		},
	}
	e := NewEngine(backend, 0.6, nil)

	res := e.Classify(context.Background(), leaseText, "apartment-lease.pdf")

	assert.Equal(t, constants.DocTypeLease, res.DocumentType)
	assert.Equal(t, constants.MethodModelEnhanced, res.Method)
	assert.InDelta(t, 0.92, res.DocumentTypeConfidence, 1e-9)
	// domain/urgency always come from the rule tier
	assert.Equal(t, "real_estate", res.LegalDomain)
}

func TestClassifyLowModelConfidenceTakesRulePath(t *testing.T) {
	backend := &stubBackend{
		available: true,
		preds:     []ai.Prediction{{Label: "lease", Score: ai.NewConfidence(0.55)}},
	}
	e := NewEngine(backend, 0.6, nil)

	res := e.Classify(context.Background(), leaseText, "")

	assert.NotEqual(t, constants.MethodModelEnhanced, res.Method)
	assert.Equal(t, constants.MethodRuleBased, res.Method)
	assert.Equal(t, constants.DocTypeLease, res.DocumentType)
}

func TestClassifyBackendTimeoutFallsBackToRules(t *testing.T) {
	backend := &stubBackend{available: true, err: errors.New("context deadline exceeded")}
	e := NewEngine(backend, 0.6, nil)

	res := e.Classify(context.Background(), leaseText, "")

	assert.Equal(t, constants.DocTypeLease, res.DocumentType)
	assert.Contains(t, []constants.ClassificationMethod{constants.MethodRuleBased, constants.MethodFallback}, res.Method)
}

func TestClassifyVectorConfidenceReducedByMax(t *testing.T) {
	var p ai.Prediction
	require.NoError(t, json.Unmarshal([]byte(`{"label":"lease","score":[0.1,0.85,0.3]}`), &p))
	backend := &stubBackend{available: true, preds: []ai.Prediction{p}}
	e := NewEngine(backend, 0.6, nil)

	res := e.Classify(context.Background(), leaseText, "")

	assert.Equal(t, constants.MethodModelEnhanced, res.Method)
	assert.InDelta(t, 0.85, res.DocumentTypeConfidence, 1e-9)
}

func TestClassifyTieKeepsFirstSeenPrediction(t *testing.T) {
	backend := &stubBackend{
		available: true,
		preds: []ai.Prediction{
			{Label: "policy", Score: ai.NewConfidence(0.8)},
			{Label: "report", Score: ai.NewConfidence(0.8)},
		},
	}
	e := NewEngine(backend, 0.6, nil)

	res := e.Classify(context.Background(), leaseText, "")
	assert.Equal(t, constants.DocTypePolicy, res.DocumentType)
}

func TestClassifyShortContentUsesFilenameHint(t *testing.T) {
	e := NewEngine(nil, 0.6, nil)

	tests := []struct {
		filename string
		want     constants.DocumentType
	}{
		{"master-contract-v2.pdf", constants.DocTypeContract},
		{"office_lease.docx", constants.DocTypeLease},
		{"appellate-brief.pdf", constants.DocTypeLegalBrief},
		{"notes.txt", constants.DocTypeGeneral},
	}
	for _, tt := range tests {
		res := e.Classify(context.Background(), "too short", tt.filename)
		assert.Equal(t, tt.want, res.DocumentType, tt.filename)
		assert.Equal(t, constants.MethodFallback, res.Method)
		assert.InDelta(t, 0.3, res.DocumentTypeConfidence, 1e-9)
	}
}

func TestClassifyNoKeywordHitsIsFallback(t *testing.T) {
	e := NewEngine(nil, 0.6, nil)

	text := "zzz qqq xxx yyy vvv www uuu ttt sss rrr aaa bbb ccc ddd eee fff ggg"
	res := e.Classify(context.Background(), text, "")

	assert.Equal(t, constants.DocTypeGeneral, res.DocumentType)
	assert.Equal(t, constants.MethodFallback, res.Method)
	assert.Zero(t, res.DocumentTypeConfidence)
}

func TestClassifyDeterministic(t *testing.T) {
	backend := &stubBackend{
		available: true,
		preds:     []ai.Prediction{{Label: "lease", Score: ai.NewConfidence(0.9)}},
	}
	e := NewEngine(backend, 0.6, nil)
	ctx := context.Background()

	first := e.Classify(ctx, leaseText, "lease.pdf")
	second := e.Classify(ctx, leaseText, "lease.pdf")
	assert.Equal(t, first, second)
}
