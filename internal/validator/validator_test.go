package validator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amara-nwosu/lexvault/constants"
)

type stubScorer struct {
	prob      float64
	err       error
	available bool
	calls     int
}

func (s *stubScorer) Score(_ context.Context, _ string) (float64, error) {
	s.calls++
	return s.prob, s.err
}

func (s *stubScorer) Available() bool { return s.available }

const employmentText = "This Employment Agreement is made between TechCo and Jane Doe. " +
	"Jane shall receive a salary of $85,000. Employment shall continue until terminated with 2 weeks notice."

func TestValidateAcceptsEmploymentContract(t *testing.T) {
	v := New(Config{}, &stubScorer{prob: 0.5, available: true}, nil)

	res := v.Validate(context.Background(), employmentText)

	require.True(t, res.IsValid, "message: %s", res.Message)
	assert.Equal(t, constants.ContractEmployment, res.ContractType)
	assert.Greater(t, res.Confidence, 0.40)
	assert.Contains(t, res.FoundElements, "party_identification")
}

func TestValidateRejectsShortText(t *testing.T) {
	scorer := &stubScorer{prob: 0.99, available: true}
	v := New(Config{}, scorer, nil)

	res := v.Validate(context.Background(), "hello world")

	require.False(t, res.IsValid)
	assert.Contains(t, res.Message, "insufficient")
	assert.Contains(t, res.Message, "minimum 50")
	assert.Zero(t, scorer.calls, "short text must not reach the ML backend")
	assert.Len(t, res.MissingElements, 4)
}

func TestValidateDegradesWhenScorerFails(t *testing.T) {
	broken := &stubScorer{err: errors.New("backend timeout"), available: true}
	v := New(Config{}, broken, nil)

	res := v.Validate(context.Background(), employmentText)

	// Neutral prior keeps a strong heuristic document valid.
	require.True(t, res.IsValid)
	assert.Equal(t, 1, broken.calls)
}

func TestValidateNilScorerUsesNeutralPrior(t *testing.T) {
	v := New(Config{}, nil, nil)

	res := v.Validate(context.Background(), employmentText)
	require.True(t, res.IsValid)
}

func TestConfidenceMonotonicInElements(t *testing.T) {
	v := New(Config{}, &stubScorer{prob: 0.5, available: true}, nil)
	ctx := context.Background()

	base := strings.Repeat("plain filler text without legal phrasing whatsoever. ", 3)
	additions := []string{
		"This agreement is made on the stated date.",
		"between Alpha Corp and Beta LLC.",
		"The vendor shall pay all applicable fees.",
		"Payment terms and conditions apply, including a deposit.",
	}

	prev := v.Validate(ctx, base).Confidence
	text := base
	for _, add := range additions {
		text += " " + add
		conf := v.Validate(ctx, text).Confidence
		assert.GreaterOrEqual(t, conf, prev, "adding %q reduced confidence", add)
		prev = conf
	}
}

func TestBorderlineBandIsRejectedButTagged(t *testing.T) {
	// Zero ML signal; one weak keyword puts the score into [0.25, 0.40).
	v := New(Config{}, &stubScorer{prob: 0.35, available: true}, nil)

	text := "The agreement mentioned here is fifty characters long at least, promise."
	res := v.Validate(context.Background(), text)

	require.False(t, res.IsValid)
	if res.Confidence >= 0.25 {
		assert.True(t, res.Borderline)
		assert.Contains(t, res.Message, "manual review")
	}
}

func TestContractTypePriority(t *testing.T) {
	tests := []struct {
		name string
		text string
		want constants.ContractType
	}{
		{"lease wins over employment", "the tenant and the employee signed", constants.ContractLease},
		{"employment", "employer and employee relationship", constants.ContractEmployment},
		{"service", "contractor provides services to the client", constants.ContractService},
		{"sales", "buyer purchases goods from seller", constants.ContractSales},
		{"nda", "all proprietary trade secret information", constants.ContractNDA},
		{"general fallback", "nothing matches here", constants.ContractGeneral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detectContractType(tt.text))
		})
	}
}

func TestValidateIsDeterministic(t *testing.T) {
	v := New(Config{}, &stubScorer{prob: 0.5, available: true}, nil)
	ctx := context.Background()

	first := v.Validate(ctx, employmentText)
	second := v.Validate(ctx, employmentText)
	assert.Equal(t, first, second)
}
