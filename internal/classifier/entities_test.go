package classifier

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractEntities(t *testing.T) {
	text := "This agreement is dated 01/15/2024 between Acme Corp and the tenant. " +
		"The plaintiff shall pay $2,500.00 monthly. See 410 Mich 440 for precedent. " +
		"Counsel for the defendant reviewed the terms on March 3, 2024."

	entities := ExtractEntities(text)

	byType := map[string][]string{}
	for _, e := range entities {
		byType[e.Type] = append(byType[e.Type], e.Value)
	}

	assert.Contains(t, byType["date"], "01/15/2024")
	assert.Contains(t, byType["date"], "March 3, 2024")
	assert.Contains(t, byType["money"], "$2,500.00")
	assert.NotEmpty(t, byType["party"])
	assert.NotEmpty(t, byType["legal_entity"])
	assert.NotEmpty(t, byType["legal_profession"])
	assert.Contains(t, byType["case_citation"], "410 Mich 440")
}

func TestExtractEntitiesCapsMatches(t *testing.T) {
	text := strings.Repeat("due 01/02/2024 and 03/04/2024 and 05/06/2024. ", 10)

	entities := ExtractEntities(text)

	dates := 0
	for _, e := range entities {
		if e.Type == "date" {
			dates++
		}
	}
	assert.LessOrEqual(t, dates, maxDatesPerPattern*len(datePatterns))
}

func TestExtractEntitiesEmptyContent(t *testing.T) {
	assert.Empty(t, ExtractEntities(""))
}

func TestAnalyzeComplexity(t *testing.T) {
	text := "Whereas the parties hereby agree pursuant to the terms herein. " +
		"The tenant shall pay rent. Notwithstanding the foregoing, deposits are refundable."

	m := AnalyzeComplexity(text)

	assert.Greater(t, m.ComplexityScore, 0.0)
	assert.LessOrEqual(t, m.ComplexityScore, 1.0)
	assert.GreaterOrEqual(t, m.LegalJargonCount, 4) // whereas, hereby, pursuant, herein, notwithstanding
	assert.Equal(t, 21, m.TotalWords)
	assert.Greater(t, m.VocabularyRichness, 0.0)
}

func TestAnalyzeComplexityEmpty(t *testing.T) {
	m := AnalyzeComplexity("")
	assert.Zero(t, m.ComplexityScore)
	assert.Zero(t, m.TotalWords)
}
