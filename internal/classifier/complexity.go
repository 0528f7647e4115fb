package classifier

import (
	"math"
	"strings"

	"github.com/amara-nwosu/lexvault/internal/entity"
)

var legalJargon = []string{
	"whereas", "herein", "thereof", "heretofore", "aforementioned",
	"pursuant", "notwithstanding", "hereby", "herewith",
}

// AnalyzeComplexity computes deterministic readability measures for content.
func AnalyzeComplexity(content string) entity.ComplexityMetrics {
	sentences := strings.Split(content, ".")
	words := strings.Fields(content)

	if len(words) == 0 {
		return entity.ComplexityMetrics{}
	}

	avgSentenceLength := float64(len(words)) / math.Max(float64(len(sentences)), 1)

	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		unique[strings.Trim(strings.ToLower(w), `.,!?";:()[]`)] = struct{}{}
	}
	vocabularyRichness := float64(len(unique)) / float64(len(words))

	lower := strings.ToLower(content)
	jargonCount := 0
	for _, term := range legalJargon {
		if strings.Contains(lower, term) {
			jargonCount++
		}
	}

	score := math.Min(
		(avgSentenceLength/20)*0.4+vocabularyRichness*0.3+(float64(jargonCount)/10)*0.3,
		1.0,
	)

	return entity.ComplexityMetrics{
		ComplexityScore:    round3(score),
		AvgSentenceLength:  round2(avgSentenceLength),
		VocabularyRichness: round3(vocabularyRichness),
		LegalJargonCount:   jargonCount,
		TotalWords:         len(words),
		TotalSentences:     len(sentences),
	}
}

func round2(f float64) float64 { return math.Round(f*100) / 100 }
func round3(f float64) float64 { return math.Round(f*1000) / 1000 }
