package classifier

import (
	"regexp"
	"strings"

	"github.com/amara-nwosu/lexvault/internal/entity"
)

// Per-family caps keep noisy documents from flooding the entity list.
const (
	maxDatesPerPattern = 5
	maxMoneyPerPattern = 5
	maxRoleMatches     = 3
	maxCitations       = 3
)

var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`),
	regexp.MustCompile(`(?i)\b(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},?\s+\d{4}\b`),
	regexp.MustCompile(`(?i)\b\d{1,2}(?:st|nd|rd|th)?\s+(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{4}\b`),
}

var moneyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\$[\d,]+(?:\.\d{2})?`),
	regexp.MustCompile(`(?i)(?:USD|USD\$|dollars?)\s*[\d,]+(?:\.\d{2})?`),
	regexp.MustCompile(`(?i)[\d,]+(?:\.\d{2})?\s*(?:dollars?|USD)`),
}

var rolePatterns = []struct {
	entityType string
	re         *regexp.Regexp
}{
	{"party", regexp.MustCompile(`(?i)plaintiff|defendant|appellant|appellee|petitioner|respondent|claimant`)},
	{"legal_entity", regexp.MustCompile(`(?i)corporation|corp\.?|llc|l\.l\.c\.?|inc\.?|ltd\.?|company|co\.?|firm|partnership`)},
	{"court", regexp.MustCompile(`(?i)court|tribunal|judge|magistrate|justice|honorable|hon\.`)},
	{"legal_profession", regexp.MustCompile(`(?i)attorney|lawyer|counsel|esquire|esq\.?|barrister|solicitor`)},
}

var citationPattern = regexp.MustCompile(`\b\d+\s+[A-Z][a-z]+\s+\d+\b|\b\d+\s+[A-Z]\.?\s*\d+[a-z]?\s+\d+\b`)

// ExtractEntities pulls dates, money amounts, legal-role nouns, and case
// citations out of content. Always rule-based, deterministic, order-stable.
func ExtractEntities(content string) []entity.ExtractedEntity {
	var entities []entity.ExtractedEntity

	for _, re := range datePatterns {
		for _, m := range capped(re.FindAllString(content, -1), maxDatesPerPattern) {
			entities = append(entities, entity.ExtractedEntity{Type: "date", Value: strings.TrimSpace(m)})
		}
	}
	for _, re := range moneyPatterns {
		for _, m := range capped(re.FindAllString(content, -1), maxMoneyPerPattern) {
			entities = append(entities, entity.ExtractedEntity{Type: "money", Value: strings.TrimSpace(m)})
		}
	}
	for _, rp := range rolePatterns {
		for _, m := range capped(rp.re.FindAllString(content, -1), maxRoleMatches) {
			entities = append(entities, entity.ExtractedEntity{Type: rp.entityType, Value: strings.TrimSpace(m)})
		}
	}
	for _, m := range capped(citationPattern.FindAllString(content, -1), maxCitations) {
		entities = append(entities, entity.ExtractedEntity{Type: "case_citation", Value: strings.TrimSpace(m)})
	}

	return entities
}

func capped(matches []string, n int) []string {
	if len(matches) > n {
		return matches[:n]
	}
	return matches
}
