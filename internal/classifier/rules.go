package classifier

import (
	"strings"

	"github.com/amara-nwosu/lexvault/constants"
)

// Keyword tables for the rule tier. Declaration order breaks score ties, so
// these are slices, not maps.

var documentTypeKeywords = []struct {
	docType  constants.DocumentType
	keywords []string
}{
	{constants.DocTypeContract, []string{"contract", "agreement", "deed", "covenant", "compact"}},
	{constants.DocTypeLease, []string{"lease", "rental", "tenancy", "rent"}},
	{constants.DocTypeLegalBrief, []string{"brief", "motion", "petition", "complaint", "pleading"}},
	{constants.DocTypePolicy, []string{"policy", "procedure", "guideline", "standard", "protocol"}},
	{constants.DocTypeRegulation, []string{"regulation", "statute", "law", "code", "ordinance"}},
	{constants.DocTypeFinancial, []string{"invoice", "receipt", "financial", "budget", "statement"}},
	{constants.DocTypeCorrespondence, []string{"letter", "memo", "email", "correspondence", "notice"}},
	{constants.DocTypeReport, []string{"report", "analysis", "study", "review", "assessment"}},
}

var legalDomainKeywords = []struct {
	domain   string
	keywords []string
}{
	{"real_estate", []string{"property", "real estate", "lease", "rent", "landlord", "tenant"}},
	{"corporate", []string{"corporation", "company", "business", "merger", "acquisition"}},
	{"employment", []string{"employment", "employee", "worker", "job", "salary", "benefits"}},
	{"intellectual_property", []string{"patent", "trademark", "copyright", "ip", "invention"}},
	{"litigation", []string{"lawsuit", "court", "judge", "trial", "plaintiff", "defendant"}},
	{"compliance", []string{"compliance", "regulation", "audit", "violation", "penalty"}},
}

var urgencyKeywords = []struct {
	level    constants.Urgency
	keywords []string
}{
	{constants.UrgencyHigh, []string{"urgent", "immediate", "critical", "emergency", "deadline", "expires"}},
	{constants.UrgencyMedium, []string{"important", "priority", "attention", "review", "action required"}},
	{constants.UrgencyLow, []string{"information", "fyi", "reference", "notice", "update"}},
}

// Score normalizers: raw keyword counts divide by these before clamping to 1.
const (
	docTypeNormalizer = 3.0
	domainNormalizer  = 2.0
	urgencyNormalizer = 2.0
)

// ruleResult is the rule tier's contribution before merging.
type ruleResult struct {
	docType           constants.DocumentType
	docTypeConfidence float64
	domain            string
	domainConfidence  float64
	urgency           constants.Urgency
	urgencyConfidence float64
	scored            bool // any document-type keyword hit at all
}

// classifyByRules scores content+filename against the keyword tables.
// First-declared entry wins ties.
func classifyByRules(content, filename string) ruleResult {
	text := strings.ToLower(content + " " + filename)

	res := ruleResult{
		docType: constants.DocTypeGeneral,
		domain:  "general",
		urgency: constants.UrgencyLow,
	}

	bestScore := 0
	for _, dt := range documentTypeKeywords {
		score := countHits(text, dt.keywords)
		if score > bestScore {
			bestScore = score
			res.docType = dt.docType
		}
	}
	if bestScore > 0 {
		res.scored = true
		res.docTypeConfidence = clamp1(float64(bestScore) / docTypeNormalizer)
	}

	bestScore = 0
	for _, d := range legalDomainKeywords {
		score := countHits(text, d.keywords)
		if score > bestScore {
			bestScore = score
			res.domain = d.domain
		}
	}
	if bestScore > 0 {
		res.domainConfidence = clamp1(float64(bestScore) / domainNormalizer)
	}

	bestScore = 0
	for _, u := range urgencyKeywords {
		score := countHits(text, u.keywords)
		if score > bestScore {
			bestScore = score
			res.urgency = u.level
		}
	}
	if bestScore > 0 {
		res.urgencyConfidence = clamp1(float64(bestScore) / urgencyNormalizer)
	}

	return res
}

func countHits(text string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			n++
		}
	}
	return n
}

func clamp1(f float64) float64 {
	if f > 1 {
		return 1
	}
	return f
}
