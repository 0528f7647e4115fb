package validator

import (
	"regexp"
	"strings"

	"github.com/amara-nwosu/lexvault/constants"
)

// keyPatterns is the fixed legal-term regex set. Each pattern contributes at
// most one point to the heuristic score.
var keyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bparty\b`),
	regexp.MustCompile(`(?i)\bagreement\b`),
	regexp.MustCompile(`(?i)\bhereinafter\b`),
	regexp.MustCompile(`(?i)\bshall\b`),
	regexp.MustCompile(`(?i)\bwhereas\b`),
	regexp.MustCompile(`(?i)\bliability\b`),
	regexp.MustCompile(`(?i)\bgoverning law\b`),
	regexp.MustCompile(`(?i)\bjurisdiction\b`),
}

var (
	reDate = regexp.MustCompile(`(?i)\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b` +
		`|\b(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},?\s+\d{4}\b`)
	reMoney      = regexp.MustCompile(`\$\d+(?:,\d{3})*(?:\.\d+)?`)
	reCompany    = regexp.MustCompile(`\b[A-Z][A-Za-z0-9&,. ]+(?:Inc|LLC|Corp|Ltd)\b`)
	reObligation = regexp.MustCompile(`(?i)\b(?:shall|must|required|prohibited|not allowed)\b`)
)

// Essential contract elements; names are recorded verbatim in the
// validation result for rejection messaging.
const (
	elemFormation   = "contract_formation"
	elemParties     = "party_identification"
	elemObligations = "legal_obligations"
	elemTerms       = "substantive_terms"
)

var elementPatterns = []struct {
	name string
	re   *regexp.Regexp
}{
	{elemFormation, regexp.MustCompile(`(?i)\bthis agreement\b|\bthis contract\b|\bagreement is made\b|\bcontract is entered\b|\bhereby agree\b`)},
	{elemParties, regexp.MustCompile(`(?i)\bbetween .+ and .+\b|\blandlord\b|\btenant\b|\bemployer\b|\bemployee\b|\bbuyer\b|\bseller\b`)},
	{elemObligations, regexp.MustCompile(`(?i)\bshall pay\b|\bmust provide\b|\bis required to\b|\bobliged to\b|\bresponsible for\b`)},
	{elemTerms, regexp.MustCompile(`(?i)\bterms\b|\bconditions\b|\bpayment\b|\bdeposit\b|\bduration\b|\btermination\b`)},
}

func allElementNames() []string {
	names := make([]string, 0, len(elementPatterns))
	for _, e := range elementPatterns {
		names = append(names, e.name)
	}
	return names
}

func countKeywordHits(text string) int {
	hits := 0
	for _, re := range keyPatterns {
		if re.MatchString(text) {
			hits++
		}
	}
	return hits
}

// detectStructuredSignals checks for the four modern document signals:
// dates, money amounts, organization names, and obligation keywords.
func detectStructuredSignals(text string) map[string]bool {
	return map[string]bool{
		"dates":       reDate.MatchString(text),
		"money":       reMoney.MatchString(text),
		"companies":   reCompany.MatchString(text),
		"obligations": reObligation.MatchString(text),
	}
}

func checkContractElements(text string) (found, missing []string) {
	for _, e := range elementPatterns {
		if e.re.MatchString(text) {
			found = append(found, e.name)
		} else {
			missing = append(missing, e.name)
		}
	}
	return found, missing
}

// detectContractType resolves the contract type by fixed-priority keyword
// matching; the first type with any hit wins.
func detectContractType(text string) constants.ContractType {
	lower := strings.ToLower(text)
	for _, ct := range constants.ContractTypePriority {
		for _, kw := range constants.ContractTypeKeywords[ct] {
			if strings.Contains(lower, kw) {
				return ct
			}
		}
	}
	return constants.ContractGeneral
}
