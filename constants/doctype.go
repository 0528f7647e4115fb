package constants

import "strings"

// DocumentType is the enrichment-time document taxonomy.
type DocumentType string

const (
	DocTypeContract       DocumentType = "contract"
	DocTypeLease          DocumentType = "lease"
	DocTypeLegalBrief     DocumentType = "legal_brief"
	DocTypePolicy         DocumentType = "policy"
	DocTypeRegulation     DocumentType = "regulation"
	DocTypeFinancial      DocumentType = "financial"
	DocTypeCorrespondence DocumentType = "correspondence"
	DocTypeReport         DocumentType = "report"
	DocTypeGeneral        DocumentType = "general"
	DocTypeUnknown        DocumentType = "unknown"
)

// labelSynonyms maps raw model labels (substring match, declaration order)
// to canonical document types.
var labelSynonyms = []struct {
	needle string
	dt     DocumentType
}{
	{"contract", DocTypeContract},
	{"agreement", DocTypeContract},
	{"lease", DocTypeLease},
	{"brief", DocTypeLegalBrief},
	{"policy", DocTypePolicy},
	{"regulation", DocTypeRegulation},
	{"financial", DocTypeFinancial},
	{"correspondence", DocTypeCorrespondence},
	{"report", DocTypeReport},
}

// CanonicalizeLabel maps a raw classifier label to a document type.
// Unrecognized labels map to general.
func CanonicalizeLabel(label string) DocumentType {
	normalized := strings.ToLower(strings.TrimSpace(label))
	for _, s := range labelSynonyms {
		if strings.Contains(normalized, s.needle) {
			return s.dt
		}
	}
	return DocTypeGeneral
}

// Urgency is the three-level urgency scale attached to classifications.
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// ClassificationMethod records which tier produced a classification.
type ClassificationMethod string

const (
	MethodAIModel       ClassificationMethod = "ai_model"
	MethodModelEnhanced ClassificationMethod = "model_enhanced"
	MethodRuleBased     ClassificationMethod = "rule_based"
	MethodFallback      ClassificationMethod = "fallback"
)
