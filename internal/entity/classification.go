package entity

import "github.com/amara-nwosu/lexvault/constants"

// ExtractedEntity is one rule-extracted entity (date, money, legal role,
// case citation).
type ExtractedEntity struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// ComplexityMetrics carries the deterministic readability measures computed
// for every classification.
type ComplexityMetrics struct {
	ComplexityScore    float64 `json:"complexity_score"`
	AvgSentenceLength  float64 `json:"avg_sentence_length"`
	VocabularyRichness float64 `json:"vocabulary_richness"`
	LegalJargonCount   int     `json:"legal_jargon_count"`
	TotalWords         int     `json:"total_words"`
	TotalSentences     int     `json:"total_sentences"`
}

// ClassificationResult is the merged output of the two-tier engine.
type ClassificationResult struct {
	DocumentType           constants.DocumentType         `json:"document_type"`
	DocumentTypeConfidence float64                        `json:"document_type_confidence"`
	LegalDomain            string                         `json:"legal_domain"`
	LegalDomainConfidence  float64                        `json:"legal_domain_confidence"`
	Urgency                constants.Urgency              `json:"urgency"`
	UrgencyConfidence      float64                        `json:"urgency_confidence"`
	Method                 constants.ClassificationMethod `json:"classification_method"`
	ExtractedEntities      []ExtractedEntity              `json:"extracted_entities"`
	Complexity             ComplexityMetrics              `json:"complexity_metrics"`
	ModelSource            string                         `json:"model_source,omitempty"`
}

// ValidationResult is the admission decision for one upload. Immutable once
// produced.
type ValidationResult struct {
	IsValid         bool                   `json:"is_valid"`
	ContractType    constants.ContractType `json:"contract_type"`
	Confidence      float64                `json:"confidence"`
	Message         string                 `json:"message"`
	FoundElements   []string               `json:"found_elements"`
	MissingElements []string               `json:"missing_elements"`
	Borderline      bool                   `json:"borderline"`
}

// Clause is one extracted clause summary entry.
type Clause struct {
	Type     string `json:"type"`
	Category string `json:"category"`
	Icon     string `json:"icon"`
	Content  string `json:"content"`
}
