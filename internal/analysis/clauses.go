// Package analysis holds the rule-based document analysis that runs without
// any model backend: clause extraction for the enrichment pipeline's
// clause_overview artifact.
package analysis

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/amara-nwosu/lexvault/internal/entity"
)

var (
	reLeaseTerm = []*regexp.Regexp{
		regexp.MustCompile(`lease.*?term.*?(\d+)\s*(year|month|day)s?`),
		regexp.MustCompile(`term.*?of.*?(\d+)\s*(year|month|day)s?`),
		regexp.MustCompile(`(\d+)\s*(year|month|day)\s*lease`),
		regexp.MustCompile(`tenancy.*?(\d+)\s*(year|month|day)s?`),
	}
	reRent = []*regexp.Regexp{
		regexp.MustCompile(`\$[\d,]+(?:\.\d{2})?\s*(?:per\s*month|monthly|/month)`),
		regexp.MustCompile(`rent.*?\$[\d,]+(?:\.\d{2})?`),
		regexp.MustCompile(`monthly.*?payment.*?\$[\d,]+(?:\.\d{2})?`),
	}
	reAmount  = regexp.MustCompile(`\$[\d,]+(?:\.\d{2})?`)
	reDeposit = []*regexp.Regexp{
		regexp.MustCompile(`(?:security\s*deposit|deposit).*?\$[\d,]+(?:\.\d{2})?`),
		regexp.MustCompile(`\$[\d,]+(?:\.\d{2})?\s*(?:security\s*deposit|deposit)`),
	}
	reNotice = regexp.MustCompile(`(\d+)\s*(?:day|week|month)s?\s*(?:notice|notification)`)
)

// ExtractClauses scans content for well-known clause families and returns a
// frontend-shaped overview. Deterministic; every family contributes at most
// one entry except parties.
func ExtractClauses(content string) []entity.Clause {
	var clauses []entity.Clause
	lower := strings.ToLower(content)

	// Lease term
	termFound := false
	for _, re := range reLeaseTerm {
		if m := re.FindStringSubmatch(lower); m != nil {
			term := m[1] + " " + m[2]
			if m[1] != "1" {
				term += "s"
			}
			clauses = append(clauses, entity.Clause{
				Type:     term,
				Category: "Lease Term",
				Icon:     "calendar",
				Content:  "Lease term: " + term,
			})
			termFound = true
			break
		}
	}
	if !termFound && containsAny(lower, "lease", "rental", "tenancy") {
		clauses = append(clauses, entity.Clause{
			Type:     "Standard Term",
			Category: "Lease Term",
			Icon:     "calendar",
			Content:  "Standard lease term applies",
		})
	}

	// Rent amount
	rentFound := false
	for _, re := range reRent {
		if m := re.FindString(lower); m != "" {
			if amount := reAmount.FindString(m); amount != "" {
				clauses = append(clauses, entity.Clause{
					Type:     amount + "/month",
					Category: "Rent Amount",
					Icon:     "dollar-sign",
					Content:  "Monthly rent: " + amount,
				})
				rentFound = true
				break
			}
		}
	}
	if !rentFound {
		if amount := reAmount.FindString(content); amount != "" {
			clauses = append(clauses, entity.Clause{
				Type:     amount + "/month",
				Category: "Rent Amount",
				Icon:     "dollar-sign",
				Content:  "Rent amount: " + amount,
			})
		}
	}

	// Parties
	if containsAny(lower, "landlord", "tenant", "lessor", "lessee") {
		clauses = append(clauses, entity.Clause{
			Type:     "Landlord & Tenant",
			Category: "Parties",
			Icon:     "users",
			Content:  "Landlord and tenant parties identified",
		})
	}

	// Security deposit
	if containsAny(lower, "deposit", "security deposit") {
		depositType := "Security Deposit Required"
		depositContent := "Security deposit: Amount specified in agreement"
		for _, re := range reDeposit {
			if m := re.FindString(lower); m != "" {
				if amount := reAmount.FindString(m); amount != "" {
					depositType = amount
					depositContent = "Security deposit: " + amount
					break
				}
			}
		}
		clauses = append(clauses, entity.Clause{
			Type:     depositType,
			Category: "Security Deposit",
			Icon:     "shield",
			Content:  depositContent,
		})
	}

	// Maintenance responsibilities
	if containsAny(lower, "maintenance", "repair", "upkeep") {
		responsibility := "Shared Responsibility"
		switch {
		case strings.Contains(lower, "tenant") && containsAny(lower, "responsible", "maintain"):
			responsibility = "Tenant Responsible"
		case strings.Contains(lower, "landlord") && containsAny(lower, "responsible", "maintain"):
			responsibility = "Landlord Responsible"
		}
		clauses = append(clauses, entity.Clause{
			Type:     responsibility,
			Category: "Maintenance",
			Icon:     "tool",
			Content:  "Maintenance responsibility: " + responsibility,
		})
	}

	// Termination / notice
	if containsAny(lower, "terminate", "notice", "cancel", "end") {
		noticeText := "Notice Required"
		if m := reNotice.FindStringSubmatch(lower); m != nil {
			noticeText = fmt.Sprintf("%s days notice", m[1])
		}
		clauses = append(clauses, entity.Clause{
			Type:     noticeText,
			Category: "Termination Rights",
			Icon:     "x-circle",
			Content:  "Termination notice: " + noticeText,
		})
	}

	// Utilities
	if containsAny(lower, "utilities", "electric", "gas", "water") {
		clauses = append(clauses, entity.Clause{
			Type:     "Utility Provisions",
			Category: "Utilities",
			Icon:     "zap",
			Content:  "Utility arrangements specified",
		})
	}

	// Pet policy
	if containsAny(lower, "pet", "pets", "animal") {
		policy := "Pet Policy Specified"
		switch {
		case strings.Contains(lower, "no pets"):
			policy = "No Pets Allowed"
		case strings.Contains(lower, "pets allowed"):
			policy = "Pets Allowed"
		}
		clauses = append(clauses, entity.Clause{
			Type:     policy,
			Category: "Pet Policy",
			Icon:     "heart",
			Content:  "Pet policy: " + policy,
		})
	}

	// Legal documents always surface at least a generic pair of entries.
	if len(clauses) == 0 && containsAny(lower, "lease", "agreement", "contract", "rental") {
		clauses = append(clauses,
			entity.Clause{
				Type:     "Legal Agreement",
				Category: "Document Type",
				Icon:     "file-text",
				Content:  "Legal agreement document identified",
			},
			entity.Clause{
				Type:     "Terms & Conditions",
				Category: "Legal Terms",
				Icon:     "book-open",
				Content:  "Terms and conditions apply",
			},
		)
	}

	return clauses
}

func containsAny(text string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
