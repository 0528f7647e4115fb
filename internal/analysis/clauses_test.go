package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func categories(t *testing.T, content string) map[string]string {
	t.Helper()
	out := map[string]string{}
	for _, c := range ExtractClauses(content) {
		out[c.Category] = c.Type
	}
	return out
}

func TestExtractClausesLease(t *testing.T) {
	content := "This lease agreement has a term of 12 months. The tenant shall pay $1,200 per month " +
		"to the landlord, plus a $2,400 security deposit. Tenant is responsible for maintenance. " +
		"Either party may terminate with 30 days notice. No pets allowed. Water utilities included."

	got := categories(t, content)

	assert.Equal(t, "12 months", got["Lease Term"])
	assert.Equal(t, "$1,200/month", got["Rent Amount"])
	assert.Equal(t, "Landlord & Tenant", got["Parties"])
	assert.Equal(t, "$2,400", got["Security Deposit"])
	assert.Equal(t, "Tenant Responsible", got["Maintenance"])
	assert.Equal(t, "30 days notice", got["Termination Rights"])
	assert.Equal(t, "Utility Provisions", got["Utilities"])
	assert.Equal(t, "No Pets Allowed", got["Pet Policy"])
}

func TestExtractClausesGenericAgreement(t *testing.T) {
	clauses := ExtractClauses("A simple agreement with no recognizable clause families present whatsoever here.")

	require.NotEmpty(t, clauses)
	assert.Equal(t, "Document Type", clauses[0].Category)
	assert.Equal(t, "Legal Agreement", clauses[0].Type)
}

func TestExtractClausesNonLegalText(t *testing.T) {
	assert.Empty(t, ExtractClauses("grocery list: apples, oranges, bread"))
}

func TestExtractClausesSingularTerm(t *testing.T) {
	got := categories(t, "lease term of 1 year from commencement")
	assert.Equal(t, "1 year", got["Lease Term"])
}
