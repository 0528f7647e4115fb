package constants

// ContractType is the validator's admission-time contract taxonomy.
type ContractType string

const (
	ContractLease      ContractType = "lease"
	ContractEmployment ContractType = "employment"
	ContractService    ContractType = "service"
	ContractSales      ContractType = "sales"
	ContractNDA        ContractType = "nda"
	ContractGeneral    ContractType = "general"
	ContractUnknown    ContractType = "unknown"
)

// ContractTypePriority is the fixed matcher order: the first type whose
// keyword set hits wins.
var ContractTypePriority = []ContractType{
	ContractLease,
	ContractEmployment,
	ContractService,
	ContractSales,
	ContractNDA,
}

// ContractTypeKeywords is the admission-time keyword table per contract type.
var ContractTypeKeywords = map[ContractType][]string{
	ContractLease:      {"lease", "rent", "tenant", "landlord", "property", "premises"},
	ContractEmployment: {"employee", "employer", "employment", "job", "salary", "wages"},
	ContractService:    {"service", "services", "contractor", "client", "work performed"},
	ContractSales:      {"purchase", "sale", "buyer", "seller", "goods", "merchandise"},
	ContractNDA:        {"confidential", "non-disclosure", "proprietary", "trade secret"},
}
