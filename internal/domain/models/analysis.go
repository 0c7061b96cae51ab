package models

// Severity represents how dangerous a single finding is
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Severity thresholds on a pattern's risk weight
const (
	HighSeverityThreshold   = 70
	MediumSeverityThreshold = 40
)

// SeverityForRisk derives the severity tier of a risk weight
func SeverityForRisk(risk int) Severity {
	switch {
	case risk > HighSeverityThreshold:
		return SeverityHigh
	case risk > MediumSeverityThreshold:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// RiskTier buckets a final risk score, using the same thresholds as severity
type RiskTier string

const (
	RiskTierHigh   RiskTier = "high"
	RiskTierMedium RiskTier = "medium"
	RiskTierLow    RiskTier = "low"
)

// TierForScore returns the tier of a capped risk score
func TierForScore(score int) RiskTier {
	return RiskTier(SeverityForRisk(score))
}

// Finding is one detected match between input and a pattern
type Finding struct {
	Type        PatternType `json:"type"`
	Description string      `json:"description"`
	Severity    Severity    `json:"severity"`
	Details     string      `json:"details,omitempty"`
}

// AnalysisResult is the outcome of analyzing one transaction
type AnalysisResult struct {
	RiskLevel       int       `json:"risk_level"`
	Findings        []Finding `json:"findings"`
	URL             string    `json:"url,omitempty"`
	ContractAddress string    `json:"contract_address,omitempty"`
	FunctionCalls   []string  `json:"function_calls"`
	Advice          []string  `json:"advice"`
}

// HasFindingOfType reports whether a finding of type t was already produced
func (r *AnalysisResult) HasFindingOfType(t PatternType) bool {
	for _, f := range r.Findings {
		if f.Type == t {
			return true
		}
	}
	return false
}

// Tier returns the risk tier of the result
func (r *AnalysisResult) Tier() RiskTier {
	return TierForScore(r.RiskLevel)
}

// AnalyzeRequest is the body of the analyze endpoint
type AnalyzeRequest struct {
	Transaction string `json:"transaction"`
}
