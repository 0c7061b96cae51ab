package services

import "txguard-lab/internal/domain/models"

// Advice strings emitted alongside findings
const (
	AdviceVerifyDomain   = "Check the URL carefully. Make sure it matches the official domain exactly."
	AdviceVerifyContract = "Verify the contract address on a block explorer like Etherscan."
	AdviceLimitApproval  = "Check token approval amounts. Consider using a limited approval amount instead of unlimited."
	AdviceReviewComplex  = "Review all parameters carefully before signing any complex transaction."
	AdviceReject         = "Consider rejecting this transaction as it shows high-risk patterns."
	AdviceProceedCaution = "Proceed with caution and verify all transaction details."
	AdviceAlwaysVerify   = "Always verify transaction details before signing, even for low-risk transactions."
)

// adviceForMatch returns the advice attached to a matched pattern, if any
func adviceForMatch(p models.PhishingPattern) (string, bool) {
	switch p.PatternType {
	case models.PatternTypeDomain:
		return AdviceVerifyDomain, true
	case models.PatternTypeContract:
		return AdviceVerifyContract, true
	case models.PatternTypeFunction:
		if p.DenotesApproval() {
			return AdviceLimitApproval, true
		}
	}
	return "", false
}

// tierAdvice picks the closing advice line from the final capped score
func tierAdvice(score int) string {
	switch models.TierForScore(score) {
	case models.RiskTierHigh:
		return AdviceReject
	case models.RiskTierMedium:
		return AdviceProceedCaution
	default:
		return AdviceAlwaysVerify
	}
}

// dedupeAdvice keeps the first occurrence of every advice string
func dedupeAdvice(advice []string) []string {
	seen := make(map[string]struct{}, len(advice))
	out := make([]string, 0, len(advice))
	for _, a := range advice {
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	return out
}
