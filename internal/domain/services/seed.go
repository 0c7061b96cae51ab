package services

import "txguard-lab/internal/domain/models"

// DefaultPatterns is the built-in catalog inserted into an empty store
func DefaultPatterns() []models.PatternDraft {
	return []models.PatternDraft{
		{
			Pattern:     "pancakesswap.finance",
			PatternType: models.PatternTypeDomain,
			Description: "Fake PancakeSwap domain (correct is pancakeswap.finance)",
			RiskLevel:   90,
		},
		{
			Pattern:     "uniswapp.org",
			PatternType: models.PatternTypeDomain,
			Description: "Fake Uniswap domain (correct is uniswap.org)",
			RiskLevel:   90,
		},
		{
			Pattern:     "metamaask.io",
			PatternType: models.PatternTypeDomain,
			Description: "Fake MetaMask domain (correct is metamask.io)",
			RiskLevel:   90,
		},
		{
			Pattern:     "sushiswapv3.com",
			PatternType: models.PatternTypeDomain,
			Description: "Fake SushiSwap domain",
			RiskLevel:   90,
		},
		{
			Pattern:     "wallet-connect.cc",
			PatternType: models.PatternTypeDomain,
			Description: "Fake WalletConnect domain",
			RiskLevel:   90,
		},
		{
			Pattern:     "approve(0xffffffffffffffffffffffffffffffffffffffff",
			PatternType: models.PatternTypeFunction,
			Description: "Unlimited token approval requested",
			RiskLevel:   85,
		},
		{
			Pattern:     "transferFrom(",
			PatternType: models.PatternTypeFunction,
			Description: "Token transfer from your wallet to another address",
			RiskLevel:   60,
		},
		{
			Pattern:     "setApprovalForAll(",
			PatternType: models.PatternTypeFunction,
			Description: "Full collection approval for NFTs",
			RiskLevel:   80,
		},
		{
			Pattern:     "0x25f666Aa45A1E9452F923A6AB547750BBe138B75",
			PatternType: models.PatternTypeContract,
			Description: "Known malicious contract",
			RiskLevel:   95,
		},
	}
}
