package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Scan is a persisted analysis outcome. Never mutated after creation.
type Scan struct {
	ID              int64     `json:"id" db:"id"`
	TransactionData string    `json:"transaction_data" db:"transaction_data"`
	URL             *string   `json:"url" db:"url"`
	ContractAddress *string   `json:"contract_address" db:"contract_address"`
	RiskLevel       int       `json:"risk_level" db:"risk_level"`
	Findings        string    `json:"findings" db:"findings"` // JSON array of Finding
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// DecodeFindings deserializes the findings blob
func (s *Scan) DecodeFindings() ([]Finding, error) {
	var findings []Finding
	if err := json.Unmarshal([]byte(s.Findings), &findings); err != nil {
		return nil, fmt.Errorf("failed to decode findings of scan %d: %w", s.ID, err)
	}
	return findings, nil
}

// ScanDraft holds the fields of a scan to be recorded
type ScanDraft struct {
	TransactionData string
	URL             string
	ContractAddress string
	RiskLevel       int
	Findings        string
}

// NewScanDraft builds a draft from an analysis result
func NewScanDraft(transaction string, result *AnalysisResult) (ScanDraft, error) {
	findings := result.Findings
	if findings == nil {
		findings = []Finding{}
	}
	data, err := json.Marshal(findings)
	if err != nil {
		return ScanDraft{}, fmt.Errorf("failed to encode findings: %w", err)
	}

	return ScanDraft{
		TransactionData: transaction,
		URL:             result.URL,
		ContractAddress: result.ContractAddress,
		RiskLevel:       result.RiskLevel,
		Findings:        string(data),
	}, nil
}

// Validate checks the draft before it is persisted
func (d ScanDraft) Validate() error {
	if strings.TrimSpace(d.TransactionData) == "" {
		return fmt.Errorf("%w: transaction data is required", ErrValidation)
	}
	if d.RiskLevel < RiskLevelMin || d.RiskLevel > RiskLevelMax {
		return fmt.Errorf("%w: risk level must be between %d and %d",
			ErrValidation, RiskLevelMin, RiskLevelMax)
	}
	if d.Findings == "" {
		return fmt.Errorf("%w: findings are required", ErrValidation)
	}
	return nil
}

// ToScan materializes the draft; empty optional fragments become null
func (d ScanDraft) ToScan(id int64, createdAt time.Time) Scan {
	return Scan{
		ID:              id,
		TransactionData: d.TransactionData,
		URL:             optionalString(d.URL),
		ContractAddress: optionalString(d.ContractAddress),
		RiskLevel:       d.RiskLevel,
		Findings:        d.Findings,
		CreatedAt:       createdAt,
	}
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ScanDetail is a scan with its findings already decoded
type ScanDetail struct {
	Scan
	FindingList []Finding `json:"finding_list"`
}

// ScanStats summarizes recorded scans by risk tier
type ScanStats struct {
	TotalScans  int64              `json:"total_scans"`
	ByTier      map[RiskTier]int64 `json:"by_tier"`
	AverageRisk float64            `json:"average_risk"`
	LastScanAt  *time.Time         `json:"last_scan_at,omitempty"`
}
