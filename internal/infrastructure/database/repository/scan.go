package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"txguard-lab/internal/domain/models"
	"txguard-lab/internal/infrastructure/database"
)

// ScanRepository handles scan history persistence
type ScanRepository struct {
	db database.DBTX
}

// NewScanRepository creates a new scan repository
func NewScanRepository(db database.DBTX) *ScanRepository {
	return &ScanRepository{db: db}
}

const scanColumns = `id, transaction_data, url, contract_address, risk_level, findings, created_at`

// AddScan inserts a scan and returns it with its assigned id
func (r *ScanRepository) AddScan(ctx context.Context, draft models.ScanDraft) (*models.Scan, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO scans (transaction_data, url, contract_address, risk_level, findings)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + scanColumns

	s, err := scanScan(r.db.QueryRow(ctx, query,
		draft.TransactionData, textOrNull(draft.URL), textOrNull(draft.ContractAddress),
		draft.RiskLevel, draft.Findings,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create scan: %w", err)
	}
	return s, nil
}

// ListScans returns up to limit scans, newest first
func (r *ScanRepository) ListScans(ctx context.Context, limit int) ([]models.Scan, error) {
	query := `SELECT ` + scanColumns + ` FROM scans ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list scans: %w", err)
	}
	defer rows.Close()

	scans := []models.Scan{}
	for rows.Next() {
		s, err := scanScan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scan row: %w", err)
		}
		scans = append(scans, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate scans: %w", err)
	}
	return scans, nil
}

// GetScan retrieves a scan by id
func (r *ScanRepository) GetScan(ctx context.Context, id int64) (*models.Scan, error) {
	s, err := scanScan(r.db.QueryRow(ctx, `SELECT `+scanColumns+` FROM scans WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get scan: %w", err)
	}
	return s, nil
}

// DeleteScan removes a scan, reporting whether a row was deleted
func (r *ScanRepository) DeleteScan(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM scans WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete scan: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ScanStats aggregates scan history by risk tier
func (r *ScanRepository) ScanStats(ctx context.Context) (*models.ScanStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE risk_level > $1),
			COUNT(*) FILTER (WHERE risk_level > $2 AND risk_level <= $1),
			COUNT(*) FILTER (WHERE risk_level <= $2),
			COALESCE(AVG(risk_level), 0)::float8,
			MAX(created_at)
		FROM scans`

	var (
		stats          models.ScanStats
		high, med, low int64
		lastScanAt     pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, query, models.HighSeverityThreshold, models.MediumSeverityThreshold).Scan(
		&stats.TotalScans, &high, &med, &low, &stats.AverageRisk, &lastScanAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compute scan stats: %w", err)
	}

	stats.ByTier = map[models.RiskTier]int64{
		models.RiskTierHigh:   high,
		models.RiskTierMedium: med,
		models.RiskTierLow:    low,
	}
	stats.LastScanAt = timestamptzToTimePtr(lastScanAt)

	return &stats, nil
}

func scanScan(row pgx.Row) (*models.Scan, error) {
	var (
		s             models.Scan
		url, contract pgtype.Text
		createdAt     pgtype.Timestamptz
	)
	if err := row.Scan(&s.ID, &s.TransactionData, &url, &contract, &s.RiskLevel, &s.Findings, &createdAt); err != nil {
		return nil, err
	}
	s.URL = nullTextToPtr(url)
	s.ContractAddress = nullTextToPtr(contract)
	s.CreatedAt = timestamptzToTime(createdAt)
	return &s, nil
}
