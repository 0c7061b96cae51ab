package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"txguard-lab/internal/domain/models"
	"txguard-lab/internal/infrastructure/database"
)

// PatternRepository handles phishing pattern persistence
type PatternRepository struct {
	db database.DBTX
}

// NewPatternRepository creates a new pattern repository
func NewPatternRepository(db database.DBTX) *PatternRepository {
	return &PatternRepository{db: db}
}

const patternColumns = `id, pattern, pattern_type, description, risk_level, created_at`

// ListPatterns returns the whole catalog in insertion order
func (r *PatternRepository) ListPatterns(ctx context.Context) ([]models.PhishingPattern, error) {
	query := `SELECT ` + patternColumns + ` FROM phishing_patterns ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list patterns: %w", err)
	}
	return collectPatterns(rows)
}

// ListPatternsByType returns the patterns of one type in insertion order
func (r *PatternRepository) ListPatternsByType(ctx context.Context, t models.PatternType) ([]models.PhishingPattern, error) {
	query := `SELECT ` + patternColumns + ` FROM phishing_patterns WHERE pattern_type = $1 ORDER BY id`

	rows, err := r.db.Query(ctx, query, string(t))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s patterns: %w", t, err)
	}
	return collectPatterns(rows)
}

// AddPattern inserts a pattern and returns it with its assigned id
func (r *PatternRepository) AddPattern(ctx context.Context, draft models.PatternDraft) (*models.PhishingPattern, error) {
	query := `
		INSERT INTO phishing_patterns (pattern, pattern_type, description, risk_level)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + patternColumns

	p, err := scanPattern(r.db.QueryRow(ctx, query,
		draft.Pattern, string(draft.PatternType), draft.Description, draft.RiskLevel,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create pattern: %w", err)
	}
	return p, nil
}

// DeletePattern removes a pattern, reporting whether a row was deleted
func (r *PatternRepository) DeletePattern(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM phishing_patterns WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete pattern: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanPattern(row pgx.Row) (*models.PhishingPattern, error) {
	var (
		p           models.PhishingPattern
		patternType string
		createdAt   pgtype.Timestamptz
	)
	if err := row.Scan(&p.ID, &p.Pattern, &patternType, &p.Description, &p.RiskLevel, &createdAt); err != nil {
		return nil, err
	}
	p.PatternType = models.PatternType(patternType)
	p.CreatedAt = timestamptzToTime(createdAt)
	return &p, nil
}

func collectPatterns(rows pgx.Rows) ([]models.PhishingPattern, error) {
	defer rows.Close()

	patterns := []models.PhishingPattern{}
	for rows.Next() {
		p, err := scanPattern(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pattern: %w", err)
		}
		patterns = append(patterns, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate patterns: %w", err)
	}
	return patterns, nil
}
