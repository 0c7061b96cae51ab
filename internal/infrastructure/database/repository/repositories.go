package repository

import "txguard-lab/internal/infrastructure/database"

// Store bundles the PostgreSQL repositories behind the catalog and scan store interfaces
type Store struct {
	*PatternRepository
	*ScanRepository
}

// NewStore creates repositories sharing one connection pool
func NewStore(db *database.PostgresDB) *Store {
	pool := db.Pool()
	return &Store{
		PatternRepository: NewPatternRepository(pool),
		ScanRepository:    NewScanRepository(pool),
	}
}
