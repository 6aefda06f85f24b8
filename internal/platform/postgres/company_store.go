package postgres

import (
	"context"
	"log/slog"

	"github.com/ahappyphrog/harmonic-take-home/internal/domain"
	"github.com/ahappyphrog/harmonic-take-home/internal/platform/logger"
	"github.com/ahappyphrog/harmonic-take-home/internal/store"
)

// PostgresCompanyStore implements the store.CompanyStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCompanyStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCompanyStore creates a new PostgreSQL implementation of the
// CompanyStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresCompanyStore(db store.DBTX, logger *slog.Logger) *PostgresCompanyStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCompanyStore{
		db:     db,
		logger: logger.With(slog.String("component", "company_store")),
	}
}

// Ensure PostgresCompanyStore implements store.CompanyStore interface
var _ store.CompanyStore = (*PostgresCompanyStore)(nil)

// GetByIDs implements store.CompanyStore.GetByIDs
func (s *PostgresCompanyStore) GetByIDs(
	ctx context.Context,
	ids []int64,
) ([]domain.Company, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, company_name, created_at
		FROM companies
		WHERE id = ANY($1::bigint[])
		ORDER BY id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, ids)
	if err != nil {
		log.Error("failed to get companies by IDs",
			slog.String("error", err.Error()),
			slog.Int("id_count", len(ids)))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var companies []domain.Company
	for rows.Next() {
		var c domain.Company
		if err := rows.Scan(&c.ID, &c.CompanyName, &c.CreatedAt); err != nil {
			return nil, MapError(err)
		}
		companies = append(companies, c)
	}

	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return companies, nil
}
