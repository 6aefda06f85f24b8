package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ahappyphrog/harmonic-take-home/internal/domain"
	"github.com/ahappyphrog/harmonic-take-home/internal/platform/logger"
	"github.com/ahappyphrog/harmonic-take-home/internal/store"
)

// PostgresCollectionStore implements the store.CollectionStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCollectionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCollectionStore creates a new PostgreSQL implementation of the
// CollectionStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresCollectionStore(db store.DBTX, logger *slog.Logger) *PostgresCollectionStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCollectionStore{
		db:     db,
		logger: logger.With(slog.String("component", "collection_store")),
	}
}

// Ensure PostgresCollectionStore implements store.CollectionStore interface
var _ store.CollectionStore = (*PostgresCollectionStore)(nil)

// List implements store.CollectionStore.List
func (s *PostgresCollectionStore) List(ctx context.Context) ([]domain.Collection, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, collection_name, created_at
		FROM company_collections
		ORDER BY created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to list collections", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var collections []domain.Collection
	for rows.Next() {
		var c domain.Collection
		if err := rows.Scan(&c.ID, &c.CollectionName, &c.CreatedAt); err != nil {
			log.Error("failed to scan collection row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		collections = append(collections, c)
	}

	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return collections, nil
}

// GetByID implements store.CollectionStore.GetByID
// Returns store.ErrCollectionNotFound if the collection does not exist.
func (s *PostgresCollectionStore) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*domain.Collection, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, collection_name, created_at
		FROM company_collections
		WHERE id = $1
	`

	var c domain.Collection
	err := s.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.CollectionName, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("collection not found", slog.String("collection_id", id.String()))
			return nil, store.ErrCollectionNotFound
		}
		log.Error("failed to get collection by ID",
			slog.String("error", err.Error()),
			slog.String("collection_id", id.String()))
		return nil, MapError(err)
	}

	return &c, nil
}

// Exists implements store.CollectionStore.Exists
func (s *PostgresCollectionStore) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT EXISTS (SELECT 1 FROM company_collections WHERE id = $1)`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		log.Error("failed to check collection existence",
			slog.String("error", err.Error()),
			slog.String("collection_id", id.String()))
		return false, MapError(err)
	}

	return exists, nil
}

// CountMembers implements store.CollectionStore.CountMembers
func (s *PostgresCollectionStore) CountMembers(
	ctx context.Context,
	collectionID uuid.UUID,
) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT COUNT(*) FROM company_collection_members WHERE collection_id = $1`

	var count int
	if err := s.db.QueryRowContext(ctx, query, collectionID).Scan(&count); err != nil {
		log.Error("failed to count collection members",
			slog.String("error", err.Error()),
			slog.String("collection_id", collectionID.String()))
		return 0, MapError(err)
	}

	return count, nil
}

// ListMemberIDs implements store.CollectionStore.ListMemberIDs
// The returned slice is a point-in-time snapshot of the collection's members.
func (s *PostgresCollectionStore) ListMemberIDs(
	ctx context.Context,
	collectionID uuid.UUID,
) ([]int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT company_id
		FROM company_collection_members
		WHERE collection_id = $1
		ORDER BY company_id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, collectionID)
	if err != nil {
		log.Error("failed to list member IDs",
			slog.String("error", err.Error()),
			slog.String("collection_id", collectionID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, MapError(err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return ids, nil
}

// ListMembersPage implements store.CollectionStore.ListMembersPage
func (s *PostgresCollectionStore) ListMembersPage(
	ctx context.Context,
	collectionID uuid.UUID,
	offset, limit int,
) ([]domain.Company, int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	total, err := s.CountMembers(ctx, collectionID)
	if err != nil {
		return nil, 0, err
	}

	query := `
		SELECT c.id, c.company_name, c.created_at
		FROM company_collection_members m
		JOIN companies c ON c.id = m.company_id
		WHERE m.collection_id = $1
		ORDER BY c.id ASC
		OFFSET $2 LIMIT $3
	`

	rows, err := s.db.QueryContext(ctx, query, collectionID, offset, limit)
	if err != nil {
		log.Error("failed to list collection members",
			slog.String("error", err.Error()),
			slog.String("collection_id", collectionID.String()))
		return nil, 0, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var companies []domain.Company
	for rows.Next() {
		var c domain.Company
		if err := rows.Scan(&c.ID, &c.CompanyName, &c.CreatedAt); err != nil {
			return nil, 0, MapError(err)
		}
		companies = append(companies, c)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, MapError(err)
	}

	return companies, total, nil
}

// AddMembers implements store.CollectionStore.AddMembers
// It inserts all (company_id, collection_id) pairs in a single round trip.
// Pairs that already exist are silently discarded by the ON CONFLICT clause,
// so the operation is idempotent and safe to re-run; the returned count
// reflects only the rows actually inserted.
func (s *PostgresCollectionStore) AddMembers(
	ctx context.Context,
	collectionID uuid.UUID,
	companyIDs []int64,
) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(companyIDs) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO company_collection_members (company_id, collection_id)
		SELECT company_id, $2
		FROM unnest($1::bigint[]) AS company_id
		ON CONFLICT (company_id, collection_id) DO NOTHING
	`

	result, err := s.db.ExecContext(ctx, query, companyIDs, collectionID)
	if err != nil {
		log.Error("failed to add members to collection",
			slog.String("error", err.Error()),
			slog.String("collection_id", collectionID.String()),
			slog.Int("batch_size", len(companyIDs)))
		return 0, MapError(err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return 0, MapError(err)
	}

	log.Debug("members added to collection",
		slog.String("collection_id", collectionID.String()),
		slog.Int("batch_size", len(companyIDs)),
		slog.Int64("inserted", inserted))

	return inserted, nil
}
