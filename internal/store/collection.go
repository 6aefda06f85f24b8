package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/ahappyphrog/harmonic-take-home/internal/domain"
)

// CollectionStore defines the interface for collection and membership
// persistence. Membership is the set of (company_id, collection_id) pairs;
// implementations must enforce a uniqueness constraint on the pair, which is
// the invariant AddMembers' insert-or-ignore semantics rely on.
type CollectionStore interface {
	// List retrieves the metadata of all collections.
	List(ctx context.Context) ([]domain.Collection, error)

	// GetByID retrieves a collection by its unique ID.
	// Returns ErrCollectionNotFound if the collection does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Collection, error)

	// Exists reports whether a collection with the given ID exists.
	Exists(ctx context.Context, id uuid.UUID) (bool, error)

	// CountMembers returns the number of companies in the collection.
	CountMembers(ctx context.Context, collectionID uuid.UUID) (int, error)

	// ListMemberIDs returns the IDs of every company in the collection.
	// The result is a point-in-time snapshot; members added concurrently
	// may or may not be included.
	ListMemberIDs(ctx context.Context, collectionID uuid.UUID) ([]int64, error)

	// ListMembersPage returns one page of the collection's companies along
	// with the total member count.
	ListMembersPage(
		ctx context.Context,
		collectionID uuid.UUID,
		offset, limit int,
	) ([]domain.Company, int, error)

	// AddMembers inserts the given companies into the collection in a single
	// round trip, silently discarding pairs that already exist, and returns
	// the number of rows actually inserted.
	// Returns ErrInvalidEntity if the collection or a company no longer
	// exists (foreign key violation).
	AddMembers(ctx context.Context, collectionID uuid.UUID, companyIDs []int64) (int64, error)
}

// CompanyStore defines the interface for company persistence.
type CompanyStore interface {
	// GetByIDs retrieves the companies with the given IDs. Missing IDs are
	// simply absent from the result; callers that require all IDs to exist
	// should compare lengths.
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Company, error)
}
