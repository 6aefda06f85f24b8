package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ahappyphrog/harmonic-take-home/internal/domain"
	"github.com/ahappyphrog/harmonic-take-home/internal/store"
	"github.com/ahappyphrog/harmonic-take-home/internal/task"
)

// CollectionPage is one page of a collection's members along with the
// collection metadata and the total member count.
type CollectionPage struct {
	Collection domain.Collection
	Companies  []domain.Company
	Total      int
}

// MergeStarted is the immediate result of starting a merge: the handle the
// caller polls with, and the pre-merge member count of the source.
type MergeStarted struct {
	TaskID         uuid.UUID
	EstimatedCount int
}

// CollectionService provides collection catalog operations and starts
// membership merges. The merge itself runs as a background job; the service
// only validates, creates the tracking task, and hands the job to the
// scheduler.
type CollectionService struct {
	collectionStore store.CollectionStore
	companyStore    store.CompanyStore
	registry        *task.Registry
	scheduler       task.Scheduler
	batchSize       int
	logger          *slog.Logger
}

// NewCollectionService creates a new CollectionService.
// batchSize controls how many memberships each merge batch writes per store
// round trip; zero or negative selects DefaultMergeBatchSize.
func NewCollectionService(
	collectionStore store.CollectionStore,
	companyStore store.CompanyStore,
	registry *task.Registry,
	scheduler task.Scheduler,
	batchSize int,
	logger *slog.Logger,
) (*CollectionService, error) {
	if collectionStore == nil {
		return nil, fmt.Errorf("collection store cannot be nil")
	}
	if companyStore == nil {
		return nil, fmt.Errorf("company store cannot be nil")
	}
	if registry == nil {
		return nil, fmt.Errorf("task registry cannot be nil")
	}
	if scheduler == nil {
		return nil, fmt.Errorf("scheduler cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if batchSize <= 0 {
		batchSize = DefaultMergeBatchSize
	}

	return &CollectionService{
		collectionStore: collectionStore,
		companyStore:    companyStore,
		registry:        registry,
		scheduler:       scheduler,
		batchSize:       batchSize,
		logger:          logger.With(slog.String("component", "collection_service")),
	}, nil
}

// ListCollections returns the metadata of every collection.
func (s *CollectionService) ListCollections(ctx context.Context) ([]domain.Collection, error) {
	return s.collectionStore.List(ctx)
}

// GetCollectionPage returns one page of the collection's companies.
// Returns store.ErrCollectionNotFound if the collection does not exist.
func (s *CollectionService) GetCollectionPage(
	ctx context.Context,
	collectionID uuid.UUID,
	offset, limit int,
) (*CollectionPage, error) {
	collection, err := s.collectionStore.GetByID(ctx, collectionID)
	if err != nil {
		return nil, err
	}

	companies, total, err := s.collectionStore.ListMembersPage(ctx, collectionID, offset, limit)
	if err != nil {
		return nil, err
	}

	return &CollectionPage{
		Collection: *collection,
		Companies:  companies,
		Total:      total,
	}, nil
}

// AddCompanies adds the given companies to the collection, skipping any that
// are already members, and returns the number actually added.
// Returns store.ErrCollectionNotFound if the collection does not exist and
// store.ErrCompanyNotFound if any company ID is unknown.
func (s *CollectionService) AddCompanies(
	ctx context.Context,
	collectionID uuid.UUID,
	companyIDs []int64,
) (int64, error) {
	exists, err := s.collectionStore.Exists(ctx, collectionID)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, store.ErrCollectionNotFound
	}

	companies, err := s.companyStore.GetByIDs(ctx, companyIDs)
	if err != nil {
		return 0, err
	}
	if len(companies) != len(companyIDs) {
		return 0, store.ErrCompanyNotFound
	}

	return s.collectionStore.AddMembers(ctx, collectionID, companyIDs)
}

// StartMerge validates both collections, creates a pending task sized from
// the source's current member count, schedules the merge job, and returns
// immediately. The caller discovers the outcome by polling the task.
//
// The estimated count is a snapshot taken now; members added to the source
// before the job runs are processed but not counted, which is accepted
// drift rather than a guarantee.
func (s *CollectionService) StartMerge(
	ctx context.Context,
	targetID, sourceID uuid.UUID,
) (*MergeStarted, error) {
	target, err := s.collectionStore.GetByID(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("target collection: %w", err)
	}

	source, err := s.collectionStore.GetByID(ctx, sourceID)
	if err != nil {
		return nil, fmt.Errorf("source collection: %w", err)
	}

	count, err := s.collectionStore.CountMembers(ctx, sourceID)
	if err != nil {
		return nil, fmt.Errorf("count source members: %w", err)
	}

	t := s.registry.Create(count, fmt.Sprintf(
		"Adding companies from %s to %s",
		source.CollectionName, target.CollectionName))

	job := NewMergeJob(
		t.ID,
		sourceID,
		targetID,
		s.collectionStore,
		s.registry,
		s.batchSize,
		s.logger,
	)

	if err := s.scheduler.Enqueue(job); err != nil {
		// The task would otherwise sit pending forever; fail it so pollers
		// are never left waiting on work that was never scheduled.
		s.registry.Update(t.ID, task.UpdateParams{
			Status: task.StatusPtr(task.StatusFailed),
			Error:  task.StringPtr(fmt.Sprintf("failed to schedule merge: %v", err)),
		})
		return nil, fmt.Errorf("failed to schedule merge: %w", err)
	}

	s.logger.Info("merge scheduled",
		slog.String("task_id", t.ID.String()),
		slog.String("source_collection_id", sourceID.String()),
		slog.String("target_collection_id", targetID.String()),
		slog.Int("estimated_count", count))

	return &MergeStarted{
		TaskID:         t.ID,
		EstimatedCount: count,
	}, nil
}
