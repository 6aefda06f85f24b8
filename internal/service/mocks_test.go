package service

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/ahappyphrog/harmonic-take-home/internal/domain"
	"github.com/ahappyphrog/harmonic-take-home/internal/store"
	"github.com/ahappyphrog/harmonic-take-home/internal/task"
)

// stubCollectionStore is an in-memory store.CollectionStore that records
// every AddMembers round trip, so tests can verify batching behavior.
type stubCollectionStore struct {
	mu          sync.Mutex
	collections map[uuid.UUID]domain.Collection
	members     map[uuid.UUID]map[int64]bool

	addCalls   int
	batchSizes []int

	// failAddOnCall makes the nth AddMembers call fail (1-based; 0 disables).
	failAddOnCall int
	addErr        error

	listMemberIDsErr error
}

func newStubCollectionStore() *stubCollectionStore {
	return &stubCollectionStore{
		collections: make(map[uuid.UUID]domain.Collection),
		members:     make(map[uuid.UUID]map[int64]bool),
	}
}

func (s *stubCollectionStore) addCollection(name string, memberIDs ...int64) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New()
	s.collections[id] = domain.Collection{ID: id, CollectionName: name}
	s.members[id] = make(map[int64]bool)
	for _, memberID := range memberIDs {
		s.members[id][memberID] = true
	}
	return id
}

func (s *stubCollectionStore) memberIDs(collectionID uuid.UUID) []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int64, 0, len(s.members[collectionID]))
	for id := range s.members[collectionID] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (s *stubCollectionStore) List(ctx context.Context) ([]domain.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Collection, 0, len(s.collections))
	for _, c := range s.collections {
		out = append(out, c)
	}
	return out, nil
}

func (s *stubCollectionStore) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*domain.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[id]
	if !ok {
		return nil, store.ErrCollectionNotFound
	}
	return &c, nil
}

func (s *stubCollectionStore) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.collections[id]
	return ok, nil
}

func (s *stubCollectionStore) CountMembers(
	ctx context.Context,
	collectionID uuid.UUID,
) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.members[collectionID]), nil
}

func (s *stubCollectionStore) ListMemberIDs(
	ctx context.Context,
	collectionID uuid.UUID,
) ([]int64, error) {
	if s.listMemberIDsErr != nil {
		return nil, s.listMemberIDsErr
	}
	return s.memberIDs(collectionID), nil
}

func (s *stubCollectionStore) ListMembersPage(
	ctx context.Context,
	collectionID uuid.UUID,
	offset, limit int,
) ([]domain.Company, int, error) {
	ids := s.memberIDs(collectionID)
	total := len(ids)

	if offset > len(ids) {
		offset = len(ids)
	}
	end := offset + limit
	if end > len(ids) {
		end = len(ids)
	}

	companies := make([]domain.Company, 0, end-offset)
	for _, id := range ids[offset:end] {
		companies = append(companies, domain.Company{ID: id, CompanyName: "company"})
	}
	return companies, total, nil
}

func (s *stubCollectionStore) AddMembers(
	ctx context.Context,
	collectionID uuid.UUID,
	companyIDs []int64,
) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.addCalls++
	s.batchSizes = append(s.batchSizes, len(companyIDs))

	if s.failAddOnCall > 0 && s.addCalls == s.failAddOnCall {
		return 0, s.addErr
	}

	set, ok := s.members[collectionID]
	if !ok {
		return 0, store.ErrInvalidEntity
	}

	var inserted int64
	for _, id := range companyIDs {
		if !set[id] {
			set[id] = true
			inserted++
		}
	}
	return inserted, nil
}

// stubCompanyStore is an in-memory store.CompanyStore.
type stubCompanyStore struct {
	companies map[int64]domain.Company
}

func newStubCompanyStore(ids ...int64) *stubCompanyStore {
	s := &stubCompanyStore{companies: make(map[int64]domain.Company)}
	for _, id := range ids {
		s.companies[id] = domain.Company{ID: id, CompanyName: "company"}
	}
	return s
}

func (s *stubCompanyStore) GetByIDs(ctx context.Context, ids []int64) ([]domain.Company, error) {
	var out []domain.Company
	for _, id := range ids {
		if c, ok := s.companies[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// stubScheduler collects enqueued jobs so tests can run them synchronously.
type stubScheduler struct {
	jobs []task.Job
	err  error
}

func (s *stubScheduler) Enqueue(job task.Job) error {
	s.jobs = append(s.jobs, job)
	return s.err
}
