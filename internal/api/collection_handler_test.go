package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahappyphrog/harmonic-take-home/internal/domain"
	"github.com/ahappyphrog/harmonic-take-home/internal/service"
	"github.com/ahappyphrog/harmonic-take-home/internal/store"
)

// mockCollectionService implements CollectionService for handler tests
type mockCollectionService struct {
	listFn       func(ctx context.Context) ([]domain.Collection, error)
	getPageFn    func(ctx context.Context, id uuid.UUID, offset, limit int) (*service.CollectionPage, error)
	addFn        func(ctx context.Context, id uuid.UUID, companyIDs []int64) (int64, error)
	startMergeFn func(ctx context.Context, targetID, sourceID uuid.UUID) (*service.MergeStarted, error)
}

func (m *mockCollectionService) ListCollections(ctx context.Context) ([]domain.Collection, error) {
	return m.listFn(ctx)
}

func (m *mockCollectionService) GetCollectionPage(
	ctx context.Context,
	id uuid.UUID,
	offset, limit int,
) (*service.CollectionPage, error) {
	return m.getPageFn(ctx, id, offset, limit)
}

func (m *mockCollectionService) AddCompanies(
	ctx context.Context,
	id uuid.UUID,
	companyIDs []int64,
) (int64, error) {
	return m.addFn(ctx, id, companyIDs)
}

func (m *mockCollectionService) StartMerge(
	ctx context.Context,
	targetID, sourceID uuid.UUID,
) (*service.MergeStarted, error) {
	return m.startMergeFn(ctx, targetID, sourceID)
}

// newCollectionRouter wires the handler the same way cmd/server does
func newCollectionRouter(svc CollectionService) http.Handler {
	h := NewCollectionHandler(svc, nil)

	r := chi.NewRouter()
	r.Get("/collections", h.ListCollections)
	r.Get("/collections/{id}", h.GetCollection)
	r.Post("/collections/{id}/companies", h.AddCompanies)
	r.Post("/collections/{id}/companies/bulk", h.BulkAddCompanies)
	return r
}

func TestListCollections(t *testing.T) {
	collectionID := uuid.New()
	svc := &mockCollectionService{
		listFn: func(ctx context.Context) ([]domain.Collection, error) {
			return []domain.Collection{
				{ID: collectionID, CollectionName: "My List"},
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/collections", nil)
	rec := httptest.NewRecorder()
	newCollectionRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body []CollectionMetadataResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, collectionID.String(), body[0].ID)
	assert.Equal(t, "My List", body[0].CollectionName)
}

func TestGetCollection(t *testing.T) {
	collectionID := uuid.New()

	t.Run("returns page with pagination params", func(t *testing.T) {
		var gotOffset, gotLimit int
		svc := &mockCollectionService{
			getPageFn: func(ctx context.Context, id uuid.UUID, offset, limit int) (*service.CollectionPage, error) {
				gotOffset, gotLimit = offset, limit
				return &service.CollectionPage{
					Collection: domain.Collection{ID: id, CollectionName: "My List"},
					Companies:  []domain.Company{{ID: 1, CompanyName: "Acme"}},
					Total:      50,
				}, nil
			},
		}

		req := httptest.NewRequest(
			http.MethodGet, "/collections/"+collectionID.String()+"?offset=20&limit=5", nil)
		rec := httptest.NewRecorder()
		newCollectionRouter(svc).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 20, gotOffset)
		assert.Equal(t, 5, gotLimit)

		var body CollectionResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, 50, body.Total)
		require.Len(t, body.Companies, 1)
		assert.Equal(t, "Acme", body.Companies[0].CompanyName)
	})

	t.Run("defaults pagination", func(t *testing.T) {
		svc := &mockCollectionService{
			getPageFn: func(ctx context.Context, id uuid.UUID, offset, limit int) (*service.CollectionPage, error) {
				assert.Equal(t, 0, offset)
				assert.Equal(t, defaultPageLimit, limit)
				return &service.CollectionPage{
					Collection: domain.Collection{ID: id, CollectionName: "My List"},
				}, nil
			},
		}

		req := httptest.NewRequest(http.MethodGet, "/collections/"+collectionID.String(), nil)
		rec := httptest.NewRecorder()
		newCollectionRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unknown collection", func(t *testing.T) {
		svc := &mockCollectionService{
			getPageFn: func(ctx context.Context, id uuid.UUID, offset, limit int) (*service.CollectionPage, error) {
				return nil, store.ErrCollectionNotFound
			},
		}

		req := httptest.NewRequest(http.MethodGet, "/collections/"+collectionID.String(), nil)
		rec := httptest.NewRecorder()
		newCollectionRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		svc := &mockCollectionService{}

		req := httptest.NewRequest(http.MethodGet, "/collections/not-a-uuid", nil)
		rec := httptest.NewRecorder()
		newCollectionRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAddCompanies(t *testing.T) {
	collectionID := uuid.New()

	t.Run("adds companies", func(t *testing.T) {
		svc := &mockCollectionService{
			addFn: func(ctx context.Context, id uuid.UUID, companyIDs []int64) (int64, error) {
				assert.Equal(t, collectionID, id)
				assert.Equal(t, []int64{1, 2, 3}, companyIDs)
				return 2, nil
			},
		}

		req := httptest.NewRequest(
			http.MethodPost, "/collections/"+collectionID.String()+"/companies",
			strings.NewReader(`{"company_ids": [1, 2, 3]}`))
		rec := httptest.NewRecorder()
		newCollectionRouter(svc).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var body AddCompaniesResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, int64(2), body.AddedCount)
	})

	t.Run("empty company list", func(t *testing.T) {
		svc := &mockCollectionService{}

		req := httptest.NewRequest(
			http.MethodPost, "/collections/"+collectionID.String()+"/companies",
			strings.NewReader(`{"company_ids": []}`))
		rec := httptest.NewRecorder()
		newCollectionRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown company", func(t *testing.T) {
		svc := &mockCollectionService{
			addFn: func(ctx context.Context, id uuid.UUID, companyIDs []int64) (int64, error) {
				return 0, store.ErrCompanyNotFound
			},
		}

		req := httptest.NewRequest(
			http.MethodPost, "/collections/"+collectionID.String()+"/companies",
			strings.NewReader(`{"company_ids": [99]}`))
		rec := httptest.NewRecorder()
		newCollectionRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestBulkAddCompanies(t *testing.T) {
	targetID := uuid.New()
	sourceID := uuid.New()

	t.Run("accepts and returns task handle", func(t *testing.T) {
		taskID := uuid.New()
		svc := &mockCollectionService{
			startMergeFn: func(ctx context.Context, gotTarget, gotSource uuid.UUID) (*service.MergeStarted, error) {
				assert.Equal(t, targetID, gotTarget)
				assert.Equal(t, sourceID, gotSource)
				return &service.MergeStarted{TaskID: taskID, EstimatedCount: 42}, nil
			},
		}

		req := httptest.NewRequest(
			http.MethodPost, "/collections/"+targetID.String()+"/companies/bulk",
			strings.NewReader(`{"source_collection_id": "`+sourceID.String()+`"}`))
		rec := httptest.NewRecorder()
		newCollectionRouter(svc).ServeHTTP(rec, req)

		require.Equal(t, http.StatusAccepted, rec.Code)

		var body BulkAddResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, taskID.String(), body.TaskID)
		assert.Equal(t, 42, body.EstimatedCount)
	})

	t.Run("missing source collection id", func(t *testing.T) {
		svc := &mockCollectionService{}

		req := httptest.NewRequest(
			http.MethodPost, "/collections/"+targetID.String()+"/companies/bulk",
			strings.NewReader(`{}`))
		rec := httptest.NewRecorder()
		newCollectionRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown source collection", func(t *testing.T) {
		svc := &mockCollectionService{
			startMergeFn: func(ctx context.Context, gotTarget, gotSource uuid.UUID) (*service.MergeStarted, error) {
				return nil, store.ErrCollectionNotFound
			},
		}

		req := httptest.NewRequest(
			http.MethodPost, "/collections/"+targetID.String()+"/companies/bulk",
			strings.NewReader(`{"source_collection_id": "`+sourceID.String()+`"}`))
		rec := httptest.NewRecorder()
		newCollectionRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)

		// The sanitized message never leaks internals
		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Collection not found", body["error"])
	})

	t.Run("service failure", func(t *testing.T) {
		svc := &mockCollectionService{
			startMergeFn: func(ctx context.Context, gotTarget, gotSource uuid.UUID) (*service.MergeStarted, error) {
				return nil, errors.New("pg: connection refused")
			},
		}

		req := httptest.NewRequest(
			http.MethodPost, "/collections/"+targetID.String()+"/companies/bulk",
			strings.NewReader(`{"source_collection_id": "`+sourceID.String()+`"}`))
		rec := httptest.NewRecorder()
		newCollectionRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "connection refused")
	})
}
