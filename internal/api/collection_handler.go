package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ahappyphrog/harmonic-take-home/internal/api/shared"
	"github.com/ahappyphrog/harmonic-take-home/internal/domain"
	"github.com/ahappyphrog/harmonic-take-home/internal/service"
)

// Default pagination bounds for collection pages
const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// CollectionService defines the service operations the handler depends on.
type CollectionService interface {
	// ListCollections returns the metadata of every collection
	ListCollections(ctx context.Context) ([]domain.Collection, error)

	// GetCollectionPage returns one page of a collection's companies
	GetCollectionPage(
		ctx context.Context,
		collectionID uuid.UUID,
		offset, limit int,
	) (*service.CollectionPage, error)

	// AddCompanies adds individual companies to a collection
	AddCompanies(ctx context.Context, collectionID uuid.UUID, companyIDs []int64) (int64, error)

	// StartMerge schedules an asynchronous merge of source into target
	StartMerge(ctx context.Context, targetID, sourceID uuid.UUID) (*service.MergeStarted, error)
}

// CollectionMetadataResponse represents one collection in the catalog listing
type CollectionMetadataResponse struct {
	ID             string `json:"id"`
	CollectionName string `json:"collection_name"`
}

// CompanyResponse represents one company in a collection page
type CompanyResponse struct {
	ID          int64  `json:"id"`
	CompanyName string `json:"company_name"`
}

// CollectionResponse represents one page of a collection's companies
type CollectionResponse struct {
	ID             string            `json:"id"`
	CollectionName string            `json:"collection_name"`
	Companies      []CompanyResponse `json:"companies"`
	Total          int               `json:"total"`
}

// AddCompaniesRequest is the request body for adding individual companies
type AddCompaniesRequest struct {
	CompanyIDs []int64 `json:"company_ids" validate:"required,min=1,dive,gt=0"`
}

// AddCompaniesResponse reports how many companies were actually added
type AddCompaniesResponse struct {
	AddedCount int64 `json:"added_count"`
}

// BulkAddRequest is the request body for merging another collection's
// membership into this one
type BulkAddRequest struct {
	SourceCollectionID string `json:"source_collection_id" validate:"required,uuid"`
}

// BulkAddResponse is the immediate response to a merge request: the task
// handle to poll plus the pre-merge member count of the source
type BulkAddResponse struct {
	TaskID         string `json:"task_id"`
	EstimatedCount int    `json:"estimated_count"`
}

// CollectionHandler handles collection-related HTTP requests
type CollectionHandler struct {
	collectionService CollectionService
	logger            *slog.Logger
}

// NewCollectionHandler creates a new CollectionHandler
func NewCollectionHandler(collectionService CollectionService, logger *slog.Logger) *CollectionHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &CollectionHandler{
		collectionService: collectionService,
		logger:            logger.With(slog.String("component", "collection_handler")),
	}
}

// ListCollections handles GET /collections requests
func (h *CollectionHandler) ListCollections(w http.ResponseWriter, r *http.Request) {
	collections, err := h.collectionService.ListCollections(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	response := make([]CollectionMetadataResponse, 0, len(collections))
	for _, c := range collections {
		response = append(response, CollectionMetadataResponse{
			ID:             c.ID.String(),
			CollectionName: c.CollectionName,
		})
	}

	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// GetCollection handles GET /collections/{id} requests
func (h *CollectionHandler) GetCollection(w http.ResponseWriter, r *http.Request) {
	collectionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid collection ID")
		return
	}

	offset := parseQueryInt(r, "offset", 0)
	limit := parseQueryInt(r, "limit", defaultPageLimit)
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	page, err := h.collectionService.GetCollectionPage(r.Context(), collectionID, offset, limit)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	companies := make([]CompanyResponse, 0, len(page.Companies))
	for _, c := range page.Companies {
		companies = append(companies, CompanyResponse{
			ID:          c.ID,
			CompanyName: c.CompanyName,
		})
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CollectionResponse{
		ID:             page.Collection.ID.String(),
		CollectionName: page.Collection.CollectionName,
		Companies:      companies,
		Total:          page.Total,
	})
}

// AddCompanies handles POST /collections/{id}/companies requests
func (h *CollectionHandler) AddCompanies(w http.ResponseWriter, r *http.Request) {
	collectionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid collection ID")
		return
	}

	var req AddCompaniesRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	added, err := h.collectionService.AddCompanies(r.Context(), collectionID, req.CompanyIDs)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AddCompaniesResponse{AddedCount: added})
}

// BulkAddCompanies handles POST /collections/{id}/companies/bulk requests.
// The merge itself runs in the background; the response only carries the
// task handle the caller polls for completion.
func (h *CollectionHandler) BulkAddCompanies(w http.ResponseWriter, r *http.Request) {
	targetID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid collection ID")
		return
	}

	var req BulkAddRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	sourceID, err := uuid.Parse(req.SourceCollectionID)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid source collection ID")
		return
	}

	started, err := h.collectionService.StartMerge(r.Context(), targetID, sourceID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	// 202 Accepted: the work happens asynchronously
	shared.RespondWithJSON(w, r, http.StatusAccepted, BulkAddResponse{
		TaskID:         started.TaskID.String(),
		EstimatedCount: started.EstimatedCount,
	})
}

// parseQueryInt reads an integer query parameter, falling back to def when
// the parameter is absent or malformed.
func parseQueryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return value
}
