package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/bankledger/internal/adapter/http/dto"
	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

// HolderService defines the behavior needed by HolderHandler.
type HolderService interface {
	CreateHolder(ctx context.Context, input usecase.CreateHolderInput) (*domain.Holder, error)
	GetHolder(ctx context.Context, id string) (*domain.Holder, error)
	ListHolders(ctx context.Context, input usecase.ListHoldersInput) ([]*domain.Holder, error)
}

// HolderHandler handles holder-related HTTP requests.
type HolderHandler struct {
	holderUC HolderService
}

// NewHolderHandler creates a new HolderHandler.
func NewHolderHandler(holderUC HolderService) *HolderHandler {
	return &HolderHandler{holderUC: holderUC}
}

// Create creates a new holder.
func (h *HolderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateHolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	holder, err := h.holderUC.CreateHolder(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create holder", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.HolderFromDomain(holder))
}

// Get retrieves a holder by ID.
func (h *HolderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing holder ID", "")
		return
	}

	holder, err := h.holderUC.GetHolder(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get holder", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.HolderFromDomain(holder))
}

// List lists holders.
func (h *HolderHandler) List(w http.ResponseWriter, r *http.Request) {
	holders, err := h.holderUC.ListHolders(r.Context(), usecase.ListHoldersInput{
		Limit:  parseIntQuery(r, "limit", 20),
		Offset: parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list holders", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListHoldersResponse{
		Holders: dto.HoldersFromDomain(holders),
		Total:   int64(len(holders)),
	})
}
