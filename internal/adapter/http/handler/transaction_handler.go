package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/bankledger/internal/adapter/http/dto"
	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

// TransactionService defines the behavior needed by TransactionHandler.
type TransactionService interface {
	ListTransactions(ctx context.Context, input usecase.ListTransactionsInput) ([]*domain.Transaction, error)
	CountTransactions(ctx context.Context, accountID string) (int64, error)
}

// ReconciliationService defines the behavior needed for log replay.
type ReconciliationService interface {
	VerifyAccount(ctx context.Context, accountID string) (*usecase.ReconciliationResult, error)
}

// TransactionHandler handles transaction history HTTP requests.
type TransactionHandler struct {
	ledgerUC TransactionService
	reconUC  ReconciliationService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(ledgerUC TransactionService, reconUC ReconciliationService) *TransactionHandler {
	return &TransactionHandler{ledgerUC: ledgerUC, reconUC: reconUC}
}

// ListByAccount lists an account's transactions, oldest first.
func (h *TransactionHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	txns, err := h.ledgerUC.ListTransactions(r.Context(), usecase.ListTransactionsInput{
		AccountID: id,
		Limit:     parseIntQuery(r, "limit", 0),
		Offset:    parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list transactions", err.Error())
		return
	}

	// Total covers the whole log, not just the returned page.
	total, err := h.ledgerUC.CountTransactions(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to count transactions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListTransactionsResponse{
		Transactions: dto.TransactionsFromDomain(txns),
		Total:        total,
	})
}

// Reconcile replays an account's log against its stored balance. A
// divergence reports the result with a 500; the ledger is corrupt.
func (h *TransactionHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	result, err := h.reconUC.VerifyAccount(r.Context(), id)
	if err != nil {
		if result != nil {
			writeJSON(w, http.StatusInternalServerError, dto.ReconciliationFromResult(result))
			return
		}
		writeError(w, mapDomainError(err), "failed to reconcile account", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationFromResult(result))
}
