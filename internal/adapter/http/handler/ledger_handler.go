package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/adapter/http/dto"
)

// LedgerService defines the behavior needed by LedgerHandler.
type LedgerService interface {
	Deposit(ctx context.Context, accountID string, amount decimal.Decimal) (decimal.Decimal, error)
	Withdraw(ctx context.Context, accountID string, amount decimal.Decimal) (decimal.Decimal, error)
	AccrueInterest(ctx context.Context, accountID string) (decimal.Decimal, error)
}

// LedgerHandler handles balance mutation HTTP requests.
type LedgerHandler struct {
	ledgerUC LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC}
}

// Deposit credits an amount to an account.
func (h *LedgerHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.ledgerUC.Deposit, "failed to deposit")
}

// Withdraw debits an amount from an account.
func (h *LedgerHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.ledgerUC.Withdraw, "failed to withdraw")
}

// AccrueInterest applies one interest accrual to a savings account.
func (h *LedgerHandler) AccrueInterest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	balance, err := h.ledgerUC.AccrueInterest(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to accrue interest", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{AccountID: id, Balance: balance})
}

func (h *LedgerHandler) mutate(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, accountID string, amount decimal.Decimal) (decimal.Decimal, error),
	failMsg string,
) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	var req dto.AmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	balance, err := op(r.Context(), id, req.Amount)
	if err != nil {
		writeError(w, mapDomainError(err), failMsg, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{AccountID: id, Balance: balance})
}
