package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
)

// ReconciliationUseCase verifies that stored balances agree with the
// transaction log. The log is the ground truth; the account balance is
// a rebuildable projection.
type ReconciliationUseCase struct {
	accountRepo AccountRepository
	txnRepo     TransactionRepository
}

// NewReconciliationUseCase creates a new ReconciliationUseCase.
func NewReconciliationUseCase(accountRepo AccountRepository, txnRepo TransactionRepository) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
	}
}

// ReconciliationResult reports a replay of one account's log.
type ReconciliationResult struct {
	AccountID         string
	RecordedBalance   decimal.Decimal
	CalculatedBalance decimal.Decimal
	Difference        decimal.Decimal
	TransactionCount  int64
	IsReconciled      bool
	CheckedAt         time.Time
}

// VerifyAccount replays the full transaction log for an account from a
// zero balance, checking every resulting_balance snapshot and the final
// stored balance. A divergence is returned as an invariant violation
// alongside the populated result.
func (uc *ReconciliationUseCase) VerifyAccount(ctx context.Context, accountID string) (*ReconciliationResult, error) {
	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	txns, err := uc.txnRepo.ListByAccount(ctx, accountID, 0, 0)
	if err != nil {
		return nil, err
	}

	running := decimal.Zero
	for _, txn := range txns {
		running = running.Add(txn.SignedAmount())
		if !running.Equal(txn.ResultingBalance) {
			result := uc.result(account, running, int64(len(txns)))
			return result, fmt.Errorf(
				"%w: transaction %s seq %d records balance %s, replay yields %s",
				domain.ErrInvariantViolation, txn.ID, txn.Sequence, txn.ResultingBalance, running,
			)
		}
	}

	result := uc.result(account, running, int64(len(txns)))
	if !result.IsReconciled {
		return result, fmt.Errorf(
			"%w: account %s balance %s diverges from log sum %s",
			domain.ErrInvariantViolation, accountID, account.Balance, running,
		)
	}

	return result, nil
}

func (uc *ReconciliationUseCase) result(account *domain.Account, calculated decimal.Decimal, count int64) *ReconciliationResult {
	return &ReconciliationResult{
		AccountID:         account.ID,
		RecordedBalance:   account.Balance,
		CalculatedBalance: calculated,
		Difference:        account.Balance.Sub(calculated),
		TransactionCount:  count,
		IsReconciled:      account.Balance.Equal(calculated),
		CheckedAt:         time.Now().UTC(),
	}
}
