package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
)

// LedgerMetrics records ledger operation outcomes. Implemented by the
// metrics infrastructure; a no-op is used when metrics are disabled.
type LedgerMetrics interface {
	ObserveCommit(kind string, duration time.Duration)
	CountRejection(kind string, reason string)
}

type noopMetrics struct{}

func (noopMetrics) ObserveCommit(string, time.Duration) {}
func (noopMetrics) CountRejection(string, string)       {}

type noopRetrier struct{}

func (noopRetrier) Retry(ctx context.Context, operation func() error) error {
	return operation()
}

// LedgerUseCase owns balance mutations and the transaction history. All
// mutating operations run under the account's serialization slot and
// commit the log append and the balance update in a single storage
// transaction, so a successful return means the write is durable and
// visible to any subsequent read.
type LedgerUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	txnRepo     TransactionRepository
	outboxRepo  OutboxRepository
	locker      AccountLocker
	idGen       IDGenerator
	metrics     LedgerMetrics
	retrier     Retrier
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	txnRepo TransactionRepository,
	outboxRepo OutboxRepository,
	locker AccountLocker,
	idGen IDGenerator,
	metrics LedgerMetrics,
) *LedgerUseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}

	return &LedgerUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		outboxRepo:  outboxRepo,
		locker:      locker,
		idGen:       idGen,
		metrics:     metrics,
		retrier:     noopRetrier{},
	}
}

// WithRetrier re-runs each mutation's storage transaction when the
// retrier classifies its failure as transient. Safe because a failed
// attempt rolls back before the next one begins.
func (uc *LedgerUseCase) WithRetrier(retrier Retrier) *LedgerUseCase {
	uc.retrier = retrier
	return uc
}

// Deposit credits amount to the account and returns the resulting
// balance. Deposits cannot fail for balance reasons.
func (uc *LedgerUseCase) Deposit(ctx context.Context, accountID string, amount decimal.Decimal) (decimal.Decimal, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		uc.metrics.CountRejection(string(domain.TxDeposit), "invalid_amount")
		return decimal.Zero, err
	}

	return uc.mutate(ctx, accountID, func(account *domain.Account) (domain.TransactionKind, decimal.Decimal, error) {
		return domain.TxDeposit, amount, nil
	})
}

// Withdraw debits amount from the account and returns the resulting
// balance. A withdrawal that would push a current account past its
// authorized overdraft, or a savings account below zero, fails with
// ErrInsufficientFunds and leaves the balance untouched.
func (uc *LedgerUseCase) Withdraw(ctx context.Context, accountID string, amount decimal.Decimal) (decimal.Decimal, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		uc.metrics.CountRejection(string(domain.TxWithdrawal), "invalid_amount")
		return decimal.Zero, err
	}

	return uc.mutate(ctx, accountID, func(account *domain.Account) (domain.TransactionKind, decimal.Decimal, error) {
		if err := account.ValidateWithdrawal(amount); err != nil {
			uc.metrics.CountRejection(string(domain.TxWithdrawal), "insufficient_funds")
			return "", decimal.Zero, err
		}

		return domain.TxWithdrawal, amount, nil
	})
}

// AccrueInterest applies one interest accrual to a savings account and
// returns the resulting balance. When the computed amount is zero no
// transaction is written and the current balance is returned unchanged.
// There is no accrual-period guard: each call is an independent event.
func (uc *LedgerUseCase) AccrueInterest(ctx context.Context, accountID string) (decimal.Decimal, error) {
	return uc.mutate(ctx, accountID, func(account *domain.Account) (domain.TransactionKind, decimal.Decimal, error) {
		if account.Kind != domain.KindSavings {
			uc.metrics.CountRejection(string(domain.TxInterest), "not_savings")
			return "", decimal.Zero, domain.ErrNotSavingsAccount
		}

		return domain.TxInterest, domain.AccrueInterest(account), nil
	})
}

// decide inspects the locked account and returns the transaction kind
// and positive magnitude to commit. A zero amount means commit nothing.
type decide func(account *domain.Account) (domain.TransactionKind, decimal.Decimal, error)

func (uc *LedgerUseCase) mutate(ctx context.Context, accountID string, fn decide) (decimal.Decimal, error) {
	var resulting decimal.Decimal

	err := uc.locker.WithAccountLock(ctx, accountID, func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, DefaultCommitTimeout)
		defer cancel()

		return uc.retrier.Retry(ctx, func() error {
			start := time.Now()

			tx, err := uc.txManager.Begin(ctx)
			if err != nil {
				return err
			}
			defer tx.Rollback(ctx)

			account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, accountID)
			if err != nil {
				return err
			}

			kind, amount, err := fn(account)
			if err != nil {
				return err
			}

			if amount.IsZero() {
				resulting = account.Balance
				return nil
			}

			now := time.Now().UTC()
			committedAt := monotonicAfter(now, account.UpdatedAt)

			newBalance := account.Balance.Add(amount)
			if kind == domain.TxWithdrawal {
				newBalance = account.Balance.Sub(amount)
			}

			txn := &domain.Transaction{
				ID:               uc.idGen.Generate(),
				AccountID:        account.ID,
				Sequence:         account.Version + 1,
				Kind:             kind,
				Amount:           amount,
				ResultingBalance: newBalance,
				CreatedAt:        committedAt,
			}

			if err := uc.txnRepo.Append(ctx, tx, txn); err != nil {
				return err
			}

			if err := uc.accountRepo.UpdateBalance(ctx, tx, account.ID, newBalance, committedAt); err != nil {
				return err
			}

			if err := uc.outboxRepo.Create(ctx, tx, ledgerEvent(txn)); err != nil {
				return err
			}

			if err := tx.Commit(ctx); err != nil {
				return err
			}

			resulting = newBalance
			uc.metrics.ObserveCommit(string(kind), time.Since(start))

			return nil
		})
	})
	if err != nil {
		return decimal.Zero, err
	}

	return resulting, nil
}

// GetAccount retrieves an account by ID.
func (uc *LedgerUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, id)
}

// ListTransactionsInput represents input for listing transactions.
type ListTransactionsInput struct {
	AccountID string
	Limit     int
	Offset    int
}

// ListTransactions returns the account's history oldest first. The
// result is a consistent snapshot as of call time: any mutation that
// returned before this call is included.
func (uc *LedgerUseCase) ListTransactions(ctx context.Context, input ListTransactionsInput) ([]*domain.Transaction, error) {
	if _, err := uc.accountRepo.GetByID(ctx, input.AccountID); err != nil {
		return nil, err
	}

	if input.Limit > 0 {
		input.Limit, input.Offset = domain.ValidatePagination(input.Limit, input.Offset)
	}

	return uc.txnRepo.ListByAccount(ctx, input.AccountID, input.Limit, input.Offset)
}

// CountTransactions returns the total length of the account's log,
// independent of pagination.
func (uc *LedgerUseCase) CountTransactions(ctx context.Context, accountID string) (int64, error) {
	if _, err := uc.accountRepo.GetByID(ctx, accountID); err != nil {
		return 0, err
	}

	return uc.txnRepo.CountByAccount(ctx, accountID)
}

// monotonicAfter keeps per-account timestamps non-decreasing even if
// the wall clock steps backwards between commits.
func monotonicAfter(now, last time.Time) time.Time {
	if now.Before(last) {
		return last
	}
	return now
}

func ledgerEvent(txn *domain.Transaction) *domain.OutboxEvent {
	eventType := domain.EventTypeDepositCommitted
	switch txn.Kind {
	case domain.TxWithdrawal:
		eventType = domain.EventTypeWithdrawalCommitted
	case domain.TxInterest:
		eventType = domain.EventTypeInterestAccrued
	}

	return &domain.OutboxEvent{
		AggregateID:   txn.AccountID,
		AggregateType: domain.AggregateTypeAccount,
		EventType:     eventType,
		Payload: map[string]any{
			"account_id":        txn.AccountID,
			"transaction_id":    txn.ID,
			"sequence":          txn.Sequence,
			"amount":            txn.Amount.String(),
			"resulting_balance": txn.ResultingBalance.String(),
		},
		CreatedAt: txn.CreatedAt,
	}
}
