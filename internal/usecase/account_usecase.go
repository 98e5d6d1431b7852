package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
)

// AccountMetrics counts account lifecycle events.
type AccountMetrics interface {
	AccountOpened()
}

type noopAccountMetrics struct{}

func (noopAccountMetrics) AccountOpened() {}

// AccountUseCase handles account lifecycle: opening and reads.
type AccountUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	txnRepo     TransactionRepository
	outboxRepo  OutboxRepository
	holderRepo  HolderRepository
	idGen       IDGenerator
	metrics     AccountMetrics
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	txnRepo TransactionRepository,
	outboxRepo OutboxRepository,
	holderRepo HolderRepository,
	idGen IDGenerator,
	metrics AccountMetrics,
) *AccountUseCase {
	if metrics == nil {
		metrics = noopAccountMetrics{}
	}

	return &AccountUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		outboxRepo:  outboxRepo,
		holderRepo:  holderRepo,
		idGen:       idGen,
		metrics:     metrics,
	}
}

// OpenAccountInput represents input for opening an account.
type OpenAccountInput struct {
	HolderID       string
	Kind           domain.AccountKind
	InitialBalance decimal.Decimal
	OverdraftLimit decimal.Decimal
	InterestRate   decimal.Decimal
}

// OpenAccount creates a new account. A positive initial balance is
// recorded as an opening deposit transaction in the same storage
// transaction, so the balance always equals the sum of the log.
func (uc *AccountUseCase) OpenAccount(ctx context.Context, input OpenAccountInput) (*domain.Account, error) {
	now := time.Now().UTC()

	account := &domain.Account{
		ID:             uc.idGen.Generate(),
		HolderID:       input.HolderID,
		Kind:           input.Kind,
		Balance:        input.InitialBalance,
		OverdraftLimit: input.OverdraftLimit,
		InterestRate:   input.InterestRate,
		Version:        0,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := account.ValidateParameters(); err != nil {
		return nil, err
	}

	if _, err := uc.holderRepo.GetByID(ctx, input.HolderID); err != nil {
		return nil, err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var opening *domain.Transaction
	if input.InitialBalance.IsPositive() {
		account.Version = 1
		opening = &domain.Transaction{
			ID:               uc.idGen.Generate(),
			AccountID:        account.ID,
			Sequence:         1,
			Kind:             domain.TxDeposit,
			Amount:           input.InitialBalance,
			ResultingBalance: input.InitialBalance,
			CreatedAt:        now,
		}
	}

	if err := uc.accountRepo.Create(ctx, tx, account); err != nil {
		return nil, err
	}

	if opening != nil {
		if err := uc.txnRepo.Append(ctx, tx, opening); err != nil {
			return nil, err
		}
	}

	event := &domain.OutboxEvent{
		AggregateID:   account.ID,
		AggregateType: domain.AggregateTypeAccount,
		EventType:     domain.EventTypeAccountOpened,
		Payload: map[string]any{
			"account_id":      account.ID,
			"holder_id":       account.HolderID,
			"kind":            string(account.Kind),
			"opening_balance": account.Balance.String(),
		},
		CreatedAt: now,
	}
	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	uc.metrics.AccountOpened()

	return account, nil
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, id)
}

// ListAccountsInput represents input for listing accounts.
type ListAccountsInput struct {
	Limit  int
	Offset int
}

// ListAccounts lists accounts with pagination.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, input ListAccountsInput) ([]*domain.Account, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.accountRepo.List(ctx, limit, offset)
}
