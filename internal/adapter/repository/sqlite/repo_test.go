package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

func createHolder(t *testing.T, store *Store, id string) {
	t.Helper()

	repo := NewHolderRepository(store)
	require.NoError(t, repo.Create(context.Background(), &domain.Holder{
		ID:        id,
		FirstName: "Claire",
		LastName:  "Moreau",
		BirthDate: time.Date(1988, 2, 29, 0, 0, 0, 0, time.UTC),
		Address:   "4 quai des Brumes, Lyon",
		CreatedAt: time.Now().UTC(),
	}))
}

func createAccount(t *testing.T, store *Store, account *domain.Account) {
	t.Helper()

	ctx := context.Background()
	txm := NewTxManager(store)
	tx, err := txm.Begin(ctx)
	require.NoError(t, err)

	require.NoError(t, NewAccountRepository(store).Create(ctx, tx, account))
	require.NoError(t, tx.Commit(ctx))
}

func TestAccountRepository(t *testing.T) {
	store := newTestStore(t)
	createHolder(t, store, "holder-1")

	ctx := context.Background()
	repo := NewAccountRepository(store)
	txm := NewTxManager(store)

	now := time.Now().UTC()
	account := &domain.Account{
		ID:             "acc-1",
		HolderID:       "holder-1",
		Kind:           domain.KindCurrent,
		Balance:        decimal.RequireFromString("1000"),
		OverdraftLimit: decimal.RequireFromString("500"),
		InterestRate:   decimal.Zero,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	createAccount(t, store, account)

	t.Run("get by id", func(t *testing.T) {
		got, err := repo.GetByID(ctx, "acc-1")
		require.NoError(t, err)
		require.Equal(t, "holder-1", got.HolderID)
		require.Equal(t, domain.KindCurrent, got.Kind)
		require.True(t, got.Balance.Equal(decimal.RequireFromString("1000")))
		require.True(t, got.OverdraftLimit.Equal(decimal.RequireFromString("500")))
		require.Equal(t, int64(0), got.Version)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repo.GetByID(ctx, "missing")
		require.ErrorIs(t, err, domain.ErrAccountNotFound)
	})

	t.Run("update balance bumps version", func(t *testing.T) {
		tx, err := txm.Begin(ctx)
		require.NoError(t, err)

		locked, err := repo.GetByIDForUpdate(ctx, tx, "acc-1")
		require.NoError(t, err)

		newBalance := locked.Balance.Add(decimal.RequireFromString("250"))
		require.NoError(t, repo.UpdateBalance(ctx, tx, "acc-1", newBalance, time.Now().UTC()))
		require.NoError(t, tx.Commit(ctx))

		got, err := repo.GetByID(ctx, "acc-1")
		require.NoError(t, err)
		require.True(t, got.Balance.Equal(decimal.RequireFromString("1250")))
		require.Equal(t, int64(1), got.Version)
	})

	t.Run("update missing account", func(t *testing.T) {
		tx, err := txm.Begin(ctx)
		require.NoError(t, err)
		defer tx.Rollback(ctx)

		err = repo.UpdateBalance(ctx, tx, "missing", decimal.Zero, time.Now().UTC())
		require.ErrorIs(t, err, domain.ErrAccountNotFound)
	})

	t.Run("list", func(t *testing.T) {
		accounts, err := repo.List(ctx, 10, 0)
		require.NoError(t, err)
		require.Len(t, accounts, 1)
	})
}

func TestTransactionRepository(t *testing.T) {
	store := newTestStore(t)
	createHolder(t, store, "holder-1")

	now := time.Now().UTC()
	createAccount(t, store, &domain.Account{
		ID: "acc-1", HolderID: "holder-1", Kind: domain.KindCurrent,
		Balance: decimal.Zero, OverdraftLimit: decimal.Zero, InterestRate: decimal.Zero,
		CreatedAt: now, UpdatedAt: now,
	})

	ctx := context.Background()
	repo := NewTransactionRepository(store)
	txm := NewTxManager(store)

	appendTxn := func(seq int64, amount string) error {
		tx, err := txm.Begin(ctx)
		require.NoError(t, err)
		defer tx.Rollback(ctx)

		err = repo.Append(ctx, tx, &domain.Transaction{
			ID:               "txn-" + decimal.NewFromInt(seq).String(),
			AccountID:        "acc-1",
			Sequence:         seq,
			Kind:             domain.TxDeposit,
			Amount:           decimal.RequireFromString(amount),
			ResultingBalance: decimal.RequireFromString(amount),
			CreatedAt:        time.Now().UTC(),
		})
		if err != nil {
			return err
		}
		return tx.Commit(ctx)
	}

	for seq := int64(1); seq <= 5; seq++ {
		require.NoError(t, appendTxn(seq, "10"))
	}

	t.Run("duplicate sequence rejected", func(t *testing.T) {
		require.Error(t, appendTxn(3, "10"))
	})

	t.Run("full history oldest first", func(t *testing.T) {
		txns, err := repo.ListByAccount(ctx, "acc-1", 0, 0)
		require.NoError(t, err)
		require.Len(t, txns, 5)
		for i, txn := range txns {
			require.Equal(t, int64(i+1), txn.Sequence)
			require.True(t, txn.Amount.Equal(decimal.RequireFromString("10")))
		}
	})

	t.Run("paginated", func(t *testing.T) {
		txns, err := repo.ListByAccount(ctx, "acc-1", 2, 2)
		require.NoError(t, err)
		require.Len(t, txns, 2)
		require.Equal(t, int64(3), txns[0].Sequence)
		require.Equal(t, int64(4), txns[1].Sequence)
	})

	t.Run("count", func(t *testing.T) {
		count, err := repo.CountByAccount(ctx, "acc-1")
		require.NoError(t, err)
		require.Equal(t, int64(5), count)
	})

	t.Run("empty account", func(t *testing.T) {
		txns, err := repo.ListByAccount(ctx, "other", 0, 0)
		require.NoError(t, err)
		require.Empty(t, txns)
	})
}

func TestHolderRepository(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	repo := NewHolderRepository(store)

	createHolder(t, store, "holder-1")

	t.Run("get by id", func(t *testing.T) {
		holder, err := repo.GetByID(ctx, "holder-1")
		require.NoError(t, err)
		require.Equal(t, "Claire", holder.FirstName)
		require.Equal(t, "Moreau", holder.LastName)
		require.Equal(t, 1988, holder.BirthDate.Year())
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repo.GetByID(ctx, "missing")
		require.ErrorIs(t, err, domain.ErrHolderNotFound)
	})

	t.Run("zero birth date stored as null", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, &domain.Holder{
			ID: "holder-2", FirstName: "Paul", LastName: "Roux", CreatedAt: time.Now().UTC(),
		}))

		holder, err := repo.GetByID(ctx, "holder-2")
		require.NoError(t, err)
		require.True(t, holder.BirthDate.IsZero())
	})

	t.Run("list", func(t *testing.T) {
		holders, err := repo.List(ctx, 10, 0)
		require.NoError(t, err)
		require.Len(t, holders, 2)
	})
}

func TestOutboxRepository(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	repo := NewOutboxRepository(store)
	txm := NewTxManager(store)

	tx, err := txm.Begin(ctx)
	require.NoError(t, err)

	event := &domain.OutboxEvent{
		AggregateID:   "acc-1",
		AggregateType: domain.AggregateTypeAccount,
		EventType:     domain.EventTypeDepositCommitted,
		Payload:       map[string]any{"amount": "10.00"},
		CreatedAt:     time.Now().UTC(),
	}
	require.NoError(t, repo.Create(ctx, tx, event))
	require.NotEmpty(t, event.ID)
	require.NoError(t, tx.Commit(ctx))

	unpublished, err := repo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	require.Len(t, unpublished, 1)
	require.Equal(t, "10.00", unpublished[0].Payload["amount"])

	require.NoError(t, repo.MarkPublished(ctx, event.ID, time.Now().UTC()))

	unpublished, err = repo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, unpublished)

	require.NoError(t, repo.DeletePublished(ctx, time.Now().UTC().Add(time.Minute)))

	unpublished, err = repo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, unpublished)
}

// The ledger use case running against the real sqlite backend.
func TestLedgerOverSQLite(t *testing.T) {
	store := newTestStore(t)
	createHolder(t, store, "holder-1")

	now := time.Now().UTC()
	createAccount(t, store, &domain.Account{
		ID: "acc-1", HolderID: "holder-1", Kind: domain.KindCurrent,
		Balance: decimal.Zero, OverdraftLimit: decimal.RequireFromString("500"),
		InterestRate: decimal.Zero, CreatedAt: now, UpdatedAt: now,
	})

	ledger := usecase.NewLedgerUseCase(
		NewTxManager(store),
		NewAccountRepository(store),
		NewTransactionRepository(store),
		NewOutboxRepository(store),
		seqLocker{},
		ulidLike{},
		nil,
	)

	ctx := context.Background()

	balance, err := ledger.Deposit(ctx, "acc-1", decimal.RequireFromString("1250"))
	require.NoError(t, err)
	require.True(t, balance.Equal(decimal.RequireFromString("1250")))

	balance, err = ledger.Withdraw(ctx, "acc-1", decimal.RequireFromString("1750"))
	require.NoError(t, err)
	require.True(t, balance.Equal(decimal.RequireFromString("-500")))

	_, err = ledger.Withdraw(ctx, "acc-1", decimal.RequireFromString("0.01"))
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	txns, err := ledger.ListTransactions(ctx, usecase.ListTransactionsInput{AccountID: "acc-1"})
	require.NoError(t, err)
	require.Len(t, txns, 2)
	require.Equal(t, int64(1), txns[0].Sequence)
	require.Equal(t, int64(2), txns[1].Sequence)
	require.True(t, txns[1].ResultingBalance.Equal(decimal.RequireFromString("-500")))

	recon := usecase.NewReconciliationUseCase(NewAccountRepository(store), NewTransactionRepository(store))
	result, err := recon.VerifyAccount(ctx, "acc-1")
	require.NoError(t, err)
	require.True(t, result.IsReconciled)
	require.True(t, result.CalculatedBalance.Equal(decimal.RequireFromString("-500")))
	require.Equal(t, int64(2), result.TransactionCount)
}

// seqLocker runs fn inline; single-goroutine tests need no real lock.
type seqLocker struct{}

func (seqLocker) WithAccountLock(ctx context.Context, accountID string, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type ulidLike struct{}

func (ulidLike) Generate() string {
	return ulid.Make().String()
}
