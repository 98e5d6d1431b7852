package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
	"github.com/iho/bankledger/internal/usecase/mocks"
)

type accountFixture struct {
	accounts *mocks.MockAccountRepository
	txns     *mocks.MockTransactionRepository
	outbox   *mocks.MockOutboxRepository
	holders  *mocks.MockHolderRepository
	uc       *usecase.AccountUseCase
}

func newAccountFixture() *accountFixture {
	accounts := mocks.NewMockAccountRepository()
	txns := mocks.NewMockTransactionRepository()
	outbox := mocks.NewMockOutboxRepository()
	holders := mocks.NewMockHolderRepository()

	uc := usecase.NewAccountUseCase(
		mocks.NewMockTransactionManager(),
		accounts,
		txns,
		outbox,
		holders,
		mocks.NewMockIDGenerator(),
		nil,
	)

	f := &accountFixture{accounts: accounts, txns: txns, outbox: outbox, holders: holders, uc: uc}
	holders.Create(context.Background(), &domain.Holder{
		ID:        "holder-1",
		FirstName: "Marie",
		LastName:  "Dupont",
		BirthDate: time.Date(1990, 4, 2, 0, 0, 0, 0, time.UTC),
	})
	return f
}

func TestAccountUseCase_OpenAccount(t *testing.T) {
	tests := []struct {
		name    string
		input   usecase.OpenAccountInput
		wantErr error
	}{
		{
			name: "current account with overdraft",
			input: usecase.OpenAccountInput{
				HolderID:       "holder-1",
				Kind:           domain.KindCurrent,
				InitialBalance: dec("1000"),
				OverdraftLimit: dec("500"),
			},
		},
		{
			name: "savings account with rate",
			input: usecase.OpenAccountInput{
				HolderID:       "holder-1",
				Kind:           domain.KindSavings,
				InitialBalance: dec("200"),
				InterestRate:   dec("5"),
			},
		},
		{
			name: "zero initial balance",
			input: usecase.OpenAccountInput{
				HolderID: "holder-1",
				Kind:     domain.KindCurrent,
			},
		},
		{
			name: "unknown kind",
			input: usecase.OpenAccountInput{
				HolderID: "holder-1",
				Kind:     domain.AccountKind("checking"),
			},
			wantErr: domain.ErrInvalidAccountParameters,
		},
		{
			name: "negative initial balance",
			input: usecase.OpenAccountInput{
				HolderID:       "holder-1",
				Kind:           domain.KindCurrent,
				InitialBalance: dec("-1"),
			},
			wantErr: domain.ErrInvalidAccountParameters,
		},
		{
			name: "negative overdraft",
			input: usecase.OpenAccountInput{
				HolderID:       "holder-1",
				Kind:           domain.KindCurrent,
				OverdraftLimit: dec("-10"),
			},
			wantErr: domain.ErrInvalidAccountParameters,
		},
		{
			name: "savings with overdraft",
			input: usecase.OpenAccountInput{
				HolderID:       "holder-1",
				Kind:           domain.KindSavings,
				OverdraftLimit: dec("100"),
			},
			wantErr: domain.ErrInvalidAccountParameters,
		},
		{
			name: "current with interest rate",
			input: usecase.OpenAccountInput{
				HolderID:     "holder-1",
				Kind:         domain.KindCurrent,
				InterestRate: dec("2"),
			},
			wantErr: domain.ErrInvalidAccountParameters,
		},
		{
			name: "unknown holder",
			input: usecase.OpenAccountInput{
				HolderID: "nobody",
				Kind:     domain.KindCurrent,
			},
			wantErr: domain.ErrHolderNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAccountFixture()

			account, err := f.uc.OpenAccount(context.Background(), tt.input)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("OpenAccount() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("OpenAccount() error = %v", err)
			}
			if account.ID == "" {
				t.Error("account has no id")
			}
			if !account.Balance.Equal(tt.input.InitialBalance) {
				t.Errorf("balance = %s, want %s", account.Balance, tt.input.InitialBalance)
			}
		})
	}
}

func TestAccountUseCase_OpenAccount_RecordsOpeningDeposit(t *testing.T) {
	f := newAccountFixture()

	account, err := f.uc.OpenAccount(context.Background(), usecase.OpenAccountInput{
		HolderID:       "holder-1",
		Kind:           domain.KindCurrent,
		InitialBalance: dec("750"),
		OverdraftLimit: dec("100"),
	})
	if err != nil {
		t.Fatalf("OpenAccount() error = %v", err)
	}

	txns, err := f.txns.ListByAccount(context.Background(), account.ID, 0, 0)
	if err != nil {
		t.Fatalf("ListByAccount() error = %v", err)
	}
	if len(txns) != 1 {
		t.Fatalf("transactions = %d, want 1 opening deposit", len(txns))
	}
	opening := txns[0]
	if opening.Kind != domain.TxDeposit {
		t.Errorf("kind = %s, want deposit", opening.Kind)
	}
	if opening.Sequence != 1 {
		t.Errorf("sequence = %d, want 1", opening.Sequence)
	}
	if !opening.ResultingBalance.Equal(dec("750")) {
		t.Errorf("resulting balance = %s, want 750", opening.ResultingBalance)
	}
	if account.Version != 1 {
		t.Errorf("version = %d, want 1", account.Version)
	}
}

func TestAccountUseCase_OpenAccount_ZeroBalanceWritesNoTransaction(t *testing.T) {
	f := newAccountFixture()

	account, err := f.uc.OpenAccount(context.Background(), usecase.OpenAccountInput{
		HolderID: "holder-1",
		Kind:     domain.KindSavings,
	})
	if err != nil {
		t.Fatalf("OpenAccount() error = %v", err)
	}

	txns, err := f.txns.ListByAccount(context.Background(), account.ID, 0, 0)
	if err != nil {
		t.Fatalf("ListByAccount() error = %v", err)
	}
	if len(txns) != 0 {
		t.Errorf("transactions = %d, want 0", len(txns))
	}
	if account.Version != 0 {
		t.Errorf("version = %d, want 0", account.Version)
	}
}

func TestAccountUseCase_OpenAccount_EmitsOpenedEvent(t *testing.T) {
	f := newAccountFixture()

	account, err := f.uc.OpenAccount(context.Background(), usecase.OpenAccountInput{
		HolderID: "holder-1",
		Kind:     domain.KindCurrent,
	})
	if err != nil {
		t.Fatalf("OpenAccount() error = %v", err)
	}

	events := f.outbox.Events()
	if len(events) != 1 {
		t.Fatalf("outbox events = %d, want 1", len(events))
	}
	if events[0].EventType != domain.EventTypeAccountOpened {
		t.Errorf("event type = %q, want %q", events[0].EventType, domain.EventTypeAccountOpened)
	}
	if events[0].AggregateID != account.ID {
		t.Errorf("aggregate id = %q, want %q", events[0].AggregateID, account.ID)
	}
}

type accountStatsStub struct {
	opened int
}

func (s *accountStatsStub) AccountOpened() {
	s.opened++
}

func TestAccountUseCase_OpenAccount_CountsOpenedAccounts(t *testing.T) {
	f := newAccountFixture()
	stats := &accountStatsStub{}
	uc := usecase.NewAccountUseCase(
		mocks.NewMockTransactionManager(),
		f.accounts,
		f.txns,
		f.outbox,
		f.holders,
		mocks.NewMockIDGenerator(),
		stats,
	)

	if _, err := uc.OpenAccount(context.Background(), usecase.OpenAccountInput{
		HolderID: "holder-1",
		Kind:     domain.KindCurrent,
	}); err != nil {
		t.Fatalf("OpenAccount() error = %v", err)
	}
	if stats.opened != 1 {
		t.Fatalf("opened = %d, want 1", stats.opened)
	}

	// A rejected open is not counted.
	if _, err := uc.OpenAccount(context.Background(), usecase.OpenAccountInput{
		HolderID: "holder-1",
		Kind:     domain.AccountKind("checking"),
	}); err == nil {
		t.Fatal("expected an error for an unknown kind")
	}
	if stats.opened != 1 {
		t.Errorf("opened = %d after rejection, want 1", stats.opened)
	}
}

func TestAccountUseCase_GetAccount(t *testing.T) {
	f := newAccountFixture()
	f.accounts.Seed(&domain.Account{ID: "acc-1", HolderID: "holder-1", Kind: domain.KindCurrent, Balance: decimal.Zero})

	account, err := f.uc.GetAccount(context.Background(), "acc-1")
	if err != nil {
		t.Fatalf("GetAccount() error = %v", err)
	}
	if account.ID != "acc-1" {
		t.Errorf("id = %q, want acc-1", account.ID)
	}

	if _, err := f.uc.GetAccount(context.Background(), "missing"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("error = %v, want ErrAccountNotFound", err)
	}
}

func TestAccountUseCase_ListAccounts(t *testing.T) {
	f := newAccountFixture()
	for _, id := range []string{"acc-1", "acc-2", "acc-3"} {
		f.accounts.Seed(&domain.Account{ID: id, HolderID: "holder-1", Kind: domain.KindCurrent, Balance: decimal.Zero})
	}

	accounts, err := f.uc.ListAccounts(context.Background(), usecase.ListAccountsInput{Limit: 10})
	if err != nil {
		t.Fatalf("ListAccounts() error = %v", err)
	}
	if len(accounts) != 3 {
		t.Errorf("accounts = %d, want 3", len(accounts))
	}
}
