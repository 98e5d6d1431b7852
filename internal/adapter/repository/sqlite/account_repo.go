package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	db *sql.DB
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(store *Store) *AccountRepository {
	return &AccountRepository{db: store.DB()}
}

const accountColumns = `id, holder_id, kind, balance, overdraft_limit, interest_rate, version, created_at, updated_at`

// Create inserts a new account inside tx.
func (r *AccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := sqlTx(tx).ExecContext(ctx, query,
		account.ID,
		account.HolderID,
		string(account.Kind),
		account.Balance.String(),
		account.OverdraftLimit.String(),
		account.InterestRate.String(),
		account.Version,
		encodeTime(account.CreatedAt),
		encodeTime(account.UpdatedAt),
	)

	return err
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = ?`

	return scanAccount(r.db.QueryRowContext(ctx, query, id))
}

// GetByIDForUpdate retrieves an account by ID inside tx. SQLite has no
// row locks; the transaction itself serializes writers.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = ?`

	return scanAccount(sqlTx(tx).QueryRowContext(ctx, query, id))
}

// UpdateBalance sets the new balance, bumps the version and moves
// updated_at forward.
func (r *AccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	query := `
		UPDATE accounts
		SET balance = ?, version = version + 1, updated_at = ?
		WHERE id = ?
	`

	result, err := sqlTx(tx).ExecContext(ctx, query, balance.String(), encodeTime(updatedAt), id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// List lists accounts with pagination, oldest first.
func (r *AccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		ORDER BY created_at, id
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(row scanner) (*domain.Account, error) {
	var (
		account        domain.Account
		kind           string
		balance        string
		overdraftLimit string
		interestRate   string
		createdAt      string
		updatedAt      string
	)

	err := row.Scan(
		&account.ID,
		&account.HolderID,
		&kind,
		&balance,
		&overdraftLimit,
		&interestRate,
		&account.Version,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	account.Kind = domain.AccountKind(kind)
	if account.Balance, err = decodeDecimal(balance); err != nil {
		return nil, err
	}
	if account.OverdraftLimit, err = decodeDecimal(overdraftLimit); err != nil {
		return nil, err
	}
	if account.InterestRate, err = decodeDecimal(interestRate); err != nil {
		return nil, err
	}
	if account.CreatedAt, err = decodeTime(createdAt); err != nil {
		return nil, err
	}
	if account.UpdatedAt, err = decodeTime(updatedAt); err != nil {
		return nil, err
	}

	return &account, nil
}

// Encoding helpers. Decimals are stored as their canonical string form
// and timestamps as RFC 3339 with nanoseconds, both lossless.
func decodeDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("corrupt decimal %q: %w", s, err)
	}
	return d, nil
}

func encodeTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func decodeTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("corrupt timestamp %q: %w", s, err)
	}
	return t, nil
}
