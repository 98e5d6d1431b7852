package sqlite

import (
	"context"
	"database/sql"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(store *Store) *TransactionRepository {
	return &TransactionRepository{db: store.DB()}
}

const txnColumns = `id, account_id, seq, kind, amount, resulting_balance, created_at`

// Append inserts a new log entry inside tx. The unique (account_id,
// seq) index makes a duplicate sequence a hard failure.
func (r *TransactionRepository) Append(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	query := `
		INSERT INTO transactions (` + txnColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := sqlTx(tx).ExecContext(ctx, query,
		txn.ID,
		txn.AccountID,
		txn.Sequence,
		string(txn.Kind),
		txn.Amount.String(),
		txn.ResultingBalance.String(),
		encodeTime(txn.CreatedAt),
	)

	return err
}

// ListByAccount returns the account's history oldest first. A limit
// <= 0 returns the full history.
func (r *TransactionRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transaction, error) {
	query := `
		SELECT ` + txnColumns + `
		FROM transactions
		WHERE account_id = ?
		ORDER BY seq
	`
	args := []any{accountID}

	if limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []*domain.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}

	return txns, rows.Err()
}

// CountByAccount returns the number of log entries for an account.
func (r *TransactionRepository) CountByAccount(ctx context.Context, accountID string) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions WHERE account_id = ?`, accountID).Scan(&count)
	return count, err
}

func scanTransaction(row scanner) (*domain.Transaction, error) {
	var (
		txn              domain.Transaction
		kind             string
		amount           string
		resultingBalance string
		createdAt        string
	)

	err := row.Scan(
		&txn.ID,
		&txn.AccountID,
		&txn.Sequence,
		&kind,
		&amount,
		&resultingBalance,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	txn.Kind = domain.TransactionKind(kind)
	if txn.Amount, err = decodeDecimal(amount); err != nil {
		return nil, err
	}
	if txn.ResultingBalance, err = decodeDecimal(resultingBalance); err != nil {
		return nil, err
	}
	if txn.CreatedAt, err = decodeTime(createdAt); err != nil {
		return nil, err
	}

	return &txn, nil
}
