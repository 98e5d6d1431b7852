package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository. The
// transactions table is append-only; there is no update or delete path.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const txnColumns = `id, account_id, seq, kind, amount, resulting_balance, created_at`

// Append inserts a new log entry inside tx. The unique (account_id,
// seq) index makes a duplicate sequence a hard failure.
func (r *TransactionRepository) Append(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	query := `
		INSERT INTO transactions (` + txnColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := pgxTx(tx).Exec(ctx, query,
		txn.ID,
		txn.AccountID,
		txn.Sequence,
		string(txn.Kind),
		decimalToNumeric(txn.Amount),
		decimalToNumeric(txn.ResultingBalance),
		timeToPgTimestamptz(txn.CreatedAt),
	)

	return err
}

// ListByAccount returns the account's history oldest first. A limit
// <= 0 returns the full history.
func (r *TransactionRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transaction, error) {
	query := `
		SELECT ` + txnColumns + `
		FROM transactions
		WHERE account_id = $1
		ORDER BY seq
	`
	args := []any{accountID}

	if limit > 0 {
		query += ` LIMIT $2 OFFSET $3`
		args = append(args, limit, offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
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
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE account_id = $1`, accountID).Scan(&count)
	return count, err
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		txn              domain.Transaction
		kind             string
		amount           pgtype.Numeric
		resultingBalance pgtype.Numeric
		createdAt        pgtype.Timestamptz
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
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	txn.Kind = domain.TransactionKind(kind)
	txn.Amount = numericToDecimal(amount)
	txn.ResultingBalance = numericToDecimal(resultingBalance)
	txn.CreatedAt = createdAt.Time

	return &txn, nil
}
