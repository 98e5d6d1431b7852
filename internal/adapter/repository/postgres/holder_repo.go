package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/bankledger/internal/domain"
)

// HolderRepository implements usecase.HolderRepository.
type HolderRepository struct {
	pool *pgxpool.Pool
}

// NewHolderRepository creates a new HolderRepository.
func NewHolderRepository(pool *pgxpool.Pool) *HolderRepository {
	return &HolderRepository{pool: pool}
}

const holderColumns = `id, first_name, last_name, birth_date, address, created_at`

// Create inserts a new holder.
func (r *HolderRepository) Create(ctx context.Context, holder *domain.Holder) error {
	query := `
		INSERT INTO holders (` + holderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		holder.ID,
		holder.FirstName,
		holder.LastName,
		pgtype.Date{Time: holder.BirthDate, Valid: !holder.BirthDate.IsZero()},
		holder.Address,
		timeToPgTimestamptz(holder.CreatedAt),
	)

	return err
}

// GetByID retrieves a holder by ID.
func (r *HolderRepository) GetByID(ctx context.Context, id string) (*domain.Holder, error) {
	query := `SELECT ` + holderColumns + ` FROM holders WHERE id = $1`

	return scanHolder(r.pool.QueryRow(ctx, query, id))
}

// List lists holders with pagination, oldest first.
func (r *HolderRepository) List(ctx context.Context, limit, offset int) ([]*domain.Holder, error) {
	query := `
		SELECT ` + holderColumns + `
		FROM holders
		ORDER BY created_at, id
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holders []*domain.Holder
	for rows.Next() {
		holder, err := scanHolder(rows)
		if err != nil {
			return nil, err
		}
		holders = append(holders, holder)
	}

	return holders, rows.Err()
}

func scanHolder(row pgx.Row) (*domain.Holder, error) {
	var (
		holder    domain.Holder
		birthDate pgtype.Date
		createdAt pgtype.Timestamptz
	)

	err := row.Scan(
		&holder.ID,
		&holder.FirstName,
		&holder.LastName,
		&birthDate,
		&holder.Address,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrHolderNotFound
		}

		return nil, err
	}

	holder.BirthDate = birthDate.Time
	holder.CreatedAt = createdAt.Time

	return &holder, nil
}
