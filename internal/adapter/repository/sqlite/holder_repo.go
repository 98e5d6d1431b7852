package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iho/bankledger/internal/domain"
)

// HolderRepository implements usecase.HolderRepository.
type HolderRepository struct {
	db *sql.DB
}

// NewHolderRepository creates a new HolderRepository.
func NewHolderRepository(store *Store) *HolderRepository {
	return &HolderRepository{db: store.DB()}
}

const holderColumns = `id, first_name, last_name, birth_date, address, created_at`

// Create inserts a new holder.
func (r *HolderRepository) Create(ctx context.Context, holder *domain.Holder) error {
	query := `
		INSERT INTO holders (` + holderColumns + `)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	var birthDate any
	if !holder.BirthDate.IsZero() {
		birthDate = encodeTime(holder.BirthDate)
	}

	_, err := r.db.ExecContext(ctx, query,
		holder.ID,
		holder.FirstName,
		holder.LastName,
		birthDate,
		holder.Address,
		encodeTime(holder.CreatedAt),
	)

	return err
}

// GetByID retrieves a holder by ID.
func (r *HolderRepository) GetByID(ctx context.Context, id string) (*domain.Holder, error) {
	query := `SELECT ` + holderColumns + ` FROM holders WHERE id = ?`

	return scanHolder(r.db.QueryRowContext(ctx, query, id))
}

// List lists holders with pagination, oldest first.
func (r *HolderRepository) List(ctx context.Context, limit, offset int) ([]*domain.Holder, error) {
	query := `
		SELECT ` + holderColumns + `
		FROM holders
		ORDER BY created_at, id
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
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

func scanHolder(row scanner) (*domain.Holder, error) {
	var (
		holder    domain.Holder
		birthDate sql.NullString
		createdAt string
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
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrHolderNotFound
		}

		return nil, err
	}

	if birthDate.Valid {
		if holder.BirthDate, err = decodeTime(birthDate.String); err != nil {
			return nil, err
		}
	}
	if holder.CreatedAt, err = decodeTime(createdAt); err != nil {
		return nil, err
	}

	return &holder, nil
}
