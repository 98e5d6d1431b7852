package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/iho/bankledger/internal/domain"
)

// HolderUseCase handles account holder records. Holders are immutable
// once created, which makes them safe to cache.
type HolderUseCase struct {
	holderRepo HolderRepository
	cache      Cache
	idGen      IDGenerator
}

// NewHolderUseCase creates a new HolderUseCase. Cache may be nil.
func NewHolderUseCase(holderRepo HolderRepository, cache Cache, idGen IDGenerator) *HolderUseCase {
	return &HolderUseCase{
		holderRepo: holderRepo,
		cache:      cache,
		idGen:      idGen,
	}
}

// CreateHolderInput represents input for creating a holder.
type CreateHolderInput struct {
	FirstName string
	LastName  string
	BirthDate time.Time
	Address   string
}

// CreateHolder creates a new holder.
func (uc *HolderUseCase) CreateHolder(ctx context.Context, input CreateHolderInput) (*domain.Holder, error) {
	if err := domain.ValidateHolderName(input.FirstName); err != nil {
		return nil, err
	}
	if err := domain.ValidateHolderName(input.LastName); err != nil {
		return nil, err
	}

	holder := &domain.Holder{
		ID:        uc.idGen.Generate(),
		FirstName: input.FirstName,
		LastName:  input.LastName,
		BirthDate: input.BirthDate,
		Address:   input.Address,
		CreatedAt: time.Now().UTC(),
	}

	if err := uc.holderRepo.Create(ctx, holder); err != nil {
		return nil, err
	}

	return holder, nil
}

// GetHolder retrieves a holder by ID, reading through the cache when
// one is configured.
func (uc *HolderUseCase) GetHolder(ctx context.Context, id string) (*domain.Holder, error) {
	if uc.cache != nil {
		if cached, err := uc.cache.Get(ctx, holderCacheKey(id)); err == nil && cached != "" {
			var holder domain.Holder
			if err := json.Unmarshal([]byte(cached), &holder); err == nil {
				return &holder, nil
			}
		}
	}

	holder, err := uc.holderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if encoded, err := json.Marshal(holder); err == nil {
			// Best effort: a cache failure never fails the read.
			_ = uc.cache.Set(ctx, holderCacheKey(id), string(encoded), HolderCacheTTL)
		}
	}

	return holder, nil
}

// ListHoldersInput represents input for listing holders.
type ListHoldersInput struct {
	Limit  int
	Offset int
}

// ListHolders lists holders with pagination.
func (uc *HolderUseCase) ListHolders(ctx context.Context, input ListHoldersInput) ([]*domain.Holder, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.holderRepo.List(ctx, limit, offset)
}

func holderCacheKey(id string) string {
	return "holder:" + id
}
