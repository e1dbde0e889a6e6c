package services

import (
	"context"
	"errors"

	"github.com/krushiiq/apiserver/internal/store"
	"github.com/krushiiq/apiserver/types"
)

// FarmerRepository defines persistence operations for farmer profiles.
type FarmerRepository interface {
	GetByName(ctx context.Context, name string) (types.FarmerProfile, error)
	Upsert(ctx context.Context, profile types.FarmerProfile) (types.FarmerProfile, error)
}

type FarmerService struct {
	repo FarmerRepository
}

func NewFarmerService(repo FarmerRepository) *FarmerService {
	return &FarmerService{repo: repo}
}

func (s *FarmerService) Get(ctx context.Context, name string) (types.FarmerProfile, error) {
	profile, err := s.repo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.FarmerProfile{}, newError(ErrNotFound, "Farmer '%s' not found.", name)
		}
		return types.FarmerProfile{}, err
	}
	return profile, nil
}

// Save creates or replaces the profile keyed by its name.
func (s *FarmerService) Save(ctx context.Context, profile types.FarmerProfile) (types.FarmerProfile, error) {
	return s.repo.Upsert(ctx, profile)
}
