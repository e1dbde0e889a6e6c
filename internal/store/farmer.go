package store

import (
	"context"
	"time"

	"github.com/krushiiq/apiserver/types"
)

// FarmerRepository handles persistence for farmer profiles.
type FarmerRepository struct {
	gw Gateway
}

func NewFarmerRepository(gw Gateway) *FarmerRepository {
	return &FarmerRepository{gw: gw}
}

func (r *FarmerRepository) GetByName(ctx context.Context, name string) (types.FarmerProfile, error) {
	var profile types.FarmerProfile
	if err := r.gw.FindOne(ctx, CollectionFarmers, Filter{"name": name}, &profile); err != nil {
		return types.FarmerProfile{}, err
	}
	return profile, nil
}

// Upsert replaces the profile stored under profile.Name.
func (r *FarmerRepository) Upsert(ctx context.Context, profile types.FarmerProfile) (types.FarmerProfile, error) {
	profile.UpdatedAt = time.Now().UTC()
	if err := r.gw.UpsertOne(ctx, CollectionFarmers, Filter{"name": profile.Name}, profile); err != nil {
		return types.FarmerProfile{}, err
	}
	return profile, nil
}
