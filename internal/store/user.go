package store

import (
	"context"
	"time"

	"github.com/krushiiq/apiserver/types"
)

// UserRepository handles persistence for users.
type UserRepository struct {
	gw Gateway
}

func NewUserRepository(gw Gateway) *UserRepository {
	return &UserRepository{gw: gw}
}

type userDocument struct {
	ID           string    `bson:"_id,omitempty"`
	Username     string    `bson:"username"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password"`
	CreatedAt    time.Time `bson:"created_at"`
}

func (d userDocument) toUser() types.User {
	return types.User{
		ID:           d.ID,
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt,
	}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (types.User, error) {
	return r.findOne(ctx, Filter{idField: id})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (types.User, error) {
	return r.findOne(ctx, Filter{"email": email})
}

func (r *UserRepository) Create(ctx context.Context, user types.User) (types.User, error) {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	id, err := r.gw.InsertOne(ctx, CollectionUsers, userDocument{
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt,
	})
	if err != nil {
		return types.User{}, err
	}
	user.ID = id
	return user, nil
}

func (r *UserRepository) findOne(ctx context.Context, filter Filter) (types.User, error) {
	var doc userDocument
	if err := r.gw.FindOne(ctx, CollectionUsers, filter, &doc); err != nil {
		return types.User{}, err
	}
	return doc.toUser(), nil
}
