package repository

import (
	"context"
	"errors"

	"github.com/lugamandu/backend/models"
	"github.com/lugamandu/backend/store"
)

// ErrUserNotFound is returned when no profile record exists for a user id.
var ErrUserNotFound = errors.New("user not found")

// UserRepository maps user profiles to/from the record store.
type UserRepository interface {
	Get(ctx context.Context, userID string) (models.User, error)

	// UpdateProfile merges only the mutable profile fields; identity
	// fields never change through this path.
	UpdateProfile(ctx context.Context, userID, contact string) error

	// DisplayName resolves the name shown on reviews: profile name, else
	// email, else "Anonymous". Lookup failures fall back to "Anonymous".
	DisplayName(ctx context.Context, userID string) string
}

const usersPath = "users"

type storeUserRepository struct {
	client store.Client
}

func NewUserRepository(client store.Client) UserRepository {
	return &storeUserRepository{client: client}
}

func (r *storeUserRepository) Get(ctx context.Context, userID string) (models.User, error) {
	record, err := r.client.Get(ctx, usersPath+"/"+userID)
	if err != nil {
		return models.User{}, err
	}
	if record == nil {
		return models.User{}, ErrUserNotFound
	}
	user, ok := models.UserFromMap(record)
	if !ok {
		return models.User{}, ErrUserNotFound
	}
	return user, nil
}

func (r *storeUserRepository) UpdateProfile(ctx context.Context, userID, contact string) error {
	if userID == "" {
		return ErrMissingID
	}
	return r.client.Update(ctx, usersPath+"/"+userID, map[string]any{"contact": contact})
}

func (r *storeUserRepository) DisplayName(ctx context.Context, userID string) string {
	user, err := r.Get(ctx, userID)
	if err != nil {
		return "Anonymous"
	}
	if user.FirstName != "" {
		if user.LastName != "" {
			return user.FirstName + " " + user.LastName
		}
		return user.FirstName
	}
	if user.Email != "" {
		return user.Email
	}
	return "Anonymous"
}
