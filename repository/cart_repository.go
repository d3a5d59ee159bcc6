package repository

import (
	"context"

	"github.com/lugamandu/backend/models"
	"github.com/lugamandu/backend/store"
)

// CartRepository maps a user's cart lines to/from the record store. Lines
// live under carts/<userId>/<cartItemId>.
type CartRepository interface {
	Add(ctx context.Context, userID string, line *models.CartLine) error
	Remove(ctx context.Context, userID, cartItemID string) error
	Items(ctx context.Context, userID string) ([]models.CartLine, error)
	WatchItems(ctx context.Context, userID string) (<-chan []models.CartLine, func(), error)
	Clear(ctx context.Context, userID string) error
}

const cartsPath = "carts"

type storeCartRepository struct {
	client store.Client
}

func NewCartRepository(client store.Client) CartRepository {
	return &storeCartRepository{client: client}
}

func cartPath(userID string) string { return cartsPath + "/" + userID }

func (r *storeCartRepository) Add(ctx context.Context, userID string, line *models.CartLine) error {
	id := r.client.GenerateKey()
	line.CartItemID = id
	return r.client.Write(ctx, cartPath(userID)+"/"+id, line.ToMap())
}

func (r *storeCartRepository) Remove(ctx context.Context, userID, cartItemID string) error {
	if cartItemID == "" {
		return ErrMissingID
	}
	return r.client.Delete(ctx, cartPath(userID)+"/"+cartItemID)
}

func (r *storeCartRepository) Items(ctx context.Context, userID string) ([]models.CartLine, error) {
	snap, err := r.client.Once(ctx, cartPath(userID))
	if err != nil {
		return nil, err
	}
	return cartLinesFromSnapshot(snap), nil
}

func (r *storeCartRepository) WatchItems(ctx context.Context, userID string) (<-chan []models.CartLine, func(), error) {
	snaps, cancel, err := r.client.Subscribe(ctx, cartPath(userID))
	if err != nil {
		return nil, nil, err
	}
	out := make(chan []models.CartLine, 1)
	go func() {
		defer close(out)
		for snap := range snaps {
			out <- cartLinesFromSnapshot(snap)
		}
	}()
	return out, cancel, nil
}

// Clear removes the whole cart node for the user in one call.
func (r *storeCartRepository) Clear(ctx context.Context, userID string) error {
	return r.client.Delete(ctx, cartPath(userID))
}

func cartLinesFromSnapshot(snap store.Snapshot) []models.CartLine {
	lines := make([]models.CartLine, 0, len(snap.Children))
	for _, child := range snap.Children {
		if line, ok := models.CartLineFromMap(child.Record); ok {
			lines = append(lines, line)
		}
	}
	return lines
}
