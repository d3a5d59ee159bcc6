package repository

import (
	"context"

	"github.com/lugamandu/backend/models"
	"github.com/lugamandu/backend/store"
)

// ReviewRepository maps reviews to/from the record store. No ordering is
// guaranteed on reads; callers get whatever order the store yields.
type ReviewRepository interface {
	Add(ctx context.Context, review *models.Review) error
	All(ctx context.Context) ([]models.Review, error)
	ByProduct(ctx context.Context, productID string) ([]models.Review, error)
	WatchAll(ctx context.Context) (<-chan []models.Review, func(), error)

	// Delete removes by id and reports only success/failure. Deleting an
	// id that does not exist is a success; the store's delete is
	// idempotent.
	Delete(ctx context.Context, reviewID string) error
}

const reviewsPath = "reviews"

type storeReviewRepository struct {
	client store.Client
}

func NewReviewRepository(client store.Client) ReviewRepository {
	return &storeReviewRepository{client: client}
}

func (r *storeReviewRepository) Add(ctx context.Context, review *models.Review) error {
	id := r.client.GenerateKey()
	review.ReviewID = id
	return r.client.Write(ctx, reviewsPath+"/"+id, review.ToMap())
}

func (r *storeReviewRepository) All(ctx context.Context) ([]models.Review, error) {
	snap, err := r.client.Once(ctx, reviewsPath)
	if err != nil {
		return nil, err
	}
	return reviewsFromSnapshot(snap), nil
}

// ByProduct uses the store's equality index on productId.
func (r *storeReviewRepository) ByProduct(ctx context.Context, productID string) ([]models.Review, error) {
	snap, err := r.client.QueryEqual(ctx, reviewsPath, "productId", productID)
	if err != nil {
		return nil, err
	}
	return reviewsFromSnapshot(snap), nil
}

func (r *storeReviewRepository) WatchAll(ctx context.Context) (<-chan []models.Review, func(), error) {
	snaps, cancel, err := r.client.Subscribe(ctx, reviewsPath)
	if err != nil {
		return nil, nil, err
	}
	out := make(chan []models.Review, 1)
	go func() {
		defer close(out)
		for snap := range snaps {
			out <- reviewsFromSnapshot(snap)
		}
	}()
	return out, cancel, nil
}

func (r *storeReviewRepository) Delete(ctx context.Context, reviewID string) error {
	if reviewID == "" {
		return ErrMissingID
	}
	return r.client.Delete(ctx, reviewsPath+"/"+reviewID)
}

func reviewsFromSnapshot(snap store.Snapshot) []models.Review {
	reviews := make([]models.Review, 0, len(snap.Children))
	for _, child := range snap.Children {
		if review, ok := models.ReviewFromMap(child.Record); ok {
			reviews = append(reviews, review)
		}
	}
	return reviews
}
