package repository

import (
	"context"
	"errors"

	"github.com/lugamandu/backend/models"
	"github.com/lugamandu/backend/store"
)

// ErrMissingID is returned by update/delete paths called without a record id.
var ErrMissingID = errors.New("record id is required")

// ProductRepository maps catalog products to/from the record store.
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, productID string) error
	List(ctx context.Context) ([]models.Product, error)
	Watch(ctx context.Context) (<-chan []models.Product, func(), error)
}

const productsPath = "products"

type storeProductRepository struct {
	client store.Client
}

func NewProductRepository(client store.Client) ProductRepository {
	return &storeProductRepository{client: client}
}

// Create assigns a fresh push key, stamps it back into the record, then
// writes the full record under that key.
func (r *storeProductRepository) Create(ctx context.Context, product *models.Product) error {
	id := r.client.GenerateKey()
	product.ID = id
	return r.client.Write(ctx, productsPath+"/"+id, product.ToMap())
}

func (r *storeProductRepository) Update(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		return ErrMissingID
	}
	return r.client.Update(ctx, productsPath+"/"+product.ID, product.ToMap())
}

func (r *storeProductRepository) Delete(ctx context.Context, productID string) error {
	if productID == "" {
		return ErrMissingID
	}
	return r.client.Delete(ctx, productsPath+"/"+productID)
}

func (r *storeProductRepository) List(ctx context.Context) ([]models.Product, error) {
	snap, err := r.client.Once(ctx, productsPath)
	if err != nil {
		return nil, err
	}
	return productsFromSnapshot(snap), nil
}

// Watch mirrors the product collection continuously until cancel is called.
func (r *storeProductRepository) Watch(ctx context.Context) (<-chan []models.Product, func(), error) {
	snaps, cancel, err := r.client.Subscribe(ctx, productsPath)
	if err != nil {
		return nil, nil, err
	}
	out := make(chan []models.Product, 1)
	go func() {
		defer close(out)
		for snap := range snaps {
			out <- productsFromSnapshot(snap)
		}
	}()
	return out, cancel, nil
}

func productsFromSnapshot(snap store.Snapshot) []models.Product {
	products := make([]models.Product, 0, len(snap.Children))
	for _, child := range snap.Children {
		// Malformed children are skipped, not surfaced.
		if p, ok := models.ProductFromMap(child.Record); ok {
			products = append(products, p)
		}
	}
	return products
}
