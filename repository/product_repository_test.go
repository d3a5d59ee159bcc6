package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lugamandu/backend/models"
	"github.com/lugamandu/backend/repository"
	"github.com/lugamandu/backend/store/memory"
)

func TestCreateProduct_StampsKeyBack(t *testing.T) {
	repo := repository.NewProductRepository(memory.New())
	ctx := context.Background()

	product := &models.Product{Name: "Sajha Topi", Price: 500}
	assert.NoError(t, repo.Create(ctx, product))
	assert.NotEmpty(t, product.ID)

	products, err := repo.List(ctx)
	assert.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, product.ID, products[0].ID)
	assert.Equal(t, "Sajha Topi", products[0].Name)
}

func TestListProducts_SkipsMalformedChildren(t *testing.T) {
	s := memory.New()
	repo := repository.NewProductRepository(s)
	ctx := context.Background()

	assert.NoError(t, s.Write(ctx, "products/good", models.Product{ID: "good", Name: "ok", Price: 10}.ToMap()))
	assert.NoError(t, s.Write(ctx, "products/bad", map[string]any{"garbage": true}))

	products, err := repo.List(ctx)
	assert.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, "good", products[0].ID)
}

func TestUpdateProduct_RequiresID(t *testing.T) {
	repo := repository.NewProductRepository(memory.New())
	err := repo.Update(context.Background(), &models.Product{Name: "no id"})
	assert.ErrorIs(t, err, repository.ErrMissingID)
}

func TestUpdateProduct_MergesByID(t *testing.T) {
	repo := repository.NewProductRepository(memory.New())
	ctx := context.Background()

	product := &models.Product{Name: "Topi", Price: 500}
	assert.NoError(t, repo.Create(ctx, product))

	product.Price = 650
	assert.NoError(t, repo.Update(ctx, product))

	products, err := repo.List(ctx)
	assert.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, 650.0, products[0].Price)
}

func TestDeleteProduct(t *testing.T) {
	repo := repository.NewProductRepository(memory.New())
	ctx := context.Background()

	product := &models.Product{Name: "Topi", Price: 500}
	assert.NoError(t, repo.Create(ctx, product))
	assert.NoError(t, repo.Delete(ctx, product.ID))

	products, err := repo.List(ctx)
	assert.NoError(t, err)
	assert.Empty(t, products)
}

func TestWatchProducts(t *testing.T) {
	repo := repository.NewProductRepository(memory.New())
	ctx := context.Background()

	updates, cancel, err := repo.Watch(ctx)
	assert.NoError(t, err)
	defer cancel()

	assert.Empty(t, <-updates)

	assert.NoError(t, repo.Create(ctx, &models.Product{Name: "Topi", Price: 500}))
	assert.Len(t, <-updates, 1)
}
