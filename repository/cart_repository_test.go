package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lugamandu/backend/models"
	"github.com/lugamandu/backend/repository"
	"github.com/lugamandu/backend/store/memory"
)

func TestCartAddAndItems(t *testing.T) {
	repo := repository.NewCartRepository(memory.New())
	ctx := context.Background()

	line := &models.CartLine{ProductID: "p1", Quantity: 2}
	assert.NoError(t, repo.Add(ctx, "u1", line))
	assert.NotEmpty(t, line.CartItemID)

	items, err := repo.Items(ctx, "u1")
	assert.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].ProductID)
	assert.Equal(t, 2, items[0].Quantity)

	// Another user's cart is untouched.
	other, err := repo.Items(ctx, "u2")
	assert.NoError(t, err)
	assert.Empty(t, other)
}

func TestCartRemove(t *testing.T) {
	repo := repository.NewCartRepository(memory.New())
	ctx := context.Background()

	a := &models.CartLine{ProductID: "p1", Quantity: 1}
	b := &models.CartLine{ProductID: "p2", Quantity: 1}
	assert.NoError(t, repo.Add(ctx, "u1", a))
	assert.NoError(t, repo.Add(ctx, "u1", b))

	assert.NoError(t, repo.Remove(ctx, "u1", a.CartItemID))

	items, err := repo.Items(ctx, "u1")
	assert.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, "p2", items[0].ProductID)
}

func TestCartClear_Wholesale(t *testing.T) {
	repo := repository.NewCartRepository(memory.New())
	ctx := context.Background()

	assert.NoError(t, repo.Add(ctx, "u1", &models.CartLine{ProductID: "p1", Quantity: 1}))
	assert.NoError(t, repo.Add(ctx, "u1", &models.CartLine{ProductID: "p2", Quantity: 3}))

	assert.NoError(t, repo.Clear(ctx, "u1"))

	items, err := repo.Items(ctx, "u1")
	assert.NoError(t, err)
	assert.Empty(t, items)

	// Clearing an already-empty cart succeeds.
	assert.NoError(t, repo.Clear(ctx, "u1"))
}

func TestWatchItems(t *testing.T) {
	repo := repository.NewCartRepository(memory.New())
	ctx := context.Background()

	updates, cancel, err := repo.WatchItems(ctx, "u1")
	assert.NoError(t, err)
	defer cancel()

	assert.Empty(t, <-updates)

	assert.NoError(t, repo.Add(ctx, "u1", &models.CartLine{ProductID: "p1", Quantity: 1}))
	assert.Len(t, <-updates, 1)
}
