package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lugamandu/backend/models"
)

func TestOrderMapRoundTrip(t *testing.T) {
	order := models.Order{
		OrderID: "o1",
		UserID:  "u1",
		Items: []models.CartLine{
			{CartItemID: "c1", ProductID: "p1", Quantity: 2},
		},
		Status:      models.OrderStatusPending,
		TotalAmount: 1000,
		Timestamp:   1756700000000,
	}

	got, ok := models.OrderFromMap(order.ToMap())
	assert.True(t, ok)
	assert.Equal(t, order, got)
}

func TestOrderFromMap_JSONNumbers(t *testing.T) {
	// Drivers that round-trip through JSON hand back float64 for every
	// number.
	got, ok := models.OrderFromMap(map[string]any{
		"orderId":     "o1",
		"userId":      "u1",
		"status":      "Pending",
		"totalAmount": float64(1000),
		"timestamp":   float64(1756700000000),
		"items": []any{
			map[string]any{"cartItemId": "c1", "productId": "p1", "quantity": float64(2)},
		},
	})
	assert.True(t, ok)
	assert.Equal(t, int64(1756700000000), got.Timestamp)
	assert.Len(t, got.Items, 1)
	assert.Equal(t, 2, got.Items[0].Quantity)
}

func TestFromMap_RejectsMissingID(t *testing.T) {
	_, ok := models.ProductFromMap(map[string]any{"name": "Bowl", "price": 100.0})
	assert.False(t, ok)

	_, ok = models.OrderFromMap(map[string]any{"userId": "u1"})
	assert.False(t, ok)

	_, ok = models.ReviewFromMap(map[string]any{"productId": "p1"})
	assert.False(t, ok)

	_, ok = models.CartLineFromMap(map[string]any{"quantity": 1})
	assert.False(t, ok)

	_, ok = models.UserFromMap(map[string]any{"email": "a@b.np"})
	assert.False(t, ok)
}

func TestOrderFromMap_SkipsMalformedItems(t *testing.T) {
	got, ok := models.OrderFromMap(map[string]any{
		"orderId": "o1",
		"items": []any{
			"not a map",
			map[string]any{"quantity": 1},
			map[string]any{"productId": "p1", "quantity": 1},
		},
	})
	assert.True(t, ok)
	assert.Len(t, got.Items, 1)
	assert.Equal(t, "p1", got.Items[0].ProductID)
}
