package repository

import (
	"context"
	"sort"
	"time"

	"github.com/lugamandu/backend/models"
	"github.com/lugamandu/backend/store"
)

// OrderRepository maps orders to/from the record store and answers the
// purchase-eligibility question.
type OrderRepository interface {
	// Place assigns a fresh order id, stamps userId, initial status and
	// the current timestamp into the order, then persists it.
	Place(ctx context.Context, userID string, order *models.Order) error

	// All returns every order, newest first.
	All(ctx context.Context) ([]models.Order, error)

	// ByUser returns the user's orders, newest first.
	ByUser(ctx context.Context, userID string) ([]models.Order, error)

	// UpdateStatus overwrites only the status field of the order record.
	UpdateStatus(ctx context.Context, orderID, status string) error

	// HasPurchased reports whether the user ever placed an order
	// containing the product. It is fail-closed: a store error reads as
	// "no".
	HasPurchased(ctx context.Context, userID, productID string) bool
}

const ordersPath = "orders"

type storeOrderRepository struct {
	client store.Client
	now    func() time.Time
}

func NewOrderRepository(client store.Client) OrderRepository {
	return &storeOrderRepository{client: client, now: time.Now}
}

func (r *storeOrderRepository) Place(ctx context.Context, userID string, order *models.Order) error {
	id := r.client.GenerateKey()
	order.OrderID = id
	order.UserID = userID
	order.Status = models.OrderStatusPending
	order.Timestamp = r.now().UnixMilli()
	return r.client.Write(ctx, ordersPath+"/"+id, order.ToMap())
}

func (r *storeOrderRepository) All(ctx context.Context) ([]models.Order, error) {
	snap, err := r.client.Once(ctx, ordersPath)
	if err != nil {
		return nil, err
	}
	orders := ordersFromSnapshot(snap, "")
	sortNewestFirst(orders)
	return orders, nil
}

// ByUser filters client-side on userId; the equality index is reserved for
// the eligibility scan.
func (r *storeOrderRepository) ByUser(ctx context.Context, userID string) ([]models.Order, error) {
	snap, err := r.client.Once(ctx, ordersPath)
	if err != nil {
		return nil, err
	}
	orders := ordersFromSnapshot(snap, userID)
	sortNewestFirst(orders)
	return orders, nil
}

func (r *storeOrderRepository) UpdateStatus(ctx context.Context, orderID, status string) error {
	if orderID == "" {
		return ErrMissingID
	}
	return r.client.Update(ctx, ordersPath+"/"+orderID, map[string]any{"status": status})
}

func (r *storeOrderRepository) HasPurchased(ctx context.Context, userID, productID string) bool {
	snap, err := r.client.QueryEqual(ctx, ordersPath, "userId", userID)
	if err != nil {
		return false
	}
	for _, child := range snap.Children {
		order, ok := models.OrderFromMap(child.Record)
		if !ok {
			continue
		}
		for _, item := range order.Items {
			if item.ProductID == productID {
				return true
			}
		}
	}
	return false
}

func ordersFromSnapshot(snap store.Snapshot, userID string) []models.Order {
	var orders []models.Order
	for _, child := range snap.Children {
		order, ok := models.OrderFromMap(child.Record)
		if !ok {
			continue
		}
		if userID != "" && order.UserID != userID {
			continue
		}
		orders = append(orders, order)
	}
	return orders
}

func sortNewestFirst(orders []models.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].Timestamp > orders[j].Timestamp
	})
}
