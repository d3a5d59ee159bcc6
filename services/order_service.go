package services

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/lugamandu/backend/events"
	"github.com/lugamandu/backend/models"
	"github.com/lugamandu/backend/repository"
)

// OrderService carries the cart-to-order pipeline: total computation, order
// placement, status transitions and the purchase-eligibility check.
type OrderService interface {
	// CartTotal sums quantity × price over the lines, resolving prices
	// against the given catalog. A line whose product is absent from the
	// catalog contributes zero; that is not an error.
	CartTotal(lines []models.CartLine, products []models.Product) float64

	// PlaceOrder persists a new Pending order holding a snapshot of the
	// given lines and the precomputed total.
	PlaceOrder(ctx context.Context, userID string, lines []models.CartLine, total float64) (*models.Order, Result)

	// UpdateStatus overwrites only the order's status field. Any status
	// string is accepted; the application itself only sends Pending or
	// Complete.
	UpdateStatus(ctx context.Context, orderID, status string) Result

	HasPurchased(ctx context.Context, userID, productID string) bool
	UserOrders(ctx context.Context, userID string) ([]models.Order, *ServiceError)
	AllOrders(ctx context.Context) ([]models.Order, *ServiceError)
}

type orderServiceImpl struct {
	orders    repository.OrderRepository
	publisher events.Publisher
	logger    *zap.Logger
}

// NewOrderService creates an OrderService. publisher may be nil when event
// publication is not configured.
func NewOrderService(orders repository.OrderRepository, publisher events.Publisher, logger *zap.Logger) OrderService {
	return &orderServiceImpl{orders: orders, publisher: publisher, logger: logger}
}

func (s *orderServiceImpl) CartTotal(lines []models.CartLine, products []models.Product) float64 {
	prices := make(map[string]float64, len(products))
	for _, p := range products {
		prices[p.ID] = p.Price
	}
	var total float64
	for _, line := range lines {
		total += prices[line.ProductID] * float64(line.Quantity)
	}
	return total
}

func (s *orderServiceImpl) PlaceOrder(ctx context.Context, userID string, lines []models.CartLine, total float64) (*models.Order, Result) {
	if userID == "" {
		return nil, fail("User is required")
	}
	if len(lines) == 0 {
		return nil, fail("Cart is empty")
	}

	order := &models.Order{
		Items:       append([]models.CartLine(nil), lines...),
		TotalAmount: total,
	}
	if err := s.orders.Place(ctx, userID, order); err != nil {
		s.logger.Error("Failed to place order", zap.String("user_id", userID), zap.Error(err))
		return nil, fail("Failed to place order")
	}

	s.logger.Info("Order placed",
		zap.String("order_id", order.OrderID),
		zap.String("user_id", userID),
		zap.Float64("total", total))
	s.publish(ctx, events.OrderPlaced, order)
	return order, ok("Order placed successfully")
}

func (s *orderServiceImpl) UpdateStatus(ctx context.Context, orderID, status string) Result {
	if err := s.orders.UpdateStatus(ctx, orderID, status); err != nil {
		s.logger.Error("Failed to update order status", zap.String("order_id", orderID), zap.Error(err))
		return fail("Failed to update status")
	}
	s.logger.Info("Order status updated", zap.String("order_id", orderID), zap.String("status", status))
	s.publish(ctx, events.OrderStatusChanged, &models.Order{OrderID: orderID, Status: status})
	return ok("Order status updated to " + status)
}

func (s *orderServiceImpl) HasPurchased(ctx context.Context, userID, productID string) bool {
	return s.orders.HasPurchased(ctx, userID, productID)
}

func (s *orderServiceImpl) UserOrders(ctx context.Context, userID string) ([]models.Order, *ServiceError) {
	orders, err := s.orders.ByUser(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to fetch user orders", zap.String("user_id", userID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch orders"}
	}
	return orders, nil
}

func (s *orderServiceImpl) AllOrders(ctx context.Context) ([]models.Order, *ServiceError) {
	orders, err := s.orders.All(ctx)
	if err != nil {
		s.logger.Error("Failed to fetch all orders", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch orders"}
	}
	return orders, nil
}

// publish emits an order event, best-effort.
func (s *orderServiceImpl) publish(ctx context.Context, event string, order *models.Order) {
	if s.publisher == nil {
		return
	}
	payload, err := json.Marshal(events.OrderEvent{
		Event:       event,
		OrderID:     order.OrderID,
		UserID:      order.UserID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		Timestamp:   order.Timestamp,
	})
	if err != nil {
		return
	}
	if err := s.publisher.Publish(ctx, order.UserID, payload); err != nil {
		s.logger.Warn("Order event publish failed", zap.String("event", event), zap.Error(err))
	}
}
