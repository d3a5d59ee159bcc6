package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/lugamandu/backend/models"
	"github.com/lugamandu/backend/repository"
)

// CartService manages a user's cart and the checkout sequence.
type CartService interface {
	Add(ctx context.Context, userID string, line models.CartLine) Result
	Remove(ctx context.Context, userID, cartItemID string) Result
	Items(ctx context.Context, userID string) ([]models.CartLine, *ServiceError)
	Clear(ctx context.Context, userID string) Result

	// Checkout snapshots the cart, totals it against current catalog
	// prices, places the order, then clears the cart. The two writes are
	// independent calls: an order that lands while the cart-clear fails
	// stays placed.
	Checkout(ctx context.Context, userID string) (*models.Order, Result)
}

type cartServiceImpl struct {
	carts    repository.CartRepository
	products repository.ProductRepository
	orders   OrderService
	logger   *zap.Logger
}

func NewCartService(carts repository.CartRepository, products repository.ProductRepository, orders OrderService, logger *zap.Logger) CartService {
	return &cartServiceImpl{carts: carts, products: products, orders: orders, logger: logger}
}

func (s *cartServiceImpl) Add(ctx context.Context, userID string, line models.CartLine) Result {
	if line.ProductID == "" {
		return fail("Product is required")
	}
	if line.Quantity < 1 {
		return fail("Quantity must be at least 1")
	}
	if err := s.carts.Add(ctx, userID, &line); err != nil {
		s.logger.Error("Failed to add to cart", zap.String("user_id", userID), zap.Error(err))
		return fail("Failed to add to cart")
	}
	return ok("Added to cart")
}

func (s *cartServiceImpl) Remove(ctx context.Context, userID, cartItemID string) Result {
	if err := s.carts.Remove(ctx, userID, cartItemID); err != nil {
		s.logger.Error("Failed to remove from cart", zap.String("user_id", userID), zap.Error(err))
		return fail("Failed to remove from cart")
	}
	return ok("Removed from cart")
}

func (s *cartServiceImpl) Items(ctx context.Context, userID string) ([]models.CartLine, *ServiceError) {
	items, err := s.carts.Items(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to fetch cart", zap.String("user_id", userID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch cart"}
	}
	return items, nil
}

func (s *cartServiceImpl) Clear(ctx context.Context, userID string) Result {
	if err := s.carts.Clear(ctx, userID); err != nil {
		s.logger.Error("Failed to clear cart", zap.String("user_id", userID), zap.Error(err))
		return fail("Failed to clear cart")
	}
	return ok("Cart cleared")
}

func (s *cartServiceImpl) Checkout(ctx context.Context, userID string) (*models.Order, Result) {
	lines, err := s.carts.Items(ctx, userID)
	if err != nil {
		s.logger.Error("Checkout cart read failed", zap.String("user_id", userID), zap.Error(err))
		return nil, fail("Failed to fetch cart")
	}
	if len(lines) == 0 {
		return nil, fail("Cart is empty")
	}

	// Prices are resolved at placement time; later drift is not
	// reconciled.
	products, err := s.products.List(ctx)
	if err != nil {
		s.logger.Error("Checkout catalog read failed", zap.Error(err))
		return nil, fail("Failed to fetch products")
	}
	total := s.orders.CartTotal(lines, products)

	order, res := s.orders.PlaceOrder(ctx, userID, lines, total)
	if !res.OK {
		return nil, res
	}

	if err := s.carts.Clear(ctx, userID); err != nil {
		// The order stands; the stale cart is an accepted inconsistency.
		s.logger.Warn("Cart clear after checkout failed",
			zap.String("user_id", userID),
			zap.String("order_id", order.OrderID),
			zap.Error(err))
		return order, ok("Order placed successfully, but the cart could not be cleared")
	}
	return order, ok("Order placed successfully")
}
