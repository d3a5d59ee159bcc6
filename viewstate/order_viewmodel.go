package viewstate

import (
	"context"

	"go.uber.org/zap"

	"github.com/lugamandu/backend/models"
	"github.com/lugamandu/backend/services"
)

// OrderViewModel mirrors order lists for the admin board and the customer's
// own history.
type OrderViewModel struct {
	orders services.OrderService
	logger *zap.Logger

	Orders  *State[[]models.Order]
	Loading *State[bool]
}

func NewOrderViewModel(orders services.OrderService, logger *zap.Logger) *OrderViewModel {
	return &OrderViewModel{
		orders:  orders,
		logger:  logger,
		Orders:  NewState([]models.Order{}),
		Loading: NewState(false),
	}
}

func (vm *OrderViewModel) FetchAll(ctx context.Context) {
	vm.Loading.Set(true)
	defer vm.Loading.Set(false)
	orders, svcErr := vm.orders.AllOrders(ctx)
	if svcErr != nil {
		vm.logger.Warn("Order fetch failed", zap.String("reason", svcErr.Message))
		return
	}
	vm.Orders.Set(orders)
}

func (vm *OrderViewModel) FetchUser(ctx context.Context, userID string) {
	vm.Loading.Set(true)
	defer vm.Loading.Set(false)
	orders, svcErr := vm.orders.UserOrders(ctx, userID)
	if svcErr != nil {
		vm.logger.Warn("User order fetch failed", zap.String("user_id", userID), zap.String("reason", svcErr.Message))
		return
	}
	vm.Orders.Set(orders)
}

// UpdateStatus forwards the transition and refreshes the mirror on success.
func (vm *OrderViewModel) UpdateStatus(ctx context.Context, orderID, status string) services.Result {
	res := vm.orders.UpdateStatus(ctx, orderID, status)
	if res.OK {
		vm.FetchAll(ctx)
	}
	return res
}
