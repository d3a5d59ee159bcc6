package viewstate

import (
	"context"

	"go.uber.org/zap"

	"github.com/lugamandu/backend/models"
	"github.com/lugamandu/backend/repository"
)

// CartViewModel mirrors one user's cart through a continuous listener. One
// instance serves one watching connection.
type CartViewModel struct {
	repo   repository.CartRepository
	userID string
	logger *zap.Logger

	Items   *State[[]models.CartLine]
	Loading *State[bool]

	cancel func()
}

func NewCartViewModel(repo repository.CartRepository, userID string, logger *zap.Logger) *CartViewModel {
	return &CartViewModel{
		repo:    repo,
		userID:  userID,
		logger:  logger,
		Items:   NewState([]models.CartLine{}),
		Loading: NewState(false),
	}
}

func (vm *CartViewModel) Start(ctx context.Context) error {
	vm.Loading.Set(true)
	updates, cancel, err := vm.repo.WatchItems(ctx, vm.userID)
	if err != nil {
		vm.Loading.Set(false)
		return err
	}
	vm.cancel = cancel
	go func() {
		for items := range updates {
			vm.Items.Set(items)
			vm.Loading.Set(false)
		}
	}()
	return nil
}

func (vm *CartViewModel) Stop() {
	if vm.cancel != nil {
		vm.cancel()
	}
}

func (vm *CartViewModel) Fetch(ctx context.Context) {
	vm.Loading.Set(true)
	defer vm.Loading.Set(false)
	items, err := vm.repo.Items(ctx, vm.userID)
	if err != nil {
		vm.logger.Warn("Cart fetch failed", zap.String("user_id", vm.userID), zap.Error(err))
		return
	}
	vm.Items.Set(items)
}
