package viewstate

import (
	"context"

	"go.uber.org/zap"

	"github.com/lugamandu/backend/models"
	"github.com/lugamandu/backend/repository"
)

// ProductViewModel mirrors the product catalog through a continuous
// listener.
type ProductViewModel struct {
	repo   repository.ProductRepository
	logger *zap.Logger

	Products *State[[]models.Product]
	Loading  *State[bool]
	Selected *State[*models.Product]

	cancel func()
}

func NewProductViewModel(repo repository.ProductRepository, logger *zap.Logger) *ProductViewModel {
	return &ProductViewModel{
		repo:     repo,
		logger:   logger,
		Products: NewState([]models.Product{}),
		Loading:  NewState(false),
		Selected: NewState[*models.Product](nil),
	}
}

// Start attaches the catalog listener. The mirror stays live until Stop.
func (vm *ProductViewModel) Start(ctx context.Context) error {
	vm.Loading.Set(true)
	updates, cancel, err := vm.repo.Watch(ctx)
	if err != nil {
		vm.Loading.Set(false)
		return err
	}
	vm.cancel = cancel
	go func() {
		for products := range updates {
			vm.Products.Set(products)
			vm.Loading.Set(false)
		}
	}()
	return nil
}

func (vm *ProductViewModel) Stop() {
	if vm.cancel != nil {
		vm.cancel()
	}
}

// Fetch refreshes the mirror with a single-fire read.
func (vm *ProductViewModel) Fetch(ctx context.Context) {
	vm.Loading.Set(true)
	defer vm.Loading.Set(false)
	products, err := vm.repo.List(ctx)
	if err != nil {
		vm.logger.Warn("Product fetch failed", zap.Error(err))
		return
	}
	vm.Products.Set(products)
}

func (vm *ProductViewModel) Select(p *models.Product) {
	vm.Selected.Set(p)
}
