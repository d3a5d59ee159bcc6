package viewstate

import (
	"context"

	"go.uber.org/zap"

	"github.com/lugamandu/backend/models"
	"github.com/lugamandu/backend/repository"
	"github.com/lugamandu/backend/services"
)

// ReviewViewModel mirrors review lists and the caller's review eligibility.
type ReviewViewModel struct {
	reviews services.ReviewService
	repo    repository.ReviewRepository
	logger  *zap.Logger

	Reviews   *State[[]models.Review]
	Loading   *State[bool]
	CanReview *State[bool]

	cancel func()
}

func NewReviewViewModel(reviews services.ReviewService, repo repository.ReviewRepository, logger *zap.Logger) *ReviewViewModel {
	return &ReviewViewModel{
		reviews:   reviews,
		repo:      repo,
		logger:    logger,
		Reviews:   NewState([]models.Review{}),
		Loading:   NewState(false),
		CanReview: NewState(false),
	}
}

// StartAll attaches a continuous listener over the whole review collection
// (moderation view).
func (vm *ReviewViewModel) StartAll(ctx context.Context) error {
	vm.Loading.Set(true)
	updates, cancel, err := vm.repo.WatchAll(ctx)
	if err != nil {
		vm.Loading.Set(false)
		return err
	}
	vm.cancel = cancel
	go func() {
		for reviews := range updates {
			vm.Reviews.Set(reviews)
			vm.Loading.Set(false)
		}
	}()
	return nil
}

func (vm *ReviewViewModel) Stop() {
	if vm.cancel != nil {
		vm.cancel()
	}
}

func (vm *ReviewViewModel) FetchForProduct(ctx context.Context, productID string) {
	vm.Loading.Set(true)
	defer vm.Loading.Set(false)
	reviews, svcErr := vm.reviews.ForProduct(ctx, productID)
	if svcErr != nil {
		vm.logger.Warn("Review fetch failed", zap.String("product_id", productID), zap.String("reason", svcErr.Message))
		return
	}
	vm.Reviews.Set(reviews)
}

func (vm *ReviewViewModel) CheckEligibility(ctx context.Context, userID, productID string) {
	vm.CanReview.Set(vm.reviews.CanReview(ctx, userID, productID))
}
