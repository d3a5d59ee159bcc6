package services

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/lugamandu/backend/models"
	"github.com/lugamandu/backend/repository"
)

// ReviewService guards review authorship behind the purchase-eligibility
// gate and exposes the moderation views.
type ReviewService interface {
	Post(ctx context.Context, review models.Review) (*models.Review, Result)
	ForProduct(ctx context.Context, productID string) ([]models.Review, *ServiceError)
	All(ctx context.Context) ([]models.Review, *ServiceError)

	// Delete reports only a boolean outcome. Deleting an unknown id is a
	// success.
	Delete(ctx context.Context, reviewID string) bool

	// CanReview is fail-closed: ambiguous results deny review rights.
	CanReview(ctx context.Context, userID, productID string) bool
}

type reviewServiceImpl struct {
	reviews repository.ReviewRepository
	orders  OrderService
	users   repository.UserRepository
	now     func() time.Time
	logger  *zap.Logger
}

func NewReviewService(reviews repository.ReviewRepository, orders OrderService, users repository.UserRepository, logger *zap.Logger) ReviewService {
	return &reviewServiceImpl{
		reviews: reviews,
		orders:  orders,
		users:   users,
		now:     time.Now,
		logger:  logger,
	}
}

func (s *reviewServiceImpl) Post(ctx context.Context, review models.Review) (*models.Review, Result) {
	if review.ProductID == "" || review.UserID == "" {
		return nil, fail("Product and user are required")
	}
	if review.Rating < 1 || review.Rating > 5 {
		return nil, fail("Rating must be between 1 and 5")
	}
	if strings.TrimSpace(review.Comment) == "" {
		return nil, fail("Review comment cannot be blank")
	}
	if !s.orders.HasPurchased(ctx, review.UserID, review.ProductID) {
		return nil, fail("Only verified purchasers can review this product")
	}

	review.Timestamp = s.now().UnixMilli()
	if review.UserName == "" {
		review.UserName = s.users.DisplayName(ctx, review.UserID)
	}
	if err := s.reviews.Add(ctx, &review); err != nil {
		s.logger.Error("Failed to post review",
			zap.String("user_id", review.UserID),
			zap.String("product_id", review.ProductID),
			zap.Error(err))
		return nil, fail("Failed to post review")
	}
	return &review, ok("Review added")
}

func (s *reviewServiceImpl) ForProduct(ctx context.Context, productID string) ([]models.Review, *ServiceError) {
	reviews, err := s.reviews.ByProduct(ctx, productID)
	if err != nil {
		s.logger.Error("Failed to fetch reviews", zap.String("product_id", productID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch reviews"}
	}
	return reviews, nil
}

func (s *reviewServiceImpl) All(ctx context.Context) ([]models.Review, *ServiceError) {
	reviews, err := s.reviews.All(ctx)
	if err != nil {
		s.logger.Error("Failed to fetch all reviews", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch reviews"}
	}
	return reviews, nil
}

func (s *reviewServiceImpl) Delete(ctx context.Context, reviewID string) bool {
	if err := s.reviews.Delete(ctx, reviewID); err != nil {
		s.logger.Error("Failed to delete review", zap.String("review_id", reviewID), zap.Error(err))
		return false
	}
	return true
}

func (s *reviewServiceImpl) CanReview(ctx context.Context, userID, productID string) bool {
	return s.orders.HasPurchased(ctx, userID, productID)
}
