package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/lugamandu/backend/media"
	"github.com/lugamandu/backend/models"
	"github.com/lugamandu/backend/repository"
)

const productImageFolder = "products"

// ProductService carries the admin catalog flows, including the
// upload-image-then-write-record sequence.
type ProductService interface {
	// Save creates the product when its id is empty, updates it
	// otherwise. When image data is present it is uploaded first and the
	// resulting URL stamped into the record; an upload failure aborts the
	// save. A record-write failure after a successful upload leaves an
	// orphaned image, which is not reconciled.
	Save(ctx context.Context, product models.Product, image []byte) (*models.Product, Result)

	Delete(ctx context.Context, productID string) bool
	List(ctx context.Context) ([]models.Product, *ServiceError)
}

type productServiceImpl struct {
	products repository.ProductRepository
	uploader media.Uploader
	logger   *zap.Logger
}

// NewProductService creates a ProductService. uploader may be nil when no
// media backend is configured; image uploads are then rejected.
func NewProductService(products repository.ProductRepository, uploader media.Uploader, logger *zap.Logger) ProductService {
	return &productServiceImpl{products: products, uploader: uploader, logger: logger}
}

func (s *productServiceImpl) Save(ctx context.Context, product models.Product, image []byte) (*models.Product, Result) {
	if strings.TrimSpace(product.Name) == "" {
		return nil, fail("Product name is required")
	}
	if product.Price <= 0 {
		return nil, fail("Price must be greater than zero")
	}

	if len(image) > 0 {
		if s.uploader == nil {
			return nil, fail("Image uploads are not configured")
		}
		url, err := s.uploader.Upload(ctx, image, productImageFolder)
		if err != nil {
			s.logger.Error("Image upload failed", zap.String("product", product.Name), zap.Error(err))
			return nil, fail("Image upload failed")
		}
		product.ImageURL = url
	}

	if product.ID == "" {
		if err := s.products.Create(ctx, &product); err != nil {
			s.logger.Error("Failed to add product", zap.String("name", product.Name), zap.Error(err))
			return nil, fail("Failed to add product")
		}
		return &product, ok("Product added")
	}

	if err := s.products.Update(ctx, &product); err != nil {
		s.logger.Error("Failed to update product", zap.String("id", product.ID), zap.Error(err))
		return nil, fail("Failed to update product")
	}
	return &product, ok("Product updated")
}

func (s *productServiceImpl) Delete(ctx context.Context, productID string) bool {
	if err := s.products.Delete(ctx, productID); err != nil {
		s.logger.Error("Failed to delete product", zap.String("id", productID), zap.Error(err))
		return false
	}
	return true
}

func (s *productServiceImpl) List(ctx context.Context) ([]models.Product, *ServiceError) {
	products, err := s.products.List(ctx)
	if err != nil {
		s.logger.Error("Failed to fetch products", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch products"}
	}
	return products, nil
}
