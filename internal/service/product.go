package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mukesh2644009/darshan-style-hub-sub000/internal/domain"
	"github.com/mukesh2644009/darshan-style-hub-sub000/internal/repository"
	apperrors "github.com/mukesh2644009/darshan-style-hub-sub000/pkg/errors"
	"github.com/mukesh2644009/darshan-style-hub-sub000/pkg/pagination"
	"github.com/mukesh2644009/darshan-style-hub-sub000/pkg/slug"
)

// ProductService implements catalog management.
type ProductService struct {
	productRepo repository.ProductRepository
	logger      *slog.Logger
}

// NewProductService creates a new product service.
func NewProductService(productRepo repository.ProductRepository, logger *slog.Logger) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		logger:      logger,
	}
}

// CreateProductInput holds the parameters for adding a catalog item.
type CreateProductInput struct {
	SKU          string
	Name         string
	Description  string
	Category     string
	Price        int64
	ComparePrice int64
	Stock        int
	ImageURLs    []string
	Sizes        []string
}

// UpdateProductInput holds optional fields for modifying a catalog item.
// The slug never changes after creation so product URLs stay stable.
type UpdateProductInput struct {
	Name         *string
	Description  *string
	Category     *string
	Price        *int64
	ComparePrice *int64
	Stock        *int
	ImageURLs    []string
	Sizes        []string
	Active       *bool
}

// Create adds a product to the catalog, deriving a unique slug from the name.
func (s *ProductService) Create(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	if input.Name == "" {
		return nil, apperrors.InvalidInput("name is required")
	}
	if input.SKU == "" {
		return nil, apperrors.InvalidInput("sku is required")
	}
	if input.Price < 0 {
		return nil, apperrors.InvalidInput("price cannot be negative")
	}
	if input.Stock < 0 {
		return nil, apperrors.InvalidInput("stock cannot be negative")
	}

	base := slug.Make(input.Name)
	if base == "" {
		return nil, apperrors.InvalidInput("name yields an empty slug")
	}

	existing, err := s.productRepo.ListSlugsWithPrefix(ctx, base)
	if err != nil {
		return nil, fmt.Errorf("list slugs: %w", err)
	}
	taken := make(map[string]struct{}, len(existing))
	for _, sl := range existing {
		taken[sl] = struct{}{}
	}

	product := &domain.Product{
		SKU:          input.SKU,
		Slug:         slug.MakeUnique(base, taken),
		Name:         input.Name,
		Description:  input.Description,
		Category:     input.Category,
		Price:        input.Price,
		ComparePrice: input.ComparePrice,
		Stock:        input.Stock,
		ImageURLs:    input.ImageURLs,
		Sizes:        input.Sizes,
		Active:       true,
	}
	if product.ImageURLs == nil {
		product.ImageURLs = []string{}
	}
	if product.Sizes == nil {
		product.Sizes = []string{}
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", product.ID),
		slog.String("slug", product.Slug),
	)

	return product, nil
}

// GetBySlug returns a product by its URL slug. Inactive products are hidden
// from the storefront but still visible to admins.
func (s *ProductService) GetBySlug(ctx context.Context, productSlug string, includeInactive bool) (*domain.Product, error) {
	product, err := s.productRepo.GetBySlug(ctx, productSlug)
	if err != nil {
		return nil, fmt.Errorf("get product by slug: %w", err)
	}
	if !product.Active && !includeInactive {
		return nil, apperrors.NotFound("product", productSlug)
	}
	return product, nil
}

// GetByID returns a product by ID.
func (s *ProductService) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return product, nil
}

// List returns products for the storefront or the admin view.
func (s *ProductService) List(ctx context.Context, filter repository.ProductFilter, params pagination.Params) ([]domain.Product, int, error) {
	products, total, err := s.productRepo.List(ctx, filter, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	return products, total, nil
}

// Update modifies a catalog item.
func (s *ProductService) Update(ctx context.Context, id string, input UpdateProductInput) (*domain.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperrors.InvalidInput("name cannot be empty")
		}
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, apperrors.InvalidInput("price cannot be negative")
		}
		product.Price = *input.Price
	}
	if input.ComparePrice != nil {
		product.ComparePrice = *input.ComparePrice
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, apperrors.InvalidInput("stock cannot be negative")
		}
		product.Stock = *input.Stock
	}
	if input.ImageURLs != nil {
		product.ImageURLs = input.ImageURLs
	}
	if input.Sizes != nil {
		product.Sizes = input.Sizes
	}
	if input.Active != nil {
		product.Active = *input.Active
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	return product, nil
}

// Delete removes a product from the catalog.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	s.logger.InfoContext(ctx, "product deleted",
		slog.String("product_id", id),
	)

	return nil
}
