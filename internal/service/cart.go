package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mukesh2644009/darshan-style-hub-sub000/internal/domain"
	"github.com/mukesh2644009/darshan-style-hub-sub000/internal/repository"
	apperrors "github.com/mukesh2644009/darshan-style-hub-sub000/pkg/errors"
)

// maxCartQuantity caps the quantity of a single cart line.
const maxCartQuantity = 10

// CartService implements cart operations on top of the Redis cart store.
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	logger      *slog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository, logger *slog.Logger) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

// Get returns the user's cart.
func (s *CartService) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.cartRepo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return cart, nil
}

// AddItem puts a product into the cart, merging with an existing line for the
// same product and size.
func (s *CartService) AddItem(ctx context.Context, userID string, item domain.CartItem) (*domain.Cart, error) {
	if item.Quantity < 1 {
		return nil, apperrors.InvalidInput("quantity must be at least 1")
	}

	product, err := s.productRepo.GetByID(ctx, item.ProductID)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if !product.Active {
		return nil, apperrors.NotFound("product", item.ProductID)
	}
	if item.Size != "" && !containsString(product.Sizes, item.Size) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("size %q not available for this product", item.Size))
	}

	cart, err := s.cartRepo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}

	cart.Upsert(item)
	for i := range cart.Items {
		if cart.Items[i].Quantity > maxCartQuantity {
			cart.Items[i].Quantity = maxCartQuantity
		}
	}

	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}

	return cart, nil
}

// UpdateItem sets the quantity of an existing line. Quantity zero removes it.
func (s *CartService) UpdateItem(ctx context.Context, userID, productID, size string, quantity int) (*domain.Cart, error) {
	if quantity < 0 || quantity > maxCartQuantity {
		return nil, apperrors.InvalidInput(fmt.Sprintf("quantity must be between 0 and %d", maxCartQuantity))
	}

	cart, err := s.cartRepo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}

	found := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID && cart.Items[i].Size == size {
			found = true
			cart.Items[i].Quantity = quantity
			break
		}
	}
	if !found {
		return nil, apperrors.NotFound("cart item", productID)
	}
	if quantity == 0 {
		cart.Remove(productID, size)
	}

	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}

	return cart, nil
}

// RemoveItem deletes a line from the cart.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID, size string) (*domain.Cart, error) {
	cart, err := s.cartRepo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}

	cart.Remove(productID, size)

	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}

	return cart, nil
}

// Clear empties the user's cart.
func (s *CartService) Clear(ctx context.Context, userID string) error {
	if err := s.cartRepo.Clear(ctx, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
