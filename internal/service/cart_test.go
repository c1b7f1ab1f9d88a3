package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mukesh2644009/darshan-style-hub-sub000/internal/domain"
	apperrors "github.com/mukesh2644009/darshan-style-hub-sub000/pkg/errors"
)

func newCartService(cartRepo *mockCartRepository, productRepo *mockProductRepository) *CartService {
	return NewCartService(cartRepo, productRepo, newTestLogger())
}

func TestCartAddItem_Success(t *testing.T) {
	cartRepo := new(mockCartRepository)
	productRepo := new(mockProductRepository)
	svc := newCartService(cartRepo, productRepo)

	productRepo.On("GetByID", mock.Anything, "prod-1").Return(&domain.Product{
		ID: "prod-1", Active: true, Sizes: []string{"S", "M", "L"},
	}, nil)
	cartRepo.On("Get", mock.Anything, "user-001").Return(&domain.Cart{UserID: "user-001"}, nil)
	cartRepo.On("Save", mock.Anything, mock.MatchedBy(func(c *domain.Cart) bool {
		return len(c.Items) == 1 && c.Items[0].Quantity == 2
	})).Return(nil)

	cart, err := svc.AddItem(context.Background(), "user-001", domain.CartItem{
		ProductID: "prod-1", Size: "M", Quantity: 2,
	})
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
}

func TestCartAddItem_UnknownSize(t *testing.T) {
	productRepo := new(mockProductRepository)
	svc := newCartService(new(mockCartRepository), productRepo)

	productRepo.On("GetByID", mock.Anything, "prod-1").Return(&domain.Product{
		ID: "prod-1", Active: true, Sizes: []string{"S", "M"},
	}, nil)

	_, err := svc.AddItem(context.Background(), "user-001", domain.CartItem{
		ProductID: "prod-1", Size: "XXL", Quantity: 1,
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestCartAddItem_InactiveProduct(t *testing.T) {
	productRepo := new(mockProductRepository)
	svc := newCartService(new(mockCartRepository), productRepo)

	productRepo.On("GetByID", mock.Anything, "prod-1").Return(&domain.Product{
		ID: "prod-1", Active: false,
	}, nil)

	_, err := svc.AddItem(context.Background(), "user-001", domain.CartItem{
		ProductID: "prod-1", Quantity: 1,
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCartAddItem_QuantityCapped(t *testing.T) {
	cartRepo := new(mockCartRepository)
	productRepo := new(mockProductRepository)
	svc := newCartService(cartRepo, productRepo)

	productRepo.On("GetByID", mock.Anything, "prod-1").Return(&domain.Product{
		ID: "prod-1", Active: true,
	}, nil)
	cartRepo.On("Get", mock.Anything, "user-001").Return(&domain.Cart{
		UserID: "user-001",
		Items:  []domain.CartItem{{ProductID: "prod-1", Quantity: 9}},
	}, nil)
	cartRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

	cart, err := svc.AddItem(context.Background(), "user-001", domain.CartItem{
		ProductID: "prod-1", Quantity: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, maxCartQuantity, cart.Items[0].Quantity)
}

func TestCartUpdateItem_ZeroRemovesLine(t *testing.T) {
	cartRepo := new(mockCartRepository)
	svc := newCartService(cartRepo, new(mockProductRepository))

	cartRepo.On("Get", mock.Anything, "user-001").Return(&domain.Cart{
		UserID: "user-001",
		Items:  []domain.CartItem{{ProductID: "prod-1", Quantity: 2}},
	}, nil)
	cartRepo.On("Save", mock.Anything, mock.MatchedBy(func(c *domain.Cart) bool {
		return len(c.Items) == 0
	})).Return(nil)

	cart, err := svc.UpdateItem(context.Background(), "user-001", "prod-1", "", 0)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestCartUpdateItem_MissingLine(t *testing.T) {
	cartRepo := new(mockCartRepository)
	svc := newCartService(cartRepo, new(mockProductRepository))

	cartRepo.On("Get", mock.Anything, "user-001").Return(&domain.Cart{UserID: "user-001"}, nil)

	_, err := svc.UpdateItem(context.Background(), "user-001", "prod-1", "", 2)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
