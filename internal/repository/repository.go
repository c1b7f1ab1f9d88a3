// Package repository defines persistence interfaces for the storefront.
// PostgreSQL implementations live in the postgres subpackage; the cart is
// held in Redis.
package repository

import (
	"context"

	"github.com/mukesh2644009/darshan-style-hub-sub000/internal/domain"
	"github.com/mukesh2644009/darshan-style-hub-sub000/pkg/pagination"
)

// UserRepository defines user persistence operations.
type UserRepository interface {
	// Create inserts a new user.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by email address.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// UpdatePasswordHash replaces the stored credential for a user. Used by
	// the legacy password upgrade after a successful login.
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error

	// Update modifies profile fields (name, phone) of an existing user.
	Update(ctx context.Context, user *domain.User) error

	// List returns customers ordered by most recent, with a total count.
	List(ctx context.Context, params pagination.Params) ([]domain.User, int, error)
}

// SessionRepository defines session persistence operations.
type SessionRepository interface {
	// Create inserts a session. ReplaceForUser semantics (single active
	// session) are handled by CreateReplacing.
	Create(ctx context.Context, session *domain.Session) error

	// CreateReplacing deletes any existing sessions for the user and inserts
	// the new one in a single transaction.
	CreateReplacing(ctx context.Context, session *domain.Session) error

	// GetByTokenHash retrieves a session by its token digest.
	GetByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error)

	// Delete removes a session by ID.
	Delete(ctx context.Context, id string) error

	// DeleteByUserID removes all sessions for a user.
	DeleteByUserID(ctx context.Context, userID string) error

	// DeleteExpired removes sessions past their expiry and returns the count.
	DeleteExpired(ctx context.Context) (int64, error)
}

// ProductFilter narrows product listings.
type ProductFilter struct {
	Category    string
	Search      string
	ActiveOnly  bool
	InStockOnly bool
}

// ProductRepository defines catalog persistence operations.
type ProductRepository interface {
	// Create inserts a new product.
	Create(ctx context.Context, product *domain.Product) error

	// GetByID retrieves a product by ID.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// GetBySlug retrieves a product by its URL slug.
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)

	// List returns products matching the filter, with a total count.
	List(ctx context.Context, filter ProductFilter, params pagination.Params) ([]domain.Product, int, error)

	// ListSlugsWithPrefix returns existing slugs starting with the prefix.
	// Used to pick a unique slug for new products.
	ListSlugsWithPrefix(ctx context.Context, prefix string) ([]string, error)

	// Update modifies an existing product.
	Update(ctx context.Context, product *domain.Product) error

	// Delete removes a product from the catalog.
	Delete(ctx context.Context, id string) error
}

// OrderFilter narrows order listings for the admin view.
type OrderFilter struct {
	Status string
	UserID string
}

// OrderRepository defines order persistence operations.
type OrderRepository interface {
	// Create inserts the order with its items and decrements product stock
	// in a single transaction. Returns a conflict error when any item has
	// insufficient stock.
	Create(ctx context.Context, order *domain.Order) error

	// GetByID retrieves an order with its items.
	GetByID(ctx context.Context, id string) (*domain.Order, error)

	// List returns orders matching the filter, newest first, with a count.
	List(ctx context.Context, filter OrderFilter, params pagination.Params) ([]domain.Order, int, error)

	// UpdateStatus sets the order status.
	UpdateStatus(ctx context.Context, id, status string) error

	// UpdatePaymentStatus sets the payment status.
	UpdatePaymentStatus(ctx context.Context, id, paymentStatus string) error

	// Cancel marks the order cancelled and restores item stock in a single
	// transaction.
	Cancel(ctx context.Context, id string) error
}

// MessageRepository defines contact message persistence operations.
type MessageRepository interface {
	// Create inserts a contact message.
	Create(ctx context.Context, message *domain.Message) error

	// List returns messages, newest first, with a total count. When
	// unreadOnly is set only unread messages are returned.
	List(ctx context.Context, unreadOnly bool, params pagination.Params) ([]domain.Message, int, error)

	// MarkRead flags a message as read.
	MarkRead(ctx context.Context, id string) error

	// Delete removes a message.
	Delete(ctx context.Context, id string) error
}

// CartRepository defines cart persistence operations.
type CartRepository interface {
	// Get returns the user's cart, or an empty cart when none is stored.
	Get(ctx context.Context, userID string) (*domain.Cart, error)

	// Save stores the cart and refreshes its TTL.
	Save(ctx context.Context, cart *domain.Cart) error

	// Clear removes the user's cart.
	Clear(ctx context.Context, userID string) error
}
