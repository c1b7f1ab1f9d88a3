package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mukesh2644009/darshan-style-hub-sub000/internal/domain"
	"github.com/mukesh2644009/darshan-style-hub-sub000/internal/event"
	"github.com/mukesh2644009/darshan-style-hub-sub000/internal/notifier"
	"github.com/mukesh2644009/darshan-style-hub-sub000/internal/repository"
	apperrors "github.com/mukesh2644009/darshan-style-hub-sub000/pkg/errors"
	"github.com/mukesh2644009/darshan-style-hub-sub000/pkg/pagination"
)

// OrderService implements checkout and order management.
type OrderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	cartRepo    repository.CartRepository
	producer    *event.Producer
	senders     []notifier.Sender
	ownerEmail  string
	logger      *slog.Logger
}

// NewOrderService creates a new order service. senders receive order
// notifications fire-and-forget; ownerEmail is the store owner's inbox.
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	cartRepo repository.CartRepository,
	producer *event.Producer,
	senders []notifier.Sender,
	ownerEmail string,
	logger *slog.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		cartRepo:    cartRepo,
		producer:    producer,
		senders:     senders,
		ownerEmail:  ownerEmail,
		logger:      logger,
	}
}

// CheckoutInput holds the parameters for placing an order from the cart.
type CheckoutInput struct {
	UserID        string
	PaymentMethod string
	Discount      int64
	Shipping      domain.Address
}

// Checkout prices the user's cart, persists the order, and clears the cart.
// Unit prices come from the catalog at this moment, never from the client.
func (s *OrderService) Checkout(ctx context.Context, input CheckoutInput) (*domain.Order, error) {
	if !domain.IsValidPaymentMethod(input.PaymentMethod) {
		return nil, apperrors.InvalidInput("invalid payment method")
	}
	if err := validateShipping(input.Shipping); err != nil {
		return nil, err
	}

	cart, err := s.cartRepo.Get(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	if len(cart.Items) == 0 {
		return nil, apperrors.InvalidInput("cart is empty")
	}

	items := make([]domain.OrderItem, 0, len(cart.Items))
	for _, ci := range cart.Items {
		product, err := s.productRepo.GetByID(ctx, ci.ProductID)
		if err != nil {
			return nil, fmt.Errorf("get product %s: %w", ci.ProductID, err)
		}
		if !product.InStock(ci.Quantity) {
			return nil, apperrors.Conflict(fmt.Sprintf("insufficient stock for %s", product.Name))
		}
		items = append(items, domain.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Size:        ci.Size,
			UnitPrice:   product.Price,
			Quantity:    ci.Quantity,
		})
	}

	quote := domain.PriceOrder(items, input.PaymentMethod, input.Discount)

	order := &domain.Order{
		UserID:        input.UserID,
		Status:        domain.OrderStatusPending,
		PaymentMethod: input.PaymentMethod,
		PaymentStatus: domain.PaymentStatusPending,
		Items:         items,
		Subtotal:      quote.Subtotal,
		Discount:      quote.Discount,
		ShippingFee:   quote.ShippingFee,
		CODCharge:     quote.CODCharge,
		Total:         quote.Total,
		Shipping:      input.Shipping,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	if err := s.cartRepo.Clear(ctx, input.UserID); err != nil {
		s.logger.WarnContext(ctx, "failed to clear cart after checkout",
			slog.String("user_id", input.UserID),
			slog.String("error", err.Error()),
		)
	}

	// Publish and notify; neither blocks the checkout response.
	if err := s.producer.PublishOrderCreated(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.created event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}
	s.notifyOrderPlaced(ctx, order)

	s.logger.InfoContext(ctx, "order placed",
		slog.String("order_id", order.ID),
		slog.String("user_id", order.UserID),
		slog.Int64("total", order.Total),
	)

	return order, nil
}

// Get returns an order. Customers can only read their own orders; admins can
// read any.
func (s *OrderService) Get(ctx context.Context, orderID string, requester *domain.User) (*domain.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}

	if !requester.IsAdmin() && order.UserID != requester.ID {
		return nil, apperrors.Forbidden("not your order")
	}

	return order, nil
}

// ListMine returns the requester's orders.
func (s *OrderService) ListMine(ctx context.Context, userID string, params pagination.Params) ([]domain.Order, int, error) {
	orders, total, err := s.orderRepo.List(ctx, repository.OrderFilter{UserID: userID}, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	return orders, total, nil
}

// ListAll returns orders for the admin view, optionally filtered by status.
func (s *OrderService) ListAll(ctx context.Context, status string, params pagination.Params) ([]domain.Order, int, error) {
	if status != "" && !domain.IsValidOrderStatus(status) {
		return nil, 0, apperrors.InvalidInput("invalid order status")
	}
	orders, total, err := s.orderRepo.List(ctx, repository.OrderFilter{Status: status}, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	return orders, total, nil
}

// UpdateStatus moves an order along the fulfilment flow. Invalid transitions
// are rejected; cancellation goes through Cancel so stock is restored.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID, newStatus string) (*domain.Order, error) {
	if !domain.IsValidOrderStatus(newStatus) {
		return nil, apperrors.InvalidInput("invalid order status")
	}
	if newStatus == domain.OrderStatusCancelled {
		return s.cancel(ctx, orderID, "cancelled by admin", nil)
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}

	if !order.CanTransitionTo(newStatus) {
		return nil, apperrors.Conflict(fmt.Sprintf("cannot move order from %s to %s", order.Status, newStatus))
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, newStatus); err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}

	oldStatus := order.Status
	order.Status = newStatus

	if err := s.producer.PublishOrderStatusChanged(ctx, orderID, oldStatus, newStatus); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.status_changed event",
			slog.String("order_id", orderID),
			slog.String("error", err.Error()),
		)
	}
	s.notifyStatusChanged(ctx, order)

	return order, nil
}

// MarkPaid records a successful payment for a prepaid order.
func (s *OrderService) MarkPaid(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}

	if order.PaymentStatus == domain.PaymentStatusPaid {
		return order, nil
	}
	if order.Status == domain.OrderStatusCancelled {
		return nil, apperrors.Conflict("cannot mark a cancelled order paid")
	}

	if err := s.orderRepo.UpdatePaymentStatus(ctx, orderID, domain.PaymentStatusPaid); err != nil {
		return nil, fmt.Errorf("update payment status: %w", err)
	}
	order.PaymentStatus = domain.PaymentStatusPaid

	return order, nil
}

// CancelMine lets a customer cancel their own order while it is still pending.
func (s *OrderService) CancelMine(ctx context.Context, orderID string, requester *domain.User) (*domain.Order, error) {
	return s.cancel(ctx, orderID, "cancelled by customer", requester)
}

// cancel cancels the order, restoring stock. When requester is non-nil,
// ownership and the pending-only rule are enforced.
func (s *OrderService) cancel(ctx context.Context, orderID, reason string, requester *domain.User) (*domain.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}

	if requester != nil && !requester.IsAdmin() && order.UserID != requester.ID {
		return nil, apperrors.Forbidden("not your order")
	}
	if requester != nil && !requester.IsAdmin() && !order.Cancellable() {
		return nil, apperrors.Conflict("only pending orders can be cancelled")
	}
	if !order.CanTransitionTo(domain.OrderStatusCancelled) {
		return nil, apperrors.Conflict(fmt.Sprintf("cannot cancel an order that is %s", order.Status))
	}

	if err := s.orderRepo.Cancel(ctx, orderID); err != nil {
		return nil, fmt.Errorf("cancel order: %w", err)
	}

	oldStatus := order.Status
	order.Status = domain.OrderStatusCancelled

	if err := s.producer.PublishOrderCancelled(ctx, orderID, reason); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.cancelled event",
			slog.String("order_id", orderID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order cancelled",
		slog.String("order_id", orderID),
		slog.String("old_status", oldStatus),
		slog.String("reason", reason),
	)

	return order, nil
}

func (s *OrderService) notifyOrderPlaced(ctx context.Context, order *domain.Order) {
	body := fmt.Sprintf(
		"New order %s for ₹%d (%s). Deliver to %s, %s %s.",
		order.ID, order.Total, order.PaymentMethod,
		order.Shipping.Address, order.Shipping.City, order.Shipping.Pincode,
	)
	s.notify(ctx, &notifier.Notification{
		Recipient: s.ownerEmail,
		Subject:   "New order " + order.ID,
		Body:      body,
	})
}

func (s *OrderService) notifyStatusChanged(ctx context.Context, order *domain.Order) {
	s.notify(ctx, &notifier.Notification{
		Recipient: order.Shipping.Phone,
		Subject:   "Order update",
		Body:      fmt.Sprintf("Your order %s is now %s.", order.ID, order.Status),
	})
}

func (s *OrderService) notify(ctx context.Context, n *notifier.Notification) {
	for _, sender := range s.senders {
		if err := sender.Send(ctx, n); err != nil {
			s.logger.WarnContext(ctx, "notification failed",
				slog.String("sender", sender.Name()),
				slog.String("error", err.Error()),
			)
		}
	}
}

func validateShipping(a domain.Address) error {
	switch {
	case a.Name == "":
		return apperrors.InvalidInput("shipping name is required")
	case a.Phone == "":
		return apperrors.InvalidInput("shipping phone is required")
	case a.Address == "":
		return apperrors.InvalidInput("shipping address is required")
	case a.City == "":
		return apperrors.InvalidInput("shipping city is required")
	case a.State == "":
		return apperrors.InvalidInput("shipping state is required")
	case a.Pincode == "":
		return apperrors.InvalidInput("shipping pincode is required")
	}
	return nil
}
