package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mukesh2644009/darshan-style-hub-sub000/internal/repository"
	"github.com/mukesh2644009/darshan-style-hub-sub000/internal/service"
	"github.com/mukesh2644009/darshan-style-hub-sub000/pkg/httputil"
	"github.com/mukesh2644009/darshan-style-hub-sub000/pkg/pagination"
	"github.com/mukesh2644009/darshan-style-hub-sub000/pkg/validator"
)

// AdminHandler handles the store management endpoints. All routes here sit
// behind SessionAuth and RequireAdmin.
type AdminHandler struct {
	products *service.ProductService
	orders   *service.OrderService
	auth     *service.AuthService
	messages *service.MessageService
	logger   *slog.Logger
}

// NewAdminHandler creates a new admin HTTP handler.
func NewAdminHandler(
	products *service.ProductService,
	orders *service.OrderService,
	auth *service.AuthService,
	messages *service.MessageService,
	logger *slog.Logger,
) *AdminHandler {
	return &AdminHandler{
		products: products,
		orders:   orders,
		auth:     auth,
		messages: messages,
		logger:   logger,
	}
}

// --- Request DTOs ---

// CreateProductRequest is the JSON request body for adding a catalog item.
type CreateProductRequest struct {
	SKU          string   `json:"sku" validate:"required,min=1,max=50"`
	Name         string   `json:"name" validate:"required,min=1,max=200"`
	Description  string   `json:"description" validate:"omitempty,max=5000"`
	Category     string   `json:"category" validate:"omitempty,max=100"`
	Price        int64    `json:"price" validate:"required,gte=0"`
	ComparePrice int64    `json:"compare_price" validate:"gte=0"`
	Stock        int      `json:"stock" validate:"gte=0"`
	ImageURLs    []string `json:"image_urls" validate:"omitempty,dive,url"`
	Sizes        []string `json:"sizes" validate:"omitempty,dive,min=1,max=10"`
}

// UpdateProductRequest is the JSON request body for modifying a catalog item.
type UpdateProductRequest struct {
	Name         *string  `json:"name" validate:"omitempty,min=1,max=200"`
	Description  *string  `json:"description" validate:"omitempty,max=5000"`
	Category     *string  `json:"category" validate:"omitempty,max=100"`
	Price        *int64   `json:"price" validate:"omitempty,gte=0"`
	ComparePrice *int64   `json:"compare_price" validate:"omitempty,gte=0"`
	Stock        *int     `json:"stock" validate:"omitempty,gte=0"`
	ImageURLs    []string `json:"image_urls" validate:"omitempty,dive,url"`
	Sizes        []string `json:"sizes" validate:"omitempty,dive,min=1,max=10"`
	Active       *bool    `json:"active"`
}

// UpdateOrderStatusRequest is the JSON request body for moving an order
// along the fulfilment flow.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed shipped delivered cancelled"`
}

// --- Product handlers ---

// CreateProduct handles POST /api/v1/admin/products
func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.products.Create(r.Context(), service.CreateProductInput{
		SKU:          req.SKU,
		Name:         req.Name,
		Description:  req.Description,
		Category:     req.Category,
		Price:        req.Price,
		ComparePrice: req.ComparePrice,
		Stock:        req.Stock,
		ImageURLs:    req.ImageURLs,
		Sizes:        req.Sizes,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: product})
}

// ListProducts handles GET /api/v1/admin/products. Unlike the storefront
// listing, inactive products are included.
func (h *AdminHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	filter := repository.ProductFilter{
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("search"),
	}
	params := pagination.FromRequest(r)

	products, total, err := h.products.List(r.Context(), filter, params)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, pagination.NewResult(products, total, params))
}

// GetProduct handles GET /api/v1/admin/products/{id}
func (h *AdminHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// UpdateProduct handles PUT /api/v1/admin/products/{id}
func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.products.Update(r.Context(), chi.URLParam(r, "id"), service.UpdateProductInput{
		Name:         req.Name,
		Description:  req.Description,
		Category:     req.Category,
		Price:        req.Price,
		ComparePrice: req.ComparePrice,
		Stock:        req.Stock,
		ImageURLs:    req.ImageURLs,
		Sizes:        req.Sizes,
		Active:       req.Active,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// DeleteProduct handles DELETE /api/v1/admin/products/{id}
func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.products.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- Order handlers ---

// ListOrders handles GET /api/v1/admin/orders
func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)

	orders, total, err := h.orders.ListAll(r.Context(), r.URL.Query().Get("status"), params)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, pagination.NewResult(orders, total, params))
}

// GetOrder handles GET /api/v1/admin/orders/{id}
func (h *AdminHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		httputil.WriteJSON(w, http.StatusUnauthorized, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "UNAUTHORIZED", Message: "authentication required"},
		})
		return
	}

	order, err := h.orders.Get(r.Context(), chi.URLParam(r, "id"), user)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: order})
}

// UpdateOrderStatus handles PUT /api/v1/admin/orders/{id}/status
func (h *AdminHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req UpdateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	order, err := h.orders.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: order})
}

// MarkOrderPaid handles POST /api/v1/admin/orders/{id}/paid
func (h *AdminHandler) MarkOrderPaid(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.MarkPaid(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: order})
}

// --- Customer handlers ---

// ListCustomers handles GET /api/v1/admin/customers
func (h *AdminHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)

	customers, total, err := h.auth.ListCustomers(r.Context(), params)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, pagination.NewResult(customers, total, params))
}

// --- Message handlers ---

// ListMessages handles GET /api/v1/admin/messages
func (h *AdminHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)
	unreadOnly := r.URL.Query().Get("unread") == "true"

	messages, total, err := h.messages.List(r.Context(), unreadOnly, params)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, pagination.NewResult(messages, total, params))
}

// MarkMessageRead handles PUT /api/v1/admin/messages/{id}/read
func (h *AdminHandler) MarkMessageRead(w http.ResponseWriter, r *http.Request) {
	if err := h.messages.MarkRead(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteMessage handles DELETE /api/v1/admin/messages/{id}
func (h *AdminHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	if err := h.messages.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
