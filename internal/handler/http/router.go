package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mukesh2644009/darshan-style-hub-sub000/internal/service"
	"github.com/mukesh2644009/darshan-style-hub-sub000/pkg/health"
	"github.com/mukesh2644009/darshan-style-hub-sub000/pkg/middleware"
)

// RouterConfig carries the services and settings the router needs.
type RouterConfig struct {
	AuthService    *service.AuthService
	ProductService *service.ProductService
	CartService    *service.CartService
	OrderService   *service.OrderService
	MessageService *service.MessageService
	HealthHandler  *health.Handler
	Logger         *slog.Logger
	SecureCookies  bool
	CORSOrigins    []string
	Environment    string
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: cfg.CORSOrigins,
		Environment:    cfg.Environment,
	}))

	// Health check endpoints
	r.Get("/health/live", cfg.HealthHandler.LivenessHandler())
	r.Get("/health/ready", cfg.HealthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	authHandler := NewAuthHandler(cfg.AuthService, cfg.SecureCookies, cfg.Logger)
	productHandler := NewProductHandler(cfg.ProductService, cfg.Logger)
	cartHandler := NewCartHandler(cfg.CartService, cfg.Logger)
	orderHandler := NewOrderHandler(cfg.OrderService, cfg.Logger)
	messageHandler := NewMessageHandler(cfg.MessageService, cfg.Logger)
	adminHandler := NewAdminHandler(cfg.ProductService, cfg.OrderService, cfg.AuthService, cfg.MessageService, cfg.Logger)

	sessionAuth := SessionAuth(cfg.AuthService, cfg.Logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		// Public storefront
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/logout", authHandler.Logout)
		r.Get("/products", productHandler.List)
		r.Get("/products/{slug}", productHandler.Get)
		r.Post("/contact", messageHandler.Submit)

		// Logged-in customers
		r.Group(func(r chi.Router) {
			r.Use(sessionAuth)

			r.Get("/auth/me", authHandler.Me)
			r.Put("/auth/me", authHandler.UpdateProfile)

			r.Get("/cart", cartHandler.Get)
			r.Delete("/cart", cartHandler.Clear)
			r.Post("/cart/items", cartHandler.AddItem)
			r.Put("/cart/items/{productID}", cartHandler.UpdateItem)
			r.Delete("/cart/items/{productID}", cartHandler.RemoveItem)

			r.Post("/orders", orderHandler.Checkout)
			r.Get("/orders", orderHandler.List)
			r.Get("/orders/{id}", orderHandler.Get)
			r.Post("/orders/{id}/cancel", orderHandler.Cancel)
		})

		// Store management
		r.Route("/admin", func(r chi.Router) {
			r.Use(sessionAuth)
			r.Use(RequireAdmin)

			r.Post("/products", adminHandler.CreateProduct)
			r.Get("/products", adminHandler.ListProducts)
			r.Get("/products/{id}", adminHandler.GetProduct)
			r.Put("/products/{id}", adminHandler.UpdateProduct)
			r.Delete("/products/{id}", adminHandler.DeleteProduct)

			r.Get("/orders", adminHandler.ListOrders)
			r.Get("/orders/{id}", adminHandler.GetOrder)
			r.Put("/orders/{id}/status", adminHandler.UpdateOrderStatus)
			r.Post("/orders/{id}/paid", adminHandler.MarkOrderPaid)

			r.Get("/customers", adminHandler.ListCustomers)

			r.Get("/messages", adminHandler.ListMessages)
			r.Put("/messages/{id}/read", adminHandler.MarkMessageRead)
			r.Delete("/messages/{id}", adminHandler.DeleteMessage)
		})
	})

	return r
}
