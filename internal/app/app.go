package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/mukesh2644009/darshan-style-hub-sub000/internal/config"
	"github.com/mukesh2644009/darshan-style-hub-sub000/internal/event"
	handler "github.com/mukesh2644009/darshan-style-hub-sub000/internal/handler/http"
	"github.com/mukesh2644009/darshan-style-hub-sub000/internal/notifier"
	"github.com/mukesh2644009/darshan-style-hub-sub000/internal/ratelimit"
	"github.com/mukesh2644009/darshan-style-hub-sub000/internal/repository/postgres"
	redisrepo "github.com/mukesh2644009/darshan-style-hub-sub000/internal/repository/redis"
	"github.com/mukesh2644009/darshan-style-hub-sub000/internal/service"
	"github.com/mukesh2644009/darshan-style-hub-sub000/migrations"
	"github.com/mukesh2644009/darshan-style-hub-sub000/pkg/database"
	"github.com/mukesh2644009/darshan-style-hub-sub000/pkg/health"
	"github.com/mukesh2644009/darshan-style-hub-sub000/pkg/httpclient"
	pkgkafka "github.com/mukesh2644009/darshan-style-hub-sub000/pkg/kafka"
)

// App wires together all dependencies and runs the storefront.
type App struct {
	cfg         *config.Config
	logger      *slog.Logger
	pool        *pgxpool.Pool
	rdb         *redis.Client
	producer    *pkgkafka.Producer
	authService *service.AuthService
	httpServer  *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize PostgreSQL connection pool.
	pgCfg := database.PostgresConfig{
		Host:            cfg.PostgresHost,
		Port:            cfg.PostgresPort,
		User:            cfg.PostgresUser,
		Password:        cfg.PostgresPass,
		DBName:          cfg.PostgresDB,
		SSLMode:         cfg.PostgresSSL,
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnLifetime: time.Duration(cfg.DBMaxConnLifetimeMins) * time.Minute,
		MaxConnIdleTime: time.Duration(cfg.DBMaxConnIdleTimeMins) * time.Minute,
	}

	pool, err := database.NewPostgresPool(ctx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)

	// Run database migrations.
	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")

	// Initialize Redis for carts and rate limiting.
	rdb, err := database.NewRedisClient(ctx, database.RedisConfig{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis",
		slog.String("host", cfg.RedisHost),
		slog.Int("port", cfg.RedisPort),
	)

	// Initialize Kafka producer.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Build the dependency graph.
	userRepo := postgres.NewUserRepository(pool)
	sessionRepo := postgres.NewSessionRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	messageRepo := postgres.NewMessageRepository(pool)
	cartRepo := redisrepo.NewCartRepository(rdb, redisrepo.DefaultCartTTL)

	limiter := ratelimit.NewRedisStore(rdb)
	eventProducer := event.NewProducer(producer, logger)
	senders := buildSenders(cfg, logger)

	authService := service.NewAuthService(userRepo, sessionRepo, limiter, eventProducer, senders, logger)
	productService := service.NewProductService(productRepo, logger)
	cartService := service.NewCartService(cartRepo, productRepo, logger)
	orderService := service.NewOrderService(orderRepo, productRepo, cartRepo, eventProducer, senders, cfg.OwnerEmail, logger)
	messageService := service.NewMessageService(messageRepo, senders, cfg.OwnerEmail, logger)

	// Bootstrap admin account.
	if err := authService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure admin account: %w", err)
	}

	// Health checks. Kafka is non-critical: the storefront keeps selling
	// when the broker is down, events are just lost.
	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.RegisterCritical("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
	healthHandler.RegisterNonCritical("kafka", func(ctx context.Context) error {
		return producer.Ping(ctx)
	})

	// HTTP router.
	router := handler.NewRouter(handler.RouterConfig{
		AuthService:    authService,
		ProductService: productService,
		CartService:    cartService,
		OrderService:   orderService,
		MessageService: messageService,
		HealthHandler:  healthHandler,
		Logger:         logger,
		SecureCookies:  cfg.SecureCookies,
		CORSOrigins:    cfg.CORSOrigins,
		Environment:    cfg.Environment,
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:         cfg,
		logger:      logger,
		pool:        pool,
		rdb:         rdb,
		producer:    producer,
		authService: authService,
		httpServer:  httpServer,
	}, nil
}

// buildSenders assembles the notification channels enabled by configuration.
func buildSenders(cfg *config.Config, logger *slog.Logger) []notifier.Sender {
	var senders []notifier.Sender

	if cfg.SMTPHost != "" {
		senders = append(senders, notifier.NewEmailSender(notifier.EmailConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		}))
		logger.Info("email notifications enabled", slog.String("smtp_host", cfg.SMTPHost))
	}

	if cfg.WhatsAppGatewayURL != "" {
		baseClient := httpclient.New(httpclient.DefaultConfig())
		cbClient := httpclient.NewCircuitBreakerClient(
			baseClient,
			httpclient.DefaultCircuitBreakerConfig("whatsapp-gateway"),
			logger,
		)
		senders = append(senders, notifier.NewWhatsAppSender(notifier.WhatsAppConfig{
			GatewayURL: cfg.WhatsAppGatewayURL,
			APIKey:     cfg.WhatsAppAPIKey,
		}, cbClient))
		logger.Info("whatsapp notifications enabled")
	}

	return senders
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	go a.purgeSessionsLoop(ctx)

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// purgeSessionsLoop deletes expired sessions on a fixed interval until the
// context is canceled.
func (a *App) purgeSessionsLoop(ctx context.Context) {
	interval := time.Duration(a.cfg.SessionPurgeIntervalMins) * time.Minute
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			purgeCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if err := a.authService.PurgeExpiredSessions(purgeCtx); err != nil {
				a.logger.Error("session purge failed", slog.String("error", err.Error()))
			}
			cancel()
		}
	}
}

// Shutdown gracefully stops all components in the correct order:
// 1. HTTP server (drain in-flight requests)
// 2. Kafka producer
// 3. Redis client
// 4. PostgreSQL pool
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if err := a.rdb.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
