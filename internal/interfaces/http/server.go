// internal/interfaces/http/server.go
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/trippydrip/storefront-backend/internal/config"
	"github.com/trippydrip/storefront-backend/internal/domain/cart"
	"github.com/trippydrip/storefront-backend/internal/domain/checkout"
	"github.com/trippydrip/storefront-backend/internal/domain/order"
	"github.com/trippydrip/storefront-backend/internal/domain/payment"
	"github.com/trippydrip/storefront-backend/internal/domain/product"
	"github.com/trippydrip/storefront-backend/internal/domain/user"
	"github.com/trippydrip/storefront-backend/internal/interfaces/http/handlers"
	"github.com/trippydrip/storefront-backend/internal/interfaces/http/middleware"
	"github.com/trippydrip/storefront-backend/internal/interfaces/http/routes"
	"github.com/trippydrip/storefront-backend/internal/pkg/auth"
	"github.com/trippydrip/storefront-backend/internal/pkg/invoice"
)

// Server wraps the HTTP server and its dependencies
type Server struct {
	config     *config.Config
	logger     *logrus.Logger
	db         *gorm.DB
	redis      *redis.Client
	router     *gin.Engine
	httpServer *http.Server
}

// New creates and wires the HTTP server
func New(cfg *config.Config, logger *logrus.Logger, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	jwtManager := auth.NewJWTManager(&cfg.JWT)

	// Domain services. The product service doubles as the catalog
	// provider for cart and checkout.
	productService := product.NewService(db, cfg)
	cartService := cart.NewService(cart.NewRedisStore(redisClient), productService, cfg)
	orderService := order.NewService(db, cfg)
	userService := user.NewService(db, jwtManager, cfg)
	gateway := payment.NewRazorpayClient(&cfg.External.Razorpay)
	checkoutService := checkout.NewService(
		cartService,
		orderService,
		productService,
		gateway,
		checkout.NewRedisSessionStore(redisClient),
		cfg,
		logger,
	)

	invoiceService, err := invoice.NewService(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create invoice service: %w", err)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORS(&cfg.Security))
	router.Use(middleware.RateLimit(cfg.Security.RateLimitPerMinute, redisClient))
	router.Use(middleware.Timeout(cfg.Server.WriteTimeout))

	server := &Server{
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
		router: router,
	}

	router.GET("/health", server.health)
	router.GET("/ready", server.ready)

	routes.Setup(router, cfg, jwtManager, &routes.Handlers{
		Product:  handlers.NewProductHandler(productService),
		Cart:     handlers.NewCartHandler(cartService),
		Checkout: handlers.NewCheckoutHandler(checkoutService, cfg, logger),
		Auth:     handlers.NewAuthHandler(userService),
		Order:    handlers.NewOrderHandler(orderService, invoiceService),
	})

	server.httpServer = &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return server, nil
}

// Start begins serving requests
func (s *Server) Start() error {
	s.logger.WithFields(logrus.Fields{
		"port": s.config.Server.Port,
		"env":  s.config.App.Environment,
	}).Info("Starting HTTP server")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// health reports liveness
func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"name":    s.config.App.Name,
		"version": s.config.App.Version,
	})
}

// ready reports readiness, checking both backing stores
func (s *Server) ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := gin.H{"database": "ok", "redis": "ok"}
	healthy := true

	if sqlDB, err := s.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		checks["database"] = "unavailable"
		healthy = false
	}
	if err := s.redis.Ping(ctx).Err(); err != nil {
		checks["redis"] = "unavailable"
		healthy = false
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"status": checks})
}
