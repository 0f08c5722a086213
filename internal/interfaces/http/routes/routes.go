// internal/interfaces/http/routes/routes.go
package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/trippydrip/storefront-backend/internal/config"
	"github.com/trippydrip/storefront-backend/internal/interfaces/http/handlers"
	"github.com/trippydrip/storefront-backend/internal/interfaces/http/middleware"
	"github.com/trippydrip/storefront-backend/internal/pkg/auth"
)

// Handlers bundles every handler the router mounts
type Handlers struct {
	Product  *handlers.ProductHandler
	Cart     *handlers.CartHandler
	Checkout *handlers.CheckoutHandler
	Auth     *handlers.AuthHandler
	Order    *handlers.OrderHandler
}

// Setup mounts all API routes
func Setup(router *gin.Engine, cfg *config.Config, jwtManager *auth.JWTManager, h *Handlers) {
	api := router.Group("/api/v1")

	// Public catalog
	products := api.Group("/products")
	products.Use(middleware.OptionalAuth(jwtManager))
	{
		products.GET("", h.Product.GetProducts)
		products.GET("/:id", h.Product.GetProduct)
	}

	// Cart, keyed by session, no account needed
	cart := api.Group("/cart")
	cart.Use(middleware.OptionalAuth(jwtManager), middleware.Session())
	{
		cart.GET("", h.Cart.GetCart)
		cart.GET("/count", h.Cart.GetCount)
		cart.POST("/items", h.Cart.AddItem)
		cart.PUT("/items/:productId", h.Cart.UpdateItem)
		cart.DELETE("/items/:productId", h.Cart.RemoveItem)
		cart.DELETE("", h.Cart.ClearCart)
	}

	// Accounts
	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", h.Auth.Register)
		authRoutes.POST("/login", h.Auth.Login)
		authRoutes.POST("/refresh", h.Auth.Refresh)
		authRoutes.POST("/logout", middleware.RequireAuth(jwtManager), h.Auth.Logout)
		authRoutes.GET("/me", middleware.RequireAuth(jwtManager), h.Auth.Me)
		authRoutes.GET("/profile", middleware.RequireAuth(jwtManager), h.Auth.Me)
		authRoutes.PUT("/profile", middleware.RequireAuth(jwtManager), h.Auth.UpdateProfile)
	}

	// Checkout requires both an account and the cart session
	payments := api.Group("/payments")
	payments.Use(middleware.RequireAuth(jwtManager), middleware.Session())
	{
		payments.POST("/create-order", h.Checkout.CreateOrder)
		payments.POST("/verify", h.Checkout.VerifyPayment)
		payments.POST("/cancel", h.Checkout.Cancel)
		payments.GET("/status", h.Checkout.Status)
	}

	// Gateway webhook, authenticated by signature alone
	api.POST("/webhooks/razorpay", h.Checkout.Webhook)

	// Order history
	orders := api.Group("/orders")
	orders.Use(middleware.RequireAuth(jwtManager))
	{
		orders.GET("", h.Order.ListOrders)
		orders.GET("/:id", h.Order.GetOrder)
		orders.GET("/:id/invoice", h.Order.GetReceipt)
	}

	// Admin catalog management
	admin := api.Group("/admin")
	admin.Use(middleware.AdminAuth(&cfg.External.Admin))
	{
		admin.GET("/session", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "Admin session valid"})
		})
		admin.GET("/products", h.Product.GetProducts)
		admin.POST("/products", h.Product.CreateProduct)
		admin.PUT("/products/:id", h.Product.UpdateProduct)
		admin.DELETE("/products/:id", h.Product.DeleteProduct)
	}
}
