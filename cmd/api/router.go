package main

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"greencart-backend/internal/shared/middleware"
	"greencart-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	// Anonymous carts ride on a session cookie.
	sessionConfig := middleware.DefaultSessionConfig()
	if os.Getenv("APP_ENV") == "development" {
		sessionConfig.CookieSecure = false
	}

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c)
		setupUserRoutes(v1, c)
		setupCatalogRoutes(v1, c)
		setupCartRoutes(v1, c, sessionConfig)
		setupWishlistRoutes(v1, c)
		setupOrderRoutes(v1, c)
		setupPromotionRoutes(v1, c)
		setupReviewRoutes(v1, c)
	}

	return router
}

// ========================================
// AUTH ROUTES
// ========================================
func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := v1.Group("/auth")
	{
		auth.POST("/register", c.UserHandler.Register)
		auth.POST("/login", c.UserHandler.Login)
		auth.POST("/refresh", c.UserHandler.RefreshToken)
		auth.GET("/verify-email", c.UserHandler.VerifyEmail)
	}
}

// ========================================
// USER ROUTES
// ========================================
func setupUserRoutes(v1 *gin.RouterGroup, c *container.Container) {
	users := v1.Group("/users")
	users.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		users.GET("/me", c.UserHandler.GetProfile)
		users.PUT("/me", c.UserHandler.UpdateProfile)

		users.GET("/me/addresses", c.UserHandler.ListAddresses)
		users.POST("/me/addresses", c.UserHandler.CreateAddress)
		users.PUT("/me/addresses/:id", c.UserHandler.UpdateAddress)
		users.DELETE("/me/addresses/:id", c.UserHandler.DeleteAddress)
		users.POST("/me/addresses/:id/default", c.UserHandler.SetDefaultAddress)
	}
}

// ========================================
// CATALOG ROUTES
// ========================================
// Reads are public; writes are staff only.
func setupCatalogRoutes(v1 *gin.RouterGroup, c *container.Container) {
	adminOnly := []gin.HandlerFunc{
		middleware.AuthMiddleware(c.JWTManager),
		middleware.AdminMiddleware(),
	}

	categories := v1.Group("/categories")
	{
		categories.GET("", c.CatalogHandler.ListCategories)
		categories.GET("/:slug", c.CatalogHandler.GetCategory)
		categories.POST("", append(adminOnly, c.CatalogHandler.CreateCategory)...)
		categories.PUT("/:slug", append(adminOnly, c.CatalogHandler.UpdateCategory)...)
		categories.DELETE("/:slug", append(adminOnly, c.CatalogHandler.DeleteCategory)...)
	}

	brands := v1.Group("/brands")
	{
		brands.GET("", c.CatalogHandler.ListBrands)
		brands.GET("/:slug", c.CatalogHandler.GetBrand)
		brands.POST("", append(adminOnly, c.CatalogHandler.CreateBrand)...)
		brands.PUT("/:slug", append(adminOnly, c.CatalogHandler.UpdateBrand)...)
		brands.DELETE("/:slug", append(adminOnly, c.CatalogHandler.DeleteBrand)...)
	}

	tags := v1.Group("/tags")
	{
		tags.GET("", c.CatalogHandler.ListTags)
		tags.POST("", append(adminOnly, c.CatalogHandler.CreateTag)...)
		tags.DELETE("/:slug", append(adminOnly, c.CatalogHandler.DeleteTag)...)
	}

	products := v1.Group("/products")
	{
		products.GET("", c.CatalogHandler.ListProducts)
		products.GET("/:slug", c.CatalogHandler.GetProduct)
		products.POST("", append(adminOnly, c.CatalogHandler.CreateProduct)...)
		products.PUT("/:slug", append(adminOnly, c.CatalogHandler.UpdateProduct)...)
		products.DELETE("/:slug", append(adminOnly, c.CatalogHandler.DeleteProduct)...)
	}
}

// ========================================
// CART ROUTES
// ========================================
// The cart works for both authenticated users and anonymous sessions,
// so auth is optional and the session cookie fills the gap.
func setupCartRoutes(v1 *gin.RouterGroup, c *container.Container, sessionConfig middleware.SessionConfig) {
	cart := v1.Group("/cart")
	cart.Use(
		middleware.OptionalAuthMiddleware(c.JWTManager),
		middleware.SessionMiddleware(sessionConfig),
	)
	{
		cart.GET("", c.CartHandler.GetMyCart)
		cart.POST("/items", c.CartHandler.AddItem)
		cart.PUT("/items", c.CartHandler.UpdateQuantity)
		cart.DELETE("/items", c.CartHandler.RemoveItem)
		cart.DELETE("", c.CartHandler.Clear)
	}
}

// ========================================
// WISHLIST ROUTES
// ========================================
func setupWishlistRoutes(v1 *gin.RouterGroup, c *container.Container) {
	wishlist := v1.Group("/wishlist")
	{
		// Public wishlists are readable without auth.
		wishlist.GET("/public/:user_id", c.WishlistHandler.GetPublicWishlist)

		authed := wishlist.Group("")
		authed.Use(middleware.AuthMiddleware(c.JWTManager))
		{
			authed.GET("", c.WishlistHandler.GetMyWishlist)
			authed.PATCH("/visibility", c.WishlistHandler.SetVisibility)
			authed.POST("/items", c.WishlistHandler.AddItem)
			authed.DELETE("/items/:id", c.WishlistHandler.RemoveItem)
			authed.POST("/items/:id/move-to-cart", c.WishlistHandler.MoveToCart)
		}
	}
}

// ========================================
// ORDER ROUTES
// ========================================
func setupOrderRoutes(v1 *gin.RouterGroup, c *container.Container) {
	orders := v1.Group("/orders")
	orders.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		orders.POST("/create", c.OrderHandler.Create)
		orders.GET("", c.OrderHandler.List)
		orders.GET("/:id", c.OrderHandler.Get)
		orders.POST("/:id/cancel", c.OrderHandler.Cancel)
		orders.PATCH("/:id/status", middleware.AdminMiddleware(), c.OrderHandler.UpdateStatus)
	}
}

// ========================================
// PROMOTION ROUTES
// ========================================
func setupPromotionRoutes(v1 *gin.RouterGroup, c *container.Container) {
	promotions := v1.Group("/promotions")
	{
		promotions.GET("", c.PromotionHandler.List)
		promotions.GET("/:id", c.PromotionHandler.Get)
		promotions.POST("/apply", middleware.AuthMiddleware(c.JWTManager), c.PromotionHandler.Apply)

		admin := promotions.Group("")
		admin.Use(middleware.AuthMiddleware(c.JWTManager), middleware.AdminMiddleware())
		{
			admin.POST("", c.PromotionHandler.Create)
			admin.PUT("/:id", c.PromotionHandler.Update)
			admin.DELETE("/:id", c.PromotionHandler.Delete)
		}
	}
}

// ========================================
// REVIEW ROUTES
// ========================================
func setupReviewRoutes(v1 *gin.RouterGroup, c *container.Container) {
	reviews := v1.Group("/reviews")
	{
		reviews.GET("", middleware.OptionalAuthMiddleware(c.JWTManager), c.ReviewHandler.ListByProduct)
		reviews.GET("/:id", c.ReviewHandler.Get)

		authed := reviews.Group("")
		authed.Use(middleware.AuthMiddleware(c.JWTManager))
		{
			authed.POST("", c.ReviewHandler.Create)
			authed.GET("/me", c.ReviewHandler.ListMine)
			authed.PATCH("/:id", c.ReviewHandler.Update)
			authed.POST("/:id/mark-helpful", c.ReviewHandler.MarkHelpful)

			admin := authed.Group("")
			admin.Use(middleware.AdminMiddleware())
			{
				admin.POST("/:id/approve", c.ReviewHandler.Approve)
				admin.POST("/:id/reject", c.ReviewHandler.Reject)
			}
		}
	}
}

// ========================================
// HEALTH CHECK
// ========================================
func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		status := http.StatusOK
		checks := gin.H{"database": "ok", "cache": "ok"}

		if err := c.DB.HealthCheck(ctx.Request.Context()); err != nil {
			status = http.StatusServiceUnavailable
			checks["database"] = err.Error()
		}
		if err := c.Cache.Ping(ctx.Request.Context()); err != nil {
			// Degraded, not down: the API works without the cache.
			checks["cache"] = err.Error()
		}

		ctx.JSON(status, gin.H{
			"status":  http.StatusText(status),
			"version": c.Config.App.Version,
			"checks":  checks,
		})
	}
}
